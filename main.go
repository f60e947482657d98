// gprof-scatter: plot a gprof flat profile as a calls-vs-time scatter chart.
//
// Usage:
//
//	gprof-scatter [flags] <report>
//	gprof-scatter <command> [flags] <report>
//
// Input is the text written by `gprof <binary> gmon.out` (optionally .gz, or
// - for stdin). Only the flat profile section is read.
//
// Commands: hot, info, diff, collapse, pprof
package main

import (
	"fmt"
	"io/fs"
	"os"
	"runtime/debug"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	errUsage  = errors.New("usage")
	errNoData = errors.New("no profile data found")
)

// app carries what every command needs once flags are parsed.
type app struct {
	tuning tuning
	filter *recordFilter
	log    *zap.Logger
}

// load parses the report at path and applies the record filter. A report
// that yields nothing is errNoData.
func (a *app) load(path string) (*flatProfile, error) {
	fp, err := openInput(path, a.tuning)
	if err != nil {
		return nil, err
	}
	if fp.skipped > 0 {
		a.log.Debug("skipped malformed rows", zap.String("file", path), zap.Int("rows", fp.skipped))
	}
	parsed := len(fp.records)
	fp.records, err = a.filter.apply(fp.records)
	if err != nil {
		return nil, err
	}
	if a.filter.active() {
		a.log.Debug("filtered records", zap.Int("parsed", parsed), zap.Int("kept", len(fp.records)))
	}
	if len(fp.records) == 0 {
		return nil, errNoData
	}
	return fp, nil
}

// ---------------------------------------------------------------------------
// CLI
// ---------------------------------------------------------------------------

const longUsage = `gprof-scatter plots a gprof flat profile: one point per function, x = number
of calls (log scale), y = % CPU time, marker size = time% * log10(calls+1).
Functions above 2% CPU time are labeled.

Outputs scatter_plot.png (300 DPI) and scatter_plot.pdf in the working
directory and opens the PNG in the default viewer.

Input: gprof text output (the file written by "gprof <binary> gmon.out").
.gz files are decompressed; "-" reads stdin.

Examples:
  gprof-scatter profile_report.txt
  gprof-scatter --no-show --layout avoid profile_report.txt
  gprof-scatter hot profile_report.txt --top 20
  gprof-scatter info profile_report.txt
  gprof-scatter diff before.txt after.txt --min-delta 0.5
  gprof-scatter pprof profile_report.txt -o profile.pb.gz
  gprof-scatter --where 'calls > 1000 and pct >= 1' profile_report.txt`

type rootOptions struct {
	method  string
	where   string
	config  string
	verbose bool

	png    string
	pdf    string
	noShow bool
	layout string
}

// requireArgs is cobra.ExactArgs with our usage handling: print usage, exit 2.
func requireArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != n {
			cmd.Usage()
			return errUsage
		}
		return nil
	}
}

func newRootCmd(a *app) *cobra.Command {
	var opts rootOptions

	root := &cobra.Command{
		Use:           "gprof-scatter [flags] <report>",
		Short:         "Scatter plot of a gprof flat profile",
		Long:          longUsage,
		Args:          requireArgs(1),
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			t, err := loadTuning(opts.config)
			if err != nil {
				return err
			}
			f, err := newRecordFilter(opts.method, opts.where)
			if err != nil {
				return err
			}
			log, err := newLogger(opts.verbose)
			if err != nil {
				return errors.Wrap(err, "logger")
			}
			a.tuning, a.filter, a.log = t, f, log
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, err := parseLayout(opts.layout)
			if err != nil {
				return err
			}
			return a.cmdPlot(args[0], plotOptions{
				pngPath: opts.png,
				pdfPath: opts.pdf,
				show:    !opts.noShow,
				layout:  mode,
			})
		},
	}
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		cmd.Usage()
		return errUsage
	})

	pf := root.PersistentFlags()
	pf.StringVarP(&opts.method, "method", "m", "", "keep only functions whose name contains this substring")
	pf.StringVar(&opts.where, "where", "", "keep only functions for which this Starlark expression is true (name, pct, calls, self, cumulative)")
	pf.StringVar(&opts.config, "config", "", "YAML file overriding thresholds and factors")
	pf.BoolVarP(&opts.verbose, "verbose", "v", false, "diagnostic logging on stderr")

	f := root.Flags()
	f.StringVar(&opts.png, "png", "scatter_plot.png", "raster output path")
	f.StringVar(&opts.pdf, "pdf", "scatter_plot.pdf", "vector output path")
	f.BoolVar(&opts.noShow, "no-show", false, "do not open the plot in a viewer")
	f.StringVar(&opts.layout, "layout", string(layoutEdge), "label layout: edge (default heuristic) or avoid (also dodges other labels)")

	root.AddCommand(
		newHotCmd(a),
		newInfoCmd(a),
		newDiffCmd(a),
		newCollapseCmd(a),
		newPprofCmd(a),
	)
	return root
}

func newHotCmd(a *app) *cobra.Command {
	var top int
	var assertBelow float64
	cmd := &cobra.Command{
		Use:   "hot <report>",
		Short: "Rank plottable functions by impact",
		Args:  requireArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.cmdHot(args[0], top, assertBelow)
		},
	}
	cmd.Flags().IntVar(&top, "top", 10, "limit output rows (0 = all)")
	cmd.Flags().Float64Var(&assertBelow, "assert-below", 0, "exit 1 if the top function's time% >= this (for CI gates)")
	return cmd
}

func newInfoCmd(a *app) *cobra.Command {
	var top int
	cmd := &cobra.Command{
		Use:   "info <report>",
		Short: "One-shot triage: counts, sample period, top functions",
		Args:  requireArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.cmdInfo(args[0], top)
		},
	}
	cmd.Flags().IntVar(&top, "top", 10, "functions to list")
	return cmd
}

func newDiffCmd(a *app) *cobra.Command {
	var top int
	var minDelta float64
	cmd := &cobra.Command{
		Use:   "diff <before> <after>",
		Short: "Compare two reports: REGRESSION / IMPROVEMENT / NEW / GONE",
		Args:  requireArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.cmdDiff(args[0], args[1], minDelta, top)
		},
	}
	cmd.Flags().Float64Var(&minDelta, "min-delta", 0.5, "hide entries below this time% change")
	cmd.Flags().IntVar(&top, "top", 0, "limit rows per section (0 = all)")
	return cmd
}

func newCollapseCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "collapse <report>",
		Short: "Emit single-frame collapsed-stack text",
		Args:  requireArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.cmdCollapse(args[0])
		},
	}
}

func newPprofCmd(a *app) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "pprof <report>",
		Short: "Convert the flat profile to a pprof protobuf",
		Args:  requireArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.cmdPprof(args[0], out)
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "profile.pb.gz", "output path")
	return cmd
}

// ---------------------------------------------------------------------------
// main
// ---------------------------------------------------------------------------

// run executes the command line and returns the process exit code.
func run(args []string) (code int) {
	a := &app{log: zap.NewNop()}
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %v\n%s", r, debug.Stack())
			code = 1
		}
		_ = a.log.Sync()
	}()

	if args == nil {
		// cobra falls back to os.Args for a nil slice.
		args = []string{}
	}
	root := newRootCmd(a)
	root.SetArgs(args)
	return exitCode(root.Execute())
}

// exitCode reports err to the user and maps it to an exit status.
func exitCode(err error) int {
	var pathErr *fs.PathError
	switch {
	case err == nil:
		return 0
	case errors.Is(err, errUsage):
		return 2
	case errors.Is(err, errNoPlottable):
		fmt.Println("No valid call data to plot")
		return 0
	case errors.Is(err, errNoData):
		fmt.Fprintln(os.Stderr, "ERROR: No profile data found in file")
		fmt.Fprintln(os.Stderr, "Make sure you're providing the gprof output file (profile_report.txt)")
		return 1
	case errors.Is(err, fs.ErrNotExist) && errors.As(err, &pathErr):
		fmt.Fprintf(os.Stderr, "ERROR: File not found: %s\n", pathErr.Path)
		return 1
	default:
		fmt.Fprintf(os.Stderr, "ERROR: %v\n%+v\n", err, err)
		return 1
	}
}

func main() {
	os.Exit(run(os.Args[1:]))
}

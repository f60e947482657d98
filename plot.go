package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type plotOptions struct {
	pngPath string
	pdfPath string
	show    bool
	layout  layoutMode
}

// scatter is everything the renderer needs for one report.
type scatter struct {
	points   []point
	labels   []labelPlacement
	axes     axes
	excluded []profileRecord // parsed but never called
}

// prepareScatter scores records and places labels. It returns errNoPlottable
// when no record has a call count.
func prepareScatter(records []profileRecord, t tuning, mode layoutMode) (*scatter, error) {
	points, err := score(records, t)
	if err != nil {
		return nil, err
	}
	_, excluded := eligible(records)
	ax := plotAxes(points, t.XMargin)
	return &scatter{
		points:   points,
		labels:   layout(points, ax, t, mode, dataArea),
		axes:     ax,
		excluded: excluded,
	}, nil
}

func (a *app) cmdPlot(path string, opts plotOptions) error {
	fmt.Printf("Reading profile data from: %s\n", path)
	fp, err := a.load(path)
	if err != nil {
		return err
	}
	fmt.Printf("Found %d functions in profile\n", len(fp.records))

	sc, err := prepareScatter(fp.records, a.tuning, opts.layout)
	if err != nil {
		return err
	}
	if n := len(sc.excluded); n > 0 {
		fmt.Printf("Excluded %d functions with no recorded calls\n", n)
		for _, r := range sc.excluded {
			a.log.Debug("excluded from plot", zap.String("name", r.name), zap.Float64("pct", r.timePct))
		}
	}
	a.log.Debug("scored",
		zap.Int("points", len(sc.points)),
		zap.Int("labels", len(sc.labels)),
		zap.String("layout", string(opts.layout)),
		zap.Float64("x_lo", sc.axes.xLo),
		zap.Float64("x_hi", sc.axes.xHi),
	)

	start := time.Now()
	fig, err := buildFigure(sc.points, sc.labels, sc.axes, a.tuning)
	if err != nil {
		return errors.Wrap(err, "build figure")
	}
	if err := saveFile(opts.pngPath, func(w io.Writer) error { return writePNG(fig, w) }); err != nil {
		return err
	}
	fmt.Printf("\nSaved scatter plot to: %s (%d DPI)\n", opts.pngPath, rasterDPI)
	if err := saveFile(opts.pdfPath, func(w io.Writer) error { return writePDF(fig, w) }); err != nil {
		return err
	}
	fmt.Printf("Saved vector version to: %s\n", opts.pdfPath)
	a.log.Debug("rendered", zap.Duration("elapsed", time.Since(start)))

	if opts.show {
		if err := openViewer(opts.pngPath); err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not open viewer: %v\n", err)
		}
	}
	return nil
}

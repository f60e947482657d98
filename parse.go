package main

import (
	"bufio"
	"compress/gzip"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ---------------------------------------------------------------------------
// Data model
// ---------------------------------------------------------------------------

// profileRecord is one row of a gprof flat profile.
type profileRecord struct {
	name        string
	timePct     float64
	calls       int
	cumSeconds  float64
	selfSeconds float64
}

type flatProfile struct {
	period  float64 // seconds per sample; 0 if the report did not say
	records []profileRecord
	skipped int // candidate rows dropped because a column failed to parse
}

// ---------------------------------------------------------------------------
// Flat profile text → flatProfile
// ---------------------------------------------------------------------------

const (
	flatHeaderMarker = "time   seconds"
	callGraphMarker  = "Call graph"
	minRowTokens     = 7
)

var samplePeriodRe = regexp.MustCompile(`Each sample counts as ([0-9.eE+-]+) seconds`)

// parseFlat scans gprof output and returns the rows of its flat profile
// section whose %time is at least floor. Text without a flat profile yields an
// empty result. Only read errors are returned; malformed rows are skipped.
func parseFlat(r io.Reader, floor float64) (*flatProfile, error) {
	fp := &flatProfile{}
	inSection := false
	err := eachLine(r, func(line string) bool {
		if fp.period == 0 && !inSection {
			if m := samplePeriodRe.FindStringSubmatch(line); m != nil {
				fp.period, _ = strconv.ParseFloat(m[1], 64)
			}
		}

		if strings.Contains(line, flatHeaderMarker) {
			inSection = true
			return true
		}
		if !inSection {
			return true
		}
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, callGraphMarker) {
			return false
		}

		fields := strings.Fields(line)
		if !isDataRow(fields) {
			return true
		}
		rec, err := parseRow(fields)
		if err != nil {
			fp.skipped++
			return true
		}
		if rec.timePct >= floor {
			fp.records = append(fp.records, rec)
		}
		return true
	})
	if err != nil {
		return nil, errors.Wrap(err, "read report")
	}
	return fp, nil
}

// eachLine calls fn for every line of r, without its line ending, until fn
// returns false. Lines of any length are accepted.
func eachLine(r io.Reader, fn func(line string) bool) error {
	br := bufio.NewReaderSize(r, 64*1024)
	for {
		line, err := br.ReadString('\n')
		if err != nil && err != io.EOF {
			return err
		}
		if line != "" || err == nil {
			line = strings.TrimSuffix(strings.TrimSuffix(line, "\n"), "\r")
			if !fn(line) {
				return nil
			}
		}
		if err == io.EOF {
			return nil
		}
	}
}

// isDataRow reports whether fields look like a flat profile data row: enough
// columns and a numeric %time column in front.
func isDataRow(fields []string) bool {
	if len(fields) < minRowTokens {
		return false
	}
	return isDigits(strings.ReplaceAll(fields[0], ".", ""))
}

// parseRow converts the columns %time, cumulative, self, calls, self/call,
// total/call, name into a record.
func parseRow(fields []string) (profileRecord, error) {
	if len(fields) < minRowTokens {
		return profileRecord{}, errors.Errorf("row has %d columns, want at least %d", len(fields), minRowTokens)
	}
	pct, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return profileRecord{}, errors.Wrapf(err, "%%time column %q", fields[0])
	}
	rec := profileRecord{
		name:    strings.Join(fields[6:], " "),
		timePct: pct,
	}
	if isDigits(fields[3]) {
		rec.calls, err = strconv.Atoi(fields[3])
		if err != nil {
			return profileRecord{}, errors.Wrapf(err, "calls column %q", fields[3])
		}
	}
	rec.cumSeconds, _ = strconv.ParseFloat(fields[1], 64)
	rec.selfSeconds, _ = strconv.ParseFloat(fields[2], 64)
	return rec, nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// ---------------------------------------------------------------------------
// Input
// ---------------------------------------------------------------------------

// openReader opens a file for reading, handling gzip and stdin ("-").
func openReader(path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	if strings.HasSuffix(path, ".gz") {
		gr, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, errors.Wrap(err, "gzip")
		}
		return &gzipReadCloser{gz: gr, f: f}, nil
	}
	return f, nil
}

type gzipReadCloser struct {
	gz *gzip.Reader
	f  *os.File
}

func (g *gzipReadCloser) Read(p []byte) (int, error) { return g.gz.Read(p) }
func (g *gzipReadCloser) Close() error {
	g.gz.Close()
	return g.f.Close()
}

// openInput reads and parses the report at path in one go.
func openInput(path string, t tuning) (*flatProfile, error) {
	rc, err := openReader(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return parseFlat(rc, t.NoiseFloor)
}

package main

import (
	"fmt"
	"io"
	"math"

	"github.com/google/pprof/profile"
	"github.com/pkg/errors"
)

// defaultPeriod is gprof's usual sampling interval, used when the report
// does not state one.
const defaultPeriod = 0.01

// toPprof converts a flat profile into a pprof profile with one single-frame
// sample per function. Values are samples, cpu nanoseconds and calls.
func toPprof(fp *flatProfile) (*profile.Profile, error) {
	period := fp.period
	if period <= 0 {
		period = defaultPeriod
	}
	p := &profile.Profile{
		SampleType: []*profile.ValueType{
			{Type: "samples", Unit: "count"},
			{Type: "cpu", Unit: "nanoseconds"},
			{Type: "calls", Unit: "count"},
		},
		DefaultSampleType: "cpu",
		PeriodType:        &profile.ValueType{Type: "cpu", Unit: "nanoseconds"},
		Period:            int64(math.Round(period * 1e9)),
		Comments:          []string{"converted from a gprof flat profile"},
	}

	functions := make(map[string]*profile.Function)
	for _, r := range fp.records {
		fn, ok := functions[r.name]
		if !ok {
			fn = &profile.Function{
				ID:         uint64(len(p.Function) + 1),
				Name:       stripArgs(r.name),
				SystemName: r.name,
			}
			functions[r.name] = fn
			p.Function = append(p.Function, fn)
		}
		loc := &profile.Location{
			ID:   uint64(len(p.Location) + 1),
			Line: []profile.Line{{Function: fn}},
		}
		p.Location = append(p.Location, loc)
		p.Sample = append(p.Sample, &profile.Sample{
			Location: []*profile.Location{loc},
			Value: []int64{
				sampleCount(profileRecord{selfSeconds: r.selfSeconds}, period),
				int64(math.Round(r.selfSeconds * 1e9)),
				int64(r.calls),
			},
			Label: map[string][]string{"time_pct": {fmt.Sprintf("%.2f", r.timePct)}},
		})
	}
	if err := p.CheckValid(); err != nil {
		return nil, errors.Wrap(err, "invalid profile")
	}
	return p, nil
}

func writePprof(fp *flatProfile, w io.Writer) error {
	p, err := toPprof(fp)
	if err != nil {
		return err
	}
	return errors.Wrap(p.Write(w), "encode pprof")
}

func (a *app) cmdPprof(path, out string) error {
	fp, err := a.load(path)
	if err != nil {
		return err
	}
	if err := saveFile(out, func(w io.Writer) error { return writePprof(fp, w) }); err != nil {
		return err
	}
	fmt.Printf("Wrote %d functions to %s\n", len(fp.records), out)
	return nil
}

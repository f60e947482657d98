package main

import (
	"fmt"
	"math"
	"strings"
)

// sampleCount estimates how many profiler ticks landed in r. Without a known
// period or self time the call count stands in.
func sampleCount(r profileRecord, period float64) int64 {
	if period > 0 && r.selfSeconds > 0 {
		return int64(math.Round(r.selfSeconds / period))
	}
	return int64(r.calls)
}

// cmdCollapse prints one single-frame collapsed stack per function. Frames
// are separated by ';' in that format, so any in the name are replaced.
func (a *app) cmdCollapse(path string) error {
	fp, err := a.load(path)
	if err != nil {
		return err
	}
	for _, r := range fp.records {
		n := sampleCount(r, fp.period)
		if n <= 0 {
			continue
		}
		fmt.Printf("%s %d\n", strings.ReplaceAll(r.name, ";", ","), n)
	}
	return nil
}

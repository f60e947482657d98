package main

import (
	"fmt"
	"sort"

	"github.com/pkg/errors"
)

// computeHot returns the plottable points ranked by impact, or errNoPlottable
// when no record has calls.
func computeHot(records []profileRecord, t tuning) ([]point, error) {
	points, err := score(records, t)
	if err != nil {
		return nil, err
	}
	return byImpact(points), nil
}

func printHotTable(ranked []point, top int, showTopN bool) {
	shown := ranked[:truncate(len(ranked), top)]

	if showTopN {
		fmt.Printf("=== RANK BY IMPACT (top %d) ===\n", len(shown))
	} else {
		fmt.Println("=== RANK BY IMPACT ===")
	}
	fmt.Printf("%-42s %7s %12s %8s %7s\n", "FUNCTION", "TIME%", "CALLS", "IMPACT", "SIZE")
	for _, p := range shown {
		fmt.Printf("%-42s %6.2f%% %12d %8.2f %7.1f\n", p.display, p.rec.timePct, p.rec.calls, p.impact, p.size)
	}
}

func (a *app) cmdHot(path string, top int, assertBelow float64) error {
	fp, err := a.load(path)
	if err != nil {
		return err
	}
	ranked, err := computeHot(fp.records, a.tuning)
	if err != nil {
		return err
	}
	printHotTable(ranked, top, false)

	// The gate looks at raw %time, not impact: the hottest function by self time.
	if assertBelow > 0 && len(fp.records) > 0 {
		byTime := make([]profileRecord, len(fp.records))
		copy(byTime, fp.records)
		sort.SliceStable(byTime, func(i, j int) bool { return byTime[i].timePct > byTime[j].timePct })
		if byTime[0].timePct >= assertBelow {
			return errors.Errorf("ASSERT FAILED: %s time=%.1f%% >= threshold %.1f%%", byTime[0].name, byTime[0].timePct, assertBelow)
		}
	}
	return nil
}

package main

import (
	"fmt"
	"math"
	"sort"
)

// timePcts sums %time per function name with the argument list stripped, so
// overloads collapse into one entry.
func timePcts(records []profileRecord) map[string]float64 {
	pcts := make(map[string]float64)
	for _, r := range records {
		pcts[stripArgs(r.name)] += r.timePct
	}
	return pcts
}

type diffEntry struct {
	name   string
	before float64
	after  float64
	delta  float64
}

type diffResult struct {
	regressions, improvements, added, gone []diffEntry
}

func computeDiff(before, after []profileRecord, minDelta float64) diffResult {
	beforePct := timePcts(before)
	afterPct := timePcts(after)

	allNames := make(map[string]bool)
	for n := range beforePct {
		allNames[n] = true
	}
	for n := range afterPct {
		allNames[n] = true
	}

	var res diffResult
	for n := range allNames {
		b, inBefore := beforePct[n]
		a, inAfter := afterPct[n]
		delta := a - b

		switch {
		case inBefore && inAfter:
			if math.Abs(delta) < minDelta {
				continue
			}
			if delta > 0 {
				res.regressions = append(res.regressions, diffEntry{n, b, a, delta})
			} else {
				res.improvements = append(res.improvements, diffEntry{n, b, a, delta})
			}
		case inAfter:
			if a >= minDelta {
				res.added = append(res.added, diffEntry{n, 0, a, a})
			}
		default:
			if b >= minDelta {
				res.gone = append(res.gone, diffEntry{n, b, 0, -b})
			}
		}
	}

	byKey := func(es []diffEntry, key func(diffEntry) float64) {
		sort.Slice(es, func(i, j int) bool {
			if ki, kj := key(es[i]), key(es[j]); ki != kj {
				return ki > kj
			}
			return es[i].name < es[j].name
		})
	}
	byKey(res.regressions, func(e diffEntry) float64 { return e.delta })
	byKey(res.improvements, func(e diffEntry) float64 { return -e.delta })
	byKey(res.added, func(e diffEntry) float64 { return e.after })
	byKey(res.gone, func(e diffEntry) float64 { return e.before })
	return res
}

func (a *app) cmdDiff(beforePath, afterPath string, minDelta float64, top int) error {
	before, err := a.load(beforePath)
	if err != nil {
		return err
	}
	after, err := a.load(afterPath)
	if err != nil {
		return err
	}
	printDiff(computeDiff(before.records, after.records, minDelta), top)
	return nil
}

func printDiff(res diffResult, top int) {
	regressions := res.regressions[:truncate(len(res.regressions), top)]
	improvements := res.improvements[:truncate(len(res.improvements), top)]
	added := res.added[:truncate(len(res.added), top)]
	gone := res.gone[:truncate(len(res.gone), top)]

	anyOutput := false

	if len(regressions) > 0 {
		fmt.Println("REGRESSION")
		for _, e := range regressions {
			fmt.Printf("  %-50s %5.1f%% -> %5.1f%%  (+%.1f%%)\n", e.name, e.before, e.after, e.delta)
		}
		anyOutput = true
	}
	if len(improvements) > 0 {
		fmt.Println("IMPROVEMENT")
		for _, e := range improvements {
			fmt.Printf("  %-50s %5.1f%% -> %5.1f%%  (%.1f%%)\n", e.name, e.before, e.after, e.delta)
		}
		anyOutput = true
	}
	if len(added) > 0 {
		fmt.Println("NEW")
		for _, e := range added {
			fmt.Printf("  %-50s %.1f%%\n", e.name, e.after)
		}
		anyOutput = true
	}
	if len(gone) > 0 {
		fmt.Println("GONE")
		for _, e := range gone {
			fmt.Printf("  %-50s %.1f%%\n", e.name, e.before)
		}
		anyOutput = true
	}

	if !anyOutput {
		fmt.Println("no significant changes")
	}
}

package main

import (
	"fmt"
)

func (a *app) cmdInfo(path string, topFuncs int) error {
	fp, err := a.load(path)
	if err != nil {
		return err
	}

	fmt.Println("=== REPORT ===")
	fmt.Printf("%-24s %s\n", "file", path)
	if fp.period > 0 {
		fmt.Printf("%-24s %gs\n", "sample period", fp.period)
	} else {
		fmt.Printf("%-24s %s\n", "sample period", "unknown")
	}
	plot, excluded := eligible(fp.records)
	fmt.Printf("%-24s %d\n", "functions", len(fp.records))
	fmt.Printf("%-24s %d\n", "plottable", len(plot))
	fmt.Printf("%-24s %d\n", "no recorded calls", len(excluded))
	fmt.Printf("%-24s %d\n", "malformed rows", fp.skipped)

	total := 0.0
	for _, r := range fp.records {
		total += r.timePct
	}
	fmt.Printf("%-24s %.2f%%\n", "time covered", total)

	points, err := score(fp.records, a.tuning)
	if err != nil {
		fmt.Println()
		fmt.Println("no valid call data to plot")
		return nil
	}
	labeled := 0
	for _, p := range points {
		if p.labeled {
			labeled++
		}
	}
	fmt.Printf("%-24s %d (time > %.1f%%)\n", "labeled", labeled, a.tuning.LabelThreshold)

	fmt.Println()
	printHotTable(byImpact(points), topFuncs, true)
	return nil
}

package main

import (
	"math"
	"sort"

	"github.com/pkg/errors"
)

var errNoPlottable = errors.New("no valid call data to plot")

// point is a record prepared for the scatter plot.
type point struct {
	rec     profileRecord
	display string
	impact  float64
	size    float64 // marker area, renderer units
	labeled bool
}

// eligible splits records into those with a positive call count and the rest.
// Input order is kept in both halves.
func eligible(records []profileRecord) (plot, excluded []profileRecord) {
	for _, r := range records {
		if r.calls > 0 {
			plot = append(plot, r)
		} else {
			excluded = append(excluded, r)
		}
	}
	return plot, excluded
}

// impactOf weighs time share by the order of magnitude of the call count.
func impactOf(r profileRecord) float64 {
	return r.timePct * math.Log10(float64(r.calls)+1)
}

// markerSizes scales impacts relative to the largest one in the batch so the
// top point is always base+scale.
func markerSizes(impacts []float64, base, scale float64) []float64 {
	maxImpact := 0.0
	for _, v := range impacts {
		if v > maxImpact {
			maxImpact = v
		}
	}
	sizes := make([]float64, len(impacts))
	for i, v := range impacts {
		if maxImpact > 0 {
			sizes[i] = base + scale*(v/maxImpact)
		} else {
			sizes[i] = base
		}
	}
	return sizes
}

// score builds the plottable points for records. Records without calls are
// left out; if that leaves nothing, errNoPlottable is returned.
func score(records []profileRecord, t tuning) ([]point, error) {
	plot, _ := eligible(records)
	if len(plot) == 0 {
		return nil, errNoPlottable
	}

	impacts := make([]float64, len(plot))
	for i, r := range plot {
		impacts[i] = impactOf(r)
	}
	sizes := markerSizes(impacts, t.MarkerBase, t.MarkerScale)

	points := make([]point, len(plot))
	for i, r := range plot {
		points[i] = point{
			rec:     r,
			display: shortLabel(r.name, t.NameMax, t.NameKeep),
			impact:  impacts[i],
			size:    sizes[i],
			labeled: r.timePct > t.LabelThreshold,
		}
	}
	return points, nil
}

// byImpact returns a copy of points ordered by descending impact, ties broken
// by input order.
func byImpact(points []point) []point {
	ranked := make([]point, len(points))
	copy(ranked, points)
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].impact > ranked[j].impact })
	return ranked
}

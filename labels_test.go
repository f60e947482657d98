package main

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLayout(t *testing.T) {
	m, err := parseLayout("edge")
	require.NoError(t, err)
	assert.Equal(t, layoutEdge, m)

	m, err = parseLayout("avoid")
	require.NoError(t, err)
	assert.Equal(t, layoutAvoid, m)

	_, err = parseLayout("spiral")
	assert.Error(t, err)
}

func TestPlaceLabelsAvoidingMovesLowerImpactLabel(t *testing.T) {
	tn := defaultTuning()
	records := []profileRecord{
		{name: "first_overlapping_label", timePct: 10, calls: 20},
		{name: "second_overlapping_label", timePct: 10.1, calls: 25},
	}
	points, err := score(records, tn)
	require.NoError(t, err)

	ax := axes{xLo: 1, xHi: 10000, yHi: 100}
	got := placeLabelsAvoiding(points, ax, tn, dataArea)
	require.Len(t, got, 2)

	// Higher impact is placed first and keeps the edge placement.
	assert.Equal(t, "second_overlapping_label", got[0].pt.display)
	assert.Equal(t, alignLeft, got[0].align)
	assert.InDelta(t, 31.25, got[0].x, 1e-9)

	// The other one flips to the left of its point.
	assert.Equal(t, "first_overlapping_label", got[1].pt.display)
	assert.Equal(t, alignRight, got[1].align)
	assert.InDelta(t, 15, got[1].x, 1e-9)
	assert.Equal(t, 10.0, got[1].y)
}

func TestPlaceLabelsAvoidingKeepsEdgeWhenFree(t *testing.T) {
	tn := defaultTuning()
	points := []point{
		{rec: profileRecord{timePct: 10, calls: 5000}, display: "a", impact: 2, labeled: true},
		{rec: profileRecord{timePct: 80, calls: 20}, display: "b", impact: 1, labeled: true},
	}
	ax := axes{xLo: 1, xHi: 10000, yHi: 100}
	edge := placeLabels(points, ax, tn)
	avoid := placeLabelsAvoiding(points, ax, tn, dataArea)
	require.Len(t, avoid, 2)
	assert.Equal(t, edge[0].x, avoid[0].x)
	assert.Equal(t, edge[0].align, avoid[0].align)
	assert.Equal(t, edge[1].x, avoid[1].x)
	assert.Equal(t, edge[1].align, avoid[1].align)
}

func TestPlaceLabelsAvoidingNudgesVertically(t *testing.T) {
	tn := defaultTuning()
	// Three labels on one spot: after the two sides are taken the third
	// has to move up or down.
	points := []point{
		{rec: profileRecord{timePct: 50, calls: 100}, display: "aaaaaaaa", impact: 3, labeled: true},
		{rec: profileRecord{timePct: 50, calls: 100}, display: "bbbbbbbb", impact: 2, labeled: true},
		{rec: profileRecord{timePct: 50, calls: 100}, display: "cccccccc", impact: 1, labeled: true},
	}
	ax := axes{xLo: 1, xHi: 10000, yHi: 100}
	got := placeLabelsAvoiding(points, ax, tn, dataArea)
	require.Len(t, got, 3)
	assert.Equal(t, 50.0, got[0].y)
	assert.Equal(t, 50.0, got[1].y)
	assert.NotEqual(t, got[0].align, got[1].align)
	assert.NotEqual(t, 50.0, got[2].y)

	// Nudges move in whole line heights.
	step := tn.LabelFontSize * lineHeightFactor / dataArea.height * (ax.yHi - ax.yLo)
	moved := math.Abs(got[2].y - 50)
	lines := math.Round(moved / step)
	assert.GreaterOrEqual(t, lines, 1.0)
	assert.InDelta(t, lines*step, moved, 1e-9)
}

func TestLayoutDispatch(t *testing.T) {
	tn := defaultTuning()
	points := []point{
		{rec: profileRecord{timePct: 10, calls: 20}, display: "x", labeled: true},
		{rec: profileRecord{timePct: 1, calls: 20}, display: "y"},
	}
	ax := axes{xLo: 1, xHi: 10000, yHi: 11}
	assert.Len(t, layout(points, ax, tn, layoutEdge, dataArea), 1)
	assert.Len(t, layout(points, ax, tn, layoutAvoid, dataArea), 1)
}

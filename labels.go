package main

import (
	"math"

	"github.com/pkg/errors"
)

type hAlign int

const (
	alignLeft hAlign = iota
	alignRight
)

func (a hAlign) String() string {
	if a == alignRight {
		return "right"
	}
	return "left"
}

type layoutMode string

const (
	layoutEdge  layoutMode = "edge"
	layoutAvoid layoutMode = "avoid"
)

func parseLayout(s string) (layoutMode, error) {
	switch layoutMode(s) {
	case layoutEdge, layoutAvoid:
		return layoutMode(s), nil
	}
	return "", errors.Errorf("unknown layout %q (valid: edge, avoid)", s)
}

// labelPlacement is where the text for pt is drawn. (x, y) is the anchor in
// data coordinates; align says which end of the text sits on the anchor.
type labelPlacement struct {
	pt    point
	x, y  float64
	align hAlign
}

// axes is the data range shared by the renderer and the placer.
type axes struct {
	xLo, xHi float64
	yLo, yHi float64
}

// plotAxes derives the axis ranges for points. x is padded on the log scale
// by margin times the log10 span on each side. A single distinct call count
// is first widened to the decades around it.
func plotAxes(points []point, margin float64) axes {
	var ax axes
	if len(points) == 0 {
		return axes{xLo: 1, xHi: 10, yLo: 0, yHi: 1}
	}
	lo, hi := math.Inf(1), math.Inf(-1)
	yMax := 0.0
	for _, p := range points {
		c := float64(p.rec.calls)
		lo = math.Min(lo, c)
		hi = math.Max(hi, c)
		yMax = math.Max(yMax, p.rec.timePct)
	}
	var llo, lhi float64
	if lo == hi {
		llo, lhi = decadesAround(lo)
	} else {
		llo, lhi = math.Log10(lo), math.Log10(hi)
	}
	pad := margin * (lhi - llo)
	ax.xLo = math.Pow(10, llo-pad)
	ax.xHi = math.Pow(10, lhi+pad)
	ax.yHi = yMax * 1.1
	if ax.yHi == 0 {
		ax.yHi = 1
	}
	return ax
}

// decadesAround returns the log10 bounds of the decade holding c. An exact
// power of ten sits on a boundary, so it gets one decade each side instead.
func decadesAround(c float64) (float64, float64) {
	d := math.Floor(math.Log10(c))
	// Log10 is not exact at powers of ten; settle d against Pow.
	if math.Pow(10, d+1) <= c {
		d++
	} else if math.Pow(10, d) > c {
		d--
	}
	if math.Pow(10, d) == c {
		return d - 1, d + 1
	}
	return d, d + 1
}

// xMid is the geometric midpoint of [lo, hi], i.e. the centre of a log axis.
func xMid(lo, hi float64) float64 {
	return math.Pow(10, (math.Log10(lo)+math.Log10(hi))/2)
}

// edgePlacement keeps text from running off the plot: points in the right half
// get their label pulled left and right-aligned, the rest pushed right.
func edgePlacement(p point, mid float64, t tuning) labelPlacement {
	c := float64(p.rec.calls)
	if c > mid {
		return labelPlacement{pt: p, x: c * t.LeftFactor, y: p.rec.timePct, align: alignRight}
	}
	return labelPlacement{pt: p, x: c * t.RightFactor, y: p.rec.timePct, align: alignLeft}
}

// placeLabels positions a label for every labeled point. Labels are not
// checked against each other; dense clusters can overlap.
func placeLabels(points []point, ax axes, t tuning) []labelPlacement {
	mid := xMid(ax.xLo, ax.xHi)
	var out []labelPlacement
	for _, p := range points {
		if !p.labeled {
			continue
		}
		out = append(out, edgePlacement(p, mid, t))
	}
	return out
}

// ---------------------------------------------------------------------------
// Avoid layout
// ---------------------------------------------------------------------------

// canvasSize is the drawable area in points, used to estimate text extents.
type canvasSize struct {
	width, height float64
}

// box is a label rectangle in normalized plot space ([0,1] on both axes).
type box struct {
	x0, x1, y0, y1 float64
}

func (b box) overlaps(o box) bool {
	return b.x0 < o.x1 && o.x0 < b.x1 && b.y0 < o.y1 && o.y0 < b.y1
}

const (
	maxNudges = 3

	// Text extent estimates relative to the font size.
	charWidthFactor  = 0.6
	lineHeightFactor = 1.4
)

// placeLabelsAvoiding starts from the edge placement and, when the text would
// overlap a label already placed, tries the other side and then small vertical
// nudges. Higher impact points are placed first. If nothing fits the edge
// placement is kept.
func placeLabelsAvoiding(points []point, ax axes, t tuning, cs canvasSize) []labelPlacement {
	mid := xMid(ax.xLo, ax.xHi)
	llo, lhi := math.Log10(ax.xLo), math.Log10(ax.xHi)
	normX := func(x float64) float64 { return (math.Log10(x) - llo) / (lhi - llo) }
	normY := func(y float64) float64 { return (y - ax.yLo) / (ax.yHi - ax.yLo) }

	charW := t.LabelFontSize * charWidthFactor / cs.width
	lineH := t.LabelFontSize * lineHeightFactor / cs.height

	boxOf := func(lp labelPlacement) box {
		w := float64(len([]rune(lp.pt.display))) * charW
		u, v := normX(lp.x), normY(lp.y)
		b := box{y0: v - lineH/2, y1: v + lineH/2}
		if lp.align == alignRight {
			b.x0, b.x1 = u-w, u
		} else {
			b.x0, b.x1 = u, u+w
		}
		return b
	}

	var placed []box
	free := func(b box) bool {
		for _, o := range placed {
			if b.overlaps(o) {
				return false
			}
		}
		return true
	}

	var out []labelPlacement
	for _, p := range byImpact(points) {
		if !p.labeled {
			continue
		}
		first := edgePlacement(p, mid, t)
		candidates := []labelPlacement{first, otherSide(first, t)}
		dy := lineH * (ax.yHi - ax.yLo)
		for k := 1; k <= maxNudges; k++ {
			up, down := first, first
			up.y += float64(k) * dy
			down.y -= float64(k) * dy
			candidates = append(candidates, up, down)
		}

		chosen, chosenBox := first, boxOf(first)
		for _, c := range candidates {
			b := boxOf(c)
			if b.x0 < 0 || b.x1 > 1 || b.y0 < 0 || b.y1 > 1 {
				continue
			}
			if free(b) {
				chosen, chosenBox = c, b
				break
			}
		}
		placed = append(placed, chosenBox)
		out = append(out, chosen)
	}
	return out
}

func otherSide(lp labelPlacement, t tuning) labelPlacement {
	c := float64(lp.pt.rec.calls)
	if lp.align == alignRight {
		lp.x, lp.align = c*t.RightFactor, alignLeft
	} else {
		lp.x, lp.align = c*t.LeftFactor, alignRight
	}
	return lp
}

// layout dispatches to the placer selected by mode.
func layout(points []point, ax axes, t tuning, mode layoutMode, cs canvasSize) []labelPlacement {
	if mode == layoutAvoid {
		return placeLabelsAvoiding(points, ax, t, cs)
	}
	return placeLabels(points, ax, t)
}

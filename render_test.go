package main

import (
	"bytes"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleScatter(t *testing.T) *scatter {
	t.Helper()
	fp := mustParse(t, sampleReport)
	sc, err := prepareScatter(fp.records, defaultTuning(), layoutEdge)
	require.NoError(t, err)
	return sc
}

func TestBuildFigureAxes(t *testing.T) {
	sc := sampleScatter(t)
	p, err := buildFigure(sc.points, sc.labels, sc.axes, defaultTuning())
	require.NoError(t, err)

	assert.Equal(t, "Number of Calls", p.X.Label.Text)
	assert.Equal(t, "CPU Time (%)", p.Y.Label.Text)
	assert.Equal(t, sc.axes.xLo, p.X.Min)
	assert.Equal(t, sc.axes.xHi, p.X.Max)
	assert.Equal(t, sc.axes.yHi, p.Y.Max)
}

func TestWritePNGAndPDF(t *testing.T) {
	sc := sampleScatter(t)
	p, err := buildFigure(sc.points, sc.labels, sc.axes, defaultTuning())
	require.NoError(t, err)

	var png bytes.Buffer
	require.NoError(t, writePNG(p, &png))
	assert.True(t, bytes.HasPrefix(png.Bytes(), []byte("\x89PNG\r\n\x1a\n")), "not a PNG")

	var pdf bytes.Buffer
	require.NoError(t, writePDF(p, &pdf))
	assert.True(t, bytes.HasPrefix(pdf.Bytes(), []byte("%PDF")), "not a PDF")
}

func TestMarkerRadius(t *testing.T) {
	assert.InDelta(t, 10.0, float64(markerRadius(400)), 1e-9)
	assert.Greater(t, float64(markerRadius(450)), float64(markerRadius(50)))
}

func TestColorScale(t *testing.T) {
	points := []point{
		{rec: profileRecord{timePct: 1}},
		{rec: profileRecord{timePct: 50}},
		{rec: profileRecord{timePct: 25.5}},
	}
	colors, err := colorScale(points)
	require.NoError(t, err)
	require.Len(t, colors, 3)
	assert.NotEqual(t, colors[0], colors[1])
	alpha := color.NRGBAModel.Convert(colors[0]).(color.NRGBA).A
	assert.Less(t, alpha, uint8(255))
	for _, c := range colors {
		assert.Equal(t, alpha, color.NRGBAModel.Convert(c).(color.NRGBA).A)
	}

	single, err := colorScale(points[:1])
	require.NoError(t, err)
	assert.Equal(t, colors[1], single[0], "a lone point takes the hottest colour")
}

func TestRunWritesBothOutputs(t *testing.T) {
	dir := t.TempDir()
	report := writeReport(t, sampleReport)
	png := filepath.Join(dir, "scatter_plot.png")
	pdf := filepath.Join(dir, "scatter_plot.pdf")

	var code int
	out := captureOutput(func() {
		code = run([]string{"--no-show", "--layout", "avoid", "--png", png, "--pdf", pdf, report})
	})
	require.Equal(t, 0, code, out)
	assert.Contains(t, out, "Found 6 functions in profile")
	assert.Contains(t, out, "Excluded 1 functions with no recorded calls")
	assert.Contains(t, out, "Saved scatter plot to: "+png+" (300 DPI)")

	for _, path := range []string{png, pdf} {
		st, err := os.Stat(path)
		require.NoError(t, err)
		assert.Positive(t, st.Size())
	}
}

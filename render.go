package main

import (
	"image/color"
	"io"
	"math"
	"os"
	"os/exec"
	"runtime"

	"github.com/pkg/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/brewer"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
	"gonum.org/v1/plot/vg/vgpdf"
)

const (
	figWidth  = 14 * vg.Inch
	figHeight = 8 * vg.Inch
	rasterDPI = 300

	paletteName  = "YlOrRd"
	paletteSteps = 9
	pointAlpha   = 0.7
)

// dataArea approximates the part of the figure inside the axes, for text
// extent estimates in the avoid layout.
var dataArea = canvasSize{
	width:  float64(figWidth) * 0.85,
	height: float64(figHeight) * 0.8,
}

// buildFigure draws points on a log-x scatter plot, sized by marker area and
// coloured by %time, and adds a text label with a leader line for each
// placement.
func buildFigure(points []point, labels []labelPlacement, ax axes, t tuning) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = "Application Profile Performance"
	p.X.Label.Text = "Number of Calls"
	p.Y.Label.Text = "CPU Time (%)"
	p.X.Scale = plot.LogScale{}
	p.X.Tick.Marker = plot.LogTicks{Prec: -1}

	grid := plotter.NewGrid()
	grid.Vertical.Color = color.Gray{Y: 210}
	grid.Horizontal.Color = color.Gray{Y: 210}
	p.Add(grid)

	for _, lp := range labels {
		leader, err := plotter.NewLine(plotter.XYs{
			{X: lp.x, Y: lp.y},
			{X: float64(lp.pt.rec.calls), Y: lp.pt.rec.timePct},
		})
		if err != nil {
			return nil, errors.Wrapf(err, "leader line for %s", lp.pt.display)
		}
		leader.Color = color.Black
		leader.Width = vg.Points(1)
		p.Add(leader)
	}

	xys := make(plotter.XYs, len(points))
	for i, pt := range points {
		xys[i] = plotter.XY{X: float64(pt.rec.calls), Y: pt.rec.timePct}
	}
	colors, err := colorScale(points)
	if err != nil {
		return nil, err
	}
	fill, err := plotter.NewScatter(xys)
	if err != nil {
		return nil, errors.Wrap(err, "scatter")
	}
	fill.GlyphStyleFunc = func(i int) draw.GlyphStyle {
		return draw.GlyphStyle{Color: colors[i], Radius: markerRadius(points[i].size), Shape: draw.CircleGlyph{}}
	}
	outline, err := plotter.NewScatter(xys)
	if err != nil {
		return nil, errors.Wrap(err, "scatter")
	}
	outline.GlyphStyleFunc = func(i int) draw.GlyphStyle {
		return draw.GlyphStyle{Color: color.Black, Radius: markerRadius(points[i].size), Shape: draw.RingGlyph{}}
	}
	p.Add(fill, outline)

	if len(labels) > 0 {
		lxys := make(plotter.XYs, len(labels))
		names := make([]string, len(labels))
		for i, lp := range labels {
			lxys[i] = plotter.XY{X: lp.x, Y: lp.y}
			names[i] = lp.pt.display
		}
		text, err := plotter.NewLabels(plotter.XYLabels{XYs: lxys, Labels: names})
		if err != nil {
			return nil, errors.Wrap(err, "labels")
		}
		for i, lp := range labels {
			text.TextStyle[i].Font.Size = vg.Points(t.LabelFontSize)
			text.TextStyle[i].YAlign = draw.YCenter
			if lp.align == alignRight {
				text.TextStyle[i].XAlign = draw.XRight
			} else {
				text.TextStyle[i].XAlign = draw.XLeft
			}
		}
		p.Add(text)
	}

	// Pin the range after Add so the placer and the axes agree on x_mid.
	p.X.Min, p.X.Max = ax.xLo, ax.xHi
	p.Y.Min, p.Y.Max = ax.yLo, ax.yHi
	return p, nil
}

// markerRadius converts an area-like marker size into a glyph radius.
func markerRadius(size float64) vg.Length {
	return vg.Points(math.Sqrt(size) / 2)
}

// colorScale maps each point's %time onto a sequential palette, lowest share
// to the lightest colour.
func colorScale(points []point) ([]color.Color, error) {
	pal, err := brewer.GetPalette(brewer.TypeSequential, paletteName, paletteSteps)
	if err != nil {
		return nil, errors.Wrap(err, "palette")
	}
	steps := pal.Colors()

	lo, hi := math.Inf(1), math.Inf(-1)
	for _, pt := range points {
		lo = math.Min(lo, pt.rec.timePct)
		hi = math.Max(hi, pt.rec.timePct)
	}
	out := make([]color.Color, len(points))
	for i, pt := range points {
		idx := len(steps) - 1
		if hi > lo {
			idx = int(math.Round((pt.rec.timePct - lo) / (hi - lo) * float64(len(steps)-1)))
		}
		out[i] = withAlpha(steps[idx], pointAlpha)
	}
	return out, nil
}

func withAlpha(c color.Color, a float64) color.Color {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	n.A = uint8(math.Round(a * 255))
	return n
}

// ---------------------------------------------------------------------------
// Output
// ---------------------------------------------------------------------------

func writePNG(p *plot.Plot, w io.Writer) error {
	c := vgimg.NewWith(vgimg.UseWH(figWidth, figHeight), vgimg.UseDPI(rasterDPI))
	p.Draw(draw.New(c))
	if _, err := (vgimg.PngCanvas{Canvas: c}).WriteTo(w); err != nil {
		return errors.Wrap(err, "encode png")
	}
	return nil
}

func writePDF(p *plot.Plot, w io.Writer) error {
	c := vgpdf.New(figWidth, figHeight)
	p.Draw(draw.New(c))
	if _, err := c.WriteTo(w); err != nil {
		return errors.Wrap(err, "encode pdf")
	}
	return nil
}

// saveFile creates path and hands it to write, closing it on every path.
func saveFile(path string, write func(io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "create output")
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = errors.Wrapf(cerr, "close %s", path)
		}
	}()
	if err := write(f); err != nil {
		return errors.Wrapf(err, "write %s", path)
	}
	return nil
}

// openViewer hands path to the desktop's default image viewer without
// waiting for it.
func openViewer(path string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", path)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", "", path)
	default:
		cmd = exec.Command("xdg-open", path)
	}
	if err := cmd.Start(); err != nil {
		return errors.Wrap(err, "start viewer")
	}
	return cmd.Process.Release()
}

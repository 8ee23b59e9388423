// Package charts renders the dashboard figures as SVG with gonum/plot.
package charts

import (
	"fmt"
	"image/color"
	"io"
	"math"
	"strconv"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"fidash/internal/analytics"
)

// Default canvas size
var (
	Width  = vg.Points(720)
	Height = vg.Points(420)
)

// Palette used across the dashboard
var (
	Green  = color.RGBA{R: 0x27, G: 0xae, B: 0x60, A: 0xff}
	Blue   = color.RGBA{R: 0x34, G: 0x98, B: 0xdb, A: 0xff}
	Red    = color.RGBA{R: 0xe7, G: 0x4c, B: 0x3c, A: 0xff}
	Navy   = color.RGBA{R: 0x2c, G: 0x3e, B: 0x50, A: 0xff}
	Grey   = color.RGBA{R: 0x7f, G: 0x8c, B: 0x8d, A: 0xff}
	Purple = color.RGBA{R: 0x9b, G: 0x59, B: 0xb6, A: 0xff}
)

var series = []color.Color{Green, Blue, Red, Purple, Navy, Grey,
	color.RGBA{R: 0xf3, G: 0x9c, B: 0x12, A: 0xff},
	color.RGBA{R: 0x16, G: 0xa0, B: 0x85, A: 0xff},
}

// SeriesColor cycles through the palette
func SeriesColor(i int) color.Color {
	return series[i%len(series)]
}

// Line is one polyline with markers
type Line struct {
	Name   string
	Points []analytics.SeriesPoint
	Color  color.Color
	Dashed bool
	Bold   bool
}

// Band is a shaded interval between two series sharing the same years
type Band struct {
	Name  string
	Lower []analytics.SeriesPoint
	Upper []analytics.SeriesPoint
	Color color.Color
}

// Bar is a bar series. On a categorical figure Values line up with
// Figure.Categories and Colors, when set, colour each bar. Otherwise each
// of Points is drawn at its year.
type Bar struct {
	Name   string
	Values []float64
	Colors []color.Color
	Points []analytics.SeriesPoint
	Color  color.Color
}

// Reference is a horizontal target line
type Reference struct {
	Name  string
	Y     float64
	Color color.Color
}

// Figure describes a chart independent of the rendering backend
type Figure struct {
	Title      string
	XLabel     string
	YLabel     string
	YMin, YMax *float64
	Categories []string
	Lines      []Line
	Bands      []Band
	Bars       []Bar
	References []Reference
	EmptyText  string
}

// Empty reports whether the figure has no data series
func (f Figure) Empty() bool {
	for _, l := range f.Lines {
		if len(l.Points) > 0 {
			return false
		}
	}
	for _, b := range f.Bars {
		if len(b.Values) > 0 || len(b.Points) > 0 {
			return false
		}
	}
	return true
}

// RenderSVG draws f and writes it to w as SVG
func RenderSVG(w io.Writer, f Figure) error {
	p, err := build(f)
	if err != nil {
		return err
	}

	wt, err := p.WriterTo(Width, Height, "svg")
	if err != nil {
		return fmt.Errorf("failed to create svg writer: %w", err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write svg: %w", err)
	}
	return nil
}

func build(f Figure) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = f.Title
	p.Title.TextStyle.Font.Size = vg.Points(14)
	p.X.Label.Text = f.XLabel
	p.Y.Label.Text = f.YLabel
	p.Legend.Top = true
	p.Legend.Left = true
	p.Add(plotter.NewGrid())
	if len(f.Categories) > 0 {
		p.NominalX(f.Categories...)
	} else {
		p.X.Tick.Marker = yearTicks{}
	}

	if err := addBars(p, f); err != nil {
		return nil, err
	}

	for _, b := range f.Bands {
		poly, err := band(b)
		if err != nil {
			return nil, err
		}
		if poly == nil {
			continue
		}
		p.Add(poly)
		p.Legend.Add(b.Name, poly)
	}

	for i, l := range f.Lines {
		if len(l.Points) == 0 {
			continue
		}
		c := l.Color
		if c == nil {
			c = SeriesColor(i)
		}

		line, points, err := plotter.NewLinePoints(xys(l.Points))
		if err != nil {
			return nil, fmt.Errorf("failed to build line %q: %w", l.Name, err)
		}
		line.Color = c
		line.Width = vg.Points(1.5)
		if l.Bold {
			line.Width = vg.Points(2.5)
		}
		if l.Dashed {
			line.Dashes = []vg.Length{vg.Points(5), vg.Points(4)}
		}
		points.Shape = draw.CircleGlyph{}
		points.Color = c
		points.Radius = vg.Points(3)

		p.Add(line, points)
		p.Legend.Add(l.Name, line, points)
	}

	xmin, xmax, ok := xRange(f)
	for _, r := range f.References {
		ref := plotter.NewFunction(func(float64) float64 { return r.Y })
		ref.Color = r.Color
		ref.Width = vg.Points(1)
		ref.Dashes = []vg.Length{vg.Points(6), vg.Points(4)}
		if ok {
			ref.XMin, ref.XMax = xmin, xmax
		}
		p.Add(ref)
		p.Legend.Add(r.Name, ref)
	}

	if f.Empty() {
		text := f.EmptyText
		if text == "" {
			text = "No data"
		}
		p.Title.Text = f.Title + " (" + text + ")"
		p.X.Min, p.X.Max = 0, 1
	}
	if ok && len(f.Categories) == 0 {
		p.X.Min, p.X.Max = xmin-0.5, xmax+0.5
	}
	if f.YMin != nil {
		p.Y.Min = *f.YMin
	}
	if f.YMax != nil {
		p.Y.Max = *f.YMax
	}
	if p.Y.Min >= p.Y.Max {
		p.Y.Min, p.Y.Max = 0, 100
	}
	return p, nil
}

// addBars draws every bar as its own single-value chart so that each can
// sit at a category index or a year and carry its own colour
func addBars(p *plot.Plot, f Figure) error {
	groups := len(f.Bars)
	width := vg.Points(36)
	if groups > 1 {
		width = vg.Points(24)
	}
	if len(f.Categories) == 0 {
		width = vg.Points(12)
	}

	for j, b := range f.Bars {
		base := b.Color
		if base == nil {
			base = SeriesColor(j)
		}
		offset := vg.Length(float64(j)-float64(groups-1)/2) * width

		var first *plotter.BarChart
		add := func(x, v float64, c color.Color) error {
			chart, err := plotter.NewBarChart(plotter.Values{v}, width)
			if err != nil {
				return fmt.Errorf("failed to build bars %q: %w", b.Name, err)
			}
			chart.XMin = x
			chart.Color = c
			chart.LineStyle.Width = 0
			if len(f.Categories) > 0 {
				chart.Offset = offset
			}
			p.Add(chart)
			if first == nil {
				first = chart
			}
			return nil
		}

		if len(f.Categories) > 0 {
			for i, v := range b.Values {
				c := base
				if i < len(b.Colors) && b.Colors[i] != nil {
					c = b.Colors[i]
				}
				if err := add(float64(i), v, c); err != nil {
					return err
				}
			}
		} else {
			for _, pt := range b.Points {
				if err := add(float64(pt.Year), pt.Value, translucent(base)); err != nil {
					return err
				}
			}
		}
		if first != nil && b.Name != "" && (groups > 1 || len(f.Lines) > 0) {
			p.Legend.Add(b.Name, first)
		}
	}
	return nil
}

func translucent(c color.Color) color.Color {
	r, g, b, _ := c.RGBA()
	return color.NRGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: 0x80}
}

func band(b Band) (*plotter.Polygon, error) {
	n := len(b.Upper)
	if n == 0 || len(b.Lower) != n {
		return nil, nil
	}

	ring := make(plotter.XYs, 0, 2*n)
	for _, pt := range b.Upper {
		ring = append(ring, plotter.XY{X: float64(pt.Year), Y: pt.Value})
	}
	for i := n - 1; i >= 0; i-- {
		ring = append(ring, plotter.XY{X: float64(b.Lower[i].Year), Y: b.Lower[i].Value})
	}

	poly, err := plotter.NewPolygon(ring)
	if err != nil {
		return nil, fmt.Errorf("failed to build band %q: %w", b.Name, err)
	}
	c := b.Color
	if c == nil {
		c = Green
	}
	r, g, bl, _ := c.RGBA()
	poly.Color = color.NRGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(bl >> 8), A: 0x33}
	poly.LineStyle.Width = 0
	return poly, nil
}

func xys(points []analytics.SeriesPoint) plotter.XYs {
	out := make(plotter.XYs, len(points))
	for i, pt := range points {
		out[i].X = float64(pt.Year)
		out[i].Y = pt.Value
	}
	return out
}

func xRange(f Figure) (float64, float64, bool) {
	lo, hi, ok := math.Inf(1), math.Inf(-1), false
	visit := func(points []analytics.SeriesPoint) {
		for _, pt := range points {
			y := float64(pt.Year)
			lo, hi, ok = math.Min(lo, y), math.Max(hi, y), true
		}
	}
	for _, l := range f.Lines {
		visit(l.Points)
	}
	for _, b := range f.Bands {
		visit(b.Upper)
	}
	for _, b := range f.Bars {
		visit(b.Points)
	}
	return lo, hi, ok
}

// yearTicks labels every year, or every other year on wide ranges
type yearTicks struct{}

func (yearTicks) Ticks(lo, hi float64) []plot.Tick {
	first, last := int(math.Ceil(lo)), int(math.Floor(hi))
	step := 1
	if last-first > 12 {
		step = 2
	}
	var ticks []plot.Tick
	for y := first; y <= last; y += step {
		ticks = append(ticks, plot.Tick{Value: float64(y), Label: strconv.Itoa(y)})
	}
	return ticks
}

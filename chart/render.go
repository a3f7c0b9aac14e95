package chart

import (
	"fmt"
	"image"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"
	"golang.org/x/image/font/gofont/goregular"
)

// category and bar fill ratios, as in the usual bar chart defaults
const (
	categoryPercentage = 0.8
	barPercentage      = 0.9
	gridTicks          = 5
	padding            = 12.0
)

var fontSource = sync.OnceValues(func() (*text.FontSource, error) {
	return text.NewFontSource(goregular.TTF)
})

// Rect is an axis-aligned pixel rectangle with a top-left origin.
type Rect struct {
	X, Y, W, H float64
}

// Center returns the middle of the rectangle.
func (r Rect) Center() (float64, float64) {
	return r.X + r.W/2, r.Y + r.H/2
}

// Bar is the placement of one data point.
type Bar struct {
	Dataset     int
	Index       int
	Value       float64
	Highlighted bool
	Rect        Rect
}

// Layout is the pixel geometry of a chart.
type Layout struct {
	Width, Height int
	Plot          Rect
	YMax          float64
	Ticks         []float64
	Bars          []Bar
	// LegendHeight is zero when the legend is hidden.
	LegendHeight float64
}

// Layout computes the chart geometry for the theme's canvas size.
func (c Chart) Layout() Layout {
	t := c.Theme
	l := Layout{Width: t.Width, Height: t.Height}

	top := padding + t.TitleSize + padding
	if c.Legend.Display {
		l.LegendHeight = t.FontSize + padding
		top += l.LegendHeight
	}
	left := padding + 5*t.FontSize
	bottom := float64(t.Height) - padding - 2*t.FontSize
	right := float64(t.Width) - padding
	l.Plot = Rect{X: left, Y: top, W: math.Max(right-left, 1), H: math.Max(bottom-top, 1)}

	maxValue := t.YMin
	for _, ds := range c.Descriptor.Datasets {
		for _, v := range ds.Data {
			if isFinite(v) {
				maxValue = math.Max(maxValue, v)
			}
		}
	}
	var step float64
	var ticks int
	l.YMax, step, ticks = yScale(t.YMin, maxValue)
	for i := 0; i <= ticks; i++ {
		l.Ticks = append(l.Ticks, t.YMin+float64(i)*step)
	}

	labels := len(c.Descriptor.Labels)
	sets := len(c.Descriptor.Datasets)
	category := l.Plot.W / float64(labels)
	group := category * categoryPercentage
	slot := group / float64(sets)
	barW := slot * barPercentage
	for d, ds := range c.Descriptor.Datasets {
		for i, v := range ds.Data {
			h := (math.Max(v, t.YMin) - t.YMin) / (l.YMax - t.YMin) * l.Plot.H
			x := l.Plot.X + category*float64(i) + (category-group)/2 + slot*float64(d) + (slot-barW)/2
			l.Bars = append(l.Bars, Bar{
				Dataset:     d,
				Index:       i,
				Value:       v,
				Highlighted: c.Descriptor.Highlighted(i),
				Rect:        Rect{X: x, Y: l.Plot.Y + l.Plot.H - h, W: barW, H: h},
			})
		}
	}
	return l
}

// yScale returns the axis maximum, the tick step and the number of steps from yMin to yMax.
// The step count never exceeds 2*gridTicks.
func yScale(yMin, maxValue float64) (yMax, step float64, ticks int) {
	span := maxValue - yMin
	step = niceStep(span / gridTicks)
	yMax = yMin + step*math.Ceil(span/step)
	if !isFinite(span) || !isFinite(yMax) {
		// rounding up overflowed, keep the exact maximum
		return maxValue, maxValue/gridTicks - yMin/gridTicks, gridTicks
	}
	if yMax <= yMin {
		yMax = yMin + step
	}
	ticks = int(math.Round((yMax - yMin) / step))
	return yMax, step, min(max(ticks, 1), 2*gridTicks)
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// niceStep rounds raw up to 1, 2 or 5 times a power of ten.
func niceStep(raw float64) float64 {
	if raw <= 0 || math.IsNaN(raw) || math.IsInf(raw, 0) {
		return 1
	}
	exp := math.Pow(10, math.Floor(math.Log10(raw)))
	switch f := raw / exp; {
	case f <= 1:
		return exp
	case f <= 2:
		return 2 * exp
	case f <= 5:
		return 5 * exp
	}
	return 10 * exp
}

// Draw rasterises the chart.
//
// Returns:
//   - image.Image: the rendered chart
//   - Layout: the geometry used, for hit testing and tests
//   - error: a font or fill error
func (c Chart) Draw() (image.Image, Layout, error) {
	dc, l, err := c.draw()
	if err != nil {
		return nil, Layout{}, err
	}
	defer dc.Close()
	return dc.Image(), l, nil
}

// draw paints the chart into a new context owned by the caller.
func (c Chart) draw() (*gg.Context, Layout, error) {
	src, err := fontSource()
	if err != nil {
		return nil, Layout{}, fmt.Errorf("failed to load chart font: %w", err)
	}
	t := c.Theme
	l := c.Layout()

	dc := gg.NewContext(t.Width, t.Height)
	if err := c.paint(dc, src, l); err != nil {
		_ = dc.Close()
		return nil, Layout{}, err
	}
	return dc, l, nil
}

func (c Chart) paint(dc *gg.Context, src *text.FontSource, l Layout) error {
	t := c.Theme
	dc.ClearWithColor(t.Background)

	// grid and y ticks
	body := src.Face(t.FontSize)
	dc.SetFont(body)
	dc.SetLineWidth(1)
	for _, v := range l.Ticks {
		y := l.Plot.Y + l.Plot.H - (v-t.YMin)/(l.YMax-t.YMin)*l.Plot.H
		dc.SetStrokeBrush(gg.Solid(t.Grid))
		dc.DrawLine(l.Plot.X, y, l.Plot.X+l.Plot.W, y)
		if err := dc.Stroke(); err != nil {
			return fmt.Errorf("failed to draw grid: %w", err)
		}
		dc.SetFillBrush(gg.Solid(t.Font))
		dc.DrawStringAnchored(formatValue(v), l.Plot.X-padding/2, y, 1, 0.35)
	}
	dc.SetStrokeBrush(gg.Solid(t.Grid))
	dc.DrawLine(l.Plot.X, l.Plot.Y, l.Plot.X, l.Plot.Y+l.Plot.H)
	if err := dc.Stroke(); err != nil {
		return fmt.Errorf("failed to draw axis: %w", err)
	}
	dc.SetFillBrush(gg.Solid(t.Font))
	dc.DrawStringAnchored(t.YAxisLabel, padding, l.Plot.Y+l.Plot.H/2, 0, 0.35)

	// bars, borders and end-anchored value labels
	for _, b := range l.Bars {
		pair := c.Datasets[b.Dataset].Colors[b.Index]
		r := b.Rect
		dc.SetFillBrush(gg.Solid(pair.Fill))
		dc.DrawRectangle(r.X, r.Y, r.W, r.H)
		if err := dc.Fill(); err != nil {
			return fmt.Errorf("failed to fill bar %d: %w", b.Index, err)
		}
		if bw := c.Datasets[b.Dataset].BorderWidth; bw > 0 && r.H > 0 {
			dc.SetLineWidth(bw)
			dc.SetStrokeBrush(gg.Solid(pair.Border))
			dc.DrawRectangle(r.X, r.Y, r.W, r.H)
			if err := dc.Stroke(); err != nil {
				return fmt.Errorf("failed to stroke bar %d: %w", b.Index, err)
			}
		}
		dc.SetFillBrush(gg.Solid(t.Font))
		dc.DrawStringAnchored(formatValue(b.Value), r.X+r.W/2, r.Y-4, 0.5, 0)
	}

	// category labels
	category := l.Plot.W / float64(len(c.Descriptor.Labels))
	for i, label := range c.Descriptor.Labels {
		dc.DrawStringAnchored(label, l.Plot.X+category*(float64(i)+0.5), l.Plot.Y+l.Plot.H+4, 0.5, 1)
	}

	if c.Legend.Display {
		c.drawLegend(dc, l)
	}

	dc.SetFont(src.Face(t.TitleSize))
	dc.SetFillBrush(gg.Solid(t.Font))
	dc.DrawStringAnchored(c.Descriptor.Title, float64(t.Width)/2, padding, 0.5, 1)

	if err := dc.FlushGPU(); err != nil {
		return fmt.Errorf("failed to flush chart: %w", err)
	}
	return nil
}

// drawLegend lays out one swatch and label per dataset, centred in a row under the title.
func (c Chart) drawLegend(dc *gg.Context, l Layout) {
	t := c.Theme
	box := t.FontSize
	widths := make([]float64, len(c.Datasets))
	total := 0.0
	for i, ds := range c.Datasets {
		w, _ := dc.MeasureString(ds.Label)
		widths[i] = box + 4 + w
		total += widths[i] + padding
	}
	x := (float64(t.Width) - total + padding) / 2
	y := padding + t.TitleSize + padding/2
	for i, ds := range c.Datasets {
		pair := ds.Colors[0]
		dc.SetFillBrush(gg.Solid(pair.Fill))
		dc.DrawRectangle(x, y, box, box)
		_ = dc.Fill()
		dc.SetLineWidth(ds.BorderWidth)
		dc.SetStrokeBrush(gg.Solid(pair.Border))
		dc.DrawRectangle(x, y, box, box)
		_ = dc.Stroke()
		dc.SetFillBrush(gg.Solid(t.Font))
		dc.DrawStringAnchored(ds.Label, x+box+4, y+box/2, 0, 0.35)
		x += widths[i] + padding
	}
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Render resolves and draws a descriptor.
func Render(d Descriptor, theme Theme) (image.Image, Layout, error) {
	c, err := Resolve(d, theme)
	if err != nil {
		return nil, Layout{}, err
	}
	return c.Draw()
}

// RenderFile draws d and writes it to dir/<canvasId>.png.
//
// Parameters:
//   - d: the chart descriptor
//   - theme: the visual theme
//   - dir: the output directory, created if missing
//
// Returns:
//   - string: the path written
//   - error: a validation, drawing or file error
func RenderFile(d Descriptor, theme Theme, dir string) (string, error) {
	c, err := Resolve(d, theme)
	if err != nil {
		return "", err
	}
	dc, _, err := c.draw()
	if err != nil {
		return "", err
	}
	defer dc.Close()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create chart dir: %w", err)
	}
	path := filepath.Join(dir, d.FileName())
	if err := dc.SavePNG(path); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}

package chart

import (
	"github.com/Carmen-Shannon/vrscale/common"
	"github.com/gogpu/gg"
)

// Legend and data label placement keywords.
const (
	PositionTop = "top"
	PlaceEnd    = "end"
)

// Theme holds the visual settings shared by every chart.
type Theme struct {
	Width  int
	Height int

	Background gg.RGBA
	Highlight  gg.RGBA
	Default    gg.RGBA
	Grid       gg.RGBA
	Font       gg.RGBA

	// FillAlpha is the alpha of a bar's fill; its border stays opaque.
	FillAlpha   float64
	BorderWidth float64

	FontSize  float64
	TitleSize float64

	YAxisLabel     string
	YMin           float64
	LegendPosition string
}

// DefaultTheme returns the dark blog theme.
func DefaultTheme() Theme {
	return Theme{
		Width:          800,
		Height:         450,
		Background:     gg.Hex("#1c1c1c"),
		Highlight:      gg.RGB(35.0/255, 216.0/255, 158.0/255),
		Default:        gg.Hex("#2ba6cb"),
		Grid:           gg.Hex("#363636"),
		Font:           gg.Hex("#d0d0d0"),
		FillAlpha:      0.5,
		BorderWidth:    1,
		FontSize:       12,
		TitleSize:      16,
		YAxisLabel:     "ns",
		YMin:           0,
		LegendPosition: PositionTop,
	}
}

// withDefaults fills zero fields from DefaultTheme. Colours are all-or-nothing per field.
func (t Theme) withDefaults() Theme {
	def := DefaultTheme()
	t.Width = common.Coalesce(t.Width, def.Width)
	t.Height = common.Coalesce(t.Height, def.Height)
	t.Background = common.Coalesce(t.Background, def.Background)
	t.Highlight = common.Coalesce(t.Highlight, def.Highlight)
	t.Default = common.Coalesce(t.Default, def.Default)
	t.Grid = common.Coalesce(t.Grid, def.Grid)
	t.Font = common.Coalesce(t.Font, def.Font)
	t.FillAlpha = common.Coalesce(t.FillAlpha, def.FillAlpha)
	t.BorderWidth = common.Coalesce(t.BorderWidth, def.BorderWidth)
	t.FontSize = common.Coalesce(t.FontSize, def.FontSize)
	t.TitleSize = common.Coalesce(t.TitleSize, def.TitleSize)
	t.YAxisLabel = common.Coalesce(t.YAxisLabel, def.YAxisLabel)
	t.LegendPosition = common.Coalesce(t.LegendPosition, def.LegendPosition)
	return t
}

// ColorPair is the fill and border colour of one bar.
type ColorPair struct {
	Fill   gg.RGBA
	Border gg.RGBA
}

// DataLabels places the value label of every bar.
type DataLabels struct {
	Align  string
	Anchor string
}

// Legend controls the dataset legend.
type Legend struct {
	Display  bool
	Position string
}

// StyledDataset is a dataset with its per-point colours attached.
type StyledDataset struct {
	Dataset
	Colors      []ColorPair
	BorderWidth float64
	DataLabels  DataLabels
}

// Chart is a validated descriptor resolved against a theme, ready to draw.
type Chart struct {
	Descriptor Descriptor
	Theme      Theme
	Datasets   []StyledDataset
	Legend     Legend
}

// Resolve validates d and attaches colours, data labels and the legend rule.
//
// Parameters:
//   - d: the chart descriptor
//   - theme: the visual theme; zero fields take DefaultTheme values
//
// Returns:
//   - Chart: the resolved chart
//   - error: the validation error, if any
func Resolve(d Descriptor, theme Theme) (Chart, error) {
	if err := d.Validate(); err != nil {
		return Chart{}, err
	}
	theme = theme.withDefaults()

	c := Chart{
		Descriptor: d,
		Theme:      theme,
		Datasets:   make([]StyledDataset, len(d.Datasets)),
		Legend: Legend{
			Display:  len(d.Datasets) > 1,
			Position: theme.LegendPosition,
		},
	}
	for i, ds := range d.Datasets {
		colors := make([]ColorPair, len(ds.Data))
		for j := range ds.Data {
			colors[j] = theme.colorPair(d.Highlighted(j))
		}
		c.Datasets[i] = StyledDataset{
			Dataset:     ds,
			Colors:      colors,
			BorderWidth: theme.BorderWidth,
			DataLabels:  DataLabels{Align: PlaceEnd, Anchor: PlaceEnd},
		}
	}
	return c, nil
}

func (t Theme) colorPair(highlighted bool) ColorPair {
	base := t.Default
	if highlighted {
		base = t.Highlight
	}
	fill := base
	fill.A = t.FillAlpha
	base.A = 1
	return ColorPair{Fill: fill, Border: base}
}

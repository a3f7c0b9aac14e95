// Package chart renders benchmark bar charts from declarative descriptors.
//
// A Descriptor names a canvas, a title, the category labels and one or more
// datasets. Highlighted indices are drawn in a contrasting colour so a post can
// point at the interesting bar. Descriptors load from YAML, TOML or JSON and each
// one renders to <canvasId>.png.
package chart

import (
	"errors"
	"fmt"
	"slices"
)

// TypeBar is the only chart type currently rendered.
const TypeBar = "bar"

var (
	// ErrInvalidDescriptor is returned (joined) for every structural problem in a descriptor.
	ErrInvalidDescriptor = errors.New("invalid chart descriptor")
	// ErrUnsupportedType is returned when a descriptor asks for a chart type other than TypeBar.
	ErrUnsupportedType = errors.New("unsupported chart type")
)

// Dataset is one series of values, one per label.
type Dataset struct {
	Label string    `yaml:"label" toml:"label" json:"label"`
	Data  []float64 `yaml:"data" toml:"data" json:"data"`
}

// Descriptor declares a single chart.
type Descriptor struct {
	CanvasID         string    `yaml:"canvasId" toml:"canvasId" json:"canvasId"`
	Type             string    `yaml:"type" toml:"type" json:"type"`
	Title            string    `yaml:"title" toml:"title" json:"title"`
	Labels           []string  `yaml:"labels" toml:"labels" json:"labels"`
	Datasets         []Dataset `yaml:"datasets" toml:"datasets" json:"datasets"`
	HighlightIndices []int     `yaml:"highlightIndices,omitempty" toml:"highlightIndices,omitempty" json:"highlightIndices,omitempty"`
}

// Validate reports every problem with the descriptor at once.
//
// Returns:
//   - error: nil, or an errors.Join of ErrInvalidDescriptor / ErrUnsupportedType wrapped problems
func (d Descriptor) Validate() error {
	var errs []error
	if d.CanvasID == "" {
		errs = append(errs, fmt.Errorf("%w: missing canvas id", ErrInvalidDescriptor))
	}
	if d.Type != TypeBar {
		errs = append(errs, fmt.Errorf("%w: %q", ErrUnsupportedType, d.Type))
	}
	if len(d.Labels) == 0 {
		errs = append(errs, fmt.Errorf("%w: no labels", ErrInvalidDescriptor))
	}
	if len(d.Datasets) == 0 {
		errs = append(errs, fmt.Errorf("%w: no datasets", ErrInvalidDescriptor))
	}
	for i, ds := range d.Datasets {
		if len(ds.Data) != len(d.Labels) {
			errs = append(errs, fmt.Errorf("%w: dataset %d (%q) has %d values for %d labels",
				ErrInvalidDescriptor, i, ds.Label, len(ds.Data), len(d.Labels)))
		}
		for j, v := range ds.Data {
			if !isFinite(v) {
				errs = append(errs, fmt.Errorf("%w: dataset %d (%q) value %d is %v",
					ErrInvalidDescriptor, i, ds.Label, j, v))
			}
		}
	}
	for _, idx := range d.HighlightIndices {
		if idx < 0 || idx >= len(d.Labels) {
			errs = append(errs, fmt.Errorf("%w: highlight index %d out of range [0,%d)",
				ErrInvalidDescriptor, idx, len(d.Labels)))
		}
	}
	if err := errors.Join(errs...); err != nil {
		name := d.CanvasID
		if name == "" {
			name = "<unnamed>"
		}
		return fmt.Errorf("chart %s: %w", name, err)
	}
	return nil
}

// Highlighted reports whether the value at index i is highlighted.
func (d Descriptor) Highlighted(i int) bool {
	return slices.Contains(d.HighlightIndices, i)
}

// FileName is the PNG file name the descriptor renders to.
func (d Descriptor) FileName() string {
	return d.CanvasID + ".png"
}

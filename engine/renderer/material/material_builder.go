package material

import "github.com/Carmen-Shannon/vrscale/common"

// MaterialBuilderOption is a function that configures a Material during construction.
type MaterialBuilderOption func(*material)

// WithName sets the material's identifier.
//
// Parameters:
//   - name: the material name
//
// Returns:
//   - MaterialBuilderOption: a function that applies the name option
func WithName(name string) MaterialBuilderOption {
	return func(m *material) {
		m.name = name
	}
}

// WithShading sets the lighting model.
//
// Parameters:
//   - shading: the shading model
//
// Returns:
//   - MaterialBuilderOption: a function that applies the shading option
func WithShading(shading Shading) MaterialBuilderOption {
	return func(m *material) {
		m.shading = shading
	}
}

// WithBaseColor sets the diffuse (or unlit) color.
//
// Parameters:
//   - c: the base color
//
// Returns:
//   - MaterialBuilderOption: a function that applies the base color option
func WithBaseColor(c common.Color) MaterialBuilderOption {
	return func(m *material) {
		m.baseColor = c
	}
}

// WithSpecular sets the phong highlight color and exponent.
//
// Parameters:
//   - c: the specular color
//   - shininess: the phong exponent
//
// Returns:
//   - MaterialBuilderOption: a function that applies the specular option
func WithSpecular(c common.Color, shininess float32) MaterialBuilderOption {
	return func(m *material) {
		m.specular = c
		m.shininess = shininess
	}
}

// WithLineWidth sets the stroke width in pixels for line geometry.
func WithLineWidth(width float32) MaterialBuilderOption {
	return func(m *material) {
		if width > 0 {
			m.lineWidth = width
		}
	}
}

// WithOpacity sets the surface opacity in [0, 1].
func WithOpacity(opacity float32) MaterialBuilderOption {
	return func(m *material) {
		m.opacity = opacity
	}
}

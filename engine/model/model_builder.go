package model

import (
	"github.com/Carmen-Shannon/vrscale/engine/renderer/material"
)

// ModelBuilderOption is a function that configures a Model during construction.
type ModelBuilderOption func(*model)

// WithName sets the model's identifier.
//
// Parameters:
//   - name: the model name
//
// Returns:
//   - ModelBuilderOption: a function that applies the name option
func WithName(name string) ModelBuilderOption {
	return func(m *model) {
		m.name = name
	}
}

// WithGeometry sets the model's shape.
//
// Parameters:
//   - g: the geometry
//
// Returns:
//   - ModelBuilderOption: a function that applies the geometry option
func WithGeometry(g Geometry) ModelBuilderOption {
	return func(m *model) {
		m.geometry = g
	}
}

// WithMaterial sets the material applied to the geometry.
//
// Parameters:
//   - mat: the material
//
// Returns:
//   - ModelBuilderOption: a function that applies the material option
func WithMaterial(mat material.Material) ModelBuilderOption {
	return func(m *model) {
		m.mat = mat
	}
}

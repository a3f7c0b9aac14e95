package model

import (
	"sync"

	"github.com/Carmen-Shannon/vrscale/common"
	"github.com/Carmen-Shannon/vrscale/engine/renderer/material"
	"github.com/chewxy/math32"
)

// GeometryType identifies the analytic shape a Geometry describes.
type GeometryType int

const (
	// GeometrySphere is a sphere centered on the local origin.
	GeometrySphere GeometryType = iota

	// GeometryBox is an axis-aligned box centered on the local origin.
	GeometryBox

	// GeometryPolyline is an open line strip through a list of points.
	GeometryPolyline
)

// Geometry is an analytic shape in local space. Only the fields relevant to Type are meaningful.
type Geometry struct {
	Type GeometryType

	// Radius of a sphere.
	Radius float32

	// Size is the full extent of a box along each axis.
	Size common.Vec3

	// Points of a polyline.
	Points []common.Vec3
}

// Sphere returns sphere geometry of the given radius.
func Sphere(radius float32) Geometry {
	return Geometry{Type: GeometrySphere, Radius: radius}
}

// Box returns box geometry with the given full width, height and depth.
func Box(width, height, depth float32) Geometry {
	return Geometry{Type: GeometryBox, Size: common.Vec3{width, height, depth}}
}

// Polyline returns line-strip geometry through points. The slice is copied.
func Polyline(points []common.Vec3) Geometry {
	cp := make([]common.Vec3, len(points))
	copy(cp, points)
	return Geometry{Type: GeometryPolyline, Points: cp}
}

// Center returns the local-space center of the geometry's bounding sphere.
func (g Geometry) Center() common.Vec3 {
	if g.Type != GeometryPolyline || len(g.Points) == 0 {
		return common.Vec3{}
	}
	var sum common.Vec3
	for _, p := range g.Points {
		sum = sum.Add(p)
	}
	return sum.Scale(1 / float32(len(g.Points)))
}

// BoundingRadius returns the radius of a sphere around Center that encloses the geometry.
func (g Geometry) BoundingRadius() float32 {
	switch g.Type {
	case GeometrySphere:
		return math32.Abs(g.Radius)
	case GeometryBox:
		return g.Size.Scale(0.5).Length()
	case GeometryPolyline:
		c := g.Center()
		var r float32
		for _, p := range g.Points {
			r = math32.Max(r, p.Sub(c).Length())
		}
		return r
	}
	return 0
}

// BoxCorners returns the eight local-space corners of box geometry.
// Corner index bits select +x (1), +y (2) and +z (4).
func (g Geometry) BoxCorners() [8]common.Vec3 {
	h := g.Size.Scale(0.5)
	var out [8]common.Vec3
	for i := range out {
		c := common.Vec3{-h[0], -h[1], -h[2]}
		if i&1 != 0 {
			c[0] = h[0]
		}
		if i&2 != 0 {
			c[1] = h[1]
		}
		if i&4 != 0 {
			c[2] = h[2]
		}
		out[i] = c
	}
	return out
}

// BoxFaces lists the corner indices of each box face, wound counter-clockwise seen from outside,
// paired with the face's outward normal.
var BoxFaces = [6]struct {
	Corners [4]int
	Normal  common.Vec3
}{
	{[4]int{1, 3, 7, 5}, common.Vec3{1, 0, 0}},
	{[4]int{0, 4, 6, 2}, common.Vec3{-1, 0, 0}},
	{[4]int{2, 6, 7, 3}, common.Vec3{0, 1, 0}},
	{[4]int{0, 1, 5, 4}, common.Vec3{0, -1, 0}},
	{[4]int{4, 5, 7, 6}, common.Vec3{0, 0, 1}},
	{[4]int{0, 2, 3, 1}, common.Vec3{0, 0, -1}},
}

// model is the implementation of the Model interface.
type model struct {
	mu *sync.Mutex

	name     string
	geometry Geometry
	mat      material.Material
}

// Model pairs a Geometry with the Material used to shade it.
// Mesh and line nodes reference a Model; several nodes may share one.
type Model interface {
	// Name returns the model's identifier.
	//
	// Returns:
	//   - string: the model name
	Name() string

	// Geometry returns the model's shape.
	//
	// Returns:
	//   - Geometry: the shape in local space
	Geometry() Geometry

	// Material returns the material applied to the geometry.
	//
	// Returns:
	//   - material.Material: the material, never nil
	Material() material.Material

	// BoundingRadius returns the local-space bounding radius of the geometry.
	//
	// Returns:
	//   - float32: the bounding radius
	BoundingRadius() float32

	// SetGeometry replaces the model's shape.
	//
	// Parameters:
	//   - g: the new geometry
	SetGeometry(g Geometry)

	// SetMaterial replaces the model's material. A nil material is ignored.
	//
	// Parameters:
	//   - m: the new material
	SetMaterial(m material.Material)
}

var _ Model = &model{}

// NewModel creates a Model. Without options the geometry is a unit sphere with a default material.
//
// Parameters:
//   - options: functional options applied in order
//
// Returns:
//   - Model: the configured model
func NewModel(options ...ModelBuilderOption) Model {
	m := &model{
		mu:       &sync.Mutex{},
		geometry: Sphere(1),
	}
	for _, opt := range options {
		opt(m)
	}
	if m.mat == nil {
		m.mat = material.NewMaterial()
	}
	return m
}

func (m *model) Name() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.name
}

func (m *model) Geometry() Geometry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.geometry
}

func (m *model) Material() material.Material {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.mat
}

func (m *model) BoundingRadius() float32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.geometry.BoundingRadius()
}

func (m *model) SetGeometry(g Geometry) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.geometry = g
}

func (m *model) SetMaterial(mat material.Material) {
	if mat == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.mat = mat
}

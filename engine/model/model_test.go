package model

import (
	"testing"

	"github.com/Carmen-Shannon/vrscale/common"
	"github.com/Carmen-Shannon/vrscale/engine/renderer/material"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoundingRadius(t *testing.T) {
	tests := []struct {
		name string
		g    Geometry
		want float32
	}{
		{"sphere", Sphere(2), 2},
		{"negative sphere", Sphere(-3), 3},
		{"box", Box(2, 2, 2), 1.7320508},
		{"polyline", Polyline([]common.Vec3{{-1, 0, 0}, {1, 0, 0}}), 1},
		{"empty polyline", Polyline(nil), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, tt.g.BoundingRadius(), 1e-5)
		})
	}
}

func TestPolylineCopiesPoints(t *testing.T) {
	pts := []common.Vec3{{0, 0, 0}, {1, 1, 1}}
	g := Polyline(pts)
	pts[0] = common.Vec3{9, 9, 9}
	assert.Equal(t, common.Vec3{0, 0, 0}, g.Points[0])
	assert.Equal(t, common.Vec3{0.5, 0.5, 0.5}, g.Center())
}

func TestBoxCornersAndFaces(t *testing.T) {
	g := Box(20, 1, 20)
	corners := g.BoxCorners()
	assert.Equal(t, common.Vec3{-10, -0.5, -10}, corners[0])
	assert.Equal(t, common.Vec3{10, 0.5, 10}, corners[7])

	for _, f := range BoxFaces {
		var center common.Vec3
		for _, idx := range f.Corners {
			center = center.Add(corners[idx])
		}
		center = center.Scale(0.25)
		// Each face center lies on the side its normal points to.
		assert.Greater(t, center.Dot(f.Normal), float32(0))
	}
}

func TestNewModelDefaults(t *testing.T) {
	m := NewModel()
	require.NotNil(t, m.Material())
	assert.Equal(t, GeometrySphere, m.Geometry().Type)

	mat := material.NewPhong(0xaaffaa)
	m = NewModel(WithName("ball"), WithGeometry(Sphere(2)), WithMaterial(mat))
	assert.Equal(t, "ball", m.Name())
	assert.Same(t, mat, m.Material())
	assert.Equal(t, float32(2), m.BoundingRadius())

	m.SetMaterial(nil)
	assert.Same(t, mat, m.Material())
}

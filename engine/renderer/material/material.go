package material

import (
	"sync"

	"github.com/Carmen-Shannon/vrscale/common"
)

// Shading selects how a surface responds to scene lights.
type Shading int

const (
	// ShadingBasic ignores lights; the base color is drawn as-is. Used for guide lines.
	ShadingBasic Shading = iota

	// ShadingLambert applies ambient plus diffuse lighting.
	ShadingLambert

	// ShadingPhong adds a specular highlight on top of lambert lighting.
	ShadingPhong
)

// material is the implementation of the Material interface.
type material struct {
	mu *sync.Mutex

	name      string
	shading   Shading
	baseColor common.Color
	specular  common.Color
	shininess float32
	lineWidth float32
	opacity   float32
}

// Material describes how a mesh or line is shaded by the rasterizer.
//
// Materials are shared between nodes; mutating one affects every node that
// references it.
type Material interface {
	// Name returns the material's identifier.
	//
	// Returns:
	//   - string: the material name
	Name() string

	// Shading returns the lighting model applied to this material.
	//
	// Returns:
	//   - Shading: the shading model
	Shading() Shading

	// BaseColor returns the diffuse (or unlit) color.
	//
	// Returns:
	//   - common.Color: the base color
	BaseColor() common.Color

	// Specular returns the specular highlight color used by ShadingPhong.
	//
	// Returns:
	//   - common.Color: the specular color
	Specular() common.Color

	// Shininess returns the phong exponent. Larger values give tighter highlights.
	//
	// Returns:
	//   - float32: the shininess exponent
	Shininess() float32

	// LineWidth returns the stroke width in pixels for line geometry.
	//
	// Returns:
	//   - float32: the stroke width
	LineWidth() float32

	// Opacity returns the surface opacity in [0, 1].
	//
	// Returns:
	//   - float32: the opacity
	Opacity() float32

	// SetBaseColor replaces the base color.
	//
	// Parameters:
	//   - c: the new base color
	SetBaseColor(c common.Color)

	// SetOpacity replaces the surface opacity.
	//
	// Parameters:
	//   - opacity: the new opacity in [0, 1]
	SetOpacity(opacity float32)
}

var _ Material = &material{}

// NewMaterial creates a Material. Defaults to an opaque white lambert surface.
//
// Parameters:
//   - options: functional options applied in order
//
// Returns:
//   - Material: the configured material
func NewMaterial(options ...MaterialBuilderOption) Material {
	m := &material{
		mu:        &sync.Mutex{},
		shading:   ShadingLambert,
		baseColor: common.RGB(1, 1, 1),
		specular:  common.Hex(0x111111),
		shininess: 30,
		lineWidth: 1,
		opacity:   1,
	}
	for _, opt := range options {
		opt(m)
	}
	return m
}

// NewLambert is shorthand for a lambert material of the given packed color.
func NewLambert(rgb uint32) Material {
	return NewMaterial(WithShading(ShadingLambert), WithBaseColor(common.Hex(rgb)))
}

// NewPhong is shorthand for a phong material of the given packed color.
func NewPhong(rgb uint32) Material {
	return NewMaterial(WithShading(ShadingPhong), WithBaseColor(common.Hex(rgb)))
}

// NewLineBasic is shorthand for an unlit line material of the given packed color.
func NewLineBasic(rgb uint32) Material {
	return NewMaterial(WithShading(ShadingBasic), WithBaseColor(common.Hex(rgb)))
}

func (m *material) Name() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.name
}

func (m *material) Shading() Shading {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.shading
}

func (m *material) BaseColor() common.Color {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.baseColor
}

func (m *material) Specular() common.Color {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.specular
}

func (m *material) Shininess() float32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.shininess
}

func (m *material) LineWidth() float32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lineWidth
}

func (m *material) Opacity() float32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.opacity
}

func (m *material) SetBaseColor(c common.Color) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.baseColor = c
}

func (m *material) SetOpacity(opacity float32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.opacity = opacity
}

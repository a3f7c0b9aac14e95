package light

import (
	"github.com/Carmen-Shannon/vrscale/common"
	"github.com/chewxy/math32"
)

// ShadowConfig controls shadow projection for shadow-casting lights.
// The zero value disables shadows.
type ShadowConfig struct {
	// Enabled turns shadow projection on.
	Enabled bool

	// Soft blurs the shadow edge.
	Soft bool

	// Near and Far bound the distance from the light within which casters project shadows.
	Near float32
	Far  float32

	// Fov is the shadow camera's field of view in degrees. Casters outside it project nothing.
	Fov float32

	// Bias lifts shadows off the receiving surface to avoid z-fighting.
	Bias float32

	// Darkness is the opacity of a shadow in [0, 1].
	Darkness float32

	// MapWidth and MapHeight give the shadow resolution in texels; shadow outlines are
	// quantized to one texel of the receiver at this resolution.
	MapWidth  int
	MapHeight int
}

// DefaultShadowConfig returns the shadow settings used by the lit demo scenes.
func DefaultShadowConfig() ShadowConfig {
	return ShadowConfig{
		Enabled:   true,
		Soft:      false,
		Near:      1,
		Far:       100,
		Fov:       50,
		Bias:      0.0039,
		Darkness:  0.5,
		MapWidth:  256,
		MapHeight: 256,
	}
}

// ProjectOntoPlane projects point from the light onto the horizontal plane y = planeY.
// Returns false when the light is below the plane, the point is not between them,
// or the point falls outside the configured near/far range or cone.
//
// Parameters:
//   - l: the shadow-casting light
//   - point: the world-space point to project
//   - planeY: height of the receiving plane
//
// Returns:
//   - common.Vec3: the projected point on the plane
//   - float32: the magnification from point to plane (distance ratio)
//   - bool: true if a shadow falls on the plane
func (c ShadowConfig) ProjectOntoPlane(l Light, point common.Vec3, planeY float32) (common.Vec3, float32, bool) {
	if !c.Enabled || l == nil || !l.CastsShadows() || !l.Enabled() {
		return common.Vec3{}, 0, false
	}

	var origin, dir common.Vec3
	directional := false
	switch l.Type() {
	case LightTypeDirectional:
		directional = true
		dir = l.Direction()
		origin = point.Sub(dir)
	case LightTypePoint, LightTypeSpot:
		origin = l.Position()
		dir = point.Sub(origin)
		dist := dir.Length()
		if dist < c.Near || (c.Far > 0 && dist > c.Far) {
			return common.Vec3{}, 0, false
		}
		if l.Type() == LightTypeSpot && c.Fov > 0 {
			half := common.DegToRad(c.Fov) / 2
			if dir.Normalize().Dot(l.Direction()) < math32.Cos(half) {
				return common.Vec3{}, 0, false
			}
		}
	default:
		return common.Vec3{}, 0, false
	}

	if dir[1] >= 0 || origin[1] <= planeY || point[1] <= planeY {
		return common.Vec3{}, 0, false
	}

	t := (planeY + c.Bias - origin[1]) / dir[1]
	hit := origin.Add(dir.Scale(t))
	if directional {
		return hit, 1, true
	}
	return hit, t, true
}

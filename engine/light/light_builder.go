package light

import (
	"github.com/Carmen-Shannon/vrscale/common"
	"github.com/chewxy/math32"
)

// LightBuilderOption is a function that configures a Light instance during construction.
type LightBuilderOption func(*lightImpl)

// WithPosition is an option builder that sets the world-space position of the light.
//
// Parameters:
//   - p: the position
//
// Returns:
//   - LightBuilderOption: a function that applies the position option to a lightImpl
func WithPosition(p common.Vec3) LightBuilderOption {
	return func(l *lightImpl) {
		l.position = p
		l.aim()
	}
}

// WithTarget is an option builder that aims a spot light at a world-space point.
//
// Parameters:
//   - t: the target point
//
// Returns:
//   - LightBuilderOption: a function that applies the target option to a lightImpl
func WithTarget(t common.Vec3) LightBuilderOption {
	return func(l *lightImpl) {
		l.target = t
		l.aim()
	}
}

// WithDirection is an option builder that sets the travel direction of a directional light.
// The direction is normalized before storing. Spot lights derive their direction from the target instead.
//
// Parameters:
//   - d: the direction
//
// Returns:
//   - LightBuilderOption: a function that applies the direction option to a lightImpl
func WithDirection(d common.Vec3) LightBuilderOption {
	return func(l *lightImpl) {
		if d.Length() > 0 {
			l.direction = d.Normalize()
		}
	}
}

// WithColor is an option builder that sets the light color.
//
// Parameters:
//   - c: the color
//
// Returns:
//   - LightBuilderOption: a function that applies the color option to a lightImpl
func WithColor(c common.Color) LightBuilderOption {
	return func(l *lightImpl) {
		l.color = c
	}
}

// WithIntensity is an option builder that sets the scalar intensity multiplier.
//
// Parameters:
//   - intensity: the intensity value
//
// Returns:
//   - LightBuilderOption: a function that applies the intensity option to a lightImpl
func WithIntensity(intensity float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.intensity = intensity
	}
}

// WithRange is an option builder that sets the attenuation distance for point and spot lights.
//
// Parameters:
//   - r: the range; 0 disables distance attenuation
//
// Returns:
//   - LightBuilderOption: a function that applies the range option to a lightImpl
func WithRange(r float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.lightRange = r
	}
}

// WithCone is an option builder that sets a spot light's inner and outer half-angles in degrees.
// The inner angle is clamped to the outer angle.
//
// Parameters:
//   - innerDeg: half-angle of full intensity
//   - outerDeg: half-angle beyond which the light contributes nothing
//
// Returns:
//   - LightBuilderOption: a function that applies the cone option to a lightImpl
func WithCone(innerDeg, outerDeg float32) LightBuilderOption {
	return func(l *lightImpl) {
		innerDeg = math32.Min(innerDeg, outerDeg)
		l.innerCone = math32.Cos(common.DegToRad(innerDeg))
		l.outerCone = math32.Cos(common.DegToRad(outerDeg))
	}
}

// WithCastsShadows is an option builder that marks the light as a shadow caster.
//
// Parameters:
//   - casts: true to project shadows from this light
//
// Returns:
//   - LightBuilderOption: a function that applies the shadow option to a lightImpl
func WithCastsShadows(casts bool) LightBuilderOption {
	return func(l *lightImpl) {
		l.castsShadows = casts
	}
}

package light

import (
	"sync"

	"github.com/Carmen-Shannon/vrscale/common"
	"github.com/chewxy/math32"
)

// LightType identifies the kind of light source.
type LightType int

const (
	// LightTypeAmbient adds a constant contribution to every lit surface regardless of orientation.
	LightTypeAmbient LightType = iota

	// LightTypeDirectional represents a light with no position, only direction.
	// Affects all fragments uniformly with no distance attenuation.
	LightTypeDirectional

	// LightTypePoint represents a light that emits in all directions from a position.
	// Attenuates with distance up to a configurable range.
	LightTypePoint

	// LightTypeSpot represents a light that emits in a cone from a position towards a target.
	// Attenuates with both distance and angle from the cone axis.
	LightTypeSpot
)

// lightImpl is the implementation of the Light interface.
type lightImpl struct {
	mu *sync.Mutex

	lightType    LightType
	position     common.Vec3
	target       common.Vec3
	direction    common.Vec3
	color        common.Color
	intensity    float32
	lightRange   float32
	innerCone    float32 // stored as cos(angle in radians)
	outerCone    float32 // stored as cos(angle in radians)
	enabled      bool
	castsShadows bool
}

// Light defines the interface for a light source in the scene.
//
// All light types share this interface; type-specific properties (e.g. cone
// angles for spot lights) are ignored when not applicable.
type Light interface {
	// Type returns the kind of light source.
	//
	// Returns:
	//   - LightType: the light type
	Type() LightType

	// Position returns the world-space position of the light.
	// Meaningless for ambient and directional lights.
	//
	// Returns:
	//   - common.Vec3: the position
	Position() common.Vec3

	// Direction returns the normalized direction the light travels.
	// For spot lights this is the cone axis, derived from position and target.
	//
	// Returns:
	//   - common.Vec3: the normalized direction
	Direction() common.Vec3

	// Color returns the light color.
	//
	// Returns:
	//   - common.Color: the color
	Color() common.Color

	// Intensity returns the scalar intensity multiplier for the light.
	//
	// Returns:
	//   - float32: the intensity value
	Intensity() float32

	// Range returns the maximum attenuation distance for point and spot lights.
	// Zero means unlimited.
	//
	// Returns:
	//   - float32: the range value
	Range() float32

	// Enabled returns whether this light contributes to shading.
	//
	// Returns:
	//   - bool: true if the light is enabled
	Enabled() bool

	// CastsShadows returns whether this light is used to project shadows.
	//
	// Returns:
	//   - bool: true if the light casts shadows
	CastsShadows() bool

	// SetPosition sets the world-space position of the light.
	//
	// Parameters:
	//   - p: the new position
	SetPosition(p common.Vec3)

	// SetTarget points a spot light at a world-space target.
	//
	// Parameters:
	//   - t: the point the cone axis passes through
	SetTarget(t common.Vec3)

	// SetIntensity sets the scalar intensity multiplier.
	//
	// Parameters:
	//   - intensity: the new intensity
	SetIntensity(intensity float32)

	// SetEnabled toggles the light's contribution.
	//
	// Parameters:
	//   - enabled: true to enable
	SetEnabled(enabled bool)

	// Illuminate returns the light arriving at a surface point with the given normal,
	// before multiplication by the surface color. Ambient lights ignore the normal.
	//
	// Parameters:
	//   - point: the surface point in world space
	//   - normal: the unit surface normal
	//
	// Returns:
	//   - common.Color: the incoming light
	//   - common.Vec3: the unit vector from the point towards the light (zero for ambient)
	Illuminate(point, normal common.Vec3) (common.Color, common.Vec3)
}

var _ Light = &lightImpl{}

// NewLight creates a Light of the given type with the supplied options.
// Defaults: white, intensity 1, enabled, spot cone 60° outer / 54° inner, pointing down -Y.
//
// Parameters:
//   - lightType: the kind of light source
//   - options: functional options applied in order
//
// Returns:
//   - Light: the configured light
func NewLight(lightType LightType, options ...LightBuilderOption) Light {
	l := &lightImpl{
		mu:        &sync.Mutex{},
		lightType: lightType,
		direction: common.Vec3{0, -1, 0},
		color:     common.RGB(1, 1, 1),
		intensity: 1,
		innerCone: math32.Cos(common.DegToRad(54)),
		outerCone: math32.Cos(common.DegToRad(60)),
		enabled:   true,
	}
	for _, opt := range options {
		opt(l)
	}
	return l
}

// NewAmbientLight creates an ambient light of the given packed color.
func NewAmbientLight(rgb uint32) Light {
	return NewLight(LightTypeAmbient, WithColor(common.Hex(rgb)))
}

// NewSpotLight creates a spot light at position aimed at the world origin.
//
// Parameters:
//   - rgb: packed light color
//   - intensity: intensity multiplier
//   - lightRange: attenuation distance (0 for unlimited)
//   - position: world-space position
//
// Returns:
//   - Light: the spot light
func NewSpotLight(rgb uint32, intensity, lightRange float32, position common.Vec3) Light {
	return NewLight(LightTypeSpot,
		WithColor(common.Hex(rgb)),
		WithIntensity(intensity),
		WithRange(lightRange),
		WithPosition(position),
		WithTarget(common.Vec3{}),
	)
}

func (l *lightImpl) Type() LightType {
	return l.lightType
}

func (l *lightImpl) Position() common.Vec3 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.position
}

func (l *lightImpl) Direction() common.Vec3 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.direction
}

func (l *lightImpl) Color() common.Color {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.color
}

func (l *lightImpl) Intensity() float32 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.intensity
}

func (l *lightImpl) Range() float32 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.lightRange
}

func (l *lightImpl) Enabled() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.enabled
}

func (l *lightImpl) CastsShadows() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.castsShadows
}

func (l *lightImpl) SetPosition(p common.Vec3) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.position = p
	l.aim()
}

func (l *lightImpl) SetTarget(t common.Vec3) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.target = t
	l.aim()
}

func (l *lightImpl) SetIntensity(intensity float32) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.intensity = intensity
}

func (l *lightImpl) SetEnabled(enabled bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.enabled = enabled
}

// aim recomputes a spot light's direction from position and target. Caller holds mu.
func (l *lightImpl) aim() {
	if l.lightType != LightTypeSpot {
		return
	}
	if d := l.target.Sub(l.position); d.Length() > 0 {
		l.direction = d.Normalize()
	}
}

func (l *lightImpl) Illuminate(point, normal common.Vec3) (common.Color, common.Vec3) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.enabled {
		return common.Color{}, common.Vec3{}
	}
	radiance := l.color.Scale(l.intensity)

	switch l.lightType {
	case LightTypeAmbient:
		return radiance, common.Vec3{}

	case LightTypeDirectional:
		toLight := l.direction.Negate()
		return radiance.Scale(math32.Max(0, normal.Dot(toLight))), toLight

	case LightTypePoint, LightTypeSpot:
		offset := l.position.Sub(point)
		dist := offset.Length()
		if dist == 0 {
			return radiance, common.Vec3{}
		}
		toLight := offset.Scale(1 / dist)

		atten := float32(1)
		if l.lightRange > 0 {
			if dist >= l.lightRange {
				return common.Color{}, toLight
			}
			atten = 1 - dist/l.lightRange
		}

		if l.lightType == LightTypeSpot {
			cosAngle := toLight.Negate().Dot(l.direction)
			if cosAngle <= l.outerCone {
				return common.Color{}, toLight
			}
			if cosAngle < l.innerCone {
				atten *= (cosAngle - l.outerCone) / (l.innerCone - l.outerCone)
			}
		}

		return radiance.Scale(atten * math32.Max(0, normal.Dot(toLight))), toLight
	}

	return common.Color{}, common.Vec3{}
}

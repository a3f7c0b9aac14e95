package light

import (
	"testing"

	"github.com/Carmen-Shannon/vrscale/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAmbientIgnoresNormal(t *testing.T) {
	l := NewAmbientLight(0x404040)
	c, dir := l.Illuminate(common.Vec3{1, 2, 3}, common.Vec3{0, -1, 0})
	assert.InDelta(t, 64.0/255, c.R, 1e-6)
	assert.Equal(t, common.Vec3{}, dir)
}

func TestDirectionalLambert(t *testing.T) {
	l := NewLight(LightTypeDirectional, WithDirection(common.Vec3{0, -1, 0}))

	up, _ := l.Illuminate(common.Vec3{}, common.Vec3{0, 1, 0})
	assert.InDelta(t, 1, up.R, 1e-6)

	down, _ := l.Illuminate(common.Vec3{}, common.Vec3{0, -1, 0})
	assert.Zero(t, down.R)
}

func TestPointRangeAttenuation(t *testing.T) {
	l := NewLight(LightTypePoint, WithPosition(common.Vec3{0, 10, 0}), WithRange(20))

	c, dir := l.Illuminate(common.Vec3{}, common.Vec3{0, 1, 0})
	assert.InDelta(t, 0.5, c.G, 1e-6)
	assert.Equal(t, common.Vec3{0, 1, 0}, dir)

	far, _ := l.Illuminate(common.Vec3{0, -15, 0}, common.Vec3{0, 1, 0})
	assert.Zero(t, far.G)
}

func TestSpotConeCutoff(t *testing.T) {
	l := NewLight(LightTypeSpot,
		WithPosition(common.Vec3{0, 10, 0}),
		WithTarget(common.Vec3{}),
		WithCone(10, 20),
	)
	dir := l.Direction()
	assert.InDeltaSlice(t, []float32{0, -1, 0}, dir[:], 1e-6)

	inside, _ := l.Illuminate(common.Vec3{}, common.Vec3{0, 1, 0})
	assert.InDelta(t, 1, inside.B, 1e-6)

	outside, _ := l.Illuminate(common.Vec3{10, 0, 0}, common.Vec3{0, 1, 0})
	assert.Zero(t, outside.B)
}

func TestDisabledLightContributesNothing(t *testing.T) {
	l := NewAmbientLight(0xffffff)
	l.SetEnabled(false)
	c, _ := l.Illuminate(common.Vec3{}, common.Vec3{0, 1, 0})
	assert.Equal(t, common.Color{}, c)
}

func TestShadowProjectOntoPlane(t *testing.T) {
	cfg := DefaultShadowConfig()
	l := NewSpotLight(0xffffff, 1, 100, common.Vec3{0, 10, 0})

	_, _, ok := cfg.ProjectOntoPlane(l, common.Vec3{0, 5, 0}, 0)
	assert.False(t, ok, "light does not cast shadows")

	l = NewLight(LightTypeSpot,
		WithPosition(common.Vec3{0, 10, 0}),
		WithTarget(common.Vec3{}),
		WithCastsShadows(true),
	)
	hit, mag, ok := cfg.ProjectOntoPlane(l, common.Vec3{1, 5, 0}, 0)
	require.True(t, ok)
	assert.InDelta(t, 2, hit.X(), 1e-3)
	assert.InDelta(t, cfg.Bias, hit.Y(), 1e-6)
	assert.InDelta(t, 2, mag, 1e-3)

	_, _, ok = cfg.ProjectOntoPlane(l, common.Vec3{1, -1, 0}, 0)
	assert.False(t, ok, "point below the plane")

	cfg.Enabled = false
	_, _, ok = cfg.ProjectOntoPlane(l, common.Vec3{1, 5, 0}, 0)
	assert.False(t, ok)
}

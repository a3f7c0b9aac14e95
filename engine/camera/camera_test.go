package camera

import (
	"testing"

	"github.com/Carmen-Shannon/vrscale/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPerspectiveProjectsCenterToOrigin(t *testing.T) {
	c := NewPerspective(common.DegToRad(75), 1, 0.1, 50)

	ndc, ok := c.Project(common.Vec3{0, 0, -10})
	require.True(t, ok)
	assert.InDelta(t, 0, ndc.X(), 1e-6)
	assert.InDelta(t, 0, ndc.Y(), 1e-6)
	assert.Greater(t, ndc.Z(), float32(0))
	assert.Less(t, ndc.Z(), float32(1))

	_, ok = c.Project(common.Vec3{0, 0, 10})
	assert.False(t, ok, "point behind the camera")
}

func TestOrthographicBoundsFollowAspect(t *testing.T) {
	c := NewOrthographic(10, 2, 1, 50)

	l, r, top, b := c.Bounds()
	assert.Equal(t, float32(-10), l)
	assert.Equal(t, float32(10), r)
	assert.Equal(t, float32(5), top)
	assert.Equal(t, float32(-5), b)

	ndc, ok := c.Project(common.Vec3{10, 5, -10})
	require.True(t, ok)
	assert.InDelta(t, 1, ndc.X(), 1e-5)
	assert.InDelta(t, 1, ndc.Y(), 1e-5)
	assert.InDelta(t, 9.0/49, ndc.Z(), 1e-5)

	c.SetAspect(1)
	_, _, top, _ = c.Bounds()
	assert.Equal(t, float32(10), top)
}

func TestSetAspectIgnoresInvalid(t *testing.T) {
	c := NewPerspective(1, 1.5, 0.1, 50)
	c.SetAspect(0)
	c.SetAspect(-2)
	assert.Equal(t, float32(1.5), c.Aspect())
}

func TestRigDrivesViewMatrix(t *testing.T) {
	c := NewOrthographic(10, 1, 1, 50, WithRig(Rig{
		Position: common.Vec3{0, 5, -10},
		Target:   common.Vec3{0, 0, -10},
		Up:       common.Vec3{0, 0, -1},
	}))

	// Looking straight down, a point below the camera is in front of it.
	assert.InDelta(t, 5, c.ViewDepth(common.Vec3{0, 0, -10}), 1e-5)

	// Up is -Z, so a point further away in -Z is at the top of the view.
	ndc, ok := c.Project(common.Vec3{0, 0, -15})
	require.True(t, ok)
	assert.InDelta(t, 0.5, ndc.Y(), 1e-5)

	c.SetRig(c.Rig().Translate(common.Vec3{3, 0, 0}))
	assert.Equal(t, common.Vec3{3, 5, -10}, c.Position())
	assert.Equal(t, common.Vec3{3, 0, -10}, c.Rig().Target)
}

func TestLookAtAndFrustum(t *testing.T) {
	c := NewPerspective(common.DegToRad(75), 1, 0.1, 50)
	c.LookAt(common.Vec3{10, 0, 0})

	f := c.Frustum()
	assert.True(t, f.ContainsSphere(common.Vec3{10, 0, 0}, 1))
	assert.False(t, f.ContainsSphere(common.Vec3{0, 0, -10}, 1))
	assert.False(t, f.ContainsSphere(common.Vec3{100, 0, 0}, 1), "beyond the far plane")
}

func TestCloneIsIndependent(t *testing.T) {
	c := NewPerspective(1, 1, 0.1, 50)
	cp := c.Clone()
	cp.SetPosition(common.Vec3{1, 2, 3})
	assert.Equal(t, common.Vec3{}, c.Position())
	assert.Equal(t, common.Vec3{1, 2, 3}, cp.Position())
	assert.Equal(t, c.Fov(), cp.Fov())
}

func TestFovZeroForOrthographic(t *testing.T) {
	assert.Zero(t, NewOrthographic(10, 1, 1, 50).Fov())
	assert.Equal(t, ProjectionOrthographic, NewOrthographic(10, 1, 1, 50).Projection())
}

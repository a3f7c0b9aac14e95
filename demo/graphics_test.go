package demo

import (
	"testing"

	"github.com/Carmen-Shannon/vrscale/common"
	"github.com/Carmen-Shannon/vrscale/engine/node"
	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lineEnds(t *testing.T, n node.Node) (common.Vec3, common.Vec3) {
	t.Helper()
	require.Equal(t, node.KindLine, n.Kind())
	pts := n.Model().Geometry().Points
	require.Len(t, pts, LineSegments+1)
	return pts[0], pts[len(pts)-1]
}

func assertVecNear(t *testing.T, expected, actual common.Vec3) {
	t.Helper()
	for i := range expected {
		assert.InDelta(t, expected[i], actual[i], 1e-4, "component %d of %v", i, actual)
	}
}

func TestFollowSphere(t *testing.T) {
	g := FollowSphere(common.Vec3{}, common.Vec3{0, 0, -10}, 2)
	children := g.Children()
	require.Len(t, children, 2)

	start, end := lineEnds(t, children[0])
	assertVecNear(t, common.Vec3{}, start)
	assertVecNear(t, common.Vec3{2, 0, -10}, end)

	start, end = lineEnds(t, children[1])
	assertVecNear(t, common.Vec3{}, start)
	assertVecNear(t, common.Vec3{-2, 0, -10}, end)
}

func TestFovGraphic(t *testing.T) {
	origin := common.Vec3{1, 0, 0}
	g := FovGraphic(origin, common.Vec3{0, 0, -100}, 90)
	assert.Equal(t, origin, g.Position())

	children := g.Children()
	require.Len(t, children, 2)
	assert.InDelta(t, math32.Pi/4, children[0].Rotation().Y(), 1e-6)
	assert.InDelta(t, -math32.Pi/4, children[1].Rotation().Y(), 1e-6)

	// world-space end of the first line is origin + (0,0,-100) rotated 45 degrees about Y
	_, end := lineEnds(t, children[0])
	world, _ := children[0].WorldMatrix().TransformPoint(end)
	expected := origin.Add(common.Vec3{0, 0, -100}.RotateY(math32.Pi / 4))
	assertVecNear(t, expected, world)
}

func TestLineOfSpheresSubtendEqualAngles(t *testing.T) {
	group, spheres := LineOfSpheres(common.Vec3{-6, 0, -18}, common.Vec3{3.5, 0, -9}, 3, 1)
	require.Len(t, spheres, 3)
	assert.Len(t, group.Children(), 3)

	want := spheres[0].Radius / math32.Abs(spheres[0].Center().Z())
	for _, s := range spheres {
		assert.InDelta(t, want, s.Radius/math32.Abs(s.Center().Z()), 1e-6)
		assert.True(t, s.Node.CastShadow())
		assert.InDelta(t, s.Radius, s.Node.Scale().X(), 1e-6)
	}

	// middle sphere sits at the mid depth with scale 1
	assert.InDelta(t, -13.5, spheres[1].Center().Z(), 1e-5)
	assert.InDelta(t, 1, spheres[1].Radius, 1e-6)
	// x is scaled with the radius
	assert.InDelta(t, -6*18/13.5, spheres[0].Center().X(), 1e-4)
}

func TestLineOfSpheresEdgeCounts(t *testing.T) {
	group, spheres := LineOfSpheres(common.Vec3{0, 0, -5}, common.Vec3{0, 0, -15}, 0, 1)
	assert.Empty(t, spheres)
	assert.Empty(t, group.Children())

	_, spheres = LineOfSpheres(common.Vec3{0, 0, -5}, common.Vec3{0, 0, -15}, 1, 1)
	require.Len(t, spheres, 1)
	assert.Equal(t, common.Vec3{0, 0, -5}, spheres[0].Center())
}

func TestFollowLinesForSpheres(t *testing.T) {
	_, spheres := LineOfSpheres(common.Vec3{-6, 0, -18}, common.Vec3{3.5, 0, -9}, 3, 1)
	lines := FollowLinesForSpheres(common.Vec3{}, spheres)
	require.Len(t, lines, 3)
	for _, l := range lines {
		assert.Len(t, l.Children(), 2)
	}
}

package node

import (
	"testing"

	"github.com/Carmen-Shannon/vrscale/common"
	"github.com/Carmen-Shannon/vrscale/engine/light"
	"github.com/Carmen-Shannon/vrscale/engine/model"
	"github.com/Carmen-Shannon/vrscale/engine/renderer/material"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReplaceChildrenTransfersOwnership(t *testing.T) {
	parent := NewGroup(WithName("follow"))
	a := NewLine([]common.Vec3{{}, {1, 0, 0}}, material.NewLineBasic(0x00ff00))
	b := NewLine([]common.Vec3{{}, {0, 1, 0}}, material.NewLineBasic(0x00ff00))
	parent.Add(a, b)
	require.Len(t, parent.Children(), 2)

	c := NewLine([]common.Vec3{{}, {0, 0, 1}}, material.NewLineBasic(0x00ff00))
	removed := parent.ReplaceChildren(c)

	assert.Equal(t, []Node{a, b}, removed)
	assert.Nil(t, a.Parent())
	assert.Nil(t, b.Parent())
	assert.Equal(t, []Node{c}, parent.Children())
	assert.Equal(t, parent, c.Parent())

	removed = parent.ReplaceChildren()
	assert.Equal(t, []Node{c}, removed)
	assert.Empty(t, parent.Children())
}

func TestAddReparents(t *testing.T) {
	first := NewGroup()
	second := NewGroup()
	child := NewGroup()

	first.Add(child)
	second.Add(child)

	assert.Empty(t, first.Children())
	assert.Equal(t, []Node{child}, second.Children())
	assert.Equal(t, second, child.Parent())
}

func TestAddRejectsCycles(t *testing.T) {
	root := NewGroup()
	child := NewGroup()
	root.Add(child)

	child.Add(root)
	child.Add(child)

	assert.Empty(t, child.Children())
	assert.Nil(t, root.Parent())
}

func TestRemoveIgnoresStrangers(t *testing.T) {
	root := NewGroup()
	child := NewGroup()
	stranger := NewGroup()
	root.Add(child)

	root.Remove(stranger)
	assert.Len(t, root.Children(), 1)

	root.Remove(child)
	assert.Empty(t, root.Children())
	assert.Nil(t, child.Parent())
}

func TestWorldTransform(t *testing.T) {
	group := NewGroup(WithPosition(common.Vec3{0, -1, 0}), WithScale(common.Vec(2)))
	child := NewMesh(model.NewModel(), WithPosition(common.Vec3{1, 0, 0}))
	group.Add(child)

	assert.InDeltaSlice(t, []float32{2, -1, 0}, sliceOf(child.WorldPosition()), 1e-6)

	var visited []uint64
	var childWorld common.Mat4
	group.Traverse(func(n Node, world common.Mat4) bool {
		visited = append(visited, n.ID())
		if n == child {
			childWorld = world
		}
		return true
	})
	assert.Equal(t, []uint64{group.ID(), child.ID()}, visited)
	assert.Equal(t, child.WorldMatrix(), childWorld)
	assert.InDelta(t, 2, childWorld.MaxScale(), 1e-6)
}

func TestTraverseSkipsSubtree(t *testing.T) {
	root := NewGroup()
	hidden := NewGroup(WithVisible(false), WithChildren(NewGroup()))
	root.Add(hidden)

	count := 0
	root.Traverse(func(n Node, _ common.Mat4) bool {
		count++
		return n.Visible()
	})
	assert.Equal(t, 2, count)
}

func TestRotatedParent(t *testing.T) {
	group := NewGroup(WithRotation(common.Vec3{0, common.DegToRad(90), 0}))
	child := NewGroup(WithPosition(common.Vec3{1, 0, 0}))
	group.Add(child)

	p := child.WorldPosition()
	assert.InDelta(t, 0, p.X(), 1e-5)
	assert.InDelta(t, -1, p.Z(), 1e-5)
}

func TestCloneIsDetachedDeepCopy(t *testing.T) {
	mdl := model.NewModel(model.WithGeometry(model.Sphere(2)))
	root := NewGroup(WithName("spheres"), WithPosition(common.Vec3{0, -1, 0}))
	root.Add(NewMesh(mdl, WithCastShadow(true)))
	NewGroup().Add(root)

	cp := root.Clone()
	assert.Nil(t, cp.Parent())
	assert.NotEqual(t, root.ID(), cp.ID())
	assert.Equal(t, "spheres", cp.Name())
	require.Len(t, cp.Children(), 1)

	cc := cp.Children()[0]
	assert.Equal(t, cp, cc.Parent())
	assert.Same(t, mdl, cc.Model())
	assert.True(t, cc.CastShadow())

	cc.SetPosition(common.Vec3{5, 0, 0})
	assert.Equal(t, common.Vec3{}, root.Children()[0].Position())
}

func TestLightNodeStartsAtLightPosition(t *testing.T) {
	l := light.NewSpotLight(0xffffff, 1, 100, common.Vec3{30, 40, 10})
	n := NewLightNode(l)
	assert.Equal(t, KindLight, n.Kind())
	assert.Equal(t, common.Vec3{30, 40, 10}, n.Position())
	assert.Same(t, l, n.Light())
	assert.Equal(t, "light", n.Kind().String())
}

func TestLineNodeGeometry(t *testing.T) {
	pts := common.LineGeometry(common.Vec3{}, common.Vec3{10, 0, 0}, 11)
	n := NewLine(pts, material.NewLineBasic(0xff0000))
	require.NotNil(t, n.Model())
	assert.Equal(t, model.GeometryPolyline, n.Model().Geometry().Type)
	assert.Len(t, n.Model().Geometry().Points, 12)
	assert.Equal(t, material.ShadingBasic, n.Model().Material().Shading())
}

func sliceOf(v common.Vec3) []float32 {
	return v[:]
}

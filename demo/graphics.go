package demo

import (
	"github.com/Carmen-Shannon/vrscale/common"
	"github.com/Carmen-Shannon/vrscale/engine/model"
	"github.com/Carmen-Shannon/vrscale/engine/node"
	"github.com/Carmen-Shannon/vrscale/engine/renderer/material"
	"github.com/chewxy/math32"
)

// LineSegments is the number of segments every guide line is built from.
const LineSegments = 11

// SphereColor is the colour of every demo sphere.
const SphereColor = 0xaaffaa

var yAxis = common.Vec3{0, 1, 0}

// SphereHandle is a sphere node together with its effective world radius.
type SphereHandle struct {
	Node   node.Node
	Radius float32
}

// Center returns the sphere's position in its parent's space.
func (s SphereHandle) Center() common.Vec3 {
	return s.Node.Position()
}

func lineMaterial() material.Material {
	return material.NewMaterial(
		material.WithShading(material.ShadingBasic),
		material.WithBaseColor(common.Hex(0xffffff)),
		material.WithLineWidth(2),
	)
}

func sphereModel(radius float32) model.Model {
	return model.NewModel(
		model.WithName("sphere"),
		model.WithGeometry(model.Sphere(radius)),
		model.WithMaterial(material.NewPhong(SphereColor)),
	)
}

// MakeLine builds a line node from start to end.
func MakeLine(start, end common.Vec3) node.Node {
	return node.NewLine(common.LineGeometry(start, end, LineSegments), lineMaterial())
}

// FovGraphic shows a camera's horizontal field of view in the top-down view: two lines from origin
// along direction, rotated by plus and minus half of fovDegrees about the Y axis.
//
// Parameters:
//   - origin: the eye position; the returned group is placed here
//   - direction: the un-rotated line end relative to origin
//   - fovDegrees: the full field of view in degrees
//
// Returns:
//   - node.Node: a group holding the two lines
func FovGraphic(origin, direction common.Vec3, fovDegrees float32) node.Node {
	half := fovDegrees / 360 * math32.Pi
	line := MakeLine(common.Vec3{}, direction)

	left := line.Clone()
	left.SetRotation(common.Vec3{0, half, 0})
	right := line.Clone()
	right.SetRotation(common.Vec3{0, -half, 0})

	return node.NewGroup(
		node.WithName("fov-graphic"),
		node.WithPosition(origin),
		node.WithChildren(left, right),
	)
}

// FollowSphere draws two lines from eye to the left and right silhouette points of a sphere
// as seen from above.
//
// Parameters:
//   - eye: the eye position
//   - center: the sphere center
//   - radius: the sphere radius
//
// Returns:
//   - node.Node: a group holding the two lines
func FollowSphere(eye, center common.Vec3, radius float32) node.Node {
	side := center.Sub(eye).Cross(yAxis).SetLength(radius)
	return node.NewGroup(
		node.WithName("follow-sphere"),
		node.WithChildren(
			MakeLine(eye, center.Add(side)),
			MakeLine(eye, center.Add(side.Negate())),
		),
	)
}

// LineOfSpheres places n spheres evenly from start to end, scaled so that every sphere subtends the
// same angle from the origin. Each sphere's x is scaled along with its radius.
//
// Parameters:
//   - start, end: the first and last sphere positions before scaling
//   - n: number of spheres; a single sphere sits at start and n <= 0 yields none
//   - radius: the radius of a sphere at the middle depth
//
// Returns:
//   - node.Node: a group holding the spheres
//   - []SphereHandle: the spheres in order with their scaled radii
func LineOfSpheres(start, end common.Vec3, n int, radius float32) (node.Node, []SphereHandle) {
	group := node.NewGroup(node.WithName("spheres"))
	if n <= 0 {
		return group, nil
	}

	middleZ := (start.Z() + end.Z()) / 2
	proto := node.NewMesh(sphereModel(radius), node.WithName("sphere"), node.WithCastShadow(true))

	spheres := make([]SphereHandle, 0, n)
	for i := range n {
		var alpha float32
		if n > 1 {
			alpha = float32(i) / float32(n-1)
		}
		pos := start.Lerp(end, alpha)
		scale := pos.Z() / middleZ
		pos[0] *= scale

		sphere := proto.Clone()
		sphere.SetPosition(pos)
		sphere.SetUniformScale(scale)
		group.Add(sphere)
		spheres = append(spheres, SphereHandle{Node: sphere, Radius: radius * scale})
	}
	return group, spheres
}

// FollowLinesForSpheres builds one FollowSphere graphic per sphere.
func FollowLinesForSpheres(eye common.Vec3, spheres []SphereHandle) []node.Node {
	lines := make([]node.Node, len(spheres))
	for i, s := range spheres {
		lines[i] = FollowSphere(eye, s.Center(), s.Radius)
	}
	return lines
}

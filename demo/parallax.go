package demo

import (
	"time"

	"github.com/Carmen-Shannon/vrscale/common"
	"github.com/Carmen-Shannon/vrscale/engine/camera"
	"github.com/Carmen-Shannon/vrscale/engine/node"
	"github.com/Carmen-Shannon/vrscale/engine/scene"
	"github.com/Carmen-Shannon/vrscale/engine/viewport"
)

// ParallaxState is the mutable state of the parallax scenario.
type ParallaxState struct {
	Eye       common.Vec3
	Spheres   []SphereHandle
	Group     node.Node
	Follow    node.Node
	Fov       node.Node
	Camera    camera.Camera
	AnimScale float64

	// Offset is the last computed eye x, 3 sin(t/scale).
	Offset float32
}

// NewParallaxScene builds a lit scene with three spheres that look identical from the origin.
// The eye sways sideways so their different depths show up as parallax.
//
// Parameters:
//   - ctx: the render context; its perspective view camera follows the eye
//   - cfg: scenario settings
//
// Returns:
//   - scene.Scene: the scene with Step installed as its update callback
//   - *ParallaxState: the state mutated by Step
func NewParallaxScene(ctx viewport.RenderContext, cfg Config) (scene.Scene, *ParallaxState) {
	cfg = cfg.withDefaults()
	applyFov(ctx, cfg.FovDegrees)

	st := &ParallaxState{
		AnimScale: cfg.AnimScale,
		Camera:    viewCamera(ctx, viewport.ViewPerspective),
	}
	st.Group, st.Spheres = LineOfSpheres(common.Vec3{-6, 0, -18}, common.Vec3{3.5, 0, -9}, 3, 1)
	st.Group.SetPosition(common.Vec3{0, -1, 0})

	st.Fov = FovGraphic(st.Eye, common.Vec3{0, 0, -100}, cfg.FovDegrees)
	st.Follow = node.NewGroup(node.WithName("follow"), node.WithChildren(FollowLinesForSpheres(st.Eye, st.Spheres)...))

	objects := node.NewGroup(node.WithName("objects"), node.WithChildren(st.Group, st.Fov, st.Follow))
	s := scene.NewLitScene(cfg.Shadows,
		scene.WithName(ScenarioParallax),
		scene.WithNodes(objects),
		scene.WithUpdate(st.Step),
	)
	return s, st
}

// Step moves the eye, the perspective camera and the FOV graphic to x = 3 sin(t/scale)
// and rebuilds the follow lines for every sphere.
func (st *ParallaxState) Step(elapsed time.Duration) {
	x := 3 * wave(elapsed, st.AnimScale)
	st.Offset = x
	st.Eye[0] = x

	if st.Camera != nil {
		rig := st.Camera.Rig()
		rig = rig.Translate(common.Vec3{x - rig.Position.X(), 0, 0})
		st.Camera.SetRig(rig)
	}

	fovPos := st.Fov.Position()
	fovPos[0] = x
	st.Fov.SetPosition(fovPos)

	st.Follow.ReplaceChildren(FollowLinesForSpheres(st.Eye, st.Spheres)...)
}

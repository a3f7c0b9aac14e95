package demo

import (
	"time"

	"github.com/Carmen-Shannon/vrscale/common"
	"github.com/Carmen-Shannon/vrscale/engine/camera"
	"github.com/Carmen-Shannon/vrscale/engine/node"
	"github.com/Carmen-Shannon/vrscale/engine/scene"
	"github.com/Carmen-Shannon/vrscale/engine/viewport"
	"github.com/chewxy/math32"
)

// BinocularState is the mutable state of the binocular scenario.
type BinocularState struct {
	LeftEye     common.Vec3
	RightEye    common.Vec3
	LeftCamera  camera.Camera
	RightCamera camera.Camera
	Sphere      node.Node
	Radius      float32
	Follow      node.Node
	Fov         node.Node
	FovDegrees  float32
	AnimScale   float64

	// Vergence is the angle in radians between the two lines of sight.
	Vergence float32
}

// NewBinocularScene builds a lit scene with one sphere swinging in depth in front of two eyes
// that toe in to keep it centred.
//
// Parameters:
//   - ctx: a context from viewport.NewBinocularContext; its eye cameras are driven by Step
//   - cfg: scenario settings
//
// Returns:
//   - scene.Scene: the scene with Step installed as its update callback
//   - *BinocularState: the state mutated by Step
func NewBinocularScene(ctx viewport.RenderContext, cfg Config) (scene.Scene, *BinocularState) {
	cfg = cfg.withDefaults()
	applyFov(ctx, cfg.FovDegrees)

	half := cfg.IPD / 2
	st := &BinocularState{
		LeftEye:     common.Vec3{-half, 0, 0},
		RightEye:    common.Vec3{half, 0, 0},
		LeftCamera:  viewCamera(ctx, viewport.ViewLeftEye),
		RightCamera: viewCamera(ctx, viewport.ViewRightEye),
		Radius:      1,
		FovDegrees:  cfg.FovDegrees,
		AnimScale:   cfg.AnimScale,
	}
	st.Sphere = node.NewMesh(sphereModel(st.Radius),
		node.WithName("sphere"),
		node.WithPosition(common.Vec3{0, 0, -12}),
		node.WithCastShadow(true),
	)
	st.Follow = node.NewGroup(node.WithName("follow"))
	st.Fov = node.NewGroup(node.WithName("fov"))
	st.converge(st.Sphere.Position())

	objects := node.NewGroup(node.WithName("objects"), node.WithChildren(st.Sphere, st.Follow, st.Fov))
	s := scene.NewLitScene(cfg.Shadows,
		scene.WithName(ScenarioBinocular),
		scene.WithNodes(objects),
		scene.WithUpdate(st.Step),
	)
	return s, st
}

// Step moves the sphere to z = -8p with p = sin(t/scale) + 1.5 and turns both eyes towards it.
func (st *BinocularState) Step(elapsed time.Duration) {
	p := wave(elapsed, st.AnimScale) + 1.5

	pos := st.Sphere.Position()
	pos[2] = -(p * 8)
	st.Sphere.SetPosition(pos)

	st.converge(pos)
}

// converge aims both eyes at target and rebuilds their guide graphics.
func (st *BinocularState) converge(target common.Vec3) {
	for _, eye := range []struct {
		pos common.Vec3
		cam camera.Camera
	}{{st.LeftEye, st.LeftCamera}, {st.RightEye, st.RightCamera}} {
		if eye.cam == nil {
			continue
		}
		rig := eye.cam.Rig()
		rig.Position = eye.pos
		eye.cam.SetRig(rig.LookAt(target))
	}

	left := target.Sub(st.LeftEye).Normalize()
	right := target.Sub(st.RightEye).Normalize()
	st.Vergence = math32.Acos(math32.Min(1, math32.Max(-1, left.Dot(right))))

	st.Follow.ReplaceChildren(
		FollowSphere(st.LeftEye, target, st.Radius),
		FollowSphere(st.RightEye, target, st.Radius),
	)
	st.Fov.ReplaceChildren(
		FovGraphic(st.LeftEye, left.Scale(100), st.FovDegrees),
		FovGraphic(st.RightEye, right.Scale(100), st.FovDegrees),
	)
}

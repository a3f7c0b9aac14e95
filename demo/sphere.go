package demo

import (
	"time"

	"github.com/Carmen-Shannon/vrscale/common"
	"github.com/Carmen-Shannon/vrscale/engine/node"
	"github.com/Carmen-Shannon/vrscale/engine/scene"
	"github.com/Carmen-Shannon/vrscale/engine/viewport"
)

// SphereState is the mutable state of the sphere scenario.
type SphereState struct {
	Eye       common.Vec3
	Sphere    node.Node
	Radius    float32
	Follow    node.Node
	Fov       node.Node
	AnimScale float64

	// Param is the last computed sin(t/scale) + 1.3.
	Param float32
}

// NewSphereScene builds a lit scene with a single sphere that moves away from and towards the eye
// while growing and shrinking, so its apparent size from the origin never changes.
//
// Parameters:
//   - ctx: the render context; its perspective camera takes cfg.FovDegrees
//   - cfg: scenario settings
//
// Returns:
//   - scene.Scene: the scene with Step installed as its update callback
//   - *SphereState: the state mutated by Step
func NewSphereScene(ctx viewport.RenderContext, cfg Config) (scene.Scene, *SphereState) {
	cfg = cfg.withDefaults()
	applyFov(ctx, cfg.FovDegrees)

	st := &SphereState{
		Radius:    2,
		AnimScale: cfg.AnimScale,
		Param:     1,
	}
	st.Sphere = node.NewMesh(sphereModel(st.Radius),
		node.WithName("sphere"),
		node.WithPosition(common.Vec3{0, 0, -10}),
		node.WithCastShadow(true),
	)
	st.Follow = node.NewGroup(node.WithName("follow"), node.WithChildren(FollowSphere(st.Eye, st.Sphere.Position(), st.Radius)))
	st.Fov = FovGraphic(st.Eye, common.Vec3{0, 0, -100}, cfg.FovDegrees)

	objects := node.NewGroup(node.WithName("objects"), node.WithChildren(st.Sphere, st.Follow, st.Fov))
	s := scene.NewLitScene(cfg.Shadows,
		scene.WithName(ScenarioSphere),
		scene.WithNodes(objects),
		scene.WithUpdate(st.Step),
	)
	return s, st
}

// Step moves the sphere to z = -10p and scales it by p, where p = sin(t/scale) + 1.3,
// then rebuilds the follow lines against the scaled silhouette.
func (st *SphereState) Step(elapsed time.Duration) {
	p := wave(elapsed, st.AnimScale) + 1.3
	st.Param = p

	pos := st.Sphere.Position()
	pos[2] = -10 * p
	st.Sphere.SetPosition(pos)
	st.Sphere.SetUniformScale(p)

	st.Follow.ReplaceChildren(FollowSphere(st.Eye, pos, st.Radius*p))
}

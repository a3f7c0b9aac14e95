package demo

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/Carmen-Shannon/vrscale/common"
	"github.com/Carmen-Shannon/vrscale/engine"
	"github.com/Carmen-Shannon/vrscale/engine/camera"
	"github.com/Carmen-Shannon/vrscale/engine/renderer"
	"github.com/Carmen-Shannon/vrscale/engine/scene"
	"github.com/Carmen-Shannon/vrscale/engine/viewport"
	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// quarter is the elapsed time at which sin(t/700) reaches 1.
var quarter = time.Duration(700 * math32.Pi / 2 * float32(time.Millisecond))

func offscreen(t *testing.T) renderer.Renderer {
	t.Helper()
	r, err := renderer.NewRenderer(renderer.BackendTypeOffscreen)
	require.NoError(t, err)
	t.Cleanup(func() { _ = r.Close() })
	return r
}

func TestBuildUnknownScenario(t *testing.T) {
	_, _, err := Build("cube", offscreen(t), DefaultConfig())
	assert.ErrorIs(t, err, ErrUnknownScenario)
}

func TestBuildAndRenderEveryScenario(t *testing.T) {
	for _, name := range Scenarios() {
		t.Run(name, func(t *testing.T) {
			r := offscreen(t)
			ctx, s, err := Build(name, r, DefaultConfig(), viewport.WithFixedWidth(96))
			require.NoError(t, err)
			assert.Equal(t, name, s.Name())

			s.Update(250 * time.Millisecond)
			require.NoError(t, ctx.Render(s))
			require.NoError(t, r.Present())
			assert.NotNil(t, r.Frame())
		})
	}
}

func TestBuildRejectsBadAspect(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Aspect = -1
	_, _, err := Build(ScenarioSphere, offscreen(t), cfg)
	assert.ErrorIs(t, err, viewport.ErrInvalidAspect)
}

func TestConfigDefaults(t *testing.T) {
	cfg := Config{}.withDefaults()
	assert.Equal(t, 700.0, cfg.AnimScale)
	assert.Equal(t, float32(75), cfg.FovDegrees)
	assert.Equal(t, float32(0.65), cfg.IPD)
}

func TestFovAppliedInRadians(t *testing.T) {
	ctx, err := viewport.NewDefaultContext(offscreen(t), 2)
	require.NoError(t, err)
	cfg := DefaultConfig()
	cfg.FovDegrees = 60
	NewSphereScene(ctx, cfg)

	persp, _ := ctx.View(viewport.ViewPerspective)
	assert.InDelta(t, math32.Pi/3, persp.Camera.Fov(), 1e-6)
	ortho, _ := ctx.View(viewport.ViewOrtho)
	assert.Equal(t, camera.ProjectionOrthographic, ortho.Camera.Projection())
}

func TestSphereStep(t *testing.T) {
	ctx, err := viewport.NewDefaultContext(offscreen(t), 2)
	require.NoError(t, err)
	s, st := NewSphereScene(ctx, DefaultConfig())
	assert.True(t, st.Sphere.CastShadow())

	previous := st.Follow.Children()
	require.Len(t, previous, 1)

	s.Update(0)
	assert.InDelta(t, 1.3, st.Param, 1e-6)
	assert.InDelta(t, -13, st.Sphere.Position().Z(), 1e-5)
	assert.InDelta(t, 1.3, st.Sphere.Scale().X(), 1e-6)

	// the old follow graphic is detached and replaced
	assert.Nil(t, previous[0].Parent())
	current := st.Follow.Children()
	require.Len(t, current, 1)
	assert.Len(t, current[0].Children(), 2)

	s.Update(quarter)
	assert.InDelta(t, 2.3, st.Param, 1e-4)
	assert.InDelta(t, -23, st.Sphere.Position().Z(), 1e-3)
}

func TestParallaxStep(t *testing.T) {
	ctx, err := viewport.NewDefaultContext(offscreen(t), 2)
	require.NoError(t, err)
	s, st := NewParallaxScene(ctx, DefaultConfig())

	assert.Equal(t, common.Vec3{0, -1, 0}, st.Group.Position())
	require.Len(t, st.Spheres, 3)
	require.Len(t, st.Follow.Children(), 3)

	s.Update(quarter)
	assert.InDelta(t, 3, st.Offset, 1e-4)
	assert.InDelta(t, 3, st.Eye.X(), 1e-4)
	assert.InDelta(t, 3, st.Fov.Position().X(), 1e-4)

	persp, _ := ctx.View(viewport.ViewPerspective)
	assert.InDelta(t, 3, persp.Camera.Position().X(), 1e-4)
	// the camera keeps looking straight down -Z
	assert.InDelta(t, 3, persp.Camera.Rig().Target.X(), 1e-4)

	assert.Len(t, st.Follow.Children(), 3)
}

func TestBinocularConvergence(t *testing.T) {
	ctx, err := viewport.NewBinocularContext(offscreen(t), 3, 0.65)
	require.NoError(t, err)
	s, st := NewBinocularScene(ctx, DefaultConfig())

	s.Update(0)
	center := st.Sphere.Position()
	assert.InDelta(t, -12, center.Z(), 1e-5)

	assert.Equal(t, center, st.LeftCamera.Rig().Target)
	assert.Equal(t, center, st.RightCamera.Rig().Target)
	assert.InDelta(t, -0.325, st.LeftCamera.Position().X(), 1e-6)
	assert.InDelta(t, 0.325, st.RightCamera.Position().X(), 1e-6)

	// 2 atan(ipd/2 / depth)
	assert.InDelta(t, 2*math32.Atan(0.325/12), st.Vergence, 1e-4)
	far := st.Vergence

	s.Update(-quarter)
	assert.InDelta(t, -4, st.Sphere.Position().Z(), 1e-3)
	assert.Greater(t, st.Vergence, far)

	assert.Len(t, st.Follow.Children(), 2)
	assert.Len(t, st.Fov.Children(), 2)
}

func TestFrameClockSteps(t *testing.T) {
	now := frameClock(50)
	start := now()
	assert.Equal(t, time.Duration(0), now().Sub(start))
	assert.Equal(t, 20*time.Millisecond, now().Sub(start))
	assert.Equal(t, 40*time.Millisecond, now().Sub(start))
}

func TestExportFirstFrameAtZero(t *testing.T) {
	ctx, err := viewport.NewDefaultContext(offscreen(t), 2, viewport.WithFixedWidth(16))
	require.NoError(t, err)
	var got []time.Duration
	s := scene.NewScene(scene.WithUpdate(func(elapsed time.Duration) { got = append(got, elapsed) }))

	eng := engine.NewEngine(
		engine.WithCanvas(ctx, s),
		engine.WithFrameBudget(3),
		engine.WithTickRate(1000),
		engine.WithClock(frameClock(10)),
	)
	require.NoError(t, eng.Run(context.Background()))
	assert.Equal(t, []time.Duration{0, 100 * time.Millisecond, 200 * time.Millisecond}, got)
}

func TestAspect(t *testing.T) {
	for name, want := range map[string]float32{
		ScenarioSphere:    2,
		ScenarioParallax:  2,
		ScenarioBinocular: 3,
	} {
		got, err := Aspect(name, DefaultConfig())
		require.NoError(t, err)
		assert.Equal(t, want, got, name)
	}

	cfg := DefaultConfig()
	cfg.Aspect = 4
	got, err := Aspect(ScenarioBinocular, cfg)
	require.NoError(t, err)
	assert.Equal(t, float32(4), got)

	_, err = Aspect("cube", cfg)
	assert.ErrorIs(t, err, ErrUnknownScenario)
}

func TestExportAll(t *testing.T) {
	dir := t.TempDir()
	written, err := ExportAll(context.Background(), Scenarios(), DefaultConfig(), ExportOptions{
		Dir:     dir,
		Frames:  3,
		Width:   48,
		Workers: 2,
	})
	require.NoError(t, err)
	for _, name := range Scenarios() {
		assert.Equal(t, uint64(3), written[name], name)
		for i := range 3 {
			assert.FileExists(t, filepath.Join(dir, fmt.Sprintf("%s-%05d.png", name, i)))
		}
		assert.NoFileExists(t, filepath.Join(dir, fmt.Sprintf("%s-%05d.png", name, 3)))
	}
}

func TestExportUnknownScenario(t *testing.T) {
	_, err := ExportAll(context.Background(), []string{ScenarioSphere, "cube"}, DefaultConfig(), ExportOptions{
		Dir:    t.TempDir(),
		Frames: 1,
		Width:  32,
	})
	assert.ErrorIs(t, err, ErrUnknownScenario)
}

// Package demo builds the animated VR-scale scenes: a sphere oscillating in depth, a row of
// equally-sized spheres seen from a moving eye, and a binocular view with converging eyes.
package demo

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/Carmen-Shannon/vrscale/common"
	"github.com/Carmen-Shannon/vrscale/engine/camera"
	"github.com/Carmen-Shannon/vrscale/engine/light"
	"github.com/Carmen-Shannon/vrscale/engine/renderer"
	"github.com/Carmen-Shannon/vrscale/engine/scene"
	"github.com/Carmen-Shannon/vrscale/engine/viewport"
)

// ErrUnknownScenario is returned by Build for a name not listed by Scenarios.
var ErrUnknownScenario = errors.New("demo: unknown scenario")

// Scenario names.
const (
	ScenarioSphere    = "sphere"
	ScenarioParallax  = "parallax"
	ScenarioBinocular = "binocular"
)

// Config holds the tunables shared by every scenario.
type Config struct {
	// AnimScale divides elapsed milliseconds before taking the sine. Larger is slower.
	AnimScale float64

	// FovDegrees is the vertical field of view of the perspective eye cameras.
	// FovGraphic draws the same angle as the on-floor guide.
	FovDegrees float32

	// IPD is the distance between the binocular eyes in world units.
	IPD float32

	// Aspect is the surface width / height. Zero selects 2 for two-view scenes and 3 for binocular.
	Aspect float32

	Shadows light.ShadowConfig
}

// DefaultConfig returns the settings the scenes were designed with.
func DefaultConfig() Config {
	return Config{
		AnimScale:  700,
		FovDegrees: viewport.DefaultFovDegrees,
		IPD:        viewport.DefaultIPD,
		Shadows:    light.DefaultShadowConfig(),
	}
}

// withDefaults fills zero fields from DefaultConfig.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	c.AnimScale = common.Coalesce(c.AnimScale, d.AnimScale)
	c.FovDegrees = common.Coalesce(c.FovDegrees, d.FovDegrees)
	c.IPD = common.Coalesce(c.IPD, d.IPD)
	return c
}

// Scenarios lists the scenario names accepted by Build.
func Scenarios() []string {
	return []string{ScenarioSphere, ScenarioParallax, ScenarioBinocular}
}

// Build creates the render context and scene for the named scenario, drawing into r.
//
// Parameters:
//   - name: one of Scenarios()
//   - r: the render surface
//   - cfg: scenario settings; zero fields take their defaults
//   - options: render context options such as viewport.WithWidthSource
//
// Returns:
//   - viewport.RenderContext: the context to register with the engine
//   - scene.Scene: the scene, with its update callback installed
//   - error: ErrUnknownScenario, or a context construction error
func Build(name string, r renderer.Renderer, cfg Config, options ...viewport.RenderContextBuilderOption) (viewport.RenderContext, scene.Scene, error) {
	cfg = cfg.withDefaults()

	aspect, err := Aspect(name, cfg)
	if err != nil {
		return nil, nil, err
	}

	switch name {
	case ScenarioSphere, ScenarioParallax:
		ctx, err := viewport.NewDefaultContext(r, aspect, options...)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create %s context: %w", name, err)
		}
		if name == ScenarioSphere {
			s, _ := NewSphereScene(ctx, cfg)
			return ctx, s, nil
		}
		s, _ := NewParallaxScene(ctx, cfg)
		return ctx, s, nil
	case ScenarioBinocular:
		ctx, err := viewport.NewBinocularContext(r, aspect, cfg.IPD, options...)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create %s context: %w", name, err)
		}
		s, _ := NewBinocularScene(ctx, cfg)
		return ctx, s, nil
	default:
		return nil, nil, fmt.Errorf("%q: %w", name, ErrUnknownScenario)
	}
}

// Aspect returns the surface width / height ratio the named scenario renders at.
func Aspect(name string, cfg Config) (float32, error) {
	switch name {
	case ScenarioSphere, ScenarioParallax:
		return common.Coalesce(cfg.Aspect, 2), nil
	case ScenarioBinocular:
		return common.Coalesce(cfg.Aspect, 3), nil
	}
	return 0, fmt.Errorf("%q: %w", name, ErrUnknownScenario)
}

// wave returns sin(elapsed milliseconds / animScale).
func wave(elapsed time.Duration, animScale float64) float32 {
	ms := float64(elapsed) / float64(time.Millisecond)
	return float32(math.Sin(ms / animScale))
}

// applyFov sets every perspective camera in ctx to fovDegrees.
func applyFov(ctx viewport.RenderContext, fovDegrees float32) {
	for _, v := range ctx.Views() {
		if v.Camera != nil && v.Camera.Projection() == camera.ProjectionPerspective {
			v.Camera.SetFov(common.DegToRad(fovDegrees))
		}
	}
}

func viewCamera(ctx viewport.RenderContext, name string) camera.Camera {
	v, ok := ctx.View(name)
	if !ok {
		return nil
	}
	return v.Camera
}

package engine

import (
	"log/slog"
	"time"

	"github.com/Carmen-Shannon/vrscale/engine/profiler"
	"github.com/Carmen-Shannon/vrscale/engine/scene"
	"github.com/Carmen-Shannon/vrscale/engine/viewport"
	"github.com/Carmen-Shannon/vrscale/engine/window"
)

// EngineBuilderOption is a functional option for configuring an Engine.
// Use the With* functions to create options that are applied directly to the engine instance.
type EngineBuilderOption func(*engine)

// WithProfiling enables or disables performance profiling output.
//
// Parameters:
//   - enabled: if true, enables performance profiling
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiling(enabled bool) EngineBuilderOption {
	return func(e *engine) {
		e.profilingEnabled.Store(enabled)
	}
}

// WithProfiler replaces the profiler used while profiling is enabled.
func WithProfiler(p *profiler.Profiler) EngineBuilderOption {
	return func(e *engine) {
		e.profiler = p
	}
}

// WithTickRate sets the tick rate in ticks per second.
// Values <= 0 will be treated as the default (60Hz).
//
// Parameters:
//   - fps: target ticks per second (default 60)
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithTickRate(fps float64) EngineBuilderOption {
	return func(e *engine) {
		e.tickRate = tickInterval(fps)
	}
}

// WithWindow sets the window whose close ends a run. Unless WithVisibilityGate is also given,
// the window's visibility gates ticks.
//
// Parameters:
//   - w: a pre-configured Window instance
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithWindow(w window.Window) EngineBuilderOption {
	return func(e *engine) {
		e.window = w
	}
}

// WithCanvas registers a render context and its scene during engine construction.
//
// Parameters:
//   - ctx: the render context
//   - s: the scene drawn into ctx
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithCanvas(ctx viewport.RenderContext, s scene.Scene) EngineBuilderOption {
	return func(e *engine) {
		e.canvases = append(e.canvases, Canvas{Context: ctx, Scene: s})
	}
}

// WithVisibilityGate sets a function consulted before every tick. While it reports false the tick is
// skipped, or the run stops when WithStopWhenHidden is set.
//
// Parameters:
//   - visible: reports whether the canvas is currently shown
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithVisibilityGate(visible func() bool) EngineBuilderOption {
	return func(e *engine) {
		e.visible = visible
	}
}

// WithStopWhenHidden ends the run the first time the visibility gate reports hidden instead of idling.
func WithStopWhenHidden(stop bool) EngineBuilderOption {
	return func(e *engine) {
		e.stopWhenHidden = stop
	}
}

// WithFrameBudget ends a run after n ticks. Zero means unlimited.
func WithFrameBudget(n uint64) EngineBuilderOption {
	return func(e *engine) {
		e.frameBudget = n
	}
}

// WithLogger sets the logger used by the engine and its default profiler.
func WithLogger(logger *slog.Logger) EngineBuilderOption {
	return func(e *engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithClock replaces the clock elapsed time is measured with.
func WithClock(now func() time.Time) EngineBuilderOption {
	return func(e *engine) {
		if now != nil {
			e.now = now
		}
	}
}

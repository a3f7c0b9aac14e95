package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/Carmen-Shannon/vrscale/common"
	"github.com/Carmen-Shannon/vrscale/config"
	"github.com/Carmen-Shannon/vrscale/demo"
	"github.com/Carmen-Shannon/vrscale/engine"
	"github.com/Carmen-Shannon/vrscale/engine/profiler"
	"github.com/Carmen-Shannon/vrscale/engine/renderer"
	"github.com/Carmen-Shannon/vrscale/engine/viewport"
	"github.com/Carmen-Shannon/vrscale/engine/window"
)

// runCommand shows one scenario in a window until it is closed or ctx is cancelled.
func runCommand(ctx context.Context, cfg config.Config, logger *slog.Logger, args []string, stderr io.Writer) error {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	fs.SetOutput(stderr)
	scenario := fs.String("scenario", cfg.Demo.Scenario, fmt.Sprintf("scenario to show: %v", demo.Scenarios()))
	profile := fs.Bool("profile", false, "log frame rate and memory stats")
	profileInterval := fs.Duration("profile-interval", time.Second, "how often -profile logs stats")
	if err := fs.Parse(args); err != nil {
		return err
	}

	backend, err := cfg.Backend()
	if err != nil {
		return err
	}
	mode, err := cfg.PresentMode()
	if err != nil {
		return err
	}

	var w window.Window
	rendererOpts := []renderer.RendererBuilderOption{
		renderer.WithPresentMode(mode),
		renderer.WithLogger(logger),
	}
	if backend == renderer.BackendTypeWGPU {
		width, height, err := windowSize(cfg, *scenario)
		if err != nil {
			return err
		}
		w, err = window.Open(
			window.WithTitle(cfg.Window.Title+" - "+*scenario),
			window.WithWidth(width),
			window.WithHeight(height),
			window.WithResizable(false),
		)
		if err != nil {
			return err
		}
		rendererOpts = append(rendererOpts, renderer.WithSurface(w), renderer.WithForceSoftwareRenderer(cfg.Render.Software))
	} else {
		rendererOpts = append(rendererOpts, renderer.WithOutputDir(cfg.Render.OutputDir), renderer.WithFramePrefix(*scenario))
	}

	r, err := renderer.NewRenderer(backend, rendererOpts...)
	if err != nil {
		if w != nil {
			_ = w.Close()
		}
		return err
	}
	defer r.Close()

	var widthSource viewport.RenderContextBuilderOption
	if w != nil {
		widthSource = viewport.WithWidthSource(w)
	} else {
		widthSource = viewport.WithFixedWidth(cfg.Window.Width)
	}
	rc, s, err := demo.Build(*scenario, r, cfg.DemoConfig(), widthSource, viewport.WithLogger(logger))
	if err != nil {
		return err
	}

	opts := []engine.EngineBuilderOption{
		engine.WithLogger(logger),
		engine.WithTickRate(cfg.Render.TickRate),
		engine.WithCanvas(rc, s),
		engine.WithStopWhenHidden(cfg.Render.StopWhenHidden),
		engine.WithFrameBudget(cfg.Render.FrameBudget),
		engine.WithProfiling(*profile),
		engine.WithProfiler(profiler.NewProfiler(profiler.WithLogger(logger), profiler.WithInterval(*profileInterval))),
	}
	var paused atomic.Bool
	if w != nil {
		opts = append(opts,
			engine.WithWindow(w),
			engine.WithVisibilityGate(func() bool { return w.Visible() && !paused.Load() }),
		)
	}
	eng := engine.NewEngine(opts...)

	if w != nil {
		w.SetKeyDownCallback(keyHandler(ctx, eng, logger, *scenario, &paused, !cfg.Render.StopWhenHidden))
	}

	logger.Info("running scenario", "scenario", *scenario, "backend", cfg.Render.Backend)
	if err := eng.Run(ctx); err != nil {
		return fmt.Errorf("scenario %s: %w", *scenario, err)
	}
	logger.Info("scenario stopped", "ticks", eng.Ticks())
	return nil
}

// windowSize returns the window size matching the surface the scenario draws: the configured
// width and the height the render context derives from it. The window height setting is ignored.
func windowSize(cfg config.Config, scenario string) (int, int, error) {
	aspect, err := demo.Aspect(scenario, cfg.DemoConfig())
	if err != nil {
		return 0, 0, err
	}
	return cfg.Window.Width, viewport.HeightFor(cfg.Window.Width, aspect), nil
}

// Tick rate bounds for the arrow keys.
const (
	minTickRate = 1.0
	maxTickRate = 480.0
)

// keyHandler returns the window key callback for a running scenario.
// Space toggles paused when canPause is set, R restarts the run and the arrow keys
// double or halve the tick rate.
func keyHandler(ctx context.Context, eng engine.Engine, logger *slog.Logger, scenario string, paused *atomic.Bool, canPause bool) func(uint32) {
	return func(keyCode uint32) {
		switch keyCode {
		case common.KeySpace:
			if !canPause {
				return
			}
			logger.Info("animation paused", "paused", !paused.Load())
			paused.Store(!paused.Load())
		case common.KeyR:
			logger.Info("restarting scenario", "scenario", scenario)
			if err := eng.Start(ctx); err != nil {
				logger.Error("restart failed", "error", err)
			}
		case common.KeyUp, common.KeyDown:
			rate := eng.TickRate() * 2
			if keyCode == common.KeyDown {
				rate = eng.TickRate() / 2
			}
			rate = min(max(rate, minTickRate), maxTickRate)
			eng.SetTickRate(rate)
			logger.Info("tick rate changed", "tick_rate", rate)
		}
	}
}

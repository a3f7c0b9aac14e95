package demo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/vrscale/common"
	"github.com/Carmen-Shannon/vrscale/engine"
	"github.com/Carmen-Shannon/vrscale/engine/renderer"
	"github.com/Carmen-Shannon/vrscale/engine/viewport"
)

// ExportOptions controls offscreen frame export.
type ExportOptions struct {
	// Dir receives <scenario>-NNNNN.png files.
	Dir string
	// Frames is the number of frames per scenario. Zero exports 60.
	Frames uint64
	// Width is the canvas width in pixels. Zero uses viewport.DefaultWidth.
	Width int
	// FPS is the animation time step. Zero uses 30.
	FPS float64
	// Workers caps how many scenarios export at once. Zero uses GOMAXPROCS.
	Workers int
	Logger  *slog.Logger
}

func (o ExportOptions) withDefaults() ExportOptions {
	o.Frames = common.Coalesce(o.Frames, 60)
	o.Width = common.Coalesce(o.Width, viewport.DefaultWidth)
	o.FPS = common.Coalesce(o.FPS, 30)
	o.Workers = common.Coalesce(o.Workers, runtime.GOMAXPROCS(0))
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}

// frameClock steps by one frame interval per read, so exported animation time
// does not depend on how fast frames are drawn. The engine reads the clock once when
// the run starts and once per frame; the first two reads return the same instant so
// frame 0 is drawn at elapsed 0.
func frameClock(fps float64) func() time.Time {
	step := time.Duration(float64(time.Second) / fps)
	var (
		mu    sync.Mutex
		reads int
	)
	now := time.Unix(0, 0)
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		reads++
		if reads == 1 {
			return now
		}
		t := now
		now = now.Add(step)
		return t
	}
}

// Export renders opts.Frames frames of the named scenario to PNG files.
//
// Parameters:
//   - ctx: cancels the export
//   - name: one of Scenarios()
//   - cfg: scenario settings
//   - opts: export settings
//
// Returns:
//   - uint64: the number of frames written
//   - error: a build or render error
func Export(ctx context.Context, name string, cfg Config, opts ExportOptions) (uint64, error) {
	opts = opts.withDefaults()

	r, err := renderer.NewRenderer(renderer.BackendTypeOffscreen,
		renderer.WithOutputDir(opts.Dir),
		renderer.WithFramePrefix(name),
		renderer.WithLogger(opts.Logger),
	)
	if err != nil {
		return 0, err
	}
	defer r.Close()

	rc, s, err := Build(name, r, cfg, viewport.WithFixedWidth(opts.Width), viewport.WithLogger(opts.Logger))
	if err != nil {
		return 0, err
	}

	eng := engine.NewEngine(
		engine.WithLogger(opts.Logger),
		engine.WithCanvas(rc, s),
		engine.WithFrameBudget(opts.Frames),
		engine.WithTickRate(1000),
		engine.WithClock(frameClock(opts.FPS)),
	)
	start := time.Now()
	if err := eng.Run(ctx); err != nil {
		return eng.Ticks(), fmt.Errorf("failed to export %s: %w", name, err)
	}
	opts.Logger.Info("frames exported", "scenario", name, "frames", eng.Ticks(), "dir", opts.Dir, "elapsed", time.Since(start))
	return eng.Ticks(), nil
}

// ExportAll exports every named scenario in parallel on a worker pool.
//
// Returns:
//   - map[string]uint64: frames written per scenario
//   - error: the joined errors of every failed scenario
func ExportAll(ctx context.Context, names []string, cfg Config, opts ExportOptions) (map[string]uint64, error) {
	opts = opts.withDefaults()
	written := make(map[string]uint64, len(names))
	if len(names) == 0 {
		return written, nil
	}

	pool := worker.NewDynamicWorkerPool(min(opts.Workers, len(names)), len(names), 1*time.Second)
	defer pool.Stop()

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)
	for i, name := range names {
		wg.Add(1)
		pool.SubmitTask(worker.Task{
			ID:      i,
			Payload: name,
			Do: func() (any, error) {
				defer wg.Done()
				n, err := Export(ctx, name, cfg, opts)
				mu.Lock()
				defer mu.Unlock()
				written[name] = n
				if err != nil {
					errs = append(errs, err)
				}
				return n, err
			},
		})
	}
	wg.Wait()
	return written, errors.Join(errs...)
}

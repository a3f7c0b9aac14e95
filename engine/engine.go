package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Carmen-Shannon/vrscale/engine/profiler"
	"github.com/Carmen-Shannon/vrscale/engine/renderer"
	"github.com/Carmen-Shannon/vrscale/engine/scene"
	"github.com/Carmen-Shannon/vrscale/engine/viewport"
	"github.com/Carmen-Shannon/vrscale/engine/window"
)

var (
	// ErrNoCanvas is returned by Start when no canvas has been registered.
	ErrNoCanvas = errors.New("engine: no canvas registered")

	// ErrPanic wraps a panic recovered from the tick goroutine.
	ErrPanic = errors.New("engine: tick goroutine panicked")
)

// DefaultTickRate is the tick rate used when none is configured.
const DefaultTickRate = 60

// State is the lifecycle state of an Engine.
type State int32

const (
	// StateIdle means no run has been started yet.
	StateIdle State = iota

	// StateRunning means a tick goroutine is active.
	StateRunning

	// StateStopped means the last run has ended.
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateStopped:
		return "stopped"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

// Canvas pairs a render context with the scene it draws.
type Canvas struct {
	Context viewport.RenderContext
	Scene   scene.Scene
}

// engine implements the Engine interface.
// One goroutine per run drives update, draw and present for every canvas.
type engine struct {
	mu    *sync.Mutex
	runMu *sync.Mutex

	logger *slog.Logger
	now    func() time.Time

	window         window.Window
	visible        func() bool
	stopWhenHidden bool

	tickRate        time.Duration
	tickRateChannel chan time.Duration // dynamic tick rate updates while running
	frameBudget     uint64

	profiler         *profiler.Profiler
	profilingEnabled atomic.Bool

	tickCallback func(elapsed time.Duration)
	canvases     []Canvas

	state  atomic.Int32
	ticks  atomic.Uint64
	cancel context.CancelFunc
	done   chan struct{}
	err    error
}

// Engine is the main entry point for the demo loop.
// Each tick it runs every scene's update callback with the time elapsed since the run started,
// draws every canvas through its RenderContext and presents each distinct renderer once.
type Engine interface {
	// Window returns the window the engine watches for close and visibility, or nil.
	Window() window.Window

	// AddCanvas registers a render context and the scene it draws. Canvases draw in registration order.
	//
	// Parameters:
	//   - ctx: the render context
	//   - s: the scene drawn into ctx
	AddCanvas(ctx viewport.RenderContext, s scene.Scene)

	// Canvases returns a copy of the registered canvases.
	Canvases() []Canvas

	// SetTickCallback registers a function called each tick after the scene updates and before drawing.
	//
	// Parameters:
	//   - callback: function receiving the time elapsed since the run started
	SetTickCallback(callback func(elapsed time.Duration))

	// SetTickRate sets the tick rate in ticks per second.
	// If a run is active, the change takes effect on the next tick.
	//
	// Parameters:
	//   - fps: target ticks per second (defaults to 60 if <= 0)
	SetTickRate(fps float64)

	// TickRate returns the current tick rate in ticks per second.
	TickRate() float64

	// EnableProfiler enables performance profiling output to the log.
	EnableProfiler()

	// DisableProfiler disables performance profiling output.
	DisableProfiler()

	// Start launches a run in a new goroutine and returns immediately.
	// A run that is still active is cancelled and waited for first, so two runs never tick the same canvas.
	//
	// Parameters:
	//   - ctx: cancelling ctx stops the run
	//
	// Returns:
	//   - error: ErrNoCanvas if nothing is registered
	Start(ctx context.Context) error

	// Run starts a run and blocks until it ends. With a window, the window message loop is pumped on the
	// calling goroutine, which must be the one that created the window.
	//
	// Parameters:
	//   - ctx: cancelling ctx stops the run
	//
	// Returns:
	//   - error: the error that ended the run, nil for a normal stop
	Run(ctx context.Context) error

	// Stop signals the active run to end. It does not wait; use Wait. Safe to call when idle.
	Stop()

	// Wait blocks until the active run has ended.
	//
	// Returns:
	//   - error: the error that ended the run, nil for a normal stop
	Wait() error

	// State returns the lifecycle state.
	State() State

	// Ticks returns the number of ticks completed by the current or last run.
	Ticks() uint64
}

var _ Engine = &engine{}

// NewEngine creates a new Engine instance with the provided options.
// Options are applied directly to the engine struct via the option-builder pattern.
//
// Parameters:
//   - options: functional options for engine configuration (canvases, tick rate, window, etc.)
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(options ...EngineBuilderOption) Engine {
	e := &engine{
		mu:              &sync.Mutex{},
		runMu:           &sync.Mutex{},
		logger:          slog.Default(),
		now:             time.Now,
		tickRate:        time.Second / DefaultTickRate,
		tickRateChannel: make(chan time.Duration, 1),
	}

	for _, opt := range options {
		opt(e)
	}

	if e.visible == nil && e.window != nil {
		e.visible = e.window.Visible
	}
	if e.profiler == nil {
		e.profiler = profiler.NewProfiler(profiler.WithLogger(e.logger))
	}
	return e
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) AddCanvas(ctx viewport.RenderContext, s scene.Scene) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.canvases = append(e.canvases, Canvas{Context: ctx, Scene: s})
}

func (e *engine) Canvases() []Canvas {
	e.mu.Lock()
	defer e.mu.Unlock()
	cp := make([]Canvas, len(e.canvases))
	copy(cp, e.canvases)
	return cp
}

func (e *engine) SetTickCallback(callback func(elapsed time.Duration)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.tickCallback = callback
}

// SetTickRate sets the tick rate in ticks per second.
// If the engine is running, the change takes effect immediately.
func (e *engine) SetTickRate(fps float64) {
	newRate := tickInterval(fps)

	if e.State() == StateRunning {
		// Non-blocking send - if channel is full, replace the pending value
		select {
		case e.tickRateChannel <- newRate:
		default:
			select {
			case <-e.tickRateChannel:
			default:
			}
			e.tickRateChannel <- newRate
		}
		return
	}
	e.mu.Lock()
	e.tickRate = newRate
	e.mu.Unlock()
}

func (e *engine) TickRate() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return float64(time.Second) / float64(e.tickRate)
}

func (e *engine) EnableProfiler() {
	e.profilingEnabled.Store(true)
}

func (e *engine) DisableProfiler() {
	e.profilingEnabled.Store(false)
}

func (e *engine) Start(ctx context.Context) error {
	e.runMu.Lock()
	defer e.runMu.Unlock()

	e.mu.Lock()
	cancel, done := e.cancel, e.done
	e.mu.Unlock()
	if cancel != nil {
		cancel()
		<-done
		e.logger.Debug("previous run cancelled")
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.canvases) == 0 {
		return ErrNoCanvas
	}

	runCtx, runCancel := context.WithCancel(ctx)
	e.cancel = runCancel
	e.done = make(chan struct{})
	e.err = nil
	e.ticks.Store(0)
	e.state.Store(int32(StateRunning))

	go e.loop(runCtx, e.done, e.tickRate)
	return nil
}

func (e *engine) Run(ctx context.Context) error {
	if err := e.Start(ctx); err != nil {
		return err
	}
	if e.window == nil {
		return e.Wait()
	}

	// done is re-read every update so a restart from a window callback keeps the window open
	e.window.SetUpdateCallback(func() {
		e.mu.Lock()
		done := e.done
		e.mu.Unlock()
		select {
		case <-done:
			_ = e.window.Close()
		default:
		}
	})
	e.window.ProcessMessages()

	e.Stop()
	return e.Wait()
}

func (e *engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.cancel != nil {
		e.cancel()
	}
}

func (e *engine) Wait() error {
	e.mu.Lock()
	done := e.done
	e.mu.Unlock()
	if done == nil {
		return nil
	}
	<-done

	e.mu.Lock()
	defer e.mu.Unlock()
	return e.err
}

func (e *engine) State() State {
	return State(e.state.Load())
}

func (e *engine) Ticks() uint64 {
	return e.ticks.Load()
}

// loop runs the fixed-rate tick loop until the run ends.
// Recovers from panics to avoid crashing the process; the panic becomes the run's error.
func (e *engine) loop(ctx context.Context, done chan struct{}, rate time.Duration) {
	defer close(done)
	defer e.state.Store(int32(StateStopped))
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("tick goroutine recovered from panic", slog.Any("panic", r))
			e.finish(fmt.Errorf("%w: %v", ErrPanic, r))
		}
	}()

	ticker := time.NewTicker(rate)
	defer ticker.Stop()

	start := e.now()
	for {
		select {
		case <-ctx.Done():
			e.logger.Debug("run cancelled", slog.Uint64("ticks", e.ticks.Load()))
			return
		case newRate := <-e.tickRateChannel:
			ticker.Reset(newRate)
			e.mu.Lock()
			e.tickRate = newRate
			e.mu.Unlock()
			continue
		case <-ticker.C:
		}

		if e.window != nil && !e.window.IsRunning() {
			e.logger.Info("window closed, stopping")
			return
		}
		if e.visible != nil && !e.visible() {
			if e.stopWhenHidden {
				e.logger.Info("canvas hidden, stopping")
				return
			}
			continue
		}

		if err := e.tick(e.now().Sub(start)); err != nil {
			e.logger.Error("tick failed", slog.Any("error", err))
			e.finish(err)
			return
		}

		n := e.ticks.Add(1)
		if e.profilingEnabled.Load() {
			e.profiler.Tick()
		}
		if e.frameBudget > 0 && n >= e.frameBudget {
			e.logger.Debug("frame budget exhausted", slog.Uint64("ticks", n))
			return
		}
	}
}

// tick performs one update, draw and present pass over every canvas.
func (e *engine) tick(elapsed time.Duration) error {
	e.mu.Lock()
	canvases := e.canvases
	callback := e.tickCallback
	e.mu.Unlock()

	for _, c := range canvases {
		if c.Scene != nil {
			c.Scene.Update(elapsed)
		}
	}
	if callback != nil {
		callback(elapsed)
	}

	presented := make(map[renderer.Renderer]bool, len(canvases))
	for i, c := range canvases {
		if err := c.Context.Render(c.Scene); err != nil {
			return fmt.Errorf("failed to draw canvas %d: %w", i, err)
		}
	}
	for i, c := range canvases {
		r := c.Context.Renderer()
		if presented[r] {
			continue
		}
		presented[r] = true
		if err := r.Present(); err != nil {
			return fmt.Errorf("failed to present canvas %d: %w", i, err)
		}
	}
	return nil
}

func (e *engine) finish(err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.err == nil {
		e.err = err
	}
}

func tickInterval(fps float64) time.Duration {
	if fps <= 0 {
		fps = DefaultTickRate
	}
	return time.Duration(float64(time.Second) / fps)
}

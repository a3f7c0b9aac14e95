package engine

import (
	"bytes"
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Carmen-Shannon/vrscale/engine/profiler"
	"github.com/Carmen-Shannon/vrscale/engine/renderer"
	"github.com/Carmen-Shannon/vrscale/engine/scene"
	"github.com/Carmen-Shannon/vrscale/engine/viewport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

// now advances the clock by 16ms on every read.
func (c *fakeClock) now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(16 * time.Millisecond)
	return c.t
}

func newCanvas(t *testing.T, update func(time.Duration)) (viewport.RenderContext, scene.Scene, renderer.Renderer) {
	t.Helper()
	r, err := renderer.NewRenderer(renderer.BackendTypeOffscreen)
	require.NoError(t, err)
	t.Cleanup(func() { _ = r.Close() })

	ctx, err := viewport.NewDefaultContext(r, 2, viewport.WithFixedWidth(32))
	require.NoError(t, err)
	return ctx, scene.NewScene(scene.WithUpdate(update)), r
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "idle", StateIdle.String())
	assert.Equal(t, "running", StateRunning.String())
	assert.Equal(t, "stopped", StateStopped.String())
	assert.Equal(t, "state(9)", State(9).String())
}

func TestStartWithoutCanvas(t *testing.T) {
	e := NewEngine()
	assert.ErrorIs(t, e.Start(context.Background()), ErrNoCanvas)
	assert.Equal(t, StateIdle, e.State())
	assert.NoError(t, e.Wait())
}

func TestFrameBudget(t *testing.T) {
	var updates atomic.Int32
	ctx, s, r := newCanvas(t, func(time.Duration) { updates.Add(1) })

	e := NewEngine(WithCanvas(ctx, s), WithTickRate(1000), WithFrameBudget(5))
	require.NoError(t, e.Run(context.Background()))

	assert.Equal(t, StateStopped, e.State())
	assert.Equal(t, uint64(5), e.Ticks())
	assert.Equal(t, int32(5), updates.Load())
	assert.Equal(t, uint64(5), r.FrameCount())

	w, h := ctx.Size()
	assert.Equal(t, 32, w)
	assert.Equal(t, 16, h)
}

func TestElapsedFromClock(t *testing.T) {
	var mu sync.Mutex
	var got []time.Duration
	ctx, s, _ := newCanvas(t, func(elapsed time.Duration) {
		mu.Lock()
		got = append(got, elapsed)
		mu.Unlock()
	})

	clock := &fakeClock{t: time.Unix(0, 0)}
	e := NewEngine(WithCanvas(ctx, s), WithTickRate(1000), WithFrameBudget(3), WithClock(clock.now))
	require.NoError(t, e.Run(context.Background()))

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []time.Duration{16 * time.Millisecond, 32 * time.Millisecond, 48 * time.Millisecond}, got)
}

func TestHiddenGateSkipsTicks(t *testing.T) {
	var updates atomic.Int32
	ctx, s, _ := newCanvas(t, func(time.Duration) { updates.Add(1) })

	var visible atomic.Bool
	e := NewEngine(WithCanvas(ctx, s), WithTickRate(1000), WithVisibilityGate(visible.Load))
	require.NoError(t, e.Start(context.Background()))

	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, StateRunning, e.State())
	assert.Zero(t, updates.Load())
	assert.Zero(t, e.Ticks())

	visible.Store(true)
	require.Eventually(t, func() bool { return updates.Load() > 0 }, time.Second, time.Millisecond)

	e.Stop()
	require.NoError(t, e.Wait())
	assert.Equal(t, StateStopped, e.State())
}

func TestStopWhenHidden(t *testing.T) {
	ctx, s, _ := newCanvas(t, nil)
	e := NewEngine(
		WithCanvas(ctx, s),
		WithTickRate(1000),
		WithVisibilityGate(func() bool { return false }),
		WithStopWhenHidden(true),
	)
	require.NoError(t, e.Run(context.Background()))
	assert.Equal(t, StateStopped, e.State())
	assert.Zero(t, e.Ticks())
}

func TestRestartCancelsPreviousRun(t *testing.T) {
	ctx, s, _ := newCanvas(t, nil)
	e := NewEngine(WithCanvas(ctx, s), WithTickRate(1000))
	impl := e.(*engine)

	require.NoError(t, e.Start(context.Background()))
	first := impl.done

	require.NoError(t, e.Start(context.Background()))
	select {
	case <-first:
	default:
		t.Fatal("first run still active after restart")
	}
	assert.Equal(t, StateRunning, e.State())

	e.Stop()
	require.NoError(t, e.Wait())
}

func TestContextCancellation(t *testing.T) {
	ctx, s, _ := newCanvas(t, nil)
	e := NewEngine(WithCanvas(ctx, s), WithTickRate(1000))

	runCtx, cancel := context.WithCancel(context.Background())
	require.NoError(t, e.Start(runCtx))
	cancel()
	require.NoError(t, e.Wait())
	assert.Equal(t, StateStopped, e.State())
}

func TestPanicStopsRun(t *testing.T) {
	ctx, s, _ := newCanvas(t, func(time.Duration) { panic("boom") })
	e := NewEngine(WithCanvas(ctx, s), WithTickRate(1000))

	err := e.Run(context.Background())
	require.ErrorIs(t, err, ErrPanic)
	assert.Contains(t, err.Error(), "boom")
	assert.Equal(t, StateStopped, e.State())
}

func TestTickCallbackAndSharedRenderer(t *testing.T) {
	ctx, s, r := newCanvas(t, nil)
	second, err := viewport.NewDefaultContext(r, 2, viewport.WithFixedWidth(32))
	require.NoError(t, err)

	var calls atomic.Int32
	e := NewEngine(WithCanvas(ctx, s), WithTickRate(1000), WithFrameBudget(2))
	e.AddCanvas(second, scene.NewScene())
	e.SetTickCallback(func(time.Duration) { calls.Add(1) })
	require.Len(t, e.Canvases(), 2)

	require.NoError(t, e.Run(context.Background()))
	assert.Equal(t, int32(2), calls.Load())
	// one present per renderer per tick
	assert.Equal(t, uint64(2), r.FrameCount())
}

func TestSetTickRateWhileIdle(t *testing.T) {
	e := NewEngine(WithTickRate(30))
	assert.InDelta(t, 30, e.TickRate(), 0.001)

	e.SetTickRate(120)
	assert.InDelta(t, 120, e.TickRate(), 0.001)

	e.SetTickRate(0)
	assert.InDelta(t, DefaultTickRate, e.TickRate(), 0.001)
}

func TestSetTickRateWhileRunning(t *testing.T) {
	ctx, s, _ := newCanvas(t, func(time.Duration) {})
	e := NewEngine(WithCanvas(ctx, s), WithTickRate(200))

	runCtx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, e.Start(runCtx))
	require.Eventually(t, func() bool { return e.State() == StateRunning }, time.Second, time.Millisecond)

	e.SetTickRate(400)
	assert.Eventually(t, func() bool { return e.TickRate() > 399 && e.TickRate() < 401 }, time.Second, time.Millisecond)

	cancel()
	assert.NoError(t, e.Wait())
}

func TestCustomProfiler(t *testing.T) {
	var buf bytes.Buffer
	p := profiler.NewProfiler(
		profiler.WithLogger(slog.New(slog.NewTextHandler(&buf, nil))),
		profiler.WithInterval(time.Nanosecond),
	)
	ctx, s, _ := newCanvas(t, func(time.Duration) {})

	e := NewEngine(WithCanvas(ctx, s), WithTickRate(1000), WithFrameBudget(3), WithProfiling(true), WithProfiler(p))
	require.NoError(t, e.Run(context.Background()))

	assert.Positive(t, p.Last().FPS)
	assert.Contains(t, buf.String(), "msg=profiler")
}

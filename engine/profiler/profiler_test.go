package profiler

import (
	"bytes"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func TestProfilerTickReportsAfterInterval(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	var buf bytes.Buffer
	p := NewProfiler(
		WithClock(clock.now),
		WithInterval(time.Second),
		WithLogger(slog.New(slog.NewTextHandler(&buf, nil))),
	)

	for i := 0; i < 49; i++ {
		clock.advance(20 * time.Millisecond)
		assert.False(t, p.Tick())
	}
	assert.Zero(t, p.Last().FPS)

	clock.advance(20 * time.Millisecond)
	assert.True(t, p.Tick())
	assert.InDelta(t, 50, p.Last().FPS, 0.001)
	assert.Contains(t, buf.String(), "msg=profiler")
	assert.Contains(t, buf.String(), "fps=")
}

func TestProfilerIgnoresInvalidOptions(t *testing.T) {
	p := NewProfiler(WithInterval(-time.Second), WithLogger(nil), WithClock(nil))
	assert.Equal(t, time.Second, p.updateInterval)
	assert.NotNil(t, p.logger)
	assert.NotNil(t, p.now)
}

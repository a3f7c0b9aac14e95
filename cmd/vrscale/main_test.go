package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/Carmen-Shannon/vrscale/common"
	"github.com/Carmen-Shannon/vrscale/config"
	"github.com/Carmen-Shannon/vrscale/demo"
	"github.com/Carmen-Shannon/vrscale/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunWithoutCommand(t *testing.T) {
	var stderr bytes.Buffer
	err := run(context.Background(), nil, &stderr)
	assert.ErrorIs(t, err, errUsage)
}

func TestRunUnknownCommand(t *testing.T) {
	var stderr bytes.Buffer
	err := run(context.Background(), []string{"draw"}, &stderr)
	assert.ErrorIs(t, err, errUsage)
}

func TestRunBadLogLevel(t *testing.T) {
	var stderr bytes.Buffer
	err := run(context.Background(), []string{"-log-level", "loud", "charts"}, &stderr)
	assert.Error(t, err)
}

func TestChartsCommand(t *testing.T) {
	out := t.TempDir()
	var stderr bytes.Buffer
	err := run(context.Background(), []string{"-log-level", "warn", "charts", "-out", out, "-workers", "2"}, &stderr)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(out, "benchmark-canvas-all.png"))
	assert.FileExists(t, filepath.Join(out, "benchmark-canvas-native.png"))
}

func TestChartsWatchNeedsInput(t *testing.T) {
	var stderr bytes.Buffer
	err := run(context.Background(), []string{"charts", "-watch"}, &stderr)
	assert.ErrorIs(t, err, errUsage)
}

func TestFramesCommandWithConfig(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "vrscale.toml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("[window]\nwidth = 64\n\n[render]\nshadows = false\n"), 0o644))

	out := filepath.Join(dir, "frames")
	var stderr bytes.Buffer
	err := run(context.Background(), []string{
		"-config", cfgPath, "-log-level", "error",
		"frames", "-scenario", demo.ScenarioParallax, "-n", "2", "-out", out,
	}, &stderr)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(out, "parallax-00000.png"))
	assert.FileExists(t, filepath.Join(out, "parallax-00001.png"))
	assert.NoFileExists(t, filepath.Join(out, "sphere-00000.png"))
}

func TestFramesUnknownScenario(t *testing.T) {
	var stderr bytes.Buffer
	err := run(context.Background(), []string{"frames", "-scenario", "cube", "-out", t.TempDir()}, &stderr)
	assert.ErrorIs(t, err, demo.ErrUnknownScenario)
}

func TestWindowSizeFollowsScenarioAspect(t *testing.T) {
	cfg := config.Default()
	cfg.Window.Width = 1200

	tests := map[string]int{
		demo.ScenarioSphere:    600,
		demo.ScenarioParallax:  600,
		demo.ScenarioBinocular: 400,
	}
	for scenario, wantHeight := range tests {
		w, h, err := windowSize(cfg, scenario)
		require.NoError(t, err)
		assert.Equal(t, 1200, w, scenario)
		assert.Equal(t, wantHeight, h, scenario)
	}

	cfg.Render.Aspect = 4
	_, h, err := windowSize(cfg, demo.ScenarioBinocular)
	require.NoError(t, err)
	assert.Equal(t, 300, h)

	_, _, err = windowSize(cfg, "cube")
	assert.ErrorIs(t, err, demo.ErrUnknownScenario)
}

func TestKeyHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	eng := engine.NewEngine(engine.WithTickRate(60))
	var paused atomic.Bool

	keys := keyHandler(context.Background(), eng, logger, demo.ScenarioSphere, &paused, true)
	keys(common.KeySpace)
	assert.True(t, paused.Load())
	keys(common.KeySpace)
	assert.False(t, paused.Load())

	keys(common.KeyUp)
	assert.InDelta(t, 120, eng.TickRate(), 0.01)
	keys(common.KeyDown)
	keys(common.KeyDown)
	assert.InDelta(t, 30, eng.TickRate(), 0.01)

	for range 10 {
		keys(common.KeyUp)
	}
	assert.InDelta(t, maxTickRate, eng.TickRate(), 0.01)
	for range 20 {
		keys(common.KeyDown)
	}
	assert.InDelta(t, minTickRate, eng.TickRate(), 0.01)

	locked := keyHandler(context.Background(), eng, logger, demo.ScenarioSphere, &paused, false)
	locked(common.KeySpace)
	assert.False(t, paused.Load())
}

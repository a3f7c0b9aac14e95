package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Carmen-Shannon/vrscale/demo"
	"github.com/Carmen-Shannon/vrscale/engine/renderer"
	"github.com/mitchellh/go-homedir"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEmptyPathIsDefault(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.NoError(t, cfg.Validate())
}

func TestParseFillsDefaults(t *testing.T) {
	cfg, err := Parse([]byte("[window]\ntitle = \"custom\"\n"))
	require.NoError(t, err)

	d := Default()
	assert.Equal(t, "custom", cfg.Window.Title)
	assert.Equal(t, d.Window.Width, cfg.Window.Width)
	assert.Equal(t, 700.0, cfg.Demo.AnimScaleMs)
	assert.Equal(t, float32(75), cfg.Demo.FovDegrees)
	assert.Equal(t, float32(0.65), cfg.Demo.IPD)
	assert.Equal(t, demo.ScenarioSphere, cfg.Demo.Scenario)
	assert.True(t, cfg.ShadowsEnabled())
}

func TestLoadOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vrscale.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[window]
width = 900

[render]
aspect = 3
tick_rate = 30
frame_budget = 120
backend = "offscreen"
present_mode = "immediate"
stop_when_hidden = true
software = true
shadows = false
output_dir = "out"

[demo]
scenario = "binocular"
anim_scale_ms = 350
fov_degrees = 90
ipd = 0.7

[charts]
input = "charts.yaml"
workers = 2
width = 640
height = 360
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 900, cfg.Window.Width)
	assert.Equal(t, uint64(120), cfg.Render.FrameBudget)
	assert.True(t, cfg.Render.StopWhenHidden)
	assert.True(t, cfg.Render.Software)
	assert.False(t, cfg.ShadowsEnabled())

	backend, err := cfg.Backend()
	require.NoError(t, err)
	assert.Equal(t, renderer.BackendTypeOffscreen, backend)
	mode, err := cfg.PresentMode()
	require.NoError(t, err)
	assert.Equal(t, renderer.PresentModeUncapped, mode)

	dc := cfg.DemoConfig()
	assert.Equal(t, 350.0, dc.AnimScale)
	assert.Equal(t, float32(90), dc.FovDegrees)
	assert.Equal(t, float32(0.7), dc.IPD)
	assert.Equal(t, float32(3), dc.Aspect)
	assert.False(t, dc.Shadows.Enabled)

	theme := cfg.ChartTheme()
	assert.Equal(t, 640, theme.Width)
	assert.Equal(t, 360, theme.Height)
	assert.Equal(t, 2, cfg.Charts.Workers)
	assert.Equal(t, "charts.yaml", cfg.Charts.Input)
}

func TestParseRejectsInvalidValues(t *testing.T) {
	tests := map[string]string{
		"negative width":   "[window]\nwidth = -1\n",
		"negative aspect":  "[render]\naspect = -2.0\n",
		"unknown backend":  "[render]\nbackend = \"vulkan\"\n",
		"unknown present":  "[render]\npresent_mode = \"mailbox\"\n",
		"fov too wide":     "[demo]\nfov_degrees = 180.0\n",
		"negative ipd":     "[demo]\nipd = -0.1\n",
		"negative workers": "[charts]\nworkers = -4\n",
	}
	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(data))
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestParseRejectsUnknownKeys(t *testing.T) {
	_, err := Parse([]byte("[render]\nfps = 60\n"))
	assert.Error(t, err)

	_, err = Parse([]byte("[window]\nheight = 600\n"))
	assert.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestHomeDirExpanded(t *testing.T) {
	home, err := homedir.Dir()
	if err != nil {
		t.Skip("no home directory")
	}
	cfg, err := Parse([]byte("[charts]\noutput_dir = \"~/charts\"\n"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "charts"), cfg.Charts.OutputDir)
}

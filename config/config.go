// Package config loads the vrscale run configuration from TOML.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/Carmen-Shannon/vrscale/chart"
	"github.com/Carmen-Shannon/vrscale/common"
	"github.com/Carmen-Shannon/vrscale/demo"
	"github.com/Carmen-Shannon/vrscale/engine/light"
	"github.com/Carmen-Shannon/vrscale/engine/renderer"
	"github.com/mitchellh/go-homedir"
	"github.com/pelletier/go-toml/v2"
)

// ErrInvalidConfig is returned for out-of-range configuration values.
var ErrInvalidConfig = errors.New("invalid config")

// Renderer backends and present modes accepted in the render section.
const (
	BackendWGPU      = "wgpu"
	BackendOffscreen = "offscreen"

	PresentVSync     = "vsync"
	PresentImmediate = "immediate"
)

// Window configures the on-screen window. Its height follows the scenario aspect.
type Window struct {
	Title string `toml:"title"`
	Width int    `toml:"width"`
}

// Render configures the render loop and presentation.
type Render struct {
	// Aspect overrides the scenario's width / height ratio. Zero keeps the scenario default.
	Aspect         float32 `toml:"aspect"`
	TickRate       float64 `toml:"tick_rate"`
	FrameBudget    uint64  `toml:"frame_budget"`
	Backend        string  `toml:"backend"`
	PresentMode    string  `toml:"present_mode"`
	StopWhenHidden bool    `toml:"stop_when_hidden"`
	// Software asks WebGPU for a CPU fallback adapter.
	Software bool `toml:"software"`
	// Shadows defaults to on when unset.
	Shadows   *bool  `toml:"shadows"`
	OutputDir string `toml:"output_dir"`
}

// Demo configures the animated scenarios.
type Demo struct {
	Scenario    string  `toml:"scenario"`
	AnimScaleMs float64 `toml:"anim_scale_ms"`
	FovDegrees  float32 `toml:"fov_degrees"`
	IPD         float32 `toml:"ipd"`
}

// Charts configures chart rendering.
type Charts struct {
	// Input is a descriptor file. Empty renders the embedded benchmark charts.
	Input     string `toml:"input"`
	OutputDir string `toml:"output_dir"`
	Workers   int    `toml:"workers"`
	Width     int    `toml:"width"`
	Height    int    `toml:"height"`
}

// Config is the full run configuration.
type Config struct {
	Window Window `toml:"window"`
	Render Render `toml:"render"`
	Demo   Demo   `toml:"demo"`
	Charts Charts `toml:"charts"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	demoCfg := demo.DefaultConfig()
	theme := chart.DefaultTheme()
	return Config{
		Window: Window{
			Title: "vrscale",
			Width: 1200,
		},
		Render: Render{
			TickRate:    60,
			Backend:     BackendWGPU,
			PresentMode: PresentVSync,
			OutputDir:   "frames",
		},
		Demo: Demo{
			Scenario:    demo.ScenarioSphere,
			AnimScaleMs: demoCfg.AnimScale,
			FovDegrees:  demoCfg.FovDegrees,
			IPD:         demoCfg.IPD,
		},
		Charts: Charts{
			OutputDir: "charts",
			Width:     theme.Width,
			Height:    theme.Height,
		},
	}
}

// Load reads the TOML file at path over the defaults. An empty path returns Default.
// Unknown keys are rejected so typos do not pass silently.
//
// Parameters:
//   - path: the config file; a leading ~ is expanded to the home directory
//
// Returns:
//   - Config: the merged configuration
//   - error: a read, decode or validation error
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	expanded, err := homedir.Expand(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to expand config path: %w", err)
	}
	data, err := os.ReadFile(expanded)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes TOML config data, fills defaults and validates the result.
func Parse(data []byte) (Config, error) {
	var cfg Config
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg = cfg.withDefaults()
	if err := cfg.expandPaths(); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) withDefaults() Config {
	d := Default()
	c.Window.Title = common.Coalesce(c.Window.Title, d.Window.Title)
	c.Window.Width = common.Coalesce(c.Window.Width, d.Window.Width)

	c.Render.TickRate = common.Coalesce(c.Render.TickRate, d.Render.TickRate)
	c.Render.Backend = common.Coalesce(c.Render.Backend, d.Render.Backend)
	c.Render.PresentMode = common.Coalesce(c.Render.PresentMode, d.Render.PresentMode)
	c.Render.OutputDir = common.Coalesce(c.Render.OutputDir, d.Render.OutputDir)

	c.Demo.Scenario = common.Coalesce(c.Demo.Scenario, d.Demo.Scenario)
	c.Demo.AnimScaleMs = common.Coalesce(c.Demo.AnimScaleMs, d.Demo.AnimScaleMs)
	c.Demo.FovDegrees = common.Coalesce(c.Demo.FovDegrees, d.Demo.FovDegrees)
	c.Demo.IPD = common.Coalesce(c.Demo.IPD, d.Demo.IPD)

	c.Charts.OutputDir = common.Coalesce(c.Charts.OutputDir, d.Charts.OutputDir)
	c.Charts.Width = common.Coalesce(c.Charts.Width, d.Charts.Width)
	c.Charts.Height = common.Coalesce(c.Charts.Height, d.Charts.Height)
	return c
}

func (c *Config) expandPaths() error {
	for _, p := range []*string{&c.Render.OutputDir, &c.Charts.OutputDir, &c.Charts.Input} {
		expanded, err := homedir.Expand(*p)
		if err != nil {
			return fmt.Errorf("failed to expand %q: %w", *p, err)
		}
		*p = expanded
	}
	return nil
}

// Validate reports every out-of-range value.
func (c Config) Validate() error {
	var errs []error
	bad := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfig}, args...)...))
	}
	if c.Window.Width <= 0 {
		bad("window width %d must be positive", c.Window.Width)
	}
	if c.Render.Aspect < 0 {
		bad("aspect %v must be positive", c.Render.Aspect)
	}
	if c.Render.TickRate <= 0 {
		bad("tick_rate %v must be positive", c.Render.TickRate)
	}
	if _, err := c.Backend(); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.PresentMode(); err != nil {
		errs = append(errs, err)
	}
	if c.Demo.AnimScaleMs <= 0 {
		bad("anim_scale_ms %v must be positive", c.Demo.AnimScaleMs)
	}
	if c.Demo.FovDegrees <= 0 || c.Demo.FovDegrees >= 180 {
		bad("fov_degrees %v must be in (0, 180)", c.Demo.FovDegrees)
	}
	if c.Demo.IPD <= 0 {
		bad("ipd %v must be positive", c.Demo.IPD)
	}
	if c.Charts.Workers < 0 {
		bad("charts workers %d must not be negative", c.Charts.Workers)
	}
	if c.Charts.Width <= 0 || c.Charts.Height <= 0 {
		bad("chart size %dx%d must be positive", c.Charts.Width, c.Charts.Height)
	}
	return errors.Join(errs...)
}

// Backend maps the render backend name to the renderer type.
func (c Config) Backend() (renderer.RendererBackendType, error) {
	switch c.Render.Backend {
	case BackendWGPU:
		return renderer.BackendTypeWGPU, nil
	case BackendOffscreen:
		return renderer.BackendTypeOffscreen, nil
	}
	return 0, fmt.Errorf("%w: unknown backend %q", ErrInvalidConfig, c.Render.Backend)
}

// PresentMode maps the present mode name to the renderer value.
func (c Config) PresentMode() (renderer.PresentMode, error) {
	switch c.Render.PresentMode {
	case PresentVSync:
		return renderer.PresentModeVSync, nil
	case PresentImmediate:
		return renderer.PresentModeUncapped, nil
	}
	return 0, fmt.Errorf("%w: unknown present mode %q", ErrInvalidConfig, c.Render.PresentMode)
}

// ShadowsEnabled reports whether shadows are on; unset means on.
func (c Config) ShadowsEnabled() bool {
	return c.Render.Shadows == nil || *c.Render.Shadows
}

// DemoConfig converts the demo and render sections into scenario settings.
func (c Config) DemoConfig() demo.Config {
	cfg := demo.DefaultConfig()
	cfg.AnimScale = c.Demo.AnimScaleMs
	cfg.FovDegrees = c.Demo.FovDegrees
	cfg.IPD = c.Demo.IPD
	cfg.Aspect = c.Render.Aspect
	if !c.ShadowsEnabled() {
		cfg.Shadows = light.ShadowConfig{}
	}
	return cfg
}

// ChartTheme returns the default chart theme sized by the charts section.
func (c Config) ChartTheme() chart.Theme {
	theme := chart.DefaultTheme()
	theme.Width = c.Charts.Width
	theme.Height = c.Charts.Height
	return theme
}

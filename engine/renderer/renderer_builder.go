package renderer

import (
	"log/slog"

	"github.com/cogentcore/webgpu/wgpu"
)

// RendererBuilderOption is a functional option applied to a renderer during construction via NewRenderer.
type RendererBuilderOption func(*renderer)

// SurfaceSource is anything that can describe a native surface for the WebGPU presenter, usually a window.
type SurfaceSource interface {
	SurfaceDescriptor() *wgpu.SurfaceDescriptor
	Width() int
	Height() int
}

// WithPresentMode sets the surface present mode which controls how frames are delivered to the display.
//
// Parameters:
//   - mode: the PresentMode to use (VSync or Uncapped)
//
// Returns:
//   - RendererBuilderOption: a function that applies the present mode option to a renderer
func WithPresentMode(mode PresentMode) RendererBuilderOption {
	return func(r *renderer) {
		r.pendingPresentMode = &mode
	}
}

// WithForceSoftwareRenderer forces WGPU to use a CPU/software fallback adapter for presentation.
// This requires a software Vulkan ICD to be installed on the system (e.g. SwiftShader or lavapipe).
//
// Parameters:
//   - force: true to force the software fallback adapter, false to use hardware (default)
//
// Returns:
//   - RendererBuilderOption: a function that applies the force software renderer option to a renderer
func WithForceSoftwareRenderer(force bool) RendererBuilderOption {
	return func(r *renderer) {
		r.forceFallbackAdapter = force
	}
}

// WithPresenter replaces the backend's presenter. The backend type is then ignored.
//
// Parameters:
//   - p: the Presenter that receives finished frames
//
// Returns:
//   - RendererBuilderOption: a function that applies the presenter option to a renderer
func WithPresenter(p Presenter) RendererBuilderOption {
	return func(r *renderer) {
		r.presenter = p
	}
}

// WithSurface sets the surface the WebGPU backend presents to.
//
// Parameters:
//   - s: the surface source, typically a window.Window
//
// Returns:
//   - RendererBuilderOption: a function that applies the surface option to a renderer
func WithSurface(s SurfaceSource) RendererBuilderOption {
	return func(r *renderer) {
		r.surface = s
	}
}

// WithOutputDir makes the offscreen backend write every presented frame as a PNG file into dir.
//
// Parameters:
//   - dir: the directory, created on the first SetSize
//
// Returns:
//   - RendererBuilderOption: a function that applies the output directory option to a renderer
func WithOutputDir(dir string) RendererBuilderOption {
	return func(r *renderer) {
		r.outputDir = dir
	}
}

// WithFramePrefix sets the file name prefix used for PNG frames. Defaults to "frame".
func WithFramePrefix(prefix string) RendererBuilderOption {
	return func(r *renderer) {
		if prefix != "" {
			r.framePrefix = prefix
		}
	}
}

// WithLogger sets the logger used by the renderer.
func WithLogger(logger *slog.Logger) RendererBuilderOption {
	return func(r *renderer) {
		if logger != nil {
			r.logger = logger
		}
	}
}

package renderer

import (
	"errors"

	"github.com/gogpu/gg"
)

// RendererBackendType identifies where finished frames are delivered.
type RendererBackendType int

const (
	// BackendTypeOffscreen keeps frames in memory and optionally writes them as PNG files.
	BackendTypeOffscreen RendererBackendType = iota

	// BackendTypeWGPU blits frames to a window surface through WebGPU.
	BackendTypeWGPU
)

// PresentMode controls how presented frames are delivered to the display surface.
type PresentMode int

const (
	// PresentModeVSync waits for the next vertical blank before presenting, capping frame rate
	// to the monitor's refresh rate. Eliminates tearing.
	PresentModeVSync PresentMode = iota

	// PresentModeUncapped presents frames immediately without waiting for vertical blank.
	// May cause screen tearing but provides the lowest latency.
	PresentModeUncapped
)

// ErrNoPresenter is returned by NewRenderer when the selected backend has nothing to present to.
var ErrNoPresenter = errors.New("renderer: no presenter for backend")

// Presenter delivers finished frames. Implementations own any GPU or file resources they create.
type Presenter interface {
	// Configure prepares the presenter for frames of the given size. It is called once per SetSize.
	//
	// Parameters:
	//   - width, height: the frame size in pixels
	//
	// Returns:
	//   - error: an error if surface or texture creation fails
	Configure(width, height int) error

	// Present delivers a finished frame.
	//
	// Parameters:
	//   - frame: the composited frame; only valid for the duration of the call
	//
	// Returns:
	//   - error: an error if the frame could not be delivered
	Present(frame *gg.Context) error

	// Close releases presenter resources.
	Close() error
}

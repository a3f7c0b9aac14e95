package window

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/cogentcore/webgpu/wgpu"
)

// Window provides platform windowing and input event handling.
// Wraps platform-specific window implementations with a common interface.
// Size and visibility getters are safe to call from the render goroutine while
// the message loop runs on the main thread.
type Window interface {
	// SetUpdateCallback sets the function called each message loop iteration.
	//
	// Parameters:
	//   - callback: function to call (or nil to disable)
	SetUpdateCallback(callback func())

	// SetResizeCallback sets the function called when the framebuffer is resized.
	//
	// Parameters:
	//   - callback: function receiving new width and height in pixels
	SetResizeCallback(callback func(width, height int))

	// SetVisibilityCallback sets the function called when the window is iconified or restored.
	//
	// Parameters:
	//   - callback: function receiving true when the window became visible
	SetVisibilityCallback(callback func(visible bool))

	// SetKeyDownCallback sets the callback for key press events.
	//
	// Parameters:
	//   - callback: function receiving the virtual key code
	SetKeyDownCallback(callback func(keyCode uint32))

	// SetKeyUpCallback sets the callback for key release events.
	//
	// Parameters:
	//   - callback: function receiving the virtual key code
	SetKeyUpCallback(callback func(keyCode uint32))

	// SurfaceDescriptor returns a wgpu.SurfaceDescriptor suitable for creating a WebGPU surface.
	// The descriptor is created by the wgpuglfw bridge from the underlying GLFW window.
	//
	// Returns:
	//   - *wgpu.SurfaceDescriptor: the platform-specific surface descriptor, or nil if window is not initialized
	SurfaceDescriptor() *wgpu.SurfaceDescriptor

	// IsRunning returns true if the window is still open.
	//
	// Returns:
	//   - bool: true if window is running, false if closed
	IsRunning() bool

	// Visible reports whether the window is currently shown (not iconified).
	//
	// Returns:
	//   - bool: true while the window is visible
	Visible() bool

	// Close closes the window and releases platform resources.
	//
	// Returns:
	//   - error: error if close operation fails
	Close() error

	// ProcessMessages runs the window message loop.
	// Blocks until the window is closed. Calls the update callback each iteration.
	// Must be called from the goroutine that created the window.
	ProcessMessages()

	// Width returns the current framebuffer width in pixels.
	//
	// Returns:
	//   - int: width in pixels
	Width() int

	// Height returns the current framebuffer height in pixels.
	//
	// Returns:
	//   - int: height in pixels
	Height() int
}

// engineWindow is the implementation of the Window interface.
// Holds window configuration, GLFW state, and event callbacks.
type engineWindow struct {
	mu *sync.RWMutex

	// title is the window title displayed in the title bar.
	title string

	// width and height are the current framebuffer size in pixels.
	width  int
	height int

	// visible is cleared while the window is iconified.
	visible bool

	// resizable controls whether the user may resize the window.
	resizable bool

	// internalWindow holds the platform-specific window data (glfwWindow).
	internalWindow any

	onUpdate     func()
	onResize     func(width, height int)
	onVisibility func(visible bool)
	onKeyDown    func(keyCode uint32)
	onKeyUp      func(keyCode uint32)
}

var _ Window = &engineWindow{}

// Open creates and spawns a new Window with the specified options.
// Applies default values first, then each option in order.
//
// Parameters:
//   - options: functional options to configure the window
//
// Returns:
//   - Window: the spawned window
//   - error: error if the platform window could not be created
func Open(options ...WindowBuilderOption) (Window, error) {
	w := &engineWindow{
		mu:        &sync.RWMutex{},
		title:     "vrscale",
		width:     960,
		height:    480,
		visible:   true,
		resizable: true,
	}
	for _, opt := range options {
		opt(w)
	}
	if err := newPlatformWindow(w); err != nil {
		return nil, fmt.Errorf("failed to create platform window: %w", err)
	}
	return w, nil
}

// NewWindow is Open for callers that treat a missing display as fatal.
// Panics if the platform window cannot be created.
func NewWindow(options ...WindowBuilderOption) Window {
	w, err := Open(options...)
	if err != nil {
		panic(err)
	}
	return w
}

func (w *engineWindow) SetUpdateCallback(callback func()) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onUpdate = callback
}

func (w *engineWindow) SetResizeCallback(callback func(width, height int)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onResize = callback
}

func (w *engineWindow) SetVisibilityCallback(callback func(visible bool)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onVisibility = callback
}

func (w *engineWindow) SetKeyDownCallback(callback func(keyCode uint32)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onKeyDown = callback
}

func (w *engineWindow) SetKeyUpCallback(callback func(keyCode uint32)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onKeyUp = callback
}

func (w *engineWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	return platformGetSurfaceDescriptor(w)
}

func (w *engineWindow) IsRunning() bool {
	return platformIsRunningCheck(w)
}

func (w *engineWindow) Visible() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.visible
}

func (w *engineWindow) Close() error {
	return platformCloseWindow(w)
}

func (w *engineWindow) ProcessMessages() {
	for w.IsRunning() {
		if succ := platformProcessMessages(w); !succ {
			break
		}

		w.mu.RLock()
		update := w.onUpdate
		w.mu.RUnlock()
		if update != nil {
			update()
		}

		runtime.Gosched()
	}
}

func (w *engineWindow) Width() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.width
}

func (w *engineWindow) Height() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.height
}

// setSize stores the framebuffer size and fires the resize callback outside the lock.
func (w *engineWindow) setSize(width, height int) {
	w.mu.Lock()
	w.width = width
	w.height = height
	cb := w.onResize
	w.mu.Unlock()
	if cb != nil {
		cb(width, height)
	}
}

// setVisible stores the visibility flag and fires the visibility callback on change.
func (w *engineWindow) setVisible(visible bool) {
	w.mu.Lock()
	changed := w.visible != visible
	w.visible = visible
	cb := w.onVisibility
	w.mu.Unlock()
	if changed && cb != nil {
		cb(visible)
	}
}

// keyEvent dispatches a key press or release to the registered callback.
func (w *engineWindow) keyEvent(keyCode uint32, pressed bool) {
	w.mu.RLock()
	cb := w.onKeyUp
	if pressed {
		cb = w.onKeyDown
	}
	w.mu.RUnlock()
	if cb != nil {
		cb(keyCode)
	}
}

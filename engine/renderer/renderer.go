package renderer

import (
	"fmt"
	"image"
	"image/draw"
	"log/slog"
	"sync"

	"github.com/Carmen-Shannon/vrscale/common"
	"github.com/Carmen-Shannon/vrscale/engine/camera"
	"github.com/Carmen-Shannon/vrscale/engine/scene"
	"github.com/gogpu/gg"
)

// Rect is a pixel rectangle on the render surface with a bottom-left origin.
type Rect struct {
	X, Y, W, H int
}

// Empty reports whether the rectangle covers no pixels.
func (r Rect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

// imageRect converts r to a top-left origin image rectangle on a surface of the given height.
func (r Rect) imageRect(surfaceHeight int) image.Rectangle {
	top := surfaceHeight - (r.Y + r.H)
	return image.Rect(r.X, top, r.X+r.W, top+r.H)
}

// renderer is the implementation of the Renderer interface.
type renderer struct {
	mu *sync.Mutex

	backendType RendererBackendType
	presenter   Presenter
	logger      *slog.Logger

	width, height int
	frame         *gg.Context

	viewport    Rect
	scissor     Rect
	scissorTest bool
	clearColor  common.Color

	// per-viewport-size scratch contexts
	views map[[2]int]*gg.Context

	frames uint64

	// Pre-creation config collected from builder options
	forceFallbackAdapter bool
	pendingPresentMode   *PresentMode
	surface              SurfaceSource
	outputDir            string
	framePrefix          string
}

// Renderer defines the interface for the rendering system.
//
// The Renderer is a small state machine in the style of a GL context: callers set the surface size,
// a viewport, an optional scissor rectangle and a clear color, then Clear and Render scenes into the
// current viewport. Present hands the composited frame to the configured Presenter.
// A Renderer is owned by a single goroutine.
type Renderer interface {
	// SetSize resizes the render surface and reconfigures the presenter.
	// Viewport and scissor are reset to the full surface.
	//
	// Parameters:
	//   - width, height: the new surface size in pixels
	//
	// Returns:
	//   - error: an error if the presenter could not be reconfigured
	SetSize(width, height int) error

	// Size returns the current surface size.
	//
	// Returns:
	//   - width, height: the surface size in pixels
	Size() (width, height int)

	// SetViewport sets the rectangle subsequent Render calls draw into.
	//
	// Parameters:
	//   - r: the viewport in pixels, bottom-left origin
	SetViewport(r Rect)

	// Viewport returns the current viewport.
	Viewport() Rect

	// SetScissor sets the rectangle that limits Clear and Render while the scissor test is enabled.
	//
	// Parameters:
	//   - r: the scissor rectangle in pixels, bottom-left origin
	SetScissor(r Rect)

	// SetScissorTest enables or disables the scissor rectangle.
	//
	// Parameters:
	//   - enabled: true to clip to the scissor rectangle
	SetScissorTest(enabled bool)

	// SetClearColor sets the color used by Clear.
	//
	// Parameters:
	//   - c: the clear color
	SetClearColor(c common.Color)

	// Clear fills the scissor rectangle, or the whole surface when the scissor test is disabled, with the clear color.
	Clear()

	// Render draws the scene as seen by cam into the current viewport.
	//
	// Parameters:
	//   - s: the scene to draw
	//   - cam: the camera to draw it with
	//
	// Returns:
	//   - error: an error if rasterization fails
	Render(s scene.Scene, cam camera.Camera) error

	// Present delivers the current frame to the presenter.
	//
	// Returns:
	//   - error: an error if presentation fails
	Present() error

	// Frame returns a copy of the current frame.
	//
	// Returns:
	//   - *image.RGBA: the frame, or nil before the first SetSize
	Frame() *image.RGBA

	// FrameCount returns the number of frames presented.
	FrameCount() uint64

	// SetPresentMode sets how frames are delivered to a display surface.
	// Takes effect on the next SetSize.
	//
	// Parameters:
	//   - mode: VSync or Uncapped
	SetPresentMode(mode PresentMode)

	// Close releases the surface and presenter resources.
	//
	// Returns:
	//   - error: the first error reported while releasing
	Close() error
}

var _ Renderer = &renderer{}

// NewRenderer creates a new Renderer delivering frames through the given backend.
// The surface is not allocated until the first SetSize.
//
// Parameters:
//   - backendType: where frames are delivered
//   - options: variadic list of RendererBuilderOption functions to configure the Renderer
//
// Returns:
//   - Renderer: the renderer
//   - error: ErrNoPresenter if the backend has nothing to present to, or a wrapped presenter init error
func NewRenderer(backendType RendererBackendType, options ...RendererBuilderOption) (Renderer, error) {
	r := &renderer{
		mu:          &sync.Mutex{},
		backendType: backendType,
		logger:      slog.Default(),
		views:       make(map[[2]int]*gg.Context),
		framePrefix: "frame",
	}

	// Apply options first so config flags (e.g. forceFallbackAdapter) are
	// available before the backend requests a GPU adapter.
	for _, opt := range options {
		opt(r)
	}

	if r.presenter != nil {
		return r, nil
	}

	switch backendType {
	case BackendTypeOffscreen:
		r.presenter = newOffscreenPresenter(r.outputDir, r.framePrefix)
	case BackendTypeWGPU:
		if r.surface == nil {
			return nil, fmt.Errorf("webgpu backend without a surface: %w", ErrNoPresenter)
		}
		mode := PresentModeVSync
		if r.pendingPresentMode != nil {
			mode = *r.pendingPresentMode
		}
		p, err := newWGPUPresenter(r.surface, r.forceFallbackAdapter, mode)
		if err != nil {
			return nil, fmt.Errorf("failed to create webgpu presenter: %w", err)
		}
		r.presenter = p
	default:
		return nil, fmt.Errorf("backend %d: %w", backendType, ErrNoPresenter)
	}
	return r, nil
}

func (r *renderer) SetSize(width, height int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if width <= 0 || height <= 0 {
		return fmt.Errorf("invalid surface size %dx%d", width, height)
	}

	if r.frame == nil {
		r.frame = gg.NewContext(width, height)
	} else if err := r.frame.Resize(width, height); err != nil {
		return fmt.Errorf("failed to resize frame: %w", err)
	}
	r.width, r.height = width, height
	r.viewport = Rect{W: width, H: height}
	r.scissor = r.viewport

	if err := r.presenter.Configure(width, height); err != nil {
		return fmt.Errorf("failed to configure presenter: %w", err)
	}
	r.logger.Debug("surface resized", slog.Int("width", width), slog.Int("height", height))
	return nil
}

func (r *renderer) Size() (int, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.width, r.height
}

func (r *renderer) SetViewport(rect Rect) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.viewport = rect
}

func (r *renderer) Viewport() Rect {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.viewport
}

func (r *renderer) SetScissor(rect Rect) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.scissor = rect
}

func (r *renderer) SetScissorTest(enabled bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.scissorTest = enabled
}

func (r *renderer) SetClearColor(c common.Color) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clearColor = c
}

func (r *renderer) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.frame == nil {
		return
	}
	target := r.frameImage()
	area := r.clipArea(target.Bounds())
	draw.Draw(target, area, image.NewUniform(r.clearColor.NRGBA()), image.Point{}, draw.Src)
}

func (r *renderer) Render(s scene.Scene, cam camera.Camera) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.frame == nil || r.viewport.Empty() || s == nil || cam == nil || !s.Active() {
		return nil
	}

	ctx := r.viewContext(r.viewport.W, r.viewport.H)
	ctx.ClearWithColor(gg.Transparent)
	if err := rasterize(ctx, s, cam); err != nil {
		return fmt.Errorf("failed to rasterize scene: %w", err)
	}
	if err := ctx.FlushGPU(); err != nil {
		return fmt.Errorf("failed to flush view: %w", err)
	}

	target := r.frameImage()
	dst := r.viewport.imageRect(r.height)
	area := r.clipArea(dst)
	if area.Empty() {
		return nil
	}
	src := pixmapImage(ctx.ResizeTarget())
	draw.Draw(target, area, src, area.Min.Sub(dst.Min), draw.Over)
	return nil
}

func (r *renderer) Present() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.frame == nil {
		return nil
	}
	if err := r.presenter.Present(r.frame); err != nil {
		return fmt.Errorf("failed to present frame %d: %w", r.frames, err)
	}
	r.frames++
	return nil
}

func (r *renderer) Frame() *image.RGBA {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.frame == nil {
		return nil
	}
	img, _ := r.frame.Image().(*image.RGBA)
	return img
}

func (r *renderer) FrameCount() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frames
}

func (r *renderer) SetPresentMode(mode PresentMode) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pendingPresentMode = &mode
	if m, ok := r.presenter.(interface{ SetPresentMode(PresentMode) }); ok {
		m.SetPresentMode(mode)
	}
}

func (r *renderer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var firstErr error
	for key, ctx := range r.views {
		if err := ctx.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		delete(r.views, key)
	}
	if r.frame != nil {
		if err := r.frame.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		r.frame = nil
	}
	if err := r.presenter.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}

// frameImage wraps the frame pixmap without copying. Caller holds mu.
func (r *renderer) frameImage() *image.RGBA {
	pm := r.frame.ResizeTarget()
	return &image.RGBA{Pix: pm.Data(), Stride: pm.Width() * 4, Rect: pm.Bounds()}
}

// clipArea limits area to the surface and, while the scissor test is enabled, the scissor rectangle. Caller holds mu.
func (r *renderer) clipArea(area image.Rectangle) image.Rectangle {
	area = area.Intersect(image.Rect(0, 0, r.width, r.height))
	if r.scissorTest {
		area = area.Intersect(r.scissor.imageRect(r.height))
	}
	return area
}

// viewContext returns a scratch context of the given size, reusing one from a previous frame. Caller holds mu.
func (r *renderer) viewContext(width, height int) *gg.Context {
	key := [2]int{width, height}
	if ctx, ok := r.views[key]; ok {
		return ctx
	}
	ctx := gg.NewContext(width, height)
	r.views[key] = ctx
	return ctx
}

// pixmapImage wraps a gg pixmap as a non-premultiplied image without copying.
func pixmapImage(pm *gg.Pixmap) *image.NRGBA {
	return &image.NRGBA{Pix: pm.Data(), Stride: pm.Width() * 4, Rect: pm.Bounds()}
}

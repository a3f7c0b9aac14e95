package viewport

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/Carmen-Shannon/vrscale/common"
	"github.com/Carmen-Shannon/vrscale/engine/camera"
	"github.com/Carmen-Shannon/vrscale/engine/renderer"
	"github.com/Carmen-Shannon/vrscale/engine/scene"
	"github.com/chewxy/math32"
)

// ErrInvalidAspect is returned when a RenderContext is created with a non-positive or NaN aspect ratio.
var ErrInvalidAspect = errors.New("viewport: aspect ratio must be positive")

const (
	// DefaultWidth is the display width used when no WidthSource is configured.
	DefaultWidth = 960

	// DefaultFovDegrees is the vertical field of view of the default perspective and eye cameras.
	DefaultFovDegrees = 75

	// DefaultIPD is the default distance between the binocular eye cameras in world units.
	DefaultIPD = 0.65
)

// renderContext is the implementation of the RenderContext interface.
type renderContext struct {
	mu     *sync.Mutex
	logger *slog.Logger

	renderer renderer.Renderer
	source   WidthSource
	aspect   float32

	width, height int
	views         []View
}

// RenderContext draws one scene through an ordered list of Views sharing a single render surface.
//
// A RenderContext is owned by a single goroutine; the mutex only guards accessors used for inspection.
type RenderContext interface {
	// Renderer returns the render surface the context draws into.
	Renderer() renderer.Renderer

	// Aspect returns the fixed width / height ratio of the surface.
	Aspect() float32

	// Size returns the current surface size in pixels, zero before the first Render.
	Size() (width, height int)

	// Views returns a copy of the view list in draw order.
	Views() []View

	// View looks up a view by name.
	//
	// Parameters:
	//   - name: the view name
	//
	// Returns:
	//   - View: the view
	//   - bool: false if no view has that name
	View(name string) (View, bool)

	// AddView appends a view. Later views draw over earlier ones.
	//
	// Parameters:
	//   - v: the view to append
	AddView(v View)

	// Render resizes the surface if the display width changed, then clears and draws s once per view.
	//
	// Parameters:
	//   - s: the scene to draw
	//
	// Returns:
	//   - error: the first resize or draw error
	Render(s scene.Scene) error
}

var _ RenderContext = &renderContext{}

// NewRenderContext creates a RenderContext drawing into r at a fixed aspect ratio.
//
// Parameters:
//   - r: the render surface
//   - aspect: width / height of the whole surface
//   - options: functional options such as WithViews and WithWidthSource
//
// Returns:
//   - RenderContext: the context
//   - error: ErrInvalidAspect if aspect is not positive
func NewRenderContext(r renderer.Renderer, aspect float32, options ...RenderContextBuilderOption) (RenderContext, error) {
	if !(aspect > 0) || math32.IsInf(aspect, 0) {
		return nil, fmt.Errorf("aspect %v: %w", aspect, ErrInvalidAspect)
	}
	c := &renderContext{
		mu:       &sync.Mutex{},
		logger:   slog.Default(),
		renderer: r,
		source:   FixedWidth(DefaultWidth),
		aspect:   aspect,
	}
	for _, opt := range options {
		opt(c)
	}
	return c, nil
}

// NewDefaultContext creates the two-view context: a top-down orthographic view on the left half
// and a perspective view from the origin on the right half.
//
// Parameters:
//   - r: the render surface
//   - aspect: width / height of the whole surface
//   - options: further options, applied after the default views are added
//
// Returns:
//   - RenderContext: the context
//   - error: ErrInvalidAspect if aspect is not positive
func NewDefaultContext(r renderer.Renderer, aspect float32, options ...RenderContextBuilderOption) (RenderContext, error) {
	viewAspect := aspect / 2
	views := []View{
		{
			Name:       ViewOrtho,
			Background: common.RGB(0.5, 0.5, 0.7),
			Left:       0,
			Bottom:     0,
			Width:      0.5,
			Height:     1,
			Camera:     topDownCamera(viewAspect),
		},
		{
			Name:       ViewPerspective,
			Background: common.RGB(0.7, 0.5, 0.5),
			Left:       0.5,
			Bottom:     0,
			Width:      0.5,
			Height:     1,
			Camera:     eyeCamera(viewAspect, common.Vec3{}),
		},
	}
	return NewRenderContext(r, aspect, append([]RenderContextBuilderOption{WithViews(views...)}, options...)...)
}

// NewBinocularContext creates the three-view context: top-down orthographic, left eye and right eye,
// each a third of the surface. The eyes sit ipd apart on the X axis, centred on the origin.
//
// Parameters:
//   - r: the render surface
//   - aspect: width / height of the whole surface
//   - ipd: distance between the eye cameras; non-positive selects DefaultIPD
//   - options: further options, applied after the default views are added
//
// Returns:
//   - RenderContext: the context
//   - error: ErrInvalidAspect if aspect is not positive
func NewBinocularContext(r renderer.Renderer, aspect, ipd float32, options ...RenderContextBuilderOption) (RenderContext, error) {
	if !(ipd > 0) {
		ipd = DefaultIPD
	}
	viewAspect := aspect / 3
	third := float32(1) / 3
	views := []View{
		{
			Name:       ViewOrtho,
			Background: common.RGB(0.5, 0.5, 0.7),
			Width:      third,
			Height:     1,
			Camera:     topDownCamera(viewAspect),
		},
		{
			Name:       ViewLeftEye,
			Background: common.RGB(0.7, 0.5, 0.5),
			Left:       third,
			Width:      third,
			Height:     1,
			Camera:     eyeCamera(viewAspect, common.Vec3{-ipd / 2, 0, 0}),
		},
		{
			Name:       ViewRightEye,
			Background: common.RGB(0.5, 0.7, 0.5),
			Left:       2 * third,
			Width:      third,
			Height:     1,
			Camera:     eyeCamera(viewAspect, common.Vec3{ipd / 2, 0, 0}),
		},
	}
	return NewRenderContext(r, aspect, append([]RenderContextBuilderOption{WithViews(views...)}, options...)...)
}

// topDownCamera looks straight down at the demo area around z=-10 with -Z as screen up.
func topDownCamera(aspect float32) camera.Camera {
	return camera.NewOrthographic(10, aspect, 1, 50, camera.WithRig(camera.Rig{
		Position: common.Vec3{0, 5, -10},
		Target:   common.Vec3{0, 0, -10},
		Up:       common.Vec3{0, 0, -1},
	}))
}

func eyeCamera(aspect float32, position common.Vec3) camera.Camera {
	rig := camera.DefaultRig().Translate(position)
	return camera.NewPerspective(common.DegToRad(DefaultFovDegrees), aspect, 0.1, 50, camera.WithRig(rig))
}

func (c *renderContext) Renderer() renderer.Renderer {
	return c.renderer
}

func (c *renderContext) Aspect() float32 {
	return c.aspect
}

func (c *renderContext) Size() (int, int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.width, c.height
}

func (c *renderContext) Views() []View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.views)
}

func (c *renderContext) View(name string) (View, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, v := range c.views {
		if v.Name == name {
			return v, true
		}
	}
	return View{}, false
}

func (c *renderContext) AddView(v View) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.views = append(c.views, v)
}

func (c *renderContext) Render(s scene.Scene) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.resize(); err != nil {
		return err
	}
	if c.width == 0 {
		return nil
	}

	r := c.renderer
	for _, v := range c.views {
		rect := v.PixelRect(c.width, c.height)
		r.SetViewport(rect)
		r.SetScissor(rect)
		r.SetScissorTest(true)
		r.SetClearColor(v.Background)
		r.Clear()

		if v.Camera == nil {
			continue
		}
		// zero height keeps the previous aspect
		if rect.H > 0 {
			v.Camera.SetAspect(float32(rect.W) / float32(rect.H))
		}
		v.Camera.UpdateProjectionMatrix()
		if err := r.Render(s, v.Camera); err != nil {
			return fmt.Errorf("failed to render view %q: %w", v.Name, err)
		}
	}
	return nil
}

// HeightFor returns the surface height for width at the given width / height ratio, at least 1.
func HeightFor(width int, aspect float32) int {
	return max(int(math32.Floor(float32(width)/aspect)), 1)
}

// resize sets the surface size when the display width has changed. Caller holds mu.
func (c *renderContext) resize() error {
	width := c.source.Width()
	if width <= 0 || width == c.width {
		return nil
	}
	height := HeightFor(width, c.aspect)
	if err := c.renderer.SetSize(width, height); err != nil {
		return fmt.Errorf("failed to resize surface to %dx%d: %w", width, height, err)
	}
	c.width, c.height = width, height
	c.logger.Debug("render context resized", slog.Int("width", width), slog.Int("height", height))
	return nil
}

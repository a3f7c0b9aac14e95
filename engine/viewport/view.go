package viewport

import (
	"github.com/Carmen-Shannon/vrscale/common"
	"github.com/Carmen-Shannon/vrscale/engine/camera"
	"github.com/Carmen-Shannon/vrscale/engine/renderer"
	"github.com/chewxy/math32"
)

// Rect is a pixel rectangle with a bottom-left origin.
type Rect = renderer.Rect

// Names of the views created by the default constructors.
const (
	ViewOrtho       = "ortho"
	ViewPerspective = "perspective"
	ViewLeftEye     = "left-eye"
	ViewRightEye    = "right-eye"
)

// View is one camera drawn into a fractional region of the shared surface.
// Left, Bottom, Width and Height are fractions of the surface size.
type View struct {
	Name       string
	Background common.Color
	Left       float32
	Bottom     float32
	Width      float32
	Height     float32
	Camera     camera.Camera
}

// PixelRect converts the view's fractional rectangle to pixels on a surface of the given size.
// Every component is floored.
func (v View) PixelRect(width, height int) Rect {
	w, h := float32(width), float32(height)
	return Rect{
		X: int(math32.Floor(w * v.Left)),
		Y: int(math32.Floor(h * v.Bottom)),
		W: int(math32.Floor(w * v.Width)),
		H: int(math32.Floor(h * v.Height)),
	}
}

// WidthSource reports the width the surface should be displayed at, usually a window.
type WidthSource interface {
	Width() int
}

// FixedWidth is a WidthSource that never changes. Used for offscreen runs.
type FixedWidth int

func (w FixedWidth) Width() int {
	return int(w)
}

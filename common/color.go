package common

import (
	"image/color"

	"github.com/chewxy/math32"
)

// Color is a linear RGBA color with components in [0, 1].
type Color struct {
	R, G, B, A float32
}

// RGB creates an opaque color from red, green and blue components in [0, 1].
func RGB(r, g, b float32) Color {
	return Color{R: r, G: g, B: b, A: 1}
}

// Hex creates an opaque color from a packed 0xRRGGBB value.
//
// Parameters:
//   - rgb: the packed color, e.g. 0xaaffaa
//
// Returns:
//   - Color: the opaque color
func Hex(rgb uint32) Color {
	return Color{
		R: float32((rgb>>16)&0xff) / 255,
		G: float32((rgb>>8)&0xff) / 255,
		B: float32(rgb&0xff) / 255,
		A: 1,
	}
}

// WithAlpha returns c with its alpha replaced.
func (c Color) WithAlpha(a float32) Color {
	c.A = a
	return c
}

// Scale multiplies the RGB channels by f, leaving alpha untouched.
func (c Color) Scale(f float32) Color {
	return Color{R: c.R * f, G: c.G * f, B: c.B * f, A: c.A}
}

// Add sums the RGB channels of c and o, keeping the alpha of c.
func (c Color) Add(o Color) Color {
	return Color{R: c.R + o.R, G: c.G + o.G, B: c.B + o.B, A: c.A}
}

// Mul multiplies the RGB channels of c and o component-wise, keeping the alpha of c.
func (c Color) Mul(o Color) Color {
	return Color{R: c.R * o.R, G: c.G * o.G, B: c.B * o.B, A: c.A}
}

// Clamp limits every channel to [0, 1].
func (c Color) Clamp() Color {
	return Color{R: clamp01(c.R), G: clamp01(c.G), B: clamp01(c.B), A: clamp01(c.A)}
}

// NRGBA converts c to a non-premultiplied 8-bit color.
func (c Color) NRGBA() color.NRGBA {
	c = c.Clamp()
	return color.NRGBA{
		R: uint8(math32.Round(c.R * 255)),
		G: uint8(math32.Round(c.G * 255)),
		B: uint8(math32.Round(c.B * 255)),
		A: uint8(math32.Round(c.A * 255)),
	}
}

func clamp01(v float32) float32 {
	return math32.Min(1, math32.Max(0, v))
}

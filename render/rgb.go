package render

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
)

// RGB represents an opaque 24-bit color
type RGB struct {
	R, G, B uint8
}

// RGBBlack is the zero value black color
var RGBBlack = RGB{0, 0, 0}

// RGBA is a color with straight alpha, channels in [0,1]
type RGBA struct {
	R, G, B, A float64
}

var (
	// Clear is fully transparent
	Clear = RGBA{}
	// Black is opaque black, the fade-out target
	Black = RGBA{A: 1}
)

// Lerp linearly interpolates between two colors
// t=0 returns a, t=1 returns b exactly
func Lerp(a, b RGBA, t float64) RGBA {
	if t <= 0 {
		return a
	}
	if t >= 1 {
		return b
	}
	return RGBA{
		R: a.R + t*(b.R-a.R),
		G: a.G + t*(b.G-a.G),
		B: a.B + t*(b.B-a.B),
		A: a.A + t*(b.A-a.A),
	}
}

// Over composites src on top of an opaque dst
func Over(src RGBA, dst RGB) RGB {
	if src.A <= 0 {
		return dst
	}
	a := src.A
	if a > 1 {
		a = 1
	}
	return RGB{
		R: clamp((src.R*a + float64(dst.R)/255*(1-a)) * 255),
		G: clamp((src.G*a + float64(dst.G)/255*(1-a)) * 255),
		B: clamp((src.B*a + float64(dst.B)/255*(1-a)) * 255),
	}
}

// Opaque drops alpha
func (c RGBA) Opaque() RGB {
	return RGB{R: clamp(c.R * 255), G: clamp(c.G * 255), B: clamp(c.B * 255)}
}

// ParseHex parses "#rrggbb" and attaches the given alpha
func ParseHex(s string, alpha float64) (RGBA, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return RGBA{}, fmt.Errorf("parse color %q: %w", s, err)
	}
	c = c.Clamped()
	return RGBA{R: c.R, G: c.G, B: c.B, A: alpha}, nil
}

func clamp(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v + 0.5)
}

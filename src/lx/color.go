package lx

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
)

// Color is a packed 0xAARRGGBB value, one per model point.
type Color uint32

const Black Color = 0xff000000

func ColorFromRGB(r uint8, g uint8, b uint8) Color {
	return Color(0xff000000 | uint32(r)<<16 | uint32(g)<<8 | uint32(b))
}

// FromColorful packs an opaque color, clamping out-of-gamut values.
func FromColorful(c colorful.Color) Color {
	r, g, b := c.Clamped().RGB255()
	return ColorFromRGB(r, g, b)
}

func (c Color) A() uint8 {
	return uint8(c >> 24)
}

func (c Color) R() uint8 {
	return uint8(c >> 16)
}

func (c Color) G() uint8 {
	return uint8(c >> 8)
}

func (c Color) B() uint8 {
	return uint8(c)
}

// Colorful drops the alpha channel.
func (c Color) Colorful() colorful.Color {
	return colorful.Color{
		R: float64(c.R()) / 255,
		G: float64(c.G()) / 255,
		B: float64(c.B()) / 255,
	}
}

func (c Color) Hex() string {
	return fmt.Sprintf("#%08x", uint32(c))
}

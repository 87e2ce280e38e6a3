package render

import (
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
)

// hsla converts CSS-style hsl (hue: 0-360, saturation: 0-1, lightness: 0-1)
// plus straight alpha into an NRGBA color.
func hsla(h, s, l, a float64) color.NRGBA {
	r, g, b := colorful.Hsl(h, s, l).Clamped().RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: alpha8(a)}
}

func rgba(r, g, b uint8, a float64) color.NRGBA {
	return color.NRGBA{R: r, G: g, B: b, A: alpha8(a)}
}

// Lerp blends two colors in RGB space, t in [0, 1].
func Lerp(from, to color.NRGBA, t float64) color.NRGBA {
	t = clamp01(t)
	r, g, b := toColorful(from).BlendRgb(toColorful(to), t).Clamped().RGB255()
	a := float64(from.A) + (float64(to.A)-float64(from.A))*t
	return color.NRGBA{R: r, G: g, B: b, A: uint8(a + 0.5)}
}

// WithAlpha scales the alpha of c by f.
func WithAlpha(c color.NRGBA, f float64) color.NRGBA {
	c.A = uint8(float64(c.A)*clamp01(f) + 0.5)
	return c
}

func toColorful(c color.NRGBA) colorful.Color {
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
}

func alpha8(a float64) uint8 {
	return uint8(clamp01(a)*255 + 0.5)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

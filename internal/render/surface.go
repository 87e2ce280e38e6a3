package render

import "image/color"

// Surface is a drawing target addressed in logical viewport coordinates.
// Implementations apply any device scaling themselves.
type Surface interface {
	Clear()
	// FillGradient paints [0,w]x[0,h] with a linear gradient running from
	// the top-left corner (from) to the bottom-right corner (to).
	FillGradient(w, h float64, from, to color.NRGBA)
	FillCircle(x, y, r float64, fill color.NRGBA, glow Glow)
	StrokeLine(x0, y0, x1, y1, width float64, c color.NRGBA)
}

// Glow is a soft halo drawn behind a filled shape. Blur 0 disables it.
type Glow struct {
	Color color.NRGBA
	Blur  float64
}

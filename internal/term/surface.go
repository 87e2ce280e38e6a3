package term

import (
	"image/color"
	"math"

	"github.com/gdamore/tcell/v2"

	"github.com/iburimskiy/particlehub/internal/render"
)

// upperHalf draws the top pixel of a cell in the foreground color and the
// bottom pixel in the background color.
const upperHalf = '▀'

// cellSurface rasterizes draw calls into a pixel grid two pixels per
// terminal cell, where one pixel covers pixelSize logical units.
type cellSurface struct {
	pixelSize float64

	// size reports the terminal in cells; checked at the start of each frame.
	size func() (int, int)

	cols int
	rows int // pixel rows, twice the cell rows
	pix  []color.NRGBA
}

func newCellSurface(pixelSize float64, size func() (int, int)) *cellSurface {
	if pixelSize <= 0 {
		pixelSize = 1
	}
	return &cellSurface{pixelSize: pixelSize, size: size}
}

// resize matches the pixel grid to a cols x cellRows terminal.
func (s *cellSurface) resize(cols, cellRows int) {
	rows := cellRows * 2
	if cols == s.cols && rows == s.rows {
		return
	}
	s.cols, s.rows = cols, rows
	s.pix = make([]color.NRGBA, cols*rows)
}

func (s *cellSurface) Clear() {
	if s.size != nil {
		s.resize(s.size())
	}
	clear(s.pix)
}

func (s *cellSurface) FillGradient(w, h float64, from, to color.NRGBA) {
	diag := w*w + h*h
	for py := 0; py < s.rows; py++ {
		y := (float64(py) + 0.5) * s.pixelSize
		for px := 0; px < s.cols; px++ {
			x := (float64(px) + 0.5) * s.pixelSize
			t := 0.0
			if diag > 0 {
				t = (x*w + y*h) / diag
			}
			s.blend(px, py, render.Lerp(from, to, t))
		}
	}
}

func (s *cellSurface) FillCircle(x, y, r float64, fill color.NRGBA, glow render.Glow) {
	if glow.Blur > 0 && glow.Color.A > 0 {
		s.disc(x, y, r+glow.Blur/2, render.WithAlpha(glow.Color, 0.2))
	}
	s.disc(x, y, r, fill)
}

func (s *cellSurface) disc(x, y, r float64, c color.NRGBA) {
	// Every particle covers at least its own pixel.
	rp := math.Max(r/s.pixelSize, 0.5)
	cx, cy := x/s.pixelSize, y/s.pixelSize
	for py := int(math.Floor(cy - rp)); py <= int(math.Ceil(cy+rp)); py++ {
		for px := int(math.Floor(cx - rp)); px <= int(math.Ceil(cx+rp)); px++ {
			dx := float64(px) + 0.5 - cx
			dy := float64(py) + 0.5 - cy
			if dx*dx+dy*dy <= rp*rp {
				s.blend(px, py, c)
			}
		}
	}
}

// StrokeLine ignores width; link widths are below one terminal pixel.
func (s *cellSurface) StrokeLine(x0, y0, x1, y1, width float64, c color.NRGBA) {
	fx0, fy0 := x0/s.pixelSize, y0/s.pixelSize
	fx1, fy1 := x1/s.pixelSize, y1/s.pixelSize
	steps := int(math.Ceil(math.Max(math.Abs(fx1-fx0), math.Abs(fy1-fy0))))
	if steps == 0 {
		s.blend(int(math.Floor(fx0)), int(math.Floor(fy0)), c)
		return
	}
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		s.blend(int(math.Floor(fx0+(fx1-fx0)*t)), int(math.Floor(fy0+(fy1-fy0)*t)), c)
	}
}

// blend composites c over the pixel at (px, py), source-over.
func (s *cellSurface) blend(px, py int, c color.NRGBA) {
	if px < 0 || py < 0 || px >= s.cols || py >= s.rows || c.A == 0 {
		return
	}
	dst := &s.pix[py*s.cols+px]
	sa := float64(c.A) / 255
	da := float64(dst.A) / 255
	oa := sa + da*(1-sa)
	if oa == 0 {
		*dst = color.NRGBA{}
		return
	}
	mix := func(sc, dc uint8) uint8 {
		v := (float64(sc)*sa + float64(dc)*da*(1-sa)) / oa
		return uint8(math.Round(v))
	}
	*dst = color.NRGBA{
		R: mix(c.R, dst.R),
		G: mix(c.G, dst.G),
		B: mix(c.B, dst.B),
		A: uint8(math.Round(oa * 255)),
	}
}

func (s *cellSurface) at(px, py int) color.NRGBA {
	return s.pix[py*s.cols+px]
}

// flush writes the pixel grid to screen as half-block cells.
func (s *cellSurface) flush(screen tcell.Screen) {
	for row := 0; row < s.rows/2; row++ {
		for col := 0; col < s.cols; col++ {
			top := s.at(col, row*2)
			bottom := s.at(col, row*2+1)
			style := tcell.StyleDefault.
				Foreground(toTcell(top)).
				Background(toTcell(bottom))
			screen.SetContent(col, row, upperHalf, nil, style)
		}
	}
}

// toTcell flattens c onto black.
func toTcell(c color.NRGBA) tcell.Color {
	a := int32(c.A)
	return tcell.NewRGBColor(int32(c.R)*a/255, int32(c.G)*a/255, int32(c.B)*a/255)
}

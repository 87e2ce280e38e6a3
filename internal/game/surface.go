package game

import (
	"image"
	"image/color"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/iburimskiy/particlehub/internal/render"
)

// glowSteps is the number of translucent rings approximating a blur.
const glowSteps = 4

var (
	whiteOnce     sync.Once
	whiteSubImage *ebiten.Image
)

func whiteSource() *ebiten.Image {
	whiteOnce.Do(func() {
		img := ebiten.NewImage(3, 3)
		img.Fill(color.White)
		whiteSubImage = img.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
	})
	return whiteSubImage
}

// ebitenSurface implements render.Surface on an ebiten image whose pixels
// are scale times the logical viewport units.
type ebitenSurface struct {
	img   *ebiten.Image
	scale float32

	vertices []ebiten.Vertex
}

func newEbitenSurface(img *ebiten.Image, scale float64) *ebitenSurface {
	if scale <= 0 {
		scale = 1
	}
	return &ebitenSurface{img: img, scale: float32(scale)}
}

// Reset retargets the surface, keeping its vertex buffer.
func (s *ebitenSurface) Reset(img *ebiten.Image, scale float64) {
	if scale <= 0 {
		scale = 1
	}
	s.img = img
	s.scale = float32(scale)
}

func (s *ebitenSurface) Clear() { s.img.Clear() }

func (s *ebitenSurface) FillGradient(w, h float64, from, to color.NRGBA) {
	// The gradient parameter t = (x*w + y*h) / (w*w + h*h) is linear in x
	// and y, so per-vertex colors on two triangles reproduce it exactly.
	diag := w*w + h*h
	if diag == 0 {
		return
	}
	tr := render.Lerp(from, to, w*w/diag)
	bl := render.Lerp(from, to, h*h/diag)

	sw, sh := float32(w)*s.scale, float32(h)*s.scale
	s.vertices = append(s.vertices[:0],
		vertex(0, 0, from),
		vertex(sw, 0, tr),
		vertex(0, sh, bl),
		vertex(sw, sh, to),
	)
	s.img.DrawTriangles(s.vertices, []uint16{0, 1, 2, 1, 2, 3}, whiteSource(), &ebiten.DrawTrianglesOptions{})
}

func (s *ebitenSurface) FillCircle(x, y, r float64, fill color.NRGBA, glow render.Glow) {
	cx, cy, cr := float32(x)*s.scale, float32(y)*s.scale, float32(r)*s.scale
	if glow.Blur > 0 && glow.Color.A > 0 {
		blur := float32(glow.Blur) * s.scale
		for i := glowSteps; i >= 1; i-- {
			f := float64(glowSteps-i+1) / float64(glowSteps*(glowSteps+1))
			ring := render.WithAlpha(glow.Color, f)
			vector.DrawFilledCircle(s.img, cx, cy, cr+blur*float32(i)/glowSteps, ring, true)
		}
	}
	vector.DrawFilledCircle(s.img, cx, cy, cr, fill, true)
}

func (s *ebitenSurface) StrokeLine(x0, y0, x1, y1, width float64, c color.NRGBA) {
	vector.StrokeLine(s.img,
		float32(x0)*s.scale, float32(y0)*s.scale,
		float32(x1)*s.scale, float32(y1)*s.scale,
		float32(width)*s.scale, c, true)
}

func vertex(x, y float32, c color.NRGBA) ebiten.Vertex {
	return ebiten.Vertex{
		DstX:   x,
		DstY:   y,
		SrcX:   1,
		SrcY:   1,
		ColorR: float32(c.R) / 255,
		ColorG: float32(c.G) / 255,
		ColorB: float32(c.B) / 255,
		ColorA: float32(c.A) / 255,
	}
}

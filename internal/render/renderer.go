package render

import (
	"image/color"

	"github.com/iburimskiy/particlehub/internal/config"
	"github.com/iburimskiy/particlehub/internal/sim"
)

// Style holds the fixed palette and stroke widths.
type Style struct {
	BackgroundFrom color.NRGBA
	BackgroundTo   color.NRGBA

	Saturation float64
	Lightness  float64
	FillAlpha  float64 // multiplied by particle brightness
	GlowAlpha  float64

	LinkColor        color.NRGBA // alpha is the opacity at distance 0
	LinkWidth        float64
	PointerLinkColor color.NRGBA
	PointerLinkWidth float64
}

// DefaultStyle is the light slate background with indigo and violet links.
func DefaultStyle() Style {
	return Style{
		BackgroundFrom:   rgba(248, 250, 252, 0.95),
		BackgroundTo:     rgba(226, 232, 240, 0.95),
		Saturation:       0.7,
		Lightness:        0.6,
		FillAlpha:        0.4,
		GlowAlpha:        0.8,
		LinkColor:        rgba(79, 70, 229, 0.3),
		LinkWidth:        2,
		PointerLinkColor: rgba(147, 51, 234, 0.4),
		PointerLinkWidth: 3,
	}
}

// Renderer draws particle field frames onto a Surface.
type Renderer struct {
	style Style

	linkDistance        float64
	pointerLinkDistance float64
	glowBlur            float64

	pulse float64
}

func New(cfg config.RenderConfig) *Renderer {
	return &Renderer{
		style:               DefaultStyle(),
		linkDistance:        cfg.LinkDistance,
		pointerLinkDistance: cfg.LinkDistance * cfg.PointerLinkFactor,
		glowBlur:            cfg.GlowBlur,
	}
}

// WithStyle replaces the palette.
func (r *Renderer) WithStyle(s Style) *Renderer {
	r.style = s
	return r
}

func (r *Renderer) LinkDistance() float64        { return r.linkDistance }
func (r *Renderer) PointerLinkDistance() float64 { return r.pointerLinkDistance }

// SetPulse sets the audio level in [0, 1] that widens particle glow.
func (r *Renderer) SetPulse(level float64) {
	r.pulse = clamp01(level)
}

// ClearAndPaintBackground clears s and fills the viewport with the
// diagonal background gradient.
func (r *Renderer) ClearAndPaintBackground(s Surface, vp sim.Viewport) {
	s.Clear()
	s.FillGradient(vp.Width, vp.Height, r.style.BackgroundFrom, r.style.BackgroundTo)
}

// DrawParticle fills p at its current radius with a hue-tinted glow.
func (r *Renderer) DrawParticle(s Surface, p *sim.Particle) {
	st := r.style
	fill := hsla(p.Hue, st.Saturation, st.Lightness, p.Brightness*st.FillAlpha)
	glow := Glow{
		Color: hsla(p.Hue, st.Saturation, st.Lightness, st.GlowAlpha),
		Blur:  r.glowBlur * (1 + r.pulse),
	}
	s.FillCircle(p.Pos.X, p.Pos.Y, p.Radius, fill, glow)
}

// DrawParticles draws every particle in order.
func (r *Renderer) DrawParticles(s Surface, particles []sim.Particle) {
	for i := range particles {
		r.DrawParticle(s, &particles[i])
	}
}

// DrawLinks joins each unordered pair closer than maxDistance and returns
// the number of lines drawn.
func (r *Renderer) DrawLinks(s Surface, particles []sim.Particle, maxDistance float64) int {
	n := 0
	for i := 0; i < len(particles); i++ {
		a := particles[i].Pos
		for j := i + 1; j < len(particles); j++ {
			b := particles[j].Pos
			d := sim.Dist(a, b)
			if d >= maxDistance {
				continue
			}
			c := WithAlpha(r.style.LinkColor, LinkOpacity(d, maxDistance))
			s.StrokeLine(a.X, a.Y, b.X, b.Y, r.style.LinkWidth, c)
			n++
		}
	}
	return n
}

// DrawPointerLinks joins each particle closer than maxDistance to the
// pointer and returns the number of lines drawn.
func (r *Renderer) DrawPointerLinks(s Surface, particles []sim.Particle, pointer sim.Vec, maxDistance float64) int {
	n := 0
	for i := range particles {
		p := particles[i].Pos
		d := sim.Dist(p, pointer)
		if d >= maxDistance {
			continue
		}
		c := WithAlpha(r.style.PointerLinkColor, LinkOpacity(d, maxDistance))
		s.StrokeLine(p.X, p.Y, pointer.X, pointer.Y, r.style.PointerLinkWidth, c)
		n++
	}
	return n
}

// LinkOpacity maps a distance to a [0, 1] opacity factor that falls
// linearly to zero at maxDistance. Coincident points are fully opaque.
func LinkOpacity(d, maxDistance float64) float64 {
	if maxDistance <= 0 {
		return 0
	}
	if d <= 0 {
		return 1
	}
	return clamp01(1 - d/maxDistance)
}

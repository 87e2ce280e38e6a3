package sim

import (
	"math/rand"

	"github.com/iburimskiy/particlehub/internal/config"
)

// Particle is one animated point.
type Particle struct {
	Pos Vec
	Vel Vec

	BaseRadius float64
	// Radius is BaseRadius inflated by pointer proximity on the last tick.
	Radius float64

	Hue        float64 // degrees, [0, 360)
	Brightness float64 // [0.3, 1)
}

// Speed returns the velocity magnitude.
func (p *Particle) Speed() float64 { return p.Vel.Len() }

// spawn fills p with a uniformly random state inside vp.
func (p *Particle) spawn(rng *rand.Rand, vp Viewport, cfg config.FieldConfig) {
	p.Pos = Vec{rng.Float64() * vp.Width, rng.Float64() * vp.Height}
	p.Vel = Vec{
		(rng.Float64() - 0.5) * cfg.InitialSpeed,
		(rng.Float64() - 0.5) * cfg.InitialSpeed,
	}
	p.BaseRadius = cfg.MinRadius + rng.Float64()*cfg.RadiusSpread
	p.Radius = p.BaseRadius
	p.Hue = rng.Float64() * 360
	p.Brightness = 0.3 + rng.Float64()*0.7
}

package sim

import (
	"math"
	"math/rand"
	"time"

	"github.com/iburimskiy/particlehub/internal/config"
)

// Field owns a fixed-size set of particles and advances them one tick at a
// time. It holds no rendering state and is not safe for concurrent use.
type Field struct {
	cfg       config.FieldConfig
	rng       *rand.Rand
	particles []Particle
}

// Stats summarizes the field after a tick.
type Stats struct {
	Count     int
	MeanSpeed float64
	MaxSpeed  float64
	// Escaped counts particles outside the viewport; always zero after Advance.
	Escaped int
}

// NewRand returns a random source for seed, or a time-based one when seed is 0.
func NewRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

// New creates cfg.Count particles spread uniformly over vp.
func New(cfg config.FieldConfig, rng *rand.Rand, vp Viewport) *Field {
	if rng == nil {
		rng = NewRand(cfg.Seed)
	}
	f := &Field{
		cfg:       cfg,
		rng:       rng,
		particles: make([]Particle, cfg.Count),
	}
	f.Reset(vp)
	return f
}

// NewWithParticles builds a field around an explicit particle set.
func NewWithParticles(cfg config.FieldConfig, particles []Particle) *Field {
	ps := make([]Particle, len(particles))
	copy(ps, particles)
	for i := range ps {
		if ps[i].Radius == 0 {
			ps[i].Radius = ps[i].BaseRadius
		}
	}
	return &Field{cfg: cfg, rng: NewRand(cfg.Seed), particles: ps}
}

// Reset re-creates every particle from the field's random source.
func (f *Field) Reset(vp Viewport) {
	for i := range f.particles {
		f.particles[i].spawn(f.rng, vp, f.cfg)
	}
}

// Len returns the number of particles.
func (f *Field) Len() int { return len(f.particles) }

// Particles exposes the current set. Callers must not modify it.
func (f *Field) Particles() []Particle { return f.particles }

// Advance moves every particle one tick towards pointer-influenced, bounded,
// damped motion inside vp.
func (f *Field) Advance(pointer Vec, vp Viewport) {
	for i := range f.particles {
		f.step(&f.particles[i], pointer, vp)
	}
}

func (f *Field) step(p *Particle, pointer Vec, vp Viewport) {
	force, dir := Attraction(p.Pos, pointer, f.cfg.AttractionRadius)
	if force > 0 {
		p.Vel.X += dir.X * force * f.cfg.AttractionStrength
		p.Vel.Y += dir.Y * force * f.cfg.AttractionStrength
		p.Radius = p.BaseRadius * (1 + force)
	} else {
		p.Radius = p.BaseRadius
	}

	p.Pos.X += p.Vel.X
	p.Pos.Y += p.Vel.Y

	if hitsEdge(p.Pos.X, p.Vel.X, vp.Width) {
		p.Vel.X *= -f.cfg.Restitution
	}
	if hitsEdge(p.Pos.Y, p.Vel.Y, vp.Height) {
		p.Vel.Y *= -f.cfg.Restitution
	}
	p.Pos.X = clamp(p.Pos.X, 0, vp.Width)
	p.Pos.Y = clamp(p.Pos.Y, 0, vp.Height)

	p.Vel.X *= f.cfg.Damping
	p.Vel.Y *= f.cfg.Damping
}

// Attraction returns the pointer pull on a particle at pos: force in [0, 1]
// and the unit direction towards the pointer. Outside radius force is 0.
// A particle exactly under the pointer gets force 1 and a zero direction.
func Attraction(pos, pointer Vec, radius float64) (float64, Vec) {
	d := pointer.Sub(pos)
	dist := d.Len()
	if radius <= 0 || dist >= radius {
		return 0, Vec{}
	}
	force := (radius - dist) / radius
	if dist == 0 {
		return force, Vec{}
	}
	return force, Vec{d.X / dist, d.Y / dist}
}

// Stats reports speed and bounds figures for vp.
func (f *Field) Stats(vp Viewport) Stats {
	s := Stats{Count: len(f.particles)}
	if s.Count == 0 {
		return s
	}
	var sum float64
	for i := range f.particles {
		p := &f.particles[i]
		v := p.Speed()
		sum += v
		s.MaxSpeed = math.Max(s.MaxSpeed, v)
		if p.Pos.X < 0 || p.Pos.X > vp.Width || p.Pos.Y < 0 || p.Pos.Y > vp.Height {
			s.Escaped++
		}
	}
	s.MeanSpeed = sum / float64(s.Count)
	return s
}

// hitsEdge reports whether a coordinate at or past an edge of [0, extent] is
// still moving outward. Particles left outside by a shrinking viewport that
// already head inward keep their velocity.
func hitsEdge(pos, vel, extent float64) bool {
	return (pos <= 0 && vel < 0) || (pos >= extent && vel > 0)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

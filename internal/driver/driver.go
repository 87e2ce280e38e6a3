// Package driver sequences particle field frames: paint the background,
// advance the simulation, then draw particles and links.
package driver

import (
	"sync"

	"go.uber.org/zap"

	"github.com/iburimskiy/particlehub/internal/render"
	"github.com/iburimskiy/particlehub/internal/sim"
)

type State int

const (
	Idle State = iota
	Running
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	}
	return "unknown"
}

// FrameStats describes one completed tick.
type FrameStats struct {
	Frame        uint64
	Links        int
	PointerLinks int
}

// Driver owns one simulation instance. Tick and Restart may be called from
// different goroutines; they are serialized.
type Driver struct {
	field    *sim.Field
	renderer *render.Renderer
	input    *sim.Input
	log      *zap.Logger

	mu     sync.Mutex
	state  State
	frames uint64
}

func New(field *sim.Field, renderer *render.Renderer, input *sim.Input, logger *zap.Logger) *Driver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Driver{
		field:    field,
		renderer: renderer,
		input:    input,
		log:      logger,
	}
}

func (d *Driver) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// Frames returns the number of completed ticks.
func (d *Driver) Frames() uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.frames
}

// Tick renders one frame onto s.
func (d *Driver) Tick(s render.Surface) FrameStats {
	pointer, vp := d.input.Snapshot()

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.state == Idle {
		d.state = Running
		d.log.Debug("frame driver running",
			zap.Int("particles", d.field.Len()),
			zap.Float64("width", vp.Width),
			zap.Float64("height", vp.Height))
	}

	r := d.renderer
	r.ClearAndPaintBackground(s, vp)
	d.field.Advance(pointer, vp)

	particles := d.field.Particles()
	r.DrawParticles(s, particles)
	links := r.DrawLinks(s, particles, r.LinkDistance())
	pointerLinks := r.DrawPointerLinks(s, particles, pointer, r.PointerLinkDistance())

	d.frames++
	return FrameStats{Frame: d.frames, Links: links, PointerLinks: pointerLinks}
}

// Restart re-creates every particle inside the current viewport.
func (d *Driver) Restart() {
	vp := d.input.Viewport()

	d.mu.Lock()
	defer d.mu.Unlock()
	d.field.Reset(vp)
	d.log.Info("particle field restarted", zap.Uint64("frame", d.frames))
}

// Stats returns field statistics for the current viewport.
func (d *Driver) Stats() sim.Stats {
	vp := d.input.Viewport()

	d.mu.Lock()
	defer d.mu.Unlock()
	return d.field.Stats(vp)
}

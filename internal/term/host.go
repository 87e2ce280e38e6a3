// Package term hosts the particle field in a terminal, two pixels per cell.
package term

import (
	"context"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"github.com/iburimskiy/particlehub/internal/config"
	"github.com/iburimskiy/particlehub/internal/driver"
	"github.com/iburimskiy/particlehub/internal/sim"
)

type Host struct {
	screen tcell.Screen
	cfg    *config.Config
	driver *driver.Driver
	input  *sim.Input
	log    *zap.Logger

	surface *cellSurface
}

// New wraps an initialized screen. Run takes ownership and finalizes it.
func New(screen tcell.Screen, cfg *config.Config, d *driver.Driver, in *sim.Input, logger *zap.Logger) *Host {
	return &Host{
		screen:  screen,
		cfg:     cfg,
		driver:  d,
		input:   in,
		log:     logger,
		surface: newCellSurface(cfg.Term.PixelSize, screen.Size),
	}
}

// Viewport returns the logical extent of a cols x rows terminal.
func Viewport(cols, rows int, pixelSize float64) sim.Viewport {
	return sim.Viewport{
		Width:  float64(cols) * pixelSize,
		Height: float64(rows*2) * pixelSize,
		Scale:  1 / pixelSize,
	}
}

// Run animates until ctx is done or the user quits.
func (h *Host) Run(ctx context.Context) error {
	defer h.screen.Fini()
	h.screen.EnableMouse()
	h.screen.HideCursor()
	h.resize()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	events := make(chan tcell.Event)
	go h.pollEvents(ctx, events)

	// The surface and screen are touched by the frame loop only; resize
	// events reach it through Input.
	sched := driver.NewTickerScheduler(h.cfg.Term.FrameRate)
	defer sched.Close()
	loop := h.driver.Run(ctx, sched, h.surface, func(driver.FrameStats) {
		h.surface.flush(h.screen)
		h.screen.Show()
	})
	defer loop.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-loop.Done():
			return nil
		case ev := <-events:
			if !h.handle(ev) {
				h.log.Debug("terminal host quit", zap.Uint64("frames", h.driver.Frames()))
				return nil
			}
		}
	}
}

func (h *Host) pollEvents(ctx context.Context, out chan<- tcell.Event) {
	for {
		ev := h.screen.PollEvent()
		if ev == nil {
			return
		}
		select {
		case out <- ev:
		case <-ctx.Done():
			return
		}
	}
}

// handle applies one event and reports whether to keep running.
func (h *Host) handle(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		h.resize()
		h.screen.Sync()
	case *tcell.EventMouse:
		x, y := ev.Position()
		ps := h.cfg.Term.PixelSize
		h.input.SetPointer((float64(x)+0.5)*ps, (float64(y)*2+1)*ps)
	case *tcell.EventKey:
		switch {
		case ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC:
			return false
		case ev.Key() == tcell.KeyRune && (ev.Rune() == 'q' || ev.Rune() == 'Q'):
			return false
		case ev.Key() == tcell.KeyRune && (ev.Rune() == 'r' || ev.Rune() == 'R'):
			h.driver.Restart()
		}
	}
	return true
}

// resize updates the shared viewport. The pixel grid follows on the next
// frame.
func (h *Host) resize() {
	cols, rows := h.screen.Size()
	vp := Viewport(cols, rows, h.cfg.Term.PixelSize)
	if h.input.Resize(vp.Width, vp.Height, vp.Scale) {
		h.log.Debug("terminal resized", zap.Int("cols", cols), zap.Int("rows", rows))
	}
}

package driver

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/iburimskiy/particlehub/internal/render"
)

// Scheduler paces the frame loop.
type Scheduler interface {
	// Wait blocks until the next frame is due. It returns false when no
	// more frames will be produced or ctx is done.
	Wait(ctx context.Context) bool
}

// TickerScheduler releases one frame per interval.
type TickerScheduler struct {
	ticker *time.Ticker
}

// NewTickerScheduler paces frames at fps frames per second.
func NewTickerScheduler(fps int) *TickerScheduler {
	if fps <= 0 {
		fps = 60
	}
	return &TickerScheduler{ticker: time.NewTicker(time.Second / time.Duration(fps))}
}

func (s *TickerScheduler) Wait(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return false
	case <-s.ticker.C:
		return true
	}
}

// Close stops the underlying ticker.
func (s *TickerScheduler) Close() { s.ticker.Stop() }

// CountScheduler releases exactly N frames without waiting.
type CountScheduler struct {
	remaining int
}

func NewCountScheduler(n int) *CountScheduler {
	return &CountScheduler{remaining: n}
}

func (s *CountScheduler) Wait(ctx context.Context) bool {
	if ctx.Err() != nil || s.remaining <= 0 {
		return false
	}
	s.remaining--
	return true
}

// Handle controls a running frame loop.
type Handle struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// Stop ends the loop and waits for the in-flight frame to finish. It is
// safe to call more than once.
func (h *Handle) Stop() {
	h.cancel()
	<-h.done
}

// Done is closed once the loop has exited.
func (h *Handle) Done() <-chan struct{} { return h.done }

// Wait blocks until the loop exits on its own or via Stop.
func (h *Handle) Wait() { <-h.done }

// Run ticks the driver onto s on its own goroutine, once per scheduler
// release, until the scheduler runs out, ctx is done or Stop is called.
// onFrame, if set, runs after each tick on the loop goroutine.
func (d *Driver) Run(ctx context.Context, sched Scheduler, s render.Surface, onFrame func(FrameStats)) *Handle {
	ctx, cancel := context.WithCancel(ctx)
	h := &Handle{cancel: cancel, done: make(chan struct{})}

	go func() {
		defer close(h.done)
		defer cancel()

		d.log.Debug("frame loop started")
		for sched.Wait(ctx) {
			st := d.Tick(s)
			if onFrame != nil {
				onFrame(st)
			}
		}
		d.log.Debug("frame loop stopped", zap.Uint64("frames", d.Frames()))
	}()
	return h
}

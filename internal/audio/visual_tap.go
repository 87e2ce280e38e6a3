package audio

import (
	"math"
	"sync"

	"github.com/faiface/beep"
)

// levelWindow is how many recent samples feed one pulse level reading.
const levelWindow = 2048

// visualTap wraps a beep.Streamer and records the last N samples into a ring buffer
// so the frame loop can derive a pulse level from recently played audio.
type visualTap struct {
	Source    beep.Streamer
	buffer    [][2]float64
	nextIndex int
	filled    int
	mu        sync.RWMutex
}

func newVisualTap(src beep.Streamer, ringSize int) *visualTap {
	return &visualTap{
		Source: src,
		buffer: make([][2]float64, ringSize),
	}
}

func (t *visualTap) Stream(samples [][2]float64) (int, bool) {
	n, ok := t.Source.Stream(samples)
	if n > 0 {
		t.mu.Lock()
		for i := 0; i < n; i++ {
			t.buffer[t.nextIndex] = samples[i]
			t.nextIndex++
			if t.nextIndex >= len(t.buffer) {
				t.nextIndex = 0
			}
		}
		t.filled = min(t.filled+n, len(t.buffer))
		t.mu.Unlock()
	}
	return n, ok
}

func (t *visualTap) Err() error { return t.Source.Err() }

// level returns the compressed RMS of up to the last n recorded samples,
// in [0, 1]. An empty tap reads as silence.
func (t *visualTap) level(n int) float64 {
	t.mu.RLock()
	defer t.mu.RUnlock()

	n = min(n, t.filled)
	if n == 0 {
		return 0
	}
	var sumSquares float64
	idx := t.nextIndex
	for i := 0; i < n; i++ {
		idx--
		if idx < 0 {
			idx = len(t.buffer) - 1
		}
		s := t.buffer[idx]
		mono := (s[0] + s[1]) * 0.5
		sumSquares += mono * mono
	}
	rms := math.Sqrt(sumSquares / float64(n))
	// More aggressive compression for visual effect
	return math.Min(1, math.Pow(rms, 0.3))
}

// Smooth blends a new reading into prev with the given smoothing factor.
func Smooth(prev, next, factor float64) float64 {
	return factor*prev + (1-factor)*next
}

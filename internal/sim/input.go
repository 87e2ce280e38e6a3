package sim

import "sync"

// Input holds the pointer position and viewport extent shared between host
// event handlers and the frame loop.
type Input struct {
	mu         sync.RWMutex
	pointer    Vec
	viewport   Viewport
	pointerSet bool
}

// NewInput starts with the pointer at the center of vp.
func NewInput(vp Viewport) *Input {
	if vp.Scale <= 0 {
		vp.Scale = 1
	}
	return &Input{pointer: vp.Center(), viewport: vp}
}

// SetPointer records the latest pointer position.
func (in *Input) SetPointer(x, y float64) {
	in.mu.Lock()
	in.pointer = Vec{x, y}
	in.pointerSet = true
	in.mu.Unlock()
}

// Resize updates the viewport and reports whether it changed. Until the first
// SetPointer the default pointer follows the viewport center.
func (in *Input) Resize(width, height, scale float64) bool {
	if scale <= 0 {
		scale = 1
	}
	vp := Viewport{Width: width, Height: height, Scale: scale}

	in.mu.Lock()
	defer in.mu.Unlock()
	if in.viewport == vp {
		return false
	}
	in.viewport = vp
	if !in.pointerSet {
		in.pointer = vp.Center()
	}
	return true
}

// Snapshot returns a consistent pointer and viewport pair.
func (in *Input) Snapshot() (Vec, Viewport) {
	in.mu.RLock()
	defer in.mu.RUnlock()
	return in.pointer, in.viewport
}

// Viewport returns the current extent.
func (in *Input) Viewport() Viewport {
	in.mu.RLock()
	defer in.mu.RUnlock()
	return in.viewport
}

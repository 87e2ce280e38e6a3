package sim

import (
	"math/rand"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInput_DefaultPointerIsCenter(t *testing.T) {
	in := NewInput(Viewport{Width: 800, Height: 600})

	pointer, vp := in.Snapshot()
	assert.Equal(t, Vec{400, 300}, pointer)
	assert.Equal(t, 1.0, vp.Scale)

	in.Resize(200, 100, 2)
	pointer, _ = in.Snapshot()
	assert.Equal(t, Vec{100, 50}, pointer)
}

func TestInput_PointerSticksAfterResize(t *testing.T) {
	in := NewInput(Viewport{Width: 800, Height: 600, Scale: 1})
	in.SetPointer(10, 20)
	in.Resize(100, 100, 1)

	pointer, _ := in.Snapshot()
	assert.Equal(t, Vec{10, 20}, pointer)
}

func TestInput_ResizeIsIdempotent(t *testing.T) {
	vp := Viewport{Width: 800, Height: 600, Scale: 1}
	in := NewInput(vp)
	f := New(testFieldConfig(), rand.New(rand.NewSource(5)), vp)
	before := append([]Particle(nil), f.Particles()...)

	assert.True(t, in.Resize(1280, 720, 2))
	first := in.Viewport()
	assert.False(t, in.Resize(1280, 720, 2))

	assert.Equal(t, first, in.Viewport())
	assert.Equal(t, Viewport{Width: 1280, Height: 720, Scale: 2}, first)
	assert.Equal(t, before, f.Particles())
}

func TestViewport_SurfaceSize(t *testing.T) {
	w, h := Viewport{Width: 100.5, Height: 50, Scale: 2}.SurfaceSize()
	assert.Equal(t, 201, w)
	assert.Equal(t, 100, h)

	w, h = Viewport{Width: 10, Height: 10}.SurfaceSize()
	assert.Equal(t, 10, w)
	assert.Equal(t, 10, h)
}

func TestInput_ConcurrentAccess(t *testing.T) {
	in := NewInput(Viewport{Width: 100, Height: 100, Scale: 1})
	in.SetPointer(0, 0)

	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			in.SetPointer(float64(i), float64(i))
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			in.Resize(float64(100+i%3), 100, 1)
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			p, _ := in.Snapshot()
			assert.Equal(t, p.X, p.Y)
		}
	}()
	wg.Wait()
}

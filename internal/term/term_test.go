package term

import (
	"context"
	"image/color"
	"math/rand"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/iburimskiy/particlehub/internal/config"
	"github.com/iburimskiy/particlehub/internal/driver"
	"github.com/iburimskiy/particlehub/internal/render"
	"github.com/iburimskiy/particlehub/internal/sim"
)

var (
	opaqueBlack = color.NRGBA{A: 255}
	opaqueWhite = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	opaqueRed   = color.NRGBA{R: 255, A: 255}
)

func fixedSize(cols, rows int) func() (int, int) {
	return func() (int, int) { return cols, rows }
}

func TestCellSurface_ClearFollowsSize(t *testing.T) {
	cols, rows := 4, 3
	s := newCellSurface(1, func() (int, int) { return cols, rows })

	s.Clear()
	assert.Len(t, s.pix, 4*6)

	cols, rows = 10, 2
	s.Clear()
	assert.Len(t, s.pix, 10*4)
	assert.Equal(t, 4, s.rows)
}

func TestCellSurface_Gradient(t *testing.T) {
	s := newCellSurface(1, fixedSize(2, 1))
	s.Clear()

	s.FillGradient(2, 2, opaqueBlack, opaqueWhite)

	assert.Less(t, s.at(0, 0).R, s.at(1, 1).R)
	assert.Equal(t, s.at(1, 0), s.at(0, 1))
	assert.Equal(t, uint8(255), s.at(0, 0).A)
}

func TestCellSurface_Disc(t *testing.T) {
	s := newCellSurface(1, fixedSize(10, 5))
	s.Clear()

	s.FillCircle(5, 5, 2, opaqueRed, render.Glow{})

	assert.Equal(t, opaqueRed, s.at(5, 5))
	assert.Equal(t, opaqueRed, s.at(4, 4))
	assert.Equal(t, color.NRGBA{}, s.at(0, 0))
	assert.Equal(t, color.NRGBA{}, s.at(9, 9))
}

func TestCellSurface_TinyDiscCoversOnePixel(t *testing.T) {
	s := newCellSurface(4, fixedSize(10, 5))
	s.Clear()

	s.FillCircle(18, 18, 0.5, opaqueRed, render.Glow{})

	assert.Equal(t, opaqueRed, s.at(4, 4))
}

func TestCellSurface_Blend(t *testing.T) {
	s := newCellSurface(1, fixedSize(1, 1))
	s.Clear()
	s.blend(0, 0, opaqueBlack)
	s.blend(0, 0, color.NRGBA{R: 255, G: 255, B: 255, A: 128})

	got := s.at(0, 0)
	assert.InDelta(t, 128, int(got.R), 1)
	assert.Equal(t, uint8(255), got.A)

	// out of range is ignored
	s.blend(-1, 0, opaqueRed)
	s.blend(0, 2, opaqueRed)
}

func TestCellSurface_StrokeLine(t *testing.T) {
	s := newCellSurface(1, fixedSize(8, 2))
	s.Clear()

	s.StrokeLine(0.5, 1.5, 7.5, 1.5, 2, opaqueRed)

	for x := 0; x < 8; x++ {
		assert.Equal(t, opaqueRed, s.at(x, 1), "pixel %d", x)
		assert.Equal(t, color.NRGBA{}, s.at(x, 0))
	}
}

func TestCellSurface_Flush(t *testing.T) {
	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	defer screen.Fini()
	screen.SetSize(2, 1)

	s := newCellSurface(1, screen.Size)
	s.Clear()
	s.blend(0, 0, opaqueRed)
	s.blend(0, 1, opaqueWhite)
	s.flush(screen)
	screen.Show()

	cells, w, h := screen.GetContents()
	require.Equal(t, 2, w)
	require.Equal(t, 1, h)
	require.NotEmpty(t, cells[0].Runes)
	assert.Equal(t, upperHalf, cells[0].Runes[0])
	fg, bg, _ := cells[0].Style.Decompose()
	assert.Equal(t, tcell.NewRGBColor(255, 0, 0), fg)
	assert.Equal(t, tcell.NewRGBColor(255, 255, 255), bg)
}

func TestViewport(t *testing.T) {
	vp := Viewport(80, 24, 4)
	assert.Equal(t, 320.0, vp.Width)
	assert.Equal(t, 192.0, vp.Height)

	w, h := vp.SurfaceSize()
	assert.Equal(t, 80, w)
	assert.Equal(t, 48, h)
}

func newTestHost(t *testing.T) (*Host, *sim.Input, tcell.SimulationScreen) {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	screen.SetSize(40, 12)

	cfg := config.DefaultConfig()
	cfg.Field.Count = 20
	cfg.Term.FrameRate = 200

	vp := Viewport(40, 12, cfg.Term.PixelSize)
	in := sim.NewInput(vp)
	field := sim.New(cfg.Field, rand.New(rand.NewSource(3)), vp)
	d := driver.New(field, render.New(cfg.Render), in, zap.NewNop())
	return New(screen, cfg, d, in, zap.NewNop()), in, screen
}

func runHost(t *testing.T, h *Host, ctx context.Context) <-chan error {
	t.Helper()
	done := make(chan error, 1)
	go func() { done <- h.Run(ctx) }()
	return done
}

func TestHost_MouseThenQuit(t *testing.T) {
	h, in, screen := newTestHost(t)

	screen.InjectMouse(10, 3, tcell.ButtonNone, tcell.ModNone)
	screen.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)

	select {
	case err := <-runHost(t, h, context.Background()):
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("host did not quit on q")
	}

	pointer, vp := in.Snapshot()
	assert.Equal(t, sim.Vec{X: 42, Y: 28}, pointer)
	assert.Equal(t, 160.0, vp.Width)
	assert.Equal(t, 96.0, vp.Height)
}

func TestHost_ContextCancel(t *testing.T) {
	h, _, _ := newTestHost(t)
	ctx, cancel := context.WithCancel(context.Background())

	done := runHost(t, h, ctx)
	time.Sleep(30 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("host ignored context cancellation")
	}
}

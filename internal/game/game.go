// Package game hosts the particle field in an ebiten window.
package game

import (
	"errors"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"go.uber.org/zap"

	"github.com/iburimskiy/particlehub/internal/audio"
	"github.com/iburimskiy/particlehub/internal/config"
	"github.com/iburimskiy/particlehub/internal/driver"
	"github.com/iburimskiy/particlehub/internal/render"
	"github.com/iburimskiy/particlehub/internal/sim"
)

type Game struct {
	cfg      *config.Config
	log      *zap.Logger
	driver   *driver.Driver
	renderer *render.Renderer
	input    *sim.Input

	surface *ebitenSurface
	scale   float64

	// pointer moves are detected against the previous cursor position
	lastCursorX, lastCursorY int
	cursorSeen               bool

	// input edge detection
	prevKey map[ebiten.Key]bool

	player *audio.Player
	level  float64

	lastErr error
}

func New(cfg *config.Config, d *driver.Driver, r *render.Renderer, in *sim.Input, logger *zap.Logger) *Game {
	return &Game{
		cfg:      cfg,
		log:      logger,
		driver:   d,
		renderer: r,
		input:    in,
		scale:    1,
		prevKey:  map[ebiten.Key]bool{},
		player:   audio.NewPlayer(cfg.Audio.RingSize),
	}
}

// Run opens the window and blocks until it is closed.
func (g *Game) Run() error {
	ebiten.SetWindowSize(g.cfg.Window.Width, g.cfg.Window.Height)
	ebiten.SetWindowTitle(g.cfg.Window.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	defer g.player.Close()

	if g.cfg.Audio.Track != "" {
		g.playTrack(g.cfg.Audio.Track)
	}

	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	return nil
}

func (g *Game) Update() error {
	justPressed := func(k ebiten.Key) bool {
		pressed := ebiten.IsKeyPressed(k)
		jp := pressed && !g.prevKey[k]
		g.prevKey[k] = pressed
		return jp
	}

	x, y := ebiten.CursorPosition()
	if !g.cursorSeen || x != g.lastCursorX || y != g.lastCursorY {
		// ebiten reports a cursor before the first real move; skip it so the
		// pointer stays at the viewport center until the mouse moves.
		if g.cursorSeen {
			g.input.SetPointer(float64(x)/g.scale, float64(y)/g.scale)
		}
		g.lastCursorX, g.lastCursorY = x, y
		g.cursorSeen = true
	}

	if justPressed(ebiten.KeyR) {
		g.driver.Restart()
	}
	if justPressed(ebiten.KeyO) {
		g.openTrackDialog()
	}
	if justPressed(ebiten.KeySpace) {
		paused := g.player.TogglePause()
		g.log.Debug("track pause toggled", zap.Bool("paused", paused))
	}
	if justPressed(ebiten.KeyEscape) || justPressed(ebiten.KeyQ) {
		return ebiten.Termination
	}

	g.level = audio.Smooth(g.level, g.player.Level(), g.cfg.Audio.Smoothing)
	g.renderer.SetPulse(g.level)
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	if g.surface == nil {
		g.surface = newEbitenSurface(screen, g.scale)
	} else {
		g.surface.Reset(screen, g.scale)
	}
	g.driver.Tick(g.surface)

	if g.lastErr != nil {
		ebitenutil.DebugPrintAt(screen, "Error: "+g.lastErr.Error(), 12, 12)
	}
}

// Layout resizes the viewport to the outside size and backs it with a
// device-scaled screen.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	scale := ebiten.Monitor().DeviceScaleFactor()
	if scale <= 0 {
		scale = 1
	}
	if g.input.Resize(float64(outsideWidth), float64(outsideHeight), scale) {
		g.log.Debug("viewport resized",
			zap.Int("width", outsideWidth),
			zap.Int("height", outsideHeight),
			zap.Float64("scale", scale))
	}
	g.scale = scale
	return g.input.Viewport().SurfaceSize()
}

func (g *Game) openTrackDialog() {
	path, err := audio.SelectTrack()
	if err != nil {
		g.fail("track dialog failed", err)
		return
	}
	if path == "" {
		return
	}
	g.playTrack(path)
}

func (g *Game) playTrack(path string) {
	t, err := g.player.Play(path)
	if err != nil {
		g.fail("track playback failed", err)
		return
	}
	g.lastErr = nil
	g.log.Info("playing track",
		zap.String("path", t.Path()),
		zap.Duration("duration", t.Duration()),
		zap.Int("sample_rate", int(t.SampleRate())))
}

func (g *Game) fail(msg string, err error) {
	g.lastErr = err
	g.log.Warn(msg, zap.Error(err))
}

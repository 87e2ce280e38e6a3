package audio

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/flac"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/wav"
	"github.com/ncruces/zenity"
)

// ErrUnsupportedTrack is returned for files that are not wav, mp3 or flac.
var ErrUnsupportedTrack = errors.New("unsupported track type")

// Track is one decoded audio file playing through the speaker.
type Track struct {
	path     string
	file     *os.File
	streamer beep.StreamSeekCloser
	format   beep.Format
	duration time.Duration
	ctrl     *beep.Ctrl
	tap      *visualTap
	ended    atomic.Bool
}

// decodeTrack opens path and picks a decoder by extension.
func decodeTrack(path string, ringSize int) (*Track, error) {
	type decoder func(io.ReadCloser) (beep.StreamSeekCloser, beep.Format, error)

	var decode decoder
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".wav":
		decode = func(r io.ReadCloser) (beep.StreamSeekCloser, beep.Format, error) { return wav.Decode(r) }
	case ".mp3":
		decode = mp3.Decode
	case ".flac":
		decode = func(r io.ReadCloser) (beep.StreamSeekCloser, beep.Format, error) { return flac.Decode(r) }
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedTrack, ext)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open track: %w", err)
	}
	streamer, format, err := decode(f)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("decode track %s: %w", filepath.Base(path), err)
	}

	t := &Track{
		path:     path,
		file:     f,
		streamer: streamer,
		format:   format,
		duration: format.SampleRate.D(streamer.Len()),
		tap:      newVisualTap(streamer, ringSize),
	}
	t.ctrl = &beep.Ctrl{Streamer: t.tap}
	return t, nil
}

func (t *Track) Path() string                { return t.path }
func (t *Track) Duration() time.Duration     { return t.duration }
func (t *Track) SampleRate() beep.SampleRate { return t.format.SampleRate }

func (t *Track) close() {
	if t.streamer != nil {
		_ = t.streamer.Close()
		t.streamer = nil
	}
	if t.file != nil {
		_ = t.file.Close()
		t.file = nil
	}
}

// Player owns the speaker and the current track.
type Player struct {
	ringSize int
	rate     beep.SampleRate
	current  *Track
}

// NewPlayer returns a player whose taps keep ringSize samples.
func NewPlayer(ringSize int) *Player {
	return &Player{ringSize: ringSize}
}

// Play stops whatever is playing and starts path.
func (p *Player) Play(path string) (*Track, error) {
	t, err := decodeTrack(path, p.ringSize)
	if err != nil {
		return nil, err
	}

	bufferSize := t.format.SampleRate.N(time.Second / 20)
	switch {
	case p.rate == 0:
		if err := speaker.Init(t.format.SampleRate, bufferSize); err != nil {
			t.close()
			return nil, fmt.Errorf("init speaker: %w", err)
		}
	case p.rate != t.format.SampleRate:
		// Re-init when sample rate changes
		speaker.Clear()
		if err := speaker.Init(t.format.SampleRate, bufferSize); err != nil {
			t.close()
			p.Close()
			p.rate = 0
			return nil, fmt.Errorf("init speaker: %w", err)
		}
	default:
		speaker.Clear()
	}
	p.rate = t.format.SampleRate

	if p.current != nil {
		p.current.close()
	}
	p.current = t

	speaker.Play(beep.Seq(t.ctrl, beep.Callback(func() {
		t.ended.Store(true)
	})))
	return t, nil
}

// TogglePause flips the pause state and returns it.
func (p *Player) TogglePause() bool {
	if p.current == nil {
		return false
	}
	speaker.Lock()
	p.current.ctrl.Paused = !p.current.ctrl.Paused
	paused := p.current.ctrl.Paused
	speaker.Unlock()
	return paused
}

// Level returns the current pulse reading, releasing a finished track.
func (p *Player) Level() float64 {
	if p.current == nil {
		return 0
	}
	if p.current.ended.Load() {
		p.current.close()
		p.current = nil
		return 0
	}
	if p.current.ctrl.Paused {
		return 0
	}
	return p.current.tap.level(levelWindow)
}

func (p *Player) Close() {
	if p.rate != 0 {
		speaker.Clear()
	}
	if p.current != nil {
		p.current.close()
		p.current = nil
	}
}

// SelectTrack asks the user for an audio file. Cancelling returns "".
func SelectTrack() (string, error) {
	filename, err := zenity.SelectFile(
		zenity.Title("Open Audio Track"),
		zenity.FileFilters{{
			Name:     "Audio",
			Patterns: []string{"*.wav", "*.mp3", "*.flac"},
		}},
	)
	if err != nil {
		if errors.Is(err, zenity.ErrCanceled) {
			return "", nil
		}
		return "", err
	}
	return filename, nil
}

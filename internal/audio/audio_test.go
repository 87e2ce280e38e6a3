package audio

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/faiface/beep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func constantStreamer(v float64) beep.Streamer {
	return beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		for i := range samples {
			samples[i] = [2]float64{v, v}
		}
		return len(samples), true
	})
}

func TestVisualTap_EmptyIsSilent(t *testing.T) {
	tap := newVisualTap(constantStreamer(1), 16)
	assert.Zero(t, tap.level(8))
}

func TestVisualTap_Level(t *testing.T) {
	tap := newVisualTap(constantStreamer(0.5), 64)
	buf := make([][2]float64, 10)

	n, ok := tap.Stream(buf)
	require.True(t, ok)
	require.Equal(t, 10, n)

	assert.InDelta(t, math.Pow(0.5, 0.3), tap.level(levelWindow), 1e-12)
}

func TestVisualTap_UsesMostRecentSamples(t *testing.T) {
	loud := newVisualTap(constantStreamer(1), 8)
	buf := make([][2]float64, 6)
	loud.Stream(buf)

	// wrap the ring with silence; only the newest samples should count
	loud.Source = constantStreamer(0)
	loud.Stream(buf)

	assert.Zero(t, loud.level(4))
	assert.Greater(t, loud.level(8), 0.0)
	assert.Equal(t, 8, loud.filled)
}

func TestSmooth(t *testing.T) {
	assert.Equal(t, 1.0, Smooth(1, 1, 0.6))
	assert.InDelta(t, 0.4, Smooth(0, 1, 0.6), 1e-12)
	assert.InDelta(t, 0.6, Smooth(1, 0, 0.6), 1e-12)
}

func TestDecodeTrack_Unsupported(t *testing.T) {
	path := filepath.Join(t.TempDir(), "song.ogg")
	require.NoError(t, os.WriteFile(path, []byte("OggS"), 0644))

	_, err := decodeTrack(path, 16)
	assert.ErrorIs(t, err, ErrUnsupportedTrack)
}

func TestDecodeTrack_Missing(t *testing.T) {
	_, err := decodeTrack(filepath.Join(t.TempDir(), "gone.wav"), 16)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestDecodeTrack_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.wav")
	require.NoError(t, os.WriteFile(path, []byte("not a wave file"), 0644))

	_, err := decodeTrack(path, 16)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrUnsupportedTrack)
}

func TestPlayer_Idle(t *testing.T) {
	p := NewPlayer(16)
	assert.Zero(t, p.Level())
	assert.False(t, p.TogglePause())
	p.Close()
}

func TestPlayer_PlayUnsupported(t *testing.T) {
	p := NewPlayer(16)
	_, err := p.Play(filepath.Join(t.TempDir(), "x.txt"))
	assert.ErrorIs(t, err, ErrUnsupportedTrack)
	assert.Zero(t, p.Level())
}

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 120, cfg.Field.Count)
	assert.Equal(t, 0.995, cfg.Field.Damping)
	assert.Equal(t, 0.8, cfg.Field.Restitution)
	assert.Equal(t, 150.0, cfg.Render.LinkDistance)
	assert.Equal(t, 50.0, cfg.Field.AttractionRadius)
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	t.Setenv("PARTICLEHUB_SEED", "")
	t.Setenv("PARTICLEHUB_COUNT", "")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestConfig_SaveLoad(t *testing.T) {
	t.Setenv("PARTICLEHUB_SEED", "")
	t.Setenv("PARTICLEHUB_COUNT", "")

	path := filepath.Join(t.TempDir(), "nested", "particlehub.yaml")

	cfg := DefaultConfig()
	cfg.Field.Count = 42
	cfg.Field.Restitution = 1
	cfg.Audio.Track = "song.flac"
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 42, loaded.Field.Count)
	assert.Equal(t, 1.0, loaded.Field.Restitution)
	assert.Equal(t, "song.flac", loaded.Audio.Track)
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	t.Setenv("PARTICLEHUB_SEED", "")
	t.Setenv("PARTICLEHUB_COUNT", "")

	path := filepath.Join(t.TempDir(), "particlehub.yaml")
	require.NoError(t, os.WriteFile(path, []byte("field:\n  damping: 1.0\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 1.0, cfg.Field.Damping)
	assert.Equal(t, 120, cfg.Field.Count)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PARTICLEHUB_SEED", "7")
	t.Setenv("PARTICLEHUB_COUNT", "12")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, int64(7), cfg.Field.Seed)
	assert.Equal(t, 12, cfg.Field.Count)
}

func TestLoad_BadEnvOverride(t *testing.T) {
	t.Setenv("PARTICLEHUB_SEED", "")
	t.Setenv("PARTICLEHUB_COUNT", "many")

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestLoad_MalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("field: [unclosed"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero count", func(c *Config) { c.Field.Count = 0 }},
		{"damping above one", func(c *Config) { c.Field.Damping = 1.01 }},
		{"zero damping", func(c *Config) { c.Field.Damping = 0 }},
		{"negative restitution", func(c *Config) { c.Field.Restitution = -0.1 }},
		{"restitution above one", func(c *Config) { c.Field.Restitution = 1.5 }},
		{"zero radius", func(c *Config) { c.Field.MinRadius = 0 }},
		{"negative link distance", func(c *Config) { c.Render.LinkDistance = -1 }},
		{"empty window", func(c *Config) { c.Window.Width = 0 }},
		{"zero frame rate", func(c *Config) { c.Term.FrameRate = 0 }},
		{"zero pixel size", func(c *Config) { c.Term.PixelSize = 0 }},
		{"smoothing of one", func(c *Config) { c.Audio.Smoothing = 1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}
}

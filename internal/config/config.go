package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

const (
	WindowWidth  = 1024
	WindowHeight = 640

	VisualRingSize  = 8192
	SmoothingFactor = 0.6

	// Particle field
	ParticleCount      = 120
	InitialSpeed       = 1.2
	AttractionRadius   = 50
	AttractionStrength = 0.02
	Damping            = 0.995
	Restitution        = 0.8

	// Links
	LinkDistance      = 150
	PointerLinkFactor = 1.5
	GlowBlur          = 8

	// Terminal host
	TermFrameRate = 30
	TermPixelSize = 4
)

// DefaultPath is where the CLI looks for a config file when --config is not given.
const DefaultPath = "particlehub.yaml"

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// Config holds all particlehub settings.
type Config struct {
	Window  WindowConfig  `yaml:"window"`
	Field   FieldConfig   `yaml:"field"`
	Render  RenderConfig  `yaml:"render"`
	Term    TermConfig    `yaml:"term"`
	Audio   AudioConfig   `yaml:"audio"`
	Logging LoggingConfig `yaml:"logging"`
}

type WindowConfig struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
}

// FieldConfig configures the particle simulation.
type FieldConfig struct {
	Count              int     `yaml:"count"`
	Seed               int64   `yaml:"seed"` // 0 picks a time-based seed
	InitialSpeed       float64 `yaml:"initial_speed"`
	MinRadius          float64 `yaml:"min_radius"`
	RadiusSpread       float64 `yaml:"radius_spread"`
	AttractionRadius   float64 `yaml:"attraction_radius"`
	AttractionStrength float64 `yaml:"attraction_strength"`
	Damping            float64 `yaml:"damping"`
	Restitution        float64 `yaml:"restitution"`
}

// RenderConfig configures link distances and glow.
type RenderConfig struct {
	LinkDistance      float64 `yaml:"link_distance"`
	PointerLinkFactor float64 `yaml:"pointer_link_factor"`
	GlowBlur          float64 `yaml:"glow_blur"`
}

type TermConfig struct {
	FrameRate int `yaml:"frame_rate"`
	// PixelSize is how many logical units one half-cell pixel covers.
	PixelSize float64 `yaml:"pixel_size"`
}

// AudioConfig configures the optional pulse track.
type AudioConfig struct {
	Track     string  `yaml:"track"`
	RingSize  int     `yaml:"ring_size"`
	Smoothing float64 `yaml:"smoothing"`
}

type LoggingConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// DefaultConfig returns the settings of the original background animation.
func DefaultConfig() *Config {
	return &Config{
		Window: WindowConfig{
			Width:  WindowWidth,
			Height: WindowHeight,
			Title:  "particlehub - R: restart, O: open track, Space: play/pause, Esc/Q: quit",
		},
		Field: FieldConfig{
			Count:              ParticleCount,
			InitialSpeed:       InitialSpeed,
			MinRadius:          2,
			RadiusSpread:       3,
			AttractionRadius:   AttractionRadius,
			AttractionStrength: AttractionStrength,
			Damping:            Damping,
			Restitution:        Restitution,
		},
		Render: RenderConfig{
			LinkDistance:      LinkDistance,
			PointerLinkFactor: PointerLinkFactor,
			GlowBlur:          GlowBlur,
		},
		Term: TermConfig{
			FrameRate: TermFrameRate,
			PixelSize: TermPixelSize,
		},
		Audio: AudioConfig{
			RingSize:  VisualRingSize,
			Smoothing: SmoothingFactor,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads a YAML config file on top of the defaults. A missing file is
// not an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration as YAML, creating parent directories.
func (c *Config) Save(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create config dir: %w", err)
		}
	}
	data, err := c.Marshal()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// Marshal encodes the configuration as YAML.
func (c *Config) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return data, nil
}

func (c *Config) applyEnvOverrides() error {
	if v := os.Getenv("PARTICLEHUB_SEED"); v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("%w: PARTICLEHUB_SEED: %v", ErrInvalidConfig, err)
		}
		c.Field.Seed = seed
	}
	if v := os.Getenv("PARTICLEHUB_COUNT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: PARTICLEHUB_COUNT: %v", ErrInvalidConfig, err)
		}
		c.Field.Count = n
	}
	return nil
}

// Validate checks ranges. Errors wrap ErrInvalidConfig.
func (c *Config) Validate() error {
	f := c.Field
	switch {
	case c.Window.Width <= 0 || c.Window.Height <= 0:
		return fmt.Errorf("%w: window size %dx%d", ErrInvalidConfig, c.Window.Width, c.Window.Height)
	case f.Count <= 0:
		return fmt.Errorf("%w: field.count must be positive, got %d", ErrInvalidConfig, f.Count)
	case f.InitialSpeed < 0:
		return fmt.Errorf("%w: field.initial_speed must not be negative", ErrInvalidConfig)
	case f.MinRadius <= 0 || f.RadiusSpread < 0:
		return fmt.Errorf("%w: field radius range [%g, +%g]", ErrInvalidConfig, f.MinRadius, f.RadiusSpread)
	case f.AttractionRadius < 0 || f.AttractionStrength < 0:
		return fmt.Errorf("%w: attraction must not be negative", ErrInvalidConfig)
	case f.Damping <= 0 || f.Damping > 1:
		return fmt.Errorf("%w: field.damping must be in (0, 1], got %g", ErrInvalidConfig, f.Damping)
	case f.Restitution < 0 || f.Restitution > 1:
		return fmt.Errorf("%w: field.restitution must be in [0, 1], got %g", ErrInvalidConfig, f.Restitution)
	case c.Render.LinkDistance < 0 || c.Render.PointerLinkFactor < 0 || c.Render.GlowBlur < 0:
		return fmt.Errorf("%w: render settings must not be negative", ErrInvalidConfig)
	case c.Term.FrameRate <= 0 || c.Term.PixelSize <= 0:
		return fmt.Errorf("%w: term.frame_rate and term.pixel_size must be positive", ErrInvalidConfig)
	case c.Audio.RingSize <= 0:
		return fmt.Errorf("%w: audio.ring_size must be positive", ErrInvalidConfig)
	case c.Audio.Smoothing < 0 || c.Audio.Smoothing >= 1:
		return fmt.Errorf("%w: audio.smoothing must be in [0, 1)", ErrInvalidConfig)
	}
	return nil
}

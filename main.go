package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/iburimskiy/particlehub/internal/config"
	"github.com/iburimskiy/particlehub/internal/driver"
	"github.com/iburimskiy/particlehub/internal/game"
	"github.com/iburimskiy/particlehub/internal/render"
	"github.com/iburimskiy/particlehub/internal/sim"
	"github.com/iburimskiy/particlehub/internal/term"
)

var (
	configPath string
	seed       int64
	count      int
	verbose    bool

	// window
	trackPath string

	// term
	logFile string

	// bench
	benchTicks  int
	benchWidth  float64
	benchHeight float64

	// config
	writePath string

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "particlehub",
	Short: "Interactive particle field animation",
	Long: `particlehub animates a field of drifting particles that bounce off the
window edges, lean towards the pointer and link up with their neighbours.

Run without a subcommand to open a window.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("seed") {
			cfg.Field.Seed = seed
		}
		if cmd.Flags().Changed("count") {
			cfg.Field.Count = count
		}
		if verbose {
			cfg.Logging.Level = "debug"
		}
		return cfg.Validate()
	},
	RunE: runWindow,
}

var termCmd = &cobra.Command{
	Use:   "term",
	Short: "Animate the particle field in the terminal",
	RunE:  runTerm,
}

var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Run the simulation headless for a fixed number of frames",
	RunE:  runBench,
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration as YAML",
	RunE:  runConfig,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultPath, "config file")
	rootCmd.PersistentFlags().Int64Var(&seed, "seed", 0, "random seed for the initial field (0: time based)")
	rootCmd.PersistentFlags().IntVarP(&count, "count", "n", config.ParticleCount, "number of particles")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	rootCmd.Flags().StringVarP(&trackPath, "track", "t", "", "audio track (wav, mp3, flac) driving the glow pulse")

	termCmd.Flags().StringVar(&logFile, "log-file", "", "write logs to this file (the terminal is busy)")

	benchCmd.Flags().IntVar(&benchTicks, "ticks", 600, "frames to simulate")
	benchCmd.Flags().Float64Var(&benchWidth, "width", config.WindowWidth, "viewport width")
	benchCmd.Flags().Float64Var(&benchHeight, "height", config.WindowHeight, "viewport height")

	configCmd.Flags().StringVarP(&writePath, "write", "w", "", "save to this path instead of printing")

	rootCmd.AddCommand(termCmd, benchCmd, configCmd)
}

// newLogger builds a zap logger for cfg. No output paths yields a no-op logger.
func newLogger(cfg config.LoggingConfig, outputs ...string) (*zap.Logger, error) {
	if len(outputs) == 0 {
		return zap.NewNop(), nil
	}
	zc := zap.NewProductionConfig()
	if cfg.Development {
		zc = zap.NewDevelopmentConfig()
	}
	level, err := zap.ParseAtomicLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("failed to parse log level: %w", err)
	}
	zc.Level = level
	zc.OutputPaths = outputs
	logger, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}

// simulation is one field wired to its input, renderer and driver.
type simulation struct {
	input    *sim.Input
	renderer *render.Renderer
	driver   *driver.Driver
}

func newSimulation(cfg *config.Config, vp sim.Viewport, logger *zap.Logger) *simulation {
	in := sim.NewInput(vp)
	field := sim.New(cfg.Field, sim.NewRand(cfg.Field.Seed), vp)
	r := render.New(cfg.Render)
	logger.Debug("particle field created",
		zap.Int("particles", field.Len()),
		zap.Int64("seed", cfg.Field.Seed),
		zap.Float64("restitution", cfg.Field.Restitution),
		zap.Float64("damping", cfg.Field.Damping))
	return &simulation{
		input:    in,
		renderer: r,
		driver:   driver.New(field, r, in, logger),
	}
}

func runWindow(cmd *cobra.Command, args []string) error {
	logger, err := newLogger(cfg.Logging, "stderr")
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	if trackPath != "" {
		cfg.Audio.Track = trackPath
	}
	vp := sim.Viewport{Width: float64(cfg.Window.Width), Height: float64(cfg.Window.Height), Scale: 1}
	s := newSimulation(cfg, vp, logger)

	g := game.New(cfg, s.driver, s.renderer, s.input, logger)
	if err := g.Run(); err != nil {
		return fmt.Errorf("window: %w", err)
	}
	return nil
}

func runTerm(cmd *cobra.Command, args []string) error {
	var outputs []string
	if logFile != "" {
		outputs = append(outputs, logFile)
	}
	logger, err := newLogger(cfg.Logging, outputs...)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("terminal init: %w", err)
	}

	cols, rows := screen.Size()
	vp := term.Viewport(cols, rows, cfg.Term.PixelSize)
	s := newSimulation(cfg, vp, logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return term.New(screen, cfg, s.driver, s.input, logger).Run(ctx)
}

func runBench(cmd *cobra.Command, args []string) error {
	logger, err := newLogger(cfg.Logging, "stderr")
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	if benchTicks <= 0 || benchWidth <= 0 || benchHeight <= 0 {
		return fmt.Errorf("%w: bench needs positive --ticks, --width and --height", config.ErrInvalidConfig)
	}
	vp := sim.Viewport{Width: benchWidth, Height: benchHeight, Scale: 1}
	s := newSimulation(cfg, vp, logger)

	var links, pointerLinks int
	rec := &render.Recorder{}
	start := time.Now()
	h := s.driver.Run(cmd.Context(), driver.NewCountScheduler(benchTicks), rec, func(st driver.FrameStats) {
		links += st.Links
		pointerLinks += st.PointerLinks
	})
	h.Wait()
	elapsed := time.Since(start)

	frames := s.driver.Frames()
	stats := s.driver.Stats()
	perFrame := time.Duration(0)
	if frames > 0 {
		perFrame = elapsed / time.Duration(frames)
	}
	logger.Info("bench finished",
		zap.Uint64("frames", frames),
		zap.Duration("elapsed", elapsed),
		zap.Duration("per_frame", perFrame),
		zap.Int("circles", rec.Circles),
		zap.Int("lines", rec.Lines),
		zap.Float64("mean_speed", stats.MeanSpeed),
		zap.Float64("max_speed", stats.MaxSpeed),
		zap.Int("escaped", stats.Escaped))

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "frames:        %d\n", frames)
	fmt.Fprintf(out, "per frame:     %s\n", perFrame)
	if frames > 0 {
		fmt.Fprintf(out, "links/frame:   %.1f\n", float64(links)/float64(frames))
		fmt.Fprintf(out, "pointer/frame: %.1f\n", float64(pointerLinks)/float64(frames))
	}
	fmt.Fprintf(out, "mean speed:    %.4f\n", stats.MeanSpeed)
	fmt.Fprintf(out, "escaped:       %d\n", stats.Escaped)
	return nil
}

func runConfig(cmd *cobra.Command, args []string) error {
	if writePath != "" {
		return cfg.Save(writePath)
	}
	data, err := cfg.Marshal()
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

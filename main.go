package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/pthm-cable/outbreak/config"
	"github.com/pthm-cable/outbreak/game"
	"github.com/pthm-cable/outbreak/renderer"
)

// Viewer modes
const (
	modeHeadless = "headless"
	modeWindow   = "window"
	modeTerminal = "terminal"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to a YAML or TOML config (empty = use defaults)")
	mode := flag.String("mode", modeHeadless, "Viewer: headless, window or terminal")
	logStats := flag.Bool("log-stats", false, "Output per-generation stats via slog")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	generations := flag.Int("generations", 0, "Number of generations (0 = use config)")
	ticks := flag.Int("ticks", 0, "Tick budget per generation (0 = use config)")
	frameDelay := flag.Duration("frame-delay", 0, "Pause after each drawn tick")
	perfEvery := flag.Int("perf-every", 0, "Log timing every N generations (0 = off)")

	flag.Parse()

	if err := run(*configPath, *mode, *outputDir, *seed, *generations, *ticks, *frameDelay, *perfEvery, *logStats); err != nil {
		slog.Error("simulation failed", "error", err)
		os.Exit(1)
	}
}

func run(configPath, mode, outputDir string, seed int64, generations, ticks int, frameDelay time.Duration, perfEvery int, logStats bool) error {
	logOut, closeLog, err := logWriter(mode, outputDir)
	if err != nil {
		return err
	}
	defer closeLog()
	slog.SetDefault(slog.New(slog.NewJSONHandler(logOut, nil)))

	// Initialize config before anything else
	if err := config.Init(configPath); err != nil {
		return err
	}
	cfg := config.Cfg()
	if generations > 0 {
		cfg.Run.Generations = generations
	}
	if ticks > 0 {
		cfg.Run.TickBudget = ticks
	}

	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	observers := []game.Observer{&game.ProgressLogger{Total: cfg.Run.Generations, Bar: mode == modeHeadless}}
	switch mode {
	case modeHeadless:
	case modeWindow:
		w := renderer.NewWindow(ctx, cfg, frameDelay, cancel)
		defer w.Close()
		observers = append(observers, w)
	case modeTerminal:
		t, err := renderer.NewTerminal(cfg, frameDelay, cancel)
		if err != nil {
			return err
		}
		defer t.Close()
		observers = append(observers, t)
	default:
		return fmt.Errorf("unknown mode %q", mode)
	}

	g, err := game.NewGameWithOptions(game.Options{
		Seed:      seed,
		Config:    cfg,
		Observer:  game.Observers(observers...),
		OutputDir: outputDir,
		LogStats:  logStats,
		PerfEvery: perfEvery,
	})
	if err != nil {
		return err
	}
	defer g.Close()

	slog.Info("starting_simulation",
		"seed", seed,
		"mode", mode,
		"generations", cfg.Run.Generations,
		"tick_budget", cfg.Run.TickBudget,
		"humans", cfg.Population.Humans,
		"zombies", cfg.Population.Zombies,
	)

	series, err := g.Run(ctx)
	if err != nil {
		return err
	}

	attrs := []any{
		"generations", series.Len(),
		"human_win_rate", series.HumanWinRate(game.WinnerHumans.String()),
	}
	for _, t := range series.Trends() {
		attrs = append(attrs, slog.Any(t.Trait, t))
	}
	slog.Info("simulation_complete", attrs...)
	return nil
}

// logWriter picks where logs go. The terminal viewer owns stdout, so its logs
// go to run.log in the output directory or nowhere.
func logWriter(mode, outputDir string) (io.Writer, func(), error) {
	if mode != modeTerminal {
		return os.Stdout, func() {}, nil
	}
	if outputDir == "" {
		return io.Discard, func() {}, nil
	}
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, nil, fmt.Errorf("creating output directory: %w", err)
	}
	f, err := os.Create(filepath.Join(outputDir, "run.log"))
	if err != nil {
		return nil, nil, fmt.Errorf("creating log file: %w", err)
	}
	return f, func() { f.Close() }, nil
}

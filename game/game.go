// Package game drives generations of the humans versus zombies simulation.
package game

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/pthm-cable/outbreak/config"
	"github.com/pthm-cable/outbreak/evolution"
	"github.com/pthm-cable/outbreak/systems"
	"github.com/pthm-cable/outbreak/telemetry"
)

// Options configures a new Game.
type Options struct {
	Seed int64
	// Config overrides the global configuration when set.
	Config *config.Config
	// Observer receives tick frames and generation summaries.
	Observer Observer
	// OutputDir enables CSV and config output when non-empty.
	OutputDir string
	// LogStats logs each generation's statistics.
	LogStats bool
	// PerfEvery logs rolling timing every N generations; 0 disables it.
	PerfEvery int
	// StatsCallback receives each recorded generation's statistics.
	StatsCallback func(stats telemetry.GenerationStats)
}

// Game owns the run: the RNG, the pending genomes and the current generation.
type Game struct {
	cfg    *config.Config
	rng    *rand.Rand
	bounds systems.Bounds

	observer      Observer
	output        *telemetry.OutputManager
	perf          *telemetry.PerfCollector
	perfEvery     int
	series        telemetry.Series
	logStats      bool
	statsCallback func(stats telemetry.GenerationStats)

	generation int
	genomes    []evolution.Genome
	state      *GenerationState
}

// NewGame creates a game with no output or observers.
func NewGame(cfg *config.Config, seed int64) *Game {
	g, _ := NewGameWithOptions(Options{Seed: seed, Config: cfg})
	return g
}

// NewGameWithOptions creates a game. It only fails when the output directory
// cannot be prepared.
func NewGameWithOptions(opts Options) (*Game, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Cfg()
	}

	g := &Game{
		cfg:           cfg,
		rng:           rand.New(rand.NewSource(opts.Seed)),
		bounds:        systems.Bounds{Width: cfg.World.Width, Height: cfg.World.Height},
		observer:      opts.Observer,
		perf:          telemetry.NewPerfCollector(opts.PerfEvery),
		perfEvery:     opts.PerfEvery,
		logStats:      opts.LogStats,
		statsCallback: opts.StatsCallback,
	}

	output, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, err
	}
	g.output = output
	if err := g.output.WriteConfig(cfg); err != nil {
		g.output.Close()
		return nil, fmt.Errorf("writing config snapshot: %w", err)
	}

	return g, nil
}

func (g *Game) config() *config.Config {
	return g.cfg
}

// Generation returns the index of the next generation to run.
func (g *Game) Generation() int { return g.generation }

// State returns the most recent generation's state, or nil before the first run.
func (g *Game) State() *GenerationState { return g.state }

// Series returns the statistics recorded so far.
func (g *Game) Series() *telemetry.Series { return &g.series }

// Genomes returns the humans waiting to spawn in the next generation.
func (g *Game) Genomes() []evolution.Genome { return g.genomes }

// Run executes generations until the configured count is reached or ctx is
// cancelled, then writes the trend summary.
func (g *Game) Run(ctx context.Context) (*telemetry.Series, error) {
	for g.generation < g.cfg.Run.Generations {
		res, err := g.RunGeneration(ctx)
		if err != nil {
			return &g.series, err
		}
		if res.Outcome == OutcomeCancelled {
			slog.Info("simulation_cancelled", "generation", res.Index, "tick", res.Ticks)
			break
		}
	}

	if err := g.output.WriteTrends(&g.series); err != nil {
		slog.Error("failed to write trends", "error", err)
	}
	return &g.series, nil
}

// RunGeneration spawns, simulates and retires one generation, then selects
// the next generation's humans and records statistics.
func (g *Game) RunGeneration(ctx context.Context) (GenerationResult, error) {
	cfg := g.config()

	g.perf.StartGeneration()
	g.perf.StartPhase(telemetry.PhaseSpawn)
	state := g.spawnGeneration()
	g.state = state

	g.perf.StartPhase(telemetry.PhaseInteraction)
	var onTick func(*GenerationState)
	if g.observer != nil {
		onTick = func(s *GenerationState) {
			g.observer.OnTick(s.frame(g.generation))
		}
	}
	res := runGeneration(ctx, g.generation, state, cfg, newResolver(state, cfg, g.rng), onTick)

	g.perf.StartPhase(telemetry.PhaseSelection)
	retained := 0
	if !res.Aborted {
		sel, err := evolution.Select(res.Deaths, cfg.Population.Humans, cfg, g.rng)
		if err != nil {
			return res, fmt.Errorf("selecting generation %d: %w", res.Index, err)
		}
		g.genomes = sel.Genomes
		retained = sel.Retained
	}

	g.perf.StartPhase(telemetry.PhaseTelemetry)
	stats := g.recordStats(res, retained)
	g.perf.EndGeneration(res.Ticks)

	if g.observer != nil {
		g.observer.OnGeneration(res, stats)
	}

	g.generation++
	if g.perfEvery > 0 && g.generation%g.perfEvery == 0 {
		g.logPerfStats()
	}
	return res, nil
}

// recordStats computes the generation's statistics and, unless it was
// aborted, appends them to the series and the output files.
func (g *Game) recordStats(res GenerationResult, retained int) telemetry.GenerationStats {
	stats := telemetry.ComputeGenerationStats(res.Index, res.Deaths, g.cfg.Stats.Weighting)
	stats.Winner = res.Winner.String()
	stats.Outcome = res.Outcome.String()
	stats.Ticks = res.Ticks
	stats.HumansLeft = res.HumansLeft
	stats.ZombiesLeft = res.ZombiesLeft
	stats.SetCombat(res.Eaten, res.ShotsFired, res.ShotsHit)
	stats.Retained = retained

	if res.Aborted {
		return stats
	}

	g.series.Append(stats)
	if err := g.output.WriteGeneration(stats); err != nil {
		slog.Error("failed to write generation", "error", err)
	}
	if g.statsCallback != nil {
		g.statsCallback(stats)
	}
	if g.logStats {
		stats.LogStats()
	}
	return stats
}

// Close flushes output files.
func (g *Game) Close() error {
	return g.output.Close()
}

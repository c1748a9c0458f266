package main

import (
	"context"
	"math"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/pthm-cable/outbreak/config"
	"github.com/pthm-cable/outbreak/game"
)

// FitnessEvaluator runs headless simulations and scores how far the human
// win rate lands from the target.
type FitnessEvaluator struct {
	params        *ParamVector
	generations   int
	seeds         []int64
	baseConfig    *config.Config
	targetWinRate float64

	mu          sync.Mutex
	lastWinRate float64 // win rate from most recent Evaluate call
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, generations int, seeds []int64, baseCfg *config.Config, target float64) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:        params,
		generations:   generations,
		seeds:         seeds,
		baseConfig:    baseCfg,
		targetWinRate: target,
	}
}

// LastWinRate returns the mean human win rate from the most recent evaluation.
func (fe *FitnessEvaluator) LastWinRate() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastWinRate
}

// Evaluate computes fitness for a raw parameter vector (lower = better).
// Seeds run in parallel; a cancelled ctx scores +Inf.
func (fe *FitnessEvaluator) Evaluate(ctx context.Context, x []float64) float64 {
	rates := make([]float64, len(fe.seeds))

	eg, ctx := errgroup.WithContext(ctx)
	for i, seed := range fe.seeds {
		eg.Go(func() error {
			rate, err := fe.runSimulation(ctx, x, seed)
			if err != nil {
				return err
			}
			rates[i] = rate
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return math.Inf(1)
	}

	var total float64
	for _, r := range rates {
		total += r
	}
	winRate := total / float64(len(rates))

	fe.mu.Lock()
	fe.lastWinRate = winRate
	fe.mu.Unlock()

	return computeFitness(winRate, fe.targetWinRate)
}

// runSimulation executes one headless run and returns the human win rate.
func (fe *FitnessEvaluator) runSimulation(ctx context.Context, x []float64, seed int64) (float64, error) {
	cfg := fe.baseConfig.Clone()
	fe.params.ApplyToConfig(cfg, x)
	cfg.Run.Generations = fe.generations

	g, err := game.NewGameWithOptions(game.Options{Seed: seed, Config: cfg})
	if err != nil {
		return 0, err
	}
	defer g.Close()

	series, err := g.Run(ctx)
	if err != nil {
		return 0, err
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return series.HumanWinRate(game.WinnerHumans.String()), nil
}

// computeFitness is the distance between the observed and target win rates.
func computeFitness(winRate, target float64) float64 {
	return math.Abs(winRate - target)
}

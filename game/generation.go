package game

import (
	"context"
	"log/slog"

	"github.com/pthm-cable/outbreak/config"
	"github.com/pthm-cable/outbreak/evolution"
)

// Outcome is the reason a generation stopped.
type Outcome uint8

const (
	OutcomeRunning Outcome = iota
	OutcomeHumansExtinct
	OutcomeZombiesExtinct
	OutcomeTickBudget
	OutcomeCancelled
)

func (o Outcome) String() string {
	switch o {
	case OutcomeRunning:
		return "running"
	case OutcomeHumansExtinct:
		return "humans_extinct"
	case OutcomeZombiesExtinct:
		return "zombies_extinct"
	case OutcomeTickBudget:
		return "tick_budget"
	case OutcomeCancelled:
		return "cancelled"
	}
	return "unknown"
}

// Winner names the side that won a generation.
type Winner uint8

const (
	WinnerNone Winner = iota
	WinnerHumans
	WinnerZombies
)

func (w Winner) String() string {
	switch w {
	case WinnerHumans:
		return "humans"
	case WinnerZombies:
		return "zombies"
	}
	return "none"
}

// GenerationResult summarizes one finished generation.
type GenerationResult struct {
	Index       int
	Deaths      []evolution.DeathRecord
	Winner      Winner
	Outcome     Outcome
	Ticks       int
	HumansLeft  int
	ZombiesLeft int
	// ConvertedLeft is how many of the remaining zombies were eaten humans.
	ConvertedLeft int
	TickReport

	// Aborted generations are excluded from selection and statistics.
	Aborted bool
}

// LogValue implements slog.LogValuer for structured logging.
func (r GenerationResult) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("generation", r.Index),
		slog.String("winner", r.Winner.String()),
		slog.String("outcome", r.Outcome.String()),
		slog.Int("ticks", r.Ticks),
		slog.Int("humans_left", r.HumansLeft),
		slog.Int("zombies_left", r.ZombiesLeft),
		slog.Int("converted_left", r.ConvertedLeft),
		slog.Int("deaths", len(r.Deaths)),
		slog.Bool("aborted", r.Aborted),
	)
}

// runGeneration advances the state tick by tick until one population is
// extinct, the tick budget is spent or ctx is cancelled. An in-flight tick
// always completes; cancellation is only observed between ticks.
func runGeneration(ctx context.Context, index int, state *GenerationState, cfg *config.Config, res *resolver, onTick func(*GenerationState)) GenerationResult {
	outcome := OutcomeRunning
	for outcome == OutcomeRunning {
		switch {
		case state.Humans() == 0:
			outcome = OutcomeHumansExtinct
		case state.Zombies() == 0:
			outcome = OutcomeZombiesExtinct
		case state.tick >= cfg.Run.TickBudget:
			outcome = OutcomeTickBudget
		case ctx.Err() != nil:
			outcome = OutcomeCancelled
		default:
			res.resolveTick()
			state.tick++
			if onTick != nil {
				onTick(state)
			}
		}
	}
	return finishGeneration(index, state, cfg, outcome)
}

// finishGeneration decides the winner and retires the remaining humans.
//
// Survivors of a normal end, and of a cancel under humans_win, get the
// survivor bonus. Other cancel policies record survivors unchanged; neutral
// additionally marks the generation aborted.
func finishGeneration(index int, state *GenerationState, cfg *config.Config, outcome Outcome) GenerationResult {
	res := GenerationResult{
		Index:         index,
		Outcome:       outcome,
		Ticks:         state.tick,
		HumansLeft:    state.Humans(),
		ZombiesLeft:   state.Zombies(),
		ConvertedLeft: state.convertedZombies(),
		TickReport:    state.totals,
	}

	bonus, multiplier := cfg.Selection.SurvivorBonus, cfg.Selection.SurvivorMultiplier
	switch {
	case outcome == OutcomeCancelled && cfg.Run.CancelPolicy == config.CancelZombiesWin:
		res.Winner = WinnerZombies
		bonus, multiplier = 0, 1
	case outcome == OutcomeCancelled && cfg.Run.CancelPolicy == config.CancelNeutral:
		res.Winner = WinnerNone
		res.Aborted = true
		bonus, multiplier = 0, 1
	case state.Humans() > 0:
		res.Winner = WinnerHumans
	default:
		res.Winner = WinnerZombies
	}

	state.retireSurvivors(bonus, multiplier)
	res.Deaths = state.Deaths()
	return res
}

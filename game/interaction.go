package game

import (
	"log/slog"
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/outbreak/components"
	"github.com/pthm-cable/outbreak/config"
	"github.com/pthm-cable/outbreak/systems"
)

// TickReport counts the events of one tick.
type TickReport struct {
	Eaten      int
	Killed     int
	ShotsFired int
	ShotsHit   int

	// Actions counts the turns taken, by action.
	Actions [actionCount]int
}

// Add accumulates another report.
func (t *TickReport) Add(o TickReport) {
	t.Eaten += o.Eaten
	t.Killed += o.Killed
	t.ShotsFired += o.ShotsFired
	t.ShotsHit += o.ShotsHit
	for i, n := range o.Actions {
		t.Actions[i] += n
	}
}

// LogValue implements slog.LogValuer for structured logging.
func (t TickReport) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("eaten", t.Eaten),
		slog.Int("killed", t.Killed),
		slog.Int("shots_fired", t.ShotsFired),
		slog.Int("shots_hit", t.ShotsHit),
	)
}

// resolver applies one tick of pairwise interactions to a generation.
type resolver struct {
	state  *GenerationState
	cfg    *config.Config
	bounds systems.Bounds
	rng    *rand.Rand

	acted  map[ecs.Entity]struct{}
	report TickReport
}

func newResolver(state *GenerationState, cfg *config.Config, rng *rand.Rand) *resolver {
	return &resolver{
		state:  state,
		cfg:    cfg,
		bounds: systems.Bounds{Width: cfg.World.Width, Height: cfg.World.Height},
		rng:    rng,
		acted:  make(map[ecs.Entity]struct{}, state.Humans()+state.Zombies()),
	}
}

// populationOrder decides which population iterates first this tick.
func (r *resolver) populationOrder() [2]components.Kind {
	humansFirst := [2]components.Kind{components.KindHuman, components.KindZombie}
	zombiesFirst := [2]components.Kind{components.KindZombie, components.KindHuman}

	if r.cfg.Interaction.Order == config.OrderLargerFirst {
		if r.state.Zombies() > r.state.Humans() {
			return zombiesFirst
		}
		return humansFirst
	}
	if r.rng.Intn(2) == 0 {
		return humansFirst
	}
	return zombiesFirst
}

// resolveTick runs every live entity through at most one action.
//
// Both populations are walked over snapshots taken at the start of the tick.
// Each actor that is still alive and has not acted pairs with its nearest
// opponent; a coin flip picks which of the two moves first, and both act
// once using the distance measured at pairing time. Entities removed or
// already acted earlier in the tick are skipped.
func (r *resolver) resolveTick() TickReport {
	r.report = TickReport{}
	clear(r.acted)

	order := r.populationOrder()
	snapshots := [2][]ecs.Entity{r.state.snapshot(order[0]), r.state.snapshot(order[1])}

	for i, kind := range order {
		for _, e := range snapshots[i] {
			if !r.canAct(e) {
				continue
			}

			if r.state.count(kind.Opponent()) == 0 {
				r.acted[e] = struct{}{}
				r.report.Actions[behaviorFor(kind).Alone(r, e)]++
				continue
			}

			opp, d, ok := r.state.nearestOpponent(e, kind)
			if !ok {
				continue
			}

			first, second := e, opp.E
			firstKind, secondKind := kind, kind.Opponent()
			if r.rng.Intn(2) == 1 {
				first, second = second, first
				firstKind, secondKind = secondKind, firstKind
			}

			r.act(first, firstKind, second, d)
			r.act(second, secondKind, first, d)
		}
	}

	r.state.totals.Add(r.report)
	return r.report
}

// act runs one entity's turn if it is still eligible.
func (r *resolver) act(self ecs.Entity, kind components.Kind, target ecs.Entity, d float64) {
	if !r.canAct(self) {
		return
	}
	r.acted[self] = struct{}{}
	if !r.state.alive(target) {
		r.report.Actions[behaviorFor(kind).Alone(r, self)]++
		return
	}
	r.report.Actions[behaviorFor(kind).Act(r, self, target, d)]++
}

func (r *resolver) canAct(e ecs.Entity) bool {
	if !r.state.alive(e) {
		return false
	}
	_, done := r.acted[e]
	return !done
}

package game

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/outbreak/components"
	"github.com/pthm-cable/outbreak/evolution"
	"github.com/pthm-cable/outbreak/systems"
)

// GenerationState holds everything that lives for exactly one generation:
// the ECS world with both populations, their spawn-ordered live lists and
// spatial indices, the death records and the tick counter.
type GenerationState struct {
	world *ecs.World

	humanMapper  *ecs.Map4[components.Position, components.Motion, components.Identity, components.Human]
	zombieMapper *ecs.Map4[components.Position, components.Motion, components.Identity, components.Zombie]

	posMap    *ecs.Map1[components.Position]
	motionMap *ecs.Map1[components.Motion]
	idMap     *ecs.Map1[components.Identity]
	humanMap  *ecs.Map1[components.Human]

	humanFilter  *ecs.Filter2[components.Position, components.Human]
	zombieFilter *ecs.Filter2[components.Position, components.Zombie]

	// Live populations in spawn order; removals keep the order of the rest.
	humans  []ecs.Entity
	zombies []ecs.Entity

	humanIndex  systems.Index
	zombieIndex systems.Index

	deaths  []evolution.DeathRecord
	tick    int
	nextSeq uint64

	// Floor applied to every recorded survival time
	minSurvival float64

	// Cumulative event counters
	totals TickReport
}

// newGenerationState creates an empty generation. The indices are chosen for
// the expected population sizes.
func newGenerationState(humanIndex, zombieIndex systems.Index) *GenerationState {
	world := ecs.NewWorld()

	return &GenerationState{
		world: world,
		humanMapper: ecs.NewMap4[
			components.Position,
			components.Motion,
			components.Identity,
			components.Human,
		](world),
		zombieMapper: ecs.NewMap4[
			components.Position,
			components.Motion,
			components.Identity,
			components.Zombie,
		](world),
		posMap:       ecs.NewMap1[components.Position](world),
		motionMap:    ecs.NewMap1[components.Motion](world),
		idMap:        ecs.NewMap1[components.Identity](world),
		humanMap:     ecs.NewMap1[components.Human](world),
		humanFilter:  ecs.NewFilter2[components.Position, components.Human](world),
		zombieFilter: ecs.NewFilter2[components.Position, components.Zombie](world),
		humanIndex:   humanIndex,
		zombieIndex:  zombieIndex,
	}
}

// spawnHuman adds a live human with the given genome.
func (s *GenerationState) spawnHuman(g evolution.Genome, pos components.Position, initialSurvival float64) ecs.Entity {
	motion := components.Motion{Sense: g.Sense, Speed: g.Speed}
	id := components.Identity{Seq: s.nextSeq}
	human := components.Human{Precision: g.Precision, Survival: initialSurvival}
	s.nextSeq++

	e := s.humanMapper.NewEntity(&pos, &motion, &id, &human)
	s.humans = append(s.humans, e)
	s.humanIndex.Insert(systems.Candidate{E: e, Seq: id.Seq, Pos: pos})
	return e
}

// spawnZombie adds a live zombie.
func (s *GenerationState) spawnZombie(motion components.Motion, pos components.Position, converted bool) ecs.Entity {
	id := components.Identity{Seq: s.nextSeq}
	zombie := components.Zombie{Converted: converted}
	s.nextSeq++

	e := s.zombieMapper.NewEntity(&pos, &motion, &id, &zombie)
	s.zombies = append(s.zombies, e)
	s.zombieIndex.Insert(systems.Candidate{E: e, Seq: id.Seq, Pos: pos})
	return e
}

// killZombie removes a shot zombie.
func (s *GenerationState) killZombie(e ecs.Entity) {
	pos := *s.posMap.Get(e)
	s.zombieIndex.Remove(e, pos)
	s.zombies = removeEntity(s.zombies, e)
	s.world.RemoveEntity(e)
}

// eat converts a human: a new zombie appears at the human's position with the
// given traits, then the human is recorded dead and leaves the live set.
func (s *GenerationState) eat(human ecs.Entity, zombieMotion components.Motion) ecs.Entity {
	pos := *s.posMap.Get(human)
	z := s.spawnZombie(zombieMotion, pos, true)
	s.recordDeath(human, 0, 1)
	return z
}

// recordDeath snapshots a human into the death list and removes it from the
// live set in one step. The survival time is transformed as
// survival*multiplier + bonus and floored at minSurvival before being recorded.
func (s *GenerationState) recordDeath(e ecs.Entity, bonus, multiplier float64) {
	pos := *s.posMap.Get(e)
	motion := s.motionMap.Get(e)
	human := s.humanMap.Get(e)

	s.deaths = append(s.deaths, evolution.DeathRecord{
		Genome: evolution.Genome{
			Sense:     motion.Sense,
			Precision: human.Precision,
			Speed:     motion.Speed,
		},
		Survival: max(human.Survival*multiplier+bonus, s.minSurvival),
	})

	s.humanIndex.Remove(e, pos)
	s.humans = removeEntity(s.humans, e)
	s.world.RemoveEntity(e)
}

// retireSurvivors records every live human as a death, in spawn order.
func (s *GenerationState) retireSurvivors(bonus, multiplier float64) int {
	survivors := append([]ecs.Entity(nil), s.humans...)
	for _, e := range survivors {
		s.recordDeath(e, bonus, multiplier)
	}
	return len(survivors)
}

// moveTo stores a new position for e and keeps its kind's index in sync.
func (s *GenerationState) moveTo(e ecs.Entity, kind components.Kind, to components.Position) {
	pos := s.posMap.Get(e)
	from := *pos
	*pos = to
	s.index(kind).Move(e, from, to)
}

// nearestOpponent returns the closest live entity of the opposing kind.
func (s *GenerationState) nearestOpponent(e ecs.Entity, kind components.Kind) (systems.Candidate, float64, bool) {
	return s.index(kind.Opponent()).Nearest(*s.posMap.Get(e))
}

// alive reports whether e is still part of the simulation.
func (s *GenerationState) alive(e ecs.Entity) bool {
	return s.world.Alive(e)
}

// snapshot returns a copy of the live list of the given kind, in spawn order.
func (s *GenerationState) snapshot(kind components.Kind) []ecs.Entity {
	if kind == components.KindHuman {
		return append([]ecs.Entity(nil), s.humans...)
	}
	return append([]ecs.Entity(nil), s.zombies...)
}

// count returns the live population of the given kind.
func (s *GenerationState) count(kind components.Kind) int {
	if kind == components.KindHuman {
		return len(s.humans)
	}
	return len(s.zombies)
}

func (s *GenerationState) index(kind components.Kind) systems.Index {
	if kind == components.KindHuman {
		return s.humanIndex
	}
	return s.zombieIndex
}

// Humans returns the number of live humans.
func (s *GenerationState) Humans() int { return len(s.humans) }

// Zombies returns the number of live zombies.
func (s *GenerationState) Zombies() int { return len(s.zombies) }

// Tick returns the number of completed ticks.
func (s *GenerationState) Tick() int { return s.tick }

// Deaths returns the death records collected so far.
func (s *GenerationState) Deaths() []evolution.DeathRecord { return s.deaths }

// convertedZombies counts live zombies that were once humans.
func (s *GenerationState) convertedZombies() int {
	n := 0
	query := s.zombieFilter.Query()
	for query.Next() {
		_, z := query.Get()
		if z.Converted {
			n++
		}
	}
	return n
}

// frame copies the current positions of both populations.
func (s *GenerationState) frame(generation int) Frame {
	f := Frame{
		Generation: generation,
		Tick:       s.tick,
		Humans:     make([]components.Position, 0, len(s.humans)),
		Zombies:    make([]components.Position, 0, len(s.zombies)),
	}

	query := s.humanFilter.Query()
	for query.Next() {
		pos, _ := query.Get()
		f.Humans = append(f.Humans, *pos)
	}

	zquery := s.zombieFilter.Query()
	for zquery.Next() {
		pos, _ := zquery.Get()
		f.Zombies = append(f.Zombies, *pos)
	}

	return f
}

// removeEntity deletes e from list, preserving order.
func removeEntity(list []ecs.Entity, e ecs.Entity) []ecs.Entity {
	for i := range list {
		if list[i] == e {
			return append(list[:i], list[i+1:]...)
		}
	}
	return list
}

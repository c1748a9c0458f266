package game

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/outbreak/components"
	"github.com/pthm-cable/outbreak/config"
	"github.com/pthm-cable/outbreak/systems"
)

// Action is what an entity did during its turn.
type Action uint8

const (
	ActionNone Action = iota
	ActionAge
	ActionShootHit
	ActionShootMiss
	ActionApproach
	ActionFlee
	ActionWander
	ActionEat
	ActionChase
	ActionIdle

	actionCount
)

var actionNames = [...]string{
	ActionNone:      "none",
	ActionAge:       "age",
	ActionShootHit:  "shoot_hit",
	ActionShootMiss: "shoot_miss",
	ActionApproach:  "approach",
	ActionFlee:      "flee",
	ActionWander:    "wander",
	ActionEat:       "eat",
	ActionChase:     "chase",
	ActionIdle:      "idle",
}

func (a Action) String() string {
	if int(a) < len(actionNames) {
		return actionNames[a]
	}
	return "unknown"
}

// Behavior resolves one entity's turn against its paired opponent at
// distance d. Implementations mutate the generation through the resolver.
type Behavior interface {
	Act(r *resolver, self, target ecs.Entity, d float64) Action
	// Alone is the turn taken when the opposing population is empty.
	Alone(r *resolver, self ecs.Entity) Action
}

// behaviorFor dispatches on the entity kind.
func behaviorFor(kind components.Kind) Behavior {
	if kind == components.KindHuman {
		return humanBehavior{}
	}
	return zombieBehavior{}
}

type humanBehavior struct{}

// Act ages the human, then shoots when close enough, reacts to a zombie
// inside its sense radius, or wanders.
func (humanBehavior) Act(r *resolver, self, target ecs.Entity, d float64) Action {
	s := r.state
	human := s.humanMap.Get(self)
	human.Survival++

	motion := s.motionMap.Get(self)
	if systems.InEngageRange(d, motion.Sense, r.cfg.Human) {
		zombieSpeed := s.motionMap.Get(target).Speed
		p := systems.ShotChance(human.Precision, d, zombieSpeed, r.cfg.Combat)
		r.report.ShotsFired++
		if r.rng.Float64() < p {
			s.killZombie(target)
			r.report.ShotsHit++
			r.report.Killed++
			return ActionShootHit
		}
		return ActionShootMiss
	}

	from := *s.posMap.Get(self)
	if d < motion.Sense {
		to := *s.posMap.Get(target)
		if r.cfg.Human.DetectResponse == config.ResponseFlee {
			s.moveTo(self, components.KindHuman, r.bounds.StepAway(from, to, motion.Speed))
			return ActionFlee
		}
		s.moveTo(self, components.KindHuman, r.bounds.StepToward(from, to, motion.Speed))
		return ActionApproach
	}

	s.moveTo(self, components.KindHuman, r.bounds.Wander(from, motion.Speed, r.rng))
	return ActionWander
}

// Alone only ages the human.
func (humanBehavior) Alone(r *resolver, self ecs.Entity) Action {
	r.state.humanMap.Get(self).Survival++
	return ActionAge
}

type zombieBehavior struct{}

// Act eats a human in contact range, chases one inside the chase range,
// or idles.
func (b zombieBehavior) Act(r *resolver, self, target ecs.Entity, d float64) Action {
	s := r.state
	if d < r.cfg.Zombie.ContactRange {
		converted := systems.ConvertedMotion(*s.motionMap.Get(target), r.cfg, r.rng)
		// The newborn zombie has no turn until the next tick
		newborn := s.eat(target, converted)
		r.acted[newborn] = struct{}{}
		r.report.Eaten++
		return ActionEat
	}

	motion := s.motionMap.Get(self)
	humanSpeed := s.motionMap.Get(target).Speed
	if d < systems.ChaseRange(motion.Sense, humanSpeed, r.cfg.Zombie) {
		from := *s.posMap.Get(self)
		to := *s.posMap.Get(target)
		s.moveTo(self, components.KindZombie, r.bounds.StepToward(from, to, motion.Speed))
		return ActionChase
	}

	return b.Alone(r, self)
}

// Alone applies the configured idle behavior.
func (zombieBehavior) Alone(r *resolver, self ecs.Entity) Action {
	if r.cfg.Zombie.Idle == config.IdleStay {
		return ActionIdle
	}
	s := r.state
	from := *s.posMap.Get(self)
	speed := s.motionMap.Get(self).Speed
	s.moveTo(self, components.KindZombie, r.bounds.Wander(from, speed, r.rng))
	return ActionWander
}

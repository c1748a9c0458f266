// Package components defines ECS components for the simulation.
package components

// Kind distinguishes the two sides of the outbreak.
type Kind uint8

const (
	KindHuman Kind = iota
	KindZombie
)

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	switch k {
	case KindHuman:
		return "human"
	case KindZombie:
		return "zombie"
	}
	return "unknown"
}

// Opponent returns the kind this kind targets.
func (k Kind) Opponent() Kind {
	if k == KindHuman {
		return KindZombie
	}
	return KindHuman
}

// Identity holds the spawn sequence number of an entity within its generation.
// Sequence order equals insertion order into the live population, so it
// doubles as the deterministic tie-breaker for nearest-neighbour queries.
type Identity struct {
	Seq uint64
}

// Human holds the heritable shooting trait and the fitness counter.
type Human struct {
	Precision float64 // 0-1, scales shot success
	Survival  float64 // ticks survived this generation (fitness)
}

// Zombie marks an entity as a zombie.
type Zombie struct {
	Converted bool // spawned from an eaten human rather than at generation start
}

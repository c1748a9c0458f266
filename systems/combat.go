package systems

import (
	"math"
	"math/rand"

	"github.com/pthm-cable/outbreak/components"
	"github.com/pthm-cable/outbreak/config"
)

// ShotChance returns the probability that a human with the given precision
// kills a zombie at distance d moving at targetSpeed.
// Rises with precision, falls with distance and target speed, clamped to the
// configured bounds.
func ShotChance(precision, d, targetSpeed float64, cfg config.CombatConfig) float64 {
	p := precision * cfg.ShotScale
	if cfg.DistanceFalloff > 0 {
		p /= 1 + cfg.DistanceFalloff*d
	}
	if cfg.SpeedFalloff > 0 {
		p /= 1 + cfg.SpeedFalloff*targetSpeed
	}
	return clamp(p, cfg.MinShotChance, cfg.MaxShotChance)
}

// InEngageRange reports whether a human with the given sense shoots rather than moves.
func InEngageRange(d, sense float64, cfg config.HumanConfig) bool {
	return d < cfg.ContactRange || d < sense*cfg.EngageFraction
}

// ChaseRange returns how far a zombie pursues a human.
// Zero multipliers mean the zombie always chases.
func ChaseRange(zombieSense, humanSpeed float64, cfg config.ZombieConfig) float64 {
	if cfg.ChaseSenseMultiplier == 0 && cfg.ChaseSpeedMultiplier == 0 {
		return math.Inf(1)
	}
	return zombieSense*cfg.ChaseSenseMultiplier + humanSpeed*cfg.ChaseSpeedMultiplier
}

// ConvertedMotion returns the traits of a zombie spawned from an eaten human.
// Only the mutate and fresh policies draw from rng.
func ConvertedMotion(human components.Motion, cfg *config.Config, rng *rand.Rand) components.Motion {
	switch cfg.Conversion.Policy {
	case config.ConvertMutate:
		return components.Motion{
			Sense: human.Sense * jitterFactor(cfg.Conversion, rng),
			Speed: human.Speed * jitterFactor(cfg.Conversion, rng),
		}
	case config.ConvertFresh:
		return RandomZombieMotion(cfg.Zombie, rng)
	}
	return human
}

// RandomZombieMotion draws zombie traits uniformly from the configured ranges (sense, then speed).
func RandomZombieMotion(cfg config.ZombieConfig, rng *rand.Rand) components.Motion {
	return components.Motion{
		Sense: Uniform(cfg.Sense, rng),
		Speed: Uniform(cfg.Speed, rng),
	}
}

// Uniform draws from [r.Min, r.Max]. A degenerate range returns Min without a draw.
func Uniform(r config.Range, rng *rand.Rand) float64 {
	if r.Max <= r.Min {
		return r.Min
	}
	return r.Min + rng.Float64()*(r.Max-r.Min)
}

// UniformInt draws a whole number from [ceil(Min), floor(Max)].
func UniformInt(r config.Range, rng *rand.Rand) float64 {
	lo := math.Ceil(r.Min)
	hi := math.Floor(r.Max)
	if hi <= lo {
		return lo
	}
	return lo + float64(rng.Intn(int(hi-lo)+1))
}

func jitterFactor(cfg config.ConversionConfig, rng *rand.Rand) float64 {
	f := 1 + rng.NormFloat64()*cfg.Sigma
	if f < cfg.MinFactor {
		f = cfg.MinFactor
	}
	return f
}

// clamp limits v to [lo, hi].
func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

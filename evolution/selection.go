// Package evolution turns one generation's deaths into the next generation's humans.
package evolution

import (
	"errors"
	"math"
	"math/rand"
	"sort"

	"github.com/pthm-cable/outbreak/config"
	"github.com/pthm-cable/outbreak/systems"
)

// ErrNoDeaths is returned when selection is asked to work from an empty death list.
var ErrNoDeaths = errors.New("evolution: no death records to select from")

// Genome holds the heritable human traits.
type Genome struct {
	Sense     float64
	Precision float64
	Speed     float64
}

// DeathRecord is a snapshot of a human taken when it stops being live.
type DeathRecord struct {
	Genome
	Survival float64
}

// Selection is the outcome of one selection round.
type Selection struct {
	Genomes  []Genome // exactly the target size
	Retained int      // genomes copied from death records; the rest are fresh
}

// RandomGenome draws fresh traits from the configured ranges (sense, precision, speed).
func RandomGenome(cfg config.HumanConfig, rng *rand.Rand) Genome {
	draw := systems.Uniform
	if cfg.IntegerTraits {
		draw = systems.UniformInt
	}
	sense := draw(cfg.Sense, rng)
	precision := systems.Uniform(cfg.Precision, rng)
	speed := draw(cfg.Speed, rng)
	return Genome{Sense: sense, Precision: precision, Speed: speed}
}

// RetentionProbability returns survival/maxFitness with survival clamped to minFitness.
func RetentionProbability(survival, maxFitness, minFitness float64) float64 {
	s := math.Max(survival, minFitness)
	m := math.Max(maxFitness, minFitness)
	return math.Min(s/m, 1)
}

// Select builds the next human population by fitness-proportional retention.
//
// Records are sorted by survival (descending, stable). Each record is then
// kept independently with probability survival/maxSurvival, so the number of
// retained genomes varies; retention stops early only if the target is
// reached. Retained genomes may be mutated, and the remainder is filled with
// random genomes so the result always has exactly target entries.
func Select(records []DeathRecord, target int, cfg *config.Config, rng *rand.Rand) (Selection, error) {
	if len(records) == 0 {
		return Selection{}, ErrNoDeaths
	}

	sorted := make([]DeathRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Survival > sorted[j].Survival
	})

	minFitness := cfg.Selection.MinFitness
	maxFitness := math.Max(sorted[0].Survival, minFitness)

	genomes := make([]Genome, 0, target)
	for _, rec := range sorted {
		if len(genomes) >= target {
			break
		}
		if rng.Float64() <= RetentionProbability(rec.Survival, maxFitness, minFitness) {
			genomes = append(genomes, rec.Genome)
		}
	}
	retained := len(genomes)

	if cfg.Mutation.Rate > 0 {
		for i := range genomes {
			genomes[i] = Mutate(genomes[i], cfg.Mutation, cfg.Human, rng)
		}
	}

	for len(genomes) < target {
		genomes = append(genomes, RandomGenome(cfg.Human, rng))
	}

	return Selection{Genomes: genomes, Retained: retained}, nil
}

// Mutate perturbs each trait with probability rate by Gaussian noise scaled
// to the trait's configured range, clamping the result back into the range.
func Mutate(g Genome, mut config.MutationConfig, human config.HumanConfig, rng *rand.Rand) Genome {
	perturb := func(v float64, r config.Range, integer bool) float64 {
		if rng.Float64() >= mut.Rate {
			return v
		}
		v += rng.NormFloat64() * mut.Sigma * (r.Max - r.Min)
		if integer {
			v = math.Round(v)
		}
		return r.Clamp(v)
	}

	g.Sense = perturb(g.Sense, human.Sense, human.IntegerTraits)
	g.Precision = perturb(g.Precision, human.Precision, false)
	g.Speed = perturb(g.Speed, human.Speed, human.IntegerTraits)
	return g
}

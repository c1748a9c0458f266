package game

import (
	"github.com/pthm-cable/outbreak/evolution"
	"github.com/pthm-cable/outbreak/systems"
)

// spawnGeneration builds a fresh GenerationState from the pending genomes.
// Humans spawn first, in genome order, then the configured zombies; every
// entity draws its own random position.
func (g *Game) spawnGeneration() *GenerationState {
	cfg := g.config()
	if g.genomes == nil {
		g.genomes = g.initialGenomes()
	}

	expected := len(g.genomes) + cfg.Population.Zombies
	state := newGenerationState(g.newIndex(expected), g.newIndex(expected))
	state.minSurvival = cfg.Selection.MinFitness

	for _, genome := range g.genomes {
		state.spawnHuman(genome, g.bounds.RandomPosition(g.rng), cfg.Human.InitialSurvival)
	}

	for i := 0; i < cfg.Population.Zombies; i++ {
		motion := systems.RandomZombieMotion(cfg.Zombie, g.rng)
		state.spawnZombie(motion, g.bounds.RandomPosition(g.rng), false)
	}

	return state
}

// initialGenomes draws the first generation's humans.
func (g *Game) initialGenomes() []evolution.Genome {
	cfg := g.config()
	genomes := make([]evolution.Genome, cfg.Population.Humans)
	for i := range genomes {
		genomes[i] = evolution.RandomGenome(cfg.Human, g.rng)
	}
	return genomes
}

// newIndex builds one population's nearest-neighbour index for the expected
// number of entities.
func (g *Game) newIndex(expected int) systems.Index {
	cfg := g.config()
	return systems.NewIndex(cfg.Spatial.Index, g.bounds, cfg.Spatial.GridCellSize, expected, cfg.Spatial.GridThreshold)
}

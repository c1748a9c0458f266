// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

// Config holds all simulation configuration parameters.
type Config struct {
	Screen      ScreenConfig      `yaml:"screen" toml:"screen"`
	World       WorldConfig       `yaml:"world" toml:"world"`
	Population  PopulationConfig  `yaml:"population" toml:"population"`
	Run         RunConfig         `yaml:"run" toml:"run"`
	Human       HumanConfig       `yaml:"human" toml:"human"`
	Zombie      ZombieConfig      `yaml:"zombie" toml:"zombie"`
	Combat      CombatConfig      `yaml:"combat" toml:"combat"`
	Interaction InteractionConfig `yaml:"interaction" toml:"interaction"`
	Conversion  ConversionConfig  `yaml:"conversion" toml:"conversion"`
	Selection   SelectionConfig   `yaml:"selection" toml:"selection"`
	Mutation    MutationConfig    `yaml:"mutation" toml:"mutation"`
	Spatial     SpatialConfig     `yaml:"spatial" toml:"spatial"`
	Stats       StatsConfig       `yaml:"stats" toml:"stats"`
}

// ScreenConfig holds display settings for the window viewer.
type ScreenConfig struct {
	Width     int `yaml:"width" toml:"width"`
	Height    int `yaml:"height" toml:"height"`
	TargetFPS int `yaml:"target_fps" toml:"target_fps"`
}

// WorldConfig holds the toroidal world dimensions in world units.
type WorldConfig struct {
	Width  float64 `yaml:"width" toml:"width"`
	Height float64 `yaml:"height" toml:"height"`
}

// PopulationConfig holds the per-generation population sizes.
type PopulationConfig struct {
	Humans  int `yaml:"humans" toml:"humans"`   // Target human count, restored every generation
	Zombies int `yaml:"zombies" toml:"zombies"` // Fresh zombies spawned every generation
}

// Cancellation policies.
const (
	CancelHumansWin  = "humans_win"
	CancelZombiesWin = "zombies_win"
	CancelNeutral    = "neutral"
)

// RunConfig holds generation loop parameters.
type RunConfig struct {
	Generations  int    `yaml:"generations" toml:"generations"`
	TickBudget   int    `yaml:"tick_budget" toml:"tick_budget"`
	CancelPolicy string `yaml:"cancel_policy" toml:"cancel_policy"`
}

// Range is an inclusive [Min, Max] interval for a randomized trait.
type Range struct {
	Min float64 `yaml:"min" toml:"min"`
	Max float64 `yaml:"max" toml:"max"`
}

// Clamp limits v to the range.
func (r Range) Clamp(v float64) float64 {
	if v < r.Min {
		return r.Min
	}
	if v > r.Max {
		return r.Max
	}
	return v
}

// Detection responses for humans that see a zombie outside engage range.
const (
	ResponseApproach = "approach"
	ResponseFlee     = "flee"
)

// HumanConfig holds human trait ranges and behavior.
type HumanConfig struct {
	Sense           Range   `yaml:"sense" toml:"sense"`
	Speed           Range   `yaml:"speed" toml:"speed"`
	Precision       Range   `yaml:"precision" toml:"precision"`
	IntegerTraits   bool    `yaml:"integer_traits" toml:"integer_traits"` // Draw sense and speed as whole numbers
	InitialSurvival float64 `yaml:"initial_survival" toml:"initial_survival"`
	ContactRange    float64 `yaml:"contact_range" toml:"contact_range"`
	EngageFraction  float64 `yaml:"engage_fraction" toml:"engage_fraction"` // Shoot when d < sense * this
	DetectResponse  string  `yaml:"detect_response" toml:"detect_response"`
}

// Zombie idle policies.
const (
	IdleWander = "wander"
	IdleStay   = "stay"
)

// ZombieConfig holds zombie trait ranges and behavior.
type ZombieConfig struct {
	Sense                Range   `yaml:"sense" toml:"sense"`
	Speed                Range   `yaml:"speed" toml:"speed"`
	ContactRange         float64 `yaml:"contact_range" toml:"contact_range"`
	ChaseSenseMultiplier float64 `yaml:"chase_sense_multiplier" toml:"chase_sense_multiplier"` // 0 with speed multiplier 0 = always chase
	ChaseSpeedMultiplier float64 `yaml:"chase_speed_multiplier" toml:"chase_speed_multiplier"`
	Idle                 string  `yaml:"idle" toml:"idle"`
}

// CombatConfig shapes the shot success probability.
type CombatConfig struct {
	ShotScale       float64 `yaml:"shot_scale" toml:"shot_scale"`             // p = precision * shot_scale
	DistanceFalloff float64 `yaml:"distance_falloff" toml:"distance_falloff"` // p /= 1 + falloff*d
	SpeedFalloff    float64 `yaml:"speed_falloff" toml:"speed_falloff"`       // p /= 1 + falloff*zombie speed
	MinShotChance   float64 `yaml:"min_shot_chance" toml:"min_shot_chance"`
	MaxShotChance   float64 `yaml:"max_shot_chance" toml:"max_shot_chance"`
}

// Population ordering policies.
const (
	OrderCoin        = "coin"
	OrderLargerFirst = "larger_first"
)

// InteractionConfig holds per-tick ordering policy.
type InteractionConfig struct {
	Order string `yaml:"order" toml:"order"`
}

// Conversion policies for zombies spawned from eaten humans.
const (
	ConvertInherit = "inherit"
	ConvertMutate  = "mutate"
	ConvertFresh   = "fresh"
)

// ConversionConfig holds trait inheritance for converted zombies.
type ConversionConfig struct {
	Policy    string  `yaml:"policy" toml:"policy"`
	Sigma     float64 `yaml:"sigma" toml:"sigma"`           // Std dev of the multiplicative jitter
	MinFactor float64 `yaml:"min_factor" toml:"min_factor"` // Floor on the jitter multiplier
}

// SelectionConfig holds fitness-proportional selection parameters.
type SelectionConfig struct {
	MinFitness         float64 `yaml:"min_fitness" toml:"min_fitness"`
	SurvivorBonus      float64 `yaml:"survivor_bonus" toml:"survivor_bonus"`
	SurvivorMultiplier float64 `yaml:"survivor_multiplier" toml:"survivor_multiplier"`
}

// MutationConfig holds optional mutation of retained genomes.
type MutationConfig struct {
	Rate  float64 `yaml:"rate" toml:"rate"`   // Per-trait mutation probability (0 = off)
	Sigma float64 `yaml:"sigma" toml:"sigma"` // Std dev as a fraction of the trait range
}

// Spatial index kinds.
const (
	IndexBrute = "brute"
	IndexGrid  = "grid"
	IndexAuto  = "auto"
)

// SpatialConfig selects the nearest-neighbour index.
type SpatialConfig struct {
	Index         string  `yaml:"index" toml:"index"`
	GridCellSize  float64 `yaml:"grid_cell_size" toml:"grid_cell_size"`
	GridThreshold int     `yaml:"grid_threshold" toml:"grid_threshold"` // auto switches to grid above this population
}

// Trait averaging policies.
const (
	WeightingNone    = "none"
	WeightingFitness = "fitness"
)

// StatsConfig holds statistics sink parameters.
type StatsConfig struct {
	Weighting string `yaml:"weighting" toml:"weighting"`
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Defaults returns the embedded default configuration.
func Defaults() *Config {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		panic(fmt.Sprintf("config: embedded defaults are broken: %v", err))
	}
	return cfg
}

// Load loads configuration from a YAML or TOML file, merging with embedded defaults.
// Files ending in .toml are parsed as TOML, anything else as YAML.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if strings.EqualFold(filepath.Ext(path), ".toml") {
			if err := toml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parsing config file %s: %w", path, err)
			}
		} else if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}

// Validate checks the configuration for values the simulation cannot run with.
func (c *Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...))
		}
	}

	check(c.World.Width > 0 && c.World.Height > 0, "world size must be positive, got %gx%g", c.World.Width, c.World.Height)
	check(c.Population.Humans > 0, "population.humans must be positive, got %d", c.Population.Humans)
	check(c.Population.Zombies > 0, "population.zombies must be positive, got %d", c.Population.Zombies)
	check(c.Run.Generations > 0, "run.generations must be positive, got %d", c.Run.Generations)
	check(c.Run.TickBudget > 0, "run.tick_budget must be positive, got %d", c.Run.TickBudget)
	check(oneOf(c.Run.CancelPolicy, CancelHumansWin, CancelZombiesWin, CancelNeutral), "unknown run.cancel_policy %q", c.Run.CancelPolicy)

	for name, r := range map[string]Range{
		"human.sense":     c.Human.Sense,
		"human.speed":     c.Human.Speed,
		"human.precision": c.Human.Precision,
		"zombie.sense":    c.Zombie.Sense,
		"zombie.speed":    c.Zombie.Speed,
	} {
		check(r.Min >= 0 && r.Min <= r.Max, "%s range [%g, %g] is inverted or negative", name, r.Min, r.Max)
	}
	check(c.Human.Precision.Max <= 1, "human.precision.max must be <= 1, got %g", c.Human.Precision.Max)
	check(oneOf(c.Human.DetectResponse, ResponseApproach, ResponseFlee), "unknown human.detect_response %q", c.Human.DetectResponse)
	check(oneOf(c.Zombie.Idle, IdleWander, IdleStay), "unknown zombie.idle %q", c.Zombie.Idle)
	check(c.Combat.MinShotChance >= 0 && c.Combat.MinShotChance <= c.Combat.MaxShotChance && c.Combat.MaxShotChance <= 1,
		"combat shot chance bounds [%g, %g] must lie in [0, 1]", c.Combat.MinShotChance, c.Combat.MaxShotChance)
	check(oneOf(c.Interaction.Order, OrderCoin, OrderLargerFirst), "unknown interaction.order %q", c.Interaction.Order)
	check(oneOf(c.Conversion.Policy, ConvertInherit, ConvertMutate, ConvertFresh), "unknown conversion.policy %q", c.Conversion.Policy)
	check(c.Selection.MinFitness >= 1, "selection.min_fitness must be >= 1, got %g", c.Selection.MinFitness)
	check(c.Selection.SurvivorMultiplier > 0, "selection.survivor_multiplier must be positive, got %g", c.Selection.SurvivorMultiplier)
	check(c.Mutation.Rate >= 0 && c.Mutation.Rate <= 1, "mutation.rate must lie in [0, 1], got %g", c.Mutation.Rate)
	check(oneOf(c.Spatial.Index, IndexBrute, IndexGrid, IndexAuto), "unknown spatial.index %q", c.Spatial.Index)
	check(c.Spatial.GridCellSize > 0, "spatial.grid_cell_size must be positive, got %g", c.Spatial.GridCellSize)
	check(oneOf(c.Stats.Weighting, WeightingNone, WeightingFitness), "unknown stats.weighting %q", c.Stats.Weighting)

	return errors.Join(errs...)
}

func oneOf(v string, options ...string) bool {
	for _, o := range options {
		if v == o {
			return true
		}
	}
	return false
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

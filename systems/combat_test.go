package systems

import (
	"math"
	"math/rand"
	"testing"

	"github.com/pthm-cable/outbreak/components"
	"github.com/pthm-cable/outbreak/config"
)

func TestShotChance(t *testing.T) {
	base := config.CombatConfig{ShotScale: 1.0 / 3.0, MinShotChance: 0, MaxShotChance: 1}

	tests := []struct {
		name      string
		cfg       config.CombatConfig
		precision float64
		d, speed  float64
		want      float64
	}{
		{"precision over three", base, 0.9, 4, 7, 0.3},
		{"zero precision", base, 0, 1, 7, 0},
		{"distance falloff", withFalloff(base, 1, 0), 0.9, 1, 7, 0.15},
		{"speed falloff", withFalloff(base, 0, 0.5), 0.9, 1, 2, 0.15},
		{"clamped high", config.CombatConfig{ShotScale: 5, MaxShotChance: 0.8}, 1, 0, 0, 0.8},
		{"clamped low", config.CombatConfig{ShotScale: 0.01, MinShotChance: 0.05, MaxShotChance: 1}, 1, 0, 0, 0.05},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ShotChance(tt.precision, tt.d, tt.speed, tt.cfg)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("ShotChance = %v, want %v", got, tt.want)
			}
		})
	}
}

func withFalloff(c config.CombatConfig, dist, speed float64) config.CombatConfig {
	c.DistanceFalloff = dist
	c.SpeedFalloff = speed
	return c
}

func TestShotChanceMonotonic(t *testing.T) {
	cfg := config.CombatConfig{ShotScale: 0.5, DistanceFalloff: 0.1, SpeedFalloff: 0.1, MaxShotChance: 1}
	if ShotChance(0.8, 2, 3, cfg) <= ShotChance(0.4, 2, 3, cfg) {
		t.Error("chance should rise with precision")
	}
	if ShotChance(0.8, 8, 3, cfg) >= ShotChance(0.8, 2, 3, cfg) {
		t.Error("chance should fall with distance")
	}
	if ShotChance(0.8, 2, 9, cfg) >= ShotChance(0.8, 2, 3, cfg) {
		t.Error("chance should fall with target speed")
	}
}

func TestInEngageRange(t *testing.T) {
	cfg := config.HumanConfig{ContactRange: 2, EngageFraction: 0.5}
	if !InEngageRange(5, 10.1, cfg) {
		t.Error("d=5 with sense 10.1 should engage")
	}
	if InEngageRange(5, 10, cfg) {
		t.Error("d=5 with sense 10 is not below sense/2")
	}
	if !InEngageRange(1.5, 0, cfg) {
		t.Error("contact range should engage regardless of sense")
	}
}

func TestChaseRange(t *testing.T) {
	if r := ChaseRange(15, 3, config.ZombieConfig{}); !math.IsInf(r, 1) {
		t.Errorf("zero multipliers should chase forever, got %g", r)
	}
	cfg := config.ZombieConfig{ChaseSenseMultiplier: 2, ChaseSpeedMultiplier: 1}
	if r := ChaseRange(15, 3, cfg); r != 33 {
		t.Errorf("ChaseRange = %g, want 33", r)
	}
}

func TestConvertedMotion(t *testing.T) {
	cfg := config.Defaults()
	human := components.Motion{Sense: 12, Speed: 5}
	rng := rand.New(rand.NewSource(9))

	cfg.Conversion.Policy = config.ConvertInherit
	if got := ConvertedMotion(human, cfg, rng); got != human {
		t.Errorf("inherit = %+v, want %+v", got, human)
	}

	cfg.Conversion.Policy = config.ConvertFresh
	got := ConvertedMotion(human, cfg, rng)
	if got.Sense != 15 || got.Speed != 7 {
		t.Errorf("fresh = %+v, want zombie defaults 15/7", got)
	}

	cfg.Conversion.Policy = config.ConvertMutate
	cfg.Conversion.Sigma = 0.2
	cfg.Conversion.MinFactor = 0.5
	for i := 0; i < 500; i++ {
		got := ConvertedMotion(human, cfg, rng)
		if got.Sense < human.Sense*0.5 || got.Speed < human.Speed*0.5 {
			t.Fatalf("mutate = %+v, below min factor", got)
		}
	}
}

func TestUniformInt(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	r := config.Range{Min: 4, Max: 20}
	seen := map[float64]bool{}
	for i := 0; i < 5000; i++ {
		v := UniformInt(r, rng)
		if v != math.Trunc(v) || v < 4 || v > 20 {
			t.Fatalf("UniformInt = %g, want whole number in [4, 20]", v)
		}
		seen[v] = true
	}
	if len(seen) != 17 {
		t.Errorf("UniformInt covered %d values, want 17", len(seen))
	}
}

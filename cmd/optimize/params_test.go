package main

import (
	"math"
	"testing"

	"github.com/pthm-cable/outbreak/config"
)

func TestNormalizeRoundtrip(t *testing.T) {
	pv := NewParamVector()
	raw := pv.DefaultVector()

	back := pv.Denormalize(pv.Normalize(raw))
	for i := range raw {
		if math.Abs(back[i]-raw[i]) > 1e-9 {
			t.Errorf("%s: %v -> %v", pv.Specs[i].Name, raw[i], back[i])
		}
	}
}

func TestDefaultsMatchConfig(t *testing.T) {
	pv := NewParamVector()
	got := pv.ExtractFromConfig(config.Defaults())
	want := pv.DefaultVector()

	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-3 {
			t.Errorf("%s: config has %v, spec default %v", pv.Specs[i].Name, got[i], want[i])
		}
	}
}

func TestApplyToConfigClampsAndRecenters(t *testing.T) {
	pv := NewParamVector()
	cfg := config.Defaults()
	cfg.Zombie.Speed = config.Range{Min: 5, Max: 9}

	values := pv.DefaultVector()
	values[0] = 99 // shot_scale above max
	values[2] = 10 // zombie speed midpoint
	pv.ApplyToConfig(cfg, values)

	if cfg.Combat.ShotScale != pv.Specs[0].Max {
		t.Errorf("shot scale %v, want clamped to %v", cfg.Combat.ShotScale, pv.Specs[0].Max)
	}
	if cfg.Zombie.Speed != (config.Range{Min: 8, Max: 12}) {
		t.Errorf("zombie speed %+v, want [8, 12]", cfg.Zombie.Speed)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("applied config invalid: %v", err)
	}
}

func TestRecenterFloorsAtZero(t *testing.T) {
	r := recenter(config.Range{Min: 0, Max: 10}, 2)
	if r.Min != 0 || r.Max != 7 {
		t.Errorf("recenter = %+v, want [0, 7]", r)
	}
}

func TestComputeFitness(t *testing.T) {
	tests := []struct {
		rate, target, want float64
	}{
		{0.5, 0.5, 0},
		{0.2, 0.5, 0.3},
		{1, 0.5, 0.5},
	}
	for _, tt := range tests {
		if got := computeFitness(tt.rate, tt.target); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("computeFitness(%v, %v) = %v, want %v", tt.rate, tt.target, got, tt.want)
		}
	}
}

// Package main provides CMA-ES tuning of the balance parameters that decide
// who usually wins a generation.
package main

import (
	"github.com/pthm-cable/outbreak/config"
)

// ParamSpec defines a single optimizable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value
}

// ParamVector holds the set of all optimizable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of optimizable parameters.
// The zombie ranges move as a whole: the vector holds their midpoint and the
// width of the default range is kept.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			// Combat
			{Name: "shot_scale", Path: "combat.shot_scale", Min: 0.05, Max: 1.0, Default: 0.333},
			{Name: "distance_falloff", Path: "combat.distance_falloff", Min: 0, Max: 0.2, Default: 0},
			// Zombie
			{Name: "zombie_speed_mid", Path: "zombie.speed", Min: 2, Max: 14, Default: 7},
			{Name: "zombie_sense_mid", Path: "zombie.sense", Min: 5, Max: 40, Default: 15},
			{Name: "zombie_contact_range", Path: "zombie.contact_range", Min: 0.5, Max: 6, Default: 2},
			// Selection
			{Name: "survivor_bonus", Path: "selection.survivor_bonus", Min: 0, Max: 500, Default: 100},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		val := v[i]
		if val < spec.Min {
			val = spec.Min
		}
		if val > spec.Max {
			val = spec.Max
		}
		clamped[i] = val
	}
	return clamped
}

// ApplyToConfig applies parameter values to a Config struct.
// Order must match Specs order.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	clamped := pv.Clamp(values)
	i := 0

	cfg.Combat.ShotScale = clamped[i]; i++
	cfg.Combat.DistanceFalloff = clamped[i]; i++

	cfg.Zombie.Speed = recenter(cfg.Zombie.Speed, clamped[i]); i++
	cfg.Zombie.Sense = recenter(cfg.Zombie.Sense, clamped[i]); i++
	cfg.Zombie.ContactRange = clamped[i]; i++

	cfg.Selection.SurvivorBonus = clamped[i]
}

// ExtractFromConfig extracts current parameter values from a Config struct.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	return []float64{
		cfg.Combat.ShotScale,
		cfg.Combat.DistanceFalloff,
		(cfg.Zombie.Speed.Min + cfg.Zombie.Speed.Max) / 2,
		(cfg.Zombie.Sense.Min + cfg.Zombie.Sense.Max) / 2,
		cfg.Zombie.ContactRange,
		cfg.Selection.SurvivorBonus,
	}
}

// recenter moves r so its midpoint is mid, keeping its width. The lower end
// never drops below zero.
func recenter(r config.Range, mid float64) config.Range {
	half := (r.Max - r.Min) / 2
	lo := mid - half
	if lo < 0 {
		lo = 0
	}
	return config.Range{Min: lo, Max: mid + half}
}

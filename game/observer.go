package game

import (
	"github.com/pthm-cable/outbreak/components"
	"github.com/pthm-cable/outbreak/telemetry"
)

// Frame is a read-only copy of entity positions after a tick.
type Frame struct {
	Generation int
	Tick       int
	Humans     []components.Position
	Zombies    []components.Position
}

// Observer receives simulation snapshots. Observers never influence results.
type Observer interface {
	OnTick(f Frame)
	OnGeneration(res GenerationResult, stats telemetry.GenerationStats)
}

// MultiObserver fans snapshots out to several observers in order.
type MultiObserver []Observer

func (m MultiObserver) OnTick(f Frame) {
	for _, o := range m {
		o.OnTick(f)
	}
}

func (m MultiObserver) OnGeneration(res GenerationResult, stats telemetry.GenerationStats) {
	for _, o := range m {
		o.OnGeneration(res, stats)
	}
}

// Observers combines the non-nil observers into one, or returns nil if there are none.
func Observers(obs ...Observer) Observer {
	var m MultiObserver
	for _, o := range obs {
		if o != nil {
			m = append(m, o)
		}
	}
	switch len(m) {
	case 0:
		return nil
	case 1:
		return m[0]
	}
	return m
}

package systems

import (
	"math"
	"math/rand"
	"testing"

	"github.com/pthm-cable/outbreak/components"
)

func TestWrapStaysInBounds(t *testing.T) {
	b := Bounds{Width: 100, Height: 75}
	rng := rand.New(rand.NewSource(1))

	for i := 0; i < 10000; i++ {
		p := components.Position{X: rng.Float64() * 100, Y: rng.Float64() * 75}
		dx := (rng.Float64()*2 - 1) * 500
		dy := (rng.Float64()*2 - 1) * 500
		got := b.Wrap(p, dx, dy)
		if !b.Contains(got) {
			t.Fatalf("Wrap(%v, %g, %g) = %v, outside bounds", p, dx, dy, got)
		}
	}
}

func TestWrap(t *testing.T) {
	b := Bounds{Width: 100, Height: 100}
	tests := []struct {
		name   string
		p      components.Position
		dx, dy float64
		want   components.Position
	}{
		{"no displacement", components.Position{X: 10, Y: 20}, 0, 0, components.Position{X: 10, Y: 20}},
		{"subtracts displacement", components.Position{X: 50, Y: 50}, 2, -3, components.Position{X: 48, Y: 53}},
		{"exits left edge", components.Position{X: 1, Y: 50}, 3, 0, components.Position{X: 98, Y: 50}},
		{"exits right edge", components.Position{X: 99, Y: 50}, -3, 0, components.Position{X: 2, Y: 50}},
		{"lands on width", components.Position{X: 98, Y: 0}, -2, 0, components.Position{X: 0, Y: 0}},
		{"tiny negative", components.Position{X: 0, Y: 0}, 1e-18, 0, components.Position{X: 0, Y: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := b.Wrap(tt.p, tt.dx, tt.dy)
			if math.Abs(got.X-tt.want.X) > 1e-9 || math.Abs(got.Y-tt.want.Y) > 1e-9 {
				t.Errorf("Wrap = %v, want %v", got, tt.want)
			}
			if !b.Contains(got) {
				t.Errorf("Wrap = %v, outside bounds", got)
			}
		})
	}
}

func TestSign(t *testing.T) {
	tests := []struct {
		v    float64
		want float64
	}{
		{5, 1},
		{-0.5, -1},
		{0, 0},
		{1e-12, 0},
		{-1e-12, 0},
	}
	for _, tt := range tests {
		if got := Sign(tt.v); got != tt.want {
			t.Errorf("Sign(%g) = %g, want %g", tt.v, got, tt.want)
		}
	}
}

func TestStepTowardAndAway(t *testing.T) {
	b := Bounds{Width: 100, Height: 100}
	from := components.Position{X: 50, Y: 50}
	to := components.Position{X: 60, Y: 50}

	got := b.StepToward(from, to, 2)
	if got.X != 52 || got.Y != 50 {
		t.Errorf("StepToward = %v, want (52, 50)", got)
	}

	got = b.StepAway(from, to, 2)
	if got.X != 48 || got.Y != 50 {
		t.Errorf("StepAway = %v, want (48, 50)", got)
	}

	// Coincident positions do not move
	got = b.StepToward(from, from, 5)
	if got != from {
		t.Errorf("StepToward onto itself = %v, want %v", got, from)
	}
}

func TestWanderIsDiagonal(t *testing.T) {
	b := Bounds{Width: 1000, Height: 1000}
	rng := rand.New(rand.NewSource(7))
	from := components.Position{X: 500, Y: 500}

	seen := map[components.Position]bool{}
	for i := 0; i < 200; i++ {
		got := b.Wander(from, 3, rng)
		if math.Abs(got.X-from.X) != 3 || math.Abs(got.Y-from.Y) != 3 {
			t.Fatalf("Wander = %v, want a diagonal step of 3", got)
		}
		seen[got] = true
	}
	if len(seen) != 4 {
		t.Errorf("Wander visited %d diagonals, want 4", len(seen))
	}
}

func TestRandomPositionInBounds(t *testing.T) {
	b := Bounds{Width: 10, Height: 5}
	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 1000; i++ {
		if p := b.RandomPosition(rng); !b.Contains(p) {
			t.Fatalf("RandomPosition = %v, outside bounds", p)
		}
	}
}

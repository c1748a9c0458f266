// Package systems provides the movement, spatial and combat rules of the simulation.
package systems

import (
	"math"
	"math/rand"

	"github.com/pthm-cable/outbreak/components"
)

// signEpsilon is the dead zone below which a coordinate delta counts as zero.
const signEpsilon = 1e-9

// Bounds represents the toroidal world.
type Bounds struct {
	Width, Height float64
}

// Wrap applies (p - d) mod size componentwise, so motion past one edge
// re-enters from the opposite edge. The result always lies in [0,W)x[0,H).
func (b Bounds) Wrap(p components.Position, dx, dy float64) components.Position {
	return components.Position{
		X: mod(p.X-dx, b.Width),
		Y: mod(p.Y-dy, b.Height),
	}
}

// Contains reports whether p lies inside [0,W)x[0,H).
func (b Bounds) Contains(p components.Position) bool {
	return p.X >= 0 && p.X < b.Width && p.Y >= 0 && p.Y < b.Height
}

// RandomPosition draws a uniform position inside the world (x first, then y).
func (b Bounds) RandomPosition(rng *rand.Rand) components.Position {
	return components.Position{
		X: mod(rng.Float64()*b.Width, b.Width),
		Y: mod(rng.Float64()*b.Height, b.Height),
	}
}

// StepToward moves one sign-based step from `from` toward `to`, each axis
// independently scaled by speed.
func (b Bounds) StepToward(from, to components.Position, speed float64) components.Position {
	sx := Sign(to.X - from.X)
	sy := Sign(to.Y - from.Y)
	return b.Wrap(from, -sx*speed, -sy*speed)
}

// StepAway moves one sign-based step from `from` directly away from `to`.
func (b Bounds) StepAway(from, to components.Position, speed float64) components.Position {
	sx := Sign(to.X - from.X)
	sy := Sign(to.Y - from.Y)
	return b.Wrap(from, sx*speed, sy*speed)
}

// Wander moves one random diagonal step: each axis independently ±speed.
// Draws x then y.
func (b Bounds) Wander(from components.Position, speed float64, rng *rand.Rand) components.Position {
	dx := speed
	if rng.Intn(2) == 0 {
		dx = -speed
	}
	dy := speed
	if rng.Intn(2) == 0 {
		dy = -speed
	}
	return b.Wrap(from, dx, dy)
}

// Sign returns -1, 0 or 1. Deltas inside the epsilon dead zone are 0, so
// coincident coordinates never move on that axis.
func Sign(v float64) float64 {
	if v > signEpsilon {
		return 1
	}
	if v < -signEpsilon {
		return -1
	}
	return 0
}

// mod returns v mod m in [0, m).
func mod(v, m float64) float64 {
	r := math.Mod(v, m)
	if r < 0 {
		r += m
	}
	// -tiny + m rounds up to m in floating point
	if r >= m {
		r = 0
	}
	return r
}

// distanceSq returns the squared Euclidean distance between two points.
func distanceSq(a, b components.Position) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return dx*dx + dy*dy
}

// Distance returns the Euclidean distance between two points.
func Distance(a, b components.Position) float64 {
	return math.Sqrt(distanceSq(a, b))
}

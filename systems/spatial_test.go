package systems

import (
	"math/rand"
	"testing"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/outbreak/components"
)

// newCandidates creates n entities at random positions, with every fifth
// entity duplicating an earlier position to exercise tie-breaking.
func newCandidates(t *testing.T, n int, b Bounds, rng *rand.Rand) []Candidate {
	t.Helper()
	world := ecs.NewWorld()
	posMap := ecs.NewMap1[components.Position](world)

	out := make([]Candidate, 0, n)
	for i := 0; i < n; i++ {
		pos := b.RandomPosition(rng)
		if i > 0 && i%5 == 0 {
			pos = out[rng.Intn(len(out))].Pos
		}
		e := posMap.NewEntity(&pos)
		out = append(out, Candidate{E: e, Seq: uint64(i), Pos: pos})
	}
	return out
}

func TestNearestEmpty(t *testing.T) {
	if _, _, ok := Nearest(components.Position{}, nil); ok {
		t.Error("Nearest on empty candidates should report ok=false")
	}
	grid := NewSpatialGrid(Bounds{Width: 10, Height: 10}, 2)
	if _, _, ok := grid.Nearest(components.Position{}); ok {
		t.Error("empty grid should report ok=false")
	}
}

func TestNearestTieGoesToFirst(t *testing.T) {
	b := Bounds{Width: 100, Height: 100}
	cands := newCandidates(t, 3, b, rand.New(rand.NewSource(1)))
	cands[0].Pos = components.Position{X: 10, Y: 0}
	cands[1].Pos = components.Position{X: 0, Y: 10}
	cands[2].Pos = components.Position{X: 5, Y: 5}

	got, dist, ok := Nearest(components.Position{}, cands[:2])
	if !ok || got.E != cands[0].E {
		t.Errorf("tie should resolve to the first candidate, got seq %d", got.Seq)
	}
	if dist != 10 {
		t.Errorf("distance = %g, want 10", dist)
	}

	got, _, _ = Nearest(components.Position{}, cands)
	if got.E != cands[2].E {
		t.Errorf("nearest should be the (5,5) candidate, got seq %d", got.Seq)
	}
}

func TestGridMatchesBruteForce(t *testing.T) {
	b := Bounds{Width: 300, Height: 200}
	rng := rand.New(rand.NewSource(42))

	for _, cellSize := range []float64{7, 25, 120} {
		cands := newCandidates(t, 250, b, rng)
		brute := &BruteIndex{}
		grid := NewSpatialGrid(b, cellSize)
		for _, c := range cands {
			brute.Insert(c)
			grid.Insert(c)
		}

		// Churn: move some, remove some
		for i, c := range cands {
			switch i % 4 {
			case 1:
				to := b.Wander(c.Pos, 9, rng)
				brute.Move(c.E, c.Pos, to)
				grid.Move(c.E, c.Pos, to)
			case 2:
				brute.Remove(c.E, c.Pos)
				grid.Remove(c.E, c.Pos)
			}
		}

		if brute.Len() != grid.Len() {
			t.Fatalf("cell %g: brute len %d != grid len %d", cellSize, brute.Len(), grid.Len())
		}

		for i := 0; i < 500; i++ {
			ref := b.RandomPosition(rng)
			if i%10 == 0 {
				ref = cands[rng.Intn(len(cands))].Pos
			}
			want, wantDist, _ := brute.Nearest(ref)
			got, gotDist, ok := grid.Nearest(ref)
			if !ok {
				t.Fatalf("cell %g: grid found nothing", cellSize)
			}
			if got.E != want.E || gotDist != wantDist {
				t.Fatalf("cell %g ref %v: grid seq %d at %g, brute seq %d at %g",
					cellSize, ref, got.Seq, gotDist, want.Seq, wantDist)
			}
		}
	}
}

func TestNewIndex(t *testing.T) {
	b := Bounds{Width: 100, Height: 100}
	if _, ok := NewIndex("brute", b, 10, 1000, 10).(*BruteIndex); !ok {
		t.Error("brute kind should build a BruteIndex")
	}
	if _, ok := NewIndex("grid", b, 10, 1, 10).(*SpatialGrid); !ok {
		t.Error("grid kind should build a SpatialGrid")
	}
	if _, ok := NewIndex("auto", b, 10, 5, 10).(*BruteIndex); !ok {
		t.Error("auto below threshold should build a BruteIndex")
	}
	if _, ok := NewIndex("auto", b, 10, 50, 10).(*SpatialGrid); !ok {
		t.Error("auto above threshold should build a SpatialGrid")
	}
}

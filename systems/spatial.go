package systems

import (
	"math"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/outbreak/components"
)

// Candidate is an entity that can be returned by a nearest-neighbour query.
type Candidate struct {
	E   ecs.Entity
	Seq uint64
	Pos components.Position
}

// Nearest returns the candidate closest to ref by Euclidean distance, along
// with the square-rooted distance. Ties go to the lowest index.
// Callers must check that candidates is non-empty; ok is false otherwise.
func Nearest(ref components.Position, candidates []Candidate) (best Candidate, dist float64, ok bool) {
	if len(candidates) == 0 {
		return Candidate{}, 0, false
	}
	bestIdx := 0
	bestSq := math.Inf(1)
	for i := range candidates {
		d := distanceSq(ref, candidates[i].Pos)
		if d < bestSq {
			bestSq = d
			bestIdx = i
		}
	}
	return candidates[bestIdx], math.Sqrt(bestSq), true
}

// Index is an incrementally maintained nearest-neighbour structure over one population.
// Implementations must agree with Nearest over the candidates in Seq order.
type Index interface {
	Insert(c Candidate)
	Remove(e ecs.Entity, pos components.Position)
	Move(e ecs.Entity, from, to components.Position)
	Nearest(ref components.Position) (Candidate, float64, bool)
	Len() int
}

// NewIndex builds the index selected by kind ("brute", "grid" or "auto").
// Auto uses the grid once the expected population exceeds threshold.
func NewIndex(kind string, bounds Bounds, cellSize float64, expected, threshold int) Index {
	switch kind {
	case "grid":
		return NewSpatialGrid(bounds, cellSize)
	case "auto":
		if expected > threshold {
			return NewSpatialGrid(bounds, cellSize)
		}
	}
	return &BruteIndex{}
}

// BruteIndex keeps candidates in insertion order and scans all of them.
type BruteIndex struct {
	items []Candidate
}

// Insert appends a candidate. Candidates must be inserted in increasing Seq order.
func (b *BruteIndex) Insert(c Candidate) {
	b.items = append(b.items, c)
}

// Remove deletes the entity, preserving the order of the rest.
func (b *BruteIndex) Remove(e ecs.Entity, _ components.Position) {
	for i := range b.items {
		if b.items[i].E == e {
			b.items = append(b.items[:i], b.items[i+1:]...)
			return
		}
	}
}

// Move updates the stored position of the entity.
func (b *BruteIndex) Move(e ecs.Entity, _, to components.Position) {
	for i := range b.items {
		if b.items[i].E == e {
			b.items[i].Pos = to
			return
		}
	}
}

// Nearest scans every candidate.
func (b *BruteIndex) Nearest(ref components.Position) (Candidate, float64, bool) {
	return Nearest(ref, b.items)
}

// Len returns the number of indexed candidates.
func (b *BruteIndex) Len() int {
	return len(b.items)
}

// SpatialGrid buckets candidates into uniform cells and answers nearest
// queries with an expanding ring search.
type SpatialGrid struct {
	cellSize float64
	cols     int
	rows     int
	cells    [][]Candidate
	count    int
}

// NewSpatialGrid creates a spatial grid covering the given world size.
func NewSpatialGrid(bounds Bounds, cellSize float64) *SpatialGrid {
	cols := int(bounds.Width/cellSize) + 1
	rows := int(bounds.Height/cellSize) + 1

	cells := make([][]Candidate, cols*rows)
	for i := range cells {
		cells[i] = make([]Candidate, 0, 8)
	}

	return &SpatialGrid{
		cellSize: cellSize,
		cols:     cols,
		rows:     rows,
		cells:    cells,
	}
}

// Insert adds a candidate to the cell containing its position.
func (g *SpatialGrid) Insert(c Candidate) {
	idx := g.cellIndex(c.Pos)
	g.cells[idx] = append(g.cells[idx], c)
	g.count++
}

// Remove deletes the entity from the cell containing pos.
func (g *SpatialGrid) Remove(e ecs.Entity, pos components.Position) {
	idx := g.cellIndex(pos)
	cell := g.cells[idx]
	for i := range cell {
		if cell[i].E == e {
			g.cells[idx] = append(cell[:i], cell[i+1:]...)
			g.count--
			return
		}
	}
}

// Move relocates the entity, changing cells only when needed.
func (g *SpatialGrid) Move(e ecs.Entity, from, to components.Position) {
	src := g.cellIndex(from)
	dst := g.cellIndex(to)
	cell := g.cells[src]
	for i := range cell {
		if cell[i].E != e {
			continue
		}
		if src == dst {
			cell[i].Pos = to
			return
		}
		c := cell[i]
		c.Pos = to
		g.cells[src] = append(cell[:i], cell[i+1:]...)
		g.cells[dst] = append(g.cells[dst], c)
		return
	}
}

// Nearest searches rings of cells outward from ref. A cell in ring r is at
// least (r-1)*cellSize away, so the search stops once that bound exceeds the
// best distance found. Equal distances resolve to the lowest Seq.
func (g *SpatialGrid) Nearest(ref components.Position) (Candidate, float64, bool) {
	if g.count == 0 {
		return Candidate{}, 0, false
	}

	centerCol, centerRow := g.cellCoords(ref)
	maxRing := g.cols
	if g.rows > maxRing {
		maxRing = g.rows
	}

	var best Candidate
	bestSq := math.Inf(1)
	found := false

	for r := 0; r <= maxRing; r++ {
		if found && r > 1 {
			gap := float64(r-1) * g.cellSize
			if gap*gap > bestSq {
				break
			}
		}

		for dc := -r; dc <= r; dc++ {
			for dr := -r; dr <= r; dr++ {
				if absInt(dc) != r && absInt(dr) != r {
					continue // interior cells were scanned by earlier rings
				}
				col := centerCol + dc
				row := centerRow + dr
				if col < 0 || col >= g.cols || row < 0 || row >= g.rows {
					continue
				}
				for _, c := range g.cells[row*g.cols+col] {
					d := distanceSq(ref, c.Pos)
					if d < bestSq || (d == bestSq && c.Seq < best.Seq) {
						best = c
						bestSq = d
						found = true
					}
				}
			}
		}
	}

	return best, math.Sqrt(bestSq), found
}

// Len returns the number of indexed candidates.
func (g *SpatialGrid) Len() int {
	return g.count
}

// cellCoords returns the clamped column and row for a world position.
func (g *SpatialGrid) cellCoords(p components.Position) (col, row int) {
	col = int(p.X / g.cellSize)
	row = int(p.Y / g.cellSize)

	// Clamp to valid range
	if col < 0 {
		col = 0
	} else if col >= g.cols {
		col = g.cols - 1
	}
	if row < 0 {
		row = 0
	} else if row >= g.rows {
		row = g.rows - 1
	}
	return col, row
}

// cellIndex returns the flat index for a world position.
func (g *SpatialGrid) cellIndex(p components.Position) int {
	col, row := g.cellCoords(p)
	return row*g.cols + col
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

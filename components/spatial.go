package components

// Position represents an entity's world position.
type Position struct {
	X, Y float64
}

// Motion holds the movement and perception traits shared by both kinds.
type Motion struct {
	Sense float64 // detection radius in world units
	Speed float64 // displacement per tick in world units
}

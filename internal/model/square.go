package model

import "github.com/google/uuid"

// Grid geometry. Boards are 5x5 in row-major order with the center square
// pinned at index 12.
const (
	GridSize     = 5
	SquareCount  = GridSize * GridSize
	CenterIndex  = SquareCount / 2
	FreeText     = "FREE"
	MaxSquareLen = 50
)

// Square is one of the 25 cells in a board. Exactly one square per board
// has IsCenter set, and it occupies CenterIndex in the ordered sequence.
type Square struct {
	ID       uuid.UUID `json:"id"`
	Content  string    `json:"content"`
	IsCenter bool      `json:"isCenter,omitempty"`
}

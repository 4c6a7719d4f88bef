// Package grid maintains the ordered 25-square sequence of a bingo board
// under reordering operations while keeping the center square pinned.
package grid

import (
	"errors"
	"math/rand"

	"bingo/internal/model"

	"github.com/google/uuid"
)

var (
	// ErrCenterPinned is returned when a reposition touches the center square.
	ErrCenterPinned = errors.New("center square cannot be moved")

	// ErrSquareNotFound is returned when a reposition references an id that
	// is not present in the sequence.
	ErrSquareNotFound = errors.New("square not found")

	// ErrInvalidGrid is returned by Validate for a malformed sequence.
	ErrInvalidGrid = errors.New("invalid grid")
)

// NewSquares builds the default layout for a fresh board: 25 squares with
// empty content, except the pinned center square holding "FREE".
func NewSquares() []model.Square {
	squares := make([]model.Square, model.SquareCount)
	for i := range squares {
		squares[i] = model.Square{ID: uuid.New()}
		if i == model.CenterIndex {
			squares[i].Content = model.FreeText
			squares[i].IsCenter = true
		}
	}
	return squares
}

// Reposition moves the square identified by activeID to the position of the
// square identified by overID, shifting intervening squares by one. It does
// not swap. Squares are addressed by id rather than index to tolerate
// concurrent renders. The input is never mutated; a fresh ordering is
// returned. Moving the center square, or moving another square into its
// slot, is rejected with ErrCenterPinned.
func Reposition(squares []model.Square, activeID, overID uuid.UUID) ([]model.Square, error) {
	from := indexOf(squares, activeID)
	to := indexOf(squares, overID)
	if from < 0 || to < 0 {
		return nil, ErrSquareNotFound
	}
	if squares[from].IsCenter || squares[to].IsCenter {
		return nil, ErrCenterPinned
	}
	if from == to {
		out := make([]model.Square, len(squares))
		copy(out, squares)
		return out, nil
	}

	out := make([]model.Square, 0, len(squares))
	out = append(out, squares[:from]...)
	out = append(out, squares[from+1:]...)
	moved := squares[from]
	out = append(out[:to], append([]model.Square{moved}, out[to:]...)...)
	return out, nil
}

// Randomize applies an unbiased permutation to the non-center squares and
// reinserts the center square at its pinned index. If no center square is
// present the shuffled sequence is returned as-is.
func Randomize(squares []model.Square) []model.Square {
	var center *model.Square
	others := make([]model.Square, 0, len(squares))
	for i := range squares {
		if squares[i].IsCenter && center == nil {
			c := squares[i]
			center = &c
			continue
		}
		others = append(others, squares[i])
	}

	rand.Shuffle(len(others), func(i, j int) {
		others[i], others[j] = others[j], others[i]
	})

	if center == nil {
		return others
	}
	out := make([]model.Square, 0, len(others)+1)
	out = append(out, others[:model.CenterIndex]...)
	out = append(out, *center)
	out = append(out, others[model.CenterIndex:]...)
	return out
}

// Validate checks the board invariant: exactly 25 squares with exactly one
// center square sitting at the pinned index.
func Validate(squares []model.Square) error {
	if len(squares) != model.SquareCount {
		return ErrInvalidGrid
	}
	for i := range squares {
		if squares[i].IsCenter != (i == model.CenterIndex) {
			return ErrInvalidGrid
		}
	}
	return nil
}

func indexOf(squares []model.Square, id uuid.UUID) int {
	for i := range squares {
		if squares[i].ID == id {
			return i
		}
	}
	return -1
}

package rules

import (
	"github.com/lukelarue/losiento/game/board"
	"github.com/lukelarue/losiento/game/deck"
)

// Move is a complete, self-contained description of one turn's action.
// Destination fields are computed hypothetically during enumeration and
// recomputed (never trusted) during application.
type Move struct {
	Card deck.Card
	Seat board.Seat

	PawnID    string
	Direction Direction
	Steps     int

	// TargetPawnID names the pawn a Sorry! move or an 11-switch acts on.
	TargetPawnID string

	// Secondary* describe the second leg of a split 7; zero values mean
	// this move has no second leg.
	SecondaryPawnID    string
	SecondaryDirection Direction
	SecondarySteps     int

	DestType  board.Kind
	DestIndex int

	SecondaryDestType  board.Kind
	SecondaryDestIndex int
}

// destPosition reconstructs the board.Position the primary leg's
// destination fields describe.
func (m Move) destPosition() board.Position {
	return board.Position{Kind: m.DestType, Index: m.DestIndex}
}

func (m Move) secondaryDestPosition() board.Position {
	return board.Position{Kind: m.SecondaryDestType, Index: m.SecondaryDestIndex}
}

// Equal reports whether two moves describe the same action across every
// selector-comparable field. game/selector does its structured-field
// matching (§4.4 rule 4) field by field in filterByFields, not through
// Equal.
func (m Move) Equal(o Move) bool {
	return m.PawnID == o.PawnID &&
		m.TargetPawnID == o.TargetPawnID &&
		m.SecondaryPawnID == o.SecondaryPawnID &&
		m.Direction == o.Direction &&
		m.Steps == o.Steps &&
		m.SecondaryDirection == o.SecondaryDirection &&
		m.SecondarySteps == o.SecondarySteps
}

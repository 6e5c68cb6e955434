package selector

import (
	"github.com/lukelarue/losiento/game/gameerr"
	"github.com/lukelarue/losiento/game/rules"
)

// MoveFields is the structured half of a client payload: a partial
// description of the move to pick, matched field by field against every
// present value. Absent fields (empty string / nil pointer) are not
// compared.
type MoveFields struct {
	PawnID             string `json:"pawnId,omitempty"`
	TargetPawnID       string `json:"targetPawnId,omitempty"`
	SecondaryPawnID    string `json:"secondaryPawnId,omitempty"`
	Direction          string `json:"direction,omitempty"`
	Steps              *int   `json:"steps,omitempty"`
	SecondaryDirection string `json:"secondaryDirection,omitempty"`
	SecondarySteps     *int   `json:"secondarySteps,omitempty"`
}

// Payload is the client's move selection, exactly one of MoveIndex or Move
// expected to be set (both may be absent).
type Payload struct {
	MoveIndex *int        `json:"moveIndex,omitempty"`
	Move      *MoveFields `json:"move,omitempty"`
}

func (p Payload) isEmpty() bool {
	return p.MoveIndex == nil && p.Move == nil
}

// Select resolves payload against the legal moves in moves, applying the
// five ordered rules of §4.4.
func Select(moves []rules.Move, payload Payload) (rules.Move, error) {
	if len(moves) == 0 {
		return rules.Move{}, gameerr.New(gameerr.KindNoLegalMoves, "no legal moves for this card")
	}

	if payload.isEmpty() && len(moves) == 1 {
		return moves[0], nil
	}

	if payload.MoveIndex != nil {
		idx := *payload.MoveIndex
		if idx >= 0 && idx < len(moves) {
			return moves[idx], nil
		}
	}

	if payload.Move != nil {
		matches := filterByFields(moves, payload.Move)
		switch len(matches) {
		case 1:
			return matches[0], nil
		case 0:
			return rules.Move{}, gameerr.New(gameerr.KindInvalidMoveSelectionNoMatch, "no legal move matches the given fields")
		default:
			return rules.Move{}, gameerr.New(gameerr.KindInvalidMoveSelectionAmbiguous, "%d legal moves match the given fields", len(matches))
		}
	}

	// A single remaining candidate is never ambiguous, regardless of why
	// the earlier rules didn't resolve it (an out-of-range moveIndex, an
	// empty payload against more than one original candidate that's since
	// narrowed some other way).
	if len(moves) == 1 {
		return moves[0], nil
	}

	return rules.Move{}, gameerr.New(gameerr.KindMoveSelectionRequired, "ambiguous move; specify moveIndex or move")
}

func filterByFields(moves []rules.Move, f *MoveFields) []rules.Move {
	var out []rules.Move
	for _, m := range moves {
		if f.PawnID != "" && f.PawnID != m.PawnID {
			continue
		}
		if f.TargetPawnID != "" && f.TargetPawnID != m.TargetPawnID {
			continue
		}
		if f.SecondaryPawnID != "" && f.SecondaryPawnID != m.SecondaryPawnID {
			continue
		}
		if f.Direction != "" && rules.Direction(f.Direction) != m.Direction {
			continue
		}
		if f.Steps != nil && *f.Steps != m.Steps {
			continue
		}
		if f.SecondaryDirection != "" && rules.Direction(f.SecondaryDirection) != m.SecondaryDirection {
			continue
		}
		if f.SecondarySteps != nil && *f.SecondarySteps != m.SecondarySteps {
			continue
		}
		out = append(out, m)
	}
	return out
}

package selector

import (
	"testing"

	"github.com/lukelarue/losiento/game/gameerr"
	"github.com/lukelarue/losiento/game/rules"
)

func intPtr(n int) *int { return &n }

func TestSelectNoLegalMoves(t *testing.T) {
	_, err := Select(nil, Payload{})
	if !gameerr.Is(err, gameerr.KindNoLegalMoves) {
		t.Fatalf("Select() error = %v, want KindNoLegalMoves", err)
	}
}

func TestSelectAutoPicksSingleMove(t *testing.T) {
	moves := []rules.Move{{PawnID: "p1"}}
	got, err := Select(moves, Payload{})
	if err != nil {
		t.Fatalf("Select() error = %v", err)
	}
	if got.PawnID != "p1" {
		t.Errorf("Select() = %+v, want p1", got)
	}
}

func TestSelectByMoveIndex(t *testing.T) {
	moves := []rules.Move{{PawnID: "p1"}, {PawnID: "p2"}}
	got, err := Select(moves, Payload{MoveIndex: intPtr(1)})
	if err != nil {
		t.Fatalf("Select() error = %v", err)
	}
	if got.PawnID != "p2" {
		t.Errorf("Select() = %+v, want p2", got)
	}
}

func TestSelectByStructuredFields(t *testing.T) {
	moves := []rules.Move{
		{PawnID: "p1", Direction: rules.DirForward, Steps: 3},
		{PawnID: "p1", Direction: rules.DirForward, Steps: 5},
	}
	got, err := Select(moves, Payload{Move: &MoveFields{PawnID: "p1", Steps: intPtr(5)}})
	if err != nil {
		t.Fatalf("Select() error = %v", err)
	}
	if got.Steps != 5 {
		t.Errorf("Select() = %+v, want Steps=5", got)
	}
}

func TestSelectNoMatch(t *testing.T) {
	moves := []rules.Move{{PawnID: "p1"}}
	_, err := Select(moves, Payload{Move: &MoveFields{PawnID: "does-not-exist"}})
	if !gameerr.Is(err, gameerr.KindInvalidMoveSelectionNoMatch) {
		t.Fatalf("Select() error = %v, want KindInvalidMoveSelectionNoMatch", err)
	}
}

func TestSelectAmbiguous(t *testing.T) {
	moves := []rules.Move{
		{PawnID: "p1", Steps: 3},
		{PawnID: "p1", Steps: 5},
	}
	_, err := Select(moves, Payload{Move: &MoveFields{PawnID: "p1"}})
	if !gameerr.Is(err, gameerr.KindInvalidMoveSelectionAmbiguous) {
		t.Fatalf("Select() error = %v, want KindInvalidMoveSelectionAmbiguous", err)
	}
}

func TestSelectRequiresSelectionWhenMultipleMovesAndNoPayload(t *testing.T) {
	moves := []rules.Move{{PawnID: "p1"}, {PawnID: "p2"}}
	_, err := Select(moves, Payload{})
	if !gameerr.Is(err, gameerr.KindMoveSelectionRequired) {
		t.Fatalf("Select() error = %v, want KindMoveSelectionRequired", err)
	}
}

func TestSelectInvalidIndexFallsThroughToRequired(t *testing.T) {
	moves := []rules.Move{{PawnID: "p1"}, {PawnID: "p2"}}
	_, err := Select(moves, Payload{MoveIndex: intPtr(99)})
	if !gameerr.Is(err, gameerr.KindMoveSelectionRequired) {
		t.Fatalf("Select() error = %v, want KindMoveSelectionRequired", err)
	}
}

// Package rules implements the Lo Siento rules engine: legal move
// enumeration per card and deterministic move application, including bump,
// slide, and safety-diversion resolution. State here is a plain value;
// nothing in this package talks to a store or a network.
package rules

import (
	"github.com/google/uuid"

	"github.com/lukelarue/losiento/game/board"
	"github.com/lukelarue/losiento/game/deck"
)

// Direction is the primary axis of travel a Move encodes.
type Direction string

const (
	DirForward  Direction = "forward"
	DirBackward Direction = "backward"
)

// Result is the outcome tag of a GameState.
type Result string

const (
	ResultActive  Result = "active"
	ResultWin     Result = "win"
	ResultAborted Result = "aborted"
)

// Pawn is one of a seat's four playing pieces.
type Pawn struct {
	ID       string
	Seat     board.Seat
	Position board.Position
}

// GameState is the full, mutable state of one active game: whose turn it
// is, the deck, and every pawn's position. It carries no identifiers or
// metadata that belong to the lobby — see game/session for that.
type GameState struct {
	MaxSeats         int
	TurnNumber       int
	CurrentSeatIndex int
	Deck             *deck.State
	Pawns            []Pawn
	WinnerSeatIndex  *int
	Result           Result
}

// NewGame builds the starting state for maxSeats players: four pawns per
// seat, all in Start, and a freshly shuffled deck.
func NewGame(maxSeats int, seed *int64) *GameState {
	pawns := make([]Pawn, 0, maxSeats*4)
	for s := 0; s < maxSeats; s++ {
		for i := 0; i < 4; i++ {
			pawns = append(pawns, Pawn{
				ID:       uuid.NewString(),
				Seat:     board.Seat(s),
				Position: board.StartPosition(),
			})
		}
	}
	return &GameState{
		MaxSeats:         maxSeats,
		CurrentSeatIndex: 0,
		Deck:             deck.NewDeck(seed),
		Pawns:            pawns,
		Result:           ResultActive,
	}
}

// Clone returns an independent copy: Pawns is copied element-wise, Deck via
// its own Clone, and WinnerSeatIndex gets its own pointer. Safe to mutate
// freely (legal-move enumeration's hypothetical boards, preview projections)
// without touching the original.
func (g *GameState) Clone() *GameState {
	cp := *g
	cp.Pawns = append([]Pawn(nil), g.Pawns...)
	if g.Deck != nil {
		cp.Deck = g.Deck.Clone()
	}
	if g.WinnerSeatIndex != nil {
		w := *g.WinnerSeatIndex
		cp.WinnerSeatIndex = &w
	}
	return &cp
}

// PawnsOfSeat returns every pawn belonging to seat, in a stable order.
func (g *GameState) PawnsOfSeat(seat board.Seat) []*Pawn {
	var out []*Pawn
	for i := range g.Pawns {
		if g.Pawns[i].Seat == seat {
			out = append(out, &g.Pawns[i])
		}
	}
	return out
}

// FindPawn looks up a pawn by its stable ID.
func (g *GameState) FindPawn(id string) *Pawn {
	for i := range g.Pawns {
		if g.Pawns[i].ID == id {
			return &g.Pawns[i]
		}
	}
	return nil
}

// bumpToStart sends pawn back to its seat's Start.
func (g *GameState) bumpToStart(id string) {
	if p := g.FindPawn(id); p != nil {
		p.Position = board.StartPosition()
	}
}

// homeCount returns how many of seat's pawns have reached Home.
func (g *GameState) homeCount(seat board.Seat) int {
	n := 0
	for i := range g.Pawns {
		if g.Pawns[i].Seat == seat && g.Pawns[i].Position.Kind == board.KindHome {
			n++
		}
	}
	return n
}

package projection

import (
	"github.com/lukelarue/losiento/game/board"
	"github.com/lukelarue/losiento/game/deck"
	"github.com/lukelarue/losiento/game/gameerr"
	"github.com/lukelarue/losiento/game/rules"
	"github.com/lukelarue/losiento/game/store"
)

// SeatView is a seat's client-facing shape: no LastPlayerID/LastDisplayName,
// which are an internal rejoin bookkeeping detail.
type SeatView struct {
	Index       int    `json:"index"`
	Color       string `json:"color"`
	Status      string `json:"status"`
	IsBot       bool   `json:"isBot"`
	DisplayName string `json:"displayName,omitempty"`
}

// PawnView is one pawn's public position.
type PawnView struct {
	ID            string `json:"id"`
	Seat          int    `json:"seat"`
	PositionKind  string `json:"positionKind"`
	PositionIndex int    `json:"positionIndex,omitempty"`
}

// StateView is the active-game portion of ToClient's output. Deck.Draw's
// remaining order is never exposed — only its length — per §4.8's "deck
// size (not contents)".
type StateView struct {
	CurrentSeatIndex int         `json:"currentSeatIndex"`
	TurnNumber       int         `json:"turnNumber"`
	DeckSize         int         `json:"deckSize"`
	Discard          []deck.Card `json:"discardPile"`
	Result           string      `json:"result"`
	WinnerSeatIndex  *int        `json:"winnerSeatIndex,omitempty"`
	Pawns            []PawnView  `json:"pawns"`
}

// ClientGame is the full toClient(game, viewerUserId) projection of §4.8.
type ClientGame struct {
	GameID          string     `json:"gameId"`
	Phase           string     `json:"phase"`
	Seats           []SeatView `json:"seats"`
	State           *StateView `json:"state,omitempty"`
	ViewerSeatIndex *int       `json:"viewerSeatIndex,omitempty"`
}

// ToClient builds the client-facing snapshot of rec for viewerUserID. The
// result never aliases rec's internal slices — callers can mutate rec
// afterward without this view changing underfoot.
func ToClient(rec *store.GameRecord, viewerUserID string) ClientGame {
	out := ClientGame{
		GameID: rec.GameID,
		Phase:  string(rec.Phase),
		Seats:  make([]SeatView, len(rec.Seats)),
	}

	for i, seat := range rec.Seats {
		out.Seats[i] = SeatView{
			Index:       seat.Index,
			Color:       seat.Color,
			Status:      string(seat.Status),
			IsBot:       seat.IsBot,
			DisplayName: seat.DisplayName,
		}
		if viewerUserID != "" && !seat.IsBot && seat.PlayerID == viewerUserID {
			idx := i
			out.ViewerSeatIndex = &idx
		}
	}

	if rec.State != nil {
		sv := &StateView{
			CurrentSeatIndex: rec.State.CurrentSeatIndex,
			TurnNumber:       rec.State.TurnNumber,
			Result:           string(rec.State.Result),
			Pawns:            make([]PawnView, len(rec.State.Pawns)),
		}
		if rec.State.Deck != nil {
			sv.DeckSize = len(rec.State.Deck.Draw)
			sv.Discard = append([]deck.Card(nil), rec.State.Deck.Discard...)
		}
		if rec.State.WinnerSeatIndex != nil {
			w := *rec.State.WinnerSeatIndex
			sv.WinnerSeatIndex = &w
		}
		for i, p := range rec.State.Pawns {
			sv.Pawns[i] = PawnView{
				ID:            p.ID,
				Seat:          int(p.Seat),
				PositionKind:  p.Position.Kind.String(),
				PositionIndex: p.Position.Index,
			}
		}
		out.State = sv
	}

	return out
}

// MoveDescriptor is one legal move's indexed, client-matchable description
// — the shape the Move Selector's payload fields are matched against.
type MoveDescriptor struct {
	Index              int    `json:"index"`
	PawnID             string `json:"pawnId"`
	TargetPawnID       string `json:"targetPawnId,omitempty"`
	SecondaryPawnID    string `json:"secondaryPawnId,omitempty"`
	Direction          string `json:"direction"`
	Steps              int    `json:"steps"`
	SecondaryDirection string `json:"secondaryDirection,omitempty"`
	SecondarySteps     int    `json:"secondarySteps,omitempty"`
}

// LegalMovers is legalMoversPreview's result shape.
type LegalMovers struct {
	GameID  string           `json:"gameId"`
	Card    deck.Card        `json:"card"`
	PawnIDs []string         `json:"pawnIds"`
	Moves   []MoveDescriptor `json:"moves"`
}

// LegalMoversPreview clones rec's state, draws the next card against the
// clone's RNG continuation, and enumerates that card's legal moves for the
// current seat — all without mutating rec. Deterministic across repeated
// calls for the same (gameId, turnNumber, |discardPile|) because Clone
// reproduces the real deck's RNG continuation bit-for-bit for seeded games.
func LegalMoversPreview(rec *store.GameRecord, viewerUserID string) (LegalMovers, error) {
	if rec.Phase != store.PhaseActive || rec.State == nil {
		return LegalMovers{}, gameerr.New(gameerr.KindGameNotStarted, "game %q is not active", rec.GameID)
	}
	if rec.State.Result != rules.ResultActive {
		return LegalMovers{}, gameerr.New(gameerr.KindGameOver, "game %q has already ended", rec.GameID)
	}

	state := rec.State.Clone()
	seatIdx := board.Seat(state.CurrentSeatIndex)

	card, err := deck.Draw(state.Deck)
	if err != nil {
		return LegalMovers{}, err
	}

	legal := rules.LegalMoves(state, seatIdx, card)
	out := LegalMovers{GameID: rec.GameID, Card: card, Moves: make([]MoveDescriptor, len(legal))}

	seen := make(map[string]bool, len(legal))
	for i, m := range legal {
		out.Moves[i] = MoveDescriptor{
			Index:              i,
			PawnID:             m.PawnID,
			TargetPawnID:       m.TargetPawnID,
			SecondaryPawnID:    m.SecondaryPawnID,
			Direction:          string(m.Direction),
			Steps:              m.Steps,
			SecondaryDirection: string(m.SecondaryDirection),
			SecondarySteps:     m.SecondarySteps,
		}
		if !seen[m.PawnID] {
			seen[m.PawnID] = true
			out.PawnIDs = append(out.PawnIDs, m.PawnID)
		}
	}

	return out, nil
}

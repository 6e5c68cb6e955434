// Package gameerr defines the stable, wire-safe error kinds shared by the
// Rules Engine, Move Selector, Session Manager, and Turn Coordinator. The
// api package maps Kind to an HTTP status; nothing below api ever imports
// net/http.
package gameerr

import (
	"errors"
	"fmt"
)

// Kind is a stable string identifying one class of domain failure. Clients
// are expected to switch on Kind, not on Message.
type Kind string

const (
	KindNoActiveGame                    Kind = "no_active_game"
	KindAlreadyInGame                   Kind = "already_in_game"
	KindNotHost                         Kind = "not_host"
	KindNotInGame                       Kind = "not_in_game"
	KindNotYourTurn                     Kind = "not_your_turn"
	KindGameNotStarted                  Kind = "game_not_started"
	KindGameOver                        Kind = "game_over"
	KindSeatNotOpen                     Kind = "seat_not_open"
	KindInvalidSeat                     Kind = "invalid_seat"
	KindCannotToggleHostSeat            Kind = "cannot_toggle_host_seat"
	KindInsufficientPlayers             Kind = "insufficient_players"
	KindNoHumans                        Kind = "no_humans"
	KindLobbyOnly                       Kind = "lobby_only"
	KindActiveOnly                      Kind = "active_only"
	KindIllegalMove                     Kind = "illegal_move"
	KindNoLegalMoves                    Kind = "no_legal_moves"
	KindMoveSelectionRequired           Kind = "move_selection_required"
	KindInvalidMoveSelectionNoMatch     Kind = "invalid_move_selection_no_match"
	KindInvalidMoveSelectionAmbiguous   Kind = "invalid_move_selection_ambiguous"
	KindConflict                        Kind = "conflict"
	KindNotFound                        Kind = "not_found"
	KindInvalidState                    Kind = "invalid_state"
)

// GameError is the single error type every domain package returns for
// expected, client-facing failures.
type GameError struct {
	Kind    Kind
	Message string
}

func (e *GameError) Error() string {
	if e.Message == "" {
		return string(e.Kind)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// New constructs a GameError with a formatted message.
func New(kind Kind, format string, args ...any) *GameError {
	return &GameError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Is reports whether err is, or wraps, a *GameError of the given kind; the
// lookup goes through errors.As, so a GameError wrapped with %w still
// matches.
func Is(err error, kind Kind) bool {
	var ge *GameError
	return errors.As(err, &ge) && ge.Kind == kind
}

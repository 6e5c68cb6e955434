package turn

import (
	"math/rand"
	"time"

	"github.com/lukelarue/losiento/game/board"
	"github.com/lukelarue/losiento/game/deck"
	"github.com/lukelarue/losiento/game/gameerr"
	"github.com/lukelarue/losiento/game/rules"
	"github.com/lukelarue/losiento/game/selector"
	"github.com/lukelarue/losiento/game/store"
)

// defaultBotVisibilityDelay is the minimum elapsed time since a game's last
// update before a bot may step, so bot turns remain visible to polling
// clients.
const defaultBotVisibilityDelay = time.Second

// Payload is one human turn's move selection: the primary card's pick, and
// an optional follow-up for card 2's extra draw.
type Payload struct {
	Primary selector.Payload
	Second  *selector.Payload
}

// Coordinator implements the Turn Coordinator on top of a Store.
type Coordinator struct {
	store              store.Store
	botVisibilityDelay time.Duration
}

// NewCoordinator builds a Coordinator backed by s, using
// defaultBotVisibilityDelay.
func NewCoordinator(s store.Store) *Coordinator {
	return &Coordinator{store: s, botVisibilityDelay: defaultBotVisibilityDelay}
}

// NewCoordinatorWithDelay builds a Coordinator whose bot-visibility gate
// uses botVisibilityDelay instead of the default, per a deployment's
// game/config.ServerConfig.
func NewCoordinatorWithDelay(s store.Store, botVisibilityDelay time.Duration) *Coordinator {
	return &Coordinator{store: s, botVisibilityDelay: botVisibilityDelay}
}

// isClientSelectionError reports whether err is one of the Move Selector's
// rejections that must abort the whole transaction instead of committing a
// forfeited draw — §4.6 step 3's exception for move_selection_required and
// invalid_move_selection_*.
func isClientSelectionError(err error) bool {
	return gameerr.Is(err, gameerr.KindMoveSelectionRequired) ||
		gameerr.Is(err, gameerr.KindInvalidMoveSelectionNoMatch) ||
		gameerr.Is(err, gameerr.KindInvalidMoveSelectionAmbiguous)
}

// PlayHuman draws a card for userID's seat, resolves payload against the
// legal moves, applies the result, and handles card 2's extra draw. One
// move-history entry is appended per call, keyed by the turnNumber the
// call started on (card 2's extra draw shares that index — it never gets
// its own turnNumber).
func (c *Coordinator) PlayHuman(userID, gameID string, payload Payload) (*store.GameRecord, error) {
	var history *store.MoveRecord

	rec, err := c.store.UpdateGame(gameID, func(r *store.GameRecord) error {
		if err := requireActiveTurn(r, userID); err != nil {
			return err
		}
		seatIdx := board.Seat(r.State.CurrentSeatIndex)
		turnIndex := r.State.TurnNumber

		card, err := deck.Draw(r.State.Deck)
		if err != nil {
			return err
		}

		legal := rules.LegalMoves(r.State, seatIdx, card)
		move, selErr := selector.Select(legal, payload.Primary)
		if selErr != nil {
			if isClientSelectionError(selErr) {
				return selErr
			}
			// no_legal_moves: the draw still commits and the turn is
			// forfeited without movement.
			deck.Discard(r.State.Deck, card)
			r.State.TurnNumber++
			r.State.CurrentSeatIndex = (r.State.CurrentSeatIndex + 1) % r.State.MaxSeats
			history = &store.MoveRecord{Index: turnIndex, SeatIndex: int(seatIdx), PlayerID: userID, Card: card, At: time.Now()}
			return nil
		}

		if err := rules.ApplyMove(r.State, move); err != nil {
			return err
		}
		history = &store.MoveRecord{Index: turnIndex, SeatIndex: int(seatIdx), PlayerID: userID, Card: card, Move: move, At: time.Now()}

		if card == deck.Card2 && r.State.Result == rules.ResultActive {
			playSecondCard(r.State, seatIdx, payload.Second, false)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if history != nil {
		_ = c.store.AppendMove(gameID, *history)
	}
	return rec, nil
}

// BotStep draws and applies a uniformly random legal move for the current
// seat, which must be a bot. Refuses to step if less than
// botVisibilityDelay has elapsed since the game's last update.
func (c *Coordinator) BotStep(gameID string) (*store.GameRecord, error) {
	var history *store.MoveRecord

	rec, err := c.store.UpdateGame(gameID, func(r *store.GameRecord) error {
		if r.Phase != store.PhaseActive || r.State == nil {
			return gameerr.New(gameerr.KindGameNotStarted, "game %q is not active", gameID)
		}
		if r.State.Result != rules.ResultActive {
			return gameerr.New(gameerr.KindGameOver, "game %q has already ended", gameID)
		}
		if time.Since(r.UpdatedAt) < c.botVisibilityDelay {
			return gameerr.New(gameerr.KindInvalidState, "bot step arrived before the visibility delay elapsed")
		}
		seat := r.Seats[r.State.CurrentSeatIndex]
		if !seat.IsBot {
			return gameerr.New(gameerr.KindNotYourTurn, "current seat is not a bot")
		}

		seatIdx := board.Seat(r.State.CurrentSeatIndex)
		turnIndex := r.State.TurnNumber

		card, err := deck.Draw(r.State.Deck)
		if err != nil {
			return err
		}

		legal := rules.LegalMoves(r.State, seatIdx, card)
		if len(legal) == 0 {
			deck.Discard(r.State.Deck, card)
			r.State.TurnNumber++
			r.State.CurrentSeatIndex = (r.State.CurrentSeatIndex + 1) % r.State.MaxSeats
			history = &store.MoveRecord{Index: turnIndex, SeatIndex: int(seatIdx), Card: card, At: time.Now()}
			return nil
		}

		move := legal[rand.Intn(len(legal))]
		if err := rules.ApplyMove(r.State, move); err != nil {
			return err
		}
		history = &store.MoveRecord{Index: turnIndex, SeatIndex: int(seatIdx), Card: card, Move: move, At: time.Now()}

		if card == deck.Card2 && r.State.Result == rules.ResultActive {
			playSecondCard(r.State, seatIdx, nil, true)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if history != nil {
		_ = c.store.AppendMove(gameID, *history)
	}
	return rec, nil
}

// playSecondCard draws and applies the extra card card 2 grants, and
// advances the turn itself when the game didn't end and nothing could be
// (or was) applied. pickRandom (bot) applies a uniformly random legal
// follow-up. Otherwise second, when non-nil, carries a human's follow-up
// selection; nil means "accept no payload" (human with no follow-up
// descriptor), which applies only a sole legal follow-up.
func playSecondCard(state *rules.GameState, seatIdx board.Seat, second *selector.Payload, pickRandom bool) {
	card, err := deck.Draw(state.Deck)
	if err != nil {
		// deck exhausted with nothing to rebuild from; nothing further can
		// be drawn, so the turn simply ends on the first card's result.
		state.CurrentSeatIndex = (state.CurrentSeatIndex + 1) % state.MaxSeats
		state.TurnNumber++
		return
	}

	legal := rules.LegalMoves(state, seatIdx, card)
	var move rules.Move
	applied := false

	switch {
	case len(legal) == 0:
		// no legal follow-up; the card still commits, below.
	case pickRandom:
		move, applied = legal[rand.Intn(len(legal))], true
	case second != nil:
		if m, err := selector.Select(legal, *second); err == nil {
			move, applied = m, true
		}
		// an ambiguous/unmatched follow-up is treated as "no follow-up
		// move": no error is returned, the second card is discarded and
		// the turn advances, below.
	case len(legal) == 1:
		move, applied = legal[0], true
	}

	if applied {
		if err := rules.ApplyMove(state, move); err != nil {
			// ApplyMove recomputes from scratch; a move fresh out of
			// LegalMoves for this exact state cannot fail here.
			applied = false
		} else if card == deck.Card2 && state.Result == rules.ResultActive {
			// Only one extra draw is ever granted per turn: if the extra
			// card drawn happens to itself be a 2, ApplyMove leaves the
			// seat and turn number untouched (it can't tell this 2 is the
			// second one), so the advance that ends the turn has to
			// happen here instead.
			state.CurrentSeatIndex = (state.CurrentSeatIndex + 1) % state.MaxSeats
			state.TurnNumber++
		}
	}
	if !applied {
		deck.Discard(state.Deck, card)
		if state.Result == rules.ResultActive {
			state.CurrentSeatIndex = (state.CurrentSeatIndex + 1) % state.MaxSeats
			state.TurnNumber++
		}
	}
}

// defaultHistoryLimit and maxHistoryLimit bound HistoryOptions.Limit the
// same way the teacher's GetMoveHistory bounds its page size.
const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

// HistoryOptions configures move-history retrieval: Page is 1-indexed,
// Order is "asc" (oldest first) or "desc" (newest first).
type HistoryOptions struct {
	Page  int
	Limit int
	Order string
}

// HistoryResponse is one page of a game's move history.
type HistoryResponse struct {
	Moves       []store.MoveRecord `json:"moves"`
	TotalMoves  int                `json:"totalMoves"`
	Page        int                `json:"page"`
	PageSize    int                `json:"pageSize"`
	TotalPages  int                `json:"totalPages"`
	HasNext     bool               `json:"hasNext"`
	HasPrevious bool               `json:"hasPrevious"`
}

// History returns one page of gameID's move history, newest-first by
// default, mirroring the teacher's GetMoveHistory pagination.
func (c *Coordinator) History(gameID string, opts HistoryOptions) (*HistoryResponse, error) {
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit <= 0 {
		opts.Limit = defaultHistoryLimit
	}
	if opts.Limit > maxHistoryLimit {
		opts.Limit = maxHistoryLimit
	}
	if opts.Order != "asc" {
		opts.Order = "desc"
	}

	all, err := c.store.ListMoves(gameID)
	if err != nil {
		return nil, err
	}
	total := len(all)

	totalPages := (total + opts.Limit - 1) / opts.Limit
	if totalPages == 0 {
		totalPages = 1
	}

	start := (opts.Page - 1) * opts.Limit
	end := start + opts.Limit
	if end > total {
		end = total
	}

	var moves []store.MoveRecord
	if opts.Order == "desc" {
		for i := total - 1 - start; i >= 0 && i >= total-end; i-- {
			moves = append(moves, all[i])
		}
	} else if start < total {
		moves = append(moves, all[start:end]...)
	}
	if moves == nil {
		moves = []store.MoveRecord{}
	}

	return &HistoryResponse{
		Moves:       moves,
		TotalMoves:  total,
		Page:        opts.Page,
		PageSize:    opts.Limit,
		TotalPages:  totalPages,
		HasNext:     opts.Page < totalPages,
		HasPrevious: opts.Page > 1,
	}, nil
}

func requireActiveTurn(r *store.GameRecord, userID string) error {
	if r.Phase != store.PhaseActive || r.State == nil {
		return gameerr.New(gameerr.KindGameNotStarted, "game %q is not active", r.GameID)
	}
	if r.State.Result != rules.ResultActive {
		return gameerr.New(gameerr.KindGameOver, "game %q has already ended", r.GameID)
	}
	seat := r.Seats[r.State.CurrentSeatIndex]
	if seat.IsBot || seat.PlayerID != userID {
		return gameerr.New(gameerr.KindNotYourTurn, "it is not %q's turn", userID)
	}
	return nil
}

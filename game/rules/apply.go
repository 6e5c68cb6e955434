package rules

import (
	"github.com/lukelarue/losiento/game/board"
	"github.com/lukelarue/losiento/game/deck"
	"github.com/lukelarue/losiento/game/gameerr"
)

// ApplyMove applies move to state, recomputing every destination and bump
// independently rather than trusting move's descriptor fields — only the
// pawn identities, direction, and step counts are taken at face value.
// Card2's extra draw is modeled by never advancing currentSeatIndex for
// that card; the Turn Coordinator observes the unchanged seat and knows to
// draw again. The caller is expected to discard any partial mutation on
// error (the Game Store's updateGame works on a transaction snapshot).
func ApplyMove(state *GameState, move Move) error {
	if state.Result != ResultActive {
		return gameerr.New(gameerr.KindGameOver, "game has already ended")
	}

	pawn := state.FindPawn(move.PawnID)
	if pawn == nil {
		return gameerr.New(gameerr.KindInvalidState, "unknown pawn %q", move.PawnID)
	}

	var err error
	switch {
	case move.Card == deck.CardSorry:
		err = applySorry(state, move)
	case move.Card == deck.Card11 && move.TargetPawnID != "":
		err = applySwitch(state, move)
	case (move.Card == deck.Card1 || move.Card == deck.Card2) && pawn.Position.Kind == board.KindStart:
		err = applyLeaveStart(state, move, pawn)
	case move.Card == deck.Card7 && move.SecondaryPawnID != "":
		err = applySplitSeven(state, move)
	case move.Direction == DirBackward:
		err = applyBackward(state, move, pawn, move.Steps)
	default:
		err = applyForward(state, move, pawn, move.Steps)
	}
	if err != nil {
		return err
	}

	deck.Discard(state.Deck, move.Card)

	if state.homeCount(move.Seat) == 4 {
		winner := int(move.Seat)
		state.WinnerSeatIndex = &winner
		state.Result = ResultWin
		state.TurnNumber++
		return nil
	}

	if move.Card != deck.Card2 {
		state.CurrentSeatIndex = (state.CurrentSeatIndex + 1) % state.MaxSeats
		state.TurnNumber++
	}
	return nil
}

func commitResolution(state *GameState, actingPawnID string, res resolution) {
	pawn := state.FindPawn(actingPawnID)
	pawn.Position = res.dest
	for _, id := range res.bumped {
		state.bumpToStart(id)
	}
}

// matchForwardResolution recomputes every legal outcome of pawn moving
// steps forward and returns the one matching move's declared destination,
// falling back to the first legal outcome if the descriptor doesn't match
// any (a selector bug upstream should never reach this far, but applyMove
// does not trust the descriptor regardless).
func matchForwardResolution(state *GameState, seat board.Seat, pawn *Pawn, steps int, move Move) (resolution, bool) {
	candidates := board.ForwardCandidates(seat, pawn.Position, steps)
	var first *resolution
	for _, cand := range candidates {
		res, ok := resolveForward(state.Pawns, pawn.ID, seat, cand)
		if !ok {
			continue
		}
		if first == nil {
			r := res
			first = &r
		}
		if res.dest.Kind == move.DestType && res.dest.Index == move.DestIndex {
			return res, true
		}
	}
	if first != nil {
		return *first, true
	}
	return resolution{}, false
}

func applyForward(state *GameState, move Move, pawn *Pawn, steps int) error {
	res, ok := matchForwardResolution(state, move.Seat, pawn, steps, move)
	if !ok {
		return gameerr.New(gameerr.KindIllegalMove, "no legal forward destination for pawn %q", pawn.ID)
	}
	commitResolution(state, pawn.ID, res)
	return nil
}

func applyBackward(state *GameState, move Move, pawn *Pawn, steps int) error {
	dest, ok := board.Backward(move.Seat, pawn.Position, steps)
	if !ok {
		return gameerr.New(gameerr.KindIllegalMove, "pawn %q cannot move backward", pawn.ID)
	}
	if occ := occupantIn(state.Pawns, dest); occ != nil {
		if occ.Seat == move.Seat {
			return gameerr.New(gameerr.KindIllegalMove, "destination occupied by own pawn")
		}
		state.bumpToStart(occ.ID)
	}
	pawn.Position = dest
	return nil
}

func applyLeaveStart(state *GameState, move Move, pawn *Pawn) error {
	dest := board.LeaveStart(move.Seat)
	if occ := occupantIn(state.Pawns, dest); occ != nil {
		if occ.Seat == move.Seat {
			return gameerr.New(gameerr.KindIllegalMove, "start exit occupied by own pawn")
		}
		state.bumpToStart(occ.ID)
	}
	pawn.Position = dest
	return nil
}

func applySorry(state *GameState, move Move) error {
	actor := state.FindPawn(move.PawnID)
	target := state.FindPawn(move.TargetPawnID)
	if actor == nil || target == nil {
		return gameerr.New(gameerr.KindIllegalMove, "unknown pawn in Sorry! move")
	}
	if actor.Position.Kind != board.KindStart {
		return gameerr.New(gameerr.KindIllegalMove, "Sorry! requires the acting pawn to be in Start")
	}
	if target.Position.Kind != board.KindTrack {
		return gameerr.New(gameerr.KindIllegalMove, "Sorry! target must be on the track")
	}
	dest := target.Position
	target.Position = board.StartPosition()
	actor.Position = dest
	return nil
}

func applySwitch(state *GameState, move Move) error {
	p := state.FindPawn(move.PawnID)
	q := state.FindPawn(move.TargetPawnID)
	if p == nil || q == nil {
		return gameerr.New(gameerr.KindIllegalMove, "unknown pawn in switch move")
	}
	if p.Position.Kind != board.KindTrack || q.Position.Kind != board.KindTrack {
		return gameerr.New(gameerr.KindIllegalMove, "switch requires both pawns on the track")
	}
	p.Position, q.Position = q.Position, p.Position
	return nil
}

func applySplitSeven(state *GameState, move Move) error {
	p := state.FindPawn(move.PawnID)
	if p == nil {
		return gameerr.New(gameerr.KindIllegalMove, "unknown pawn in split-7 move")
	}
	res1, ok := matchFirstLegOf(state, move.Seat, p, move.Steps, move.DestType, move.DestIndex)
	if !ok {
		return gameerr.New(gameerr.KindIllegalMove, "no legal first leg for split-7")
	}
	commitResolution(state, p.ID, res1)

	q := state.FindPawn(move.SecondaryPawnID)
	if q == nil {
		return gameerr.New(gameerr.KindIllegalMove, "unknown secondary pawn in split-7 move")
	}
	res2, ok := matchFirstLegOf(state, move.Seat, q, move.SecondarySteps, move.SecondaryDestType, move.SecondaryDestIndex)
	if !ok {
		return gameerr.New(gameerr.KindIllegalMove, "no legal second leg for split-7")
	}
	commitResolution(state, q.ID, res2)
	return nil
}

func matchFirstLegOf(state *GameState, seat board.Seat, pawn *Pawn, steps int, wantType board.Kind, wantIndex int) (resolution, bool) {
	candidates := board.ForwardCandidates(seat, pawn.Position, steps)
	var first *resolution
	for _, cand := range candidates {
		res, ok := resolveForward(state.Pawns, pawn.ID, seat, cand)
		if !ok {
			continue
		}
		if first == nil {
			r := res
			first = &r
		}
		if res.dest.Kind == wantType && res.dest.Index == wantIndex {
			return res, true
		}
	}
	if first != nil {
		return *first, true
	}
	return resolution{}, false
}

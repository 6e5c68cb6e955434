package rules

import (
	"github.com/lukelarue/losiento/game/board"
	"github.com/lukelarue/losiento/game/deck"
)

// LegalMoves enumerates every distinct move the acting seat may make with
// card against state, per §4.3.1.
func LegalMoves(state *GameState, seat board.Seat, card deck.Card) []Move {
	switch card {
	case deck.Card1, deck.Card2:
		return legalMovesOneOrTwo(state, seat, card)
	case deck.Card3, deck.Card5, deck.Card8, deck.Card12:
		return enumerateForward(state, seat, card, int(card), eligiblePawns(state, seat))
	case deck.Card4:
		return enumerateBackward(state, seat, card, 4, eligiblePawns(state, seat))
	case deck.Card10:
		return legalMovesTen(state, seat)
	case deck.Card11:
		return legalMovesEleven(state, seat)
	case deck.Card7:
		return legalMovesSeven(state, seat)
	case deck.CardSorry:
		return legalMovesSorry(state, seat)
	}
	return nil
}

// eligiblePawns returns a seat's pawns that are on the Track or in Safety —
// able to move under a generic forward/backward card (as opposed to a pawn
// in Start, which can only leave under cards 1/2, or a pawn in Home, which
// is finished).
func eligiblePawns(state *GameState, seat board.Seat) []*Pawn {
	var out []*Pawn
	for _, p := range state.PawnsOfSeat(seat) {
		if p.Position.Kind == board.KindTrack || p.Position.Kind == board.KindSafety {
			out = append(out, p)
		}
	}
	return out
}

func startPawns(state *GameState, seat board.Seat) []*Pawn {
	var out []*Pawn
	for _, p := range state.PawnsOfSeat(seat) {
		if p.Position.Kind == board.KindStart {
			out = append(out, p)
		}
	}
	return out
}

func legalMovesOneOrTwo(state *GameState, seat board.Seat, card deck.Card) []Move {
	steps := int(card)
	var moves []Move

	for _, p := range startPawns(state, seat) {
		dest := board.LeaveStart(seat)
		occ := occupantIn(state.Pawns, dest)
		if occ != nil && occ.Seat == seat {
			continue
		}
		moves = append(moves, Move{
			Card: card, Seat: seat, PawnID: p.ID, Direction: DirForward, Steps: steps,
			DestType: dest.Kind, DestIndex: dest.Index,
		})
	}

	moves = append(moves, enumerateForward(state, seat, card, steps, eligiblePawns(state, seat))...)
	return moves
}

// enumerateForward produces one Move per legal forward-candidate outcome
// for every pawn in pawns.
func enumerateForward(state *GameState, seat board.Seat, card deck.Card, steps int, pawns []*Pawn) []Move {
	var moves []Move
	for _, p := range pawns {
		for _, cand := range board.ForwardCandidates(seat, p.Position, steps) {
			res, ok := resolveForward(state.Pawns, p.ID, seat, cand)
			if !ok {
				continue
			}
			moves = append(moves, Move{
				Card: card, Seat: seat, PawnID: p.ID, Direction: DirForward, Steps: steps,
				DestType: res.dest.Kind, DestIndex: res.dest.Index,
			})
		}
	}
	return moves
}

// enumerateBackward produces one Move per legal backward outcome for every
// pawn in pawns. Backward movement never triggers a slide.
func enumerateBackward(state *GameState, seat board.Seat, card deck.Card, steps int, pawns []*Pawn) []Move {
	var moves []Move
	for _, p := range pawns {
		dest, ok := board.Backward(seat, p.Position, steps)
		if !ok {
			continue
		}
		if occ := occupantIn(state.Pawns, dest); occ != nil {
			if occ.Seat == seat {
				continue
			}
		}
		moves = append(moves, Move{
			Card: card, Seat: seat, PawnID: p.ID, Direction: DirBackward, Steps: steps,
			DestType: dest.Kind, DestIndex: dest.Index,
		})
	}
	return moves
}

func legalMovesTen(state *GameState, seat board.Seat) []Move {
	forward := enumerateForward(state, seat, deck.Card10, 10, eligiblePawns(state, seat))
	if len(forward) > 0 {
		return forward
	}
	return enumerateBackward(state, seat, deck.Card10, 1, eligiblePawns(state, seat))
}

func legalMovesEleven(state *GameState, seat board.Seat) []Move {
	moves := enumerateForward(state, seat, deck.Card11, 11, eligiblePawns(state, seat))

	var ownOnTrack []*Pawn
	for _, p := range state.PawnsOfSeat(seat) {
		if p.Position.Kind == board.KindTrack {
			ownOnTrack = append(ownOnTrack, p)
		}
	}
	var oppOnTrack []*Pawn
	for i := range state.Pawns {
		if state.Pawns[i].Seat != seat && state.Pawns[i].Position.Kind == board.KindTrack {
			oppOnTrack = append(oppOnTrack, &state.Pawns[i])
		}
	}

	for _, p := range ownOnTrack {
		for _, q := range oppOnTrack {
			moves = append(moves, Move{
				Card: deck.Card11, Seat: seat, PawnID: p.ID, TargetPawnID: q.ID,
				Direction: DirForward, Steps: 0,
				DestType: q.Position.Kind, DestIndex: q.Position.Index,
			})
		}
	}
	return moves
}

func legalMovesSorry(state *GameState, seat board.Seat) []Move {
	var moves []Move
	starters := startPawns(state, seat)
	if len(starters) == 0 {
		return nil
	}
	var targets []*Pawn
	for i := range state.Pawns {
		if state.Pawns[i].Seat != seat && state.Pawns[i].Position.Kind == board.KindTrack {
			targets = append(targets, &state.Pawns[i])
		}
	}
	for _, p := range starters {
		for _, q := range targets {
			moves = append(moves, Move{
				Card: deck.CardSorry, Seat: seat, PawnID: p.ID, TargetPawnID: q.ID,
				Direction: DirForward, Steps: 0,
				DestType: q.Position.Kind, DestIndex: q.Position.Index,
			})
		}
	}
	return moves
}

func legalMovesSeven(state *GameState, seat board.Seat) []Move {
	moves := enumerateForward(state, seat, deck.Card7, 7, eligiblePawns(state, seat))
	moves = append(moves, splitSevens(state, seat)...)
	return moves
}

// splitSevens enumerates every legal (a, b) split of a 7 over every ordered
// pair of distinct own pawns not in Start, per §4.3.1.
func splitSevens(state *GameState, seat board.Seat) []Move {
	pawns := eligiblePawns(state, seat)
	var moves []Move

	for a := 1; a <= 6; a++ {
		b := 7 - a
		for _, p := range pawns {
			for _, q := range pawns {
				if p.ID == q.ID {
					continue
				}
				for _, cand1 := range board.ForwardCandidates(seat, p.Position, a) {
					res1, ok := resolveForward(state.Pawns, p.ID, seat, cand1)
					if !ok {
						continue
					}

					postPawns := applyResolutionToCopy(state.Pawns, p.ID, res1)
					qPos := positionOf(postPawns, q.ID)
					if qPos.Kind != board.KindTrack && qPos.Kind != board.KindSafety {
						continue // q was bumped to Start by leg one
					}

					for _, cand2 := range board.ForwardCandidates(seat, qPos, b) {
						res2, ok := resolveForward(postPawns, q.ID, seat, cand2)
						if !ok {
							continue
						}
						moves = append(moves, Move{
							Card: deck.Card7, Seat: seat, PawnID: p.ID, Direction: DirForward, Steps: a,
							SecondaryPawnID: q.ID, SecondaryDirection: DirForward, SecondarySteps: b,
							DestType: res1.dest.Kind, DestIndex: res1.dest.Index,
							SecondaryDestType: res2.dest.Kind, SecondaryDestIndex: res2.dest.Index,
						})
					}
				}
			}
		}
	}
	return moves
}

// applyResolutionToCopy returns a copy of pawns with actingPawnID moved to
// res.dest and every bumped pawn returned to its Start.
func applyResolutionToCopy(pawns []Pawn, actingPawnID string, res resolution) []Pawn {
	out := make([]Pawn, len(pawns))
	copy(out, pawns)
	for i := range out {
		if out[i].ID == actingPawnID {
			out[i].Position = res.dest
		}
		for _, id := range res.bumped {
			if out[i].ID == id {
				out[i].Position = board.StartPosition()
			}
		}
	}
	return out
}

func positionOf(pawns []Pawn, id string) board.Position {
	for i := range pawns {
		if pawns[i].ID == id {
			return pawns[i].Position
		}
	}
	return board.Position{}
}

package board

// LeaveStart is the destination of a pawn leaving Start under cards 1 or 2:
// the track space immediately after the end of the seat's own first slide.
func LeaveStart(seat Seat) Position {
	return TrackPosition(StartExit(seat))
}

// ForwardCandidates walks a pawn k spaces forward from pos and returns every
// legal outcome. A pawn on the track that has not yet passed its own safety
// entry on this move produces two candidates — staying on the track, or
// diverting into Safety — since nothing upstream of the safety entry commits
// to either until the move is chosen. Safety and Home positions have no such
// choice and always produce at most one candidate. An empty result means the
// move is illegal (only possible from Start, Home, or by overshooting Home).
func ForwardCandidates(seat Seat, pos Position, k int) []Position {
	if k <= 0 {
		return nil
	}
	switch pos.Kind {
	case KindSafety:
		if dest, ok := forwardInSafety(pos.Index, k); ok {
			return []Position{dest}
		}
		return nil
	case KindTrack:
		var out []Position
		out = append(out, TrackPosition(pos.Index+k))

		entry := SafetyEntry(seat)
		distToEntry := mod(entry-pos.Index, TrackLen)
		if distToEntry < k {
			remaining := k - distToEntry - 1
			if dest, ok := forwardInSafety(-1, remaining+1); ok {
				out = append(out, dest)
			}
		}
		return out
	default: // Start, Home
		return nil
	}
}

// forwardInSafety walks forward k spaces starting from Safety index i (use
// i == -1 to mean "about to enter Safety[0] on the next step"). Returns
// false if the walk overshoots Home.
func forwardInSafety(i, k int) (Position, bool) {
	newIdx := i + k
	switch {
	case newIdx < SafetyLen:
		return SafetyPosition(newIdx), true
	case newIdx == SafetyLen:
		return HomePosition(), true
	default:
		return Position{}, false
	}
}

// Backward walks a pawn k spaces backward from pos. A pawn in Start or Home
// cannot move backward. A pawn in Safety that would back out past Safety[0]
// exits onto the track space one step before the safety entry and continues
// backward on the track from there.
func Backward(seat Seat, pos Position, k int) (Position, bool) {
	if k <= 0 {
		return Position{}, false
	}
	switch pos.Kind {
	case KindTrack:
		return TrackPosition(pos.Index - k), true
	case KindSafety:
		if pos.Index < k {
			exitSteps := k - pos.Index - 1
			trackIdx := SafetyEntry(seat) - 1 - exitSteps
			return TrackPosition(trackIdx), true
		}
		return SafetyPosition(pos.Index - k), true
	default: // Start, Home
		return Position{}, false
	}
}

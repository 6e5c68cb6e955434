package rules

import "github.com/lukelarue/losiento/game/board"

// resolution is the outcome of resolving one forward walk against a board:
// where the acting pawn ends up, and which other pawns were bumped to
// their Starts along the way (never including the acting pawn itself).
type resolution struct {
	dest   board.Position
	bumped []string
}

// resolveForward applies steps 2 and 3 of the §4.3.1 forward-resolution
// algorithm to one candidate destination already produced by
// board.ForwardCandidates (step 1). Returns ok=false if the candidate turns
// out illegal under the self-bump prohibition.
func resolveForward(pawns []Pawn, actingPawnID string, seat board.Seat, candidate board.Position) (resolution, bool) {
	dest := candidate
	var bumped []string

	if dest.Kind == board.KindTrack {
		if _, _, ok := board.IsSlideStart(dest.Index); ok {
			bumped = append(bumped, slideOccupants(pawns, dest.Index, actingPawnID)...)
			if board.IsSafetyEntrySlideEnd(seat, dest.Index) {
				dest = board.SafetyPosition(0)
			} else {
				end, _ := board.SlideEndFromStart(dest.Index)
				dest = board.TrackPosition(end)
			}
		}
	}

	if occ := occupantIn(pawns, dest); occ != nil && occ.ID != actingPawnID && !containsID(bumped, occ.ID) {
		if occ.Seat == seat {
			return resolution{}, false
		}
		bumped = append(bumped, occ.ID)
	}

	return resolution{dest: dest, bumped: bumped}, true
}

// slideOccupants returns the IDs of every pawn (other than the acting one)
// sitting on any space of the slide starting at slideStart.
func slideOccupants(pawns []Pawn, slideStart int, actingPawnID string) []string {
	spaces, ok := board.SpacesOnSlide(slideStart)
	if !ok {
		return nil
	}
	spaceSet := make(map[int]bool, len(spaces))
	for _, sp := range spaces {
		spaceSet[sp] = true
	}
	var out []string
	for i := range pawns {
		if pawns[i].ID == actingPawnID {
			continue
		}
		if pawns[i].Position.Kind == board.KindTrack && spaceSet[pawns[i].Position.Index] {
			out = append(out, pawns[i].ID)
		}
	}
	return out
}

func containsID(ids []string, id string) bool {
	for _, existing := range ids {
		if existing == id {
			return true
		}
	}
	return false
}

func occupantIn(pawns []Pawn, pos board.Position) *Pawn {
	if pos.Kind == board.KindStart || pos.Kind == board.KindHome {
		return nil
	}
	for i := range pawns {
		if pawns[i].Position == pos {
			return &pawns[i]
		}
	}
	return nil
}

package board

// StartExit is the track space a pawn lands on when it leaves Start: one
// space past the end of the seat's own first slide, (15*seat+5) mod 60.
func StartExit(seat Seat) int {
	return mod(15*int(seat)+5, TrackLen)
}

// FirstSlideStart is the track index where seat's 4-space first slide
// begins: (15*seat+1) mod 60.
func FirstSlideStart(seat Seat) int {
	return mod(15*int(seat)+1, TrackLen)
}

// SecondSlideStart is the track index where seat's 5-space second slide
// begins: 5 normal spaces after the first slide ends.
func SecondSlideStart(seat Seat) int {
	return mod(FirstSlideStart(seat)+FirstSlideLen+5, TrackLen)
}

// SafetyEntry is the track space a forward move may divert from into
// Safety[0]: the second space of seat's own first slide.
func SafetyEntry(seat Seat) int {
	return mod(FirstSlideStart(seat)+1, TrackLen)
}

// IsSlideStart reports whether space is the start of some seat's first or
// second slide, and if so which seat and how long that slide runs.
func IsSlideStart(space int) (seat Seat, length int, ok bool) {
	space = mod(space, TrackLen)
	for s := Seat(0); s < NumSeats; s++ {
		if space == FirstSlideStart(s) {
			return s, FirstSlideLen, true
		}
		if space == SecondSlideStart(s) {
			return s, SecondSlideLen, true
		}
	}
	return 0, 0, false
}

// SlideEndFromStart returns the last track space of the slide beginning at
// start, if start is in fact a slide start.
func SlideEndFromStart(start int) (end int, ok bool) {
	_, length, ok := IsSlideStart(start)
	if !ok {
		return 0, false
	}
	return mod(start+length-1, TrackLen), true
}

// SpacesOnSlide returns every track space occupied by the slide beginning
// at start, in order, including both the start and the end.
func SpacesOnSlide(start int) ([]int, bool) {
	_, length, ok := IsSlideStart(start)
	if !ok {
		return nil, false
	}
	spaces := make([]int, length)
	for i := 0; i < length; i++ {
		spaces[i] = mod(start+i, TrackLen)
	}
	return spaces, true
}

// IsSafetyEntrySlideEnd reports whether landing on slideStart represents a
// move that would normally terminate one step before seat's own safety
// entry — i.e. slideStart is exactly the start of seat's own first slide,
// which always sits one index before SafetyEntry(seat) by construction.
// Under the track's fixed numbering no slide's trailing edge ever lands
// exactly on SafetyEntry(seat)-1 (first-slide ends sit 3 past it and
// second-slide ends 13 past it, modulo 15, for every seat) — this reading is the only one of the two
// descriptions in the forward-resolution algorithm that the numbering can
// actually satisfy, and the one consistent with "the move would normally
// terminate one step before s's own safety entry".
func IsSafetyEntrySlideEnd(seat Seat, slideStart int) bool {
	return mod(slideStart, TrackLen) == FirstSlideStart(seat)
}

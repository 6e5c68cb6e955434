package deck

import (
	"errors"
	"math/rand"
	"time"
)

// ErrEmpty is returned by Draw when both the draw pile and the discard pile
// are empty — every card in play is still on a board, which should not
// happen with a well-formed 45-card deck.
var ErrEmpty = errors.New("deck: no cards left to draw or rebuild from")

// State holds one game's live draw pile, discard pile, and the RNG used to
// produce both the initial shuffle and every subsequent rebuild-from-discard
// shuffle, so that a seeded game stays deterministic across the whole match.
type State struct {
	Draw    []Card
	Discard []Card

	seed     *int64
	rng      *rand.Rand
	shuffles []int // length passed to rng.Shuffle on each call, in order
}

// NewDeck builds the 45-card multiset, shuffles it, and returns the initial
// state. A non-nil seed makes the shuffle — and every later rebuild — fully
// deterministic; without one, the RNG is seeded from the clock.
func NewDeck(seed *int64) *State {
	var rng *rand.Rand
	if seed != nil {
		rng = rand.New(rand.NewSource(*seed))
	} else {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	s := &State{seed: seed, rng: rng}
	s.Draw = composition()
	s.shuffle(s.Draw)
	return s
}

func (s *State) shuffle(cards []Card) {
	s.rng.Shuffle(len(cards), func(i, j int) { cards[i], cards[j] = cards[j], cards[i] })
	s.shuffles = append(s.shuffles, len(cards))
}

// Draw pops the top card. If the draw pile is empty it is rebuilt from the
// discard pile, reshuffled with the same RNG continuation, and the discard
// pile is cleared before the pop.
func Draw(s *State) (Card, error) {
	if len(s.Draw) == 0 {
		if len(s.Discard) == 0 {
			return 0, ErrEmpty
		}
		s.Draw = s.Discard
		s.Discard = nil
		s.shuffle(s.Draw)
	}
	card := s.Draw[0]
	s.Draw = s.Draw[1:]
	return card, nil
}

// Clone returns an independent deck whose RNG continuation is bit-identical
// to s's: Fisher-Yates shuffle consumes entropy as a pure function of slice
// length, so replaying every past shuffle's length against a freshly seeded
// generator reproduces the same internal state s.rng has reached, without
// the two ever sharing a generator. Used by non-mutating previews that must
// simulate "the next draw" without advancing the real deck's RNG. An
// unseeded deck cannot be reproduced this way and gets its own clock-seeded
// RNG instead — preview determinism is only promised for seeded games.
func (s *State) Clone() *State {
	cp := &State{
		Draw:     append([]Card(nil), s.Draw...),
		Discard:  append([]Card(nil), s.Discard...),
		seed:     s.seed,
		shuffles: append([]int(nil), s.shuffles...),
	}
	if s.seed != nil {
		cp.rng = rand.New(rand.NewSource(*s.seed))
		for _, n := range cp.shuffles {
			dummy := make([]struct{}, n)
			cp.rng.Shuffle(n, func(i, j int) { dummy[i], dummy[j] = dummy[j], dummy[i] })
		}
	} else {
		cp.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return cp
}

// Discard appends card to the discard pile.
func Discard(s *State, card Card) {
	s.Discard = append(s.Discard, card)
}

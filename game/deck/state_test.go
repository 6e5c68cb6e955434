package deck

import "testing"

func TestNewDeckComposition(t *testing.T) {
	seed := int64(42)
	s := NewDeck(&seed)
	if len(s.Draw) != 45 {
		t.Fatalf("len(Draw) = %d, want 45", len(s.Draw))
	}
	counts := map[Card]int{}
	for _, c := range s.Draw {
		counts[c]++
	}
	if counts[Card1] != 5 {
		t.Errorf("count of Card1 = %d, want 5", counts[Card1])
	}
	for _, face := range []Card{Card2, Card3, Card4, Card5, Card7, Card8, Card10, Card11, Card12, CardSorry} {
		if counts[face] != 4 {
			t.Errorf("count of %v = %d, want 4", face, counts[face])
		}
	}
}

func TestNewDeckSeededDeterminism(t *testing.T) {
	seed := int64(7)
	a := NewDeck(&seed)
	b := NewDeck(&seed)
	for i := range a.Draw {
		if a.Draw[i] != b.Draw[i] {
			t.Fatalf("seeded decks diverge at index %d: %v vs %v", i, a.Draw[i], b.Draw[i])
		}
	}
}

func TestDrawDepletesDrawPile(t *testing.T) {
	seed := int64(1)
	s := NewDeck(&seed)
	drawn := make([]Card, 0, 45)
	for i := 0; i < 45; i++ {
		c, err := Draw(s)
		if err != nil {
			t.Fatalf("Draw() error at card %d: %v", i, err)
		}
		drawn = append(drawn, c)
		Discard(s, c)
	}
	if len(s.Draw) != 0 {
		t.Fatalf("len(Draw) after draining = %d, want 0", len(s.Draw))
	}
	if len(s.Discard) != 45 {
		t.Fatalf("len(Discard) after draining = %d, want 45", len(s.Discard))
	}
}

func TestDrawRebuildsFromDiscardWhenEmpty(t *testing.T) {
	seed := int64(2)
	s := NewDeck(&seed)
	for i := 0; i < 45; i++ {
		c, err := Draw(s)
		if err != nil {
			t.Fatalf("Draw() error: %v", err)
		}
		Discard(s, c)
	}
	// Draw pile is empty, discard pile holds all 45 cards.
	c, err := Draw(s)
	if err != nil {
		t.Fatalf("Draw() after exhaustion returned error: %v", err)
	}
	if len(s.Discard) != 0 {
		t.Fatalf("len(Discard) after rebuild-and-draw = %d, want 0", len(s.Discard))
	}
	if len(s.Draw) != 44 {
		t.Fatalf("len(Draw) after rebuild-and-draw = %d, want 44", len(s.Draw))
	}
	_ = c
}

func TestDrawErrorsWhenBothPilesEmpty(t *testing.T) {
	seed := int64(3)
	s := NewDeck(&seed)
	s.Draw = nil
	s.Discard = nil
	if _, err := Draw(s); err != ErrEmpty {
		t.Fatalf("Draw() error = %v, want ErrEmpty", err)
	}
}

package store

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/lukelarue/losiento/game/gameerr"
)

func newTestGame(id string) *GameRecord {
	return &GameRecord{
		GameID:   id,
		HostID:   "host-1",
		HostName: "Host",
		Phase:    PhaseLobby,
		Settings: GameSettings{MaxSeats: 4},
		Seats: []Seat{
			{Index: 0, Color: SeatColors[0], Status: SeatJoined, PlayerID: "host-1", DisplayName: "Host"},
			{Index: 1, Color: SeatColors[1], Status: SeatOpen},
			{Index: 2, Color: SeatColors[2], Status: SeatOpen},
			{Index: 3, Color: SeatColors[3], Status: SeatOpen},
		},
	}
}

func TestCreateAndGetGame(t *testing.T) {
	m := NewMemory()
	rec := newTestGame("")
	if err := m.CreateGame(rec); err != nil {
		t.Fatalf("CreateGame() error = %v", err)
	}
	if rec.GameID == "" {
		t.Fatal("CreateGame() did not assign a GameID")
	}

	got, err := m.GetGame(rec.GameID)
	if err != nil {
		t.Fatalf("GetGame() error = %v", err)
	}
	if got.HostID != "host-1" {
		t.Errorf("HostID = %q, want host-1", got.HostID)
	}
}

func TestGetGameNotFound(t *testing.T) {
	m := NewMemory()
	_, err := m.GetGame("does-not-exist")
	if !gameerr.Is(err, gameerr.KindNotFound) {
		t.Fatalf("GetGame() error = %v, want KindNotFound", err)
	}
}

func TestCreateGameDuplicateConflicts(t *testing.T) {
	m := NewMemory()
	rec := newTestGame("fixed-id")
	if err := m.CreateGame(rec); err != nil {
		t.Fatalf("CreateGame() error = %v", err)
	}
	err := m.CreateGame(newTestGame("fixed-id"))
	if !gameerr.Is(err, gameerr.KindConflict) {
		t.Fatalf("CreateGame() error = %v, want KindConflict", err)
	}
}

func TestUpdateGameAppliesMutationAndPersists(t *testing.T) {
	m := NewMemory()
	rec := newTestGame("g1")
	_ = m.CreateGame(rec)

	_, err := m.UpdateGame("g1", func(r *GameRecord) error {
		r.Seats[1].Status = SeatJoined
		r.Seats[1].PlayerID = "user-2"
		return nil
	})
	if err != nil {
		t.Fatalf("UpdateGame() error = %v", err)
	}

	got, _ := m.GetGame("g1")
	if got.Seats[1].Status != SeatJoined || got.Seats[1].PlayerID != "user-2" {
		t.Errorf("Seats[1] = %+v, want joined by user-2", got.Seats[1])
	}
}

func TestUpdateGamePropagatesFnError(t *testing.T) {
	m := NewMemory()
	_ = m.CreateGame(newTestGame("g1"))

	_, err := m.UpdateGame("g1", func(r *GameRecord) error {
		return gameerr.New(gameerr.KindInvalidSeat, "bad seat")
	})
	if !gameerr.Is(err, gameerr.KindInvalidSeat) {
		t.Fatalf("UpdateGame() error = %v, want KindInvalidSeat", err)
	}

	got, _ := m.GetGame("g1")
	if got.Seats[1].Status != SeatOpen {
		t.Errorf("a failed UpdateGame mutated the stored record: %+v", got.Seats[1])
	}
}

func TestUpdateGameNotFound(t *testing.T) {
	m := NewMemory()
	_, err := m.UpdateGame("missing", func(r *GameRecord) error { return nil })
	if !gameerr.Is(err, gameerr.KindNotFound) {
		t.Fatalf("UpdateGame() error = %v, want KindNotFound", err)
	}
}

func TestUpdateGameSerializesConcurrentCallers(t *testing.T) {
	m := NewMemory()
	_ = m.CreateGame(newTestGame("g1"))

	const n = 50
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := m.UpdateGame("g1", func(r *GameRecord) error {
				r.HostName = r.HostName + "x"
				return nil
			})
			if err != nil {
				t.Errorf("UpdateGame() error = %v", err)
			}
		}()
	}
	wg.Wait()

	got, _ := m.GetGame("g1")
	if len(got.HostName) != len("Host")+n {
		t.Errorf("HostName len = %d, want %d (lost update under concurrency)", len(got.HostName), len("Host")+n)
	}
}

func TestAppendAndListMoves(t *testing.T) {
	m := NewMemory()
	_ = m.CreateGame(newTestGame("g1"))

	if err := m.AppendMove("g1", MoveRecord{Index: 0, SeatIndex: 0}); err != nil {
		t.Fatalf("AppendMove() error = %v", err)
	}
	if err := m.AppendMove("g1", MoveRecord{Index: 1, SeatIndex: 1}); err != nil {
		t.Fatalf("AppendMove() error = %v", err)
	}

	moves, err := m.ListMoves("g1")
	if err != nil {
		t.Fatalf("ListMoves() error = %v", err)
	}
	if len(moves) != 2 || moves[0].Index != 0 || moves[1].Index != 1 {
		t.Errorf("ListMoves() = %+v, want two ordered entries", moves)
	}
}

func TestListGameIDs(t *testing.T) {
	m := NewMemory()
	_ = m.CreateGame(newTestGame("a"))
	_ = m.CreateGame(newTestGame("b"))

	ids, err := m.ListGameIDs()
	if err != nil {
		t.Fatalf("ListGameIDs() error = %v", err)
	}
	if len(ids) != 2 {
		t.Errorf("ListGameIDs() = %v, want 2 entries", ids)
	}
}

func TestActiveGameMapping(t *testing.T) {
	m := NewMemory()
	if _, ok, _ := m.GetActiveGame("u1"); ok {
		t.Fatal("GetActiveGame() reported an active game before any was set")
	}

	if err := m.SetActiveGame("u1", "g1"); err != nil {
		t.Fatalf("SetActiveGame() error = %v", err)
	}
	gameID, ok, _ := m.GetActiveGame("u1")
	if !ok || gameID != "g1" {
		t.Errorf("GetActiveGame() = (%q, %v), want (g1, true)", gameID, ok)
	}

	if err := m.ClearActiveGame("u1"); err != nil {
		t.Fatalf("ClearActiveGame() error = %v", err)
	}
	if _, ok, _ := m.GetActiveGame("u1"); ok {
		t.Error("GetActiveGame() still reports active game after ClearActiveGame")
	}
}

func TestListJoinableOnlyLobbyWithOpenSeats(t *testing.T) {
	m := NewMemory()
	_ = m.CreateGame(newTestGame("lobby-open"))

	full := newTestGame("lobby-full")
	for i := range full.Seats {
		full.Seats[i].Status = SeatJoined
	}
	_ = m.CreateGame(full)

	active := newTestGame("active")
	active.Phase = PhaseActive
	_ = m.CreateGame(active)

	joinable, err := m.ListJoinable()
	if err != nil {
		t.Fatalf("ListJoinable() error = %v", err)
	}
	if len(joinable) != 1 || joinable[0].GameID != "lobby-open" {
		t.Errorf("ListJoinable() = %v, want only lobby-open", joinable)
	}
}

func TestListJoinableNewestFirst(t *testing.T) {
	m := NewMemory()
	_ = m.CreateGame(newTestGame("first"))
	time.Sleep(2 * time.Millisecond)
	_ = m.CreateGame(newTestGame("second"))
	time.Sleep(2 * time.Millisecond)
	_ = m.CreateGame(newTestGame("third"))

	joinable, err := m.ListJoinable()
	if err != nil {
		t.Fatalf("ListJoinable() error = %v", err)
	}
	if len(joinable) != 3 {
		t.Fatalf("ListJoinable() = %d entries, want 3", len(joinable))
	}
	want := []string{"third", "second", "first"}
	for i, id := range want {
		if joinable[i].GameID != id {
			t.Errorf("joinable[%d].GameID = %q, want %q (newest-first)", i, joinable[i].GameID, id)
		}
	}
}

func TestListJoinableCappedAtMaxPage(t *testing.T) {
	m := NewMemory()
	for i := 0; i < maxJoinablePage+10; i++ {
		_ = m.CreateGame(newTestGame(fmt.Sprintf("g-%d", i)))
	}

	joinable, err := m.ListJoinable()
	if err != nil {
		t.Fatalf("ListJoinable() error = %v", err)
	}
	if len(joinable) != maxJoinablePage {
		t.Errorf("ListJoinable() = %d entries, want capped at %d", len(joinable), maxJoinablePage)
	}
}

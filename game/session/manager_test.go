package session

import (
	"testing"

	"github.com/lukelarue/losiento/game/gameerr"
	"github.com/lukelarue/losiento/game/rules"
	"github.com/lukelarue/losiento/game/store"
)

func newTestManager() *Manager {
	return NewManager(store.NewMemory())
}

func TestHostCreatesLobbyWithHostInSeatZero(t *testing.T) {
	m := newTestManager()
	rec, err := m.Host("u1", "Alice", 4)
	if err != nil {
		t.Fatalf("Host() error = %v", err)
	}
	if rec.Phase != store.PhaseLobby {
		t.Errorf("Phase = %q, want lobby", rec.Phase)
	}
	if rec.Seats[0].PlayerID != "u1" || rec.Seats[0].Status != store.SeatJoined {
		t.Errorf("Seats[0] = %+v, want u1 joined", rec.Seats[0])
	}
	for i := 1; i < len(rec.Seats); i++ {
		if rec.Seats[i].Status != store.SeatOpen {
			t.Errorf("Seats[%d] = %+v, want open", i, rec.Seats[i])
		}
	}
}

func TestHostRejectsSecondActiveGame(t *testing.T) {
	m := newTestManager()
	if _, err := m.Host("u1", "Alice", 4); err != nil {
		t.Fatalf("Host() error = %v", err)
	}
	_, err := m.Host("u1", "Alice", 4)
	if !gameerr.Is(err, gameerr.KindAlreadyInGame) {
		t.Fatalf("Host() error = %v, want KindAlreadyInGame", err)
	}
}

func TestHostRejectsBadMaxSeats(t *testing.T) {
	m := newTestManager()
	_, err := m.Host("u1", "Alice", 1)
	if err == nil {
		t.Fatal("Host() with maxSeats=1 should fail")
	}
}

func TestJoinClaimsLowestOpenSeat(t *testing.T) {
	m := newTestManager()
	rec, _ := m.Host("u1", "Alice", 4)

	joined, err := m.Join("u2", rec.GameID, "Bob")
	if err != nil {
		t.Fatalf("Join() error = %v", err)
	}
	if joined.Seats[1].PlayerID != "u2" {
		t.Errorf("Seats[1] = %+v, want u2", joined.Seats[1])
	}
}

func TestJoinRejectsWhenNoOpenSeats(t *testing.T) {
	m := newTestManager()
	rec, _ := m.Host("u1", "Alice", 2)
	if _, err := m.Join("u2", rec.GameID, "Bob"); err != nil {
		t.Fatalf("Join() error = %v", err)
	}
	_, err := m.Join("u3", rec.GameID, "Carol")
	if !gameerr.Is(err, gameerr.KindSeatNotOpen) {
		t.Fatalf("Join() error = %v, want KindSeatNotOpen", err)
	}
}

func TestJoinRejectsAlreadyInGame(t *testing.T) {
	m := newTestManager()
	rec1, _ := m.Host("u1", "Alice", 4)
	rec2, _ := m.Host("u2", "Bob", 4)

	_, err := m.Join("u1", rec2.GameID, "Alice")
	if !gameerr.Is(err, gameerr.KindAlreadyInGame) {
		t.Fatalf("Join() error = %v, want KindAlreadyInGame", err)
	}
	_ = rec1
}

func TestConfigureSeatToBotClearsMapping(t *testing.T) {
	m := newTestManager()
	rec, _ := m.Host("u1", "Alice", 4)
	_, _ = m.Join("u2", rec.GameID, "Bob")

	updated, err := m.ConfigureSeat("u1", rec.GameID, 1, true)
	if err != nil {
		t.Fatalf("ConfigureSeat() error = %v", err)
	}
	if !updated.Seats[1].IsBot || updated.Seats[1].Status != store.SeatBot {
		t.Errorf("Seats[1] = %+v, want bot", updated.Seats[1])
	}
	if updated.Seats[1].LastPlayerID != "u2" {
		t.Errorf("Seats[1].LastPlayerID = %q, want u2", updated.Seats[1].LastPlayerID)
	}
}

func TestConfigureSeatRejectsNonHost(t *testing.T) {
	m := newTestManager()
	rec, _ := m.Host("u1", "Alice", 4)
	_, err := m.ConfigureSeat("u2", rec.GameID, 1, true)
	if !gameerr.Is(err, gameerr.KindNotHost) {
		t.Fatalf("ConfigureSeat() error = %v, want KindNotHost", err)
	}
}

func TestConfigureSeatRejectsSeatZero(t *testing.T) {
	m := newTestManager()
	rec, _ := m.Host("u1", "Alice", 4)
	_, err := m.ConfigureSeat("u1", rec.GameID, 0, true)
	if !gameerr.Is(err, gameerr.KindCannotToggleHostSeat) {
		t.Fatalf("ConfigureSeat() error = %v, want KindCannotToggleHostSeat", err)
	}
}

func TestKickClearsOccupantMapping(t *testing.T) {
	m := newTestManager()
	rec, _ := m.Host("u1", "Alice", 4)
	_, _ = m.Join("u2", rec.GameID, "Bob")

	updated, err := m.Kick("u1", rec.GameID, 1)
	if err != nil {
		t.Fatalf("Kick() error = %v", err)
	}
	if !updated.Seats[1].IsBot {
		t.Errorf("Seats[1] = %+v, want bot after kick", updated.Seats[1])
	}

	// u2 should now be free to host again.
	if _, err := m.Host("u2", "Bob", 2); err != nil {
		t.Errorf("Host() after kick error = %v, want nil", err)
	}
}

func TestLeaveNonHostBecomesBotAndGameContinues(t *testing.T) {
	m := newTestManager()
	rec, _ := m.Host("u1", "Alice", 4)
	_, _ = m.Join("u2", rec.GameID, "Bob")

	if err := m.Leave("u2", rec.GameID); err != nil {
		t.Fatalf("Leave() error = %v", err)
	}

	again, err := m.Join("u2", rec.GameID, "Bob")
	if err != nil {
		t.Fatalf("rejoining as new player after Leave() error = %v", err)
	}
	if again.Phase != store.PhaseLobby {
		t.Errorf("Phase = %q, want lobby (game continues)", again.Phase)
	}
}

func TestLeaveHostInLobbyAbortsGame(t *testing.T) {
	m := newTestManager()
	rec, _ := m.Host("u1", "Alice", 4)
	_, _ = m.Join("u2", rec.GameID, "Bob")

	if err := m.Leave("u1", rec.GameID); err != nil {
		t.Fatalf("Leave() error = %v", err)
	}

	// u2's mapping should be cleared too.
	if _, err := m.Host("u2", "Bob", 2); err != nil {
		t.Errorf("Host() after host-leave error = %v, want nil", err)
	}
}

func TestLeaveHostActiveAbortsGame(t *testing.T) {
	s := store.NewMemory()
	m := NewManager(s)
	rec, _ := m.Host("u1", "Alice", 2)
	_, _ = m.Join("u2", rec.GameID, "Bob")
	if _, err := m.Start("u1", rec.GameID); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	if err := m.Leave("u1", rec.GameID); err != nil {
		t.Fatalf("Leave() error = %v", err)
	}

	got, err := s.GetGame(rec.GameID)
	if err != nil {
		t.Fatalf("GetGame() error = %v", err)
	}
	if got.Phase != store.PhaseAborted {
		t.Errorf("Phase = %q, want aborted", got.Phase)
	}
	if got.State.Result != rules.ResultAborted {
		t.Errorf("State.Result = %q, want aborted", got.State.Result)
	}

	// u2's mapping should be cleared by the abort.
	if _, err := m.Host("u2", "Bob", 2); err != nil {
		t.Errorf("Host() after abort error = %v, want nil", err)
	}
}

func TestStartRequiresTwoOccupiedAndOneHuman(t *testing.T) {
	m := newTestManager()
	rec, _ := m.Host("u1", "Alice", 4)

	_, err := m.Start("u1", rec.GameID)
	if !gameerr.Is(err, gameerr.KindInsufficientPlayers) {
		t.Fatalf("Start() error = %v, want KindInsufficientPlayers", err)
	}

	_, _ = m.ConfigureSeat("u1", rec.GameID, 1, true)
	started, err := m.Start("u1", rec.GameID)
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if started.Phase != store.PhaseActive {
		t.Errorf("Phase = %q, want active", started.Phase)
	}
	if started.State == nil || started.State.CurrentSeatIndex != 0 || started.State.TurnNumber != 0 {
		t.Errorf("State = %+v, want fresh active state", started.State)
	}
}

func TestRejoinRebindsConvertedSeat(t *testing.T) {
	m := newTestManager()
	rec, _ := m.Host("u1", "Alice", 2)
	_, _ = m.Join("u2", rec.GameID, "Bob")
	if _, err := m.Start("u1", rec.GameID); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if err := m.Leave("u2", rec.GameID); err != nil {
		t.Fatalf("Leave() error = %v", err)
	}

	rejoined, err := m.Rejoin("u2")
	if err != nil {
		t.Fatalf("Rejoin() error = %v", err)
	}
	if rejoined.Seats[1].IsBot || rejoined.Seats[1].PlayerID != "u2" {
		t.Errorf("Seats[1] = %+v, want rebound to u2", rejoined.Seats[1])
	}
}

func TestRejoinFailsWithNoEligibleSeat(t *testing.T) {
	m := newTestManager()
	_, err := m.Rejoin("nobody")
	if !gameerr.Is(err, gameerr.KindNoActiveGame) {
		t.Fatalf("Rejoin() error = %v, want KindNoActiveGame", err)
	}
}

package session

import (
	"github.com/lukelarue/losiento/game/gameerr"
	"github.com/lukelarue/losiento/game/rules"
	"github.com/lukelarue/losiento/game/store"
)

// JoinableGame is the summary shape §6's GET joinable returns.
type JoinableGame struct {
	GameID         string `json:"gameId"`
	HostName       string `json:"hostName"`
	CurrentPlayers int    `json:"currentPlayers"`
	MaxSeats       int    `json:"maxSeats"`
}

// Manager implements the Session Manager on top of a Store.
type Manager struct {
	store store.Store
}

// NewManager builds a Manager backed by s.
func NewManager(s store.Store) *Manager {
	return &Manager{store: s}
}

// Host creates a new lobby with userID seated as host in seat 0.
func (m *Manager) Host(userID, displayName string, maxSeats int) (*store.GameRecord, error) {
	if maxSeats < 2 || maxSeats > 4 {
		return nil, gameerr.New(gameerr.KindInvalidState, "maxSeats must be in [2,4], got %d", maxSeats)
	}
	if gameID, ok, _ := m.store.GetActiveGame(userID); ok && gameID != "" {
		return nil, gameerr.New(gameerr.KindAlreadyInGame, "user %q already has an active game", userID)
	}

	seats := make([]store.Seat, maxSeats)
	for i := range seats {
		seats[i] = store.Seat{Index: i, Color: store.SeatColors[i], Status: store.SeatOpen}
	}
	seats[0] = store.Seat{
		Index:       0,
		Color:       store.SeatColors[0],
		Status:      store.SeatJoined,
		PlayerID:    userID,
		DisplayName: displayName,
	}

	rec := &store.GameRecord{
		HostID:   userID,
		HostName: displayName,
		Phase:    store.PhaseLobby,
		Settings: store.GameSettings{MaxSeats: maxSeats},
		Seats:    seats,
	}
	if err := m.store.CreateGame(rec); err != nil {
		return nil, err
	}
	if err := m.store.SetActiveGame(userID, rec.GameID); err != nil {
		return nil, err
	}
	return rec, nil
}

// ListJoinable returns every lobby-phase game with an open seat.
func (m *Manager) ListJoinable() ([]JoinableGame, error) {
	recs, err := m.store.ListJoinable()
	if err != nil {
		return nil, err
	}
	out := make([]JoinableGame, 0, len(recs))
	for _, rec := range recs {
		out = append(out, JoinableGame{
			GameID:         rec.GameID,
			HostName:       rec.HostName,
			CurrentPlayers: occupiedSeats(rec),
			MaxSeats:       rec.Settings.MaxSeats,
		})
	}
	return out, nil
}

// Join claims the lowest-index open seat of gameID for userID.
func (m *Manager) Join(userID, gameID, displayName string) (*store.GameRecord, error) {
	if existing, ok, _ := m.store.GetActiveGame(userID); ok && existing != "" {
		return nil, gameerr.New(gameerr.KindAlreadyInGame, "user %q already has an active game", userID)
	}

	rec, err := m.store.UpdateGame(gameID, func(r *store.GameRecord) error {
		if r.Phase != store.PhaseLobby {
			return gameerr.New(gameerr.KindLobbyOnly, "game %q is not in lobby", gameID)
		}
		idx := -1
		for i := range r.Seats {
			if r.Seats[i].Status == store.SeatOpen {
				idx = i
				break
			}
		}
		if idx == -1 {
			return gameerr.New(gameerr.KindSeatNotOpen, "no open seat in game %q", gameID)
		}
		r.Seats[idx] = store.Seat{
			Index:       idx,
			Color:       r.Seats[idx].Color,
			Status:      store.SeatJoined,
			PlayerID:    userID,
			DisplayName: displayName,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if err := m.store.SetActiveGame(userID, gameID); err != nil {
		return nil, err
	}
	return rec, nil
}

// ConfigureSeat toggles seatIndex between human and bot. Only the host may
// call it, only in the lobby, and never on seat 0.
func (m *Manager) ConfigureSeat(userID, gameID string, seatIndex int, isBot bool) (*store.GameRecord, error) {
	var clearedUserID string
	rec, err := m.store.UpdateGame(gameID, func(r *store.GameRecord) error {
		if r.HostID != userID {
			return gameerr.New(gameerr.KindNotHost, "user %q is not host of game %q", userID, gameID)
		}
		if r.Phase != store.PhaseLobby {
			return gameerr.New(gameerr.KindLobbyOnly, "game %q is not in lobby", gameID)
		}
		if seatIndex == 0 {
			return gameerr.New(gameerr.KindCannotToggleHostSeat, "seat 0 is the host seat")
		}
		if seatIndex < 0 || seatIndex >= len(r.Seats) {
			return gameerr.New(gameerr.KindInvalidSeat, "seat %d does not exist", seatIndex)
		}
		seat := &r.Seats[seatIndex]
		if isBot {
			if seat.Status == store.SeatJoined {
				clearedUserID = seat.PlayerID
				seat.LastPlayerID = seat.PlayerID
				seat.LastDisplayName = seat.DisplayName
			}
			seat.Status = store.SeatBot
			seat.IsBot = true
			seat.PlayerID = ""
			seat.DisplayName = ""
		} else {
			seat.Status = store.SeatOpen
			seat.IsBot = false
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if clearedUserID != "" {
		_ = m.store.ClearActiveGame(clearedUserID)
	}
	return rec, nil
}

// Kick forces seatIndex to bot, clearing its occupant's active-game
// mapping. Host-only; allowed in lobby and active phases.
func (m *Manager) Kick(userID, gameID string, seatIndex int) (*store.GameRecord, error) {
	var clearedUserID string
	rec, err := m.store.UpdateGame(gameID, func(r *store.GameRecord) error {
		if r.HostID != userID {
			return gameerr.New(gameerr.KindNotHost, "user %q is not host of game %q", userID, gameID)
		}
		if seatIndex < 0 || seatIndex >= len(r.Seats) {
			return gameerr.New(gameerr.KindInvalidSeat, "seat %d does not exist", seatIndex)
		}
		seat := &r.Seats[seatIndex]
		if seat.Status != store.SeatJoined {
			return gameerr.New(gameerr.KindInvalidSeat, "seat %d has no player to kick", seatIndex)
		}
		clearedUserID = seat.PlayerID
		seat.LastPlayerID = seat.PlayerID
		seat.LastDisplayName = seat.DisplayName
		seat.Status = store.SeatBot
		seat.IsBot = true
		seat.PlayerID = ""
		seat.DisplayName = ""
		return nil
	})
	if err != nil {
		return nil, err
	}
	if clearedUserID != "" {
		_ = m.store.ClearActiveGame(clearedUserID)
	}
	return rec, nil
}

// Leave removes userID from gameID. Host departure aborts an active game or
// disposes of a lobby; a non-host's seat becomes bot and the game
// continues.
func (m *Manager) Leave(userID, gameID string) error {
	var toClear []string
	_, err := m.store.UpdateGame(gameID, func(r *store.GameRecord) error {
		if r.HostID == userID {
			switch r.Phase {
			case store.PhaseActive:
				r.Phase = store.PhaseAborted
				r.AbortedReason = "host left the game"
				if r.State != nil {
					r.State.Result = rules.ResultAborted
				}
				for i := range r.Seats {
					if r.Seats[i].PlayerID != "" {
						toClear = append(toClear, r.Seats[i].PlayerID)
					}
				}
			case store.PhaseLobby:
				r.Phase = store.PhaseAborted
				r.AbortedReason = "host left the lobby"
				for i := range r.Seats {
					if r.Seats[i].PlayerID != "" {
						toClear = append(toClear, r.Seats[i].PlayerID)
					}
				}
			default:
				return gameerr.New(gameerr.KindInvalidState, "game %q is not in lobby or active", gameID)
			}
			return nil
		}

		idx := findSeatByPlayer(r, userID)
		if idx == -1 {
			return gameerr.New(gameerr.KindNotInGame, "user %q is not seated in game %q", userID, gameID)
		}
		seat := &r.Seats[idx]
		seat.LastPlayerID = seat.PlayerID
		seat.LastDisplayName = seat.DisplayName
		seat.Status = store.SeatBot
		seat.IsBot = true
		seat.PlayerID = ""
		seat.DisplayName = ""
		toClear = append(toClear, userID)
		return nil
	})
	if err != nil {
		return err
	}
	for _, u := range toClear {
		_ = m.store.ClearActiveGame(u)
	}
	return nil
}

// Start transitions gameID from lobby to active: pawns are initialized,
// the deck is built and shuffled, and the host's requested deckSeed (if
// any) is honored.
func (m *Manager) Start(userID, gameID string) (*store.GameRecord, error) {
	return m.store.UpdateGame(gameID, func(r *store.GameRecord) error {
		if r.HostID != userID {
			return gameerr.New(gameerr.KindNotHost, "user %q is not host of game %q", userID, gameID)
		}
		if r.Phase != store.PhaseLobby {
			return gameerr.New(gameerr.KindLobbyOnly, "game %q is not in lobby", gameID)
		}
		occupied, humans := 0, 0
		for _, seat := range r.Seats {
			if seat.Status != store.SeatOpen {
				occupied++
			}
			if seat.Status == store.SeatJoined {
				humans++
			}
		}
		if occupied < 2 {
			return gameerr.New(gameerr.KindInsufficientPlayers, "need at least 2 occupied seats, have %d", occupied)
		}
		if humans < 1 {
			return gameerr.New(gameerr.KindNoHumans, "at least one seat must be human")
		}

		r.State = rules.NewGame(r.Settings.MaxSeats, r.Settings.DeckSeed)
		r.Phase = store.PhaseActive
		return nil
	})
}

// Rejoin rebinds userID to a seat it previously held and was bot-converted
// from (via Leave or Kick), in an active game. Seats record their most
// recent human occupant in LastPlayerID for exactly this purpose, since
// the authoritative userId -> activeGameId mapping is cleared at
// conversion time.
func (m *Manager) Rejoin(userID string) (*store.GameRecord, error) {
	ids, err := m.store.ListGameIDs()
	if err != nil {
		return nil, err
	}
	for _, gameID := range ids {
		rec, err := m.store.GetGame(gameID)
		if err != nil {
			continue
		}
		if rec.Phase != store.PhaseActive {
			continue
		}
		idx := -1
		for i, seat := range rec.Seats {
			if seat.IsBot && seat.LastPlayerID == userID {
				idx = i
				break
			}
		}
		if idx == -1 {
			continue
		}
		return m.store.UpdateGame(gameID, func(r *store.GameRecord) error {
			seat := &r.Seats[idx]
			if !seat.IsBot || seat.LastPlayerID != userID {
				return gameerr.New(gameerr.KindNoActiveGame, "seat no longer available for rejoin")
			}
			seat.Status = store.SeatJoined
			seat.IsBot = false
			seat.PlayerID = userID
			seat.DisplayName = seat.LastDisplayName
			seat.LastPlayerID = ""
			seat.LastDisplayName = ""
			if err := m.store.SetActiveGame(userID, gameID); err != nil {
				return err
			}
			return nil
		})
	}
	return nil, gameerr.New(gameerr.KindNoActiveGame, "no game to rejoin for user %q", userID)
}

func findSeatByPlayer(r *store.GameRecord, userID string) int {
	for i, seat := range r.Seats {
		if seat.PlayerID == userID {
			return i
		}
	}
	return -1
}

func occupiedSeats(r *store.GameRecord) int {
	n := 0
	for _, seat := range r.Seats {
		if seat.Status != store.SeatOpen {
			n++
		}
	}
	return n
}

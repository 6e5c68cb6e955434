package store

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/lukelarue/losiento/game/gameerr"
)

// defaultMaxUpdateRetries bounds the optimistic-concurrency retry loop in
// UpdateGame before surfacing conflict, per §7.
const defaultMaxUpdateRetries = 3

// maxJoinablePage bounds how many lobby games ListJoinable returns, newest
// first, so a deployment with many stale lobbies doesn't hand the caller an
// unbounded scan.
const maxJoinablePage = 50

// Store is the Game Store contract: persistence for game records and the
// per-user active-game mapping, with linearizable read-modify-write per
// gameId. A real deployment may back this with a replicated document store;
// Memory is the only implementation the core ships.
type Store interface {
	CreateGame(rec *GameRecord) error
	GetGame(gameID string) (*GameRecord, error)
	// UpdateGame runs fn against a private copy of the current record and
	// commits the result with compare-and-set on the record's version,
	// retrying up to maxUpdateRetries times on a concurrent conflicting
	// commit before returning a KindConflict error. fn's returned error
	// (if any) aborts the whole attempt without committing or retrying.
	UpdateGame(gameID string, fn func(*GameRecord) error) (*GameRecord, error)
	AppendMove(gameID string, move MoveRecord) error
	ListMoves(gameID string) ([]MoveRecord, error)
	SetActiveGame(userID string, gameID string) error
	ClearActiveGame(userID string) error
	GetActiveGame(userID string) (string, bool, error)
	ListJoinable() ([]*GameRecord, error)
	// ListGameIDs returns every known gameId, for the rare scans that have
	// no better index to use (e.g. rejoin's seat search).
	ListGameIDs() ([]string, error)
}

type entry struct {
	mu     sync.Mutex
	record *GameRecord
	moves  []MoveRecord
}

// Memory is an in-process Store backed by maps guarded by a coarse registry
// lock plus a per-game mutex, in the style of game/session's Manager: one
// RWMutex over the index, individual game mutations serialized underneath.
type Memory struct {
	mu               sync.RWMutex
	games            map[string]*entry
	activeGames      map[string]string
	maxUpdateRetries int
}

// NewMemory constructs an empty in-memory Store using defaultMaxUpdateRetries.
func NewMemory() *Memory {
	return NewMemoryWithRetries(defaultMaxUpdateRetries)
}

// NewMemoryWithRetries constructs an empty in-memory Store whose UpdateGame
// retries up to maxRetries times, per a deployment's
// game/config.ServerConfig.MaxRetries.
func NewMemoryWithRetries(maxRetries int) *Memory {
	return &Memory{
		games:            make(map[string]*entry),
		activeGames:      make(map[string]string),
		maxUpdateRetries: maxRetries,
	}
}

// NewGameID generates a fresh, globally unique game identifier.
func NewGameID() string {
	return uuid.NewString()
}

// CreateGame inserts rec as a brand-new record. rec.GameID must be unset or
// unique; CreateGame assigns one via NewGameID if empty.
func (m *Memory) CreateGame(rec *GameRecord) error {
	if rec.GameID == "" {
		rec.GameID = NewGameID()
	}
	now := time.Now()
	rec.CreatedAt = now
	rec.UpdatedAt = now

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.games[rec.GameID]; exists {
		return gameerr.New(gameerr.KindConflict, "game %q already exists", rec.GameID)
	}
	m.games[rec.GameID] = &entry{record: rec.Clone()}
	return nil
}

func (m *Memory) lookup(gameID string) (*entry, error) {
	m.mu.RLock()
	e, ok := m.games[gameID]
	m.mu.RUnlock()
	if !ok {
		return nil, gameerr.New(gameerr.KindNotFound, "game %q not found", gameID)
	}
	return e, nil
}

// GetGame returns a snapshot copy of the current record.
func (m *Memory) GetGame(gameID string) (*GameRecord, error) {
	e, err := m.lookup(gameID)
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.record.Clone(), nil
}

// UpdateGame performs an optimistic-concurrency read-modify-write: fn
// receives a private copy it may mutate freely. Since e.mu is held for the
// whole read-modify-write, no other writer can commit while fn runs, so in
// this single-process implementation the version check never fires and one
// pass always suffices; the check and the bounded retry loop are kept as
// the compare-and-set seam for a backend without that lock.
func (m *Memory) UpdateGame(gameID string, fn func(*GameRecord) error) (*GameRecord, error) {
	e, err := m.lookup(gameID)
	if err != nil {
		return nil, err
	}

	for attempt := 0; attempt < m.maxUpdateRetries; attempt++ {
		e.mu.Lock()
		startVersion := e.record.version
		working := e.record.Clone()
		if err := fn(working); err != nil {
			e.mu.Unlock()
			return nil, err
		}
		if e.record.version != startVersion {
			// Another writer committed while fn ran (not reachable while
			// e.mu is held, as here); retry against the fresh copy.
			e.mu.Unlock()
			continue
		}
		working.version = startVersion + 1
		working.UpdatedAt = time.Now()
		e.record = working
		result := working.Clone()
		e.mu.Unlock()
		return result, nil
	}
	return nil, gameerr.New(gameerr.KindConflict, "too many conflicting updates to game %q", gameID)
}

// AppendMove records one move-history entry, indexed by its position in the
// history (the spec's turnNumber at commit time).
func (m *Memory) AppendMove(gameID string, move MoveRecord) error {
	e, err := m.lookup(gameID)
	if err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.moves = append(e.moves, move)
	return nil
}

// ListMoves returns the full move history for gameID, oldest first.
func (m *Memory) ListMoves(gameID string) ([]MoveRecord, error) {
	e, err := m.lookup(gameID)
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]MoveRecord(nil), e.moves...), nil
}

// SetActiveGame records userID's single active game.
func (m *Memory) SetActiveGame(userID string, gameID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.activeGames[userID] = gameID
	return nil
}

// ClearActiveGame removes userID's active-game mapping, if any.
func (m *Memory) ClearActiveGame(userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.activeGames, userID)
	return nil
}

// GetActiveGame returns userID's current gameId, if any.
func (m *Memory) GetActiveGame(userID string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	gameID, ok := m.activeGames[userID]
	return gameID, ok, nil
}

// ListGameIDs returns every known gameId in no particular order.
func (m *Memory) ListGameIDs() ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, 0, len(m.games))
	for id := range m.games {
		out = append(out, id)
	}
	return out, nil
}

// ListJoinable returns lobby-phase games with at least one open seat,
// newest-first, capped at maxJoinablePage entries.
func (m *Memory) ListJoinable() ([]*GameRecord, error) {
	m.mu.RLock()
	entries := make([]*entry, 0, len(m.games))
	for _, e := range m.games {
		entries = append(entries, e)
	}
	m.mu.RUnlock()

	var out []*GameRecord
	for _, e := range entries {
		e.mu.Lock()
		rec := e.record
		if rec.Phase == PhaseLobby {
			for _, seat := range rec.Seats {
				if seat.Status == SeatOpen {
					out = append(out, rec.Clone())
					break
				}
			}
		}
		e.mu.Unlock()
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if len(out) > maxJoinablePage {
		out = out[:maxJoinablePage]
	}
	return out, nil
}

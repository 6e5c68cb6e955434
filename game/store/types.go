package store

import (
	"time"

	"github.com/lukelarue/losiento/game/deck"
	"github.com/lukelarue/losiento/game/rules"
)

// Phase is a GameRecord's lifecycle stage.
type Phase string

const (
	PhaseLobby    Phase = "lobby"
	PhaseActive   Phase = "active"
	PhaseFinished Phase = "finished"
	PhaseAborted  Phase = "aborted"
)

// SeatStatus is a seat's occupancy kind.
type SeatStatus string

const (
	SeatOpen   SeatStatus = "open"
	SeatJoined SeatStatus = "joined"
	SeatBot    SeatStatus = "bot"
)

// SeatColors gives the fixed color assignment for seat index 0..3.
var SeatColors = [4]string{"red", "blue", "yellow", "green"}

// Seat is one of a game's maxSeats slots.
type Seat struct {
	Index       int
	Color       string
	Status      SeatStatus
	IsBot       bool
	PlayerID    string
	DisplayName string

	// LastPlayerID/LastDisplayName record the most recent human occupant of
	// a seat that was converted to bot by leave/kick, so rejoin can rebind
	// the same user back into the same seat.
	LastPlayerID    string
	LastDisplayName string
}

// GameSettings configures a game at host time.
type GameSettings struct {
	MaxSeats int
	DeckSeed *int64
}

// MoveRecord is one committed entry in a game's move history.
type MoveRecord struct {
	Index     int
	SeatIndex int
	PlayerID  string
	Card      deck.Card
	Move      rules.Move
	At        time.Time
}

// GameRecord is the persisted unit the Game Store manages: lobby/seat
// metadata plus, once active, the live rules state.
type GameRecord struct {
	GameID        string
	HostID        string
	HostName      string
	CreatedAt     time.Time
	UpdatedAt     time.Time
	Phase         Phase
	Settings      GameSettings
	Seats         []Seat
	State         *rules.GameState
	AbortedReason string

	// version is bumped on every successful UpdateGame commit; callers never
	// set it directly.
	version int
}

// Clone returns a deep-enough copy for a read-modify-write attempt: Seats is
// copied element-wise, and State, if present, is copied via its own Clone so
// mutating the copy never touches the stored original ahead of commit.
func (g *GameRecord) Clone() *GameRecord {
	cp := *g
	cp.Seats = append([]Seat(nil), g.Seats...)
	if g.State != nil {
		cp.State = g.State.Clone()
	}
	return &cp
}

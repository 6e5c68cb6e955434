// Package session implements the Session Manager: lobby hosting, joining,
// seat configuration, kicking, leaving, starting, and rejoin rebinding,
// all sitting on top of game/store. Grounded on game/session/manager.go's
// Manager in the teacher — same "one registry lock, a store underneath"
// shape, repurposed from single-engine sessions to multi-seat lobby
// records.
package session

// Package selector resolves a client's move payload against the set of
// legal moves the Rules Engine enumerated for a turn, per the five ordered
// rules of §4.4. It has no teacher analog — the teacher's single-player
// game never needs to disambiguate a move — so it is built fresh, in the
// idiom of a small validated request struct filtered against a slice, the
// way api/server.go validates inline request structs before dispatching.
package selector

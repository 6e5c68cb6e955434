// Package projection shapes a store.GameRecord into the client-facing
// views the transport layer serializes: the full game snapshot, and a
// non-mutating preview of the current seat's next draw and its legal
// moves. Grounded on the enrichment helpers in
// game/service/game_service_impl.go (buildLocal3x3, riskCode,
// mapCellToCharAndType) that turn internal engine state into a view
// struct, and on that file's SessionInfo return shape.
package projection

// Package turn implements the Turn Coordinator: draw, enumerate legal
// moves, resolve the client's move selection, apply it, handle card-2's
// extra draw, and advance to the next seat — plus bot steps, which do the
// same thing minus a human payload. Grounded on
// game/service/game_service_impl.go's per-call "get session -> mutate ->
// save" shape, adapted to go through game/store's transactional
// UpdateGame instead of a plain map lookup.
package turn

// Package api provides the HTTP surface of §6 EXTERNAL INTERFACES: a thin
// mux-routed layer over game/session, game/turn, and game/projection. Wire
// format is JSON; field names follow the core's own.
//
// Caller identity is supplied by the transport: every request carries an
// X-User-Id header (or, failing that, a userId query parameter), which the
// core receives as a plain userId argument — this package never
// authenticates it, matching §6's "caller identity is supplied by the
// transport (out of scope)".
//
// Endpoints:
//
//	POST /api/host           {maxSeats, displayName?}        -> game record
//	GET  /api/joinable                                       -> {games: [...]}
//	POST /api/join            {gameId, displayName?}          -> game record
//	POST /api/leave           {gameId}                        -> acknowledgement
//	POST /api/kick            {gameId, seatIndex}             -> game record
//	POST /api/configureSeat   {gameId, seatIndex, isBot}      -> game record
//	POST /api/start           {gameId}                        -> game record
//	GET  /api/state                                           -> game record | 204
//	GET  /api/legalMovers?gameId=...                          -> {gameId, card, pawnIds, moves}
//	POST /api/play            {gameId, payload, second?}      -> game record
//	POST /api/botStep?gameId=...                              -> game record
//	POST /api/rejoin                                          -> game record
//	GET  /api/history?gameId=...&page=&limit=&order=          -> paginated move history
//	GET  /api/health                                          -> liveness
//
// rejoin has no entry in §6's endpoint list but §4.5 names it as a Session
// Manager operation with no other surface to reach it from, so it is
// exposed the same way as every other no-body POST (the game and display
// name come from the bot seat of an active game that recorded the caller's
// userId as its last human occupant).
//
// history and health are supplemental: history paginates the move log the
// Turn Coordinator already appends to on every move, newest-first by
// default (page/limit/order query parameters, capped at 100 per page);
// health is a trivial liveness probe.
//
// Errors are reported as {"error": {"kind": "...", "message": "..."}} with
// the HTTP status §7 maps each gameerr.Kind to.
package api

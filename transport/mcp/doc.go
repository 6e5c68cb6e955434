// Package mcp is a thin MCP client that proxies Lo Siento's §6 REST API as
// a set of callable tools, one per endpoint. Grounded on
// transport/mcp/client.go's "proxy everything to the REST server over
// http.Client, register one mcp.Tool per operation, apiCall as the one
// marshal/unmarshal chokepoint" shape.
//
// Every identity-scoped tool takes a user_id argument (joinable, bot_step,
// history and health take none); the client forwards it as the
// X-User-Id header the api package reads caller identity from — MCP tool
// calls carry no HTTP headers of their own, so identity has to travel as
// an ordinary argument instead.
//
// MCP Tools:
//
//	host            create a lobby and seat the caller as host
//	joinable        list open lobbies
//	join            claim an open seat
//	leave           leave a game
//	kick            host converts a seat to bot
//	configure_seat  host toggles a seat between human and bot
//	start           host starts the game
//	state           the caller's current active game, if any
//	legal_movers    preview the current seat's next draw and its legal moves
//	play            submit a move selection
//	bot_step        advance the current bot seat's turn
//	rejoin          rebind to a seat previously converted to bot
//	history         paginated move history for a game
//	health          liveness check
package mcp

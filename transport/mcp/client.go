package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/lukelarue/losiento/game/projection"
	"github.com/lukelarue/losiento/game/selector"
	"github.com/lukelarue/losiento/game/session"
	"github.com/lukelarue/losiento/game/turn"
)

// Client is a thin MCP client that proxies to the REST API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API at baseURL.
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools.
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Lo Siento",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Lo Siento - MCP Interface

This is a thin client that proxies all requests to the REST API server.

Every identity-scoped tool takes a user_id argument identifying the
caller (joinable, bot_step, history and health take none); the core
treats it as an opaque identity, same as the X-User-Id header the REST
transport reads it from.

AVAILABLE TOOLS:
- host: create a lobby and sit as host
- joinable: list open lobbies
- join: claim an open seat in a lobby
- leave: leave a game (the host leaving aborts it)
- kick: host converts a seat to a bot
- configure_seat: host toggles a lobby seat between human and bot
- start: host starts the game once enough seats are filled
- state: the caller's current active game, or none
- legal_movers: preview the current seat's next draw and its legal moves
- play: submit a move selection for the current seat's turn
- bot_step: advance the current bot seat's turn
- rejoin: rebind to a seat that was converted to bot while away
- history: paginated move history for a game
- health: liveness check`),
	)

	c.registerTools()
}

// registerTools registers all MCP tools.
func (c *Client) registerTools() {
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "host",
		Description: "Create a new lobby and seat the caller as host",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"user_id":      map[string]interface{}{"type": "string", "description": "Caller's user id"},
				"max_seats":    map[string]interface{}{"type": "integer", "description": "Number of seats, 2-4"},
				"display_name": map[string]interface{}{"type": "string", "description": "Host's display name"},
			},
			Required: []string{"user_id", "max_seats"},
		},
	}, c.handleHost)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "joinable",
		Description: "List lobby-phase games with an open seat",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleJoinable)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "join",
		Description: "Claim the lowest-index open seat of a lobby",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"user_id":      map[string]interface{}{"type": "string", "description": "Caller's user id"},
				"game_id":      map[string]interface{}{"type": "string", "description": "Game to join"},
				"display_name": map[string]interface{}{"type": "string", "description": "Joiner's display name"},
			},
			Required: []string{"user_id", "game_id"},
		},
	}, c.handleJoin)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "leave",
		Description: "Leave a game; the host leaving aborts it",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"user_id": map[string]interface{}{"type": "string", "description": "Caller's user id"},
				"game_id": map[string]interface{}{"type": "string", "description": "Game to leave"},
			},
			Required: []string{"user_id", "game_id"},
		},
	}, c.handleLeave)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "kick",
		Description: "Host converts a seat to a bot",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"user_id":    map[string]interface{}{"type": "string", "description": "Caller's user id (must be host)"},
				"game_id":    map[string]interface{}{"type": "string", "description": "Game to act on"},
				"seat_index": map[string]interface{}{"type": "integer", "description": "Seat to kick"},
			},
			Required: []string{"user_id", "game_id", "seat_index"},
		},
	}, c.handleKick)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "configure_seat",
		Description: "Host toggles a lobby seat between human and bot",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"user_id":    map[string]interface{}{"type": "string", "description": "Caller's user id (must be host)"},
				"game_id":    map[string]interface{}{"type": "string", "description": "Game to act on"},
				"seat_index": map[string]interface{}{"type": "integer", "description": "Seat to configure"},
				"is_bot":     map[string]interface{}{"type": "boolean", "description": "true to make the seat a bot, false to open it"},
			},
			Required: []string{"user_id", "game_id", "seat_index", "is_bot"},
		},
	}, c.handleConfigureSeat)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "start",
		Description: "Host starts the game",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"user_id": map[string]interface{}{"type": "string", "description": "Caller's user id (must be host)"},
				"game_id": map[string]interface{}{"type": "string", "description": "Game to start"},
			},
			Required: []string{"user_id", "game_id"},
		},
	}, c.handleStart)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "state",
		Description: "Get the caller's current active game, if any",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"user_id": map[string]interface{}{"type": "string", "description": "Caller's user id"},
			},
			Required: []string{"user_id"},
		},
	}, c.handleState)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "legal_movers",
		Description: "Preview the current seat's next draw and its legal moves",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"user_id": map[string]interface{}{"type": "string", "description": "Caller's user id"},
				"game_id": map[string]interface{}{"type": "string", "description": "Game to preview"},
			},
			Required: []string{"user_id", "game_id"},
		},
	}, c.handleLegalMovers)

	c.mcpServer.AddTool(mcp.Tool{
		Name: "play",
		Description: "Submit a move selection for the current seat's turn. " +
			"move_index picks the Nth legal move from legal_movers; pawn_id picks the move that moves that pawn.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"user_id":    map[string]interface{}{"type": "string", "description": "Caller's user id"},
				"game_id":    map[string]interface{}{"type": "string", "description": "Game to play in"},
				"move_index": map[string]interface{}{"type": "integer", "description": "Index into legal_movers' moves array"},
				"pawn_id":    map[string]interface{}{"type": "string", "description": "Select the move moving this pawn"},
			},
			Required: []string{"user_id", "game_id"},
		},
	}, c.handlePlay)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "bot_step",
		Description: "Advance the current bot seat's turn",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"game_id": map[string]interface{}{"type": "string", "description": "Game to advance"},
			},
			Required: []string{"game_id"},
		},
	}, c.handleBotStep)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "rejoin",
		Description: "Rebind the caller to a seat previously converted to bot while away",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"user_id": map[string]interface{}{"type": "string", "description": "Caller's user id"},
			},
			Required: []string{"user_id"},
		},
	}, c.handleRejoin)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "history",
		Description: "Paginated move history for a game, newest-first by default",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"game_id": map[string]interface{}{"type": "string", "description": "Game whose history to fetch"},
				"page":    map[string]interface{}{"type": "integer", "description": "1-indexed page number, default 1"},
				"limit":   map[string]interface{}{"type": "integer", "description": "Entries per page, default 20, max 100"},
				"order":   map[string]interface{}{"type": "string", "description": "\"asc\" or \"desc\" (default)"},
			},
			Required: []string{"game_id"},
		},
	}, c.handleHistory)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "health",
		Description: "Liveness check against the REST API",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleHealth)
}

// GetMCPServer returns the underlying MCP server for serving.
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

func (c *Client) handleHost(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	userID, _ := args["user_id"].(string)
	displayName, _ := args["display_name"].(string)
	maxSeats := intArg(args, "max_seats")

	var game projection.ClientGame
	body := map[string]interface{}{"maxSeats": maxSeats, "displayName": displayName}
	if err := c.apiCall("POST", "/api/host", userID, body, &game); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatGame(&game)), nil
}

func (c *Client) handleJoinable(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var out struct {
		Games []session.JoinableGame `json:"games"`
	}
	if err := c.apiCall("GET", "/api/joinable", "", nil, &out); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatJoinable(out.Games)), nil
}

func (c *Client) handleJoin(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	userID, _ := args["user_id"].(string)
	gameID, _ := args["game_id"].(string)
	displayName, _ := args["display_name"].(string)

	var game projection.ClientGame
	body := map[string]interface{}{"gameId": gameID, "displayName": displayName}
	if err := c.apiCall("POST", "/api/join", userID, body, &game); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatGame(&game)), nil
}

func (c *Client) handleLeave(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	userID, _ := args["user_id"].(string)
	gameID, _ := args["game_id"].(string)

	var out map[string]bool
	body := map[string]interface{}{"gameId": gameID}
	if err := c.apiCall("POST", "/api/leave", userID, body, &out); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText("Left the game."), nil
}

func (c *Client) handleKick(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	userID, _ := args["user_id"].(string)
	gameID, _ := args["game_id"].(string)
	seatIndex := intArg(args, "seat_index")

	var game projection.ClientGame
	body := map[string]interface{}{"gameId": gameID, "seatIndex": seatIndex}
	if err := c.apiCall("POST", "/api/kick", userID, body, &game); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatGame(&game)), nil
}

func (c *Client) handleConfigureSeat(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	userID, _ := args["user_id"].(string)
	gameID, _ := args["game_id"].(string)
	seatIndex := intArg(args, "seat_index")
	isBot, _ := args["is_bot"].(bool)

	var game projection.ClientGame
	body := map[string]interface{}{"gameId": gameID, "seatIndex": seatIndex, "isBot": isBot}
	if err := c.apiCall("POST", "/api/configureSeat", userID, body, &game); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatGame(&game)), nil
}

func (c *Client) handleStart(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	userID, _ := args["user_id"].(string)
	gameID, _ := args["game_id"].(string)

	var game projection.ClientGame
	body := map[string]interface{}{"gameId": gameID}
	if err := c.apiCall("POST", "/api/start", userID, body, &game); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatGame(&game)), nil
}

func (c *Client) handleState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	userID, _ := args["user_id"].(string)

	var game projection.ClientGame
	if err := c.apiCall("GET", "/api/state", userID, nil, &game); err != nil {
		if err == errNoContent {
			return mcp.NewToolResultText("No active game."), nil
		}
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatGame(&game)), nil
}

func (c *Client) handleLegalMovers(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	userID, _ := args["user_id"].(string)
	gameID, _ := args["game_id"].(string)

	var preview projection.LegalMovers
	if err := c.apiCall("GET", "/api/legalMovers?gameId="+gameID, userID, nil, &preview); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatLegalMovers(&preview)), nil
}

func (c *Client) handlePlay(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	userID, _ := args["user_id"].(string)
	gameID, _ := args["game_id"].(string)

	payload := selector.Payload{}
	if v, ok := args["move_index"]; ok {
		n := intFromAny(v)
		payload.MoveIndex = &n
	}
	if pawnID, ok := args["pawn_id"].(string); ok && pawnID != "" {
		payload.Move = &selector.MoveFields{PawnID: pawnID}
	}

	var game projection.ClientGame
	body := map[string]interface{}{"gameId": gameID, "payload": payload}
	if err := c.apiCall("POST", "/api/play", userID, body, &game); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatGame(&game)), nil
}

func (c *Client) handleBotStep(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	gameID, _ := args["game_id"].(string)

	var game projection.ClientGame
	if err := c.apiCall("POST", "/api/botStep?gameId="+gameID, "", nil, &game); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatGame(&game)), nil
}

func (c *Client) handleRejoin(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	userID, _ := args["user_id"].(string)

	var game projection.ClientGame
	if err := c.apiCall("POST", "/api/rejoin", userID, nil, &game); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatGame(&game)), nil
}

func (c *Client) handleHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	gameID, _ := args["game_id"].(string)

	query := "?gameId=" + gameID
	if v, ok := args["page"]; ok {
		query += fmt.Sprintf("&page=%d", intFromAny(v))
	}
	if v, ok := args["limit"]; ok {
		query += fmt.Sprintf("&limit=%d", intFromAny(v))
	}
	if order, ok := args["order"].(string); ok && order != "" {
		query += "&order=" + order
	}

	var history turn.HistoryResponse
	if err := c.apiCall("GET", "/api/history"+query, "", nil, &history); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatHistory(&history)), nil
}

func (c *Client) handleHealth(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var out map[string]string
	if err := c.apiCall("GET", "/api/health", "", nil, &out); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("status: %s", out["status"])), nil
}

// errNoContent signals a 204 response (api's handleState has no game to report).
var errNoContent = fmt.Errorf("no content")

// apiCall proxies one request to the REST server, setting X-User-Id when
// userID is non-empty.
func (c *Client) apiCall(method, path, userID string, body interface{}, result interface{}) error {
	url := c.baseURL + path

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequest(method, url, reqBody)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if userID != "" {
		req.Header.Set("X-User-Id", userID)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		return errNoContent
	}

	if resp.StatusCode >= 400 {
		var errResp struct {
			Error struct {
				Kind    string `json:"kind"`
				Message string `json:"message"`
			} `json:"error"`
		}
		json.NewDecoder(resp.Body).Decode(&errResp)
		if errResp.Error.Message != "" {
			return fmt.Errorf("%s: %s", errResp.Error.Kind, errResp.Error.Message)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(result)
}

func intArg(args map[string]interface{}, key string) int {
	v, ok := args[key]
	if !ok {
		return 0
	}
	return intFromAny(v)
}

func intFromAny(v interface{}) int {
	switch n := v.(type) {
	case float64:
		return int(n)
	case int:
		return n
	default:
		return 0
	}
}

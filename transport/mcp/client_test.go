package mcp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/lukelarue/losiento/game/projection"
	"github.com/lukelarue/losiento/game/store"
	"github.com/lukelarue/losiento/game/turn"
)

func TestNewClient(t *testing.T) {
	baseURL := "http://localhost:8080"
	client := NewClient(baseURL)

	if client == nil {
		t.Fatal("Expected client to be created")
	}
	if client.baseURL != baseURL {
		t.Errorf("Expected baseURL %s, got %s", baseURL, client.baseURL)
	}
	if client.httpClient == nil {
		t.Error("Expected HTTP client to be initialized")
	}
	if client.mcpServer == nil {
		t.Error("Expected MCP server to be initialized")
	}
}

func TestClient_apiCall(t *testing.T) {
	expected := projection.ClientGame{GameID: "g1", Phase: "lobby"}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-User-Id") != "u1" {
			t.Errorf("X-User-Id = %q, want u1", r.Header.Get("X-User-Id"))
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(expected)
	}))
	defer server.Close()

	client := NewClient(server.URL)

	var got projection.ClientGame
	if err := client.apiCall("GET", "/api/state", "u1", nil, &got); err != nil {
		t.Fatalf("apiCall failed: %v", err)
	}
	if got.GameID != expected.GameID {
		t.Errorf("GameID = %q, want %q", got.GameID, expected.GameID)
	}
}

func TestClient_apiCall_NoContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := NewClient(server.URL)

	var got projection.ClientGame
	err := client.apiCall("GET", "/api/state", "u1", nil, &got)
	if err != errNoContent {
		t.Errorf("err = %v, want errNoContent", err)
	}
}

func TestClient_apiCall_Error(t *testing.T) {
	client := NewClient("http://invalid-url-that-does-not-exist:9999")

	err := client.apiCall("GET", "/api/state", "u1", nil, nil)
	if err == nil {
		t.Error("Expected error for invalid URL")
	}
}

func TestClient_apiCall_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"error": map[string]string{"kind": "invalid_seat", "message": "seat 9 does not exist"},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL)

	err := client.apiCall("POST", "/api/kick", "u1", map[string]int{"seatIndex": 9}, nil)
	if err == nil {
		t.Fatal("Expected error for HTTP 400 response")
	}
	if !strings.Contains(err.Error(), "invalid_seat") {
		t.Errorf("Expected 'invalid_seat' in error message, got: %v", err)
	}
}

func TestClient_handleHost(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" || r.URL.Path != "/api/host" {
			t.Errorf("Expected POST /api/host, got %s %s", r.Method, r.URL.Path)
		}
		seatIdx := 0
		resp := projection.ClientGame{
			GameID:          "g1",
			Phase:           "lobby",
			ViewerSeatIndex: &seatIdx,
			Seats: []projection.SeatView{
				{Index: 0, Color: "red", Status: "joined", DisplayName: "Alice"},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	ctx := context.Background()

	request := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name: "host",
			Arguments: map[string]interface{}{
				"user_id":      "u1",
				"max_seats":    float64(4),
				"display_name": "Alice",
			},
		},
	}

	result, err := client.handleHost(ctx, request)
	if err != nil {
		t.Fatalf("handleHost failed: %v", err)
	}
	if result == nil {
		t.Fatal("Expected result, got nil")
	}

	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatal("Expected text content in result")
	}
	if !strings.Contains(text.Text, "g1") {
		t.Errorf("Expected game id in result, got: %s", text.Text)
	}
}

func TestClient_handleJoinable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{"games": []map[string]interface{}{
			{"gameId": "g1", "hostName": "Alice", "currentPlayers": 1, "maxSeats": 4},
		}})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	ctx := context.Background()

	request := mcp.CallToolRequest{
		Params: mcp.CallToolParams{Name: "joinable", Arguments: map[string]interface{}{}},
	}

	result, err := client.handleJoinable(ctx, request)
	if err != nil {
		t.Fatalf("handleJoinable failed: %v", err)
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatal("Expected text content in result")
	}
	if !strings.Contains(text.Text, "Alice") {
		t.Errorf("Expected host name in result, got: %s", text.Text)
	}
}

func TestClient_handleHistory(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/history" {
			t.Errorf("Expected /api/history, got %s", r.URL.Path)
		}
		if r.URL.Query().Get("gameId") != "g1" {
			t.Errorf("Expected gameId=g1, got %s", r.URL.Query().Get("gameId"))
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(turn.HistoryResponse{
			Moves:      []store.MoveRecord{{Index: 0, SeatIndex: 0}},
			TotalMoves: 1,
			Page:       1,
			PageSize:   20,
			TotalPages: 1,
		})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	ctx := context.Background()

	request := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      "history",
			Arguments: map[string]interface{}{"game_id": "g1"},
		},
	}

	result, err := client.handleHistory(ctx, request)
	if err != nil {
		t.Fatalf("handleHistory failed: %v", err)
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatal("Expected text content in result")
	}
	if !strings.Contains(text.Text, "1") {
		t.Errorf("Expected total moves in result, got: %s", text.Text)
	}
}

func TestClient_handleHealth(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/health" {
			t.Errorf("Expected /api/health, got %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "healthy"})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	ctx := context.Background()

	request := mcp.CallToolRequest{
		Params: mcp.CallToolParams{Name: "health", Arguments: map[string]interface{}{}},
	}

	result, err := client.handleHealth(ctx, request)
	if err != nil {
		t.Fatalf("handleHealth failed: %v", err)
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatal("Expected text content in result")
	}
	if !strings.Contains(text.Text, "healthy") {
		t.Errorf("Expected healthy in result, got: %s", text.Text)
	}
}

func TestFormatGame(t *testing.T) {
	seatIdx := 0
	game := projection.ClientGame{
		GameID:          "g1",
		Phase:           "active",
		ViewerSeatIndex: &seatIdx,
		Seats: []projection.SeatView{
			{Index: 0, Color: "red", Status: "joined", DisplayName: "Alice"},
			{Index: 1, Color: "blue", Status: "bot", IsBot: true},
		},
		State: &projection.StateView{
			CurrentSeatIndex: 0,
			TurnNumber:       3,
			DeckSize:         30,
			Result:           "active",
			Pawns: []projection.PawnView{
				{ID: "red-0", Seat: 0, PositionKind: "start"},
			},
		},
	}

	out := formatGame(&game)
	for _, want := range []string{"g1", "active", "Alice", "turn 3", "red-0"} {
		if !strings.Contains(out, want) {
			t.Errorf("formatGame() missing %q, got: %s", want, out)
		}
	}
}

func TestFormatLegalMovers(t *testing.T) {
	preview := projection.LegalMovers{
		GameID: "g1",
		Card:   4,
		Moves: []projection.MoveDescriptor{
			{Index: 0, PawnID: "red-0", Direction: "backward", Steps: 4},
		},
	}

	out := formatLegalMovers(&preview)
	for _, want := range []string{"red-0", "backward", "[0]"} {
		if !strings.Contains(out, want) {
			t.Errorf("formatLegalMovers() missing %q, got: %s", want, out)
		}
	}
}

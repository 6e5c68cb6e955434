// Command losiento-cli is a developer/admin client for the REST API, one
// urfave/cli/v3 subcommand per endpoint.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/urfave/cli/v3"
)

// Client wraps the §6 REST API: one baseURL, one http.Client, request
// helpers that marshal/unmarshal JSON and surface the server's {"error":
// {"kind",...}} shape as a Go error.
type Client struct {
	baseURL string
	userID  string
	http    *http.Client
}

func newClient(baseURL, userID string) *Client {
	return &Client{baseURL: baseURL, userID: userID, http: &http.Client{Timeout: 10 * time.Second}}
}

func (c *Client) do(method, path string, body interface{}, out interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.userID != "" {
		req.Header.Set("X-User-Id", c.userID)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		return errNoActiveGame
	}

	if resp.StatusCode >= 400 {
		var errResp struct {
			Error struct {
				Kind    string `json:"kind"`
				Message string `json:"message"`
			} `json:"error"`
		}
		body, _ := io.ReadAll(resp.Body)
		json.Unmarshal(body, &errResp)
		if errResp.Error.Message != "" {
			return fmt.Errorf("%s: %s", errResp.Error.Kind, errResp.Error.Message)
		}
		return fmt.Errorf("%s %s: status %d: %s", method, path, resp.StatusCode, string(body))
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

var errNoActiveGame = fmt.Errorf("no active game")

func clientFromCmd(cmd *cli.Command) *Client {
	return newClient(cmd.String("url"), cmd.String("user-id"))
}

func printJSON(v interface{}) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "marshal output: %v\n", err)
		return
	}
	fmt.Println(string(data))
}

func main() {
	cmd := &cli.Command{
		Name:  "losiento-cli",
		Usage: "talk to a Lo Siento server's REST API from the command line",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "url", Value: "http://localhost:8080", Usage: "game server base URL"},
			&cli.StringFlag{Name: "user-id", Value: "", Usage: "caller identity (X-User-Id)"},
		},
		Commands: []*cli.Command{
			hostCommand(),
			joinableCommand(),
			joinCommand(),
			leaveCommand(),
			kickCommand(),
			configureSeatCommand(),
			startCommand(),
			stateCommand(),
			legalMoversCommand(),
			playCommand(),
			botStepCommand(),
			rejoinCommand(),
			historyCommand(),
			healthCommand(),
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func hostCommand() *cli.Command {
	return &cli.Command{
		Name:  "host",
		Usage: "create a lobby and sit as host",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "max-seats", Value: 4, Usage: "number of seats, 2-4"},
			&cli.StringFlag{Name: "display-name", Value: "", Usage: "host's display name"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			var game interface{}
			err := clientFromCmd(cmd).do("POST", "/api/host", map[string]interface{}{
				"maxSeats":    cmd.Int("max-seats"),
				"displayName": cmd.String("display-name"),
			}, &game)
			if err != nil {
				return err
			}
			printJSON(game)
			return nil
		},
	}
}

func joinableCommand() *cli.Command {
	return &cli.Command{
		Name:  "joinable",
		Usage: "list lobby-phase games with an open seat",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			var out interface{}
			if err := clientFromCmd(cmd).do("GET", "/api/joinable", nil, &out); err != nil {
				return err
			}
			printJSON(out)
			return nil
		},
	}
}

func joinCommand() *cli.Command {
	return &cli.Command{
		Name:  "join",
		Usage: "claim the lowest-index open seat of a lobby",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "game-id", Required: true},
			&cli.StringFlag{Name: "display-name", Value: ""},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			var game interface{}
			err := clientFromCmd(cmd).do("POST", "/api/join", map[string]interface{}{
				"gameId":      cmd.String("game-id"),
				"displayName": cmd.String("display-name"),
			}, &game)
			if err != nil {
				return err
			}
			printJSON(game)
			return nil
		},
	}
}

func leaveCommand() *cli.Command {
	return &cli.Command{
		Name:  "leave",
		Usage: "leave a game (host leaving aborts it)",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "game-id", Required: true},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			var out interface{}
			err := clientFromCmd(cmd).do("POST", "/api/leave", map[string]interface{}{
				"gameId": cmd.String("game-id"),
			}, &out)
			if err != nil {
				return err
			}
			printJSON(out)
			return nil
		},
	}
}

func kickCommand() *cli.Command {
	return &cli.Command{
		Name:  "kick",
		Usage: "host converts a seat to a bot",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "game-id", Required: true},
			&cli.IntFlag{Name: "seat-index", Required: true},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			var game interface{}
			err := clientFromCmd(cmd).do("POST", "/api/kick", map[string]interface{}{
				"gameId":    cmd.String("game-id"),
				"seatIndex": cmd.Int("seat-index"),
			}, &game)
			if err != nil {
				return err
			}
			printJSON(game)
			return nil
		},
	}
}

func configureSeatCommand() *cli.Command {
	return &cli.Command{
		Name:  "configure-seat",
		Usage: "host toggles a lobby seat between human and bot",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "game-id", Required: true},
			&cli.IntFlag{Name: "seat-index", Required: true},
			&cli.BoolFlag{Name: "is-bot", Value: true},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			var game interface{}
			err := clientFromCmd(cmd).do("POST", "/api/configureSeat", map[string]interface{}{
				"gameId":    cmd.String("game-id"),
				"seatIndex": cmd.Int("seat-index"),
				"isBot":     cmd.Bool("is-bot"),
			}, &game)
			if err != nil {
				return err
			}
			printJSON(game)
			return nil
		},
	}
}

func startCommand() *cli.Command {
	return &cli.Command{
		Name:  "start",
		Usage: "host starts the game",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "game-id", Required: true},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			var game interface{}
			err := clientFromCmd(cmd).do("POST", "/api/start", map[string]interface{}{
				"gameId": cmd.String("game-id"),
			}, &game)
			if err != nil {
				return err
			}
			printJSON(game)
			return nil
		},
	}
}

func stateCommand() *cli.Command {
	return &cli.Command{
		Name:  "state",
		Usage: "the caller's current active game, if any",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			var game interface{}
			err := clientFromCmd(cmd).do("GET", "/api/state", nil, &game)
			if err == errNoActiveGame {
				fmt.Println("no active game")
				return nil
			}
			if err != nil {
				return err
			}
			printJSON(game)
			return nil
		},
	}
}

func legalMoversCommand() *cli.Command {
	return &cli.Command{
		Name:  "legal-movers",
		Usage: "preview the current seat's next draw and its legal moves",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "game-id", Required: true},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			var preview interface{}
			path := "/api/legalMovers?gameId=" + cmd.String("game-id")
			if err := clientFromCmd(cmd).do("GET", path, nil, &preview); err != nil {
				return err
			}
			printJSON(preview)
			return nil
		},
	}
}

func playCommand() *cli.Command {
	return &cli.Command{
		Name:  "play",
		Usage: "submit a move selection for the current seat's turn",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "game-id", Required: true},
			&cli.IntFlag{Name: "move-index", Value: -1, Usage: "index into legal-movers' moves array"},
			&cli.StringFlag{Name: "pawn-id", Value: "", Usage: "select the move moving this pawn"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			payload := map[string]interface{}{}
			if idx := cmd.Int("move-index"); idx >= 0 {
				payload["moveIndex"] = idx
			}
			if pawnID := cmd.String("pawn-id"); pawnID != "" {
				payload["move"] = map[string]interface{}{"pawnId": pawnID}
			}

			var game interface{}
			err := clientFromCmd(cmd).do("POST", "/api/play", map[string]interface{}{
				"gameId":  cmd.String("game-id"),
				"payload": payload,
			}, &game)
			if err != nil {
				return err
			}
			printJSON(game)
			return nil
		},
	}
}

func botStepCommand() *cli.Command {
	return &cli.Command{
		Name:  "bot-step",
		Usage: "advance the current bot seat's turn",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "game-id", Required: true},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			var game interface{}
			path := "/api/botStep?gameId=" + cmd.String("game-id")
			if err := clientFromCmd(cmd).do("POST", path, nil, &game); err != nil {
				return err
			}
			printJSON(game)
			return nil
		},
	}
}

func rejoinCommand() *cli.Command {
	return &cli.Command{
		Name:  "rejoin",
		Usage: "rebind to a seat previously converted to bot while away",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			var game interface{}
			if err := clientFromCmd(cmd).do("POST", "/api/rejoin", nil, &game); err != nil {
				return err
			}
			printJSON(game)
			return nil
		},
	}
}

func historyCommand() *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "paginated move history for a game, newest-first by default",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "game-id", Required: true},
			&cli.IntFlag{Name: "page", Value: 1},
			&cli.IntFlag{Name: "limit", Value: 20},
			&cli.StringFlag{Name: "order", Value: "desc", Usage: "asc or desc"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			path := fmt.Sprintf("/api/history?gameId=%s&page=%d&limit=%d&order=%s",
				cmd.String("game-id"), cmd.Int("page"), cmd.Int("limit"), cmd.String("order"))
			var history interface{}
			if err := clientFromCmd(cmd).do("GET", path, nil, &history); err != nil {
				return err
			}
			printJSON(history)
			return nil
		},
	}
}

func healthCommand() *cli.Command {
	return &cli.Command{
		Name:  "health",
		Usage: "liveness check against the server",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			var out interface{}
			if err := clientFromCmd(cmd).do("GET", "/api/health", nil, &out); err != nil {
				return err
			}
			printJSON(out)
			return nil
		},
	}
}

package mcp

import (
	"fmt"
	"strings"

	"github.com/lukelarue/losiento/game/projection"
	"github.com/lukelarue/losiento/game/session"
	"github.com/lukelarue/losiento/game/turn"
)

// formatGame renders a ClientGame as plain text for an MCP tool result.
func formatGame(g *projection.ClientGame) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Game %s [%s]\n", g.GameID, g.Phase)

	for _, seat := range g.Seats {
		marker := " "
		if g.ViewerSeatIndex != nil && *g.ViewerSeatIndex == seat.Index {
			marker = "*"
		}
		switch {
		case seat.Status == "open":
			fmt.Fprintf(&b, "%s seat %d (%s): open\n", marker, seat.Index, seat.Color)
		case seat.IsBot:
			fmt.Fprintf(&b, "%s seat %d (%s): bot\n", marker, seat.Index, seat.Color)
		default:
			fmt.Fprintf(&b, "%s seat %d (%s): %s\n", marker, seat.Index, seat.Color, seat.DisplayName)
		}
	}

	if g.State == nil {
		return b.String()
	}

	fmt.Fprintf(&b, "turn %d, seat %d to move, %d cards left in the deck\n",
		g.State.TurnNumber, g.State.CurrentSeatIndex, g.State.DeckSize)
	if len(g.State.Discard) > 0 {
		fmt.Fprintf(&b, "discard: %s\n", g.State.Discard[len(g.State.Discard)-1])
	}
	if g.State.Result != "active" {
		fmt.Fprintf(&b, "result: %s", g.State.Result)
		if g.State.WinnerSeatIndex != nil {
			fmt.Fprintf(&b, " (seat %d wins)", *g.State.WinnerSeatIndex)
		}
		b.WriteString("\n")
	}
	for _, p := range g.State.Pawns {
		fmt.Fprintf(&b, "  pawn %s (seat %d): %s %d\n", p.ID, p.Seat, p.PositionKind, p.PositionIndex)
	}

	return b.String()
}

// formatJoinable renders the joinable-lobby list as plain text.
func formatJoinable(games []session.JoinableGame) string {
	if len(games) == 0 {
		return "No joinable games."
	}
	var b strings.Builder
	for _, g := range games {
		fmt.Fprintf(&b, "%s hosted by %s (%d/%d seats)\n", g.GameID, g.HostName, g.CurrentPlayers, g.MaxSeats)
	}
	return b.String()
}

// formatLegalMovers renders a legal-movers preview as plain text.
func formatLegalMovers(p *projection.LegalMovers) string {
	var b strings.Builder
	fmt.Fprintf(&b, "drew %s — %d legal move(s):\n", p.Card, len(p.Moves))
	for _, m := range p.Moves {
		switch {
		case m.TargetPawnID != "" && p.Card == 11:
			fmt.Fprintf(&b, "  [%d] pawn %s <-> pawn %s (swap)\n", m.Index, m.PawnID, m.TargetPawnID)
		case m.TargetPawnID != "":
			fmt.Fprintf(&b, "  [%d] pawn %s bumps %s\n", m.Index, m.PawnID, m.TargetPawnID)
		case m.SecondaryPawnID != "":
			fmt.Fprintf(&b, "  [%d] pawn %s %s %d, pawn %s %s %d\n", m.Index, m.PawnID, m.Direction, m.Steps,
				m.SecondaryPawnID, m.SecondaryDirection, m.SecondarySteps)
		default:
			fmt.Fprintf(&b, "  [%d] pawn %s %s %d\n", m.Index, m.PawnID, m.Direction, m.Steps)
		}
	}
	return b.String()
}

// formatHistory renders one page of move history as plain text.
func formatHistory(h *turn.HistoryResponse) string {
	var b strings.Builder
	fmt.Fprintf(&b, "page %d/%d, %d moves total\n", h.Page, h.TotalPages, h.TotalMoves)
	for _, m := range h.Moves {
		fmt.Fprintf(&b, "  #%d seat %d drew %s", m.Index, m.SeatIndex, m.Card)
		if m.Move.PawnID != "" {
			fmt.Fprintf(&b, " moved pawn %s", m.Move.PawnID)
		}
		b.WriteString("\n")
	}
	return b.String()
}

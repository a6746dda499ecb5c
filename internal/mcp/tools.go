package mcp

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/peterkuimelis/genesys/internal/deck"
	"github.com/peterkuimelis/genesys/internal/session"
)

// defaultSearchLimit caps search_cards results when the caller gives no limit.
const defaultSearchLimit = 25

// Tools serves the deck builder's MCP tools against one session.
type Tools struct {
	sess   *session.Session
	cursor *eventCursor
}

// NewTools creates the tool set for sess.
func NewTools(sess *session.Session) *Tools {
	return &Tools{
		sess:   sess,
		cursor: &eventCursor{logger: sess.Logger()},
	}
}

// RegisterTools adds all deck tools to the MCP server.
func RegisterTools(s *server.MCPServer, sess *session.Session) *Tools {
	t := NewTools(sess)
	s.AddTool(searchCardsTool(), t.handleSearchCards)
	s.AddTool(cardInfoTool(), t.handleCardInfo)
	s.AddTool(addCardTool(), t.handleAddCard)
	s.AddTool(removeCardTool(), t.handleRemoveCard)
	s.AddTool(newDeckTool(), t.handleNewDeck)
	s.AddTool(openDeckTool(), t.handleOpenDeck)
	s.AddTool(saveDeckTool(), t.handleSaveDeck)
	s.AddTool(validateDeckTool(), t.handleValidateDeck)
	s.AddTool(deckStateTool(), t.handleDeckState)
	return t
}

// --- Tool definitions ---

func searchCardsTool() mcp.Tool {
	return mcp.NewTool("search_cards",
		mcp.WithDescription("Search the card catalog by name (case-insensitive substring). Returns game ids, names, type text and point costs."),
		mcp.WithString("query", mcp.Description("Text to look for in card names; empty lists every card")),
		mcp.WithNumber("limit", mcp.Description("Maximum number of results (default 25)")),
	)
}

func cardInfoTool() mcp.Tool {
	return mcp.NewTool("card_info",
		mcp.WithDescription("Show one card's full details, including its effect text and how many copies are in the decks."),
		mcp.WithNumber("game_id", mcp.Required(), mcp.Description("The card's game id as used in .ydk files")),
	)
}

func addCardTool() mcp.Tool {
	return mcp.NewTool("add_card",
		mcp.WithDescription("Add one copy of a card. Fusion, Synchro and Xyz monsters go in the Extra Deck, everything else in the Main Deck; "+
			"the Side Deck takes anything. At most 3 copies of a card across all decks. Omit deck to use the card's natural deck."),
		mcp.WithNumber("game_id", mcp.Required(), mcp.Description("The card's game id")),
		mcp.WithString("deck", mcp.Description("main, extra or side")),
	)
}

func removeCardTool() mcp.Tool {
	return mcp.NewTool("remove_card",
		mcp.WithDescription("Remove copies of a card from a deck. Removing a card that is not there does nothing."),
		mcp.WithNumber("game_id", mcp.Required(), mcp.Description("The card's game id")),
		mcp.WithString("deck", mcp.Required(), mcp.Description("main, extra or side")),
		mcp.WithString("amount", mcp.Description("Number of copies to remove, or 'all' (default 1)")),
	)
}

func newDeckTool() mcp.Tool {
	return mcp.NewTool("new_deck",
		mcp.WithDescription("Empty all three decks and forget the current file."),
	)
}

func openDeckTool() mcp.Tool {
	return mcp.NewTool("open_deck",
		mcp.WithDescription("Load a .ydk deck file, replacing the current decks. Card ids the catalog does not know are skipped."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Path to the .ydk file")),
	)
}

func saveDeckTool() mcp.Tool {
	return mcp.NewTool("save_deck",
		mcp.WithDescription("Validate the decks and write them as a .ydk file. Illegal decks are not saved; the response lists every problem."),
		mcp.WithString("path", mcp.Description("Where to save; omit to overwrite the file the deck was opened from or last saved to")),
	)
}

func validateDeckTool() mcp.Tool {
	return mcp.NewTool("validate_deck",
		mcp.WithDescription("List every rule the current decks break (sizes, copy limits, cards in the wrong deck). Read-only."),
	)
}

func deckStateTool() mcp.Tool {
	return mcp.NewTool("deck_state",
		mcp.WithDescription("Get the current decks, counts, point total against the cap, and accumulated events. Read-only."),
	)
}

// --- Tool handlers ---

func (t *Tools) handleSearchCards(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query := request.GetString("query", "")
	limit := request.GetInt("limit", defaultSearchLimit)
	if limit <= 0 {
		return mcp.NewToolResultError("limit must be >= 1"), nil
	}

	hits := t.sess.Search(query)
	resp := &ToolResponse{
		Events: t.cursor.drain(),
		Cards:  []CardView{},
		Result: strconv.Itoa(len(hits)) + " match(es)",
	}
	st := t.sess.State()
	for i, card := range hits {
		if i >= limit {
			break
		}
		resp.Cards = append(resp.Cards, cardView(t.sess, card, st, false))
	}
	return mcp.NewToolResultText(respondJSON(resp)), nil
}

func (t *Tools) handleCardInfo(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	gameID := request.GetInt("game_id", 0)
	card, ok := t.sess.Resolve(gameID)
	if !ok {
		return mcp.NewToolResultErrorf("Unknown card %d.", gameID), nil
	}
	resp := &ToolResponse{
		Events: t.cursor.drain(),
		Cards:  []CardView{cardView(t.sess, card, t.sess.State(), true)},
	}
	return mcp.NewToolResultText(respondJSON(resp)), nil
}

func (t *Tools) handleAddCard(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	gameID := request.GetInt("game_id", 0)
	deckArg := request.GetString("deck", "")

	var (
		target deck.Name
		err    error
	)
	if strings.TrimSpace(deckArg) == "" {
		target, err = t.sess.AddPreferred(gameID)
	} else {
		target, err = deck.ParseName(deckArg)
		if err != nil {
			return mcp.NewToolResultErrorf("Invalid deck: %v", err), nil
		}
		err = t.sess.Add(target, gameID)
	}
	if err != nil {
		return mcp.NewToolResultErrorf("Cannot add card %d: %v", gameID, err), nil
	}

	snap := t.sess.Snapshot()
	resp := &ToolResponse{
		Events: t.cursor.drain(),
		State:  &snap,
		Result: "Added to " + target.String(),
	}
	return mcp.NewToolResultText(respondJSON(resp)), nil
}

func (t *Tools) handleRemoveCard(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	gameID := request.GetInt("game_id", 0)
	target, err := deck.ParseName(request.GetString("deck", ""))
	if err != nil {
		return mcp.NewToolResultErrorf("Invalid deck: %v", err), nil
	}
	amount, err := parseAmount(request.GetString("amount", "1"))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	t.sess.Remove(target, gameID, amount)

	snap := t.sess.Snapshot()
	resp := &ToolResponse{
		Events: t.cursor.drain(),
		State:  &snap,
	}
	return mcp.NewToolResultText(respondJSON(resp)), nil
}

func (t *Tools) handleNewDeck(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	t.sess.NewDeck()
	snap := t.sess.Snapshot()
	resp := &ToolResponse{
		Events: t.cursor.drain(),
		State:  &snap,
	}
	return mcp.NewToolResultText(respondJSON(resp)), nil
}

func (t *Tools) handleOpenDeck(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path := request.GetString("path", "")
	if path == "" {
		return mcp.NewToolResultError("path is required"), nil
	}
	if err := t.sess.Open(path); err != nil {
		return mcp.NewToolResultErrorf("Could not open deck: %v", err), nil
	}
	snap := t.sess.Snapshot()
	resp := &ToolResponse{
		Events: t.cursor.drain(),
		State:  &snap,
		Result: "Opened " + path,
	}
	return mcp.NewToolResultText(respondJSON(resp)), nil
}

func (t *Tools) handleSaveDeck(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path := request.GetString("path", "")

	var err error
	if path == "" {
		err = t.sess.Save()
		path = t.sess.Path()
	} else {
		err = t.sess.SaveAs(path)
	}

	var illegal *session.IllegalDeckError
	switch {
	case errors.As(err, &illegal):
		legal := false
		resp := &ToolResponse{
			Events:     t.cursor.drain(),
			Legal:      &legal,
			Violations: violationTexts(illegal.Violations),
			Result:     "Deck is not legal and was not saved.",
		}
		result := mcp.NewToolResultText(respondJSON(resp))
		result.IsError = true
		return result, nil
	case errors.Is(err, session.ErrNoPath):
		return mcp.NewToolResultError("This deck has no file yet; pass a path."), nil
	case err != nil:
		return mcp.NewToolResultErrorf("Could not save deck: %v", err), nil
	}

	legal := true
	resp := &ToolResponse{
		Events: t.cursor.drain(),
		Legal:  &legal,
		Result: "Saved " + path,
	}
	return mcp.NewToolResultText(respondJSON(resp)), nil
}

func (t *Tools) handleValidateDeck(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	violations := t.sess.Validate()
	legal := len(violations) == 0
	resp := &ToolResponse{
		Events:     t.cursor.drain(),
		Legal:      &legal,
		Violations: violationTexts(violations),
	}
	return mcp.NewToolResultText(respondJSON(resp)), nil
}

func (t *Tools) handleDeckState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	snap := t.sess.Snapshot()
	resp := &ToolResponse{
		Events: t.cursor.drain(),
		State:  &snap,
	}
	return mcp.NewToolResultText(respondJSON(resp)), nil
}

// parseAmount reads a remove_card amount: a positive number or "all".
func parseAmount(s string) (int, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "all" {
		return deck.All, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, errors.New("amount must be a positive number or 'all'")
	}
	return n, nil
}

func violationTexts(vs []deck.Violation) []string {
	out := make([]string, len(vs))
	for i, v := range vs {
		out[i] = v.Error()
	}
	return out
}

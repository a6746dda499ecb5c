package mcp

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/peterkuimelis/genesys/internal/catalog"
	"github.com/peterkuimelis/genesys/internal/deck"
	"github.com/peterkuimelis/genesys/internal/log"
	"github.com/peterkuimelis/genesys/internal/session"
)

// ToolResponse is the JSON envelope returned by all MCP tools.
type ToolResponse struct {
	Events     []string          `json:"events"`
	State      *session.Snapshot `json:"state,omitempty"`
	Cards      []CardView        `json:"cards,omitempty"`
	Violations []string          `json:"violations,omitempty"`
	Legal      *bool             `json:"legal,omitempty"`
	Result     string            `json:"result,omitempty"`
}

// CardView is a catalog card as presented in tool responses.
type CardView struct {
	GameID    int    `json:"game_id"`
	Name      string `json:"name"`
	Types     string `json:"types"`
	Desc      string `json:"desc,omitempty"`
	Point     int    `json:"point"`
	ExtraDeck bool   `json:"extra_deck"`
	Copies    int    `json:"copies,omitempty"` // across all decks
}

// eventCursor hands out the log lines a client has not seen yet.
type eventCursor struct {
	mu      sync.Mutex
	logger  log.EventLogger
	lastSeq int
}

func (c *eventCursor) drain() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	lines := []string{}
	for _, e := range c.logger.Events() {
		if e.Seq <= c.lastSeq {
			continue
		}
		lines = append(lines, e.Details)
		c.lastSeq = e.Seq
	}
	return lines
}

func cardView(sess *session.Session, card *catalog.Card, st *deck.State, withDesc bool) CardView {
	cv := CardView{
		GameID:    card.GameID,
		Name:      sess.DisplayName(card),
		Types:     card.TypeText,
		Point:     card.Point,
		ExtraDeck: card.IsExtraDeckType(),
	}
	if withDesc {
		cv.Desc = card.Desc
	}
	if st != nil {
		cv.Copies = st.CopiesOf(card.GameID)
	}
	return cv
}

func respondJSON(resp *ToolResponse) string {
	data, err := json.Marshal(resp)
	if err != nil {
		return fmt.Sprintf(`{"error": "marshal error: %v"}`, err)
	}
	return string(data)
}

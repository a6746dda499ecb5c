package log

import (
	"fmt"
	"io"
	"strings"
	"sync"
)

// EventLogger is the interface for logging deck events.
type EventLogger interface {
	Log(event DeckEvent)
	Events() []DeckEvent
}

// --- MemoryLogger: stores events in memory for test assertions ---

type MemoryLogger struct {
	mu     sync.Mutex
	events []DeckEvent
	seq    int
}

func NewMemoryLogger() *MemoryLogger {
	return &MemoryLogger{}
}

func (l *MemoryLogger) Log(event DeckEvent) {
	l.record(event)
}

func (l *MemoryLogger) record(event DeckEvent) DeckEvent {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.seq++
	event.Seq = l.seq
	l.events = append(l.events, event)
	return event
}

func (l *MemoryLogger) Events() []DeckEvent {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]DeckEvent(nil), l.events...)
}

// EventsOfType returns all events matching the given type.
func (l *MemoryLogger) EventsOfType(t EventType) []DeckEvent {
	var result []DeckEvent
	for _, e := range l.Events() {
		if e.Type == t {
			result = append(result, e)
		}
	}
	return result
}

// LastEvent returns the most recent event, or a zero event if none.
func (l *MemoryLogger) LastEvent() DeckEvent {
	events := l.Events()
	if len(events) == 0 {
		return DeckEvent{}
	}
	return events[len(events)-1]
}

// --- TextLogger: writes human-readable lines to an io.Writer ---

type TextLogger struct {
	MemoryLogger
	wmu sync.Mutex
	w   io.Writer
}

func NewTextLogger(w io.Writer) *TextLogger {
	return &TextLogger{w: w}
}

func (l *TextLogger) Log(event DeckEvent) {
	event = l.MemoryLogger.record(event)
	l.wmu.Lock()
	defer l.wmu.Unlock()
	fmt.Fprintln(l.w, FormatEvent(event))
}

// --- Formatting ---

// FormatEvent formats a single event as a human-readable line.
func FormatEvent(e DeckEvent) string {
	deck := e.Deck
	// Pad deck to 10 chars for alignment
	for len(deck) < 10 {
		deck += " "
	}
	return fmt.Sprintf("#%-4d %s| %s", e.Seq, deck, e.Details)
}

// FormatAll formats all events as a multi-line string.
func FormatAll(events []DeckEvent) string {
	var sb strings.Builder
	for _, e := range events {
		sb.WriteString(FormatEvent(e))
		sb.WriteByte('\n')
	}
	return sb.String()
}

// cardLabel renders a card as "Name (id)", or just the id when unnamed.
func cardLabel(gameID int, name string) string {
	if name == "" {
		return fmt.Sprintf("%d", gameID)
	}
	return fmt.Sprintf("%s (%d)", name, gameID)
}

// --- Helper constructors for common events ---

func NewCatalogLoadedEvent(source string, cards int) DeckEvent {
	return DeckEvent{
		Type:    EventCatalogLoaded,
		Details: fmt.Sprintf("Catalog loaded from %s: %d cards", source, cards),
	}
}

func NewCatalogReloadedEvent(source string, cards int) DeckEvent {
	return DeckEvent{
		Type:    EventCatalogReloaded,
		Details: fmt.Sprintf("Catalog reloaded from %s: %d cards", source, cards),
	}
}

func NewCardAddedEvent(deck string, gameID int, name string, count int) DeckEvent {
	return DeckEvent{
		Type:    EventCardAdded,
		Deck:    deck,
		GameID:  gameID,
		Card:    name,
		Details: fmt.Sprintf("+ %s → %d in %s", cardLabel(gameID, name), count, deck),
	}
}

func NewAddRejectedEvent(deck string, gameID int, name string, reason string) DeckEvent {
	return DeckEvent{
		Type:    EventAddRejected,
		Deck:    deck,
		GameID:  gameID,
		Card:    name,
		Details: fmt.Sprintf("Rejected %s for %s: %s", cardLabel(gameID, name), deck, reason),
	}
}

func NewCardRemovedEvent(deck string, gameID int, name string, remaining int) DeckEvent {
	return DeckEvent{
		Type:    EventCardRemoved,
		Deck:    deck,
		GameID:  gameID,
		Card:    name,
		Details: fmt.Sprintf("- %s → %d left in %s", cardLabel(gameID, name), remaining, deck),
	}
}

func NewDeckClearedEvent() DeckEvent {
	return DeckEvent{
		Type:    EventDeckCleared,
		Details: "New deck",
	}
}

func NewDeckLoadedEvent(path string, main, extra, side int) DeckEvent {
	return DeckEvent{
		Type:    EventDeckLoaded,
		Details: fmt.Sprintf("Opened %s (main %d, extra %d, side %d)", path, main, extra, side),
	}
}

func NewDeckSavedEvent(path string, main, extra, side int) DeckEvent {
	return DeckEvent{
		Type:    EventDeckSaved,
		Details: fmt.Sprintf("Saved %s (main %d, extra %d, side %d)", path, main, extra, side),
	}
}

func NewSaveRejectedEvent(path string, problems []string) DeckEvent {
	return DeckEvent{
		Type:    EventSaveRejected,
		Details: fmt.Sprintf("Refused to save %s: %s", path, strings.Join(problems, "; ")),
	}
}

func NewIOFailureEvent(op, path string, err error) DeckEvent {
	return DeckEvent{
		Type:    EventIOFailure,
		Details: fmt.Sprintf("Could not %s %s: %v", op, path, err),
	}
}

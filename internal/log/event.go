package log

// EventType enumerates all observable deck-building events.
type EventType int

const (
	EventCatalogLoaded EventType = iota
	EventCatalogReloaded
	EventCardAdded
	EventAddRejected
	EventCardRemoved
	EventDeckCleared
	EventDeckLoaded
	EventDeckSaved
	EventSaveRejected
	EventIOFailure
)

func (e EventType) String() string {
	switch e {
	case EventCatalogLoaded:
		return "CatalogLoaded"
	case EventCatalogReloaded:
		return "CatalogReloaded"
	case EventCardAdded:
		return "CardAdded"
	case EventAddRejected:
		return "AddRejected"
	case EventCardRemoved:
		return "CardRemoved"
	case EventDeckCleared:
		return "DeckCleared"
	case EventDeckLoaded:
		return "DeckLoaded"
	case EventDeckSaved:
		return "DeckSaved"
	case EventSaveRejected:
		return "SaveRejected"
	case EventIOFailure:
		return "IOFailure"
	default:
		return "Unknown"
	}
}

// DeckEvent represents a single observable event in a deck-building session.
type DeckEvent struct {
	Seq     int       // monotonic sequence number
	Type    EventType // event type
	Deck    string    // deck name (if applicable), e.g. "Main Deck"
	GameID  int       // card game id (if applicable)
	Card    string    // card display name (if applicable)
	Details string    // human-readable detail string
}

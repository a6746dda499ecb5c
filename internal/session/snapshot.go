package session

import "github.com/peterkuimelis/genesys/internal/deck"

// Snapshot is everything a shell needs to draw the current decks.
type Snapshot struct {
	Path       string              `json:"path,omitempty"`
	NameKey    string              `json:"name_key"`
	Main       []deck.ListingEntry `json:"main"`
	Extra      []deck.ListingEntry `json:"extra"`
	Side       []deck.ListingEntry `json:"side"`
	MainCount  int                 `json:"main_count"`
	ExtraCount int                 `json:"extra_count"`
	SideCount  int                 `json:"side_count"`
	Points     deck.PointStatus    `json:"points"`
	Violations []string            `json:"violations"`
}

// Snapshot returns the current decks with derived counts, points and
// violations.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	return Snapshot{
		Path:       s.path,
		NameKey:    string(s.nameKey),
		Main:       s.state.Listing(deck.Main, s.catalog, s.nameKey),
		Extra:      s.state.Listing(deck.Extra, s.catalog, s.nameKey),
		Side:       s.state.Listing(deck.Side, s.catalog, s.nameKey),
		MainCount:  s.state.TotalCount(deck.Main),
		ExtraCount: s.state.TotalCount(deck.Extra),
		SideCount:  s.state.TotalCount(deck.Side),
		Points:     deck.PointStatusOf(s.state, s.catalog, s.pointCap),
		Violations: violationStrings(deck.Validate(s.state, s.catalog)),
	}
}

// Subscribe returns a channel that receives a signal after every change, and
// a function that stops the subscription. Signals coalesce: a slow reader sees
// one pending signal, not one per change.
func (s *Session) Subscribe() (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)
	s.subMu.Lock()
	s.subs[ch] = struct{}{}
	s.subMu.Unlock()

	cancel := func() {
		s.subMu.Lock()
		delete(s.subs, ch)
		s.subMu.Unlock()
	}
	return ch, cancel
}

func (s *Session) notify() {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	for ch := range s.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

package deck

import (
	"fmt"
	"sort"

	"github.com/peterkuimelis/genesys/internal/catalog"
)

// State holds the three decks as game id → copy count. A card with no copies
// is never stored. State is not safe for concurrent use.
type State struct {
	decks [3]map[int]int
}

// Entry is one card in a deck and how many copies it has.
type Entry struct {
	GameID int `json:"game_id"`
	Count  int `json:"count"`
}

// New returns three empty decks.
func New() *State {
	s := &State{}
	for i := range s.decks {
		s.decks[i] = make(map[int]int)
	}
	return s
}

// Add puts one copy of the card with gameID into deck. The add is rejected
// with an *UnknownCardError for ids the catalog cannot resolve, or a
// *Violation when it would break the rules; the state is unchanged either way.
func (s *State) Add(c *catalog.Catalog, deck Name, gameID int) error {
	if !deck.valid() {
		return fmt.Errorf("add card %d: unknown deck %d", gameID, int(deck))
	}
	card, ok := c.ResolveByGameID(gameID)
	if !ok {
		return &UnknownCardError{GameID: gameID}
	}
	if v := CanAdd(s, deck, card); v != nil {
		return v
	}
	s.decks[deck][gameID]++
	return nil
}

// Remove takes amount copies of gameID out of deck, or every copy when amount
// is All. Removing a card that is not there is a no-op.
func (s *State) Remove(deck Name, gameID int, amount int) {
	if !deck.valid() {
		return
	}
	if amount != All && amount <= 0 {
		return
	}
	d := s.decks[deck]
	count, ok := d[gameID]
	if !ok {
		return
	}
	if amount == All || count <= amount {
		delete(d, gameID)
		return
	}
	d[gameID] = count - amount
}

// Clear empties all three decks.
func (s *State) Clear() {
	for i := range s.decks {
		clear(s.decks[i])
	}
}

// Count returns the copies of gameID in deck.
func (s *State) Count(deck Name, gameID int) int {
	if !deck.valid() {
		return 0
	}
	return s.decks[deck][gameID]
}

// CopiesOf returns the copies of gameID across all three decks.
func (s *State) CopiesOf(gameID int) int {
	total := 0
	for _, d := range s.decks {
		total += d[gameID]
	}
	return total
}

// TotalCount returns the number of cards in deck.
func (s *State) TotalCount(deck Name) int {
	if !deck.valid() {
		return 0
	}
	total := 0
	for _, n := range s.decks[deck] {
		total += n
	}
	return total
}

// TotalPoints sums count × point cost over all decks. Ids the catalog no
// longer knows contribute nothing.
func (s *State) TotalPoints(c *catalog.Catalog) int {
	total := 0
	for _, d := range s.decks {
		for id, n := range d {
			if card, ok := c.ResolveByGameID(id); ok {
				total += n * card.Point
			}
		}
	}
	return total
}

// Entries lists deck's cards ordered by game id.
func (s *State) Entries(deck Name) []Entry {
	if !deck.valid() {
		return nil
	}
	d := s.decks[deck]
	entries := make([]Entry, 0, len(d))
	for id, n := range d {
		entries = append(entries, Entry{GameID: id, Count: n})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].GameID < entries[j].GameID
	})
	return entries
}

// ListingEntry is a deck entry with the details a deck list shows.
type ListingEntry struct {
	GameID int    `json:"game_id"`
	Count  int    `json:"count"`
	Name   string `json:"name"`
	Point  int    `json:"point"`
	Known  bool   `json:"known"`
}

// Listing returns deck's cards ordered by display name. Cards the catalog
// cannot resolve come last, by game id.
func (s *State) Listing(deck Name, c *catalog.Catalog, key catalog.NameKey) []ListingEntry {
	entries := s.Entries(deck)
	listing := make([]ListingEntry, 0, len(entries))
	for _, e := range entries {
		le := ListingEntry{GameID: e.GameID, Count: e.Count}
		if card, ok := c.ResolveByGameID(e.GameID); ok {
			le.Known = true
			le.Point = card.Point
			le.Name, _ = card.DisplayName(key)
		}
		listing = append(listing, le)
	}
	sort.SliceStable(listing, func(i, j int) bool {
		a, b := listing[i], listing[j]
		if a.Known != b.Known {
			return a.Known
		}
		return a.Name < b.Name
	})
	return listing
}

// Clone returns an independent copy.
func (s *State) Clone() *State {
	out := New()
	for i, d := range s.decks {
		for id, n := range d {
			out.decks[i][id] = n
		}
	}
	return out
}

// Equal reports whether both states hold the same counts in every deck.
func (s *State) Equal(other *State) bool {
	for i := range s.decks {
		if len(s.decks[i]) != len(other.decks[i]) {
			return false
		}
		for id, n := range s.decks[i] {
			if other.decks[i][id] != n {
				return false
			}
		}
	}
	return true
}

// LoadFromLines rebuilds a state from deck file lines; see ParseLines.
func LoadFromLines(lines []string, c *catalog.Catalog) *State {
	return ParseLines(lines, c)
}

// gameIDs returns every id present in any deck, ascending.
func (s *State) gameIDs() []int {
	seen := make(map[int]struct{})
	for _, d := range s.decks {
		for id := range d {
			seen[id] = struct{}{}
		}
	}
	ids := make([]int, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// increment adds one copy without any rule checks. The file codec uses it so
// that saved decks load as written, legal or not.
func (s *State) increment(deck Name, gameID int) {
	s.decks[deck][gameID]++
}

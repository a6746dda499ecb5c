package deck

import (
	"errors"
	"testing"

	"github.com/peterkuimelis/genesys/internal/catalog"
)

func TestAddUnknownCard(t *testing.T) {
	c := testCatalog(t)
	s := New()

	err := s.Add(c, Side, unknownID)
	if !errors.Is(err, ErrUnknownCard) {
		t.Fatalf("Expected ErrUnknownCard, got %v", err)
	}
	var uc *UnknownCardError
	if !errors.As(err, &uc) || uc.GameID != unknownID {
		t.Errorf("Expected UnknownCardError for %d, got %v", unknownID, err)
	}
	if s.TotalCount(Side) != 0 {
		t.Error("Unknown card changed the state")
	}
}

func TestAddInvalidDeck(t *testing.T) {
	c := testCatalog(t)
	s := New()
	if err := s.Add(c, Name(7), spellID); err == nil {
		t.Error("Expected error for invalid deck")
	}
}

func TestRemove(t *testing.T) {
	c := testCatalog(t)
	s := New()
	mustAdd(t, s, c, Main, spellID, 3)

	s.Remove(Main, spellID, 1)
	if got := s.Count(Main, spellID); got != 2 {
		t.Errorf("Expected 2 copies after removing 1, got %d", got)
	}

	s.Remove(Main, spellID, 5)
	if got := s.Count(Main, spellID); got != 0 {
		t.Errorf("Expected card gone after over-removal, got %d", got)
	}
	if len(s.Entries(Main)) != 0 {
		t.Error("Expected zero-count entry to be deleted")
	}

	mustAdd(t, s, c, Main, spellID, 2)
	s.Remove(Main, spellID, 0)
	if got := s.Count(Main, spellID); got != 2 {
		t.Errorf("Expected amount 0 to be a no-op, got %d", got)
	}
}

func TestRemoveAllIsIdempotent(t *testing.T) {
	c := testCatalog(t)
	s := New()
	mustAdd(t, s, c, Side, fusionID, 2)

	s.Remove(Side, fusionID, All)
	after := s.Clone()
	s.Remove(Side, fusionID, All)

	if !s.Equal(after) {
		t.Error("Second remove-all changed the state")
	}
	if s.Count(Side, fusionID) != 0 {
		t.Error("Expected card to be gone")
	}

	// Absent card and wrong deck are no-ops too.
	s.Remove(Main, 12345, 1)
	s.Remove(Name(-1), spellID, All)
}

func TestClear(t *testing.T) {
	c := testCatalog(t)
	s := New()
	mustAdd(t, s, c, Main, spellID, 1)
	mustAdd(t, s, c, Extra, fusionID, 1)
	mustAdd(t, s, c, Side, synchroID, 1)

	s.Clear()
	if !s.Equal(New()) {
		t.Error("Expected all decks empty after Clear")
	}
	mustAdd(t, s, c, Main, spellID, 1)
}

func TestTotals(t *testing.T) {
	c := testCatalog(t)
	s := New()
	mustAdd(t, s, c, Main, mainBase+1, 3) // 1 point each
	mustAdd(t, s, c, Main, mainBase+3, 2) // 3 points each
	mustAdd(t, s, c, Extra, xyzID, 1)     // 5 points

	if got := s.TotalCount(Main); got != 5 {
		t.Errorf("Expected 5 main cards, got %d", got)
	}
	if got := s.TotalPoints(c); got != 3+6+5 {
		t.Errorf("Expected 14 points, got %d", got)
	}
}

func TestTotalPointsIgnoresUnknownIDs(t *testing.T) {
	c := testCatalog(t)
	s := New()
	mustAdd(t, s, c, Main, mainBase+2, 1) // 2 points
	s.decks[Main][unknownID] = 3

	if got := s.TotalPoints(c); got != 2 {
		t.Errorf("Expected unknown id to contribute 0, got total %d", got)
	}
	if got := s.TotalPoints(catalog.LoadEntries(nil)); got != 0 {
		t.Errorf("Expected 0 points against empty catalog, got %d", got)
	}
}

func TestListing(t *testing.T) {
	c := testCatalog(t)
	s := New()
	mustAdd(t, s, c, Main, mainBase+9, 1)
	mustAdd(t, s, c, Main, mainBase+2, 2)
	s.decks[Main][unknownID] = 1

	listing := s.Listing(Main, c, catalog.NameEnglish)
	if len(listing) != 3 {
		t.Fatalf("Expected 3 listing entries, got %d", len(listing))
	}
	if listing[0].Name != "Main 002" || listing[0].Count != 2 || listing[0].Point != 2 {
		t.Errorf("Unexpected first entry %+v", listing[0])
	}
	if listing[1].Name != "Main 009" {
		t.Errorf("Unexpected second entry %+v", listing[1])
	}
	if listing[2].Known || listing[2].GameID != unknownID {
		t.Errorf("Expected unknown id last, got %+v", listing[2])
	}
}

func TestParseName(t *testing.T) {
	tests := map[string]Name{"main": Main, "Extra": Extra, " SIDE ": Side, "side deck": Side}
	for in, want := range tests {
		got, err := ParseName(in)
		if err != nil || got != want {
			t.Errorf("ParseName(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := ParseName("graveyard"); err == nil {
		t.Error("Expected error for unknown deck name")
	}
}

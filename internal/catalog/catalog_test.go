package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadSkipsExcludedAndMalformedEntries(t *testing.T) {
	c := loadSample(t)

	// 1,2,3,4,10,11 survive; link, pendulum, missing id, non-object and bad id are dropped.
	if c.Len() != 6 {
		t.Fatalf("Expected 6 cards, got %d", c.Len())
	}
	for _, cid := range []string{"5", "6", "7", "8", "9"} {
		if _, ok := c.Card(cid); ok {
			t.Errorf("Expected entry %s to be skipped", cid)
		}
	}
	if _, ok := c.ResolveByGameID(1861629); ok {
		t.Error("Expected link card to be absent from reverse index")
	}
}

func TestResolveByGameID(t *testing.T) {
	c := loadSample(t)

	card, ok := c.ResolveByGameID(44508094)
	if !ok {
		t.Fatal("Expected Stardust Dragon to resolve")
	}
	if card.CatalogID != "3" || card.Point != 10 {
		t.Errorf("Unexpected card: %+v", card)
	}

	if _, ok := c.ResolveByGameID(99999999); ok {
		t.Error("Expected unknown id to be not found")
	}

	var nilCatalog *Catalog
	if _, ok := nilCatalog.ResolveByGameID(1); ok {
		t.Error("Expected nil catalog to resolve nothing")
	}
}

func TestDuplicateGameIDLastWins(t *testing.T) {
	c := LoadEntries(map[string]RawCard{
		"a": {ID: 100, Names: map[NameKey]string{NameYGOPro: "first"}},
		"b": {ID: 100, Names: map[NameKey]string{NameYGOPro: "second"}},
	})

	card, ok := c.ResolveByGameID(100)
	if !ok {
		t.Fatal("Expected id 100 to resolve")
	}
	if card.CatalogID != "b" {
		t.Errorf("Expected later entry b to win, got %s", card.CatalogID)
	}
	if c.Len() != 2 {
		t.Errorf("Expected both entries kept by catalog id, got %d", c.Len())
	}
}

func TestLoadEntriesClampsNegativePoints(t *testing.T) {
	c := LoadEntries(map[string]RawCard{
		"x": {ID: 5, Names: map[NameKey]string{NameEnglish: "X"}, Point: -4},
	})
	card, _ := c.ResolveByGameID(5)
	if card.Point != 0 {
		t.Errorf("Expected point cost 0, got %d", card.Point)
	}
}

func TestLoadStructuralFailure(t *testing.T) {
	for _, src := range []string{"", "[1,2,3]", "null", "{\"1\": "} {
		_, err := Load(strings.NewReader(src))
		if err == nil {
			t.Errorf("Expected error for %q", src)
			continue
		}
		if !errors.Is(err, ErrLoad) {
			t.Errorf("Expected ErrLoad for %q, got %v", src, err)
		}
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "cards_data.json", sampleSource)

	c, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if c.Len() != 6 {
		t.Errorf("Expected 6 cards, got %d", c.Len())
	}

	_, err = LoadFile(filepath.Join(dir, "missing.json"))
	if !errors.Is(err, ErrLoad) {
		t.Fatalf("Expected ErrLoad for missing file, got %v", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Expected cause to be ErrNotExist, got %v", err)
	}

	bad := writeFile(t, dir, "bad.json", "not json")
	_, err = LoadFile(bad)
	var le *LoadError
	if !errors.As(err, &le) || le.Source != bad {
		t.Errorf("Expected LoadError naming %s, got %v", bad, err)
	}
}

func TestIsExtraDeckType(t *testing.T) {
	c := loadSample(t)
	tests := []struct {
		gameID int
		want   bool
	}{
		{89631139, false}, // normal monster
		{23995346, true},  // fusion
		{44508094, true},  // synchro
		{84013237, true},  // xyz
		{55144522, false}, // spell
	}
	for _, tt := range tests {
		card, ok := c.ResolveByGameID(tt.gameID)
		if !ok {
			t.Fatalf("Expected %d to resolve", tt.gameID)
		}
		if got := card.IsExtraDeckType(); got != tt.want {
			t.Errorf("IsExtraDeckType(%s) = %v, want %v", card, got, tt.want)
		}
	}

	english := &Card{TypeText: "Monster / Synchro / Effect"}
	if !english.IsExtraDeckType() {
		t.Error("Expected English synchro marker to be recognised")
	}
}

func TestDisplayNameFallback(t *testing.T) {
	c := loadSample(t)

	hope, _ := c.ResolveByGameID(84013237)
	if name, _ := hope.DisplayName(NameJapan); name != "No.39 希望皇ホープ" {
		t.Errorf("Expected Japanese name, got %q", name)
	}
	if name, _ := hope.DisplayName(NameEnglish); name != "No.39 希望皇 霍普" {
		t.Errorf("Expected fallback to YGOPro name, got %q", name)
	}

	pot, _ := c.ResolveByGameID(55144522)
	if name, ok := pot.DisplayName(NameSC); !ok || name != "Pot of Greed" {
		t.Errorf("Expected fallback to first non-empty variant, got %q", name)
	}

	blank, _ := c.ResolveByGameID(70781052)
	if _, ok := blank.DisplayName(NameEnglish); ok {
		t.Error("Expected no display name for card with no names")
	}
}

func TestSearch(t *testing.T) {
	c := loadSample(t)

	all := c.Search("", NameEnglish)
	if len(all) != 5 {
		t.Fatalf("Expected 5 displayable cards, got %d", len(all))
	}
	for i := 1; i < len(all); i++ {
		prev, _ := all[i-1].DisplayName(NameEnglish)
		cur, _ := all[i].DisplayName(NameEnglish)
		if prev > cur {
			t.Errorf("Results not sorted: %q before %q", prev, cur)
		}
	}

	hits := c.Search("blue-eyes", NameEnglish)
	if len(hits) != 2 {
		t.Fatalf("Expected 2 Blue-Eyes hits, got %d", len(hits))
	}
	if hits[0].GameID != 23995346 {
		t.Errorf("Expected Blue-Eyes Ultimate Dragon first, got %s", hits[0])
	}

	if hits := c.Search("龙", NameYGOPro); len(hits) != 3 {
		t.Errorf("Expected 3 dragon hits by Chinese name, got %d", len(hits))
	}
}

func TestValidNameKey(t *testing.T) {
	if !ValidNameKey(NameCNOCG) {
		t.Error("Expected cnocg_n to be valid")
	}
	if ValidNameKey("kr_name") {
		t.Error("Expected kr_name to be invalid")
	}
}

package deck

import (
	"fmt"
	"testing"

	"github.com/peterkuimelis/genesys/internal/catalog"
)

// Game ids in the test catalog. Main-deck cards are 1000..1099, Extra-deck
// cards 2000..2019.
const (
	mainBase  = 1000
	mainCards = 100
	extraBase = 2000
	extraCard = 20

	fusionID  = extraBase
	synchroID = extraBase + 1
	xyzID     = extraBase + 2
	spellID   = mainBase
	unknownID = 99999999
)

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	entries := make(map[string]catalog.RawCard)
	for i := 0; i < mainCards; i++ {
		id := mainBase + i
		entries[fmt.Sprintf("m%03d", i)] = catalog.RawCard{
			ID:    id,
			Names: map[catalog.NameKey]string{catalog.NameYGOPro: fmt.Sprintf("主卡%03d", i), catalog.NameEnglish: fmt.Sprintf("Main %03d", i)},
			Types: "[怪兽|效果] 战士/地",
			Point: i % 4,
		}
	}
	markers := []string{"融合", "同调", "超量"}
	for i := 0; i < extraCard; i++ {
		id := extraBase + i
		entries[fmt.Sprintf("x%03d", i)] = catalog.RawCard{
			ID:    id,
			Names: map[catalog.NameKey]string{catalog.NameYGOPro: fmt.Sprintf("额外%03d", i), catalog.NameEnglish: fmt.Sprintf("Extra %03d", i)},
			Types: fmt.Sprintf("[怪兽|效果|%s] 龙/光", markers[i%3]),
			Point: 5,
		}
	}
	return catalog.LoadEntries(entries)
}

// mustAdd adds n copies of gameID to deck and fails the test on any rejection.
func mustAdd(t *testing.T, s *State, c *catalog.Catalog, deck Name, gameID, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		if err := s.Add(c, deck, gameID); err != nil {
			t.Fatalf("Add(%s, %d) copy %d: %v", deck, gameID, i+1, err)
		}
	}
}

// fillDeck puts exactly n cards into deck using distinct ids from base, three
// copies each.
func fillDeck(t *testing.T, s *State, c *catalog.Catalog, deck Name, base, n int) {
	t.Helper()
	for id := base; n > 0; id++ {
		copies := min(MaxCopies, n)
		mustAdd(t, s, c, deck, id, copies)
		n -= copies
	}
}

func hasKind(vs []Violation, k ViolationKind) bool {
	for _, v := range vs {
		if v.Kind == k {
			return true
		}
	}
	return false
}

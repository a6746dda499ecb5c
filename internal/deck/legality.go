package deck

import (
	"fmt"

	"github.com/peterkuimelis/genesys/internal/catalog"
)

// ViolationKind enumerates the ways a deck or a single add can break the rules.
type ViolationKind int

const (
	// Reported by CanAdd.
	WrongDeckForExtraMonster ViolationKind = iota
	WrongDeckForMainMonster
	CopyLimitExceeded

	// Reported by Validate.
	MainSizeViolation
	ExtraSizeViolation
	SideSizeViolation
	CopyLimitViolation
	MisplacedExtraMonster
	MisplacedMainMonster
)

func (k ViolationKind) String() string {
	switch k {
	case WrongDeckForExtraMonster:
		return "WrongDeckForExtraMonster"
	case WrongDeckForMainMonster:
		return "WrongDeckForMainMonster"
	case CopyLimitExceeded:
		return "CopyLimitExceeded"
	case MainSizeViolation:
		return "MainSizeViolation"
	case ExtraSizeViolation:
		return "ExtraSizeViolation"
	case SideSizeViolation:
		return "SideSizeViolation"
	case CopyLimitViolation:
		return "CopyLimitViolation"
	case MisplacedExtraMonster:
		return "MisplacedExtraMonster"
	case MisplacedMainMonster:
		return "MisplacedMainMonster"
	default:
		return "Unknown"
	}
}

// Violation is one broken rule. It is returned as data; it also implements
// error so Add can hand it back directly.
type Violation struct {
	Kind   ViolationKind
	Deck   Name
	GameID int // zero for deck size violations
	Count  int // deck size or total copies, where relevant
}

func (v Violation) Error() string {
	switch v.Kind {
	case WrongDeckForExtraMonster:
		return fmt.Sprintf("card %d is a Fusion, Synchro or Xyz monster and cannot go in the Main Deck", v.GameID)
	case WrongDeckForMainMonster:
		return fmt.Sprintf("card %d is not a Fusion, Synchro or Xyz monster and cannot go in the Extra Deck", v.GameID)
	case CopyLimitExceeded:
		return fmt.Sprintf("card %d is already at the %d copy limit", v.GameID, MaxCopies)
	case MainSizeViolation:
		return fmt.Sprintf("Main Deck must have between %d and %d cards (currently %d)", MainMin, MainMax, v.Count)
	case ExtraSizeViolation:
		return fmt.Sprintf("Extra Deck cannot have more than %d cards (currently %d)", ExtraMax, v.Count)
	case SideSizeViolation:
		return fmt.Sprintf("Side Deck cannot have more than %d cards (currently %d)", SideMax, v.Count)
	case CopyLimitViolation:
		return fmt.Sprintf("card %d appears %d times across all decks (limit %d)", v.GameID, v.Count, MaxCopies)
	case MisplacedExtraMonster:
		return fmt.Sprintf("card %d is an Extra Deck monster in the Main Deck", v.GameID)
	case MisplacedMainMonster:
		return fmt.Sprintf("card %d is not an Extra Deck monster but is in the Extra Deck", v.GameID)
	default:
		return fmt.Sprintf("deck violation %d", int(v.Kind))
	}
}

func (v Violation) String() string {
	return v.Error()
}

// Preferred returns the deck a card naturally belongs in.
func Preferred(card *catalog.Card) Name {
	if card.IsExtraDeckType() {
		return Extra
	}
	return Main
}

// CanAdd checks whether one more copy of card may go into deck. Checks run in
// a fixed order and only the first failure is reported.
func CanAdd(s *State, deck Name, card *catalog.Card) *Violation {
	extra := card.IsExtraDeckType()
	if deck == Main && extra {
		return &Violation{Kind: WrongDeckForExtraMonster, Deck: deck, GameID: card.GameID}
	}
	if deck == Extra && !extra {
		return &Violation{Kind: WrongDeckForMainMonster, Deck: deck, GameID: card.GameID}
	}
	if total := s.CopiesOf(card.GameID) + 1; total > MaxCopies {
		return &Violation{Kind: CopyLimitExceeded, Deck: deck, GameID: card.GameID, Count: total}
	}
	return nil
}

// Validate checks a whole deck before it is saved and reports every broken
// rule. Cards the catalog cannot resolve still count towards sizes and copy
// limits but are not checked for placement. The point cap is not a rule here;
// see PointStatusOf.
func Validate(s *State, c *catalog.Catalog) []Violation {
	var violations []Violation

	if n := s.TotalCount(Main); n < MainMin || n > MainMax {
		violations = append(violations, Violation{Kind: MainSizeViolation, Deck: Main, Count: n})
	}
	if n := s.TotalCount(Extra); n > ExtraMax {
		violations = append(violations, Violation{Kind: ExtraSizeViolation, Deck: Extra, Count: n})
	}
	if n := s.TotalCount(Side); n > SideMax {
		violations = append(violations, Violation{Kind: SideSizeViolation, Deck: Side, Count: n})
	}

	for _, id := range s.gameIDs() {
		if total := s.CopiesOf(id); total > MaxCopies {
			violations = append(violations, Violation{Kind: CopyLimitViolation, GameID: id, Count: total})
		}
	}

	for _, e := range s.Entries(Main) {
		if card, ok := c.ResolveByGameID(e.GameID); ok && card.IsExtraDeckType() {
			violations = append(violations, Violation{Kind: MisplacedExtraMonster, Deck: Main, GameID: e.GameID, Count: e.Count})
		}
	}
	for _, e := range s.Entries(Extra) {
		if card, ok := c.ResolveByGameID(e.GameID); ok && !card.IsExtraDeckType() {
			violations = append(violations, Violation{Kind: MisplacedMainMonster, Deck: Extra, GameID: e.GameID, Count: e.Count})
		}
	}

	return violations
}

// PointStatus is the point budget summary shells display.
type PointStatus struct {
	Total int  `json:"total"`
	Cap   int  `json:"cap"`
	Over  bool `json:"over"`
}

// PointStatusOf totals the deck's points against pointCap. Going over is a warning,
// never a save-blocking violation.
func PointStatusOf(s *State, c *catalog.Catalog, pointCap int) PointStatus {
	total := s.TotalPoints(c)
	return PointStatus{Total: total, Cap: pointCap, Over: total > pointCap}
}

package deck

import (
	"errors"
	"fmt"
	"strings"
)

// Name identifies one of the three decks a player assembles.
type Name int

const (
	Main Name = iota
	Extra
	Side
)

// Names lists the decks in file order.
var Names = []Name{Main, Extra, Side}

func (n Name) String() string {
	switch n {
	case Main:
		return "Main Deck"
	case Extra:
		return "Extra Deck"
	case Side:
		return "Side Deck"
	default:
		return "Unknown Deck"
	}
}

// Key is the short lowercase form used on the wire ("main", "extra", "side").
func (n Name) Key() string {
	switch n {
	case Main:
		return "main"
	case Extra:
		return "extra"
	case Side:
		return "side"
	default:
		return ""
	}
}

func (n Name) valid() bool {
	return n >= Main && n <= Side
}

// ParseName accepts "main", "extra" or "side" (any case, optional " deck" suffix).
func ParseName(s string) (Name, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.TrimSuffix(key, " deck")
	switch key {
	case "main":
		return Main, nil
	case "extra":
		return Extra, nil
	case "side":
		return Side, nil
	}
	return 0, fmt.Errorf("unknown deck %q (want main, extra or side)", s)
}

// Game rules.
const (
	MainMin   = 40
	MainMax   = 60
	ExtraMax  = 15
	SideMax   = 15
	MaxCopies = 3

	// DefaultPointCap is the point budget shells show when none is configured.
	DefaultPointCap = 100
)

// All is the Remove amount that drops every copy of a card.
const All = -1

var (
	// ErrUnknownCard is matched by errors for game ids the catalog cannot resolve.
	ErrUnknownCard = errors.New("unknown card")
	// ErrIO is matched by deck file read and write failures.
	ErrIO = errors.New("deck file I/O failed")
)

// UnknownCardError reports a game id that is not in the catalog.
type UnknownCardError struct {
	GameID int
}

func (e *UnknownCardError) Error() string {
	return fmt.Sprintf("unknown card %d", e.GameID)
}

func (e *UnknownCardError) Is(target error) bool { return target == ErrUnknownCard }

// IOError reports a failure reading or writing a deck file.
type IOError struct {
	Op   string // "read" or "write"
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s deck file %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

func (e *IOError) Is(target error) bool { return target == ErrIO }

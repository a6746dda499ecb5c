// Package session wraps one catalog and one deck state behind a mutex so the
// shells (terminal, MCP, web) can drive the engine from several goroutines.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/peterkuimelis/genesys/internal/catalog"
	"github.com/peterkuimelis/genesys/internal/deck"
	"github.com/peterkuimelis/genesys/internal/log"
)

var (
	// ErrIllegalDeck is matched by saves refused because the deck breaks the rules.
	ErrIllegalDeck = errors.New("deck is not legal")
	// ErrNoPath is returned by Save when the deck has never been saved or opened.
	ErrNoPath = errors.New("deck has no file path")
)

// IllegalDeckError carries every violation that blocked a save.
type IllegalDeckError struct {
	Violations []deck.Violation
}

func (e *IllegalDeckError) Error() string {
	return fmt.Sprintf("%v: %s", ErrIllegalDeck, strings.Join(violationStrings(e.Violations), "; "))
}

func (e *IllegalDeckError) Is(target error) bool { return target == ErrIllegalDeck }

// Options configures a Session.
type Options struct {
	NameKey  catalog.NameKey
	PointCap int
	Creator  string
	Logger   log.EventLogger
}

// Session is one user's deck-building state. All methods are safe for
// concurrent use.
type Session struct {
	mu       sync.Mutex
	catalog  *catalog.Catalog
	state    *deck.State
	path     string
	nameKey  catalog.NameKey
	pointCap int
	creator  string
	logger   log.EventLogger

	subMu sync.Mutex
	subs  map[chan struct{}]struct{}
}

// New creates a session with empty decks.
func New(c *catalog.Catalog, opts Options) *Session {
	if opts.NameKey == "" {
		opts.NameKey = catalog.NameEnglish
	}
	if opts.Creator == "" {
		opts.Creator = deck.DefaultCreator
	}
	if opts.Logger == nil {
		opts.Logger = log.NewMemoryLogger()
	}
	return &Session{
		catalog:  c,
		state:    deck.New(),
		nameKey:  opts.NameKey,
		pointCap: opts.PointCap,
		creator:  opts.Creator,
		logger:   opts.Logger,
		subs:     make(map[chan struct{}]struct{}),
	}
}

// Logger returns the session's event logger.
func (s *Session) Logger() log.EventLogger {
	return s.logger
}

// Catalog returns the catalog currently in use.
func (s *Session) Catalog() *catalog.Catalog {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.catalog
}

// SetCatalog swaps in a newly loaded catalog. Cards already in the decks stay;
// ids the new catalog lacks simply stop resolving.
func (s *Session) SetCatalog(c *catalog.Catalog, source string) {
	s.mu.Lock()
	s.catalog = c
	s.mu.Unlock()
	s.logger.Log(log.NewCatalogReloadedEvent(source, c.Len()))
	s.notify()
}

// WatchCatalog reloads the catalog from path whenever the file changes, until
// ctx is done.
func (s *Session) WatchCatalog(ctx context.Context, path string) error {
	return catalog.Watch(ctx, path,
		func(c *catalog.Catalog) { s.SetCatalog(c, path) },
		func(err error) { s.logger.Log(log.NewIOFailureEvent("reload catalog", path, err)) },
	)
}

// NameKey returns the name variant used for display.
func (s *Session) NameKey() catalog.NameKey {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nameKey
}

// SetNameKey changes the name variant used for display.
func (s *Session) SetNameKey(k catalog.NameKey) {
	s.mu.Lock()
	s.nameKey = k
	s.mu.Unlock()
	s.notify()
}

// SetPointCap changes the display-only point budget.
func (s *Session) SetPointCap(n int) {
	s.mu.Lock()
	s.pointCap = n
	s.mu.Unlock()
	s.notify()
}

// Path returns the deck file the session is bound to, if any.
func (s *Session) Path() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.path
}

// Resolve looks up a card by game id.
func (s *Session) Resolve(gameID int) (*catalog.Card, bool) {
	return s.Catalog().ResolveByGameID(gameID)
}

// DisplayName returns the card's name in the session's variant, or its game
// id when it has no name at all.
func (s *Session) DisplayName(card *catalog.Card) string {
	if name, ok := card.DisplayName(s.NameKey()); ok {
		return name
	}
	return fmt.Sprintf("%d", card.GameID)
}

// Search finds cards by display name.
func (s *Session) Search(query string) []*catalog.Card {
	s.mu.Lock()
	c, key := s.catalog, s.nameKey
	s.mu.Unlock()
	return c.Search(query, key)
}

// Add puts one copy of gameID into d.
func (s *Session) Add(d deck.Name, gameID int) error {
	s.mu.Lock()
	err := s.state.Add(s.catalog, d, gameID)
	count := s.state.Count(d, gameID)
	name := s.nameLocked(gameID)
	s.mu.Unlock()

	if err != nil {
		s.logger.Log(log.NewAddRejectedEvent(d.String(), gameID, name, err.Error()))
		return err
	}
	s.logger.Log(log.NewCardAddedEvent(d.String(), gameID, name, count))
	s.notify()
	return nil
}

// AddPreferred adds gameID to the deck its type belongs in: Extra for Fusion,
// Synchro and Xyz monsters, Main for everything else.
func (s *Session) AddPreferred(gameID int) (deck.Name, error) {
	card, ok := s.Resolve(gameID)
	if !ok {
		err := &deck.UnknownCardError{GameID: gameID}
		s.logger.Log(log.NewAddRejectedEvent("", gameID, "", err.Error()))
		return deck.Main, err
	}
	d := deck.Preferred(card)
	return d, s.Add(d, gameID)
}

// Remove takes amount copies (or deck.All) of gameID out of d.
func (s *Session) Remove(d deck.Name, gameID int, amount int) {
	s.mu.Lock()
	before := s.state.Count(d, gameID)
	s.state.Remove(d, gameID, amount)
	after := s.state.Count(d, gameID)
	name := s.nameLocked(gameID)
	s.mu.Unlock()

	if before == after {
		return
	}
	s.logger.Log(log.NewCardRemovedEvent(d.String(), gameID, name, after))
	s.notify()
}

// NewDeck empties all three decks and forgets the file path.
func (s *Session) NewDeck() {
	s.mu.Lock()
	s.state.Clear()
	s.path = ""
	s.mu.Unlock()
	s.logger.Log(log.NewDeckClearedEvent())
	s.notify()
}

// Open replaces the decks with the contents of the file at path. On failure
// the current decks are left as they were.
func (s *Session) Open(path string) error {
	c := s.Catalog()
	st, err := deck.ReadFile(path, c)
	if err != nil {
		s.logger.Log(log.NewIOFailureEvent("open", path, err))
		return err
	}

	s.mu.Lock()
	s.state = st
	s.path = path
	s.mu.Unlock()

	s.logger.Log(log.NewDeckLoadedEvent(path, st.TotalCount(deck.Main), st.TotalCount(deck.Extra), st.TotalCount(deck.Side)))
	s.notify()
	return nil
}

// Import replaces the decks with .ydk text read from r. The file path is
// kept.
func (s *Session) Import(r io.Reader, source string) error {
	st, err := deck.Parse(r, s.Catalog())
	if err != nil {
		s.logger.Log(log.NewIOFailureEvent("import", source, err))
		return fmt.Errorf("import deck: %w", err)
	}

	s.mu.Lock()
	s.state = st
	s.mu.Unlock()

	s.logger.Log(log.NewDeckLoadedEvent(source, st.TotalCount(deck.Main), st.TotalCount(deck.Extra), st.TotalCount(deck.Side)))
	s.notify()
	return nil
}

// Save writes the decks back to the file they came from.
func (s *Session) Save() error {
	path := s.Path()
	if path == "" {
		return ErrNoPath
	}
	return s.SaveAs(path)
}

// SaveAs validates the decks and writes them to path, which becomes the
// session's file. An illegal deck is refused with *IllegalDeckError and
// nothing is written. A failed write keeps the decks in memory.
func (s *Session) SaveAs(path string) error {
	s.mu.Lock()
	violations := deck.Validate(s.state, s.catalog)
	st := s.state.Clone()
	creator := s.creator
	s.mu.Unlock()

	if len(violations) > 0 {
		s.logger.Log(log.NewSaveRejectedEvent(path, violationStrings(violations)))
		return &IllegalDeckError{Violations: violations}
	}

	if err := deck.WriteFile(path, st, creator); err != nil {
		s.logger.Log(log.NewIOFailureEvent("save", path, err))
		return err
	}

	s.mu.Lock()
	s.path = path
	s.mu.Unlock()

	s.logger.Log(log.NewDeckSavedEvent(path, st.TotalCount(deck.Main), st.TotalCount(deck.Extra), st.TotalCount(deck.Side)))
	s.notify()
	return nil
}

// Export validates the decks and returns their .ydk text.
func (s *Session) Export() (string, error) {
	s.mu.Lock()
	violations := deck.Validate(s.state, s.catalog)
	text := deck.Serialize(s.state, s.creator)
	s.mu.Unlock()

	if len(violations) > 0 {
		s.logger.Log(log.NewSaveRejectedEvent("export", violationStrings(violations)))
		return "", &IllegalDeckError{Violations: violations}
	}
	return text, nil
}

// Validate reports every rule the current decks break.
func (s *Session) Validate() []deck.Violation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return deck.Validate(s.state, s.catalog)
}

// State returns a copy of the current decks.
func (s *Session) State() *deck.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// nameLocked returns the display name for gameID; s.mu must be held.
func (s *Session) nameLocked(gameID int) string {
	card, ok := s.catalog.ResolveByGameID(gameID)
	if !ok {
		return ""
	}
	name, _ := card.DisplayName(s.nameKey)
	return name
}

func violationStrings(vs []deck.Violation) []string {
	out := make([]string, len(vs))
	for i, v := range vs {
		out[i] = v.Error()
	}
	return out
}

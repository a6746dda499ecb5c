package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
)

// ErrLoad is matched by every catalog load failure.
var ErrLoad = errors.New("catalog load failed")

// LoadError reports a structural failure reading the catalog source.
type LoadError struct {
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	if e.Source == "" {
		return fmt.Sprintf("load catalog: %v", e.Err)
	}
	return fmt.Sprintf("load catalog %s: %v", e.Source, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

func (e *LoadError) Is(target error) bool { return target == ErrLoad }

// RawCard is one record of the catalog source, already decoded.
type RawCard struct {
	ID    int
	Names map[NameKey]string
	Types string
	Desc  string
	Point int
}

// Catalog is the read-only index of all known cards. It is safe for
// concurrent reads because nothing mutates it after construction.
type Catalog struct {
	cards  map[string]*Card
	byGame map[string]string // game id (decimal) → catalog id
}

// Load decodes a catalog source of the form
//
//	{"<catalog id>": {"id": 123, "cn_name": "...", "text": {"types": "...", "desc": "..."}, "point": 0}}
//
// Only a source that is not a JSON object fails; malformed entries are skipped.
func Load(r io.Reader) (*Catalog, error) {
	var top map[string]json.RawMessage
	if err := json.NewDecoder(r).Decode(&top); err != nil {
		return nil, &LoadError{Err: err}
	}
	if top == nil {
		return nil, &LoadError{Err: errors.New("catalog source is not an object")}
	}

	entries := make(map[string]RawCard, len(top))
	for cid, data := range top {
		raw, ok := decodeEntry(data)
		if !ok {
			continue
		}
		entries[cid] = raw
	}
	return LoadEntries(entries), nil
}

// LoadFile reads the catalog source at path.
func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{Source: path, Err: err}
	}
	defer f.Close()

	c, err := Load(f)
	if err != nil {
		var le *LoadError
		if errors.As(err, &le) {
			le.Source = path
		}
		return nil, err
	}
	return c, nil
}

// LoadEntries builds a catalog from decoded records. Entries without a game
// id and link or pendulum cards are left out. Entries are registered in
// catalog id order, so when two entries share a game id the later one wins.
func LoadEntries(entries map[string]RawCard) *Catalog {
	c := &Catalog{
		cards:  make(map[string]*Card, len(entries)),
		byGame: make(map[string]string, len(entries)),
	}

	cids := make([]string, 0, len(entries))
	for cid := range entries {
		cids = append(cids, cid)
	}
	sort.Strings(cids)

	for _, cid := range cids {
		raw := entries[cid]
		if raw.ID <= 0 {
			continue
		}
		card := &Card{
			CatalogID: cid,
			GameID:    raw.ID,
			Names:     make(map[NameKey]string, len(raw.Names)),
			TypeText:  raw.Types,
			Desc:      raw.Desc,
			Point:     max(raw.Point, 0),
		}
		for k, v := range raw.Names {
			card.Names[k] = v
		}
		if card.excluded() {
			continue
		}
		c.cards[cid] = card
		c.byGame[strconv.Itoa(card.GameID)] = cid
	}
	return c
}

// decodeEntry pulls the fields the engine needs out of one source record.
func decodeEntry(data json.RawMessage) (RawCard, bool) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil || fields == nil {
		return RawCard{}, false
	}

	var raw RawCard
	idData, ok := fields["id"]
	if !ok || json.Unmarshal(idData, &raw.ID) != nil {
		return RawCard{}, false
	}

	raw.Names = make(map[NameKey]string)
	for _, k := range NameKeys {
		var name string
		if v, ok := fields[string(k)]; ok && json.Unmarshal(v, &name) == nil {
			raw.Names[k] = name
		}
	}

	if v, ok := fields["text"]; ok {
		var text struct {
			Types string `json:"types"`
			Desc  string `json:"desc"`
		}
		if json.Unmarshal(v, &text) == nil {
			raw.Types = text.Types
			raw.Desc = text.Desc
		}
	}

	if v, ok := fields["point"]; ok {
		// A malformed point cost is treated as no cost.
		_ = json.Unmarshal(v, &raw.Point)
	}
	return raw, true
}

// Len returns the number of cards in the catalog.
func (c *Catalog) Len() int {
	return len(c.cards)
}

// Card looks up a card by its catalog id.
func (c *Catalog) Card(catalogID string) (*Card, bool) {
	card, ok := c.cards[catalogID]
	return card, ok
}

// ResolveByGameID looks up a card by the numeric id used in deck files.
func (c *Catalog) ResolveByGameID(id int) (*Card, bool) {
	if c == nil {
		return nil, false
	}
	cid, ok := c.byGame[strconv.Itoa(id)]
	if !ok {
		return nil, false
	}
	return c.cards[cid], true
}

// Cards returns every card ordered by catalog id.
func (c *Catalog) Cards() []*Card {
	result := make([]*Card, 0, len(c.cards))
	for _, card := range c.cards {
		result = append(result, card)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CatalogID < result[j].CatalogID
	})
	return result
}

package catalog

import (
	"sort"
	"strings"
)

// Search returns the cards whose display name under key contains query,
// ignoring case. Cards with no name at all are never listed. Results are
// ordered by display name, then catalog id.
func (c *Catalog) Search(query string, key NameKey) []*Card {
	query = strings.ToLower(strings.TrimSpace(query))

	type hit struct {
		card *Card
		name string
	}
	var hits []hit
	for _, card := range c.cards {
		name, ok := card.DisplayName(key)
		if !ok {
			continue
		}
		if query != "" && !strings.Contains(strings.ToLower(name), query) {
			continue
		}
		hits = append(hits, hit{card: card, name: name})
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].name != hits[j].name {
			return hits[i].name < hits[j].name
		}
		return hits[i].card.CatalogID < hits[j].card.CatalogID
	})

	result := make([]*Card, len(hits))
	for i, h := range hits {
		result[i] = h.card
	}
	return result
}

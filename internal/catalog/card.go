package catalog

import "strings"

// NameKey identifies one name variant of a card in the catalog source.
type NameKey string

const (
	NameYGOPro  NameKey = "cn_name" // default fallback variant
	NameSC      NameKey = "sc_name"
	NameNWBBS   NameKey = "nwbbs_n"
	NameCNOCG   NameKey = "cnocg_n"
	NameJapan   NameKey = "jp_name"
	NameEnglish NameKey = "en_name"
)

// NameKeys lists every known name variant in fallback order.
var NameKeys = []NameKey{NameYGOPro, NameSC, NameNWBBS, NameCNOCG, NameJapan, NameEnglish}

// ValidNameKey reports whether k is one of the known name variants.
func ValidNameKey(k NameKey) bool {
	for _, known := range NameKeys {
		if k == known {
			return true
		}
	}
	return false
}

// Type markers, in the Chinese form used by the source data and in English.
var (
	extraDeckMarkers = []string{"融合", "同调", "超量", "Fusion", "Synchro", "Xyz"}
	excludedMarkers  = []string{"链接", "灵摆", "Link", "Pendulum"}
)

// Card is a single catalog entry. Cards are never modified after load.
type Card struct {
	CatalogID string
	GameID    int
	Names     map[NameKey]string
	TypeText  string
	Desc      string
	Point     int
}

func (c *Card) String() string {
	if name, ok := c.DisplayName(NameYGOPro); ok {
		return name
	}
	return c.CatalogID
}

// DisplayName returns the requested name variant. An empty variant falls back
// to the YGOPro name, then to the first non-empty known variant.
func (c *Card) DisplayName(key NameKey) (string, bool) {
	if name := c.Names[key]; name != "" {
		return name, true
	}
	if name := c.Names[NameYGOPro]; name != "" {
		return name, true
	}
	for _, k := range NameKeys {
		if name := c.Names[k]; name != "" {
			return name, true
		}
	}
	return "", false
}

// IsExtraDeckType reports whether the card is a Fusion, Synchro or Xyz monster.
// This is the only predicate deck legality looks at.
func (c *Card) IsExtraDeckType() bool {
	return containsAny(c.TypeText, extraDeckMarkers)
}

// excluded reports whether the card belongs to a type the format bans outright.
func (c *Card) excluded() bool {
	return containsAny(c.TypeText, excludedMarkers)
}

func containsAny(s string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}

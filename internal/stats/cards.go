package stats

import (
	"sort"
	"strings"

	"github.com/ramonehamilton/precon-stats/internal/storage/models"
)

// SortOrder orders the card browser.
type SortOrder string

const (
	SortName    SortOrder = "name"
	SortCMCAsc  SortOrder = "cmc_asc"
	SortCMCDesc SortOrder = "cmc_desc"
)

// ParseSortOrder maps a query value to a SortOrder. Unknown values sort by name.
func ParseSortOrder(s string) SortOrder {
	switch SortOrder(strings.ToLower(strings.TrimSpace(s))) {
	case SortCMCAsc:
		return SortCMCAsc
	case SortCMCDesc:
		return SortCMCDesc
	default:
		return SortName
	}
}

// CardFilter selects cards for the card browser. Empty fields match
// everything. Tag and Type match by substring of the card's joined lists.
type CardFilter struct {
	Deck   string
	Tag    string
	Type   string
	CMCMin *int
	CMCMax *int
	Sort   SortOrder
}

// CardResult is a filtered card list and the size of the pool it came from.
type CardResult struct {
	Cards []*models.EnrichedCard `json:"cards"`
	Total int                    `json:"total"`
}

// FilterCards applies f. Total counts the cards of the selected deck (or all
// cards) before the tag, type and CMC filters.
func (s *Snapshot) FilterCards(f CardFilter) *CardResult {
	pool := s.Cards
	if f.Deck != "" {
		pool = s.deckCards(f.Deck)
	}

	res := &CardResult{Total: len(pool), Cards: []*models.EnrichedCard{}}
	for _, c := range pool {
		if f.Tag != "" && !strings.Contains(c.Tags, f.Tag) {
			continue
		}
		if f.Type != "" && !strings.Contains(c.Types, f.Type) {
			continue
		}
		if f.CMCMin != nil && c.CMC < *f.CMCMin {
			continue
		}
		if f.CMCMax != nil && c.CMC > *f.CMCMax {
			continue
		}
		res.Cards = append(res.Cards, c)
	}

	sortCards(res.Cards, f.Sort)
	return res
}

func sortCards(cards []*models.EnrichedCard, order SortOrder) {
	sort.SliceStable(cards, func(i, j int) bool {
		a, b := cards[i], cards[j]
		switch order {
		case SortCMCAsc:
			if a.CMC != b.CMC {
				return a.CMC < b.CMC
			}
		case SortCMCDesc:
			if a.CMC != b.CMC {
				return a.CMC > b.CMC
			}
		}
		return a.Name < b.Name
	})
}

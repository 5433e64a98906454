package stats

import (
	"fmt"
	"sort"

	"github.com/ramonehamilton/precon-stats/internal/storage/models"
)

// DeckBreakdown is everything the deck tab shows about one deck.
type DeckBreakdown struct {
	Deck  string                 `json:"deck"`
	Stats *models.DeckStats      `json:"stats"`
	Tags  []*models.TagDeckCount `json:"tags"`
	CMC   []*models.CMCBucket    `json:"cmc"`

	// Comparison holds every deck's stats by average CMC, highest first.
	Comparison []*models.DeckStats `json:"comparison"`
}

// DeckBreakdown returns the tag counts, stats and mana curve of deck.
func (s *Snapshot) DeckBreakdown(deck string) (*DeckBreakdown, error) {
	stats, ok := s.deckStats[deck]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownDeck, deck)
	}

	b := &DeckBreakdown{
		Deck:       deck,
		Stats:      stats,
		Tags:       s.DeckTags(deck),
		CMC:        s.DeckCMC(deck),
		Comparison: s.DecksByAvgCMC(),
	}
	return b, nil
}

// DeckTags returns the tag counts of deck, most cards first.
func (s *Snapshot) DeckTags(deck string) []*models.TagDeckCount {
	var rows []*models.TagDeckCount
	for _, row := range s.TagsPerDeck {
		if row.DeckName == deck {
			rows = append(rows, row)
		}
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Count > rows[j].Count
	})
	return rows
}

// DeckCMC returns the mana curve of deck ordered by cost.
func (s *Snapshot) DeckCMC(deck string) []*models.CMCBucket {
	var rows []*models.CMCBucket
	for _, row := range s.CMCHistogram {
		if row.DeckName == deck {
			rows = append(rows, row)
		}
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].CMC < rows[j].CMC
	})
	return rows
}

// DecksByAvgCMC returns the deck stats sorted by average CMC, highest first.
func (s *Snapshot) DecksByAvgCMC() []*models.DeckStats {
	out := make([]*models.DeckStats, len(s.DeckStats))
	copy(out, s.DeckStats)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].AvgCMC != out[j].AvgCMC {
			return out[i].AvgCMC > out[j].AvgCMC
		}
		return out[i].DeckName < out[j].DeckName
	})
	return out
}

// DeckTypes returns the sorted card types present among deck's cards.
func (s *Snapshot) DeckTypes(deck string) []string {
	seen := map[string]bool{}
	for _, c := range s.deckCards(deck) {
		for _, t := range c.TypeList() {
			seen[t] = true
		}
	}
	return sortedKeys(seen)
}

// DeckTagNames returns the sorted tags carried by deck.
func (s *Snapshot) DeckTagNames(deck string) []string {
	seen := map[string]bool{}
	for _, row := range s.TagsPerDeck {
		if row.DeckName == deck {
			seen[row.TagName] = true
		}
	}
	return sortedKeys(seen)
}

// DeckCMCRange returns the lowest and highest CMC among deck's cards, lands
// included. ok is false when the deck has no cards.
func (s *Snapshot) DeckCMCRange(deck string) (lo, hi int, ok bool) {
	for _, c := range s.deckCards(deck) {
		if !ok {
			lo, hi, ok = c.CMC, c.CMC, true
			continue
		}
		lo = min(lo, c.CMC)
		hi = max(hi, c.CMC)
	}
	return lo, hi, ok
}

// deckCards returns the cards of deck in card name order.
func (s *Snapshot) deckCards(deck string) []*models.EnrichedCard {
	return s.members[deck]
}

func sortedKeys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

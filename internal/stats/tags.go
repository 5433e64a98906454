package stats

import (
	"fmt"
	"sort"

	"github.com/ramonehamilton/precon-stats/internal/storage/models"
)

// TagDistribution is how one tag spreads across the decks.
type TagDistribution struct {
	Tag  string                 `json:"tag"`
	Rows []*models.TagDeckCount `json:"rows"`

	DecksWithTag   int     `json:"decks_with_tag"`
	TotalCards     int     `json:"total_cards"`
	AveragePerDeck float64 `json:"average_per_deck"`
	MaxInOneDeck   int     `json:"max_in_one_deck"`
}

// TagTotal is the number of tagged cards summed over every deck.
type TagTotal struct {
	Tag        string `json:"tag"`
	TotalCards int    `json:"total_cards"`
}

// TagDistribution returns the decks carrying tag, most cards first.
func (s *Snapshot) TagDistribution(tag string) (*TagDistribution, error) {
	if !s.HasTag(tag) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTag, tag)
	}

	dist := &TagDistribution{Tag: tag}
	for _, row := range s.TagsPerDeck {
		if row.TagName != tag {
			continue
		}
		dist.Rows = append(dist.Rows, row)
		dist.TotalCards += row.Count
		if row.Count > dist.MaxInOneDeck {
			dist.MaxInOneDeck = row.Count
		}
	}

	sort.SliceStable(dist.Rows, func(i, j int) bool {
		if dist.Rows[i].Count != dist.Rows[j].Count {
			return dist.Rows[i].Count > dist.Rows[j].Count
		}
		return dist.Rows[i].DeckName < dist.Rows[j].DeckName
	})

	dist.DecksWithTag = len(dist.Rows)
	if dist.DecksWithTag > 0 {
		dist.AveragePerDeck = float64(dist.TotalCards) / float64(dist.DecksWithTag)
	}

	return dist, nil
}

// TagTotals returns every tag with its card count across all decks, largest
// first.
func (s *Snapshot) TagTotals() []TagTotal {
	totals := map[string]int{}
	for _, row := range s.TagsPerDeck {
		totals[row.TagName] += row.Count
	}

	out := make([]TagTotal, 0, len(totals))
	for tag, n := range totals {
		out = append(out, TagTotal{Tag: tag, TotalCards: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalCards != out[j].TotalCards {
			return out[i].TotalCards > out[j].TotalCards
		}
		return out[i].Tag < out[j].Tag
	})

	return out
}

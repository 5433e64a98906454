package charts

import (
	"fmt"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"

	"github.com/ramonehamilton/precon-stats/internal/stats"
	"github.com/ramonehamilton/precon-stats/internal/storage/models"
)

// TagAcrossDecks charts how many cards of one tag each deck holds.
func TagAcrossDecks(dist *stats.TagDistribution) *charts.Bar {
	config := DefaultChartConfig()
	config.Title = fmt.Sprintf("%q Cards in Each Deck", dist.Tag)
	config.XAxisLabel = "Deck"
	config.YAxisLabel = "Number of Cards"

	points := make([]DataPoint, 0, len(dist.Rows))
	for _, row := range dist.Rows {
		points = append(points, DataPoint{Label: row.DeckName, Value: float64(row.Count)})
	}
	return NewBarChart(points, config, "Cards", "")
}

// TagComparison charts every tag's card total across all decks with the
// selected tag highlighted.
func TagComparison(totals []stats.TagTotal, selected string) *charts.Bar {
	config := DefaultChartConfig()
	config.Title = "Total Cards per Tag Across All Decks"
	config.XAxisLabel = "Tag"
	config.YAxisLabel = "Total Cards"

	points := make([]DataPoint, 0, len(totals))
	for _, t := range totals {
		points = append(points, DataPoint{Label: t.Tag, Value: float64(t.TotalCards)})
	}
	return NewBarChart(points, config, "Total Cards", selected)
}

// DeckTags charts the tag counts of one deck.
func DeckTags(deck string, rows []*models.TagDeckCount) *charts.Bar {
	config := DefaultChartConfig()
	config.Title = "Tag Count in " + deck
	config.XAxisLabel = "Tag"
	config.YAxisLabel = "Count"

	points := make([]DataPoint, 0, len(rows))
	for _, row := range rows {
		points = append(points, DataPoint{Label: row.TagName, Value: float64(row.Count)})
	}
	return NewBarChart(points, config, "Count", "")
}

// CMCHistogram charts a deck's non-land cards by converted mana cost. Costs
// between the lowest and highest bucket with no cards are shown as zero.
func CMCHistogram(deck string, buckets []*models.CMCBucket) *charts.Bar {
	config := DefaultChartConfig()
	config.Title = "CMC Distribution in " + deck
	config.XAxisLabel = "Converted Mana Cost"
	config.YAxisLabel = "Number of Cards"
	config.LabelAngle = 0

	return NewBarChart(histogramPoints(buckets), config, "Cards", "")
}

func histogramPoints(buckets []*models.CMCBucket) []DataPoint {
	if len(buckets) == 0 {
		return nil
	}

	counts := map[int]int{}
	lo, hi := buckets[0].CMC, buckets[0].CMC
	for _, b := range buckets {
		counts[b.CMC] += b.Count
		lo = min(lo, b.CMC)
		hi = max(hi, b.CMC)
	}

	points := make([]DataPoint, 0, hi-lo+1)
	for cmc := lo; cmc <= hi; cmc++ {
		points = append(points, DataPoint{Label: strconv.Itoa(cmc), Value: float64(counts[cmc])})
	}
	return points
}

// AvgCMCComparison charts every deck's average CMC with the selected deck
// highlighted. decks should already be in display order.
func AvgCMCComparison(decks []*models.DeckStats, selected string) *charts.Bar {
	config := DefaultChartConfig()
	config.Title = "Average CMC Across All Decks"
	config.XAxisLabel = "Deck"
	config.YAxisLabel = "Average CMC"

	points := make([]DataPoint, 0, len(decks))
	for _, d := range decks {
		points = append(points, DataPoint{Label: d.DeckName, Value: roundTo(d.AvgCMC, 2)})
	}
	return NewBarChart(points, config, "Average CMC", selected)
}

func roundTo(v float64, places int) float64 {
	p := 1.0
	for i := 0; i < places; i++ {
		p *= 10
	}
	return float64(int64(v*p+0.5)) / p
}

package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ramonehamilton/precon-stats/internal/storage/models"
	"github.com/ramonehamilton/precon-stats/internal/stats"
)

func TestSafeFileName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Deck A", "deck_a"},
		{"  Eldrazi Unbound ", "eldrazi_unbound"},
		{"Jund/Dragons", "jund_dragons"},
		{"already-safe_1", "already-safe_1"},
		{"", "deck"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, safeFileName(tt.in))
		})
	}
}

func TestWriteReport(t *testing.T) {
	snap := stats.NewSnapshot(
		&models.Summary{TotalCards: 2, TotalDecks: 1, TotalTags: 1, TaggedCards: 1},
		[]*models.TagDeckCount{{DeckName: "Deck A", TagName: "ramp", Count: 1}},
		[]*models.DeckStats{{DeckName: "Deck A", TotalCards: 1, AvgCMC: 3, UniqueTags: 1}},
		[]*models.CMCBucket{{DeckName: "Deck A", CMC: 3, Count: 1}},
		[]*models.EnrichedCard{{Name: "A", CMC: 3, Tags: "ramp", Decks: "Deck A"}},
		[]*models.DeckCard{{CardName: "A", DeckName: "Deck A"}},
	)

	dir := t.TempDir()
	files, err := writeReport(snap, dir)
	require.NoError(t, err)
	require.Len(t, files, 3)

	for _, name := range []string{"tags.html", "avg_cmc.html", "cmc_deck_a.html"} {
		info, err := os.Stat(filepath.Join(dir, name))
		require.NoError(t, err, name)
		assert.Positive(t, info.Size())
	}
}

func TestWriteReportCollidingDeckNames(t *testing.T) {
	snap := stats.NewSnapshot(
		nil,
		nil,
		[]*models.DeckStats{
			{DeckName: "Counter Blitz", TotalCards: 1, AvgCMC: 2},
			{DeckName: "counter_blitz", TotalCards: 1, AvgCMC: 3},
		},
		[]*models.CMCBucket{
			{DeckName: "Counter Blitz", CMC: 2, Count: 1},
			{DeckName: "counter_blitz", CMC: 3, Count: 1},
		},
		nil,
		nil,
	)

	dir := t.TempDir()
	files, err := writeReport(snap, dir)
	require.NoError(t, err)
	require.Len(t, files, 4)
	assert.Equal(t, filepath.Join(dir, "cmc_counter_blitz.html"), files[2])
	assert.Equal(t, filepath.Join(dir, "cmc_counter_blitz_2.html"), files[3])
}

func TestUniqueName(t *testing.T) {
	used := map[string]bool{}
	assert.Equal(t, "a.html", uniqueName(used, "a", ".html"))
	assert.Equal(t, "a_2.html", uniqueName(used, "a", ".html"))
	assert.Equal(t, "a_3.html", uniqueName(used, "a", ".html"))
	assert.Equal(t, "b.html", uniqueName(used, "b", ".html"))
}

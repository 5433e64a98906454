package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ramonehamilton/precon-stats/internal/storage/models"
)

func TestStatsRepository_LandExcludedFromDeckStats(t *testing.T) {
	db := setupTestDB(t)
	seed(t, db,
		[]fixtureCard{
			{name: "A", cmc: 2, types: []string{"land"}},
			{name: "B", cmc: 3, types: []string{"creature"}},
		},
		map[string][]string{"T": {"A", "B"}},
		map[string][]string{"D": {"A", "B"}},
	)

	stats, err := NewStatsRepository(db).DeckStats(context.Background())
	require.NoError(t, err)
	require.Len(t, stats, 1)

	assert.Equal(t, "D", stats[0].DeckName)
	assert.Equal(t, 1, stats[0].TotalCards)
	assert.InDelta(t, 3.0, stats[0].AvgCMC, 1e-9)
	assert.Equal(t, 1, stats[0].UniqueTags)
}

func TestStatsRepository_TagsPerDeck(t *testing.T) {
	db := setupTestDB(t)
	seed(t, db,
		[]fixtureCard{
			{name: "A", cmc: 2, types: []string{"land"}},
			{name: "B", cmc: 3, types: []string{"creature"}},
			{name: "C", cmc: 1, types: []string{"instant"}},
		},
		map[string][]string{
			"T":       {"A", "B"},
			"removal": {"C"},
			"unused":  {"C"},
		},
		map[string][]string{
			"D": {"A", "B"},
			"E": {"C"},
		},
	)

	rows, err := NewStatsRepository(db).TagsPerDeck(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []*models.TagDeckCount{
		{DeckName: "D", TagName: "T", Count: 2},
		{DeckName: "E", TagName: "removal", Count: 1},
		{DeckName: "E", TagName: "unused", Count: 1},
	}, rows)
}

func TestStatsRepository_TagsPerDeckOrdering(t *testing.T) {
	db := setupTestDB(t)
	seed(t, db,
		[]fixtureCard{
			{name: "A", cmc: 1, types: []string{"creature"}},
			{name: "B", cmc: 2, types: []string{"creature"}},
			{name: "C", cmc: 3, types: []string{"sorcery"}},
		},
		map[string][]string{
			"draw": {"A"},
			"ramp": {"A", "B", "C"},
		},
		map[string][]string{"D": {"A", "B", "C"}},
	)

	rows, err := NewStatsRepository(db).TagsPerDeck(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "ramp", rows[0].TagName)
	assert.Equal(t, 3, rows[0].Count)
	assert.Equal(t, "draw", rows[1].TagName)
}

func TestStatsRepository_CMCHistogram(t *testing.T) {
	db := setupTestDB(t)
	seed(t, db,
		[]fixtureCard{
			{name: "Forest", cmc: 0, types: []string{"land"}},
			{name: "Llanowar Elves", cmc: 1, types: []string{"creature"}},
			{name: "Sol Ring", cmc: 1, types: []string{"artifact"}},
			{name: "Cultivate", cmc: 3, types: []string{"sorcery"}},
			{name: "Dryad Arbor", cmc: 0, types: []string{"land", "creature"}},
		},
		nil,
		map[string][]string{
			"D": {"Forest", "Llanowar Elves", "Sol Ring", "Cultivate", "Dryad Arbor"},
			"E": {"Cultivate"},
		},
	)

	rows, err := NewStatsRepository(db).CMCHistogram(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []*models.CMCBucket{
		{DeckName: "D", CMC: 1, Count: 2},
		{DeckName: "D", CMC: 3, Count: 1},
		{DeckName: "E", CMC: 3, Count: 1},
	}, rows)
}

func TestStatsRepository_DeckWithOnlyLands(t *testing.T) {
	db := setupTestDB(t)
	seed(t, db,
		[]fixtureCard{{name: "Island", cmc: 0, types: []string{"land"}}},
		nil,
		map[string][]string{"lands": {"Island"}},
	)

	stats, err := NewStatsRepository(db).DeckStats(context.Background())
	require.NoError(t, err)
	require.Len(t, stats, 1)
	assert.Zero(t, stats[0].TotalCards)
	assert.Zero(t, stats[0].AvgCMC)
}

func TestStatsRepository_EnrichedCards(t *testing.T) {
	db := setupTestDB(t)
	seed(t, db,
		[]fixtureCard{
			{name: "Dryad Arbor", cmc: 0, types: []string{"land", "creature"}},
			{name: "Lonely Card", cmc: 4, types: []string{"sorcery"}},
		},
		map[string][]string{
			"ramp":   {"Dryad Arbor"},
			"blocker": {"Dryad Arbor"},
		},
		map[string][]string{
			"zeta":  {"Dryad Arbor"},
			"alpha": {"Dryad Arbor"},
		},
	)

	cards, err := NewStatsRepository(db).EnrichedCards(context.Background())
	require.NoError(t, err)
	require.Len(t, cards, 2)

	arbor := cards[0]
	assert.Equal(t, "Dryad Arbor", arbor.Name)
	assert.Equal(t, "creature,land", arbor.Types)
	assert.Equal(t, "blocker,ramp", arbor.Tags)
	assert.Equal(t, "alpha,zeta", arbor.Decks)
	assert.Equal(t, []string{"alpha", "zeta"}, arbor.DeckList())

	lonely := cards[1]
	assert.Equal(t, "sorcery", lonely.Types)
	assert.Empty(t, lonely.Tags)
	assert.Empty(t, lonely.Decks)
	assert.Nil(t, lonely.TagList())
}

func TestStatsRepository_Summary(t *testing.T) {
	db := setupTestDB(t)
	seed(t, db,
		[]fixtureCard{
			{name: "A", cmc: 1, types: []string{"creature"}},
			{name: "B", cmc: 2, types: []string{"creature"}},
			{name: "C", cmc: 3, types: []string{"creature"}},
		},
		map[string][]string{
			"x": {"A", "B"},
			"y": {"A"},
		},
		map[string][]string{"D": {"A"}},
	)

	summary, err := NewStatsRepository(db).Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, &models.Summary{TotalCards: 3, TotalDecks: 1, TotalTags: 2, TaggedCards: 2}, summary)
}

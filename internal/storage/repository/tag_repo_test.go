package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ramonehamilton/precon-stats/internal/storage/models"
)

func TestTagRepository_TagCard(t *testing.T) {
	db := setupTestDB(t)
	cards := NewCardRepository(db)
	repo := NewTagRepository(db)
	ctx := context.Background()

	_, err := cards.Insert(ctx, &models.Card{Name: "Swords to Plowshares", CMC: 1, TypeLine: "Instant"})
	require.NoError(t, err)

	created, err := repo.TagCard(ctx, "Swords to Plowshares", "removal")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = repo.TagCard(ctx, "Swords to Plowshares", "removal")
	require.NoError(t, err)
	assert.False(t, created)

	tags, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"removal"}, tags)

	cardTags, err := repo.GetCardTags(ctx, "Swords to Plowshares")
	require.NoError(t, err)
	assert.Equal(t, []string{"removal"}, cardTags)
}

func TestTagRepository_TagCardRequiresCard(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTagRepository(db)

	_, err := repo.TagCard(context.Background(), "Unknown Card", "ramp")
	assert.Error(t, err)
}

func TestTagRepository_InsertIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTagRepository(db)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := repo.Insert(ctx, "draw")
		require.NoError(t, err)
	}

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, err = repo.Insert(ctx, "")
	assert.Error(t, err)
}

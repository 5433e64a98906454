package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ramonehamilton/precon-stats/internal/storage/models"
)

func TestService_StoreCardWithTypes(t *testing.T) {
	service := setupTestService(t)
	ctx := context.Background()

	card := &models.Card{Name: "Dryad Arbor", CMC: 0, TypeLine: "Land Creature — Forest Dryad"}
	err := service.Write(ctx, func(w *Writer) error {
		created, err := w.StoreCard(ctx, card, []string{"land", "creature"})
		assert.True(t, created)
		return err
	})
	require.NoError(t, err)

	types, err := service.CardTypes(ctx, "Dryad Arbor")
	require.NoError(t, err)
	assert.Equal(t, []string{"creature", "land"}, types)
}

func TestService_AddToDeckGating(t *testing.T) {
	service := setupTestService(t)
	ctx := context.Background()

	err := service.Write(ctx, func(w *Writer) error {
		added, err := w.AddToDeck(ctx, "ghost_deck", "Unknown Card")
		assert.False(t, added)
		return err
	})
	require.NoError(t, err)

	decks, err := service.Decks(ctx)
	require.NoError(t, err)
	assert.Empty(t, decks, "a deck with no known cards must not be created")

	err = service.Write(ctx, func(w *Writer) error {
		if _, err := w.StoreCard(ctx, &models.Card{Name: "Sol Ring", CMC: 1, TypeLine: "Artifact"}, []string{"artifact"}); err != nil {
			return err
		}
		added, err := w.AddToDeck(ctx, "real_deck", "Sol Ring")
		assert.True(t, added)
		return err
	})
	require.NoError(t, err)

	decks, err = service.Decks(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"real_deck"}, decks)

	cards, err := service.DeckCards(ctx, "real_deck")
	require.NoError(t, err)
	assert.Equal(t, []string{"Sol Ring"}, cards)
}

func TestService_WriteRollsBackOnError(t *testing.T) {
	service := setupTestService(t)
	ctx := context.Background()

	boom := errors.New("boom")
	err := service.Write(ctx, func(w *Writer) error {
		if _, err := w.Cards.Insert(ctx, &models.Card{Name: "Sol Ring"}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)
	assert.ErrorContains(t, err, "write batch rolled back")

	cards, err := service.Cards(ctx)
	require.NoError(t, err)
	assert.Empty(t, cards)
}

func TestService_WriteRollsBackOnPanic(t *testing.T) {
	service := setupTestService(t)
	ctx := context.Background()

	assert.PanicsWithValue(t, "boom", func() {
		_ = service.Write(ctx, func(w *Writer) error {
			if _, err := w.Cards.Insert(ctx, &models.Card{Name: "Sol Ring"}); err != nil {
				return err
			}
			panic("boom")
		})
	})

	cards, err := service.Cards(ctx)
	require.NoError(t, err)
	assert.Empty(t, cards)
}

func TestService_Counts(t *testing.T) {
	service := setupTestService(t)
	ctx := context.Background()

	err := service.Write(ctx, func(w *Writer) error {
		if _, err := w.StoreCard(ctx, &models.Card{Name: "Sol Ring", CMC: 1}, []string{"artifact"}); err != nil {
			return err
		}
		if _, err := w.Tags.TagCard(ctx, "Sol Ring", "ramp"); err != nil {
			return err
		}
		_, err := w.AddToDeck(ctx, "deck", "Sol Ring")
		return err
	})
	require.NoError(t, err)

	counts, err := service.Counts(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{
		"cards":      1,
		"decks":      1,
		"tags":       1,
		"card_types": 1,
		"deck_cards": 1,
		"card_tags":  1,
	}, counts)

	summary, err := service.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.TaggedCards)
}

func TestService_DeleteDeck(t *testing.T) {
	service := setupTestService(t)
	ctx := context.Background()

	require.NoError(t, service.Write(ctx, func(w *Writer) error {
		if _, err := w.StoreCard(ctx, &models.Card{Name: "Sol Ring", CMC: 1}, nil); err != nil {
			return err
		}
		_, err := w.AddToDeck(ctx, "deck", "Sol Ring")
		return err
	}))

	require.NoError(t, service.DeleteDeck(ctx, "deck"))

	counts, err := service.Counts(ctx)
	require.NoError(t, err)
	assert.Zero(t, counts["decks"])
	assert.Zero(t, counts["deck_cards"])
	assert.Equal(t, 1, counts["cards"])
}

package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ramonehamilton/precon-stats/internal/storage"
	"github.com/ramonehamilton/precon-stats/internal/storage/models"
)

func setupStore(t *testing.T) *storage.Service {
	t.Helper()
	ctx := context.Background()
	store := storage.NewService(storage.NewTestDB(t))

	err := store.Write(ctx, func(w *storage.Writer) error {
		card := &models.Card{Name: "Sol Ring", CMC: 1, TypeLine: "Artifact", ImageURL: "https://img/sol.jpg"}
		if _, err := w.StoreCard(ctx, card, []string{"artifact"}); err != nil {
			return err
		}
		if _, err := w.Tags.TagCard(ctx, "Sol Ring", "ramp"); err != nil {
			return err
		}
		_, err := w.AddToDeck(ctx, "Counter Blitz", "Sol Ring")
		return err
	})
	require.NoError(t, err)
	return store
}

func TestShowCounts(t *testing.T) {
	store := setupStore(t)

	var buf bytes.Buffer
	require.NoError(t, showCounts(context.Background(), &buf, store))
	out := buf.String()
	assert.Contains(t, out, "cards        1")
	assert.Contains(t, out, "deck_cards   1")
	assert.Contains(t, out, "card_tags    1")
}

func TestShowCards(t *testing.T) {
	store := setupStore(t)

	var buf bytes.Buffer
	require.NoError(t, showCards(context.Background(), &buf, store))
	assert.Equal(t, "  1  Sol Ring\n", buf.String())

	empty := storage.NewService(storage.NewTestDB(t))
	buf.Reset()
	require.NoError(t, showCards(context.Background(), &buf, empty))
	assert.Equal(t, "No cards stored.\n", buf.String())
}

func TestShowCard(t *testing.T) {
	color.NoColor = true
	store := setupStore(t)

	var buf bytes.Buffer
	require.NoError(t, showCard(context.Background(), &buf, store, "Sol Ring"))
	out := buf.String()
	assert.Contains(t, out, "Sol Ring\n")
	assert.Contains(t, out, "Types:     artifact")
	assert.Contains(t, out, "Tags:      ramp")
	assert.Contains(t, out, "Image:     https://img/sol.jpg")

	err := showCard(context.Background(), &buf, store, "Black Lotus")
	assert.ErrorContains(t, err, "not found")
}

func TestPrintLines(t *testing.T) {
	var buf bytes.Buffer
	printLines(&buf, []string{"a", "b"}, "none")
	assert.Equal(t, "a\nb\n", buf.String())

	buf.Reset()
	printLines(&buf, nil, "none")
	assert.Equal(t, "none\n", buf.String())
}

package repository

import (
	"context"
	"database/sql"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/ramonehamilton/precon-stats/internal/storage/models"
)

// setupTestDB creates an in-memory database with the production schema.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", "file::memory:?_pragma=foreign_keys(1)")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	schema, err := os.ReadFile("../migrations/000001_initial_schema.up.sql")
	require.NoError(t, err)

	_, err = db.Exec(string(schema))
	require.NoError(t, err)

	return db
}

type fixtureCard struct {
	name  string
	cmc   int
	types []string
}

// seed inserts cards with their types, then tags and deck memberships.
func seed(t *testing.T, db *sql.DB, cards []fixtureCard, tags map[string][]string, decks map[string][]string) {
	t.Helper()
	ctx := context.Background()

	cardRepo := NewCardRepository(db)
	tagRepo := NewTagRepository(db)
	deckRepo := NewDeckRepository(db)

	for _, c := range cards {
		_, err := cardRepo.Insert(ctx, &models.Card{Name: c.name, CMC: c.cmc, TypeLine: strings.Join(c.types, " ")})
		require.NoError(t, err)
		for _, typ := range c.types {
			require.NoError(t, cardRepo.AddType(ctx, c.name, typ))
		}
	}
	for tag, names := range tags {
		for _, name := range names {
			_, err := tagRepo.TagCard(ctx, name, tag)
			require.NoError(t, err)
		}
	}
	for deck, names := range decks {
		_, err := deckRepo.Insert(ctx, deck)
		require.NoError(t, err)
		for _, name := range names {
			_, err := deckRepo.AddCard(ctx, deck, name)
			require.NoError(t, err)
		}
	}
}

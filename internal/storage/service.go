package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ramonehamilton/precon-stats/internal/storage/models"
	"github.com/ramonehamilton/precon-stats/internal/storage/repository"
)

// Service provides high-level operations for storing and reading precon data.
type Service struct {
	db    *DB
	cards repository.CardRepository
	tags  repository.TagRepository
	decks repository.DeckRepository
	stats repository.StatsRepository
}

// NewService creates a new storage service.
func NewService(db *DB) *Service {
	return &Service{
		db:    db,
		cards: repository.NewCardRepository(db.Conn()),
		tags:  repository.NewTagRepository(db.Conn()),
		decks: repository.NewDeckRepository(db.Conn()),
		stats: repository.NewStatsRepository(db.Conn()),
	}
}

// Writer groups the write operations available inside a transaction.
type Writer struct {
	Cards repository.CardRepository
	Tags  repository.TagRepository
	Decks repository.DeckRepository
}

func newWriter(q repository.Querier) *Writer {
	return &Writer{
		Cards: repository.NewCardRepository(q),
		Tags:  repository.NewTagRepository(q),
		Decks: repository.NewDeckRepository(q),
	}
}

// Write runs fn inside a transaction. Every repository on the Writer shares it.
func (s *Service) Write(ctx context.Context, fn func(w *Writer) error) error {
	return s.db.withTx(ctx, func(tx *sql.Tx) error {
		return fn(newWriter(tx))
	})
}

// StoreCard inserts a card and its derived types. An existing card is left
// untouched, but missing type rows are still added.
func (w *Writer) StoreCard(ctx context.Context, card *models.Card, types []string) (bool, error) {
	created, err := w.Cards.Insert(ctx, card)
	if err != nil {
		return false, err
	}
	for _, t := range types {
		if err := w.Cards.AddType(ctx, card.Name, t); err != nil {
			return created, err
		}
	}
	return created, nil
}

// AddToDeck adds a card to a deck only when the card is already stored.
// The deck row is created on the first matched card, so a decklist whose
// cards are all unknown never produces a deck.
func (w *Writer) AddToDeck(ctx context.Context, deckName, cardName string) (bool, error) {
	exists, err := w.Cards.Exists(ctx, cardName)
	if err != nil {
		return false, err
	}
	if !exists {
		return false, nil
	}

	if _, err := w.Decks.Insert(ctx, deckName); err != nil {
		return false, err
	}
	if _, err := w.Decks.AddCard(ctx, deckName, cardName); err != nil {
		return false, err
	}
	return true, nil
}

// Close closes the underlying database.
func (s *Service) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Cards returns every stored card.
func (s *Service) Cards(ctx context.Context) ([]*models.Card, error) {
	return s.cards.List(ctx)
}

// Card returns a card by name, or nil when it is not stored.
func (s *Service) Card(ctx context.Context, name string) (*models.Card, error) {
	return s.cards.GetByName(ctx, name)
}

// CardTypes returns the derived types of a card.
func (s *Service) CardTypes(ctx context.Context, name string) ([]string, error) {
	return s.cards.GetTypes(ctx, name)
}

// CardTags returns the tags applied to a card.
func (s *Service) CardTags(ctx context.Context, name string) ([]string, error) {
	return s.tags.GetCardTags(ctx, name)
}

// Decks returns every deck name.
func (s *Service) Decks(ctx context.Context) ([]string, error) {
	return s.decks.List(ctx)
}

// DeckCards returns the card names of a deck.
func (s *Service) DeckCards(ctx context.Context, deck string) ([]string, error) {
	return s.decks.GetCards(ctx, deck)
}

// DeckMemberships returns every deck membership row.
func (s *Service) DeckMemberships(ctx context.Context) ([]*models.DeckCard, error) {
	return s.decks.ListDeckCards(ctx)
}

// DeleteDeck removes a deck and its memberships.
func (s *Service) DeleteDeck(ctx context.Context, deck string) error {
	return s.decks.Delete(ctx, deck)
}

// Tags returns every tag name.
func (s *Service) Tags(ctx context.Context) ([]string, error) {
	return s.tags.List(ctx)
}

// Counts returns the row count of every table, keyed by table name.
func (s *Service) Counts(ctx context.Context) (map[string]int, error) {
	tables := []string{"cards", "decks", "tags", "card_types", "deck_cards", "card_tags"}
	out := make(map[string]int, len(tables))
	for _, table := range tables {
		var n int
		// Table names come from the fixed list above.
		if err := s.db.Conn().QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&n); err != nil {
			return nil, fmt.Errorf("failed to count %s: %w", table, err)
		}
		out[table] = n
	}
	return out, nil
}

// Summary returns the headline table counts.
func (s *Service) Summary(ctx context.Context) (*models.Summary, error) {
	return s.stats.Summary(ctx)
}

// TagsPerDeck returns the tag count of every deck/tag pair.
func (s *Service) TagsPerDeck(ctx context.Context) ([]*models.TagDeckCount, error) {
	return s.stats.TagsPerDeck(ctx)
}

// DeckStats returns per-deck statistics.
func (s *Service) DeckStats(ctx context.Context) ([]*models.DeckStats, error) {
	return s.stats.DeckStats(ctx)
}

// CMCHistogram returns the mana curve buckets of every deck.
func (s *Service) CMCHistogram(ctx context.Context) ([]*models.CMCBucket, error) {
	return s.stats.CMCHistogram(ctx)
}

// EnrichedCards returns every card joined with its types, tags and decks.
func (s *Service) EnrichedCards(ctx context.Context) ([]*models.EnrichedCard, error) {
	return s.stats.EnrichedCards(ctx)
}

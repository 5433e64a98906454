package repository

import (
	"context"
	"fmt"

	"github.com/ramonehamilton/precon-stats/internal/storage/models"
)

// DeckRepository handles database operations for decks and deck membership.
type DeckRepository interface {
	// Insert adds a deck unless it exists. It reports whether a row was written.
	Insert(ctx context.Context, name string) (bool, error)

	// AddCard adds a card to a deck. Adding the same card twice is a no-op.
	// The card must already exist.
	AddCard(ctx context.Context, deckName, cardName string) (bool, error)

	// List returns all deck names, sorted.
	List(ctx context.Context) ([]string, error)

	// Count returns the number of decks.
	Count(ctx context.Context) (int, error)

	// GetCards returns the card names in a deck, sorted.
	GetCards(ctx context.Context, deckName string) ([]string, error)

	// ListDeckCards returns every deck membership row ordered by card then deck.
	ListDeckCards(ctx context.Context) ([]*models.DeckCard, error)

	// Delete removes a deck and, by cascade, its membership rows.
	Delete(ctx context.Context, name string) error
}

type deckRepository struct {
	q Querier
}

// NewDeckRepository creates a new deck repository.
func NewDeckRepository(q Querier) DeckRepository {
	return &deckRepository{q: q}
}

func (r *deckRepository) Insert(ctx context.Context, name string) (bool, error) {
	if name == "" {
		return false, fmt.Errorf("deck name is required")
	}
	res, err := r.q.ExecContext(ctx, `INSERT OR IGNORE INTO decks (name) VALUES (?)`, name)
	if err != nil {
		return false, fmt.Errorf("failed to insert deck %q: %w", name, err)
	}
	return inserted(res)
}

func (r *deckRepository) AddCard(ctx context.Context, deckName, cardName string) (bool, error) {
	res, err := r.q.ExecContext(ctx,
		`INSERT OR IGNORE INTO deck_cards (card_name, deck_name) VALUES (?, ?)`,
		cardName, deckName,
	)
	if err != nil {
		return false, fmt.Errorf("failed to add card %q to deck %q: %w", cardName, deckName, err)
	}
	return inserted(res)
}

func (r *deckRepository) List(ctx context.Context) ([]string, error) {
	decks, err := queryStrings(ctx, r.q, `SELECT name FROM decks ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list decks: %w", err)
	}
	return decks, nil
}

func (r *deckRepository) Count(ctx context.Context) (int, error) {
	n, err := count(ctx, r.q, `SELECT COUNT(*) FROM decks`)
	if err != nil {
		return 0, fmt.Errorf("failed to count decks: %w", err)
	}
	return n, nil
}

func (r *deckRepository) GetCards(ctx context.Context, deckName string) ([]string, error) {
	cards, err := queryStrings(ctx, r.q,
		`SELECT card_name FROM deck_cards WHERE deck_name = ? ORDER BY card_name`, deckName)
	if err != nil {
		return nil, fmt.Errorf("failed to get cards for deck %q: %w", deckName, err)
	}
	return cards, nil
}

func (r *deckRepository) ListDeckCards(ctx context.Context) ([]*models.DeckCard, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT card_name, deck_name FROM deck_cards ORDER BY card_name, deck_name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list deck cards: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []*models.DeckCard
	for rows.Next() {
		dc := &models.DeckCard{}
		if err := rows.Scan(&dc.CardName, &dc.DeckName); err != nil {
			return nil, fmt.Errorf("failed to scan deck card: %w", err)
		}
		out = append(out, dc)
	}
	return out, rows.Err()
}

func (r *deckRepository) Delete(ctx context.Context, name string) error {
	if _, err := r.q.ExecContext(ctx, `DELETE FROM decks WHERE name = ?`, name); err != nil {
		return fmt.Errorf("failed to delete deck %q: %w", name, err)
	}
	return nil
}

package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ramonehamilton/precon-stats/internal/storage/models"
)

// CardRepository handles database operations for cards and their derived types.
type CardRepository interface {
	// Insert adds a card unless one with the same name exists.
	// It reports whether a new row was written.
	Insert(ctx context.Context, card *models.Card) (bool, error)

	// Exists reports whether a card with the given name is stored.
	Exists(ctx context.Context, name string) (bool, error)

	// GetByName retrieves a card, or nil if it does not exist.
	GetByName(ctx context.Context, name string) (*models.Card, error)

	// List retrieves all cards ordered by name.
	List(ctx context.Context) ([]*models.Card, error)

	// Count returns the number of stored cards.
	Count(ctx context.Context) (int, error)

	// AddType records a type word for a card. Duplicates are ignored.
	AddType(ctx context.Context, cardName, typeName string) error

	// GetTypes returns the type words of a card, sorted.
	GetTypes(ctx context.Context, cardName string) ([]string, error)
}

type cardRepository struct {
	q Querier
}

// NewCardRepository creates a new card repository.
func NewCardRepository(q Querier) CardRepository {
	return &cardRepository{q: q}
}

func (r *cardRepository) Insert(ctx context.Context, card *models.Card) (bool, error) {
	if card.Name == "" {
		return false, fmt.Errorf("card name is required")
	}
	cmc := card.CMC
	if cmc < 0 {
		cmc = 0
	}

	res, err := r.q.ExecContext(ctx,
		`INSERT OR IGNORE INTO cards (name, cmc, type, image_url) VALUES (?, ?, ?, ?)`,
		card.Name, cmc, card.TypeLine, card.ImageURL,
	)
	if err != nil {
		return false, fmt.Errorf("failed to insert card %q: %w", card.Name, err)
	}
	return inserted(res)
}

func (r *cardRepository) Exists(ctx context.Context, name string) (bool, error) {
	var one int
	err := r.q.QueryRowContext(ctx, `SELECT 1 FROM cards WHERE name = ?`, name).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to look up card %q: %w", name, err)
	}
	return true, nil
}

func (r *cardRepository) GetByName(ctx context.Context, name string) (*models.Card, error) {
	card := &models.Card{}
	err := r.q.QueryRowContext(ctx,
		`SELECT name, cmc, type, image_url FROM cards WHERE name = ?`, name,
	).Scan(&card.Name, &card.CMC, &card.TypeLine, &card.ImageURL)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get card %q: %w", name, err)
	}
	return card, nil
}

func (r *cardRepository) List(ctx context.Context) ([]*models.Card, error) {
	rows, err := r.q.QueryContext(ctx, `SELECT name, cmc, type, image_url FROM cards ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list cards: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var cards []*models.Card
	for rows.Next() {
		card := &models.Card{}
		if err := rows.Scan(&card.Name, &card.CMC, &card.TypeLine, &card.ImageURL); err != nil {
			return nil, fmt.Errorf("failed to scan card: %w", err)
		}
		cards = append(cards, card)
	}
	return cards, rows.Err()
}

func (r *cardRepository) Count(ctx context.Context) (int, error) {
	n, err := count(ctx, r.q, `SELECT COUNT(*) FROM cards`)
	if err != nil {
		return 0, fmt.Errorf("failed to count cards: %w", err)
	}
	return n, nil
}

func (r *cardRepository) AddType(ctx context.Context, cardName, typeName string) error {
	if !models.IsCardType(typeName) {
		return fmt.Errorf("unknown card type %q", typeName)
	}
	_, err := r.q.ExecContext(ctx,
		`INSERT OR IGNORE INTO card_types (card_name, type_name) VALUES (?, ?)`,
		cardName, typeName,
	)
	if err != nil {
		return fmt.Errorf("failed to add type %q to card %q: %w", typeName, cardName, err)
	}
	return nil
}

func (r *cardRepository) GetTypes(ctx context.Context, cardName string) ([]string, error) {
	types, err := queryStrings(ctx, r.q,
		`SELECT type_name FROM card_types WHERE card_name = ? ORDER BY type_name`, cardName)
	if err != nil {
		return nil, fmt.Errorf("failed to get types for card %q: %w", cardName, err)
	}
	return types, nil
}

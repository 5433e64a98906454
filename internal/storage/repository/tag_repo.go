package repository

import (
	"context"
	"fmt"
)

// TagRepository handles database operations for tags and card tagging.
type TagRepository interface {
	// Insert adds a tag unless it exists. It reports whether a row was written.
	Insert(ctx context.Context, name string) (bool, error)

	// TagCard links a tag to a card. The card must exist; the tag is created
	// if needed. Linking twice is a no-op. It reports whether a link was written.
	TagCard(ctx context.Context, cardName, tagName string) (bool, error)

	// List returns all tag names, sorted.
	List(ctx context.Context) ([]string, error)

	// Count returns the number of tags.
	Count(ctx context.Context) (int, error)

	// GetCardTags returns the tags of a card, sorted.
	GetCardTags(ctx context.Context, cardName string) ([]string, error)
}

type tagRepository struct {
	q Querier
}

// NewTagRepository creates a new tag repository.
func NewTagRepository(q Querier) TagRepository {
	return &tagRepository{q: q}
}

func (r *tagRepository) Insert(ctx context.Context, name string) (bool, error) {
	if name == "" {
		return false, fmt.Errorf("tag name is required")
	}
	res, err := r.q.ExecContext(ctx, `INSERT OR IGNORE INTO tags (name) VALUES (?)`, name)
	if err != nil {
		return false, fmt.Errorf("failed to insert tag %q: %w", name, err)
	}
	return inserted(res)
}

func (r *tagRepository) TagCard(ctx context.Context, cardName, tagName string) (bool, error) {
	if _, err := r.Insert(ctx, tagName); err != nil {
		return false, err
	}

	res, err := r.q.ExecContext(ctx,
		`INSERT OR IGNORE INTO card_tags (card_name, tag_name) VALUES (?, ?)`,
		cardName, tagName,
	)
	if err != nil {
		return false, fmt.Errorf("failed to tag card %q with %q: %w", cardName, tagName, err)
	}
	return inserted(res)
}

func (r *tagRepository) List(ctx context.Context) ([]string, error) {
	tags, err := queryStrings(ctx, r.q, `SELECT name FROM tags ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}
	return tags, nil
}

func (r *tagRepository) Count(ctx context.Context) (int, error) {
	n, err := count(ctx, r.q, `SELECT COUNT(*) FROM tags`)
	if err != nil {
		return 0, fmt.Errorf("failed to count tags: %w", err)
	}
	return n, nil
}

func (r *tagRepository) GetCardTags(ctx context.Context, cardName string) ([]string, error) {
	tags, err := queryStrings(ctx, r.q,
		`SELECT tag_name FROM card_tags WHERE card_name = ? ORDER BY tag_name`, cardName)
	if err != nil {
		return nil, fmt.Errorf("failed to get tags for card %q: %w", cardName, err)
	}
	return tags, nil
}

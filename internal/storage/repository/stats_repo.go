package repository

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/ramonehamilton/precon-stats/internal/storage/models"
)

// StatsRepository runs the aggregation queries behind the dashboard.
//
// A card counts as a land when it has a "land" row in card_types. The raw
// type line is never consulted for land exclusion.
type StatsRepository interface {
	// TagsPerDeck counts, for every deck/tag pair with at least one card,
	// the deck's cards carrying the tag. Ordered by deck, then count
	// descending, then tag.
	TagsPerDeck(ctx context.Context) ([]*models.TagDeckCount, error)

	// DeckStats returns one row per deck, ordered by deck name.
	DeckStats(ctx context.Context) ([]*models.DeckStats, error)

	// CMCHistogram counts distinct non-land cards per deck per mana cost.
	// Ordered by deck, then cost.
	CMCHistogram(ctx context.Context) ([]*models.CMCBucket, error)

	// EnrichedCards returns every card with its types, tags and decks
	// joined into sorted comma-separated lists. Ordered by card name.
	EnrichedCards(ctx context.Context) ([]*models.EnrichedCard, error)

	// Summary returns the headline table counts.
	Summary(ctx context.Context) (*models.Summary, error)
}

type statsRepository struct {
	q Querier
}

// NewStatsRepository creates a new stats repository.
func NewStatsRepository(q Querier) StatsRepository {
	return &statsRepository{q: q}
}

const nonLandCards = `
	SELECT c.name, c.cmc
	FROM cards c
	WHERE NOT EXISTS (
		SELECT 1 FROM card_types t
		WHERE t.card_name = c.name AND t.type_name = 'land'
	)`

func (r *statsRepository) TagsPerDeck(ctx context.Context) ([]*models.TagDeckCount, error) {
	query := `
		SELECT dc.deck_name, ct.tag_name, COUNT(*) AS tag_count
		FROM deck_cards dc
		JOIN card_tags ct ON dc.card_name = ct.card_name
		GROUP BY dc.deck_name, ct.tag_name
		ORDER BY dc.deck_name, tag_count DESC, ct.tag_name
	`

	rows, err := r.q.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query tags per deck: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []*models.TagDeckCount
	for rows.Next() {
		row := &models.TagDeckCount{}
		if err := rows.Scan(&row.DeckName, &row.TagName, &row.Count); err != nil {
			return nil, fmt.Errorf("failed to scan tag count: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (r *statsRepository) DeckStats(ctx context.Context) ([]*models.DeckStats, error) {
	query := `
		WITH non_land AS (` + nonLandCards + `
		)
		SELECT
			d.name,
			(SELECT COUNT(*)
			   FROM deck_cards dc JOIN non_land nl ON nl.name = dc.card_name
			  WHERE dc.deck_name = d.name) AS total_cards,
			(SELECT COALESCE(AVG(nl.cmc), 0.0)
			   FROM deck_cards dc JOIN non_land nl ON nl.name = dc.card_name
			  WHERE dc.deck_name = d.name) AS avg_cmc,
			(SELECT COUNT(DISTINCT ct.tag_name)
			   FROM deck_cards dc JOIN card_tags ct ON ct.card_name = dc.card_name
			  WHERE dc.deck_name = d.name) AS unique_tags
		FROM decks d
		ORDER BY d.name
	`

	rows, err := r.q.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query deck stats: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []*models.DeckStats
	for rows.Next() {
		row := &models.DeckStats{}
		if err := rows.Scan(&row.DeckName, &row.TotalCards, &row.AvgCMC, &row.UniqueTags); err != nil {
			return nil, fmt.Errorf("failed to scan deck stats: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (r *statsRepository) CMCHistogram(ctx context.Context) ([]*models.CMCBucket, error) {
	query := `
		WITH non_land AS (` + nonLandCards + `
		)
		SELECT dc.deck_name, nl.cmc, COUNT(DISTINCT dc.card_name) AS total_cards
		FROM deck_cards dc
		JOIN non_land nl ON nl.name = dc.card_name
		GROUP BY dc.deck_name, nl.cmc
		ORDER BY dc.deck_name, nl.cmc
	`

	rows, err := r.q.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query cmc histogram: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []*models.CMCBucket
	for rows.Next() {
		row := &models.CMCBucket{}
		if err := rows.Scan(&row.DeckName, &row.CMC, &row.Count); err != nil {
			return nil, fmt.Errorf("failed to scan cmc bucket: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// EnrichedCards joins in memory. GROUP_CONCAT gives no ordering guarantee,
// and sorted lists keep the output stable between runs.
func (r *statsRepository) EnrichedCards(ctx context.Context) ([]*models.EnrichedCard, error) {
	cards, err := NewCardRepository(r.q).List(ctx)
	if err != nil {
		return nil, err
	}

	types, err := r.pairs(ctx, `SELECT card_name, type_name FROM card_types`)
	if err != nil {
		return nil, fmt.Errorf("failed to load card types: %w", err)
	}
	tags, err := r.pairs(ctx, `SELECT card_name, tag_name FROM card_tags`)
	if err != nil {
		return nil, fmt.Errorf("failed to load card tags: %w", err)
	}
	decks, err := r.pairs(ctx, `SELECT card_name, deck_name FROM deck_cards`)
	if err != nil {
		return nil, fmt.Errorf("failed to load deck cards: %w", err)
	}

	out := make([]*models.EnrichedCard, 0, len(cards))
	for _, c := range cards {
		out = append(out, &models.EnrichedCard{
			Name:     c.Name,
			CMC:      c.CMC,
			TypeLine: c.TypeLine,
			ImageURL: c.ImageURL,
			Types:    joinSorted(types[c.Name]),
			Tags:     joinSorted(tags[c.Name]),
			Decks:    joinSorted(decks[c.Name]),
		})
	}
	return out, nil
}

// pairs loads a two-column (card_name, value) query into a map keyed by card.
func (r *statsRepository) pairs(ctx context.Context, query string) (map[string][]string, error) {
	rows, err := r.q.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	out := make(map[string][]string)
	for rows.Next() {
		var card, value string
		if err := rows.Scan(&card, &value); err != nil {
			return nil, err
		}
		out[card] = append(out[card], value)
	}
	return out, rows.Err()
}

func joinSorted(values []string) string {
	if len(values) == 0 {
		return ""
	}
	sorted := append([]string(nil), values...)
	sort.Strings(sorted)
	return strings.Join(sorted, ",")
}

func (r *statsRepository) Summary(ctx context.Context) (*models.Summary, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM cards),
			(SELECT COUNT(*) FROM decks),
			(SELECT COUNT(*) FROM tags),
			(SELECT COUNT(DISTINCT card_name) FROM card_tags)
	`

	s := &models.Summary{}
	if err := r.q.QueryRowContext(ctx, query).Scan(&s.TotalCards, &s.TotalDecks, &s.TotalTags, &s.TaggedCards); err != nil {
		return nil, fmt.Errorf("failed to query summary: %w", err)
	}
	return s, nil
}

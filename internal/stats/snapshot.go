// Package stats holds the in-memory view of the aggregation tables that the
// dashboard and the report render from.
package stats

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/ramonehamilton/precon-stats/internal/storage/models"
)

var (
	// ErrUnknownDeck is returned for a deck that is not in the snapshot.
	ErrUnknownDeck = errors.New("unknown deck")

	// ErrUnknownTag is returned for a tag that no deck carries.
	ErrUnknownTag = errors.New("unknown tag")
)

// Loader reads the aggregation tables from the store.
type Loader interface {
	Summary(ctx context.Context) (*models.Summary, error)
	TagsPerDeck(ctx context.Context) ([]*models.TagDeckCount, error)
	DeckStats(ctx context.Context) ([]*models.DeckStats, error)
	CMCHistogram(ctx context.Context) ([]*models.CMCBucket, error)
	EnrichedCards(ctx context.Context) ([]*models.EnrichedCard, error)
	DeckMemberships(ctx context.Context) ([]*models.DeckCard, error)
}

// Snapshot is an immutable copy of the aggregation tables.
type Snapshot struct {
	Summary      *models.Summary
	TagsPerDeck  []*models.TagDeckCount
	DeckStats    []*models.DeckStats
	CMCHistogram []*models.CMCBucket
	Cards        []*models.EnrichedCard
	LoadedAt     time.Time

	tags      []string
	decks     []string
	deckStats map[string]*models.DeckStats
	members   map[string][]*models.EnrichedCard
}

// Load reads every table from the store.
func Load(ctx context.Context, loader Loader) (*Snapshot, error) {
	summary, err := loader.Summary(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load summary: %w", err)
	}
	tagsPerDeck, err := loader.TagsPerDeck(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load tags per deck: %w", err)
	}
	deckStats, err := loader.DeckStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load deck stats: %w", err)
	}
	histogram, err := loader.CMCHistogram(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load cmc histogram: %w", err)
	}
	cards, err := loader.EnrichedCards(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load cards: %w", err)
	}
	memberships, err := loader.DeckMemberships(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load deck memberships: %w", err)
	}

	return NewSnapshot(summary, tagsPerDeck, deckStats, histogram, cards, memberships), nil
}

// NewSnapshot builds a snapshot from already loaded tables.
func NewSnapshot(
	summary *models.Summary,
	tagsPerDeck []*models.TagDeckCount,
	deckStats []*models.DeckStats,
	histogram []*models.CMCBucket,
	cards []*models.EnrichedCard,
	memberships []*models.DeckCard,
) *Snapshot {
	if summary == nil {
		summary = &models.Summary{}
	}

	s := &Snapshot{
		Summary:      summary,
		TagsPerDeck:  tagsPerDeck,
		DeckStats:    deckStats,
		CMCHistogram: histogram,
		Cards:        cards,
		LoadedAt:     time.Now(),
		deckStats:    make(map[string]*models.DeckStats, len(deckStats)),
		members:      make(map[string][]*models.EnrichedCard),
	}

	byName := make(map[string]*models.EnrichedCard, len(cards))
	for _, c := range cards {
		byName[c.Name] = c
	}
	for _, m := range memberships {
		if c, ok := byName[m.CardName]; ok {
			s.members[m.DeckName] = append(s.members[m.DeckName], c)
		}
	}

	tagSet := map[string]bool{}
	for _, row := range tagsPerDeck {
		tagSet[row.TagName] = true
	}
	for tag := range tagSet {
		s.tags = append(s.tags, tag)
	}
	sort.Strings(s.tags)

	for _, ds := range deckStats {
		s.deckStats[ds.DeckName] = ds
		s.decks = append(s.decks, ds.DeckName)
	}
	sort.Strings(s.decks)

	return s
}

// Tags returns the sorted names of every tag carried by at least one deck.
func (s *Snapshot) Tags() []string {
	return s.tags
}

// Decks returns the sorted deck names.
func (s *Snapshot) Decks() []string {
	return s.decks
}

// HasDeck reports whether deck is in the snapshot.
func (s *Snapshot) HasDeck(deck string) bool {
	_, ok := s.deckStats[deck]
	return ok
}

// HasTag reports whether any deck carries tag.
func (s *Snapshot) HasTag(tag string) bool {
	i := sort.SearchStrings(s.tags, tag)
	return i < len(s.tags) && s.tags[i] == tag
}

// Cache holds the current snapshot. It is loaded once and only replaced by
// Reload.
type Cache struct {
	loader Loader

	mu   sync.RWMutex
	snap *Snapshot
	err  error
}

// NewCache loads the first snapshot. A load failure is returned so callers
// can refuse to start.
func NewCache(ctx context.Context, loader Loader) (*Cache, error) {
	snap, err := Load(ctx, loader)
	if err != nil {
		return nil, err
	}
	return &Cache{loader: loader, snap: snap}, nil
}

// Snapshot returns the current snapshot, or the error of the last failed
// reload.
func (c *Cache) Snapshot() (*Snapshot, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.err != nil {
		return nil, c.err
	}
	return c.snap, nil
}

// Reload replaces the snapshot with a fresh one from the store. On failure
// the cache reports the error until a later reload succeeds.
func (c *Cache) Reload(ctx context.Context) error {
	snap, err := Load(ctx, c.loader)

	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil {
		c.err = err
		return err
	}
	c.snap = snap
	c.err = nil
	return nil
}

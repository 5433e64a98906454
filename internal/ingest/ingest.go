// Package ingest populates the store from Scryfall searches and local
// decklist files.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ramonehamilton/precon-stats/internal/decklist"
	"github.com/ramonehamilton/precon-stats/internal/logging"
	"github.com/ramonehamilton/precon-stats/internal/scryfall"
	"github.com/ramonehamilton/precon-stats/internal/storage"
	"github.com/ramonehamilton/precon-stats/internal/storage/models"
)

// Source runs paginated card searches.
type Source interface {
	SearchAll(ctx context.Context, query string, fn func(page *scryfall.SearchResult) error) error
}

// Options scopes an ingestion run.
type Options struct {
	Sets        []string
	TagSpecs    []TagSpec
	DecklistDir string

	// Deck limits the deck phase to <DecklistDir>/<Deck>.txt.
	Deck string

	SkipCards bool
	SkipTags  bool
	SkipDecks bool
}

// Report summarises what a run did.
type Report struct {
	RunID string `json:"run_id"`

	CardsSeen      int `json:"cards_seen"`
	CardsCreated   int `json:"cards_created"`
	TagLinksSeen   int `json:"tag_links_seen"`
	TagLinksAdded  int `json:"tag_links_added"`
	EmptySearches  int `json:"empty_searches"`
	FailedSearches int `json:"failed_searches"`

	DeckFiles      int `json:"deck_files"`
	DecksMatched   int `json:"decks_matched"`
	LinesMatched   int `json:"lines_matched"`
	LinesUnmatched int `json:"lines_unmatched"`
}

// Ingester writes search results and decklists into the store.
type Ingester struct {
	store  *storage.Service
	source Source
	logger *zap.Logger
}

// New creates an Ingester. A nil logger discards output.
func New(store *storage.Service, source Source, logger *zap.Logger) *Ingester {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Ingester{
		store:  store,
		source: source,
		logger: logging.Component(logger, "ingest"),
	}
}

// Run executes the cards, tags and decks phases in that order, skipping the
// ones opts disables.
func (i *Ingester) Run(ctx context.Context, opts Options) (*Report, error) {
	report := &Report{RunID: uuid.New().String()}
	log := i.logger.With(zap.String("run_id", report.RunID))

	log.Info("ingestion started",
		zap.Strings("sets", opts.Sets),
		zap.Int("tag_specs", len(opts.TagSpecs)),
		zap.String("decklist_dir", opts.DecklistDir))

	if !opts.SkipCards {
		if err := i.cards(ctx, log, opts.Sets, report); err != nil {
			return report, err
		}
	}
	if !opts.SkipTags {
		if err := i.tags(ctx, log, opts.Sets, opts.TagSpecs, report); err != nil {
			return report, err
		}
	}
	if !opts.SkipDecks {
		if err := i.decks(ctx, log, opts.DecklistDir, opts.Deck, report); err != nil {
			return report, err
		}
	}

	log.Info("ingestion finished",
		zap.Int("cards_seen", report.CardsSeen),
		zap.Int("cards_created", report.CardsCreated),
		zap.Int("tag_links_added", report.TagLinksAdded),
		zap.Int("decks_matched", report.DecksMatched),
		zap.Int("lines_unmatched", report.LinesUnmatched),
		zap.Int("failed_searches", report.FailedSearches))

	return report, nil
}

// Cards stores every card of each set.
func (i *Ingester) Cards(ctx context.Context, sets []string) (*Report, error) {
	return i.Run(ctx, Options{Sets: sets, SkipTags: true, SkipDecks: true})
}

// Tags stores the tag links of each set and tag spec.
func (i *Ingester) Tags(ctx context.Context, sets []string, specs []TagSpec) (*Report, error) {
	return i.Run(ctx, Options{Sets: sets, TagSpecs: specs, SkipCards: true, SkipDecks: true})
}

// Decks stores deck memberships from the decklists in dir. When deck is not
// empty only that deck's file is read.
func (i *Ingester) Decks(ctx context.Context, dir, deck string) (*Report, error) {
	return i.Run(ctx, Options{DecklistDir: dir, Deck: deck, SkipCards: true, SkipTags: true})
}

func (i *Ingester) cards(ctx context.Context, log *zap.Logger, sets []string, report *Report) error {
	for _, set := range sets {
		query := SetQuery(set)
		err := i.search(ctx, log, query, report, func(w *storage.Writer, card *scryfall.Card) error {
			report.CardsSeen++
			created, err := w.StoreCard(ctx, toModel(card), DeriveTypes(card.TypeLine))
			if err != nil {
				return err
			}
			if created {
				report.CardsCreated++
			}
			return nil
		})
		if err != nil {
			return err
		}
		log.Info("set ingested", zap.String("set", set))
	}
	return nil
}

func (i *Ingester) tags(ctx context.Context, log *zap.Logger, sets []string, specs []TagSpec, report *Report) error {
	for _, set := range sets {
		for _, spec := range specs {
			query := spec.Query(set)
			err := i.search(ctx, log, query, report, func(w *storage.Writer, card *scryfall.Card) error {
				created, err := w.StoreCard(ctx, toModel(card), DeriveTypes(card.TypeLine))
				if err != nil {
					return err
				}
				if created {
					report.CardsCreated++
				}

				report.TagLinksSeen++
				added, err := w.Tags.TagCard(ctx, card.Name, spec.Tag)
				if err != nil {
					return err
				}
				if added {
					report.TagLinksAdded++
				}
				return nil
			})
			if err != nil {
				return err
			}
			log.Debug("tag ingested", zap.String("set", set), zap.String("tag", spec.Tag))
		}
	}
	return nil
}

// storeError marks failures of the store, which abort the run. Search
// failures only skip the query.
type storeError struct{ err error }

func (e *storeError) Error() string { return e.err.Error() }
func (e *storeError) Unwrap() error { return e.err }

// search runs a paginated query and hands every card to fn. Each page is
// written in its own transaction.
func (i *Ingester) search(ctx context.Context, log *zap.Logger, query string, report *Report,
	fn func(w *storage.Writer, card *scryfall.Card) error) error {
	found := 0

	err := i.source.SearchAll(ctx, query, func(page *scryfall.SearchResult) error {
		err := i.store.Write(ctx, func(w *storage.Writer) error {
			for idx := range page.Data {
				card := &page.Data[idx]
				if card.Name == "" {
					continue
				}
				if err := fn(w, card); err != nil {
					return fmt.Errorf("failed to store card %q: %w", card.Name, err)
				}
			}
			return nil
		})
		if err != nil {
			return &storeError{err: fmt.Errorf("failed to store results of %q: %w", query, err)}
		}
		found += len(page.Data)
		return nil
	})

	var se *storeError
	switch {
	case err == nil:
		if found == 0 {
			report.EmptySearches++
			log.Info("no cards found", zap.String("query", query))
		}
		return nil
	case errors.As(err, &se):
		return se.err
	case ctx.Err() != nil:
		return ctx.Err()
	case scryfall.IsNotFound(err):
		report.EmptySearches++
		log.Info("no cards found", zap.String("query", query))
		return nil
	default:
		report.FailedSearches++
		log.Warn("search failed", zap.String("query", query), zap.Error(err))
		return nil
	}
}

func (i *Ingester) decks(ctx context.Context, log *zap.Logger, dir, deck string, report *Report) error {
	var files []string
	if deck != "" {
		files = []string{decklist.PathFor(dir, deck)}
	} else {
		var err error
		files, err = decklist.ListFiles(dir)
		if err != nil {
			log.Warn("decklist directory not found", zap.String("dir", dir), zap.Error(err))
			return nil
		}
	}

	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := i.ingestDeckFile(ctx, log, path, report); err != nil {
			return err
		}
	}
	return nil
}

// ingestDeckFile links a decklist's known cards to its deck in one
// transaction. A missing or unreadable file is logged and skipped.
func (i *Ingester) ingestDeckFile(ctx context.Context, log *zap.Logger, path string, report *Report) error {
	d, err := decklist.ParseFile(path)
	if err != nil {
		log.Warn("decklist skipped", zap.String("path", path), zap.Error(err))
		return nil
	}
	report.DeckFiles++

	matched, unmatched := 0, 0
	err = i.store.Write(ctx, func(w *storage.Writer) error {
		for _, name := range d.Names() {
			ok, err := w.AddToDeck(ctx, d.Name, name)
			if err != nil {
				return fmt.Errorf("failed to add %q: %w", name, err)
			}
			if ok {
				matched++
			} else {
				unmatched++
				log.Debug("card not in store", zap.String("deck", d.Name), zap.String("card", name))
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to store deck %q: %w", d.Name, err)
	}

	report.LinesMatched += matched
	report.LinesUnmatched += unmatched
	if matched > 0 {
		report.DecksMatched++
	}

	log.Info("deck ingested",
		zap.String("deck", d.Name),
		zap.Int("matched", matched),
		zap.Int("unmatched", unmatched))

	return nil
}

func toModel(card *scryfall.Card) *models.Card {
	cmc := int(math.Trunc(card.CMC))
	if cmc < 0 {
		cmc = 0
	}
	return &models.Card{
		Name:     card.Name,
		CMC:      cmc,
		TypeLine: card.TypeLine,
		ImageURL: card.NormalImage(),
	}
}

package main

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ramonehamilton/precon-stats/internal/ingest"
	"github.com/ramonehamilton/precon-stats/internal/scryfall"
)

var (
	ingestSet       string
	ingestDeck      string
	ingestDecksOnly bool
	ingestCardsOnly bool
	ingestTagsOnly  bool
	ingestWatch     bool
)

// ingestCmd populates the store.
var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Load cards, tags and decklists into the database",
	Long: `Ingest runs the full pipeline by default: every card of each configured set,
then the tag links for each set and tag spec, then the decklists. Inserts
ignore duplicates, so re-running is safe.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if countTrue(ingestDecksOnly, ingestCardsOnly, ingestTagsOnly) > 1 {
			return fmt.Errorf("--decks-only, --cards-only and --tags-only are mutually exclusive")
		}

		a, err := setupWithStore()
		if err != nil {
			return err
		}
		defer a.close()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		opts := ingest.Options{
			DecklistDir: a.cfg.Ingest.DecklistDir,
			Deck:        ingestDeck,
			SkipCards:   ingestDecksOnly || ingestTagsOnly,
			SkipTags:    ingestDecksOnly || ingestCardsOnly,
			SkipDecks:   ingestCardsOnly || ingestTagsOnly,
		}

		if !opts.SkipCards || !opts.SkipTags {
			if ingestSet != "" {
				opts.Sets = []string{ingestSet}
			} else if opts.Sets, err = ingest.LoadSetList(a.cfg.Ingest.SetList); err != nil {
				return err
			}
		}
		if !opts.SkipTags {
			if opts.TagSpecs, err = ingest.LoadTagList(a.cfg.Ingest.TagList); err != nil {
				return err
			}
		}

		timeout, err := a.cfg.GetScryfallTimeout()
		if err != nil {
			return err
		}
		client := scryfall.NewClient(
			scryfall.WithBaseURL(a.cfg.Scryfall.BaseURL),
			scryfall.WithUserAgent(a.cfg.Scryfall.UserAgent),
			scryfall.WithRateLimit(a.cfg.Scryfall.RequestsPerSecond),
			scryfall.WithHTTPClient(&http.Client{Timeout: timeout}),
		)

		ingester := ingest.New(a.store, client, a.logger)

		report, err := ingester.Run(ctx, opts)
		if err != nil {
			return fmt.Errorf("ingestion failed: %w", err)
		}
		printReport(report)

		if ingestWatch {
			a.logger.Info("watching for decklist changes", zap.String("dir", opts.DecklistDir))
			return ingester.Watch(ctx, opts.DecklistDir)
		}
		return nil
	},
}

func init() {
	ingestCmd.Flags().StringVar(&ingestSet, "set", "", "ingest a single set instead of the set list")
	ingestCmd.Flags().StringVar(&ingestDeck, "deck", "", "ingest only <decklist_dir>/<deck>.txt")
	ingestCmd.Flags().BoolVar(&ingestDecksOnly, "decks-only", false, "only ingest decklists")
	ingestCmd.Flags().BoolVar(&ingestCardsOnly, "cards-only", false, "only ingest set cards")
	ingestCmd.Flags().BoolVar(&ingestTagsOnly, "tags-only", false, "only ingest tag links")
	ingestCmd.Flags().BoolVar(&ingestWatch, "watch", false, "keep running and re-ingest decklists when they change")
}

func countTrue(flags ...bool) int {
	n := 0
	for _, f := range flags {
		if f {
			n++
		}
	}
	return n
}

func printReport(r *ingest.Report) {
	ok := color.New(color.FgGreen).SprintFunc()
	warn := color.New(color.FgYellow).SprintFunc()

	fmt.Printf("Run %s\n", r.RunID)
	fmt.Printf("  cards:  %s seen, %s new\n", ok(r.CardsSeen), ok(r.CardsCreated))
	fmt.Printf("  tags:   %s links seen, %s new\n", ok(r.TagLinksSeen), ok(r.TagLinksAdded))
	fmt.Printf("  decks:  %s files, %s with known cards\n", ok(r.DeckFiles), ok(r.DecksMatched))
	fmt.Printf("  lines:  %s matched, %s unknown\n", ok(r.LinesMatched), warn(r.LinesUnmatched))
	if r.EmptySearches > 0 || r.FailedSearches > 0 {
		fmt.Printf("  search: %s empty, %s failed\n", warn(r.EmptySearches), warn(r.FailedSearches))
	}
}

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ramonehamilton/precon-stats/internal/storage"
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Inspect the stored cards, decks and tags",
	Long: `Show prints raw rows from the database.

Examples:
  precon show counts
  precon show card "Sol Ring"
  precon show deck "Counter Blitz"`,
}

var showCountsCmd = &cobra.Command{
	Use:   "counts",
	Short: "Row counts of every table",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(func(s *storage.Service) error {
			return showCounts(cmd.Context(), os.Stdout, s)
		})
	},
}

var showCardsCmd = &cobra.Command{
	Use:   "cards",
	Short: "List every card with its CMC",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(func(s *storage.Service) error {
			return showCards(cmd.Context(), os.Stdout, s)
		})
	},
}

var showCardCmd = &cobra.Command{
	Use:   "card [name]",
	Short: "Display one card with its types and tags",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(func(s *storage.Service) error {
			return showCard(cmd.Context(), os.Stdout, s, args[0])
		})
	},
}

var showDecksCmd = &cobra.Command{
	Use:   "decks",
	Short: "List deck names",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(func(s *storage.Service) error {
			decks, err := s.Decks(cmd.Context())
			if err != nil {
				return err
			}
			printLines(os.Stdout, decks, "No decks stored.")
			return nil
		})
	},
}

var showDeckCmd = &cobra.Command{
	Use:   "deck [name]",
	Short: "List the cards of a deck",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(func(s *storage.Service) error {
			cards, err := s.DeckCards(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if len(cards) == 0 {
				return fmt.Errorf("deck %q not found", args[0])
			}
			printLines(os.Stdout, cards, "")
			return nil
		})
	},
}

var showTagsCmd = &cobra.Command{
	Use:   "tags",
	Short: "List tag names",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(func(s *storage.Service) error {
			tags, err := s.Tags(cmd.Context())
			if err != nil {
				return err
			}
			printLines(os.Stdout, tags, "No tags stored.")
			return nil
		})
	},
}

func init() {
	showCmd.AddCommand(showCountsCmd, showCardsCmd, showCardCmd, showDecksCmd, showDeckCmd, showTagsCmd)
}

func withStore(fn func(s *storage.Service) error) error {
	a, err := setupWithStore()
	if err != nil {
		return err
	}
	defer a.close()
	return fn(a.store)
}

// countOrder is the display order of Service.Counts keys.
var countOrder = []string{"cards", "decks", "tags", "card_types", "deck_cards", "card_tags"}

func showCounts(ctx context.Context, w io.Writer, s *storage.Service) error {
	counts, err := s.Counts(ctx)
	if err != nil {
		return err
	}
	for _, table := range countOrder {
		fmt.Fprintf(w, "%-12s %d\n", table, counts[table])
	}
	return nil
}

func showCards(ctx context.Context, w io.Writer, s *storage.Service) error {
	cards, err := s.Cards(ctx)
	if err != nil {
		return err
	}
	if len(cards) == 0 {
		fmt.Fprintln(w, "No cards stored.")
		return nil
	}
	for _, c := range cards {
		fmt.Fprintf(w, "%3d  %s\n", c.CMC, c.Name)
	}
	return nil
}

func showCard(ctx context.Context, w io.Writer, s *storage.Service, name string) error {
	card, err := s.Card(ctx, name)
	if err != nil {
		return err
	}
	if card == nil {
		return fmt.Errorf("card %q not found", name)
	}
	types, err := s.CardTypes(ctx, name)
	if err != nil {
		return err
	}
	tags, err := s.CardTags(ctx, name)
	if err != nil {
		return err
	}

	title := color.New(color.FgCyan, color.Bold).SprintFunc()
	fmt.Fprintln(w, title(card.Name))
	fmt.Fprintf(w, "  Type line: %s\n", card.TypeLine)
	fmt.Fprintf(w, "  CMC:       %d\n", card.CMC)
	fmt.Fprintf(w, "  Types:     %s\n", strings.Join(types, ", "))
	fmt.Fprintf(w, "  Tags:      %s\n", strings.Join(tags, ", "))
	if card.ImageURL != "" {
		fmt.Fprintf(w, "  Image:     %s\n", card.ImageURL)
	}
	return nil
}

func printLines(w io.Writer, lines []string, empty string) {
	if len(lines) == 0 && empty != "" {
		fmt.Fprintln(w, empty)
		return
	}
	for _, l := range lines {
		fmt.Fprintln(w, l)
	}
}

package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ramonehamilton/precon-stats/internal/stats"
)

var statsTag string

// statsCmd prints a terminal summary.
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print summary statistics to the terminal",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setupWithStore()
		if err != nil {
			return err
		}
		defer a.close()

		snap, err := stats.Load(cmd.Context(), a.store)
		if err != nil {
			return fmt.Errorf("load statistics: %w", err)
		}

		printSummary(snap)
		if statsTag != "" {
			return printTag(snap, statsTag)
		}
		printDeckStats(snap)
		return nil
	},
}

func init() {
	statsCmd.Flags().StringVar(&statsTag, "tag", "", "show the per-deck breakdown of one tag")
}

func printSummary(snap *stats.Snapshot) {
	header := color.New(color.FgCyan, color.Bold)
	_, _ = header.Println("Summary")
	fmt.Printf("  Total cards:         %d\n", snap.Summary.TotalCards)
	fmt.Printf("  Total decks:         %d\n", snap.Summary.TotalDecks)
	fmt.Printf("  Total tags:          %d\n", snap.Summary.TotalTags)
	fmt.Printf("  Unique tagged cards: %d\n", snap.Summary.TaggedCards)
	fmt.Println()
}

func printDeckStats(snap *stats.Snapshot) {
	header := color.New(color.FgCyan, color.Bold)
	_, _ = header.Println("Decks")
	if len(snap.DeckStats) == 0 {
		_, _ = color.New(color.FgYellow).Println("  No deck statistics available.")
		return
	}
	fmt.Printf("  %-40s %6s %8s %6s\n", "Deck", "Cards", "Avg CMC", "Tags")
	for _, d := range snap.DeckStats {
		fmt.Printf("  %-40s %6d %8.2f %6d\n", d.DeckName, d.TotalCards, d.AvgCMC, d.UniqueTags)
	}
}

func printTag(snap *stats.Snapshot, tag string) error {
	dist, err := snap.TagDistribution(tag)
	if err != nil {
		return err
	}
	header := color.New(color.FgCyan, color.Bold)
	_, _ = header.Printf("Tag %q\n", dist.Tag)
	fmt.Printf("  Decks with tag:    %d\n", dist.DecksWithTag)
	fmt.Printf("  Total cards:       %d\n", dist.TotalCards)
	fmt.Printf("  Average per deck:  %.2f\n", dist.AveragePerDeck)
	fmt.Printf("  Max in one deck:   %d\n", dist.MaxInOneDeck)
	for _, r := range dist.Rows {
		fmt.Printf("    %-40s %d\n", r.DeckName, r.Count)
	}
	return nil
}

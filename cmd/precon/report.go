package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ramonehamilton/precon-stats/internal/charts"
	"github.com/ramonehamilton/precon-stats/internal/stats"
)

var (
	reportOut  string
	reportOpen bool
)

// reportCmd writes static HTML charts.
var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Render static HTML charts for the current database",
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

		dir := a.cfg.Server.ReportDir
		if reportOut != "" {
			dir = reportOut
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create report dir: %w", err)
		}

		files, err := writeReport(snap, dir)
		if err != nil {
			return err
		}
		for _, f := range files {
			fmt.Println(f)
		}
		a.logger.Info("report written", zap.String("dir", dir), zap.Int("files", len(files)))

		if reportOpen && len(files) > 0 {
			return charts.OpenInBrowser(files[0])
		}
		return nil
	},
}

func init() {
	reportCmd.Flags().StringVar(&reportOut, "out", "", "output directory (overrides config)")
	reportCmd.Flags().BoolVar(&reportOpen, "open", false, "open the first chart in a browser")
}

// writeReport renders the tag totals, average CMC and one CMC histogram per deck.
func writeReport(snap *stats.Snapshot, dir string) ([]string, error) {
	var files []string
	render := func(name string, chart charts.Renderer) error {
		path := filepath.Join(dir, name)
		if err := charts.RenderFile(chart, path); err != nil {
			return fmt.Errorf("render %s: %w", name, err)
		}
		files = append(files, path)
		return nil
	}

	if err := render("tags.html", charts.TagComparison(snap.TagTotals(), "")); err != nil {
		return nil, err
	}
	if err := render("avg_cmc.html", charts.AvgCMCComparison(snap.DecksByAvgCMC(), "")); err != nil {
		return nil, err
	}
	used := map[string]bool{}
	for _, deck := range snap.Decks() {
		name := uniqueName(used, "cmc_"+safeFileName(deck), ".html")
		if err := render(name, charts.CMCHistogram(deck, snap.DeckCMC(deck))); err != nil {
			return nil, err
		}
	}
	return files, nil
}

// uniqueName returns base+ext, or base_2+ext, base_3+ext and so on when the
// name was already handed out.
func uniqueName(used map[string]bool, base, ext string) string {
	name := base + ext
	for n := 2; used[name]; n++ {
		name = fmt.Sprintf("%s_%d%s", base, n, ext)
	}
	used[name] = true
	return name
}

// safeFileName maps a deck name onto something usable as a file name.
func safeFileName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	if b.Len() == 0 {
		return "deck"
	}
	return b.String()
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ramonehamilton/precon-stats/internal/config"
	"github.com/ramonehamilton/precon-stats/internal/logging"
	"github.com/ramonehamilton/precon-stats/internal/storage"
)

var (
	configPath string
	dbPath     string
	debug      bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "precon",
	Short: "Statistics for Magic: The Gathering preconstructed decks",
	Long: `precon pulls card data for a list of sets from Scryfall, links cards to
oracle tags and to local decklists, and reports per-deck and per-tag
statistics in the terminal, as static charts, or through a web dashboard.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.precon-stats/config.toml)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "SQLite database path (overrides config)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(ingestCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(versionCmd)
}

// app bundles what every command needs.
type app struct {
	cfg    *config.Config
	logger *zap.Logger
	store  *storage.Service
}

// setup loads configuration and builds the logger.
func setup() (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if dbPath != "" {
		cfg.Database.Path = dbPath
	}
	if debug {
		cfg.App.DebugMode = true
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	logger, err := logging.New(cfg.App.LogLevel, cfg.App.DebugMode)
	if err != nil {
		return nil, err
	}

	return &app{cfg: cfg, logger: logger}, nil
}

// setupWithStore also opens the migrated store.
func setupWithStore() (*app, error) {
	a, err := setup()
	if err != nil {
		return nil, err
	}

	busy, err := a.cfg.GetBusyTimeout()
	if err != nil {
		return nil, err
	}

	dbConfig := storage.DefaultConfig(a.cfg.Database.Path)
	dbConfig.BusyTimeout = busy
	dbConfig.AutoMigrate = true

	db, err := storage.Open(dbConfig)
	if err != nil {
		_ = a.logger.Sync()
		return nil, fmt.Errorf("open database %s: %w", a.cfg.Database.Path, err)
	}
	a.store = storage.NewService(db)

	a.logger.Debug("database opened", zap.String("path", a.cfg.Database.Path))
	return a, nil
}

// close releases the store and flushes the logger.
func (a *app) close() {
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.logger.Warn("close database", zap.Error(err))
		}
	}
	_ = a.logger.Sync()
}

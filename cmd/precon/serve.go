package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ramonehamilton/precon-stats/internal/dashboard"
	"github.com/ramonehamilton/precon-stats/internal/stats"
)

var (
	servePort int
	serveOpen bool
)

// serveCmd runs the dashboard.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the statistics dashboard",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setupWithStore()
		if err != nil {
			return err
		}
		defer a.close()

		cache, err := stats.NewCache(cmd.Context(), a.store)
		if err != nil {
			return fmt.Errorf("load statistics: %w", err)
		}

		cfg := dashboard.DefaultConfig()
		cfg.Port = a.cfg.Server.Port
		cfg.OpenBrowser = a.cfg.Server.OpenBrowser
		if cmd.Flags().Changed("port") {
			cfg.Port = servePort
		}
		if cmd.Flags().Changed("open") {
			cfg.OpenBrowser = serveOpen
		}

		server, err := dashboard.NewServer(cfg, cache, a.logger)
		if err != nil {
			return err
		}
		if err := server.Start(); err != nil {
			return fmt.Errorf("start server: %w", err)
		}
		fmt.Printf("Dashboard running at %s\n", server.URL())

		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		select {
		case <-sigChan:
		case err := <-server.Errors():
			return fmt.Errorf("dashboard stopped: %w", err)
		}

		a.logger.Info("shutting down dashboard")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			a.logger.Error("shutdown", zap.Error(err))
			return err
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "port to listen on")
	serveCmd.Flags().BoolVar(&serveOpen, "open", false, "open the dashboard in a browser")
}

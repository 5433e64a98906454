package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ramonehamilton/precon-stats/internal/storage"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage database schema migrations",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMigrations(func(m *storage.MigrationManager) error {
			if err := m.Up(); err != nil {
				return err
			}
			fmt.Println("Migrations applied")
			return nil
		})
	},
}

var migrateDownAll bool

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back the most recent migration",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMigrations(func(m *storage.MigrationManager) error {
			if migrateDownAll {
				if err := m.Down(); err != nil {
					return err
				}
				fmt.Println("Rolled back all migrations")
				return nil
			}
			if err := m.Steps(-1); err != nil {
				return err
			}
			fmt.Println("Rolled back one migration")
			return nil
		})
	},
}

var migrateVersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show the current schema version",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMigrations(func(m *storage.MigrationManager) error {
			v, dirty, err := m.Version()
			if err != nil {
				return err
			}
			fmt.Printf("Schema version %d (dirty: %v)\n", v, dirty)
			return nil
		})
	},
}

func init() {
	migrateDownCmd.Flags().BoolVar(&migrateDownAll, "all", false, "roll back every migration, dropping all tables")
	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd, migrateVersionCmd)
}

func withMigrations(fn func(m *storage.MigrationManager) error) error {
	a, err := setup()
	if err != nil {
		return err
	}
	defer a.close()

	m, err := storage.NewMigrationManager(a.cfg.Database.Path)
	if err != nil {
		return err
	}
	defer func() { _ = m.Close() }()

	return fn(m)
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/yukikurage/community-board/internal/database"
)

// migrateCmd creates or updates the schema
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMigrate()
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate() error {
	a, err := bootstrap()
	if err != nil {
		return err
	}
	defer a.close()

	if err := database.Migrate(a.db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	a.logger.Info("schema is up to date", "driver", a.cfg.DBDriver)
	return nil
}

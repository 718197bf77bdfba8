package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/yukikurage/community-board/internal/database"
	"github.com/yukikurage/community-board/internal/session"
)

// purgeCmd deletes expired rows from the sessions table
var purgeCmd = &cobra.Command{
	Use:   "purge-sessions",
	Short: "Delete expired sessions",
	Long: `Delete expired sessions from the sessions table.

Only the sql session backend keeps expired rows around; Redis expires
sessions on its own.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPurge(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(purgeCmd)
}

func runPurge(ctx context.Context) error {
	a, err := bootstrap()
	if err != nil {
		return err
	}
	defer a.close()

	if a.cfg.SessionBackend == "redis" {
		a.logger.Info("redis expires sessions itself, nothing to purge")
		return nil
	}

	if err := database.Migrate(a.db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	n, err := session.NewGormStore(a.db, a.cfg.SessionTTL).PurgeExpired(ctx)
	if err != nil {
		return fmt.Errorf("failed to purge sessions: %w", err)
	}

	a.logger.Info("purged expired sessions", "count", n)
	return nil
}

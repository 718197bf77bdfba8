package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"github.com/yukikurage/community-board/internal/config"
	"github.com/yukikurage/community-board/internal/database"
	"github.com/yukikurage/community-board/internal/observability"
	"github.com/yukikurage/community-board/internal/session"
	"gorm.io/gorm"
)

// rootCmd serves the board when run without a subcommand
var rootCmd = &cobra.Command{
	Use:   "board",
	Short: "Community board server",
	Long: `A server-rendered community board: users register, log in,
publish posts and comment on each other's posts.

Configuration is read from the environment and an optional .env file.

Examples:
  board                 # Start the server
  board migrate         # Create or update the schema and exit
  board purge-sessions  # Delete expired sessions and exit`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

// app is the state shared by every subcommand.
type app struct {
	cfg    *config.Config
	logger *slog.Logger
	db     *gorm.DB
}

func bootstrap() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)

	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return &app{cfg: cfg, logger: logger, db: db}, nil
}

func (a *app) close() {
	if sqlDB, err := a.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

// sessionStore builds the server-side session store for the configured backend.
// The returned cleanup func releases its connections.
func (a *app) sessionStore(ctx context.Context) (session.Store, func(), error) {
	if a.cfg.SessionBackend != "redis" {
		return session.NewGormStore(a.db, a.cfg.SessionTTL), func() {}, nil
	}

	client := redis.NewClient(&redis.Options{Addr: a.cfg.RedisAddr()})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return session.NewRedisStore(client, a.cfg.SessionTTL), func() { _ = client.Close() }, nil
}

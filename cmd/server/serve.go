package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/yukikurage/community-board/internal/database"
	"github.com/yukikurage/community-board/internal/repository"
	"github.com/yukikurage/community-board/internal/server"
	"github.com/yukikurage/community-board/internal/services"
	"github.com/yukikurage/community-board/internal/session"
)

const (
	shutdownTimeout = 10 * time.Second
	purgeInterval   = time.Hour
)

// serveCmd starts the HTTP server
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := bootstrap()
	if err != nil {
		return err
	}
	defer a.close()

	gin.SetMode(a.cfg.GinMode)

	if err := database.Migrate(a.db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	store, closeStore, err := a.sessionStore(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	cookieStore, err := server.NewCookieStore(a.cfg)
	if err != nil {
		return err
	}

	userRepo := repository.NewUserRepository(a.db)
	postRepo := repository.NewPostRepository(a.db)
	commentRepo := repository.NewCommentRepository(a.db)

	router, err := server.NewRouter(server.Deps{
		Config:         a.cfg,
		CookieStore:    cookieStore,
		AuthService:    services.NewAuthService(userRepo, services.NewBcryptHasher(a.cfg.BcryptCost), store, a.logger),
		ContentService: services.NewContentService(postRepo, commentRepo, a.logger),
		FeedService:    services.NewFeedService(postRepo, commentRepo, a.logger, a.cfg.FeedConcurrency),
	})
	if err != nil {
		return err
	}

	if gs, ok := store.(*session.GormStore); ok {
		go purgeExpiredSessions(ctx, a, gs)
	}

	srv := &http.Server{
		Addr:              ":" + a.cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("server starting", "addr", srv.Addr, "db_driver", a.cfg.DBDriver, "session_backend", a.cfg.SessionBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	a.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func purgeExpiredSessions(ctx context.Context, a *app, store *session.GormStore) {
	ticker := time.NewTicker(purgeInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := store.PurgeExpired(ctx)
			if err != nil {
				a.logger.Warn("failed to purge expired sessions", "error", err)
				continue
			}
			if n > 0 {
				a.logger.Info("purged expired sessions", "count", n)
			}
		}
	}
}

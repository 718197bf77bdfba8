// Package server assembles the HTTP router.
package server

import (
	"fmt"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/yukikurage/community-board/internal/config"
	"github.com/yukikurage/community-board/internal/constants"
	"github.com/yukikurage/community-board/internal/handlers"
	"github.com/yukikurage/community-board/internal/middleware"
	"github.com/yukikurage/community-board/internal/services"
	"github.com/yukikurage/community-board/internal/views"
)

// Deps are the collaborators the router needs.
type Deps struct {
	Config         *config.Config
	CookieStore    sessions.Store
	AuthService    *services.AuthService
	ContentService *services.ContentService
	FeedService    *services.FeedService
}

// NewCookieStore builds the store holding the browser side of a session.
// The cookie only ever carries the session token.
func NewCookieStore(cfg *config.Config) (sessions.Store, error) {
	var store sessions.Store
	switch cfg.SessionBackend {
	case "redis":
		rs, err := redisStore.NewStore(
			10, // Redis pool size
			"tcp",
			cfg.RedisAddr(),
			"", // username (empty for default user)
			"", // password
			[]byte(cfg.SessionSecret),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create Redis session store: %w", err)
		}
		store = rs
	default:
		store = cookie.NewStore([]byte(cfg.SessionSecret))
	}

	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   int(cfg.SessionTTL.Seconds()),
		HttpOnly: true,
		Secure:   cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})
	return store, nil
}

// NewRouter wires every route of the board.
func NewRouter(deps Deps) (*gin.Engine, error) {
	tmpl, err := views.Templates()
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	r := gin.Default()
	r.SetHTMLTemplate(tmpl)
	r.Use(middleware.RequestID())
	r.Use(sessions.Sessions(constants.SessionCookieName, deps.CookieStore))

	authHandler := handlers.NewAuthHandler(deps.AuthService, deps.FeedService)
	feedHandler := handlers.NewFeedHandler(deps.FeedService, deps.ContentService)
	requireAuth := middleware.RequireAuth(deps.AuthService)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Community board is running",
		})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Public pages
	r.GET("/", authHandler.LoginPage)
	r.GET("/register", authHandler.RegisterPage)
	r.POST("/register", authHandler.Register)
	r.POST("/login", authHandler.Login)
	r.GET("/logout", authHandler.Logout)

	// Pages behind a session
	board := r.Group("")
	board.Use(requireAuth)
	{
		board.GET("/welcome", feedHandler.Welcome)
		board.GET("/posts", feedHandler.ListPosts)
		board.POST("/posts", feedHandler.CreatePost)
		board.POST("/comments/:postId", feedHandler.CreateComment)
		board.GET("/edit-account", authHandler.EditAccountPage)
		board.POST("/update-account", authHandler.UpdateAccount)
		board.POST("/delete-account", authHandler.DeleteAccountPage)
		board.POST("/confirm-delete", authHandler.ConfirmDelete)
	}

	// JSON API
	api := r.Group("/api")
	api.Use(requireAuth)
	{
		api.GET("/me", authHandler.GetCurrentUser)
		api.GET("/feed", feedHandler.GetFeed)
	}

	return r, nil
}

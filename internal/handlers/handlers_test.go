package handlers

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/community-board/internal/constants"
	"github.com/yukikurage/community-board/internal/database"
	"github.com/yukikurage/community-board/internal/middleware"
	"github.com/yukikurage/community-board/internal/observability"
	"github.com/yukikurage/community-board/internal/repository"
	"github.com/yukikurage/community-board/internal/services"
	"github.com/yukikurage/community-board/internal/session"
	"github.com/yukikurage/community-board/internal/views"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm/logger"
)

type handlerTestEnv struct {
	router      *gin.Engine
	authService *services.AuthService
}

func setupHandlerTestEnv(t *testing.T) handlerTestEnv {
	t.Helper()
	return setupHandlerTestEnvWithStore(t, cookie.NewStore([]byte("secret")))
}

func setupHandlerTestEnvWithStore(t *testing.T, cookieStore sessions.Store) handlerTestEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.Open(sqlite.Open(filepath.Join(t.TempDir(), "board.db")), logger.Silent)
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		sqlDB.Close()
	})
	require.NoError(t, database.Migrate(db))

	log := observability.NewLoggerTo(io.Discard, "error", "text")
	users := repository.NewUserRepository(db)
	posts := repository.NewPostRepository(db)
	comments := repository.NewCommentRepository(db)
	store := session.NewGormStore(db, time.Hour)

	authService := services.NewAuthService(users, services.NewBcryptHasher(bcrypt.MinCost), store, log)
	contentService := services.NewContentService(posts, comments, log)
	feedService := services.NewFeedService(posts, comments, log, 4)

	tmpl, err := views.Templates()
	require.NoError(t, err)

	r := gin.New()
	r.SetHTMLTemplate(tmpl)
	r.Use(sessions.Sessions(constants.SessionCookieName, cookieStore))

	authHandler := NewAuthHandler(authService, feedService)
	feedHandler := NewFeedHandler(feedService, contentService)
	requireAuth := middleware.RequireAuth(authService)

	r.GET("/", authHandler.LoginPage)
	r.GET("/register", authHandler.RegisterPage)
	r.POST("/register", authHandler.Register)
	r.POST("/login", authHandler.Login)
	r.GET("/logout", authHandler.Logout)
	r.GET("/welcome", requireAuth, feedHandler.Welcome)
	r.GET("/posts", requireAuth, feedHandler.ListPosts)
	r.POST("/posts", requireAuth, feedHandler.CreatePost)
	r.POST("/comments/:postId", requireAuth, feedHandler.CreateComment)
	r.GET("/edit-account", requireAuth, authHandler.EditAccountPage)
	r.POST("/update-account", requireAuth, authHandler.UpdateAccount)
	r.POST("/delete-account", requireAuth, authHandler.DeleteAccountPage)
	r.POST("/confirm-delete", requireAuth, authHandler.ConfirmDelete)
	r.GET("/api/me", requireAuth, authHandler.GetCurrentUser)
	r.GET("/api/feed", requireAuth, feedHandler.GetFeed)

	return handlerTestEnv{router: r, authService: authService}
}

// do sends a request, as a form post when form is non-nil.
func (env handlerTestEnv) do(method, path string, form url.Values, cookie *http.Cookie) *httptest.ResponseRecorder {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}

	req := httptest.NewRequest(method, path, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}

	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()

	for _, c := range w.Result().Cookies() {
		if c.Name == constants.SessionCookieName {
			return c
		}
	}
	t.Fatalf("expected %s cookie to be set", constants.SessionCookieName)
	return nil
}

func (env handlerTestEnv) register(t *testing.T, username, password string) {
	t.Helper()

	w := env.do(http.MethodPost, "/register", url.Values{"username": {username}, "password": {password}}, nil)
	require.Equal(t, http.StatusFound, w.Code)
}

func (env handlerTestEnv) login(t *testing.T, username, password string) *http.Cookie {
	t.Helper()

	w := env.do(http.MethodPost, "/login", url.Values{"username": {username}, "password": {password}}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	return sessionCookie(t, w)
}

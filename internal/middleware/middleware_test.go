package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/community-board/internal/constants"
	apierrors "github.com/yukikurage/community-board/internal/errors"
	"github.com/yukikurage/community-board/internal/observability"
	"github.com/yukikurage/community-board/internal/services"
	"github.com/yukikurage/community-board/internal/session"
)

type fakeAuthenticator struct {
	tokens map[string]session.Identity
	err    error
}

func (f *fakeAuthenticator) Authenticate(_ context.Context, token string) (*session.Identity, error) {
	if f.err != nil {
		return nil, f.err
	}
	identity, ok := f.tokens[token]
	if !ok {
		return nil, services.ErrUnauthenticated
	}
	return &identity, nil
}

func newAuthRouter(auth Authenticator) *gin.Engine {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(sessions.Sessions(constants.SessionCookieName, cookie.NewStore([]byte("secret"))))
	r.GET("/login-as/:token", func(c *gin.Context) {
		sess := sessions.Default(c)
		sess.Set(constants.SessionKeyToken, c.Param("token"))
		if err := sess.Save(); err != nil {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.Status(http.StatusNoContent)
	})

	whoami := func(c *gin.Context) {
		identity, ok := GetIdentity(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"user_id":  identity.UserID,
			"username": identity.Username,
			"token":    GetSessionToken(c),
		})
	}
	r.GET("/posts", RequireAuth(auth), whoami)
	r.GET("/api/me", RequireAuth(auth), whoami)
	return r
}

func loginCookie(t *testing.T, r *gin.Engine, token string) *http.Cookie {
	t.Helper()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/login-as/"+token, nil))
	require.Equal(t, http.StatusNoContent, w.Code)

	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)
	return cookies[0]
}

func TestRequireAuth_NoSession(t *testing.T) {
	r := newAuthRouter(&fakeAuthenticator{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/posts", nil))
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/me", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	var body apierrors.APIError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, apierrors.ErrCodeUnauthorized, body.Code)
}

func TestRequireAuth_ValidSession(t *testing.T) {
	auth := &fakeAuthenticator{tokens: map[string]session.Identity{
		"tok-alice": {UserID: 7, Username: "alice"},
	}}
	r := newAuthRouter(auth)
	cookie := loginCookie(t, r, "tok-alice")

	req := httptest.NewRequest(http.MethodGet, "/posts", nil)
	req.AddCookie(cookie)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, float64(7), body["user_id"])
	assert.Equal(t, "alice", body["username"])
	assert.Equal(t, "tok-alice", body["token"])
}

func TestRequireAuth_RevokedSession(t *testing.T) {
	auth := &fakeAuthenticator{tokens: map[string]session.Identity{}}
	r := newAuthRouter(auth)
	cookie := loginCookie(t, r, "revoked")

	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.AddCookie(cookie)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAuth_StoreUnavailable(t *testing.T) {
	auth := &fakeAuthenticator{err: errors.New("redis: connection refused")}
	r := newAuthRouter(auth)
	cookie := loginCookie(t, r, "tok")

	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.AddCookie(cookie)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, observability.ExtractRequestID(c.Request.Context()))
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	generated := w.Header().Get(constants.HeaderRequestID)
	assert.Len(t, generated, 36)
	assert.Equal(t, generated, w.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(constants.HeaderRequestID, "from-proxy")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "from-proxy", w.Header().Get(constants.HeaderRequestID))
	assert.Equal(t, "from-proxy", w.Body.String())
}

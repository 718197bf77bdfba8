package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/community-board/internal/constants"
	apierrors "github.com/yukikurage/community-board/internal/errors"
	"github.com/yukikurage/community-board/internal/services"
	"github.com/yukikurage/community-board/internal/session"
)

// Authenticator resolves a session token to the identity behind it.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*session.Identity, error)
}

// RequireAuth resolves the session token carried in the cookie.
// Browsers without a live session are sent back to the login page;
// API clients get a 401.
func RequireAuth(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := sessions.Default(c)
		token, _ := sess.Get(constants.SessionKeyToken).(string)

		var identity *session.Identity
		err := services.ErrUnauthenticated
		if token != "" {
			identity, err = auth.Authenticate(c.Request.Context(), token)
		}

		if err != nil {
			if errors.Is(err, services.ErrUnauthenticated) {
				if token != "" {
					// stale token, drop it from the cookie
					sess.Delete(constants.SessionKeyToken)
					_ = sess.Save()
				}
				rejectUnauthenticated(c)
				return
			}
			rejectUnavailable(c)
			return
		}

		// Store identity in context for easy access in handlers
		c.Set(constants.ContextKeyUserID, identity.UserID)
		c.Set(constants.ContextKeyUsername, identity.Username)
		c.Set(constants.ContextKeySessionToken, token)
		c.Next()
	}
}

func isAPIRequest(c *gin.Context) bool {
	return strings.HasPrefix(c.Request.URL.Path, "/api/")
}

func rejectUnauthenticated(c *gin.Context) {
	if isAPIRequest(c) {
		apierrors.Unauthorized(c, "")
		return
	}
	c.Redirect(http.StatusFound, "/")
	c.Abort()
}

func rejectUnavailable(c *gin.Context) {
	if isAPIRequest(c) {
		apierrors.StorageUnavailable(c)
		return
	}
	c.HTML(http.StatusServiceUnavailable, "error.html", gin.H{
		"Message": "The board is temporarily unavailable. Please try again.",
	})
	c.Abort()
}

// GetUserID retrieves the current user ID from context
func GetUserID(c *gin.Context) (uint64, bool) {
	userID, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return 0, false
	}

	switch v := userID.(type) {
	case uint64:
		return v, true
	case uint:
		return uint64(v), true
	case int:
		if v < 0 {
			return 0, false
		}
		return uint64(v), true
	default:
		return 0, false
	}
}

// GetIdentity retrieves the authenticated identity from context
func GetIdentity(c *gin.Context) (session.Identity, bool) {
	userID, ok := GetUserID(c)
	if !ok {
		return session.Identity{}, false
	}
	return session.Identity{UserID: userID, Username: c.GetString(constants.ContextKeyUsername)}, true
}

// GetSessionToken retrieves the session token the request was authenticated with
func GetSessionToken(c *gin.Context) string {
	return c.GetString(constants.ContextKeySessionToken)
}

// Package session keeps the server-side record of who is logged in.
//
// The browser only ever holds an opaque token; the identity behind it lives
// in a Store so it can be revoked, for instance when an account is deleted.
package session

import (
	"context"
	"errors"

	"github.com/yukikurage/community-board/internal/constants"
	"github.com/yukikurage/community-board/internal/utils"
)

// ErrSessionNotFound is returned by Resolve for unknown, destroyed or expired tokens.
var ErrSessionNotFound = errors.New("session not found")

// Identity is the authenticated user a session belongs to.
type Identity struct {
	UserID   uint64
	Username string
}

// Store creates, resolves and destroys sessions.
type Store interface {
	Create(ctx context.Context, identity Identity) (string, error)
	Resolve(ctx context.Context, token string) (*Identity, error)
	Destroy(ctx context.Context, token string) error
	// DestroyUser drops every session belonging to userID.
	DestroyUser(ctx context.Context, userID uint64) error
}

func newToken() (string, error) {
	return utils.GenerateToken(constants.SessionTokenBytes)
}

package constants

import "time"

// Session and request context keys
const (
	SessionCookieName = "board_session"

	// SessionKeyToken is the key under which the session token is kept in the cookie session
	SessionKeyToken = "token"

	ContextKeyUserID       = "user_id"
	ContextKeyUsername     = "username"
	ContextKeySessionToken = "session_token"
	ContextKeyRequestID    = "request_id"

	HeaderRequestID = "X-Request-ID"
)

// Credential policy
const (
	DefaultBcryptCost = 12
	SessionTokenBytes = 32
)

// Feed defaults
const (
	DefaultFeedConcurrency = 8
	DefaultSessionTTL      = 7 * 24 * time.Hour
)

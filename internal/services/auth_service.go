package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/yukikurage/community-board/internal/models"
	"github.com/yukikurage/community-board/internal/observability"
	"github.com/yukikurage/community-board/internal/repository"
	"github.com/yukikurage/community-board/internal/session"
)

// bcrypt only looks at the first 72 bytes of a password.
const maxPasswordBytes = 72

// AuthService handles authentication related business logic.
type AuthService struct {
	userRepo repository.UserRepository
	hasher   PasswordHasher
	sessions session.Store
	logger   *slog.Logger
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repository.UserRepository, hasher PasswordHasher, sessions session.Store, logger *slog.Logger) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		hasher:   hasher,
		sessions: sessions,
		logger:   logger,
	}
}

// RegisterInput represents the required information to create a new user.
type RegisterInput struct {
	Username string
	Password string
}

// LoginInput holds the credentials for authentication.
type LoginInput struct {
	Username string
	Password string
}

// UpdateCredentialsInput holds the replacement credentials of the logged in user.
type UpdateCredentialsInput struct {
	NewUsername string
	NewPassword string
}

func validateCredentials(username, password string) error {
	if username == "" {
		return fmt.Errorf("%w: username is required", ErrValidation)
	}
	if password == "" {
		return fmt.Errorf("%w: password is required", ErrValidation)
	}
	if len(password) > maxPasswordBytes {
		return fmt.Errorf("%w: password must be at most %d bytes", ErrValidation, maxPasswordBytes)
	}
	return nil
}

// Register creates a new user.
//
// The pre-check only saves a hash on the common path; two concurrent
// registrations can both pass it, so the unique index is what decides.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	username := strings.TrimSpace(input.Username)
	if err := validateCredentials(username, input.Password); err != nil {
		observability.ObserveAuth("register", "invalid")
		return nil, err
	}

	if _, err := s.userRepo.FindByUsername(ctx, username); err == nil {
		observability.ObserveAuth("register", "taken")
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, s.storageFault(ctx, "register", err)
	}

	hash, err := s.hasher.Hash(ctx, input.Password)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %v", ErrFailedToHash, err)
	}

	user := &models.User{
		Username:     username,
		PasswordHash: hash,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateUsername) {
			observability.ObserveAuth("register", "taken")
			return nil, ErrUsernameTaken
		}
		return nil, s.storageFault(ctx, "register", err)
	}

	observability.ObserveAuth("register", "ok")
	return user, nil
}

// Login verifies credentials and returns the authenticated user.
//
// Unknown users and wrong passwords are reported separately.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*models.User, error) {
	user, err := s.userRepo.FindByUsername(ctx, strings.TrimSpace(input.Username))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			observability.ObserveAuth("login", "no_such_user")
			return nil, ErrNoSuchUser
		}
		return nil, s.storageFault(ctx, "login", err)
	}

	if err := s.verifyPassword(ctx, user, input.Password); err != nil {
		if errors.Is(err, ErrWrongPassword) {
			observability.ObserveAuth("login", "wrong_password")
		}
		return nil, err
	}

	observability.ObserveAuth("login", "ok")
	return user, nil
}

// StartSession creates a session for an authenticated user and returns its token.
func (s *AuthService) StartSession(ctx context.Context, user *models.User) (string, error) {
	token, err := s.sessions.Create(ctx, session.Identity{UserID: user.ID, Username: user.Username})
	if err != nil {
		return "", s.storageFault(ctx, "start_session", err)
	}
	return token, nil
}

// EndSession destroys the session behind token.
func (s *AuthService) EndSession(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.sessions.Destroy(ctx, token); err != nil {
		return s.storageFault(ctx, "end_session", err)
	}
	return nil
}

// Authenticate resolves a session token to the identity it belongs to.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*session.Identity, error) {
	identity, err := s.sessions.Resolve(ctx, token)
	if err != nil {
		if errors.Is(err, session.ErrSessionNotFound) {
			return nil, ErrUnauthenticated
		}
		return nil, s.storageFault(ctx, "authenticate", err)
	}
	return identity, nil
}

// UpdateCredentials replaces the username and password of the session's user.
// The password is always re-hashed, even when only the username changes.
func (s *AuthService) UpdateCredentials(ctx context.Context, token string, input UpdateCredentialsInput) (*models.User, error) {
	identity, err := s.Authenticate(ctx, token)
	if err != nil {
		return nil, err
	}

	username := strings.TrimSpace(input.NewUsername)
	if err := validateCredentials(username, input.NewPassword); err != nil {
		observability.ObserveAuth("update", "invalid")
		return nil, err
	}

	hash, err := s.hasher.Hash(ctx, input.NewPassword)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %v", ErrFailedToHash, err)
	}

	if err := s.userRepo.UpdateCredentials(ctx, identity.UserID, username, hash); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			observability.ObserveAuth("update", "not_found")
			return nil, ErrUserNotFound
		case errors.Is(err, repository.ErrDuplicateUsername):
			observability.ObserveAuth("update", "taken")
			return nil, ErrUsernameTaken
		default:
			return nil, s.storageFault(ctx, "update", err)
		}
	}

	observability.ObserveAuth("update", "ok")
	return &models.User{ID: identity.UserID, Username: username, PasswordHash: hash}, nil
}

// DeleteAccount re-checks the password, drops every session the user has,
// then removes the user.
func (s *AuthService) DeleteAccount(ctx context.Context, token, password string) error {
	identity, err := s.Authenticate(ctx, token)
	if err != nil {
		return err
	}

	user, err := s.userRepo.FindByID(ctx, identity.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			observability.ObserveAuth("delete", "not_found")
			return ErrUserNotFound
		}
		return s.storageFault(ctx, "delete", err)
	}

	if err := s.verifyPassword(ctx, user, password); err != nil {
		if errors.Is(err, ErrWrongPassword) {
			observability.ObserveAuth("delete", "wrong_password")
		}
		return err
	}

	// Sessions go first: if the row delete then fails the user is logged
	// out with the account intact, never logged in to a deleted account.
	if err := s.sessions.DestroyUser(ctx, user.ID); err != nil {
		return s.storageFault(ctx, "delete_sessions", err)
	}

	if err := s.userRepo.Delete(ctx, user.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			observability.ObserveAuth("delete", "not_found")
			return ErrUserNotFound
		}
		return s.storageFault(ctx, "delete", err)
	}

	observability.ObserveAuth("delete", "ok")
	return nil
}

// GetUser retrieves a user by ID.
func (s *AuthService) GetUser(ctx context.Context, id uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, s.storageFault(ctx, "get_user", err)
	}

	return user, nil
}

func (s *AuthService) verifyPassword(ctx context.Context, user *models.User, password string) error {
	err := s.hasher.Compare(ctx, user.PasswordHash, password)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrMismatchedPassword):
		return ErrWrongPassword
	case ctx.Err() != nil:
		return ctx.Err()
	default:
		// a stored hash bcrypt cannot parse is a damaged row, not a user mistake
		return s.storageFault(ctx, "verify_password", err)
	}
}

// storageFault logs err as an operational fault and returns it marked as unavailable storage.
func (s *AuthService) storageFault(ctx context.Context, operation string, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	observability.StorageFaults.WithLabelValues(operation).Inc()
	observability.LogFault(ctx, s.logger, "storage unavailable", err, slog.String("operation", operation))
	if errors.Is(err, ErrStorageUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
}

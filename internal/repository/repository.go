package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yukikurage/community-board/internal/models"
	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when a single-row lookup or mutation matches nothing.
	ErrNotFound = gorm.ErrRecordNotFound
	// ErrDuplicateUsername is returned when the users.username unique index rejects a write.
	ErrDuplicateUsername = errors.New("repository: duplicate username")
	// ErrStorageUnavailable wraps every other failure of the underlying store.
	ErrStorageUnavailable = errors.New("repository: storage unavailable")
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create inserts a new user; the unique index on username is authoritative
	Create(ctx context.Context, user *models.User) error

	// FindByID finds a user by ID
	FindByID(ctx context.Context, id uint64) (*models.User, error)

	// FindByUsername finds a user by username
	FindByUsername(ctx context.Context, username string) (*models.User, error)

	// UpdateCredentials replaces the username and password hash of a user
	UpdateCredentials(ctx context.Context, id uint64, username, passwordHash string) error

	// Delete removes a user together with their posts and comments
	Delete(ctx context.Context, id uint64) error
}

// PostRepository defines the interface for post data access
type PostRepository interface {
	// Create creates a new post
	Create(ctx context.Context, post *models.Post) error

	// FindByID finds a post by ID
	FindByID(ctx context.Context, id uint64) (*models.Post, error)

	// ListWithAuthors lists every post with its author's username, newest first
	ListWithAuthors(ctx context.Context) ([]models.AuthoredPost, error)
}

// CommentRepository defines the interface for comment data access
type CommentRepository interface {
	// Create creates a new comment
	Create(ctx context.Context, comment *models.Comment) error

	// ListForPostWithAuthors lists the comments of a post with author usernames, oldest first
	ListForPostWithAuthors(ctx context.Context, postID uint64) ([]models.AuthoredComment, error)
}

// translateError maps driver errors onto the repository sentinels.
func translateError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey), isUniqueConstraintError(err):
		return ErrDuplicateUsername
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	default:
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
}

// isUniqueConstraintError catches unique violations from drivers that do not translate them.
func isUniqueConstraintError(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "duplicate entry") ||
		strings.Contains(msg, "23505")
}

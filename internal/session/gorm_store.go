package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/yukikurage/community-board/internal/models"
	"gorm.io/gorm"
)

// GormStore keeps sessions in the sessions table of the board database.
type GormStore struct {
	db  *gorm.DB
	ttl time.Duration
	now func() time.Time
}

// NewGormStore creates a GormStore whose sessions live for ttl.
func NewGormStore(db *gorm.DB, ttl time.Duration) *GormStore {
	return &GormStore{db: db, ttl: ttl, now: time.Now}
}

func (s *GormStore) Create(ctx context.Context, identity Identity) (string, error) {
	token, err := newToken()
	if err != nil {
		return "", err
	}

	record := &models.Session{
		Token:     token,
		UserID:    identity.UserID,
		Username:  identity.Username,
		ExpiresAt: s.now().Add(s.ttl),
	}
	if err := s.db.WithContext(ctx).Create(record).Error; err != nil {
		return "", fmt.Errorf("failed to create session: %w", err)
	}

	return token, nil
}

func (s *GormStore) Resolve(ctx context.Context, token string) (*Identity, error) {
	if token == "" {
		return nil, ErrSessionNotFound
	}

	var record models.Session
	err := s.db.WithContext(ctx).
		Where("token = ? AND expires_at > ?", token, s.now()).
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to resolve session: %w", err)
	}

	return &Identity{UserID: record.UserID, Username: record.Username}, nil
}

func (s *GormStore) Destroy(ctx context.Context, token string) error {
	if err := s.db.WithContext(ctx).Where("token = ?", token).Delete(&models.Session{}).Error; err != nil {
		return fmt.Errorf("failed to destroy session: %w", err)
	}
	return nil
}

func (s *GormStore) DestroyUser(ctx context.Context, userID uint64) error {
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.Session{}).Error; err != nil {
		return fmt.Errorf("failed to destroy sessions of user %d: %w", userID, err)
	}
	return nil
}

// PurgeExpired deletes sessions whose expiry has passed.
func (s *GormStore) PurgeExpired(ctx context.Context) (int64, error) {
	result := s.db.WithContext(ctx).Where("expires_at <= ?", s.now()).Delete(&models.Session{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to purge sessions: %w", result.Error)
	}
	return result.RowsAffected, nil
}

package repository

import (
	"context"

	"github.com/yukikurage/community-board/internal/models"
	"gorm.io/gorm"
)

// GormCommentRepository is a GORM implementation of CommentRepository
type GormCommentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new CommentRepository
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &GormCommentRepository{db: db}
}

// Create creates a new comment
func (r *GormCommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	return translateError(r.db.WithContext(ctx).Create(comment).Error)
}

// ListForPostWithAuthors lists the comments of a post joined with their authors, oldest first
func (r *GormCommentRepository) ListForPostWithAuthors(ctx context.Context, postID uint64) ([]models.AuthoredComment, error) {
	comments := []models.AuthoredComment{}
	err := r.db.WithContext(ctx).
		Table("comments").
		Select("comments.id, comments.post_id, comments.author_id, comments.body, comments.created_at, users.username AS author_username").
		Joins("JOIN users ON users.id = comments.author_id").
		Where("comments.post_id = ?", postID).
		Order("comments.created_at ASC").
		Order("comments.id ASC").
		Scan(&comments).Error
	if err != nil {
		return nil, translateError(err)
	}
	return comments, nil
}

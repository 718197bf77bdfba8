package repository

import (
	"context"

	"github.com/yukikurage/community-board/internal/models"
	"gorm.io/gorm"
)

// GormPostRepository is a GORM implementation of PostRepository
type GormPostRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new PostRepository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &GormPostRepository{db: db}
}

// Create creates a new post
func (r *GormPostRepository) Create(ctx context.Context, post *models.Post) error {
	return translateError(r.db.WithContext(ctx).Create(post).Error)
}

// FindByID finds a post by ID
func (r *GormPostRepository) FindByID(ctx context.Context, id uint64) (*models.Post, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).First(&post, id).Error; err != nil {
		return nil, translateError(err)
	}
	return &post, nil
}

// ListWithAuthors lists every post joined with its author, newest first
func (r *GormPostRepository) ListWithAuthors(ctx context.Context) ([]models.AuthoredPost, error) {
	posts := []models.AuthoredPost{}
	err := r.db.WithContext(ctx).
		Table("posts").
		Select("posts.id, posts.author_id, posts.title, posts.content, posts.created_at, users.username AS author_username").
		Joins("JOIN users ON users.id = posts.author_id").
		Order("posts.created_at DESC").
		Order("posts.id DESC").
		Scan(&posts).Error
	if err != nil {
		return nil, translateError(err)
	}
	return posts, nil
}

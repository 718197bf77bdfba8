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
)

// ContentService handles post and comment creation.
type ContentService struct {
	postRepo    repository.PostRepository
	commentRepo repository.CommentRepository
	logger      *slog.Logger
}

// NewContentService creates a new ContentService.
func NewContentService(postRepo repository.PostRepository, commentRepo repository.CommentRepository, logger *slog.Logger) *ContentService {
	return &ContentService{
		postRepo:    postRepo,
		commentRepo: commentRepo,
		logger:      logger,
	}
}

// CreatePostInput represents the input for creating a post.
type CreatePostInput struct {
	AuthorID uint64
	Title    string
	Content  string
}

// CreateCommentInput represents the input for commenting on a post.
type CreateCommentInput struct {
	PostID   uint64
	AuthorID uint64
	Body     string
}

// CreatePost stores a new post for the given author.
func (s *ContentService) CreatePost(ctx context.Context, input CreatePostInput) (*models.Post, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrValidation)
	}
	if strings.TrimSpace(input.Content) == "" {
		return nil, fmt.Errorf("%w: content is required", ErrValidation)
	}

	post := &models.Post{
		AuthorID: input.AuthorID,
		Title:    title,
		Content:  input.Content,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, s.storageFault(ctx, "create_post", err)
	}
	return post, nil
}

// CreateComment attaches a comment to an existing post.
func (s *ContentService) CreateComment(ctx context.Context, input CreateCommentInput) (*models.Comment, error) {
	if strings.TrimSpace(input.Body) == "" {
		return nil, fmt.Errorf("%w: comment is required", ErrValidation)
	}

	if _, err := s.postRepo.FindByID(ctx, input.PostID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, s.storageFault(ctx, "create_comment", err)
	}

	comment := &models.Comment{
		PostID:   input.PostID,
		AuthorID: input.AuthorID,
		Body:     input.Body,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, s.storageFault(ctx, "create_comment", err)
	}
	return comment, nil
}

func (s *ContentService) storageFault(ctx context.Context, operation string, err error) error {
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

package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/yukikurage/community-board/internal/models"
)

type UserRepository struct{ mock.Mock }

func (m *UserRepository) Create(ctx context.Context, u *models.User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *UserRepository) FindByID(ctx context.Context, id uint64) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *UserRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *UserRepository) UpdateCredentials(ctx context.Context, id uint64, username, passwordHash string) error {
	return m.Called(ctx, id, username, passwordHash).Error(0)
}

func (m *UserRepository) Delete(ctx context.Context, id uint64) error {
	return m.Called(ctx, id).Error(0)
}

type PostRepository struct{ mock.Mock }

func (m *PostRepository) Create(ctx context.Context, p *models.Post) error {
	return m.Called(ctx, p).Error(0)
}

func (m *PostRepository) FindByID(ctx context.Context, id uint64) (*models.Post, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Post), args.Error(1)
}

func (m *PostRepository) ListWithAuthors(ctx context.Context) ([]models.AuthoredPost, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.AuthoredPost), args.Error(1)
}

type CommentRepository struct{ mock.Mock }

func (m *CommentRepository) Create(ctx context.Context, c *models.Comment) error {
	return m.Called(ctx, c).Error(0)
}

func (m *CommentRepository) ListForPostWithAuthors(ctx context.Context, postID uint64) ([]models.AuthoredComment, error) {
	args := m.Called(ctx, postID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.AuthoredComment), args.Error(1)
}

package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type PasswordHasher struct{ mock.Mock }

func (m *PasswordHasher) Hash(ctx context.Context, password string) (string, error) {
	args := m.Called(ctx, password)
	return args.String(0), args.Error(1)
}

func (m *PasswordHasher) Compare(ctx context.Context, hash, password string) error {
	return m.Called(ctx, hash, password).Error(0)
}

package services

import (
	"errors"

	"github.com/yukikurage/community-board/internal/repository"
)

var (
	ErrValidation         = errors.New("validation failed")
	ErrUsernameTaken      = errors.New("username already exists")
	ErrNoSuchUser         = errors.New("user does not exist")
	ErrWrongPassword      = errors.New("wrong password")
	ErrUnauthenticated    = errors.New("authentication required")
	ErrUserNotFound       = errors.New("user not found")
	ErrPostNotFound       = errors.New("post not found")
	ErrFailedToHash       = errors.New("failed to hash password")
	ErrFeedUnavailable    = errors.New("feed unavailable")
	ErrStorageUnavailable = repository.ErrStorageUnavailable
)

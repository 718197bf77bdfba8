package services

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// PasswordHasher hashes and verifies passwords.
type PasswordHasher interface {
	Hash(ctx context.Context, password string) (string, error)
	Compare(ctx context.Context, hash, password string) error
}

// ErrMismatchedPassword is returned by Compare when the password does not match.
var ErrMismatchedPassword = errors.New("password does not match hash")

// BcryptHasher hashes with bcrypt at a fixed cost.
//
// Hashing runs on its own goroutine so a caller whose context ends stops
// waiting; the bcrypt computation itself finishes in the background.
type BcryptHasher struct {
	Cost int
}

// NewBcryptHasher returns a hasher using cost.
func NewBcryptHasher(cost int) BcryptHasher {
	return BcryptHasher{Cost: cost}
}

type hashResult struct {
	hash []byte
	err  error
}

func (h BcryptHasher) Hash(ctx context.Context, password string) (string, error) {
	done := make(chan hashResult, 1)
	go func() {
		hash, err := bcrypt.GenerateFromPassword([]byte(password), h.Cost)
		done <- hashResult{hash: hash, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-done:
		if res.err != nil {
			return "", res.err
		}
		return string(res.hash), nil
	}
}

func (h BcryptHasher) Compare(ctx context.Context, hash, password string) error {
	done := make(chan error, 1)
	go func() {
		done <- bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-done:
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrMismatchedPassword
		}
		return err
	}
}

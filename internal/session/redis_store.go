package session

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	sessionKeyPrefix     = "session:"
	userSessionKeyPrefix = "user_sessions:"
)

// RedisStore keeps sessions in Redis hashes that expire on their own.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore creates a RedisStore whose sessions live for ttl.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func sessionKey(token string) string {
	return sessionKeyPrefix + token
}

func userSessionsKey(userID uint64) string {
	return userSessionKeyPrefix + strconv.FormatUint(userID, 10)
}

func (s *RedisStore) Create(ctx context.Context, identity Identity) (string, error) {
	token, err := newToken()
	if err != nil {
		return "", err
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, sessionKey(token),
			"user_id", strconv.FormatUint(identity.UserID, 10),
			"username", identity.Username,
		)
		pipe.Expire(ctx, sessionKey(token), s.ttl)
		pipe.SAdd(ctx, userSessionsKey(identity.UserID), token)
		pipe.Expire(ctx, userSessionsKey(identity.UserID), s.ttl)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to create session: %w", err)
	}

	return token, nil
}

func (s *RedisStore) Resolve(ctx context.Context, token string) (*Identity, error) {
	if token == "" {
		return nil, ErrSessionNotFound
	}

	values, err := s.client.HGetAll(ctx, sessionKey(token)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to resolve session: %w", err)
	}
	if len(values) == 0 {
		return nil, ErrSessionNotFound
	}

	userID, err := strconv.ParseUint(values["user_id"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("corrupt session %s: %w", token, err)
	}

	return &Identity{UserID: userID, Username: values["username"]}, nil
}

func (s *RedisStore) Destroy(ctx context.Context, token string) error {
	userID, err := s.client.HGet(ctx, sessionKey(token), "user_id").Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("failed to destroy session: %w", err)
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, sessionKey(token))
		if userID != "" {
			pipe.SRem(ctx, userSessionKeyPrefix+userID, token)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to destroy session: %w", err)
	}
	return nil
}

func (s *RedisStore) DestroyUser(ctx context.Context, userID uint64) error {
	tokens, err := s.client.SMembers(ctx, userSessionsKey(userID)).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("failed to list sessions of user %d: %w", userID, err)
	}

	keys := make([]string, 0, len(tokens)+1)
	for _, token := range tokens {
		keys = append(keys, sessionKey(token))
	}
	keys = append(keys, userSessionsKey(userID))

	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to destroy sessions of user %d: %w", userID, err)
	}
	return nil
}

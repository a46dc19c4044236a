// Package session keeps issued login tokens in Redis so they can be revoked
// before they expire.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker"

	"github.com/hostel-management/hostel-service/internal/core/ports"
)

const keyPrefix = "session:"

// RedisClient is the subset of *redis.Client the store needs.
type RedisClient interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	Exists(ctx context.Context, keys ...string) *redis.IntCmd
	Ping(ctx context.Context) *redis.StatusCmd
}

type RedisStore struct {
	client RedisClient
	cb     *gobreaker.CircuitBreaker
}

var _ ports.SessionStore = (*RedisStore)(nil)

// NewRedisStore wraps client. cb may be nil.
func NewRedisStore(client RedisClient, cb *gobreaker.CircuitBreaker) *RedisStore {
	return &RedisStore{client: client, cb: cb}
}

func (s *RedisStore) Save(ctx context.Context, tokenID, userID string, ttl time.Duration) error {
	if tokenID == "" {
		return errors.New("session: empty token id")
	}
	return s.exec(func() error {
		return s.client.Set(ctx, keyPrefix+tokenID, userID, ttl).Err()
	})
}

func (s *RedisStore) Active(ctx context.Context, tokenID string) (bool, error) {
	var n int64
	err := s.exec(func() error {
		var err error
		n, err = s.client.Exists(ctx, keyPrefix+tokenID).Result()
		return err
	})
	return n > 0, err
}

func (s *RedisStore) Revoke(ctx context.Context, tokenID string) error {
	return s.exec(func() error {
		return s.client.Del(ctx, keyPrefix+tokenID).Err()
	})
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisStore) exec(fn func() error) error {
	if s.cb == nil {
		return fn()
	}
	_, err := s.cb.Execute(func() (interface{}, error) {
		return nil, fn()
	})
	return err
}

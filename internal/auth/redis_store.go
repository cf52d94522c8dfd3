package auth

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	codeKeyPrefix    = "otp:code:"
	attemptKeyPrefix = "otp:attempts:"
)

// RedisCodeStore keeps login codes in Redis so they expire on their
// own and survive API restarts
type RedisCodeStore struct {
	client *redis.Client
}

// NewRedisCodeStore creates a Redis-backed code store
func NewRedisCodeStore(client *redis.Client) *RedisCodeStore {
	return &RedisCodeStore{client: client}
}

// SaveCode stores the hashed code and resets the attempt counter
func (s *RedisCodeStore) SaveCode(ctx context.Context, email, codeHash string, ttl time.Duration) error {
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, codeKeyPrefix+email, codeHash, ttl)
	pipe.Del(ctx, attemptKeyPrefix+email)
	_, err := pipe.Exec(ctx)
	return err
}

// GetCode returns the stored hash, or an error when none is pending
func (s *RedisCodeStore) GetCode(ctx context.Context, email string) (string, error) {
	hash, err := s.client.Get(ctx, codeKeyPrefix+email).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrCodeInvalid
	}
	return hash, err
}

// DeleteCode removes the code and its attempt counter
func (s *RedisCodeStore) DeleteCode(ctx context.Context, email string) error {
	return s.client.Del(ctx, codeKeyPrefix+email, attemptKeyPrefix+email).Err()
}

// IncrAttempts bumps the verification attempt counter. The counter
// shares the code's lifetime so stale counters clean themselves up.
func (s *RedisCodeStore) IncrAttempts(ctx context.Context, email string, ttl time.Duration) (int, error) {
	key := attemptKeyPrefix + email
	count, err := s.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if count == 1 {
		s.client.Expire(ctx, key, ttl)
	}
	return int(count), nil
}

package session

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"lensfolio/internal/util"
)

const redisKeyPrefix = "lensfolio:session:"

// RedisStore keeps sessions in Redis with TTL.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore builds a Redis-backed session store.
func NewRedisStore(addr, password string, ttl time.Duration) *RedisStore {
	return &RedisStore{
		client: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
		}),
		ttl: ttl,
	}
}

// Create writes a token key with TTL.
func (s *RedisStore) Create() (string, error) {
	token := util.NewID()
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := s.client.Set(ctx, redisKeyPrefix+token, "1", s.ttl).Err(); err != nil {
		return "", err
	}
	return token, nil
}

// Valid reports whether the token key still exists.
func (s *RedisStore) Valid(token string) (bool, error) {
	if token == "" {
		return false, nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	_, err := s.client.Get(ctx, redisKeyPrefix+token).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Destroy removes the token key.
func (s *RedisStore) Destroy(token string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := s.client.Del(ctx, redisKeyPrefix+token).Err(); err != nil && err != redis.Nil {
		return err
	}
	return nil
}

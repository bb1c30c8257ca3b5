// internal/infrastructure/session/redis.go
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore persists session values as JSON blobs in Redis. Every write
// refreshes the TTL, so a session lives as long as the visitor keeps using it.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore creates a Redis-backed session store
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{
		client: client,
		ttl:    ttl,
	}
}

func (s *RedisStore) redisKey(sessionID, key string) string {
	return fmt.Sprintf("session:%s:%s", sessionID, key)
}

// Get retrieves and unmarshals a session value into dest
func (s *RedisStore) Get(ctx context.Context, sessionID, key string, dest interface{}) error {
	data, err := s.client.Get(ctx, s.redisKey(sessionID, key)).Result()
	if err == redis.Nil {
		return ErrKeyNotFound
	} else if err != nil {
		return fmt.Errorf("failed to read session key %q: %w", key, err)
	}

	if err := json.Unmarshal([]byte(data), dest); err != nil {
		return fmt.Errorf("failed to decode session key %q: %w", key, err)
	}

	return nil
}

// Set marshals and stores a session value, refreshing the session TTL
func (s *RedisStore) Set(ctx context.Context, sessionID, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode session key %q: %w", key, err)
	}

	if err := s.client.Set(ctx, s.redisKey(sessionID, key), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write session key %q: %w", key, err)
	}

	return nil
}

// Delete removes a session value; deleting a missing key is not an error
func (s *RedisStore) Delete(ctx context.Context, sessionID, key string) error {
	if err := s.client.Del(ctx, s.redisKey(sessionID, key)).Err(); err != nil {
		return fmt.Errorf("failed to delete session key %q: %w", key, err)
	}
	return nil
}

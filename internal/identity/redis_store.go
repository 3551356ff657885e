package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps sessions in Redis so every server instance sees logouts immediately.
type RedisStore struct {
	client    redis.Cmdable
	keyPrefix string
}

func NewRedisStore(client redis.Cmdable, keyPrefix string) *RedisStore {
	return &RedisStore{client: client, keyPrefix: keyPrefix}
}

func (s *RedisStore) key(sessionID string) string {
	return s.keyPrefix + sessionID
}

func (s *RedisStore) Save(ctx context.Context, sessionID string, p Principal, ttl time.Duration) error {
	payload, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("json.Marshal(principal) > %w", err)
	}
	if err := s.client.Set(ctx, s.key(sessionID), payload, ttl).Err(); err != nil {
		return fmt.Errorf("redis.Set(session) > %w", err)
	}
	return nil
}

func (s *RedisStore) Load(ctx context.Context, sessionID string) (*Principal, error) {
	payload, err := s.client.Get(ctx, s.key(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis.Get(session) > %w", err)
	}
	var p Principal
	if err := json.Unmarshal(payload, &p); err != nil {
		return nil, fmt.Errorf("json.Unmarshal(session) > %w", err)
	}
	return &p, nil
}

func (s *RedisStore) Delete(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, s.key(sessionID)).Err(); err != nil {
		return fmt.Errorf("redis.Del(session) > %w", err)
	}
	return nil
}

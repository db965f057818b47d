package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"sivik-storefront/shop-svc/internal/auth"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const sessionPrefix = "session:"

// RedisSessionStore keeps a snapshot of the signed-in principal per session
// id. A role change takes effect on the next login.
type RedisSessionStore struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisSessionStore(client *redis.Client, ttl time.Duration) *RedisSessionStore {
	return &RedisSessionStore{Client: client, TTL: ttl}
}

func (s *RedisSessionStore) key(id string) string {
	return sessionPrefix + id
}

func (s *RedisSessionStore) Create(ctx context.Context, p *auth.Principal) (string, error) {
	payload, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("encode session: %w", err)
	}
	id := uuid.NewString()
	if err := s.Client.Set(ctx, s.key(id), payload, s.TTL).Err(); err != nil {
		return "", err
	}
	return id, nil
}

func (s *RedisSessionStore) Get(ctx context.Context, id string) (*auth.Principal, error) {
	raw, err := s.Client.Get(ctx, s.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var p auth.Principal
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &p, nil
}

func (s *RedisSessionStore) Delete(ctx context.Context, id string) error {
	return s.Client.Del(ctx, s.key(id)).Err()
}

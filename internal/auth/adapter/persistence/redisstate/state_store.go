// Package redisstate stores OAuth CSRF state tokens in Redis with a TTL,
// so state survives restarts and is shared between replicas.
package redisstate

import (
	"context"
	"fmt"
	"time"

	"corpsuite/internal/auth/domain/model"
	"corpsuite/internal/auth/domain/repository"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "oauth_state:"

// StateStore implements OAuthStateStore on Redis.
type StateStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStateStore creates a store whose entries expire after ttl.
func NewStateStore(client *redis.Client, ttl time.Duration) *StateStore {
	return &StateStore{client: client, ttl: ttl}
}

var _ repository.OAuthStateStore = (*StateStore)(nil)

// Save records the state token with the provider it was issued for.
func (s *StateStore) Save(ctx context.Context, state, provider string) error {
	if err := s.client.Set(ctx, keyPrefix+state, provider, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store oauth state: %w", err)
	}
	return nil
}

// Consume returns the provider for the state and deletes it in one step.
// Unknown or expired states return ErrOAuthStateInvalid.
func (s *StateStore) Consume(ctx context.Context, state string) (string, error) {
	provider, err := s.client.GetDel(ctx, keyPrefix+state).Result()
	if err == redis.Nil {
		return "", model.ErrOAuthStateInvalid
	}
	if err != nil {
		return "", fmt.Errorf("failed to consume oauth state: %w", err)
	}
	return provider, nil
}

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const statePrefix = "oauth_state:"

// RedisStateStore keeps one-time OAuth state tokens in Redis so the
// redirect and callback legs may land on different instances.
type RedisStateStore struct {
	client *redis.Client
}

// NewRedisStateStore creates a Redis-backed OAuth state store.
func NewRedisStateStore(client *redis.Client) *RedisStateStore {
	return &RedisStateStore{client: client}
}

func (s *RedisStateStore) StoreState(ctx context.Context, state string, ttl time.Duration) error {
	ok, err := s.client.SetNX(ctx, statePrefix+state, "1", ttl).Result()
	if err != nil {
		return fmt.Errorf("store oauth state: %w", err)
	}
	if !ok {
		return fmt.Errorf("store oauth state: %w", ErrInvalidState)
	}
	return nil
}

func (s *RedisStateStore) ConsumeState(ctx context.Context, state string) error {
	// GETDEL makes lookup and removal a single step, so a replayed state
	// fails even under concurrent callbacks.
	if err := s.client.GetDel(ctx, statePrefix+state).Err(); err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrStateNotFound
		}
		return fmt.Errorf("consume oauth state: %w", err)
	}
	return nil
}

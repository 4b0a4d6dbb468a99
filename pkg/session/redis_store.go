package session

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "session:"

// RedisStore implements Store on Redis. The key TTL mirrors the session's
// absolute expiry so expired records vanish without a cleanup job, and every
// API instance sharing the Redis sees the same sessions.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a Redis-backed session store.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// Create stores a new session with a TTL matching its expiry.
func (s *RedisStore) Create(ctx context.Context, session *Session) error {
	if session == nil || session.Token == "" {
		return ErrInvalidSession
	}

	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		return ErrInvalidSession
	}

	data, err := json.Marshal(session)
	if err != nil {
		return errors.Join(ErrInvalidSession, err)
	}

	return s.client.Set(ctx, redisKeyPrefix+session.Token, data, ttl).Err()
}

// Get retrieves a session by token.
func (s *RedisStore) Get(ctx context.Context, token string) (*Session, error) {
	data, err := s.client.Get(ctx, redisKeyPrefix+token).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}

	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, errors.Join(ErrInvalidSession, err)
	}

	// The Redis TTL should have removed it already; double-check anyway in
	// case of clock drift between instances.
	if session.IsExpired() {
		_ = s.client.Del(ctx, redisKeyPrefix+token).Err()
		return nil, ErrSessionExpired
	}

	return &session, nil
}

// Delete removes a session by token. Absent tokens are not an error.
func (s *RedisStore) Delete(ctx context.Context, token string) error {
	return s.client.Del(ctx, redisKeyPrefix+token).Err()
}

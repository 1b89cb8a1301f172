package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	backend "github.com/redis/go-redis/v9"

	"github.com/GibaTrindade/bot-seplag/internal/domain"
)

// RedisStore implements ports.SessionStore on Redis. Expiry rides on the
// key TTL: Create and Touch (re)arm it, so the window slides exactly like
// the in-memory timers. No expire callback exists here; Redis reaps keys
// server-side.
type RedisStore struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

// RedisOption configures the RedisStore.
type RedisOption func(*RedisStore)

// WithRedisTTL overrides the sliding expiration window.
func WithRedisTTL(ttl time.Duration) RedisOption {
	return func(s *RedisStore) {
		s.ttl = ttl
	}
}

// WithPrefix sets the key prefix for sessions.
func WithPrefix(prefix string) RedisOption {
	return func(s *RedisStore) {
		s.prefix = prefix
	}
}

// NewRedisStore creates a Redis-backed store from connection parameters.
func NewRedisStore(address, password string, db int, opts ...RedisOption) *RedisStore {
	client := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewRedisStoreFromClient(client, opts...)
}

// NewRedisStoreFromClient wraps an existing client.
func NewRedisStoreFromClient(client *backend.Client, opts ...RedisOption) *RedisStore {
	s := &RedisStore{
		client: client,
		prefix: "botseplag:session:",
		ttl:    DefaultTTL,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *RedisStore) key(userID string) string {
	return s.prefix + userID
}

// Get retrieves the session for a user.
func (s *RedisStore) Get(ctx context.Context, userID string) (*domain.Session, error) {
	val, err := s.client.Get(ctx, s.key(userID)).Result()
	if err != nil {
		if err == backend.Nil {
			return nil, domain.ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get session from redis: %w", err)
	}

	var sess domain.Session
	if err := json.Unmarshal([]byte(val), &sess); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &sess, nil
}

// Create inserts a fresh session at the CPF step with the full TTL.
func (s *RedisStore) Create(ctx context.Context, userID string) (*domain.Session, error) {
	sess := domain.NewSession(userID)
	if err := s.set(ctx, userID, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// Touch re-arms the key TTL. No-op if the session does not exist.
func (s *RedisStore) Touch(ctx context.Context, userID string) error {
	if err := s.client.Expire(ctx, s.key(userID), s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to touch session: %w", err)
	}
	return nil
}

// Replace swaps the stored state, re-arming the TTL alongside.
func (s *RedisStore) Replace(ctx context.Context, userID string, sess *domain.Session) error {
	return s.set(ctx, userID, sess)
}

// Delete removes the session. Idempotent.
func (s *RedisStore) Delete(ctx context.Context, userID string) error {
	if err := s.client.Del(ctx, s.key(userID)).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// Close closes the redis client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

func (s *RedisStore) set(ctx context.Context, userID string, sess *domain.Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	if err := s.client.Set(ctx, s.key(userID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save session to redis: %w", err)
	}
	return nil
}

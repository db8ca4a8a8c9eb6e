// Package cache provides short-lived token stores used by provider adapters
// to avoid re-authenticating on every outbound call.
package cache

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// RedisStore keeps tokens in Redis so that concurrently running gateway
// instances share one token per provider. Redis trouble is treated as a
// cache miss, never as a hard failure.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore wraps an existing Redis client.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client, prefix: "paygate:token:"}
}

func (s *RedisStore) Get(ctx context.Context, key string) (string, bool) {
	value, err := s.client.Get(ctx, s.prefix+key).Result()
	if err == redis.Nil {
		return "", false
	}
	if err != nil {
		log.Debug().Err(err).Str("key", key).Msg("token cache read failed")
		return "", false
	}
	return value, true
}

func (s *RedisStore) Set(ctx context.Context, key, value string, ttl time.Duration) {
	if err := s.client.Set(ctx, s.prefix+key, value, ttl).Err(); err != nil {
		log.Debug().Err(err).Str("key", key).Msg("token cache write failed")
	}
}

// MemoryStore is the in-process fallback used when no Redis address is
// configured, and in tests.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
}

type memoryEntry struct {
	value     string
	expiresAt time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]memoryEntry)}
}

func (s *MemoryStore) Get(_ context.Context, key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[key]
	if !ok || time.Now().After(entry.expiresAt) {
		delete(s.entries, key)
		return "", false
	}
	return entry.value, true
}

func (s *MemoryStore) Set(_ context.Context, key, value string, ttl time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = memoryEntry{value: value, expiresAt: time.Now().Add(ttl)}
}

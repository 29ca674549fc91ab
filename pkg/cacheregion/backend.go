package cacheregion

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/helpdesk/pkg/cache"
	pkgredis "github.com/dmitrymomot/helpdesk/pkg/redis"
)

// Backend stores encoded values under physical keys.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	// DeletePrefix removes every key starting with prefix and reports how many.
	DeletePrefix(ctx context.Context, prefix string) (int, error)
}

// NewBackend picks the backend named by cfg.Backend. The Redis backend needs
// a client; the memory backend ignores it.
func NewBackend(cfg Config, client redis.UniversalClient, scanBatch int64) (Backend, error) {
	cfg = cfg.withDefaults()
	switch cfg.Backend {
	case "memory":
		return NewMemoryBackend(cfg.MemoryCapacity), nil
	case "redis":
		if client == nil {
			return nil, ErrNoRedisClient
		}
		return NewRedisBackend(client, scanBatch), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
	}
}

// MemoryBackend keeps entries in a process-local LRU.
type MemoryBackend struct {
	lru *cache.LRUCache[string, []byte]
}

func NewMemoryBackend(capacity int) *MemoryBackend {
	if capacity <= 0 {
		capacity = 10000
	}
	return &MemoryBackend{lru: cache.NewLRUCache[string, []byte](capacity)}
}

func (b *MemoryBackend) Get(_ context.Context, key string) ([]byte, bool, error) {
	v, ok := b.lru.Get(key)
	return v, ok, nil
}

func (b *MemoryBackend) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	b.lru.PutWithTTL(key, value, ttl)
	return nil
}

func (b *MemoryBackend) Delete(_ context.Context, keys ...string) error {
	for _, k := range keys {
		b.lru.Remove(k)
	}
	return nil
}

func (b *MemoryBackend) DeletePrefix(_ context.Context, prefix string) (int, error) {
	return b.lru.RemoveFunc(func(key string, _ []byte) bool {
		return strings.HasPrefix(key, prefix)
	}), nil
}

// RedisBackend shares entries between instances through Redis.
type RedisBackend struct {
	client    redis.UniversalClient
	scanBatch int64
}

func NewRedisBackend(client redis.UniversalClient, scanBatch int64) *RedisBackend {
	return &RedisBackend{client: client, scanBatch: scanBatch}
}

func (b *RedisBackend) Get(ctx context.Context, key string) ([]byte, bool, error) {
	v, err := b.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return v, true, nil
}

func (b *RedisBackend) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return b.client.Set(ctx, key, value, ttl).Err()
}

func (b *RedisBackend) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return b.client.Unlink(ctx, keys...).Err()
}

func (b *RedisBackend) DeletePrefix(ctx context.Context, prefix string) (int, error) {
	return pkgredis.DeleteByPattern(ctx, b.client, escapeGlob(prefix)+"*", b.scanBatch)
}

var globEscaper = strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`, `[`, `\[`, `]`, `\]`)

func escapeGlob(s string) string {
	return globEscaper.Replace(s)
}

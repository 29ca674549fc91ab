package dedup

import (
	"context"
	"fmt"
	"time"
)

// Cache answers "has this key been seen recently" for at-most-once work such
// as inbound webhook or email message ids.
type Cache struct {
	store Store
	ttl   time.Duration
	now   func() time.Time
}

type CacheOption func(*Cache)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) CacheOption {
	return func(c *Cache) {
		if now != nil {
			c.now = now
		}
	}
}

func NewCache(store Store, cfg Config, opts ...CacheOption) *Cache {
	c := &Cache{store: store, ttl: cfg.withDefaults().TTL, now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Claim records key and returns true only for the first caller within the
// TTL. An expired entry that the janitor has not removed yet does not block.
func (c *Cache) Claim(ctx context.Context, key string) (bool, error) {
	return c.ClaimFor(ctx, key, c.ttl)
}

func (c *Cache) ClaimFor(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	if key == "" {
		return false, ErrEmptyKey
	}
	if ttl <= 0 {
		ttl = c.ttl
	}
	now := c.now().UTC()
	ok, err := c.store.Insert(ctx, key, now.Add(ttl), now)
	if err != nil {
		return false, fmt.Errorf("claim dedup key: %w", err)
	}
	return ok, nil
}

// Seen reports whether key holds a live entry.
func (c *Cache) Seen(ctx context.Context, key string) (bool, error) {
	if key == "" {
		return false, ErrEmptyKey
	}
	return c.store.Exists(ctx, key, c.now().UTC())
}

// Release drops key so it can be claimed again, for work that failed after
// its claim.
func (c *Cache) Release(ctx context.Context, key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	return c.store.Delete(ctx, key)
}

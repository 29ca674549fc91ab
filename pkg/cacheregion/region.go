package cacheregion

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/dmitrymomot/helpdesk/pkg/logger"
)

// Region is a typed view over one entity type. Values are stored as JSON.
type Region[T any] struct {
	m      *Manager
	entity string
	ttl    time.Duration
}

type RegionOption func(*regionOptions)

type regionOptions struct {
	ttl time.Duration
}

// WithTTL overrides Config.DefaultTTL for the region.
func WithTTL(ttl time.Duration) RegionOption {
	return func(o *regionOptions) {
		if ttl > 0 {
			o.ttl = ttl
		}
	}
}

func NewRegion[T any](m *Manager, entityType string, opts ...RegionOption) *Region[T] {
	o := regionOptions{ttl: m.cfg.DefaultTTL}
	for _, opt := range opts {
		opt(&o)
	}
	return &Region[T]{m: m, entity: entityType, ttl: o.ttl}
}

// Get returns the cached value of id. An entry that no longer decodes is
// dropped and reported as a miss.
func (r *Region[T]) Get(ctx context.Context, id string) (T, bool, error) {
	var zero T
	key, err := r.m.Key(ctx, r.entity, id)
	if err != nil {
		return zero, false, err
	}

	raw, ok, err := r.m.backend.Get(ctx, key)
	if err != nil {
		return zero, false, err
	}
	if ok {
		var v T
		if err := json.Unmarshal(raw, &v); err == nil {
			r.m.metrics.IncCacheLookup(r.entity, true)
			return v, true, nil
		}
		r.m.log.WarnContext(ctx, "dropping undecodable cache entry", slog.String("key", key))
		if err := r.m.backend.Delete(ctx, key); err != nil {
			r.m.log.WarnContext(ctx, "undecodable cache entry not dropped", slog.String("key", key), logger.Error(err))
		}
	}
	r.m.metrics.IncCacheLookup(r.entity, false)
	return zero, false, nil
}

func (r *Region[T]) Put(ctx context.Context, id string, v T) error {
	key, err := r.m.Key(ctx, r.entity, id)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return r.m.backend.Set(ctx, key, raw, r.ttl)
}

func (r *Region[T]) Evict(ctx context.Context, id string) error {
	key, err := r.m.Key(ctx, r.entity, id)
	if err != nil {
		return err
	}
	return r.m.backend.Delete(ctx, key)
}

// GetOrLoad returns the cached value or loads, stores and returns it. A
// failed store is logged and does not fail the read.
func (r *Region[T]) GetOrLoad(ctx context.Context, id string, load func(ctx context.Context) (T, error)) (T, error) {
	if v, ok, err := r.Get(ctx, id); err != nil || ok {
		return v, err
	}
	v, err := load(ctx)
	if err != nil {
		return v, err
	}
	if err := r.Put(ctx, id, v); err != nil {
		r.m.log.WarnContext(ctx, "cache fill failed", slog.String("entity", r.entity), logger.Error(err))
	}
	return v, nil
}

package dedup

import (
	"context"
	"time"

	"github.com/dmitrymomot/helpdesk/pkg/router"
	"github.com/dmitrymomot/helpdesk/pkg/tenant"
)

// Conns leases routed connections.
type Conns interface {
	WithConn(ctx context.Context, fn func(ctx context.Context, l *router.Lease) error) error
}

// PostgresStore keeps entries in the dedup_cache table of the default
// schema. Entries are global: every call is routed as the default tenant,
// whatever tenant the caller carries.
type PostgresStore struct {
	conns Conns
}

func NewPostgresStore(conns Conns) *PostgresStore {
	return &PostgresStore{conns: conns}
}

func (s *PostgresStore) Insert(ctx context.Context, key string, expires, now time.Time) (bool, error) {
	var inserted bool
	err := s.conns.WithConn(tenant.WithDefault(ctx), func(ctx context.Context, l *router.Lease) error {
		tag, err := l.Exec(ctx, `
			INSERT INTO dedup_cache (key, expired_time) VALUES ($1, $2)
			ON CONFLICT (key) DO UPDATE SET expired_time = EXCLUDED.expired_time
			WHERE dedup_cache.expired_time <= $3`, key, expires, now)
		inserted = tag.RowsAffected() == 1
		return err
	})
	return inserted, err
}

func (s *PostgresStore) Exists(ctx context.Context, key string, now time.Time) (bool, error) {
	var exists bool
	err := s.conns.WithConn(tenant.WithDefault(ctx), func(ctx context.Context, l *router.Lease) error {
		return l.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM dedup_cache WHERE key = $1 AND expired_time > $2)`, key, now,
		).Scan(&exists)
	})
	return exists, err
}

func (s *PostgresStore) Delete(ctx context.Context, key string) error {
	return s.conns.WithConn(tenant.WithDefault(ctx), func(ctx context.Context, l *router.Lease) error {
		_, err := l.Exec(ctx, `DELETE FROM dedup_cache WHERE key = $1`, key)
		return err
	})
}

func (s *PostgresStore) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	var n int64
	err := s.conns.WithConn(tenant.WithDefault(ctx), func(ctx context.Context, l *router.Lease) error {
		tag, err := l.Exec(ctx, `DELETE FROM dedup_cache WHERE expired_time < $1`, now)
		n = tag.RowsAffected()
		return err
	})
	return n, err
}

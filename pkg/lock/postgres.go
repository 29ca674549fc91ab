package lock

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresLocker uses session level advisory locks. Each held lock pins one
// pooled connection until it is released, so the pool must be sized for the
// number of concurrently held locks plus regular traffic.
type PostgresLocker struct {
	pool      *pgxpool.Pool
	namespace string
}

// NewPostgresLocker returns a locker whose keys are hashed together with namespace.
func NewPostgresLocker(pool *pgxpool.Pool, namespace string) *PostgresLocker {
	return &PostgresLocker{pool: pool, namespace: namespace}
}

// Key maps a lock name to the advisory lock id used for it.
func (l *PostgresLocker) Key(key string) int64 {
	return AdvisoryKey(l.namespace + key)
}

// AdvisoryKey hashes name into the signed 64-bit id space of pg_advisory_lock.
func AdvisoryKey(name string) int64 {
	return int64(xxhash.Sum64String(name))
}

func (l *PostgresLocker) Lock(ctx context.Context, key string) (Unlock, error) {
	if key == "" {
		return nil, ErrEmptyKey
	}
	conn, err := l.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire lock connection: %w", err)
	}

	id := l.Key(key)
	if _, err := conn.Exec(ctx, "SELECT pg_advisory_lock($1)", id); err != nil {
		// the session may still end up holding the lock; never return it to the pool
		_ = conn.Hijack().Close(context.WithoutCancel(ctx))
		return nil, fmt.Errorf("advisory lock %q: %w", key, errors.Join(err, ctx.Err()))
	}
	return l.unlocker(conn, id), nil
}

func (l *PostgresLocker) TryLock(ctx context.Context, key string) (Unlock, bool, error) {
	if key == "" {
		return nil, false, ErrEmptyKey
	}
	conn, err := l.pool.Acquire(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("acquire lock connection: %w", err)
	}

	id := l.Key(key)
	var ok bool
	if err := conn.QueryRow(ctx, "SELECT pg_try_advisory_lock($1)", id).Scan(&ok); err != nil {
		_ = conn.Hijack().Close(context.WithoutCancel(ctx))
		return nil, false, fmt.Errorf("try advisory lock %q: %w", key, err)
	}
	if !ok {
		conn.Release()
		return noopUnlock, false, nil
	}
	return l.unlocker(conn, id), true, nil
}

func (l *PostgresLocker) unlocker(conn *pgxpool.Conn, id int64) Unlock {
	var once sync.Once
	return func(ctx context.Context) error {
		var err error
		once.Do(func() {
			var released bool
			if err = conn.QueryRow(ctx, "SELECT pg_advisory_unlock($1)", id).Scan(&released); err != nil {
				// closing the session drops every lock it holds
				_ = conn.Hijack().Close(context.WithoutCancel(ctx))
				return
			}
			conn.Release()
			if !released {
				err = ErrLockNotHeld
			}
		})
		return err
	}
}

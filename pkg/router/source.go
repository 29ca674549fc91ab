package router

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Conn is one pooled physical connection.
type Conn interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
	// Release returns the connection to its pool.
	Release()
	// Destroy closes the connection instead of returning it.
	Destroy(ctx context.Context) error
}

// ConnSource hands out pooled connections. Acquire blocks until one is free
// or ctx ends.
type ConnSource interface {
	Acquire(ctx context.Context) (Conn, error)
}

// PoolSource adapts a pgxpool.Pool.
type PoolSource struct {
	pool *pgxpool.Pool
}

func NewPoolSource(pool *pgxpool.Pool) *PoolSource {
	return &PoolSource{pool: pool}
}

func (s *PoolSource) Acquire(ctx context.Context) (Conn, error) {
	c, err := s.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	return poolConn{c}, nil
}

type poolConn struct {
	*pgxpool.Conn
}

func (c poolConn) Destroy(ctx context.Context) error {
	// a hijacked connection no longer belongs to the pool
	return c.Hijack().Close(ctx)
}

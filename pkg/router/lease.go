package router

import (
	"context"
	"errors"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dmitrymomot/helpdesk/pkg/logger"
)

var ErrLeaseReleased = errors.New("connection lease already released")

// Lease is a connection bound to one schema for the duration of a unit of
// work. It is not safe for concurrent use.
type Lease struct {
	conn   Conn
	schema string
	router *Router
	once   sync.Once
	done   bool
}

// Schema is the schema the lease is bound to.
func (l *Lease) Schema() string {
	return l.schema
}

func (l *Lease) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if l.done {
		return pgconn.CommandTag{}, ErrLeaseReleased
	}
	return l.conn.Exec(ctx, sql, args...)
}

func (l *Lease) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	if l.done {
		return nil, ErrLeaseReleased
	}
	return l.conn.Query(ctx, sql, args...)
}

func (l *Lease) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if l.done {
		return errRow{ErrLeaseReleased}
	}
	return l.conn.QueryRow(ctx, sql, args...)
}

func (l *Lease) Begin(ctx context.Context) (pgx.Tx, error) {
	if l.done {
		return nil, ErrLeaseReleased
	}
	return l.conn.Begin(ctx)
}

// Release resets search_path and returns the connection to the pool. A
// connection whose reset fails is destroyed instead. Release is idempotent.
func (l *Lease) Release() {
	l.once.Do(func() {
		l.done = true
		r := l.router

		ctx, cancel := context.WithTimeout(context.Background(), r.cfg.ResetTimeout)
		defer cancel()
		if _, err := l.conn.Exec(ctx, `RESET search_path`); err != nil {
			r.log.WarnContext(ctx, "search_path reset failed, dropping connection",
				logger.Schema(l.schema), logger.Error(err))
			r.destroy(ctx, l.conn)
			return
		}
		l.conn.Release()
	})
}

type errRow struct{ err error }

func (r errRow) Scan(...any) error { return r.err }

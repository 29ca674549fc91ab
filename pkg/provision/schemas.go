package provision

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresSchemas manages schemas through the shared pool.
type PostgresSchemas struct {
	pool *pgxpool.Pool
}

func NewPostgresSchemas(pool *pgxpool.Pool) *PostgresSchemas {
	return &PostgresSchemas{pool: pool}
}

func (s *PostgresSchemas) Exists(ctx context.Context, schema string) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM pg_namespace WHERE nspname = $1)`, schema,
	).Scan(&exists)
	return exists, err
}

func (s *PostgresSchemas) Create(ctx context.Context, schema string) error {
	_, err := s.pool.Exec(ctx, `CREATE SCHEMA IF NOT EXISTS `+pgx.Identifier{schema}.Sanitize())
	return err
}

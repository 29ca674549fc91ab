package registry

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/helpdesk/pkg/pg"
	"github.com/dmitrymomot/helpdesk/pkg/tenant"
)

const tenantColumns = `id, name, slug, domain, schema_name, status, created_at, updated_at`

// PostgresStore keeps tenants in public.tenants. Partial unique indexes on
// lower(slug) and lower(domain) enforce uniqueness among live tenants.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) Create(ctx context.Context, t *tenant.Tenant) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO public.tenants (id, name, slug, domain, schema_name, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6, $7, $8)`,
		t.ID, t.Name, t.Slug, t.Domain, t.SchemaName, string(t.Status), t.CreatedAt, t.UpdatedAt,
	)
	if pg.IsDuplicateKeyError(err) {
		return fmt.Errorf("%w: %s", tenant.ErrDuplicateTenant, pg.ConstraintName(err))
	}
	if err != nil {
		return fmt.Errorf("insert tenant: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetByID(ctx context.Context, id uuid.UUID) (*tenant.Tenant, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+tenantColumns+` FROM public.tenants WHERE id = $1`, id)
	return scanTenant(row)
}

func (s *PostgresStore) GetByHint(ctx context.Context, hint string) (*tenant.Tenant, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT `+tenantColumns+` FROM public.tenants
		WHERE status <> 'deprovisioned'
		  AND (lower(slug) = lower($1) OR (domain <> '' AND lower(domain) = lower($1)))
		LIMIT 1`, hint)
	return scanTenant(row)
}

func (s *PostgresStore) UpdateStatus(ctx context.Context, id uuid.UUID, from, to tenant.Status) (*tenant.Tenant, error) {
	row := s.pool.QueryRow(ctx, `
		UPDATE public.tenants SET status = $3, updated_at = now()
		WHERE id = $1 AND status = $2
		RETURNING `+tenantColumns, id, string(from), string(to))
	t, err := scanTenant(row)
	if errors.Is(err, tenant.ErrTenantNotFound) {
		if _, getErr := s.GetByID(ctx, id); getErr != nil {
			return nil, getErr
		}
		return nil, ErrStatusConflict
	}
	return t, err
}

func (s *PostgresStore) SetSchema(ctx context.Context, id uuid.UUID, schema string) (*tenant.Tenant, error) {
	row := s.pool.QueryRow(ctx, `
		UPDATE public.tenants
		SET schema_name = COALESCE(schema_name, $2),
		    updated_at = CASE WHEN schema_name IS NULL THEN now() ELSE updated_at END
		WHERE id = $1
		RETURNING `+tenantColumns, id, schema)
	t, err := scanTenant(row)
	if pg.IsDuplicateKeyError(err) {
		return nil, fmt.Errorf("%w: schema %s", tenant.ErrDuplicateTenant, schema)
	}
	return t, err
}

func (s *PostgresStore) List(ctx context.Context) ([]*tenant.Tenant, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+tenantColumns+` FROM public.tenants ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("list tenants: %w", err)
	}
	defer rows.Close()

	var out []*tenant.Tenant
	for rows.Next() {
		t, err := scanTenant(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func scanTenant(row pgx.Row) (*tenant.Tenant, error) {
	var (
		t      tenant.Tenant
		schema *string
		status string
	)
	err := row.Scan(&t.ID, &t.Name, &t.Slug, &t.Domain, &schema, &status, &t.CreatedAt, &t.UpdatedAt)
	if pg.IsNotFoundError(err) {
		return nil, tenant.ErrTenantNotFound
	}
	if err != nil {
		return nil, err
	}
	if schema != nil {
		t.SchemaName = *schema
	}
	t.Status = tenant.Status(status)
	return &t, nil
}

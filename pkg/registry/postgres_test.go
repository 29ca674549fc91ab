package registry_test

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/helpdesk/migrations"
	"github.com/dmitrymomot/helpdesk/pkg/pg"
	"github.com/dmitrymomot/helpdesk/pkg/registry"
	"github.com/dmitrymomot/helpdesk/pkg/tenant"
)

func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	url := os.Getenv("PG_TEST_URL")
	if url == "" {
		t.Skip("PG_TEST_URL is not set")
	}
	ctx := context.Background()
	pool, err := pg.Connect(ctx, pg.Config{ConnectionString: url, MaxOpenConns: 4, RetryAttempts: 1, SearchPath: "public"})
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	require.NoError(t, pg.Migrate(ctx, pool, migrations.Control(), "", slog.New(slog.DiscardHandler)))
	return pool
}

func TestPostgresStore(t *testing.T) {
	t.Parallel()
	pool := testPool(t)
	reg := registry.New(registry.NewPostgresStore(pool), registry.Config{})
	ctx := context.Background()

	// unique per run so repeated runs against one database do not collide
	name := "acme " + uuid.NewString()[:8]

	created, err := reg.Register(ctx, name, "")
	require.NoError(t, err)
	t.Cleanup(func() {
		_, _ = pool.Exec(context.Background(), `DELETE FROM public.tenants WHERE id = $1`, created.ID)
	})

	_, err = reg.Register(ctx, name, "")
	assert.ErrorIs(t, err, tenant.ErrDuplicateTenant)

	got, err := reg.Resolve(ctx, created.Slug)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.WithinDuration(t, created.CreatedAt, got.CreatedAt, time.Millisecond)

	withSchema, err := reg.AssignSchema(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, reg.SchemaName(created.ID), withSchema.SchemaName)

	active, err := reg.Activate(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, tenant.StatusActive, active.Status)

	store := registry.NewPostgresStore(pool)
	_, err = store.UpdateStatus(ctx, created.ID, tenant.StatusPending, tenant.StatusActive)
	assert.ErrorIs(t, err, registry.ErrStatusConflict)
	_, err = store.UpdateStatus(ctx, uuid.New(), tenant.StatusPending, tenant.StatusActive)
	assert.ErrorIs(t, err, tenant.ErrTenantNotFound)

	_, err = reg.Deprovision(ctx, created.ID)
	require.NoError(t, err)
	_, err = reg.Resolve(ctx, created.Slug)
	assert.ErrorIs(t, err, tenant.ErrTenantNotFound)

	again, err := reg.Register(ctx, name, "")
	require.NoError(t, err)
	t.Cleanup(func() {
		_, _ = pool.Exec(context.Background(), `DELETE FROM public.tenants WHERE id = $1`, again.ID)
	})
	assert.NotEqual(t, created.ID, again.ID)
}

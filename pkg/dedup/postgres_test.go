package dedup_test

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/helpdesk/migrations"
	"github.com/dmitrymomot/helpdesk/pkg/dedup"
	"github.com/dmitrymomot/helpdesk/pkg/pg"
	"github.com/dmitrymomot/helpdesk/pkg/router"
	"github.com/dmitrymomot/helpdesk/pkg/tenant"
)

func TestPostgresStore(t *testing.T) {
	t.Parallel()
	url := os.Getenv("PG_TEST_URL")
	if url == "" {
		t.Skip("PG_TEST_URL is not set")
	}
	ctx := context.Background()
	pool, err := pg.Connect(ctx, pg.Config{ConnectionString: url, MaxOpenConns: 2, RetryAttempts: 1, SearchPath: "public"})
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	require.NoError(t, pg.Migrate(ctx, pool, migrations.Control(), "", slog.New(slog.DiscardHandler)))

	// only the default tenant is routed, so no registry or provisioner is needed
	rt := router.New(router.NewPoolSource(pool), nil, nil, router.Config{})
	store := dedup.NewPostgresStore(rt)
	clk := newClock()
	clk.ns.Store(time.Now().Add(-time.Hour).UnixNano())
	c := dedup.NewCache(store, dedup.Config{TTL: time.Minute}, dedup.WithClock(clk.now))

	key := "test:" + uuid.NewString()
	t.Cleanup(func() { _ = store.Delete(context.Background(), key) })

	// a tenant-bound caller still lands on the shared table
	tenantCtx := tenant.WithTenant(ctx, &tenant.Tenant{ID: uuid.New()})
	first, err := c.Claim(tenantCtx, key)
	require.NoError(t, err)
	assert.True(t, first)

	again, err := c.Claim(ctx, key)
	require.NoError(t, err)
	assert.False(t, again)

	clk.advance(2 * time.Minute)
	seen, err := c.Seen(ctx, key)
	require.NoError(t, err)
	assert.False(t, seen)

	j := dedup.NewJanitor(store, dedup.WithJanitorClock(clk.now))
	res, err := j.Sweep(ctx)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, res.Deleted, int64(1))
}

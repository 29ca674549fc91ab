package provision_test

import (
	"context"
	"os"
	"testing"
	"testing/fstest"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/helpdesk/migrations"
	"github.com/dmitrymomot/helpdesk/pkg/lock"
	"github.com/dmitrymomot/helpdesk/pkg/provision"
	"github.com/dmitrymomot/helpdesk/pkg/tenant"
)

func TestNewGooseMigrator(t *testing.T) {
	t.Parallel()

	t.Run("baseline is the highest version", func(t *testing.T) {
		t.Parallel()
		fsys := fstest.MapFS{
			"00002_b.sql": {Data: []byte("-- +goose Up\nSELECT 1;\n")},
			"00001_a.sql": {Data: []byte("-- +goose Up\nSELECT 1;\n")},
			"README.md":   {Data: []byte("ignored")},
		}
		m, err := provision.NewGooseMigrator(nil, fsys, "")
		require.NoError(t, err)
		assert.Equal(t, int64(2), m.Baseline())
		assert.Equal(t, []int64{1, 2}, m.Versions())
	})

	t.Run("embedded tenant changesets", func(t *testing.T) {
		t.Parallel()
		m, err := provision.NewGooseMigrator(nil, migrations.Tenant(), "")
		require.NoError(t, err)
		assert.Positive(t, m.Baseline())
	})

	t.Run("empty source", func(t *testing.T) {
		t.Parallel()
		_, err := provision.NewGooseMigrator(nil, fstest.MapFS{}, "")
		assert.ErrorIs(t, err, provision.ErrNoChangesets)
	})

	t.Run("unversioned file", func(t *testing.T) {
		t.Parallel()
		_, err := provision.NewGooseMigrator(nil, fstest.MapFS{"init.sql": {Data: []byte("")}}, "")
		assert.Error(t, err)
	})
}

func TestProvisionPostgres(t *testing.T) {
	t.Parallel()
	url := os.Getenv("PG_TEST_URL")
	if url == "" {
		t.Skip("PG_TEST_URL is not set")
	}
	ctx := context.Background()
	pool, err := pgxpool.New(ctx, url)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	fsys := fstest.MapFS{
		"00001_notes.sql":  {Data: []byte("-- +goose Up\nCREATE TABLE notes (id serial PRIMARY KEY, body text NOT NULL);\n")},
		"00002_broken.sql": {Data: []byte("-- +goose Up\nCREATE TABLE notes_tags (note_id int REFERENCES notes);\nSELECT * FROM missing_table;\n")},
	}
	mig, err := provision.NewGooseMigrator(pool.Config().ConnConfig, fsys, "")
	require.NoError(t, err)

	schemas := provision.NewPostgresSchemas(pool)
	p := provision.New(schemas, mig, lock.NewPostgresLocker(pool, "provision-test"), provision.Config{
		ProvisionTimeout: 30 * time.Second,
		LockTimeout:      10 * time.Second,
	})

	tn := &tenant.Tenant{ID: uuid.New(), SchemaName: "tenant_test_" + uuid.NewString()[:8]}
	t.Cleanup(func() {
		_, _ = pool.Exec(context.Background(), `DROP SCHEMA IF EXISTS `+tn.SchemaName+` CASCADE`)
	})

	_, err = p.Ensure(ctx, tn)
	var ce *provision.ChangesetError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, int64(2), ce.Version)

	exists, err := schemas.Exists(ctx, tn.SchemaName)
	require.NoError(t, err)
	assert.True(t, exists)

	var tables int
	err = pool.QueryRow(ctx, `
		SELECT count(*) FROM information_schema.tables
		WHERE table_schema = $1 AND table_name IN ('notes', 'notes_tags')`, tn.SchemaName).Scan(&tables)
	require.NoError(t, err)
	assert.Equal(t, 1, tables, "the failed changeset must be rolled back entirely")
}

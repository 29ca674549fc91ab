package logger_test

import (
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/helpdesk/pkg/logger"
)

func TestGroup(t *testing.T) {
	attr := logger.Group("req", slog.String("id", "1"), slog.Int("n", 2))
	require.Equal(t, "req", attr.Key)
	require.Equal(t, slog.KindGroup, attr.Value.Kind())
	g := attr.Value.Group()
	require.Len(t, g, 2)
	assert.Equal(t, "id", g[0].Key)
	assert.Equal(t, "n", g[1].Key)
}

func TestErrors(t *testing.T) {
	err1 := errors.New("first")
	err2 := errors.New("second")

	attr := logger.Errors(err1, nil, err2)
	require.Equal(t, "errors", attr.Key)
	g := attr.Value.Group()
	require.Len(t, g, 2)
	assert.Equal(t, err1, g[0].Value.Any())
	assert.Equal(t, err2, g[1].Value.Any())

	assert.True(t, logger.Errors(nil).Equal(slog.Attr{}))
}

func TestError(t *testing.T) {
	err := errors.New("boom")
	attr := logger.Error(err)
	require.Equal(t, "error", attr.Key)
	assert.Equal(t, err, attr.Value.Any())

	assert.True(t, logger.Error(nil).Equal(slog.Attr{}))
}

func TestTenantID(t *testing.T) {
	attr := logger.TenantID("t-1")
	require.Equal(t, "tenant_id", attr.Key)
	assert.Equal(t, "t-1", attr.Value.Any())

	assert.True(t, logger.TenantID(nil).Equal(slog.Attr{}))
}

func TestChangeset(t *testing.T) {
	attr := logger.Changeset(3, "00003_tickets.sql")
	require.Equal(t, "changeset", attr.Key)
	g := attr.Value.Group()
	require.Len(t, g, 2)
	assert.Equal(t, int64(3), g[0].Value.Int64())
	assert.Equal(t, "00003_tickets.sql", g[1].Value.String())
}

func TestScalarAttrs(t *testing.T) {
	assert.Equal(t, "tenant_abc", logger.Schema("tenant_abc").Value.String())
	assert.Equal(t, "janitor", logger.Job("janitor").Value.String())
	assert.Equal(t, int64(7), logger.Count("deleted", 7).Value.Int64())
	assert.Equal(t, time.Second, logger.Duration(time.Second).Value.Duration())
	assert.Equal(t, "active", logger.Status("active").Value.Any())
}

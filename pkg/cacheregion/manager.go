package cacheregion

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dmitrymomot/helpdesk/pkg/logger"
	"github.com/dmitrymomot/helpdesk/pkg/metrics"
	"github.com/dmitrymomot/helpdesk/pkg/tenant"
)

var (
	ErrInvalidKey     = errors.New("invalid cache key part")
	ErrUnknownBackend = errors.New("unknown cache backend")
	ErrNoRedisClient  = errors.New("redis cache backend needs a client")
)

// SchemaResolver maps the context's tenant to its schema.
type SchemaResolver interface {
	SchemaFor(ctx context.Context) (string, error)
}

// Manager namespaces a shared cache tier by schema. Every physical key has
// the form <prefix><schema>:<entity>:<id>, so two tenants never address the
// same key and one tenant's namespace can be flushed as a whole.
type Manager struct {
	backend Backend
	schemas SchemaResolver
	cfg     Config
	log     *slog.Logger
	metrics *metrics.Metrics
}

type Option func(*Manager)

func WithLogger(log *slog.Logger) Option {
	return func(m *Manager) {
		if log != nil {
			m.log = log
		}
	}
}

func WithMetrics(mt *metrics.Metrics) Option {
	return func(m *Manager) { m.metrics = mt }
}

func New(backend Backend, schemas SchemaResolver, cfg Config, opts ...Option) *Manager {
	m := &Manager{
		backend: backend,
		schemas: schemas,
		cfg:     cfg.withDefaults(),
		log:     slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.log = m.log.With(logger.Component("cacheregion"))
	return m
}

// Key returns the physical key of an entity for the context's tenant.
func (m *Manager) Key(ctx context.Context, entityType, id string) (string, error) {
	if entityType == "" || strings.Contains(entityType, ":") || id == "" {
		return "", fmt.Errorf("%w: %q/%q", ErrInvalidKey, entityType, id)
	}
	schema, err := m.schemas.SchemaFor(ctx)
	if err != nil {
		return "", err
	}
	return m.namespace(schema) + entityType + ":" + id, nil
}

func (m *Manager) namespace(schema string) string {
	return m.cfg.KeyPrefix + schema + ":"
}

// FlushSchema removes every entry in schema's namespace.
func (m *Manager) FlushSchema(ctx context.Context, schema string) (int, error) {
	if schema == "" {
		return 0, fmt.Errorf("%w: empty schema", ErrInvalidKey)
	}
	n, err := m.backend.DeletePrefix(ctx, m.namespace(schema))
	m.metrics.AddCacheFlushed(n)
	if err != nil {
		return n, fmt.Errorf("flush cache namespace %s: %w", schema, err)
	}
	m.log.InfoContext(ctx, "cache namespace flushed", logger.Schema(schema), logger.Count("keys", int64(n)))
	return n, nil
}

// FlushTenant drops the tenant's namespace. It has the signature of a
// registry deprovision hook.
func (m *Manager) FlushTenant(ctx context.Context, t *tenant.Tenant) error {
	if t == nil || !t.HasSchema() {
		return nil
	}
	_, err := m.FlushSchema(ctx, t.SchemaName)
	return err
}

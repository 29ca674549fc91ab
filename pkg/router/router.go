package router

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dmitrymomot/helpdesk/pkg/logger"
	"github.com/dmitrymomot/helpdesk/pkg/metrics"
	"github.com/dmitrymomot/helpdesk/pkg/provision"
	"github.com/dmitrymomot/helpdesk/pkg/tenant"
)

// Tenants is the part of the registry the router depends on.
type Tenants interface {
	GetUsable(ctx context.Context, id uuid.UUID) (*tenant.Tenant, error)
	AssignSchema(ctx context.Context, id uuid.UUID) (*tenant.Tenant, error)
	Activate(ctx context.Context, id uuid.UUID) (*tenant.Tenant, error)
}

// Provisioner brings a tenant schema to the current baseline.
type Provisioner interface {
	Ensure(ctx context.Context, t *tenant.Tenant) (provision.Result, error)
}

// Router hands out connections bound to the schema of the tenant carried
// by the context.
type Router struct {
	src     ConnSource
	tenants Tenants
	prov    Provisioner
	cfg     Config
	log     *slog.Logger
	metrics *metrics.Metrics
}

type Option func(*Router)

func WithLogger(log *slog.Logger) Option {
	return func(r *Router) {
		if log != nil {
			r.log = log
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(r *Router) { r.metrics = m }
}

func New(src ConnSource, tenants Tenants, prov Provisioner, cfg Config, opts ...Option) *Router {
	r := &Router{
		src:     src,
		tenants: tenants,
		prov:    prov,
		cfg:     cfg.withDefaults(),
		log:     slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.log = r.log.With(logger.Component("router"))
	return r
}

// DefaultSchema is the schema of units of work bound to no tenant.
func (r *Router) DefaultSchema() string {
	return r.cfg.DefaultSchema
}

// SchemaFor returns the schema the context routes to. A tenant that has
// no schema yet, or whose schema is behind the baseline, is provisioned
// synchronously first, and a pending tenant is activated once provisioned.
func (r *Router) SchemaFor(ctx context.Context) (string, error) {
	id := tenant.CurrentID(ctx)
	if id == tenant.DefaultID {
		return r.cfg.DefaultSchema, nil
	}

	t, err := r.tenants.GetUsable(ctx, id)
	if err != nil {
		return "", err
	}
	if !t.HasSchema() {
		if t, err = r.tenants.AssignSchema(ctx, id); err != nil {
			return "", err
		}
	}

	if _, err := r.prov.Ensure(ctx, t); err != nil {
		return "", err
	}

	if t.Status == tenant.StatusPending {
		if _, err := r.tenants.Activate(ctx, id); err != nil {
			return "", err
		}
		r.log.InfoContext(ctx, "tenant activated on first use", logger.Schema(t.SchemaName))
	}
	return t.SchemaName, nil
}

// Acquire leases a connection bound to the context's schema. The context is
// read on every call. Waiting for a free connection is bounded by
// Config.AcquireTimeout and fails with tenant.ErrConnectionAcquireTimeout.
func (r *Router) Acquire(ctx context.Context) (*Lease, error) {
	schema, err := r.SchemaFor(ctx)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	acquireCtx, cancel := context.WithTimeout(ctx, r.cfg.AcquireTimeout)
	conn, err := r.src.Acquire(acquireCtx)
	timedOut := err != nil && errors.Is(acquireCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil
	cancel()
	r.metrics.ObserveAcquire(start, timedOut)
	if timedOut {
		r.log.ErrorContext(ctx, "connection acquire timed out",
			logger.Schema(schema), logger.Duration(r.cfg.AcquireTimeout))
		return nil, errors.Join(tenant.ErrConnectionAcquireTimeout, err)
	}
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}

	if _, err := conn.Exec(ctx, `SELECT set_config('search_path', $1, false)`, pgx.Identifier{schema}.Sanitize()); err != nil {
		r.destroy(ctx, conn)
		return nil, fmt.Errorf("bind schema %s: %w", schema, err)
	}
	return &Lease{conn: conn, schema: schema, router: r}, nil
}

// WithConn runs fn with a lease that is released on every exit path.
func (r *Router) WithConn(ctx context.Context, fn func(ctx context.Context, l *Lease) error) error {
	l, err := r.Acquire(ctx)
	if err != nil {
		return err
	}
	defer l.Release()
	return fn(ctx, l)
}

// InTx runs fn in a transaction on a routed connection. The transaction
// commits when fn returns nil and rolls back otherwise.
func (r *Router) InTx(ctx context.Context, fn func(ctx context.Context, tx pgx.Tx) error) error {
	return r.WithConn(ctx, func(ctx context.Context, l *Lease) error {
		return pgx.BeginFunc(ctx, l, func(tx pgx.Tx) error {
			return fn(ctx, tx)
		})
	})
}

func (r *Router) destroy(ctx context.Context, conn Conn) {
	r.metrics.IncLeaseDestroyed()
	if err := conn.Destroy(context.WithoutCancel(ctx)); err != nil {
		r.log.WarnContext(ctx, "failed to close connection", logger.Error(err))
	}
}

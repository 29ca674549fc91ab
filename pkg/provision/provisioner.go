package provision

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/dmitrymomot/helpdesk/pkg/lock"
	"github.com/dmitrymomot/helpdesk/pkg/logger"
	"github.com/dmitrymomot/helpdesk/pkg/metrics"
	"github.com/dmitrymomot/helpdesk/pkg/tenant"
)

var schemaPattern = regexp.MustCompile(`^[a-z_][a-z0-9_]{0,62}$`)

// Migrator applies the ordered changesets to one schema. Up applies only
// changesets missing from the schema's history ledger, each in its own
// transaction, and reports a failure as *ChangesetError.
type Migrator interface {
	Baseline() int64
	Up(ctx context.Context, schema string) ([]Changeset, error)
}

// SchemaStore creates physical schemas.
type SchemaStore interface {
	Exists(ctx context.Context, schema string) (bool, error)
	Create(ctx context.Context, schema string) error
}

// Provisioner brings tenant schemas to the current migration baseline.
// Attempts for one schema are serialized in-process by singleflight and
// across processes by the locker.
type Provisioner struct {
	schemas  SchemaStore
	migrator Migrator
	locker   lock.Locker
	cfg      Config
	log      *slog.Logger
	metrics  *metrics.Metrics
	now      func() time.Time

	group  singleflight.Group
	mu     sync.RWMutex
	states map[string]State
}

type Option func(*Provisioner)

func WithLogger(log *slog.Logger) Option {
	return func(p *Provisioner) {
		if log != nil {
			p.log = log
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(p *Provisioner) { p.metrics = m }
}

func New(schemas SchemaStore, migrator Migrator, locker lock.Locker, cfg Config, opts ...Option) *Provisioner {
	p := &Provisioner{
		schemas:  schemas,
		migrator: migrator,
		locker:   locker,
		cfg:      cfg.withDefaults(),
		log:      slog.Default(),
		now:      time.Now,
		states:   make(map[string]State),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.log = p.log.With(logger.Component("provision"))
	return p
}

// Baseline is the highest changeset version known to the migrator.
func (p *Provisioner) Baseline() int64 {
	return p.migrator.Baseline()
}

// State returns what this process knows about schema.
func (p *Provisioner) State(schema string) State {
	p.mu.RLock()
	defer p.mu.RUnlock()
	st, ok := p.states[schema]
	if !ok {
		return State{Status: StatusAbsent}
	}
	return st
}

// IsReady reports whether the tenant's schema is ready at the current
// baseline. It matches registry.ReadinessCheck.
func (p *Provisioner) IsReady(_ context.Context, t *tenant.Tenant) bool {
	if t == nil || !t.HasSchema() {
		return false
	}
	st := p.State(t.SchemaName)
	return st.Status == StatusReady && st.Version >= p.migrator.Baseline()
}

// Ensure creates the tenant's schema if it is absent and applies every
// outstanding changeset. It is idempotent; concurrent callers for one schema
// share a single attempt. The attempt is not bound to ctx: a caller whose
// context ends stops waiting with ErrProvisioningTimeout or the context
// error while the attempt continues for the others.
func (p *Provisioner) Ensure(ctx context.Context, t *tenant.Tenant) (Result, error) {
	if t == nil || !t.HasSchema() {
		return Result{}, errors.Join(tenant.ErrProvisioning, ErrNoSchema)
	}
	schema := t.SchemaName
	if !schemaPattern.MatchString(schema) {
		return Result{}, errors.Join(tenant.ErrProvisioning, fmt.Errorf("%w: %q", ErrInvalidSchemaName, schema))
	}

	if p.IsReady(ctx, t) {
		return Result{Schema: schema, Noop: true, Version: p.State(schema).Version}, nil
	}

	ch := p.group.DoChan(schema, func() (any, error) {
		runCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.cfg.ProvisionTimeout)
		defer cancel()
		return p.provision(runCtx, t)
	})

	select {
	case res := <-ch:
		r, _ := res.Val.(Result)
		return r, res.Err
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return Result{}, errors.Join(tenant.ErrProvisioningTimeout, ctx.Err())
		}
		return Result{}, ctx.Err()
	}
}

func (p *Provisioner) provision(ctx context.Context, t *tenant.Tenant) (res Result, err error) {
	schema := t.SchemaName
	start := p.now()
	res.Schema = schema
	log := p.log.With(logger.TenantID(t.ID), logger.Schema(schema))

	defer func() {
		p.metrics.ObserveProvision(start, len(res.Applied), err)
		if err != nil {
			p.fail(schema, err)
			log.ErrorContext(ctx, "schema provisioning failed", errorAttrs(err)...)
		}
	}()

	lockCtx, cancel := context.WithTimeout(ctx, p.cfg.LockTimeout)
	unlock, err := p.locker.Lock(lockCtx, "provision:"+schema)
	cancel()
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return res, errors.Join(tenant.ErrProvisioningTimeout, fmt.Errorf("wait for provisioning lock: %w", err))
		}
		return res, errors.Join(tenant.ErrProvisioning, fmt.Errorf("acquire provisioning lock: %w", err))
	}
	defer func() {
		if uerr := unlock(context.WithoutCancel(ctx)); uerr != nil {
			log.WarnContext(ctx, "failed to release provisioning lock", logger.Error(uerr))
		}
	}()

	exists, err := p.schemas.Exists(ctx, schema)
	if err != nil {
		return res, p.wrap(err)
	}
	if !exists {
		p.set(schema, StatusCreating, 0)
		if err := p.schemas.Create(ctx, schema); err != nil {
			return res, p.wrap(fmt.Errorf("create schema %s: %w", schema, err))
		}
		res.Created = true
		log.InfoContext(ctx, "tenant schema created")
	}

	p.set(schema, StatusMigrating, p.State(schema).Version)
	applied, err := p.migrator.Up(ctx, schema)
	res.Applied = applied
	for _, cs := range applied {
		log.InfoContext(ctx, "changeset applied", logger.Changeset(cs.Version, cs.Source), logger.Duration(cs.Duration))
	}
	if err != nil {
		return res, p.wrap(err)
	}

	res.Version = p.migrator.Baseline()
	p.set(schema, StatusReady, res.Version)
	log.InfoContext(ctx, "tenant schema ready",
		logger.Count("applied", int64(len(applied))),
		slog.Int64("version", res.Version),
		logger.Duration(p.now().Sub(start)))
	return res, nil
}

func (p *Provisioner) wrap(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return errors.Join(tenant.ErrProvisioningTimeout, tenant.ErrProvisioning, err)
	}
	return errors.Join(tenant.ErrProvisioning, err)
}

func (p *Provisioner) set(schema string, status Status, version int64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.states[schema] = State{Status: status, Version: version, UpdatedAt: p.now()}
}

// fail keeps the reached status and records err alongside it.
func (p *Provisioner) fail(schema string, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	st, ok := p.states[schema]
	if !ok {
		st.Status = StatusAbsent
	}
	st.LastError = err
	st.UpdatedAt = p.now()
	p.states[schema] = st
}

func errorAttrs(err error) []any {
	attrs := []any{logger.Error(err)}
	var ce *ChangesetError
	if errors.As(err, &ce) {
		attrs = append(attrs, logger.Changeset(ce.Version, ce.Source))
	}
	return attrs
}

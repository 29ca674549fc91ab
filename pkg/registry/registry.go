package registry

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/helpdesk/pkg/cache"
	"github.com/dmitrymomot/helpdesk/pkg/logger"
	"github.com/dmitrymomot/helpdesk/pkg/metrics"
	"github.com/dmitrymomot/helpdesk/pkg/slug"
	"github.com/dmitrymomot/helpdesk/pkg/tenant"
)

// ReadinessCheck reports whether the tenant's schema is provisioned at the
// current migration baseline. Activation is refused until it returns true.
// Without one, any tenant with an assigned schema counts as provisioned.
type ReadinessCheck func(ctx context.Context, t *tenant.Tenant) bool

// DeprovisionHook runs after a tenant has been marked deprovisioned.
type DeprovisionHook func(ctx context.Context, t *tenant.Tenant) error

// Registry is the source of truth for tenants and their lifecycle. It
// implements tenant.Provider.
type Registry struct {
	store   Store
	cfg     Config
	hints   *cache.LRUCache[string, uuid.UUID]
	ready   ReadinessCheck
	hooks   []DeprovisionHook
	log     *slog.Logger
	metrics *metrics.Metrics
	now     func() time.Time
}

type Option func(*Registry)

func WithLogger(log *slog.Logger) Option {
	return func(r *Registry) {
		if log != nil {
			r.log = log
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(r *Registry) { r.metrics = m }
}

func WithReadinessCheck(check ReadinessCheck) Option {
	return func(r *Registry) { r.ready = check }
}

// WithDeprovisionHook registers a hook run by Deprovision, in registration order.
func WithDeprovisionHook(hook DeprovisionHook) Option {
	return func(r *Registry) {
		if hook != nil {
			r.hooks = append(r.hooks, hook)
		}
	}
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(r *Registry) {
		if now != nil {
			r.now = now
		}
	}
}

func New(store Store, cfg Config, opts ...Option) *Registry {
	cfg = cfg.withDefaults()
	r := &Registry{
		store: store,
		cfg:   cfg,
		log:   slog.Default(),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	if cfg.CacheTTL > 0 {
		r.hints = cache.NewLRUCache[string, uuid.UUID](cfg.CacheSize,
			cache.WithTTL(cfg.CacheTTL), cache.WithClock(r.now))
	}
	r.log = r.log.With(logger.Component("registry"))
	return r
}

// AddDeprovisionHook registers a hook after construction, for components
// that are built after the registry.
func (r *Registry) AddDeprovisionHook(hook DeprovisionHook) {
	if hook != nil {
		r.hooks = append(r.hooks, hook)
	}
}

// SchemaName derives the physical schema of a tenant id. Ids are never
// reused, so neither are schema names.
func (r *Registry) SchemaName(id uuid.UUID) string {
	return r.cfg.SchemaPrefix + hex.EncodeToString(id[:])
}

// Resolve finds the live tenant addressed by a slug or domain hint.
// Pending and active tenants resolve; suspended ones fail with
// tenant.ErrTenantSuspended and deprovisioned or unknown ones with
// tenant.ErrTenantNotFound. Only the hint to id mapping is cached; the
// status always comes from the store.
func (r *Registry) Resolve(ctx context.Context, hint string) (*tenant.Tenant, error) {
	h := NormalizeHint(hint)
	if h == "" {
		return nil, fmt.Errorf("%w: empty hint", tenant.ErrInvalidIdentifier)
	}

	if id, ok := r.cachedHint(h); ok {
		t, err := r.store.GetByID(ctx, id)
		switch {
		case err == nil && t.Status != tenant.StatusDeprovisioned && matchesHint(t, h):
			if err := usable(t); err != nil {
				return nil, err
			}
			return t, nil
		case err != nil && !errors.Is(err, tenant.ErrTenantNotFound):
			return nil, err
		}
		// the hint may now belong to another tenant
		r.hints.Remove(h)
	}

	t, err := r.store.GetByHint(ctx, h)
	if err != nil {
		return nil, err
	}
	if r.hints != nil {
		r.hints.Put(h, t.ID)
	}
	if err := usable(t); err != nil {
		return nil, err
	}
	return t, nil
}

// Get returns a tenant by id in any status. It always reads the store.
func (r *Registry) Get(ctx context.Context, id uuid.UUID) (*tenant.Tenant, error) {
	return r.store.GetByID(ctx, id)
}

// GetUsable returns a tenant by id only if requests may run for it. The
// status is read from the store on every call, so a suspension or
// deprovisioning made by any instance is seen by the next lease.
func (r *Registry) GetUsable(ctx context.Context, id uuid.UUID) (*tenant.Tenant, error) {
	t, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := usable(t); err != nil {
		return nil, err
	}
	return t, nil
}

func (r *Registry) List(ctx context.Context) ([]*tenant.Tenant, error) {
	return r.store.List(ctx)
}

// Register creates a pending tenant without a schema. The slug is derived
// from name; both slug and domain must be free among live tenants, compared
// case-insensitively.
func (r *Registry) Register(ctx context.Context, name, domain string) (*tenant.Tenant, error) {
	name = strings.TrimSpace(name)
	s := slug.Make(name, slug.MaxLength(tenant.MaxTenantIDLength))
	if s == "" {
		return nil, fmt.Errorf("%w: name %q yields an empty slug", tenant.ErrInvalidIdentifier, name)
	}
	d, err := NormalizeDomain(domain)
	if err != nil {
		return nil, err
	}

	now := r.now().UTC()
	t := &tenant.Tenant{
		ID:        uuid.New(),
		Name:      name,
		Slug:      s,
		Domain:    d,
		Status:    tenant.StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := r.store.Create(ctx, t); err != nil {
		return nil, err
	}
	r.invalidate()
	r.metrics.IncTenantRegistered()
	r.log.InfoContext(ctx, "tenant registered",
		logger.TenantID(t.ID), slog.String("slug", t.Slug), slog.String("domain", t.Domain))
	return clone(t), nil
}

// AssignSchema gives the tenant its physical schema name if it has none.
// It is idempotent and never changes an assigned name.
func (r *Registry) AssignSchema(ctx context.Context, id uuid.UUID) (*tenant.Tenant, error) {
	t, err := r.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t.Status == tenant.StatusDeprovisioned {
		return nil, tenant.ErrTenantNotFound
	}
	if t.HasSchema() {
		return t, nil
	}
	t, err = r.store.SetSchema(ctx, id, r.SchemaName(id))
	if err != nil {
		return nil, err
	}
	r.invalidate()
	r.log.InfoContext(ctx, "tenant schema assigned", logger.TenantID(t.ID), logger.Schema(t.SchemaName))
	return t, nil
}

// Activate moves a pending tenant to active once its schema is provisioned.
// Activating an already active tenant is a no-op.
func (r *Registry) Activate(ctx context.Context, id uuid.UUID) (*tenant.Tenant, error) {
	return r.transition(ctx, id, tenant.EventActivate)
}

func (r *Registry) Suspend(ctx context.Context, id uuid.UUID) (*tenant.Tenant, error) {
	return r.transition(ctx, id, tenant.EventSuspend)
}

func (r *Registry) Resume(ctx context.Context, id uuid.UUID) (*tenant.Tenant, error) {
	return r.transition(ctx, id, tenant.EventResume)
}

// Deprovision marks the tenant deprovisioned and runs the deprovision hooks
// before returning. The row and schema name are kept; slug and domain become
// free for new tenants. Hook errors are returned but do not undo the change.
func (r *Registry) Deprovision(ctx context.Context, id uuid.UUID) (*tenant.Tenant, error) {
	t, err := r.transition(ctx, id, tenant.EventDeprovision)
	if err != nil {
		return nil, err
	}

	var errs []error
	for _, hook := range r.hooks {
		if err := hook(ctx, t); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		r.log.ErrorContext(ctx, "deprovision hook failed", logger.TenantID(t.ID), logger.Error(err))
		return t, fmt.Errorf("deprovision hooks: %w", err)
	}
	return t, nil
}

func (r *Registry) transition(ctx context.Context, id uuid.UUID, event tenant.Event) (*tenant.Tenant, error) {
	t, err := r.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	target := targetOf(event)
	if event == tenant.EventActivate && t.Status == target {
		return t, nil
	}

	in := tenant.TransitionInput{Tenant: t, Provisioned: true}
	if event == tenant.EventActivate && r.ready != nil {
		in.Provisioned = r.ready(ctx, t)
	}
	next, err := tenant.NextStatus(ctx, in, event)
	if err != nil {
		return nil, fmt.Errorf("%s tenant %s from %s: %w", event, t.ID, t.Status, err)
	}

	updated, err := r.store.UpdateStatus(ctx, id, t.Status, next)
	if errors.Is(err, ErrStatusConflict) && event == tenant.EventActivate {
		// a concurrent activation won; that is the outcome we wanted
		if cur, getErr := r.store.GetByID(ctx, id); getErr == nil && cur.Status == tenant.StatusActive {
			r.invalidate()
			return cur, nil
		}
	}
	if err != nil {
		return nil, err
	}

	r.invalidate()
	r.metrics.IncTenantTransition(string(updated.Status))
	r.log.InfoContext(ctx, "tenant status changed",
		logger.TenantID(updated.ID), logger.Event(string(event)),
		slog.String("from", string(t.Status)), logger.Status(updated.Status))
	return updated, nil
}

func targetOf(event tenant.Event) tenant.Status {
	switch event {
	case tenant.EventActivate, tenant.EventResume:
		return tenant.StatusActive
	case tenant.EventSuspend:
		return tenant.StatusSuspended
	default:
		return tenant.StatusDeprovisioned
	}
}

func usable(t *tenant.Tenant) error {
	switch t.Status {
	case tenant.StatusPending, tenant.StatusActive:
		return nil
	case tenant.StatusSuspended:
		return tenant.ErrTenantSuspended
	default:
		return tenant.ErrTenantNotFound
	}
}

func matchesHint(t *tenant.Tenant, h string) bool {
	return strings.EqualFold(t.Slug, h) || (t.Domain != "" && strings.EqualFold(t.Domain, h))
}

func (r *Registry) cachedHint(h string) (uuid.UUID, bool) {
	if r.hints == nil {
		return uuid.Nil, false
	}
	return r.hints.Get(h)
}

func (r *Registry) invalidate() {
	if r.hints != nil {
		r.hints.Clear()
	}
}

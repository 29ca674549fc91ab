package tenant

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

// contextKey prevents collisions with other packages using context values
type contextKey struct{}

// WithTenant binds t to the returned context. The parent is untouched, so
// the binding ends with the unit of work that owns the derived context.
func WithTenant(ctx context.Context, t *Tenant) context.Context {
	return context.WithValue(ctx, contextKey{}, t)
}

// WithDefault returns a context observing DEFAULT_TENANT even if an ancestor
// carried a tenant.
func WithDefault(ctx context.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, (*Tenant)(nil))
}

func FromContext(ctx context.Context) (*Tenant, bool) {
	t, ok := ctx.Value(contextKey{}).(*Tenant)
	return t, ok && t != nil
}

// IDFromContext provides fast access to tenant ID without exposing full tenant data
func IDFromContext(ctx context.Context) (uuid.UUID, bool) {
	t, ok := FromContext(ctx)
	if !ok {
		return uuid.UUID{}, false
	}
	return t.ID, true
}

// CurrentID returns the bound tenant ID or DefaultID.
func CurrentID(ctx context.Context) uuid.UUID {
	if id, ok := IDFromContext(ctx); ok {
		return id
	}
	return DefaultID
}

func IsDefault(ctx context.Context) bool {
	return CurrentID(ctx) == DefaultID
}

// MustFromContext panics if no tenant is found. Use only in handlers
// that absolutely require a tenant to function.
func MustFromContext(ctx context.Context) *Tenant {
	t, ok := FromContext(ctx)
	if !ok {
		panic("tenant: no tenant in context")
	}
	return t
}

// Run executes fn as a unit of work scoped to t. A nil t runs it under
// DEFAULT_TENANT. Nothing outside fn's context can observe the binding.
func Run(ctx context.Context, t *Tenant, fn func(ctx context.Context) error) error {
	if t == nil {
		return fn(WithDefault(ctx))
	}
	return fn(WithTenant(ctx, t))
}

// Carry copies the tenant bound to from onto to. Use it at every async hop
// (goroutines started with a fresh context, scheduled jobs) instead of
// relying on any ambient state.
func Carry(from, to context.Context) context.Context {
	if t, ok := FromContext(from); ok {
		return WithTenant(to, t)
	}
	return WithDefault(to)
}

// Detach keeps the tenant and other values of ctx but drops its cancellation
// and deadline, for work that must outlive the request that started it.
func Detach(ctx context.Context) context.Context {
	return context.WithoutCancel(ctx)
}

// LoggerExtractor returns a function that enriches log records with tenant ID
func LoggerExtractor() func(ctx context.Context) (slog.Attr, bool) {
	return func(ctx context.Context) (slog.Attr, bool) {
		if id, ok := IDFromContext(ctx); ok {
			return slog.String("tenant_id", id.String()), true
		}
		return slog.Attr{}, false
	}
}

// Package tenant carries the identity of the organization a unit of work
// runs for, and resolves that identity from incoming HTTP requests.
//
// A tenant is bound to a context.Context, never to a goroutine. Work that has
// no tenant bound observes DEFAULT_TENANT (DefaultID) and is routed to the
// shared default schema. Because the binding lives on a derived context, it
// ends with the unit of work that owns it and cannot leak to the next request
// served by the same worker goroutine.
//
// # Architecture
//
// 1. Resolvers extract an opaque hint (slug or domain) from a request.
// 2. A Provider turns the hint into a Tenant, usually the registry.
// 3. Middleware binds the result to the request context.
//
// # Usage
//
//	import "github.com/dmitrymomot/helpdesk/pkg/tenant"
//
//	mw := tenant.Middleware(tenant.ResolveFromRequest(""), registry,
//		tenant.WithSkipPaths([]string{"/health"}),
//	)
//	r.Use(mw)
//
// Inside a handler:
//
//	id := tenant.CurrentID(r.Context())
//
// Background work scoped to a tenant:
//
//	err := tenant.Run(ctx, t, func(ctx context.Context) error {
//		return router.WithConn(ctx, doWork)
//	})
//
// When work hops to a goroutine that starts from a fresh context, copy the
// binding explicitly with Carry. Detach keeps the binding but drops the
// request deadline.
//
// # Lifecycle
//
// NextStatus validates status changes: pending to active (only once the
// schema is provisioned), active and suspended back and forth, and any
// non-terminal status to deprovisioned.
//
// # Errors
//
// Errors are split into a client class (ErrTenantNotFound, ErrTenantSuspended,
// ErrDuplicateTenant, ErrInvalidIdentifier, ErrInvalidTransition,
// ErrNoTenantInContext) and an infrastructure class (ErrProvisioning,
// ErrProvisioningTimeout, ErrConnectionAcquireTimeout). StatusCode maps both
// to HTTP statuses.
package tenant

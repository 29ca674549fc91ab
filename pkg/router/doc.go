// Package router binds pooled connections to tenant schemas.
//
// Every Acquire reads the tenant from the context, resolves its schema
// through the registry (provisioning it first when needed) and pins
// search_path on the leased connection. Units of work without a tenant land
// on the default schema. Releasing the lease resets search_path, so a
// pooled connection never carries one tenant's schema into the next lease.
//
//	err := rt.WithConn(ctx, func(ctx context.Context, l *router.Lease) error {
//		_, err := l.Exec(ctx, `INSERT INTO tickets (subject) VALUES ($1)`, subject)
//		return err
//	})
package router

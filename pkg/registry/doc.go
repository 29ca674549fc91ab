// Package registry is the source of truth for tenants: which ones exist,
// how a request hint maps to one, and where each is in its lifecycle.
//
// A Registry wraps a Store (MemoryStore for tests and single-process use,
// PostgresStore for public.tenants) with hint normalization, a short-lived
// hint to id cache and the status machine from package tenant. Status is
// always read from the store.
//
//	reg := registry.New(registry.NewPostgresStore(pool), cfg,
//		registry.WithLogger(log),
//		registry.WithReadinessCheck(prov.IsReady),
//	)
//	t, err := reg.Register(ctx, "Acme Corp", "support.acme.com")
//
// Registry implements tenant.Provider, so it plugs straight into
// tenant.Middleware. Slugs and domains are compared after Unicode case
// folding and are only unique among tenants that are not deprovisioned.
// Deprovisioning keeps the row and its schema name, which is never reused.
package registry

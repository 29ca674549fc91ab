// Package cacheregion partitions a shared second-level cache by tenant.
//
// Keys are always prefixed with the schema the context routes to, so the
// same entity id cached for two tenants lands on two physical keys. A
// tenant's namespace can be dropped as a whole with FlushSchema, and
// FlushTenant is meant to run as a registry deprovision hook so nothing
// cached for a deprovisioned tenant can be read back.
//
//	mgr := cacheregion.New(cacheregion.NewRedisBackend(rdb, 500), rt, cfg)
//	tickets := cacheregion.NewRegion[Ticket](mgr, "ticket")
//	t, err := tickets.GetOrLoad(ctx, id, loadTicket)
//
// Two backends ship with the package: RedisBackend for the shared tier and
// MemoryBackend for a single process.
package cacheregion

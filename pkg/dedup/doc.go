// Package dedup records keys that must be processed at most once within a
// time window, and sweeps them once they expire.
//
// Entries are global rather than per tenant: they live in the dedup_cache
// table of the default schema. PostgresStore still reaches that table
// through a routed connection bound to the default tenant.
//
//	cache := dedup.NewCache(dedup.NewPostgresStore(rt), cfg)
//	if first, err := cache.Claim(ctx, "mail:"+messageID); err != nil || !first {
//		return err
//	}
//
//	janitor := dedup.NewJanitor(store)
//	_ = janitor.Register(sched, scheduler.EveryInterval(cfg.SweepInterval))
package dedup

// Package cache provides a generic, thread-safe LRU cache with optional
// per-entry expiry.
//
// The registry uses it as a short-lived read-through cache of tenant rows,
// and the in-memory cache region backend uses it as a bounded local store.
//
//	c := cache.NewLRUCache[string, *tenant.Tenant](1024, cache.WithTTL(30*time.Second))
//	c.Put("acme", t)
//	if t, ok := c.Get("acme"); ok {
//		// fresh hit
//	}
//
// Expired entries are dropped lazily when read. RemoveFunc drops every entry
// matching a predicate, for example all keys of one namespace. An evict
// callback set with SetEvictCallback observes capacity and expiry evictions
// as well as Clear.
package cache

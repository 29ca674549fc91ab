// Package lock provides named mutual exclusion for work that must run on
// one holder at a time: provisioning a tenant schema, or firing a scheduled
// job on exactly one instance.
//
// PostgresLocker uses session advisory locks keyed by an xxhash of the name.
// RedisLocker uses SET NX PX with an owner token and releases through a
// compare-and-delete script. MemoryLocker is process local and serves single
// instance deployments and tests.
//
//	unlock, err := locker.Lock(ctx, "provision:"+schema)
//	if err != nil {
//		return err
//	}
//	defer unlock(context.WithoutCancel(ctx))
package lock

// Package scheduler runs background jobs on fixed schedules.
//
// Jobs are plain functions. Each fire is guarded twice: a job that is still
// running in this process is not started again, and a job whose lock is
// held by another instance is skipped on this one. Skipped fires are dropped,
// not queued. Jobs always run bound to the default tenant, so they never
// inherit a tenant from whatever context started the scheduler.
//
//	s := scheduler.New(lock.NewRedisLocker(rdb, lockCfg), scheduler.WithLogger(log))
//	_ = s.AddJob("dedup-janitor", scheduler.EveryMinutes(5), sweep)
//	go s.Start(ctx)
package scheduler

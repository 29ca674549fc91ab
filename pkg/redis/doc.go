// Package redis connects to the shared cache tier with go-redis.
//
// Connect retries until the server answers PING or Config.ConnectTimeout
// elapses. Healthcheck adapts a client to a liveness probe. DeleteByPattern
// removes a whole key namespace with SCAN and UNLINK, which is how the cache
// region manager flushes a tenant schema without blocking the server.
//
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	n, err := redis.DeleteByPattern(ctx, client, "hd:tenant_ab12:*", cfg.ScanBatchSize)
package redis

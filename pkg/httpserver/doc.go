// Package httpserver runs an http.Handler with graceful shutdown driven by a
// context, plus a JSON health check handler.
//
//	srv := httpserver.NewFromConfig(cfg.HTTP,
//		httpserver.WithLogger(log),
//		httpserver.WithBaseContext(tenant.WithDefault),
//	)
//	if err := srv.Run(ctx, router); err != nil {
//		log.Error("server stopped", logger.Error(err))
//	}
//
// Cancelling ctx (for example through signal.NotifyContext) stops accepting
// connections and waits up to the shutdown timeout for in-flight requests.
//
// HealthCheckHandler turns a list of named Checks into a readiness probe that
// answers 200 when every dependency responds and 503 otherwise.
package httpserver

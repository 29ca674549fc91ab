// Package requestid correlates the log lines of one HTTP request.
//
// Middleware assigns every request an ID, either the client's X-Request-ID
// when it is short and made of [a-zA-Z0-9_-], or a fresh UUID. The ID is
// echoed in the response and stored in the context, where LoggerExtractor
// picks it up:
//
//	log := logger.New(logger.WithContextExtractors(
//		requestid.LoggerExtractor(),
//		tenant.LoggerExtractor(),
//	))
//
//	r := chi.NewRouter()
//	r.Use(requestid.Middleware)
package requestid

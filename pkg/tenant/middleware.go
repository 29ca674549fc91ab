package tenant

import (
	"log/slog"
	"net/http"
	"strings"
)

// Middleware resolves the tenant of every request and binds it to the
// request context for the duration of that request only. Requests without a
// tenant hint run under DEFAULT_TENANT.
func Middleware(resolver Resolver, provider Provider, opts ...Option) func(http.Handler) http.Handler {
	cfg := &config{
		errorHandler: defaultErrorHandler,
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, skip := range cfg.skipPaths {
				if strings.HasPrefix(r.URL.Path, skip) {
					next.ServeHTTP(w, r.WithContext(WithDefault(r.Context())))
					return
				}
			}

			hint, err := resolver(r)
			if err != nil {
				cfg.errorHandler(w, r, err)
				return
			}

			if hint == "" {
				next.ServeHTTP(w, r.WithContext(WithDefault(r.Context())))
				return
			}

			t, err := provider.Resolve(r.Context(), hint)
			if err != nil {
				if !IsClientError(err) {
					cfg.logger.ErrorContext(r.Context(), "tenant resolution failed",
						slog.String("hint", hint),
						slog.Any("error", err))
				}
				cfg.errorHandler(w, r, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithTenant(r.Context(), t)))
		})
	}
}

// RequireTenant rejects requests running under DEFAULT_TENANT.
func RequireTenant(errorHandler ErrorHandler) func(http.Handler) http.Handler {
	if errorHandler == nil {
		errorHandler = defaultErrorHandler
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := FromContext(r.Context()); !ok {
				errorHandler(w, r, ErrNoTenantInContext)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

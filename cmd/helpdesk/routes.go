package main

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dmitrymomot/helpdesk/pkg/cacheregion"
	"github.com/dmitrymomot/helpdesk/pkg/dedup"
	"github.com/dmitrymomot/helpdesk/pkg/httpserver"
	"github.com/dmitrymomot/helpdesk/pkg/logger"
	"github.com/dmitrymomot/helpdesk/pkg/provision"
	"github.com/dmitrymomot/helpdesk/pkg/registry"
	"github.com/dmitrymomot/helpdesk/pkg/requestid"
	"github.com/dmitrymomot/helpdesk/pkg/router"
	"github.com/dmitrymomot/helpdesk/pkg/tenant"
)

// app holds what the HTTP layer needs.
type app struct {
	log          *slog.Logger
	tenants      *registry.Registry
	provisioner  *provision.Provisioner
	router       *router.Router
	caches       *cacheregion.Manager
	claims       *dedup.Cache
	gatherer     prometheus.Gatherer
	tenantHeader string
	serviceHosts []string
	checks       []httpserver.Check
}

type whoami struct {
	TenantID uuid.UUID `json:"tenant_id"`
	Slug     string    `json:"slug,omitempty"`
	Schema   string    `json:"schema"`
	At       time.Time `json:"at"`
}

func newHandler(a app) http.Handler {
	if a.log == nil {
		a.log = slog.Default()
	}
	if a.gatherer == nil {
		a.gatherer = prometheus.DefaultGatherer
	}
	whoamiCache := cacheregion.NewRegion[whoami](a.caches, "whoami", cacheregion.WithTTL(time.Minute))

	r := chi.NewRouter()
	r.Use(requestid.Middleware, middleware.Recoverer)

	r.Get("/healthz", httpserver.HealthCheckHandler(a.log, 2*time.Second))
	r.Get("/readyz", httpserver.HealthCheckHandler(a.log, 2*time.Second, a.checks...))
	r.Handle("/metrics", promhttp.HandlerFor(a.gatherer, promhttp.HandlerOpts{}))

	r.Route("/tenants", func(r chi.Router) {
		r.Get("/", a.listTenants)
		r.Post("/", a.registerTenant)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", a.getTenant)
			r.Post("/activate", a.activateTenant)
			r.Post("/suspend", a.transition(a.tenants.Suspend))
			r.Post("/resume", a.transition(a.tenants.Resume))
			r.Delete("/", a.transition(a.tenants.Deprovision))
		})
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(
			tenant.Middleware(tenant.ResolveFromRequest(a.tenantHeader, a.serviceHosts...), a.tenants, tenant.WithLogger(a.log)),
			tenant.RequireTenant(nil),
		)
		r.Get("/whoami", func(w http.ResponseWriter, r *http.Request) {
			t := tenant.MustFromContext(r.Context())
			me, err := whoamiCache.GetOrLoad(r.Context(), "self", func(ctx context.Context) (whoami, error) {
				var me whoami
				err := a.router.WithConn(ctx, func(ctx context.Context, l *router.Lease) error {
					me = whoami{TenantID: t.ID, Slug: t.Slug, Schema: l.Schema(), At: time.Now().UTC()}
					return nil
				})
				return me, err
			})
			if err != nil {
				a.fail(w, r, err)
				return
			}
			writeJSON(w, http.StatusOK, me)
		})
		r.Put("/claims/{key}", func(w http.ResponseWriter, r *http.Request) {
			first, err := a.claims.Claim(r.Context(), chi.URLParam(r, "key"))
			if err != nil {
				a.fail(w, r, err)
				return
			}
			status := http.StatusCreated
			if !first {
				status = http.StatusOK
			}
			writeJSON(w, status, map[string]bool{"first": first})
		})
	})

	return r
}

type registerRequest struct {
	Name   string `json:"name"`
	Domain string `json:"domain"`
}

func (a app) registerTenant(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16)).Decode(&req); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	t, err := a.tenants.Register(r.Context(), req.Name, req.Domain)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

func (a app) listTenants(w http.ResponseWriter, r *http.Request) {
	list, err := a.tenants.List(r.Context())
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (a app) getTenant(w http.ResponseWriter, r *http.Request) {
	id, ok := tenantID(w, r)
	if !ok {
		return
	}
	t, err := a.tenants.Get(r.Context(), id)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// activateTenant provisions the schema ahead of the first request and activates the tenant.
func (a app) activateTenant(w http.ResponseWriter, r *http.Request) {
	id, ok := tenantID(w, r)
	if !ok {
		return
	}
	ctx := r.Context()
	t, err := a.tenants.AssignSchema(ctx, id)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	if _, err := a.provisioner.Ensure(ctx, t); err != nil {
		a.fail(w, r, err)
		return
	}
	t, err = a.tenants.Activate(ctx, id)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (a app) transition(fn func(context.Context, uuid.UUID) (*tenant.Tenant, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := tenantID(w, r)
		if !ok {
			return
		}
		t, err := fn(r.Context(), id)
		if err != nil && t == nil {
			a.fail(w, r, err)
			return
		}
		if err != nil {
			// the change is stored; only a follow-up hook failed
			a.log.ErrorContext(r.Context(), "tenant transition side effect failed", logger.TenantID(id), logger.Error(err))
		}
		writeJSON(w, http.StatusOK, t)
	}
}

func (a app) fail(w http.ResponseWriter, r *http.Request, err error) {
	code := tenant.StatusCode(err)
	msg := http.StatusText(code)
	switch {
	case tenant.IsClientError(err):
		msg = err.Error()
	case errors.Is(err, dedup.ErrEmptyKey):
		code, msg = http.StatusBadRequest, err.Error()
	default:
		a.log.ErrorContext(r.Context(), "request failed", logger.Error(err))
	}
	writeJSON(w, code, map[string]string{"error": msg})
}

func tenantID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid tenant id"})
		return uuid.Nil, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

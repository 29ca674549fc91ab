package main

import (
	"github.com/dmitrymomot/helpdesk/pkg/cacheregion"
	"github.com/dmitrymomot/helpdesk/pkg/dedup"
	"github.com/dmitrymomot/helpdesk/pkg/httpserver"
	"github.com/dmitrymomot/helpdesk/pkg/lock"
	"github.com/dmitrymomot/helpdesk/pkg/logger"
	"github.com/dmitrymomot/helpdesk/pkg/pg"
	"github.com/dmitrymomot/helpdesk/pkg/provision"
	"github.com/dmitrymomot/helpdesk/pkg/redis"
	"github.com/dmitrymomot/helpdesk/pkg/registry"
	"github.com/dmitrymomot/helpdesk/pkg/router"
)

type appConfig struct {
	Env          string `env:"APP_ENV" envDefault:"development"`
	Name         string `env:"APP_NAME" envDefault:"helpdesk"`
	TenantHeader string `env:"APP_TENANT_HEADER" envDefault:"X-Tenant-ID"`
	// Hosts are the service's own host names. Requests to them carry no tenant hint.
	Hosts         []string `env:"APP_HOSTS" envSeparator:","`
	SeedFile      string   `env:"APP_SEED_FILE"`
	LockNamespace string   `env:"APP_LOCK_NAMESPACE" envDefault:"helpdesk"`
}

// configs groups every component config so run can load them in one place.
type configs struct {
	App       appConfig
	Log       logger.Config
	HTTP      httpserver.Config
	PG        pg.Config
	Redis     redis.Config
	Lock      lock.Config
	Registry  registry.Config
	Provision provision.Config
	Router    router.Config
	Cache     cacheregion.Config
	Dedup     dedup.Config
}

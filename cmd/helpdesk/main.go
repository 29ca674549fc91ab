package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/helpdesk/migrations"
	"github.com/dmitrymomot/helpdesk/pkg/cacheregion"
	"github.com/dmitrymomot/helpdesk/pkg/config"
	"github.com/dmitrymomot/helpdesk/pkg/dedup"
	"github.com/dmitrymomot/helpdesk/pkg/httpserver"
	"github.com/dmitrymomot/helpdesk/pkg/lock"
	"github.com/dmitrymomot/helpdesk/pkg/logger"
	"github.com/dmitrymomot/helpdesk/pkg/metrics"
	"github.com/dmitrymomot/helpdesk/pkg/pg"
	"github.com/dmitrymomot/helpdesk/pkg/provision"
	"github.com/dmitrymomot/helpdesk/pkg/redis"
	"github.com/dmitrymomot/helpdesk/pkg/registry"
	"github.com/dmitrymomot/helpdesk/pkg/requestid"
	"github.com/dmitrymomot/helpdesk/pkg/router"
	"github.com/dmitrymomot/helpdesk/pkg/scheduler"
	"github.com/dmitrymomot/helpdesk/pkg/tenant"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		slog.Error("helpdesk stopped", logger.Error(err))
		os.Exit(1)
	}
}

func loadConfigs() (configs, error) {
	var c configs
	err := errors.Join(
		config.Load(&c.App),
		config.Load(&c.Log),
		config.Load(&c.HTTP),
		config.Load(&c.PG),
		config.Load(&c.Redis),
		config.Load(&c.Lock),
		config.Load(&c.Registry),
		config.Load(&c.Provision),
		config.Load(&c.Router),
		config.Load(&c.Cache),
		config.Load(&c.Dedup),
	)
	return c, err
}

func run(ctx context.Context) error {
	// extra env files are read before any config is parsed and cached
	if files := os.Getenv("APP_ENV_FILES"); files != "" {
		if err := config.LoadEnv(strings.Split(files, ",")...); err != nil {
			return err
		}
	}
	cfg, err := loadConfigs()
	if err != nil {
		return err
	}

	log := logger.New(
		logger.WithEnvironment(cfg.App.Env, cfg.App.Name),
		logger.WithConfig(cfg.Log),
		logger.WithContextExtractors(requestid.LoggerExtractor(), tenant.LoggerExtractor()),
	)
	logger.SetAsDefault(log)

	pool, err := pg.Connect(ctx, cfg.PG)
	if err != nil {
		return err
	}
	defer pool.Close()
	if err := pg.Migrate(ctx, pool, migrations.Control(), cfg.PG.MigrationsTable, log); err != nil {
		return err
	}

	rdb, err := redis.Connect(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	defer func() { _ = rdb.Close() }()

	promReg := prometheus.NewRegistry()
	promReg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(promReg)

	migrator, err := provision.NewGooseMigrator(pool.Config().ConnConfig, migrations.Tenant(), cfg.Provision.HistoryTable)
	if err != nil {
		return err
	}
	prov := provision.New(
		provision.NewPostgresSchemas(pool), migrator,
		lock.NewPostgresLocker(pool, cfg.App.LockNamespace),
		cfg.Provision,
		provision.WithLogger(log), provision.WithMetrics(m),
	)

	tenants := registry.New(registry.NewPostgresStore(pool), cfg.Registry,
		registry.WithLogger(log),
		registry.WithMetrics(m),
		registry.WithReadinessCheck(prov.IsReady),
	)

	rt := router.New(router.NewPoolSource(pool), tenants, prov, cfg.Router,
		router.WithLogger(log), router.WithMetrics(m))

	backend, err := cacheregion.NewBackend(cfg.Cache, rdb, cfg.Redis.ScanBatchSize)
	if err != nil {
		return err
	}
	caches := cacheregion.New(backend, rt, cfg.Cache,
		cacheregion.WithLogger(log), cacheregion.WithMetrics(m))
	tenants.AddDeprovisionHook(caches.FlushTenant)

	dedupStore := dedup.NewPostgresStore(rt)
	claims := dedup.NewCache(dedupStore, cfg.Dedup)

	sched := scheduler.New(lock.NewRedisLocker(rdb, cfg.Lock),
		scheduler.WithLogger(log), scheduler.WithMetrics(m))
	janitor := dedup.NewJanitor(dedupStore, dedup.WithLogger(log), dedup.WithMetrics(m))
	if err := janitor.Register(sched, scheduler.EveryInterval(cfg.Dedup.SweepInterval)); err != nil {
		return err
	}

	if cfg.App.SeedFile != "" {
		if err := seed(ctx, tenants, cfg.App.SeedFile); err != nil {
			return err
		}
	}

	handler := newHandler(app{
		log:          log,
		tenants:      tenants,
		provisioner:  prov,
		router:       rt,
		caches:       caches,
		claims:       claims,
		gatherer:     promReg,
		tenantHeader: cfg.App.TenantHeader,
		serviceHosts: cfg.App.Hosts,
		checks: []httpserver.Check{
			{Name: "postgres", Fn: pg.Healthcheck(pool)},
			{Name: "redis", Fn: redis.Healthcheck(rdb)},
		},
	})

	server := httpserver.NewFromConfig(cfg.HTTP, httpserver.WithLogger(log))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return sched.Start(gctx) })
	g.Go(func() error { return server.Run(gctx, handler) })
	return g.Wait()
}

func seed(ctx context.Context, tenants *registry.Registry, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open seed file: %w", err)
	}
	defer f.Close()

	start := time.Now()
	n, err := tenants.Seed(ctx, f)
	if err != nil {
		return err
	}
	slog.InfoContext(ctx, "tenants seeded", logger.Count("created", int64(n)), logger.Duration(time.Since(start)))
	return nil
}

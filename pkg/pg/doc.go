// Package pg bootstraps the PostgreSQL side of the module on top of pgx/v5.
//
// Connect opens a *pgxpool.Pool from Config (env PG_*), retrying while the
// database comes up. Every physical connection starts on Config.SearchPath,
// which is the schema that DEFAULT_TENANT work and released leases fall back
// to. Migrate applies the control schema changesets (tenants registry,
// deduplication table) through the goose Provider API with its own ledger
// table, so it never collides with per-tenant ledgers.
//
//	pool, err := pg.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	if err := pg.Migrate(ctx, pool, migrations.Control(), cfg.MigrationsTable, log); err != nil {
//		return err
//	}
//
// Error helpers such as IsDuplicateKeyError and IsInvalidSchemaError unwrap
// *pgconn.PgError so callers can translate driver failures into domain errors.
package pg

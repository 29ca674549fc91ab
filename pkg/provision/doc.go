// Package provision creates tenant schemas and keeps them at the current
// migration baseline.
//
// A schema moves Absent → Creating → Migrating → Ready, and back to
// Migrating when new changesets ship. Ensure is idempotent and safe to call
// on every request: once a schema is Ready in this process the call returns
// without touching the database.
//
//	migrator, err := provision.NewGooseMigrator(pool.Config().ConnConfig, migrations.Tenant(), "")
//	prov := provision.New(provision.NewPostgresSchemas(pool), migrator,
//		lock.NewPostgresLocker(pool, "helpdesk"), cfg, provision.WithLogger(log))
//	res, err := prov.Ensure(ctx, t)
//
// A failed changeset leaves the schema at the last applied one and surfaces
// as tenant.ErrProvisioning wrapping a *ChangesetError. Nothing retries in
// the background; the next Ensure picks up where the failure stopped.
package provision

package provision

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"slices"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/pressly/goose/v3/database"
)

// GooseMigrator applies the SQL changesets in fsys with goose. Every schema
// keeps its own history ledger table, found through a search_path pinned to
// that schema, so changeset files must use unqualified names.
type GooseMigrator struct {
	conn     *pgx.ConnConfig
	fsys     fs.FS
	table    string
	versions []int64
}

// NewGooseMigrator reads the changeset versions from fsys. conn is copied
// for every run; only its search_path is changed.
func NewGooseMigrator(conn *pgx.ConnConfig, fsys fs.FS, table string) (*GooseMigrator, error) {
	if table == "" {
		table = "goose_db_version"
	}
	names, err := fs.Glob(fsys, "*.sql")
	if err != nil {
		return nil, fmt.Errorf("list changesets: %w", err)
	}
	versions := make([]int64, 0, len(names))
	for _, name := range names {
		v, err := goose.NumericComponent(path.Base(name))
		if err != nil {
			return nil, fmt.Errorf("changeset %s: %w", name, err)
		}
		versions = append(versions, v)
	}
	if len(versions) == 0 {
		return nil, ErrNoChangesets
	}
	slices.Sort(versions)

	return &GooseMigrator{conn: conn, fsys: fsys, table: table, versions: versions}, nil
}

func (m *GooseMigrator) Baseline() int64 {
	return m.versions[len(m.versions)-1]
}

// Versions lists every known changeset version in ascending order.
func (m *GooseMigrator) Versions() []int64 {
	return slices.Clone(m.versions)
}

func (m *GooseMigrator) Up(ctx context.Context, schema string) ([]Changeset, error) {
	cc := m.conn.Copy()
	cc.RuntimeParams["search_path"] = pgx.Identifier{schema}.Sanitize()

	db := stdlib.OpenDB(*cc)
	defer db.Close()
	db.SetMaxOpenConns(1)

	provider, err := m.provider(db)
	if err != nil {
		return nil, err
	}

	results, err := provider.Up(ctx)
	applied := changesets(results)

	var partial *goose.PartialError
	if errors.As(err, &partial) {
		applied = append(applied, changesets(partial.Applied)...)
		if partial.Failed != nil && partial.Failed.Source != nil {
			return applied, &ChangesetError{
				Schema:  schema,
				Version: partial.Failed.Source.Version,
				Source:  partial.Failed.Source.Path,
				Err:     partial.Err,
			}
		}
	}
	if err != nil {
		return applied, fmt.Errorf("migrate schema %s: %w", schema, err)
	}
	return applied, nil
}

func (m *GooseMigrator) provider(db *sql.DB) (*goose.Provider, error) {
	store, err := database.NewStore(database.DialectPostgres, m.table)
	if err != nil {
		return nil, err
	}
	return goose.NewProvider("", db, m.fsys,
		goose.WithStore(store),
		goose.WithDisableGlobalRegistry(true),
	)
}

func changesets(results []*goose.MigrationResult) []Changeset {
	out := make([]Changeset, 0, len(results))
	for _, r := range results {
		if r == nil || r.Source == nil || r.Error != nil || r.Empty {
			continue
		}
		out = append(out, Changeset{
			Version:  r.Source.Version,
			Source:   r.Source.Path,
			Duration: r.Duration,
		})
	}
	return out
}

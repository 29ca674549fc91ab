// Package migrations embeds the SQL changesets of the module.
//
// Control changesets create the shared tables in the default schema.
// Tenant changesets are applied to every tenant schema by the provisioner,
// with search_path pinned to that schema, so they must use unqualified names.
package migrations

import (
	"embed"
	"io/fs"
)

//go:embed control/*.sql tenant/*.sql
var files embed.FS

// Control returns the changesets of the default schema.
func Control() fs.FS {
	return sub("control")
}

// Tenant returns the changesets applied to each tenant schema.
func Tenant() fs.FS {
	return sub("tenant")
}

func sub(dir string) fs.FS {
	f, err := fs.Sub(files, dir)
	if err != nil {
		// only reachable if the embed pattern above changes
		panic(err)
	}
	return f
}

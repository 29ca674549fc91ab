package registry

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"gopkg.in/yaml.v3"

	"github.com/dmitrymomot/helpdesk/pkg/tenant"
)

// SeedFile is the YAML layout accepted by Seed:
//
//	tenants:
//	  - name: Acme
//	    domain: support.acme.com
type SeedFile struct {
	Tenants []SeedTenant `yaml:"tenants"`
}

type SeedTenant struct {
	Name   string `yaml:"name"`
	Domain string `yaml:"domain"`
}

// Seed registers every tenant listed in r that is not registered yet and
// returns how many were created. Entries whose slug or domain is already
// taken are skipped.
func (reg *Registry) Seed(ctx context.Context, r io.Reader) (int, error) {
	var file SeedFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		if errors.Is(err, io.EOF) {
			return 0, nil
		}
		return 0, fmt.Errorf("decode seed file: %w", err)
	}

	created := 0
	for i, entry := range file.Tenants {
		_, err := reg.Register(ctx, entry.Name, entry.Domain)
		switch {
		case err == nil:
			created++
		case errors.Is(err, tenant.ErrDuplicateTenant):
			reg.log.DebugContext(ctx, "seed tenant already registered", slog.String("name", entry.Name))
		default:
			return created, fmt.Errorf("seed tenant #%d %q: %w", i, entry.Name, err)
		}
	}
	return created, nil
}

package registry

import "time"

type Config struct {
	// CacheTTL bounds how long a slug or domain maps to a cached tenant id.
	// Tenant status is never cached.
	CacheTTL     time.Duration `env:"REGISTRY_CACHE_TTL" envDefault:"15s"`
	CacheSize    int           `env:"REGISTRY_CACHE_SIZE" envDefault:"1024"`
	SchemaPrefix string        `env:"REGISTRY_SCHEMA_PREFIX" envDefault:"tenant_"`
}

func (c Config) withDefaults() Config {
	if c.CacheSize <= 0 {
		c.CacheSize = 1024
	}
	if c.SchemaPrefix == "" {
		c.SchemaPrefix = "tenant_"
	}
	return c
}

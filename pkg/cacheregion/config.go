package cacheregion

import "time"

type Config struct {
	// Backend is "redis" for the shared tier or "memory" for a single instance.
	Backend    string        `env:"CACHE_BACKEND" envDefault:"redis"`
	KeyPrefix  string        `env:"CACHE_KEY_PREFIX" envDefault:"helpdesk:"`
	DefaultTTL time.Duration `env:"CACHE_DEFAULT_TTL" envDefault:"10m"`
	// MemoryCapacity sizes the in-process backend.
	MemoryCapacity int `env:"CACHE_MEMORY_CAPACITY" envDefault:"10000"`
}

func (c Config) withDefaults() Config {
	if c.DefaultTTL <= 0 {
		c.DefaultTTL = 10 * time.Minute
	}
	if c.Backend == "" {
		c.Backend = "redis"
	}
	if c.MemoryCapacity <= 0 {
		c.MemoryCapacity = 10000
	}
	return c
}

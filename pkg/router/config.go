package router

import "time"

type Config struct {
	// DefaultSchema serves units of work bound to no tenant.
	DefaultSchema  string        `env:"ROUTER_DEFAULT_SCHEMA" envDefault:"public"`
	AcquireTimeout time.Duration `env:"ROUTER_ACQUIRE_TIMEOUT" envDefault:"5s"`
	// ResetTimeout bounds the search_path reset run when a lease is released.
	ResetTimeout time.Duration `env:"ROUTER_RESET_TIMEOUT" envDefault:"2s"`
}

func (c Config) withDefaults() Config {
	if c.DefaultSchema == "" {
		c.DefaultSchema = "public"
	}
	if c.AcquireTimeout <= 0 {
		c.AcquireTimeout = 5 * time.Second
	}
	if c.ResetTimeout <= 0 {
		c.ResetTimeout = 2 * time.Second
	}
	return c
}

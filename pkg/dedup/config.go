package dedup

import "time"

type Config struct {
	// TTL is how long a claimed key blocks repeats.
	TTL           time.Duration `env:"DEDUP_TTL" envDefault:"24h"`
	SweepInterval time.Duration `env:"DEDUP_SWEEP_INTERVAL" envDefault:"5m"`
}

func (c Config) withDefaults() Config {
	if c.TTL <= 0 {
		c.TTL = 24 * time.Hour
	}
	if c.SweepInterval <= 0 {
		c.SweepInterval = 5 * time.Minute
	}
	return c
}

package provision

import "time"

type Config struct {
	// ProvisionTimeout bounds one shared provisioning attempt, independent of
	// the callers waiting on it.
	ProvisionTimeout time.Duration `env:"PROVISION_TIMEOUT" envDefault:"2m"`
	// LockTimeout bounds the wait for another instance that is provisioning the same schema.
	LockTimeout  time.Duration `env:"PROVISION_LOCK_TIMEOUT" envDefault:"30s"`
	HistoryTable string        `env:"PROVISION_HISTORY_TABLE" envDefault:"goose_db_version"`
}

func (c Config) withDefaults() Config {
	if c.ProvisionTimeout <= 0 {
		c.ProvisionTimeout = 2 * time.Minute
	}
	if c.LockTimeout <= 0 {
		c.LockTimeout = 30 * time.Second
	}
	if c.HistoryTable == "" {
		c.HistoryTable = "goose_db_version"
	}
	return c
}

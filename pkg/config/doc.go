// Package config loads typed configuration from environment variables.
//
// Each component of the module declares its own env-tagged Config struct
// (pg.Config, provision.Config, router.Config and so on). Load parses one of
// those structs with github.com/caarlos0/env/v11 after reading an optional
// .env file through github.com/joho/godotenv, and caches the result per type.
//
//	var cfg router.Config
//	if err := config.Load(&cfg); err != nil {
//		log.Fatal(err)
//	}
//
// LoadEnv reads additional .env files. Reset clears the cache between tests.
//
// Errors are sentinels usable with errors.Is: ErrParsingConfig,
// ErrInvalidConfigType, ErrConfigNotLoaded, ErrNilPointer, ErrLoadingEnvFile.
package config

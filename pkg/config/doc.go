// Package config loads typed configuration structs from environment
// variables, with optional .env file support for local development.
//
// Field mapping uses github.com/caarlos0/env struct tags:
//
//	type TenantConfig struct {
//	    CacheTTL time.Duration `env:"TENANT_CACHE_TTL" envDefault:"60s"`
//	}
//
// Each configuration type is parsed exactly once per process and cached;
// components sharing a config type always observe the same values.
package config

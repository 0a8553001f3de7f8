package config

import "os"

// Default values for configuration.
const (
	DefaultCacheDir      = ".chanstats-cache"
	DefaultTopN          = 10
	DefaultQuotePoolSize = 50
)

// Environment variable names.
const (
	EnvLogDir   = "CHANSTATS_LOG_DIR"
	EnvCacheDir = "CHANSTATS_CACHE_DIR"
)

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		CacheDir:      DefaultCacheDir,
		TopN:          DefaultTopN,
		QuotePoolSize: DefaultQuotePoolSize,
	}
}

// applyEnvironmentOverrides applies environment variable overrides.
func (c *Config) applyEnvironmentOverrides() {
	if dir := os.Getenv(EnvLogDir); dir != "" {
		c.LogDir = dir
	}
	if dir := os.Getenv(EnvCacheDir); dir != "" {
		c.CacheDir = dir
	}
}

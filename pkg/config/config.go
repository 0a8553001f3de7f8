package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Load reads and validates a configuration file. An empty path returns
// the defaults; the configuration file is optional for this tool.
// Warnings describe skipped bad entries (malformed alias pairs and the
// like), which are never fatal.
func Load(path string) (*Config, []string, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path) // #nosec G304 -- user-provided config path is expected
		if err != nil {
			return nil, nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.applyEnvironmentOverrides()

	warnings, err := Validate(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, warnings, nil
}

// Validate checks a configuration, normalizes defaults, and drops
// individually bad entries with a warning instead of failing the run.
func Validate(cfg *Config) ([]string, error) {
	if cfg.TopN < 0 {
		return nil, errors.New("top_n: must not be negative")
	}
	if cfg.TopN == 0 {
		cfg.TopN = DefaultTopN
	}

	if cfg.QuotePoolSize < 0 {
		return nil, errors.New("quote_pool_size: must not be negative")
	}
	if cfg.QuotePoolSize == 0 {
		cfg.QuotePoolSize = DefaultQuotePoolSize
	}

	if cfg.Workers < 0 {
		return nil, errors.New("workers: must not be negative")
	}

	if cfg.CacheDir == "" {
		cfg.CacheDir = DefaultCacheDir
	}

	var warnings []string

	for raw, canonical := range cfg.Aliases {
		if strings.TrimSpace(raw) == "" || strings.TrimSpace(canonical) == "" {
			warnings = append(warnings,
				fmt.Sprintf("aliases: skipping malformed pair %q -> %q", raw, canonical))
			delete(cfg.Aliases, raw)
		}
	}

	cfg.Bots = dropBlank(cfg.Bots, "bots", &warnings)
	cfg.BridgeBots = dropBlank(cfg.BridgeBots, "bridge_bots", &warnings)

	return warnings, nil
}

// dropBlank filters empty entries out of a nick list, warning per
// entry dropped.
func dropBlank(list []string, field string, warnings *[]string) []string {
	kept := list[:0]
	for _, item := range list {
		if strings.TrimSpace(item) == "" {
			*warnings = append(*warnings, fmt.Sprintf("%s: skipping empty entry", field))
			continue
		}
		kept = append(kept, item)
	}
	return kept
}

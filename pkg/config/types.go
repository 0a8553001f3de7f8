// Package config provides configuration loading and validation for
// chanstats.
package config

// Config is the root configuration structure loaded from YAML. Every
// field has a usable zero or default value; the file itself is
// optional.
type Config struct {
	// LogDir is the directory of daily YYYY-MM-DD.log files.
	LogDir string `yaml:"log_dir"`

	// CacheDir holds per-file snapshot cache entries.
	CacheDir string `yaml:"cache_dir"`

	// TopN bounds ranking tables in the report.
	TopN int `yaml:"top_n"`

	// QuotePoolSize caps the per-identity random-quote pool.
	QuotePoolSize int `yaml:"quote_pool_size"`

	// Workers is the parse worker count; 0 means one per CPU.
	Workers int `yaml:"workers"`

	// Bots are excluded from per-nick statistics, in addition to the
	// default service accounts.
	Bots []string `yaml:"bots"`

	// BridgeBots are relay accounts whose messages embed the true
	// sender's nick.
	BridgeBots []string `yaml:"bridge_bots"`

	// Aliases maps raw nick spellings to canonical nicks.
	Aliases map[string]string `yaml:"aliases"`

	// StopWords extends the built-in stop-word set for word stats.
	StopWords []string `yaml:"stop_words"`

	// ProfaneWords enables the optional profanity counter. Empty
	// leaves profanity counts at zero.
	ProfaneWords []string `yaml:"profane_words"`

	// Users is opaque per-user metadata (gender etc.), passed through
	// to the report untouched.
	Users map[string]map[string]string `yaml:"users"`
}

// Package config loads renamecraft's config.toml (spec.md §6.5), layering
// defaults, system, user, and project files the way the teacher's
// LoadWithSources does for its YAML config, but parsed with
// github.com/BurntSushi/toml and merged with dario.cat/mergo instead of a
// hand-rolled field-by-field merge.
package config

// Config is renamecraft's config.toml schema (spec.md §6.5).
type Config struct {
	// Atomic lists strings to treat as indivisible tokens (spec.md §3
	// "Atomic identifier").
	Atomic []string `toml:"atomic"`

	// DefaultStyles lists style names enabled by default when a caller
	// doesn't specify --styles explicitly.
	DefaultStyles []string `toml:"default_styles"`

	History  HistoryConfig  `toml:"history"`
	Backups  BackupsConfig  `toml:"backups"`
}

// HistoryConfig controls the ledger's size-based pruning (spec.md §4.6).
type HistoryConfig struct {
	MaxBytes int64 `toml:"max_bytes"`
}

// BackupsConfig controls backup retention (spec.md §4.6, §6.5).
type BackupsConfig struct {
	Retain int `toml:"retain"`
}

// Default returns renamecraft's built-in defaults, the base layer every
// other config source merges on top of.
func Default() *Config {
	return &Config{
		DefaultStyles: []string{
			"snake", "kebab", "camel", "pascal", "screaming_snake",
		},
		History: HistoryConfig{
			MaxBytes: 100 * 1024,
		},
		Backups: BackupsConfig{
			Retain: 20,
		},
	}
}

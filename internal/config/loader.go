package config

import (
	"log/slog"
	"os"
	"path/filepath"

	"dario.cat/mergo"
	"github.com/BurntSushi/toml"

	"github.com/renamecraft/renamecraft/internal/errs"
)

// StateDirName is the per-repo state directory's name (spec.md §6.2), also
// where the project-level config.toml lives.
const StateDirName = ".renamecraft"

// ConfigFileName is config.toml's name within a state directory.
const ConfigFileName = "config.toml"

// Load builds renamecraft's effective config by merging, in increasing
// precedence: built-in defaults, system config, user config, project config
// — mirroring the teacher's LoadWithSources order, but merging layers with
// mergo.Merge(..., mergo.WithOverride) instead of a hand-rolled
// field-by-field mergeConfig.
//
// configFileOverride, when non-empty (the CLI's --config flag), replaces
// the project-level lookup entirely: it is read from the exact path given
// and, unlike the project default, a missing file is an error rather than
// a silently skipped layer.
func Load(projectRoot, configFileOverride string) (*Config, error) {
	cfg := Default()

	systemPath := systemConfigPath()
	mergeFile(cfg, systemPath)

	if home, err := os.UserHomeDir(); err == nil {
		mergeFile(cfg, filepath.Join(home, StateDirName, ConfigFileName))
	}

	if configFileOverride != "" {
		if _, err := os.Stat(configFileOverride); err != nil {
			return nil, errs.InvalidInput("config file not found: " + configFileOverride)
		}
		if err := mergeFileStrict(cfg, configFileOverride); err != nil {
			return nil, err
		}
		return cfg, nil
	}

	projectPath := filepath.Join(projectRoot, StateDirName, ConfigFileName)
	if _, err := os.Stat(projectPath); err == nil {
		if err := mergeFileStrict(cfg, projectPath); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

func systemConfigPath() string {
	if os.Getenv("GOOS") == "windows" {
		return filepath.Join(os.Getenv("PROGRAMDATA"), "renamecraft", ConfigFileName)
	}
	return filepath.Join("/etc", "renamecraft", ConfigFileName)
}

// mergeFile merges an optional config layer into cfg; a missing file is
// skipped silently, and one that fails to parse or merge is logged and
// skipped, matching the teacher's tolerance for absent system/user config
// files.
func mergeFile(cfg *Config, path string) {
	if _, err := os.Stat(path); err != nil {
		return
	}
	if err := mergeFileStrict(cfg, path); err != nil {
		slog.Warn("failed to load config layer", slog.String("path", path), slog.String("error", err.Error()))
	}
}

// mergeFileStrict merges path into cfg, failing loudly — used for the
// project-level config, whose errors the teacher treats as fatal.
func mergeFileStrict(cfg *Config, path string) error {
	var layer Config
	if _, err := toml.DecodeFile(path, &layer); err != nil {
		return err
	}
	return mergo.Merge(cfg, layer, mergo.WithOverride)
}

// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"

	"github.com/kantord/enwiro/internal/issue"
	"github.com/spf13/viper"
)

// Config is the recognized set of global configuration keys.
type Config struct {
	// WorkspacesDirectory is the root directory containing all environments.
	WorkspacesDirectory string `mapstructure:"workspaces_directory"`

	// Adapter is the short name of the default adapter plugin, used by
	// activate and wrap's auto-lookup. Empty means no adapter configured.
	Adapter string `mapstructure:"adapter"`
}

// configDirOverride lets tests pin the config directory without mutating
// real environment variables.
var configDirOverride string

// SetConfigDirOverride pins the config directory for tests. Pass "" to clear.
func SetConfigDirOverride(dir string) {
	configDirOverride = dir
}

// Dir resolves the directory containing enwiro.toml, honoring XDG_CONFIG_HOME
// on Linux, %APPDATA% on Windows, and ~/Library/Application Support on macOS.
func Dir() (string, error) {
	if configDirOverride != "" {
		return configDirOverride, nil
	}

	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "enwiro"), nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	switch runtime.GOOS {
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "enwiro"), nil
		}
		return filepath.Join(home, "AppData", "Roaming", "enwiro"), nil
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "enwiro"), nil
	default:
		return filepath.Join(home, ".config", "enwiro"), nil
	}
}

// DefaultWorkspacesDirectory returns $HOME/.enwiro_envs.
func DefaultWorkspacesDirectory() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".enwiro_envs"), nil
}

// Load reads enwiro.toml from the resolved config directory and applies
// defaults for unset keys. A missing config file is not an error.
func Load() (*Config, error) {
	workspacesDir, err := DefaultWorkspacesDirectory()
	if err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("resolve home directory").
			Wrap(err).
			BuildError()
	}

	dir, err := Dir()
	if err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("resolve config directory").
			Wrap(err).
			BuildError()
	}

	v := viper.New()
	v.SetConfigName("enwiro")
	v.SetConfigType("toml")
	v.AddConfigPath(dir)
	v.SetDefault("workspaces_directory", workspacesDir)
	v.SetDefault("adapter", "")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return nil, issue.NewErrorContext().
				WithOperation("read config file").
				WithResource(filepath.Join(dir, "enwiro.toml")).
				WithSuggestion("Check that enwiro.toml contains valid TOML").
				Wrap(err).
				BuildError()
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("parse config file").
			WithResource(filepath.Join(dir, "enwiro.toml")).
			Wrap(err).
			BuildError()
	}

	if cfg.WorkspacesDirectory == "" {
		cfg.WorkspacesDirectory = workspacesDir
	}

	return &cfg, nil
}

// ApplyAdapterAutoSelect fills in cfg.Adapter from the discovered adapter
// plugins when the config left it unset and exactly one adapter is
// available.
func ApplyAdapterAutoSelect(cfg *Config, discoveredAdapters map[string]string) {
	if cfg.Adapter != "" {
		return
	}
	if len(discoveredAdapters) != 1 {
		return
	}
	for name := range discoveredAdapters {
		cfg.Adapter = name
	}
}

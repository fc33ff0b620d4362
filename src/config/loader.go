package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/afero"
)

// EnvPrefix is the prefix for environment variable overrides.
const EnvPrefix = "STOCKCHAT_"

// Loader loads and merges configuration from defaults, the user's config
// file, and environment variables. The filesystem is injected so tests can
// run against an in-memory one.
type Loader struct {
	fs        afero.Fs
	validator *Validator
}

// NewLoader creates a loader backed by the OS filesystem.
func NewLoader() *Loader {
	return NewLoaderWithFs(afero.NewOsFs())
}

// NewLoaderWithFs creates a loader backed by the given filesystem.
func NewLoaderWithFs(fs afero.Fs) *Loader {
	return &Loader{
		fs:        fs,
		validator: NewValidator(),
	}
}

// Load reads configuration from path (falling back to UserConfigPath when
// empty), merges it over the defaults, applies environment overrides, and
// validates the result. A missing config file is not an error.
func (l *Loader) Load(path string) (*Config, error) {
	config := DefaultConfig()

	if path == "" {
		path = UserConfigPath()
	}

	// Unmarshalling the file over the defaults gives exact merge semantics:
	// absent fields keep their default, present fields win.
	data, err := afero.ReadFile(l.fs, path)
	switch {
	case err == nil:
		if err := json.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	case os.IsNotExist(err):
		// No user config; defaults apply.
	default:
		return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
	}

	l.applyEnvironmentOverrides(config)

	if err := l.validator.Validate(config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Save writes the configuration to path, validating it first.
func (l *Loader) Save(config *Config, path string) error {
	if err := l.validator.Validate(config); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := l.fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := afero.WriteFile(l.fs, path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// applyEnvironmentOverrides applies STOCKCHAT_* variables on top of the
// merged configuration.
func (l *Loader) applyEnvironmentOverrides(config *Config) {
	if v := os.Getenv(EnvPrefix + "BASE_URL"); v != "" {
		config.API.BaseURL = v
	}
	if v := os.Getenv(EnvPrefix + "TOKEN"); v != "" {
		config.API.Token = v
	}
	if v := os.Getenv(EnvPrefix + "LOG_LEVEL"); v != "" {
		config.LogLevel = v
	}
	if v := os.Getenv(EnvPrefix + "STREAM_TIMEOUT"); v != "" {
		if seconds, err := strconv.Atoi(v); err == nil {
			config.API.StreamTimeoutSeconds = seconds
		}
	}
}

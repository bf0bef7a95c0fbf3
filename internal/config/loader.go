package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Environment variables consulted by the Loader.
const (
	EnvConfigPath = "IMAGE_EDITOR_CONFIG"
	EnvLogLevel   = "IMAGE_EDITOR_LOG_LEVEL"
	EnvModel      = "IMAGE_EDITOR_MODEL"
)

// Loader handles loading the configuration.
type Loader struct {
	Version      string // Build version, used to determine dev mode
	OverridePath string // Explicit path, e.g. from --config
	Getenv       func(string) string
}

// NewLoader creates a new Loader.
func NewLoader(version string, overridePath string) *Loader {
	return &Loader{
		Version:      version,
		OverridePath: overridePath,
		Getenv:       os.Getenv,
	}
}

// Load reads the configuration file (if any), applies environment overrides and
// validates the result.
func (l *Loader) Load() (*Config, error) {
	cfg := New()

	path, err := l.GetConfigPath()
	if err != nil {
		return nil, err
	}
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open config: %w", err)
		}
		defer f.Close()

		cfg, err = Parse(f)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	}

	if err := l.applyEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (l *Loader) applyEnv(cfg *Config) error {
	if v := l.getenv(EnvLogLevel); v != "" {
		level, err := ParseLevel(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvLogLevel, err)
		}
		cfg.LogLevel = level
	}
	if v := l.getenv(EnvModel); v != "" {
		cfg.Segmentation.Model = v
	}
	return nil
}

// GetConfigPath returns the path to the configuration file, or empty string if not found.
//
// An explicit path (OverridePath or IMAGE_EDITOR_CONFIG) that does not exist is an
// error; the implicit locations are optional.
func (l *Loader) GetConfigPath() (string, error) {
	// 1. Explicit path
	if l.OverridePath != "" {
		if _, err := os.Stat(l.OverridePath); err != nil {
			return "", fmt.Errorf("config file: %w", err)
		}
		return l.OverridePath, nil
	}

	// 2. Environment
	if p := l.getenv(EnvConfigPath); p != "" {
		if _, err := os.Stat(p); err != nil {
			return "", fmt.Errorf("%s: %w", EnvConfigPath, err)
		}
		return p, nil
	}

	// 3. Local run directory (dev mode)
	if l.Version == "dev" {
		wd, _ := os.Getwd()
		localPath := filepath.Join(wd, ".imageeditorrc")
		if _, err := os.Stat(localPath); err == nil {
			return localPath, nil
		}
	}

	// 4. XDG Config Path
	if home, err := os.UserHomeDir(); err == nil {
		xdgPath := filepath.Join(home, ".config", "image-editor-mcp", "config.rc")
		if _, err := os.Stat(xdgPath); err == nil {
			return xdgPath, nil
		}
	}

	return "", nil
}

func (l *Loader) getenv(key string) string {
	if l.Getenv == nil {
		return os.Getenv(key)
	}
	return l.Getenv(key)
}

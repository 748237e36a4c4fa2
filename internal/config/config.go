// Package config loads terrain-mcp settings from an optional YAML file,
// the environment, and built-in defaults, in increasing order of
// precedence for the environment (env > file > defaults).
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/terrainlab/terrain-mcp/internal/geoproc"
	"github.com/terrainlab/terrain-mcp/internal/log"
)

// Settings is the on-disk configuration schema.
type Settings struct {
	Service ServiceSettings `yaml:"service"`
	Log     LogSettings     `yaml:"log"`
}

// ServiceSettings configures the connection to the geoprocessing service.
type ServiceSettings struct {
	// BaseURL of the geoprocessing service. The GEOPROC_SERVICE_URL
	// environment variable overrides this.
	BaseURL string `yaml:"base_url,omitempty"`

	// TimeoutSeconds bounds each request attempt.
	TimeoutSeconds int `yaml:"timeout_seconds,omitempty"`

	// MaxRetries is the total attempts per dispatch, including the first.
	MaxRetries int `yaml:"max_retries,omitempty"`

	// MaxBackoffSeconds caps the delay between retry attempts.
	MaxBackoffSeconds int `yaml:"max_backoff_seconds,omitempty"`
}

// LogSettings configures logging. Environment variables (see the log
// package) override these.
type LogSettings struct {
	Level  string `yaml:"level,omitempty"`
	Format string `yaml:"format,omitempty"`
}

// ConfigDir returns the configuration directory, honoring XDG_CONFIG_HOME.
func ConfigDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "terrain-mcp"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "terrain-mcp"), nil
}

// ConfigPath returns the full path to the default config file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Load reads settings from the given path. An empty path means the
// default location. A missing file is not an error and yields zero
// settings (defaults apply downstream); a malformed file is an error.
func Load(path string) (*Settings, error) {
	if path == "" {
		var err error
		path, err = ConfigPath()
		if err != nil {
			return nil, fmt.Errorf("failed to determine config path: %w", err)
		}
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &Settings{}, nil
		}
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var s Settings
	if err := yaml.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return &s, nil
}

// ConnectorConfig resolves the geoprocessing connector configuration:
// package defaults, overlaid by file settings, overlaid by the
// GEOPROC_SERVICE_URL environment variable.
func (s *Settings) ConnectorConfig() geoproc.Config {
	cfg := geoproc.Config{
		BaseURL:    geoproc.DefaultBaseURL,
		Timeout:    geoproc.DefaultTimeout,
		MaxRetries: geoproc.DefaultMaxRetries,
		MaxBackoff: geoproc.DefaultMaxBackoff,
	}

	if s.Service.BaseURL != "" {
		cfg.BaseURL = s.Service.BaseURL
	}
	if s.Service.TimeoutSeconds > 0 {
		cfg.Timeout = time.Duration(s.Service.TimeoutSeconds) * time.Second
	}
	if s.Service.MaxRetries > 0 {
		cfg.MaxRetries = s.Service.MaxRetries
	}
	if s.Service.MaxBackoffSeconds > 0 {
		cfg.MaxBackoff = time.Duration(s.Service.MaxBackoffSeconds) * time.Second
	}

	if env := os.Getenv(geoproc.BaseURLEnvVar); env != "" {
		cfg.BaseURL = env
	}

	return cfg
}

// LoggerConfig resolves the logger configuration: environment variables
// win, then file settings, then defaults.
func (s *Settings) LoggerConfig() *log.Config {
	cfg := log.DefaultConfig()

	if s.Log.Level != "" {
		cfg.Level = s.Log.Level
	}
	if s.Log.Format != "" {
		cfg.Format = log.Format(s.Log.Format)
	}

	env := log.FromEnv()
	def := log.DefaultConfig()
	if env.Level != def.Level {
		cfg.Level = env.Level
	}
	if env.Format != def.Format {
		cfg.Format = env.Format
	}
	if env.AddSource {
		cfg.AddSource = true
	}

	return cfg
}

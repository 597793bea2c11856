package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

const (
	// ConfigDir is the directory name under ~/.config
	ConfigDir = "felipe"
	// ConfigFile is the config file name
	ConfigFile = "config.json"
	// WorkspaceDir is the default bridge workspace directory under the home directory
	WorkspaceDir = "felipe-workspace"
)

// Environment variables that override file values.
const (
	EnvBridgeURL = "FELIPE_BRIDGE_URL"
	EnvLogLevel  = "FELIPE_LOG_LEVEL"
)

// FileSystem abstracts file operations for testability
type FileSystem interface {
	UserHomeDir() (string, error)
	ReadFile(path string) ([]byte, error)
	Getenv(key string) string
}

// ConfigFileReader implements FileSystem using the real OS for config loading
type ConfigFileReader struct{}

func (ConfigFileReader) UserHomeDir() (string, error) {
	return os.UserHomeDir()
}

func (ConfigFileReader) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

func (ConfigFileReader) Getenv(key string) string {
	return os.Getenv(key)
}

// Loader handles configuration loading with injected dependencies
type Loader struct {
	fs FileSystem
}

// NewLoader creates a production Loader using the real filesystem
func NewLoader() *Loader {
	return &Loader{fs: ConfigFileReader{}}
}

// NewLoaderWithFS creates a Loader with a custom filesystem (for testing)
func NewLoaderWithFS(fs FileSystem) *Loader {
	return &Loader{fs: fs}
}

// Load reads configuration from ~/.config/felipe/config.json and merges it with
// defaults. Dotfile values override defaults, environment variables override both.
// Returns default config if dotfile doesn't exist.
// Returns error only for parse errors, permission issues, or validation failures.
//
// NOTE: This implementation unmarshals JSON keys directly over the default configuration.
// This allows explicit zero values (e.g., 0, false, "") in the config file to override defaults.
func (l *Loader) Load() (*Config, error) {
	cfg := DefaultConfig()

	homeDir, err := l.fs.UserHomeDir()
	if err != nil {
		homeDir = "" // Paths stay relative to the working directory
	} else {
		configPath := filepath.Join(homeDir, ".config", ConfigDir, ConfigFile)

		data, err := l.fs.ReadFile(configPath)
		if err != nil && !os.IsNotExist(err) {
			return nil, err // Return error for permission issues
		}
		if err == nil {
			if err := json.Unmarshal(data, cfg); err != nil {
				return nil, err // Return error for malformed JSON
			}
		}
	}

	l.applyEnv(cfg)
	cfg.fillPaths(homeDir)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (l *Loader) applyEnv(cfg *Config) {
	if v := l.fs.Getenv(EnvBridgeURL); v != "" {
		cfg.Bridge.URL = v
	}
	if v := l.fs.Getenv(EnvLogLevel); v != "" {
		cfg.Log.Level = v
	}
}

// fillPaths resolves home-relative defaults that were not set explicitly.
func (c *Config) fillPaths(homeDir string) {
	configRoot := filepath.Join(homeDir, ".config", ConfigDir)
	if c.Bridge.Workspace == "" {
		c.Bridge.Workspace = filepath.Join(homeDir, WorkspaceDir)
	}
	if c.Session.DBPath == "" {
		c.Session.DBPath = filepath.Join(configRoot, "felipe.db")
	}
	if c.Log.Dir == "" {
		c.Log.Dir = filepath.Join(configRoot, "logs")
	}
}

// APIKey returns the model API key from the configured environment variable.
func (c *Config) APIKey() string {
	return os.Getenv(c.Provider.APIKeyEnv)
}

// Load is a convenience function using the default loader
func Load() (*Config, error) {
	return NewLoader().Load()
}

package config

// Config holds all application configuration values.
// Defaults are set in DefaultConfig() and can be overridden via dotfile.
// NOTE: Values in config files override defaults, including explicit zero values.
// Missing keys are left at their default values.
type Config struct {
	Provider     ProviderConfig     `json:"provider"`
	Bridge       BridgeConfig       `json:"bridge"`
	Orchestrator OrchestratorConfig `json:"orchestrator"`
	Session      SessionConfig      `json:"session"`
	Log          LogConfig          `json:"log"`
}

type ProviderConfig struct {
	Model       string `json:"model"`        // Default: gemini-3-pro-preview
	APIKeyEnv   string `json:"api_key_env"`  // Default: GEMINI_API_KEY
	MaxAttempts int    `json:"max_attempts"` // Default: 3

	RequestTimeoutSeconds int `json:"request_timeout_seconds"` // Default: 120
}

type BridgeConfig struct {
	// Client side
	URL                   string `json:"url"`                     // Default: http://localhost:8080
	RequestTimeoutSeconds int    `json:"request_timeout_seconds"` // Default: 660 (command timeout + slack)

	// Server side
	ListenAddr            string `json:"listen_addr"`             // Default: :8080
	Workspace             string `json:"workspace"`               // Default: ~/felipe-workspace
	CommandTimeoutSeconds int    `json:"command_timeout_seconds"` // Default: 600
	MaxOutputBytes        int64  `json:"max_output_bytes"`        // Default: 1MB
	GracefulShutdownMs    int    `json:"graceful_shutdown_ms"`    // Default: 2000
	GitInit               bool   `json:"git_init"`                // Default: true
}

type OrchestratorConfig struct {
	MaxRounds int `json:"max_rounds"` // Default: 50
}

type SessionConfig struct {
	DBPath string `json:"db_path"` // Default: ~/.config/felipe/felipe.db
}

type LogConfig struct {
	Dir   string `json:"dir"`   // Default: ~/.config/felipe/logs
	Level string `json:"level"` // Default: info
}

// DefaultConfig returns the default configuration.
// Paths that depend on the home directory are left empty and filled in by the loader.
func DefaultConfig() *Config {
	return &Config{
		Provider: ProviderConfig{
			Model:       "gemini-3-pro-preview",
			APIKeyEnv:   "GEMINI_API_KEY",
			MaxAttempts: 3,

			RequestTimeoutSeconds: 120,
		},
		Bridge: BridgeConfig{
			URL:                   "http://localhost:8080",
			RequestTimeoutSeconds: 660,
			ListenAddr:            ":8080",
			CommandTimeoutSeconds: 600,
			MaxOutputBytes:        1024 * 1024,
			GracefulShutdownMs:    2000,
			GitInit:               true,
		},
		Orchestrator: OrchestratorConfig{
			MaxRounds: 50,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

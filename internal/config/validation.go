package config

import (
	"fmt"
	"net/url"
	"slices"
)

var logLevels = []string{"debug", "info", "warn", "error"}

// Validate checks config values for correctness.
// Returns an error listing every invalid value.
func (c *Config) Validate() error {
	var errs []string

	// Provider validation
	if c.Provider.Model == "" {
		errs = append(errs, "provider.model must not be empty")
	}
	if c.Provider.APIKeyEnv == "" {
		errs = append(errs, "provider.api_key_env must not be empty")
	}
	if c.Provider.MaxAttempts < 1 {
		errs = append(errs, "provider.max_attempts must be >= 1")
	}
	if c.Provider.RequestTimeoutSeconds < 1 {
		errs = append(errs, "provider.request_timeout_seconds must be >= 1")
	}

	// Bridge validation - client
	if u, err := url.Parse(c.Bridge.URL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, "bridge.url must be an absolute http(s) URL")
	}
	if c.Bridge.RequestTimeoutSeconds < 1 {
		errs = append(errs, "bridge.request_timeout_seconds must be >= 1")
	}

	// Bridge validation - server
	if c.Bridge.ListenAddr == "" {
		errs = append(errs, "bridge.listen_addr must not be empty")
	}
	if c.Bridge.CommandTimeoutSeconds < 1 {
		errs = append(errs, "bridge.command_timeout_seconds must be >= 1")
	}
	if c.Bridge.MaxOutputBytes < 1 {
		errs = append(errs, "bridge.max_output_bytes must be >= 1")
	}
	if c.Bridge.GracefulShutdownMs < 1 {
		errs = append(errs, "bridge.graceful_shutdown_ms must be >= 1")
	}

	if c.Orchestrator.MaxRounds < 1 {
		errs = append(errs, "orchestrator.max_rounds must be >= 1")
	}

	if !slices.Contains(logLevels, c.Log.Level) {
		errs = append(errs, fmt.Sprintf("log.level must be one of %v", logLevels))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed: %v", errs)
	}

	return nil
}

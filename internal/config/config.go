// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load layers defaults, an optional YAML file and SKIPCHECK_ env vars.
// - External errors are wrapped with this package's sentinel kinds.
package config

import (
	"time"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log encoding: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// APIBaseURL is the root of the remote judging platform API.
	APIBaseURL string `koanf:"api_base_url"`

	// ClientTimeoutMS bounds each remote call. 0 keeps the transport default.
	ClientTimeoutMS int `koanf:"client_timeout_ms"`

	// UserAgent is sent with every remote call.
	UserAgent string `koanf:"user_agent"`

	// MetricsNamespace prefixes every Prometheus metric name.
	MetricsNamespace string `koanf:"metrics_namespace"`

	// MetricsEnabled turns metric recording on or off.
	MetricsEnabled bool `koanf:"metrics_enabled"`

	// MetricsLabels are constant labels attached to every metric.
	MetricsLabels map[string]string `koanf:"metrics_labels"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:         "info",
		LogFormat:        "text",
		Addr:             ":9080",
		APIBaseURL:       "https://codeforces.com/api",
		ClientTimeoutMS:  0,
		UserAgent:        "skipcheck/1.0",
		MetricsNamespace: "skipcheck",
		MetricsEnabled:   true,
	}
}

// ClientTimeout returns ClientTimeoutMS as a duration.
func (c *Config) ClientTimeout() time.Duration {
	return time.Duration(c.ClientTimeoutMS) * time.Millisecond
}

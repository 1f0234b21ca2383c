// Package agent runs a statbeat reporting session as a standalone host
// agent.
package agent

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	statbeat "github.com/statbeat/statbeat-go"
)

const (
	// DefaultLogLevel is the default log level.
	DefaultLogLevel = "info"

	// DefaultDataDir is the default data directory holding the
	// telemetry settings file.
	DefaultDataDir = "/var/lib/statbeat"

	// DefaultServiceName is the default service name reported in
	// the envelope.
	DefaultServiceName = "statbeat-agent"
)

// Config is the top-level configuration for the statbeat agent,
// populated from a YAML configuration file via ParseConfig.
type Config struct {
	// LogLevel is the log level: "debug", "info", "warn", "error".
	// Default: "info"
	LogLevel string `yaml:"log_level"`

	// DataDir is the directory for the persisted telemetry settings.
	// Default: /var/lib/statbeat
	DataDir string `yaml:"data_dir"`

	// Platform identifies the embedding ecosystem on the collection
	// endpoint (required). Example: "server-implementation"
	Platform string `yaml:"platform"`

	// ServiceID is the numeric service identifier assigned by the
	// collection endpoint (required).
	ServiceID int `yaml:"service_id"`

	// ServiceName is the service name reported in the envelope.
	// Default: "statbeat-agent"
	ServiceName string `yaml:"service_name"`

	// BaseURL overrides the collection endpoint base URL.
	// Default: statbeat.DefaultBaseURL
	BaseURL string `yaml:"base_url"`
}

// ApplyDefaults sets default values for zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	if c.DataDir == "" {
		c.DataDir = DefaultDataDir
	}
	if c.ServiceName == "" {
		c.ServiceName = DefaultServiceName
	}
	if c.BaseURL == "" {
		c.BaseURL = statbeat.DefaultBaseURL
	}
}

// Validate checks that required fields are set and values are acceptable.
func (c *Config) Validate() error {
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("agent: config: invalid log_level %q", c.LogLevel)
	}
	if c.Platform == "" {
		return fmt.Errorf("agent: config: platform is required")
	}
	if c.ServiceID == 0 {
		return fmt.Errorf("agent: config: service_id is required")
	}
	return nil
}

// ParseConfig reads a YAML configuration file and returns a Config.
// It applies defaults and validates the configuration.
func ParseConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("agent: config: read %s: %w", path, err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("agent: config: parse %s: %w", path, err)
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

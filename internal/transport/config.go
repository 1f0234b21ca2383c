package transport

import (
	"errors"
	"time"
)

// Config holds the configuration for the Sender.
// Config is passed as a constructor argument — no file I/O in this package.
type Config struct {
	// BaseURL is the collection endpoint base URL (required).
	// Example: "https://statbeat.io"
	BaseURL string

	// ConnectTimeout is the maximum time to wait for a TCP connection.
	// Default: 10s
	ConnectTimeout time.Duration

	// RequestTimeout is the maximum time for a complete HTTP
	// request/response cycle. It bounds how long a submission can
	// stall the reporting worker.
	// Default: 30s
	RequestTimeout time.Duration
}

// DefaultConnectTimeout is the default TCP connect timeout.
const DefaultConnectTimeout = 10 * time.Second

// DefaultRequestTimeout is the default HTTP request timeout.
const DefaultRequestTimeout = 30 * time.Second

// ApplyDefaults sets default values for zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.ConnectTimeout == 0 {
		c.ConnectTimeout = DefaultConnectTimeout
	}
	if c.RequestTimeout == 0 {
		c.RequestTimeout = DefaultRequestTimeout
	}
}

// Validate checks that required fields are set.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return errors.New("transport: config: BaseURL is required")
	}
	return nil
}

// Package config loads and creates the on-disk telemetry settings
// shared by every reporting session on a host: the opt-out flag, the
// stable server UUID and the diagnostic logging flags.
//
// The settings live in a TOML file. On first load the file is created
// with reporting enabled and a freshly generated UUID; later loads
// reuse it, so the server identity stays stable across restarts. The
// reporting core itself never writes this state.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/google/uuid"

	"github.com/statbeat/statbeat-go/internal/fsutil"
)

// FileName is the name of the settings file inside the data directory.
const FileName = "config.toml"

// Config holds the persisted telemetry settings.
type Config struct {
	// Enabled turns reporting on or off for every session on this host.
	Enabled bool `toml:"enabled"`

	// ServerUUID is the stable anonymous server identifier.
	ServerUUID uuid.UUID `toml:"server-uuid"`

	// LogFailedRequests logs submission and per-chart failures.
	LogFailedRequests bool `toml:"log-failed-requests"`

	// LogSentData logs every outgoing payload before compression.
	LogSentData bool `toml:"log-sent-data"`

	// LogResponseStatusText logs the response body of successful
	// submissions.
	LogResponseStatusText bool `toml:"log-response-status-text"`
}

const fileHeader = `# statbeat collects anonymous usage data for plugin and service authors,
# like how many servers are running their software.
# To honor their work, you should not disable it.
# Reporting has nearly no effect on performance!
`

// Load reads the settings file from dir, creating it with defaults when
// it does not exist. A file without a server-uuid entry is completed
// with a generated UUID and rewritten; all other present values are
// kept as-is.
func Load(dir string) (*Config, error) {
	cfg := &Config{Enabled: true}

	path := filepath.Join(dir, FileName)
	if _, err := os.Stat(path); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("config: stat %s: %w", path, err)
	} else if err == nil {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	if cfg.ServerUUID == uuid.Nil {
		cfg.ServerUUID = uuid.New()
		if err := write(path, cfg); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// write renders the settings file, header comment included, and stores
// it atomically.
func write(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("config: create directory: %w", err)
	}

	content := fmt.Sprintf(`%s
enabled = %t
server-uuid = %q
log-failed-requests = %t
log-sent-data = %t
log-response-status-text = %t
`,
		fileHeader,
		cfg.Enabled,
		cfg.ServerUUID.String(),
		cfg.LogFailedRequests,
		cfg.LogSentData,
		cfg.LogResponseStatusText,
	)

	if err := fsutil.WriteFileAtomic(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}

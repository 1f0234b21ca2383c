package agent

import (
	"os"
	"path/filepath"
	"testing"

	statbeat "github.com/statbeat/statbeat-go"
)

func TestConfig_ApplyDefaults(t *testing.T) {
	cfg := Config{Platform: "server-implementation", ServiceID: 1}
	cfg.ApplyDefaults()

	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want info", cfg.LogLevel)
	}
	if cfg.DataDir != DefaultDataDir {
		t.Errorf("DataDir = %q, want %q", cfg.DataDir, DefaultDataDir)
	}
	if cfg.ServiceName != DefaultServiceName {
		t.Errorf("ServiceName = %q, want %q", cfg.ServiceName, DefaultServiceName)
	}
	if cfg.BaseURL != statbeat.DefaultBaseURL {
		t.Errorf("BaseURL = %q, want %q", cfg.BaseURL, statbeat.DefaultBaseURL)
	}

	// Existing values are preserved.
	cfg2 := Config{Platform: "p", ServiceID: 1, LogLevel: "debug", BaseURL: "https://example.com"}
	cfg2.ApplyDefaults()
	if cfg2.LogLevel != "debug" || cfg2.BaseURL != "https://example.com" {
		t.Error("ApplyDefaults overwrote explicit values")
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"valid", Config{LogLevel: "info", Platform: "p", ServiceID: 1}, false},
		{"bad log level", Config{LogLevel: "loud", Platform: "p", ServiceID: 1}, true},
		{"missing platform", Config{LogLevel: "info", ServiceID: 1}, true},
		{"missing service id", Config{LogLevel: "info", Platform: "p"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestParseConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "platform: server-implementation\n" +
		"service_id: 1234\n" +
		"log_level: debug\n" +
		"data_dir: /tmp/statbeat-test\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	cfg, err := ParseConfig(path)
	if err != nil {
		t.Fatalf("ParseConfig() error = %v", err)
	}
	if cfg.Platform != "server-implementation" {
		t.Errorf("Platform = %q", cfg.Platform)
	}
	if cfg.ServiceID != 1234 {
		t.Errorf("ServiceID = %d, want 1234", cfg.ServiceID)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want debug", cfg.LogLevel)
	}
	if cfg.ServiceName != DefaultServiceName {
		t.Errorf("ServiceName = %q, want default applied", cfg.ServiceName)
	}
}

func TestParseConfig_MissingFile(t *testing.T) {
	if _, err := ParseConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("ParseConfig() = nil, want error for missing file")
	}
}

func TestParseConfig_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("platform: [broken\n"), 0644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	if _, err := ParseConfig(path); err == nil {
		t.Error("ParseConfig() = nil, want parse error")
	}
}

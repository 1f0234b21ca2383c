package cmd

import (
	"log/slog"
	"testing"
)

func TestRootCommand_HasRunSubcommand(t *testing.T) {
	found := false
	for _, c := range rootCmd.Commands() {
		if c.Name() == "run" {
			found = true
		}
	}
	if !found {
		t.Error("run subcommand not registered")
	}
}

func TestSetVersionInfo(t *testing.T) {
	SetVersionInfo("1.2.3", "abc123", "2026-01-01")
	if rootCmd.Version != "1.2.3" {
		t.Errorf("Version = %q, want 1.2.3", rootCmd.Version)
	}
}

func TestNewLogger_Levels(t *testing.T) {
	tests := []struct {
		level string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"unknown", slog.LevelInfo},
	}

	for _, tt := range tests {
		logger := newLogger(tt.level)
		if !logger.Enabled(t.Context(), tt.want) {
			t.Errorf("level %q: logger does not enable %v", tt.level, tt.want)
		}
		if tt.want > slog.LevelDebug && logger.Enabled(t.Context(), tt.want-4) {
			t.Errorf("level %q: logger enables %v, want disabled", tt.level, tt.want-4)
		}
	}
}

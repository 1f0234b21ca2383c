package cmd

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/statbeat/statbeat-go/internal/agent"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the reporting agent until interrupted",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := agent.ParseConfig(cfgFile)
		if err != nil {
			return err
		}
		if logLevel != "" {
			cfg.LogLevel = logLevel
			if err := cfg.Validate(); err != nil {
				return err
			}
		}

		logger := newLogger(cfg.LogLevel)
		svc, err := agent.NewService(cfg, buildVersion, logger)
		if err != nil {
			logger.Error("agent startup failed", "error", err)
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return svc.Run(ctx)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

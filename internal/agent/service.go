package agent

import (
	"context"
	"log/slog"

	statbeat "github.com/statbeat/statbeat-go"
	"github.com/statbeat/statbeat-go/config"
)

// Service wires the persisted telemetry settings and the host charts
// into one reporting session.
type Service struct {
	metrics *statbeat.Metrics
	logger  *slog.Logger
}

// NewService loads the telemetry settings from cfg.DataDir and builds
// the reporting session. version is reported as the service version.
func NewService(cfg *Config, version string, logger *slog.Logger) (*Service, error) {
	settings, err := config.Load(cfg.DataDir)
	if err != nil {
		return nil, err
	}

	m, err := statbeat.New(statbeat.Options{
		Platform:              cfg.Platform,
		ServerUUID:            settings.ServerUUID,
		ServiceID:             cfg.ServiceID,
		Enabled:               settings.Enabled,
		LogErrors:             settings.LogFailedRequests,
		LogSentData:           settings.LogSentData,
		LogResponseStatusText: settings.LogResponseStatusText,
		BaseURL:               cfg.BaseURL,
		AppendPlatformData:    statbeat.AppendOSData,
		AppendServiceData: func(data map[string]any) {
			data["serviceName"] = cfg.ServiceName
			data["serviceVersion"] = version
		},
		Logger: logger,
	})
	if err != nil {
		return nil, err
	}

	for _, c := range statbeat.OSCharts() {
		m.AddChart(c)
	}

	return &Service{
		metrics: m,
		logger:  logger.With("component", "agent"),
	}, nil
}

// Metrics exposes the underlying session so callers can register
// additional charts.
func (s *Service) Metrics() *statbeat.Metrics { return s.metrics }

// Run blocks until ctx is cancelled, then shuts the session down.
// Run always returns nil.
func (s *Service) Run(ctx context.Context) error {
	if !s.metrics.Enabled() {
		s.logger.Info("agent: reporting disabled in telemetry settings, idling")
	} else {
		s.logger.Info("agent: reporting session started")
	}

	<-ctx.Done()
	s.metrics.Shutdown()
	s.logger.Info("agent: reporting session stopped")
	return nil
}

// Package statbeat implements an anonymized usage-telemetry client for
// embedding in plugins and services. A session periodically assembles a
// JSON payload from injected environment accessors and registered
// charts, gzips it and reports it to a collection endpoint.
//
// All reporting work runs on one background worker; the embedding
// application's own paths never block on a submission. Failures are
// contained: a bad chart is skipped, a failed submission waits for the
// next scheduled attempt, and nothing ever propagates out of the
// session.
package statbeat

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/statbeat/statbeat-go/charts"
	"github.com/statbeat/statbeat-go/internal/scheduler"
	"github.com/statbeat/statbeat-go/internal/transport"
)

// Version is the revision of the reporting pipeline.
const Version = "3.0.3"

// DefaultBaseURL is the default collection endpoint.
const DefaultBaseURL = "https://statbeat.io"

const (
	// submitPeriod is the fixed rate between submission cycles.
	submitPeriod = 30 * time.Minute

	// Initial submissions are staggered so many sessions started at
	// the same wall-clock moment do not report simultaneously.
	initialDelayMin    = 3 * time.Minute
	initialDelayJitter = 3 * time.Minute
	firstRateJitter    = 30 * time.Minute
)

// Options configures a Metrics session. Environment and service fields
// are supplied as accessor functions so embedders (and tests) can
// substitute their own sources.
type Options struct {
	// Platform identifies the embedding ecosystem; it becomes the
	// final path segment of the submission URL (required).
	Platform string

	// ServerUUID is the stable anonymous server identifier (required).
	ServerUUID uuid.UUID

	// ServiceID is the numeric identifier assigned to the embedding
	// plugin or service (required).
	ServiceID int

	// Enabled turns reporting on. When false, the session never
	// schedules any work.
	Enabled bool

	// LogErrors logs per-chart and per-cycle failures.
	LogErrors bool

	// LogSentData logs every outgoing payload before compression.
	LogSentData bool

	// LogResponseStatusText logs the response body of successful
	// submissions.
	LogResponseStatusText bool

	// BaseURL overrides the collection endpoint.
	// Default: DefaultBaseURL
	BaseURL string

	// ConnectTimeout is the maximum time to wait for a TCP connection.
	// Default: transport.DefaultConnectTimeout
	ConnectTimeout time.Duration

	// RequestTimeout bounds one complete submission request, so a hung
	// connection cannot stall the worker indefinitely.
	// Default: transport.DefaultRequestTimeout
	RequestTimeout time.Duration

	// AppendPlatformData adds platform-level fields to the envelope.
	AppendPlatformData func(data map[string]any)

	// AppendServiceData adds service-level fields to the envelope.
	AppendServiceData func(data map[string]any)

	// ServiceEnabled reports whether this specific service's telemetry
	// is still turned on. A false return shuts the session down at the
	// next cycle.
	// Default: always true
	ServiceEnabled func() bool

	// Logger receives diagnostic output.
	// Default: slog.Default()
	Logger *slog.Logger
}

// ApplyDefaults sets default values for zero-valued fields.
func (o *Options) ApplyDefaults() {
	if o.BaseURL == "" {
		o.BaseURL = DefaultBaseURL
	}
	if o.ServiceEnabled == nil {
		o.ServiceEnabled = func() bool { return true }
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
}

// Validate checks that required fields are set.
func (o *Options) Validate() error {
	if o.Platform == "" {
		return fmt.Errorf("statbeat: options: Platform is required")
	}
	if o.ServerUUID == uuid.Nil {
		return fmt.Errorf("statbeat: options: ServerUUID is required")
	}
	if o.ServiceID == 0 {
		return fmt.Errorf("statbeat: options: ServiceID is required")
	}
	return nil
}

// Metrics is one reporting session. The embedding application owns it
// and must call Shutdown on teardown.
type Metrics struct {
	opts   Options
	sender *transport.Sender
	sched  *scheduler.Scheduler
	logger *slog.Logger

	mu     sync.Mutex
	charts []charts.Chart
}

// New creates a session and, when reporting is enabled, arms its
// scheduler with one randomized initial submission and a fixed-rate
// repeating submission every 30 minutes.
func New(opts Options) (*Metrics, error) {
	opts.ApplyDefaults()
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	sender, err := transport.NewSender(transport.Config{
		BaseURL:        opts.BaseURL,
		ConnectTimeout: opts.ConnectTimeout,
		RequestTimeout: opts.RequestTimeout,
	}, opts.Logger)
	if err != nil {
		return nil, err
	}

	m := &Metrics{
		opts:   opts,
		sender: sender,
		logger: opts.Logger.With("component", "statbeat"),
	}

	if opts.Enabled {
		m.sched = scheduler.New(opts.Logger)
		m.startSubmitting()
	}
	return m, nil
}

// Enabled reports whether this session submits data.
func (m *Metrics) Enabled() bool { return m.opts.Enabled }

// AddChart registers a chart with the session. Charts are polled every
// cycle for the rest of the session's lifetime; registration is safe
// concurrently with an in-flight cycle.
func (m *Metrics) AddChart(c charts.Chart) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.charts = append(m.charts, c)
}

// Shutdown stops all future submissions. An in-flight submission is
// allowed to finish. Shutdown is idempotent.
func (m *Metrics) Shutdown() {
	if m.sched != nil {
		m.sched.Shutdown()
	}
}

func (m *Metrics) startSubmitting() {
	initial := initialDelayMin + time.Duration(rand.Float64()*float64(initialDelayJitter))
	jitter := time.Duration(rand.Float64() * float64(firstRateJitter))

	m.sched.ScheduleOnce(m.submitTask, initial)
	m.sched.ScheduleAtFixedRate(m.submitTask, initial+jitter, submitPeriod)
}

// submitTask is the scheduled entry point for one cycle. Discovering a
// disabled flag here is the normal self-termination path, not an error.
func (m *Metrics) submitTask() {
	if !m.opts.Enabled || !m.opts.ServiceEnabled() {
		m.sched.Shutdown()
		return
	}
	m.submitData()
}

// submitData runs one submission cycle: gather, assemble, send. Every
// failure is logged and swallowed so the scheduler keeps firing.
func (m *Metrics) submitData() {
	platformData := map[string]any{}
	if m.opts.AppendPlatformData != nil {
		m.opts.AppendPlatformData(platformData)
	}

	serviceData := map[string]any{}
	if m.opts.AppendServiceData != nil {
		m.opts.AppendServiceData(serviceData)
	}

	chartData := []map[string]any{}
	for _, c := range m.chartSnapshot() {
		data, err := chartPayload(c)
		if err != nil {
			if m.opts.LogErrors {
				m.logger.Error(fmt.Sprintf("Failed to get data for custom chart with id %s", c.ID()), "error", err)
			}
			continue
		}
		if data != nil {
			chartData = append(chartData, data)
		}
	}

	serviceData["id"] = m.opts.ServiceID
	serviceData["customCharts"] = chartData
	platformData["service"] = serviceData
	platformData["serverUUID"] = m.opts.ServerUUID.String()

	if err := m.sendData(platformData); err != nil {
		if m.opts.LogErrors {
			m.logger.Error("Could not submit metrics data", "error", err)
		}
	}
}

// sendData serializes, compresses and POSTs one envelope.
func (m *Metrics) sendData(envelope map[string]any) error {
	payload, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("statbeat: marshal envelope: %w", err)
	}

	if m.opts.LogSentData {
		pretty, err := json.MarshalIndent(envelope, "", "  ")
		if err == nil {
			m.logger.Info("sending metrics data", "payload", string(pretty))
		}
	}

	compressed, err := transport.Compress(payload)
	if err != nil {
		return err
	}

	body, err := m.sender.Send(context.Background(), m.opts.Platform, compressed)
	if err != nil {
		return err
	}

	if m.opts.LogResponseStatusText {
		m.logger.Info("metrics data submitted", "response", body)
	}
	return nil
}

// chartSnapshot copies the registry so a cycle iterates a stable view
// while AddChart keeps working from other goroutines.
func (m *Metrics) chartSnapshot() []charts.Chart {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]charts.Chart, len(m.charts))
	copy(out, m.charts)
	return out
}

// chartPayload polls one chart inside its failure boundary: an error
// return or a panic from the producer is contained to this chart.
func chartPayload(c charts.Chart) (data map[string]any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("statbeat: chart producer panicked: %v", r)
		}
	}()
	return c.Data()
}

// Package transport implements the outbound HTTP path of the telemetry
// pipeline: gzip compression and the POST to the collection endpoint.
package transport

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
)

const (
	// apiPath is the collection endpoint path; the platform name is
	// appended as the final path segment.
	apiPath = "/api/v2/data/"

	// userAgent is the fixed descriptive User-Agent for submissions.
	userAgent = "Metrics-Service/1"

	// maxResponseBody is the maximum number of bytes read from a
	// success response body.
	maxResponseBody = 1 << 20 // 1 MiB
)

// Sender performs the HTTP POST of one compressed payload per
// submission cycle. It is safe for concurrent use, though the
// reporting pipeline only ever calls it from its single worker.
type Sender struct {
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger
}

// NewSender creates a Sender with the given configuration.
func NewSender(cfg Config, logger *slog.Logger) (*Sender, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	transport := &http.Transport{
		TLSClientConfig: &tls.Config{
			MinVersion: tls.VersionTLS12,
		},
		DialContext: (&net.Dialer{
			Timeout: cfg.ConnectTimeout,
		}).DialContext,
		DisableCompression: true,
		DisableKeepAlives:  true,
	}

	return &Sender{
		httpClient: &http.Client{
			Timeout:   cfg.RequestTimeout,
			Transport: transport,
		},
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		logger:  logger.With("component", "transport"),
	}, nil
}

// Send POSTs the gzip-compressed payload for the given platform and
// returns the response body text. Any non-2xx status is returned as an
// *APIError.
func (s *Sender) Send(ctx context.Context, platform string, compressed []byte) (string, error) {
	url := s.baseURL + apiPath + platform
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(compressed))
	if err != nil {
		return "", fmt.Errorf("transport: create request: %w", err)
	}

	req.ContentLength = int64(len(compressed))
	req.Close = true
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Connection", "close")
	req.Header.Set("Content-Encoding", "gzip")
	req.Header.Set("Content-Length", strconv.Itoa(len(compressed)))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("transport: send data: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", errorFromResponse(resp)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return "", fmt.Errorf("transport: read response: %w", err)
	}
	return string(body), nil
}

package transport

import (
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// testSender creates an httptest.Server and a Sender pointed at it.
func testSender(t *testing.T, handler http.HandlerFunc) *Sender {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	s, err := NewSender(Config{BaseURL: srv.URL}, testLogger())
	if err != nil {
		t.Fatalf("create sender: %v", err)
	}
	return s
}

func TestConfig_ApplyDefaults(t *testing.T) {
	cfg := Config{BaseURL: "https://statbeat.io"}
	cfg.ApplyDefaults()

	if cfg.ConnectTimeout != 10*time.Second {
		t.Errorf("ConnectTimeout = %v, want %v", cfg.ConnectTimeout, 10*time.Second)
	}
	if cfg.RequestTimeout != 30*time.Second {
		t.Errorf("RequestTimeout = %v, want %v", cfg.RequestTimeout, 30*time.Second)
	}

	// Existing values are preserved.
	cfg2 := Config{BaseURL: "https://statbeat.io", RequestTimeout: 5 * time.Second}
	cfg2.ApplyDefaults()
	if cfg2.RequestTimeout != 5*time.Second {
		t.Errorf("RequestTimeout = %v, want %v", cfg2.RequestTimeout, 5*time.Second)
	}
}

func TestConfig_Validate(t *testing.T) {
	cfg := Config{}
	if err := cfg.Validate(); err == nil {
		t.Fatal("Validate() = nil, want error for empty BaseURL")
	}
	cfg.BaseURL = "https://statbeat.io"
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}
}

func TestSender_Send(t *testing.T) {
	payload := []byte(`{"serverUUID":"abc"}`)
	compressed, err := Compress(payload)
	if err != nil {
		t.Fatalf("Compress() error = %v", err)
	}

	var gotReq *http.Request
	var gotBody []byte
	s := testSender(t, func(w http.ResponseWriter, r *http.Request) {
		gotReq = r
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	body, err := s.Send(context.Background(), "server-implementation", compressed)
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if body != `{"status":"ok"}` {
		t.Errorf("Send() body = %q, want %q", body, `{"status":"ok"}`)
	}

	if gotReq.Method != http.MethodPost {
		t.Errorf("method = %s, want POST", gotReq.Method)
	}
	if gotReq.URL.Path != "/api/v2/data/server-implementation" {
		t.Errorf("path = %q, want /api/v2/data/server-implementation", gotReq.URL.Path)
	}

	headers := map[string]string{
		"Accept":           "application/json",
		"Content-Encoding": "gzip",
		"Content-Type":     "application/json",
		"User-Agent":       "Metrics-Service/1",
	}
	for k, want := range headers {
		if got := gotReq.Header.Get(k); got != want {
			t.Errorf("header %s = %q, want %q", k, got, want)
		}
	}
	if gotReq.ContentLength != int64(len(compressed)) {
		t.Errorf("Content-Length = %d, want %d", gotReq.ContentLength, len(compressed))
	}

	// The body on the wire is the compressed bytes, untouched.
	if !bytes.Equal(gotBody, compressed) {
		t.Error("request body differs from compressed payload")
	}
	gr, err := gzip.NewReader(bytes.NewReader(gotBody))
	if err != nil {
		t.Fatalf("gzip reader: %v", err)
	}
	decoded, err := io.ReadAll(gr)
	if err != nil {
		t.Fatalf("gunzip body: %v", err)
	}
	if !bytes.Equal(decoded, payload) {
		t.Errorf("decompressed body = %q, want %q", decoded, payload)
	}
}

func TestSender_NonSuccessStatus(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   *APIError
	}{
		{"bad request", http.StatusBadRequest, ErrBadRequest},
		{"not found", http.StatusNotFound, ErrNotFound},
		{"rate limited", http.StatusTooManyRequests, ErrRateLimit},
		{"server error", http.StatusInternalServerError, ErrServer},
		{"bad gateway matches ErrServer", http.StatusBadGateway, ErrServer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := testSender(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte("nope"))
			})

			_, err := s.Send(context.Background(), "server-implementation", []byte("x"))
			if err == nil {
				t.Fatalf("Send() = nil, want error for status %d", tt.status)
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("Send() error = %v, want errors.Is %v", err, tt.want)
			}
			var apiErr *APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("Send() error = %v, want *APIError", err)
			}
			if apiErr.StatusCode != tt.status {
				t.Errorf("StatusCode = %d, want %d", apiErr.StatusCode, tt.status)
			}
		})
	}
}

func TestSender_ConnectionFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	s, err := NewSender(Config{BaseURL: url, RequestTimeout: time.Second}, testLogger())
	if err != nil {
		t.Fatalf("create sender: %v", err)
	}
	if _, err := s.Send(context.Background(), "server-implementation", []byte("x")); err == nil {
		t.Error("Send() = nil, want error for closed server")
	}
}

func TestNewSender_RequiresBaseURL(t *testing.T) {
	if _, err := NewSender(Config{}, testLogger()); err == nil {
		t.Error("NewSender() = nil, want config validation error")
	}
}

func TestCompress_RoundTrip(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"empty", ""},
		{"ascii", `{"service":{"id":1234,"customCharts":[]}}`},
		{"non-ascii", `{"value":"serveur privé — 私のサーバー"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			compressed, err := Compress([]byte(tt.in))
			if err != nil {
				t.Fatalf("Compress() error = %v", err)
			}

			gr, err := gzip.NewReader(bytes.NewReader(compressed))
			if err != nil {
				t.Fatalf("gzip reader: %v", err)
			}
			out, err := io.ReadAll(gr)
			if err != nil {
				t.Fatalf("decompress: %v", err)
			}
			if err := gr.Close(); err != nil {
				t.Fatalf("close reader: %v", err)
			}
			if !bytes.Equal(out, []byte(tt.in)) {
				t.Errorf("round trip = %q, want %q", out, tt.in)
			}
		})
	}
}

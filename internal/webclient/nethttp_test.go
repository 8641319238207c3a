package webclient_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/auriti-labs/geo-optimizer/internal/logging"
	"github.com/auriti-labs/geo-optimizer/internal/webclient"
)

// noopLogger is a test-local logger implementation that discards all log messages
type noopLogger struct{}

func (n *noopLogger) Debug(msg string, fields ...logging.Field) {}
func (n *noopLogger) Info(msg string, fields ...logging.Field)  {}
func (n *noopLogger) Warn(msg string, fields ...logging.Field)  {}
func (n *noopLogger) Error(msg string, fields ...logging.Field) {}
func (n *noopLogger) With(fields ...logging.Field) logging.Logger {
	return n
}

// TestNewNetHTTPClient_Construct verifies that NewNetHTTPClient returns a non-nil client
func TestNewNetHTTPClient_Construct(t *testing.T) {
	t.Parallel()
	client, err := webclient.NewNetHTTPClient(webclient.DefaultConfig(), &noopLogger{}, nil)
	if err != nil {
		t.Fatalf("NewNetHTTPClient returned error: %v", err)
	}
	if client == nil {
		t.Fatal("NewNetHTTPClient returned nil client")
	}
	defer client.Close()

	if client.HTTPClient().Timeout != 10*time.Second {
		t.Errorf("expected default 10s timeout, got %v", client.HTTPClient().Timeout)
	}
}

// TestNewNetHTTPClient_WithCustomClient verifies that a custom *http.Client can be injected
func TestNewNetHTTPClient_WithCustomClient(t *testing.T) {
	t.Parallel()
	customClient := &http.Client{}

	client, err := webclient.NewNetHTTPClient(webclient.Config{Timeout: 3 * time.Second}, &noopLogger{}, customClient)
	if err != nil {
		t.Fatalf("NewNetHTTPClient returned error: %v", err)
	}
	defer client.Close()

	if client.HTTPClient() != customClient {
		t.Error("expected injected client to be used")
	}
	if customClient.Timeout != 3*time.Second {
		t.Errorf("expected injected client to inherit timeout, got %v", customClient.Timeout)
	}
}

func TestNewNetHTTPClient_NilLogger(t *testing.T) {
	t.Parallel()
	client, err := webclient.NewNetHTTPClient(webclient.Config{}, nil, nil)
	if err != nil {
		t.Fatalf("NewNetHTTPClient returned error: %v", err)
	}
	if err := client.Close(); err != nil {
		t.Errorf("Close() returned error: %v", err)
	}
}

// ─── User-Agent ───────────────────────────────────────────────────────

func TestNetHTTPClient_SetsUserAgent(t *testing.T) {
	t.Parallel()
	var got string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("User-Agent")
	}))
	defer ts.Close()

	client, _ := webclient.NewNetHTTPClient(webclient.Config{}, &noopLogger{}, ts.Client())
	defer client.Close()

	if _, err := client.Get(context.Background(), ts.URL); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != webclient.DefaultUserAgent {
		t.Errorf("expected %q, got %q", webclient.DefaultUserAgent, got)
	}
}

// ─── Error classification ─────────────────────────────────────────────

func TestNetHTTPClient_Timeout_IsErrTimeout(t *testing.T) {
	t.Parallel()
	release := make(chan struct{})
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer ts.Close()
	defer close(release)

	client, _ := webclient.NewNetHTTPClient(webclient.Config{Timeout: 50 * time.Millisecond}, &noopLogger{}, nil)
	defer client.Close()

	_, err := client.Get(context.Background(), ts.URL)
	if !errors.Is(err, webclient.ErrTimeout) {
		t.Fatalf("expected ErrTimeout, got %v", err)
	}
	if !strings.HasPrefix(err.Error(), "Timeout") {
		t.Errorf("expected message to start with Timeout, got %q", err.Error())
	}
}

func TestNetHTTPClient_Refused_IsErrConnection(t *testing.T) {
	t.Parallel()
	ts := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := ts.URL
	ts.Close()

	client, _ := webclient.NewNetHTTPClient(webclient.Config{Timeout: time.Second}, &noopLogger{}, nil)
	defer client.Close()

	_, err := client.Get(context.Background(), url)
	if !errors.Is(err, webclient.ErrConnection) {
		t.Fatalf("expected ErrConnection, got %v", err)
	}
}

func TestNetHTTPClient_ContentLengthTooLarge(t *testing.T) {
	t.Parallel()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Length", strconv.Itoa(2048))
		_, _ = io.WriteString(w, strings.Repeat("a", 2048))
	}))
	defer ts.Close()

	client, _ := webclient.NewNetHTTPClient(webclient.Config{MaxBodyBytes: 1024}, &noopLogger{}, ts.Client())
	defer client.Close()

	_, err := client.Get(context.Background(), ts.URL)
	if !errors.Is(err, webclient.ErrTooLarge) {
		t.Fatalf("expected ErrTooLarge, got %v", err)
	}
}

func TestNetHTTPClient_StreamedBodyTooLarge(t *testing.T) {
	t.Parallel()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fl := w.(http.Flusher)
		for i := 0; i < 4; i++ {
			_, _ = io.WriteString(w, strings.Repeat("b", 512))
			fl.Flush()
		}
	}))
	defer ts.Close()

	client, _ := webclient.NewNetHTTPClient(webclient.Config{MaxBodyBytes: 1024}, &noopLogger{}, ts.Client())
	defer client.Close()

	_, err := client.Get(context.Background(), ts.URL)
	if !errors.Is(err, webclient.ErrTooLarge) {
		t.Fatalf("expected ErrTooLarge, got %v", err)
	}
}

func TestNetHTTPClient_FollowsRedirects_ReportsFinalURL(t *testing.T) {
	t.Parallel()
	mux := http.NewServeMux()
	mux.HandleFunc("/old", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/new", http.StatusMovedPermanently)
	})
	mux.HandleFunc("/new", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, "moved")
	})
	ts := httptest.NewServer(mux)
	defer ts.Close()

	client, _ := webclient.NewNetHTTPClient(webclient.Config{}, &noopLogger{}, ts.Client())
	defer client.Close()

	resp, err := client.Get(context.Background(), ts.URL+"/old")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if resp.URL != ts.URL+"/new" {
		t.Errorf("expected final URL %s/new, got %s", ts.URL, resp.URL)
	}
	if !resp.OK() {
		t.Errorf("expected OK response, got %d", resp.StatusCode)
	}
}

// ─── Header helpers ───────────────────────────────────────────────────

func TestFlattenExpandHeaders(t *testing.T) {
	t.Parallel()
	h := http.Header{}
	h.Add("Content-Type", "text/html")
	h.Add("Set-Cookie", "a=1")
	h.Add("Set-Cookie", "b=2")

	flat := webclient.FlattenHeaders(h)
	if flat["Content-Type"] != "text/html" || flat["Set-Cookie"] != "a=1" {
		t.Errorf("unexpected flattened headers: %v", flat)
	}
	back := webclient.ExpandHeaders(flat)
	if back.Get("content-type") != "text/html" {
		t.Errorf("expected canonicalized header lookup, got %v", back)
	}
}

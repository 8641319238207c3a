// Package testutil provides shared test doubles for use across package tests.
// All dummies implement the corresponding interfaces from the production code,
// allowing injection into components under test without real I/O or side effects.
package testutil

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/auriti-labs/geo-optimizer/internal/logging"
	"github.com/auriti-labs/geo-optimizer/internal/registry"
	"github.com/auriti-labs/geo-optimizer/internal/webclient"
)

// ─── Logger ────────────────────────────────────────────────────────────

// DummyLogger implements logging.Logger with in-memory recording.
type DummyLogger struct {
	mu     sync.Mutex
	Errors []string
	Infos  []string
	Debugs []string
	Warns  []string
}

func (l *DummyLogger) Debug(msg string, fields ...logging.Field) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Debugs = append(l.Debugs, msg)
}

func (l *DummyLogger) Info(msg string, fields ...logging.Field) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Infos = append(l.Infos, msg)
}

func (l *DummyLogger) Warn(msg string, fields ...logging.Field) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Warns = append(l.Warns, msg)
}

func (l *DummyLogger) Error(msg string, fields ...logging.Field) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Errors = append(l.Errors, msg)
}

func (l *DummyLogger) With(_ ...logging.Field) logging.Logger { return l }

// WarnCount returns the number of recorded warnings.
func (l *DummyLogger) WarnCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.Warns)
}

// ─── WebClient ─────────────────────────────────────────────────────────

// Page is a canned response served by DummyWebClient.
type Page struct {
	Status  int
	Body    string
	Headers map[string]string
}

// DummyWebClient implements webclient.WebClient.
// By default it returns body "ok:<url>" with status 200. When Pages is set,
// listed URLs get their canned page and any other URL gets a 404.
// Set FailURLs[url] = true or Errors[url] to force an error for a specific URL.
type DummyWebClient struct {
	ResponseDelay time.Duration
	FailURLs      map[string]bool
	Errors        map[string]error
	Pages         map[string]Page

	mu          sync.Mutex
	Requests    []*webclient.Request
	inFlight    int
	MaxInFlight int
}

func (d *DummyWebClient) Do(ctx context.Context, req *webclient.Request) (*webclient.Response, error) {
	d.mu.Lock()
	d.Requests = append(d.Requests, req)
	d.inFlight++
	if d.inFlight > d.MaxInFlight {
		d.MaxInFlight = d.inFlight
	}
	d.mu.Unlock()
	defer func() {
		d.mu.Lock()
		d.inFlight--
		d.mu.Unlock()
	}()

	if d.ResponseDelay > 0 {
		select {
		case <-time.After(d.ResponseDelay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if d.FailURLs != nil && d.FailURLs[req.URL] {
		return nil, &errString{"dummy fetch fail for " + req.URL}
	}
	if err, ok := d.Errors[req.URL]; ok {
		return nil, err
	}

	if d.Pages != nil {
		p, ok := d.Pages[req.URL]
		if !ok {
			return &webclient.Response{Request: req, URL: req.URL, Headers: http.Header{},
				Body: []byte("not found"), StatusCode: http.StatusNotFound, FetchedAt: time.Now()}, nil
		}
		status := p.Status
		if status == 0 {
			status = http.StatusOK
		}
		return &webclient.Response{
			Request:    req,
			URL:        req.URL,
			Headers:    webclient.ExpandHeaders(p.Headers),
			Body:       []byte(p.Body),
			StatusCode: status,
			FetchedAt:  time.Now(),
		}, nil
	}

	return &webclient.Response{
		Request:    req,
		URL:        req.URL,
		Headers:    http.Header{},
		Body:       []byte("ok:" + req.URL),
		StatusCode: 200,
		FetchedAt:  time.Now(),
	}, nil
}

func (d *DummyWebClient) Get(ctx context.Context, url string) (*webclient.Response, error) {
	return d.Do(ctx, &webclient.Request{Method: "GET", URL: url})
}

func (d *DummyWebClient) Close() error { return nil }

// RequestedURLs returns the URLs requested so far, in arrival order.
func (d *DummyWebClient) RequestedURLs() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]string, 0, len(d.Requests))
	for _, r := range d.Requests {
		out = append(out, r.URL)
	}
	return out
}

// ─── Check ─────────────────────────────────────────────────────────────

// DummyCheck implements registry.Check with a fixed outcome.
type DummyCheck struct {
	CheckName string
	Max       int
	Score     int
	Err       error
	Calls     int
}

func (d *DummyCheck) Name() string        { return d.CheckName }
func (d *DummyCheck) Description() string { return "dummy check " + d.CheckName }
func (d *DummyCheck) MaxScore() int {
	if d.Max == 0 {
		return registry.DefaultMaxScore
	}
	return d.Max
}

func (d *DummyCheck) Run(_ context.Context, _ string, _ *goquery.Document, _ registry.Options) (registry.CheckResult, error) {
	d.Calls++
	if d.Err != nil {
		return registry.CheckResult{}, d.Err
	}
	r := registry.NewResult(d.CheckName)
	r.MaxScore = d.MaxScore()
	r.Score = d.Score
	r.Passed = d.Score*2 >= r.MaxScore
	return r, nil
}

// ─── helpers ───────────────────────────────────────────────────────────

type errString struct{ s string }

func (e *errString) Error() string { return e.s }

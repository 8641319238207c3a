package app_test

import (
	"context"
	"errors"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/auriti-labs/geo-optimizer/internal/app"
	"github.com/auriti-labs/geo-optimizer/internal/config"
	"github.com/auriti-labs/geo-optimizer/internal/demoserver"
	"github.com/auriti-labs/geo-optimizer/internal/llms"
	"github.com/auriti-labs/geo-optimizer/internal/testutil"
)

func demoSite(t *testing.T, variant string) string {
	t.Helper()
	srv := httptest.NewServer(demoserver.NewDemoServer(demoserver.Config{InitialVariant: variant}).Handler())
	t.Cleanup(srv.Close)
	return srv.URL
}

func newTestApp(t *testing.T, mutate func(*app.Config)) *app.Application {
	t.Helper()
	dir := t.TempDir()
	cfg := app.DefaultConfig()
	cfg.Lang = "en"
	cfg.HistoryDSN = filepath.Join(dir, "history.db")
	cfg.CacheCfg.Dir = filepath.Join(dir, "cache")
	if mutate != nil {
		mutate(cfg)
	}
	a, err := app.NewApplication(cfg, &testutil.DummyLogger{})
	if err != nil {
		t.Fatalf("NewApplication: %v", err)
	}
	t.Cleanup(func() { a.Close() })
	return a
}

// ─── Wiring ────────────────────────────────────────────────────────────

func TestNewApplication_LoadsExtraChecks(t *testing.T) {
	t.Parallel()
	a := newTestApp(t, nil)
	names := a.Checks().Names()
	for _, want := range []string{"https", "html_lang", "sitemap"} {
		found := false
		for _, n := range names {
			if n == want {
				found = true
			}
		}
		if !found {
			t.Errorf("check %q not registered: %v", want, names)
		}
	}
	if a.Translator().Lang() != "en" {
		t.Errorf("expected en translator")
	}
	if a.Cache() != nil {
		t.Error("cache should be disabled by default")
	}
}

func TestAudit_SavesToHistory(t *testing.T) {
	t.Parallel()
	site := demoSite(t, demoserver.VariantOptimized)
	a := newTestApp(t, nil)
	ctx := context.Background()

	res, err := a.Audit(ctx, site)
	if err != nil {
		t.Fatalf("Audit: %v", err)
	}
	if res.Score != 100 {
		t.Errorf("expected 100, got %d", res.Score)
	}
	if len(res.Checks) != 3 {
		t.Errorf("expected 3 extra checks, got %d", len(res.Checks))
	}

	store, err := a.History()
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	latest, err := store.Latest(ctx, res.URL)
	if err != nil {
		t.Fatalf("Latest: %v", err)
	}
	if latest.ID != res.ID || latest.Score != 100 {
		t.Errorf("history mismatch: %+v", latest)
	}
}

func TestHistory_Disabled(t *testing.T) {
	t.Parallel()
	a := newTestApp(t, func(c *app.Config) { c.HistoryDSN = "" })
	if _, err := a.History(); !errors.Is(err, app.ErrHistoryDisabled) {
		t.Errorf("expected ErrHistoryDisabled, got %v", err)
	}
	site := demoSite(t, demoserver.VariantBare)
	if _, err := a.Audit(context.Background(), site); err != nil {
		t.Errorf("audit without history should succeed: %v", err)
	}
}

func TestAudit_CacheStoresResponses(t *testing.T) {
	t.Parallel()
	site := demoSite(t, demoserver.VariantOptimized)
	a := newTestApp(t, func(c *app.Config) { c.CacheCfg.Enabled = true })

	if _, err := a.Audit(context.Background(), site); err != nil {
		t.Fatalf("Audit: %v", err)
	}
	st, err := a.Cache().Stats()
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if st.Files < 3 {
		t.Errorf("expected homepage, robots and llms cached, got %d files", st.Files)
	}
}

func TestGenerateLlms(t *testing.T) {
	t.Parallel()
	site := demoSite(t, demoserver.VariantOptimized)
	a := newTestApp(t, nil)

	out, err := a.GenerateLlms(context.Background(), llms.Options{BaseURL: site})
	if err != nil {
		t.Fatalf("GenerateLlms: %v", err)
	}
	if !strings.HasPrefix(out, "# ") || !strings.Contains(out, site+"/tools/mortgage-calculator") {
		t.Errorf("unexpected llms.txt:\n%s", out)
	}
}

func TestGenerateLlmsFull(t *testing.T) {
	t.Parallel()
	site := demoSite(t, demoserver.VariantOptimized)
	a := newTestApp(t, nil)

	out, err := a.GenerateLlmsFull(context.Background(), llms.Options{BaseURL: site, MaxURLs: 2})
	if err != nil {
		t.Fatalf("GenerateLlmsFull: %v", err)
	}
	if !strings.Contains(out, "Source: "+site+"/tools/mortgage-calculator") {
		t.Errorf("expected mortgage page section:\n%s", out)
	}
	if strings.Contains(out, "Source: "+site+"/tools/bmi-calculator") {
		t.Errorf("MaxURLs should limit the pages:\n%s", out)
	}
}

// ─── Jobs ──────────────────────────────────────────────────────────────

func TestStartAuditJob_StreamsProgressAndResult(t *testing.T) {
	t.Parallel()
	site := demoSite(t, demoserver.VariantOptimized)
	a := newTestApp(t, nil)

	job, err := a.StartAuditJob(context.Background(), site)
	if err != nil {
		t.Fatalf("StartAuditJob: %v", err)
	}

	var events []app.JobEvent
	timeout := time.After(10 * time.Second)
loop:
	for {
		select {
		case ev, ok := <-job.Events:
			if !ok {
				break loop
			}
			events = append(events, ev)
		case <-timeout:
			t.Fatal("job did not finish")
		}
	}

	if len(events) < 4 {
		t.Fatalf("expected several events, got %d", len(events))
	}
	if events[0].Status != app.JobPending || events[1].Status != app.JobRunning {
		t.Errorf("unexpected leading events: %+v %+v", events[0], events[1])
	}
	progress := 0
	for _, ev := range events {
		if ev.Type == app.JobEventProgress {
			progress++
		}
		if ev.JobID != job.ID {
			t.Errorf("event for wrong job: %+v", ev)
		}
	}
	if progress == 0 {
		t.Error("expected progress events")
	}
	last := events[len(events)-1]
	if last.Type != app.JobEventResult || last.Result == nil || last.Result.Score != 100 {
		t.Errorf("unexpected final event %+v", last)
	}

	got := a.GetJob(job.ID)
	if got == nil || got.Status != app.JobDone || got.Result == nil || got.EndedAt.IsZero() {
		t.Errorf("unexpected job snapshot %+v", got)
	}
	if len(a.ListJobs()) != 1 {
		t.Errorf("expected one job listed")
	}
}

func TestStartAuditJob_FailureStatus(t *testing.T) {
	t.Parallel()
	a := newTestApp(t, func(c *app.Config) { c.HistoryDSN = "" })

	job, _ := a.StartAuditJob(context.Background(), "http://127.0.0.1:1")
	var last app.JobEvent
	for ev := range job.Events {
		last = ev
	}
	if last.Status != app.JobFailed || !strings.Contains(last.Error, "cannot reach") {
		t.Errorf("expected failed status, got %+v", last)
	}
}

func TestGetJob_Unknown(t *testing.T) {
	t.Parallel()
	a := newTestApp(t, nil)
	if a.GetJob("missing") != nil {
		t.Error("expected nil")
	}
	a.CancelJob("missing")
}

// ─── Config ────────────────────────────────────────────────────────────

func TestConfig_ApplyEnvAndProject(t *testing.T) {
	t.Parallel()
	cfg := app.DefaultConfig()
	cfg.ApplyEnv(config.EnvOverrides{
		CacheDir:   "/tmp/c",
		CacheTTL:   5 * time.Minute,
		HistoryDSN: "postgres://db/geo",
		UserAgent:  "UA/2",
	})
	if cfg.CacheCfg.Dir != "/tmp/c" || cfg.CacheCfg.TTL != 5*time.Minute || cfg.HistoryDSN != "postgres://db/geo" || cfg.WebClientCfg.UserAgent != "UA/2" {
		t.Errorf("env not applied: %+v", cfg)
	}

	p := config.Default()
	p.Audit.Cache = true
	p.ExtraBots["MyBot"] = "custom"
	cfg.ApplyProject(p)
	if !cfg.CacheCfg.Enabled || cfg.ExtraBots["MyBot"] != "custom" {
		t.Errorf("project not applied: %+v", cfg)
	}
}

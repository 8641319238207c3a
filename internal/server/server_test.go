package server_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/auriti-labs/geo-optimizer/internal/app"
	"github.com/auriti-labs/geo-optimizer/internal/demoserver"
	"github.com/auriti-labs/geo-optimizer/internal/server"
	"github.com/auriti-labs/geo-optimizer/internal/testutil"
)

func newTestServer(t *testing.T, withHistory bool) *server.Server {
	t.Helper()

	dir := t.TempDir()
	appCfg := app.DefaultConfig()
	appCfg.Lang = "en"
	appCfg.HistoryDSN = ""
	if withHistory {
		appCfg.HistoryDSN = filepath.Join(dir, "history.db")
	}
	cfg := server.Config{
		ListenAddr: ":0",
		AppConfig:  appCfg,
		Logger:     &testutil.DummyLogger{},
	}

	s, err := server.NewServer(cfg)
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func demoSite(t *testing.T, variant string) string {
	t.Helper()
	srv := httptest.NewServer(demoserver.NewDemoServer(demoserver.Config{InitialVariant: variant}).Handler())
	t.Cleanup(srv.Close)
	return srv.URL
}

func doJSON(t *testing.T, s http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(v); err != nil {
		t.Fatalf("decode JSON response: %v (body: %s)", err, rec.Body.String())
	}
}

// ─── CORS / basics ─────────────────────────────────────────────────────

func TestServer_CORS_HeaderPresent(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, false)

	rec := doJSON(t, s, "GET", "/health", "")

	if origin := rec.Header().Get("Access-Control-Allow-Origin"); origin != "*" {
		t.Errorf("expected CORS origin *, got %q", origin)
	}
}

func TestServer_Preflight(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, false)

	rec := doJSON(t, s, "OPTIONS", "/api/audit", "")

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Methods"); got != "GET, POST" {
		t.Errorf("unexpected methods %q", got)
	}
}

func TestServer_Health(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, true)

	rec := doJSON(t, s, "GET", "/health", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var h server.HealthResponse
	decodeJSON(t, rec, &h)
	if h.Status != "ok" || h.Version != app.Version || !h.History {
		t.Errorf("unexpected health %+v", h)
	}
}

func TestServer_Index(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, false)

	rec := doJSON(t, s, "GET", "/", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "<form") {
		t.Errorf("expected form page, got %d", rec.Code)
	}
}

// ─── Audit API ─────────────────────────────────────────────────────────

func TestServer_Audit_MissingURL(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, false)

	rec := doJSON(t, s, "GET", "/api/audit", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestServer_Audit_InvalidJSON(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, false)

	rec := doJSON(t, s, "POST", "/api/audit", `{invalid}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestServer_Audit_UnknownFormat(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, false)

	rec := doJSON(t, s, "GET", "/api/audit?url=example.com&format=pdf", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestServer_Audit_PostJSON(t *testing.T) {
	t.Parallel()
	site := demoSite(t, demoserver.VariantOptimized)
	s := newTestServer(t, true)

	rec := doJSON(t, s, "POST", "/api/audit", `{"url":"`+site+`"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var res map[string]any
	decodeJSON(t, rec, &res)
	if res["score"] != float64(100) || res["band"] != "excellent" {
		t.Errorf("unexpected result score=%v band=%v", res["score"], res["band"])
	}
}

func TestServer_Audit_HTMLFormat(t *testing.T) {
	t.Parallel()
	site := demoSite(t, demoserver.VariantBare)
	s := newTestServer(t, false)

	rec := doJSON(t, s, "GET", "/api/audit?format=html&url="+site, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("unexpected content type %q", ct)
	}
	if !strings.Contains(rec.Body.String(), "CRITICAL") {
		t.Error("expected critical band in html")
	}
}

func TestServer_Audit_UnreachableIsBadGateway(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, false)

	rec := doJSON(t, s, "GET", "/api/audit?url=http://127.0.0.1:1", "")
	if rec.Code != http.StatusBadGateway {
		t.Errorf("expected 502, got %d", rec.Code)
	}
}

// ─── History / reports ─────────────────────────────────────────────────

func TestServer_HistoryAndReport(t *testing.T) {
	t.Parallel()
	site := demoSite(t, demoserver.VariantOptimized)
	s := newTestServer(t, true)

	rec := doJSON(t, s, "GET", "/api/audit?url="+site, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("audit: %d %s", rec.Code, rec.Body.String())
	}
	var res struct {
		ID string `json:"id"`
	}
	decodeJSON(t, rec, &res)

	rec = doJSON(t, s, "GET", "/api/history?url="+site+"&limit=5", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("history: %d", rec.Code)
	}
	var hist server.HistoryResponse
	decodeJSON(t, rec, &hist)
	if len(hist.Audits) != 1 || hist.Audits[0].ID != res.ID {
		t.Fatalf("unexpected history %+v", hist)
	}

	rec = doJSON(t, s, "GET", "/report/"+res.ID, "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "<!DOCTYPE html>") {
		t.Errorf("expected html report, got %d", rec.Code)
	}

	rec = doJSON(t, s, "GET", "/report/"+res.ID+"?format=github", "")
	if !strings.HasPrefix(rec.Body.String(), "::notice::GEO Score: 100/100 (EXCELLENT)") {
		t.Errorf("unexpected github report %q", rec.Body.String())
	}

	rec = doJSON(t, s, "GET", "/report/does-not-exist", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestServer_History_Disabled(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, false)

	if rec := doJSON(t, s, "GET", "/api/history", ""); rec.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503, got %d", rec.Code)
	}
	if rec := doJSON(t, s, "GET", "/report/x", ""); rec.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503, got %d", rec.Code)
	}
}

// ─── Metrics / swagger ─────────────────────────────────────────────────

func TestServer_MetricsAfterAudit(t *testing.T) {
	t.Parallel()
	site := demoSite(t, demoserver.VariantOptimized)
	s := newTestServer(t, false)

	doJSON(t, s, "GET", "/api/audit?url="+site, "")

	rec := doJSON(t, s, "GET", "/metrics", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{
		`geo_audits_total{band="excellent"} 1`,
		"geo_audit_score_count 1",
		`geo_http_requests_total{method="GET",route="/api/audit"} 1`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("missing %q in metrics", want)
		}
	}
}

func TestServer_SwaggerDoc(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, false)

	rec := doJSON(t, s, "GET", "/swagger/doc.json", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "GEO Optimizer API") {
		t.Error("swagger doc missing title")
	}
}

// ─── WebSocket ─────────────────────────────────────────────────────────

func TestServer_AuditWS_StreamsUntilResult(t *testing.T) {
	t.Parallel()
	site := demoSite(t, demoserver.VariantOptimized)
	s := newTestServer(t, false)
	srv := httptest.NewServer(s)
	t.Cleanup(srv.Close)

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/audit?url=" + site
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	_ = conn.SetReadDeadline(time.Now().Add(10 * time.Second))

	var events []app.JobEvent
	for {
		var ev app.JobEvent
		if err := conn.ReadJSON(&ev); err != nil {
			break
		}
		events = append(events, ev)
	}
	if len(events) == 0 {
		t.Fatal("no events received")
	}
	last := events[len(events)-1]
	if last.Type != app.JobEventResult || last.Result == nil || last.Result.Score != 100 {
		t.Errorf("unexpected final event %+v", last)
	}
}

func TestServer_AuditWS_AcceptsCrossOrigin(t *testing.T) {
	t.Parallel()
	site := demoSite(t, demoserver.VariantBare)
	s := newTestServer(t, false)
	srv := httptest.NewServer(s)
	t.Cleanup(srv.Close)

	hdr := http.Header{}
	hdr.Set("Origin", "https://dashboard.example.org")
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/audit?url=" + site
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, hdr)
	if err != nil {
		t.Fatalf("dial with foreign origin: %v (resp=%v)", err, resp)
	}
	conn.Close()
}

func TestServer_AuditWS_MissingURL(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, false)

	rec := doJSON(t, s, "GET", "/ws/audit", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

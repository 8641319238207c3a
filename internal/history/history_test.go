package history_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/auriti-labs/geo-optimizer/internal/audit"
	"github.com/auriti-labs/geo-optimizer/internal/history"
)

func openStore(t *testing.T) *history.Store {
	t.Helper()
	s, err := history.Open(filepath.Join(t.TempDir(), "data", "history.db"), nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func result(url string, score int, at time.Time) *audit.AuditResult {
	return &audit.AuditResult{URL: url, Score: score, Band: audit.BandFor(score), Timestamp: at}
}

var t0 = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func TestDriver(t *testing.T) {
	t.Parallel()
	cases := map[string]string{
		"postgres://u:p@localhost/geo": "postgres",
		"postgresql://localhost/geo":   "postgres",
		"/var/lib/geo/history.db":      "sqlite",
		"file:history.db?cache=shared": "sqlite",
		"sqlite:///tmp/history.db":     "sqlite",
	}
	for dsn, want := range cases {
		if got := history.Driver(dsn); got != want {
			t.Errorf("Driver(%q) = %s, want %s", dsn, got, want)
		}
	}
}

func TestOpen_EmptyDSN(t *testing.T) {
	t.Parallel()
	if _, err := history.Open("", nil); err == nil {
		t.Fatal("expected error")
	}
}

func TestSaveGet_AssignsIDAndRoundTrips(t *testing.T) {
	t.Parallel()
	s := openStore(t)
	ctx := context.Background()

	r := result("https://example.com", 85, t0)
	r.Recommendations = []string{audit.RecFAQ}
	if err := s.Save(ctx, r); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if len(r.ID) != 36 {
		t.Fatalf("expected uuid id, got %q", r.ID)
	}

	got, err := s.Get(ctx, r.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.URL != r.URL || got.Score != 85 || got.Band != audit.BandGood || !got.Timestamp.Equal(t0) {
		t.Errorf("unexpected %+v", got)
	}
	if len(got.Recommendations) != 1 || got.Recommendations[0] != audit.RecFAQ {
		t.Errorf("recommendations lost: %v", got.Recommendations)
	}
}

func TestSave_KeepsIDAndUpserts(t *testing.T) {
	t.Parallel()
	s := openStore(t)
	ctx := context.Background()

	r := result("https://example.com", 40, t0)
	r.ID = "fixed"
	if err := s.Save(ctx, r); err != nil {
		t.Fatal(err)
	}
	r.Score = 90
	if err := s.Save(ctx, r); err != nil {
		t.Fatalf("second Save: %v", err)
	}
	got, err := s.Get(ctx, "fixed")
	if err != nil || got.Score != 90 {
		t.Fatalf("expected updated score, got %+v, %v", got, err)
	}
	all, _ := s.List(ctx, "", 0)
	if len(all) != 1 {
		t.Errorf("expected 1 row, got %d", len(all))
	}
}

func TestSave_ZeroTimestampIsNow(t *testing.T) {
	t.Parallel()
	s := openStore(t)
	r := result("https://example.com", 10, time.Time{})
	if err := s.Save(context.Background(), r); err != nil {
		t.Fatal(err)
	}
	if time.Since(r.Timestamp) > time.Minute {
		t.Errorf("timestamp not set: %v", r.Timestamp)
	}
}

func TestGet_NotFound(t *testing.T) {
	t.Parallel()
	s := openStore(t)
	if _, err := s.Get(context.Background(), "nope"); !errors.Is(err, history.ErrAuditNotFound) {
		t.Errorf("expected ErrAuditNotFound, got %v", err)
	}
}

func TestList_NewestFirstFilteredAndLimited(t *testing.T) {
	t.Parallel()
	s := openStore(t)
	ctx := context.Background()

	for i, score := range []int{10, 50, 90} {
		if err := s.Save(ctx, result("https://a.example", score, t0.Add(time.Duration(i)*time.Hour))); err != nil {
			t.Fatal(err)
		}
	}
	if err := s.Save(ctx, result("https://b.example", 70, t0.Add(10*time.Hour))); err != nil {
		t.Fatal(err)
	}

	list, err := s.List(ctx, "https://a.example", 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 3 || list[0].Score != 90 || list[1].Score != 50 || list[2].Score != 10 {
		t.Errorf("unexpected order: %+v", list)
	}

	list, _ = s.List(ctx, "https://a.example", 2)
	if len(list) != 2 {
		t.Errorf("expected limit 2, got %d", len(list))
	}

	all, _ := s.List(ctx, "", 10)
	if len(all) != 4 || all[0].URL != "https://b.example" {
		t.Errorf("unexpected all list: %d", len(all))
	}

	none, err := s.List(ctx, "https://c.example", 5)
	if err != nil || len(none) != 0 {
		t.Errorf("expected empty list, got %v, %v", none, err)
	}
}

func TestLatest(t *testing.T) {
	t.Parallel()
	s := openStore(t)
	ctx := context.Background()

	if _, err := s.Latest(ctx, "https://a.example"); !errors.Is(err, history.ErrAuditNotFound) {
		t.Errorf("expected ErrAuditNotFound, got %v", err)
	}
	_ = s.Save(ctx, result("https://a.example", 20, t0))
	_ = s.Save(ctx, result("https://a.example", 60, t0.Add(time.Minute)))

	r, err := s.Latest(ctx, "https://a.example")
	if err != nil || r.Score != 60 {
		t.Errorf("expected newest score 60, got %+v, %v", r, err)
	}
}

func TestOpen_ReopenKeepsData(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "h.db")
	s, err := history.Open(path, nil)
	if err != nil {
		t.Fatal(err)
	}
	r := result("https://example.com", 77, t0)
	_ = s.Save(context.Background(), r)
	s.Close()

	s2, err := history.Open(path, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer s2.Close()
	if _, err := s2.Get(context.Background(), r.ID); err != nil {
		t.Errorf("expected stored audit after reopen: %v", err)
	}
}

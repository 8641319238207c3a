package cli_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/auriti-labs/geo-optimizer/internal/app"
	"github.com/auriti-labs/geo-optimizer/internal/audit"
	"github.com/auriti-labs/geo-optimizer/internal/cli"
	"github.com/auriti-labs/geo-optimizer/internal/config"
	"github.com/auriti-labs/geo-optimizer/internal/demoserver"
	"github.com/auriti-labs/geo-optimizer/internal/report"
)

func demoSite(t *testing.T, variant string) string {
	t.Helper()
	srv := httptest.NewServer(demoserver.NewDemoServer(demoserver.Config{InitialVariant: variant}).Handler())
	t.Cleanup(srv.Close)
	return srv.URL
}

// run executes the root command with args and returns stdout and stderr.
func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := cli.NewRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", p, err)
	}
	return p
}

// ─── audit ─────────────────────────────────────────────────────────────

func TestAudit_TextReport(t *testing.T) {
	t.Parallel()
	site := demoSite(t, demoserver.VariantOptimized)

	out, _, err := run(t, "--no-history", "--lang", "en", "audit", site)
	if err != nil {
		t.Fatalf("audit: %v", err)
	}
	if !strings.Contains(out, "GEO AUDIT - "+site) {
		t.Errorf("missing header:\n%s", out)
	}
	if !strings.Contains(out, "100/100") {
		t.Errorf("expected a perfect score for the optimized demo:\n%s", out)
	}
}

func TestAudit_JSONToFile(t *testing.T) {
	t.Parallel()
	site := demoSite(t, demoserver.VariantOptimized)
	path := filepath.Join(t.TempDir(), "out", "report.json")

	out, errOut, err := run(t, "--no-history", "audit", "--url", site, "--format", "json", "--output", path)
	if err != nil {
		t.Fatalf("audit: %v", err)
	}
	if out != "" {
		t.Errorf("stdout should be empty when writing to a file, got %q", out)
	}
	if !strings.Contains(errOut, path) {
		t.Errorf("expected the output path on stderr, got %q", errOut)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	var res audit.AuditResult
	if err := json.Unmarshal(data, &res); err != nil {
		t.Fatalf("report is not JSON: %v", err)
	}
	if res.URL != site || res.Band != audit.BandExcellent {
		t.Errorf("unexpected result: url=%s band=%s", res.URL, res.Band)
	}
}

func TestAudit_MinScoreFails(t *testing.T) {
	t.Parallel()
	site := demoSite(t, demoserver.VariantBare)

	out, _, err := run(t, "--no-history", "audit", site, "--format", "github", "--min-score", "90")

	var exitErr *cli.ExitError
	if !errors.As(err, &exitErr) || exitErr.Code != 1 {
		t.Fatalf("expected ExitError with code 1, got %v", err)
	}
	if !strings.HasPrefix(out, "::") {
		t.Errorf("report must still be printed before failing:\n%s", out)
	}
}

func TestAudit_InvalidInput(t *testing.T) {
	t.Parallel()

	_, _, err := run(t, "--no-history", "audit", "https://example.com", "--format", "pdf")
	if !errors.Is(err, report.ErrUnknownFormat) {
		t.Errorf("expected ErrUnknownFormat, got %v", err)
	}

	_, _, err = run(t, "--no-history", "audit", "https://a.example", "--url", "https://b.example")
	if err == nil {
		t.Error("expected an error when both argument and --url are given")
	}

	_, _, err = run(t, "--no-history", "--config", filepath.Join(t.TempDir(), "missing.yml"), "audit")
	if err == nil || !strings.Contains(err.Error(), "URL is required") {
		t.Errorf("expected missing URL error, got %v", err)
	}
}

func TestAudit_ProjectConfigDefaults(t *testing.T) {
	t.Parallel()
	site := demoSite(t, demoserver.VariantOptimized)
	cfgPath := writeFile(t, t.TempDir(), ".geo-optimizer.yml",
		"audit:\n  url: "+site+"\n  format: markdown\n")

	out, _, err := run(t, "--no-history", "--config", cfgPath, "audit")
	if err != nil {
		t.Fatalf("audit: %v", err)
	}
	if !strings.Contains(out, "|") || !strings.Contains(out, site) {
		t.Errorf("expected a markdown report of %s:\n%s", site, out)
	}
}

// ─── history ───────────────────────────────────────────────────────────

func TestHistory_ListsRecordedAudits(t *testing.T) {
	t.Parallel()
	site := demoSite(t, demoserver.VariantOptimized)
	db := filepath.Join(t.TempDir(), "history.db")

	for i := 0; i < 2; i++ {
		if _, _, err := run(t, "--history", db, "audit", site, "--format", "json"); err != nil {
			t.Fatalf("audit %d: %v", i, err)
		}
	}

	out, _, err := run(t, "--history", db, "history", "--url", site)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header and 2 rows, got:\n%s", out)
	}
	if !strings.HasPrefix(lines[0], "DATE") || !strings.Contains(lines[1], "excellent") {
		t.Errorf("unexpected table:\n%s", out)
	}
}

func TestHistory_Disabled(t *testing.T) {
	t.Parallel()
	_, _, err := run(t, "--no-history", "history")
	if !errors.Is(err, app.ErrHistoryDisabled) {
		t.Errorf("expected ErrHistoryDisabled, got %v", err)
	}
}

// ─── llms ──────────────────────────────────────────────────────────────

func TestLlms_Generate(t *testing.T) {
	t.Parallel()
	site := demoSite(t, demoserver.VariantOptimized)

	out, _, err := run(t, "--no-history", "llms", "--base-url", site, "--site-name", "Calc Demo", "--description", "Free calculators")
	if err != nil {
		t.Fatalf("llms: %v", err)
	}
	if !strings.HasPrefix(out, "# Calc Demo") || !strings.Contains(out, "> Free calculators") {
		t.Errorf("unexpected header:\n%s", out)
	}
	if !strings.Contains(out, site+"/tools/mortgage-calculator") {
		t.Errorf("expected sitemap pages:\n%s", out)
	}
}

func TestLlms_Full(t *testing.T) {
	t.Parallel()
	site := demoSite(t, demoserver.VariantOptimized)

	out, _, err := run(t, "--no-history", "llms", "--base-url", site, "--full", "--max-urls", "2")
	if err != nil {
		t.Fatalf("llms --full: %v", err)
	}
	if !strings.Contains(out, "Source: "+site+"/tools/mortgage-calculator") {
		t.Errorf("expected page content sections:\n%s", out)
	}
}

func TestLlms_RequiresBaseURL(t *testing.T) {
	t.Parallel()
	_, _, err := run(t, "--no-history", "--config", filepath.Join(t.TempDir(), "none.yml"), "llms")
	if err == nil || !strings.Contains(err.Error(), "--base-url") {
		t.Errorf("expected --base-url error, got %v", err)
	}
}

// ─── schema ────────────────────────────────────────────────────────────

const page = `<html>
<head>
  <title>Demo</title>
</head>
<body><h1>Demo</h1></body>
</html>
`

func TestSchema_Types(t *testing.T) {
	t.Parallel()
	out, _, err := run(t, "schema", "types")
	if err != nil {
		t.Fatalf("schema types: %v", err)
	}
	for _, typ := range []string{"website", "webapp", "faq", "article", "organization", "breadcrumb"} {
		if !strings.Contains(out, typ+"\n") {
			t.Errorf("missing %s in:\n%s", typ, out)
		}
	}
}

func TestSchema_Generate(t *testing.T) {
	t.Parallel()
	faq := writeFile(t, t.TempDir(), "faq.json", `[{"question": "Is it free?", "answer": "Yes."}]`)

	out, _, err := run(t, "schema", "generate", "--type", "website,faq",
		"--name", `My "Site"`, "--url", "https://example.com/", "--faq-file", faq)
	if err != nil {
		t.Fatalf("schema generate: %v", err)
	}
	if strings.Count(out, `<script type="application/ld+json">`) != 2 {
		t.Errorf("expected two script tags:\n%s", out)
	}
	for _, want := range []string{`"name": "My \"Site\""`, `"url": "https://example.com"`, "Is it free?"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %s in:\n%s", want, out)
		}
	}
}

func TestSchema_UnknownType(t *testing.T) {
	t.Parallel()
	_, _, err := run(t, "schema", "generate", "--type", "recipe")
	if err == nil || !strings.Contains(err.Error(), "unknown schema template") {
		t.Errorf("expected unknown template error, got %v", err)
	}
}

func TestSchema_AnalyzeAndInject(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	file := writeFile(t, dir, "index.html", page)

	out, _, err := run(t, "schema", "analyze", "--file", file, "--json")
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if !strings.Contains(out, `"has_head": true`) || !strings.Contains(out, `"website"`) {
		t.Errorf("unexpected analysis:\n%s", out)
	}

	out, _, err = run(t, "schema", "inject", "--file", file, "--name", "Demo", "--url", "https://demo.example", "--dry-run")
	if err != nil {
		t.Fatalf("inject --dry-run: %v", err)
	}
	if !strings.Contains(out, "+ ") || !strings.Contains(out, "application/ld+json") {
		t.Errorf("expected an added-lines diff:\n%s", out)
	}
	if data, _ := os.ReadFile(file); string(data) != page {
		t.Fatal("dry run must not modify the file")
	}

	if _, _, err := run(t, "schema", "inject", "--file", file, "--name", "Demo", "--url", "https://demo.example"); err != nil {
		t.Fatalf("inject: %v", err)
	}
	data, _ := os.ReadFile(file)
	if !strings.Contains(string(data), `"@type": "WebSite"`) {
		t.Errorf("schema not injected:\n%s", data)
	}
	if bak, err := os.ReadFile(file + ".bak"); err != nil || string(bak) != page {
		t.Errorf("expected backup with the original content, err=%v", err)
	}
}

func TestSchema_InjectGlob(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "blog"), 0o755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, dir, "index.html", page)
	writeFile(t, filepath.Join(dir, "blog"), "post.html", page)

	out, _, err := run(t, "schema", "inject", "--glob", filepath.Join(dir, "**", "*.html"),
		"--type", "organization", "--name", "Demo", "--url", "https://demo.example", "--no-backup")
	if err != nil {
		t.Fatalf("inject --glob: %v", err)
	}
	if strings.Count(out, "injected: ") != 2 {
		t.Errorf("expected two files injected:\n%s", out)
	}
	if _, err := os.Stat(filepath.Join(dir, "index.html.bak")); !os.IsNotExist(err) {
		t.Error("--no-backup must not write .bak files")
	}
}

func TestSchema_InjectNeedsOneTarget(t *testing.T) {
	t.Parallel()
	_, _, err := run(t, "schema", "inject")
	if err == nil {
		t.Error("expected error without --file or --glob")
	}
}

func TestSchema_Astro(t *testing.T) {
	t.Parallel()
	out, _, err := run(t, "schema", "astro", "--url", "https://demo.example/", "--name", "Demo")
	if err != nil {
		t.Fatalf("astro: %v", err)
	}
	if !strings.Contains(out, `"https://demo.example"`) || !strings.Contains(out, `"Demo"`) {
		t.Errorf("unexpected snippet:\n%s", out)
	}
}

func TestSchema_ProjectConfigValues(t *testing.T) {
	t.Parallel()
	cfgPath := writeFile(t, t.TempDir(), ".geo-optimizer.yml",
		"schema:\n  types: [organization]\n  name: Acme\n  url: https://acme.example\n  logo_url: https://acme.example/logo.png\n")

	out, _, err := run(t, "--config", cfgPath, "schema", "generate")
	if err != nil {
		t.Fatalf("schema generate: %v", err)
	}
	if !strings.Contains(out, `"@type": "Organization"`) || !strings.Contains(out, "https://acme.example/logo.png") {
		t.Errorf("project values not applied:\n%s", out)
	}
}

// ─── cache / checks ────────────────────────────────────────────────────

func TestCache_StatsAndClear(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cache")
	t.Setenv(config.EnvCacheDir, dir)
	site := demoSite(t, demoserver.VariantOptimized)

	if _, _, err := run(t, "--no-history", "audit", site, "--cache"); err != nil {
		t.Fatalf("audit --cache: %v", err)
	}

	out, _, err := run(t, "cache", "stats")
	if err != nil {
		t.Fatalf("cache stats: %v", err)
	}
	if !strings.Contains(out, "dir:   "+dir) || strings.Contains(out, "files: 0\n") {
		t.Errorf("expected populated cache stats:\n%s", out)
	}

	out, _, err = run(t, "cache", "clear")
	if err != nil {
		t.Fatalf("cache clear: %v", err)
	}
	if !strings.HasPrefix(out, "removed ") || strings.HasPrefix(out, "removed 0 ") {
		t.Errorf("unexpected clear output: %q", out)
	}
	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Error("expected cache dir to be removed")
	}
}

func TestChecks_ListsBuiltins(t *testing.T) {
	t.Parallel()
	out, _, err := run(t, "checks")
	if err != nil {
		t.Fatalf("checks: %v", err)
	}
	for _, name := range []string{"https", "html_lang", "sitemap"} {
		if !strings.Contains(out, name) {
			t.Errorf("missing check %s in:\n%s", name, out)
		}
	}
}

// ─── web ───────────────────────────────────────────────────────────────

func TestWeb_InvalidPort(t *testing.T) {
	t.Parallel()
	_, _, err := run(t, "--no-history", "web", "--port", "70000")
	if err == nil || !strings.Contains(err.Error(), "invalid port") {
		t.Errorf("expected invalid port error, got %v", err)
	}
}

func TestExitError(t *testing.T) {
	t.Parallel()
	inner := errors.New("boom")
	err := &cli.ExitError{Code: 3, Err: inner}
	if err.Error() != "boom" || !errors.Is(err, inner) {
		t.Errorf("unexpected ExitError behaviour: %v", err)
	}
	if (&cli.ExitError{Code: 2}).Error() != "exit status 2" {
		t.Error("expected default message")
	}
}

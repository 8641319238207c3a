package config_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/auriti-labs/geo-optimizer/internal/config"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

// ─── Project file ──────────────────────────────────────────────────────

func TestLoadFromDir_NoFileGivesDefaults(t *testing.T) {
	t.Parallel()
	cfg, err := config.LoadFromDir(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "text", cfg.Audit.Format)
	assert.Equal(t, 0, cfg.Audit.MinScore)
	assert.Equal(t, 50, cfg.Llms.MaxURLs)
	assert.Empty(t, cfg.ExtraBots)
	assert.Empty(t, cfg.Path)
}

func TestLoad_FullFile(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	p := writeFile(t, dir, ".geo-optimizer.yml", `
audit:
  url: https://example.com
  format: json
  min_score: 70
  cache: true
llms:
  base_url: https://example.com
  title: Example
  max_urls: 20
  fetch_titles: true
schema:
  types: [website, faq]
  name: Example
  author: Jane
extra_bots:
  MyBot: internal crawler
`)
	cfg, err := config.Load(p)
	require.NoError(t, err)

	assert.Equal(t, "https://example.com", cfg.Audit.URL)
	assert.Equal(t, "json", cfg.Audit.Format)
	assert.Equal(t, 70, cfg.Audit.MinScore)
	assert.True(t, cfg.Audit.Cache)
	assert.False(t, cfg.Audit.Verbose)
	assert.Equal(t, 20, cfg.Llms.MaxURLs)
	assert.True(t, cfg.Llms.FetchTitles)
	assert.Equal(t, []string{"website", "faq"}, cfg.Schema.Types)
	assert.Equal(t, "Jane", cfg.Schema.Author)
	assert.Equal(t, map[string]string{"MyBot": "internal crawler"}, cfg.ExtraBots)
	assert.Equal(t, p, cfg.Path)
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	t.Parallel()
	p := writeFile(t, t.TempDir(), ".geo-optimizer.yml", "audit:\n  url: https://x.example\n")
	cfg, err := config.Load(p)
	require.NoError(t, err)
	assert.Equal(t, "https://x.example", cfg.Audit.URL)
	assert.Equal(t, "text", cfg.Audit.Format)
	assert.Equal(t, 50, cfg.Llms.MaxURLs)
}

func TestLoad_CorruptFallsBackToDefaults(t *testing.T) {
	t.Parallel()
	for name, body := range map[string]string{
		"invalid yaml": "audit: [unclosed\n  : :",
		"scalar root":  "just a string",
		"list root":    "- a\n- b\n",
		"wrong types":  "audit:\n  min_score: lots\n",
	} {
		p := writeFile(t, t.TempDir(), ".geo-optimizer.yml", body)
		cfg, err := config.Load(p)
		require.NoError(t, err, name)
		assert.Equal(t, config.Default(), cfg, name)
	}
}

func TestFindConfigFile_PrefersYml(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	assert.Empty(t, config.FindConfigFile(dir))

	yaml := writeFile(t, dir, ".geo-optimizer.yaml", "audit: {}\n")
	assert.Equal(t, yaml, config.FindConfigFile(dir))

	yml := writeFile(t, dir, ".geo-optimizer.yml", "audit: {}\n")
	assert.Equal(t, yml, config.FindConfigFile(dir))
}

// ─── Environment ───────────────────────────────────────────────────────

func TestEnv_Overrides(t *testing.T) {
	t.Setenv(config.EnvCacheDir, "/tmp/geo-cache")
	t.Setenv(config.EnvCacheTTL, "120")
	t.Setenv(config.EnvHistoryDSN, "postgres://u@h/db")
	t.Setenv(config.EnvUserAgent, "TestAgent/1.0")

	env := config.Env()
	assert.Equal(t, "/tmp/geo-cache", env.CacheDir)
	assert.Equal(t, 2*time.Minute, env.CacheTTL)
	assert.Equal(t, "postgres://u@h/db", env.HistoryDSN)
	assert.Equal(t, "TestAgent/1.0", env.UserAgent)

	t.Setenv(config.EnvCacheTTL, "90m")
	assert.Equal(t, 90*time.Minute, config.Env().CacheTTL)

	t.Setenv(config.EnvCacheTTL, "never")
	assert.Zero(t, config.Env().CacheTTL)
}

func TestLoadDotEnv_DoesNotOverrideExisting(t *testing.T) {
	p := writeFile(t, t.TempDir(), ".env", "GEO_USER_AGENT=FromFile\nGEO_CACHE_DIR=/from/file\n")
	t.Setenv(config.EnvUserAgent, "FromShell")
	t.Setenv(config.EnvCacheDir, "")
	os.Unsetenv(config.EnvCacheDir)

	config.LoadDotEnv(p, filepath.Join(t.TempDir(), "missing.env"))

	assert.Equal(t, "FromShell", os.Getenv(config.EnvUserAgent))
	assert.Equal(t, "/from/file", os.Getenv(config.EnvCacheDir))
}

// ─── Watcher ───────────────────────────────────────────────────────────

func TestWatcher_ReloadsOnWrite(t *testing.T) {
	t.Parallel()
	p := writeFile(t, t.TempDir(), ".geo-optimizer.yml", "audit:\n  min_score: 10\n")

	loaded := make(chan *config.ProjectConfig, 4)
	w, err := config.NewWatcher(p, nil, func(c *config.ProjectConfig) { loaded <- c })
	require.NoError(t, err)
	defer w.Close()
	assert.Equal(t, 10, w.Current().Audit.MinScore)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	require.NoError(t, os.WriteFile(p, []byte("audit:\n  min_score: 80\n"), 0o644))

	select {
	case c := <-loaded:
		assert.Equal(t, 80, c.Audit.MinScore)
		assert.Equal(t, 80, w.Current().Audit.MinScore)
	case <-time.After(5 * time.Second):
		t.Fatal("config was not reloaded")
	}
}

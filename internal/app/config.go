package app

import (
	"os"
	"path/filepath"
	"time"

	"github.com/auriti-labs/geo-optimizer/internal/cache"
	"github.com/auriti-labs/geo-optimizer/internal/config"
	"github.com/auriti-labs/geo-optimizer/internal/fetcher"
	"github.com/auriti-labs/geo-optimizer/internal/i18n"
	"github.com/auriti-labs/geo-optimizer/internal/webclient"
)

// CacheConfig controls the on-disk HTTP cache.
type CacheConfig struct {
	Enabled bool
	Dir     string
	TTL     time.Duration
}

// Config aggregates the runtime configuration of every component.
type Config struct {
	WebClientCfg webclient.Config
	FetcherCfg   fetcher.Config
	CacheCfg     CacheConfig

	// HistoryDSN is a SQLite path or postgres:// URL. Empty disables history.
	HistoryDSN string

	// Lang selects the report language; empty reads GEO_LANG.
	Lang string

	// ExtraBots are audited next to the built-in AI crawlers.
	ExtraBots map[string]string

	// JobRetention is how long finished jobs stay queryable.
	JobRetention time.Duration
}

// DefaultHistoryDSN returns ~/.geo-optimizer/history.db.
func DefaultHistoryDSN() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return filepath.Join(os.TempDir(), "geo-optimizer", "history.db")
	}
	return filepath.Join(home, ".geo-optimizer", "history.db")
}

// DefaultConfig returns a Config populated with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		WebClientCfg: webclient.DefaultConfig(),
		FetcherCfg: fetcher.Config{
			MaxConcurrency: fetcher.DefaultMaxConcurrency,
		},
		CacheCfg: CacheConfig{
			Enabled: false,
			Dir:     cache.DefaultDir(),
			TTL:     cache.DefaultTTL,
		},
		HistoryDSN:   DefaultHistoryDSN(),
		Lang:         "",
		ExtraBots:    map[string]string{},
		JobRetention: 10 * time.Minute,
	}
}

// ApplyEnv overlays the GEO_* environment overrides.
func (c *Config) ApplyEnv(env config.EnvOverrides) {
	if env.CacheDir != "" {
		c.CacheCfg.Dir = env.CacheDir
	}
	if env.CacheTTL > 0 {
		c.CacheCfg.TTL = env.CacheTTL
	}
	if env.HistoryDSN != "" {
		c.HistoryDSN = env.HistoryDSN
	}
	if env.UserAgent != "" {
		c.WebClientCfg.UserAgent = env.UserAgent
	}
}

// ApplyProject overlays the project file settings that affect the runtime.
func (c *Config) ApplyProject(p *config.ProjectConfig) {
	if p == nil {
		return
	}
	if p.Audit.Cache {
		c.CacheCfg.Enabled = true
	}
	for k, v := range p.ExtraBots {
		if c.ExtraBots == nil {
			c.ExtraBots = map[string]string{}
		}
		c.ExtraBots[k] = v
	}
}

func (c *Config) translator() *i18n.Translator {
	if c.Lang == "" {
		return i18n.New(i18n.GetLang())
	}
	return i18n.New(c.Lang)
}

// Version is reported by the CLI and the health endpoint.
const Version = "1.0.0"

package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Environment variables read by Env.
const (
	EnvCacheDir   = "GEO_CACHE_DIR"
	EnvCacheTTL   = "GEO_CACHE_TTL"
	EnvHistoryDSN = "GEO_HISTORY_DSN"
	EnvUserAgent  = "GEO_USER_AGENT"
)

// EnvOverrides holds the values set in the environment. Zero values mean
// unset.
type EnvOverrides struct {
	CacheDir   string
	CacheTTL   time.Duration
	HistoryDSN string
	UserAgent  string
}

// LoadDotEnv loads the given .env files, or ./.env when none is given.
// Missing files are ignored and existing variables are not overwritten.
func LoadDotEnv(files ...string) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		_ = godotenv.Load(f)
	}
}

// Env reads the GEO_* overrides. GEO_CACHE_TTL accepts seconds or a Go
// duration string; an invalid value is ignored.
func Env() EnvOverrides {
	return EnvOverrides{
		CacheDir:   os.Getenv(EnvCacheDir),
		CacheTTL:   parseTTL(os.Getenv(EnvCacheTTL)),
		HistoryDSN: os.Getenv(EnvHistoryDSN),
		UserAgent:  os.Getenv(EnvUserAgent),
	}
}

func parseTTL(v string) time.Duration {
	if v == "" {
		return 0
	}
	if n, err := strconv.Atoi(v); err == nil && n > 0 {
		return time.Duration(n) * time.Second
	}
	if d, err := time.ParseDuration(v); err == nil && d > 0 {
		return d
	}
	return 0
}

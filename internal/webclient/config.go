package webclient

import "time"

type Client string

const (
	ClientNetHTTP  Client = "nethttp"
	ClientChromedp Client = "chromedp"
)

// DefaultUserAgent identifies audit traffic.
const DefaultUserAgent = "GEO-Audit/1.0 (https://github.com/auriti-labs/geo-optimizer)"

// DefaultMaxBodyBytes caps response bodies (10 MiB).
const DefaultMaxBodyBytes int64 = 10 << 20

// Config selects and tunes a WebClient backend.
type Config struct {
	Client Client

	// Timeout bounds a whole request. Zero means 10s.
	Timeout time.Duration

	// MaxBodyBytes rejects larger responses with ErrTooLarge. Zero means DefaultMaxBodyBytes.
	MaxBodyBytes int64

	UserAgent string

	// RateLimit is requests per second across the client; zero disables limiting.
	RateLimit float64
	RateBurst int

	// chromedp only
	IdleAfter   time.Duration
	ShowBrowser bool
}

// DefaultConfig returns the nethttp backend with a 10s timeout.
func DefaultConfig() Config {
	return Config{
		Client:       ClientNetHTTP,
		Timeout:      10 * time.Second,
		MaxBodyBytes: DefaultMaxBodyBytes,
		UserAgent:    DefaultUserAgent,
		IdleAfter:    2 * time.Second,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.Client == "" {
		c.Client = d.Client
	}
	if c.Timeout <= 0 {
		c.Timeout = d.Timeout
	}
	if c.MaxBodyBytes <= 0 {
		c.MaxBodyBytes = d.MaxBodyBytes
	}
	if c.UserAgent == "" {
		c.UserAgent = d.UserAgent
	}
	if c.IdleAfter <= 0 {
		c.IdleAfter = d.IdleAfter
	}
	if c.RateLimit > 0 && c.RateBurst <= 0 {
		c.RateBurst = 1
	}
	return c
}

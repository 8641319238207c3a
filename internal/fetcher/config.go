package fetcher

// DefaultMaxConcurrency bounds in-flight requests when Config leaves it unset.
const DefaultMaxConcurrency = 8

type Config struct {
	MaxConcurrency int
}

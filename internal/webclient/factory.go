package webclient

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/auriti-labs/geo-optimizer/internal/logging"
)

var (
	// ErrUnknownBackend is returned by NewWebClient for an unregistered name.
	ErrUnknownBackend = errors.New("unknown webclient backend")
	// ErrNilClient is returned when a backend constructor yields no client.
	ErrNilClient = errors.New("webclient backend returned nil client")
)

// BackendConstructor builds a WebClient for the audit, llms and sitemap
// fetchers from the shared Config.
type BackendConstructor func(cfg Config, logger logging.Logger) (WebClient, error)

var (
	backendsMu sync.RWMutex
	backends   = map[string]BackendConstructor{}
)

func backendKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// RegisterBackend makes a backend selectable through Config.Client and the
// --backend flag. The built-in backends are "nethttp" (plain HTTP, the
// default) and "chromedp" (headless Chrome, for sites that render their
// meta tags and JSON-LD with JavaScript). Names are case-insensitive; a
// later registration replaces an earlier one. Empty names and nil
// constructors are ignored.
func RegisterBackend(name string, ctor BackendConstructor) {
	key := backendKey(name)
	if key == "" || ctor == nil {
		return
	}
	backendsMu.Lock()
	backends[key] = ctor
	backendsMu.Unlock()
}

// NewWebClient builds the backend named by cfg.Client, or nethttp when it
// is empty.
func NewWebClient(cfg Config, logger logging.Logger) (WebClient, error) {
	key := backendKey(string(cfg.Client))
	if key == "" {
		key = string(ClientNetHTTP)
	}

	backendsMu.RLock()
	ctor := backends[key]
	backendsMu.RUnlock()
	if ctor == nil {
		return nil, fmt.Errorf("%w %q (available: %s)", ErrUnknownBackend, key, strings.Join(ListBackends(), ", "))
	}

	wc, err := ctor(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("build %s backend: %w", key, err)
	}
	if wc == nil {
		return nil, fmt.Errorf("%s: %w", key, ErrNilClient)
	}
	return wc, nil
}

// ListBackends returns the registered backend names, sorted.
func ListBackends() []string {
	backendsMu.RLock()
	defer backendsMu.RUnlock()
	names := make([]string, 0, len(backends))
	for name := range backends {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

package webclient

import (
	"fmt"

	"github.com/auriti-labs/geo-optimizer/internal/logging"
)

// RegisterDefaultBackends registers the default nethttp and chromedp backends.
// Call this early in main() to make backends available to NewWebClient.
func RegisterDefaultBackends() {
	RegisterBackend(string(ClientNetHTTP), func(cfg Config, logger logging.Logger) (WebClient, error) {
		return NewNetHTTPClient(cfg, logger, nil)
	})

	RegisterBackend(string(ClientChromedp), func(cfg Config, logger logging.Logger) (WebClient, error) {
		client, err := NewChromedpClient(cfg, logger)
		if err != nil {
			return nil, fmt.Errorf("create chromedp client: %w", err)
		}
		return client, nil
	})
}

func init() {
	RegisterDefaultBackends()
}

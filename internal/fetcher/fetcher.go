package fetcher

import (
	"context"
	"fmt"
	"sync"

	"github.com/auriti-labs/geo-optimizer/internal/logging"
	"github.com/auriti-labs/geo-optimizer/internal/webclient"
)

// Module: fetcher
// Fetches many URLs concurrently and reports one Result per URL.
type Fetcher struct {
	MaxConcurrency int
	wc             webclient.WebClient
	logger         logging.Logger
}

// Result is the outcome of fetching a single URL. Exactly one of Response
// and Err is set.
type Result struct {
	Response *webclient.Response
	Err      error
}

// New creates a new Fetcher with the given webclient and logger
func New(maxConcurrency int, wc webclient.WebClient, logger logging.Logger) (*Fetcher, error) {
	if wc == nil {
		return nil, fmt.Errorf("fetcher: webclient is nil")
	}
	if maxConcurrency <= 0 {
		maxConcurrency = DefaultMaxConcurrency
	}
	if logger == nil {
		logger = logging.Nop()
	}
	return &Fetcher{
		MaxConcurrency: maxConcurrency,
		wc:             wc,
		logger:         logger.With(logging.Field{Key: "component", Value: "fetcher"}),
	}, nil
}

// FetchURLs GETs every URL with at most MaxConcurrency requests in flight.
// The returned map has exactly one entry per distinct input URL; failures are
// carried in Result.Err and never abort the batch.
func (f *Fetcher) FetchURLs(ctx context.Context, urls []string) map[string]Result {
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		sem     = make(chan struct{}, f.MaxConcurrency)
		results = make(map[string]Result, len(urls))
	)

	seen := make(map[string]struct{}, len(urls))
	for _, pageURL := range urls {
		if _, dup := seen[pageURL]; dup {
			continue
		}
		seen[pageURL] = struct{}{}

		wg.Add(1)
		go func(pageURL string) {
			defer wg.Done()

			var res Result
			select {
			case sem <- struct{}{}:
				res = f.fetch(ctx, pageURL)
				<-sem
			case <-ctx.Done():
				res = Result{Err: fmt.Errorf("error GETting %s: %w", pageURL, ctx.Err())}
			}

			mu.Lock()
			results[pageURL] = res
			mu.Unlock()
		}(pageURL)
	}

	wg.Wait()
	return results
}

// FetchURL fetches a single page through the same error path as FetchURLs.
func (f *Fetcher) FetchURL(ctx context.Context, pageURL string) (*webclient.Response, error) {
	res := f.fetch(ctx, pageURL)
	return res.Response, res.Err
}

func (f *Fetcher) fetch(ctx context.Context, pageURL string) Result {
	resp, err := f.wc.Get(ctx, pageURL)
	if err != nil {
		f.logger.Warn("error while fetching page",
			logging.Field{Key: "url", Value: pageURL},
			logging.Field{Key: "error", Value: err})
		return Result{Err: fmt.Errorf("error GETting %s: %w", pageURL, err)}
	}
	f.logger.Debug("fetched page",
		logging.Field{Key: "url", Value: pageURL},
		logging.Field{Key: "status", Value: resp.StatusCode},
		logging.Field{Key: "from_cache", Value: resp.FromCache})
	return Result{Response: resp}
}

// Client returns the webclient used for fetching.
func (f *Fetcher) Client() webclient.WebClient {
	return f.wc
}

package webclient

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/auriti-labs/geo-optimizer/internal/cache"
	"github.com/auriti-labs/geo-optimizer/internal/logging"
)

// CachedClient serves GET requests from a FileCache and stores fresh
// responses below 500 in it. Other methods pass straight through.
type CachedClient struct {
	inner  WebClient
	cache  *cache.FileCache
	logger logging.Logger
}

func NewCachedClient(inner WebClient, fc *cache.FileCache, logger logging.Logger) *CachedClient {
	if logger == nil {
		logger = logging.Nop()
	}
	return &CachedClient{
		inner:  inner,
		cache:  fc,
		logger: logger.With(logging.Field{Key: "backend", Value: "cache"}),
	}
}

func (c *CachedClient) Do(ctx context.Context, req *Request) (*Response, error) {
	if req == nil {
		return nil, ErrNilRequest
	}
	method := strings.ToUpper(req.Method)
	if method != "" && method != http.MethodGet {
		return c.inner.Do(ctx, req)
	}

	if e, ok := c.cache.Get(req.URL); ok {
		c.logger.Debug("cache hit", logging.Field{Key: "url", Value: req.URL})
		return &Response{
			Request:    req,
			URL:        req.URL,
			Headers:    ExpandHeaders(e.Headers),
			Body:       []byte(e.Body),
			StatusCode: e.Status,
			FetchedAt:  time.Now(),
			FromCache:  true,
		}, nil
	}

	resp, err := c.inner.Do(ctx, req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 500 {
		if err := c.cache.Put(req.URL, resp.StatusCode, string(resp.Body), FlattenHeaders(resp.Headers)); err != nil {
			c.logger.Warn("failed to write cache entry",
				logging.Field{Key: "url", Value: req.URL},
				logging.Field{Key: "error", Value: err})
		}
	}
	return resp, nil
}

func (c *CachedClient) Get(ctx context.Context, url string) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodGet, URL: url})
}

func (c *CachedClient) Close() error {
	return c.inner.Close()
}

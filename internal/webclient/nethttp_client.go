package webclient

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/auriti-labs/geo-optimizer/internal/logging"
)

// net/http backed implementation of webclient.
type NetHTTPClient struct {
	client    *http.Client
	logger    logging.Logger
	limiter   *rate.Limiter
	maxBody   int64
	userAgent string
	timeout   time.Duration
}

// NewNetHTTPClient builds a client from cfg. If httpClient is nil a default
// one with cfg.Timeout is used; an injected client without a timeout gets
// cfg.Timeout as well.
func NewNetHTTPClient(cfg Config, logger logging.Logger, httpClient *http.Client) (*NetHTTPClient, error) {
	cfg = cfg.withDefaults()
	if logger == nil {
		logger = logging.Nop()
	}
	componentLogger := logger.With(logging.Field{Key: "backend", Value: "nethttp"})

	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	} else if httpClient.Timeout == 0 {
		httpClient.Timeout = cfg.Timeout
	}

	var limiter *rate.Limiter
	if cfg.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateBurst)
	}

	componentLogger.Debug("created nethttp webclient",
		logging.Field{Key: "timeout", Value: httpClient.Timeout.String()},
		logging.Field{Key: "max_body_bytes", Value: cfg.MaxBodyBytes},
		logging.Field{Key: "rate_limit", Value: cfg.RateLimit})

	return &NetHTTPClient{
		client:    httpClient,
		logger:    componentLogger,
		limiter:   limiter,
		maxBody:   cfg.MaxBodyBytes,
		userAgent: cfg.UserAgent,
		timeout:   httpClient.Timeout,
	}, nil
}

// Do implements the generic request execution using net/http.
func (nhc *NetHTTPClient) Do(ctx context.Context, req *Request) (*Response, error) {
	if req == nil {
		return nil, ErrNilRequest
	}

	method := strings.ToUpper(req.Method)
	if method == "" {
		method = http.MethodGet
	}

	if nhc.limiter != nil {
		if err := nhc.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit wait: %w", err)
		}
	}

	nhc.logger.Debug("sending http request",
		logging.Field{Key: "method", Value: method},
		logging.Field{Key: "url", Value: req.URL})

	var bodyReader io.Reader
	if len(req.Body) > 0 {
		bodyReader = bytes.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, req.URL, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("User-Agent", nhc.userAgent)
	for k, vs := range req.Headers {
		httpReq.Header.Del(k)
		for _, v := range vs {
			httpReq.Header.Add(k, v)
		}
	}

	resp, err := nhc.client.Do(httpReq)
	if err != nil {
		err = nhc.classify(ctx, err)
		nhc.logger.Warn("http request failed",
			logging.Field{Key: "method", Value: method},
			logging.Field{Key: "url", Value: req.URL},
			logging.Field{Key: "error", Value: err.Error()})
		return nil, err
	}
	defer resp.Body.Close()

	if resp.ContentLength > nhc.maxBody {
		return nil, fmt.Errorf("%w: %d bytes (max %d)", ErrTooLarge, resp.ContentLength, nhc.maxBody)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, nhc.maxBody+1))
	if err != nil {
		err = nhc.classify(ctx, err)
		nhc.logger.Warn("failed to read response body",
			logging.Field{Key: "method", Value: method},
			logging.Field{Key: "url", Value: req.URL},
			logging.Field{Key: "error", Value: err.Error()})
		return nil, fmt.Errorf("read body: %w", err)
	}
	if int64(len(body)) > nhc.maxBody {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrTooLarge, nhc.maxBody)
	}

	final := req.URL
	if resp.Request != nil && resp.Request.URL != nil {
		final = resp.Request.URL.String()
	}

	return &Response{
		Request:    req,
		URL:        final,
		Body:       body,
		Headers:    resp.Header,
		StatusCode: resp.StatusCode,
		FetchedAt:  time.Now(),
	}, nil
}

// Get is a convenience method for simple GET requests
func (nhc *NetHTTPClient) Get(ctx context.Context, url string) (*Response, error) {
	return nhc.Do(ctx, &Request{Method: http.MethodGet, URL: url})
}

func (nhc *NetHTTPClient) Close() error {
	nhc.logger.Debug("closing nethttp webclient")
	nhc.client.CloseIdleConnections()
	return nil
}

// HTTPClient returns the underlying *http.Client
func (nhc *NetHTTPClient) HTTPClient() *http.Client {
	return nhc.client
}

// classify maps transport errors onto ErrTimeout and ErrConnection. A
// cancellation by the caller is returned unchanged.
func (nhc *NetHTTPClient) classify(ctx context.Context, err error) error {
	if errors.Is(ctx.Err(), context.Canceled) {
		return fmt.Errorf("http do: %w", err)
	}
	var ne net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &ne) && ne.Timeout()) {
		return fmt.Errorf("%w (%s): %v", ErrTimeout, nhc.timeout, err)
	}
	return fmt.Errorf("%w: %v", ErrConnection, err)
}

package webclient

import (
	"context"
	"errors"
	"net/http"
	"time"
)

// Fetch failure causes. Messages are user facing and end up in audit reports.
var (
	ErrTimeout    = errors.New("Timeout")
	ErrConnection = errors.New("Connection failed")
	ErrTooLarge   = errors.New("Response too large")
	ErrNilRequest = errors.New("request cannot be nil")
)

type WebClient interface {
	Do(ctx context.Context, req *Request) (*Response, error)

	// Get is a convenience method for simple GET requests
	Get(ctx context.Context, url string) (*Response, error)

	Close() error
}

type Request struct {
	Method  string
	URL     string
	Headers http.Header
	Body    []byte
}

type Response struct {
	Request *Request
	// URL is the final URL after redirects.
	URL        string
	Headers    http.Header
	Body       []byte
	StatusCode int
	FetchedAt  time.Time
	FromCache  bool
}

// OK reports a 2xx status.
func (r *Response) OK() bool {
	return r != nil && r.StatusCode >= 200 && r.StatusCode < 300
}

// FlattenHeaders keeps the first value of every header.
func FlattenHeaders(h http.Header) map[string]string {
	out := make(map[string]string, len(h))
	for k, vs := range h {
		if len(vs) > 0 {
			out[k] = vs[0]
		}
	}
	return out
}

// ExpandHeaders is the inverse of FlattenHeaders.
func ExpandHeaders(m map[string]string) http.Header {
	h := make(http.Header, len(m))
	for k, v := range m {
		h.Set(k, v)
	}
	return h
}

package utils

import (
	"fmt"
	"net"
	"net/url"
	"path"
	"sort"
	"strings"

	"golang.org/x/net/idna"
)

// NormalizeBaseURL trims whitespace, prepends https:// when the input has no
// scheme and drops a trailing slash. The result is the site root used by the
// audit and llms generators.
func NormalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ErrEmptyURL
	}
	if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("couldn't parse url %s: %w", raw, err)
	}
	if u.Host == "" {
		return "", ErrMissingHost
	}
	u.Fragment = ""
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	return strings.TrimRight(u.String(), "/"), nil
}

// Domain returns the lower-cased host of raw without port.
func Domain(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Hostname())
}

// SameDomain reports whether both URLs share a host. Hosts are compared
// exactly, so www.example.com and example.com differ.
func SameDomain(a, b string) bool {
	da := Domain(a)
	return da != "" && da == Domain(b)
}

// Join resolves ref against base.
//
// Examples:
//
//	Join("https://example.com/app/", "users")   → "https://example.com/app/users"
//	Join("https://example.com/app/", "../x")    → "https://example.com/x"
//	Join("https://example.com", "/robots.txt")  → "https://example.com/robots.txt"
func Join(base, ref string) (string, error) {
	b, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("couldn't parse url %s: %w", base, err)
	}
	r, err := url.Parse(ref)
	if err != nil {
		return "", fmt.Errorf("couldn't parse url %s: %w", ref, err)
	}
	return b.ResolveReference(r).String(), nil
}

// trackingParams are dropped by CanonicalURL, along with every utm_* key.
var trackingParams = map[string]bool{"gclid": true, "fbclid": true, "mc_cid": true, "mc_eid": true}

// CanonicalURL returns the form used to detect duplicate page URLs: scheme
// and host lower-cased, IDN hosts in punycode, default ports, credentials
// and fragments removed, the path cleaned without a trailing slash, and the
// query sorted with tracking parameters dropped.
func CanonicalURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ErrEmptyURL
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Host == "" {
		return "", ErrMissingHost
	}

	u.Scheme = strings.ToLower(u.Scheme)
	host := strings.ToLower(u.Hostname())
	if puny, err := idna.Lookup.ToASCII(host); err == nil {
		host = puny
	}
	switch port := u.Port(); {
	case port == "", u.Scheme == "http" && port == "80", u.Scheme == "https" && port == "443":
		u.Host = host
	default:
		u.Host = net.JoinHostPort(host, port)
	}
	u.User = nil
	u.Fragment = ""

	p := path.Clean("/" + u.Path)
	if p != "/" {
		p = strings.TrimRight(p, "/")
	}
	u.Path = p

	q := u.Query()
	for k := range q {
		lk := strings.ToLower(k)
		if strings.HasPrefix(lk, "utm_") || trackingParams[lk] {
			q.Del(k)
		}
	}
	for _, vs := range q {
		sort.Strings(vs)
	}
	// Encode sorts by key.
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// Errors
var (
	ErrEmptyURL    = &url.Error{Op: "canonicalize", URL: "", Err: &errStr{"empty url"}}
	ErrMissingHost = &url.Error{Op: "canonicalize", URL: "", Err: &errStr{"missing host"}}
)

type errStr struct{ s string }

func (e *errStr) Error() string { return e.s }

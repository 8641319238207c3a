// Package sitemap reads XML sitemaps and sitemap indexes and locates a
// site's sitemap.
package sitemap

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/auriti-labs/geo-optimizer/internal/logging"
	"github.com/auriti-labs/geo-optimizer/internal/utils"
	"github.com/auriti-labs/geo-optimizer/internal/webclient"
)

// ErrNoSitemap is returned by Discover when neither robots.txt nor the
// common paths point at a sitemap.
var ErrNoSitemap = errors.New("no sitemap found")

// DefaultPriority is assigned to entries without a valid <priority>.
const DefaultPriority = 0.5

// MaxIndexChildren caps how many child sitemaps of an index are followed.
const MaxIndexChildren = 10

// MaxIndexDepth caps how many levels of nested sitemap indexes are followed.
const MaxIndexDepth = 3

// CommonPaths are probed, in order, after robots.txt.
var CommonPaths = []string{
	"/sitemap.xml",
	"/sitemap_index.xml",
	"/sitemap-index.xml",
	"/sitemaps/sitemap.xml",
	"/wp-sitemap.xml",
	"/sitemap-0.xml",
}

// URL is one <url> entry of a sitemap.
type URL struct {
	Loc      string  `json:"loc"`
	LastMod  string  `json:"lastmod,omitempty"`
	Priority float64 `json:"priority"`
	// Title is filled by callers that fetch page titles.
	Title string `json:"title,omitempty"`
}

// Document is a parsed sitemap. Exactly one of URLs and Children is
// populated for well-formed input.
type Document struct {
	URLs     []URL
	Children []string
}

// IsIndex reports whether the document is a sitemap index.
func (d *Document) IsIndex() bool { return len(d.Children) > 0 }

type xmlDoc struct {
	XMLName  xml.Name
	URLs     []xmlURL `xml:"url"`
	Sitemaps []xmlLoc `xml:"sitemap"`
}

type xmlURL struct {
	Loc      string `xml:"loc"`
	LastMod  string `xml:"lastmod"`
	Priority string `xml:"priority"`
}

type xmlLoc struct {
	Loc string `xml:"loc"`
}

// Parse decodes a <urlset> or <sitemapindex>. Entries without <loc> are
// dropped and an unparsable priority falls back to DefaultPriority.
func Parse(data []byte) (*Document, error) {
	var raw xmlDoc
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.Strict = false
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("parse sitemap: %w", err)
	}

	doc := &Document{}
	if len(raw.Sitemaps) > 0 {
		for _, s := range raw.Sitemaps {
			if loc := strings.TrimSpace(s.Loc); loc != "" {
				doc.Children = append(doc.Children, loc)
			}
		}
		return doc, nil
	}

	for _, u := range raw.URLs {
		loc := strings.TrimSpace(u.Loc)
		if loc == "" {
			continue
		}
		entry := URL{Loc: loc, LastMod: strings.TrimSpace(u.LastMod), Priority: DefaultPriority}
		if p, err := strconv.ParseFloat(strings.TrimSpace(u.Priority), 64); err == nil {
			entry.Priority = p
		}
		doc.URLs = append(doc.URLs, entry)
	}
	return doc, nil
}

// Reader fetches sitemaps through a WebClient.
type Reader struct {
	wc     webclient.WebClient
	logger logging.Logger
}

func NewReader(wc webclient.WebClient, logger logging.Logger) *Reader {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Reader{wc: wc, logger: logger.With(logging.Field{Key: "component", Value: "sitemap"})}
}

// Fetch downloads sitemapURL and returns every URL it lists. Sitemap indexes
// are followed recursively, at most MaxIndexChildren children per index and
// MaxIndexDepth levels deep. A sitemap already visited is not fetched again.
// Failing children are logged and skipped.
func (r *Reader) Fetch(ctx context.Context, sitemapURL string) ([]URL, error) {
	return r.fetch(ctx, sitemapURL, 0, map[string]bool{sitemapURL: true})
}

func (r *Reader) fetch(ctx context.Context, sitemapURL string, depth int, visited map[string]bool) ([]URL, error) {
	resp, err := r.wc.Get(ctx, sitemapURL)
	if err != nil {
		return nil, fmt.Errorf("fetch sitemap %s: %w", sitemapURL, err)
	}
	if !resp.OK() {
		return nil, fmt.Errorf("fetch sitemap %s: status %d", sitemapURL, resp.StatusCode)
	}

	doc, err := Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", sitemapURL, err)
	}
	if !doc.IsIndex() {
		r.logger.Debug("sitemap parsed",
			logging.Field{Key: "url", Value: sitemapURL},
			logging.Field{Key: "urls", Value: len(doc.URLs)})
		return doc.URLs, nil
	}

	children := doc.Children
	if len(children) > MaxIndexChildren {
		children = children[:MaxIndexChildren]
	}
	r.logger.Debug("sitemap index found",
		logging.Field{Key: "url", Value: sitemapURL},
		logging.Field{Key: "children", Value: len(doc.Children)})

	if depth >= MaxIndexDepth {
		r.logger.Warn("sitemap index nested too deep",
			logging.Field{Key: "url", Value: sitemapURL},
			logging.Field{Key: "depth", Value: depth})
		return nil, nil
	}

	var urls []URL
	for _, child := range children {
		if visited[child] {
			r.logger.Warn("skipping sitemap already visited", logging.Field{Key: "url", Value: child})
			continue
		}
		visited[child] = true
		sub, err := r.fetch(ctx, child, depth+1, visited)
		if err != nil {
			r.logger.Warn("skipping child sitemap",
				logging.Field{Key: "url", Value: child},
				logging.Field{Key: "error", Value: err})
			continue
		}
		urls = append(urls, sub...)
	}
	return urls, nil
}

// Discover returns the first Sitemap: line of robots.txt, else the first
// common path answering 200 to a HEAD request.
func (r *Reader) Discover(ctx context.Context, baseURL string) (string, error) {
	robotsURL, err := utils.Join(baseURL, "/robots.txt")
	if err != nil {
		return "", err
	}
	if resp, err := r.wc.Get(ctx, robotsURL); err == nil && resp.StatusCode != http.StatusNotFound {
		if found := FromRobots(string(resp.Body)); len(found) > 0 {
			r.logger.Debug("sitemap found in robots.txt", logging.Field{Key: "url", Value: found[0]})
			return found[0], nil
		}
	}

	for _, p := range CommonPaths {
		candidate, err := utils.Join(baseURL, p)
		if err != nil {
			continue
		}
		resp, err := r.wc.Do(ctx, &webclient.Request{Method: http.MethodHead, URL: candidate})
		if err != nil {
			continue
		}
		if resp.StatusCode == http.StatusOK {
			r.logger.Debug("sitemap found", logging.Field{Key: "url", Value: candidate})
			return candidate, nil
		}
	}
	return "", ErrNoSitemap
}

// FromRobots returns the Sitemap: URLs of a robots.txt body in file order.
func FromRobots(robots string) []string {
	var out []string
	for _, line := range strings.Split(robots, "\n") {
		line = strings.TrimSpace(line)
		if len(line) < len("sitemap:") || !strings.EqualFold(line[:len("sitemap:")], "sitemap:") {
			continue
		}
		if u := strings.TrimSpace(line[len("sitemap:"):]); u != "" {
			out = append(out, u)
		}
	}
	return out
}

// Fetch is shorthand for NewReader(wc, nil).Fetch.
func Fetch(ctx context.Context, wc webclient.WebClient, sitemapURL string) ([]URL, error) {
	return NewReader(wc, nil).Fetch(ctx, sitemapURL)
}

// Discover is shorthand for NewReader(wc, nil).Discover.
func Discover(ctx context.Context, wc webclient.WebClient, baseURL string) (string, error) {
	return NewReader(wc, nil).Discover(ctx, baseURL)
}

// Package llms generates llms.txt and llms-full.txt files from a site's
// sitemap.
package llms

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/JohannesKaufmann/html-to-markdown/plugin"
	"github.com/PuerkitoBio/goquery"

	"github.com/auriti-labs/geo-optimizer/internal/fetcher"
	"github.com/auriti-labs/geo-optimizer/internal/i18n"
	"github.com/auriti-labs/geo-optimizer/internal/logging"
	"github.com/auriti-labs/geo-optimizer/internal/sitemap"
	"github.com/auriti-labs/geo-optimizer/internal/utils"
)

// ErrNoURLs is returned when the sitemap lists no URL.
var ErrNoURLs = errors.New("no URLs found in sitemap")

var excessiveLines = regexp.MustCompile(`\n{4,}`)

// Generator builds llms.txt files for a site.
type Generator struct {
	fetcher  *fetcher.Fetcher
	sitemaps *sitemap.Reader
	tr       *i18n.Translator
	logger   logging.Logger
	now      func() time.Time
}

// NewGenerator returns a Generator fetching through f. A nil translator
// renders English.
func NewGenerator(f *fetcher.Fetcher, tr *i18n.Translator, logger logging.Logger) *Generator {
	if logger == nil {
		logger = logging.Nop()
	}
	logger = logger.With(logging.Field{Key: "component", Value: "llms"})
	return &Generator{
		fetcher:  f,
		sitemaps: sitemap.NewReader(f.Client(), logger),
		tr:       tr,
		logger:   logger,
		now:      time.Now,
	}
}

// Generate discovers (or uses opts.SitemapURL), reads the sitemap and
// renders llms.txt. A site without a sitemap gets the Minimal file.
func (g *Generator) Generate(ctx context.Context, opts Options) (string, error) {
	base, err := utils.NormalizeBaseURL(opts.BaseURL)
	if err != nil {
		return "", fmt.Errorf("invalid base url %q: %w", opts.BaseURL, err)
	}
	if opts.Date.IsZero() {
		opts.Date = g.now()
	}

	urls, err := g.readSitemap(ctx, base, opts.SitemapURL)
	if errors.Is(err, sitemap.ErrNoSitemap) {
		g.logger.Warn("no sitemap found, writing minimal llms.txt", logging.Field{Key: "base_url", Value: base})
		return Minimal(base, opts, g.tr), nil
	}
	if err != nil {
		return "", err
	}

	if opts.FetchTitles {
		g.fetchTitles(ctx, base, urls, opts)
	}
	return Render(base, urls, opts, g.tr), nil
}

// PageURLs returns the pages llms.txt would list for opts.BaseURL. Without
// a sitemap only the homepage is returned.
func (g *Generator) PageURLs(ctx context.Context, opts Options) ([]string, error) {
	base, err := utils.NormalizeBaseURL(opts.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base url %q: %w", opts.BaseURL, err)
	}
	urls, err := g.readSitemap(ctx, base, opts.SitemapURL)
	if errors.Is(err, sitemap.ErrNoSitemap) {
		return []string{base + "/"}, nil
	}
	if err != nil {
		return nil, err
	}
	return Select(base, urls, opts), nil
}

// readSitemap fetches sitemapURL, or the sitemap discovered for base when
// it is empty. An empty sitemap is ErrNoURLs.
func (g *Generator) readSitemap(ctx context.Context, base, sitemapURL string) ([]sitemap.URL, error) {
	var err error
	if sitemapURL == "" {
		sitemapURL, err = g.sitemaps.Discover(ctx, base)
		if err != nil {
			return nil, err
		}
	}

	urls, err := g.sitemaps.Fetch(ctx, sitemapURL)
	if err != nil {
		return nil, err
	}
	if len(urls) == 0 {
		return nil, fmt.Errorf("%s: %w", sitemapURL, ErrNoURLs)
	}
	g.logger.Info("sitemap read",
		logging.Field{Key: "sitemap", Value: sitemapURL},
		logging.Field{Key: "urls", Value: len(urls)})
	return urls, nil
}

// fetchTitles fills the Title of the URLs that will be rendered with the
// page <title>, else its first <h1>. Failures keep the slug label.
func (g *Generator) fetchTitles(ctx context.Context, base string, urls []sitemap.URL, opts Options) {
	opts = opts.withDefaults()
	var targets []string
	for _, u := range urls {
		if utils.SameDomain(u.Loc, base) && !ShouldSkip(u.Loc) {
			targets = append(targets, u.Loc)
		}
	}
	if len(targets) > opts.MaxURLs*2 {
		targets = targets[:opts.MaxURLs*2]
	}

	fetched := g.fetcher.FetchURLs(ctx, targets)
	for i := range urls {
		res, ok := fetched[urls[i].Loc]
		if !ok || res.Err != nil || !res.Response.OK() {
			continue
		}
		urls[i].Title = pageTitle(res.Response.Body)
	}
}

func pageTitle(body []byte) string {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return ""
	}
	if t := strings.TrimSpace(doc.Find("title").First().Text()); t != "" {
		return t
	}
	return strings.TrimSpace(doc.Find("h1").First().Text())
}

// GenerateFull renders llms-full.txt: the main content of every page in
// urls converted to markdown, one "## <title>" section per page. Pages that
// fail to load are skipped.
func (g *Generator) GenerateFull(ctx context.Context, urls []string) (string, error) {
	if len(urls) == 0 {
		return "", ErrNoURLs
	}
	conv := md.NewConverter("", true, nil)
	conv.Use(plugin.GitHubFlavored())

	fetched := g.fetcher.FetchURLs(ctx, urls)

	var b strings.Builder
	written := 0
	for _, u := range urls {
		res := fetched[u]
		if res.Err != nil || !res.Response.OK() {
			g.logger.Warn("skipping page for llms-full.txt", logging.Field{Key: "url", Value: u})
			continue
		}
		title, markdown, err := pageMarkdown(conv, u, res.Response.Body)
		if err != nil {
			g.logger.Warn("markdown conversion failed",
				logging.Field{Key: "url", Value: u},
				logging.Field{Key: "error", Value: err})
			continue
		}
		if written > 0 {
			b.WriteString("\n---\n\n")
		}
		fmt.Fprintf(&b, "## %s\n\nSource: %s\n\n%s\n", title, u, markdown)
		written++
	}
	if written == 0 {
		return "", fmt.Errorf("no page could be converted")
	}
	return b.String(), nil
}

// pageMarkdown converts the main element of a page (main, article, else
// body without navigation chrome) to markdown.
func pageMarkdown(conv *md.Converter, pageURL string, body []byte) (string, string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return "", "", err
	}
	title := strings.TrimSpace(doc.Find("title").First().Text())
	if title == "" {
		title = URLToLabel(pageURL)
	}

	doc.Find("script, style, noscript, nav, header, footer, aside, form").Remove()
	sel := doc.Find("main").First()
	if sel.Length() == 0 {
		sel = doc.Find("article").First()
	}
	if sel.Length() == 0 {
		sel = doc.Find("body").First()
	}

	out := conv.Convert(sel)
	out = excessiveLines.ReplaceAllString(out, "\n\n\n")
	return title, strings.TrimSpace(out), nil
}

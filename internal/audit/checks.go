package audit

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"

	"github.com/auriti-labs/geo-optimizer/internal/registry"
	"github.com/auriti-labs/geo-optimizer/internal/sitemap"
	"github.com/auriti-labs/geo-optimizer/internal/webclient"
)

// ExtraEntryPoint names the entry point publishing the extra checks.
const ExtraEntryPoint = "geo-extra"

var registerOnce sync.Once

// RegisterDefaultEntryPoints publishes the extra checks so that
// CheckRegistry.LoadEntryPoints picks them up.
func RegisterDefaultEntryPoints() {
	registerOnce.Do(func() {
		registry.RegisterEntryPoint(ExtraEntryPoint, ExtraChecks)
	})
}

// ExtraChecks returns fresh instances of the extra checks.
func ExtraChecks() []registry.Check {
	return []registry.Check{&HTTPSCheck{}, &HTMLLangCheck{}, &SitemapCheck{}}
}

// HTTPSCheck passes when the site, or the URL it redirects to, uses https.
type HTTPSCheck struct{}

func (HTTPSCheck) Name() string        { return "https" }
func (HTTPSCheck) Description() string { return "Site is served over HTTPS" }
func (HTTPSCheck) MaxScore() int       { return 5 }

func (c HTTPSCheck) Run(_ context.Context, target string, _ *goquery.Document, opts registry.Options) (registry.CheckResult, error) {
	res := registry.NewResult(c.Name())
	res.MaxScore = c.MaxScore()

	final, _ := opts[OptFinalURL].(string)
	if final == "" {
		final = target
	}
	u, err := url.Parse(final)
	if err != nil {
		return res, err
	}
	res.Details["scheme"] = u.Scheme
	if strings.EqualFold(u.Scheme, "https") {
		res.Score = res.MaxScore
		res.Passed = true
		res.Message = "served over HTTPS"
	} else {
		res.Message = "not served over HTTPS"
	}
	return res, nil
}

// HTMLLangCheck passes when <html> declares a lang attribute.
type HTMLLangCheck struct{}

func (HTMLLangCheck) Name() string        { return "html_lang" }
func (HTMLLangCheck) Description() string { return "Page declares its language on <html lang>" }
func (HTMLLangCheck) MaxScore() int       { return 5 }

func (c HTMLLangCheck) Run(_ context.Context, _ string, doc *goquery.Document, _ registry.Options) (registry.CheckResult, error) {
	res := registry.NewResult(c.Name())
	res.MaxScore = c.MaxScore()
	if doc == nil {
		return res, errors.New("no document")
	}
	lang, _ := doc.Find("html").First().Attr("lang")
	lang = strings.TrimSpace(lang)
	if lang == "" {
		res.Message = "missing lang attribute"
		return res, nil
	}
	res.Details["lang"] = lang
	res.Score = res.MaxScore
	res.Passed = true
	res.Message = "lang=" + lang
	return res, nil
}

// SitemapCheck passes when a sitemap is declared in robots.txt or answers
// on a common path.
type SitemapCheck struct{}

func (SitemapCheck) Name() string        { return "sitemap" }
func (SitemapCheck) Description() string { return "Site exposes an XML sitemap" }
func (SitemapCheck) MaxScore() int       { return 5 }

func (c SitemapCheck) Run(ctx context.Context, target string, _ *goquery.Document, opts registry.Options) (registry.CheckResult, error) {
	res := registry.NewResult(c.Name())
	res.MaxScore = c.MaxScore()

	found := ""
	if robots, ok := opts[OptRobots].(RobotsResult); ok && len(robots.Sitemaps) > 0 {
		found = robots.Sitemaps[0]
	} else {
		wc, ok := opts[OptWebClient].(webclient.WebClient)
		if !ok || wc == nil {
			return res, errors.New("webclient option missing")
		}
		u, err := sitemap.Discover(ctx, wc, target)
		if err != nil && !errors.Is(err, sitemap.ErrNoSitemap) {
			return res, err
		}
		found = u
	}

	if found == "" {
		res.Message = "no sitemap found"
		return res, nil
	}
	res.Details["url"] = found
	res.Score = res.MaxScore
	res.Passed = true
	res.Message = found
	return res, nil
}

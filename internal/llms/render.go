package llms

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/auriti-labs/geo-optimizer/internal/i18n"
	"github.com/auriti-labs/geo-optimizer/internal/sitemap"
	"github.com/auriti-labs/geo-optimizer/internal/utils"
)

const (
	DefaultMaxURLs           = 50
	DefaultMaxURLsPerSection = 20
	maxOptionalPerCategory   = 5
)

// Options controls llms.txt generation.
type Options struct {
	BaseURL     string
	SiteName    string
	Description string

	// SitemapURL skips discovery when set.
	SitemapURL string

	// MaxURLs caps the links of the whole file; zero means DefaultMaxURLs.
	MaxURLs int
	// MaxURLsPerSection caps each main section; zero means DefaultMaxURLsPerSection.
	MaxURLsPerSection int

	FetchTitles bool

	// Date is printed in the generated-on line; zero means today.
	Date time.Time
}

func (o Options) withDefaults() Options {
	if o.MaxURLs <= 0 {
		o.MaxURLs = DefaultMaxURLs
	}
	if o.MaxURLsPerSection <= 0 {
		o.MaxURLsPerSection = DefaultMaxURLsPerSection
	}
	if o.Date.IsZero() {
		o.Date = time.Now()
	}
	return o
}

type entry struct {
	url      string
	label    string
	category string
}

// SiteName returns the first label of the base URL host without "www.",
// title-cased.
func SiteName(base string) string {
	host := utils.Domain(base)
	host = strings.TrimPrefix(host, "www.")
	if i := strings.Index(host, "."); i >= 0 {
		host = host[:i]
	}
	return titleCaser.String(host)
}

// Render builds llms.txt for base from sitemap urls. Entries are taken in
// descending priority order, restricted to base's domain, filtered with
// ShouldSkip and deduplicated.
func Render(base string, urls []sitemap.URL, opts Options, tr *i18n.Translator) string {
	opts = opts.withDefaults()
	base = strings.TrimRight(base, "/")

	name := opts.SiteName
	if name == "" {
		name = SiteName(base)
	}
	desc := opts.Description
	if desc == "" {
		desc = tr.Tf("Website %s available at %s", name, base)
	}

	categorized := map[string][]entry{}
	for _, e := range selectEntries(base, urls, opts) {
		categorized[e.category] = append(categorized[e.category], e)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", name)
	fmt.Fprintf(&b, "> %s\n\n", desc)
	b.WriteString(tr.Tf("Generated automatically by GEO Optimizer on %s.", opts.Date.Format("2006-01-02")))
	b.WriteString("\n")
	b.WriteString(tr.Tf("Base URL: %s", base))
	b.WriteString("\n\n")

	if home := categorized[CategoryHomepage]; len(home) > 0 {
		b.WriteString(tr.Tf("The main homepage is available at: [%s](%s)", name, home[0].url))
		b.WriteString("\n\n")
	}

	var main, optional []string
	for _, cat := range orderedCategories(categorized) {
		if OptionalCategories[cat] {
			optional = append(optional, cat)
		} else {
			main = append(main, cat)
		}
	}

	for _, cat := range main {
		items := categorized[cat]
		if len(items) > opts.MaxURLsPerSection {
			items = items[:opts.MaxURLsPerSection]
		}
		fmt.Fprintf(&b, "## %s\n\n", tr.T(cat))
		for _, it := range items {
			fmt.Fprintf(&b, "- [%s](%s)\n", it.label, it.url)
		}
		b.WriteString("\n")
	}

	if len(optional) > 0 {
		b.WriteString("## Optional\n\n")
		for _, cat := range optional {
			items := categorized[cat]
			if len(items) > maxOptionalPerCategory {
				items = items[:maxOptionalPerCategory]
			}
			for _, it := range items {
				fmt.Fprintf(&b, "- [%s](%s): %s\n", it.label, it.url, tr.T(cat))
			}
		}
		b.WriteString("\n")
	}

	return strings.TrimRight(b.String(), "\n") + "\n"
}

// Select returns the URLs Render would list for base, in priority order.
func Select(base string, urls []sitemap.URL, opts Options) []string {
	entries := selectEntries(strings.TrimRight(base, "/"), urls, opts.withDefaults())
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.url)
	}
	return out
}

func selectEntries(base string, urls []sitemap.URL, opts Options) []entry {
	sorted := append([]sitemap.URL(nil), urls...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Priority > sorted[j].Priority })

	var out []entry
	seen := map[string]bool{}
	for _, u := range sorted {
		if len(out) >= opts.MaxURLs {
			break
		}
		loc := strings.TrimSpace(u.Loc)
		if !strings.HasPrefix(loc, "http") {
			joined, err := utils.Join(base+"/", loc)
			if err != nil {
				continue
			}
			loc = joined
		}
		if !utils.SameDomain(loc, base) || ShouldSkip(loc) {
			continue
		}
		key := dedupKey(loc)
		if seen[key] {
			continue
		}
		seen[key] = true

		label := u.Title
		if label == "" {
			label = URLToLabel(loc)
		}
		out = append(out, entry{url: loc, label: label, category: Categorize(loc)})
	}
	return out
}

// Minimal renders the fallback llms.txt used when a site has no sitemap.
func Minimal(base string, opts Options, tr *i18n.Translator) string {
	base = strings.TrimRight(base, "/")
	name := opts.SiteName
	if name == "" {
		name = SiteName(base)
	}
	desc := opts.Description
	if desc == "" {
		desc = tr.Tf("Website %s available at %s", name, base)
	}
	return fmt.Sprintf("# %s\n\n> %s\n\n## %s\n\n- [Homepage](%s)\n", name, desc, tr.T(CategoryMainPages), base)
}

func orderedCategories(categorized map[string][]entry) []string {
	inOrder := map[string]bool{}
	var out []string
	for _, c := range PriorityOrder {
		inOrder[c] = true
		if len(categorized[c]) > 0 {
			out = append(out, c)
		}
	}
	var rest []string
	for c := range categorized {
		if c != CategoryHomepage && !inOrder[c] {
			rest = append(rest, c)
		}
	}
	sort.Strings(rest)
	return append(out, rest...)
}

func dedupKey(u string) string {
	key, err := utils.CanonicalURL(u)
	if err != nil {
		return u
	}
	return key
}

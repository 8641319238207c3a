package llms

import (
	"net/url"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Category keys. They are English and double as i18n catalog keys.
const (
	CategoryHomepage  = "_homepage"
	CategoryMainPages = "Main Pages"
	CategoryOther     = "Other"
	CategoryPrivacy   = "Privacy & Legal"
	CategoryTerms     = "Terms"
	CategoryContacts  = "Contacts"
)

type categoryPattern struct {
	re       *regexp.Regexp
	category string
}

// categoryPatterns is matched in order against the lower-cased URL path.
var categoryPatterns = []categoryPattern{
	{regexp.MustCompile(`/blog/`), "Blog & Articles"},
	{regexp.MustCompile(`/article`), "Articles"},
	{regexp.MustCompile(`/post/`), "Posts"},
	{regexp.MustCompile(`/finance/`), "Financial Tools"},
	{regexp.MustCompile(`/health/`), "Health & Wellness"},
	{regexp.MustCompile(`/math/`), "Math"},
	{regexp.MustCompile(`/calcul`), "Calculators"},
	{regexp.MustCompile(`/tool`), "Tools"},
	{regexp.MustCompile(`/app/`), "Applications"},
	{regexp.MustCompile(`/docs?/`), "Documentation"},
	{regexp.MustCompile(`/guide/`), "Guides"},
	{regexp.MustCompile(`/tutorial`), "Tutorials"},
	{regexp.MustCompile(`/product`), "Products"},
	{regexp.MustCompile(`/service`), "Services"},
	{regexp.MustCompile(`/about`), "About Us"},
	{regexp.MustCompile(`/contact`), CategoryContacts},
	{regexp.MustCompile(`/privacy`), CategoryPrivacy},
	{regexp.MustCompile(`/terms`), CategoryTerms},
}

// PriorityOrder is the section order of a rendered llms.txt. Categories not
// listed follow, sorted by name.
var PriorityOrder = []string{
	"Tools", "Calculators", "Financial Tools", "Health & Wellness",
	"Math", "Applications", CategoryMainPages,
	"Documentation", "Guides", "Tutorials",
	"Blog & Articles", "Articles", "Posts",
	"Products", "Services",
	"About Us", CategoryContacts,
	CategoryOther,
	CategoryPrivacy, CategoryTerms,
}

// OptionalCategories are rendered under "## Optional".
var OptionalCategories = map[string]bool{
	CategoryPrivacy:  true,
	CategoryTerms:    true,
	CategoryContacts: true,
	CategoryOther:    true,
}

var skipPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)/wp-`),
	regexp.MustCompile(`(?i)/admin`),
	regexp.MustCompile(`(?i)/login`),
	regexp.MustCompile(`(?i)/logout`),
	regexp.MustCompile(`(?i)/register`),
	regexp.MustCompile(`(?i)/cart`),
	regexp.MustCompile(`(?i)/checkout`),
	regexp.MustCompile(`(?i)/account`),
	regexp.MustCompile(`(?i)/user/`),
	regexp.MustCompile(`(?i)\.(xml|json|rss|atom|pdf|jpg|png|css|js)$`),
	regexp.MustCompile(`(?i)/tag/`),
	regexp.MustCompile(`(?i)/category/\w+/page/`),
	regexp.MustCompile(`(?i)/page/\d+`),
}

// ShouldSkip reports whether u is an admin, account, asset or pagination URL
// that does not belong in llms.txt.
func ShouldSkip(u string) bool {
	for _, re := range skipPatterns {
		if re.MatchString(u) {
			return true
		}
	}
	return false
}

// Categorize returns the category key of u. The site root is
// CategoryHomepage, a single path segment is CategoryMainPages and any
// other unmatched path is CategoryOther.
func Categorize(u string) string {
	path := ""
	if parsed, err := url.Parse(u); err == nil {
		path = strings.ToLower(parsed.Path)
	}
	for _, p := range categoryPatterns {
		if p.re.MatchString(path) {
			return p.category
		}
	}
	if path == "" || path == "/" {
		return CategoryHomepage
	}
	if len(strings.FieldsFunc(path, func(r rune) bool { return r == '/' })) == 1 {
		return CategoryMainPages
	}
	return CategoryOther
}

var titleCaser = cases.Title(language.Und)

// URLToLabel derives a readable label from the last path segment of u.
// A numeric segment is prefixed with its parent.
//
//	https://example.com/tools/bmi-calculator  → "Bmi Calculator"
//	https://example.com/blog/2024             → "Blog/2024"
//	https://example.com/                      → "Homepage"
func URLToLabel(u string) string {
	path := ""
	if parsed, err := url.Parse(u); err == nil {
		path = parsed.Path
	}
	path = strings.Trim(path, "/")
	if path == "" {
		return "Homepage"
	}
	parts := strings.Split(path, "/")
	label := slugToTitle(parts[len(parts)-1])
	if isDigits(label) {
		from := max(len(parts)-2, 0)
		label = slugToTitle(strings.Join(parts[from:], "/"))
	}
	if label == "" {
		return path
	}
	return label
}

func slugToTitle(s string) string {
	s = strings.NewReplacer("-", " ", "_", " ").Replace(s)
	return titleCaser.String(s)
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// Package schema generates JSON-LD blocks and injects them into HTML files.
package schema

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrUnknownTemplate = errors.New("unknown schema template")
	ErrNoHead          = errors.New("<head> tag not found")
	ErrFAQFormat       = errors.New("unrecognized FAQ format, expected [{question, answer}, ...]")
)

// Template names.
const (
	TypeWebsite      = "website"
	TypeWebapp       = "webapp"
	TypeFAQ          = "faq"
	TypeArticle      = "article"
	TypeOrganization = "organization"
	TypeBreadcrumb   = "breadcrumb"
)

// templates hold {{key}} placeholders inside JSON strings only, so a filled
// template stays valid JSON whatever the values.
var templates = map[string]string{
	TypeWebsite: `{
  "@context": "https://schema.org",
  "@type": "WebSite",
  "name": "{{name}}",
  "url": "{{url}}",
  "description": "{{description}}",
  "potentialAction": {
    "@type": "SearchAction",
    "target": {
      "@type": "EntryPoint",
      "urlTemplate": "{{url}}/search?q={search_term_string}"
    },
    "query-input": "required name=search_term_string"
  }
}`,
	TypeWebapp: `{
  "@context": "https://schema.org",
  "@type": "WebApplication",
  "name": "{{name}}",
  "url": "{{url}}",
  "description": "{{description}}",
  "applicationCategory": "UtilityApplication",
  "operatingSystem": "Web",
  "browserRequirements": "Requires JavaScript",
  "offers": {"@type": "Offer", "price": "0", "priceCurrency": "USD"},
  "author": {"@type": "Organization", "name": "{{author}}"}
}`,
	TypeFAQ: `{
  "@context": "https://schema.org",
  "@type": "FAQPage",
  "mainEntity": [
    {
      "@type": "Question",
      "name": "{{question}}",
      "acceptedAnswer": {"@type": "Answer", "text": "{{answer}}"}
    }
  ]
}`,
	TypeArticle: `{
  "@context": "https://schema.org",
  "@type": "Article",
  "headline": "{{title}}",
  "description": "{{description}}",
  "url": "{{url}}",
  "datePublished": "{{date_published}}",
  "dateModified": "{{date_modified}}",
  "author": {"@type": "Person", "name": "{{author}}"},
  "publisher": {
    "@type": "Organization",
    "name": "{{publisher}}",
    "logo": {"@type": "ImageObject", "url": "{{logo_url}}"}
  }
}`,
	TypeOrganization: `{
  "@context": "https://schema.org",
  "@type": "Organization",
  "name": "{{name}}",
  "url": "{{url}}",
  "description": "{{description}}",
  "logo": "{{logo_url}}",
  "sameAs": []
}`,
	TypeBreadcrumb: `{
  "@context": "https://schema.org",
  "@type": "BreadcrumbList",
  "itemListElement": [
    {"@type": "ListItem", "position": 1, "name": "Home", "item": "{{url}}"}
  ]
}`,
}

// Types returns the template names, sorted.
func Types() []string {
	out := make([]string, 0, len(templates))
	for t := range templates {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// Fill substitutes {{key}} placeholders of the named template with values
// and returns the resulting JSON. Placeholders without a value are left in
// place.
func Fill(typ string, values map[string]string) (json.RawMessage, error) {
	tmpl, ok := templates[strings.ToLower(typ)]
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %s)", ErrUnknownTemplate, typ, strings.Join(Types(), ", "))
	}

	pairs := make([]string, 0, len(values)*2)
	for k, v := range values {
		pairs = append(pairs, "{{"+k+"}}", jsonEscape(v))
	}
	out := strings.NewReplacer(pairs...).Replace(tmpl)

	if !json.Valid([]byte(out)) {
		return nil, fmt.Errorf("filled %s template is not valid JSON", typ)
	}
	return json.RawMessage(out), nil
}

// jsonEscape returns v escaped for use inside a JSON string literal.
func jsonEscape(v string) string {
	b, _ := json.Marshal(v)
	return string(b[1 : len(b)-1])
}

package audit

import (
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

const (
	maxTitleLength       = 60
	minDescriptionLength = 120
	maxDescriptionLength = 160
)

// AuditMeta reads title, meta description, canonical link and Open Graph
// tags.
func AuditMeta(doc *goquery.Document) MetaResult {
	var res MetaResult
	if doc == nil {
		return res
	}

	if title := strings.TrimSpace(doc.Find("title").First().Text()); title != "" {
		res.HasTitle = true
		res.Title = title
		res.TitleTooLong = utf8.RuneCountInString(title) > maxTitleLength
	}

	if desc := strings.TrimSpace(attr(doc, `meta[name="description"]`, "content")); desc != "" {
		res.HasDescription = true
		res.Description = desc
		res.DescriptionLength = utf8.RuneCountInString(desc)
		switch {
		case res.DescriptionLength < minDescriptionLength:
			res.DescriptionHint = "short"
		case res.DescriptionLength > maxDescriptionLength:
			res.DescriptionHint = "long"
		}
	}

	if href := attr(doc, `link[rel~="canonical"]`, "href"); href != "" {
		res.HasCanonical = true
		res.Canonical = href
	}

	res.HasOGTitle = attr(doc, `meta[property="og:title"]`, "content") != ""
	res.HasOGDescription = attr(doc, `meta[property="og:description"]`, "content") != ""
	res.HasOGImage = attr(doc, `meta[property="og:image"]`, "content") != ""
	return res
}

func attr(doc *goquery.Document, selector, name string) string {
	v, _ := doc.Find(selector).First().Attr(name)
	return v
}

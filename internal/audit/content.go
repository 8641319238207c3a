package audit

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

const (
	minNumbers = 3
	minWords   = 300
)

var numberPattern = regexp.MustCompile(`\b\d+[%€$£]|\b\d+\.\d+|\b\d{3,}\b`)

// AuditContent measures headings, statistics, length and outbound
// citations of the page at pageURL.
func AuditContent(doc *goquery.Document, pageURL string) ContentResult {
	var res ContentResult
	if doc == nil {
		return res
	}

	if h1 := doc.Find("h1").First(); h1.Length() > 0 {
		res.HasH1 = true
		res.H1 = truncate(strings.TrimSpace(h1.Text()), 60)
	}
	res.HeadingCount = doc.Find("h1, h2, h3, h4").Length()

	text := VisibleText(doc)
	res.NumberCount = len(numberPattern.FindAllStringIndex(text, -1))
	res.HasNumbers = res.NumberCount >= minNumbers
	res.WordCount = len(strings.Fields(text))
	res.SufficientWords = res.WordCount >= minWords

	host := ""
	if u, err := url.Parse(pageURL); err == nil {
		host = u.Host
	}
	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		if strings.HasPrefix(href, "http") && (host == "" || !strings.Contains(href, host)) {
			res.ExternalLinkCount++
		}
	})
	res.HasLinks = res.ExternalLinkCount > 0
	return res
}

// VisibleText returns the text of the document with script, style and
// template contents left out. Text nodes are separated by a space.
func VisibleText(doc *goquery.Document) string {
	var b strings.Builder
	for _, n := range doc.Nodes {
		collectText(n, &b)
	}
	return b.String()
}

func collectText(n *html.Node, b *strings.Builder) {
	if n.Type == html.ElementNode {
		switch n.Data {
		case "script", "style", "noscript", "template":
			return
		}
	}
	if n.Type == html.TextNode {
		b.WriteString(n.Data)
		b.WriteByte(' ')
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, b)
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

package audit

import (
	"encoding/json"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ValuableSchemas are JSON-LD types worth reporting beyond the scored ones.
var ValuableSchemas = []string{
	"WebSite", "WebApplication", "FAQPage", "Article", "BlogPosting",
	"HowTo", "Recipe", "Product", "Organization", "Person", "BreadcrumbList",
}

// AuditSchema collects the JSON-LD types declared on the page. A block may
// hold one object, a list of objects or an object with @graph.
func AuditSchema(doc *goquery.Document) SchemaResult {
	res := SchemaResult{FoundTypes: []string{}}
	if doc == nil {
		return res
	}

	doc.Find(`script[type="application/ld+json"]`).Each(func(_ int, s *goquery.Selection) {
		res.BlockCount++
		var data any
		if err := json.Unmarshal([]byte(strings.TrimSpace(s.Text())), &data); err != nil {
			res.InvalidBlocks++
			return
		}
		for _, obj := range schemaObjects(data) {
			for _, t := range schemaTypes(obj["@type"]) {
				res.FoundTypes = append(res.FoundTypes, t)
				switch t {
				case "WebSite":
					res.HasWebsite = true
				case "WebApplication":
					res.HasWebapp = true
				case "FAQPage":
					res.HasFAQ = true
					if entities, ok := obj["mainEntity"].([]any); ok {
						res.FAQCount += len(entities)
					}
				}
			}
		}
	})
	return res
}

func schemaObjects(data any) []map[string]any {
	var out []map[string]any
	switch v := data.(type) {
	case []any:
		for _, item := range v {
			out = append(out, schemaObjects(item)...)
		}
	case map[string]any:
		if graph, ok := v["@graph"]; ok {
			out = append(out, schemaObjects(graph)...)
		}
		if _, ok := v["@type"]; ok {
			out = append(out, v)
		}
	}
	return out
}

func schemaTypes(v any) []string {
	switch t := v.(type) {
	case string:
		return []string{t}
	case []any:
		var out []string
		for _, item := range t {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

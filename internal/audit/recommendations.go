package audit

// Recommendation texts. They double as i18n catalog keys.
const (
	RecRobots      = "Update robots.txt to allow all AI bots, especially the citation bots"
	RecLlms        = "Create /llms.txt (geo llms --base-url <site>)"
	RecWebsite     = "Add WebSite JSON-LD schema"
	RecFAQ         = "Add FAQPage schema with frequently asked questions"
	RecDescription = "Add an optimized meta description"
	RecNumbers     = "Add concrete numeric statistics (+40% AI visibility)"
	RecLinks       = "Cite authoritative sources with external links"
)

// Recommendations lists the next steps for r in priority order.
func Recommendations(r *AuditResult) []string {
	recs := []string{}
	if !r.Robots.CitationBotsOK {
		recs = append(recs, RecRobots)
	}
	if !r.Llms.Found {
		recs = append(recs, RecLlms)
	}
	if !r.Schema.HasWebsite {
		recs = append(recs, RecWebsite)
	}
	if !r.Schema.HasFAQ {
		recs = append(recs, RecFAQ)
	}
	if !r.Meta.HasDescription {
		recs = append(recs, RecDescription)
	}
	if !r.Content.HasNumbers {
		recs = append(recs, RecNumbers)
	}
	if !r.Content.HasLinks {
		recs = append(recs, RecLinks)
	}
	return recs
}

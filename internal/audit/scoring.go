package audit

// Scoring holds the points awarded per signal. Section maxima are robots 20,
// llms 20, schema 25, meta 20 and content 15.
var Scoring = map[string]int{
	"robots_found":        5,
	"robots_citation_ok":  15,
	"robots_some_allowed": 8,

	"llms_found":    10,
	"llms_h1":       3,
	"llms_sections": 4,
	"llms_links":    3,

	"schema_website": 10,
	"schema_webapp":  8,
	"schema_faq":     7,

	"meta_title":       5,
	"meta_description": 8,
	"meta_canonical":   3,
	"meta_og":          4,

	"content_h1":      4,
	"content_numbers": 6,
	"content_links":   5,
}

// Section names, in report order.
const (
	SectionRobots  = "robots"
	SectionLlms    = "llms"
	SectionSchema  = "schema"
	SectionMeta    = "meta"
	SectionContent = "content"
)

// SectionMax is the maximum score of each section.
var SectionMax = map[string]int{
	SectionRobots:  20,
	SectionLlms:    20,
	SectionSchema:  25,
	SectionMeta:    20,
	SectionContent: 15,
}

// MaxScore caps the total.
const MaxScore = 100

func RobotsScore(r RobotsResult) int {
	s := 0
	if r.Found {
		s += Scoring["robots_found"]
	}
	if r.CitationBotsOK {
		s += Scoring["robots_citation_ok"]
	} else if len(r.BotsAllowed) > 0 {
		s += Scoring["robots_some_allowed"]
	}
	return s
}

// LlmsScore awards structure points only when the file was found.
func LlmsScore(l LlmsResult) int {
	if !l.Found {
		return 0
	}
	s := Scoring["llms_found"]
	if l.HasH1 {
		s += Scoring["llms_h1"]
	}
	if l.HasSections {
		s += Scoring["llms_sections"]
	}
	if l.HasLinks {
		s += Scoring["llms_links"]
	}
	return s
}

func SchemaScore(sc SchemaResult) int {
	s := 0
	if sc.HasWebsite {
		s += Scoring["schema_website"]
	}
	if sc.HasWebapp {
		s += Scoring["schema_webapp"]
	}
	if sc.HasFAQ {
		s += Scoring["schema_faq"]
	}
	return s
}

// MetaScore needs both og:title and og:description for the Open Graph points.
func MetaScore(m MetaResult) int {
	s := 0
	if m.HasTitle {
		s += Scoring["meta_title"]
	}
	if m.HasDescription {
		s += Scoring["meta_description"]
	}
	if m.HasCanonical {
		s += Scoring["meta_canonical"]
	}
	if m.HasOGTitle && m.HasOGDescription {
		s += Scoring["meta_og"]
	}
	return s
}

func ContentScore(c ContentResult) int {
	s := 0
	if c.HasH1 {
		s += Scoring["content_h1"]
	}
	if c.HasNumbers {
		s += Scoring["content_numbers"]
	}
	if c.HasLinks {
		s += Scoring["content_links"]
	}
	return s
}

// ComputeScore sums the section scores of r, capped at MaxScore.
func ComputeScore(r *AuditResult) int {
	total := RobotsScore(r.Robots) + LlmsScore(r.Llms) + SchemaScore(r.Schema) +
		MetaScore(r.Meta) + ContentScore(r.Content)
	return min(total, MaxScore)
}

// Sections breaks the score down per section. A section passes with at
// least half of its maximum.
func Sections(r *AuditResult) []SectionScore {
	scores := []struct {
		name  string
		score int
	}{
		{SectionRobots, RobotsScore(r.Robots)},
		{SectionLlms, LlmsScore(r.Llms)},
		{SectionSchema, SchemaScore(r.Schema)},
		{SectionMeta, MetaScore(r.Meta)},
		{SectionContent, ContentScore(r.Content)},
	}
	out := make([]SectionScore, 0, len(scores))
	for _, s := range scores {
		limit := SectionMax[s.name]
		out = append(out, SectionScore{
			Name:   s.name,
			Score:  s.score,
			Max:    limit,
			Passed: s.score*2 >= limit,
		})
	}
	return out
}

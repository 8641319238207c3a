package report

import (
	"fmt"
	"strings"

	"github.com/auriti-labs/geo-optimizer/internal/audit"
	"github.com/auriti-labs/geo-optimizer/internal/i18n"
)

// GitHub renders GitHub Actions workflow commands: the score annotation,
// then one warning per failed section and per recommendation.
func GitHub(r *audit.AuditResult, tr *i18n.Translator) (string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "::%s::GEO Score: %d/100 (%s) - %s\n",
		audit.AnnotationLevel(r.Score), r.Score, r.Band.Label(), r.URL)

	for _, s := range audit.Sections(r) {
		if !s.Passed {
			fmt.Fprintf(&b, "::warning::%s: %d/%d\n", sectionTitle(s.Name, tr), s.Score, s.Max)
		}
	}
	for _, rec := range r.Recommendations {
		fmt.Fprintf(&b, "::warning::%s\n", tr.T(rec))
	}
	return b.String(), nil
}

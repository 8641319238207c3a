package report

import (
	"fmt"
	"strings"

	"github.com/auriti-labs/geo-optimizer/internal/audit"
	"github.com/auriti-labs/geo-optimizer/internal/i18n"
)

const barWidth = 20

// Bar draws score as a 20 cell bar, one filled cell per 5 points.
func Bar(score int) string {
	filled := min(max(score/5, 0), barWidth)
	return strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)
}

// Text renders the terminal report.
func Text(r *audit.AuditResult, tr *i18n.Translator) (string, error) {
	var b strings.Builder
	rule := strings.Repeat("=", 60)

	fmt.Fprintf(&b, "%s\n  %s - %s\n%s\n\n", rule, tr.T("GEO AUDIT"), r.URL, rule)
	fmt.Fprintf(&b, "  %s: [%s] %d/100\n", tr.T("Score"), Bar(r.Score), r.Score)
	fmt.Fprintf(&b, "  %s - %s\n\n", r.Band.Label(), tr.T(r.Band.Summary()))

	fmt.Fprintf(&b, "  %-18s %-7s %s\n", tr.T("Section"), tr.T("Score"), tr.T("Status"))
	for _, s := range audit.Sections(r) {
		fmt.Fprintf(&b, "  %-18s %-7s %s %s\n",
			sectionTitle(s.Name, tr),
			fmt.Sprintf("%d/%d", s.Score, s.Max),
			mark(s.Passed),
			sectionDetail(r, s.Name, tr))
	}

	if len(r.Checks) > 0 {
		fmt.Fprintf(&b, "\n  %s:\n", tr.T("Extra checks"))
		for _, c := range r.Checks {
			fmt.Fprintf(&b, "  %s %-16s %d/%d  %s\n", mark(c.Passed), c.Name, c.Score, c.MaxScore, c.Message)
		}
	}

	fmt.Fprintf(&b, "\n  %s:\n", tr.T("Recommendations"))
	if len(r.Recommendations) == 0 {
		fmt.Fprintf(&b, "  %s\n", tr.T("All main optimizations are implemented."))
	}
	for i, rec := range r.Recommendations {
		fmt.Fprintf(&b, "  %d. %s\n", i+1, tr.T(rec))
	}
	return b.String(), nil
}

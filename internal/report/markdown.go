package report

import (
	"fmt"
	"strings"

	"github.com/auriti-labs/geo-optimizer/internal/audit"
	"github.com/auriti-labs/geo-optimizer/internal/i18n"
)

// Markdown renders a report table suitable for PR comments.
func Markdown(r *audit.AuditResult, tr *i18n.Translator) (string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", tr.T("GEO Audit Report"))
	fmt.Fprintf(&b, "**URL:** %s  \n", Escape(r.URL))
	fmt.Fprintf(&b, "**%s:** %d/100 (%s)\n\n", tr.T("Score"), r.Score, r.Band.Label())

	fmt.Fprintf(&b, "| %s | %s | %s | %s |\n|---|---|---|---|\n",
		tr.T("Check"), tr.T("Score"), tr.T("Status"), tr.T("Details"))
	for _, s := range audit.Sections(r) {
		fmt.Fprintf(&b, "| %s | %d/%d | %s | %s |\n",
			sectionTitle(s.Name, tr), s.Score, s.Max, mark(s.Passed), cell(sectionDetail(r, s.Name, tr)))
	}

	if len(r.Checks) > 0 {
		fmt.Fprintf(&b, "\n## %s\n\n| %s | %s | %s |\n|---|---|---|\n",
			tr.T("Extra checks"), tr.T("Check"), tr.T("Score"), tr.T("Details"))
		for _, c := range r.Checks {
			fmt.Fprintf(&b, "| %s %s | %d/%d | %s |\n", mark(c.Passed), c.Name, c.Score, c.MaxScore, cell(c.Message))
		}
	}

	if len(r.Recommendations) > 0 {
		fmt.Fprintf(&b, "\n## %s\n\n", tr.T("Recommendations"))
		for _, rec := range r.Recommendations {
			fmt.Fprintf(&b, "- %s\n", Escape(tr.T(rec)))
		}
	}
	return b.String(), nil
}

func cell(s string) string {
	return strings.ReplaceAll(Escape(s), "|", `\|`)
}

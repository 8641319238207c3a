package report

import (
	"bytes"
	"html/template"
	"time"

	"github.com/auriti-labs/geo-optimizer/internal/audit"
	"github.com/auriti-labs/geo-optimizer/internal/i18n"
)

// BandColor is the accent colour of each band in the HTML report.
var BandColor = map[audit.Band]string{
	audit.BandExcellent:  "#22c55e",
	audit.BandGood:       "#06b6d4",
	audit.BandFoundation: "#eab308",
	audit.BandCritical:   "#ef4444",
}

type htmlRow struct {
	Title  string
	Score  int
	Max    int
	Passed bool
	Detail string
}

var htmlTmpl = template.Must(template.New("report").Funcs(template.FuncMap{
	"mark": mark,
}).Parse(htmlReport))

// HTML renders a standalone report page.
func HTML(r *audit.AuditResult, tr *i18n.Translator) (string, error) {
	var rows []htmlRow
	for _, s := range audit.Sections(r) {
		rows = append(rows, htmlRow{
			Title:  sectionTitle(s.Name, tr),
			Score:  s.Score,
			Max:    s.Max,
			Passed: s.Passed,
			Detail: sectionDetail(r, s.Name, tr),
		})
	}
	recs := make([]string, 0, len(r.Recommendations))
	for _, rec := range r.Recommendations {
		recs = append(recs, tr.T(rec))
	}
	ts := r.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	data := map[string]any{
		"Lang":            tr.Lang(),
		"Title":           tr.T("GEO Audit Report"),
		"URL":             r.URL,
		"Score":           r.Score,
		"Label":           r.Band.Label(),
		"Summary":         tr.T(r.Band.Summary()),
		"Color":           template.CSS(BandColor[r.Band]),
		"Rows":            rows,
		"Checks":          r.Checks,
		"Schemas":         r.Schema.FoundTypes,
		"Recommendations": recs,
		"Timestamp":       ts.UTC().Format("2006-01-02 15:04:05 UTC"),
		"ProjectURL":      ProjectURL,
		"T": map[string]string{
			"Check":           tr.T("Check"),
			"Score":           tr.T("Score"),
			"Status":          tr.T("Status"),
			"Details":         tr.T("Details"),
			"FoundSchemas":    tr.T("Found schemas"),
			"Recommendations": tr.T("Recommendations"),
			"ExtraChecks":     tr.T("Extra checks"),
			"GeneratedOn":     tr.T("Generated on"),
		},
	}

	var buf bytes.Buffer
	if err := htmlTmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

const htmlReport = `<!DOCTYPE html>
<html lang="{{.Lang}}">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>GEO Audit Report - {{.URL}}</title>
<style>
  body { font-family: system-ui, -apple-system, sans-serif; max-width: 900px; margin: 0 auto; padding: 24px; background: #0f172a; color: #e2e8f0; }
  h1 { margin-bottom: 4px; }
  .url { color: #94a3b8; word-break: break-all; }
  .score { font-size: 64px; font-weight: 700; color: {{.Color}}; }
  .band { display: inline-block; padding: 4px 12px; border-radius: 999px; background: {{.Color}}; color: #0f172a; font-weight: 700; }
  table { width: 100%; border-collapse: collapse; margin: 24px 0; }
  th, td { text-align: left; padding: 8px; border-bottom: 1px solid #334155; }
  ul { line-height: 1.6; }
  footer { margin-top: 32px; color: #64748b; font-size: 13px; }
  a { color: #38bdf8; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<div class="url">{{.URL}}</div>
<div class="score">{{.Score}}<small>/100</small></div>
<span class="band">{{.Label}}</span>
<p>{{.Summary}}</p>

<table>
  <tr><th>{{.T.Check}}</th><th>{{.T.Score}}</th><th>{{.T.Status}}</th><th>{{.T.Details}}</th></tr>
  {{- range .Rows}}
  <tr><td>{{.Title}}</td><td>{{.Score}}/{{.Max}}</td><td>{{mark .Passed}}</td><td>{{.Detail}}</td></tr>
  {{- end}}
</table>
{{if .Checks}}
<h2>{{.T.ExtraChecks}}</h2>
<table>
  {{- range .Checks}}
  <tr><td>{{.Name}}</td><td>{{.Score}}/{{.MaxScore}}</td><td>{{mark .Passed}}</td><td>{{.Message}}</td></tr>
  {{- end}}
</table>
{{end}}
{{- if .Schemas}}
<h2>{{.T.FoundSchemas}}</h2>
<ul>{{range .Schemas}}<li>{{.}}</li>{{end}}</ul>
{{end}}
{{- if .Recommendations}}
<h2>{{.T.Recommendations}}</h2>
<ul>{{range .Recommendations}}<li>{{.}}</li>{{end}}</ul>
{{end}}
<footer>{{.T.GeneratedOn}} {{.Timestamp}} · <a href="{{.ProjectURL}}">GEO Optimizer</a></footer>
</body>
</html>
`

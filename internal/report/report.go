// Package report renders an audit.AuditResult as text, JSON, HTML,
// GitHub Actions annotations or markdown.
package report

import (
	"errors"
	"fmt"
	"strings"

	"github.com/auriti-labs/geo-optimizer/internal/audit"
	"github.com/auriti-labs/geo-optimizer/internal/i18n"
)

// Format names.
const (
	FormatText     = "text"
	FormatJSON     = "json"
	FormatHTML     = "html"
	FormatGitHub   = "github"
	FormatMarkdown = "markdown"
)

// ProjectURL is linked from the HTML report footer.
const ProjectURL = "https://github.com/auriti-labs/geo-optimizer"

var ErrUnknownFormat = errors.New("unknown report format")

type formatter func(r *audit.AuditResult, tr *i18n.Translator) (string, error)

var formatters = map[string]formatter{
	FormatText:     Text,
	FormatJSON:     JSON,
	FormatHTML:     HTML,
	FormatGitHub:   GitHub,
	FormatMarkdown: Markdown,
}

// Formats lists the supported format names.
func Formats() []string {
	return []string{FormatText, FormatJSON, FormatHTML, FormatGitHub, FormatMarkdown}
}

// Format renders r with the named formatter. A nil translator renders
// English.
func Format(r *audit.AuditResult, name string, tr *i18n.Translator) (string, error) {
	f, ok := formatters[strings.ToLower(name)]
	if !ok {
		return "", fmt.Errorf("%w: %q (available: %s)", ErrUnknownFormat, name, strings.Join(Formats(), ", "))
	}
	if r == nil {
		return "", errors.New("nil audit result")
	}
	return f(r, tr)
}

var escaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")

// Escape replaces & < > and " with HTML entities.
func Escape(s string) string {
	return escaper.Replace(s)
}

// sectionTitle is the display name of an audit section.
func sectionTitle(name string, tr *i18n.Translator) string {
	switch name {
	case audit.SectionRobots:
		return "Robots.txt"
	case audit.SectionLlms:
		return "llms.txt"
	case audit.SectionSchema:
		return "Schema JSON-LD"
	case audit.SectionMeta:
		return tr.T("Meta Tags")
	case audit.SectionContent:
		return tr.T("Content Quality")
	}
	return name
}

// sectionDetail summarises one section in a short line.
func sectionDetail(r *audit.AuditResult, name string, tr *i18n.Translator) string {
	switch name {
	case audit.SectionRobots:
		if !r.Robots.Found {
			return tr.T("Not found")
		}
		s := fmt.Sprintf("%d %s", len(r.Robots.BotsAllowed), tr.T("bots allowed"))
		if r.Robots.CitationBotsOK {
			return s + ", " + tr.T("citation bots OK")
		}
		return s + ", " + tr.T("citation bots missing") + ": " + strings.Join(r.Robots.MissingCitationBots(), ", ")
	case audit.SectionLlms:
		if !r.Llms.Found {
			return tr.T("Not found")
		}
		return fmt.Sprintf("%d %s, %d %s", len(r.Llms.Sections), tr.T("sections"), r.Llms.LinkCount, tr.T("links"))
	case audit.SectionSchema:
		if len(r.Schema.FoundTypes) == 0 {
			return tr.T("No schema")
		}
		return strings.Join(r.Schema.FoundTypes, ", ")
	case audit.SectionMeta:
		var present []string
		if r.Meta.HasTitle {
			present = append(present, tr.T("title"))
		}
		if r.Meta.HasDescription {
			present = append(present, tr.T("description"))
		}
		if r.Meta.HasCanonical {
			present = append(present, tr.T("canonical"))
		}
		if r.Meta.HasOGTitle && r.Meta.HasOGDescription {
			present = append(present, "og")
		}
		if len(present) == 0 {
			return "-"
		}
		return strings.Join(present, ", ")
	case audit.SectionContent:
		return fmt.Sprintf("%d %s, %d %s, %d %s",
			r.Content.WordCount, tr.T("words"),
			r.Content.NumberCount, tr.T("numbers"),
			r.Content.ExternalLinkCount, tr.T("external links"))
	}
	return ""
}

func mark(ok bool) string {
	if ok {
		return "✅"
	}
	return "❌"
}

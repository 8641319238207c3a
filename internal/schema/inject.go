package schema

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/bmatcuk/doublestar/v4"

	"github.com/auriti-labs/geo-optimizer/internal/audit"
)

var (
	headClose = regexp.MustCompile(`(?i)</head\s*>`)
	headOpen  = regexp.MustCompile(`(?i)<head(\s[^>]*)?>`)
)

// ToScriptTag wraps a JSON-LD document in a script tag, indented with two
// spaces.
func ToScriptTag(doc json.RawMessage) (string, error) {
	var buf bytes.Buffer
	if err := json.Indent(&buf, doc, "", "  "); err != nil {
		return "", fmt.Errorf("indent schema: %w", err)
	}
	return "<script type=\"application/ld+json\">\n" + buf.String() + "\n</script>", nil
}

// Analysis describes the JSON-LD already present in an HTML document.
type Analysis struct {
	Found   []string `json:"found"`
	Missing []string `json:"missing"`
	HasHead bool     `json:"has_head"`
}

// Analyze lists the JSON-LD types of html and which of website, webapp and
// faq are missing.
func Analyze(html string) (Analysis, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return Analysis{}, fmt.Errorf("parse html: %w", err)
	}
	sc := audit.AuditSchema(doc)

	a := Analysis{
		Found:   sc.FoundTypes,
		Missing: []string{},
		HasHead: headOpen.MatchString(html),
	}
	if !sc.HasWebsite {
		a.Missing = append(a.Missing, TypeWebsite)
	}
	if !sc.HasWebapp {
		a.Missing = append(a.Missing, TypeWebapp)
	}
	if !sc.HasFAQ {
		a.Missing = append(a.Missing, TypeFAQ)
	}
	return a, nil
}

// Inject inserts tag before </head>, or right after <head> when the head is
// never closed.
func Inject(html, tag string) (string, error) {
	if loc := headClose.FindStringIndex(html); loc != nil {
		return html[:loc[0]] + "\n  " + tag + "\n" + html[loc[0]:], nil
	}
	if loc := headOpen.FindStringIndex(html); loc != nil {
		return html[:loc[1]] + "\n  " + tag + html[loc[1]:], nil
	}
	return "", ErrNoHead
}

// InjectFile injects tag into the HTML file at path. With backup set the
// original content is first copied to path + ".bak".
func InjectFile(path, tag string, backup bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	out, err := Inject(string(data), tag)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if backup {
		if err := os.WriteFile(path+".bak", data, info.Mode().Perm()); err != nil {
			return fmt.Errorf("write backup: %w", err)
		}
	}
	return os.WriteFile(path, []byte(out), info.Mode().Perm())
}

// InjectGlob injects tag into every file matching pattern, which may use **.
// It returns the files changed; failures on single files are joined into the
// returned error and do not stop the others.
func InjectGlob(pattern, tag string, backup bool) ([]string, error) {
	matches, err := doublestar.FilepathGlob(pattern)
	if err != nil {
		return nil, fmt.Errorf("glob error: %w", err)
	}

	var (
		changed []string
		errs    []error
	)
	for _, m := range matches {
		if info, err := os.Stat(m); err != nil || info.IsDir() {
			continue
		}
		if err := InjectFile(m, tag, backup); err != nil {
			errs = append(errs, err)
			continue
		}
		changed = append(changed, m)
	}
	return changed, errors.Join(errs...)
}

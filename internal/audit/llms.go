package audit

import (
	"context"
	"net/http"
	"regexp"
	"strings"

	"github.com/auriti-labs/geo-optimizer/internal/utils"
	"github.com/auriti-labs/geo-optimizer/internal/webclient"
)

var markdownLink = regexp.MustCompile(`\[([^\]]+)\]\(([^)]+)\)`)

// ParseLlmsTxt inspects the structure of an llms.txt body. Found is left
// false; AnalyzeLlms sets it.
func ParseLlmsTxt(text string) LlmsResult {
	res := LlmsResult{
		Size:      len(text),
		WordCount: len(strings.Fields(text)),
	}
	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimRight(raw, "\r")
		switch {
		case strings.HasPrefix(line, "# "):
			if !res.HasH1 {
				res.HasH1 = true
				res.H1 = strings.TrimSpace(line[2:])
			}
		case strings.HasPrefix(line, "> "):
			res.HasDescription = true
		case strings.HasPrefix(line, "## "):
			res.HasSections = true
			res.Sections = append(res.Sections, strings.TrimSpace(line[3:]))
		}
	}
	res.LinkCount = len(markdownLink.FindAllStringIndex(text, -1))
	res.HasLinks = res.LinkCount > 0
	return res
}

// AnalyzeLlms evaluates a fetched llms.txt. Any response other than a 404
// counts as found.
func AnalyzeLlms(resp *webclient.Response, fetchErr error) LlmsResult {
	if fetchErr != nil {
		return LlmsResult{Error: fetchErr.Error()}
	}
	if resp == nil {
		return LlmsResult{}
	}
	if resp.StatusCode == http.StatusNotFound {
		return LlmsResult{Status: resp.StatusCode}
	}
	res := ParseLlmsTxt(string(resp.Body))
	res.Found = true
	res.Status = resp.StatusCode
	return res
}

// AuditLlmsTxt fetches <base>/llms.txt and analyses it.
func AuditLlmsTxt(ctx context.Context, wc webclient.WebClient, baseURL string) LlmsResult {
	llmsURL, err := utils.Join(baseURL, "/llms.txt")
	if err != nil {
		return AnalyzeLlms(nil, err)
	}
	resp, err := wc.Get(ctx, llmsURL)
	return AnalyzeLlms(resp, err)
}

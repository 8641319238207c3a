package audit

import (
	"context"
	"net/http"
	"sort"
	"strings"

	"github.com/auriti-labs/geo-optimizer/internal/sitemap"
	"github.com/auriti-labs/geo-optimizer/internal/utils"
	"github.com/auriti-labs/geo-optimizer/internal/webclient"
)

// Bot is an AI crawler user agent checked in robots.txt.
type Bot struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// AIBots is the built-in crawler table, in report order.
var AIBots = []Bot{
	{"GPTBot", "OpenAI (ChatGPT training)"},
	{"OAI-SearchBot", "OpenAI (ChatGPT search citations)"},
	{"ChatGPT-User", "OpenAI (ChatGPT on-demand fetch)"},
	{"anthropic-ai", "Anthropic (Claude training)"},
	{"ClaudeBot", "Anthropic (Claude citations)"},
	{"claude-web", "Anthropic (Claude web crawl)"},
	{"PerplexityBot", "Perplexity AI (index builder)"},
	{"Perplexity-User", "Perplexity (citation fetch)"},
	{"Google-Extended", "Google (Gemini training)"},
	{"Applebot-Extended", "Apple (AI training)"},
	{"cohere-ai", "Cohere (language models)"},
	{"DuckAssistBot", "DuckDuckGo AI"},
	{"Bytespider", "ByteDance/TikTok AI"},
}

// CitationBots must all be allowed for AI search citations.
var CitationBots = []string{"OAI-SearchBot", "ClaudeBot", "PerplexityBot"}

// RobotsRules is the parsed form of a robots.txt file.
type RobotsRules struct {
	// Disallow maps a lower-cased user agent to its Disallow values, in file
	// order. An agent listed without rules maps to an empty slice.
	Disallow map[string][]string
	Sitemaps []string
}

// ParseRobots parses robots.txt. Consecutive User-agent lines share the
// rules that follow them, and an agent named in several groups accumulates
// their rules.
func ParseRobots(text string) RobotsRules {
	rules := RobotsRules{Disallow: map[string][]string{}}
	var current []string
	inAgentRun := false

	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if i := strings.Index(line, "#"); i >= 0 {
			line = strings.TrimSpace(line[:i])
		}
		if line == "" {
			continue
		}
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		key = strings.ToLower(strings.TrimSpace(key))
		value = strings.TrimSpace(value)

		switch key {
		case "user-agent":
			agent := strings.ToLower(value)
			if !inAgentRun {
				current = current[:0:0]
			}
			current = append(current, agent)
			inAgentRun = true
			if _, seen := rules.Disallow[agent]; !seen {
				rules.Disallow[agent] = []string{}
			}
		case "disallow":
			inAgentRun = false
			for _, a := range current {
				rules.Disallow[a] = append(rules.Disallow[a], value)
			}
		default:
			inAgentRun = false
		}
	}
	rules.Sitemaps = sitemap.FromRobots(text)
	return rules
}

// Bots returns AIBots followed by the extra bots not already listed, sorted
// by name.
func Bots(extra map[string]string) []Bot {
	out := append([]Bot(nil), AIBots...)
	known := map[string]bool{}
	for _, b := range AIBots {
		known[strings.ToLower(b.Name)] = true
	}
	names := make([]string, 0, len(extra))
	for name := range extra {
		if name != "" && !known[strings.ToLower(name)] {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	for _, name := range names {
		out = append(out, Bot{Name: name, Description: extra[name]})
	}
	return out
}

// AnalyzeRobots evaluates a fetched robots.txt. fetchErr and a 404 both
// mean the file is missing.
func AnalyzeRobots(resp *webclient.Response, fetchErr error, extraBots map[string]string) RobotsResult {
	res := RobotsResult{
		BotsAllowed: []string{},
		BotsBlocked: []string{},
		BotsMissing: []string{},
	}
	if fetchErr != nil {
		res.Error = fetchErr.Error()
		return res
	}
	if resp == nil {
		return res
	}
	res.Status = resp.StatusCode
	if resp.StatusCode == http.StatusNotFound {
		return res
	}
	res.Found = true

	rules := ParseRobots(string(resp.Body))
	res.Sitemaps = rules.Sitemaps

	for _, bot := range Bots(extraBots) {
		disallows, listed := rules.Disallow[strings.ToLower(bot.Name)]
		switch {
		case !listed:
			res.BotsMissing = append(res.BotsMissing, bot.Name)
		case blocksAll(disallows):
			res.BotsBlocked = append(res.BotsBlocked, bot.Name)
		default:
			res.BotsAllowed = append(res.BotsAllowed, bot.Name)
			if !allEmpty(disallows) {
				res.BotsPartial = append(res.BotsPartial, bot.Name)
			}
		}
	}

	res.CitationBotsOK = true
	for _, c := range CitationBots {
		if !contains(res.BotsAllowed, c) {
			res.CitationBotsOK = false
			break
		}
	}
	return res
}

// AuditRobots fetches <base>/robots.txt and analyses it.
func AuditRobots(ctx context.Context, wc webclient.WebClient, baseURL string, extraBots map[string]string) RobotsResult {
	robotsURL, err := utils.Join(baseURL, "/robots.txt")
	if err != nil {
		return AnalyzeRobots(nil, err, extraBots)
	}
	resp, err := wc.Get(ctx, robotsURL)
	return AnalyzeRobots(resp, err, extraBots)
}

// MissingCitationBots lists citation bots that are not allowed.
func (r RobotsResult) MissingCitationBots() []string {
	var out []string
	for _, c := range CitationBots {
		if !contains(r.BotsAllowed, c) {
			out = append(out, c)
		}
	}
	return out
}

func blocksAll(disallows []string) bool {
	for _, d := range disallows {
		if d == "/" || d == "/*" {
			return true
		}
	}
	return false
}

func allEmpty(values []string) bool {
	for _, v := range values {
		if v != "" {
			return false
		}
	}
	return true
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

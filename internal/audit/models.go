package audit

import (
	"time"

	"github.com/auriti-labs/geo-optimizer/internal/registry"
)

// RobotsResult describes AI crawler access granted by robots.txt.
type RobotsResult struct {
	Found  bool   `json:"found"`
	Status int    `json:"status,omitempty"`
	Error  string `json:"error,omitempty"`

	BotsAllowed []string `json:"bots_allowed"`
	BotsBlocked []string `json:"bots_blocked"`
	BotsMissing []string `json:"bots_missing"`
	// BotsPartial is the subset of BotsAllowed with path level Disallow rules.
	BotsPartial    []string `json:"bots_partial,omitempty"`
	CitationBotsOK bool     `json:"citation_bots_ok"`
	Sitemaps       []string `json:"sitemaps,omitempty"`
}

// LlmsResult describes the /llms.txt index file.
type LlmsResult struct {
	Found  bool   `json:"found"`
	Status int    `json:"status,omitempty"`
	Error  string `json:"error,omitempty"`
	Size   int    `json:"size"`

	HasH1          bool     `json:"has_h1"`
	H1             string   `json:"h1,omitempty"`
	HasDescription bool     `json:"has_description"`
	HasSections    bool     `json:"has_sections"`
	Sections       []string `json:"sections,omitempty"`
	HasLinks       bool     `json:"has_links"`
	LinkCount      int      `json:"link_count"`
	WordCount      int      `json:"word_count"`
}

// SchemaResult describes the JSON-LD blocks of the page.
type SchemaResult struct {
	FoundTypes    []string `json:"found_types"`
	HasWebsite    bool     `json:"has_website"`
	HasWebapp     bool     `json:"has_webapp"`
	HasFAQ        bool     `json:"has_faq"`
	FAQCount      int      `json:"faq_count,omitempty"`
	BlockCount    int      `json:"block_count"`
	InvalidBlocks int      `json:"invalid_blocks"`
}

// MetaResult describes title, description, canonical and Open Graph tags.
type MetaResult struct {
	HasTitle     bool   `json:"has_title"`
	Title        string `json:"title,omitempty"`
	TitleTooLong bool   `json:"title_too_long,omitempty"`

	HasDescription    bool   `json:"has_description"`
	Description       string `json:"description,omitempty"`
	DescriptionLength int    `json:"description_length"`
	// DescriptionHint is "short", "long" or empty.
	DescriptionHint string `json:"description_hint,omitempty"`

	HasCanonical     bool   `json:"has_canonical"`
	Canonical        string `json:"canonical,omitempty"`
	HasOGTitle       bool   `json:"has_og_title"`
	HasOGDescription bool   `json:"has_og_description"`
	HasOGImage       bool   `json:"has_og_image"`
}

// ContentResult describes on-page content quality signals.
type ContentResult struct {
	HasH1             bool   `json:"has_h1"`
	H1                string `json:"h1,omitempty"`
	HeadingCount      int    `json:"heading_count"`
	NumberCount       int    `json:"number_count"`
	HasNumbers        bool   `json:"has_numbers"`
	WordCount         int    `json:"word_count"`
	SufficientWords   bool   `json:"sufficient_words"`
	ExternalLinkCount int    `json:"external_link_count"`
	HasLinks          bool   `json:"has_links"`
}

// SectionScore is the score of one audit section.
type SectionScore struct {
	Name   string `json:"name"`
	Score  int    `json:"score"`
	Max    int    `json:"max"`
	Passed bool   `json:"passed"`
}

// AuditResult is the full outcome of auditing one site.
type AuditResult struct {
	ID         string    `json:"id"`
	URL        string    `json:"url"`
	Timestamp  time.Time `json:"timestamp"`
	HTTPStatus int       `json:"http_status"`
	PageSize   int       `json:"page_size"`

	Score int  `json:"score"`
	Band  Band `json:"band"`

	Robots  RobotsResult  `json:"robots"`
	Llms    LlmsResult    `json:"llms"`
	Schema  SchemaResult  `json:"schema"`
	Meta    MetaResult    `json:"meta"`
	Content ContentResult `json:"content"`

	// Checks holds plugin check results. They are reported but do not
	// contribute to Score.
	Checks          []registry.CheckResult `json:"checks,omitempty"`
	Recommendations []string               `json:"recommendations"`
}

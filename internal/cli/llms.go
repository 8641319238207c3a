package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/auriti-labs/geo-optimizer/internal/llms"
	"github.com/auriti-labs/geo-optimizer/internal/utils"
)

type llmsOptions struct {
	baseURL       string
	output        string
	sitemap       string
	siteName      string
	description   string
	maxURLs       int
	maxPerSection int
	fetchTitles   bool
	full          bool
}

func newLlmsCommand(g *globalOptions) *cobra.Command {
	o := &llmsOptions{}
	cmd := &cobra.Command{
		Use:   "llms",
		Short: "Generate llms.txt (or llms-full.txt) from the site sitemap",
		Example: `  geo llms --base-url https://example.com --output public/llms.txt
  geo llms --base-url https://example.com --full --output public/llms-full.txt`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			o.applyProject(cmd, g)
			return runLlms(cmd, g, o)
		},
	}

	f := cmd.Flags()
	f.StringVar(&o.baseURL, "base-url", "", "Site base URL (e.g. https://example.com)")
	f.StringVarP(&o.output, "output", "o", "", "Output file (default: stdout)")
	f.StringVar(&o.sitemap, "sitemap", "", "Sitemap URL (discovered when empty)")
	f.StringVar(&o.siteName, "site-name", "", "Site name used as the title")
	f.StringVar(&o.description, "description", "", "Site description (blockquote)")
	f.IntVar(&o.maxURLs, "max-urls", llms.DefaultMaxURLs, "Maximum number of links")
	f.IntVar(&o.maxPerSection, "max-per-section", llms.DefaultMaxURLsPerSection, "Maximum links per section")
	f.BoolVar(&o.fetchTitles, "fetch-titles", false, "Fetch page titles for the labels (slow)")
	f.BoolVar(&o.full, "full", false, "Generate llms-full.txt with the content of every page")
	return cmd
}

func (o *llmsOptions) applyProject(cmd *cobra.Command, g *globalOptions) {
	p := g.project.Llms
	f := cmd.Flags()
	if !f.Changed("base-url") && p.BaseURL != "" {
		o.baseURL = p.BaseURL
	}
	if !f.Changed("site-name") && p.Title != "" {
		o.siteName = p.Title
	}
	if !f.Changed("description") && p.Description != "" {
		o.description = p.Description
	}
	if !f.Changed("max-urls") && p.MaxURLs > 0 {
		o.maxURLs = p.MaxURLs
	}
	if !f.Changed("fetch-titles") && p.FetchTitles {
		o.fetchTitles = true
	}
}

func runLlms(cmd *cobra.Command, g *globalOptions, o *llmsOptions) error {
	if o.baseURL == "" {
		return fmt.Errorf("--base-url is required (or llms.base_url in the project config)")
	}
	base, err := utils.NormalizeBaseURL(o.baseURL)
	if err != nil {
		return fmt.Errorf("invalid base URL %q: %w", o.baseURL, err)
	}

	a, err := g.newApp(cmd, nil)
	if err != nil {
		return err
	}
	defer a.Close()

	opts := llms.Options{
		BaseURL:           base,
		SiteName:          o.siteName,
		Description:       o.description,
		SitemapURL:        o.sitemap,
		MaxURLs:           o.maxURLs,
		MaxURLsPerSection: o.maxPerSection,
		FetchTitles:       o.fetchTitles,
	}

	var out string
	if o.full {
		out, err = a.GenerateLlmsFull(cmd.Context(), opts)
	} else {
		out, err = a.GenerateLlms(cmd.Context(), opts)
	}
	if err != nil {
		return err
	}
	return writeOutput(cmd, o.output, out, a.Translator())
}

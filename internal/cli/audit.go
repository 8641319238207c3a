package cli

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/auriti-labs/geo-optimizer/internal/app"
	"github.com/auriti-labs/geo-optimizer/internal/audit"
	"github.com/auriti-labs/geo-optimizer/internal/report"
	"github.com/auriti-labs/geo-optimizer/internal/utils"
)

type auditOptions struct {
	url      string
	format   string
	output   string
	minScore int
	cache    bool
}

func newAuditCommand(g *globalOptions) *cobra.Command {
	o := &auditOptions{}
	cmd := &cobra.Command{
		Use:   "audit [url]",
		Short: "Audit a website for AI search visibility",
		Example: `  geo audit https://example.com
  geo audit --url example.com --format json --output report.json
  geo audit --url example.com --format github --min-score 70`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				if cmd.Flags().Changed("url") {
					return fmt.Errorf("pass the URL either as argument or with --url, not both")
				}
				o.url = args[0]
			}
			o.applyProject(cmd, g)
			return runAudit(cmd, g, o)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&o.url, "url", "u", "", "Site URL to audit")
	f.StringVarP(&o.format, "format", "f", report.FormatText, "Output format: "+strings.Join(report.Formats(), ", "))
	f.StringVarP(&o.output, "output", "o", "", "Write the report to a file instead of stdout")
	f.IntVar(&o.minScore, "min-score", 0, "Exit with status 1 when the score is below this value")
	f.BoolVar(&o.cache, "cache", false, "Cache HTTP responses on disk")
	return cmd
}

// applyProject fills the flags left unset from the audit section of the
// project config.
func (o *auditOptions) applyProject(cmd *cobra.Command, g *globalOptions) {
	p := g.project.Audit
	f := cmd.Flags()
	if o.url == "" {
		o.url = p.URL
	}
	if !f.Changed("format") && p.Format != "" {
		o.format = p.Format
	}
	if !f.Changed("output") && p.Output != "" {
		o.output = p.Output
	}
	if !f.Changed("min-score") && p.MinScore > 0 {
		o.minScore = p.MinScore
	}
	if !f.Changed("cache") && p.Cache {
		o.cache = true
	}
	if !cmd.Flags().Changed("verbose") && p.Verbose {
		g.verbose = true
	}
}

func runAudit(cmd *cobra.Command, g *globalOptions, o *auditOptions) error {
	if o.url == "" {
		return fmt.Errorf("a site URL is required (argument, --url or audit.url in the project config)")
	}
	target, err := utils.NormalizeBaseURL(o.url)
	if err != nil {
		return fmt.Errorf("invalid URL %q: %w", o.url, err)
	}
	if !slices.Contains(report.Formats(), o.format) {
		return fmt.Errorf("%w: %q (available: %s)", report.ErrUnknownFormat, o.format, strings.Join(report.Formats(), ", "))
	}

	a, err := g.newApp(cmd, func(c *app.Config) {
		if o.cache {
			c.CacheCfg.Enabled = true
		}
	})
	if err != nil {
		return err
	}
	defer a.Close()

	var progress audit.ProgressFunc
	if g.verbose {
		progress = func(ev audit.Event) {
			fmt.Fprintf(cmd.ErrOrStderr(), "[%3d%%] %s\n", ev.Percent, ev.Message)
		}
	}

	res, err := a.AuditWithProgress(cmd.Context(), target, progress)
	if err != nil {
		return err
	}

	tr := a.Translator()
	out, err := report.Format(res, o.format, tr)
	if err != nil {
		return err
	}
	if !strings.HasSuffix(out, "\n") {
		out += "\n"
	}
	if err := writeOutput(cmd, o.output, out, tr); err != nil {
		return err
	}

	if o.minScore > 0 && res.Score < o.minScore {
		return &ExitError{
			Code: 1,
			Err:  fmt.Errorf("GEO score %d is below the minimum %d", res.Score, o.minScore),
		}
	}
	return nil
}

package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"

	"github.com/auriti-labs/geo-optimizer/internal/schema"
)

type schemaOptions struct {
	types       []string
	name        string
	url         string
	description string
	author      string
	logoURL     string
	faqFile     string
}

func newSchemaCommand(g *globalOptions) *cobra.Command {
	o := &schemaOptions{}
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Generate, analyze and inject JSON-LD schema",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "types",
			Short: "List the available schema templates",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				for _, t := range schema.Types() {
					fmt.Fprintln(cmd.OutOrStdout(), t)
				}
				return nil
			},
		},
		newSchemaGenerateCommand(g, o),
		newSchemaAnalyzeCommand(),
		newSchemaInjectCommand(g, o),
		newSchemaAstroCommand(g, o),
	)
	return cmd
}

// bindValues registers the template value flags on cmd.
func (o *schemaOptions) bindValues(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringSliceVarP(&o.types, "type", "t", nil, "Schema types: "+strings.Join(schema.Types(), ", ")+" (default: schema.types from the project config, else website)")
	f.StringVar(&o.name, "name", "", "Site or application name")
	f.StringVar(&o.url, "url", "", "Site URL")
	f.StringVar(&o.description, "description", "", "Description")
	f.StringVar(&o.author, "author", "", "Author")
	f.StringVar(&o.logoURL, "logo-url", "", "Logo URL")
	f.StringVar(&o.faqFile, "faq-file", "", "JSON file with the FAQ items [{question, answer}]")
}

func (o *schemaOptions) applyProject(cmd *cobra.Command, g *globalOptions) {
	p := g.project.Schema
	f := cmd.Flags()
	set := func(flag string, dst *string, v string) {
		if !f.Changed(flag) && v != "" {
			*dst = v
		}
	}
	set("name", &o.name, p.Name)
	set("url", &o.url, p.URL)
	set("description", &o.description, p.Description)
	set("author", &o.author, p.Author)
	set("logo-url", &o.logoURL, p.LogoURL)
	if len(o.types) == 0 {
		o.types = p.Types
	}
	if len(o.types) == 0 {
		o.types = []string{schema.TypeWebsite}
	}
}

func (o *schemaOptions) values() map[string]string {
	today := time.Now().Format("2006-01-02")
	publisher := o.author
	if publisher == "" {
		publisher = o.name
	}
	return map[string]string{
		"name":           o.name,
		"title":          o.name,
		"url":            strings.TrimRight(o.url, "/"),
		"description":    o.description,
		"author":         o.author,
		"publisher":      publisher,
		"logo_url":       o.logoURL,
		"date_published": today,
		"date_modified":  today,
	}
}

// tags builds one script tag per requested type.
func (o *schemaOptions) tags() ([]string, error) {
	values := o.values()
	out := make([]string, 0, len(o.types))
	for _, typ := range o.types {
		var (
			doc json.RawMessage
			err error
		)
		if strings.EqualFold(typ, schema.TypeFAQ) {
			doc, err = o.faq()
		} else {
			doc, err = schema.Fill(typ, values)
		}
		if err != nil {
			return nil, err
		}
		tag, err := schema.ToScriptTag(doc)
		if err != nil {
			return nil, err
		}
		out = append(out, tag)
	}
	return out, nil
}

func (o *schemaOptions) faq() (json.RawMessage, error) {
	if o.faqFile == "" {
		return schema.DefaultFAQ(), nil
	}
	data, err := os.ReadFile(o.faqFile)
	if err != nil {
		return nil, err
	}
	return schema.FAQFromJSON(data)
}

func newSchemaGenerateCommand(g *globalOptions, o *schemaOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "generate",
		Short:   "Print JSON-LD script tags",
		Example: `  geo schema generate --type website,faq --name "My Site" --url https://example.com --faq-file faq.json`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			o.applyProject(cmd, g)
			tags, err := o.tags()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), strings.Join(tags, "\n\n"))
			return nil
		},
	}
	o.bindValues(cmd)
	return cmd
}

func newSchemaAnalyzeCommand() *cobra.Command {
	var (
		file   string
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Report the JSON-LD present in an HTML file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(file)
			if err != nil {
				return err
			}
			a, err := schema.Analyze(string(data))
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				return enc.Encode(a)
			}
			fmt.Fprintf(w, "File: %s\n", file)
			fmt.Fprintf(w, "Head: %v\n", a.HasHead)
			fmt.Fprintf(w, "Found: %s\n", listOrNone(a.Found))
			fmt.Fprintf(w, "Missing: %s\n", listOrNone(a.Missing))
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "HTML file to analyze")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the analysis as JSON")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newSchemaInjectCommand(g *globalOptions, o *schemaOptions) *cobra.Command {
	var (
		file     string
		glob     string
		dryRun   bool
		noBackup bool
	)
	cmd := &cobra.Command{
		Use:   "inject",
		Short: "Insert JSON-LD into HTML files before </head>",
		Example: `  geo schema inject --file index.html --type website --name "My Site" --url https://example.com
  geo schema inject --glob "dist/**/*.html" --type faq --faq-file faq.json --dry-run`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if (file == "") == (glob == "") {
				return fmt.Errorf("exactly one of --file or --glob is required")
			}
			o.applyProject(cmd, g)
			tags, err := o.tags()
			if err != nil {
				return err
			}
			tag := strings.Join(tags, "\n  ")

			paths := []string{file}
			if glob != "" {
				if paths, err = doublestar.FilepathGlob(glob, doublestar.WithFilesOnly()); err != nil {
					return fmt.Errorf("glob error: %w", err)
				}
			}

			w := cmd.OutOrStdout()
			if dryRun {
				for _, p := range paths {
					data, err := os.ReadFile(p)
					if err != nil {
						return err
					}
					out, err := schema.Inject(string(data), tag)
					if err != nil {
						return fmt.Errorf("%s: %w", p, err)
					}
					fmt.Fprintf(w, "--- %s\n%s", p, schema.FormatDiff(schema.Diff(string(data), out)))
				}
				return nil
			}

			if glob != "" {
				changed, err := schema.InjectGlob(glob, tag, !noBackup)
				for _, p := range changed {
					fmt.Fprintf(w, "injected: %s\n", p)
				}
				return err
			}
			if err := schema.InjectFile(file, tag, !noBackup); err != nil {
				return err
			}
			fmt.Fprintf(w, "injected: %s\n", file)
			return nil
		},
	}
	o.bindValues(cmd)
	f := cmd.Flags()
	f.StringVar(&file, "file", "", "HTML file to modify")
	f.StringVar(&glob, "glob", "", "Glob of HTML files to modify (supports **)")
	f.BoolVar(&dryRun, "dry-run", false, "Print the diff without writing")
	f.BoolVar(&noBackup, "no-backup", false, "Do not write a .bak copy before modifying")
	return cmd
}

func newSchemaAstroCommand(g *globalOptions, o *schemaOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "astro",
		Short: "Print a JSON-LD snippet for an Astro BaseLayout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			o.applyProject(cmd, g)
			if o.url == "" || o.name == "" {
				return fmt.Errorf("--url and --name are required")
			}
			fmt.Fprint(cmd.OutOrStdout(), schema.AstroSnippet(strings.TrimRight(o.url, "/"), o.name))
			return nil
		},
	}
	cmd.Flags().StringVar(&o.name, "name", "", "Site name")
	cmd.Flags().StringVar(&o.url, "url", "", "Site URL")
	return cmd
}

func listOrNone(items []string) string {
	if len(items) == 0 {
		return "-"
	}
	return strings.Join(items, ", ")
}

// Package cli implements the geo command line: audits, llms.txt and schema
// generation, cache and history maintenance and the web server.
package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/auriti-labs/geo-optimizer/internal/app"
	"github.com/auriti-labs/geo-optimizer/internal/config"
	"github.com/auriti-labs/geo-optimizer/internal/i18n"
	"github.com/auriti-labs/geo-optimizer/internal/logging"
	"github.com/auriti-labs/geo-optimizer/internal/webclient"
)

// ExitError carries a process exit code. main exits with Code after
// printing Err, if any.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit status %d", e.Code)
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error { return e.Err }

// globalOptions are the persistent flags shared by every subcommand, plus
// the project config loaded before any of them runs.
type globalOptions struct {
	lang       string
	verbose    bool
	configPath string
	historyDSN string
	noHistory  bool
	backend    string
	envFile    string

	project *config.ProjectConfig
}

// NewRootCommand builds the geo command tree.
func NewRootCommand() *cobra.Command {
	g := &globalOptions{}

	cmd := &cobra.Command{
		Use:   "geo",
		Short: "Generative Engine Optimization toolkit",
		Long: `geo audits a website for visibility in AI search engines and generates
the files that improve it: llms.txt, llms-full.txt and JSON-LD schema.

Defaults are read from .geo-optimizer.yml in the working directory, then
from GEO_* environment variables (a .env file is loaded if present).`,
		Version:       app.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return g.load()
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&g.lang, "lang", "", "Output language (it, en); defaults to GEO_LANG")
	pf.BoolVarP(&g.verbose, "verbose", "v", false, "Verbose output and debug logs")
	pf.StringVarP(&g.configPath, "config", "c", "", "Project config file (default: .geo-optimizer.yml)")
	pf.StringVar(&g.historyDSN, "history", "", "History database: SQLite path or postgres:// URL")
	pf.BoolVar(&g.noHistory, "no-history", false, "Do not record audits")
	pf.StringVar(&g.backend, "backend", string(webclient.ClientNetHTTP), "HTTP backend: nethttp or chromedp")
	pf.StringVar(&g.envFile, "env-file", ".env", "Environment file loaded before reading GEO_* variables")

	cmd.AddCommand(
		newAuditCommand(g),
		newLlmsCommand(g),
		newSchemaCommand(g),
		newCacheCommand(g),
		newHistoryCommand(g),
		newChecksCommand(g),
		newWebCommand(g),
	)
	return cmd
}

func (g *globalOptions) load() error {
	config.LoadDotEnv(g.envFile)

	var err error
	if g.configPath != "" {
		g.project, err = config.Load(g.configPath)
	} else {
		g.project, err = config.LoadFromDir(".")
	}
	if err != nil {
		return fmt.Errorf("loading project config: %w", err)
	}

	if g.lang != "" {
		i18n.SetLang(g.lang)
	}
	return nil
}

// projectPath is the config file watched by `geo web --reload`.
func (g *globalOptions) projectPath() string {
	if g.configPath != "" {
		return g.configPath
	}
	if g.project != nil && g.project.Path != "" {
		return g.project.Path
	}
	return filepath.Join(".", config.FileNames[0])
}

// appConfig layers defaults, environment, project file and flags, in that
// order.
func (g *globalOptions) appConfig() *app.Config {
	cfg := app.DefaultConfig()
	cfg.ApplyEnv(config.Env())
	cfg.ApplyProject(g.project)

	cfg.Lang = g.lang
	if g.backend != "" {
		cfg.WebClientCfg.Client = webclient.Client(g.backend)
	}
	if g.historyDSN != "" {
		cfg.HistoryDSN = g.historyDSN
	}
	if g.noHistory {
		cfg.HistoryDSN = ""
	}
	return cfg
}

func (g *globalOptions) translator() *i18n.Translator {
	if g.lang != "" {
		return i18n.New(g.lang)
	}
	return i18n.New(i18n.GetLang())
}

// logger writes JSON logs to w: debug and up with --verbose, warnings
// otherwise.
func (g *globalOptions) logger(component string, w io.Writer) logging.Logger {
	level := logging.LevelWarn
	if g.verbose {
		level = logging.LevelDebug
	}
	return logging.NewLogger(component, w, level)
}

func (g *globalOptions) newApp(cmd *cobra.Command, mutate func(*app.Config)) (*app.Application, error) {
	cfg := g.appConfig()
	if mutate != nil {
		mutate(cfg)
	}
	a, err := app.NewApplication(cfg, g.logger("geo", cmd.ErrOrStderr()))
	if err != nil {
		return nil, err
	}
	return a, nil
}

// writeOutput writes content to path, or to the command output when path
// is empty.
func writeOutput(cmd *cobra.Command, path, content string, tr *i18n.Translator) error {
	if path == "" {
		_, err := io.WriteString(cmd.OutOrStdout(), content)
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	fmt.Fprintln(cmd.ErrOrStderr(), tr.Tf("Written to %s", path))
	return nil
}

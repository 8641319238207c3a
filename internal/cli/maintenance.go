package cli

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/auriti-labs/geo-optimizer/internal/app"
	"github.com/auriti-labs/geo-optimizer/internal/cache"
	"github.com/auriti-labs/geo-optimizer/internal/history"
	"github.com/auriti-labs/geo-optimizer/internal/utils"
)

func newCacheCommand(g *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear the HTTP response cache",
	}
	open := func() *cache.FileCache {
		cfg := g.appConfig()
		return cache.New(cfg.CacheCfg.Dir, cfg.CacheCfg.TTL)
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "clear",
			Short: "Delete every cached response",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				n, err := open().Clear()
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "removed %d cached responses\n", n)
				return nil
			},
		},
		&cobra.Command{
			Use:   "stats",
			Short: "Show the number and size of cached responses",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				c := open()
				st, err := c.Stats()
				if err != nil {
					return err
				}
				w := cmd.OutOrStdout()
				fmt.Fprintf(w, "dir:   %s\n", c.Dir())
				fmt.Fprintf(w, "ttl:   %s\n", c.TTL())
				fmt.Fprintf(w, "files: %d\n", st.Files)
				fmt.Fprintf(w, "size:  %.1f KB\n", float64(st.SizeBytes)/1024)
				return nil
			},
		},
	)
	return cmd
}

func newHistoryCommand(g *globalOptions) *cobra.Command {
	var (
		url   string
		limit int
	)
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List past audits of a site, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := g.appConfig()
			if cfg.HistoryDSN == "" {
				return app.ErrHistoryDisabled
			}
			if url == "" {
				url = g.project.Audit.URL
			}
			if url != "" {
				u, err := utils.NormalizeBaseURL(url)
				if err != nil {
					return fmt.Errorf("invalid URL %q: %w", url, err)
				}
				url = u
			}

			store, err := history.Open(cfg.HistoryDSN, g.logger("history", cmd.ErrOrStderr()))
			if err != nil {
				return err
			}
			defer store.Close()

			audits, err := store.List(cmd.Context(), url, limit)
			if err != nil {
				return err
			}
			if len(audits) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no audits recorded")
				return nil
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "DATE\tSCORE\tBAND\tURL\tID")
			for _, r := range audits {
				fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\n",
					r.Timestamp.Local().Format(time.DateTime), r.Score, r.Band, r.URL, r.ID)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVarP(&url, "url", "u", "", "Only audits of this site (default: all)")
	cmd.Flags().IntVarP(&limit, "limit", "n", history.DefaultListLimit, "Maximum number of audits")
	return cmd
}

func newChecksCommand(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "checks",
		Short: "List the registered plugin checks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := g.newApp(cmd, func(c *app.Config) { c.HistoryDSN = "" })
			if err != nil {
				return err
			}
			defer a.Close()

			checks := a.Checks().All()
			if len(checks) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no checks registered")
				return nil
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tMAX\tDESCRIPTION")
			for _, c := range checks {
				fmt.Fprintf(tw, "%s\t%d\t%s\n", c.Name(), c.MaxScore(), c.Description())
			}
			return tw.Flush()
		},
	}
}

package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/auriti-labs/geo-optimizer/internal/config"
	"github.com/auriti-labs/geo-optimizer/internal/logging"
	"github.com/auriti-labs/geo-optimizer/internal/server"
)

const shutdownTimeout = 5 * time.Second

type webOptions struct {
	host   string
	port   int
	reload bool
}

func newWebCommand(g *globalOptions) *cobra.Command {
	o := &webOptions{}
	cmd := &cobra.Command{
		Use:   "web",
		Short: "Start the web UI and REST API",
		Long: `Start the web UI, the REST API and the websocket audit stream.

With --reload the project config file is watched and the server restarts
with the new settings whenever it changes.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWeb(cmd, g, o)
		},
	}
	f := cmd.Flags()
	f.StringVar(&o.host, "host", "127.0.0.1", "Listen host")
	f.IntVarP(&o.port, "port", "p", 8000, "Listen port")
	f.BoolVar(&o.reload, "reload", false, "Restart when the project config changes")
	return cmd
}

func runWeb(cmd *cobra.Command, g *globalOptions, o *webOptions) error {
	if o.port < 1 || o.port > 65535 {
		return fmt.Errorf("invalid port %d", o.port)
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	logger := g.logger("web", cmd.ErrOrStderr())

	reloads := make(chan *config.ProjectConfig, 1)
	if o.reload {
		w, err := config.NewWatcher(g.projectPath(), logger, func(p *config.ProjectConfig) {
			select {
			case reloads <- p:
			default:
			}
		})
		if err != nil {
			return fmt.Errorf("watching config: %w", err)
		}
		defer w.Close()
		g.project = w.Current()

		wctx, cancel := context.WithCancel(ctx)
		defer cancel()
		go w.Run(wctx)
	}

	addr := net.JoinHostPort(o.host, strconv.Itoa(o.port))
	for {
		next, err := serveOnce(ctx, cmd, g, addr, logger, reloads)
		if err != nil || next == nil {
			return err
		}
		g.project = next
		fmt.Fprintln(cmd.ErrOrStderr(), "config changed, restarting")
	}
}

// serveOnce runs one server until ctx is done or a reload arrives. It
// returns the new project config on reload, nil on shutdown.
func serveOnce(ctx context.Context, cmd *cobra.Command, g *globalOptions, addr string, logger logging.Logger, reloads <-chan *config.ProjectConfig) (*config.ProjectConfig, error) {
	srv, err := server.NewServer(server.Config{
		ListenAddr: addr,
		AppConfig:  g.appConfig(),
		Logger:     logger,
	})
	if err != nil {
		return nil, err
	}
	defer srv.Close()

	httpSrv := srv.HTTPServer()
	errCh := make(chan error, 1)
	go func() {
		errCh <- httpSrv.ListenAndServe()
	}()
	fmt.Fprintf(cmd.OutOrStdout(), "GEO Optimizer web UI: %s\n", srv.URL())

	var next *config.ProjectConfig
	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil, nil
		}
		return nil, err
	case <-ctx.Done():
	case next = <-reloads:
	}

	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpSrv.Shutdown(sctx); err != nil {
		logger.Warn("server shutdown", logging.Field{Key: "error", Value: err.Error()})
	}
	return next, nil
}

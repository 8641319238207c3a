package app

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/auriti-labs/geo-optimizer/internal/audit"
	"github.com/auriti-labs/geo-optimizer/internal/cache"
	"github.com/auriti-labs/geo-optimizer/internal/fetcher"
	"github.com/auriti-labs/geo-optimizer/internal/history"
	"github.com/auriti-labs/geo-optimizer/internal/i18n"
	"github.com/auriti-labs/geo-optimizer/internal/llms"
	"github.com/auriti-labs/geo-optimizer/internal/logging"
	"github.com/auriti-labs/geo-optimizer/internal/registry"
	"github.com/auriti-labs/geo-optimizer/internal/webclient"
)

// Application is the runtime state container. It owns the shared webclient,
// the check registry and the optional history store, and exposes the
// operations used by the CLI and the web server.
type Application struct {
	Config *Config
	Logger logging.Logger

	client  webclient.WebClient
	cache   *cache.FileCache
	fetcher *fetcher.Fetcher
	checks  *registry.CheckRegistry
	auditor *audit.Auditor
	llms    *llms.Generator
	history *history.Store
	tr      *i18n.Translator

	jobsMu     sync.Mutex
	jobs       map[string]*Job
	jobCancels map[string]context.CancelFunc

	closeOnce sync.Once
}

// Option customises NewApplication.
type Option func(*options)

type options struct {
	client webclient.WebClient
}

// WithWebClient replaces the configured webclient backend. The cache still
// wraps it when enabled.
func WithWebClient(wc webclient.WebClient) Option {
	return func(o *options) { o.client = wc }
}

// NewApplication wires every component from cfg.
func NewApplication(cfg *Config, logger logging.Logger, opts ...Option) (*Application, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if logger == nil {
		logger = logging.Nop()
	}
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	wc := o.client
	if wc == nil {
		var err error
		wc, err = webclient.NewWebClient(cfg.WebClientCfg, logger)
		if err != nil {
			return nil, fmt.Errorf("creating webclient: %w", err)
		}
	}

	a := &Application{
		Config:     cfg,
		Logger:     logger,
		tr:         cfg.translator(),
		jobs:       make(map[string]*Job),
		jobCancels: make(map[string]context.CancelFunc),
	}

	if cfg.CacheCfg.Enabled {
		a.cache = cache.New(cfg.CacheCfg.Dir, cfg.CacheCfg.TTL)
		wc = webclient.NewCachedClient(wc, a.cache, logger)
	}
	a.client = wc

	f, err := fetcher.New(cfg.FetcherCfg.MaxConcurrency, wc, logger)
	if err != nil {
		wc.Close()
		return nil, fmt.Errorf("creating fetcher: %w", err)
	}
	a.fetcher = f

	a.checks = registry.New()
	audit.RegisterDefaultEntryPoints()
	n, err := a.checks.LoadEntryPoints()
	if err != nil {
		logger.Warn("some checks were not loaded", logging.Field{Key: "error", Value: err.Error()})
	}
	logger.Debug("checks loaded", logging.Field{Key: "count", Value: n})

	a.auditor = audit.NewAuditor(f, a.checks, logger, audit.WithExtraBots(cfg.ExtraBots))
	a.llms = llms.NewGenerator(f, a.tr, logger)

	if cfg.HistoryDSN != "" {
		store, err := history.Open(cfg.HistoryDSN, logger)
		if err != nil {
			wc.Close()
			return nil, fmt.Errorf("opening history: %w", err)
		}
		a.history = store
	}

	return a, nil
}

// Audit runs a full audit of url and records it in the history store.
func (a *Application) Audit(ctx context.Context, url string) (*audit.AuditResult, error) {
	return a.AuditWithProgress(ctx, url, nil)
}

// AuditWithProgress is Audit with progress notifications.
func (a *Application) AuditWithProgress(ctx context.Context, url string, fn audit.ProgressFunc) (*audit.AuditResult, error) {
	res, err := a.auditor.AuditWithProgress(ctx, url, fn)
	if err != nil {
		return nil, err
	}
	if a.history != nil {
		if err := a.history.Save(ctx, res); err != nil {
			a.Logger.Warn("saving audit to history", logging.Field{Key: "error", Value: err.Error()})
		}
	}
	return res, nil
}

// GenerateLlms builds llms.txt for the site described by opts.
func (a *Application) GenerateLlms(ctx context.Context, opts llms.Options) (string, error) {
	return a.llms.Generate(ctx, opts)
}

// GenerateLlmsFull builds llms-full.txt from the pages llms.txt would list
// for opts.
func (a *Application) GenerateLlmsFull(ctx context.Context, opts llms.Options) (string, error) {
	urls, err := a.llms.PageURLs(ctx, opts)
	if err != nil {
		return "", err
	}
	return a.llms.GenerateFull(ctx, urls)
}

// ErrHistoryDisabled is returned by history accessors when no store is configured.
var ErrHistoryDisabled = errors.New("audit history is disabled")

// History returns the history store, or ErrHistoryDisabled.
func (a *Application) History() (*history.Store, error) {
	if a.history == nil {
		return nil, ErrHistoryDisabled
	}
	return a.history, nil
}

// Cache returns the response cache, nil when disabled.
func (a *Application) Cache() *cache.FileCache { return a.cache }

func (a *Application) Checks() *registry.CheckRegistry { return a.checks }

func (a *Application) Translator() *i18n.Translator { return a.tr }

// Close cancels running jobs and releases the webclient and history store.
func (a *Application) Close() error {
	var errs []error
	a.closeOnce.Do(func() {
		a.jobsMu.Lock()
		for _, cancel := range a.jobCancels {
			cancel()
		}
		a.jobsMu.Unlock()

		if err := a.client.Close(); err != nil {
			errs = append(errs, err)
		}
		if a.history != nil {
			if err := a.history.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	})
	return errors.Join(errs...)
}

package audit

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"

	"github.com/auriti-labs/geo-optimizer/internal/fetcher"
	"github.com/auriti-labs/geo-optimizer/internal/logging"
	"github.com/auriti-labs/geo-optimizer/internal/registry"
	"github.com/auriti-labs/geo-optimizer/internal/utils"
)

// Progress stages reported by AuditWithProgress.
const (
	StageFetch   = "fetch"
	StageRobots  = "robots"
	StageLlms    = "llms"
	StageSchema  = "schema"
	StageMeta    = "meta"
	StageContent = "content"
	StageChecks  = "checks"
	StageDone    = "done"
)

// Event is a progress notification emitted while an audit runs.
type Event struct {
	Stage   string `json:"stage"`
	Message string `json:"message"`
	Percent int    `json:"percent"`
}

// ProgressFunc receives audit progress events. It is called synchronously.
type ProgressFunc func(Event)

// Option keys passed to plugin checks.
const (
	OptWebClient = "webclient"
	OptRobots    = "robots"
	OptFinalURL  = "final_url"
)

// Auditor runs the GEO audit of a site.
type Auditor struct {
	fetcher   *fetcher.Fetcher
	checks    *registry.CheckRegistry
	extraBots map[string]string
	logger    logging.Logger
	now       func() time.Time
}

type Option func(*Auditor)

// WithExtraBots adds crawler user agents to the robots.txt analysis.
func WithExtraBots(bots map[string]string) Option {
	return func(a *Auditor) { a.extraBots = bots }
}

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(a *Auditor) { a.now = now }
}

// NewAuditor builds an Auditor. checks may be nil.
func NewAuditor(f *fetcher.Fetcher, checks *registry.CheckRegistry, logger logging.Logger, opts ...Option) *Auditor {
	if logger == nil {
		logger = logging.Nop()
	}
	a := &Auditor{
		fetcher: f,
		checks:  checks,
		logger:  logger.With(logging.Field{Key: "component", Value: "auditor"}),
		now:     time.Now,
	}
	for _, o := range opts {
		o(a)
	}
	return a
}

// Audit audits the site at rawURL.
func (a *Auditor) Audit(ctx context.Context, rawURL string) (*AuditResult, error) {
	return a.AuditWithProgress(ctx, rawURL, nil)
}

// AuditWithProgress audits the site at rawURL, reporting progress to fn.
// The homepage, robots.txt and llms.txt are fetched concurrently. Only an
// unreachable homepage is an error; every other failure is recorded in the
// result.
func (a *Auditor) AuditWithProgress(ctx context.Context, rawURL string, fn ProgressFunc) (*AuditResult, error) {
	emit := func(stage string, pct int, msg string) {
		if fn != nil {
			fn(Event{Stage: stage, Percent: pct, Message: msg})
		}
	}

	base, err := utils.NormalizeBaseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid url %q: %w", rawURL, err)
	}
	robotsURL, _ := utils.Join(base, "/robots.txt")
	llmsURL, _ := utils.Join(base, "/llms.txt")

	a.logger.Info("starting audit", logging.Field{Key: "url", Value: base})
	emit(StageFetch, 5, "fetching "+base)

	fetched := a.fetcher.FetchURLs(ctx, []string{base, robotsURL, llmsURL})
	page := fetched[base]
	if page.Err != nil {
		a.logger.Error("homepage unreachable",
			logging.Field{Key: "url", Value: base},
			logging.Field{Key: "error", Value: page.Err})
		return nil, fmt.Errorf("cannot reach %s: %w", base, page.Err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page.Response.Body))
	if err != nil {
		a.logger.Warn("failed to parse homepage", logging.Field{Key: "error", Value: err})
		doc, _ = goquery.NewDocumentFromReader(strings.NewReader(""))
	}

	res := &AuditResult{
		URL:        base,
		HTTPStatus: page.Response.StatusCode,
		PageSize:   len(page.Response.Body),
	}

	emit(StageRobots, 20, "checking robots.txt")
	res.Robots = AnalyzeRobots(fetched[robotsURL].Response, fetched[robotsURL].Err, a.extraBots)

	emit(StageLlms, 35, "checking llms.txt")
	res.Llms = AnalyzeLlms(fetched[llmsURL].Response, fetched[llmsURL].Err)

	emit(StageSchema, 50, "checking JSON-LD schema")
	res.Schema = AuditSchema(doc)

	emit(StageMeta, 65, "checking meta tags")
	res.Meta = AuditMeta(doc)

	emit(StageContent, 80, "checking content quality")
	res.Content = AuditContent(doc, base)

	if a.checks != nil && len(a.checks.Names()) > 0 {
		emit(StageChecks, 90, "running plugin checks")
		res.Checks = a.checks.RunAll(ctx, base, doc, registry.Options{
			OptWebClient: a.fetcher.Client(),
			OptRobots:    res.Robots,
			OptFinalURL:  page.Response.URL,
		})
	}

	res.Score = ComputeScore(res)
	res.Band = BandFor(res.Score)
	res.Recommendations = Recommendations(res)
	res.ID = uuid.NewString()
	res.Timestamp = a.now().UTC()

	a.logger.Info("audit complete",
		logging.Field{Key: "url", Value: base},
		logging.Field{Key: "score", Value: res.Score},
		logging.Field{Key: "band", Value: string(res.Band)})
	emit(StageDone, 100, fmt.Sprintf("score %d/100", res.Score))
	return res, nil
}

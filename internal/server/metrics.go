package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/auriti-labs/geo-optimizer/internal/audit"
)

type metrics struct {
	registry    *prometheus.Registry
	audits      *prometheus.CounterVec
	scores      prometheus.Histogram
	fetchErrors *prometheus.CounterVec
	requests    *prometheus.CounterVec
}

// newMetrics uses a private registry so several servers can coexist in one
// process.
func newMetrics() *metrics {
	m := &metrics{
		registry: prometheus.NewRegistry(),
		audits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "geo",
			Name:      "audits_total",
			Help:      "Completed audits by score band.",
		}, []string{"band"}),
		scores: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "geo",
			Name:      "audit_score",
			Help:      "Distribution of GEO scores.",
			Buckets:   prometheus.LinearBuckets(10, 10, 10),
		}),
		fetchErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "geo",
			Name:      "fetch_errors_total",
			Help:      "Audit resources that could not be fetched.",
		}, []string{"resource"}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "geo",
			Name:      "http_requests_total",
			Help:      "HTTP requests served by route.",
		}, []string{"method", "route"}),
	}
	m.registry.MustRegister(
		m.audits, m.scores, m.fetchErrors, m.requests,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *metrics) observeAudit(r *audit.AuditResult) {
	m.audits.WithLabelValues(string(r.Band)).Inc()
	m.scores.Observe(float64(r.Score))
	if r.Robots.Error != "" {
		m.fetchErrors.WithLabelValues("robots").Inc()
	}
	if r.Llms.Error != "" {
		m.fetchErrors.WithLabelValues("llms").Inc()
	}
}

func (m *metrics) handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

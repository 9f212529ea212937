package observability

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Namespace prefixes every folio metric.
const Namespace = "folio"

// Metrics contains the Prometheus metrics for citation rendering, export and
// the HTTP server.
type Metrics struct {
	// CitationsRendered counts formatted citations, labeled by style.
	CitationsRendered *prometheus.CounterVec

	// ExportsWritten counts exported entries, labeled by format (bibtex, ris, csl, xlsx).
	ExportsWritten *prometheus.CounterVec

	// HTTPRequests counts served requests, labeled by route pattern and status code.
	HTTPRequests *prometheus.CounterVec

	// HTTPDuration observes request latency in seconds, labeled by route pattern.
	HTTPDuration *prometheus.HistogramVec

	// RateLimited counts requests rejected by the rate limiter.
	RateLimited prometheus.Counter
}

// NewMetrics creates and registers the metrics on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		CitationsRendered: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "citations_rendered_total",
			Help:      "Total number of citations rendered, by style.",
		}, []string{"style"}),

		ExportsWritten: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "exports_written_total",
			Help:      "Total number of publications exported, by format.",
		}, []string{"format"}),

		HTTPRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests, by route and status code.",
		}, []string{"route", "code"}),

		HTTPDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: Namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency in seconds, by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),

		RateLimited: f.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "http",
			Name:      "rate_limited_total",
			Help:      "Total number of requests rejected by the rate limiter.",
		}),
	}
}

// RecordCitation records one rendered citation.
func (m *Metrics) RecordCitation(style string) {
	m.CitationsRendered.WithLabelValues(style).Inc()
}

// RecordExport records n exported publications.
func (m *Metrics) RecordExport(format string, n int) {
	m.ExportsWritten.WithLabelValues(format).Add(float64(n))
}

// RecordRequest records one served HTTP request.
func (m *Metrics) RecordRequest(route string, code int, seconds float64) {
	m.HTTPRequests.WithLabelValues(route, strconv.Itoa(code)).Inc()
	m.HTTPDuration.WithLabelValues(route).Observe(seconds)
}

// RecordRateLimited records one rejected request.
func (m *Metrics) RecordRateLimited() {
	m.RateLimited.Inc()
}

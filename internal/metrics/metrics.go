// Package metrics exposes Prometheus collectors for the scraper service.
package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels shared by the pipeline collectors.
const (
	StatusOK         = "ok"
	StatusFetchError = "fetch_error"
	StatusBadStatus  = "bad_status"
	StatusNoName     = "no_name"

	ResultFound    = "found"
	ResultMissing  = "missing"
	ResultError    = "error"
	ResultSkipped  = "skipped"
	ResultCached   = "cached"
	ResultHit      = "hit"
	ResultRetryHit = "retry_hit"
	ResultMiss     = "miss"
	ResultUploaded = "uploaded"
)

var (
	detailPagesTotal           *prometheus.CounterVec
	embedResolutionsTotal      *prometheus.CounterVec
	enrichmentLookupsTotal     *prometheus.CounterVec
	rehostUploadsTotal         *prometheus.CounterVec
	runsTotal                  prometheus.Counter
	runDurationSeconds         prometheus.Histogram
	activeWorkers              prometheus.Gauge
	httpRequestsTotal          *prometheus.CounterVec
	httpRequestDurationSeconds *prometheus.HistogramVec

	once sync.Once
)

// Init initializes the Prometheus metrics collectors.
// It is safe to call this function multiple times.
func Init() {
	once.Do(func() {
		detailPagesTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "scraper_detail_pages_total",
				Help: "Detail pages processed, labeled by outcome.",
			},
			[]string{"status"},
		)

		embedResolutionsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "scraper_embed_resolutions_total",
				Help: "Embed source lookups, labeled by result.",
			},
			[]string{"result"},
		)

		enrichmentLookupsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "scraper_enrichment_lookups_total",
				Help: "Metadata enrichment lookups, labeled by result.",
			},
			[]string{"result"},
		)

		rehostUploadsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "scraper_rehost_uploads_total",
				Help: "Poster rehost attempts, labeled by result.",
			},
			[]string{"result"},
		)

		runsTotal = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "scraper_runs_total",
				Help: "Total number of listing page runs.",
			},
		)

		runDurationSeconds = promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "scraper_run_duration_seconds",
				Help:    "Wall-clock duration of listing page runs.",
				Buckets: []float64{0.5, 1, 2, 5, 10, 20, 40, 80},
			},
		)

		activeWorkers = promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "scraper_active_workers",
				Help: "Number of workers currently processing a detail page.",
			},
		)

		httpRequestsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests, labeled by method and code.",
			},
			[]string{"method", "code"},
		)

		httpRequestDurationSeconds = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Histogram of HTTP request latencies, labeled by method and route.",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
			},
			[]string{"method", "route"},
		)
	})
}

// Handler returns an http.Handler for exposing Prometheus metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveDetailPage counts one detail page outcome.
func ObserveDetailPage(status string) {
	Init()
	detailPagesTotal.WithLabelValues(status).Inc()
}

// ObserveEmbed counts one embed resolution outcome.
func ObserveEmbed(result string) {
	Init()
	embedResolutionsTotal.WithLabelValues(result).Inc()
}

// ObserveEnrichment counts one enrichment outcome.
func ObserveEnrichment(result string) {
	Init()
	enrichmentLookupsTotal.WithLabelValues(result).Inc()
}

// ObserveRehost counts one rehost outcome.
func ObserveRehost(result string) {
	Init()
	rehostUploadsTotal.WithLabelValues(result).Inc()
}

// ObserveRun records a completed listing page run.
func ObserveRun(duration time.Duration) {
	Init()
	runsTotal.Inc()
	runDurationSeconds.Observe(duration.Seconds())
}

// IncActiveWorkers increments the active workers gauge.
func IncActiveWorkers() {
	Init()
	activeWorkers.Inc()
}

// DecActiveWorkers decrements the active workers gauge.
func DecActiveWorkers() {
	Init()
	activeWorkers.Dec()
}

// ObserveHTTPRequest increments the HTTP request metrics.
func ObserveHTTPRequest(method, route string, code int, duration time.Duration) {
	Init()
	httpRequestsTotal.WithLabelValues(method, strconv.Itoa(code)).Inc()
	httpRequestDurationSeconds.WithLabelValues(method, route).Observe(duration.Seconds())
}

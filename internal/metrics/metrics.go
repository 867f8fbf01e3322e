package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors for the service.
type Metrics struct {
	// Recommendation metrics
	RecommendationsTotal   *prometheus.CounterVec
	RecommendationSize     prometheus.Histogram
	RecommendationTopScore prometheus.Histogram

	// Catalog metrics
	CatalogErrors *prometheus.CounterVec
	CatalogSize   prometheus.Gauge

	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
}

var (
	metricsOnce   sync.Once
	sharedMetrics *Metrics
)

// NewMetrics creates and registers all collectors on the default registry.
// Later calls return the same instance.
func NewMetrics() *Metrics {
	metricsOnce.Do(func() {
		sharedMetrics = &Metrics{
			RecommendationsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "fitmatch_recommendations_total",
					Help: "Recommendation requests by result (ok, empty, not_found, error)",
				},
				[]string{"result"},
			),
			RecommendationSize: promauto.NewHistogram(
				prometheus.HistogramOpts{
					Name:    "fitmatch_recommendation_size",
					Help:    "Number of alternatives returned per request",
					Buckets: prometheus.LinearBuckets(0, 1, 6),
				},
			),
			RecommendationTopScore: promauto.NewHistogram(
				prometheus.HistogramOpts{
					Name:    "fitmatch_recommendation_top_score",
					Help:    "Match score of the best alternative",
					Buckets: prometheus.LinearBuckets(40, 10, 7),
				},
			),

			CatalogErrors: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "fitmatch_catalog_errors_total",
					Help: "Catalog read failures by operation",
				},
				[]string{"op"},
			),
			CatalogSize: promauto.NewGauge(
				prometheus.GaugeOpts{
					Name: "fitmatch_catalog_exercises",
					Help: "Number of exercises in the loaded catalog",
				},
			),

			HTTPRequestsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "fitmatch_http_requests_total",
					Help: "HTTP requests by route and status code",
				},
				[]string{"route", "method", "status"},
			),
			HTTPRequestDuration: promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "fitmatch_http_request_duration_seconds",
					Help:    "HTTP request latency in seconds",
					Buckets: prometheus.DefBuckets,
				},
				[]string{"route", "method"},
			),
		}
	})
	return sharedMetrics
}

// RecordRecommendation counts one recommendation call.
func (m *Metrics) RecordRecommendation(result string, size, topScore int) {
	if m == nil {
		return
	}
	m.RecommendationsTotal.WithLabelValues(result).Inc()
	if result == "ok" || result == "empty" {
		m.RecommendationSize.Observe(float64(size))
	}
	if size > 0 {
		m.RecommendationTopScore.Observe(float64(topScore))
	}
}

// RecordCatalogError counts a failed catalog operation.
func (m *Metrics) RecordCatalogError(op string) {
	if m == nil {
		return
	}
	m.CatalogErrors.WithLabelValues(op).Inc()
}

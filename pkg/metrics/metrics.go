package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collector provides application metrics collection
type Collector struct {
	// API Metrics
	APIRequestsTotal   *prometheus.CounterVec
	APIRequestDuration *prometheus.HistogramVec
	APIErrorsTotal     *prometheus.CounterVec

	// Acquisition Metrics
	FetchPagesTotal   *prometheus.CounterVec
	FetchRowsTotal    *prometheus.CounterVec
	FetchRetriesTotal *prometheus.CounterVec
	FetchErrorsTotal  *prometheus.CounterVec
	FetchDuration     prometheus.Histogram

	// Normalization Metrics
	NormalizedRowsTotal   *prometheus.CounterVec
	NormalizationDuration prometheus.Histogram

	// Model Metrics
	ModelRequestsTotal *prometheus.CounterVec
	ModelDuration      prometheus.Histogram

	// Database Metrics
	DBQueryDuration *prometheus.HistogramVec
	DBErrorsTotal   *prometheus.CounterVec

	// Question cycle metrics
	AnswersTotal   *prometheus.CounterVec
	CacheHitsTotal prometheus.Counter
	CacheMissTotal prometheus.Counter
}

// NewCollector registers all metrics under namespace with reg. Pass
// prometheus.DefaultRegisterer to expose them through promhttp.Handler, or a
// fresh prometheus.NewRegistry() to keep them private (tests, one-shot CLI runs).
func NewCollector(namespace string, reg prometheus.Registerer) *Collector {
	factory := promauto.With(reg)

	return &Collector{
		APIRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "api_requests_total",
				Help:      "Total number of API requests by endpoint, method, and status",
			},
			[]string{"endpoint", "method", "status"},
		),

		APIRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "api_request_duration_seconds",
				Help:      "API request duration in seconds",
				Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10, 30, 60, 120},
			},
			[]string{"endpoint"},
		),

		APIErrorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "api_errors_total",
				Help:      "Total number of API errors by type",
			},
			[]string{"error_type", "endpoint"},
		),

		FetchPagesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "fetch_pages_total",
				Help:      "Pages fetched from the remote data API by resource",
			},
			[]string{"resource"},
		),

		FetchRowsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "fetch_rows_total",
				Help:      "Rows accumulated from the remote data API by resource",
			},
			[]string{"resource"},
		),

		FetchRetriesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "fetch_retries_total",
				Help:      "Page fetch retries by resource",
			},
			[]string{"resource"},
		),

		FetchErrorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "fetch_errors_total",
				Help:      "Page fetch errors by type",
			},
			[]string{"error_type"},
		),

		FetchDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "fetch_duration_seconds",
				Help:      "Duration of a full dataset download in seconds",
				Buckets:   []float64{1, 5, 10, 30, 60, 120, 300, 600},
			},
		),

		NormalizedRowsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "normalized_rows_total",
				Help:      "Canonical rows written by table",
			},
			[]string{"table"},
		),

		NormalizationDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "normalization_duration_seconds",
				Help:      "Duration of a normalization run in seconds",
				Buckets:   []float64{0.1, 0.5, 1, 5, 10, 30, 60},
			},
		),

		ModelRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "model_requests_total",
				Help:      "Model generation requests by outcome",
			},
			[]string{"outcome"},
		),

		ModelDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "model_request_duration_seconds",
				Help:      "Model generation latency in seconds",
				Buckets:   []float64{0.5, 1, 2, 5, 10, 20, 40, 80, 120},
			},
		),

		DBQueryDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "db_query_duration_seconds",
				Help:      "Analytical engine query duration in seconds by query type",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
			},
			[]string{"query_type"},
		),

		DBErrorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "db_errors_total",
				Help:      "Total number of analytical engine errors by type",
			},
			[]string{"error_type"},
		),

		AnswersTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "answers_total",
				Help:      "Question cycles by terminal state",
			},
			[]string{"state"},
		),

		CacheHitsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "sql_cache_hits_total",
				Help:      "Memoized model responses served from cache",
			},
		),

		CacheMissTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "sql_cache_misses_total",
				Help:      "Questions that required a model call",
			},
		),
	}
}

// NewNopCollector returns a collector bound to a throwaway registry.
func NewNopCollector() *Collector {
	return NewCollector("nop", prometheus.NewRegistry())
}

// Timer provides timing functionality for operations
type Timer struct {
	start    time.Time
	observer prometheus.Observer
}

// NewTimer creates a new timer
func (c *Collector) NewTimer(histogram prometheus.Observer) *Timer {
	return &Timer{
		start:    time.Now(),
		observer: histogram,
	}
}

// ObserveDuration records the elapsed time since timer creation
func (t *Timer) ObserveDuration() time.Duration {
	duration := time.Since(t.start)
	if t.observer != nil {
		t.observer.Observe(duration.Seconds())
	}
	return duration
}

func (c *Collector) RecordAPIRequest(endpoint, method, status string) {
	c.APIRequestsTotal.WithLabelValues(endpoint, method, status).Inc()
}

func (c *Collector) RecordAPIError(errorType, endpoint string) {
	c.APIErrorsTotal.WithLabelValues(errorType, endpoint).Inc()
}

func (c *Collector) RecordFetchError(errorType string) {
	c.FetchErrorsTotal.WithLabelValues(errorType).Inc()
}

func (c *Collector) RecordDBError(errorType string) {
	c.DBErrorsTotal.WithLabelValues(errorType).Inc()
}

func (c *Collector) RecordModelRequest(outcome string) {
	c.ModelRequestsTotal.WithLabelValues(outcome).Inc()
}

func (c *Collector) RecordAnswer(state string) {
	c.AnswersTotal.WithLabelValues(state).Inc()
}

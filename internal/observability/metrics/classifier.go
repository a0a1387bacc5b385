package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// ClassifierMetrics contains Prometheus metrics for zero-shot classification calls
type ClassifierMetrics struct {
	registry *prometheus.Registry

	requestsTotal     *prometheus.CounterVec
	requestDuration   *prometheus.HistogramVec
	cacheLookupsTotal *prometheus.CounterVec
	upstreamResponses *prometheus.CounterVec
}

// NewClassifierMetrics creates and registers new classifier metrics
func NewClassifierMetrics(registry *prometheus.Registry) (*ClassifierMetrics, error) {
	m := &ClassifierMetrics{registry: registry}
	m.initMetrics()
	if err := registry.Register(m); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *ClassifierMetrics) initMetrics() {
	m.requestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "classifier_requests_total",
			Help: "Total number of classification requests",
		},
		[]string{"kind", "status"}, // kind: weather, item
	)

	m.requestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "classifier_request_duration_seconds",
			Help:    "Time taken by the inference endpoint",
			Buckets: prometheus.ExponentialBuckets(BucketStart100ms, BucketFactor2, BucketCount10), // 100ms to ~51s
		},
		[]string{"kind"},
	)

	m.cacheLookupsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "classifier_cache_lookups_total",
			Help: "Total number of classification cache lookups",
		},
		[]string{"result"},
	)

	m.upstreamResponses = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "classifier_upstream_responses_total",
			Help: "HTTP responses from the inference endpoint by status code",
		},
		[]string{"status_code"}, // transport_error when no response arrived
	)
}

// Describe implements the prometheus.Collector interface
func (m *ClassifierMetrics) Describe(ch chan<- *prometheus.Desc) {
	m.requestsTotal.Describe(ch)
	m.requestDuration.Describe(ch)
	m.cacheLookupsTotal.Describe(ch)
	m.upstreamResponses.Describe(ch)
}

// Collect implements the prometheus.Collector interface
func (m *ClassifierMetrics) Collect(ch chan<- prometheus.Metric) {
	m.requestsTotal.Collect(ch)
	m.requestDuration.Collect(ch)
	m.cacheLookupsTotal.Collect(ch)
	m.upstreamResponses.Collect(ch)
}

// RecordClassification records a classification request outcome
func (m *ClassifierMetrics) RecordClassification(kind, status string) {
	if m == nil {
		return
	}
	m.requestsTotal.WithLabelValues(kind, status).Inc()
}

// RecordClassificationDuration records inference latency in seconds
func (m *ClassifierMetrics) RecordClassificationDuration(kind string, seconds float64) {
	if m == nil {
		return
	}
	m.requestDuration.WithLabelValues(kind).Observe(seconds)
}

// RecordCacheLookup records a classification cache hit or miss
func (m *ClassifierMetrics) RecordCacheLookup(result string) {
	if m == nil {
		return
	}
	m.cacheLookupsTotal.WithLabelValues(result).Inc()
}

// RecordUpstreamResponse counts one response from the inference endpoint
func (m *ClassifierMetrics) RecordUpstreamResponse(statusCode string) {
	if m == nil {
		return
	}
	m.upstreamResponses.WithLabelValues(statusCode).Inc()
}

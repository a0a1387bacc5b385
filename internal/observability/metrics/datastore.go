// Package metrics provides datastore metrics for observability
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// DatastoreMetrics contains Prometheus metrics for datastore operations
type DatastoreMetrics struct {
	registry *prometheus.Registry

	dbOperationsTotal      *prometheus.CounterVec
	dbOperationDuration    *prometheus.HistogramVec
	dbOperationErrorsTotal *prometheus.CounterVec
	dbSlowQueriesTotal     prometheus.Counter

	dbConnectionsOpenGauge prometheus.Gauge
	dbConnectionsIdleGauge prometheus.Gauge
}

// NewDatastoreMetrics creates and registers new datastore metrics
func NewDatastoreMetrics(registry *prometheus.Registry) (*DatastoreMetrics, error) {
	m := &DatastoreMetrics{registry: registry}
	m.initMetrics()
	if err := registry.Register(m); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *DatastoreMetrics) initMetrics() {
	m.dbOperationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "datastore_operations_total",
			Help: "Total number of database operations",
		},
		[]string{"operation", "table", "status"}, // operation: create, query, update, delete
	)

	m.dbOperationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "datastore_operation_duration_seconds",
			Help:    "Time taken for database operations",
			Buckets: prometheus.ExponentialBuckets(BucketStart1ms, BucketFactor2, BucketCount12), // 1ms to ~4s
		},
		[]string{"operation", "table"},
	)

	m.dbOperationErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "datastore_operation_errors_total",
			Help: "Total number of database operation errors",
		},
		[]string{"operation", "table", "error_type"},
	)

	m.dbSlowQueriesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "datastore_slow_queries_total",
		Help: "Statements that ran longer than the slow query threshold",
	})

	m.dbConnectionsOpenGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "datastore_connections_open",
		Help: "Number of open database connections",
	})
	m.dbConnectionsIdleGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "datastore_connections_idle",
		Help: "Number of idle database connections",
	})
}

// Describe implements the prometheus.Collector interface
func (m *DatastoreMetrics) Describe(ch chan<- *prometheus.Desc) {
	m.dbOperationsTotal.Describe(ch)
	m.dbOperationDuration.Describe(ch)
	m.dbOperationErrorsTotal.Describe(ch)
	m.dbSlowQueriesTotal.Describe(ch)
	m.dbConnectionsOpenGauge.Describe(ch)
	m.dbConnectionsIdleGauge.Describe(ch)
}

// Collect implements the prometheus.Collector interface
func (m *DatastoreMetrics) Collect(ch chan<- prometheus.Metric) {
	m.dbOperationsTotal.Collect(ch)
	m.dbOperationDuration.Collect(ch)
	m.dbOperationErrorsTotal.Collect(ch)
	m.dbSlowQueriesTotal.Collect(ch)
	m.dbConnectionsOpenGauge.Collect(ch)
	m.dbConnectionsIdleGauge.Collect(ch)
}

// RecordDbOperation records a database operation
func (m *DatastoreMetrics) RecordDbOperation(operation, table, status string) {
	if m == nil {
		return
	}
	m.dbOperationsTotal.WithLabelValues(operation, table, status).Inc()
}

// RecordDbOperationDuration records the duration of a database operation
func (m *DatastoreMetrics) RecordDbOperationDuration(operation, table string, seconds float64) {
	if m == nil {
		return
	}
	m.dbOperationDuration.WithLabelValues(operation, table).Observe(seconds)
}

// RecordDbOperationError records a database operation error
func (m *DatastoreMetrics) RecordDbOperationError(operation, table, errorType string) {
	if m == nil {
		return
	}
	m.dbOperationErrorsTotal.WithLabelValues(operation, table, errorType).Inc()
}

// RecordSlowQuery counts a statement over the slow query threshold
func (m *DatastoreMetrics) RecordSlowQuery() {
	if m == nil {
		return
	}
	m.dbSlowQueriesTotal.Inc()
}

// UpdateConnectionMetrics updates the pool gauges
func (m *DatastoreMetrics) UpdateConnectionMetrics(open, idle int) {
	if m == nil {
		return
	}
	m.dbConnectionsOpenGauge.Set(float64(open))
	m.dbConnectionsIdleGauge.Set(float64(idle))
}

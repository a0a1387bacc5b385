package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// ClosetMetrics contains Prometheus metrics for wardrobe operations
type ClosetMetrics struct {
	registry *prometheus.Registry

	itemsUploadedTotal   *prometheus.CounterVec
	itemsDeletedTotal    prometheus.Counter
	labelsSelected       *prometheus.CounterVec
	recommendationsTotal *prometheus.CounterVec
	recommendedItems     prometheus.Histogram
}

// NewClosetMetrics creates and registers new closet metrics
func NewClosetMetrics(registry *prometheus.Registry) (*ClosetMetrics, error) {
	m := &ClosetMetrics{registry: registry}
	m.initMetrics()
	if err := registry.Register(m); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *ClosetMetrics) initMetrics() {
	m.itemsUploadedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "closet_items_uploaded_total",
			Help: "Total number of clothing item uploads",
		},
		[]string{"tagging"}, // tagging: tagged, untagged, skipped
	)

	m.itemsDeletedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "closet_items_deleted_total",
		Help: "Total number of deleted clothing items",
	})

	m.labelsSelected = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "closet_labels_selected_total",
			Help: "Number of times a candidate label passed its confidence threshold",
		},
		[]string{"kind", "label"}, // kind: weather (recommendation), item (tag linked)
	)

	m.recommendationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "closet_recommendations_total",
			Help: "Total number of recommendation requests",
		},
		[]string{"status"},
	)

	m.recommendedItems = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "closet_recommended_items",
		Help:    "Number of items returned per recommendation",
		Buckets: prometheus.LinearBuckets(0, 5, 10),
	})
}

// Describe implements the prometheus.Collector interface
func (m *ClosetMetrics) Describe(ch chan<- *prometheus.Desc) {
	m.itemsUploadedTotal.Describe(ch)
	m.itemsDeletedTotal.Describe(ch)
	m.labelsSelected.Describe(ch)
	m.recommendationsTotal.Describe(ch)
	m.recommendedItems.Describe(ch)
}

// Collect implements the prometheus.Collector interface
func (m *ClosetMetrics) Collect(ch chan<- prometheus.Metric) {
	m.itemsUploadedTotal.Collect(ch)
	m.itemsDeletedTotal.Collect(ch)
	m.labelsSelected.Collect(ch)
	m.recommendationsTotal.Collect(ch)
	m.recommendedItems.Collect(ch)
}

// RecordItemUploaded records an upload and how its tagging went
func (m *ClosetMetrics) RecordItemUploaded(tagging string) {
	if m == nil {
		return
	}
	m.itemsUploadedTotal.WithLabelValues(tagging).Inc()
}

// RecordItemDeleted records an item deletion
func (m *ClosetMetrics) RecordItemDeleted() {
	if m == nil {
		return
	}
	m.itemsDeletedTotal.Inc()
}

// RecordLabelSelected counts a label kept after thresholding
func (m *ClosetMetrics) RecordLabelSelected(kind, label string) {
	if m == nil {
		return
	}
	m.labelsSelected.WithLabelValues(kind, label).Inc()
}

// RecordRecommendation records a recommendation outcome and result size
func (m *ClosetMetrics) RecordRecommendation(status string, items int) {
	if m == nil {
		return
	}
	m.recommendationsTotal.WithLabelValues(status).Inc()
	if status == StatusSuccess {
		m.recommendedItems.Observe(float64(items))
	}
}

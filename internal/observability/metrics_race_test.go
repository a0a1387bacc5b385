package observability

import (
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weathercloset/weathercloset/internal/observability/metrics"
)

// counterTotal sums every series of the named counter in registry.
func counterTotal(t *testing.T, registry *prometheus.Registry, name string) float64 {
	t.Helper()
	families, err := registry.Gather()
	require.NoError(t, err)

	var total float64
	for _, f := range families {
		if f.GetName() != name {
			continue
		}
		for _, m := range f.GetMetric() {
			total += m.GetCounter().GetValue()
		}
	}
	return total
}

func TestMetrics_ConcurrentRecording(t *testing.T) {
	const workers = 32
	const perWorker = 25

	m, err := NewMetrics()
	require.NoError(t, err)

	labels := []string{"Rain", "Cold", "Windy", "Sunny"}

	var wg sync.WaitGroup
	for w := range workers {
		wg.Go(func() {
			label := labels[w%len(labels)]
			for range perWorker {
				m.Closet.RecordLabelSelected(metrics.KindWeather, label)
				m.Weather.RecordUpstreamResponse("200")
				m.Classifier.RecordUpstreamResponse("503")
				m.Datastore.RecordSlowQuery()
			}
		})
	}
	wg.Wait()

	want := float64(workers * perWorker)
	assert.InDelta(t, want, counterTotal(t, m.Registry(), "closet_labels_selected_total"), 0)
	assert.InDelta(t, want, counterTotal(t, m.Registry(), "weather_upstream_responses_total"), 0)
	assert.InDelta(t, want, counterTotal(t, m.Registry(), "classifier_upstream_responses_total"), 0)
	assert.InDelta(t, want, counterTotal(t, m.Registry(), "datastore_slow_queries_total"), 0)
}

func TestNewMetrics_InstancesDoNotShareRegistries(t *testing.T) {
	var wg sync.WaitGroup
	instances := make([]*Metrics, 8)
	for i := range instances {
		wg.Go(func() {
			m, err := NewMetrics()
			assert.NoError(t, err)
			instances[i] = m
		})
	}
	wg.Wait()

	instances[0].Datastore.RecordSlowQuery()
	for i, m := range instances {
		require.NotNil(t, m)
		want := 0.0
		if i == 0 {
			want = 1
		}
		assert.InDelta(t, want, counterTotal(t, m.Registry(), "datastore_slow_queries_total"), 0)
	}
}

package observability

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weathercloset/weathercloset/internal/observability/metrics"
)

func findFamily(t *testing.T, families []*dto.MetricFamily, name string) *dto.MetricFamily {
	t.Helper()
	for _, mf := range families {
		if mf.GetName() == name {
			return mf
		}
	}
	t.Fatalf("metric family %s not found", name)
	return nil
}

func TestMetrics_RecordAndGather(t *testing.T) {
	m, err := NewMetrics()
	require.NoError(t, err)

	m.Weather.RecordWeatherFetch("openweather", metrics.StatusSuccess)
	m.Weather.RecordCacheLookup(metrics.CacheHit)
	m.Weather.UpdateWeatherGauges(12.5, 40, 3.2)
	m.Classifier.RecordClassification(metrics.KindItem, metrics.StatusSuccess)
	m.Closet.RecordLabelSelected(metrics.KindItem, "Rain")
	m.HTTP.RecordHTTPRequest("GET", "/closet", 200, 0.01)
	m.Closet.RecordRecommendation(metrics.StatusSuccess, 3)

	families, err := m.Registry().Gather()
	require.NoError(t, err)

	fetches := findFamily(t, families, "weather_fetches_total")
	require.Len(t, fetches.GetMetric(), 1)
	assert.InDelta(t, 1, fetches.GetMetric()[0].GetCounter().GetValue(), 0.0001)

	temp := findFamily(t, families, "weather_last_temperature_celsius")
	assert.InDelta(t, 12.5, temp.GetMetric()[0].GetGauge().GetValue(), 0.0001)

	requests := findFamily(t, families, "http_requests_total")
	labels := map[string]string{}
	for _, lp := range requests.GetMetric()[0].GetLabel() {
		labels[lp.GetName()] = lp.GetValue()
	}
	assert.Equal(t, "200", labels["status_code"])
	assert.Equal(t, "/closet", labels["path"])
}

func TestMetrics_NilCollectorsAreNoops(t *testing.T) {
	var w *metrics.WeatherMetrics
	var c *metrics.ClassifierMetrics
	var h *metrics.HTTPMetrics
	var d *metrics.DatastoreMetrics
	var cl *metrics.ClosetMetrics

	assert.NotPanics(t, func() {
		w.RecordWeatherFetch("openweather", metrics.StatusError)
		c.RecordClassification(metrics.KindWeather, metrics.StatusError)
		h.RecordHTTPRequest("GET", "/", 500, 1)
		d.RecordDbOperation("query", "items", metrics.StatusSuccess)
		cl.RecordItemDeleted()
	})
}

func TestMetrics_LabelSelectedCounter(t *testing.T) {
	m, err := NewMetrics()
	require.NoError(t, err)

	m.Closet.RecordLabelSelected(metrics.KindWeather, "Cold")
	m.Closet.RecordLabelSelected(metrics.KindWeather, "Cold")

	count, err := testutil.GatherAndCount(m.Registry(), "closet_labels_selected_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count, "one series per kind/label pair")
}

func TestMetrics_Handler(t *testing.T) {
	m, err := NewMetrics()
	require.NoError(t, err)
	m.Datastore.RecordDbOperation("create", "items", metrics.StatusSuccess)

	srv := httptest.NewServer(m.Handler())
	t.Cleanup(srv.Close)

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `datastore_operations_total{operation="create",status="success",table="items"} 1`)
}

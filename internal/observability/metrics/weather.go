// Package metrics provides weather service metrics for observability
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// WeatherMetrics contains Prometheus metrics for weather lookups
type WeatherMetrics struct {
	registry *prometheus.Registry

	fetchesTotal      *prometheus.CounterVec
	fetchErrorsTotal  *prometheus.CounterVec
	fetchDuration     *prometheus.HistogramVec
	cacheLookupsTotal *prometheus.CounterVec
	upstreamResponses *prometheus.CounterVec

	temperatureGauge prometheus.Gauge
	humidityGauge    prometheus.Gauge
	windSpeedGauge   prometheus.Gauge
}

// NewWeatherMetrics creates and registers new weather metrics
func NewWeatherMetrics(registry *prometheus.Registry) (*WeatherMetrics, error) {
	m := &WeatherMetrics{registry: registry}
	m.initMetrics()
	if err := registry.Register(m); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *WeatherMetrics) initMetrics() {
	m.fetchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "weather_fetches_total",
			Help: "Total number of weather data fetch operations",
		},
		[]string{"provider", "status"}, // status: success, error
	)

	m.fetchErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "weather_fetch_errors_total",
			Help: "Total number of weather fetch errors by type",
		},
		[]string{"provider", "error_type"}, // error_type: not_found, upstream, network, decode
	)

	m.fetchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "weather_fetch_duration_seconds",
			Help:    "Time taken to fetch current weather",
			Buckets: prometheus.ExponentialBuckets(BucketStart10ms, BucketFactor2, BucketCount12),
		},
		[]string{"provider"},
	)

	m.cacheLookupsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "weather_cache_lookups_total",
			Help: "Total number of weather cache lookups",
		},
		[]string{"result"}, // result: hit, miss
	)

	m.upstreamResponses = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "weather_upstream_responses_total",
			Help: "HTTP responses from the weather provider by status code",
		},
		[]string{"status_code"}, // transport_error when no response arrived
	)

	m.temperatureGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "weather_last_temperature_celsius",
		Help: "Temperature of the most recent weather lookup",
	})
	m.humidityGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "weather_last_humidity_percent",
		Help: "Humidity of the most recent weather lookup",
	})
	m.windSpeedGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "weather_last_wind_speed_ms",
		Help: "Wind speed of the most recent weather lookup",
	})
}

// Describe implements the prometheus.Collector interface
func (m *WeatherMetrics) Describe(ch chan<- *prometheus.Desc) {
	m.fetchesTotal.Describe(ch)
	m.fetchErrorsTotal.Describe(ch)
	m.fetchDuration.Describe(ch)
	m.cacheLookupsTotal.Describe(ch)
	m.upstreamResponses.Describe(ch)
	m.temperatureGauge.Describe(ch)
	m.humidityGauge.Describe(ch)
	m.windSpeedGauge.Describe(ch)
}

// Collect implements the prometheus.Collector interface
func (m *WeatherMetrics) Collect(ch chan<- prometheus.Metric) {
	m.fetchesTotal.Collect(ch)
	m.fetchErrorsTotal.Collect(ch)
	m.fetchDuration.Collect(ch)
	m.cacheLookupsTotal.Collect(ch)
	m.upstreamResponses.Collect(ch)
	m.temperatureGauge.Collect(ch)
	m.humidityGauge.Collect(ch)
	m.windSpeedGauge.Collect(ch)
}

// RecordWeatherFetch records a weather fetch attempt
func (m *WeatherMetrics) RecordWeatherFetch(provider, status string) {
	if m == nil {
		return
	}
	m.fetchesTotal.WithLabelValues(provider, status).Inc()
}

// RecordWeatherFetchError records a failed weather fetch
func (m *WeatherMetrics) RecordWeatherFetchError(provider, errorType string) {
	if m == nil {
		return
	}
	m.fetchErrorsTotal.WithLabelValues(provider, errorType).Inc()
}

// RecordWeatherFetchDuration records the duration of a weather fetch in seconds
func (m *WeatherMetrics) RecordWeatherFetchDuration(provider string, seconds float64) {
	if m == nil {
		return
	}
	m.fetchDuration.WithLabelValues(provider).Observe(seconds)
}

// RecordCacheLookup records a weather cache hit or miss
func (m *WeatherMetrics) RecordCacheLookup(result string) {
	if m == nil {
		return
	}
	m.cacheLookupsTotal.WithLabelValues(result).Inc()
}

// UpdateWeatherGauges sets the gauges from the latest observation
func (m *WeatherMetrics) UpdateWeatherGauges(temperature, humidity, windSpeed float64) {
	if m == nil {
		return
	}
	m.temperatureGauge.Set(temperature)
	m.humidityGauge.Set(humidity)
	m.windSpeedGauge.Set(windSpeed)
}

// RecordUpstreamResponse counts one response from the weather provider
func (m *WeatherMetrics) RecordUpstreamResponse(statusCode string) {
	if m == nil {
		return
	}
	m.upstreamResponses.WithLabelValues(statusCode).Inc()
}

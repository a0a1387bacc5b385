package observability

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/weathercloset/weathercloset/internal/logger"
	"github.com/weathercloset/weathercloset/internal/observability/metrics"
)

// Metrics holds all the metric collectors for the application.
type Metrics struct {
	registry   *prometheus.Registry
	Weather    *metrics.WeatherMetrics
	Classifier *metrics.ClassifierMetrics
	HTTP       *metrics.HTTPMetrics
	Datastore  *metrics.DatastoreMetrics
	Closet     *metrics.ClosetMetrics
}

// NewMetrics creates a new instance of Metrics, initializing all metric collectors.
// It returns an error if any metric collector fails to initialize.
func NewMetrics() (*Metrics, error) {
	registry := prometheus.NewRegistry()

	if err := registry.Register(collectors.NewGoCollector()); err != nil {
		return nil, fmt.Errorf("failed to register Go collector: %w", err)
	}
	if err := registry.Register(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{})); err != nil {
		return nil, fmt.Errorf("failed to register process collector: %w", err)
	}

	weatherMetrics, err := metrics.NewWeatherMetrics(registry)
	if err != nil {
		return nil, fmt.Errorf("failed to create Weather metrics: %w", err)
	}

	classifierMetrics, err := metrics.NewClassifierMetrics(registry)
	if err != nil {
		return nil, fmt.Errorf("failed to create Classifier metrics: %w", err)
	}

	httpMetrics, err := metrics.NewHTTPMetrics(registry)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP metrics: %w", err)
	}

	datastoreMetrics, err := metrics.NewDatastoreMetrics(registry)
	if err != nil {
		return nil, fmt.Errorf("failed to create Datastore metrics: %w", err)
	}

	closetMetrics, err := metrics.NewClosetMetrics(registry)
	if err != nil {
		return nil, fmt.Errorf("failed to create Closet metrics: %w", err)
	}

	return &Metrics{
		registry:   registry,
		Weather:    weatherMetrics,
		Classifier: classifierMetrics,
		HTTP:       httpMetrics,
		Datastore:  datastoreMetrics,
		Closet:     closetMetrics,
	}, nil
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler returns the HTTP handler serving the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		ErrorLog:      promErrorLogger{},
		ErrorHandling: promhttp.HTTPErrorOnError,
	})
}

// promErrorLogger routes promhttp errors to the structured logger.
type promErrorLogger struct{}

func (promErrorLogger) Println(v ...any) {
	getLogger().Error("metrics handler error", logger.String("detail", fmt.Sprint(v...)))
}

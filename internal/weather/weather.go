// Package weather fetches current conditions for a city and maps them to
// the coarse labels used to describe the weather to the classifier.
package weather

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/weathercloset/weathercloset/internal/conf"
	"github.com/weathercloset/weathercloset/internal/errors"
	"github.com/weathercloset/weathercloset/internal/logger"
	"github.com/weathercloset/weathercloset/internal/observability/metrics"
)

func getLogger() logger.Logger {
	return logger.Global().Module("weather")
}

// WeatherData is the normalized current-conditions record. Temperatures are
// in Celsius and wind speed in m/s.
type WeatherData struct {
	Description string  `json:"description"`
	Temperature float64 `json:"temperature"`
	FeelsLike   float64 `json:"feels_like"`
	WindSpeed   float64 `json:"wind_speed"`
	Humidity    int     `json:"humidity"`
	Location    string  `json:"location"`
}

// Service handles weather lookups with an optional per-city cache
type Service struct {
	provider Provider
	cache    *cache.Cache // nil when caching is disabled
	metrics  *metrics.WeatherMetrics
}

// NewService creates a new weather service around provider. A zero
// CacheTTL disables caching.
func NewService(settings conf.WeatherSettings, provider Provider, weatherMetrics *metrics.WeatherMetrics) (*Service, error) {
	if provider == nil {
		return nil, errors.New(fmt.Errorf("weather provider is required")).
			Component("weather").
			Category(errors.CategoryConfiguration).
			Build()
	}

	s := &Service{
		provider: provider,
		metrics:  weatherMetrics,
	}
	if settings.CacheTTL > 0 {
		s.cache = cache.New(settings.CacheTTL, 2*settings.CacheTTL)
	}
	return s, nil
}

// Current returns current conditions for city, served from cache when fresh.
// Failures from the provider are returned unchanged.
func (s *Service) Current(ctx context.Context, city string) (*WeatherData, error) {
	key := cacheKey(city)

	if s.cache != nil {
		if cached, found := s.cache.Get(key); found {
			s.metrics.RecordCacheLookup(metrics.CacheHit)
			data := *cached.(*WeatherData)
			return &data, nil
		}
		s.metrics.RecordCacheLookup(metrics.CacheMiss)
	}

	provider := s.provider.Name()
	start := time.Now()
	data, err := s.provider.FetchCurrent(ctx, city)
	s.metrics.RecordWeatherFetchDuration(provider, time.Since(start).Seconds())
	if err != nil {
		s.metrics.RecordWeatherFetch(provider, metrics.StatusError)
		s.metrics.RecordWeatherFetchError(provider, fetchErrorType(err))
		getLogger().Warn("weather fetch failed",
			logger.String("city", city),
			logger.String("provider", provider),
			logger.Error(err))
		return nil, err
	}

	s.metrics.RecordWeatherFetch(provider, metrics.StatusSuccess)
	s.metrics.UpdateWeatherGauges(data.Temperature, float64(data.Humidity), data.WindSpeed)
	getLogger().Debug("weather fetched",
		logger.String("city", city),
		logger.String("location", data.Location),
		logger.Float64("temperature", data.Temperature))

	if s.cache != nil {
		stored := *data
		s.cache.SetDefault(key, &stored)
	}
	return data, nil
}

func cacheKey(city string) string {
	return strings.ToLower(strings.TrimSpace(city))
}

func fetchErrorType(err error) string {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		if statusErr.Code == 404 {
			return "not_found"
		}
		return "upstream"
	}
	switch errors.CategoryOf(err) {
	case errors.CategoryNetwork:
		return "network"
	case errors.CategoryConfiguration:
		return "configuration"
	default:
		return "upstream"
	}
}

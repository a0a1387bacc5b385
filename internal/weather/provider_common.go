package weather

import (
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/weathercloset/weathercloset/internal/errors"
	"github.com/weathercloset/weathercloset/internal/httpclient"
	"github.com/weathercloset/weathercloset/internal/logger"
	"github.com/weathercloset/weathercloset/internal/observability/metrics"
)

const providerOpenWeather = "openweather"

// StatusError reports a non-200 response from the weather provider.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("weather provider returned status %d", e.Code)
}

// InstrumentClient installs hooks on client that log provider requests with
// the API key masked and count responses by status code.
func InstrumentClient(client *httpclient.Client, m *metrics.WeatherMetrics) {
	client.SetBeforeRequestHook(func(req *http.Request) {
		getLogger().Debug("sending weather request",
			logger.String("url", maskAPIKey(req.URL.String(), "appid")))
	})
	client.SetAfterResponseHook(func(req *http.Request, resp *http.Response, err error, elapsed time.Duration) {
		status := httpclient.StatusLabel(resp, err)
		m.RecordUpstreamResponse(status)
		getLogger().Debug("weather response received",
			logger.String("host", req.URL.Host),
			logger.String("status_code", status),
			logger.Duration("elapsed", elapsed))
	})
}

// newWeatherError creates a standardized weather error with common fields
func newWeatherError(err error, category errors.ErrorCategory, operation, provider string) error {
	return errors.New(err).
		Component("weather").
		Category(category).
		Context("operation", operation).
		Context("provider", provider).
		Build()
}

// maskAPIKey replaces the value of keyParam in rawURL so it can be logged.
func maskAPIKey(rawURL, keyParam string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.RawQuery == "" {
		return rawURL
	}
	q := u.Query()
	if !q.Has(keyParam) {
		return rawURL
	}
	q.Set(keyParam, "***MASKED***")
	u.RawQuery = q.Encode()
	return u.String()
}

// Unit conversion constants
const (
	celsiusToFahrenheitScale  = 9.0 / 5.0
	celsiusToFahrenheitOffset = 32.0
	kelvinOffset              = 273.15
	mphToMetersPerSecond      = 0.44704
)

// FahrenheitToCelsius converts a temperature from Fahrenheit to Celsius.
func FahrenheitToCelsius(f float64) float64 {
	return (f - celsiusToFahrenheitOffset) / celsiusToFahrenheitScale
}

// KelvinToCelsius converts a temperature from Kelvin to Celsius.
func KelvinToCelsius(k float64) float64 {
	return k - kelvinOffset
}

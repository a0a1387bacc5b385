package weather

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"

	"github.com/weathercloset/weathercloset/internal/conf"
	"github.com/weathercloset/weathercloset/internal/httpclient"
)

const testEndpoint = "https://api.openweathermap.org/data/2.5/weather"

// createTestSettings creates weather settings with optional overrides.
func createTestSettings(t *testing.T, opts ...func(*conf.WeatherSettings)) conf.WeatherSettings {
	t.Helper()

	settings := conf.WeatherSettings{
		APIKey:   "0123456789abcdef0123456789abcdef",
		Endpoint: testEndpoint,
		Units:    "metric",
		Timeout:  5 * time.Second,
		CacheTTL: time.Minute,
	}

	for _, opt := range opts {
		opt(&settings)
	}

	return settings
}

// setupHTTPMock returns an httpclient whose transport is mocked for the test.
func setupHTTPMock(t *testing.T) *httpclient.Client {
	t.Helper()
	client := httpclient.New(nil)
	httpmock.ActivateNonDefault(client.HTTPClient())
	t.Cleanup(httpmock.DeactivateAndReset)
	return client
}

// openWeatherSuccessResponse returns a valid OpenWeather API response JSON string.
func openWeatherSuccessResponse() string {
	return `{
  "coord": { "lon": 24.9384, "lat": 60.1699 },
  "weather": [{ "id": 803, "main": "Clouds", "description": "broken clouds", "icon": "04d" }],
  "base": "stations",
  "main": { "temp": 14.55, "feels_like": 13.88, "temp_min": 13.33, "temp_max": 15.65, "pressure": 1014, "humidity": 72 },
  "visibility": 10000,
  "wind": { "speed": 4.12, "deg": 240, "gust": 7.5 },
  "clouds": { "all": 75 },
  "dt": 1736769600,
  "sys": { "type": 2, "id": 2006068, "country": "FI", "sunrise": 1736748345, "sunset": 1736779789 },
  "timezone": 7200,
  "id": 658225,
  "name": "Helsinki",
  "cod": 200
}`
}

// registerOpenWeatherResponder registers a mock responder for OpenWeather API.
func registerOpenWeatherResponder(t *testing.T, statusCode int, body string) {
	t.Helper()

	httpmock.RegisterResponder("GET", `=~^https://api\.openweathermap\.org/data/2\.5/weather`,
		httpmock.NewStringResponder(statusCode, body))
}

// stubProvider is a Provider returning canned data and counting calls.
type stubProvider struct {
	mu    sync.Mutex
	calls int
	data  *WeatherData
	err   error
}

func (p *stubProvider) Name() string { return "stub" }

func (p *stubProvider) FetchCurrent(_ context.Context, _ string) (*WeatherData, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	data := *p.data
	return &data, nil
}

func (p *stubProvider) callCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

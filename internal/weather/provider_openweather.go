package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/weathercloset/weathercloset/internal/conf"
	"github.com/weathercloset/weathercloset/internal/errors"
	"github.com/weathercloset/weathercloset/internal/httpclient"
	"github.com/weathercloset/weathercloset/internal/logger"
)

// maxResponseBytes caps how much of a provider response is read.
const maxResponseBytes = 1 << 20

type openWeatherCondition struct {
	ID          int    `json:"id"`
	Main        string `json:"main"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

// OpenWeatherResponse represents the structure of weather data returned by the OpenWeather API
type OpenWeatherResponse struct {
	Weather []openWeatherCondition `json:"weather"`
	Main    struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		Humidity  int     `json:"humidity"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
	Name string `json:"name"`
}

// OpenWeatherProvider queries the OpenWeather current conditions endpoint by city name.
type OpenWeatherProvider struct {
	client   *httpclient.Client
	endpoint string
	apiKey   string
	units    string
}

// NewOpenWeatherProvider creates a new OpenWeather provider
func NewOpenWeatherProvider(settings conf.WeatherSettings, client *httpclient.Client) *OpenWeatherProvider {
	if client == nil {
		client = httpclient.New(&httpclient.Config{DefaultTimeout: settings.Timeout})
	}
	endpoint := settings.Endpoint
	if endpoint == "" {
		endpoint = conf.DefaultWeatherEndpoint
	}
	units := settings.Units
	if units == "" {
		units = "metric"
	}
	return &OpenWeatherProvider{
		client:   client,
		endpoint: endpoint,
		apiKey:   settings.APIKey,
		units:    units,
	}
}

// Name implements Provider.
func (p *OpenWeatherProvider) Name() string { return providerOpenWeather }

// FetchCurrent implements the Provider interface for OpenWeatherProvider
func (p *OpenWeatherProvider) FetchCurrent(ctx context.Context, city string) (*WeatherData, error) {
	if p.apiKey == "" {
		return nil, newWeatherError(fmt.Errorf("OpenWeather API key not configured"),
			errors.CategoryConfiguration, "fetch_current", providerOpenWeather)
	}

	params := url.Values{}
	params.Set("q", city)
	params.Set("appid", p.apiKey)
	params.Set("units", p.units)
	reqURL := p.endpoint + "?" + params.Encode()

	getLogger().Debug("fetching current weather", logger.String("city", city))

	resp, err := p.client.Get(ctx, reqURL)
	if err != nil {
		return nil, newWeatherError(fmt.Errorf("error fetching weather data: %w", err),
			errors.CategoryNetwork, "fetch_current", providerOpenWeather)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
		return nil, errors.New(&StatusError{Code: resp.StatusCode}).
			Component("weather").
			Category(errors.CategoryUpstream).
			Context("operation", "fetch_current").
			Context("provider", providerOpenWeather).
			Context("status_code", resp.StatusCode).
			Build()
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, newWeatherError(fmt.Errorf("error reading response body: %w", err),
			errors.CategoryNetwork, "fetch_current", providerOpenWeather)
	}

	var payload OpenWeatherResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, newWeatherError(fmt.Errorf("error unmarshaling weather data: %w", err),
			errors.CategoryUpstream, "decode_response", providerOpenWeather)
	}

	if len(payload.Weather) == 0 {
		return nil, newWeatherError(fmt.Errorf("no weather conditions returned from API"),
			errors.CategoryUpstream, "decode_response", providerOpenWeather)
	}

	return mapOpenWeatherResponse(&payload, p.units), nil
}

// mapOpenWeatherResponse converts the API payload into WeatherData in
// Celsius and meters per second.
func mapOpenWeatherResponse(payload *OpenWeatherResponse, units string) *WeatherData {
	temp, feelsLike := convertOpenWeatherTemps(payload.Main.Temp, payload.Main.FeelsLike, units)
	wind := payload.Wind.Speed
	if units == "imperial" {
		wind *= mphToMetersPerSecond
	}
	return &WeatherData{
		Description: getPrimaryWeatherDescription(payload.Weather),
		Temperature: temp,
		FeelsLike:   feelsLike,
		WindSpeed:   wind,
		Humidity:    payload.Main.Humidity,
		Location:    payload.Name,
	}
}

// convertOpenWeatherTemps converts temperatures reported in the given units to Celsius.
func convertOpenWeatherTemps(temp, feelsLike float64, units string) (float64, float64) {
	switch units {
	case "imperial":
		return FahrenheitToCelsius(temp), FahrenheitToCelsius(feelsLike)
	case "standard":
		return KelvinToCelsius(temp), KelvinToCelsius(feelsLike)
	default:
		return temp, feelsLike
	}
}

func getPrimaryWeatherDescription(conditions []openWeatherCondition) string {
	if len(conditions) == 0 {
		return "N/A"
	}
	return conditions[0].Description
}

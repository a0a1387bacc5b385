package weather

import (
	"context"
	"fmt"

	"github.com/weathercloset/weathercloset/internal/conf"
	"github.com/weathercloset/weathercloset/internal/errors"
	"github.com/weathercloset/weathercloset/internal/httpclient"
)

// Provider fetches current conditions for a city.
type Provider interface {
	Name() string
	FetchCurrent(ctx context.Context, city string) (*WeatherData, error)
}

// NewProvider returns the provider selected by name. Only OpenWeather is
// supported; an empty name selects it.
func NewProvider(name string, settings conf.WeatherSettings, client *httpclient.Client) (Provider, error) {
	switch name {
	case "", providerOpenWeather:
		return NewOpenWeatherProvider(settings, client), nil
	default:
		return nil, errors.New(fmt.Errorf("invalid weather provider: %s", name)).
			Component("weather").
			Category(errors.CategoryConfiguration).
			Context("provider", name).
			Build()
	}
}

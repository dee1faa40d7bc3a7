package tools

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/nimbus-assistant/nimbus/internal/session"
	"github.com/nimbus-assistant/nimbus/internal/weather"
)

// handleWeather reports the current conditions for a city. The nearest
// sample of the forecast series stands in for "current". On success the
// provider's canonical city name is written back to the session as
// last_city_checked.
func (r *Registry) handleWeather(ctx context.Context, args Args, state *session.State) Result {
	city := effectiveCity(args.City, state)

	geo, err := r.provider.Geocode(ctx, city)
	if err != nil {
		return geocodeFailure(city, err)
	}

	series, err := r.provider.Forecast(ctx, geo.Latitude, geo.Longitude)
	if err != nil {
		return providerFailure(city, err)
	}
	if len(series.Samples) == 0 {
		return failure(CodeProviderError,
			fmt.Sprintf("Weather information for '%s' is not available right now.", city))
	}

	canonical := series.City
	if canonical == "" {
		canonical = geo.Name
	}

	current := series.Samples[0]
	unit := state.Get(session.KeyTemperatureUnit)
	value, symbol := convertTemperature(current.TempC, unit)

	report := fmt.Sprintf("The current weather in %s is %s with a temperature of %.1f%s.",
		canonical, current.Description, value, symbol)

	state.Set(session.KeyLastCityChecked, canonical)
	r.logger.Info("weather checked",
		"city", canonical,
		"temperature", fmt.Sprintf("%.1f%s", value, symbol),
	)

	result := success(report)
	result.Observation = &WeatherObservation{
		City:        canonical,
		Description: current.Description,
		Temperature: value,
		Unit:        unit,
	}
	return result
}

// handleForecast reports upcoming days for a city. Only strictly future
// calendar days appear; each is represented by its midday sample.
// Temperatures render in Celsius, matching the provider's metric series.
func (r *Registry) handleForecast(ctx context.Context, args Args, state *session.State) Result {
	city := effectiveCity(args.City, state)
	days := weather.ClampDays(args.Days)

	geo, err := r.provider.Geocode(ctx, city)
	if err != nil {
		return geocodeFailure(city, err)
	}
	cityName := geo.Name
	if cityName == "" {
		cityName = city
	}

	series, err := r.provider.Forecast(ctx, geo.Latitude, geo.Longitude)
	if err != nil {
		return providerFailure(city, err)
	}

	entries := weather.Daily(series.Samples, days, r.now())
	if len(entries) == 0 {
		return failure(CodeNoForecastData,
			fmt.Sprintf("No forecast data available for upcoming days in %s.", cityName))
	}

	forecast := make([]ForecastDay, 0, len(entries))
	var b strings.Builder
	fmt.Fprintf(&b, "Weather forecast for %s for the next %d days:\n\n", cityName, len(entries))
	for _, e := range entries {
		day := ForecastDay{
			Date:        e.Date.Format("Monday, January 2"),
			Temperature: fmt.Sprintf("%.1f°C", e.TempC),
			Weather:     e.Description,
		}
		forecast = append(forecast, day)
		fmt.Fprintf(&b, "• %s: %s with temperature around %s\n", day.Date, day.Weather, day.Temperature)
	}

	result := success(b.String())
	result.Forecast = forecast
	return result
}

// convertTemperature renders a metric reading in the preferred unit.
func convertTemperature(celsius float64, unit string) (value float64, symbol string) {
	if unit == session.UnitFahrenheit {
		return celsius*9/5 + 32, "°F"
	}
	return celsius, "°C"
}

// geocodeFailure maps geocoding errors to a Result.
func geocodeFailure(city string, err error) Result {
	var notFound *weather.CityNotFoundError
	if errors.As(err, &notFound) {
		return failure(CodeCityNotFound, fmt.Sprintf("City '%s' not found.", notFound.City))
	}
	return providerFailure(city, err)
}

// providerFailure maps transport and provider errors to a Result.
func providerFailure(city string, err error) Result {
	var perr *weather.ProviderError
	if errors.As(err, &perr) && perr.Message != "" {
		return failure(CodeProviderError,
			fmt.Sprintf("Weather information for '%s' is not available. API error: %s", city, perr.Message))
	}
	return failure(CodeProviderError,
		fmt.Sprintf("Weather information for '%s' is not available right now.", city))
}

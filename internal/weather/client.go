// Package weather provides the client for the external geocoding and
// forecast data provider.
package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"time"

	"github.com/nimbus-assistant/nimbus/internal/httpkit"
	"github.com/sony/gobreaker"
)

const (
	defaultGeocodeURL  = "https://api.openweathermap.org/geo/1.0/direct"
	defaultForecastURL = "https://api.openweathermap.org/data/2.5/forecast"
)

// Client talks to the weather data provider: geocode-by-name and
// forecast-by-coordinates. Forecast data is requested in metric units.
type Client struct {
	geocodeURL  string
	forecastURL string
	apiKey      string
	httpClient  *http.Client
	circuit     *gobreaker.CircuitBreaker
	logger      *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithEndpoints overrides the provider URLs. Empty strings keep the
// defaults.
func WithEndpoints(geocodeURL, forecastURL string) Option {
	return func(c *Client) {
		if geocodeURL != "" {
			c.geocodeURL = geocodeURL
		}
		if forecastURL != "" {
			c.forecastURL = forecastURL
		}
	}
}

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// NewClient creates a provider client.
func NewClient(apiKey string, logger *slog.Logger, opts ...Option) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Client{
		geocodeURL:  defaultGeocodeURL,
		forecastURL: defaultForecastURL,
		apiKey:      apiKey,
		httpClient:  httpkit.NewClient(httpkit.WithTimeout(15 * time.Second)),
		logger:      logger,
	}
	c.circuit = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "weather-provider",
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Geocode resolves a city name to coordinates. Returns
// *CityNotFoundError when the provider has no match.
func (c *Client) Geocode(ctx context.Context, city string) (*GeocodeResult, error) {
	values := url.Values{}
	values.Set("q", city)
	values.Set("limit", "1")
	values.Set("appid", c.apiKey)

	body, err := c.get(ctx, c.geocodeURL+"?"+values.Encode())
	if err != nil {
		return nil, err
	}

	var results []GeocodeResult
	if err := json.Unmarshal(body, &results); err != nil {
		return nil, &ProviderError{Message: fmt.Sprintf("malformed geocode payload: %v", err)}
	}
	if len(results) == 0 {
		return nil, &CityNotFoundError{City: city}
	}

	c.logger.Debug("geocoded city",
		"query", city,
		"resolved", results[0].Name,
		"lat", results[0].Latitude,
		"lon", results[0].Longitude,
	)
	return &results[0], nil
}

// forecastPayload mirrors the provider's interval-series response.
type forecastPayload struct {
	List []struct {
		Dt   int64 `json:"dt"`
		Main struct {
			Temp float64 `json:"temp"`
		} `json:"main"`
		Weather []struct {
			Description string `json:"description"`
		} `json:"weather"`
	} `json:"list"`
	City struct {
		Name string `json:"name"`
	} `json:"city"`
	Message any `json:"message,omitempty"`
}

// Forecast fetches the interval series for the given coordinates, in
// metric units, ordered by time.
func (c *Client) Forecast(ctx context.Context, lat, lon float64) (*Series, error) {
	values := url.Values{}
	values.Set("lat", fmt.Sprintf("%f", lat))
	values.Set("lon", fmt.Sprintf("%f", lon))
	values.Set("units", "metric")
	values.Set("appid", c.apiKey)

	body, err := c.get(ctx, c.forecastURL+"?"+values.Encode())
	if err != nil {
		return nil, err
	}

	var payload forecastPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, &ProviderError{Message: fmt.Sprintf("malformed forecast payload: %v", err)}
	}

	series := &Series{
		City:    payload.City.Name,
		Samples: make([]Sample, 0, len(payload.List)),
	}
	for _, item := range payload.List {
		desc := ""
		if len(item.Weather) > 0 {
			desc = item.Weather[0].Description
		}
		series.Samples = append(series.Samples, Sample{
			Time:        time.Unix(item.Dt, 0),
			TempC:       item.Main.Temp,
			Description: desc,
		})
	}
	sort.Slice(series.Samples, func(i, j int) bool {
		return series.Samples[i].Time.Before(series.Samples[j].Time)
	})

	return series, nil
}

// get executes one provider request through the circuit breaker and
// returns the response body. Non-2xx statuses become *ProviderError,
// carrying the provider's message field when present.
func (c *Client) get(ctx context.Context, rawURL string) ([]byte, error) {
	result, err := c.circuit.Execute(func() (any, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("request failed: %w", err)
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("read response: %w", err)
		}

		if resp.StatusCode != http.StatusOK {
			return nil, &ProviderError{
				Status:  resp.StatusCode,
				Message: providerMessage(body),
			}
		}
		return body, nil
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, &ProviderError{Message: "provider temporarily unavailable"}
		}
		return nil, err
	}
	return result.([]byte), nil
}

// providerMessage extracts the provider's error message from an error
// payload, tolerating both string and numeric message fields.
func providerMessage(body []byte) string {
	var envelope struct {
		Message any `json:"message"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil || envelope.Message == nil {
		return ""
	}
	return fmt.Sprintf("%v", envelope.Message)
}

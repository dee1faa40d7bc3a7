package weather

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient("test-key", slog.Default(),
		WithEndpoints(srv.URL+"/geo", srv.URL+"/forecast"),
		WithHTTPClient(srv.Client()),
	)
}

func TestGeocode(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("q"); got != "Rome" {
			t.Errorf("query city = %q, want Rome", got)
		}
		if got := r.URL.Query().Get("appid"); got != "test-key" {
			t.Errorf("appid = %q, want test-key", got)
		}
		w.Write([]byte(`[{"name":"Roma","lat":41.89,"lon":12.48}]`))
	}))

	res, err := c.Geocode(context.Background(), "Rome")
	if err != nil {
		t.Fatalf("Geocode() error: %v", err)
	}
	if res.Name != "Roma" || res.Latitude != 41.89 || res.Longitude != 12.48 {
		t.Errorf("Geocode() = %+v", res)
	}
}

func TestGeocodeCityNotFound(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))

	_, err := c.Geocode(context.Background(), "Atlantis")
	var notFound *CityNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("error = %v, want *CityNotFoundError", err)
	}
	if notFound.City != "Atlantis" {
		t.Errorf("error city = %q, want Atlantis", notFound.City)
	}
}

func TestGeocodeProviderStatusError(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"cod":401,"message":"Invalid API key"}`))
	}))

	_, err := c.Geocode(context.Background(), "Rome")
	var perr *ProviderError
	if !errors.As(err, &perr) {
		t.Fatalf("error = %v, want *ProviderError", err)
	}
	if perr.Status != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", perr.Status)
	}
	if perr.Message != "Invalid API key" {
		t.Errorf("message = %q, want provider message", perr.Message)
	}
}

func TestForecast(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("units"); got != "metric" {
			t.Errorf("units = %q, want metric", got)
		}
		// Samples deliberately out of order; the client sorts.
		w.Write([]byte(`{
			"list": [
				{"dt": 1700560800, "main": {"temp": 14.2}, "weather": [{"description": "light rain"}]},
				{"dt": 1700550000, "main": {"temp": 12.5}, "weather": [{"description": "clear sky"}]}
			],
			"city": {"name": "Roma"}
		}`))
	}))

	series, err := c.Forecast(context.Background(), 41.89, 12.48)
	if err != nil {
		t.Fatalf("Forecast() error: %v", err)
	}
	if series.City != "Roma" {
		t.Errorf("City = %q, want Roma", series.City)
	}
	if len(series.Samples) != 2 {
		t.Fatalf("samples = %d, want 2", len(series.Samples))
	}
	if !series.Samples[0].Time.Before(series.Samples[1].Time) {
		t.Error("samples not sorted chronologically")
	}
	if series.Samples[0].TempC != 12.5 || series.Samples[0].Description != "clear sky" {
		t.Errorf("first sample = %+v", series.Samples[0])
	}
}

func TestForecastMalformedPayload(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	}))

	_, err := c.Forecast(context.Background(), 0, 0)
	var perr *ProviderError
	if !errors.As(err, &perr) {
		t.Fatalf("error = %v, want *ProviderError", err)
	}
}

func TestGetHonorsContext(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(50 * time.Millisecond)
		w.Write([]byte(`[]`))
	}))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Millisecond)
	defer cancel()

	if _, err := c.Geocode(ctx, "Rome"); err == nil {
		t.Error("Geocode() with expired context should fail")
	}
}

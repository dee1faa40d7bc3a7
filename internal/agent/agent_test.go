package agent

import (
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/nimbus-assistant/nimbus/internal/intent"
	"github.com/nimbus-assistant/nimbus/internal/session"
	"github.com/nimbus-assistant/nimbus/internal/timezone"
	"github.com/nimbus-assistant/nimbus/internal/tools"
	"github.com/nimbus-assistant/nimbus/internal/weather"
)

type fixedProvider struct{}

func (fixedProvider) Geocode(_ context.Context, city string) (*weather.GeocodeResult, error) {
	if strings.EqualFold(city, "Atlantis") {
		return nil, &weather.CityNotFoundError{City: city}
	}
	return &weather.GeocodeResult{Name: city, Latitude: 48.85, Longitude: 2.35}, nil
}

func (fixedProvider) Forecast(_ context.Context, _, _ float64) (*weather.Series, error) {
	now := time.Now()
	samples := []weather.Sample{{Time: now, TempC: 18.5, Description: "light rain"}}
	for d := 1; d <= 5; d++ {
		day := now.AddDate(0, 0, d)
		samples = append(samples, weather.Sample{
			Time:        time.Date(day.Year(), day.Month(), day.Day(), 12, 0, 0, 0, now.Location()),
			TempC:       15,
			Description: "few clouds",
		})
	}
	return &weather.Series{Samples: samples}, nil
}

func newTestAgent() *Agent {
	logger := slog.Default()
	registry := tools.NewRegistry(logger, fixedProvider{}, timezone.NewResolver())
	sessions := session.NewManager(logger, session.Defaults{})
	return New(logger, intent.NewKeywordClassifier(), registry, sessions)
}

func TestHandleTurnGreeting(t *testing.T) {
	a := newTestAgent()
	reply := a.HandleTurn(context.Background(), "Hello!", "s1")

	if reply.Intent != intent.IntentGreeting {
		t.Fatalf("intent = %v", reply.Intent)
	}
	if reply.Response != "Hello, there!" {
		t.Errorf("response = %q", reply.Response)
	}
	if reply.SessionID != "s1" {
		t.Errorf("session id = %q", reply.SessionID)
	}
}

func TestHandleTurnWeather(t *testing.T) {
	a := newTestAgent()
	reply := a.HandleTurn(context.Background(), "What's the weather in Paris?", "s1")

	if reply.Intent != intent.IntentWeather {
		t.Fatalf("intent = %v", reply.Intent)
	}
	if !strings.Contains(reply.Response, "Paris") || !strings.Contains(reply.Response, "light rain") {
		t.Errorf("response = %q", reply.Response)
	}
}

func TestHandleTurnForecastDefaultsToThreeDays(t *testing.T) {
	a := newTestAgent()
	reply := a.HandleTurn(context.Background(), "Give me the forecast for Rome", "s1")

	if reply.Intent != intent.IntentForecast {
		t.Fatalf("intent = %v", reply.Intent)
	}
	if got := len(reply.Result.Forecast); got != 3 {
		t.Errorf("forecast days = %d, want default 3", got)
	}
}

func TestHandleTurnExplicitForecastDays(t *testing.T) {
	a := newTestAgent()
	reply := a.HandleTurn(context.Background(), "forecast for the next 5 days in Rome", "s1")

	if got := len(reply.Result.Forecast); got != 5 {
		t.Errorf("forecast days = %d, want 5", got)
	}
}

func TestHandleTurnSubstantiveBeatsGreeting(t *testing.T) {
	a := newTestAgent()
	reply := a.HandleTurn(context.Background(), "Hi, what time is it in London?", "s1")

	if reply.Intent != intent.IntentTime {
		t.Fatalf("intent = %v, want time", reply.Intent)
	}
	if !strings.Contains(reply.Response, "London") {
		t.Errorf("response = %q", reply.Response)
	}
}

func TestHandleTurnFallback(t *testing.T) {
	a := newTestAgent()
	reply := a.HandleTurn(context.Background(), "explain quantum entanglement", "s1")

	if reply.Intent != intent.IntentNone {
		t.Fatalf("intent = %v", reply.Intent)
	}
	if reply.Response != "I'm sorry, I couldn't process your request." {
		t.Errorf("response = %q", reply.Response)
	}
}

func TestHandleTurnToolErrorSurfacesMessage(t *testing.T) {
	a := newTestAgent()
	reply := a.HandleTurn(context.Background(), "weather in Atlantis", "s1")

	if reply.Result.OK() {
		t.Fatal("expected error result")
	}
	if reply.Response != "City 'Atlantis' not found." {
		t.Errorf("response = %q", reply.Response)
	}
}

func TestHandleTurnEmptySessionIDGetsFreshSession(t *testing.T) {
	a := newTestAgent()
	first := a.HandleTurn(context.Background(), "Hello", "")
	second := a.HandleTurn(context.Background(), "Hello", "")

	if first.SessionID == "" || second.SessionID == "" {
		t.Fatal("session IDs should be assigned")
	}
	if first.SessionID == second.SessionID {
		t.Error("anonymous turns should not share a session")
	}
}

func TestHandleTurnSessionsAreIsolated(t *testing.T) {
	a := newTestAgent()

	sess := a.Sessions().Get("metric")
	sess.State.Set(session.KeyTemperatureUnit, session.UnitFahrenheit)

	warm := a.HandleTurn(context.Background(), "weather in Paris", "metric")
	if !strings.Contains(warm.Response, "°F") {
		t.Errorf("fahrenheit session: response = %q", warm.Response)
	}

	cold := a.HandleTurn(context.Background(), "weather in Paris", "other")
	if !strings.Contains(cold.Response, "°C") {
		t.Errorf("celsius session: response = %q", cold.Response)
	}
}

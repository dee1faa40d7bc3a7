// Package tools defines the capabilities available to the assistant.
package tools

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/nimbus-assistant/nimbus/internal/intent"
	"github.com/nimbus-assistant/nimbus/internal/session"
	"github.com/nimbus-assistant/nimbus/internal/timezone"
	"github.com/nimbus-assistant/nimbus/internal/weather"
)

// Args are the arguments extracted from an utterance for one tool call.
type Args struct {
	City string
	Days int
	Name string
}

// WeatherProvider is the slice of the weather client the tools need.
type WeatherProvider interface {
	Geocode(ctx context.Context, city string) (*weather.GeocodeResult, error)
	Forecast(ctx context.Context, lat, lon float64) (*weather.Series, error)
}

// Tool represents one callable capability.
type Tool struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
	Handler     func(ctx context.Context, args Args, state *session.State) Result `json:"-"`
}

// Registry holds the capability tools keyed by intent.
type Registry struct {
	logger   *slog.Logger
	provider WeatherProvider
	resolver *timezone.Resolver
	now      func() time.Time

	tools map[intent.Intent]*Tool
}

// NewRegistry creates a registry with all builtin tools registered.
func NewRegistry(logger *slog.Logger, provider WeatherProvider, resolver *timezone.Resolver) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	if resolver == nil {
		resolver = timezone.NewResolver()
	}
	r := &Registry{
		logger:   logger,
		provider: provider,
		resolver: resolver,
		now:      time.Now,
		tools:    make(map[intent.Intent]*Tool),
	}
	r.registerBuiltins()
	return r
}

func (r *Registry) registerBuiltins() {
	r.Register(intent.IntentWeather, &Tool{
		Name:        "get_weather",
		Description: "Get the current weather report for a city, using the temperature unit from session state.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"city": map[string]any{
					"type":        "string",
					"description": "City name. Empty, \"default\" or \"preferred\" uses the session's preferred city.",
				},
			},
		},
		Handler: r.handleWeather,
	})

	r.Register(intent.IntentForecast, &Tool{
		Name:        "get_weather_forecast",
		Description: "Get the weather forecast for the upcoming days (1-5) for a city.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"city": map[string]any{
					"type":        "string",
					"description": "City name. Empty, \"default\" or \"preferred\" uses the session's preferred city.",
				},
				"days": map[string]any{
					"type":        "integer",
					"description": "Number of days to forecast (1-5, default 3).",
				},
			},
		},
		Handler: r.handleForecast,
	})

	r.Register(intent.IntentTime, &Tool{
		Name:        "get_current_time",
		Description: "Get the current local time in a city.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"city": map[string]any{
					"type":        "string",
					"description": "City name. Empty, \"default\" or \"preferred\" uses the session's preferred city.",
				},
			},
		},
		Handler: r.handleTime,
	})

	r.Register(intent.IntentGreeting, &Tool{
		Name:        "say_hello",
		Description: "Provide a simple greeting, optionally addressing the user by name.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"name": map[string]any{
					"type":        "string",
					"description": "Name of the person to greet.",
				},
			},
		},
		Handler: r.handleGreeting,
	})

	r.Register(intent.IntentFarewell, &Tool{
		Name:        "say_goodbye",
		Description: "Provide a farewell message to conclude the conversation.",
		Parameters: map[string]any{
			"type":       "object",
			"properties": map[string]any{},
		},
		Handler: r.handleFarewell,
	})
}

// Register adds a tool for an intent.
func (r *Registry) Register(tag intent.Intent, t *Tool) {
	r.tools[tag] = t
}

// Get retrieves the tool for an intent, or nil.
func (r *Registry) Get(tag intent.Intent) *Tool {
	return r.tools[tag]
}

// List returns all registered tools in wire format, for diagnostics.
func (r *Registry) List() []map[string]any {
	var result []map[string]any
	for _, t := range r.tools {
		result = append(result, map[string]any{
			"type": "function",
			"function": map[string]any{
				"name":        t.Name,
				"description": t.Description,
				"parameters":  t.Parameters,
			},
		})
	}
	return result
}

// Execute runs the tool for an intent. Panics inside a handler are
// recovered into a handler-fault Result; no fault crosses this boundary.
func (r *Registry) Execute(ctx context.Context, tag intent.Intent, args Args, state *session.State) (result Result) {
	tool := r.tools[tag]
	if tool == nil {
		return failure(CodeHandlerFault, "I don't have a capability for that request.")
	}

	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("tool panicked",
				"tool", tool.Name,
				"panic", fmt.Sprintf("%v", rec),
			)
			result = failure(CodeHandlerFault, "Something went wrong while handling your request. Please try again.")
		}
	}()

	start := r.now()
	result = tool.Handler(ctx, args, state)

	r.logger.Debug("tool executed",
		"tool", tool.Name,
		"status", result.Status,
		"code", result.Code,
		"elapsed", time.Since(start),
	)
	return result
}

// effectiveCity applies the sentinel rule: an empty city, "default" or
// "preferred" all mean the session's preferred city.
func effectiveCity(city string, state *session.State) string {
	trimmed := strings.TrimSpace(city)
	lower := strings.ToLower(trimmed)
	if trimmed == "" || lower == "default" || lower == "preferred" {
		return state.Get(session.KeyPreferredCity)
	}
	return trimmed
}

// Package intent maps user utterances to assistant capabilities.
//
// The classifier's verdict is a closed variant plus extracted arguments,
// so downstream routing operates on typed values rather than re-sniffing
// strings. Two implementations exist: a model-backed classifier and a
// deterministic keyword matcher that also serves as its fallback.
package intent

import "context"

// Intent is the capability selected for one utterance.
type Intent string

const (
	IntentGreeting Intent = "greeting" // pure greeting, nothing else
	IntentFarewell Intent = "farewell" // pure farewell, nothing else
	IntentWeather  Intent = "weather"  // current conditions
	IntentForecast Intent = "forecast" // upcoming days
	IntentTime     Intent = "time"     // current local time
	IntentNone     Intent = "none"     // no capability applies
)

// Valid reports whether i is one of the closed set.
func (i Intent) Valid() bool {
	switch i {
	case IntentGreeting, IntentFarewell, IntentWeather, IntentForecast, IntentTime, IntentNone:
		return true
	}
	return false
}

// Classification is one classifier verdict: exactly one intent, plus the
// arguments extracted from the utterance. Absent arguments stay zero;
// tools apply their own defaults.
type Classification struct {
	Intent Intent `json:"intent"`
	City   string `json:"city,omitempty"`
	Days   int    `json:"days,omitempty"`
	Name   string `json:"name,omitempty"`
}

// Classifier picks exactly one capability per utterance.
//
// Implementations must honor the selection priority: a substantive
// request (weather, forecast, time) always beats a greeting or farewell
// appearing in the same utterance; greeting and farewell are selected
// only for utterances that are solely that.
type Classifier interface {
	Classify(ctx context.Context, utterance string) (Classification, error)
}

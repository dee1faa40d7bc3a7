package intent

import (
	"context"
	"testing"
)

func TestKeywordClassifyIntent(t *testing.T) {
	c := NewKeywordClassifier()

	tests := []struct {
		name      string
		utterance string
		want      Intent
	}{
		// Substantive requests
		{name: "weather", utterance: "What's the weather in Paris?", want: IntentWeather},
		{name: "temperature", utterance: "how hot is it in Cairo", want: IntentWeather},
		{name: "forecast", utterance: "What's the forecast for Tokyo?", want: IntentForecast},
		{name: "upcoming", utterance: "How's the weather looking for the upcoming days?", want: IntentForecast},
		{name: "next n days", utterance: "weather for the next 5 days in Rome", want: IntentForecast},
		{name: "tomorrow", utterance: "will it rain tomorrow", want: IntentForecast},
		{name: "time", utterance: "What time is it in Tokyo?", want: IntentTime},
		{name: "time default", utterance: "what time is it right now?", want: IntentTime},

		// Priority rule 1: substantive beats greeting/farewell
		{name: "greeting plus weather", utterance: "Hi, what's the weather in Paris?", want: IntentWeather},
		{name: "greeting plus time", utterance: "Hello! What time is it in London?", want: IntentTime},
		{name: "farewell plus forecast", utterance: "thanks bye, but first the forecast for Rome", want: IntentForecast},

		// Pure smalltalk
		{name: "pure greeting", utterance: "Hello", want: IntentGreeting},
		{name: "pure hi", utterance: "Hi!", want: IntentGreeting},
		{name: "greeting with name", utterance: "Hi, my name is Amira", want: IntentGreeting},
		{name: "pure farewell", utterance: "Goodbye", want: IntentFarewell},
		{name: "see you", utterance: "ok see you", want: IntentFarewell},

		// Boundary safety: greeting words inside other words don't fire
		{name: "hi inside this", utterance: "explain this to me", want: IntentNone},
		{name: "bye inside maybe", utterance: "maybe later", want: IntentNone},

		// Unroutable
		{name: "unrelated", utterance: "Tell me a joke", want: IntentNone},
		{name: "empty", utterance: "", want: IntentNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.Classify(context.Background(), tt.utterance)
			if err != nil {
				t.Fatalf("Classify(%q) error: %v", tt.utterance, err)
			}
			if got.Intent != tt.want {
				t.Errorf("Classify(%q) = %v, want %v", tt.utterance, got.Intent, tt.want)
			}
		})
	}
}

func TestExtractCity(t *testing.T) {
	tests := []struct {
		utterance string
		want      string
	}{
		{"What's the weather in Paris?", "Paris"},
		{"what time is it in New York right now?", "New York"},
		{"forecast for Tokyo", "Tokyo"},
		{"weather in Rio de Janeiro today", "Rio de Janeiro"},
		{"weather for the next 5 days in Rome", "Rome"},
		{"forecast in Paris for the next 3 days", "Paris"},
		{"What's the weather like?", ""},
		{"what time is it?", ""},
	}

	for _, tt := range tests {
		if got := extractCity(tt.utterance); got != tt.want {
			t.Errorf("extractCity(%q) = %q, want %q", tt.utterance, got, tt.want)
		}
	}
}

func TestExtractDays(t *testing.T) {
	tests := []struct {
		utterance string
		want      int
	}{
		{"forecast for the next 5 days", 5},
		{"give me a 2-day forecast", 2},
		{"3 days please", 3},
		{"forecast for tomorrow", 0},
		{"what's the forecast", 0},
	}

	for _, tt := range tests {
		if got := extractDays(tt.utterance); got != tt.want {
			t.Errorf("extractDays(%q) = %d, want %d", tt.utterance, got, tt.want)
		}
	}
}

func TestExtractName(t *testing.T) {
	tests := []struct {
		utterance string
		want      string
	}{
		{"Hi, my name is amira", "Amira"},
		{"hello, I'm Sam", "Sam"},
		{"hello I am BOB", "Bob"},
		{"Hello", ""},
	}

	for _, tt := range tests {
		if got := extractName(tt.utterance); got != tt.want {
			t.Errorf("extractName(%q) = %q, want %q", tt.utterance, got, tt.want)
		}
	}
}

package weather

import (
	"fmt"
	"time"
)

// GeocodeResult is the provider's resolution of a free-text city name.
// Ephemeral: obtained per lookup, never persisted.
type GeocodeResult struct {
	Name      string  `json:"name"`
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lon"`
}

// Sample is one interval reading from the provider's forecast series.
// Temperatures are metric; unit conversion is the caller's concern.
type Sample struct {
	Time        time.Time
	TempC       float64
	Description string
}

// Series is a time-ordered forecast for one location. City is the
// provider's canonical name, which may differ from the query.
type Series struct {
	City    string
	Samples []Sample
}

// DailyEntry is one future day's representative reading: the sample
// whose local hour falls in the midday window, or the day's first
// sample when none does.
type DailyEntry struct {
	Date        time.Time
	TempC       float64
	Description string
}

// CityNotFoundError reports a geocode query that returned no match.
type CityNotFoundError struct {
	City string
}

func (e *CityNotFoundError) Error() string {
	return fmt.Sprintf("city %q not found", e.City)
}

// ProviderError reports a non-success status or malformed payload from
// the external data provider.
type ProviderError struct {
	Status  int
	Message string
}

func (e *ProviderError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("provider error %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("provider error %d", e.Status)
}

package weather

import (
	"testing"
	"time"
)

// sampleAt builds a sample on a given day offset and hour, in UTC.
func sampleAt(now time.Time, dayOffset, hour int, temp float64, desc string) Sample {
	d := now.AddDate(0, 0, dayOffset)
	return Sample{
		Time:        time.Date(d.Year(), d.Month(), d.Day(), hour, 0, 0, 0, time.UTC),
		TempC:       temp,
		Description: desc,
	}
}

func TestClampDays(t *testing.T) {
	tests := []struct{ in, want int }{
		{-3, 1},
		{0, 1},
		{1, 1},
		{3, 3},
		{5, 5},
		{9, 5},
	}
	for _, tt := range tests {
		if got := ClampDays(tt.in); got != tt.want {
			t.Errorf("ClampDays(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestDailyExcludesCurrentDay(t *testing.T) {
	now := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)
	samples := []Sample{
		sampleAt(now, 0, 12, 20, "today midday"),
		sampleAt(now, 1, 12, 21, "tomorrow"),
		sampleAt(now, 2, 12, 22, "day two"),
		sampleAt(now, 3, 12, 23, "day three"),
	}

	entries := Daily(samples, 5, now)
	if len(entries) != 3 {
		t.Fatalf("entries = %d, want 3 (today excluded)", len(entries))
	}
	for _, e := range entries {
		if e.Description == "today midday" {
			t.Error("current calendar day leaked into the forecast")
		}
	}
}

func TestDailyPicksMiddaySample(t *testing.T) {
	now := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)
	samples := []Sample{
		sampleAt(now, 1, 6, 8, "early"),
		sampleAt(now, 1, 12, 15, "midday"),
		sampleAt(now, 1, 21, 10, "late"),
	}

	entries := Daily(samples, 1, now)
	if len(entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(entries))
	}
	if entries[0].Description != "midday" || entries[0].TempC != 15 {
		t.Errorf("representative = %+v, want the midday sample", entries[0])
	}
}

func TestDailyFallsBackToFirstSample(t *testing.T) {
	now := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)
	samples := []Sample{
		sampleAt(now, 1, 18, 9, "evening"),
		sampleAt(now, 1, 21, 7, "night"),
	}

	entries := Daily(samples, 1, now)
	if len(entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(entries))
	}
	if entries[0].Description != "evening" {
		t.Errorf("representative = %q, want first sample of the bucket", entries[0].Description)
	}
}

func TestDailyMiddayWindowBoundaries(t *testing.T) {
	now := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)

	// Hour 10 and hour 14 are both inside the window.
	for _, hour := range []int{10, 14} {
		samples := []Sample{
			sampleAt(now, 1, 7, 1, "first"),
			sampleAt(now, 1, hour, 2, "window"),
		}
		entries := Daily(samples, 1, now)
		if entries[0].Description != "window" {
			t.Errorf("hour %d: representative = %q, want window sample", hour, entries[0].Description)
		}
	}

	// Hour 15 is outside; fall back to the bucket's first sample.
	samples := []Sample{
		sampleAt(now, 1, 7, 1, "first"),
		sampleAt(now, 1, 15, 2, "after"),
	}
	entries := Daily(samples, 1, now)
	if entries[0].Description != "first" {
		t.Errorf("representative = %q, want first sample", entries[0].Description)
	}
}

func TestDailyClampsAndTruncates(t *testing.T) {
	now := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)
	var samples []Sample
	for d := 1; d <= 7; d++ {
		samples = append(samples, sampleAt(now, d, 12, float64(d), "day"))
	}

	// days=0 clamps to 1.
	if got := len(Daily(samples, 0, now)); got != 1 {
		t.Errorf("Daily(days=0) entries = %d, want 1", got)
	}
	// days=9 clamps to 5 even with 7 future days available.
	if got := len(Daily(samples, 9, now)); got != 5 {
		t.Errorf("Daily(days=9) entries = %d, want 5", got)
	}
}

func TestDailyChronologicalOrder(t *testing.T) {
	now := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)
	samples := []Sample{
		sampleAt(now, 3, 12, 3, "third"),
		sampleAt(now, 1, 12, 1, "first"),
		sampleAt(now, 2, 12, 2, "second"),
	}

	entries := Daily(samples, 5, now)
	if len(entries) != 3 {
		t.Fatalf("entries = %d, want 3", len(entries))
	}
	for i := 1; i < len(entries); i++ {
		if !entries[i-1].Date.Before(entries[i].Date) {
			t.Fatal("entries not in chronological order")
		}
	}
}

func TestDailyEmptySeries(t *testing.T) {
	now := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)
	if got := len(Daily(nil, 3, now)); got != 0 {
		t.Errorf("Daily(nil) entries = %d, want 0", got)
	}
}

package weather

import (
	"sort"
	"time"
)

// Forecast day-count bounds. Requests outside the range are clamped,
// not rejected.
const (
	MinForecastDays = 1
	MaxForecastDays = 5
)

// Midday window, inclusive local hours. The provider reports in fixed
// intervals; the sample falling in this window represents the day.
const (
	middayStartHour = 10
	middayEndHour   = 14
)

// ClampDays bounds a requested day count to [MinForecastDays, MaxForecastDays].
func ClampDays(days int) int {
	if days < MinForecastDays {
		return MinForecastDays
	}
	if days > MaxForecastDays {
		return MaxForecastDays
	}
	return days
}

// Daily reduces an interval series to per-day entries, viewed from now:
//
//   - samples on or before now's calendar day are dropped; only strictly
//     future days are reported
//   - each remaining day is represented by its midday sample, or its
//     first sample when no interval lands in the midday window
//   - days are returned chronologically, at most `days` of them; fewer
//     when the series does not cover enough future days
//
// Calendar days are evaluated in now's location.
func Daily(samples []Sample, days int, now time.Time) []DailyEntry {
	days = ClampDays(days)
	loc := now.Location()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)

	buckets := make(map[time.Time][]Sample)
	for _, s := range samples {
		local := s.Time.In(loc)
		day := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
		if !day.After(today) {
			continue
		}
		buckets[day] = append(buckets[day], s)
	}

	dates := make([]time.Time, 0, len(buckets))
	for day := range buckets {
		dates = append(dates, day)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	if len(dates) > days {
		dates = dates[:days]
	}

	entries := make([]DailyEntry, 0, len(dates))
	for _, day := range dates {
		rep := pickMidday(buckets[day], loc)
		entries = append(entries, DailyEntry{
			Date:        day,
			TempC:       rep.TempC,
			Description: rep.Description,
		})
	}
	return entries
}

// pickMidday returns the first sample whose local hour falls in the
// midday window, or the bucket's first sample otherwise.
func pickMidday(bucket []Sample, loc *time.Location) Sample {
	for _, s := range bucket {
		h := s.Time.In(loc).Hour()
		if h >= middayStartHour && h <= middayEndHour {
			return s
		}
	}
	return bucket[0]
}

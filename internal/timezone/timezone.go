// Package timezone resolves city names to IANA timezone identifiers.
//
// The table is static and loaded once; resolution is a tie-break cascade,
// not a ranked best-match. The substring pass is an order-dependent
// heuristic: the first table entry that matches wins, so the table keeps
// an explicit key order rather than relying on map iteration.
package timezone

import (
	"fmt"
	"strings"
	"time"
)

// Entry maps one city name to its IANA timezone identifier.
type Entry struct {
	City string
	Zone string
}

// UnknownCityError reports a city absent from the table with no partial
// match.
type UnknownCityError struct {
	City string
}

func (e *UnknownCityError) Error() string {
	return fmt.Sprintf("no timezone information for %s", e.City)
}

// Match is a successful resolution: the table's spelling of the city and
// its timezone identifier.
type Match struct {
	City string
	Zone string
}

// Resolver looks up cities against an immutable table.
type Resolver struct {
	zones map[string]string
	order []string // table key order, drives the substring pass
}

// NewResolver returns a resolver over the built-in city table.
func NewResolver() *Resolver {
	return NewResolverWithTable(builtinTable)
}

// NewResolverWithTable returns a resolver over a caller-supplied table.
// Entry order is preserved for the substring tie-break.
func NewResolverWithTable(entries []Entry) *Resolver {
	r := &Resolver{
		zones: make(map[string]string, len(entries)),
		order: make([]string, 0, len(entries)),
	}
	for _, e := range entries {
		if _, dup := r.zones[e.City]; dup {
			continue
		}
		r.zones[e.City] = e.Zone
		r.order = append(r.order, e.City)
	}
	return r
}

// Resolve maps a city name to a timezone. The cascade, first match wins:
//
//  1. When city equals preferredCity, an exact (case-sensitive) table
//     match, then a case-insensitive one. This favors the user's stored
//     spelling of their own city.
//  2. Case-insensitive exact match.
//  3. Substring match in either direction against the table keys, in
//     table order.
//
// Returns *UnknownCityError when nothing matches.
func (r *Resolver) Resolve(city, preferredCity string) (Match, error) {
	lower := strings.ToLower(city)

	if city == preferredCity {
		if zone, ok := r.zones[city]; ok {
			return Match{City: city, Zone: zone}, nil
		}
	}

	for _, key := range r.order {
		if strings.ToLower(key) == lower {
			return Match{City: key, Zone: r.zones[key]}, nil
		}
	}

	for _, key := range r.order {
		keyLower := strings.ToLower(key)
		if strings.Contains(keyLower, lower) || strings.Contains(lower, keyLower) || containsKeyWord(lower, keyLower) {
			return Match{City: key, Zone: r.zones[key]}, nil
		}
	}

	return Match{}, &UnknownCityError{City: city}
}

// containsKeyWord reports whether any word of a multi-word table key
// appears in the query, so near-miss spellings like "Yorks" still land
// on "new york". Words under 4 characters are skipped to keep "san"
// and "rio" from matching half the table.
func containsKeyWord(query, key string) bool {
	for _, w := range strings.Fields(key) {
		if len(w) < 4 {
			continue
		}
		if strings.Contains(query, w) {
			return true
		}
	}
	return false
}

// Location loads the time.Location for a match.
func (m Match) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(m.Zone)
	if err != nil {
		return nil, fmt.Errorf("load location %q: %w", m.Zone, err)
	}
	return loc, nil
}

// builtinTable is the assistant's city coverage. Keys are lowercase except
// for a handful of legacy entries whose original casing is load-bearing:
// the preferred-city fast path in Resolve matches case-sensitively.
var builtinTable = []Entry{
	{"new york", "America/New_York"},
	{"san francisco", "America/Los_Angeles"},
	{"los angeles", "America/Los_Angeles"},
	{"chicago", "America/Chicago"},
	{"houston", "America/Chicago"},
	{"phoenix", "America/Phoenix"},
	{"philadelphia", "America/New_York"},
	{"san antonio", "America/Chicago"},
	{"san diego", "America/Los_Angeles"},
	{"dallas", "America/Chicago"},
	{"san jose", "America/Los_Angeles"},
	{"austin", "America/Chicago"},
	{"london", "Europe/London"},
	{"paris", "Europe/Paris"},
	{"berlin", "Europe/Berlin"},
	{"rome", "Europe/Rome"},
	{"madrid", "Europe/Madrid"},
	{"amsterdam", "Europe/Amsterdam"},
	{"brussels", "Europe/Brussels"},
	{"vienna", "Europe/Vienna"},
	{"tokyo", "Asia/Tokyo"},
	{"beijing", "Asia/Shanghai"},
	{"shanghai", "Asia/Shanghai"},
	{"hong kong", "Asia/Hong_Kong"},
	{"singapore", "Asia/Singapore"},
	{"sydney", "Australia/Sydney"},
	{"melbourne", "Australia/Melbourne"},
	{"auckland", "Pacific/Auckland"},
	{"toronto", "America/Toronto"},
	{"vancouver", "America/Vancouver"},
	{"montreal", "America/Montreal"},
	{"mexico city", "America/Mexico_City"},
	{"sao paulo", "America/Sao_Paulo"},
	{"rio de janeiro", "America/Sao_Paulo"},
	{"buenos aires", "America/Argentina/Buenos_Aires"},
	{"lagos", "Africa/Lagos"},
	{"cairo", "Africa/Cairo"},
	{"johannesburg", "Africa/Johannesburg"},
	{"nairobi", "Africa/Nairobi"},
	{"dubai", "Asia/Dubai"},
	{"new delhi", "Asia/Kolkata"},
	{"mumbai", "Asia/Kolkata"},
	{"bangkok", "Asia/Bangkok"},
	{"jakarta", "Asia/Jakarta"},
	{"istanbul", "Europe/Istanbul"},
	{"seoul", "Asia/Seoul"},
	{"Tunis", "Africa/Tunis"},
	{"monastir", "Africa/Tunis"},
	{"Beb El Jazira", "Africa/Tunis"},
	{"Abu Dhabi", "Asia/Dubai"},
	{"Abuja", "Africa/Lagos"},
	{"Accra", "Africa/Accra"},
	{"Addis Ababa", "Africa/Addis_Ababa"},
	{"Algiers", "Africa/Algiers"},
}

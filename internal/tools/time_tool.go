package tools

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/nimbus-assistant/nimbus/internal/session"
	"github.com/nimbus-assistant/nimbus/internal/timezone"
)

// handleTime reports the current local time for a city. The resolver's
// cascade favors the session's stored spelling of the preferred city,
// then case-insensitive and substring matches against the table.
func (r *Registry) handleTime(_ context.Context, args Args, state *session.State) Result {
	preferred := state.Get(session.KeyPreferredCity)
	city := effectiveCity(args.City, state)

	match, err := r.resolver.Resolve(city, preferred)
	if err != nil {
		var unknown *timezone.UnknownCityError
		if errors.As(err, &unknown) {
			return failure(CodeTimezoneUnknown,
				fmt.Sprintf("Sorry, I don't have timezone information for %s. Try a major city.", unknown.City))
		}
		return failure(CodeHandlerFault,
			fmt.Sprintf("Could not determine the time for %s.", city))
	}

	loc, err := match.Location()
	if err != nil {
		r.logger.Error("timezone table entry failed to load", "city", match.City, "zone", match.Zone, "error", err)
		return failure(CodeTimezoneUnknown,
			fmt.Sprintf("Sorry, I don't have timezone information for %s. Try a major city.", city))
	}

	now := r.now().In(loc)
	report := fmt.Sprintf("The current time in %s is %s",
		titleCase(match.City), now.Format("2006-01-02 15:04:05 MST-0700"))
	return success(report)
}

// titleCase capitalizes each word of a city name for display
// ("new york" → "New York").
func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		runes := []rune(w)
		if len(runes) > 0 {
			words[i] = strings.ToUpper(string(runes[0])) + string(runes[1:])
		}
	}
	return strings.Join(words, " ")
}

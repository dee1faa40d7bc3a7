package intent

import (
	"context"
	"regexp"
	"strconv"
	"strings"
)

// KeywordClassifier is the deterministic classifier: fixed phrase lists,
// no model in the loop. It doubles as the fallback when the model-backed
// classifier is unavailable or returns garbage.
type KeywordClassifier struct{}

// NewKeywordClassifier creates a keyword classifier.
func NewKeywordClassifier() *KeywordClassifier {
	return &KeywordClassifier{}
}

var (
	timePhrases = []string{
		"what time", "what's the time", "whats the time", "current time",
		"time is it", "time in", "local time",
	}
	forecastPhrases = []string{
		"forecast", "upcoming", "next few days", "coming days", "tomorrow",
		"will it rain", "will it snow",
	}
	weatherPhrases = []string{
		"weather", "temperature", "how hot", "how cold", "is it raining",
		"is it sunny", "humidity",
	}
	greetingPhrases = []string{
		"hello", "hi", "hey", "good morning", "good afternoon", "good evening",
		"greetings",
	}
	farewellPhrases = []string{
		"bye", "goodbye", "see you", "farewell", "good night", "take care",
		"thanks bye",
	}

	daysPattern = regexp.MustCompile(`(?i)\b(?:next\s+)?(\d+)[\s-]*day`)
	namePattern = regexp.MustCompile(`(?i)\b(?:my name is|i am|i'm)\s+([a-z]+)`)
)

// Classify applies the priority policy: time beats forecast beats
// weather; greeting/farewell only when the utterance is solely that.
// Classify never fails; an unroutable utterance yields IntentNone.
func (c *KeywordClassifier) Classify(_ context.Context, utterance string) (Classification, error) {
	q := strings.ToLower(strings.TrimSpace(utterance))

	switch {
	case containsAny(q, timePhrases):
		return Classification{
			Intent: IntentTime,
			City:   extractCity(utterance),
		}, nil
	case containsAny(q, forecastPhrases) || daysPattern.MatchString(q):
		return Classification{
			Intent: IntentForecast,
			City:   extractCity(utterance),
			Days:   extractDays(q),
		}, nil
	case containsAny(q, weatherPhrases):
		return Classification{
			Intent: IntentWeather,
			City:   extractCity(utterance),
		}, nil
	case containsAny(q, farewellPhrases):
		return Classification{Intent: IntentFarewell}, nil
	case containsAny(q, greetingPhrases):
		return Classification{
			Intent: IntentGreeting,
			Name:   extractName(utterance),
		}, nil
	default:
		return Classification{Intent: IntentNone}, nil
	}
}

// containsAny matches phrases on word boundaries, so "hi" does not fire
// inside "this" and "bye" does not fire inside "maybe".
func containsAny(q string, phrases []string) bool {
	padded := " " + normalize(q) + " "
	for _, p := range phrases {
		if strings.Contains(padded, " "+p+" ") {
			return true
		}
	}
	return false
}

// normalize lowers punctuation to spaces so phrase boundaries line up
// with word boundaries. Apostrophes are kept ("what's the time").
func normalize(q string) string {
	var b strings.Builder
	b.Grow(len(q))
	for _, r := range q {
		switch r {
		case '.', ',', '!', '?', ';', ':':
			b.WriteRune(' ')
		default:
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// cityNoise are trailing words stripped from an extracted city phrase.
var cityNoise = map[string]bool{
	"today": true, "now": true, "right": true, "currently": true,
	"please": true, "tomorrow": true, "tonight": true,
}

// extractCity pulls a city phrase from "... in <city>" or "... for
// <city>", keeping the user's casing. Returns "" when the utterance
// names no city; tools then substitute the session's preferred city.
func extractCity(utterance string) string {
	lower := strings.ToLower(utterance)

	idx := strings.LastIndex(lower, " in ")
	width := 4
	if idx < 0 {
		idx = strings.LastIndex(lower, " for ")
		width = 5
	}
	if idx < 0 {
		return ""
	}

	tail := strings.TrimSpace(utterance[idx+width:])
	if cut := strings.IndexAny(tail, "?.!,;"); cut >= 0 {
		tail = tail[:cut]
	}

	words := strings.Fields(tail)
	for len(words) > 0 && cityNoise[strings.ToLower(words[len(words)-1])] {
		words = words[:len(words)-1]
	}
	// "the next 5 days" and similar trails are not cities.
	for len(words) > 0 {
		last := strings.ToLower(words[len(words)-1])
		if last == "days" || last == "day" || isDigits(last) || last == "next" || last == "the" || last == "for" || last == "in" {
			words = words[:len(words)-1]
			continue
		}
		break
	}
	return strings.Join(words, " ")
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// extractDays finds a requested day count ("next 5 days", "2-day").
// Returns 0 when the utterance names none; the forecast tool applies
// its default.
func extractDays(q string) int {
	m := daysPattern.FindStringSubmatch(q)
	if m == nil {
		return 0
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return n
}

// extractName finds a self-introduction for the greeting tool.
func extractName(utterance string) string {
	m := namePattern.FindStringSubmatch(utterance)
	if m == nil {
		return ""
	}
	name := strings.ToLower(m[1])
	return strings.ToUpper(name[:1]) + name[1:]
}

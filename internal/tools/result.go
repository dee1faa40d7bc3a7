package tools

// Status tags a tool outcome.
type Status string

const (
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// Code classifies a failure. Every failure a tool can produce maps to
// exactly one of these; callers branch on the code, users only ever see
// the message.
type Code string

const (
	CodeCityNotFound    Code = "city_not_found"   // geocoding returned nothing
	CodeProviderError   Code = "provider_error"   // non-success status or malformed payload
	CodeTimezoneUnknown Code = "timezone_unknown" // city not in the table, no partial match
	CodeNoForecastData  Code = "no_forecast_data" // no qualifying future-day samples
	CodeHandlerFault    Code = "handler_fault"    // unexpected panic inside a tool
)

// WeatherObservation carries the structured fields behind a current
// weather report.
type WeatherObservation struct {
	City        string  `json:"city"`
	Description string  `json:"description"`
	Temperature float64 `json:"temperature"`
	Unit        string  `json:"unit"`
}

// ForecastDay is one day of a forecast report.
type ForecastDay struct {
	Date        string `json:"date"`        // e.g. "Monday, July 10"
	Temperature string `json:"temperature"` // e.g. "15.0°C"
	Weather     string `json:"weather"`
}

// Result is the status-tagged outcome of one tool invocation. Tools
// never raise past their boundary: every internal fault is converted to
// an error Result with a human-readable message.
type Result struct {
	Status       Status `json:"status"`
	Report       string `json:"report,omitempty"`
	ErrorMessage string `json:"error_message,omitempty"`
	Code         Code   `json:"code,omitempty"`

	// Structured payloads, populated on success by the relevant tools.
	Observation *WeatherObservation `json:"observation,omitempty"`
	Forecast    []ForecastDay       `json:"daily_forecasts,omitempty"`
}

// OK reports whether the invocation succeeded.
func (r Result) OK() bool {
	return r.Status == StatusSuccess
}

// Message returns the user-facing text: the report on success, the
// error explanation otherwise.
func (r Result) Message() string {
	if r.OK() {
		return r.Report
	}
	return r.ErrorMessage
}

func success(report string) Result {
	return Result{Status: StatusSuccess, Report: report}
}

func failure(code Code, message string) Result {
	return Result{Status: StatusError, Code: code, ErrorMessage: message}
}

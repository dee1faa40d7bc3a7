// Package session provides per-conversation state for the assistant.
//
// Each session owns a preference store: a string key/value map the tools
// consult and mutate. Sessions are created on first use, live for the
// lifetime of the process, and are never merged or expired.
package session

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Well-known preference keys.
const (
	KeyTemperatureUnit = "temperature_unit" // "Celsius" or "Fahrenheit"
	KeyPreferredCity   = "preferred_city"   // free-text city name
	KeyLanguage        = "language"         // informational only
	KeyLastCityChecked = "last_city_checked" // written by weather tools
)

// Temperature unit values for KeyTemperatureUnit.
const (
	UnitCelsius    = "Celsius"
	UnitFahrenheit = "Fahrenheit"
)

// State is one session's preference store. Reads of absent keys fall back
// to the defaults the store was created with; keys are never deleted.
//
// Individual Get/Set calls are atomic so concurrent turns against the
// same session cannot interleave a single read or write. A
// read-modify-write spanning two tool calls still is not atomic.
type State struct {
	mu       sync.RWMutex
	values   map[string]string
	defaults map[string]string
}

// NewState creates a preference store with the given key defaults.
func NewState(defaults map[string]string) *State {
	d := make(map[string]string, len(defaults))
	for k, v := range defaults {
		d[k] = v
	}
	return &State{
		values:   make(map[string]string),
		defaults: d,
	}
}

// Get returns the value for key, the store's default for key if unset,
// or "" when neither exists. Unknown keys never error.
func (s *State) Get(key string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if v, ok := s.values[key]; ok {
		return v
	}
	return s.defaults[key]
}

// Set stores value under key.
func (s *State) Set(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
}

// Snapshot returns the effective state: defaults overlaid with any
// explicit values. The result is a copy and safe to hold.
func (s *State) Snapshot() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]string, len(s.defaults)+len(s.values))
	for k, v := range s.defaults {
		out[k] = v
	}
	for k, v := range s.values {
		out[k] = v
	}
	return out
}

// Session is one independent conversation context.
type Session struct {
	ID        string
	CreatedAt time.Time
	State     *State
}

// Defaults seed the preference store of every new session.
type Defaults struct {
	City            string
	TemperatureUnit string
}

// Manager tracks sessions by ID.
type Manager struct {
	logger   *slog.Logger
	defaults Defaults

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewManager creates a session manager. Zero-valued defaults fall back to
// Tunis / Celsius, matching the assistant's documented initial state.
func NewManager(logger *slog.Logger, defaults Defaults) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	if defaults.City == "" {
		defaults.City = "Tunis"
	}
	if defaults.TemperatureUnit == "" {
		defaults.TemperatureUnit = UnitCelsius
	}
	return &Manager{
		logger:   logger,
		defaults: defaults,
		sessions: make(map[string]*Session),
	}
}

// Get returns the session for id, creating it on first use. An empty id
// gets a fresh UUID so anonymous callers still receive isolated state.
func (m *Manager) Get(id string) *Session {
	if id == "" {
		id = uuid.NewString()
	}

	m.mu.RLock()
	sess, ok := m.sessions[id]
	m.mu.RUnlock()
	if ok {
		return sess
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	// Re-check under the write lock; another turn may have created it.
	if sess, ok := m.sessions[id]; ok {
		return sess
	}

	sess = &Session{
		ID:        id,
		CreatedAt: time.Now().UTC(),
		State: NewState(map[string]string{
			KeyPreferredCity:   m.defaults.City,
			KeyTemperatureUnit: m.defaults.TemperatureUnit,
		}),
	}
	m.sessions[id] = sess

	m.logger.Info("session created", "session_id", id)
	return sess
}

// Lookup returns the session for id without creating one.
func (m *Manager) Lookup(id string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sess, ok := m.sessions[id]
	return sess, ok
}

// Stats returns session statistics.
func (m *Manager) Stats() map[string]any {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return map[string]any{
		"sessions": len(m.sessions),
	}
}

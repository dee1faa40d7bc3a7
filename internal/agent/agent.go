// Package agent routes classified utterances to capability tools.
package agent

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/nimbus-assistant/nimbus/internal/intent"
	"github.com/nimbus-assistant/nimbus/internal/session"
	"github.com/nimbus-assistant/nimbus/internal/tools"
)

// defaultForecastDays applies when a forecast request names no count.
const defaultForecastDays = 3

// fallbackResponse is returned when no capability applies or the
// classifier itself failed.
const fallbackResponse = "I'm sorry, I couldn't process your request."

// Reply is the outcome of one conversational turn. Result is the zero
// value when no tool ran (fallback replies).
type Reply struct {
	SessionID string        `json:"session_id"`
	Intent    intent.Intent `json:"intent"`
	Response  string        `json:"response"`
	Result    tools.Result  `json:"result"`
}

// Agent ties the classifier, the tool registry and the session store
// into a single turn handler.
type Agent struct {
	logger     *slog.Logger
	classifier intent.Classifier
	registry   *tools.Registry
	sessions   *session.Manager
}

// New creates an agent.
func New(logger *slog.Logger, classifier intent.Classifier, registry *tools.Registry, sessions *session.Manager) *Agent {
	if logger == nil {
		logger = slog.Default()
	}
	return &Agent{
		logger:     logger,
		classifier: classifier,
		registry:   registry,
		sessions:   sessions,
	}
}

// Sessions exposes the session store for read-side endpoints.
func (a *Agent) Sessions() *session.Manager {
	return a.sessions
}

// Registry exposes the tool registry for diagnostics endpoints.
func (a *Agent) Registry() *tools.Registry {
	return a.registry
}

// HandleTurn processes one utterance against the named session and
// returns the assistant's reply. An empty sessionID gets a fresh
// session; the reply carries the effective ID either way.
//
// Exactly one tool runs per turn. When no capability applies, or the
// classifier fails outright, the reply is a fixed fallback message and
// no tool runs.
func (a *Agent) HandleTurn(ctx context.Context, utterance, sessionID string) Reply {
	start := time.Now()
	sess := a.sessions.Get(sessionID)

	verdict, err := a.classifier.Classify(ctx, utterance)
	if err != nil {
		a.logger.Warn("classification failed",
			"session_id", sess.ID,
			"error", err,
		)
		return Reply{SessionID: sess.ID, Intent: intent.IntentNone, Response: fallbackResponse}
	}

	if verdict.Intent == intent.IntentNone || strings.TrimSpace(utterance) == "" {
		a.logger.Debug("no capability applies", "session_id", sess.ID)
		return Reply{SessionID: sess.ID, Intent: intent.IntentNone, Response: fallbackResponse}
	}

	args := tools.Args{
		City: verdict.City,
		Days: verdict.Days,
		Name: verdict.Name,
	}
	if verdict.Intent == intent.IntentForecast && args.Days == 0 {
		args.Days = defaultForecastDays
	}

	result := a.registry.Execute(ctx, verdict.Intent, args, sess.State)

	a.logger.Info("turn handled",
		"session_id", sess.ID,
		"intent", verdict.Intent,
		"status", result.Status,
		"elapsed", time.Since(start),
	)

	return Reply{
		SessionID: sess.ID,
		Intent:    verdict.Intent,
		Response:  result.Message(),
		Result:    result,
	}
}

package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/nimbus-assistant/nimbus/internal/session"
)

// handleGreeting renders a fixed greeting, optionally addressing the
// user by name. Stateless; cannot fail.
func (r *Registry) handleGreeting(_ context.Context, args Args, _ *session.State) Result {
	name := strings.TrimSpace(args.Name)
	if name == "" {
		name = "there"
	}
	return success(fmt.Sprintf("Hello, %s!", name))
}

// handleFarewell renders the fixed farewell. Stateless; cannot fail.
func (r *Registry) handleFarewell(_ context.Context, _ Args, _ *session.State) Result {
	return success("Goodbye! Have a great day.")
}

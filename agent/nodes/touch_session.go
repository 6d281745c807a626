package orchestratornode

import (
	"context"
	"fmt"

	contractx "github.com/tanpawarit/huddle/agent/contract"
	statex "github.com/tanpawarit/huddle/agent/state"
)

// TouchSession records the exchange in the session transcript and refreshes
// the idle clock. It runs after dispatch so the transcript the providers saw
// excludes the turn in flight.
func TouchSession(ctx context.Context, in *GraphState, store statex.Store) (*GraphState, error) {
	if in == nil || in.Session == nil {
		return nil, fmt.Errorf("%w: graph state is missing a session", contractx.ErrValidation)
	}

	in.Session.Remember(statex.RoleUser, in.Text)
	if in.Reply != "" {
		in.Session.Remember(statex.RoleAssistant, in.Reply)
	}
	store.Touch(ctx, in.Session)
	return in, nil
}

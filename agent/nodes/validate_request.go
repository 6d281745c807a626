package orchestratornode

import (
	"errors"
	"strings"
	"time"

	contractx "github.com/tanpawarit/huddle/agent/contract"
	statex "github.com/tanpawarit/huddle/agent/state"
)

var ErrInvalidMessage = errors.New("message is empty")

type GraphInput struct {
	SessionID string
	Text      string
}

type GraphOutput struct {
	Reply string
}

type GraphState struct {
	SessionID string
	Text      string
	Now       time.Time

	Session *statex.Session
	Intent  contractx.Intent

	Reply string
}

// ValidateRequest normalizes the inbound message. A blank session ID maps
// to the shared default session rather than an error; empty text never
// reaches the graph because the service answers it with the greeting.
func ValidateRequest(in GraphInput, nowFn func() time.Time) (*GraphState, error) {
	text := strings.TrimSpace(in.Text)
	if text == "" {
		return nil, ErrInvalidMessage
	}

	sessionID := strings.TrimSpace(in.SessionID)
	if sessionID == "" {
		sessionID = statex.DefaultSessionID
	}

	return &GraphState{
		SessionID: sessionID,
		Text:      text,
		Now:       nowFn().UTC(),
	}, nil
}

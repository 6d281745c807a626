package state

import (
	"errors"
	"sync"
	"time"
)

// Roles recorded in a session transcript.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

const (
	// DefaultSessionID backs callers that never send a session identifier.
	DefaultSessionID = "default"

	// DefaultHistoryLimit bounds the transcript when no limit was applied.
	DefaultHistoryLimit = 20

	optionCount = 4
)

var ErrInvalidCorrectIndex = errors.New("correct index out of range")

// Turn is one utterance in a session transcript.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Session is the ephemeral conversation state for one chat participant.
// While Active is true the session is awaiting the answer to a trivia
// question; CorrectIndex and Explanation describe that question. A session
// holds at most one pending question at a time.
type Session struct {
	ID string `json:"id"`

	Active       bool   `json:"active"`
	CorrectIndex int    `json:"correct_index"`
	Explanation  string `json:"explanation,omitempty"`

	History  []Turn    `json:"history,omitempty"`
	LastSeen time.Time `json:"last_seen"`

	historyLimit int
	mu           sync.Mutex
}

func NewSession(id string, historyLimit int, now time.Time) *Session {
	return &Session{
		ID:           id,
		LastSeen:     now.UTC(),
		historyLimit: historyLimit,
	}
}

// SetPending arms the session with a new trivia question, replacing any
// question that was already pending.
func (s *Session) SetPending(correctIndex int, explanation string) error {
	if correctIndex < 0 || correctIndex >= optionCount {
		return ErrInvalidCorrectIndex
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Active = true
	s.CorrectIndex = correctIndex
	s.Explanation = explanation
	return nil
}

// ConsumePending atomically takes the pending question off the session.
// Checking an answer is destructive: right or wrong, the question is gone.
func (s *Session) ConsumePending() (correctIndex int, explanation string, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.Active {
		return 0, "", false
	}
	correctIndex, explanation = s.CorrectIndex, s.Explanation
	s.Active = false
	s.CorrectIndex = 0
	s.Explanation = ""
	return correctIndex, explanation, true
}

// AwaitingAnswer reports whether a trivia question is pending.
func (s *Session) AwaitingAnswer() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Active
}

// Remember appends one turn to the transcript, dropping the oldest turns
// once the history limit is exceeded.
func (s *Session) Remember(role, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.History = append(s.History, Turn{Role: role, Content: content})
	limit := s.historyLimit
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	if n := len(s.History); n > limit {
		s.History = append(s.History[:0:0], s.History[n-limit:]...)
	}
}

// Transcript returns a copy of the bounded history, oldest first.
func (s *Session) Transcript() []Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Turn, len(s.History))
	copy(out, s.History)
	return out
}

// Seen records activity so the session survives the next idle sweep.
func (s *Session) Seen(now time.Time) {
	s.mu.Lock()
	s.LastSeen = now.UTC()
	s.mu.Unlock()
}

func (s *Session) seenAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.LastSeen
}

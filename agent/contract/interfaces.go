package contract

import (
	"context"

	statex "github.com/tanpawarit/huddle/agent/state"
)

// Classifier decides which capability a message belongs to.
// awaitingAnswer reflects whether the session has a pending trivia question;
// it exists solely for the answer-precedence rule.
type Classifier interface {
	Classify(text string, awaitingAnswer bool) Intent
}

// QuestionProvider serves trivia rounds.
type QuestionProvider interface {
	// Next assembles a fresh question or reports the bank unusable.
	Next(ctx context.Context) (Question, error)
	// Check consumes the session's pending question and grades the letter.
	Check(sess *statex.Session, letter string) (AnswerOutcome, bool)
}

// ClipSearcher finds highlight clips for a free-text query.
type ClipSearcher interface {
	Search(ctx context.Context, query string) ([]Clip, error)
}

// StatsProvider answers one stats question with display-ready text.
type StatsProvider interface {
	Query(ctx context.Context, query string) (string, error)
}

// ChatModel is the generative model surface the orchestrator depends on.
type ChatModel interface {
	// Complete runs one persona completion over the prior transcript.
	Complete(ctx context.Context, system string, history []statex.Turn, user string) (string, error)
	// StartToolChat opens a function-calling conversation. The transcript
	// accretes inside the returned ToolChat.
	StartToolChat(system string, history []statex.Turn, user string, tools []ToolSpec) ToolChat
}

// ToolChat is one in-flight function-calling conversation.
type ToolChat interface {
	// Step asks the model for its next turn given everything so far.
	Step(ctx context.Context) (ModelTurn, error)
	// AddToolResult appends the outcome of one executed call.
	AddToolResult(callID, name, content string)
}

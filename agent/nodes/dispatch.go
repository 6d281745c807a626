package orchestratornode

import (
	"context"
	"fmt"

	contractx "github.com/tanpawarit/huddle/agent/contract"
	replyx "github.com/tanpawarit/huddle/agent/reply"
	statex "github.com/tanpawarit/huddle/agent/state"
	logx "github.com/tanpawarit/huddle/pkg/logger"
)

// Capabilities are the providers a message can route to. A nil field means
// the capability has no backend configured and gets the not-enabled reply.
type Capabilities struct {
	Trivia     contractx.QuestionProvider
	Clips      contractx.ClipSearcher
	Live       contractx.StatsProvider
	Historical contractx.StatsProvider
	Chat       contractx.ChatModel

	// Persona is the system prompt for small-talk completions.
	Persona string
}

var dispatchLog = logx.Component("dispatch")

// Dispatch routes the classified message to exactly one capability and
// renders the reply. Provider failures degrade to canned text here; an
// error return means the graph itself is broken, not the provider.
func Dispatch(ctx context.Context, in *GraphState, caps Capabilities) (*GraphState, error) {
	if in == nil || in.Session == nil {
		return nil, fmt.Errorf("%w: graph state is missing a session", contractx.ErrValidation)
	}

	switch in.Intent {
	case contractx.IntentTriviaAnswer:
		in.Reply = AnswerTrivia(in.Session, in.Text, caps.Trivia)
	case contractx.IntentTriviaRequest:
		in.Reply = AskTrivia(ctx, in.Session, caps.Trivia)
	case contractx.IntentVideoRequest:
		in.Reply = FindClips(ctx, in.Text, caps.Clips)
	case contractx.IntentLiveStats:
		in.Reply = QueryStats(ctx, in.Text, caps.Live, "live stats")
	case contractx.IntentHistorical:
		in.Reply = QueryStats(ctx, in.Text, caps.Historical, "history")
	default:
		in.Reply = Chat(ctx, in.Session, in.Text, caps.Chat, caps.Persona)
	}
	return in, nil
}

// AskTrivia draws a question and parks its answer on the session.
func AskTrivia(ctx context.Context, sess *statex.Session, trivia contractx.QuestionProvider) string {
	if trivia == nil {
		return replyx.NotEnabled("trivia")
	}

	q, err := trivia.Next(ctx)
	if err != nil {
		dispatchLog.Warn().Err(err).Msg("trivia question unavailable")
		return replyx.TriviaWarmingUp
	}
	if err := sess.SetPending(q.CorrectIndex, q.Explanation); err != nil {
		dispatchLog.Warn().Err(err).Msg("rejected malformed question")
		return replyx.TriviaWarmingUp
	}
	return replyx.Question(q)
}

// AnswerTrivia grades a letter against the session's pending question.
func AnswerTrivia(sess *statex.Session, letter string, trivia contractx.QuestionProvider) string {
	if trivia == nil {
		return replyx.NotEnabled("trivia")
	}

	outcome, ok := trivia.Check(sess, letter)
	if !ok {
		return replyx.NoPendingQuestion
	}
	return replyx.Answer(outcome)
}

// FindClips searches for highlights. A searcher failure reads as no clips
// upstream, so the only error path left is the canned apology.
func FindClips(ctx context.Context, query string, clips contractx.ClipSearcher) string {
	if clips == nil {
		return replyx.NotEnabled("highlights")
	}

	found, err := clips.Search(ctx, query)
	if err != nil {
		dispatchLog.Warn().Err(err).Str("query", query).Msg("clip search failed")
		return replyx.Apology
	}
	return replyx.Clips(found)
}

// QueryStats relays a question to one stats provider.
func QueryStats(ctx context.Context, query string, provider contractx.StatsProvider, capability string) string {
	if provider == nil {
		return replyx.NotEnabled(capability)
	}

	text, err := provider.Query(ctx, query)
	if err != nil {
		dispatchLog.Warn().Err(err).Str("capability", capability).Str("query", query).Msg("stats lookup failed")
		return replyx.Apology
	}
	return replyx.Stats(text)
}

// Chat answers small talk with the persona completion.
func Chat(ctx context.Context, sess *statex.Session, text string, model contractx.ChatModel, persona string) string {
	if model == nil {
		return replyx.ChatFallback
	}

	answer, err := model.Complete(ctx, persona, sess.Transcript(), text)
	if err != nil {
		dispatchLog.Warn().Err(err).Msg("chat completion failed")
		return replyx.Apology
	}
	return replyx.Sanitize(answer)
}

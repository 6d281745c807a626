package orchestrator

import (
	"context"
	"strings"

	contractx "github.com/tanpawarit/huddle/agent/contract"
	nodex "github.com/tanpawarit/huddle/agent/nodes"
	replyx "github.com/tanpawarit/huddle/agent/reply"
	statex "github.com/tanpawarit/huddle/agent/state"
)

// maxModelRounds caps the tool loop. The model normally terminates by
// answering without calls; the cap only guards against a runaway model,
// and hitting it fails closed with the apology.
const maxModelRounds = 5

func (o *Orchestrator) handleModelRouted(ctx context.Context, sessionID string, text string) (string, error) {
	sess := o.store.GetOrCreate(ctx, sessionID)

	// Answer precedence holds in model mode too: a bare letter with a
	// question pending is graded directly and never reaches the model.
	if o.classifier.Classify(text, sess.AwaitingAnswer()) == contractx.IntentTriviaAnswer {
		answer := nodex.AnswerTrivia(sess, text, o.caps.Trivia)
		o.recordExchange(ctx, sess, text, answer)
		return answer, nil
	}

	chat := o.caps.Chat.StartToolChat(o.prompts.Router, sess.Transcript(), text, o.toolSpecs())

	var answer string
	for round := 0; round < maxModelRounds; round++ {
		turn, err := chat.Step(ctx)
		if err != nil {
			o.log.Warn().Err(err).Str("session_id", sess.ID).Msg("model turn failed")
			break
		}
		if len(turn.Calls) == 0 {
			answer = replyx.Sanitize(strings.TrimSpace(turn.Text))
			break
		}
		for _, call := range turn.Calls {
			o.log.Debug().Str("tool", call.Name).Str("session_id", sess.ID).Msg("model requested tool")
			chat.AddToolResult(call.ID, call.Name, o.execTool(ctx, sess, text, call))
		}
	}
	if answer == "" {
		answer = replyx.Apology
	}

	o.recordExchange(ctx, sess, text, answer)
	return answer, nil
}

func (o *Orchestrator) recordExchange(ctx context.Context, sess *statex.Session, text, answer string) {
	sess.Remember(statex.RoleUser, text)
	sess.Remember(statex.RoleAssistant, answer)
	o.store.Touch(ctx, sess)
}

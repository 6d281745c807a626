// Package reply renders every outward-facing message the service sends.
// Formatting lives here so providers return data and the orchestrator
// returns text.
package reply

import (
	"fmt"
	"regexp"
	"strings"

	contractx "github.com/tanpawarit/huddle/agent/contract"
)

const (
	// Greeting doubles as the answer to an empty message.
	Greeting = "Hey! I'm your college sports buddy. Ask me for trivia, highlight clips, live scores, or a bit of history."

	// Apology is the catch-all for provider failures. The chat channel never
	// sees a transport error, only this.
	Apology = "Sorry, something went sideways on my end. Give it another shot in a moment."

	// TriviaWarmingUp covers a bank too small to build a four-option question.
	TriviaWarmingUp = "My trivia bank is still warming up. Ask me again in a minute!"

	// NoClips is the empty-result reply for highlight searches.
	NoClips = "I couldn't find any clips for that. Try another team or game?"

	// NoPendingQuestion answers a letter that arrives with nothing to grade.
	NoPendingQuestion = "I don't have a question waiting on you. Say \"trivia\" and I'll fire one off!"

	// ChatFallback stands in for small talk when no generative model is
	// configured.
	ChatFallback = "I'm best at trivia, highlight clips, live scores, and football history. Try one of those!"
)

// NotEnabled is the reply for a capability with no backend configured.
func NotEnabled(capability string) string {
	return fmt.Sprintf("The %s feature isn't enabled yet. Check back soon!", capability)
}

// Question renders a four-option question with lettered choices and the
// answer instruction fans reply to.
func Question(q contractx.Question) string {
	var b strings.Builder
	b.WriteString(q.Prompt)
	b.WriteString("\n\n")
	for i, opt := range q.Options {
		fmt.Fprintf(&b, "%c) %s\n", 'A'+i, opt)
	}
	b.WriteString("\nReply with A, B, C, or D!")
	return b.String()
}

// Answer grades a trivia reply.
func Answer(out contractx.AnswerOutcome) string {
	if out.Correct {
		if out.Explanation != "" {
			return "Correct! " + out.Explanation
		}
		return "Correct! Nice one."
	}
	verdict := fmt.Sprintf("Not quite. The answer was %s.", strings.ToUpper(out.CorrectLetter))
	if out.Explanation != "" {
		return verdict + " " + out.Explanation
	}
	return verdict
}

// Clips renders search hits as a numbered list of markdown links.
func Clips(clips []contractx.Clip) string {
	if len(clips) == 0 {
		return NoClips
	}
	var b strings.Builder
	b.WriteString("Here's what I found:\n")
	for i, c := range clips {
		fmt.Fprintf(&b, "%d. [%s](%s)\n", i+1, c.Title, c.URL)
	}
	return Sanitize(strings.TrimRight(b.String(), "\n"))
}

// Stats wraps raw provider text in a short preamble.
func Stats(text string) string {
	return Sanitize("Here's what I've got:\n\n" + strings.TrimSpace(text))
}

var (
	markdownLinkDoubleParen = regexp.MustCompile(`(\]\(https?://[^)\s]+\))\)+`)
	bareURLDoubleParen      = regexp.MustCompile(`\((https?://[^()\s]+)\)\)`)
)

// Sanitize strips the doubled trailing parentheses models sometimes emit
// around markdown links and bare URLs.
func Sanitize(text string) string {
	text = markdownLinkDoubleParen.ReplaceAllString(text, "$1")
	text = bareURLDoubleParen.ReplaceAllString(text, "($1)")
	return text
}

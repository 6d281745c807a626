// Package classify maps raw fan messages to capability intents with an
// ordered rule list, first match wins.
package classify

import (
	"regexp"
	"strings"

	contractx "github.com/tanpawarit/huddle/agent/contract"
)

var (
	answerPattern  = regexp.MustCompile(`^[abcd]$`)
	triviaPattern  = regexp.MustCompile(`\b(?:trivia|quiz|test me|stump me)\b`)
	videoPattern   = regexp.MustCompile(`\b(?:videos?|highlights?|clips?|watch|replays?)\b`)
	livePattern    = regexp.MustCompile(`\b(?:scores?|today|tonight|this week|schedules?|standings?|rankings?|live)\b`)
	historyPattern = regexp.MustCompile(`\b(?:all[- ]time|historical|vs\.?|versus|against|bowls?|recruiting|rivalry|matchups?)\b`)
)

// The bare word "history" routes to the historical provider by literal
// equality only; a sentence merely containing the word does not.
const historyLiteral = "history"

type rule struct {
	name   string
	intent contractx.Intent
	match  func(text string, awaitingAnswer bool) bool
}

// Classifier evaluates its rules top to bottom. Order is the tie-break for
// text matching several categories, so the rule list is data, not branches.
type Classifier struct {
	rules []rule
}

var _ contractx.Classifier = (*Classifier)(nil)

func New() *Classifier {
	return &Classifier{rules: []rule{
		{
			// A bare letter while a question is pending is always an
			// answer. This outranks every keyword rule.
			name:   "trivia-answer",
			intent: contractx.IntentTriviaAnswer,
			match: func(text string, awaitingAnswer bool) bool {
				return awaitingAnswer && answerPattern.MatchString(text)
			},
		},
		{name: "trivia", intent: contractx.IntentTriviaRequest, match: keyword(triviaPattern)},
		{name: "video", intent: contractx.IntentVideoRequest, match: keyword(videoPattern)},
		{name: "live-stats", intent: contractx.IntentLiveStats, match: keyword(livePattern)},
		{
			name:   "historical",
			intent: contractx.IntentHistorical,
			match: func(text string, _ bool) bool {
				return text == historyLiteral || historyPattern.MatchString(text)
			},
		},
	}}
}

// Classify normalizes the text and returns the first matching intent.
// Empty input never reaches here; the orchestrator greets before routing.
func (c *Classifier) Classify(text string, awaitingAnswer bool) contractx.Intent {
	normalized := strings.ToLower(strings.TrimSpace(text))
	for _, r := range c.rules {
		if r.match(normalized, awaitingAnswer) {
			return r.intent
		}
	}
	return contractx.IntentGenericChat
}

func keyword(re *regexp.Regexp) func(string, bool) bool {
	return func(text string, _ bool) bool { return re.MatchString(text) }
}

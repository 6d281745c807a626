package classify

import (
	"testing"

	contractx "github.com/tanpawarit/huddle/agent/contract"
)

func TestClassifyAnswerPrecedesEverything(t *testing.T) {
	t.Parallel()

	c := New()

	// "b" while awaiting an answer is an answer, even though a bare letter
	// could in principle collide with other rules.
	if got := c.Classify("  B ", true); got != contractx.IntentTriviaAnswer {
		t.Fatalf("Classify(\"B\", awaiting) = %q, want trivia_answer", got)
	}
	for _, letter := range []string{"a", "b", "c", "d"} {
		if got := c.Classify(letter, true); got != contractx.IntentTriviaAnswer {
			t.Fatalf("Classify(%q, awaiting) = %q, want trivia_answer", letter, got)
		}
	}
}

func TestClassifyAnswerShapeWithoutPendingQuestion(t *testing.T) {
	t.Parallel()

	c := New()
	if got := c.Classify("b", false); got != contractx.IntentGenericChat {
		t.Fatalf("Classify(\"b\", idle) = %q, want generic_chat", got)
	}
}

func TestClassifyRuleOrder(t *testing.T) {
	t.Parallel()

	c := New()
	tests := []struct {
		text string
		want contractx.Intent
	}{
		{"trivia", contractx.IntentTriviaRequest},
		{"quiz me please", contractx.IntentTriviaRequest},
		{"can you test me", contractx.IntentTriviaRequest},
		{"show me highlights", contractx.IntentVideoRequest},
		{"i want to watch the replay", contractx.IntentVideoRequest},
		{"what's the score", contractx.IntentLiveStats},
		{"schedule this week", contractx.IntentLiveStats},
		{"who is playing today", contractx.IntentLiveStats},
		{"georgia vs alabama all-time", contractx.IntentHistorical},
		{"best recruiting class ever", contractx.IntentHistorical},
		{"bowl results", contractx.IntentHistorical},
		{"hello there", contractx.IntentGenericChat},

		// Order is the documented tie-break for multi-category text.
		{"trivia about today's game", contractx.IntentTriviaRequest},
		{"highlight from today", contractx.IntentVideoRequest},
		{"score against alabama", contractx.IntentLiveStats},
	}
	for _, tt := range tests {
		if got := c.Classify(tt.text, false); got != tt.want {
			t.Fatalf("Classify(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}

func TestClassifyHistoryLiteral(t *testing.T) {
	t.Parallel()

	c := New()
	if got := c.Classify(" History ", false); got != contractx.IntentHistorical {
		t.Fatalf("Classify(\"history\") = %q, want historical_request", got)
	}

	// Only the bare word routes by equality; containment does not count.
	if got := c.Classify("tell me the history of georgia", false); got != contractx.IntentGenericChat {
		t.Fatalf("Classify(history sentence) = %q, want generic_chat", got)
	}
}

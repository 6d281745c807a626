package contract

// Intent is the capability domain a user message routes to.
type Intent string

const (
	// IntentTriviaAnswer wins over every other intent: a bare letter while
	// a question is pending is always an answer, never a new request.
	IntentTriviaAnswer Intent = "trivia_answer"

	IntentTriviaRequest Intent = "trivia_request"
	IntentVideoRequest  Intent = "video_request"
	IntentLiveStats     Intent = "live_stats"
	IntentHistorical    Intent = "historical_request"
	IntentGenericChat   Intent = "generic_chat"
)

// Question is a fully assembled multiple-choice trivia question. Options is
// fixed-size on purpose: a question with any other option count never leaves
// the engine.
type Question struct {
	Prompt       string    `json:"prompt"`
	Options      [4]string `json:"options"`
	CorrectIndex int       `json:"correct_index"`
	Explanation  string    `json:"explanation,omitempty"`
}

// CorrectLetter maps CorrectIndex to the letter a fan replies with.
func (q Question) CorrectLetter() string {
	return string(rune('a' + q.CorrectIndex))
}

// AnswerOutcome is the result of checking a fan's answer letter.
type AnswerOutcome struct {
	Correct       bool
	CorrectLetter string
	Explanation   string
}

// Clip is one search hit from the highlight provider.
type Clip struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// ToolSpec describes one callable function offered to the generative model.
type ToolSpec struct {
	Name        string
	Description string
	Parameters  map[string]any
}

// ToolUse is a single function invocation requested by the model.
type ToolUse struct {
	ID   string
	Name string
	Args map[string]any
}

// ModelTurn is one assistant turn: either final text or tool invocations
// to execute before asking again.
type ModelTurn struct {
	Text  string
	Calls []ToolUse
}

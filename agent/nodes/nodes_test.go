package orchestratornode

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	contractx "github.com/tanpawarit/huddle/agent/contract"
	replyx "github.com/tanpawarit/huddle/agent/reply"
	statex "github.com/tanpawarit/huddle/agent/state"
)

type stubTrivia struct {
	q    contractx.Question
	err  error
	next int
}

func (s *stubTrivia) Next(ctx context.Context) (contractx.Question, error) {
	s.next++
	return s.q, s.err
}

func (s *stubTrivia) Check(sess *statex.Session, letter string) (contractx.AnswerOutcome, bool) {
	idx, expl, ok := sess.ConsumePending()
	if !ok {
		return contractx.AnswerOutcome{}, false
	}
	correct := string(rune('a' + idx))
	return contractx.AnswerOutcome{
		Correct:       strings.EqualFold(strings.TrimSpace(letter), correct),
		CorrectLetter: correct,
		Explanation:   expl,
	}, true
}

type stubStats struct {
	text    string
	err     error
	queries []string
}

func (s *stubStats) Query(ctx context.Context, query string) (string, error) {
	s.queries = append(s.queries, query)
	return s.text, s.err
}

type stubClips struct {
	clips []contractx.Clip
	err   error
}

func (s *stubClips) Search(ctx context.Context, query string) ([]contractx.Clip, error) {
	return s.clips, s.err
}

func newTestSession() *statex.Session {
	return statex.NewSession("fan-1", statex.DefaultHistoryLimit, time.Now())
}

func TestValidateRequestDefaultsSession(t *testing.T) {
	t.Parallel()

	fixed := time.Date(2024, 10, 5, 12, 0, 0, 0, time.UTC)
	st, err := ValidateRequest(GraphInput{Text: "  trivia  "}, func() time.Time { return fixed })
	if err != nil {
		t.Fatalf("ValidateRequest: %v", err)
	}
	if st.SessionID != statex.DefaultSessionID {
		t.Fatalf("SessionID = %q, want default", st.SessionID)
	}
	if st.Text != "trivia" {
		t.Fatalf("Text = %q, want trimmed", st.Text)
	}
	if !st.Now.Equal(fixed) {
		t.Fatalf("Now = %v, want %v", st.Now, fixed)
	}

	if _, err := ValidateRequest(GraphInput{Text: "   "}, time.Now); !errors.Is(err, ErrInvalidMessage) {
		t.Fatalf("blank text err = %v, want ErrInvalidMessage", err)
	}
}

func TestAskTriviaArmsSession(t *testing.T) {
	t.Parallel()

	sess := newTestSession()
	trivia := &stubTrivia{q: contractx.Question{
		Prompt:       "How many national titles does Alabama claim?",
		Options:      [4]string{"12", "18", "15", "9"},
		CorrectIndex: 1,
		Explanation:  "The Tide claim 18.",
	}}

	got := AskTrivia(context.Background(), sess, trivia)
	if !strings.Contains(got, "B) 18") {
		t.Fatalf("reply missing options:\n%s", got)
	}
	if !sess.AwaitingAnswer() {
		t.Fatal("session not awaiting an answer after AskTrivia")
	}
}

func TestAskTriviaDegradesWhenBankUnusable(t *testing.T) {
	t.Parallel()

	sess := newTestSession()
	trivia := &stubTrivia{err: contractx.ErrBankUnusable}

	if got := AskTrivia(context.Background(), sess, trivia); got != replyx.TriviaWarmingUp {
		t.Fatalf("reply = %q, want warming-up", got)
	}
	if sess.AwaitingAnswer() {
		t.Fatal("session armed despite unusable bank")
	}
}

func TestAnswerTriviaGradesAndClears(t *testing.T) {
	t.Parallel()

	sess := newTestSession()
	if err := sess.SetPending(2, "Nick Saban, seven titles."); err != nil {
		t.Fatalf("SetPending: %v", err)
	}

	got := AnswerTrivia(sess, "C", &stubTrivia{})
	if !strings.HasPrefix(got, "Correct!") || !strings.Contains(got, "seven titles") {
		t.Fatalf("reply = %q", got)
	}
	if sess.AwaitingAnswer() {
		t.Fatal("pending question survived grading")
	}

	if got := AnswerTrivia(sess, "c", &stubTrivia{}); got != replyx.NoPendingQuestion {
		t.Fatalf("second answer reply = %q, want no-pending", got)
	}
}

func TestFindClips(t *testing.T) {
	t.Parallel()

	got := FindClips(context.Background(), "uga highlights", &stubClips{clips: []contractx.Clip{
		{Title: "Hobnail Boot", URL: "https://clips.example/hobnail"},
	}})
	if !strings.Contains(got, "[Hobnail Boot](https://clips.example/hobnail)") {
		t.Fatalf("reply = %q", got)
	}

	if got := FindClips(context.Background(), "uga highlights", &stubClips{}); got != replyx.NoClips {
		t.Fatalf("empty result reply = %q", got)
	}
	if got := FindClips(context.Background(), "uga highlights", nil); got != replyx.NotEnabled("highlights") {
		t.Fatalf("unconfigured reply = %q", got)
	}
}

func TestQueryStats(t *testing.T) {
	t.Parallel()

	provider := &stubStats{text: "Georgia leads 44-25-4"}
	got := QueryStats(context.Background(), "georgia vs auburn", provider, "history")
	if !strings.Contains(got, "Georgia leads 44-25-4") {
		t.Fatalf("reply = %q", got)
	}
	if len(provider.queries) != 1 || provider.queries[0] != "georgia vs auburn" {
		t.Fatalf("queries = %v", provider.queries)
	}

	if got := QueryStats(context.Background(), "q", &stubStats{err: errors.New("down")}, "history"); got != replyx.Apology {
		t.Fatalf("failure reply = %q, want apology", got)
	}
	if got := QueryStats(context.Background(), "q", nil, "live stats"); got != replyx.NotEnabled("live stats") {
		t.Fatalf("unconfigured reply = %q", got)
	}
}

func TestDispatchRoutesByIntent(t *testing.T) {
	t.Parallel()

	live := &stubStats{text: "kickoff at 3:30"}
	historical := &stubStats{text: "44-25-4"}
	caps := Capabilities{Live: live, Historical: historical}

	st := &GraphState{Text: "when is kickoff today", Session: newTestSession(), Intent: contractx.IntentLiveStats}
	if _, err := Dispatch(context.Background(), st, caps); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if len(live.queries) != 1 || len(historical.queries) != 0 {
		t.Fatalf("live intent queried live=%d historical=%d", len(live.queries), len(historical.queries))
	}

	st = &GraphState{Text: "all-time record vs auburn", Session: newTestSession(), Intent: contractx.IntentHistorical}
	if _, err := Dispatch(context.Background(), st, caps); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if len(historical.queries) != 1 {
		t.Fatalf("historical intent not routed, queries = %v", historical.queries)
	}
}

func TestTouchSessionRecordsTranscript(t *testing.T) {
	t.Parallel()

	store := statex.NewMemoryStore(statex.Config{})
	sess := store.GetOrCreate(context.Background(), "fan-1")
	st := &GraphState{SessionID: "fan-1", Text: "hello", Reply: "hey there", Session: sess}

	if _, err := TouchSession(context.Background(), st, store); err != nil {
		t.Fatalf("TouchSession: %v", err)
	}

	turns := sess.Transcript()
	if len(turns) != 2 {
		t.Fatalf("transcript length = %d, want 2", len(turns))
	}
	if turns[0].Role != statex.RoleUser || turns[1].Role != statex.RoleAssistant {
		t.Fatalf("transcript roles = %v", turns)
	}
}

func TestFinalizeReplyNeverEmpty(t *testing.T) {
	t.Parallel()

	out, err := FinalizeReply(&GraphState{Reply: "  "})
	if err != nil {
		t.Fatalf("FinalizeReply: %v", err)
	}
	if out.Reply != replyx.Apology {
		t.Fatalf("empty reply finalized to %q, want apology", out.Reply)
	}

	out, err = FinalizeReply(&GraphState{Reply: "see [clip](https://c.example/1))"})
	if err != nil {
		t.Fatalf("FinalizeReply: %v", err)
	}
	if out.Reply != "see [clip](https://c.example/1)" {
		t.Fatalf("sanitized reply = %q", out.Reply)
	}
}

package state

import (
	"errors"
	"testing"
	"time"
)

func TestSessionConsumePendingIsDestructive(t *testing.T) {
	t.Parallel()

	sess := NewSession("s1", 0, time.Now())
	if err := sess.SetPending(2, "because reasons"); err != nil {
		t.Fatalf("SetPending() error = %v", err)
	}

	idx, expl, ok := sess.ConsumePending()
	if !ok {
		t.Fatal("ConsumePending() ok = false, want true")
	}
	if idx != 2 || expl != "because reasons" {
		t.Fatalf("ConsumePending() = (%d, %q), want (2, %q)", idx, expl, "because reasons")
	}

	if _, _, ok := sess.ConsumePending(); ok {
		t.Fatal("second ConsumePending() ok = true, want false")
	}
	if sess.AwaitingAnswer() {
		t.Fatal("AwaitingAnswer() = true after consume, want false")
	}
}

func TestSessionSetPendingRejectsBadIndex(t *testing.T) {
	t.Parallel()

	sess := NewSession("s1", 0, time.Now())
	for _, idx := range []int{-1, 4, 99} {
		if err := sess.SetPending(idx, ""); !errors.Is(err, ErrInvalidCorrectIndex) {
			t.Fatalf("SetPending(%d) error = %v, want ErrInvalidCorrectIndex", idx, err)
		}
	}
	if sess.AwaitingAnswer() {
		t.Fatal("AwaitingAnswer() = true after rejected SetPending, want false")
	}
}

func TestSessionSetPendingReplacesExisting(t *testing.T) {
	t.Parallel()

	sess := NewSession("s1", 0, time.Now())
	if err := sess.SetPending(1, "first"); err != nil {
		t.Fatalf("SetPending() error = %v", err)
	}
	if err := sess.SetPending(3, "second"); err != nil {
		t.Fatalf("SetPending() error = %v", err)
	}

	idx, expl, ok := sess.ConsumePending()
	if !ok || idx != 3 || expl != "second" {
		t.Fatalf("ConsumePending() = (%d, %q, %v), want (3, %q, true)", idx, expl, ok, "second")
	}
}

func TestSessionHistoryBounded(t *testing.T) {
	t.Parallel()

	sess := NewSession("s1", 3, time.Now())
	for _, msg := range []string{"one", "two", "three", "four", "five"} {
		sess.Remember(RoleUser, msg)
	}

	got := sess.Transcript()
	if len(got) != 3 {
		t.Fatalf("Transcript() len = %d, want 3", len(got))
	}
	want := []string{"three", "four", "five"}
	for i, turn := range got {
		if turn.Content != want[i] {
			t.Fatalf("Transcript()[%d].Content = %q, want %q", i, turn.Content, want[i])
		}
	}
}

func TestSessionTranscriptIsACopy(t *testing.T) {
	t.Parallel()

	sess := NewSession("s1", 0, time.Now())
	sess.Remember(RoleUser, "hello")

	got := sess.Transcript()
	got[0].Content = "mutated"

	if fresh := sess.Transcript(); fresh[0].Content != "hello" {
		t.Fatalf("Transcript() leaked internal slice: %q", fresh[0].Content)
	}
}

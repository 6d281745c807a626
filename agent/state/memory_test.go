package state

import (
	"context"
	"testing"
	"time"
)

func newTestMemoryStore(now time.Time) *MemoryStore {
	store := NewMemoryStore(Config{IdleTTL: 15 * time.Minute, HistoryLimit: 10})
	store.now = func() time.Time { return now }
	return store
}

func TestMemoryStoreGetOrCreateReturnsSameSession(t *testing.T) {
	t.Parallel()

	store := newTestMemoryStore(time.Now())
	ctx := context.Background()

	first := store.GetOrCreate(ctx, "fan-1")
	second := store.GetOrCreate(ctx, "fan-1")
	if first != second {
		t.Fatal("GetOrCreate() returned distinct sessions for the same id")
	}
	if store.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", store.Len())
	}
}

func TestMemoryStoreBlankIDUsesDefault(t *testing.T) {
	t.Parallel()

	store := newTestMemoryStore(time.Now())
	sess := store.GetOrCreate(context.Background(), "   ")
	if sess.ID != DefaultSessionID {
		t.Fatalf("session ID = %q, want %q", sess.ID, DefaultSessionID)
	}
}

func TestMemoryStoreSweepEvictsIdleSessions(t *testing.T) {
	t.Parallel()

	t0 := time.Date(2025, 11, 2, 12, 0, 0, 0, time.UTC)
	store := newTestMemoryStore(t0)
	ctx := context.Background()

	idle := store.GetOrCreate(ctx, "idle-fan")
	store.Touch(ctx, idle)

	// Fresh activity on a second session right before the sweep.
	store.now = func() time.Time { return t0.Add(14 * time.Minute) }
	busy := store.GetOrCreate(ctx, "busy-fan")
	store.Touch(ctx, busy)

	evicted := store.Sweep(t0.Add(16 * time.Minute))
	if evicted != 1 {
		t.Fatalf("Sweep() = %d, want 1", evicted)
	}
	if store.Len() != 1 {
		t.Fatalf("Len() after sweep = %d, want 1", store.Len())
	}

	// The evicted id now yields a brand-new session.
	again := store.GetOrCreate(ctx, "idle-fan")
	if again == idle {
		t.Fatal("GetOrCreate() returned the evicted session")
	}
}

func TestMemoryStoreTouchDefersEviction(t *testing.T) {
	t.Parallel()

	t0 := time.Date(2025, 11, 2, 12, 0, 0, 0, time.UTC)
	store := newTestMemoryStore(t0)
	ctx := context.Background()

	sess := store.GetOrCreate(ctx, "fan-1")

	store.now = func() time.Time { return t0.Add(10 * time.Minute) }
	store.Touch(ctx, sess)

	if evicted := store.Sweep(t0.Add(20 * time.Minute)); evicted != 0 {
		t.Fatalf("Sweep() = %d, want 0 after touch", evicted)
	}
	if evicted := store.Sweep(t0.Add(26 * time.Minute)); evicted != 1 {
		t.Fatalf("Sweep() = %d, want 1 once idle window passed", evicted)
	}
}

package state

import (
	"context"
	"time"
)

// Store hands out live sessions and owns their eviction. Conversations must
// keep flowing even when a backend misbehaves, so lookups degrade to a fresh
// session instead of surfacing errors.
type Store interface {
	// GetOrCreate returns the session for an id, creating one on miss.
	// A blank id maps to DefaultSessionID.
	GetOrCreate(ctx context.Context, sessionID string) *Session

	// Touch records activity after a handled message.
	Touch(ctx context.Context, sess *Session)

	// Sweep evicts sessions idle past the configured window and returns
	// how many were removed. Backends that expire on their own report 0.
	Sweep(now time.Time) int
}

type Config struct {
	Backend       string        `envconfig:"BACKEND" split_words:"true" default:"memory"`
	IdleTTL       time.Duration `envconfig:"IDLE_TTL" split_words:"true" default:"15m"`
	SweepInterval time.Duration `envconfig:"SWEEP_INTERVAL" split_words:"true" default:"1m"`
	HistoryLimit  int           `envconfig:"HISTORY_LIMIT" split_words:"true" default:"20"`
}

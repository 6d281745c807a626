package state

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	logx "github.com/tanpawarit/huddle/pkg/logger"
)

// MemoryStore keeps sessions in process memory. Loss on restart is
// accepted: the front door is not a system of record.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	idleTTL       time.Duration
	sweepInterval time.Duration
	historyLimit  int

	now func() time.Time
	log zerolog.Logger
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore(cfg Config) *MemoryStore {
	idleTTL := cfg.IdleTTL
	if idleTTL <= 0 {
		idleTTL = 15 * time.Minute
	}
	sweepInterval := cfg.SweepInterval
	if sweepInterval <= 0 {
		sweepInterval = time.Minute
	}
	return &MemoryStore{
		sessions:      make(map[string]*Session),
		idleTTL:       idleTTL,
		sweepInterval: sweepInterval,
		historyLimit:  cfg.HistoryLimit,
		now:           time.Now,
		log:           logx.Component("session-store"),
	}
}

func (m *MemoryStore) GetOrCreate(_ context.Context, sessionID string) *Session {
	id := strings.TrimSpace(sessionID)
	if id == "" {
		id = DefaultSessionID
	}

	m.mu.RLock()
	sess, ok := m.sessions[id]
	m.mu.RUnlock()
	if ok {
		return sess
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if sess, ok := m.sessions[id]; ok {
		return sess
	}
	sess = NewSession(id, m.historyLimit, m.now())
	m.sessions[id] = sess
	return sess
}

func (m *MemoryStore) Touch(_ context.Context, sess *Session) {
	if sess == nil {
		return
	}
	sess.Seen(m.now())
}

func (m *MemoryStore) Sweep(now time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	evicted := 0
	for id, sess := range m.sessions {
		if now.Sub(sess.seenAt()) > m.idleTTL {
			delete(m.sessions, id)
			evicted++
		}
	}
	if evicted > 0 {
		m.log.Debug().Int("evicted", evicted).Int("remaining", len(m.sessions)).Msg("idle sessions evicted")
	}
	return evicted
}

// RunSweeper schedules the periodic sweep and blocks until ctx is canceled,
// then waits for any in-flight run to drain. Eviction stays decoupled from
// request handling.
func (m *MemoryStore) RunSweeper(ctx context.Context) error {
	c := cron.New()
	if _, err := c.AddFunc(fmt.Sprintf("@every %s", m.sweepInterval), func() {
		m.Sweep(m.now())
	}); err != nil {
		return fmt.Errorf("schedule session sweep: %w", err)
	}

	c.Start()
	m.log.Info().
		Stringer("interval", m.sweepInterval).
		Stringer("idle_ttl", m.idleTTL).
		Msg("session sweeper started")

	<-ctx.Done()
	<-c.Stop().Done()
	return nil
}

// Len reports the number of live sessions.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

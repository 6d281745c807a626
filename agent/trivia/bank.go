// Package trivia assembles multiple-choice questions from a bank of source
// records and grades the answers fans send back.
package trivia

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	logx "github.com/tanpawarit/huddle/pkg/logger"
)

//go:embed data/questions.json
var embeddedQuestions []byte

// Record is one source trivia entry. Distractors are optional pre-authored
// wrong answers; without them the engine generates its own.
type Record struct {
	Question    string   `json:"question"`
	Answer      string   `json:"answer"`
	Explanation string   `json:"explanation,omitempty"`
	Distractors []string `json:"distractors,omitempty"`
}

// Source supplies a fresh question set, typically from a database.
type Source interface {
	Fetch(ctx context.Context) ([]Record, error)
}

type Config struct {
	DatabaseURL string `envconfig:"DATABASE_URL" split_words:"true"`
	RefreshCron string `envconfig:"REFRESH_CRON" split_words:"true" default:"@every 6h"`
}

// Bank holds the current question set. Reads vastly outnumber the
// occasional refresh swap.
type Bank struct {
	mu      sync.RWMutex
	records []Record
	log     zerolog.Logger
}

func NewBank() *Bank {
	return &Bank{log: logx.Component("trivia-bank")}
}

// LoadEmbedded builds a bank from the questions shipped in the binary.
func LoadEmbedded() (*Bank, error) {
	var records []Record
	if err := json.Unmarshal(embeddedQuestions, &records); err != nil {
		return nil, fmt.Errorf("parse embedded question bank: %w", err)
	}
	b := NewBank()
	if b.Replace(records) == 0 {
		return nil, errors.New("embedded question bank has no usable records")
	}
	return b, nil
}

// Replace swaps in a new question set, dropping records whose question or
// answer is blank. A set with nothing usable is rejected (returns 0) so a
// bad refresh never wipes a working bank.
func (b *Bank) Replace(records []Record) int {
	cleaned := make([]Record, 0, len(records))
	for _, r := range records {
		r.Question = strings.TrimSpace(r.Question)
		r.Answer = strings.TrimSpace(r.Answer)
		if r.Question == "" || r.Answer == "" {
			continue
		}
		cleaned = append(cleaned, r)
	}
	if len(cleaned) == 0 {
		return 0
	}

	b.mu.Lock()
	b.records = cleaned
	b.mu.Unlock()
	return len(cleaned)
}

// Snapshot returns a copy of the current records.
func (b *Bank) Snapshot() []Record {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]Record, len(b.records))
	copy(out, b.records)
	return out
}

func (b *Bank) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.records)
}

// RunRefresher primes the bank from src, then reloads on the cron schedule
// until ctx is canceled. A failed reload keeps the previous question set.
func (b *Bank) RunRefresher(ctx context.Context, src Source, schedule string) error {
	if src == nil {
		return errors.New("nil bank source")
	}

	b.refresh(ctx, src)

	c := cron.New()
	if _, err := c.AddFunc(schedule, func() {
		refreshCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		b.refresh(refreshCtx, src)
	}); err != nil {
		return fmt.Errorf("schedule bank refresh %q: %w", schedule, err)
	}

	c.Start()
	b.log.Info().Str("schedule", schedule).Msg("question bank refresher started")

	<-ctx.Done()
	<-c.Stop().Done()
	return nil
}

func (b *Bank) refresh(ctx context.Context, src Source) {
	records, err := src.Fetch(ctx)
	if err != nil {
		b.log.Warn().Err(err).Msg("bank refresh failed, keeping previous questions")
		return
	}
	kept := b.Replace(records)
	if kept == 0 {
		b.log.Warn().Int("fetched", len(records)).Msg("bank refresh returned no usable questions, keeping previous")
		return
	}
	b.log.Info().Int("questions", kept).Msg("question bank refreshed")
}

package trivia

import (
	"context"
	"fmt"
	"math/rand"
	"regexp"
	"strings"
	"sync"
	"time"

	contractx "github.com/tanpawarit/huddle/agent/contract"
	statex "github.com/tanpawarit/huddle/agent/state"
)

const (
	optionCount    = 4
	distractorNeed = optionCount - 1

	// minLengthSlack keeps the plausible pool from starving on short
	// answers like "12" or "Blue".
	minLengthSlack = 3
)

// Engine turns bank records into four-option questions and grades answers.
type Engine struct {
	bank *Bank

	mu  sync.Mutex // guards rng
	rng *rand.Rand
}

var _ contractx.QuestionProvider = (*Engine)(nil)

func NewEngine(bank *Bank) *Engine {
	return &Engine{
		bank: bank,
		rng:  rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Next picks a random record and assembles a multiple-choice question.
// A bank too small to field three distinct distractors is reported as
// unusable rather than producing a short question.
func (e *Engine) Next(_ context.Context) (contractx.Question, error) {
	records := e.bank.Snapshot()
	if len(records) == 0 {
		return contractx.Question{}, fmt.Errorf("%w: bank is empty", contractx.ErrBankUnusable)
	}

	rec := records[e.intn(len(records))]

	distractors := e.authoredDistractors(rec)
	if len(distractors) < distractorNeed {
		distractors = e.generateDistractors(rec, records)
	}
	if len(distractors) < distractorNeed {
		return contractx.Question{}, fmt.Errorf("%w: only %d distractors available", contractx.ErrBankUnusable, len(distractors))
	}

	options := append([]string{rec.Answer}, distractors[:distractorNeed]...)
	e.shuffle(options)

	q := contractx.Question{
		Prompt:      rec.Question,
		Explanation: rec.Explanation,
	}
	copy(q.Options[:], options)

	correct := normalizeAnswer(rec.Answer)
	for i, opt := range q.Options {
		if normalizeAnswer(opt) == correct {
			q.CorrectIndex = i
			return q, nil
		}
	}
	// Unreachable: the correct answer is always in the slice we shuffled.
	return contractx.Question{}, fmt.Errorf("%w: correct answer missing after shuffle", contractx.ErrBankUnusable)
}

// Check consumes the session's pending question and grades the letter.
// Grading is destructive: right or wrong, the question cannot be
// re-answered.
func (e *Engine) Check(sess *statex.Session, letter string) (contractx.AnswerOutcome, bool) {
	idx, explanation, ok := sess.ConsumePending()
	if !ok {
		return contractx.AnswerOutcome{}, false
	}

	correctLetter := string(rune('a' + idx))
	return contractx.AnswerOutcome{
		Correct:       normalizeLetter(letter) == correctLetter,
		CorrectLetter: correctLetter,
		Explanation:   explanation,
	}, true
}

// authoredDistractors returns the record's own wrong answers, deduplicated
// and with anything matching the correct answer dropped. Fewer than three
// survivors sends the caller to generation instead.
func (e *Engine) authoredDistractors(rec Record) []string {
	correct := normalizeAnswer(rec.Answer)
	seen := map[string]bool{correct: true}

	var out []string
	for _, d := range rec.Distractors {
		d = strings.TrimSpace(d)
		norm := normalizeAnswer(d)
		if norm == "" || seen[norm] {
			continue
		}
		seen[norm] = true
		out = append(out, d)
	}
	e.shuffle(out)
	return out
}

// generateDistractors draws wrong answers from the rest of the bank: first
// from a pool of answers close in length to the correct one, then from
// everything else if the plausible pool comes up short.
func (e *Engine) generateDistractors(rec Record, all []Record) []string {
	correct := normalizeAnswer(rec.Answer)
	correctLen := len([]rune(strings.TrimSpace(rec.Answer)))
	slack := (correctLen * 2) / 5
	if slack < minLengthSlack {
		slack = minLengthSlack
	}

	seen := map[string]bool{correct: true}
	var plausible, fallback []string
	for _, other := range all {
		answer := strings.TrimSpace(other.Answer)
		norm := normalizeAnswer(answer)
		if norm == "" || seen[norm] {
			continue
		}
		seen[norm] = true

		diff := len([]rune(answer)) - correctLen
		if diff < 0 {
			diff = -diff
		}
		if diff <= slack {
			plausible = append(plausible, answer)
		} else {
			fallback = append(fallback, answer)
		}
	}

	e.shuffle(plausible)
	e.shuffle(fallback)

	picked := plausible
	if len(picked) > distractorNeed {
		picked = picked[:distractorNeed]
	}
	for _, candidate := range fallback {
		if len(picked) >= distractorNeed {
			break
		}
		picked = append(picked, candidate)
	}
	return picked
}

func (e *Engine) shuffle(s []string) {
	e.mu.Lock()
	e.rng.Shuffle(len(s), func(i, j int) { s[i], s[j] = s[j], s[i] })
	e.mu.Unlock()
}

func (e *Engine) intn(n int) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.rng.Intn(n)
}

var spaceRun = regexp.MustCompile(`\s+`)

func normalizeAnswer(s string) string {
	return spaceRun.ReplaceAllString(strings.ToLower(strings.TrimSpace(s)), " ")
}

func normalizeLetter(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.TrimRight(s, ".!?) ")
}

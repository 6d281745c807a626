// Package orchestrator is the conversational front door: it takes one user
// message plus a session ID and produces exactly one reply, routing through
// either the rule classifier or the generative model's tool loop.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino/compose"
	"github.com/rs/zerolog"

	contractx "github.com/tanpawarit/huddle/agent/contract"
	nodex "github.com/tanpawarit/huddle/agent/nodes"
	"github.com/tanpawarit/huddle/agent/prompt"
	replyx "github.com/tanpawarit/huddle/agent/reply"
	statex "github.com/tanpawarit/huddle/agent/state"
	logx "github.com/tanpawarit/huddle/pkg/logger"
)

// Mode picks how messages route to capabilities.
type Mode string

const (
	// ModeRules routes with the keyword classifier. No model required.
	ModeRules Mode = "rules"
	// ModeModel lets the generative model pick tools. Falls back to rules
	// when no model is configured.
	ModeModel Mode = "model"
)

type Config struct {
	Mode Mode `envconfig:"MODE" split_words:"true" default:"rules"`
}

type Orchestrator struct {
	store      statex.Store
	classifier contractx.Classifier
	caps       nodex.Capabilities
	prompts    prompt.PromptSet
	mode       Mode

	graphRunner compose.Runnable[nodex.GraphInput, nodex.GraphOutput]

	now func() time.Time
	log zerolog.Logger
}

func New(
	store statex.Store,
	classifier contractx.Classifier,
	caps nodex.Capabilities,
	prompts prompt.PromptSet,
	cfg Config,
) (*Orchestrator, error) {
	if store == nil {
		return nil, errors.New("session store is required")
	}
	if classifier == nil {
		return nil, errors.New("intent classifier is required")
	}
	if caps.Chat != nil && strings.TrimSpace(prompts.Persona) == "" {
		return nil, fmt.Errorf("%w: persona prompt", contractx.ErrPromptMissing)
	}

	mode := cfg.Mode
	if mode == "" {
		mode = ModeRules
	}
	log := logx.Component("orchestrator")
	if mode == ModeModel && caps.Chat == nil {
		log.Warn().Msg("model routing requested without a model, falling back to rules")
		mode = ModeRules
	}
	if mode == ModeModel && strings.TrimSpace(prompts.Router) == "" {
		return nil, fmt.Errorf("%w: router prompt", contractx.ErrPromptMissing)
	}

	caps.Persona = prompts.Persona

	o := &Orchestrator{
		store:      store,
		classifier: classifier,
		caps:       caps,
		prompts:    prompts,
		mode:       mode,
		now:        time.Now,
		log:        log,
	}

	graphRunner, err := o.compileHandleMessageGraph(context.Background())
	if err != nil {
		return nil, err
	}
	o.graphRunner = graphRunner

	return o, nil
}

// Mode reports the routing mode actually in effect after fallbacks.
func (o *Orchestrator) Mode() Mode { return o.mode }

// HandleMessage produces exactly one reply for one inbound message. It
// never returns an empty reply alongside a nil error, and provider trouble
// resolves to apologetic text rather than an error.
func (o *Orchestrator) HandleMessage(ctx context.Context, sessionID string, text string) (string, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return replyx.Greeting, nil
	}

	if o.mode == ModeModel {
		return o.handleModelRouted(ctx, sessionID, trimmed)
	}

	out, err := o.graphRunner.Invoke(ctx, nodex.GraphInput{SessionID: sessionID, Text: trimmed})
	if err != nil {
		o.log.Error().Err(err).Str("session_id", sessionID).Msg("message graph failed")
		return replyx.Apology, nil
	}
	return out.Reply, nil
}

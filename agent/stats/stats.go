// Package stats adapts remote tool endpoints into the two stats
// capabilities the orchestrator dispatches to: live game data and
// historical records.
package stats

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	contractx "github.com/tanpawarit/huddle/agent/contract"
	"github.com/tanpawarit/huddle/agent/toolcall"
	logx "github.com/tanpawarit/huddle/pkg/logger"
)

// Config points one adapter at a remote tool endpoint. An empty BaseURL
// leaves the capability disabled.
type Config struct {
	BaseURL string        `split_words:"true"`
	Token   string        `split_words:"true"`
	Timeout time.Duration `split_words:"true" default:"10s"`
}

func (c Config) Enabled() bool { return c.BaseURL != "" }

// Provider answers free-text stats questions through a remote tool
// endpoint. Tool selection, argument shapes and retries live in the
// toolcall client; the adapter only contributes its hint table.
type Provider struct {
	client   *toolcall.Client
	endpoint toolcall.Endpoint
	hints    []toolcall.Hint
	log      zerolog.Logger
}

var _ contractx.StatsProvider = (*Provider)(nil)

// liveHints steer in-flight game questions toward the obvious tools.
var liveHints = []toolcall.Hint{
	{Triggers: []string{"score", "beat", "winning", "losing"}, Pattern: "score"},
	{Triggers: []string{"schedule", "play next", "when do", "kickoff"}, Pattern: "schedule"},
	{Triggers: []string{"standing", "ranking", "ranked", "poll"}, Pattern: "rank"},
	{Triggers: []string{"live", "right now", "today", "tonight"}, Pattern: "live"},
}

// historyHints cover the long-memory questions fans ask.
var historyHints = []toolcall.Hint{
	{Triggers: []string{"all-time", "all time", "record against", "series"}, Pattern: "series"},
	{Triggers: []string{"bowl", "championship", "title"}, Pattern: "bowl"},
	{Triggers: []string{"recruiting", "recruit class"}, Pattern: "recruit"},
	{Triggers: []string{"history", "historical", "vs", "versus", "against", "rivalry", "matchup"}, Pattern: "history"},
}

// NewLive wires the adapter for current-season questions.
func NewLive(client *toolcall.Client, cfg Config) *Provider {
	return newProvider(client, cfg, "live-stats", liveHints)
}

// NewHistorical wires the adapter for archival questions. The remote tool
// covers college football only.
func NewHistorical(client *toolcall.Client, cfg Config) *Provider {
	return newProvider(client, cfg, "historical-stats", historyHints)
}

func newProvider(client *toolcall.Client, cfg Config, component string, hints []toolcall.Hint) *Provider {
	return &Provider{
		client: client,
		endpoint: toolcall.Endpoint{
			BaseURL: cfg.BaseURL,
			Token:   cfg.Token,
			Timeout: cfg.Timeout,
		},
		hints: hints,
		log:   logx.Component(component),
	}
}

// Query relays the question and returns the remote text as-is.
func (p *Provider) Query(ctx context.Context, query string) (string, error) {
	text, err := p.client.Query(ctx, p.endpoint, toolcall.Query{Text: query, Hints: p.hints})
	if err != nil {
		p.log.Warn().Err(err).Str("query", query).Msg("stats lookup failed")
		return "", err
	}
	return text, nil
}

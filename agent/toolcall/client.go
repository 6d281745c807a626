package toolcall

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	contractx "github.com/tanpawarit/huddle/agent/contract"
	"github.com/tanpawarit/huddle/agent/teams"
	logx "github.com/tanpawarit/huddle/pkg/logger"
)

const (
	defaultCallTimeout   = 10 * time.Second
	maxResponseSizeBytes = 4 << 20
)

// Endpoint identifies one remote tool service.
type Endpoint struct {
	BaseURL string
	Token   string
	Timeout time.Duration
}

func (ep Endpoint) timeout() time.Duration {
	if ep.Timeout > 0 {
		return ep.Timeout
	}
	return defaultCallTimeout
}

// Query is one question for a remote tool service plus the hints that steer
// tool selection.
type Query struct {
	Text  string
	Hints []Hint
}

// Result is the outcome of a single tool invocation.
type Result struct {
	OK     bool
	Text   string
	Reason string
}

// Client speaks JSON-RPC to tool services that expose a tools/list and
// tools/call surface. Discovered tool lists are cached per endpoint for the
// life of the process, and Query retries a sequence of argument shapes until
// the tool produces a usable answer.
type Client struct {
	httpClient *http.Client
	teams      *teams.Index
	builders   []Builder
	nextID     int64
	log        zerolog.Logger

	mu    sync.RWMutex
	tools map[string][]string
}

type Option func(*Client)

// WithHTTPClient replaces the transport, mostly for tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithBuilders replaces the ordered payload shape list.
func WithBuilders(builders []Builder) Option {
	return func(c *Client) {
		c.builders = builders
	}
}

func New(ix *teams.Index, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{},
		teams:      ix,
		builders:   DefaultBuilders(),
		log:        logx.Component("toolcall"),
		tools:      make(map[string][]string),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// DiscoverTools returns the tool names the endpoint exposes, fetching them
// on first use. Only successful discoveries are cached, so a flaky endpoint
// is retried on the next request.
func (c *Client) DiscoverTools(ctx context.Context, ep Endpoint) ([]string, error) {
	c.mu.RLock()
	names, ok := c.tools[ep.BaseURL]
	c.mu.RUnlock()
	if ok {
		return names, nil
	}

	callCtx, cancel := context.WithTimeout(ctx, ep.timeout())
	defer cancel()

	raw, err := c.rpc(callCtx, ep, "tools/list", nil)
	if err != nil {
		return nil, fmt.Errorf("discover tools at %s: %w", ep.BaseURL, err)
	}

	var listed struct {
		Tools []struct {
			Name string `json:"name"`
		} `json:"tools"`
	}
	if err := json.Unmarshal(raw, &listed); err != nil {
		return nil, fmt.Errorf("decode tool list from %s: %w", ep.BaseURL, err)
	}

	names = make([]string, 0, len(listed.Tools))
	for _, t := range listed.Tools {
		if t.Name != "" {
			names = append(names, t.Name)
		}
	}

	// Two first-requests racing here write the same list; the second write
	// is a no-op in effect.
	c.mu.Lock()
	c.tools[ep.BaseURL] = names
	c.mu.Unlock()

	c.log.Debug().Str("endpoint", ep.BaseURL).Strs("tools", names).Msg("discovered tools")
	return names, nil
}

// Invoke calls one tool with one argument shape under the endpoint's call
// timeout. A transport error, an empty reply, or a no-data sentinel all come
// back as a not-OK Result so the caller can try the next shape.
func (c *Client) Invoke(ctx context.Context, ep Endpoint, tool string, args map[string]any) Result {
	callCtx, cancel := context.WithTimeout(ctx, ep.timeout())
	defer cancel()

	raw, err := c.rpc(callCtx, ep, "tools/call", map[string]any{
		"name":      tool,
		"arguments": args,
	})
	if err != nil {
		return Result{Reason: err.Error()}
	}

	text := strings.TrimSpace(ExtractText(raw))
	if IsNoData(text) {
		return Result{Reason: "no data in reply"}
	}
	return Result{OK: true, Text: text}
}

// Query answers one question end to end: discover tools, pick one, then walk
// the candidate argument shapes until one yields a usable answer.
func (c *Client) Query(ctx context.Context, ep Endpoint, q Query) (string, error) {
	tools, err := c.DiscoverTools(ctx, ep)
	if err != nil {
		return "", err
	}
	if len(tools) == 0 {
		return "", fmt.Errorf("%w: endpoint %s exposes no tools", contractx.ErrNoUsableAnswer, ep.BaseURL)
	}

	tool := SelectTool(tools, q.Text, q.Hints)
	candidates := BuildCandidates(c.builders, ParseQuery(c.teams, q.Text))
	if len(candidates) == 0 {
		return "", fmt.Errorf("%w: empty query", contractx.ErrNoUsableAnswer)
	}

	var lastReason string
	for _, args := range candidates {
		res := c.Invoke(ctx, ep, tool, args)
		if res.OK {
			return res.Text, nil
		}
		lastReason = res.Reason
		c.log.Debug().Str("tool", tool).Interface("args", args).Str("reason", res.Reason).Msg("tool attempt failed")
		if ctx.Err() != nil {
			break
		}
	}
	return "", fmt.Errorf("%w: tool %q rejected %d argument shapes (last: %s)", contractx.ErrNoUsableAnswer, tool, len(candidates), lastReason)
}

func (c *Client) rpc(ctx context.Context, ep Endpoint, method string, params any) (json.RawMessage, error) {
	payload := map[string]any{
		"jsonrpc": "2.0",
		"id":      atomic.AddInt64(&c.nextID, 1),
		"method":  method,
	}
	if params != nil {
		payload["params"] = params
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s request: %w", method, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, ep.BaseURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build %s request: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if ep.Token != "" {
		req.Header.Set("Authorization", "Bearer "+ep.Token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call %s: %w", method, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSizeBytes))
	if err != nil {
		return nil, fmt.Errorf("read %s response: %w", method, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%s returned status %d: %s", method, resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var envelope struct {
		Result json.RawMessage `json:"result"`
		Error  json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("decode %s response: %w", method, err)
	}
	if len(envelope.Error) > 0 && !bytes.Equal(envelope.Error, []byte("null")) {
		return nil, fmt.Errorf("%s error: %s", method, envelope.Error)
	}
	return envelope.Result, nil
}

// Package video adapts a highlight search endpoint into the clip
// capability. A broken or missing backend never surfaces an error to the
// chat flow, only an empty result set.
package video

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	contractx "github.com/tanpawarit/huddle/agent/contract"
	"github.com/tanpawarit/huddle/agent/teams"
	logx "github.com/tanpawarit/huddle/pkg/logger"
)

const (
	defaultLimit = 5
	maxBodyBytes = 2 << 20
)

// Config points the adapter at a clip search endpoint. An empty BaseURL
// leaves the capability disabled.
type Config struct {
	BaseURL string        `split_words:"true"`
	Token   string        `split_words:"true"`
	Timeout time.Duration `split_words:"true" default:"10s"`
	Limit   int           `split_words:"true" default:"5"`
}

func (c Config) Enabled() bool { return c.BaseURL != "" }

type Searcher struct {
	cfg        Config
	httpClient *http.Client
	teams      *teams.Index
	now        func() time.Time
	log        zerolog.Logger
}

var _ contractx.ClipSearcher = (*Searcher)(nil)

type Option func(*Searcher)

// WithHTTPClient replaces the transport, mostly for tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(s *Searcher) {
		s.httpClient = hc
	}
}

func New(cfg Config, ix *teams.Index, opts ...Option) *Searcher {
	if cfg.Limit <= 0 {
		cfg.Limit = defaultLimit
	}
	s := &Searcher{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		teams:      ix,
		now:        time.Now,
		log:        logx.Component("video-search"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// fillerPhrases are the conversational lead-ins fans type that search
// backends match poorly.
var fillerPhrases = []string{
	"show me", "can you", "could you", "i want to see", "i wanna see",
	"find me", "pull up", "let me see", "please",
}

// Refine turns a conversational ask into a search string: lowercased,
// filler stripped, nicknames expanded to canonical team names.
func (s *Searcher) Refine(query string) string {
	lower := strings.ToLower(query)
	for _, phrase := range fillerPhrases {
		lower = strings.ReplaceAll(lower, phrase, " ")
	}
	return strings.Join(strings.Fields(s.teams.Rewrite(lower)), " ")
}

// Search queries the clip endpoint with the refined query, a result cap and
// a cache-busting timestamp. Every failure path degrades to no clips.
func (s *Searcher) Search(ctx context.Context, query string) ([]contractx.Clip, error) {
	refined := s.Refine(query)
	if refined == "" {
		return nil, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.cfg.BaseURL, nil)
	if err != nil {
		s.log.Warn().Err(err).Msg("build clip search request")
		return nil, nil
	}
	q := req.URL.Query()
	q.Set("query", refined)
	q.Set("limit", strconv.Itoa(s.cfg.Limit))
	q.Set("ts", strconv.FormatInt(s.now().UnixMilli(), 10))
	req.URL.RawQuery = q.Encode()
	if s.cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+s.cfg.Token)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		s.log.Warn().Err(err).Str("query", refined).Msg("clip search failed")
		return nil, nil
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		s.log.Warn().Int("status", resp.StatusCode).Str("query", refined).Msg("clip search returned non-2xx")
		return nil, nil
	}

	var clips []contractx.Clip
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(&clips); err != nil {
		s.log.Warn().Err(err).Str("query", refined).Msg("decode clip search response")
		return nil, nil
	}
	if len(clips) > s.cfg.Limit {
		clips = clips[:s.cfg.Limit]
	}
	return clips, nil
}

package state

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	logx "github.com/tanpawarit/huddle/pkg/logger"
)

var ErrSessionNotFound = errors.New("session not found")

const (
	defaultRedisKeyPrefix = "huddle:session:"
	maxResponseSizeBytes  = 2 << 20
)

// RedisOption customizes RedisStore.
type RedisOption func(*RedisStore)

func WithKeyPrefix(prefix string) RedisOption {
	return func(s *RedisStore) {
		trimmed := strings.TrimSpace(prefix)
		if trimmed != "" {
			s.keyPrefix = trimmed
		}
	}
}

func WithTTL(ttl time.Duration) RedisOption {
	return func(s *RedisStore) {
		s.ttl = ttl
	}
}

func WithHTTPClient(client *http.Client) RedisOption {
	return func(s *RedisStore) {
		if client != nil {
			s.httpClient = client
		}
	}
}

// RedisStore keeps sessions in an Upstash-style Redis REST endpoint. The
// sliding key TTL written on every save is the eviction mechanism, so
// Sweep has nothing to do. Backend failures degrade to fresh sessions:
// the conversation always gets a session, never an error.
type RedisStore struct {
	baseURL      string
	token        string
	httpClient   *http.Client
	keyPrefix    string
	ttl          time.Duration
	historyLimit int

	now func() time.Time
	log zerolog.Logger
}

var _ Store = (*RedisStore)(nil)

type redisRESTResponse struct {
	Result json.RawMessage `json:"result"`
	Error  string          `json:"error"`
}

type RedisConfig struct {
	URL     string        `envconfig:"URL" split_words:"true" required:"true"`
	Token   string        `envconfig:"TOKEN" split_words:"true" required:"true"`
	Timeout time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"10s"`
}

func NewRedisStore(cfg RedisConfig, sessions Config, opts ...RedisOption) (*RedisStore, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.URL), "/")
	if baseURL == "" {
		return nil, errors.New("redis rest url is required")
	}
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("invalid redis rest url: %w", err)
	}

	token := strings.TrimSpace(cfg.Token)
	if token == "" {
		return nil, errors.New("redis rest token is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	ttl := sessions.IdleTTL
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}

	store := &RedisStore{
		baseURL:      baseURL,
		token:        token,
		httpClient:   &http.Client{Timeout: timeout},
		keyPrefix:    defaultRedisKeyPrefix,
		ttl:          ttl,
		historyLimit: sessions.HistoryLimit,
		now:          time.Now,
		log:          logx.Component("session-store"),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(store)
		}
	}
	if store.ttl < 0 {
		return nil, errors.New("ttl must be >= 0")
	}
	return store, nil
}

func (s *RedisStore) GetOrCreate(ctx context.Context, sessionID string) *Session {
	id := strings.TrimSpace(sessionID)
	if id == "" {
		id = DefaultSessionID
	}

	sess, err := s.load(ctx, id)
	if err != nil {
		if !errors.Is(err, ErrSessionNotFound) {
			s.log.Warn().Err(err).Str("session_id", id).Msg("session load failed, starting fresh")
		}
		return NewSession(id, s.historyLimit, s.now())
	}
	return sess
}

func (s *RedisStore) Touch(ctx context.Context, sess *Session) {
	if sess == nil {
		return
	}
	sess.Seen(s.now())
	if err := s.save(ctx, sess); err != nil {
		s.log.Warn().Err(err).Str("session_id", sess.ID).Msg("session save failed")
	}
}

// Sweep reports 0: expiry is enforced by the key TTL on the Redis side.
func (s *RedisStore) Sweep(time.Time) int { return 0 }

func (s *RedisStore) load(ctx context.Context, id string) (*Session, error) {
	resp, err := s.exec(ctx, []any{"GET", s.redisKey(id)})
	if err != nil {
		return nil, err
	}

	result := bytes.TrimSpace(resp.Result)
	if len(result) == 0 || bytes.Equal(result, []byte("null")) {
		return nil, ErrSessionNotFound
	}

	var encoded string
	if err := json.Unmarshal(result, &encoded); err != nil {
		return nil, fmt.Errorf("decode session payload: %w", err)
	}

	var sess Session
	if err := json.Unmarshal([]byte(encoded), &sess); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}
	sess.historyLimit = s.historyLimit
	return &sess, nil
}

func (s *RedisStore) save(ctx context.Context, sess *Session) error {
	payload, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	cmd := []any{"SET", s.redisKey(sess.ID), string(payload)}
	if s.ttl > 0 {
		cmd = append(cmd, "EX", ttlSeconds(s.ttl))
	}
	_, err = s.exec(ctx, cmd)
	return err
}

func (s *RedisStore) redisKey(sessionID string) string {
	return strings.TrimSpace(s.keyPrefix) + sessionID
}

func (s *RedisStore) exec(ctx context.Context, command []any) (*redisRESTResponse, error) {
	body, err := json.Marshal(command)
	if err != nil {
		return nil, fmt.Errorf("marshal redis command: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build redis request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute redis request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSizeBytes))
	if err != nil {
		return nil, fmt.Errorf("read redis response: %w", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("redis http status=%d body=%s", resp.StatusCode, string(raw))
	}

	var parsed redisRESTResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("decode redis response: %w", err)
	}
	if parsed.Error != "" {
		return nil, errors.New(parsed.Error)
	}
	return &parsed, nil
}

func ttlSeconds(ttl time.Duration) int64 {
	seconds := ttl / time.Second
	if seconds <= 0 {
		return 1
	}
	if ttl%time.Second != 0 {
		seconds++
	}
	return int64(seconds)
}

// Package server exposes the chat agent over HTTP. The conversational
// contract is strict: the chat endpoint always answers 200 with a text
// payload, and every failure mode resolves to apologetic text rather than
// a transport error.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	logx "github.com/tanpawarit/huddle/pkg/logger"
)

type Config struct {
	Port          string        `split_words:"true" default:"8080"`
	ReadTimeout   time.Duration `split_words:"true" default:"30s"`
	WriteTimeout  time.Duration `split_words:"true" default:"60s"`
	IdleTimeout   time.Duration `split_words:"true" default:"120s"`
	ShutdownGrace time.Duration `split_words:"true" default:"10s"`
}

// Chat is the one capability the server fronts.
type Chat interface {
	HandleMessage(ctx context.Context, sessionID string, text string) (string, error)
}

type Server struct {
	cfg     Config
	chat    Chat
	http    *http.Server
	started time.Time
	log     zerolog.Logger
}

func New(cfg Config, chat Chat) *Server {
	s := &Server{
		cfg:     cfg,
		chat:    chat,
		started: time.Now(),
		log:     logx.Component("server"),
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(s.accessLog)

	r.Get("/healthz", s.handleHealthz)
	r.Post("/api/chat", s.handleChat)

	s.http = &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}
	return s
}

// Handler exposes the routed mux, mostly for tests.
func (s *Server) Handler() http.Handler { return s.http.Handler }

// Run serves until ctx is canceled, then drains in-flight requests within
// the shutdown grace period.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", s.http.Addr).Msg("chat server listening")
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("chat server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownGrace)
	defer cancel()
	if err := s.http.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown chat server: %w", err)
	}
	s.log.Info().Msg("chat server stopped")
	return nil
}

func (s *Server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("elapsed", time.Since(start)).
			Str("request_id", chimw.GetReqID(r.Context())).
			Msg("request")
	})
}

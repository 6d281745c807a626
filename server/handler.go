package server

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	replyx "github.com/tanpawarit/huddle/agent/reply"
)

const maxRequestBodyBytes = 64 << 10

// chatRequest tolerates the field names different chat frontends send.
// The first non-blank alias wins.
type chatRequest struct {
	Message string `json:"message"`
	Text    string `json:"text"`
	Input   string `json:"input"`
	Prompt  string `json:"prompt"`
	Q       string `json:"q"`

	SessionCamel string `json:"sessionId"`
	SessionSnake string `json:"session_id"`
	Session      string `json:"session"`
}

func (c chatRequest) text() string {
	for _, v := range []string{c.Message, c.Text, c.Input, c.Prompt, c.Q} {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

func (c chatRequest) session() string {
	for _, v := range []string{c.SessionCamel, c.SessionSnake, c.Session} {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

type chatResponse struct {
	Reply string `json:"reply"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodyBytes)

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		// An unreadable request is still a conversation, not a protocol
		// error: greet and move on.
		s.log.Warn().Err(err).Msg("undecodable chat request")
		s.respond(w, replyx.Greeting)
		return
	}

	answer, err := s.chat.HandleMessage(r.Context(), req.session(), req.text())
	if err != nil {
		s.log.Error().Err(err).Msg("chat handling failed")
		answer = replyx.Apology
	}
	s.respond(w, answer)
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	_ = json.NewEncoder(w).Encode(map[string]string{
		"status": "ok",
		"uptime": time.Since(s.started).Round(time.Second).String(),
	})
}

func (s *Server) respond(w http.ResponseWriter, text string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(chatResponse{Reply: text}); err != nil {
		s.log.Warn().Err(err).Msg("write chat response")
	}
}

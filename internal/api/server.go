// Package api exposes the agent over a small REST surface so external
// callers can drive turns and read history.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/basepilot/basepilot/internal/session"
)

// Agent runs one conversation turn.
type Agent interface {
	Process(ctx context.Context, text string) (string, error)
}

// History lists persisted turns.
type History interface {
	ListRecent(ctx context.Context, limit int) ([]session.Record, error)
}

// Server serves the chat and history endpoints.
type Server struct {
	addr    string
	agent   Agent // Approval prompts answered no
	trusted Agent // Approval prompts answered yes; nil disables pre-approval
	history History
	timeout time.Duration
}

// NewServer constructs the API server. trusted may be nil, in which case
// requests asking for pre-approval are rejected.
func NewServer(addr string, agent, trusted Agent, history History, timeout time.Duration) *Server {
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &Server{
		addr:    addr,
		agent:   agent,
		trusted: trusted,
		history: history,
		timeout: timeout,
	}
}

// Start runs the HTTP server until the context is cancelled or the listener
// fails.
func (s *Server) Start(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
		return ctx.Err()
	case err := <-errCh:
		return err
	}
}

// Handler returns the route table, exported for tests.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/chat", s.handleChat)
	mux.HandleFunc("/api/v1/turns", s.handleTurns)
	mux.HandleFunc("/healthz", s.handleHealth)
	return mux
}

type chatRequest struct {
	Message string `json:"message"`
	// Approve pre-answers the human checkpoint with yes. Only honored when
	// the server was configured with a trusted agent.
	Approve bool `json:"approve,omitempty"`
}

type chatResponse struct {
	Response string `json:"response"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if s.agent == nil {
		http.Error(w, "agent not initialized", http.StatusServiceUnavailable)
		return
	}

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Message == "" {
		http.Error(w, "message is required", http.StatusBadRequest)
		return
	}

	agent := s.agent
	if req.Approve {
		if s.trusted == nil {
			http.Error(w, "pre-approval is not enabled", http.StatusForbidden)
			return
		}
		agent = s.trusted
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
	defer cancel()

	response, err := agent.Process(ctx, req.Message)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(chatResponse{Response: response})
}

func (s *Server) handleTurns(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if s.history == nil {
		http.Error(w, "history not enabled", http.StatusServiceUnavailable)
		return
	}

	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	records, err := s.history.ListRecent(r.Context(), limit)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if records == nil {
		records = []session.Record{}
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(records)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// Package server exposes the chat orchestrator over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/rs/cors"

	"github.com/cchalm/gemini-proxy/internal/chat"
	"github.com/cchalm/gemini-proxy/internal/conversation"
)

const (
	// MaxRequestBodySize is the maximum size of a chat request body (1MB)
	MaxRequestBodySize = 1 * 1024 * 1024

	ReadHeaderTimeout = 10 * time.Second
	ShutdownTimeout   = 30 * time.Second
)

// Chatter runs a single chat turn. It is implemented by *chat.Orchestrator.
type Chatter interface {
	Handle(ctx context.Context, message string, sessionID string) chat.Result
}

// ChatRequest is the body of POST /chat
type ChatRequest struct {
	Message   *string `json:"message"`
	SessionID string  `json:"session_id,omitempty"`
}

// ChatResponse is the body returned by POST /chat
type ChatResponse struct {
	Response  string `json:"response"`
	SessionID string `json:"session_id"`
}

// HistoryResponse is the body returned by GET /sessions/{id}/history
type HistoryResponse struct {
	SessionID string              `json:"session_id"`
	Turns     []conversation.Turn `json:"turns"`
}

// Server routes HTTP requests to the chat orchestrator and the conversation store
type Server struct {
	chatter Chatter
	store   conversation.Store
}

func New(chatter Chatter, store conversation.Store) *Server {
	return &Server{
		chatter: chatter,
		store:   store,
	}
}

// Handler returns the routes of the proxy wrapped in a permissive CORS policy
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /chat", s.handleChat)
	mux.HandleFunc("GET /sessions/{id}/history", s.handleHistory)
	mux.HandleFunc("GET /sessions/{id}/transcript", s.handleTranscript)

	return cors.AllowAll().Handler(mux)
}

// ListenAndServe serves on addr until ctx is canceled, then shuts down gracefully
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: ReadHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Listening on %s", addr)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server stopped: %w", err)
	case <-ctx.Done():
	}

	log.Println("Shutting down HTTP server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	err := httpServer.Shutdown(shutdownCtx)
	if err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server stopped: %w", err)
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("OK"))
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxRequestBodySize)

	var req ChatRequest
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		http.Error(w, fmt.Sprintf("invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	if req.Message == nil {
		http.Error(w, "missing field 'message'", http.StatusUnprocessableEntity)
		return
	}

	result := s.chatter.Handle(r.Context(), *req.Message, req.SessionID)

	writeJSON(w, ChatResponse{Response: result.Reply, SessionID: result.SessionID})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("id")
	turns := s.store.History(sessionID)
	if turns == nil {
		turns = []conversation.Turn{}
	}

	writeJSON(w, HistoryResponse{SessionID: sessionID, Turns: turns})
}

func (s *Server) handleTranscript(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("id")
	md, err := conversation.ToMarkdown(sessionID, s.store.History(sessionID))
	if err != nil {
		log.Printf("Failed to render transcript for session %s: %v", sessionID, err)
		http.Error(w, "failed to render transcript", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	_, _ = w.Write([]byte(md))
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		log.Printf("Failed to write response: %v", err)
	}
}

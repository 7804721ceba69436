// Package chat runs single chat turns against an upstream model while keeping per-session history.
package chat

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/cchalm/gemini-proxy/internal/ai"
	"github.com/cchalm/gemini-proxy/internal/conversation"
	"github.com/cchalm/gemini-proxy/internal/telemetry"
)

// NoContentReply is returned when the upstream produced no reply text
const NoContentReply = "No content generated"

// Result is the outcome of one chat turn. Failures are rendered into Reply, so a Result always carries a session ID the
// caller can continue with.
type Result struct {
	Reply     string
	SessionID string
}

// Orchestrator runs chat turns: it reads a session's history, asks the upstream for a reply and records the exchange
type Orchestrator struct {
	store        conversation.Store
	upstream     ai.Generator
	tracer       trace.Tracer
	newSessionID func() string
}

type Option func(*Orchestrator)

// WithTracer instruments every turn with spans from the given tracer
func WithTracer(tracer trace.Tracer) Option {
	return func(o *Orchestrator) {
		o.tracer = tracer
	}
}

// WithSessionIDGenerator replaces the UUID generator used to mint identifiers for new sessions
func WithSessionIDGenerator(fn func() string) Option {
	return func(o *Orchestrator) {
		o.newSessionID = fn
	}
}

func NewOrchestrator(store conversation.Store, upstream ai.Generator, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		store:        store,
		upstream:     upstream,
		tracer:       noop.NewTracerProvider().Tracer(""),
		newSessionID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Handle runs one turn for the given session, minting a new session ID if sessionID is empty. The exchange is
// recorded only if the upstream produced reply text; on any failure the session's history is left untouched.
//
// No store lock is held while the upstream is called. Concurrent turns for the same session each read the history as
// it was when they started and append in the order they complete.
func (o *Orchestrator) Handle(ctx context.Context, message string, sessionID string) Result {
	if sessionID == "" {
		sessionID = o.newSessionID()
	}

	ctx, span := o.tracer.Start(ctx, "chat.turn", trace.WithAttributes(
		attribute.String("session.id", sessionID),
		attribute.String("turn.id", telemetry.NewTurnID()),
	))
	defer span.End()

	history := o.store.History(sessionID)
	prompt := OutboundPrompt(history, message)
	span.SetAttributes(attribute.Int("prompt.turns", len(prompt)))

	reply, err := o.generate(ctx, prompt)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		log.Printf("Chat turn failed for session %s: %v", sessionID, err)
		return Result{Reply: replyForError(err), SessionID: sessionID}
	}

	o.store.AppendExchange(sessionID, conversation.UserTurn(message), conversation.ModelTurn(reply))
	log.Printf("Chat turn completed for session %s (%d prior turns)", sessionID, len(history))

	return Result{Reply: reply, SessionID: sessionID}
}

func (o *Orchestrator) generate(ctx context.Context, prompt []conversation.Turn) (string, error) {
	ctx, span := o.tracer.Start(ctx, "upstream.generate")
	defer span.End()

	resp, err := o.upstream.Generate(ctx, prompt)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", fmt.Errorf("failed to generate reply: %w", err)
	}

	if reason := resp.FinishReason(); reason != "" {
		span.SetAttributes(attribute.String("upstream.finish_reason", reason))
	}
	text, err := resp.Text()
	if err != nil {
		return "", err
	}
	return text, nil
}

// replyForError renders an upstream failure as reply text for the caller
func replyForError(err error) string {
	var (
		statusErr  *ai.StatusError
		parseErr   *ai.ParseError
		requestErr *ai.RequestError
	)
	switch {
	case errors.Is(err, ai.ErrNoContent):
		return NoContentReply
	case errors.As(err, &statusErr):
		return fmt.Sprintf("API Error: %s - Body: %s", statusErr.Status, statusErr.Body)
	case errors.As(err, &parseErr):
		return fmt.Sprintf("Failed to parse response: %v", parseErr.Err)
	case errors.As(err, &requestErr):
		return fmt.Sprintf("Request failed: %v", requestErr.Err)
	default:
		return fmt.Sprintf("Request failed: %v", err)
	}
}

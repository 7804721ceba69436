// Package ai provides clients for the upstream generative-language APIs.
package ai

import (
	"context"

	"github.com/cchalm/gemini-proxy/internal/conversation"
)

// Generator turns a prompt, an ordered list of turns, into a model response
type Generator interface {
	Generate(ctx context.Context, prompt []conversation.Turn) (*Response, error)
}

// Part is a single piece of text within a content block
type Part struct {
	Text string `json:"text"`
}

// Content is an ordered list of parts authored by one role
type Content struct {
	Parts []Part `json:"parts"`
	Role  string `json:"role,omitempty"`
}

// Candidate is one of the replies offered by the model
type Candidate struct {
	Content      Content `json:"content"`
	FinishReason string  `json:"finishReason,omitempty"`
}

// Response is a successfully decoded upstream payload. It may contain no candidates.
type Response struct {
	Candidates []Candidate `json:"candidates"`
}

// Text returns the text of the first part of the first candidate, or ErrNoContent if there is no such part
func (r *Response) Text() (string, error) {
	if r == nil || len(r.Candidates) == 0 {
		return "", ErrNoContent
	}
	parts := r.Candidates[0].Content.Parts
	if len(parts) == 0 {
		return "", ErrNoContent
	}
	return parts[0].Text, nil
}

// FinishReason returns the finish reason of the first candidate, if any
func (r *Response) FinishReason() string {
	if r == nil || len(r.Candidates) == 0 {
		return ""
	}
	return r.Candidates[0].FinishReason
}

// contentsFromTurns converts turns to the upstream wire representation, one single-part content block per turn
func contentsFromTurns(turns []conversation.Turn) []Content {
	contents := make([]Content, 0, len(turns))
	for _, turn := range turns {
		contents = append(contents, Content{
			Parts: []Part{{Text: turn.Text}},
			Role:  string(turn.Role),
		})
	}
	return contents
}

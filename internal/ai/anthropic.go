package ai

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/anthropics/anthropic-sdk-go"

	"github.com/cchalm/gemini-proxy/internal/conversation"
)

const DefaultAnthropicMaxTokens = 4096

// AnthropicClient serves the Generator contract with the Anthropic Messages API. Model turns are sent as assistant
// messages.
type AnthropicClient struct {
	client    anthropic.Client
	model     anthropic.Model
	maxTokens int64
}

func NewAnthropicClient(client anthropic.Client, model anthropic.Model, maxTokens int64) *AnthropicClient {
	return &AnthropicClient{
		client:    client,
		model:     model,
		maxTokens: maxTokens,
	}
}

func (ac *AnthropicClient) Generate(ctx context.Context, prompt []conversation.Turn) (*Response, error) {
	messages := make([]anthropic.MessageParam, 0, len(prompt))
	for _, turn := range prompt {
		block := anthropic.NewTextBlock(turn.Text)
		if turn.Role == conversation.RoleModel {
			messages = append(messages, anthropic.NewAssistantMessage(block))
		} else {
			messages = append(messages, anthropic.NewUserMessage(block))
		}
	}

	message, err := ac.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     ac.model,
		MaxTokens: ac.maxTokens,
		Messages:  messages,
	})
	if err != nil {
		var apiErr *anthropic.Error
		if errors.As(err, &apiErr) {
			return nil, &StatusError{
				StatusCode: apiErr.StatusCode,
				Status:     fmt.Sprintf("%d %s", apiErr.StatusCode, http.StatusText(apiErr.StatusCode)),
				Body:       apiErr.Error(),
			}
		}
		return nil, &RequestError{Err: err}
	}

	return responseFromMessage(message), nil
}

// responseFromMessage collects the text blocks of a message into a single candidate. A message without text blocks
// yields a response with no candidates.
func responseFromMessage(message *anthropic.Message) *Response {
	var parts []Part
	for _, block := range message.Content {
		if block.Type == "text" {
			parts = append(parts, Part{Text: block.Text})
		}
	}
	if len(parts) == 0 {
		return &Response{}
	}
	return &Response{
		Candidates: []Candidate{
			{
				Content:      Content{Parts: parts, Role: string(conversation.RoleModel)},
				FinishReason: string(message.StopReason),
			},
		},
	}
}

var _ Generator = (*AnthropicClient)(nil)

package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/cchalm/gemini-proxy/internal/conversation"
)

const (
	DefaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	DefaultGeminiModel   = "gemini-flash-latest"
)

// GeminiClient calls the Gemini generateContent endpoint, one POST per prompt
type GeminiClient struct {
	httpClient *http.Client
	baseURL    string
	model      string
	apiKey     string
}

// GeminiOption configures a GeminiClient
type GeminiOption func(*GeminiClient)

// WithHTTPClient sets the HTTP client used for upstream requests
func WithHTTPClient(httpClient *http.Client) GeminiOption {
	return func(gc *GeminiClient) {
		gc.httpClient = httpClient
	}
}

// WithBaseURL overrides the API root, e.g. to point at a test server
func WithBaseURL(baseURL string) GeminiOption {
	return func(gc *GeminiClient) {
		gc.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithModel selects the model to generate content with
func WithModel(model string) GeminiOption {
	return func(gc *GeminiClient) {
		gc.model = model
	}
}

// NewGeminiClient creates a client authenticating with the given API key
func NewGeminiClient(apiKey string, opts ...GeminiOption) *GeminiClient {
	gc := &GeminiClient{
		httpClient: http.DefaultClient,
		baseURL:    DefaultGeminiBaseURL,
		model:      DefaultGeminiModel,
		apiKey:     apiKey,
	}
	for _, opt := range opts {
		opt(gc)
	}
	return gc
}

type generateContentRequest struct {
	Contents []Content `json:"contents"`
}

// Generate sends the prompt to the model. Transport failures, non-2xx statuses and undecodable bodies are reported as
// *RequestError, *StatusError and *ParseError respectively.
func (gc *GeminiClient) Generate(ctx context.Context, prompt []conversation.Turn) (*Response, error) {
	body, err := json.Marshal(generateContentRequest{Contents: contentsFromTurns(prompt)})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, gc.endpoint(), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	// Sent as a header rather than the key query parameter so that it never shows up in url.Error messages
	req.Header.Set("x-goog-api-key", gc.apiKey)

	resp, err := gc.httpClient.Do(req)
	if err != nil {
		return nil, &RequestError{Err: err}
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &RequestError{Err: fmt.Errorf("failed to read response body: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		status := resp.Status
		if status == "" {
			status = fmt.Sprintf("%d %s", resp.StatusCode, http.StatusText(resp.StatusCode))
		}
		return nil, &StatusError{StatusCode: resp.StatusCode, Status: status, Body: string(b)}
	}

	var parsed Response
	err = json.Unmarshal(b, &parsed)
	if err != nil {
		return nil, &ParseError{Err: err}
	}
	return &parsed, nil
}

func (gc *GeminiClient) endpoint() string {
	return fmt.Sprintf("%s/models/%s:generateContent", gc.baseURL, url.PathEscape(gc.model))
}

var _ Generator = (*GeminiClient)(nil)

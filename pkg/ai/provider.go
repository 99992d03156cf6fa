package ai

import (
	"context"
	"errors"
)

// ErrMissingCredential is returned at request time when no API key is configured.
var ErrMissingCredential = errors.New("missing API credential")

// Message represents a single chat message for LLM requests.
type Message struct {
	Role    string
	Content string
}

// ChatRequest defines the input to an LLM chat completion.
type ChatRequest struct {
	Model       string
	Messages    []Message
	Temperature *float64
	TopP        *float64
	MaxTokens   *int
}

// Choice is one candidate reply. Content is nil when the API returned no content
// (null or absent), which is distinct from an empty string.
type Choice struct {
	Index        int
	Content      *string
	FinishReason string
}

// ChatResponse is a normalized, typed response from an LLM.
type ChatResponse struct {
	Model   string
	Choices []Choice
}

// FirstContent returns the content of the first choice, if there is one and it is non-null.
func (r ChatResponse) FirstContent() (string, bool) {
	if len(r.Choices) == 0 || r.Choices[0].Content == nil {
		return "", false
	}
	return *r.Choices[0].Content, true
}

// Provider defines the LLM interface used by the app.
type Provider interface {
	CreateChatCompletion(ctx context.Context, req ChatRequest) (ChatResponse, error)
}

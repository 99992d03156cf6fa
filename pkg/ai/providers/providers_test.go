package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"

	"chatbridge/pkg/ai"
	"chatbridge/pkg/config"

	openai "github.com/openai/openai-go/v3"
)

type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func newTestClient(rt roundTripperFunc) *http.Client {
	return &http.Client{Transport: rt}
}

func newHTTPResponse(req *http.Request, status int, contentType string, body []byte) *http.Response {
	resp := &http.Response{
		Status:     fmt.Sprintf("%d %s", status, http.StatusText(status)),
		StatusCode: status,
		Header:     make(http.Header),
		Body:       io.NopCloser(bytes.NewReader(body)),
		Request:    req,
	}
	if contentType != "" {
		resp.Header.Set("Content-Type", contentType)
	}
	return resp
}

func newJSONResponse(t *testing.T, req *http.Request, status int, payload any) *http.Response {
	t.Helper()
	data, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal response: %v", err)
	}
	return newHTTPResponse(req, status, "application/json", data)
}

func completionPayload(choices ...any) map[string]any {
	return map[string]any{
		"id":      "chatcmpl-1",
		"object":  "chat.completion",
		"created": 1,
		"model":   "gpt-4o",
		"choices": choices,
	}
}

func choicePayload(content any) map[string]any {
	return map[string]any{
		"index": 0,
		"message": map[string]any{
			"role":    "assistant",
			"content": content,
		},
		"finish_reason": "stop",
	}
}

func testOpenAIConfig() config.OpenAIConfig {
	cfg := config.Default().Providers.OpenAI
	cfg.APIKey = "test-token"
	cfg.APIURL = "https://models.test"
	return cfg
}

func TestOpenAIProvider_CreateChatCompletion(t *testing.T) {
	var gotPath string
	var gotAuth string
	var gotPayload map[string]any

	client := newTestClient(func(req *http.Request) (*http.Response, error) {
		gotPath = req.URL.Path
		gotAuth = req.Header.Get("Authorization")

		if req.Body == nil {
			t.Fatalf("expected request body")
		}
		if err := json.NewDecoder(req.Body).Decode(&gotPayload); err != nil {
			t.Fatalf("failed to decode request body: %v", err)
		}
		_ = req.Body.Close()

		return newJSONResponse(t, req, http.StatusOK, completionPayload(choicePayload("Hello!"))), nil
	})

	provider, err := NewOpenAIProviderWithHTTPClient(testOpenAIConfig(), client)
	if err != nil {
		t.Fatalf("NewOpenAIProviderWithHTTPClient() error: %v", err)
	}

	resp, err := provider.CreateChatCompletion(context.Background(), ai.ChatRequest{
		Messages: []ai.Message{
			{Role: "system", Content: "You are a helpful assistant."},
			{Role: "user", Content: "hello"},
		},
	})
	if err != nil {
		t.Fatalf("CreateChatCompletion() error: %v", err)
	}

	content, ok := resp.FirstContent()
	if !ok || content != "Hello!" {
		t.Fatalf("Expected content 'Hello!', got %q (ok=%v)", content, ok)
	}
	if resp.Choices[0].FinishReason != "stop" {
		t.Fatalf("Expected finish reason 'stop', got %q", resp.Choices[0].FinishReason)
	}

	if gotPath != "/chat/completions" {
		t.Fatalf("Expected path '/chat/completions', got %q", gotPath)
	}
	if gotAuth != "Bearer test-token" {
		t.Fatalf("Expected Authorization header, got %q", gotAuth)
	}

	if model, _ := gotPayload["model"].(string); model != "gpt-4o" {
		t.Fatalf("Expected model 'gpt-4o', got %q", model)
	}

	messages, ok := gotPayload["messages"].([]any)
	if !ok || len(messages) != 2 {
		t.Fatalf("Expected 2 messages, got %v", gotPayload["messages"])
	}
	first, _ := messages[0].(map[string]any)
	if first["role"] != "system" || first["content"] != "You are a helpful assistant." {
		t.Fatalf("Unexpected system message: %v", first)
	}
	second, _ := messages[1].(map[string]any)
	if second["role"] != "user" || second["content"] != "hello" {
		t.Fatalf("Unexpected user message: %v", second)
	}

	temp, _ := gotPayload["temperature"].(float64)
	if math.Abs(temp-1.0) > 0.0001 {
		t.Fatalf("Expected temperature 1.0, got %v", gotPayload["temperature"])
	}
	topP, _ := gotPayload["top_p"].(float64)
	if math.Abs(topP-1.0) > 0.0001 {
		t.Fatalf("Expected top_p 1.0, got %v", gotPayload["top_p"])
	}
	maxTokens, _ := gotPayload["max_tokens"].(float64)
	if int(maxTokens) != 1000 {
		t.Fatalf("Expected max_tokens 1000, got %v", gotPayload["max_tokens"])
	}
}

func TestOpenAIProvider_RequestOverrides(t *testing.T) {
	var gotPayload map[string]any

	client := newTestClient(func(req *http.Request) (*http.Response, error) {
		if err := json.NewDecoder(req.Body).Decode(&gotPayload); err != nil {
			t.Fatalf("failed to decode request body: %v", err)
		}
		return newJSONResponse(t, req, http.StatusOK, completionPayload(choicePayload("ok"))), nil
	})

	provider, err := NewOpenAIProviderWithHTTPClient(testOpenAIConfig(), client)
	if err != nil {
		t.Fatalf("NewOpenAIProviderWithHTTPClient() error: %v", err)
	}

	temperature := 0.2
	topP := 0.5
	maxTokens := 10
	_, err = provider.CreateChatCompletion(context.Background(), ai.ChatRequest{
		Model:       "gpt-4o-mini",
		Messages:    []ai.Message{{Role: "user", Content: "hi"}},
		Temperature: &temperature,
		TopP:        &topP,
		MaxTokens:   &maxTokens,
	})
	if err != nil {
		t.Fatalf("CreateChatCompletion() error: %v", err)
	}

	if gotPayload["model"] != "gpt-4o-mini" {
		t.Fatalf("Expected model override, got %v", gotPayload["model"])
	}
	if v, _ := gotPayload["temperature"].(float64); math.Abs(v-0.2) > 0.0001 {
		t.Fatalf("Expected temperature 0.2, got %v", gotPayload["temperature"])
	}
	if v, _ := gotPayload["top_p"].(float64); math.Abs(v-0.5) > 0.0001 {
		t.Fatalf("Expected top_p 0.5, got %v", gotPayload["top_p"])
	}
	if v, _ := gotPayload["max_tokens"].(float64); int(v) != 10 {
		t.Fatalf("Expected max_tokens 10, got %v", gotPayload["max_tokens"])
	}
}

func TestOpenAIProvider_NullAndMissingContent(t *testing.T) {
	tests := []struct {
		name    string
		payload map[string]any
		choices int
	}{
		{"null content", completionPayload(choicePayload(nil)), 1},
		{"missing content", completionPayload(map[string]any{
			"index":         0,
			"message":       map[string]any{"role": "assistant"},
			"finish_reason": "content_filter",
		}), 1},
		{"no choices", completionPayload(), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(func(req *http.Request) (*http.Response, error) {
				return newJSONResponse(t, req, http.StatusOK, tt.payload), nil
			})
			provider, err := NewOpenAIProviderWithHTTPClient(testOpenAIConfig(), client)
			if err != nil {
				t.Fatalf("NewOpenAIProviderWithHTTPClient() error: %v", err)
			}

			resp, err := provider.CreateChatCompletion(context.Background(), ai.ChatRequest{
				Messages: []ai.Message{{Role: "user", Content: "hi"}},
			})
			if err != nil {
				t.Fatalf("CreateChatCompletion() error: %v", err)
			}
			if len(resp.Choices) != tt.choices {
				t.Fatalf("Expected %d choices, got %d", tt.choices, len(resp.Choices))
			}
			if tt.choices > 0 && resp.Choices[0].Content != nil {
				t.Fatalf("Expected nil content, got %q", *resp.Choices[0].Content)
			}
			if _, ok := resp.FirstContent(); ok {
				t.Fatal("Expected FirstContent to report no content")
			}
		})
	}
}

func TestOpenAIProvider_EmptyStringContentIsPresent(t *testing.T) {
	client := newTestClient(func(req *http.Request) (*http.Response, error) {
		return newJSONResponse(t, req, http.StatusOK, completionPayload(choicePayload(""))), nil
	})
	provider, err := NewOpenAIProviderWithHTTPClient(testOpenAIConfig(), client)
	if err != nil {
		t.Fatalf("NewOpenAIProviderWithHTTPClient() error: %v", err)
	}

	resp, err := provider.CreateChatCompletion(context.Background(), ai.ChatRequest{
		Messages: []ai.Message{{Role: "user", Content: "hi"}},
	})
	if err != nil {
		t.Fatalf("CreateChatCompletion() error: %v", err)
	}
	content, ok := resp.FirstContent()
	if !ok || content != "" {
		t.Fatalf("Expected present empty content, got %q (ok=%v)", content, ok)
	}
}

func TestOpenAIProvider_UnauthorizedIsNotRetried(t *testing.T) {
	var calls int32
	client := newTestClient(func(req *http.Request) (*http.Response, error) {
		atomic.AddInt32(&calls, 1)
		return newJSONResponse(t, req, http.StatusUnauthorized, map[string]any{
			"error": map[string]any{
				"code":    "unauthorized",
				"message": "Bad credentials",
			},
		}), nil
	})
	provider, err := NewOpenAIProviderWithHTTPClient(testOpenAIConfig(), client)
	if err != nil {
		t.Fatalf("NewOpenAIProviderWithHTTPClient() error: %v", err)
	}

	_, err = provider.CreateChatCompletion(context.Background(), ai.ChatRequest{
		Messages: []ai.Message{{Role: "user", Content: "hi"}},
	})
	if err == nil {
		t.Fatal("Expected error for 401 response")
	}

	var apiErr *openai.Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("Expected *openai.Error, got %T: %v", err, err)
	}
	if apiErr.StatusCode != http.StatusUnauthorized {
		t.Fatalf("Expected status 401, got %d", apiErr.StatusCode)
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Fatalf("Expected exactly one request, got %d", got)
	}
}

func TestOpenAIProvider_TransportError(t *testing.T) {
	client := newTestClient(func(req *http.Request) (*http.Response, error) {
		return nil, errors.New("ECONNRESET")
	})
	provider, err := NewOpenAIProviderWithHTTPClient(testOpenAIConfig(), client)
	if err != nil {
		t.Fatalf("NewOpenAIProviderWithHTTPClient() error: %v", err)
	}

	_, err = provider.CreateChatCompletion(context.Background(), ai.ChatRequest{
		Messages: []ai.Message{{Role: "user", Content: "hi"}},
	})
	if err == nil {
		t.Fatal("Expected transport error")
	}
	var urlErr *url.Error
	if !errors.As(err, &urlErr) {
		t.Fatalf("Expected *url.Error, got %T: %v", err, err)
	}
	if urlErr.Err.Error() != "ECONNRESET" {
		t.Fatalf("Expected ECONNRESET cause, got %v", urlErr.Err)
	}
}

func TestOpenAIProvider_MissingCredential(t *testing.T) {
	var calls int32
	client := newTestClient(func(req *http.Request) (*http.Response, error) {
		atomic.AddInt32(&calls, 1)
		return nil, errors.New("should not be called")
	})

	cfg := testOpenAIConfig()
	cfg.APIKey = "  "
	provider, err := NewOpenAIProviderWithHTTPClient(cfg, client)
	if err != nil {
		t.Fatalf("Missing key must not fail construction, got: %v", err)
	}

	_, err = provider.CreateChatCompletion(context.Background(), ai.ChatRequest{
		Messages: []ai.Message{{Role: "user", Content: "hi"}},
	})
	if !errors.Is(err, ai.ErrMissingCredential) {
		t.Fatalf("Expected ErrMissingCredential, got %v", err)
	}
	if !strings.Contains(err.Error(), "GITHUB_TOKEN") {
		t.Fatalf("Expected hint about GITHUB_TOKEN, got %q", err.Error())
	}
	if atomic.LoadInt32(&calls) != 0 {
		t.Fatal("Expected no HTTP request without a credential")
	}
}

func TestOpenAIProvider_InvalidRequest(t *testing.T) {
	provider, err := NewOpenAIProviderWithHTTPClient(testOpenAIConfig(), newTestClient(nil))
	if err != nil {
		t.Fatalf("NewOpenAIProviderWithHTTPClient() error: %v", err)
	}

	if _, err := provider.CreateChatCompletion(context.Background(), ai.ChatRequest{}); err == nil {
		t.Fatal("Expected error for empty messages")
	}

	_, err = provider.CreateChatCompletion(context.Background(), ai.ChatRequest{
		Messages: []ai.Message{{Role: "tool", Content: "x"}},
	})
	if err == nil || !strings.Contains(err.Error(), "unsupported role") {
		t.Fatalf("Expected unsupported role error, got %v", err)
	}
}

func TestNewOpenAIProvider_Registered(t *testing.T) {
	cfg := config.Default()
	p, err := ai.GetProviderFromConfig(cfg)
	if err != nil {
		t.Fatalf("GetProviderFromConfig() error: %v", err)
	}
	if _, ok := p.(*OpenAIProvider); !ok {
		t.Fatalf("Expected *OpenAIProvider, got %T", p)
	}
}

package chat

import (
	"context"
	"log/slog"
	"time"

	"chatbridge/pkg/ai"
	"chatbridge/pkg/config"
)

// Settings are the fixed request parameters applied to every completion.
type Settings struct {
	SystemPrompt string
	Model        string
	Temperature  float64
	TopP         float64
	MaxTokens    int
}

// DefaultSettings returns the stock system prompt and sampling parameters.
func DefaultSettings() Settings {
	return Settings{
		SystemPrompt: config.DefaultSystemPrompt,
		Model:        config.DefaultOpenAIModel,
		Temperature:  config.DefaultTemperature,
		TopP:         config.DefaultTopP,
		MaxTokens:    config.DefaultMaxTokens,
	}
}

// SettingsFromConfig takes the system prompt and the active provider's sampling settings.
func SettingsFromConfig(cfg config.Config) Settings {
	sampling := cfg.ActiveSampling()
	return Settings{
		SystemPrompt: cfg.SystemPrompt,
		Model:        sampling.Model,
		Temperature:  sampling.Temperature,
		TopP:         sampling.TopP,
		MaxTokens:    sampling.MaxTokens,
	}
}

// Bridge turns one prompt into one Result. It keeps no per-call state and is
// safe for concurrent use when the provider is.
type Bridge struct {
	provider ai.Provider
	settings Settings
}

// NewBridge creates a Bridge over provider with the given settings.
func NewBridge(provider ai.Provider, settings Settings) *Bridge {
	return &Bridge{provider: provider, settings: settings}
}

// Settings returns the parameters the bridge sends with each request.
func (b *Bridge) Settings() Settings {
	return b.settings
}

// Complete sends prompt as a single user turn and normalizes the outcome.
// It never panics and never returns the zero Result.
func (b *Bridge) Complete(ctx context.Context, prompt string) (result Result) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			result = failureFromPanic(r)
		}
		logResult(ctx, result, time.Since(start))
	}()

	if b.provider == nil {
		return Failed(FailureUnexpected, "no chat provider configured")
	}

	resp, err := b.provider.CreateChatCompletion(ctx, b.request(prompt))
	if err != nil {
		return failureFromError(err)
	}

	text, ok := resp.FirstContent()
	if !ok {
		return Failed(FailureEmptyCompletion, NoResponseMessage)
	}
	return Succeeded(text)
}

func (b *Bridge) request(prompt string) ai.ChatRequest {
	temperature := b.settings.Temperature
	topP := b.settings.TopP
	maxTokens := b.settings.MaxTokens

	messages := make([]ai.Message, 0, 2)
	if b.settings.SystemPrompt != "" {
		messages = append(messages, ai.Message{Role: "system", Content: b.settings.SystemPrompt})
	}
	messages = append(messages, ai.Message{Role: "user", Content: prompt})

	return ai.ChatRequest{
		Model:       b.settings.Model,
		Messages:    messages,
		Temperature: &temperature,
		TopP:        &topP,
		MaxTokens:   &maxTokens,
	}
}

func logResult(ctx context.Context, result Result, elapsed time.Duration) {
	if ctx == nil {
		ctx = context.Background()
	}
	if result.IsSuccess() {
		slog.InfoContext(ctx, "chat_complete_success",
			"response_len", len(result.Text()),
			"duration_ms", elapsed.Milliseconds(),
		)
		slog.DebugContext(ctx, "chat_complete_response", "text", result.Text())
		return
	}
	slog.WarnContext(ctx, "chat_complete_failure",
		"kind", string(result.Kind()),
		"message", result.Message(),
		"duration_ms", elapsed.Milliseconds(),
	)
}

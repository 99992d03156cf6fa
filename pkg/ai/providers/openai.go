package providers

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"chatbridge/pkg/ai"
	"chatbridge/pkg/config"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

func init() {
	ai.RegisterProvider(ai.ProviderInfo{
		Type:        ai.ProviderOpenAI,
		Name:        "OpenAI-compatible",
		Description: "Chat completions over an OpenAI-compatible endpoint (GitHub Models by default)",
		CredEnv:     "GITHUB_TOKEN",
	}, NewOpenAIProvider)
}

// OpenAIProvider implements the Provider interface on any OpenAI-compatible endpoint.
type OpenAIProvider struct {
	client             openai.Client
	hasKey             bool
	defaultModel       string
	defaultTemperature float64
	defaultTopP        float64
	defaultMaxTokens   int
}

// NewOpenAIProvider creates a new OpenAI provider from config.
// A missing API key is not an error here; requests fail with ai.ErrMissingCredential instead.
func NewOpenAIProvider(cfg ai.ProviderConfig) (ai.Provider, error) {
	providerCfg := cfg.Config.Providers.OpenAI
	timeout := providerCfg.APITimeoutSeconds
	if timeout <= 0 {
		timeout = config.DefaultTimeoutSeconds
	}
	httpClient := &http.Client{Timeout: time.Duration(timeout) * time.Second}
	return NewOpenAIProviderWithHTTPClient(providerCfg, httpClient)
}

func NewOpenAIProviderWithHTTPClient(cfg config.OpenAIConfig, httpClient *http.Client) (*OpenAIProvider, error) {
	apiURL := strings.TrimSpace(cfg.APIURL)
	if apiURL == "" {
		apiURL = config.DefaultOpenAIAPIURL
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = config.DefaultOpenAIModel
	}

	apiKey := strings.TrimSpace(cfg.APIKey)
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithBaseURL(apiURL),
		option.WithMaxRetries(0),
	}
	if httpClient != nil {
		opts = append(opts, option.WithHTTPClient(httpClient))
	}

	slog.Debug("openai_provider_ready",
		"api_url", apiURL,
		"model", model,
		"has_api_key", apiKey != "",
	)

	return &OpenAIProvider{
		client:             openai.NewClient(opts...),
		hasKey:             apiKey != "",
		defaultModel:       model,
		defaultTemperature: cfg.Temperature,
		defaultTopP:        cfg.TopP,
		defaultMaxTokens:   cfg.MaxTokens,
	}, nil
}

// CreateChatCompletion sends a non-streaming chat completion request.
func (p *OpenAIProvider) CreateChatCompletion(ctx context.Context, req ai.ChatRequest) (ai.ChatResponse, error) {
	if !p.hasKey {
		return ai.ChatResponse{}, fmt.Errorf("%w: set GITHUB_TOKEN", ai.ErrMissingCredential)
	}

	params, err := p.buildChatParams(req)
	if err != nil {
		return ai.ChatResponse{}, err
	}

	resp, err := p.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return ai.ChatResponse{}, err
	}

	out := ai.ChatResponse{
		Model:   resp.Model,
		Choices: make([]ai.Choice, 0, len(resp.Choices)),
	}
	for _, choice := range resp.Choices {
		c := ai.Choice{
			Index:        int(choice.Index),
			FinishReason: string(choice.FinishReason),
		}
		// Valid reports whether "content" was present and non-null.
		if choice.Message.JSON.Content.Valid() {
			content := choice.Message.Content
			c.Content = &content
		}
		out.Choices = append(out.Choices, c)
	}
	return out, nil
}

func (p *OpenAIProvider) buildChatParams(req ai.ChatRequest) (openai.ChatCompletionNewParams, error) {
	model := strings.TrimSpace(req.Model)
	if model == "" {
		model = p.defaultModel
	}
	if len(req.Messages) == 0 {
		return openai.ChatCompletionNewParams{}, fmt.Errorf("messages are required")
	}

	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(req.Messages))
	for _, msg := range req.Messages {
		param, err := toChatMessageParam(msg)
		if err != nil {
			return openai.ChatCompletionNewParams{}, err
		}
		messages = append(messages, param)
	}

	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(model),
		Messages: messages,
	}

	temperature := p.defaultTemperature
	if req.Temperature != nil {
		temperature = *req.Temperature
	}
	params.Temperature = openai.Float(temperature)

	topP := p.defaultTopP
	if req.TopP != nil {
		topP = *req.TopP
	}
	if topP > 0 {
		params.TopP = openai.Float(topP)
	}

	maxTokens := p.defaultMaxTokens
	if req.MaxTokens != nil {
		maxTokens = *req.MaxTokens
	}
	if maxTokens > 0 {
		params.MaxTokens = openai.Int(int64(maxTokens))
	}

	return params, nil
}

func toChatMessageParam(msg ai.Message) (openai.ChatCompletionMessageParamUnion, error) {
	role := strings.ToLower(strings.TrimSpace(msg.Role))
	switch role {
	case "system":
		return openai.SystemMessage(msg.Content), nil
	case "user":
		return openai.UserMessage(msg.Content), nil
	case "assistant":
		return openai.AssistantMessage(msg.Content), nil
	case "developer":
		return openai.DeveloperMessage(msg.Content), nil
	default:
		return openai.ChatCompletionMessageParamUnion{}, fmt.Errorf("unsupported role: %s", msg.Role)
	}
}

// Ensure interface compliance
var _ ai.Provider = (*OpenAIProvider)(nil)

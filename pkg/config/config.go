package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

const (
	DefaultOpenAIAPIURL   = "https://models.inference.ai.azure.com"
	DefaultOpenAIModel    = "gpt-4o"
	DefaultGoogleModel    = "gemini-2.5-flash"
	DefaultSystemPrompt   = "You are a helpful assistant."
	DefaultTemperature    = 1.0
	DefaultTopP           = 1.0
	DefaultMaxTokens      = 1000
	DefaultTimeoutSeconds = 60
	DefaultServerAddr     = ":8080"
)

// Config represents the application configuration
type Config struct {
	LLMProvider  string          `json:"llm_provider"`
	Providers    ProvidersConfig `json:"providers"`
	SystemPrompt string          `json:"system_prompt"`
	Server       ServerConfig    `json:"server"`
	LogLevel     string          `json:"log_level"`
	LogFormat    string          `json:"log_format"`
	LogFile      string          `json:"log_file"`
}

// ProvidersConfig holds per-provider settings.
type ProvidersConfig struct {
	OpenAI OpenAIConfig `json:"openai"`
	Google GoogleConfig `json:"google"`
}

// OpenAIConfig holds settings for any OpenAI-compatible chat completions endpoint.
type OpenAIConfig struct {
	APIKey            string  `json:"api_key"`
	APIURL            string  `json:"api_url"`
	Model             string  `json:"model"`
	Temperature       float64 `json:"temperature"`
	TopP              float64 `json:"top_p"`
	MaxTokens         int     `json:"max_tokens"`
	APITimeoutSeconds int     `json:"api_timeout_seconds"`
}

// GoogleConfig holds settings for the Gemini API.
type GoogleConfig struct {
	APIKey            string  `json:"api_key"`
	Model             string  `json:"model"`
	Temperature       float64 `json:"temperature"`
	TopP              float64 `json:"top_p"`
	MaxTokens         int     `json:"max_tokens"`
	APITimeoutSeconds int     `json:"api_timeout_seconds"`
}

// ServerConfig holds the web UI listener settings.
type ServerConfig struct {
	Addr string `json:"addr"`
}

// Sampling is the provider-independent view of the active sampling settings.
type Sampling struct {
	Model       string
	Temperature float64
	TopP        float64
	MaxTokens   int
	Timeout     int
}

// Default returns a configuration with default values
func Default() Config {
	return Config{
		LLMProvider: "openai",
		Providers: ProvidersConfig{
			OpenAI: OpenAIConfig{
				APIURL:            DefaultOpenAIAPIURL,
				Model:             DefaultOpenAIModel,
				Temperature:       DefaultTemperature,
				TopP:              DefaultTopP,
				MaxTokens:         DefaultMaxTokens,
				APITimeoutSeconds: DefaultTimeoutSeconds,
			},
			Google: GoogleConfig{
				Model:             DefaultGoogleModel,
				Temperature:       DefaultTemperature,
				TopP:              DefaultTopP,
				MaxTokens:         DefaultMaxTokens,
				APITimeoutSeconds: DefaultTimeoutSeconds,
			},
		},
		SystemPrompt: DefaultSystemPrompt,
		Server:       ServerConfig{Addr: DefaultServerAddr},
		LogLevel:     "info",
		LogFormat:    "json",
	}
}

// Load loads configuration from the specified path.
// If the file doesn't exist, creates one with default values.
// Environment overrides are applied last and are never written back to disk.
func Load(configPath string) (Config, error) {
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return Config{}, fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			cfg := Default()
			if err := Save(configPath, cfg); err != nil {
				return Config{}, fmt.Errorf("failed to create default config: %w", err)
			}
			return applyEnvironmentOverrides(cfg), nil
		}
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}

	// Unmarshal over defaults so keys missing from older files keep sane values.
	cfg := Default()
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	return applyEnvironmentOverrides(cfg), nil
}

// Save saves the configuration to the specified path
func Save(configPath string, cfg Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

func applyEnvironmentOverrides(cfg Config) Config {
	// The GitHub Models endpoint authenticates with a GitHub token.
	if token := strings.TrimSpace(os.Getenv("GITHUB_TOKEN")); token != "" {
		cfg.Providers.OpenAI.APIKey = token
	}
	if key := strings.TrimSpace(os.Getenv("CHATBRIDGE_API_KEY")); key != "" {
		cfg.Providers.OpenAI.APIKey = key
	}
	if url := strings.TrimSpace(os.Getenv("CHATBRIDGE_API_URL")); url != "" {
		cfg.Providers.OpenAI.APIURL = url
	}
	if key := strings.TrimSpace(os.Getenv("GEMINI_API_KEY")); key != "" {
		cfg.Providers.Google.APIKey = key
	}
	if provider := strings.TrimSpace(os.Getenv("CHATBRIDGE_PROVIDER")); provider != "" {
		cfg.LLMProvider = strings.ToLower(provider)
	}
	if model := strings.TrimSpace(os.Getenv("CHATBRIDGE_MODEL")); model != "" {
		cfg.SetModel(model)
	}
	if tempStr := os.Getenv("CHATBRIDGE_TEMPERATURE"); tempStr != "" {
		if temp, err := strconv.ParseFloat(tempStr, 64); err == nil && temp >= 0 && temp <= 2 {
			cfg.Providers.OpenAI.Temperature = temp
			cfg.Providers.Google.Temperature = temp
		}
	}
	if tokensStr := os.Getenv("CHATBRIDGE_MAX_TOKENS"); tokensStr != "" {
		if tokens, err := strconv.Atoi(tokensStr); err == nil && tokens > 0 {
			cfg.Providers.OpenAI.MaxTokens = tokens
			cfg.Providers.Google.MaxTokens = tokens
		}
	}
	if level := strings.ToLower(strings.TrimSpace(os.Getenv("CHATBRIDGE_LOG_LEVEL"))); level != "" {
		switch level {
		case "trace", "debug", "info", "warn", "error":
			cfg.LogLevel = level
		}
	}
	if addr := strings.TrimSpace(os.Getenv("CHATBRIDGE_ADDR")); addr != "" {
		cfg.Server.Addr = addr
	}
	return cfg
}

// SetModel sets the model of the active provider.
func (c *Config) SetModel(model string) {
	switch c.LLMProvider {
	case "google":
		c.Providers.Google.Model = model
	default:
		c.Providers.OpenAI.Model = model
	}
}

// ActiveSampling returns model and sampling settings of the selected provider.
func (c Config) ActiveSampling() Sampling {
	if c.LLMProvider == "google" {
		g := c.Providers.Google
		return Sampling{Model: g.Model, Temperature: g.Temperature, TopP: g.TopP, MaxTokens: g.MaxTokens, Timeout: g.APITimeoutSeconds}
	}
	o := c.Providers.OpenAI
	return Sampling{Model: o.Model, Temperature: o.Temperature, TopP: o.TopP, MaxTokens: o.MaxTokens, Timeout: o.APITimeoutSeconds}
}

// Validate checks if the configuration is valid.
// A missing API key is not an error here; it surfaces when a request is made.
func (c Config) Validate() error {
	switch c.LLMProvider {
	case "openai", "google":
	default:
		return fmt.Errorf("unsupported LLM provider: %s", c.LLMProvider)
	}

	if c.LLMProvider == "openai" && strings.TrimSpace(c.Providers.OpenAI.APIURL) == "" {
		return fmt.Errorf("api_url is required for the openai provider")
	}

	s := c.ActiveSampling()
	if strings.TrimSpace(s.Model) == "" {
		return fmt.Errorf("model is required for provider %s", c.LLMProvider)
	}
	if s.Temperature < 0 || s.Temperature > 2 {
		return fmt.Errorf("temperature must be between 0 and 2, got: %f", s.Temperature)
	}
	if s.TopP < 0 || s.TopP > 1 {
		return fmt.Errorf("top_p must be between 0 and 1, got: %f", s.TopP)
	}
	if s.MaxTokens <= 0 {
		return fmt.Errorf("max_tokens must be positive, got: %d", s.MaxTokens)
	}
	if s.Timeout <= 0 {
		return fmt.Errorf("api_timeout_seconds must be positive, got: %d", s.Timeout)
	}
	if strings.TrimSpace(c.SystemPrompt) == "" {
		return fmt.Errorf("system_prompt must not be empty")
	}

	switch strings.ToLower(strings.TrimSpace(c.LogLevel)) {
	case "", "trace", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("invalid log_level: %s", c.LogLevel)
	}

	switch strings.ToLower(strings.TrimSpace(c.LogFormat)) {
	case "", "json", "text":
	default:
		return fmt.Errorf("invalid log_format: %s", c.LogFormat)
	}

	return nil
}

// GetConfigPath returns the default configuration file path
func GetConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".chatbridge/config.json"
	}
	return filepath.Join(homeDir, ".chatbridge", "config.json")
}

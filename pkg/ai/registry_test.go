package ai

import (
	"context"
	"testing"

	"chatbridge/pkg/config"
)

type staticProvider struct{ name string }

func (p staticProvider) CreateChatCompletion(ctx context.Context, req ChatRequest) (ChatResponse, error) {
	content := p.name
	return ChatResponse{Choices: []Choice{{Content: &content}}}, nil
}

func TestNewRegistry(t *testing.T) {
	r := NewRegistry()
	if r == nil {
		t.Fatal("expected registry, got nil")
	}
	if r.factories == nil {
		t.Fatal("expected factories map, got nil")
	}
	if r.info == nil {
		t.Fatal("expected info map, got nil")
	}
}

func TestRegistry_Register(t *testing.T) {
	r := NewRegistry()

	info := ProviderInfo{
		Type:        "test-provider",
		Name:        "Test Provider",
		Description: "A test provider",
		CredEnv:     "TEST_KEY",
	}

	r.Register(info, func(cfg ProviderConfig) (Provider, error) {
		return staticProvider{name: "test"}, nil
	})

	if !r.IsRegistered("test-provider") {
		t.Fatal("expected provider to be registered")
	}

	gotInfo, ok := r.GetProviderInfo("test-provider")
	if !ok {
		t.Fatal("expected to find provider info")
	}
	if gotInfo.Name != "Test Provider" {
		t.Fatalf("expected name 'Test Provider', got %q", gotInfo.Name)
	}

	p, err := r.GetProvider(ProviderConfig{Type: "test-provider"})
	if err != nil {
		t.Fatalf("GetProvider() error: %v", err)
	}
	resp, err := p.CreateChatCompletion(context.Background(), ChatRequest{})
	if err != nil {
		t.Fatalf("CreateChatCompletion() error: %v", err)
	}
	if got, _ := resp.FirstContent(); got != "test" {
		t.Fatalf("expected content 'test', got %q", got)
	}
}

func TestRegistry_GetProvider_UnknownType(t *testing.T) {
	r := NewRegistry()

	_, err := r.GetProvider(ProviderConfig{Type: "unknown"})
	if err == nil {
		t.Fatal("expected error for unknown provider type")
	}
}

func TestRegistry_ListProvidersSorted(t *testing.T) {
	r := NewRegistry()
	factory := func(cfg ProviderConfig) (Provider, error) { return staticProvider{}, nil }
	r.Register(ProviderInfo{Type: "zeta"}, factory)
	r.Register(ProviderInfo{Type: "alpha"}, factory)

	list := r.ListProviders()
	if len(list) != 2 {
		t.Fatalf("expected 2 providers, got %d", len(list))
	}
	if list[0].Type != "alpha" || list[1].Type != "zeta" {
		t.Fatalf("expected sorted providers, got %v", list)
	}
}

func TestValidateProviderType(t *testing.T) {
	tests := []struct {
		in   string
		want ProviderType
		ok   bool
	}{
		{"openai", ProviderOpenAI, true},
		{" Google ", ProviderGoogle, true},
		{"anthropic", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		got, ok := ValidateProviderType(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ValidateProviderType(%q) = (%q, %v), want (%q, %v)", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestGetProviderFromConfig_Unsupported(t *testing.T) {
	cfg := config.Default()
	cfg.LLMProvider = "nope"

	if _, err := GetProviderFromConfig(cfg); err == nil {
		t.Fatal("expected error for unsupported provider")
	}
}

func TestChatResponse_FirstContent(t *testing.T) {
	hello := "Hello!"
	empty := ""

	tests := []struct {
		name   string
		resp   ChatResponse
		want   string
		wantOK bool
	}{
		{"no choices", ChatResponse{}, "", false},
		{"null content", ChatResponse{Choices: []Choice{{Content: nil}}}, "", false},
		{"empty content", ChatResponse{Choices: []Choice{{Content: &empty}}}, "", true},
		{"content", ChatResponse{Choices: []Choice{{Content: &hello}}}, "Hello!", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.resp.FirstContent()
			if got != tt.want || ok != tt.wantOK {
				t.Fatalf("FirstContent() = (%q, %v), want (%q, %v)", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

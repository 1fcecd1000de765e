package generator

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProviderForModel(t *testing.T) {
	tests := map[string]string{
		"gpt-4":            ProviderOpenAI,
		"claude-2":         ProviderOpenAI,
		"gemini-2.5-flash": ProviderGemini,
		"ollama:llama3":    ProviderOllama,
		"mock":             ProviderMock,
	}
	for model, want := range tests {
		assert.Equal(t, want, ProviderForModel(model), model)
	}
}

func TestIsCredentialError(t *testing.T) {
	assert.True(t, IsCredentialError(errors.New("AuthenticationError: Incorrect API key provided")))
	assert.True(t, IsCredentialError(errors.New("missing api_key")))
	assert.True(t, IsCredentialError(fmt.Errorf("wrapped: %w", ErrCredential)))
	assert.False(t, IsCredentialError(errors.New("rate limit exceeded")))
	assert.False(t, IsCredentialError(nil))
}

func TestNewLLMRequiresKey(t *testing.T) {
	_, err := NewLLM(&LLMSettings{Provider: ProviderOpenAI, Model: "gpt-4"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCredential)

	_, err = NewLLM(&LLMSettings{Model: "gemini-2.5-flash"})
	assert.ErrorIs(t, err, ErrCredential)
}

func TestNewLLMSelectsProvider(t *testing.T) {
	llm, err := NewLLM(&LLMSettings{Model: "mock"})
	require.NoError(t, err)
	assert.IsType(t, MockLLM{}, llm)

	llm, err = NewLLM(&LLMSettings{Model: "ollama:llama3"})
	require.NoError(t, err)
	assert.IsType(t, &OllamaLLM{}, llm)

	llm, err = NewLLM(&LLMSettings{Provider: "deepseek", Model: "deepseek-chat", APIKey: "k", BaseURL: "https://example.invalid/v1"})
	require.NoError(t, err)
	o := llm.(*OpenAILLM)
	assert.Equal(t, defaultTemperature, o.Temperature)
	assert.Equal(t, defaultMaxTokens, o.MaxTokens)

	_, err = NewLLM(&LLMSettings{Provider: "carrier-pigeon"})
	assert.Error(t, err)
}

func TestMockLLMUsesRequestedName(t *testing.T) {
	user := BuildUserPrompt(Request{Name: "SneezeGame"})
	raw, err := MockLLM{}.Complete(context.Background(), "mock", Prompt{User: user})
	require.NoError(t, err)

	code := ExtractCode(raw)
	assert.Contains(t, code, "export default class SneezeGame extends BaseMicrogame")
	assert.Contains(t, code, "super({ key: 'SneezeGame' })")
	assert.NotContains(t, code, "```")
}

type recordingLLM struct {
	provider string
	models   []string
}

func (r *recordingLLM) Complete(_ context.Context, model string, _ Prompt) (string, error) {
	r.models = append(r.models, model)
	return r.provider, nil
}

func TestLLMRouterPicksProviderPerModel(t *testing.T) {
	built := map[string]*recordingLLM{}
	router, err := NewLLMRouter("", func(provider string) (LLMClient, error) {
		c := &recordingLLM{provider: provider}
		built[provider] = c
		return c, nil
	})
	require.NoError(t, err)

	tests := []struct {
		model, want string
	}{
		{"gpt-4", ProviderOpenAI},
		{"gemini-1.5-pro", ProviderGemini},
		{"ollama:llama3", ProviderOllama},
		{"gpt-3.5-turbo", ProviderOpenAI},
	}
	for _, tt := range tests {
		got, err := router.Complete(context.Background(), tt.model, Prompt{})
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, tt.model)
	}

	assert.Len(t, built, 3, "one client per provider")
	assert.Equal(t, []string{"gpt-4", "gpt-3.5-turbo"}, built[ProviderOpenAI].models)
	assert.Equal(t, []string{"ollama:llama3"}, built[ProviderOllama].models)
}

func TestLLMRouterFixedProvider(t *testing.T) {
	var providers []string
	router, err := NewLLMRouter("deepseek", func(provider string) (LLMClient, error) {
		providers = append(providers, provider)
		return &recordingLLM{provider: provider}, nil
	})
	require.NoError(t, err)

	got, err := router.Complete(context.Background(), "gemini-1.5-pro", Prompt{})
	require.NoError(t, err)
	assert.Equal(t, "deepseek", got)
	assert.Equal(t, []string{"deepseek"}, providers)
}

func TestLLMRouterBuildError(t *testing.T) {
	router, err := NewLLMRouter("", func(provider string) (LLMClient, error) {
		return NewLLM(&LLMSettings{Provider: provider})
	})
	require.NoError(t, err)

	_, err = router.Complete(context.Background(), "gemini-1.5-pro", Prompt{})
	assert.ErrorIs(t, err, ErrCredential)

	_, err = NewLLMRouter("", nil)
	assert.Error(t, err)
}

package generator

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// LLMClient 抽象大模型客户端，便于替换/Mock。
type LLMClient interface {
	Complete(ctx context.Context, model string, prompt Prompt) (string, error)
}

// LLMSettings 提供给具体实现的基础配置。
type LLMSettings struct {
	Provider    string
	Model       string
	APIKey      string
	BaseURL     string
	Temperature float64
	MaxTokens   int
}

// 支持的 provider。
const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
	ProviderOllama = "ollama"
	ProviderMock   = "mock"
)

const (
	defaultTemperature = 0.7
	defaultMaxTokens   = 2000
)

func (s *LLMSettings) temperature() float64 {
	if s.Temperature <= 0 {
		return defaultTemperature
	}
	return s.Temperature
}

func (s *LLMSettings) maxTokens() int {
	if s.MaxTokens <= 0 {
		return defaultMaxTokens
	}
	return s.MaxTokens
}

// ProviderForModel 根据模型名推断后端。
func ProviderForModel(model string) string {
	m := strings.ToLower(strings.TrimSpace(model))
	switch {
	case strings.HasPrefix(m, "gemini"):
		return ProviderGemini
	case strings.HasPrefix(m, "ollama:"):
		return ProviderOllama
	case m == ProviderMock:
		return ProviderMock
	default:
		return ProviderOpenAI
	}
}

// NewLLM 按 settings.Provider 创建客户端；未设置时按 settings.Model 推断。
func NewLLM(settings *LLMSettings) (LLMClient, error) {
	if settings == nil {
		return nil, errors.New("llm config is nil")
	}
	provider := settings.Provider
	if provider == "" {
		provider = ProviderForModel(settings.Model)
	}
	switch provider {
	case ProviderOpenAI, "deepseek", "litellm":
		return NewOpenAILLMFromConfig(settings)
	case ProviderGemini:
		return NewGeminiLLMFromConfig(settings)
	case ProviderOllama:
		return NewOllamaLLMFromConfig(settings)
	case ProviderMock:
		return MockLLM{}, nil
	default:
		return nil, fmt.Errorf("llm provider %s not supported", provider)
	}
}

var credentialHints = []string{"api_key", "api key", "apikey", "api-key"}

// IsCredentialError 判断 err 是否是 API key 缺失或被拒。
// 后端只给出错误文本，所以按子串匹配。
func IsCredentialError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrCredential) {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, hint := range credentialHints {
		if strings.Contains(msg, hint) {
			return true
		}
	}
	return false
}

package generator

import (
	"context"
	"errors"
	"fmt"
	"strings"

	ollama "github.com/ollama/ollama/api"
)

// OllamaLLM 调用本地 Ollama 服务（OLLAMA_HOST），模型名可带 "ollama:" 前缀。
type OllamaLLM struct {
	Model       string
	Temperature float64
	MaxTokens   int
}

func NewOllamaLLMFromConfig(cfg *LLMSettings) (*OllamaLLM, error) {
	if cfg == nil {
		return nil, errors.New("llm config is nil")
	}
	return &OllamaLLM{
		Model:       cfg.Model,
		Temperature: cfg.temperature(),
		MaxTokens:   cfg.maxTokens(),
	}, nil
}

func (o *OllamaLLM) Complete(ctx context.Context, model string, prompt Prompt) (string, error) {
	if model == "" {
		model = o.Model
	}
	model = strings.TrimPrefix(model, "ollama:")
	if model == "" {
		return "", errors.New("llm model is required")
	}
	client, err := ollama.ClientFromEnvironment()
	if err != nil {
		return "", fmt.Errorf("could not create ollama client: %w", err)
	}

	var msgs []ollama.Message
	for _, m := range prompt.Messages() {
		msgs = append(msgs, ollama.Message{Role: m.Role, Content: m.Content})
	}
	stream := false
	req := &ollama.ChatRequest{
		Model:    model,
		Messages: msgs,
		Stream:   &stream,
		Options: map[string]interface{}{
			"temperature": o.Temperature,
			"num_predict": o.MaxTokens,
		},
	}

	var out strings.Builder
	err = client.Chat(ctx, req, func(res ollama.ChatResponse) error {
		out.WriteString(res.Message.Content)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("ollama chat failed: %w", err)
	}
	return out.String(), nil
}

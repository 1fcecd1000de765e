package generator

import (
	"context"
	"errors"
	"fmt"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// OpenAILLM 基于官方 openai-go SDK（chat completions）实现 LLMClient。
// 通过 BaseURL 可接入任意 OpenAI 兼容接口（DeepSeek、LiteLLM 代理）。
type OpenAILLM struct {
	Model       string
	Temperature float64
	MaxTokens   int
	Opts        []option.RequestOption
}

func NewOpenAILLMFromConfig(cfg *LLMSettings) (*OpenAILLM, error) {
	if cfg == nil {
		return nil, errors.New("llm config is nil")
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: openai api key missing; provide llm.api_key or OPENAI_API_KEY", ErrCredential)
	}
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	return &OpenAILLM{
		Model:       cfg.Model,
		Temperature: cfg.temperature(),
		MaxTokens:   cfg.maxTokens(),
		Opts:        opts,
	}, nil
}

func (o *OpenAILLM) Complete(ctx context.Context, model string, prompt Prompt) (string, error) {
	if model == "" {
		model = o.Model
	}
	if model == "" {
		return "", errors.New("llm model is required")
	}
	client := openai.NewClient(o.Opts...)

	msgs := make([]openai.ChatCompletionMessageParamUnion, 0, 2)
	for _, m := range prompt.Messages() {
		switch m.Role {
		case "system":
			msgs = append(msgs, openai.SystemMessage(m.Content))
		default:
			msgs = append(msgs, openai.UserMessage(m.Content))
		}
	}

	resp, err := client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(model),
		Messages:    msgs,
		Temperature: openai.Float(o.Temperature),
		MaxTokens:   openai.Int(int64(o.MaxTokens)),
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("openai: empty choices")
	}
	return resp.Choices[0].Message.Content, nil
}

package generator

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"
)

// GeminiLLM 基于 Google GenAI SDK 实现 LLMClient。
type GeminiLLM struct {
	Model       string
	Temperature float32
	MaxTokens   int32

	apiKey string
}

func NewGeminiLLMFromConfig(cfg *LLMSettings) (*GeminiLLM, error) {
	if cfg == nil {
		return nil, errors.New("llm config is nil")
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: gemini api key missing; provide llm.api_key or GEMINI_API_KEY", ErrCredential)
	}
	return &GeminiLLM{
		Model:       cfg.Model,
		Temperature: float32(cfg.temperature()),
		MaxTokens:   int32(cfg.maxTokens()),
		apiKey:      cfg.APIKey,
	}, nil
}

func (g *GeminiLLM) Complete(ctx context.Context, model string, prompt Prompt) (string, error) {
	if model == "" {
		model = g.Model
	}
	if model == "" {
		return "", errors.New("llm model is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  g.apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return "", fmt.Errorf("failed to create GenAI client: %w", err)
	}

	temp := g.Temperature
	resp, err := client.Models.GenerateContent(ctx, model,
		[]*genai.Content{genai.NewContentFromText(prompt.User, genai.RoleUser)},
		&genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(prompt.System, genai.RoleUser),
			Temperature:       &temp,
			MaxOutputTokens:   g.MaxTokens,
		})
	if err != nil {
		return "", err
	}
	text := resp.Text()
	if text == "" {
		return "", errors.New("gemini: empty response")
	}
	return text, nil
}

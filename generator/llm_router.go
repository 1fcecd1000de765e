package generator

import (
	"context"
	"errors"
	"sync"
)

// LLMBuilder 按 provider 创建客户端。
type LLMBuilder func(provider string) (LLMClient, error)

// LLMRouter 按每次请求的模型选择后端，客户端按 provider 缓存复用。
// Provider 非空时所有模型都走该 provider。
type LLMRouter struct {
	Provider string

	build   LLMBuilder
	mu      sync.Mutex
	clients map[string]LLMClient
}

func NewLLMRouter(provider string, build LLMBuilder) (*LLMRouter, error) {
	if build == nil {
		return nil, errors.New("llm builder is required")
	}
	return &LLMRouter{
		Provider: provider,
		build:    build,
		clients:  make(map[string]LLMClient),
	}, nil
}

func (r *LLMRouter) Complete(ctx context.Context, model string, prompt Prompt) (string, error) {
	client, err := r.client(model)
	if err != nil {
		return "", err
	}
	return client.Complete(ctx, model, prompt)
}

func (r *LLMRouter) client(model string) (LLMClient, error) {
	provider := r.Provider
	if provider == "" {
		provider = ProviderForModel(model)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.clients[provider]; ok {
		return c, nil
	}
	c, err := r.build(provider)
	if err != nil {
		return nil, err
	}
	r.clients[provider] = c
	return c, nil
}

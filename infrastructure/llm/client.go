package llm

import (
	"context"
	"fmt"

	"newsroom/infrastructure/configuration"
)

// Client is a single-turn text completion against a hosted model.
type Client interface {
	Complete(ctx context.Context, system, user string) (string, error)
	Name() string
}

// NewClient picks the provider named in the configuration.
func NewClient(cfg configuration.LLM) (Client, error) {
	switch cfg.Provider {
	case "openai":
		if cfg.OpenAIKey == "" {
			return nil, fmt.Errorf("llm provider openai selected but OPENAI_API_KEY is empty")
		}
		return NewOpenAIClient(cfg.OpenAIKey, cfg.Model, cfg.MaxTokens), nil
	case "anthropic":
		if cfg.AnthropicKey == "" {
			return nil, fmt.Errorf("llm provider anthropic selected but ANTHROPIC_API_KEY is empty")
		}
		return NewAnthropicClient(cfg.AnthropicKey, cfg.Model, cfg.MaxTokens), nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
}

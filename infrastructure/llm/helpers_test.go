package llm

import "newsroom/infrastructure/configuration"

func configurationLLM(provider, openAIKey, anthropicKey string) configuration.LLM {
	model := "gpt-4o-mini"
	if provider == "anthropic" {
		model = "claude-haiku-4-5"
	}
	return configuration.LLM{
		Provider:     provider,
		Model:        model,
		MaxTokens:    1024,
		OpenAIKey:    openAIKey,
		AnthropicKey: anthropicKey,
	}
}

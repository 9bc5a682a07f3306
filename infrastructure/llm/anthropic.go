package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	anthropicoption "github.com/anthropics/anthropic-sdk-go/option"
)

type AnthropicClient struct {
	client    anthropic.Client
	model     string
	maxTokens int64
}

func NewAnthropicClient(apiKey, model string, maxTokens int64, opts ...anthropicoption.RequestOption) *AnthropicClient {
	opts = append([]anthropicoption.RequestOption{anthropicoption.WithAPIKey(apiKey)}, opts...)
	return &AnthropicClient{
		client:    anthropic.NewClient(opts...),
		model:     model,
		maxTokens: maxTokens,
	}
}

func (c *AnthropicClient) Name() string { return "anthropic:" + c.model }

func (c *AnthropicClient) Complete(ctx context.Context, system, user string) (string, error) {
	resp, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: c.maxTokens,
		System: []anthropic.TextBlockParam{
			{Text: system},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(user)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("anthropic messages: %w", err)
	}
	var b strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}
	if b.Len() == 0 {
		return "", fmt.Errorf("anthropic returned no text content")
	}
	return b.String(), nil
}

package llm

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/llms"
)

// LangChainClient adapts a langchaingo llms.Model to the Client interface.
// Any provider langchaingo supports (OpenAI, Anthropic, Ollama, ...) can be
// plugged into the agent through it.
type LangChainClient struct {
	model llms.Model
}

var _ Client = (*LangChainClient)(nil)

// NewLangChainClient wraps an existing langchaingo model.
func NewLangChainClient(model llms.Model) *LangChainClient {
	return &LangChainClient{model: model}
}

// Invoke sends the prompt as a single human message.
func (c *LangChainClient) Invoke(ctx context.Context, prompt string) (string, error) {
	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeHuman, prompt),
	}

	resp, err := c.model.GenerateContent(ctx, messages)
	if err != nil {
		return "", fmt.Errorf("model invocation failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from model")
	}

	return resp.Choices[0].Content, nil
}

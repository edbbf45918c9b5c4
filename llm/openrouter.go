package llm

import (
	"context"
	"fmt"
	"net/http"

	openai "github.com/sashabaranov/go-openai"
)

const defaultOpenRouterBaseURL = "https://openrouter.ai/api/v1"

// OpenRouterClient calls an OpenAI-compatible chat endpoint through
// OpenRouter. OpenRouter attributes traffic via the HTTP-Referer and X-Title
// headers, so the client installs a transport that adds them to every
// request.
type OpenRouterClient struct {
	client      *openai.Client
	model       string
	temperature float32
}

var _ Client = (*OpenRouterClient)(nil)

// OpenRouterOption configures an OpenRouterClient.
type OpenRouterOption func(*openRouterConfig)

type openRouterConfig struct {
	baseURL     string
	model       string
	temperature float32
	siteURL     string
	siteName    string
}

// WithBaseURL overrides the OpenRouter endpoint, e.g. for tests.
func WithBaseURL(baseURL string) OpenRouterOption {
	return func(c *openRouterConfig) {
		c.baseURL = baseURL
	}
}

// WithModel sets the model identifier, e.g. "anthropic/claude-sonnet-4".
func WithModel(model string) OpenRouterOption {
	return func(c *openRouterConfig) {
		c.model = model
	}
}

// WithTemperature sets the sampling temperature.
func WithTemperature(temperature float32) OpenRouterOption {
	return func(c *openRouterConfig) {
		c.temperature = temperature
	}
}

// WithSite sets the attribution headers OpenRouter uses for rankings.
func WithSite(siteURL, siteName string) OpenRouterOption {
	return func(c *openRouterConfig) {
		c.siteURL = siteURL
		c.siteName = siteName
	}
}

// NewOpenRouterClient creates a client for the given API key and options.
func NewOpenRouterClient(apiKey string, opts ...OpenRouterOption) (*OpenRouterClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openrouter api key not set")
	}

	cfg := &openRouterConfig{
		baseURL:     defaultOpenRouterBaseURL,
		temperature: 0.7,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.model == "" {
		return nil, fmt.Errorf("openrouter model not set")
	}

	clientCfg := openai.DefaultConfig(apiKey)
	clientCfg.BaseURL = cfg.baseURL
	clientCfg.HTTPClient = &http.Client{
		Transport: &attributionTransport{
			siteURL:  cfg.siteURL,
			siteName: cfg.siteName,
			base:     http.DefaultTransport,
		},
	}

	return &OpenRouterClient{
		client:      openai.NewClientWithConfig(clientCfg),
		model:       cfg.model,
		temperature: cfg.temperature,
	}, nil
}

// Invoke sends the prompt as a single user message.
func (c *OpenRouterClient) Invoke(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: c.temperature,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("model invocation failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from model")
	}

	return resp.Choices[0].Message.Content, nil
}

// attributionTransport adds the OpenRouter attribution headers.
type attributionTransport struct {
	siteURL  string
	siteName string
	base     http.RoundTripper
}

func (t *attributionTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.siteURL != "" {
		req.Header.Set("HTTP-Referer", t.siteURL)
	}
	if t.siteName != "" {
		req.Header.Set("X-Title", t.siteName)
	}
	return t.base.RoundTrip(req)
}

package llm

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tmc/langchaingo/llms"
)

type fakeModel struct {
	response string
	err      error
	prompt   string
}

func (m *fakeModel) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	if len(messages) > 0 && len(messages[0].Parts) > 0 {
		if text, ok := messages[0].Parts[0].(llms.TextContent); ok {
			m.prompt = text.Text
		}
	}
	if m.err != nil {
		return nil, m.err
	}
	return &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{Content: m.response}},
	}, nil
}

func (m *fakeModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return m.response, m.err
}

func TestLangChainClientInvoke(t *testing.T) {
	model := &fakeModel{response: "generated text"}
	client := NewLangChainClient(model)

	out, err := client.Invoke(context.Background(), "a prompt")
	assert.NoError(t, err)
	assert.Equal(t, "generated text", out)
	assert.Equal(t, "a prompt", model.prompt)
}

func TestLangChainClientPropagatesError(t *testing.T) {
	boom := errors.New("provider down")
	client := NewLangChainClient(&fakeModel{err: boom})

	_, err := client.Invoke(context.Background(), "a prompt")
	assert.ErrorIs(t, err, boom)
}

func TestLangChainClientEmptyChoices(t *testing.T) {
	client := NewLangChainClient(&emptyModel{})

	_, err := client.Invoke(context.Background(), "a prompt")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "no response")
}

type emptyModel struct{}

func (m *emptyModel) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	return &llms.ContentResponse{}, nil
}

func (m *emptyModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return "", nil
}

func TestOpenRouterClientInvoke(t *testing.T) {
	var gotReferer, gotTitle string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotReferer = r.Header.Get("HTTP-Referer")
		gotTitle = r.Header.Get("X-Title")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"choices": [{"message": {"role": "assistant", "content": "hello from model"}}]
		}`))
	}))
	defer server.Close()

	client, err := NewOpenRouterClient("test-key",
		WithBaseURL(server.URL),
		WithModel("test/model"),
		WithSite("https://chronicle.example", "Chronicle"),
	)
	assert.NoError(t, err)

	out, err := client.Invoke(context.Background(), "a prompt")
	assert.NoError(t, err)
	assert.Equal(t, "hello from model", out)
	assert.Equal(t, "https://chronicle.example", gotReferer)
	assert.Equal(t, "Chronicle", gotTitle)
}

func TestOpenRouterClientRequiresKeyAndModel(t *testing.T) {
	_, err := NewOpenRouterClient("")
	assert.Error(t, err)

	_, err = NewOpenRouterClient("key")
	assert.Error(t, err)
}

func TestOpenRouterClientServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream unavailable", http.StatusBadGateway)
	}))
	defer server.Close()

	client, err := NewOpenRouterClient("test-key",
		WithBaseURL(server.URL),
		WithModel("test/model"),
	)
	assert.NoError(t, err)

	_, err = client.Invoke(context.Background(), "a prompt")
	assert.Error(t, err)
}

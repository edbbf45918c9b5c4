// Package llm defines the language-model capability the agent consumes: a
// prompt in, generated text out. Providers may fail transiently; callers
// impose timeouts through the context.
package llm

import "context"

// Client is the minimal contract the agent needs from a language model.
type Client interface {
	// Invoke sends a prompt and returns the model's text response.
	Invoke(ctx context.Context, prompt string) (string, error)
}

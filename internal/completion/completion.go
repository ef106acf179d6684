// Package completion defines the text-completion capability the generator
// and reviewer are built on, plus HTTP backends for OpenAI-compatible
// providers (Groq, OpenRouter, OpenAI) and Ollama.
package completion

import (
	"context"
	"fmt"
)

// Request is a single system+user completion call.
type Request struct {
	SystemRole  string  `json:"system_role"`
	UserPrompt  string  `json:"user_prompt"`
	Temperature float64 `json:"temperature"`
	MaxTokens   int     `json:"max_tokens"`
	// Model overrides the backend's configured model when set.
	Model string `json:"model,omitempty"`
}

// Service turns a prompt into raw text. Implementations do not retry and
// report transport failures as *TransportError.
type Service interface {
	Name() string
	Complete(ctx context.Context, req Request) (string, error)
}

// TransportError reports that the backend could not produce a reply:
// unreachable, unauthorized, rate limited or otherwise broken.
type TransportError struct {
	Service    string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: status %d: %v", e.Service, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Service, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Func adapts a plain function to Service.
type Func func(ctx context.Context, req Request) (string, error)

func (f Func) Name() string { return "func" }

func (f Func) Complete(ctx context.Context, req Request) (string, error) {
	return f(ctx, req)
}

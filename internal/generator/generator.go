// Package generator produces educational content (an explanation plus
// multiple-choice questions) through a completion.Service.
package generator

import (
	"context"

	"github.com/valpere/edugen/internal"
	"github.com/valpere/edugen/internal/completion"
	"github.com/valpere/edugen/internal/content"
)

// Sampling defaults for generation. Higher temperature tolerates creative
// variation.
const (
	DefaultTemperature = 0.7
	DefaultMaxTokens   = 2000
)

// Generator renders generation prompts and parses the replies.
type Generator struct {
	svc         completion.Service
	temperature float64
	maxTokens   int
}

// New creates a Generator. Non-positive maxTokens selects DefaultMaxTokens
// and a negative temperature selects DefaultTemperature.
func New(svc completion.Service, temperature float64, maxTokens int) *Generator {
	if temperature < 0 {
		temperature = DefaultTemperature
	}
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	return &Generator{svc: svc, temperature: temperature, maxTokens: maxTokens}
}

// Generate asks the backend for content matching req. Transport errors are
// returned as is; malformed replies are not errors (see ParseResponse).
func (g *Generator) Generate(ctx context.Context, req internal.ContentRequest) (content.Record, error) {
	reply, err := g.svc.Complete(ctx, completion.Request{
		SystemRole:  SystemRole,
		UserPrompt:  BuildPrompt(req),
		Temperature: g.temperature,
		MaxTokens:   g.maxTokens,
	})
	if err != nil {
		return content.Record{}, err
	}
	return ParseResponse(reply), nil
}

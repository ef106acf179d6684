// Package reviewer judges generated content against the age-appropriateness,
// correctness, clarity and MCQ-quality criteria through a completion.Service.
package reviewer

import (
	"context"

	"github.com/valpere/edugen/internal/completion"
	"github.com/valpere/edugen/internal/content"
)

// Sampling defaults for review. Low temperature keeps verdicts consistent.
const (
	DefaultTemperature = 0.3
	DefaultMaxTokens   = 1000
)

type Reviewer struct {
	svc         completion.Service
	temperature float64
	maxTokens   int
}

// New creates a Reviewer. Non-positive maxTokens selects DefaultMaxTokens
// and a negative temperature selects DefaultTemperature.
func New(svc completion.Service, temperature float64, maxTokens int) *Reviewer {
	if temperature < 0 {
		temperature = DefaultTemperature
	}
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	return &Reviewer{svc: svc, temperature: temperature, maxTokens: maxTokens}
}

// Review asks the backend to judge rec. Only transport failures are errors.
func (r *Reviewer) Review(ctx context.Context, rec content.Record, grade int, topic string) (content.Verdict, error) {
	reply, err := r.svc.Complete(ctx, completion.Request{
		SystemRole:  SystemRole,
		UserPrompt:  BuildPrompt(rec, grade, topic),
		Temperature: r.temperature,
		MaxTokens:   r.maxTokens,
	})
	if err != nil {
		return content.Verdict{}, err
	}
	return ParseResponse(reply), nil
}

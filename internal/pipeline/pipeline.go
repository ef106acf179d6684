// Package pipeline runs the generate → review → refine flow: content is
// generated and reviewed, and a failed review with feedback earns exactly
// one refinement pass whose result is reviewed again.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/valpere/edugen/internal"
	"github.com/valpere/edugen/internal/content"
	"github.com/valpere/edugen/internal/logger"
	"github.com/valpere/edugen/internal/validator"
)

// Grade bounds accepted by Generate.
const (
	MinGrade = 1
	MaxGrade = 12
)

// GenericFeedback is used in place of empty feedback when
// Config.RefineWithoutFeedback is set.
const GenericFeedback = "The content did not pass review; improve accuracy, clarity and MCQ quality."

var (
	ErrInvalidGrade = errors.New("grade must be between 1 and 12")
	ErrEmptyTopic   = errors.New("topic must not be empty")
)

// ContentGenerator produces content for a request.
type ContentGenerator interface {
	Generate(ctx context.Context, req internal.ContentRequest) (content.Record, error)
}

// ContentReviewer judges content for a grade and topic.
type ContentReviewer interface {
	Review(ctx context.Context, rec content.Record, grade int, topic string) (content.Verdict, error)
}

type Config struct {
	// Language is the ISO 639-1 code content is requested in.
	Language string
	// StructuralCheck folds validator issues into every verdict.
	StructuralCheck bool
	// RefineWithoutFeedback refines a failed verdict even when the reviewer
	// gave no feedback, using GenericFeedback.
	RefineWithoutFeedback bool
	Logger                *logger.Logger
}

type Pipeline struct {
	generator ContentGenerator
	reviewer  ContentReviewer
	validator *validator.Validator
	config    Config
	log       *logger.Logger
}

func New(gen ContentGenerator, rev ContentReviewer, config Config) *Pipeline {
	p := &Pipeline{
		generator: gen,
		reviewer:  rev,
		config:    config,
		log:       config.Logger,
	}
	if p.log == nil {
		p.log = logger.Nop()
	}
	if config.StructuralCheck {
		p.validator = validator.New(config.Language)
	}
	return p
}

// Generate runs one pipeline invocation. The four backend calls run
// strictly in sequence. Backend errors are returned as is (wrapped with
// the failing stage); malformed replies never are.
func (p *Pipeline) Generate(ctx context.Context, grade int, topic string) (*content.Result, error) {
	if grade < MinGrade || grade > MaxGrade {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidGrade, grade)
	}
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return nil, ErrEmptyTopic
	}

	req := internal.NewContentRequest(grade, topic, p.config.Language)
	log := p.log.With("request_id", req.ID, "grade", req.Grade, "topic", req.Topic)

	log.Debug("pipeline stage", "state", "generating")
	initial, err := p.generator.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("generate content: %w", err)
	}

	log.Debug("pipeline stage", "state", "reviewing", "questions", len(initial.Questions))
	verdict, err := p.review(ctx, initial, req)
	if err != nil {
		return nil, fmt.Errorf("review content: %w", err)
	}
	log.Info("initial review", "status", verdict.Status, "feedback", len(verdict.Feedback))

	result := &content.Result{
		InitialContent: initial,
		InitialVerdict: verdict,
	}

	feedback, ok := p.refinementFeedback(verdict)
	if !ok {
		log.Debug("pipeline stage", "state", "done", "refined", false)
		return result, nil
	}

	log.Debug("pipeline stage", "state", "refining", "feedback", len(feedback))
	refined, err := p.generator.Generate(ctx, req.WithFeedback(feedback))
	if err != nil {
		return nil, fmt.Errorf("refine content: %w", err)
	}

	log.Debug("pipeline stage", "state", "reviewing", "questions", len(refined.Questions), "refined", true)
	refinedVerdict, err := p.review(ctx, refined, req)
	if err != nil {
		return nil, fmt.Errorf("review refined content: %w", err)
	}
	log.Info("refined review", "status", refinedVerdict.Status, "feedback", len(refinedVerdict.Feedback))

	result.RefinedContent = &refined
	result.RefinedVerdict = &refinedVerdict

	log.Debug("pipeline stage", "state", "done", "refined", true)
	return result, nil
}

func (p *Pipeline) review(ctx context.Context, rec content.Record, req internal.ContentRequest) (content.Verdict, error) {
	v, err := p.reviewer.Review(ctx, rec, req.Grade, req.Topic)
	if err != nil {
		return content.Verdict{}, err
	}
	if p.validator != nil {
		v = validator.Merge(v, p.validator.Check(rec))
	}
	return v, nil
}

// refinementFeedback decides whether v earns a refinement pass and with
// which feedback. A pass never does; a fail with no feedback only does
// when RefineWithoutFeedback is set.
func (p *Pipeline) refinementFeedback(v content.Verdict) ([]string, bool) {
	if v.Passed() {
		return nil, false
	}
	if v.Actionable() {
		return v.Feedback, true
	}
	if p.config.RefineWithoutFeedback {
		return []string{GenericFeedback}, true
	}
	return nil, false
}

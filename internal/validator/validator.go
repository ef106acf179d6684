// Package validator checks the structure of generated content before it is
// trusted to the reviewer: question and option counts, distinct options,
// answers present among the options, and the explanation's language.
package validator

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"

	"github.com/valpere/edugen/internal/content"
	"github.com/valpere/edugen/internal/detector"
)

// minLanguageCheckLength is the minimum rune count required to attempt
// language detection. Shorter explanations are not checked.
const minLanguageCheckLength = 40

// Validator reports structural defects in a content.Record.
type Validator struct {
	det      *detector.Detector
	language string
}

// New creates a Validator. When language is a parseable BCP 47 tag the
// explanation is also checked to be written in its base language, so
// "pt-BR" expects "pt". The detector is expensive to build, so reuse the
// instance.
func New(lang string) *Validator {
	v := &Validator{language: baseLanguage(lang)}
	if v.language != "" {
		v.det = detector.New()
	}
	return v
}

// baseLanguage returns the lower-case ISO 639 base of tag, or "" for an
// empty or unparseable tag.
func baseLanguage(tag string) string {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return ""
	}
	t, err := language.Parse(tag)
	if err != nil {
		return ""
	}
	base, conf := t.Base()
	if conf == language.No {
		return ""
	}
	return strings.ToLower(base.String())
}

// Check returns one human-readable issue per defect, in the same style the
// reviewer uses, or nil when rec is well formed.
func (v *Validator) Check(rec content.Record) []string {
	var issues []string

	if strings.TrimSpace(rec.Explanation) == "" {
		issues = append(issues, "Explanation is empty")
	}

	if len(rec.Questions) != content.QuestionCount {
		issues = append(issues, fmt.Sprintf("Expected exactly %d questions, got %d", content.QuestionCount, len(rec.Questions)))
	}

	for i, q := range rec.Questions {
		issues = append(issues, checkQuestion(i+1, q)...)
	}

	if issue := v.checkLanguage(rec.Explanation); issue != "" {
		issues = append(issues, issue)
	}

	return issues
}

func checkQuestion(n int, q content.Question) []string {
	var issues []string

	if strings.TrimSpace(q.Prompt) == "" {
		issues = append(issues, fmt.Sprintf("Question %d has no question text", n))
	}

	if len(q.Options) != content.OptionCount {
		issues = append(issues, fmt.Sprintf("Question %d must have exactly %d options, got %d", n, content.OptionCount, len(q.Options)))
	}

	seen := make(map[string]bool, len(q.Options))
	for _, opt := range q.Options {
		if seen[opt] {
			issues = append(issues, fmt.Sprintf("Question %d has duplicate option %q", n, opt))
			continue
		}
		seen[opt] = true
	}

	if !seen[q.Answer] {
		issues = append(issues, fmt.Sprintf("Question %d answer %q is not one of the options", n, q.Answer))
	}

	return issues
}

func (v *Validator) checkLanguage(text string) string {
	if v.det == nil {
		return ""
	}

	text = strings.TrimSpace(text)
	if len([]rune(text)) < minLanguageCheckLength {
		return ""
	}

	detected, ok := v.det.DetectISO(text)
	if !ok {
		// Ambiguous language, cannot judge.
		return ""
	}

	if detected != v.language {
		return fmt.Sprintf("Explanation should be written in %s but appears to be %s", v.language, detected)
	}
	return ""
}

// Merge folds structural issues into a reviewer verdict. Any issue forces
// a fail; structural issues come first so refinement sees them first.
func Merge(v content.Verdict, issues []string) content.Verdict {
	if len(issues) == 0 {
		return v
	}
	feedback := make([]string, 0, len(issues)+len(v.Feedback))
	feedback = append(feedback, issues...)
	feedback = append(feedback, v.Feedback...)
	return content.Verdict{Status: content.StatusFail, Feedback: feedback}
}

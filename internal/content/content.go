// Package content holds the domain records passed between the generator,
// the reviewer and the presentation layer.
//
// Records are values: refinement produces a new Record and a new Verdict,
// nothing is mutated after construction.
package content

import "strings"

const (
	// QuestionCount is the number of questions a well-formed Record carries.
	QuestionCount = 3
	// OptionCount is the number of options a well-formed Question carries.
	OptionCount = 4
)

// Question is one multiple-choice question. Answer should match one of
// Options exactly.
type Question struct {
	Prompt  string   `json:"question"`
	Options []string `json:"options"`
	Answer  string   `json:"answer"`
}

// Record is a generated explanation plus its questions. Malformed model
// output is represented, not rejected: a Record may hold fewer questions
// or odd options.
type Record struct {
	Explanation string     `json:"explanation"`
	Questions   []Question `json:"mcqs"`
}

// Status is the outcome of a review.
type Status string

const (
	StatusPass Status = "pass"
	StatusFail Status = "fail"
)

// ParseStatus folds s to a Status. Anything that is not "pass" fails.
func ParseStatus(s string) Status {
	if strings.EqualFold(strings.TrimSpace(s), string(StatusPass)) {
		return StatusPass
	}
	return StatusFail
}

// Verdict is the reviewer's judgement of a Record.
type Verdict struct {
	Status   Status   `json:"status"`
	Feedback []string `json:"feedback"`
}

// Passed reports whether the verdict is a pass.
func (v Verdict) Passed() bool {
	return v.Status == StatusPass
}

// Actionable reports whether a failed verdict carries feedback a
// refinement pass can address.
func (v Verdict) Actionable() bool {
	return v.Status == StatusFail && len(v.Feedback) > 0
}

// Result is the outcome of one pipeline run. RefinedContent and
// RefinedVerdict are either both set or both nil.
type Result struct {
	InitialContent Record   `json:"initial_content"`
	InitialVerdict Verdict  `json:"initial_review"`
	RefinedContent *Record  `json:"refined_content,omitempty"`
	RefinedVerdict *Verdict `json:"refined_review,omitempty"`
}

// Refined reports whether a refinement pass ran.
func (r *Result) Refined() bool {
	return r.RefinedContent != nil
}

// Final returns the content to present: the refined record when a
// refinement ran, otherwise the initial one.
func (r *Result) Final() Record {
	if r.RefinedContent != nil {
		return *r.RefinedContent
	}
	return r.InitialContent
}

// FinalVerdict returns the verdict matching Final.
func (r *Result) FinalVerdict() Verdict {
	if r.RefinedVerdict != nil {
		return *r.RefinedVerdict
	}
	return r.InitialVerdict
}

package internal

import (
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"
)

// ContentRequest describes one generation call. Feedback is empty for the
// initial pass and carries the reviewer's issues for the refinement pass.
type ContentRequest struct {
	ID        string    `json:"id"`
	Grade     int       `json:"grade"`
	Topic     string    `json:"topic"`
	Feedback  []string  `json:"feedback,omitempty"`
	Language  string    `json:"language,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// NewContentRequest stamps a request with a fresh ID. The topic is NFC
// normalised so prompts and export names see one canonical form.
func NewContentRequest(grade int, topic, language string) ContentRequest {
	return ContentRequest{
		ID:        uuid.New().String(),
		Grade:     grade,
		Topic:     norm.NFC.String(topic),
		Language:  language,
		Timestamp: time.Now(),
	}
}

// WithFeedback returns a copy of r addressed to the given feedback items.
func (r ContentRequest) WithFeedback(feedback []string) ContentRequest {
	r.Feedback = append([]string(nil), feedback...)
	return r
}

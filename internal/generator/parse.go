package generator

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/valpere/edugen/internal/content"
	"github.com/valpere/edugen/internal/postprocess"
)

// ErrNoObject is returned by DecodeContent when the reply holds no JSON object.
var ErrNoObject = errors.New("no JSON object in reply")

// DecodeContent decodes the structured payload embedded in reply. The raw
// object span is tried before the reasoning-stripped one.
func DecodeContent(reply string) (content.Record, error) {
	err := ErrNoObject
	for _, candidate := range postprocess.Candidates(reply) {
		candidate = strings.TrimSpace(candidate)
		if !strings.HasPrefix(candidate, "{") {
			continue
		}

		var rec content.Record
		if decErr := json.Unmarshal([]byte(candidate), &rec); decErr != nil {
			err = fmt.Errorf("failed to decode content: %w", decErr)
			continue
		}
		if rec.Questions == nil {
			rec.Questions = []content.Question{}
		}
		return rec, nil
	}
	return content.Record{}, err
}

// ParseResponse decodes reply and never fails: an undecodable reply becomes
// a record whose explanation is the reply verbatim and which has no
// questions, so it will not pass review.
func ParseResponse(reply string) content.Record {
	rec, err := DecodeContent(reply)
	if err != nil {
		return content.Record{Explanation: reply, Questions: []content.Question{}}
	}
	return rec
}

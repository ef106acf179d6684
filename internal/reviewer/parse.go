package reviewer

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/valpere/edugen/internal/content"
	"github.com/valpere/edugen/internal/postprocess"
)

// Diagnostic feedback used when a review reply cannot be trusted.
const (
	InvalidFormatFeedback = "Invalid review format"
	UnparseableFeedback   = "Could not parse review response"
)

var (
	// ErrUnparseable means the reply held no decodable JSON object.
	ErrUnparseable = errors.New("review reply is not a JSON object")
	// ErrInvalidFormat means the object lacked status or feedback.
	ErrInvalidFormat = errors.New("review reply is missing required fields")
)

// DecodeVerdict decodes the verdict embedded in reply. The status is case
// folded and anything other than "pass" becomes a fail. The raw object
// span is tried before the reasoning-stripped one; when neither decodes,
// ErrInvalidFormat wins over ErrUnparseable.
func DecodeVerdict(reply string) (content.Verdict, error) {
	err := ErrUnparseable
	for _, candidate := range postprocess.Candidates(reply) {
		v, decErr := decodeVerdictObject(strings.TrimSpace(candidate))
		if decErr == nil {
			return v, nil
		}
		if !errors.Is(err, ErrInvalidFormat) {
			err = decErr
		}
	}
	return content.Verdict{}, err
}

func decodeVerdictObject(candidate string) (content.Verdict, error) {
	if !strings.HasPrefix(candidate, "{") {
		return content.Verdict{}, ErrUnparseable
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(candidate), &fields); err != nil {
		return content.Verdict{}, fmt.Errorf("%w: %v", ErrUnparseable, err)
	}

	rawStatus, hasStatus := fields["status"]
	rawFeedback, hasFeedback := fields["feedback"]
	if !hasStatus || !hasFeedback {
		return content.Verdict{}, ErrInvalidFormat
	}

	feedback, err := decodeFeedback(rawFeedback)
	if err != nil {
		return content.Verdict{}, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}

	var status string
	if err := json.Unmarshal(rawStatus, &status); err != nil {
		status = ""
	}

	return content.Verdict{
		Status:   content.ParseStatus(status),
		Feedback: feedback,
	}, nil
}

// decodeFeedback accepts a list of strings, a single string or null.
func decodeFeedback(raw json.RawMessage) ([]string, error) {
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		if list == nil {
			list = []string{}
		}
		return list, nil
	}

	var single string
	if err := json.Unmarshal(raw, &single); err == nil {
		if strings.TrimSpace(single) == "" {
			return []string{}, nil
		}
		return []string{single}, nil
	}

	return nil, fmt.Errorf("feedback must be a list of strings")
}

// ParseResponse decodes reply and never fails. An object missing status or
// feedback becomes Fail["Invalid review format"]; anything undecodable
// becomes Fail["Could not parse review response"].
func ParseResponse(reply string) content.Verdict {
	v, err := DecodeVerdict(reply)
	switch {
	case err == nil:
		return v
	case errors.Is(err, ErrInvalidFormat):
		return content.Verdict{Status: content.StatusFail, Feedback: []string{InvalidFormatFeedback}}
	default:
		return content.Verdict{Status: content.StatusFail, Feedback: []string{UnparseableFeedback}}
	}
}

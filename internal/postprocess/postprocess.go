// Package postprocess prepares raw LLM replies for structured decoding.
//
// Replies from the generator and the reviewer are free text that is
// expected to embed one JSON object, often wrapped in prose, markdown fences
// or reasoning blocks. ExtractObject isolates the object span over the raw
// text; StripReasoning is only a second chance for replies whose raw span
// does not decode.
package postprocess

import (
	"regexp"
	"strings"
)

// thinkingBlockRe matches complete <thinking>…</thinking> style blocks.
// Each tag variant is listed explicitly because Go's RE2 engine does not
// support backreferences.
// Flags: i = case-insensitive, s = dot matches newline.
var thinkingBlockRe = regexp.MustCompile(
	`(?is)<thinking>.*?</thinking>|<think>.*?</think>|<reasoning>.*?</reasoning>|<reflection>.*?</reflection>`,
)

// truncatedThinkingRe matches an opened thinking tag whose closing tag is
// missing (the model was cut off mid-thought).
var truncatedThinkingRe = regexp.MustCompile(
	`(?is)(?:<thinking>|<think>|<reasoning>|<reflection>).*$`,
)

// StripReasoning removes reasoning blocks some models emit before their
// answer.
func StripReasoning(text string) string {
	text = thinkingBlockRe.ReplaceAllString(text, "")
	text = truncatedThinkingRe.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}

// ExtractObject returns the span from the first '{' to the last '}' in
// text. ok is false when no such span exists.
//
// The span is not validated: a reply holding two objects yields both
// and the decode step decides.
func ExtractObject(text string) (string, bool) {
	start := strings.IndexByte(text, '{')
	end := strings.LastIndexByte(text, '}')
	if start == -1 || end <= start {
		return "", false
	}
	return text[start : end+1], true
}

// Candidates returns the texts a decoder should try for reply, in order:
// the object span of the raw reply, then the object span (or the whole
// text) of the reply with reasoning blocks removed. A decoder takes the
// first candidate that decodes, so tag-like text inside a valid payload
// is never touched.
func Candidates(reply string) []string {
	var out []string
	if obj, ok := ExtractObject(reply); ok {
		out = append(out, obj)
	}

	cleaned := StripReasoning(reply)
	if obj, ok := ExtractObject(cleaned); ok {
		cleaned = obj
	}
	if len(out) == 0 || out[0] != cleaned {
		out = append(out, cleaned)
	}
	return out
}

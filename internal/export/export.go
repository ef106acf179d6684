// Package export renders pipeline results for download: the final content
// as JSON, or the whole result as Markdown or HTML.
package export

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/valpere/edugen/internal/content"
	"github.com/valpere/edugen/internal/markdown"
)

type Format string

const (
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
)

// ParseFormat accepts a format name or a file extension.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), ".")) {
	case "", "json":
		return FormatJSON, nil
	case "md", "markdown":
		return FormatMarkdown, nil
	case "html", "htm":
		return FormatHTML, nil
	default:
		return "", fmt.Errorf("unknown export format %q", s)
	}
}

// FormatForPath picks a format from path's extension, defaulting to JSON.
func FormatForPath(path string) Format {
	f, err := ParseFormat(filepath.Ext(path))
	if err != nil {
		return FormatJSON
	}
	return f
}

// Extension returns the file extension for f, without the dot.
func (f Format) Extension() string {
	switch f {
	case FormatMarkdown:
		return "md"
	case FormatHTML:
		return "html"
	default:
		return "json"
	}
}

// ContentType returns the MIME type for f.
func (f Format) ContentType() string {
	switch f {
	case FormatMarkdown:
		return "text/markdown; charset=utf-8"
	case FormatHTML:
		return "text/html; charset=utf-8"
	default:
		return "application/json"
	}
}

// FileName returns the download name for content at grade and topic,
// e.g. content_grade4_Types_of_angles.json.
func FileName(grade int, topic string, f Format) string {
	topic = norm.NFC.String(strings.TrimSpace(topic))
	var sb strings.Builder
	for _, r := range topic {
		switch {
		case r == ' ':
			sb.WriteRune('_')
		case strings.ContainsRune(`/\:*?"<>|`, r) || r < 0x20:
			// unsafe in file names
		default:
			sb.WriteRune(r)
		}
	}
	return fmt.Sprintf("content_grade%d_%s.%s", grade, sb.String(), f.Extension())
}

// JSON encodes rec with two-space indentation.
func JSON(rec content.Record) ([]byte, error) {
	return json.MarshalIndent(rec, "", "  ")
}

// Markdown renders the final content of res under a heading for grade and
// topic, followed by the final review.
func Markdown(res *content.Result, grade int, topic string) []byte {
	final := res.Final()
	verdict := res.FinalVerdict()

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("# Grade %d: %s\n\n", grade, topic))

	sb.WriteString("## Explanation\n\n")
	if strings.TrimSpace(final.Explanation) == "" {
		sb.WriteString("No explanation generated\n\n")
	} else {
		sb.WriteString(strings.TrimSpace(final.Explanation))
		sb.WriteString("\n\n")
	}

	sb.WriteString("## Multiple Choice Questions\n\n")
	for i, q := range final.Questions {
		sb.WriteString(fmt.Sprintf("### Question %d: %s\n\n", i+1, q.Prompt))
		for _, opt := range q.Options {
			sb.WriteString(fmt.Sprintf("- %s\n", opt))
		}
		sb.WriteString(fmt.Sprintf("\n**Correct Answer:** %s\n\n", q.Answer))
	}

	sb.WriteString("## Review\n\n")
	sb.WriteString(fmt.Sprintf("**Status:** %s", strings.ToUpper(string(verdict.Status))))
	if res.Refined() {
		sb.WriteString(" (after refinement)")
	}
	sb.WriteString("\n\n")
	for _, fb := range verdict.Feedback {
		sb.WriteString(fmt.Sprintf("- %s\n", fb))
	}

	return []byte(sb.String())
}

// HTML renders Markdown(res, grade, topic) as an HTML fragment. Raw HTML
// in the topic or the model text is dropped, not rendered.
func HTML(res *content.Result, grade int, topic string) []byte {
	return []byte(markdown.ToHTML(Markdown(res, grade, topic)))
}

// Render produces the export body for f.
func Render(res *content.Result, grade int, topic string, f Format) ([]byte, error) {
	switch f {
	case FormatMarkdown:
		return Markdown(res, grade, topic), nil
	case FormatHTML:
		return HTML(res, grade, topic), nil
	case FormatJSON:
		return JSON(res.Final())
	default:
		return nil, fmt.Errorf("unknown export format %q", f)
	}
}

package generator

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"

	"github.com/valpere/edugen/internal"
)

// SystemRole is the fixed system instruction for generation calls.
const SystemRole = "You are an expert educational content creator. Generate age-appropriate educational content in JSON format."

// BuildPrompt renders the generation instruction for req. When req carries
// feedback, every item is listed and the model is told to address them all.
func BuildPrompt(req internal.ContentRequest) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Generate educational content for Grade %d students about \"%s\".\n\n", req.Grade, req.Topic))
	sb.WriteString(`IMPORTANT: Return ONLY a valid JSON object with this exact structure:
{
  "explanation": "A clear, age-appropriate explanation of the concept (3-5 sentences)",
  "mcqs": [
    {
      "question": "Question text here",
      "options": ["Option A", "Option B", "Option C", "Option D"],
      "answer": "Option B"
    },
    {
      "question": "Question text here",
      "options": ["Option A", "Option B", "Option C", "Option D"],
      "answer": "Option C"
    },
    {
      "question": "Question text here",
      "options": ["Option A", "Option B", "Option C", "Option D"],
      "answer": "Option A"
    }
  ]
}

Guidelines:
`)
	sb.WriteString(fmt.Sprintf("- Use simple vocabulary appropriate for Grade %d students\n", req.Grade))
	sb.WriteString(`- Keep explanations clear and concise
- Generate exactly 3 MCQs
- Each MCQ must have exactly 4 options
- Questions should test understanding of the explained concepts
- Make sure the answer is one of the provided options (exact text match)`)

	if name := languageName(req.Language); name != "" {
		sb.WriteString(fmt.Sprintf("\n- Write all content in %s", name))
	}

	if len(req.Feedback) > 0 {
		sb.WriteString("\n\nPREVIOUS FEEDBACK TO ADDRESS:\n")
		for i, fb := range req.Feedback {
			if i > 0 {
				sb.WriteString("\n")
			}
			sb.WriteString("- ")
			sb.WriteString(fb)
		}
		sb.WriteString("\n\nPlease revise the content addressing all the feedback points above.")
	}

	return sb.String()
}

// languageName returns the English name of an ISO 639-1 code, or "" for
// English, empty or unparseable codes.
func languageName(code string) string {
	code = strings.TrimSpace(code)
	if code == "" || strings.EqualFold(code, "en") {
		return ""
	}
	tag, err := language.Parse(code)
	if err != nil {
		return ""
	}
	return display.English.Languages().Name(tag)
}

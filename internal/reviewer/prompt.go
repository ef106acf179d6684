package reviewer

import (
	"encoding/json"
	"fmt"

	"github.com/valpere/edugen/internal/content"
)

// SystemRole is the fixed system instruction for review calls.
const SystemRole = "You are an expert educational content reviewer. Evaluate content for age-appropriateness, conceptual correctness, and clarity. Return your review in JSON format."

// BuildPrompt embeds rec as indented JSON in the review instruction for the
// given grade and topic.
func BuildPrompt(rec content.Record, grade int, topic string) string {
	payload, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		// Record holds only strings; marshalling cannot fail.
		payload = []byte("{}")
	}

	return fmt.Sprintf(`Review the following educational content for Grade %d students about "%s".

CONTENT TO REVIEW:
%s

EVALUATION CRITERIA:
1. Age Appropriateness: Is the language and complexity suitable for Grade %d?
2. Conceptual Correctness: Are the concepts explained accurately?
3. Clarity: Is the explanation clear and easy to understand?
4. MCQ Quality:
   - Do questions test the explained concepts?
   - Are options clear and distinct?
   - Is the correct answer actually correct?
   - Are all 4 options provided for each question?

IMPORTANT: Return ONLY a valid JSON object with this exact structure:
{
  "status": "pass or fail",
  "feedback": [
    "Specific issue 1 (if any)",
    "Specific issue 2 (if any)"
  ]
}

Rules:
- Return "pass" ONLY if ALL criteria are met with no significant issues
- Return "fail" if there are ANY issues that need correction
- In the feedback array, list specific, actionable issues
- If status is "pass", feedback can be empty or contain minor suggestions
- Be specific about which part of the content has issues (e.g., "Sentence 2", "Question 3")
`, grade, topic, payload, grade)
}

package content

import "testing"

func TestParseStatus(t *testing.T) {
	tests := []struct {
		input string
		want  Status
	}{
		{"pass", StatusPass},
		{"PASS", StatusPass},
		{" Pass ", StatusPass},
		{"fail", StatusFail},
		{"FAIL", StatusFail},
		{"maybe", StatusFail},
		{"", StatusFail},
		{"passed", StatusFail},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseStatus(tt.input); got != tt.want {
				t.Errorf("ParseStatus(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestVerdict_Actionable(t *testing.T) {
	tests := []struct {
		name    string
		verdict Verdict
		want    bool
	}{
		{"pass without feedback", Verdict{Status: StatusPass}, false},
		{"pass with suggestions", Verdict{Status: StatusPass, Feedback: []string{"minor"}}, false},
		{"fail without feedback", Verdict{Status: StatusFail}, false},
		{"fail with feedback", Verdict{Status: StatusFail, Feedback: []string{"Question 2 is wrong"}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.verdict.Actionable(); got != tt.want {
				t.Errorf("Actionable() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestResult_Final(t *testing.T) {
	initial := Record{Explanation: "initial"}
	res := &Result{InitialContent: initial, InitialVerdict: Verdict{Status: StatusPass}}

	if res.Refined() {
		t.Error("expected no refinement")
	}
	if res.Final().Explanation != "initial" {
		t.Errorf("expected initial content, got %q", res.Final().Explanation)
	}
	if !res.FinalVerdict().Passed() {
		t.Error("expected initial verdict as final verdict")
	}

	refined := Record{Explanation: "refined"}
	verdict := Verdict{Status: StatusFail, Feedback: []string{"still wrong"}}
	res.RefinedContent = &refined
	res.RefinedVerdict = &verdict

	if !res.Refined() {
		t.Error("expected refinement")
	}
	if res.Final().Explanation != "refined" {
		t.Errorf("expected refined content, got %q", res.Final().Explanation)
	}
	if res.FinalVerdict().Passed() {
		t.Error("expected refined verdict as final verdict")
	}
}

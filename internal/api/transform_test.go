package api

import "testing"

func TestTransformScores(t *testing.T) {
	tests := []struct {
		name         string
		result       CodeReviewResult
		wantOverall  int
		wantSecurity int
	}{
		{
			// Golden case: round((8+6)/2)*10 - 10 = 60, no security findings.
			name: "one high issue",
			result: CodeReviewResult{
				Issues:      []CodeIssue{{Type: "bug", Severity: "high", Description: "x"}},
				CodeQuality: CodeQuality{Readability: 8, Maintainability: 6},
			},
			wantOverall:  60,
			wantSecurity: 95,
		},
		{
			name: "clean code",
			result: CodeReviewResult{
				CodeQuality: CodeQuality{Readability: 10, Maintainability: 10},
			},
			wantOverall:  100,
			wantSecurity: 95,
		},
		{
			// critical counts toward the high-severity penalty
			name: "penalty capped at 50",
			result: CodeReviewResult{
				Issues: []CodeIssue{
					{Severity: "high", Description: "a"},
					{Severity: "high", Description: "b"},
					{Severity: "critical", Description: "c"},
					{Severity: "high", Description: "d"},
					{Severity: "high", Description: "e"},
					{Severity: "critical", Description: "f"},
				},
				CodeQuality: CodeQuality{Readability: 9, Maintainability: 9},
			},
			wantOverall:  40, // 90 - min(60, 50)
			wantSecurity: 95,
		},
		{
			name: "overall floored at zero",
			result: CodeReviewResult{
				Issues: []CodeIssue{
					{Severity: "critical", Description: "a"},
					{Severity: "critical", Description: "b"},
					{Severity: "critical", Description: "c"},
				},
				CodeQuality: CodeQuality{Readability: 1, Maintainability: 1},
			},
			wantOverall:  0, // 10 - 30
			wantSecurity: 95,
		},
		{
			name: "security findings reduce security score",
			result: CodeReviewResult{
				Issues: []CodeIssue{
					{Type: "security", Severity: "medium", Description: "sql injection"},
				},
				SecurityConcerns: []string{"secrets in repo"},
				CodeQuality:      CodeQuality{Readability: 8, Maintainability: 8},
			},
			wantOverall:  80,
			wantSecurity: 65, // 95 - 2*15
		},
		{
			name: "security score floored at 10",
			result: CodeReviewResult{
				SecurityConcerns: []string{"a", "b", "c", "d", "e", "f", "g"},
				CodeQuality:      CodeQuality{Readability: 5, Maintainability: 5},
			},
			wantOverall:  50,
			wantSecurity: 10, // 95 - 105 floored
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TransformCodeReview(tt.result)
			if got.Summary.Score != tt.wantOverall {
				t.Errorf("overall score = %d, want %d", got.Summary.Score, tt.wantOverall)
			}
			if got.Security.Score != tt.wantSecurity {
				t.Errorf("security score = %d, want %d", got.Security.Score, tt.wantSecurity)
			}
		})
	}
}

func TestTransformDisplayMapping(t *testing.T) {
	result := CodeReviewResult{
		Issues: []CodeIssue{
			{Type: "bug", Severity: "critical", Description: "crash", Line: 10},
			{Type: "warning", Severity: "low", Description: "unused var"},
			{Type: "suggestion", Severity: "low", Description: "rename"},
			{Type: "security", Severity: "high", Description: "injection", Suggestion: "use placeholders"},
		},
		SecurityConcerns: []string{"plaintext secrets"},
		Suggestions:      []string{"add tests"},
		CodeQuality:      CodeQuality{Readability: 7, Maintainability: 7, Complexity: "Medium"},
	}

	got := TransformCodeReview(result)

	if got.Issues[0].Severity != "high" {
		t.Errorf("critical severity displayed as %q, want high", got.Issues[0].Severity)
	}
	if got.Issues[1].Type != "style" || got.Issues[2].Type != "style" {
		t.Errorf("warning/suggestion types = %q/%q, want style/style",
			got.Issues[1].Type, got.Issues[2].Type)
	}
	if got.Issues[3].Type != "security" {
		t.Errorf("security type displayed as %q", got.Issues[3].Type)
	}
	if got.Issues[1].Suggestion != "No specific suggestion provided." {
		t.Errorf("empty suggestion = %q, want default text", got.Issues[1].Suggestion)
	}

	if got.Metrics.Complexity != 5 {
		t.Errorf("Medium complexity = %d, want 5", got.Metrics.Complexity)
	}
	if got.Metrics.Maintainability != 7 {
		t.Errorf("maintainability = %d, want 7", got.Metrics.Maintainability)
	}

	// One security issue + one concern.
	if len(got.Security.Vulnerabilities) != 2 {
		t.Fatalf("vulnerabilities = %d, want 2", len(got.Security.Vulnerabilities))
	}
	if got.Security.Vulnerabilities[0].Recommendation != "use placeholders" {
		t.Errorf("recommendation = %q", got.Security.Vulnerabilities[0].Recommendation)
	}
	if got.Security.Vulnerabilities[1].Severity != "medium" {
		t.Errorf("concern severity = %q, want medium", got.Security.Vulnerabilities[1].Severity)
	}

	if got.Summary.Issues != 4 || got.Summary.Suggestions != 1 || got.Summary.SecurityIssues != 2 {
		t.Errorf("summary = %+v", got.Summary)
	}

	for _, issue := range got.Issues {
		if issue.ID == "" {
			t.Error("issue missing generated id")
		}
	}
}

func TestComplexityScore(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"Low", 1},
		{"Medium", 5},
		{"High", 9},
		{"", 9}, // unknown defaults high
	}
	for _, tt := range tests {
		if got := complexityScore(tt.in); got != tt.want {
			t.Errorf("complexityScore(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

package api

import (
	"math"

	"github.com/google/uuid"
)

// AnalysisResults is the normalized analysis shape consumed by the UI.
type AnalysisResults struct {
	Summary  AnalysisSummary `json:"summary"`
	Issues   []AnalysisIssue `json:"issues"`
	Metrics  AnalysisMetrics `json:"metrics"`
	Security SecurityReport  `json:"security"`
}

// AnalysisSummary aggregates the headline numbers.
type AnalysisSummary struct {
	Score          int `json:"score"`
	Issues         int `json:"issues"`
	Suggestions    int `json:"suggestions"`
	SecurityIssues int `json:"securityIssues"`
}

// AnalysisIssue is one display-ready finding.
type AnalysisIssue struct {
	ID          string `json:"id"`
	Severity    string `json:"severity"` // high, medium, low
	Type        string `json:"type"`     // security, performance, style, bug
	Title       string `json:"title"`
	Description string `json:"description"`
	Line        int    `json:"line"`
	Suggestion  string `json:"suggestion"`
}

// AnalysisMetrics holds the derived quality metrics.
type AnalysisMetrics struct {
	Complexity      int `json:"complexity"`
	Maintainability int `json:"maintainability"`
	TestCoverage    int `json:"testCoverage"`
	Performance     int `json:"performance"`
}

// SecurityReport lists vulnerabilities with an aggregate score.
type SecurityReport struct {
	Vulnerabilities []Vulnerability `json:"vulnerabilities"`
	Score           int             `json:"score"`
}

// Vulnerability is one security finding.
type Vulnerability struct {
	ID             string `json:"id"`
	Severity       string `json:"severity"`
	Title          string `json:"title"`
	Description    string `json:"description"`
	Recommendation string `json:"recommendation"`
}

// TransformCodeReview converts a raw backend review into the normalized
// analysis shape. The score formulas are bespoke heuristics carried over
// unchanged for compatibility with existing golden outputs; do not assume
// they generalize.
func TransformCodeReview(data CodeReviewResult) AnalysisResults {
	var securityIssues []CodeIssue
	highSeverity := 0
	for _, issue := range data.Issues {
		if issue.Type == "security" {
			securityIssues = append(securityIssues, issue)
		}
		if issue.Severity == "high" || issue.Severity == "critical" {
			highSeverity++
		}
	}

	qualityScore := int(math.Round(float64(data.CodeQuality.Readability+data.CodeQuality.Maintainability) / 2))
	issuesPenalty := min(highSeverity*10, 50)
	overallScore := max(0, qualityScore*10-issuesPenalty)

	issues := make([]AnalysisIssue, 0, len(data.Issues))
	for _, issue := range data.Issues {
		issues = append(issues, AnalysisIssue{
			ID:          uuid.NewString(),
			Severity:    displaySeverity(issue.Severity),
			Type:        displayType(issue.Type),
			Title:       issue.Description,
			Description: issue.Description,
			Line:        issue.Line,
			Suggestion:  suggestionOrDefault(issue.Suggestion, "No specific suggestion provided."),
		})
	}

	vulns := make([]Vulnerability, 0, len(securityIssues)+len(data.SecurityConcerns))
	for _, issue := range securityIssues {
		vulns = append(vulns, Vulnerability{
			ID:             uuid.NewString(),
			Severity:       issue.Severity,
			Title:          issue.Description,
			Description:    issue.Description,
			Recommendation: suggestionOrDefault(issue.Suggestion, "Please review and address this security issue."),
		})
	}
	for _, concern := range data.SecurityConcerns {
		vulns = append(vulns, Vulnerability{
			ID:             uuid.NewString(),
			Severity:       "medium",
			Title:          concern,
			Description:    concern,
			Recommendation: "Please review and address this security concern.",
		})
	}

	securityCount := len(securityIssues) + len(data.SecurityConcerns)
	securityScore := 95
	if securityCount > 0 {
		securityScore = max(10, 95-securityCount*15)
	}

	return AnalysisResults{
		Summary: AnalysisSummary{
			Score:          overallScore,
			Issues:         len(data.Issues),
			Suggestions:    len(data.Suggestions),
			SecurityIssues: securityCount,
		},
		Issues: issues,
		Metrics: AnalysisMetrics{
			Complexity:      complexityScore(data.CodeQuality.Complexity),
			Maintainability: data.CodeQuality.Maintainability,
			TestCoverage:    0,
			Performance:     5,
		},
		Security: SecurityReport{
			Vulnerabilities: vulns,
			Score:           securityScore,
		},
	}
}

// displaySeverity downgrades critical to high for display.
func displaySeverity(severity string) string {
	if severity == "critical" {
		return "high"
	}
	return severity
}

// displayType maps warning and suggestion findings to the style display
// category.
func displayType(issueType string) string {
	switch issueType {
	case "warning", "suggestion":
		return "style"
	default:
		return issueType
	}
}

func complexityScore(complexity string) int {
	switch complexity {
	case "Low":
		return 1
	case "Medium":
		return 5
	default:
		return 9
	}
}

func suggestionOrDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

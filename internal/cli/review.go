package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/codifyapp/codify-go/internal/api"
)

var reviewThread string

var reviewCmd = &cobra.Command{
	Use:   "review [files...]",
	Short: "Run an AI code review",
	Long: `Analyze code and print the review: score, issues, quality metrics
and security findings.

With file arguments the files are uploaded together so the review sees
them as one unit. Without arguments the snippet is read from stdin.

Examples:
  codify review main.go
  codify review handler.go handler_test.go
  cat snippet.py | codify review
  codify review --thread 3f2a main.go`,
	RunE: runReview,
}

func init() {
	reviewCmd.Flags().StringVar(&reviewThread, "thread", "", "backend thread id for follow-up context")
}

func runReview(cmd *cobra.Command, args []string) error {
	if err := requireAuth(); err != nil {
		return err
	}
	tracker.Check()
	ctx := cmd.Context()

	var (
		results *api.AnalysisResults
		err     error
	)
	if len(args) == 0 {
		code, readErr := io.ReadAll(os.Stdin)
		if readErr != nil {
			return fmt.Errorf("read stdin: %w", readErr)
		}
		if len(code) == 0 {
			return fmt.Errorf("nothing to review: pass files or pipe code on stdin")
		}
		results, err = gateway.ReviewText(ctx, api.CodeAnalysisRequest{
			Code:     string(code),
			ThreadID: reviewThread,
		})
	} else {
		var files []api.UploadFile
		for _, path := range args {
			content, readErr := os.ReadFile(path)
			if readErr != nil {
				return fmt.Errorf("read %s: %w", path, readErr)
			}
			files = append(files, api.UploadFile{
				Name:    filepath.Base(path),
				Content: content,
			})
		}
		results, err = gateway.ReviewFiles(ctx, files, reviewThread)
	}
	if err != nil {
		if api.IsRateLimited(err) {
			notifier.RateLimitModal(api.RateLimitMessage)
		}
		return fmt.Errorf("review: %w", err)
	}

	tracker.Decrement()
	printResults(results)
	return nil
}

func printResults(r *api.AnalysisResults) {
	fmt.Printf("Score: %d/100   Issues: %d   Suggestions: %d   Security: %d\n\n",
		r.Summary.Score, r.Summary.Issues, r.Summary.Suggestions, r.Summary.SecurityIssues)

	if len(r.Issues) > 0 {
		fmt.Println("Issues")
		for _, issue := range r.Issues {
			location := ""
			if issue.Line > 0 {
				location = fmt.Sprintf(" (line %d)", issue.Line)
			}
			fmt.Printf("  [%s/%s]%s %s\n", issue.Severity, issue.Type, location, issue.Title)
			fmt.Printf("      %s\n", issue.Suggestion)
		}
		fmt.Println()
	}

	fmt.Println("Metrics")
	fmt.Printf("  Complexity:      %d/10\n", r.Metrics.Complexity)
	fmt.Printf("  Maintainability: %d/10\n", r.Metrics.Maintainability)
	fmt.Printf("  Performance:     %d/10\n", r.Metrics.Performance)
	fmt.Println()

	fmt.Printf("Security score: %d/100\n", r.Security.Score)
	for _, vuln := range r.Security.Vulnerabilities {
		fmt.Printf("  [%s] %s\n", vuln.Severity, vuln.Title)
		fmt.Printf("      %s\n", vuln.Recommendation)
	}
}

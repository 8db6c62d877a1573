package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

var guidelinesCmd = &cobra.Command{
	Use:   "guidelines",
	Short: "Show the review criteria the service applies",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		g, err := gateway.Guidelines(cmd.Context())
		if err != nil {
			return fmt.Errorf("fetch guidelines: %w", err)
		}

		fmt.Println("Review criteria")
		for _, c := range g.ReviewCriteria {
			fmt.Printf("  - %s\n", c)
		}

		if len(g.SeverityLevels) > 0 {
			fmt.Println("\nSeverity levels")
			for _, k := range sortedKeys(g.SeverityLevels) {
				fmt.Printf("  %-10s %s\n", k, g.SeverityLevels[k])
			}
		}
		if len(g.IssueTypes) > 0 {
			fmt.Println("\nIssue types")
			for _, k := range sortedKeys(g.IssueTypes) {
				fmt.Printf("  %-12s %s\n", k, g.IssueTypes[k])
			}
		}
		if len(g.Tips) > 0 {
			fmt.Println("\nTips")
			for _, tip := range g.Tips {
				fmt.Printf("  - %s\n", tip)
			}
		}
		return nil
	},
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var languagesCmd = &cobra.Command{
	Use:   "languages",
	Short: "List formats the review service accepts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		info, err := gateway.SupportedLanguages(cmd.Context())
		if err != nil {
			return fmt.Errorf("fetch languages: %w", err)
		}

		for _, lang := range info.Languages {
			fmt.Printf("  %-8s %s\n", lang.Extension, lang.Language)
		}
		fmt.Printf("\nMax file size: %s, up to %d files per review\n", info.MaxFileSize, info.MaxFiles)
		return nil
	},
}

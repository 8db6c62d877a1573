package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Log out and discard the stored session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !session.State().IsAuthenticated {
			fmt.Println("Not logged in.")
			return nil
		}
		// Best-effort on the server side; local state is always cleared.
		session.Logout(cmd.Context())
		return nil
	},
}

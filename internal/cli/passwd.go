package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/codifyapp/codify-go/internal/api"
)

var passwdCmd = &cobra.Command{
	Use:   "passwd",
	Short: "Change your password",
	Args:  cobra.NoArgs,
	RunE:  runPasswd,
}

func runPasswd(cmd *cobra.Command, args []string) error {
	if err := requireAuth(); err != nil {
		return err
	}

	current, err := promptPassword("Current password")
	if err != nil {
		return err
	}
	next, err := promptPassword("New password")
	if err != nil {
		return err
	}
	confirm, err := promptPassword("Confirm new password")
	if err != nil {
		return err
	}
	if next != confirm {
		return fmt.Errorf("passwords do not match")
	}

	if err := session.ChangePassword(cmd.Context(), api.ChangePasswordRequest{
		CurrentPassword: current,
		NewPassword:     next,
	}); err != nil {
		return fmt.Errorf("change password: %w", err)
	}
	return nil
}

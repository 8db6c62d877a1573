package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/codifyapp/codify-go/internal/api"
)

var (
	profileName  string
	profileEmail string
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show or update your profile",
	Long: `Show the signed-in profile, or update it when --name or --email
is given.

Examples:
  codify profile
  codify profile --name "Jane Doe"
  codify profile --email jane@new-domain.com`,
	Args: cobra.NoArgs,
	RunE: runProfile,
}

func init() {
	profileCmd.Flags().StringVar(&profileName, "name", "", "new display name")
	profileCmd.Flags().StringVar(&profileEmail, "email", "", "new account email")
}

func runProfile(cmd *cobra.Command, args []string) error {
	if err := requireAuth(); err != nil {
		return err
	}
	ctx := cmd.Context()

	if profileName != "" || profileEmail != "" {
		err := session.UpdateProfile(ctx, api.UpdateProfileRequest{
			Name:  profileName,
			Email: profileEmail,
		})
		if err != nil {
			return fmt.Errorf("update profile: %w", err)
		}
	} else if err := session.RefreshProfile(ctx); err != nil {
		return fmt.Errorf("fetch profile: %w", err)
	}

	user := session.State().User
	if user == nil {
		return fmt.Errorf("session expired - run 'codify login' again")
	}

	fmt.Printf("Name:    %s\n", user.Name)
	fmt.Printf("Email:   %s\n", user.Email)
	if !user.CreatedAt.IsZero() {
		fmt.Printf("Member:  since %s\n", user.CreatedAt.Format("Jan 2, 2006"))
	}
	return nil
}

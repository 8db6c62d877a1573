package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/codifyapp/codify-go/internal/api"
)

var loginEmail string

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in to your Codify account",
	Long: `Log in with your email and password.

The session token is stored locally, so later commands run
authenticated until you log out.

Examples:
  codify login
  codify login -e jane@example.com`,
	Args: cobra.NoArgs,
	RunE: runLogin,
}

func init() {
	loginCmd.Flags().StringVarP(&loginEmail, "email", "e", "", "account email")
}

func runLogin(cmd *cobra.Command, args []string) error {
	if !guestOnly() {
		fmt.Println("Already logged in. Run 'codify logout' to switch accounts.")
		return nil
	}

	email := loginEmail
	if email == "" {
		var err error
		email, err = promptLine("Email")
		if err != nil {
			return err
		}
	}
	password, err := promptPassword("Password")
	if err != nil {
		return err
	}

	if err := session.Login(cmd.Context(), api.LoginRequest{
		Email:    email,
		Password: password,
	}); err != nil {
		return fmt.Errorf("login: %w", err)
	}

	if user := session.State().User; user != nil {
		fmt.Printf("Welcome back, %s!\n", user.Name)
	}
	return nil
}

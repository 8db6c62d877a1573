package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/codifyapp/codify-go/internal/api"
)

var (
	registerName  string
	registerEmail string
)

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create a Codify account",
	Long: `Create a new account and sign in.

Examples:
  codify register
  codify register -n "Jane Doe" -e jane@example.com`,
	Args: cobra.NoArgs,
	RunE: runRegister,
}

func init() {
	registerCmd.Flags().StringVarP(&registerName, "name", "n", "", "display name")
	registerCmd.Flags().StringVarP(&registerEmail, "email", "e", "", "account email")
}

func runRegister(cmd *cobra.Command, args []string) error {
	if !guestOnly() {
		fmt.Println("Already logged in. Run 'codify logout' first.")
		return nil
	}

	name := registerName
	if name == "" {
		var err error
		name, err = promptLine("Name")
		if err != nil {
			return err
		}
	}
	email := registerEmail
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
	confirm, err := promptPassword("Confirm password")
	if err != nil {
		return err
	}
	if password != confirm {
		return fmt.Errorf("passwords do not match")
	}

	if err := session.Register(cmd.Context(), api.RegisterRequest{
		Name:     name,
		Email:    email,
		Password: password,
	}); err != nil {
		return fmt.Errorf("register: %w", err)
	}

	fmt.Printf("Welcome, %s!\n", name)
	return nil
}

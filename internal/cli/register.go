package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	registerUsername string
	registerEmail    string
)

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create a new ShopBot account",
	Long: `Create a new account and log in with it. Username, email, and password are
validated locally before anything is sent to the backend.`,
	Args: cobra.NoArgs,
	RunE: runRegister,
}

func init() {
	registerCmd.Flags().StringVarP(&registerUsername, "username", "u", "", "account username")
	registerCmd.Flags().StringVarP(&registerEmail, "email", "e", "", "account email")
}

func runRegister(cmd *cobra.Command, args []string) error {
	username := registerUsername
	email := registerEmail

	var err error
	if username == "" {
		if username, err = promptLine("Username: "); err != nil {
			return err
		}
	}
	if email == "" {
		if email, err = promptLine("Email: "); err != nil {
			return err
		}
	}

	password, err := promptPassword("Password: ")
	if err != nil {
		return err
	}

	user, err := authManager.Register(cmd.Context(), username, email, password)
	if err != nil {
		return fmt.Errorf("%s", friendlyError(err))
	}

	fmt.Printf("Welcome %s! Your account is ready. Run 'shopbot chat' to start shopping.\n", user.Username)
	return nil
}

package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Log out and forget the stored session",
	Long: `Clear the stored auth token, user record, and active conversation. Logout is
local-only and always succeeds, even when already logged out.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		authManager.Logout()
		fmt.Println("Logged out.")
		return nil
	},
}

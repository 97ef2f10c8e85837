package cli

import (
	"fmt"

	"github.com/adityaverma/shopbot-go/internal/auth"
	"github.com/spf13/cobra"
)

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the logged-in user",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !session.Authenticated() {
			fmt.Println("Not logged in.")
			return nil
		}

		// Best-effort verification; stored identity is shown either way.
		verified := authManager.ValidateOnStartup(cmd.Context())

		user := session.User()
		if user == nil {
			fmt.Println("Not logged in.")
			return nil
		}
		fmt.Printf("Logged in as %s", user.Username)
		if user.Email != "" {
			fmt.Printf(" <%s>", user.Email)
		}
		fmt.Println()

		if verified == auth.StartupUnverified {
			fmt.Println("(stored session could not be verified; the backend may be unreachable)")
		}
		return nil
	},
}

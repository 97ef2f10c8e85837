package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check that the backend is reachable",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		resp, err := apiClient.Health(cmd.Context())
		if err != nil {
			return fmt.Errorf("%s", friendlyError(err))
		}
		fmt.Printf("Backend at %s is %s.\n", cfg.APIBaseURL, resp.Status)
		return nil
	},
}

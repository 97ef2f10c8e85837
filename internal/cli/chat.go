package cli

import (
	"fmt"

	"github.com/adityaverma/shopbot-go/internal/auth"
	"github.com/spf13/cobra"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Open the interactive chat surface",
	Long: `Open the interactive chat surface and talk to the shopping assistant.

Inside the chat:
  /new               start a fresh conversation
  /sessions          list previous conversations
  /load <n>          resume a listed conversation
  /clear             clear the screen (keeps the conversation)
  /categories, /deals, /featured   quick actions
  /quit              leave the chat`,
	Args: cobra.NoArgs,
	RunE: runChat,
}

func runChat(cmd *cobra.Command, args []string) error {
	switch authManager.ValidateOnStartup(cmd.Context()) {
	case auth.StartupAnonymous:
		return fmt.Errorf("not logged in. Run 'shopbot login' first")
	case auth.StartupUnverified:
		// Stored credentials stay intact either way; once the backend is
		// reachable again a later run re-validates without a fresh login.
		if _, err := apiClient.Health(cmd.Context()); err != nil {
			return fmt.Errorf("your stored session could not be verified: %s", friendlyError(err))
		}
		return fmt.Errorf("your stored session was rejected by the backend. Run 'shopbot login' again")
	}

	return runChatUI(engine, session)
}

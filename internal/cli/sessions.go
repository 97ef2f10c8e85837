package cli

import (
	"fmt"
	"time"

	"github.com/adityaverma/shopbot-go/internal/chat"
	"github.com/spf13/cobra"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List your previous chat sessions",
	Long: `List the chat sessions stored on the backend for the logged-in user, newest
first. Use '/load <n>' inside 'shopbot chat' to resume one.`,
	Args: cobra.NoArgs,
	RunE: runSessions,
}

func runSessions(cmd *cobra.Command, args []string) error {
	if !session.Authenticated() {
		fmt.Println("Not logged in. Run 'shopbot login' first.")
		return nil
	}

	sessions, err := engine.Sessions(cmd.Context())
	if err != nil {
		return fmt.Errorf("%s", friendlyError(err))
	}

	if len(sessions) == 0 {
		fmt.Println("No previous sessions.")
		return nil
	}

	now := time.Now()
	activeToken := session.ActiveSession()

	fmt.Printf("%-4s %-14s %-10s %s\n", "#", "LAST ACTIVE", "MESSAGES", "SESSION")
	for i, s := range sessions {
		marker := " "
		if s.SessionToken == activeToken {
			marker = "*"
		}
		when := chat.FormatSessionTime(chat.ParseServerTime(s.UpdatedAt), now)
		fmt.Printf("%-4d %-14s %-10d %s%s\n", i+1, when, s.MessageCount, marker, shortToken(s.SessionToken))
	}
	return nil
}

// shortToken abbreviates a session token for display.
func shortToken(token string) string {
	if len(token) <= 12 {
		return token
	}
	return token[:12] + "…"
}

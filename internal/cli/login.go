package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var loginUsername string

var loginCmd = &cobra.Command{
	Use:   "login [username]",
	Short: "Log in to the ShopBot backend",
	Long: `Log in with an existing account. The password is read from an interactive
prompt and never echoed. On success the auth token is stored locally and
reused until logout.

Examples:
  shopbot login
  shopbot login Adi`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLogin,
}

func init() {
	loginCmd.Flags().StringVarP(&loginUsername, "username", "u", "", "account username")
}

func runLogin(cmd *cobra.Command, args []string) error {
	username := loginUsername
	if len(args) > 0 {
		username = args[0]
	}

	var err error
	if username == "" {
		username, err = promptLine("Username: ")
		if err != nil {
			return err
		}
	}

	password, err := promptPassword("Password: ")
	if err != nil {
		return err
	}

	user, err := authManager.Login(cmd.Context(), username, password)
	if err != nil {
		return fmt.Errorf("%s", friendlyError(err))
	}

	fmt.Printf("Logged in as %s. Run 'shopbot chat' to start shopping.\n", user.Username)
	return nil
}

// promptLine reads one trimmed line from stdin.
func promptLine(prompt string) (string, error) {
	fmt.Print(prompt)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// promptPassword reads a password without echoing it.
func promptPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	data, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return string(data), nil
}

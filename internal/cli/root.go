// Package cli provides the command-line interface for shopbot.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/adityaverma/shopbot-go/internal/api"
	"github.com/adityaverma/shopbot-go/internal/auth"
	"github.com/adityaverma/shopbot-go/internal/chat"
	"github.com/adityaverma/shopbot-go/internal/config"
	"github.com/adityaverma/shopbot-go/internal/state"
	"github.com/adityaverma/shopbot-go/internal/store"
	"github.com/spf13/cobra"
)

var (
	// Version is set at build time.
	Version = "0.1.0"

	// Global flags
	verbose bool

	// Shared application state, built once in PersistentPreRunE. This is the
	// single initialization path: every command goes through it, so there is
	// no secondary wiring to fall back to.
	cfg         config.Config
	logger      *slog.Logger
	logCleanup  func() error
	stateStore  *store.Store
	session     *state.Session
	apiClient   *api.Client
	authManager *auth.Manager
	engine      *chat.Engine
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "shopbot",
	Short: "Terminal client for the ShopBot shopping assistant",
	Long: `Shopbot is a terminal client for the ShopBot conversational shopping
assistant. Log in once, then chat with the assistant, browse your previous
conversations, and search the product catalog.

Sessions survive restarts: the auth token and active conversation are kept in
a local state database and revalidated against the backend on startup.`,
	Version: Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "version" || cmd.Name() == "help" {
			return nil
		}

		cfg = config.Load()
		level := cfg.LogLevel
		if verbose {
			level = slog.LevelDebug
		}
		logger, logCleanup = config.SetupLogger(cfg.LogFile, level)

		stateStore = store.Open(cfg.StatePath, logger)

		session = state.New()
		session.Hydrate(stateStore)

		apiClient = api.New(cfg.APIBaseURL, cfg.RequestTimeout, session, logger)
		authManager = auth.NewManager(session, stateStore, apiClient, logger)
		engine = chat.NewEngine(session, stateStore, apiClient, logger)

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if stateStore != nil {
			stateStore.Close()
		}
		if logCleanup != nil {
			if err := logCleanup(); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to close log file: %v\n", err)
			}
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(sessionsCmd)
	rootCmd.AddCommand(productsCmd)
	rootCmd.AddCommand(healthCmd)
}

// friendlyError turns a transport failure into the message shown to the user,
// keeping "server down" distinct from "request rejected".
func friendlyError(err error) string {
	if api.IsUnreachable(err) {
		return fmt.Sprintf("Cannot reach the server at %s. Is the backend running?", cfg.APIBaseURL)
	}
	return err.Error()
}

// Package cli provides the command-line interface for codify.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/codifyapp/codify-go/internal/api"
	"github.com/codifyapp/codify-go/internal/auth"
	"github.com/codifyapp/codify-go/internal/chat"
	"github.com/codifyapp/codify-go/internal/config"
	"github.com/codifyapp/codify-go/internal/metrics"
	"github.com/codifyapp/codify-go/internal/notify"
	"github.com/codifyapp/codify-go/internal/ratelimit"
	"github.com/codifyapp/codify-go/internal/routes"
	"github.com/codifyapp/codify-go/internal/storage"
)

var (
	// Version is set at build time.
	Version = "0.1.0"

	// Global flags
	verbose bool

	// Global config and wiring, assembled in PersistentPreRunE
	cfg       config.Config
	logger    *slog.Logger
	closeLog  func() error
	fileStore *storage.FileStore
	notifier  *notify.Terminal
	collector *metrics.Collector
	gateway   *api.Client
	session   *auth.Store
	tracker   *ratelimit.Tracker

	// Lazy-initialized chat store
	threads *chat.Store
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "codify",
	Short: "AI code review and chat client",
	Long: `Codify is a client for the Codify AI code review service.

Review code snippets and files, chat with the review assistant across
persistent conversation threads, and manage your account - all against
a live backend or a built-in mock mode for offline work.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip wiring for version and help commands
		if cmd.Name() == "version" || cmd.Name() == "help" {
			return nil
		}

		cfg = config.Load()
		if verbose {
			cfg.Debug = true
		}
		logger, closeLog = cfg.SetupLogger()

		var err error
		fileStore, err = storage.NewFileStore(cfg.DataDir)
		if err != nil {
			return fmt.Errorf("open data directory: %w", err)
		}

		notifier = notify.NewTerminal(os.Stderr)
		collector = metrics.NewCollector()

		gateway = api.NewClient(cfg,
			api.WithLogger(logger),
			api.WithMetrics(collector),
			api.WithTokenSource(func() string {
				if session == nil {
					return ""
				}
				return session.Token()
			}),
		)
		session = auth.NewStore(gateway, fileStore, notifier, logger)
		tracker = ratelimit.NewTracker(cfg, notifier, logger)

		// Swap the request budget whenever the session flips between
		// guest and authenticated.
		wasAuthenticated := false
		session.Subscribe(func(st auth.State) {
			if st.IsLoading || st.IsAuthenticated == wasAuthenticated {
				return
			}
			wasAuthenticated = st.IsAuthenticated
			tracker.HandleAuthChange(st.IsAuthenticated)
		})

		// Rehydrate the stored session before any command runs.
		session.Bootstrap(cmd.Context())

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if closeLog != nil {
			if err := closeLog(); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to close log file: %v\n", err)
			}
		}
	},
}

// getThreads creates the chat thread store on first use.
func getThreads() *chat.Store {
	if threads == nil {
		threads = chat.NewStore(gateway, fileStore, notifier, tracker, logger)
	}
	return threads
}

// requireAuth guards commands that need a signed-in session. The route
// guard decides; this just translates its verdict into errors.
func requireAuth() error {
	st := session.State()
	decision := routes.Decide(routes.Input{
		IsAuthenticated: st.IsAuthenticated,
		AuthLoading:     st.IsLoading,
		RateLimited:     tracker.Status().IsLimited,
		RequireAuth:     true,
	})
	if decision.CheckRateLimit {
		tracker.Check()
	}
	if decision.Kind == routes.RedirectToLogin {
		if decision.Redirect != nil && decision.Redirect.RateLimitExceeded {
			return fmt.Errorf("rate limit exceeded - login with 'codify login' to continue with higher limits")
		}
		return fmt.Errorf("not logged in - run 'codify login' first")
	}
	return nil
}

// guestOnly reports whether a login/register command should bail out
// because a session is already active.
func guestOnly() bool {
	decision := routes.Decide(routes.Input{
		IsAuthenticated: session.State().IsAuthenticated,
		RequireAuth:     false,
	})
	return decision.Kind != routes.RedirectAway
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	// Add subcommands
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(passwdCmd)
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(threadsCmd)
	rootCmd.AddCommand(reviewCmd)
	rootCmd.AddCommand(languagesCmd)
	rootCmd.AddCommand(guidelinesCmd)
	rootCmd.AddCommand(statusCmd)
}

// TokenWatcher terminal client. Run without arguments for the interactive
// dashboard; subcommands cover the same operations for scripting.
package main

import (
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"tokenwatcher/cmd/tokenwatcher/ui"
	"tokenwatcher/internal/api"
	"tokenwatcher/internal/auth"
	"tokenwatcher/internal/config"
	"tokenwatcher/internal/logging"
	"tokenwatcher/internal/resource"
	"tokenwatcher/internal/session"
)

var (
	// Global flags
	verbose bool
	baseURL string
	timeout time.Duration

	// Logger for one-shot subcommands. The dashboard uses the category file
	// logger instead so log lines never bleed into the alternate screen.
	logger *zap.Logger
)

// env is everything a command needs: config plus the wired client stack.
type env struct {
	cfg     *config.Config
	client  *api.Client
	store   *session.Store
	manager *auth.Manager
}

func newEnv() (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if baseURL != "" {
		cfg.API.BaseURL = baseURL
	}
	if timeout > 0 {
		cfg.API.Timeout = timeout.String()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	dir, err := config.Dir()
	if err != nil {
		return nil, err
	}

	client := api.New(cfg.API.BaseURL, api.WithTimeout(cfg.RequestTimeout()))
	store := session.NewStore(dir)
	return &env{
		cfg:     cfg,
		client:  client,
		store:   store,
		manager: auth.NewManager(client, store),
	}, nil
}

var rootCmd = &cobra.Command{
	Use:   "tokenwatcher",
	Short: "TokenWatcher - track large ERC-20 transfers from your terminal",
	Long: `TokenWatcher watches ERC-20 token contracts for transfers above a
USD threshold you set, and notifies your webhooks when one lands.

Run without arguments to open the interactive dashboard. Subcommands
expose the same watcher, event and plan operations for scripting.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// The dashboard has its own logging; skip zap for interactive mode.
		if cmd.Use == "tokenwatcher" && cmd.CalledAs() == "tokenwatcher" {
			return nil
		}

		zcfg := zap.NewProductionConfig()
		if verbose {
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zcfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDashboard()
	},
}

// runDashboard starts the interactive TUI.
func runDashboard() error {
	e, err := newEnv()
	if err != nil {
		return err
	}

	dir, err := config.Dir()
	if err != nil {
		return err
	}
	if err := logging.Initialize(dir); err != nil {
		fmt.Fprintf(os.Stderr, "warning: file logging disabled: %v\n", err)
	}
	defer logging.CloseAll()
	logging.Boot("dashboard starting, api=%s", e.cfg.API.BaseURL)

	stores := ui.Stores{
		Watchers: resource.NewWatcherStore(e.client, e.manager),
		Events:   resource.NewEventStore(e.client, e.manager, e.cfg.UI.EventsPageSize),
		Plans:    resource.NewPlanStore(e.client, e.manager),
	}
	styles := ui.NewStyles(ui.ThemeFor(e.cfg.UI.Theme))

	app := ui.NewApp(e.manager, stores, styles, e.cfg.RequestTimeout())
	p := tea.NewProgram(app, tea.WithAltScreen())
	_, err = p.Run()
	return err
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&baseURL, "api-url", "", "override the API base URL")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 0, "override the request timeout")

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(deleteAccountCmd)
	rootCmd.AddCommand(watchersCmd)
	rootCmd.AddCommand(eventsCmd)
	rootCmd.AddCommand(plansCmd)
	rootCmd.AddCommand(docsCmd)
	rootCmd.AddCommand(configCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

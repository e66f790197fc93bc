// Package cli provides the command-line interface for chatsync.
package cli

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/raphaelgruber/chatsync-go/internal/client"
	"github.com/raphaelgruber/chatsync-go/internal/config"
	"github.com/raphaelgruber/chatsync-go/internal/engine"
	"github.com/raphaelgruber/chatsync-go/internal/metrics"
	"github.com/raphaelgruber/chatsync-go/internal/store"
	"github.com/raphaelgruber/chatsync-go/internal/transport"
)

var (
	// Version is set at build time.
	Version = "0.1.0"

	// Global flags
	verbose bool

	// Global config, logger and API client
	cfg        config.Config
	logger     *slog.Logger
	logCleanup func() error
	apiClient  *client.Client
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "chatsync",
	Short: "Chat client state-synchronization engine",
	Long: `Chatsync reconciles a local view of chat conversations against a REST
backend and a real-time push channel, keeping messages deduplicated,
ordered and correctly counted regardless of arrival order.`,
	Version: Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "version" || cmd.Name() == "help" {
			return nil
		}

		var err error
		cfg, err = config.Load()
		if err != nil {
			return err
		}

		level := cfg.LogLevel
		if verbose {
			level = slog.LevelDebug
		}
		logger, logCleanup = config.SetupLogger(cfg.LogFile, level)
		slog.SetDefault(logger)

		apiClient = client.New(cfg.ServerURL)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logCleanup != nil {
			_ = logCleanup()
		}
	},
}

// newEngine builds an engine around the global store and API client. sub may
// be nil for commands that only use REST.
func newEngine(sub transport.Subscriber, notifier engine.Notifier) (*engine.Engine, *store.Store) {
	st := store.New(cfg.IdentityWindow, logger)
	user := engine.Identity{ID: cfg.UserID, Name: cfg.UserName}
	eng := engine.New(st, apiClient, sub, user, notifier, metrics.NewCollector(), logger)
	return eng, st
}

// newSubscriber builds the push transport selected by configuration.
func newSubscriber() transport.Subscriber {
	if cfg.Transport == "nats" {
		return transport.NewNATS(cfg.NATSURL, cfg.NATSStream, logger)
	}
	return transport.NewWebSocket(cfg.WSEndpoint, logger)
}

// Execute adds all child commands to the root command and runs it.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(chatsCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(sendCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(versionCmd)
}

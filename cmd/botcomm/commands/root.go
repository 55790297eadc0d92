package commands

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/haivivi/botcomm/cmd/botcomm/internal/config"
	"github.com/haivivi/botcomm/pkg/comm/commstore"
)

var (
	// Global flags
	configPath string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "botcomm",
	Short: "Supervised conversational session hub",
	Long: `botcomm - a WebSocket hub brokering live conversations between a bot
display client and its control panel operator.

Each communication pairs one bot and one control panel. Raw user input
flows bot -> control panel for triage; AI-processed responses (speech to
text, chat completion, text to speech) flow control panel -> bot.

Clients connect to:
  /api/ws/communication/{publicId}?role={bot|controlPanel}

Examples:
  # Create a communication and start the server
  botcomm create --public-id demo
  botcomm serve --config botcomm.yaml

  # Inspect stored communications
  botcomm list`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "server config file (default botcomm.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// loadConfig loads the server config honoring the --config flag.
func loadConfig() (*config.Config, error) {
	if verbose {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	}
	return config.Load(configPath)
}

// openStore opens the badger store at the configured data directory.
func openStore(cfg *config.Config) (commstore.Store, error) {
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, err
	}
	return commstore.NewBadger(commstore.BadgerOptions{Dir: cfg.DataDir})
}

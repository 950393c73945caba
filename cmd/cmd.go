package cmd

import (
	"context"
	"log/slog"

	"github.com/gaze-network/bridge-network/internal/config"
	"github.com/gaze-network/bridge-network/pkg/logger"
	"github.com/gaze-network/bridge-network/pkg/logger/slogx"
	"github.com/spf13/cobra"
)

var cmd = &cobra.Command{
	Use:   "bridge",
	Short: "Ethereum to Solana wrapped token bridge",
	Long: `Settlement core of the Ethereum to Solana wrapped token bridge.
Mints wrapped tokens once a validator quorum attests a source chain deposit, and records burns for release on the source chain.`,
}

func init() {
	var configFile string

	// Add global flags
	flags := cmd.PersistentFlags()
	flags.StringVar(&configFile, "config", "", "config file, E.g. `./config.yaml`")
	flags.String("network", "mainnet", "network to settle on, E.g. `mainnet`, `testnet`, `devnet` or `localnet`")

	// Bind flags to configuration
	config.BindPFlag("network", flags.Lookup("network"))

	// Initialize configuration and logger on start command
	cobra.OnInitialize(func() {
		// Initialize configuration
		config := config.Parse(configFile)

		// Initialize logger
		if err := logger.Init(config.Logger); err != nil {
			logger.Panic("Failed to initialize logger", slogx.Error(err), slog.Any("config", config.Logger))
		}
	})
}

func Execute(ctx context.Context) {
	// Register sub-commands
	cmd.AddCommand(
		NewVersionCommand(),
		NewRunCommand(),
		NewMigrateCommand(),
		NewGenerateKeypairCommand(),
		NewExportBurnsCommand(),
	)

	// Execute command
	if err := cmd.ExecuteContext(ctx); err != nil {
		logger.Panic("Failed to execute root command", slogx.Error(err))
	}
}

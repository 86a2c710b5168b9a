package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var logLevel string

// RootCmd creates a new root command for scatter. It is called once in the
// main function.
func RootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scatter",
		Short: "Drip Sepolia testnet ETH from funded wallets to freshly generated addresses",
	}

	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "debug", "logging level")

	cmd.AddCommand(
		RunCmd(),
		BalancesCmd(),
		GenWalletsCmd(),
		VersionCmd(),
	)
	return cmd
}

// SetLogger configures the global zerolog logger with the given level.
func SetLogger(level string) error {
	l, err := zerolog.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("parse log level: %w", err)
	}
	zerolog.SetGlobalLevel(l)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	return nil
}

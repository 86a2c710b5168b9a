package cmd

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"sepolia-scatter/client"
	"sepolia-scatter/config"
)

// BalancesCmd prints the balance of every configured wallet without sending
// anything.
func BalancesCmd() *cobra.Command {
	var (
		configPath   string
		accountsPath string
	)

	cmd := &cobra.Command{
		Use:   "balances",
		Short: "Print the balance of every configured wallet",
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

			ctx := context.Background()

			err := SetLogger(logLevel)
			if err != nil {
				return fmt.Errorf("set logger: %w", err)
			}

			cfg, err := config.Read(configPath)
			if err != nil {
				return fmt.Errorf("read config: %w", err)
			}
			if accountsPath != "" {
				cfg.AccountsFile = accountsPath
			}

			wallets, err := loadWallets(cfg)
			if err != nil {
				return err
			}

			c, err := client.Connect(ctx, cfg.Endpoints)
			if err != nil {
				return err
			}
			defer c.Stop() // nolint: errcheck

			for i, w := range wallets {
				balance, err := c.BalanceAt(ctx, w.Address(), nil)
				if err != nil {
					log.Error().Int("wallet", i+1).Err(err).Msg("get balance failed")
					continue
				}
				log.Info().
					Str("wallet", w.Address().Hex()).
					Str("balance", decimal.NewFromBigInt(balance, -18).String()).
					Msgf("wallet %d/%d", i+1, len(wallets))
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", config.DefaultConfigPath, "path of the config file")
	cmd.Flags().StringVar(&accountsPath, "accounts", "", "path of a YAML accounts file, used instead of env keys")
	return cmd
}

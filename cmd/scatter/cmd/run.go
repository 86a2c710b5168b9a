package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"sepolia-scatter/client"
	"sepolia-scatter/config"
	"sepolia-scatter/scatter"
	"sepolia-scatter/tx"
	"sepolia-scatter/wallet"
)

// RunCmd runs the full disbursement workflow: endpoint selection, credential
// loading, then one sequential disbursement per wallet.
func RunCmd() *cobra.Command {
	var (
		configPath   string
		accountsPath string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Disburse testnet ETH from every configured wallet",
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
			log.Info().Msgf("loaded %d wallet(s)", len(wallets))

			c, err := client.Connect(ctx, cfg.Endpoints)
			if err != nil {
				return err
			}
			defer c.Stop() // nolint: errcheck

			amounts, err := amountPolicy(cfg.Scatter.Amount)
			if err != nil {
				return err
			}

			s := scatter.New(c, tx.NewTransfer(c, cfg.ChainID, cfg.Scatter.GasLimit), scatter.Params{
				Amounts:            amounts,
				TxDelay:            delayPolicy(cfg.Scatter.Delays.Tx, cfg.Scatter.Delays.TxMin, cfg.Scatter.Delays.TxMax),
				BatchDelay:         delayPolicy(cfg.Scatter.Delays.Batch, cfg.Scatter.Delays.BatchMin, cfg.Scatter.Delays.BatchMax),
				AddressesPerWallet: cfg.Scatter.AddressesPerWallet,
				BatchSize:          cfg.Scatter.BatchSize,
			})

			runner := scatter.NewRunner(s, wallets, time.Duration(cfg.Scatter.Delays.Wallet)*time.Second)
			runner.Run(ctx)

			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", config.DefaultConfigPath, "path of the config file")
	cmd.Flags().StringVar(&accountsPath, "accounts", "", "path of a YAML accounts file, used instead of env keys")
	return cmd
}

// loadWallets loads the funded wallets from the accounts file if one is
// configured, otherwise from sequentially numbered environment entries. A
// malformed entry is logged and skipped; zero usable wallets is fatal.
func loadWallets(cfg *config.Config) ([]*wallet.Wallet, error) {
	var wallets []*wallet.Wallet

	if cfg.AccountsFile != "" {
		accounts, err := config.ReadAccountsFile(cfg.AccountsFile)
		if err != nil {
			return nil, err
		}
		for _, a := range accounts {
			var w *wallet.Wallet
			if a.Mnemonic != "" {
				w, err = wallet.FromMnemonic(a.Mnemonic, 0)
			} else {
				w, err = wallet.FromHex(a.PrivateKey)
			}
			if err != nil {
				log.Warn().Str("account", a.Name).Err(err).Msg("skipping malformed account")
				continue
			}
			wallets = append(wallets, w)
		}
	} else {
		for i, k := range config.PrivateKeysFromEnv(cfg.KeyPrefix) {
			w, err := wallet.FromHex(k)
			if err != nil {
				log.Warn().Msgf("skipping malformed key %s%d: %v", cfg.KeyPrefix, i+1, err)
				continue
			}
			wallets = append(wallets, w)
		}
	}

	if len(wallets) == 0 {
		return nil, config.ErrNoWallets
	}
	return wallets, nil
}

func amountPolicy(a config.AmountConfig) (scatter.AmountPolicy, error) {
	if a.Randomized() {
		min, max, err := a.ParseRange()
		if err != nil {
			return scatter.AmountPolicy{}, err
		}
		return scatter.AmountRange(min, max), nil
	}
	fixed, err := a.ParseFixed()
	if err != nil {
		return scatter.AmountPolicy{}, err
	}
	return scatter.FixedAmount(fixed), nil
}

func delayPolicy(fixed, min, max int64) scatter.DelayPolicy {
	if min > 0 && max > 0 {
		return scatter.DelayRange(time.Duration(min)*time.Second, time.Duration(max)*time.Second)
	}
	return scatter.FixedDelay(time.Duration(fixed) * time.Second)
}

package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"sepolia-scatter/wallet"
)

// GenWalletsCmd generates fresh wallets and prints them to stdout. Nothing is
// written to disk.
func GenWalletsCmd() *cobra.Command {
	var (
		showKeys     bool
		fromMnemonic bool
	)

	cmd := &cobra.Command{
		Use:   "gen-wallets [n]",
		Short: "Generate fresh wallets and print their addresses",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

			err := SetLogger(logLevel)
			if err != nil {
				return fmt.Errorf("set logger: %w", err)
			}

			n := 1
			if len(args) == 1 {
				n, err = strconv.Atoi(args[0])
				if err != nil || n <= 0 {
					return fmt.Errorf("n must be a positive integer: %s", args[0])
				}
			}

			for i := 0; i < n; i++ {
				var w *wallet.Wallet
				var mnemonic string
				if fromMnemonic {
					mnemonic, err = wallet.NewMnemonic()
					if err != nil {
						return err
					}
					w, err = wallet.FromMnemonic(mnemonic, 0)
				} else {
					w, err = wallet.Generate()
				}
				if err != nil {
					return err
				}

				line := w.Address().Hex()
				if showKeys {
					line += " " + w.PrivateKeyHex()
				}
				if fromMnemonic {
					line += " " + mnemonic
				}
				fmt.Println(line)
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&showKeys, "keys", false, "also print the hex private key of each wallet")
	cmd.Flags().BoolVar(&fromMnemonic, "mnemonic", false, "derive each wallet from a fresh BIP-39 mnemonic and print it")
	return cmd
}

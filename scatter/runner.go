package scatter

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"sepolia-scatter/wallet"
)

// Summary aggregates the outcome of one run.
type Summary struct {
	Wallets   int
	Attempted int
	Sent      int
	Failed    int
}

// Runner iterates the Scatterer over every loaded wallet, strictly in
// sequence. Parallel processing would risk nonce collisions since the nonce
// is fetched fresh per transaction from the network rather than tracked
// locally.
type Runner struct {
	scatterer   *Scatterer
	wallets     []*wallet.Wallet
	walletDelay time.Duration
	wait        WaitFunc
}

// NewRunner returns a Runner that pauses walletDelay between wallets.
func NewRunner(s *Scatterer, wallets []*wallet.Wallet, walletDelay time.Duration) *Runner {
	return &Runner{
		scatterer:   s,
		wallets:     wallets,
		walletDelay: walletDelay,
		wait:        s.wait,
	}
}

// Run processes every wallet in order, waiting walletDelay between wallets
// but not after the last. A failure while processing one wallet is logged
// with the wallet's index and does not abort processing of subsequent
// wallets.
func (r *Runner) Run(ctx context.Context) Summary {
	summary := Summary{Wallets: len(r.wallets)}

	for i, w := range r.wallets {
		log.Info().Msgf("wallet %d/%d: %s", i+1, len(r.wallets), w.Address().Hex())

		results, err := r.scatterer.Disburse(ctx, w)
		for _, res := range results {
			summary.Attempted++
			if res.Ok() {
				summary.Sent++
			} else {
				summary.Failed++
			}
		}
		if err != nil {
			log.Error().Int("wallet", i+1).Err(err).Msg("wallet processing failed, continuing with next")
		}

		if i < len(r.wallets)-1 {
			log.Info().Msgf("waiting %s before next wallet", r.walletDelay)
			if err := r.wait(ctx, r.walletDelay); err != nil {
				log.Error().Err(err).Msg("run interrupted")
				return summary
			}
		}
	}

	log.Info().
		Int("wallets", summary.Wallets).
		Int("attempted", summary.Attempted).
		Int("sent", summary.Sent).
		Int("failed", summary.Failed).
		Msg("run complete")
	return summary
}

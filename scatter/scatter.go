package scatter

import (
	"context"
	"fmt"
	"math/big"
	"math/rand"
	"time"

	"github.com/ethereum/go-ethereum/common"
	gethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"sepolia-scatter/wallet"
)

// ChainReader reads account state. *client.Client satisfies it.
type ChainReader interface {
	BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error)
}

// Sender submits one value transfer and waits for inclusion. *tx.Transfer
// satisfies it.
type Sender interface {
	Send(ctx context.Context, w *wallet.Wallet, to common.Address, amountWei *big.Int) (*gethtypes.Receipt, error)
}

// Result is the outcome of one transfer attempt. A failed send carries the
// error instead of a receipt, so callers cannot mistake it for a success.
type Result struct {
	Recipient common.Address
	Amount    decimal.Decimal
	TxHash    common.Hash
	Receipt   *gethtypes.Receipt
	Err       error
}

// Ok reports whether the transfer was submitted and mined.
func (r Result) Ok() bool {
	return r.Err == nil
}

// Params configures a Scatterer.
type Params struct {
	Amounts            AmountPolicy
	TxDelay            DelayPolicy
	BatchDelay         DelayPolicy
	AddressesPerWallet int
	BatchSize          int

	// Rand and Wait default to a time-seeded source and a real timed wait.
	Rand *rand.Rand
	Wait WaitFunc
}

// Scatterer disburses funds from one wallet at a time to freshly generated
// addresses, strictly sequentially, pacing transfers with delays.
type Scatterer struct {
	reader     ChainReader
	sender     Sender
	amounts    AmountPolicy
	txDelay    DelayPolicy
	batchDelay DelayPolicy
	perWallet  int
	batchSize  int
	rng        *rand.Rand
	wait       WaitFunc
}

// New returns a new Scatterer.
func New(reader ChainReader, sender Sender, p Params) *Scatterer {
	rng := p.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	wait := p.Wait
	if wait == nil {
		wait = Wait
	}
	return &Scatterer{
		reader:     reader,
		sender:     sender,
		amounts:    p.Amounts,
		txDelay:    p.TxDelay,
		batchDelay: p.BatchDelay,
		perWallet:  p.AddressesPerWallet,
		batchSize:  p.BatchSize,
		rng:        rng,
		wait:       wait,
	}
}

// Disburse transfers funds from w to freshly generated addresses: one
// transfer per recipient, in address-list order, with a pacing delay after
// every transfer except the last of its batch and a longer delay after every
// batch except the last. A failed transfer is recorded and the loop moves on
// to its pacing delay and the next recipient; it is never retried. The
// balance read at the top is informational only and never gates or sizes the
// run.
func (s *Scatterer) Disburse(ctx context.Context, w *wallet.Wallet) ([]Result, error) {
	balance, err := s.reader.BalanceAt(ctx, w.Address(), nil)
	if err != nil {
		return nil, fmt.Errorf("get balance: %w", err)
	}
	log.Info().
		Str("wallet", w.Address().Hex()).
		Str("balance", decimal.NewFromBigInt(balance, -18).String()).
		Msg("disbursing")

	addrs, err := wallet.GenerateAddresses(s.perWallet)
	if err != nil {
		return nil, fmt.Errorf("generate recipients: %w", err)
	}
	for i, addr := range addrs {
		log.Debug().Msgf("recipient %d/%d: %s", i+1, len(addrs), addr.Hex())
	}

	batches := SplitBatches(addrs, s.batchSize)

	var results []Result
	for bi, batch := range batches {
		log.Info().Msgf("batch %d/%d: %d recipients", bi+1, len(batches), len(batch))

		for ai, addr := range batch {
			results = append(results, s.send(ctx, w, addr))

			if ai < len(batch)-1 {
				d := s.txDelay.Next(s.rng)
				log.Debug().Msgf("waiting %s before next tx", d)
				if err := s.wait(ctx, d); err != nil {
					return results, err
				}
			}
		}

		if bi < len(batches)-1 {
			d := s.batchDelay.Next(s.rng)
			log.Info().Msgf("batch %d done, waiting %s before next batch", bi+1, d)
			if err := s.wait(ctx, d); err != nil {
				return results, err
			}
		}
	}
	return results, nil
}

func (s *Scatterer) send(ctx context.Context, w *wallet.Wallet, to common.Address) Result {
	amount := s.amounts.Pick(s.rng)

	receipt, err := s.sender.Send(ctx, w, to, Wei(amount))
	if err != nil {
		log.Error().Str("recipient", to.Hex()).Err(err).Msg("transfer failed")
		return Result{Recipient: to, Amount: amount, Err: err}
	}

	log.Info().
		Str("recipient", to.Hex()).
		Str("amount", amount.String()).
		Str("tx", receipt.TxHash.Hex()).
		Msg("transfer confirmed")
	return Result{Recipient: to, Amount: amount, TxHash: receipt.TxHash, Receipt: receipt}
}

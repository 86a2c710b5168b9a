package scatter_test

import (
	"context"
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sepolia-scatter/scatter"
	"sepolia-scatter/wallet"
)

func testWallets(t *testing.T, n int) []*wallet.Wallet {
	t.Helper()
	wallets := make([]*wallet.Wallet, n)
	for i := range wallets {
		w, err := wallet.Generate()
		require.NoError(t, err)
		wallets[i] = w
	}
	return wallets
}

// A failure while processing one wallet does not abort processing of
// subsequent wallets: the first wallet's balance read fails here and the
// second is still fully disbursed.
func TestRunWalletIsolation(t *testing.T) {
	wallets := testWallets(t, 2)

	reader := &stubReader{
		balance: big.NewInt(1),
		errs:    map[common.Address]error{wallets[0].Address(): errors.New("connection reset")},
	}
	sender := &stubSender{}
	rec := &waitRecorder{}
	s := newScatterer(reader, sender, rec, 3, 2)

	summary := scatter.NewRunner(s, wallets, walletPace).Run(context.Background())

	assert.Equal(t, scatter.Summary{Wallets: 2, Attempted: 3, Sent: 3, Failed: 0}, summary)
	require.Len(t, sender.calls, 3)
	for _, call := range sender.calls {
		assert.Equal(t, wallets[1].Address(), call.from)
	}

	// the inter-wallet pause still separates the two wallets, and the
	// second wallet's own pacing follows it
	assert.Equal(t, []time.Duration{walletPace, txPace, batchPace}, rec.waits)
}

func TestRunNoDelayAfterLastWallet(t *testing.T) {
	wallets := testWallets(t, 1)
	sender := &stubSender{}
	rec := &waitRecorder{}
	s := newScatterer(&stubReader{}, sender, rec, 2, 2)

	summary := scatter.NewRunner(s, wallets, walletPace).Run(context.Background())

	assert.Equal(t, scatter.Summary{Wallets: 1, Attempted: 2, Sent: 2}, summary)
	assert.NotContains(t, rec.waits, walletPace)
}

func TestRunSequentialWalletOrder(t *testing.T) {
	wallets := testWallets(t, 3)
	sender := &stubSender{}
	rec := &waitRecorder{}
	s := newScatterer(&stubReader{}, sender, rec, 2, 2)

	summary := scatter.NewRunner(s, wallets, walletPace).Run(context.Background())

	assert.Equal(t, scatter.Summary{Wallets: 3, Attempted: 6, Sent: 6}, summary)
	require.Len(t, sender.calls, 6)
	// strict wallet order, one wallet fully drained before the next starts
	for i, call := range sender.calls {
		assert.Equal(t, wallets[i/2].Address(), call.from, "call %d", i)
	}

	assert.Equal(t, []time.Duration{txPace, walletPace, txPace, walletPace, txPace}, rec.waits)
}

func TestRunCountsFailures(t *testing.T) {
	wallets := testWallets(t, 1)
	sender := &stubSender{failOn: func(call int) error {
		if call%2 == 1 {
			return errors.New("insufficient funds")
		}
		return nil
	}}
	rec := &waitRecorder{}
	s := newScatterer(&stubReader{}, sender, rec, 4, 2)

	summary := scatter.NewRunner(s, wallets, walletPace).Run(context.Background())

	assert.Equal(t, scatter.Summary{Wallets: 1, Attempted: 4, Sent: 2, Failed: 2}, summary)
}

func TestRunEmptyWalletList(t *testing.T) {
	rec := &waitRecorder{}
	s := newScatterer(&stubReader{}, &stubSender{}, rec, 2, 2)

	summary := scatter.NewRunner(s, nil, walletPace).Run(context.Background())

	assert.Equal(t, scatter.Summary{}, summary)
	assert.Empty(t, rec.waits)
}

package scatter_test

import (
	"context"
	"errors"
	"math/big"
	"math/rand"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	gethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sepolia-scatter/scatter"
	"sepolia-scatter/wallet"
)

type stubReader struct {
	balance *big.Int
	errs    map[common.Address]error
}

func (r *stubReader) BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error) {
	if err := r.errs[account]; err != nil {
		return nil, err
	}
	if r.balance != nil {
		return r.balance, nil
	}
	return big.NewInt(0), nil
}

type sentCall struct {
	from   common.Address
	to     common.Address
	amount *big.Int
}

type stubSender struct {
	calls  []sentCall
	failOn func(call int) error
}

func (s *stubSender) Send(ctx context.Context, w *wallet.Wallet, to common.Address, amountWei *big.Int) (*gethtypes.Receipt, error) {
	call := len(s.calls)
	s.calls = append(s.calls, sentCall{from: w.Address(), to: to, amount: amountWei})
	if s.failOn != nil {
		if err := s.failOn(call); err != nil {
			return nil, err
		}
	}
	return &gethtypes.Receipt{TxHash: common.BigToHash(big.NewInt(int64(call + 1))), Status: gethtypes.ReceiptStatusSuccessful}, nil
}

type waitRecorder struct {
	waits []time.Duration
}

func (r *waitRecorder) wait(ctx context.Context, d time.Duration) error {
	r.waits = append(r.waits, d)
	return nil
}

// Delay values chosen so the recorded waits are attributable: seconds are tx
// pacing, minutes are batch pacing, hours are wallet pacing.
const (
	txPace     = time.Second
	batchPace  = time.Minute
	walletPace = time.Hour
)

func newScatterer(reader scatter.ChainReader, sender scatter.Sender, rec *waitRecorder, perWallet, batchSize int) *scatter.Scatterer {
	return scatter.New(reader, sender, scatter.Params{
		Amounts:            scatter.FixedAmount(decimal.RequireFromString("0.0001")),
		TxDelay:            scatter.FixedDelay(txPace),
		BatchDelay:         scatter.FixedDelay(batchPace),
		AddressesPerWallet: perWallet,
		BatchSize:          batchSize,
		Rand:               rand.New(rand.NewSource(1)),
		Wait:               rec.wait,
	})
}

// Three recipients in batches of two: three sends, one tx pace inside the
// two-element batch, one batch pace between the batches, nothing after the
// final batch.
func TestDisburse(t *testing.T) {
	reader := &stubReader{balance: big.NewInt(1_000_000_000_000_000_000)}
	sender := &stubSender{}
	rec := &waitRecorder{}
	s := newScatterer(reader, sender, rec, 3, 2)

	w, err := wallet.Generate()
	require.NoError(t, err)

	results, err := s.Disburse(context.Background(), w)
	require.NoError(t, err)
	require.Len(t, results, 3)
	require.Len(t, sender.calls, 3)

	for i, res := range results {
		assert.True(t, res.Ok())
		assert.NoError(t, res.Err)
		assert.NotEqual(t, common.Hash{}, res.TxHash)
		assert.Equal(t, w.Address(), sender.calls[i].from)
		assert.Equal(t, res.Recipient, sender.calls[i].to)
		assert.Equal(t, scatter.Wei(res.Amount), sender.calls[i].amount)
	}

	// recipients are fresh and distinct
	seen := make(map[common.Address]struct{})
	for _, res := range results {
		seen[res.Recipient] = struct{}{}
	}
	assert.Len(t, seen, 3)

	assert.Equal(t, []time.Duration{txPace, batchPace}, rec.waits)
}

func TestDisburseNoPacingForSingleBatch(t *testing.T) {
	sender := &stubSender{}
	rec := &waitRecorder{}
	s := newScatterer(&stubReader{}, sender, rec, 1, 10)

	w, err := wallet.Generate()
	require.NoError(t, err)

	results, err := s.Disburse(context.Background(), w)
	require.NoError(t, err)
	assert.Len(t, results, 1)
	assert.Empty(t, rec.waits)
}

// A failed submission yields a failed result and the loop proceeds to the
// pacing delay and the next recipient; the batch is not aborted and nothing
// is retried.
func TestDisburseFailedSendContinues(t *testing.T) {
	sendErr := errors.New("nonce too low")
	sender := &stubSender{failOn: func(call int) error {
		if call == 1 {
			return sendErr
		}
		return nil
	}}
	rec := &waitRecorder{}
	s := newScatterer(&stubReader{}, sender, rec, 3, 2)

	w, err := wallet.Generate()
	require.NoError(t, err)

	results, err := s.Disburse(context.Background(), w)
	require.NoError(t, err)
	require.Len(t, results, 3)
	require.Len(t, sender.calls, 3)

	assert.True(t, results[0].Ok())
	assert.False(t, results[1].Ok())
	assert.ErrorIs(t, results[1].Err, sendErr)
	assert.Nil(t, results[1].Receipt)
	assert.True(t, results[2].Ok())

	// pacing is unchanged by the failure
	assert.Equal(t, []time.Duration{txPace, batchPace}, rec.waits)
}

func TestDisburseBalanceReadFails(t *testing.T) {
	w, err := wallet.Generate()
	require.NoError(t, err)

	reader := &stubReader{errs: map[common.Address]error{w.Address(): errors.New("connection reset")}}
	sender := &stubSender{}
	rec := &waitRecorder{}
	s := newScatterer(reader, sender, rec, 3, 2)

	results, err := s.Disburse(context.Background(), w)
	require.Error(t, err)
	assert.Empty(t, results)
	assert.Empty(t, sender.calls)
}

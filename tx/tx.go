package tx

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	gethtypes "github.com/ethereum/go-ethereum/core/types"

	"sepolia-scatter/wallet"
)

// Backend is the narrow chain surface a Transfer needs. *client.Client
// satisfies it.
type Backend interface {
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
	SendTransaction(ctx context.Context, tx *gethtypes.Transaction) error
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*gethtypes.Receipt, error)
	CodeAt(ctx context.Context, account common.Address, blockNumber *big.Int) ([]byte, error)
}

// Transfer is an object that has common fields when signing and broadcasting
// value transfers.
type Transfer struct {
	Backend  Backend
	ChainID  *big.Int
	GasLimit uint64

	signer gethtypes.Signer
}

// NewTransfer returns a new Transfer object.
func NewTransfer(backend Backend, chainID int64, gasLimit uint64) *Transfer {
	id := big.NewInt(chainID)
	return &Transfer{
		Backend:  backend,
		ChainID:  id,
		GasLimit: gasLimit,
		signer:   gethtypes.LatestSignerForChainID(id),
	}
}

// Send moves amountWei from the wallet to the recipient and waits for the
// transaction to be mined. The nonce is fetched fresh from the network on
// every call, so callers must hold to one in-flight transaction per sender:
// the nonce for the next transfer is only correct once this one is known to
// the network.
func (t *Transfer) Send(ctx context.Context, w *wallet.Wallet, to common.Address, amountWei *big.Int) (*gethtypes.Receipt, error) {
	nonce, err := t.Backend.PendingNonceAt(ctx, w.Address())
	if err != nil {
		return nil, fmt.Errorf("get nonce: %w", err)
	}

	gasPrice, err := t.Backend.SuggestGasPrice(ctx)
	if err != nil {
		return nil, fmt.Errorf("get gas price: %w", err)
	}

	unsignedTx := gethtypes.NewTx(&gethtypes.LegacyTx{
		Nonce:    nonce,
		To:       &to,
		Value:    amountWei,
		Gas:      t.GasLimit,
		GasPrice: gasPrice,
	})

	signedTx, err := gethtypes.SignTx(unsignedTx, t.signer, w.Key())
	if err != nil {
		return nil, fmt.Errorf("sign tx: %w", err)
	}

	if err := t.Backend.SendTransaction(ctx, signedTx); err != nil {
		return nil, fmt.Errorf("send tx: %w", err)
	}

	receipt, err := bind.WaitMined(ctx, t.Backend, signedTx)
	if err != nil {
		return nil, fmt.Errorf("wait mined: %w", err)
	}
	return receipt, nil
}

package client

import (
	"context"
	"errors"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	gethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	ethrpc "github.com/ethereum/go-ethereum/rpc"
	"github.com/rs/zerolog/log"
)

// DefaultProbeTimeout bounds the liveness probe of a single candidate
// endpoint during selection.
var DefaultProbeTimeout = 10 * time.Second

// ErrNoEndpoint is returned when no candidate endpoint answers the liveness
// probe. It aborts the run before any wallet is processed.
var ErrNoEndpoint = errors.New("no reachable endpoint")

// Client is a wrapper for the Ethereum JSON-RPC clients, bound to the single
// endpoint chosen at startup.
type Client struct {
	eth *ethclient.Client
	rpc *ethrpc.Client
	url string
}

// Connect probes the candidate endpoints in order and returns a Client bound
// to the first one whose liveness probe succeeds. Unreachable candidates are
// logged and skipped; an exhausted list yields ErrNoEndpoint. The scan runs
// once, with no retry across the list.
func Connect(ctx context.Context, urls []string) (*Client, error) {
	for _, url := range urls {
		probeCtx, cancel := context.WithTimeout(ctx, DefaultProbeTimeout)

		rpcClient, err := ethrpc.DialContext(probeCtx, url)
		if err != nil {
			cancel()
			log.Warn().Str("endpoint", url).Err(err).Msg("dial failed, trying next endpoint")
			continue
		}

		ethClient := ethclient.NewClient(rpcClient)
		head, err := ethClient.BlockNumber(probeCtx)
		cancel()
		if err != nil {
			ethClient.Close()
			log.Warn().Str("endpoint", url).Err(err).Msg("probe failed, trying next endpoint")
			continue
		}

		log.Info().Str("endpoint", url).Uint64("head", head).Msg("connected")
		return &Client{eth: ethClient, rpc: rpcClient, url: url}, nil
	}
	return nil, ErrNoEndpoint
}

// URL returns the endpoint the client is bound to.
func (c *Client) URL() string {
	return c.url
}

// BalanceAt returns the wei balance of the given account.
func (c *Client) BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error) {
	return c.eth.BalanceAt(ctx, account, blockNumber)
}

// PendingNonceAt returns the account's nonce in the pending state, which is
// the nonce the next transaction from that account must carry.
func (c *Client) PendingNonceAt(ctx context.Context, account common.Address) (uint64, error) {
	return c.eth.PendingNonceAt(ctx, account)
}

// SuggestGasPrice returns the gas price the network currently suggests.
func (c *Client) SuggestGasPrice(ctx context.Context) (*big.Int, error) {
	return c.eth.SuggestGasPrice(ctx)
}

// ChainID returns the chain ID reported by the endpoint.
func (c *Client) ChainID(ctx context.Context) (*big.Int, error) {
	return c.eth.ChainID(ctx)
}

// BlockNumber returns the most recent block number.
func (c *Client) BlockNumber(ctx context.Context) (uint64, error) {
	return c.eth.BlockNumber(ctx)
}

// SendTransaction broadcasts a signed transaction.
func (c *Client) SendTransaction(ctx context.Context, tx *gethtypes.Transaction) error {
	return c.eth.SendTransaction(ctx, tx)
}

// TransactionReceipt returns the receipt of a mined transaction.
func (c *Client) TransactionReceipt(ctx context.Context, txHash common.Hash) (*gethtypes.Receipt, error) {
	return c.eth.TransactionReceipt(ctx, txHash)
}

// CodeAt returns the contract code at the given account.
func (c *Client) CodeAt(ctx context.Context, account common.Address, blockNumber *big.Int) ([]byte, error) {
	return c.eth.CodeAt(ctx, account, blockNumber)
}

// Stop closes the underlying connection.
func (c *Client) Stop() error {
	c.eth.Close()
	return nil
}

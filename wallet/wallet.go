package wallet

import (
	"crypto/ecdsa"
	"errors"
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/btcsuite/btcd/chaincfg"
	bip39 "github.com/cosmos/go-bip39"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

// Wallet is a private key together with its derived address. Its string form
// is the address only; key material never appears in logs.
type Wallet struct {
	key  *ecdsa.PrivateKey
	addr common.Address
}

// New returns a Wallet for the given private key.
func New(key *ecdsa.PrivateKey) *Wallet {
	return &Wallet{
		key:  key,
		addr: crypto.PubkeyToAddress(key.PublicKey),
	}
}

// FromHex parses a hex-encoded private key, with or without the "0x" prefix.
func FromHex(s string) (*Wallet, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "0x")
	key, err := crypto.HexToECDSA(s)
	if err != nil {
		return nil, fmt.Errorf("parse private key: %w", err)
	}
	return New(key), nil
}

// FromMnemonic derives the wallet at m/44'/60'/0'/0/index from a BIP-39
// mnemonic with an empty passphrase.
func FromMnemonic(mnemonic string, index uint32) (*Wallet, error) {
	if !bip39.IsMnemonicValid(mnemonic) {
		return nil, errors.New("invalid mnemonic")
	}

	seed := bip39.NewSeed(mnemonic, "")
	master, err := hdkeychain.NewMaster(seed, &chaincfg.MainNetParams)
	if err != nil {
		return nil, fmt.Errorf("derive master key: %w", err)
	}

	key := master
	for _, child := range []uint32{
		hdkeychain.HardenedKeyStart + 44,
		hdkeychain.HardenedKeyStart + 60,
		hdkeychain.HardenedKeyStart + 0,
		0,
		index,
	} {
		if key, err = key.Derive(child); err != nil {
			return nil, fmt.Errorf("derive child key: %w", err)
		}
	}

	privKey, err := key.ECPrivKey()
	if err != nil {
		return nil, fmt.Errorf("extract private key: %w", err)
	}
	return New(privKey.ToECDSA()), nil
}

// Generate returns a wallet with a fresh random keypair.
func Generate() (*Wallet, error) {
	key, err := crypto.GenerateKey()
	if err != nil {
		return nil, fmt.Errorf("generate key: %w", err)
	}
	return New(key), nil
}

// GenerateAddresses generates n fresh keypairs and returns their addresses
// only. The private keys are unreferenced after this call and cannot be
// recovered; recipients exist solely to receive funds once.
func GenerateAddresses(n int) ([]common.Address, error) {
	addrs := make([]common.Address, 0, n)
	for i := 0; i < n; i++ {
		key, err := crypto.GenerateKey()
		if err != nil {
			return nil, fmt.Errorf("generate key: %w", err)
		}
		addrs = append(addrs, crypto.PubkeyToAddress(key.PublicKey))
	}
	return addrs, nil
}

// NewMnemonic returns a fresh 12-word BIP-39 mnemonic.
func NewMnemonic() (string, error) {
	entropy, err := bip39.NewEntropy(128)
	if err != nil {
		return "", fmt.Errorf("generate entropy: %w", err)
	}
	mnemonic, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return "", fmt.Errorf("generate mnemonic: %w", err)
	}
	return mnemonic, nil
}

// Address returns the wallet's address.
func (w *Wallet) Address() common.Address {
	return w.addr
}

// Key returns the wallet's private key for signing.
func (w *Wallet) Key() *ecdsa.PrivateKey {
	return w.key
}

// PrivateKeyHex returns the 0x-prefixed hex encoding of the private key.
func (w *Wallet) PrivateKeyHex() string {
	return hexutil.Encode(crypto.FromECDSA(w.key))
}

func (w *Wallet) String() string {
	return w.addr.Hex()
}

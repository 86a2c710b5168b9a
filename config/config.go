package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/ghodss/yaml"
	"github.com/pelletier/go-toml"
	"github.com/shopspring/decimal"
)

var (
	// DefaultConfigPath is the default path of the configuration file.
	DefaultConfigPath = "./scatter.toml"

	// Placeholder is the sentinel value left in example env files; entries
	// equal to it (case-insensitive) are skipped by the credential scan.
	Placeholder = "your_private_key_here"

	// ErrNoWallets is returned when the credential scan finds nothing usable.
	ErrNoWallets = fmt.Errorf(
		"no funded wallets configured; set sequentially numbered private keys in the environment, e.g.\n"+
			"  export %s1=0xabc123...\n"+
			"  export %s2=0xdef456...\n"+
			"or point --accounts at a YAML accounts file", DefaultKeyPrefix, DefaultKeyPrefix)
)

const (
	DefaultKeyPrefix = "PRIVATE_KEY_"

	// Sepolia test network.
	DefaultChainID = int64(11155111)
)

// DefaultEndpoints is the ordered candidate list of public Sepolia RPC
// gateways, probed in order at startup.
var DefaultEndpoints = []string{
	"https://ethereum-sepolia-rpc.publicnode.com",
	"https://rpc.sepolia.org",
	"https://sepolia.drpc.org",
	"https://1rpc.io/sepolia",
}

// Config defines all necessary configuration parameters.
type Config struct {
	Endpoints    []string      `toml:"endpoints"`
	ChainID      int64         `toml:"chain_id"`
	KeyPrefix    string        `toml:"key_prefix"`
	AccountsFile string        `toml:"accounts_file"`
	Scatter      ScatterConfig `toml:"scatter"`
}

// ScatterConfig holds the disbursement parameters.
type ScatterConfig struct {
	AddressesPerWallet int          `toml:"addresses_per_wallet"`
	BatchSize          int          `toml:"batch_size"`
	GasLimit           uint64       `toml:"gas_limit"`
	Amount             AmountConfig `toml:"amount"`
	Delays             DelayConfig  `toml:"delays"`
}

// AmountConfig selects the transfer amount per recipient, in ETH. When both
// Min and Max are set the amount is drawn uniformly from [Min, Max]; Fixed
// applies otherwise.
type AmountConfig struct {
	Fixed string `toml:"fixed"`
	Min   string `toml:"min"`
	Max   string `toml:"max"`
}

// DelayConfig holds pacing intervals in seconds. For the tx and batch delays
// a Min/Max pair, when both are set, selects a uniformly random interval; the
// flat value applies otherwise. The inter-wallet delay is always fixed.
type DelayConfig struct {
	Tx       int64 `toml:"tx"`
	TxMin    int64 `toml:"tx_min"`
	TxMax    int64 `toml:"tx_max"`
	Batch    int64 `toml:"batch"`
	BatchMin int64 `toml:"batch_min"`
	BatchMax int64 `toml:"batch_max"`
	Wallet   int64 `toml:"wallet"`
}

// DefaultConfig returns the built-in defaults: Sepolia endpoints, 50
// recipients per wallet in batches of 10, 0.0001 ETH per transfer, 60s/180s
// fixed pacing and a 5 minute pause between wallets.
func DefaultConfig() *Config {
	return &Config{
		Endpoints: DefaultEndpoints,
		ChainID:   DefaultChainID,
		KeyPrefix: DefaultKeyPrefix,
		Scatter: ScatterConfig{
			AddressesPerWallet: 50,
			BatchSize:          10,
			GasLimit:           21000,
			Amount: AmountConfig{
				Fixed: "0.0001",
			},
			Delays: DelayConfig{
				Tx:     60,
				Batch:  180,
				Wallet: 300,
			},
		},
	}
}

// Read reads the configuration file at path on top of the defaults. A missing
// file at the default path is not an error; the defaults apply as-is.
func Read(path string) (*Config, error) {
	cfg := DefaultConfig()

	bytes, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && path == DefaultConfigPath {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config file: %w", err)
	}

	if err := toml.Unmarshal(bytes, cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate validates the configuration.
func (cfg *Config) Validate() error {
	if len(cfg.Endpoints) == 0 {
		return errors.New("endpoints must not be empty")
	}
	if cfg.ChainID <= 0 {
		return errors.New("chain_id must be positive")
	}
	if cfg.KeyPrefix == "" {
		return errors.New("key_prefix must not be empty")
	}
	if cfg.Scatter.AddressesPerWallet <= 0 {
		return errors.New("addresses_per_wallet must be positive")
	}
	if cfg.Scatter.BatchSize <= 0 {
		return errors.New("batch_size must be positive")
	}
	if cfg.Scatter.GasLimit == 0 {
		return errors.New("gas_limit must be positive")
	}
	if err := cfg.Scatter.Amount.validate(); err != nil {
		return err
	}
	return cfg.Scatter.Delays.validate()
}

func (a AmountConfig) validate() error {
	if a.Randomized() {
		min, err := parseAmount(a.Min)
		if err != nil {
			return fmt.Errorf("amount.min: %w", err)
		}
		max, err := parseAmount(a.Max)
		if err != nil {
			return fmt.Errorf("amount.max: %w", err)
		}
		if min.GreaterThan(max) {
			return errors.New("amount.min must not exceed amount.max")
		}
		return nil
	}
	if _, err := parseAmount(a.Fixed); err != nil {
		return fmt.Errorf("amount.fixed: %w", err)
	}
	return nil
}

// Randomized reports whether the uniformly random amount variant is selected.
func (a AmountConfig) Randomized() bool {
	return a.Min != "" && a.Max != ""
}

func parseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	if !d.IsPositive() {
		return decimal.Decimal{}, fmt.Errorf("amount %q must be positive", s)
	}
	if !d.Equal(d.Round(8)) {
		return decimal.Decimal{}, fmt.Errorf("amount %q has more than 8 decimal places", s)
	}
	return d, nil
}

// ParseFixed returns the fixed amount in ETH.
func (a AmountConfig) ParseFixed() (decimal.Decimal, error) {
	return parseAmount(a.Fixed)
}

// ParseRange returns the [min, max] amount bounds in ETH.
func (a AmountConfig) ParseRange() (min, max decimal.Decimal, err error) {
	if min, err = parseAmount(a.Min); err != nil {
		return
	}
	max, err = parseAmount(a.Max)
	return
}

func (d DelayConfig) validate() error {
	for _, v := range []struct {
		name string
		val  int64
	}{
		{"delays.tx", d.Tx},
		{"delays.batch", d.Batch},
		{"delays.wallet", d.Wallet},
	} {
		if v.val < 0 {
			return fmt.Errorf("%s must not be negative", v.name)
		}
	}
	if d.TxMin != 0 || d.TxMax != 0 {
		if d.TxMin <= 0 || d.TxMax <= 0 || d.TxMin > d.TxMax {
			return errors.New("delays.tx_min and delays.tx_max must be positive with tx_min <= tx_max")
		}
	}
	if d.BatchMin != 0 || d.BatchMax != 0 {
		if d.BatchMin <= 0 || d.BatchMax <= 0 || d.BatchMin > d.BatchMax {
			return errors.New("delays.batch_min and delays.batch_max must be positive with batch_min <= batch_max")
		}
	}
	return nil
}

// PrivateKeysFromEnv scans sequentially numbered environment entries starting
// at index 1 (prefix + "1", prefix + "2", ...) and returns the accepted
// values in discovery order, each normalized to carry the "0x" prefix. The
// scan stops permanently at the first absent index: gaps are not supported,
// and entries after a gap are ignored. Present entries that are empty after
// trimming, or equal to the placeholder sentinel, are skipped without
// stopping the scan.
func PrivateKeysFromEnv(prefix string) []string {
	var keys []string
	for i := 1; ; i++ {
		v, ok := os.LookupEnv(fmt.Sprintf("%s%d", prefix, i))
		if !ok {
			break
		}
		v = strings.TrimSpace(v)
		if v == "" || strings.EqualFold(v, Placeholder) {
			continue
		}
		if !strings.HasPrefix(v, "0x") {
			v = "0x" + v
		}
		keys = append(keys, v)
	}
	return keys
}

// Account is one entry of the accounts file: a named wallet backed by either
// a raw hex private key or a BIP-39 mnemonic.
type Account struct {
	Name       string `yaml:"Name"`
	PrivateKey string `yaml:"PrivateKey"`
	Mnemonic   string `yaml:"Mnemonic"`
}

// ReadAccountsFile reads a YAML accounts file and returns the entries that
// carry usable key material, applying the same empty/placeholder filtering as
// the environment scan.
func ReadAccountsFile(path string) ([]Account, error) {
	bytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read accounts file: %w", err)
	}

	var raw []Account
	if err := yaml.Unmarshal(bytes, &raw); err != nil {
		return nil, fmt.Errorf("unmarshal accounts file: %w", err)
	}

	var accounts []Account
	for _, a := range raw {
		a.PrivateKey = strings.TrimSpace(a.PrivateKey)
		a.Mnemonic = strings.TrimSpace(a.Mnemonic)
		if strings.EqualFold(a.PrivateKey, Placeholder) {
			a.PrivateKey = ""
		}
		if a.PrivateKey == "" && a.Mnemonic == "" {
			continue
		}
		accounts = append(accounts, a)
	}
	return accounts, nil
}

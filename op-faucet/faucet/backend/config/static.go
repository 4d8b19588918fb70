package config

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/mantlenetworkio/faucet-devnet/op-ledger/devkeys"
	"github.com/mantlenetworkio/faucet-devnet/op-ledger/ledger"
	"github.com/mantlenetworkio/faucet-devnet/op-service/eth"
)

const (
	DefaultAccounts = 10
	DefaultChainID  = 31337
)

var (
	DefaultAccountBalance = eth.Ether(10_000)
	DefaultFunding        = eth.FiveEther
)

// Config describes the devnet: the dev accounts, the chain, and the faucet deployment.
type Config struct {
	// Mnemonic the dev accounts are derived from.
	Mnemonic string `yaml:"mnemonic" toml:"mnemonic"`
	// Salt is used as BIP-39 passphrase, if not empty.
	Salt string `yaml:"salt,omitempty" toml:"salt,omitempty"`

	ChainID  uint64 `yaml:"chain_id" toml:"chain_id"`
	GasLimit uint64 `yaml:"gas_limit" toml:"gas_limit"`
	BaseFee  GWei   `yaml:"base_fee_gwei" toml:"base_fee_gwei"`

	// Accounts is the number of dev accounts to fund at genesis, each with AccountBalance.
	Accounts       uint64 `yaml:"accounts" toml:"accounts"`
	AccountBalance Ether  `yaml:"account_balance" toml:"account_balance"`

	// Owner is the index of the dev account that deploys, and thus owns, the faucet.
	Owner uint64 `yaml:"owner" toml:"owner"`
	// Funding is sent along with the faucet deployment.
	Funding Ether `yaml:"funding" toml:"funding"`
}

var _ Loader = (*Config)(nil)

func DefaultConfig() *Config {
	return &Config{
		Mnemonic:       devkeys.DevMnemonic,
		ChainID:        DefaultChainID,
		GasLimit:       ledger.DefaultGasLimit,
		BaseFee:        GWei(ledger.DefaultBaseFee),
		Accounts:       DefaultAccounts,
		AccountBalance: Ether(DefaultAccountBalance),
		Owner:          0,
		Funding:        Ether(DefaultFunding),
	}
}

// Load is implemented on the Config itself,
// so that a static already-instantiated config can be used for in-process service setup,
// to bypass the file loading.
func (c *Config) Load(ctx context.Context) (*Config, error) {
	return c, nil
}

func (c *Config) Check() error {
	var result error
	if c.Mnemonic == "" {
		result = errors.Join(result, errors.New("mnemonic must be set"))
	}
	if c.ChainID == 0 {
		result = errors.Join(result, errors.New("chain ID must be set"))
	}
	if c.GasLimit == 0 {
		result = errors.Join(result, errors.New("gas limit must be set"))
	}
	if c.Accounts == 0 {
		result = errors.Join(result, errors.New("at least one dev account is required"))
	} else if c.Owner >= c.Accounts {
		result = errors.Join(result, fmt.Errorf("owner account %d is not one of the %d dev accounts", c.Owner, c.Accounts))
	}
	if c.Funding.ETH().Gt(c.AccountBalance.ETH()) {
		result = errors.Join(result, fmt.Errorf("funding of %s exceeds the owner balance of %s",
			c.Funding.ETH(), c.AccountBalance.ETH()))
	}
	return result
}

// Keys derives the dev keys of the devnet.
func (c *Config) Keys() (*devkeys.Wallet, error) {
	return devkeys.NewWallet(c.Mnemonic, c.Salt)
}

// LedgerConfig builds the ledger config, with every dev account funded at genesis.
func (c *Config) LedgerConfig(keys devkeys.Keys) (*ledger.Config, error) {
	accounts, err := devkeys.Accounts(keys, c.Accounts)
	if err != nil {
		return nil, fmt.Errorf("failed to derive dev accounts: %w", err)
	}
	alloc := make(map[common.Address]eth.ETH, len(accounts))
	for _, addr := range accounts {
		alloc[addr] = c.AccountBalance.ETH()
	}
	return &ledger.Config{
		ChainID:  new(big.Int).SetUint64(c.ChainID),
		GasLimit: c.GasLimit,
		BaseFee:  c.BaseFee.ETH(),
		Alloc:    alloc,
	}, nil
}

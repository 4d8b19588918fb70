package ledger

import (
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/mantlenetworkio/faucet-devnet/op-service/eth"
)

const DefaultGasLimit = 30_000_000

var (
	DefaultChainID = big.NewInt(31337)
	DefaultBaseFee = eth.OneGWei
)

// Config configures a Ledger.
type Config struct {
	ChainID *big.Int
	// GasLimit is the block gas limit, and thus the max gas of a single transaction.
	GasLimit uint64
	// BaseFee is the minimum price per unit of gas. Fees are burned.
	BaseFee eth.ETH
	// Alloc is the genesis allocation.
	Alloc map[common.Address]eth.ETH
}

func DefaultConfig() *Config {
	return &Config{
		ChainID:  new(big.Int).Set(DefaultChainID),
		GasLimit: DefaultGasLimit,
		BaseFee:  DefaultBaseFee,
		Alloc:    make(map[common.Address]eth.ETH),
	}
}

func (c *Config) Check() error {
	var result error
	if c.ChainID == nil || c.ChainID.Sign() <= 0 {
		result = errors.Join(result, errors.New("chain ID must be positive"))
	}
	if c.GasLimit == 0 {
		result = errors.Join(result, errors.New("gas limit must be set"))
	}
	return result
}

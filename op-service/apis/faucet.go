package apis

import (
	"context"

	"github.com/ethereum/go-ethereum/common"

	"github.com/mantlenetworkio/faucet-devnet/op-service/eth"
)

// Faucet inspects the faucet contract deployed on the devnet.
type Faucet interface {
	// Address of the faucet contract.
	Address(ctx context.Context) (common.Address, error)
	// Owner returns the recorded owner. The zero address once the faucet is destroyed.
	Owner(ctx context.Context) (common.Address, error)
	// Balance of the faucet contract.
	Balance(ctx context.Context) (eth.ETH, error)
	// Destroyed reports whether the faucet contract has been self-destructed.
	Destroyed(ctx context.Context) (bool, error)
}

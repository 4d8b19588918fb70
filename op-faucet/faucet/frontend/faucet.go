package frontend

import (
	"context"

	"github.com/ethereum/go-ethereum/common"

	"github.com/mantlenetworkio/faucet-devnet/op-service/apis"
	"github.com/mantlenetworkio/faucet-devnet/op-service/eth"
)

type FaucetBackend interface {
	FaucetAddress() common.Address
	FaucetOwner(ctx context.Context) (common.Address, error)
	FaucetBalance(ctx context.Context) (eth.ETH, error)
	FaucetDestroyed(ctx context.Context) (bool, error)
}

type FaucetFrontend struct {
	b FaucetBackend
}

var _ apis.Faucet = (*FaucetFrontend)(nil)

func NewFaucetFrontend(b FaucetBackend) *FaucetFrontend {
	return &FaucetFrontend{b: b}
}

func (f *FaucetFrontend) Address(ctx context.Context) (common.Address, error) {
	return f.b.FaucetAddress(), nil
}

func (f *FaucetFrontend) Owner(ctx context.Context) (common.Address, error) {
	return f.b.FaucetOwner(ctx)
}

func (f *FaucetFrontend) Balance(ctx context.Context) (eth.ETH, error) {
	return f.b.FaucetBalance(ctx)
}

func (f *FaucetFrontend) Destroyed(ctx context.Context) (bool, error) {
	return f.b.FaucetDestroyed(ctx)
}

package sources

import (
	"context"
	"log/slog"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"

	"github.com/mantlenetworkio/faucet-devnet/op-service/apis"
	"github.com/mantlenetworkio/faucet-devnet/op-service/client"
	"github.com/mantlenetworkio/faucet-devnet/op-service/eth"
)

type FaucetClient struct {
	client client.RPC
}

var _ apis.Faucet = (*FaucetClient)(nil)

func NewFaucetClient(client client.RPC) *FaucetClient {
	return &FaucetClient{
		client: client,
	}
}

func (cl *FaucetClient) Address(ctx context.Context) (common.Address, error) {
	var result common.Address
	err := cl.client.CallContext(ctx, &result, "faucet_address")
	return result, err
}

func (cl *FaucetClient) Owner(ctx context.Context) (common.Address, error) {
	var result common.Address
	err := cl.client.CallContext(ctx, &result, "faucet_owner")
	return result, err
}

func (cl *FaucetClient) Balance(ctx context.Context) (eth.ETH, error) {
	var result eth.ETH
	err := cl.client.CallContext(ctx, &result, "faucet_balance")
	return result, err
}

func (cl *FaucetClient) Destroyed(ctx context.Context) (bool, error) {
	var result bool
	err := cl.client.CallContext(ctx, &result, "faucet_destroyed")
	return result, err
}

type FaucetAdminClient struct {
	client client.RPC
}

var _ apis.FaucetAdminClient = (*FaucetAdminClient)(nil)

func NewFaucetAdminClient(client client.RPC) *FaucetAdminClient {
	return &FaucetAdminClient{
		client: client,
	}
}

func (cl *FaucetAdminClient) SetLogLevel(ctx context.Context, lvl slog.Level) error {
	return cl.client.CallContext(ctx, nil, "admin_setLogLevel", log.LevelString(lvl))
}

func (cl *FaucetAdminClient) Accounts(ctx context.Context) ([]common.Address, error) {
	var result []common.Address
	err := cl.client.CallContext(ctx, &result, "admin_accounts")
	return result, err
}

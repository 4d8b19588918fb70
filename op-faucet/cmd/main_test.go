package main

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ethereum/go-ethereum/log"

	"github.com/mantlenetworkio/faucet-devnet/op-faucet/config"
	fconf "github.com/mantlenetworkio/faucet-devnet/op-faucet/faucet/backend/config"
	"github.com/mantlenetworkio/faucet-devnet/op-service/cliapp"
	"github.com/mantlenetworkio/faucet-devnet/op-service/eth"
)

var errStop = errors.New("stop")

// runWithArgs runs the CLI up to the point where the service would be created,
// and returns the config the service would have been created with.
func runWithArgs(t *testing.T, args ...string) (*config.Config, error) {
	var out *config.Config
	fn := func(ctx context.Context, cfg *config.Config, logger log.Logger) (cliapp.Lifecycle, error) {
		out = cfg
		return nil, errStop
	}
	var stdout, stderr bytes.Buffer
	err := run(context.Background(), &stdout, &stderr, append([]string{"op-faucet"}, args...), fn)
	return out, err
}

func TestDefaultConfig(t *testing.T) {
	cfg, err := runWithArgs(t)
	require.ErrorIs(t, err, errStop)
	require.NotNil(t, cfg)
	require.Equal(t, config.DefaultCLIConfig().RPC, cfg.RPC)
	require.Equal(t, fconf.DefaultConfig(), cfg.Devnet)
}

func TestFlags(t *testing.T) {
	cfg, err := runWithArgs(t, "--rpc.port", "9000", "--rpc.enable-admin", "--funding", "1")
	require.ErrorIs(t, err, errStop)
	require.Equal(t, 9000, cfg.RPC.ListenPort)
	require.True(t, cfg.RPC.EnableAdmin)
	devnet, err := cfg.Devnet.Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, eth.OneEther, devnet.Funding.ETH())
}

func TestInvalidFlags(t *testing.T) {
	_, err := runWithArgs(t, "--rpc.port", "70000")
	require.ErrorContains(t, err, "invalid RPC port")
}

func TestAccounts(t *testing.T) {
	var stdout, stderr bytes.Buffer
	err := run(context.Background(), &stdout, &stderr, []string{"op-faucet", "accounts", "--accounts", "2"}, nil)
	require.NoError(t, err)
	out := stdout.String()
	require.Contains(t, out, "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266")
	require.Contains(t, out, "0x70997970C51812dc3A010C7d01b50e0d17dc79C8")
	require.NotContains(t, out, "0x3C44CdDdB6a900fa2b585dd299e03d12FA4293BC")
	require.Contains(t, out, "m/44'/60'/0'/0/1")
	require.Contains(t, out, "10000")
	require.Contains(t, out, "faucet owner")
}

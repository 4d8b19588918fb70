package backend

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"
	"github.com/ethereum/go-ethereum/rpc"

	"github.com/mantlenetworkio/faucet-devnet/op-faucet/bindings"
	"github.com/mantlenetworkio/faucet-devnet/op-faucet/contract"
	"github.com/mantlenetworkio/faucet-devnet/op-faucet/faucet/backend/config"
	"github.com/mantlenetworkio/faucet-devnet/op-faucet/metrics"
	"github.com/mantlenetworkio/faucet-devnet/op-ledger/devkeys"
	"github.com/mantlenetworkio/faucet-devnet/op-service/eth"
	opmetrics "github.com/mantlenetworkio/faucet-devnet/op-service/metrics"
	"github.com/mantlenetworkio/faucet-devnet/op-service/testlog"
)

type testRouter struct {
	apis []rpc.API
}

func (t *testRouter) AddAPI(api rpc.API) error {
	t.apis = append(t.apis, api)
	return nil
}

var _ APIRouter = (*testRouter)(nil)

func transactor(t *testing.T, b *Backend, i uint64) *bindings.TransactOpts {
	key, err := b.Keys().Secret(devkeys.UserKey(i))
	require.NoError(t, err)
	chainID, err := b.Ledger().ChainID(context.Background())
	require.NoError(t, err)
	opts, err := bindings.NewKeyedTransactor(key, chainID)
	require.NoError(t, err)
	return opts
}

func TestBackend(t *testing.T) {
	ctx := context.Background()
	logger := testlog.Logger(t, log.LevelInfo)
	m := metrics.NewMetrics("")
	cfg := config.DefaultConfig()
	cfg.Accounts = 3
	cfg.Owner = 1
	router := &testRouter{}

	b, err := FromConfig(ctx, logger, m, cfg, router)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, b.Stop(context.Background()))
	})

	require.Len(t, router.apis, 2)
	require.Equal(t, "eth", router.apis[0].Namespace)
	require.Equal(t, "faucet", router.apis[1].Namespace)

	accounts := b.Accounts()
	require.Equal(t, []common.Address{
		common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"),
		common.HexToAddress("0x70997970C51812dc3A010C7d01b50e0d17dc79C8"),
		common.HexToAddress("0x3C44CdDdB6a900fa2b585dd299e03d12FA4293BC"),
	}, accounts)

	owner, err := b.FaucetOwner(ctx)
	require.NoError(t, err)
	require.Equal(t, accounts[1], owner)
	bal, err := b.FaucetBalance(ctx)
	require.NoError(t, err)
	require.Equal(t, eth.FiveEther, bal)
	destroyed, err := b.FaucetDestroyed(ctx)
	require.NoError(t, err)
	require.False(t, destroyed)

	f := bindings.NewFaucet(b.FaucetAddress(), b.Ledger())

	user := transactor(t, b, 2)
	_, err = f.Withdraw(user, eth.OneTenthEther.ToBig())
	require.NoError(t, err)
	_, err = f.Withdraw(user, eth.TwoTenthsEther.ToBig())
	require.ErrorIs(t, err, contract.ErrWithdrawLimit)
	_, err = f.DestroyFaucet(user)
	require.ErrorIs(t, err, contract.ErrNotOwner)

	_, err = f.DestroyFaucet(transactor(t, b, 1))
	require.NoError(t, err)

	destroyed, err = b.FaucetDestroyed(ctx)
	require.NoError(t, err)
	require.True(t, destroyed)
	owner, err = b.FaucetOwner(ctx)
	require.NoError(t, err)
	require.Equal(t, common.Address{}, owner)
	bal, err = b.FaucetBalance(ctx)
	require.NoError(t, err)
	require.Equal(t, eth.ZeroWei, bal)

	c := opmetrics.NewMetricChecker(t, m.Registry())
	prefix := metrics.Namespace + "_default_"
	txs := c.FindByName(prefix + "txs_total")
	require.Equal(t, 1.0, txs.FindByLabels(map[string]string{"method": "deploy", "result": "success"}).Counter.GetValue())
	require.Equal(t, 1.0, txs.FindByLabels(map[string]string{"method": contract.MethodWithdraw, "result": "success"}).Counter.GetValue())
	require.Equal(t, 1.0, txs.FindByLabels(map[string]string{"method": contract.MethodDestroyFaucet, "result": "success"}).Counter.GetValue())
	// reverted calls are rejected while estimating gas, and never reach the ledger
	require.Equal(t, 3, txs.Count())
	require.Equal(t, eth.OneTenthEther.WeiFloat(), c.FindByName(prefix+"withdrawn_eth_total").FindByLabels(nil).Counter.GetValue())
	require.Equal(t, 0.0, c.FindByName(prefix+"balance_wei").FindByLabels(nil).Gauge.GetValue())
	require.Equal(t, 3.0, c.FindByName(prefix+"head_block").FindByLabels(nil).Gauge.GetValue())
}

func TestBackendInvalidConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Owner = 42
	_, err := FromConfig(context.Background(), testlog.Logger(t, log.LevelInfo), metrics.NoopMetrics{}, cfg, &testRouter{})
	require.ErrorContains(t, err, "invalid devnet config")
}

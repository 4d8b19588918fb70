package config

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ethereum/go-ethereum/common"

	"github.com/mantlenetworkio/faucet-devnet/op-ledger/devkeys"
	"github.com/mantlenetworkio/faucet-devnet/op-service/eth"
)

func TestStaticConfigLoad(t *testing.T) {
	cfg := DefaultConfig()
	result, err := cfg.Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, cfg, result)
	require.NoError(t, result.Check())
}

func TestConfigCheck(t *testing.T) {
	t.Run("missing settings", func(t *testing.T) {
		cfg := &Config{}
		err := cfg.Check()
		require.ErrorContains(t, err, "mnemonic must be set")
		require.ErrorContains(t, err, "chain ID must be set")
		require.ErrorContains(t, err, "gas limit must be set")
		require.ErrorContains(t, err, "at least one dev account is required")
	})
	t.Run("unknown owner", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Owner = cfg.Accounts
		require.ErrorContains(t, cfg.Check(), "owner account 10 is not one of the 10 dev accounts")
	})
	t.Run("funding too large", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.AccountBalance = Ether(eth.OneEther)
		require.ErrorContains(t, cfg.Check(), "exceeds the owner balance")
	})
	t.Run("funding equal to balance", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.AccountBalance = cfg.Funding
		require.NoError(t, cfg.Check())
	})
}

func TestLedgerConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Accounts = 3
	keys, err := cfg.Keys()
	require.NoError(t, err)
	lcfg, err := cfg.LedgerConfig(keys)
	require.NoError(t, err)
	require.NoError(t, lcfg.Check())
	require.Equal(t, uint64(DefaultChainID), lcfg.ChainID.Uint64())
	require.Equal(t, eth.OneGWei, lcfg.BaseFee)
	require.Len(t, lcfg.Alloc, 3)
	for _, addr := range []common.Address{
		common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"),
		common.HexToAddress("0x70997970C51812dc3A010C7d01b50e0d17dc79C8"),
		common.HexToAddress("0x3C44CdDdB6a900fa2b585dd299e03d12FA4293BC"),
	} {
		require.Equal(t, DefaultAccountBalance, lcfg.Alloc[addr])
	}
}

func TestSaltedKeys(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Salt = "devnet"
	keys, err := cfg.Keys()
	require.NoError(t, err)
	addr, err := keys.Address(devkeys.DefaultKey)
	require.NoError(t, err)
	require.NotEqual(t, common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"), addr)
}

func TestFileLoader(t *testing.T) {
	l, err := FileLoader(filepath.Join("testdata", "config.yaml"))
	require.NoError(t, err)
	require.IsType(t, &YamlLoader{}, l)

	l, err = FileLoader("devnet.YML")
	require.NoError(t, err)
	require.IsType(t, &YamlLoader{}, l)

	l, err = FileLoader(filepath.Join("testdata", "config.toml"))
	require.NoError(t, err)
	require.IsType(t, &TomlLoader{}, l)

	_, err = FileLoader("devnet.json")
	require.ErrorContains(t, err, `unsupported config file extension ".json"`)
}

func TestAmountText(t *testing.T) {
	var e Ether
	require.NoError(t, e.UnmarshalText([]byte(".1")))
	require.Equal(t, eth.OneTenthEther, e.ETH())
	out, err := e.MarshalText()
	require.NoError(t, err)
	require.Equal(t, "0.1", string(out))

	var g GWei
	require.NoError(t, g.UnmarshalText([]byte("2")))
	require.Equal(t, eth.GWei(2), g.ETH())
	out, err = g.MarshalText()
	require.NoError(t, err)
	require.Equal(t, "2", string(out))

	require.ErrorIs(t, e.UnmarshalText([]byte("-1")), eth.ErrInvalidAmount)
}

package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mantlenetworkio/faucet-devnet/op-service/eth"
)

func TestYamlLoader_Load(t *testing.T) {
	x := &YamlLoader{Path: filepath.Join(".", "testdata", "config.yaml")}
	result, err := x.Load(context.Background())
	require.NoError(t, err)
	require.NoError(t, result.Check())
	require.Equal(t, uint64(900), result.ChainID)
	require.Equal(t, uint64(3), result.Accounts)
	require.Equal(t, uint64(1), result.Owner)
	require.Equal(t, eth.GWei(1).Sub(eth.WeiU64(500_000_000)), result.BaseFee.ETH())
	require.Equal(t, eth.HundredEther, result.AccountBalance.ETH())
	require.Equal(t, eth.FiveEther, result.Funding.ETH())
	// not in the file, so the default applies
	require.Equal(t, DefaultConfig().GasLimit, result.GasLimit)
}

func TestYamlLoader_NotFound(t *testing.T) {
	x := &YamlLoader{Path: filepath.Join(t.TempDir(), "missing.yaml")}
	_, err := x.Load(context.Background())
	require.ErrorContains(t, err, "failed to read config")
}

func TestYamlLoader_Invalid(t *testing.T) {
	p := filepath.Join(t.TempDir(), "invalid.yaml")
	// Strictly speaking a valid yaml map, but not a known setting.
	// The config decoder is strict
	require.NoError(t, os.WriteFile(p, []byte("foobar: invalid"), 0755))

	x := &YamlLoader{Path: p}
	_, err := x.Load(context.Background())
	require.ErrorContains(t, err, "field foobar not found")
}

func TestYamlLoader_InvalidAmount(t *testing.T) {
	p := filepath.Join(t.TempDir(), "amount.yaml")
	require.NoError(t, os.WriteFile(p, []byte(`funding: "1e18"`), 0755))

	x := &YamlLoader{Path: p}
	_, err := x.Load(context.Background())
	require.ErrorContains(t, err, "failed to parse config YAML")
}

package flags

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"github.com/mantlenetworkio/faucet-devnet/op-faucet/config"
	fconf "github.com/mantlenetworkio/faucet-devnet/op-faucet/faucet/backend/config"
	"github.com/mantlenetworkio/faucet-devnet/op-service/eth"
)

// runWithArgs parses the args with the op-faucet flags, and returns the resulting config.
func runWithArgs(t *testing.T, args ...string) (*config.Config, error) {
	var out *config.Config
	app := cli.NewApp()
	app.Flags = Flags
	app.Action = func(ctx *cli.Context) error {
		if err := CheckRequired(ctx); err != nil {
			return err
		}
		cfg, err := ConfigFromCLI(ctx, "v1.2.3")
		if err != nil {
			return err
		}
		out = cfg
		return nil
	}
	err := app.Run(append([]string{"op-faucet"}, args...))
	return out, err
}

func TestUniqueFlags(t *testing.T) {
	seen := make(map[string]struct{})
	for _, flag := range Flags {
		for _, name := range flag.Names() {
			_, ok := seen[name]
			require.False(t, ok, "duplicate flag %s", name)
			seen[name] = struct{}{}
		}
	}
}

func TestEnvVarPrefix(t *testing.T) {
	for _, flag := range Flags {
		envFlag, ok := flag.(interface{ GetEnvVars() []string })
		require.True(t, ok)
		for _, env := range envFlag.GetEnvVars() {
			require.Regexp(t, "^"+EnvVarPrefix+"_", env)
		}
	}
}

func TestDefaults(t *testing.T) {
	cfg, err := runWithArgs(t)
	require.NoError(t, err)
	require.NoError(t, cfg.Check())
	require.Equal(t, "v1.2.3", cfg.Version)
	require.Equal(t, config.DefaultCLIConfig().RPC, cfg.RPC)
	require.Equal(t, fconf.DefaultConfig(), cfg.Devnet)
}

func TestConfigFile(t *testing.T) {
	path := filepath.Join("..", "faucet", "backend", "config", "testdata", "config.toml")
	cfg, err := runWithArgs(t, "--config", path, "--rpc.port", "0")
	require.NoError(t, err)
	require.Equal(t, 0, cfg.RPC.ListenPort)
	require.Equal(t, &fconf.TomlLoader{Path: path}, cfg.Devnet)

	_, err = runWithArgs(t, "--config", "devnet.json")
	require.ErrorContains(t, err, "unsupported config file extension")
}

func TestOverrides(t *testing.T) {
	cfg, err := runWithArgs(t, "--funding", "2.5", "--accounts", "4")
	require.NoError(t, err)
	devnet, err := cfg.Devnet.Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, eth.Ether(2).Add(eth.HalfEther), devnet.Funding.ETH())
	require.Equal(t, uint64(4), devnet.Accounts)

	_, err = runWithArgs(t, "--funding", "lots")
	require.ErrorContains(t, err, "invalid funding amount")
}

func TestInvalidLogFormat(t *testing.T) {
	_, err := runWithArgs(t, "--log.format", "xml")
	require.ErrorContains(t, err, "invalid log config")
}

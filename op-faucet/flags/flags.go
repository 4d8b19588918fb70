package flags

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/mantlenetworkio/faucet-devnet/op-faucet/config"
	fconf "github.com/mantlenetworkio/faucet-devnet/op-faucet/faucet/backend/config"
	opservice "github.com/mantlenetworkio/faucet-devnet/op-service"
	oplog "github.com/mantlenetworkio/faucet-devnet/op-service/log"
	opmetrics "github.com/mantlenetworkio/faucet-devnet/op-service/metrics"
	oprpc "github.com/mantlenetworkio/faucet-devnet/op-service/rpc"
)

const EnvVarPrefix = "OP_FAUCET"

func prefixEnvVars(name string) []string {
	return opservice.PrefixEnvVar(EnvVarPrefix, name)
}

var (
	ConfigFlag = &cli.StringFlag{
		Name:    "config",
		Usage:   "Devnet configuration file path (.yaml, .yml or .toml). The built-in devnet config is used if empty.",
		EnvVars: prefixEnvVars("CONFIG"),
	}
	FundingFlag = &cli.StringFlag{
		Name:    "funding",
		Usage:   "Amount of ether to fund the faucet with at deployment, overrides the config file",
		EnvVars: prefixEnvVars("FUNDING"),
	}
	AccountsFlag = &cli.Uint64Flag{
		Name:    "accounts",
		Usage:   "Number of dev accounts to fund at genesis, overrides the config file",
		EnvVars: prefixEnvVars("ACCOUNTS"),
	}
)

var requiredFlags = []cli.Flag{}

var optionalFlags = []cli.Flag{
	ConfigFlag,
	FundingFlag,
	AccountsFlag,
}

func init() {
	optionalFlags = append(optionalFlags, oprpc.CLIFlags(EnvVarPrefix)...)
	optionalFlags = append(optionalFlags, oplog.CLIFlags(EnvVarPrefix)...)
	optionalFlags = append(optionalFlags, opmetrics.CLIFlags(EnvVarPrefix)...)

	Flags = append(Flags, requiredFlags...)
	Flags = append(Flags, optionalFlags...)
}

// Flags contains the list of configuration options available to the binary.
var Flags []cli.Flag

func CheckRequired(ctx *cli.Context) error {
	for _, f := range requiredFlags {
		if !ctx.IsSet(f.Names()[0]) {
			return fmt.Errorf("flag %s is required", f.Names()[0])
		}
	}
	return nil
}

func ConfigFromCLI(ctx *cli.Context, version string) (*config.Config, error) {
	logCfg, err := oplog.ReadCLIConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("invalid log config: %w", err)
	}
	devnet, err := DevnetLoaderFromCLI(ctx)
	if err != nil {
		return nil, err
	}
	return &config.Config{
		Version:       version,
		LogConfig:     logCfg,
		MetricsConfig: opmetrics.ReadCLIConfig(ctx),
		RPC:           oprpc.ReadCLIConfig(ctx),
		Devnet:        devnet,
	}, nil
}

// DevnetLoaderFromCLI picks the devnet config source, and applies the flag overrides on top of it.
func DevnetLoaderFromCLI(ctx *cli.Context) (fconf.Loader, error) {
	var base fconf.Loader = fconf.DefaultConfig()
	if path := ctx.String(ConfigFlag.Name); path != "" {
		l, err := fconf.FileLoader(path)
		if err != nil {
			return nil, err
		}
		base = l
	}
	var overrides []fconf.Override
	if ctx.IsSet(FundingFlag.Name) {
		var funding fconf.Ether
		if err := funding.UnmarshalText([]byte(ctx.String(FundingFlag.Name))); err != nil {
			return nil, fmt.Errorf("invalid funding amount: %w", err)
		}
		overrides = append(overrides, func(cfg *fconf.Config) {
			cfg.Funding = funding
		})
	}
	if ctx.IsSet(AccountsFlag.Name) {
		accounts := ctx.Uint64(AccountsFlag.Name)
		overrides = append(overrides, func(cfg *fconf.Config) {
			cfg.Accounts = accounts
		})
	}
	if len(overrides) == 0 {
		return base, nil
	}
	return &fconf.OverrideLoader{Base: base, Overrides: overrides}, nil
}

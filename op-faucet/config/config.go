package config

import (
	"errors"

	fconf "github.com/mantlenetworkio/faucet-devnet/op-faucet/faucet/backend/config"
	oplog "github.com/mantlenetworkio/faucet-devnet/op-service/log"
	opmetrics "github.com/mantlenetworkio/faucet-devnet/op-service/metrics"
	oprpc "github.com/mantlenetworkio/faucet-devnet/op-service/rpc"
)

type Config struct {
	Version string

	LogConfig     oplog.CLIConfig
	MetricsConfig opmetrics.CLIConfig
	RPC           oprpc.CLIConfig

	Devnet fconf.Loader
}

func (c *Config) Check() error {
	var result error
	result = errors.Join(result, c.LogConfig.Check())
	result = errors.Join(result, c.MetricsConfig.Check())
	result = errors.Join(result, c.RPC.Check())
	if c.Devnet == nil {
		result = errors.Join(result, errors.New("missing devnet config"))
	}
	return result
}

func DefaultCLIConfig() *Config {
	return &Config{
		Version:       "dev",
		LogConfig:     oplog.DefaultCLIConfig(),
		MetricsConfig: opmetrics.DefaultCLIConfig(),
		RPC:           oprpc.DefaultCLIConfig(),
		Devnet:        fconf.DefaultConfig(),
	}
}

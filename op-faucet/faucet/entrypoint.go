package faucet

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/ethereum/go-ethereum/log"

	"github.com/mantlenetworkio/faucet-devnet/op-faucet/config"
	"github.com/mantlenetworkio/faucet-devnet/op-faucet/flags"
	"github.com/mantlenetworkio/faucet-devnet/op-service/cliapp"
	oplog "github.com/mantlenetworkio/faucet-devnet/op-service/log"
)

// MainFn creates the service from the parsed config.
// Tests replace it, to inspect or wrap the service.
type MainFn func(ctx context.Context, cfg *config.Config, logger log.Logger) (cliapp.Lifecycle, error)

// Main parses the CLI flags, sets up logging, and then runs fn.
func Main(version string, fn MainFn) cliapp.LifecycleAction {
	return func(cliCtx *cli.Context, closeApp context.CancelCauseFunc) (cliapp.Lifecycle, error) {
		if err := flags.CheckRequired(cliCtx); err != nil {
			return nil, err
		}
		cfg, err := flags.ConfigFromCLI(cliCtx, version)
		if err != nil {
			return nil, err
		}
		if err := cfg.Check(); err != nil {
			return nil, fmt.Errorf("invalid CLI flags: %w", err)
		}

		l := oplog.NewLogger(oplog.AppOut(cliCtx), cfg.LogConfig)
		oplog.SetGlobalLogHandler(l.Handler())

		l.Info("Initializing faucet devnet", "version", version)
		return fn(cliCtx.Context, cfg, l)
	}
}

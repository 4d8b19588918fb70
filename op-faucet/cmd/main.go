package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli/v2"

	"github.com/ethereum/go-ethereum/log"

	"github.com/mantlenetworkio/faucet-devnet/op-faucet/config"
	"github.com/mantlenetworkio/faucet-devnet/op-faucet/faucet"
	"github.com/mantlenetworkio/faucet-devnet/op-faucet/flags"
	"github.com/mantlenetworkio/faucet-devnet/op-ledger/devkeys"
	opservice "github.com/mantlenetworkio/faucet-devnet/op-service"
	"github.com/mantlenetworkio/faucet-devnet/op-service/cliapp"
	oplog "github.com/mantlenetworkio/faucet-devnet/op-service/log"
)

var (
	Version   = "v0.0.0"
	GitCommit = ""
	GitDate   = ""
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	err := run(ctx, os.Stdout, os.Stderr, os.Args, fromConfig)
	if err != nil {
		log.Crit("Application failed", "message", err)
	}
}

func run(ctx context.Context, w io.Writer, ew io.Writer, args []string, fn faucet.MainFn) error {
	oplog.SetupDefaults()

	app := cli.NewApp()
	app.Writer = w
	app.ErrWriter = ew
	app.Flags = flags.Flags
	app.Version = opservice.FormatVersion(Version, GitCommit, GitDate, "")
	app.Name = "op-faucet"
	app.Usage = "op-faucet runs an in-memory devnet with a deployed Faucet contract."
	app.Description = "Faucet devnet.\n" +
		" Serves the eth_ namespace for wallets and contract bindings, and faucet_ to inspect the faucet."
	app.Action = cliapp.LifecycleCmd(faucet.Main(app.Version, fn))
	app.Commands = []*cli.Command{
		{
			Name:   "accounts",
			Usage:  "Print the funded dev accounts of the devnet",
			Flags:  []cli.Flag{flags.ConfigFlag, flags.AccountsFlag},
			Action: printAccounts,
		},
	}
	return app.RunContext(ctx, args)
}

func fromConfig(ctx context.Context, cfg *config.Config, logger log.Logger) (cliapp.Lifecycle, error) {
	return faucet.FromConfig(ctx, cfg, logger)
}

func printAccounts(ctx *cli.Context) error {
	loader, err := flags.DevnetLoaderFromCLI(ctx)
	if err != nil {
		return err
	}
	cfg, err := loader.Load(ctx.Context)
	if err != nil {
		return fmt.Errorf("failed to load devnet config: %w", err)
	}
	if err := cfg.Check(); err != nil {
		return fmt.Errorf("invalid devnet config: %w", err)
	}
	keys, err := cfg.Keys()
	if err != nil {
		return err
	}

	table := tablewriter.NewWriter(ctx.App.Writer)
	table.SetHeader([]string{"#", "Address", "HD path", "Balance (ETH)", "Role"})
	for i := uint64(0); i < cfg.Accounts; i++ {
		key := devkeys.UserKey(i)
		addr, err := keys.Address(key)
		if err != nil {
			return err
		}
		role := ""
		if i == cfg.Owner {
			role = "faucet owner"
		}
		table.Append([]string{
			fmt.Sprintf("%d", i),
			addr.Hex(),
			key.HDPath(),
			cfg.AccountBalance.ETH().EtherString(),
			role,
		})
	}
	table.Render()
	return nil
}

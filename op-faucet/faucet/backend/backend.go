package backend

import (
	"context"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"
	"github.com/ethereum/go-ethereum/rpc"

	"github.com/mantlenetworkio/faucet-devnet/op-faucet/bindings"
	"github.com/mantlenetworkio/faucet-devnet/op-faucet/contract"
	"github.com/mantlenetworkio/faucet-devnet/op-faucet/faucet/backend/config"
	"github.com/mantlenetworkio/faucet-devnet/op-faucet/faucet/frontend"
	"github.com/mantlenetworkio/faucet-devnet/op-faucet/metrics"
	"github.com/mantlenetworkio/faucet-devnet/op-ledger/devkeys"
	"github.com/mantlenetworkio/faucet-devnet/op-ledger/ethapi"
	"github.com/mantlenetworkio/faucet-devnet/op-ledger/ledger"
	"github.com/mantlenetworkio/faucet-devnet/op-service/eth"
)

const deployTimeout = 10 * time.Second

type APIRouter interface {
	AddAPI(api rpc.API) error
}

// Backend runs the devnet: the ledger with the funded dev accounts, and the faucet deployed on it.
type Backend struct {
	log log.Logger
	m   metrics.Metricer

	keys     devkeys.Keys
	accounts []common.Address

	chain   *ledger.Ledger
	tracker *faucetTracker
	faucet  *bindings.Faucet
}

var _ frontend.FaucetBackend = (*Backend)(nil)

func FromConfig(ctx context.Context, logger log.Logger, m metrics.Metricer, cfg *config.Config, router APIRouter) (*Backend, error) {
	if err := cfg.Check(); err != nil {
		return nil, fmt.Errorf("invalid devnet config: %w", err)
	}
	keys, err := cfg.Keys()
	if err != nil {
		return nil, fmt.Errorf("failed to setup dev keys: %w", err)
	}
	accounts, err := devkeys.Accounts(keys, cfg.Accounts)
	if err != nil {
		return nil, fmt.Errorf("failed to derive dev accounts: %w", err)
	}
	ledgerCfg, err := cfg.LedgerConfig(keys)
	if err != nil {
		return nil, err
	}

	b := &Backend{
		log:      logger,
		m:        m,
		keys:     keys,
		accounts: accounts,
		tracker:  newFaucetTracker(logger.New("contract", "faucet"), m),
	}
	b.chain, err = ledger.New(ledgerCfg, logger.New("component", "ledger"), ledger.WithTxHook(b.tracker.onTx))
	if err != nil {
		return nil, fmt.Errorf("failed to create ledger: %w", err)
	}
	if err := b.chain.Register(contract.RuntimeCode, contract.Faucet{}); err != nil {
		return nil, fmt.Errorf("failed to register faucet contract: %w", err)
	}
	if err := b.deployFaucet(ctx, devkeys.UserKey(cfg.Owner), cfg.Funding.ETH()); err != nil {
		return nil, err
	}

	if err := router.AddAPI(ethapi.NewEthAPI(logger.New("api", "eth"), b.chain).API()); err != nil {
		return nil, fmt.Errorf("failed to add eth API: %w", err)
	}
	if err := router.AddAPI(rpc.API{
		Namespace: "faucet",
		Service:   frontend.NewFaucetFrontend(b),
	}); err != nil {
		return nil, fmt.Errorf("failed to add faucet API: %w", err)
	}
	return b, nil
}

func (b *Backend) deployFaucet(ctx context.Context, owner devkeys.Key, funding eth.ETH) error {
	key, err := b.keys.Secret(owner)
	if err != nil {
		return fmt.Errorf("failed to get faucet owner key: %w", err)
	}
	chainID, err := b.chain.ChainID(ctx)
	if err != nil {
		return err
	}
	opts, err := bindings.NewKeyedTransactor(key, chainID)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, deployTimeout)
	defer cancel()
	opts.Context = ctx
	opts.Value = funding.ToBig()

	addr, tx, f, err := bindings.DeployFaucet(opts, b.chain)
	if err != nil {
		return err
	}
	if _, err := bindings.WaitMined(ctx, b.chain, tx); err != nil {
		return fmt.Errorf("faucet deployment was not mined: %w", err)
	}
	b.faucet = f
	b.log.Info("Deployed faucet", "address", addr, "owner", opts.From, "funding", funding, "tx", tx.Hash())
	return nil
}

// Stop is a no-op: the devnet only lives in memory.
func (b *Backend) Stop(ctx context.Context) error {
	return nil
}

// Ledger returns the devnet chain.
func (b *Backend) Ledger() *ledger.Ledger {
	return b.chain
}

// Keys returns the dev keys the accounts are derived from.
func (b *Backend) Keys() devkeys.Keys {
	return b.keys
}

// Accounts returns the funded dev accounts.
func (b *Backend) Accounts() []common.Address {
	return append([]common.Address(nil), b.accounts...)
}

func (b *Backend) FaucetAddress() common.Address {
	return b.faucet.Address()
}

// FaucetOwner reads the owner slot directly, so it keeps working after the faucet is destroyed.
func (b *Backend) FaucetOwner(ctx context.Context) (common.Address, error) {
	v, err := b.chain.StorageAt(ctx, b.faucet.Address(), contract.OwnerSlot, nil)
	if err != nil {
		return common.Address{}, err
	}
	return common.BytesToAddress(v), nil
}

func (b *Backend) FaucetBalance(ctx context.Context) (eth.ETH, error) {
	return b.faucet.Balance(ctx)
}

func (b *Backend) FaucetDestroyed(ctx context.Context) (bool, error) {
	code, err := b.chain.CodeAt(ctx, b.faucet.Address(), nil)
	if err != nil {
		return false, err
	}
	return len(code) == 0, nil
}

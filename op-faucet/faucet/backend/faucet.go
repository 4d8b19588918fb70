package backend

import (
	"bytes"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/log"

	"github.com/mantlenetworkio/faucet-devnet/op-faucet/contract"
	"github.com/mantlenetworkio/faucet-devnet/op-faucet/metrics"
	"github.com/mantlenetworkio/faucet-devnet/op-service/eth"
)

// faucetTracker follows the faucet contract through the transactions the ledger processes,
// and records them as metrics.
// The first faucet deployment is the one that is tracked, until it is destroyed.
// Since the faucet accepts no plain transfers, its balance is known from the faucet calls alone.
type faucetTracker struct {
	mu sync.Mutex

	log log.Logger
	m   metrics.Metricer

	deployed  bool
	destroyed bool
	address   common.Address
	balance   eth.ETH
}

func newFaucetTracker(logger log.Logger, m metrics.Metricer) *faucetTracker {
	return &faucetTracker{log: logger, m: m}
}

// onTx is a ledger.TxHook.
func (f *faucetTracker) onTx(tx *types.Transaction, from common.Address, rec *types.Receipt, err error) {
	if rec != nil {
		f.m.RecordHead(rec.BlockNumber.Uint64())
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	isCreate := tx.To() == nil
	if isCreate {
		if !bytes.HasPrefix(tx.Data(), contract.RuntimeCode) {
			return
		}
	} else if !f.deployed || f.destroyed || *tx.To() != f.address {
		return
	}

	method := contract.MethodName(tx.Data(), isCreate)
	var gasUsed uint64
	if rec != nil {
		gasUsed = rec.GasUsed
	}
	f.m.RecordTx(method, gasUsed, err)
	if err != nil {
		f.log.Debug("Faucet transaction rejected", "method", method, "from", from, "err", err)
		return
	}

	switch method {
	case "deploy":
		if f.deployed {
			f.log.Warn("Ignoring additional faucet deployment", "address", rec.ContractAddress)
			return
		}
		f.deployed = true
		f.address = rec.ContractAddress
		f.balance = eth.WeiBig(tx.Value())
		f.log.Info("Faucet deployed", "address", f.address, "owner", from, "balance", f.balance)
	case contract.MethodWithdraw:
		amount, err := contract.UnpackWithdraw(tx.Data())
		if err != nil {
			f.log.Error("Failed to decode mined withdrawal", "tx", tx.Hash(), "err", err)
			return
		}
		f.balance = f.balance.Sub(amount)
		f.m.RecordWithdrawal(amount)
		f.log.Info("Withdrawal", "to", from, "amount", amount)
	case contract.MethodWithdrawAll:
		f.m.RecordWithdrawal(f.balance)
		f.log.Info("Faucet swept", "to", from, "amount", f.balance)
		f.balance = eth.ZeroWei
	case contract.MethodDestroyFaucet:
		f.log.Info("Faucet destroyed", "beneficiary", from, "amount", f.balance)
		f.destroyed = true
		f.balance = eth.ZeroWei
	default:
		return
	}
	f.m.RecordFaucetBalance(f.balance)
}

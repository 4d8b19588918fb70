package ledger

import (
	"github.com/ethereum/go-ethereum/core"
	"github.com/ethereum/go-ethereum/core/vm"
	"github.com/ethereum/go-ethereum/params"

	"github.com/mantlenetworkio/faucet-devnet/op-service/safemath"
)

// Gas schedule of native contract operations, priced like their EVM counterparts.
const (
	GasSloadCold     = params.ColdSloadCostEIP2929
	GasSloadWarm     = params.WarmStorageReadCostEIP2929
	GasSstoreSet     = params.SstoreSetGasEIP2200
	GasSstoreReset   = params.SstoreResetGasEIP2200
	GasValueTransfer = params.CallValueTransferGas
	GasNewAccount    = params.CallNewAccountGas
	GasSelfDestruct  = params.SelfdestructGasEIP150
	GasCodeDeposit   = params.CreateDataGas
)

// IntrinsicGas computes the gas a transaction costs before any execution:
// the base fee of a call or creation, plus the calldata cost.
func IntrinsicGas(data []byte, isContractCreation bool) (uint64, error) {
	gas := params.TxGas
	if isContractCreation {
		gas = params.TxGasContractCreation
	}
	var nonZero uint64
	for _, b := range data {
		if b != 0 {
			nonZero++
		}
	}
	zero := uint64(len(data)) - nonZero

	nonZeroGas, overflow := safemath.SafeMul(nonZero, params.TxDataNonZeroGasEIP2028)
	if overflow {
		return 0, core.ErrGasUintOverflow
	}
	zeroGas, overflow := safemath.SafeMul(zero, params.TxDataZeroGas)
	if overflow {
		return 0, core.ErrGasUintOverflow
	}
	if gas, overflow = safemath.SafeAdd(gas, nonZeroGas); overflow {
		return 0, core.ErrGasUintOverflow
	}
	if gas, overflow = safemath.SafeAdd(gas, zeroGas); overflow {
		return 0, core.ErrGasUintOverflow
	}
	return gas, nil
}

// gasMeter tracks the remaining execution gas of a message.
type gasMeter struct {
	remaining uint64
}

func (g *gasMeter) use(amount uint64) error {
	rem, underflow := safemath.SafeSub(g.remaining, amount)
	if underflow {
		g.remaining = 0
		return vm.ErrOutOfGas
	}
	g.remaining = rem
	return nil
}

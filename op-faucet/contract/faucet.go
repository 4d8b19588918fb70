// Package contract implements the Faucet: a contract that holds a balance
// and lets anyone withdraw up to 0.1 ether per call, while its owner can sweep or retire it.
package contract

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/vm"

	"github.com/mantlenetworkio/faucet-devnet/op-ledger/ledger"
	"github.com/mantlenetworkio/faucet-devnet/op-service/eth"
)

// WithdrawLimit is the max amount a single withdraw call may request.
var WithdrawLimit = eth.OneTenthEther

// OwnerSlot is the storage slot of the owner address.
var OwnerSlot = common.Hash{}

// Faucet is the native implementation of the Faucet contract.
// It keeps no Go state: the owner lives in storage, and the balance is the balance of the contract account.
type Faucet struct{}

var _ ledger.NativeContract = Faucet{}

// Construct makes the deployer the owner. The creation value funds the faucet.
func (Faucet) Construct(env ledger.Env, args []byte) error {
	return env.SetState(OwnerSlot, common.BytesToHash(env.Caller().Bytes()))
}

func (f Faucet) Call(env ledger.Env, input []byte) ([]byte, error) {
	// no receive or fallback function
	if len(input) < 4 {
		return nil, ledger.Revert("")
	}
	method, err := FaucetABI.MethodById(input[:4])
	if err != nil {
		return nil, ledger.Revert("")
	}
	if !method.IsPayable() && !env.Value().IsZero() {
		return nil, ledger.Revert("")
	}
	args, err := method.Inputs.Unpack(input[4:])
	if err != nil {
		return nil, ledger.Revert("")
	}

	switch method.Name {
	case MethodOwner:
		owner, err := f.owner(env)
		if err != nil {
			return nil, err
		}
		return method.Outputs.Pack(owner)
	case MethodWithdraw:
		amount, ok := args[0].(*big.Int)
		if !ok {
			return nil, ledger.Revert("")
		}
		return nil, f.withdraw(env, amount)
	case MethodWithdrawAll:
		return nil, f.withdrawAll(env)
	case MethodDestroyFaucet:
		return nil, f.destroyFaucet(env)
	default:
		return nil, ledger.Revert("")
	}
}

func (Faucet) owner(env ledger.Env) (common.Address, error) {
	v, err := env.GetState(OwnerSlot)
	if err != nil {
		return common.Address{}, err
	}
	return common.BytesToAddress(v.Bytes()), nil
}

func (f Faucet) onlyOwner(env ledger.Env) (common.Address, error) {
	owner, err := f.owner(env)
	if err != nil {
		return common.Address{}, err
	}
	if env.Caller() != owner {
		return common.Address{}, revert(ErrNotOwner)
	}
	return owner, nil
}

func (Faucet) withdraw(env ledger.Env, amount *big.Int) error {
	if amount.Cmp(WithdrawLimit.ToBig()) > 0 {
		return revert(ErrWithdrawLimit)
	}
	if err := env.Transfer(env.Caller(), eth.WeiBig(amount)); err != nil {
		return sendFailed(err)
	}
	return nil
}

func (f Faucet) withdrawAll(env ledger.Env) error {
	owner, err := f.onlyOwner(env)
	if err != nil {
		return err
	}
	if err := env.Transfer(owner, env.Balance(env.Self())); err != nil {
		return sendFailed(err)
	}
	return nil
}

func (f Faucet) destroyFaucet(env ledger.Env) error {
	owner, err := f.onlyOwner(env)
	if err != nil {
		return err
	}
	return env.SelfDestruct(owner)
}

// sendFailed keeps out-of-gas errors, and turns any other payout failure into the send-failed revert.
func sendFailed(err error) error {
	if errors.Is(err, vm.ErrOutOfGas) {
		return err
	}
	return revert(ErrSendFailed)
}

// PackWithdraw encodes the calldata of withdraw(amount).
func PackWithdraw(amount eth.ETH) ([]byte, error) {
	return FaucetABI.Pack(MethodWithdraw, amount.ToBig())
}

// UnpackWithdraw decodes the amount from the calldata of withdraw(amount).
func UnpackWithdraw(data []byte) (eth.ETH, error) {
	if len(data) < 4 {
		return eth.ZeroWei, errors.New("calldata too short")
	}
	method, err := FaucetABI.MethodById(data[:4])
	if err != nil {
		return eth.ZeroWei, err
	}
	if method.Name != MethodWithdraw {
		return eth.ZeroWei, fmt.Errorf("not a withdraw call: %s", method.Name)
	}
	args, err := method.Inputs.Unpack(data[4:])
	if err != nil {
		return eth.ZeroWei, err
	}
	amount := *abi.ConvertType(args[0], new(*big.Int)).(**big.Int)
	return eth.WeiBig(amount), nil
}

// UnpackOwner decodes the return data of owner().
func UnpackOwner(data []byte) (common.Address, error) {
	var out common.Address
	res, err := FaucetABI.Unpack(MethodOwner, data)
	if err != nil {
		return out, err
	}
	out = *abi.ConvertType(res[0], new(common.Address)).(*common.Address)
	return out, nil
}

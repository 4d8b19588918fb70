package ledger

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/mantlenetworkio/faucet-devnet/op-service/eth"
)

// NativeContract is a contract implemented in Go.
// It is deployed like any other contract, by a creation transaction
// whose data is the registered runtime code followed by the constructor arguments.
// All contract state lives in the storage of its account, accessed through the Env.
type NativeContract interface {
	// Construct runs once, during the creation transaction.
	Construct(env Env, args []byte) error
	// Call executes a message call with the given calldata.
	Call(env Env, input []byte) ([]byte, error)
}

// Env is the execution environment of a single native contract frame.
// An error returned by the contract reverts every change made in the frame.
type Env interface {
	// Caller is the immediate sender of the message.
	Caller() common.Address
	// Self is the address of the executing contract.
	Self() common.Address
	// Value is the amount of wei sent with the message.
	Value() eth.ETH
	// Balance of any account.
	Balance(addr common.Address) eth.ETH

	// Transfer sends value from the contract to the given address.
	// A recipient with code is called with empty calldata.
	Transfer(to common.Address, amount eth.ETH) error

	GetState(key common.Hash) (common.Hash, error)
	SetState(key common.Hash, value common.Hash) error

	// SelfDestruct moves the whole balance to the beneficiary,
	// and schedules the account for removal at the end of the transaction.
	SelfDestruct(beneficiary common.Address) error

	// UseGas charges execution gas, failing when out of gas.
	UseGas(amount uint64) error
}

type frame struct {
	exec   *execution
	caller common.Address
	self   common.Address
	value  eth.ETH
}

var _ Env = (*frame)(nil)

func (f *frame) Caller() common.Address {
	return f.caller
}

func (f *frame) Self() common.Address {
	return f.self
}

func (f *frame) Value() eth.ETH {
	return f.value
}

func (f *frame) Balance(addr common.Address) eth.ETH {
	return f.exec.st.balance(addr)
}

func (f *frame) Transfer(to common.Address, amount eth.ETH) error {
	if !amount.IsZero() {
		if err := f.exec.gas.use(GasValueTransfer); err != nil {
			return err
		}
		if !f.exec.st.exists(to) {
			if err := f.exec.gas.use(GasNewAccount); err != nil {
				return err
			}
		}
	}
	_, err := f.exec.call(f.self, to, amount, nil)
	return err
}

type slotKey struct {
	addr common.Address
	key  common.Hash
}

func (f *frame) touch(key common.Hash) error {
	k := slotKey{addr: f.self, key: key}
	if _, ok := f.exec.warm[k]; ok {
		return f.exec.gas.use(GasSloadWarm)
	}
	if err := f.exec.gas.use(GasSloadCold); err != nil {
		return err
	}
	f.exec.warm[k] = struct{}{}
	return nil
}

func (f *frame) GetState(key common.Hash) (common.Hash, error) {
	if err := f.touch(key); err != nil {
		return common.Hash{}, err
	}
	return f.exec.st.storage(f.self, key), nil
}

func (f *frame) SetState(key common.Hash, value common.Hash) error {
	if err := f.touch(key); err != nil {
		return err
	}
	cost := GasSstoreReset
	if f.exec.st.storage(f.self, key) == (common.Hash{}) && value != (common.Hash{}) {
		cost = GasSstoreSet
	}
	if err := f.exec.gas.use(cost); err != nil {
		return err
	}
	f.exec.st.setStorage(f.self, key, value)
	return nil
}

func (f *frame) SelfDestruct(beneficiary common.Address) error {
	if err := f.exec.gas.use(GasSelfDestruct); err != nil {
		return err
	}
	bal := f.exec.st.balance(f.self)
	if beneficiary != f.self && !bal.IsZero() {
		if err := f.exec.st.transfer(f.self, beneficiary, bal); err != nil {
			return err
		}
	}
	f.exec.destructs = append(f.exec.destructs, f.self)
	return nil
}

func (f *frame) UseGas(amount uint64) error {
	return f.exec.gas.use(amount)
}

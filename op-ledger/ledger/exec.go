package ledger

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core"
	"github.com/ethereum/go-ethereum/core/vm"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/params"

	"github.com/mantlenetworkio/faucet-devnet/op-service/eth"
)

// message is a transaction or call, after sender recovery and fee resolution.
type message struct {
	from     common.Address
	to       *common.Address
	value    eth.ETH
	gasLimit uint64
	// gasPrice is the effective price per unit of gas. Zero for calls, which are not charged.
	gasPrice eth.ETH
	data     []byte
}

type execResult struct {
	ret             []byte
	gasUsed         uint64
	contractAddress common.Address
}

// execution holds the transient state of one message being applied.
type execution struct {
	natives   *registry
	st        *state
	gas       gasMeter
	warm      map[slotKey]struct{}
	destructs []common.Address
	depth     int
}

// applyMessage applies the message on top of the state.
// On error the state has partially changed, and the caller is expected to revert to a snapshot.
func applyMessage(natives *registry, st *state, msg *message) (*execResult, error) {
	isCreate := msg.to == nil
	intrinsic, err := IntrinsicGas(msg.data, isCreate)
	if err != nil {
		return nil, err
	}
	if msg.gasLimit < intrinsic {
		return nil, fmt.Errorf("%w: have %d, want %d", core.ErrIntrinsicGas, msg.gasLimit, intrinsic)
	}

	fee, overflow := msg.gasPrice.MulOverflow(msg.gasLimit)
	if overflow {
		return nil, core.ErrInsufficientFunds
	}
	if err := st.debit(msg.from, fee); err != nil {
		return nil, fmt.Errorf("%w: address %s have %s want %s", core.ErrInsufficientFunds, msg.from, st.balance(msg.from), fee)
	}
	if st.balance(msg.from).Lt(msg.value) {
		return nil, fmt.Errorf("%w: address %s", core.ErrInsufficientFundsForTransfer, msg.from)
	}

	exec := &execution{
		natives: natives,
		st:      st,
		gas:     gasMeter{remaining: msg.gasLimit - intrinsic},
		warm:    make(map[slotKey]struct{}),
	}

	senderNonce := st.nonce(msg.from)
	st.setNonce(msg.from, senderNonce+1)

	res := &execResult{}
	if isCreate {
		res.contractAddress = crypto.CreateAddress(msg.from, senderNonce)
		err = exec.create(msg.from, res.contractAddress, msg.value, msg.data)
	} else {
		res.ret, err = exec.call(msg.from, *msg.to, msg.value, msg.data)
	}
	if err != nil {
		return nil, err
	}

	for _, addr := range exec.destructs {
		st.destroy(addr)
	}

	res.gasUsed = msg.gasLimit - exec.gas.remaining
	refund := msg.gasPrice.Mul(exec.gas.remaining)
	if err := st.credit(msg.from, refund); err != nil {
		return nil, err
	}
	return res, nil
}

// call runs a message call frame. Every state change of a failed frame is reverted.
func (e *execution) call(caller, to common.Address, value eth.ETH, input []byte) ([]byte, error) {
	if e.depth > int(params.CallCreateDepth) {
		return nil, vm.ErrDepth
	}
	snap := e.st.snapshot()
	destructs := len(e.destructs)
	revert := func() {
		e.st.revertTo(snap)
		e.destructs = e.destructs[:destructs]
	}

	if err := e.st.transfer(caller, to, value); err != nil {
		revert()
		return nil, err
	}
	code := e.st.code(to)
	if len(code) == 0 {
		return nil, nil
	}
	impl, ok := e.natives.lookup(code)
	if !ok {
		revert()
		return nil, fmt.Errorf("%w: at %s", ErrUnknownCode, to)
	}

	e.depth++
	ret, err := impl.Call(&frame{exec: e, caller: caller, self: to, value: value}, input)
	e.depth--
	if err != nil {
		revert()
		return nil, asExecutionError(err)
	}
	return ret, nil
}

// create deploys a native contract from creation data: runtime code followed by constructor arguments.
func (e *execution) create(caller, addr common.Address, value eth.ETH, data []byte) error {
	if acc := e.st.get(addr); acc != nil && (acc.nonce != 0 || len(acc.code) != 0) {
		return vm.ErrContractAddressCollision
	}
	code, impl, ok := e.natives.match(data)
	if !ok {
		return ErrUnknownCode
	}
	args := data[len(code):]

	snap := e.st.snapshot()
	destructs := len(e.destructs)
	revert := func() {
		e.st.revertTo(snap)
		e.destructs = e.destructs[:destructs]
	}

	e.st.setNonce(addr, 1)
	if err := e.st.transfer(caller, addr, value); err != nil {
		revert()
		return err
	}
	e.depth++
	err := impl.Construct(&frame{exec: e, caller: caller, self: addr, value: value}, args)
	e.depth--
	if err != nil {
		revert()
		return asExecutionError(err)
	}
	if err := e.gas.use(GasCodeDeposit * uint64(len(code))); err != nil {
		revert()
		return err
	}
	e.st.setCode(addr, bytes.Clone(code))
	return nil
}

// registry maps runtime code to the native contract that implements it.
type registry struct {
	byCode map[string]NativeContract
}

func newRegistry() *registry {
	return &registry{byCode: make(map[string]NativeContract)}
}

func (r *registry) register(code []byte, impl NativeContract) error {
	if len(code) == 0 {
		return ErrNoNativeCode
	}
	if _, ok := r.byCode[string(code)]; ok {
		return fmt.Errorf("%w: %x", ErrDuplicateCode, code)
	}
	r.byCode[string(code)] = impl
	return nil
}

func (r *registry) lookup(code []byte) (NativeContract, bool) {
	impl, ok := r.byCode[string(code)]
	return impl, ok
}

// match finds the longest registered code that prefixes the creation data.
func (r *registry) match(data []byte) ([]byte, NativeContract, bool) {
	var best []byte
	var impl NativeContract
	for code, c := range r.byCode {
		if len(code) > len(best) && bytes.HasPrefix(data, []byte(code)) {
			best = []byte(code)
			impl = c
		}
	}
	return best, impl, impl != nil
}

// isExecutionFailure reports whether the error came out of executing the message,
// as opposed to the message being invalid.
func isExecutionFailure(err error) bool {
	return errors.Is(err, vm.ErrExecutionReverted) ||
		errors.Is(err, vm.ErrOutOfGas) ||
		errors.Is(err, vm.ErrDepth) ||
		errors.Is(err, vm.ErrContractAddressCollision) ||
		errors.Is(err, vm.ErrInsufficientBalance) ||
		errors.Is(err, ErrUnknownCode)
}

package ledger

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/vm"
	"github.com/ethereum/go-ethereum/crypto"
)

var (
	ErrHistoricState = errors.New("only the latest state is available")
	ErrUnknownCode   = errors.New("no native contract registered for code")
	ErrNoNativeCode  = errors.New("native contract code must not be empty")
	ErrDuplicateCode = errors.New("native contract code already registered")
	ErrBlockGasLimit = errors.New("exceeds block gas limit")
)

// revertSelector is the 4-byte selector of Error(string).
var revertSelector = crypto.Keccak256([]byte("Error(string)"))[:4]

var revertArgs = func() abi.Arguments {
	typ, err := abi.NewType("string", "", nil)
	if err != nil {
		panic(err)
	}
	return abi.Arguments{{Type: typ}}
}()

// RevertError is an execution revert, carrying the ABI-encoded revert data.
// It matches the JSON-RPC error shape of go-ethereum: code 3, hex revert data as error data.
type RevertError struct {
	reason string
	data   []byte
}

var _ error = (*RevertError)(nil)

// Revert builds a RevertError for the given reason, encoded as Error(string).
// An empty reason produces a revert without data.
func Revert(reason string) *RevertError {
	if reason == "" {
		return &RevertError{}
	}
	enc, err := revertArgs.Pack(reason)
	if err != nil {
		panic(fmt.Errorf("failed to encode revert reason: %w", err))
	}
	data := make([]byte, 0, len(revertSelector)+len(enc))
	data = append(data, revertSelector...)
	data = append(data, enc...)
	return &RevertError{reason: reason, data: data}
}

// NewRevertError wraps raw revert data, decoding the reason if it is an Error(string).
func NewRevertError(data []byte) *RevertError {
	reason, err := abi.UnpackRevert(data)
	if err != nil {
		reason = ""
	}
	return &RevertError{reason: reason, data: data}
}

func (e *RevertError) Error() string {
	if e.reason == "" {
		return vm.ErrExecutionReverted.Error()
	}
	return vm.ErrExecutionReverted.Error() + ": " + e.reason
}

func (e *RevertError) Unwrap() error {
	return vm.ErrExecutionReverted
}

// Reason returns the decoded revert reason, empty if there was none.
func (e *RevertError) Reason() string {
	return e.reason
}

// Data returns the raw ABI-encoded revert data.
func (e *RevertError) Data() []byte {
	return e.data
}

// ErrorCode returns the JSON-RPC error code for a revert.
func (e *RevertError) ErrorCode() int {
	return 3
}

// ErrorData returns the hex encoded revert data.
func (e *RevertError) ErrorData() interface{} {
	return hexutil.Encode(e.data)
}

// asExecutionError turns any error a native contract returned into an execution failure.
// Out-of-gas and reverts are kept as-is, anything else is a revert without data.
func asExecutionError(err error) error {
	var revertErr *RevertError
	if errors.As(err, &revertErr) {
		return revertErr
	}
	if errors.Is(err, vm.ErrOutOfGas) || errors.Is(err, vm.ErrDepth) {
		return err
	}
	return &RevertError{}
}

package contract

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

const (
	MethodOwner         = "owner"
	MethodWithdraw      = "withdraw"
	MethodWithdrawAll   = "withdrawAll"
	MethodDestroyFaucet = "destroyFaucet"
)

// FaucetABIJSON is the Solidity JSON ABI of the Faucet.
const FaucetABIJSON = `[
	{"inputs":[],"stateMutability":"payable","type":"constructor"},
	{"inputs":[],"name":"destroyFaucet","outputs":[],"stateMutability":"nonpayable","type":"function"},
	{"inputs":[],"name":"owner","outputs":[{"internalType":"address","name":"","type":"address"}],"stateMutability":"view","type":"function"},
	{"inputs":[{"internalType":"uint256","name":"_amount","type":"uint256"}],"name":"withdraw","outputs":[],"stateMutability":"nonpayable","type":"function"},
	{"inputs":[],"name":"withdrawAll","outputs":[],"stateMutability":"nonpayable","type":"function"}
]`

var FaucetABI = func() abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(FaucetABIJSON))
	if err != nil {
		panic(fmt.Errorf("invalid faucet ABI: %w", err))
	}
	return parsed
}()

// RuntimeCode identifies the Faucet on chain. Creation data is this code followed by the (empty) constructor arguments.
// It starts with the INVALID opcode, so it can never be mistaken for executable EVM code.
var RuntimeCode = append([]byte{0xfe}, "faucet-devnet/Faucet/v1"...)

// MethodName returns the name of the Faucet method that the calldata targets,
// "deploy" for creation data, or "unknown".
func MethodName(data []byte, isCreate bool) string {
	if isCreate {
		return "deploy"
	}
	if len(data) < 4 {
		return "unknown"
	}
	m, err := FaucetABI.MethodById(data[:4])
	if err != nil {
		return "unknown"
	}
	return m.Name
}

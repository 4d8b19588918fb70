package contract

import (
	"errors"

	"github.com/mantlenetworkio/faucet-devnet/op-ledger/ledger"
)

// Revert reasons, as published by the deployed Faucet.
const (
	ReasonWithdrawLimit = "You can only withdraw <= .1 ETH at a time"
	ReasonNotOwner      = "Only the owner can call this function"
	ReasonSendFailed    = "Failed to send Ether"
)

var (
	// ErrWithdrawLimit is the policy violation of requesting more than the per-call ceiling.
	ErrWithdrawLimit = errors.New(ReasonWithdrawLimit)
	// ErrNotOwner is the authorization error of calling an owner-only method from another account.
	ErrNotOwner = errors.New(ReasonNotOwner)
	// ErrSendFailed is returned when the faucet cannot pay out, e.g. when the amount exceeds the balance.
	ErrSendFailed = errors.New(ReasonSendFailed)
)

// ErrorFromReason maps a revert reason back onto the matching Faucet error, or nil if there is none.
func ErrorFromReason(reason string) error {
	switch reason {
	case ReasonWithdrawLimit:
		return ErrWithdrawLimit
	case ReasonNotOwner:
		return ErrNotOwner
	case ReasonSendFailed:
		return ErrSendFailed
	default:
		return nil
	}
}

func revert(err error) error {
	return ledger.Revert(err.Error())
}

package accounting

import (
	"fmt"
	"sync"

	"github.com/mantlenetworkio/faucet-devnet/op-service/eth"
)

// OverdraftError is returned when a debit exceeds the remaining balance.
type OverdraftError struct {
	Remaining eth.ETH
	Requested eth.ETH
}

var _ error = (*OverdraftError)(nil)

func (e *OverdraftError) Error() string {
	return fmt.Sprintf("budget overdraft: requested %s, remaining %s", e.Requested, e.Remaining)
}

// OverflowError is returned when a credit would push the balance past the uint256 range.
type OverflowError struct {
	Balance eth.ETH
	Credit  eth.ETH
}

var _ error = (*OverflowError)(nil)

func (e *OverflowError) Error() string {
	return fmt.Sprintf("budget overflow: crediting %s to %s", e.Credit, e.Balance)
}

// Budget holds a non-negative balance of ETH.
// A failed Debit or Credit leaves the balance untouched.
type Budget struct {
	balanceMu sync.RWMutex
	balance   eth.ETH
}

func NewBudget(amount eth.ETH) *Budget {
	return &Budget{
		balance: amount,
	}
}

func (b *Budget) Balance() eth.ETH {
	b.balanceMu.RLock()
	defer b.balanceMu.RUnlock()
	return b.balance
}

// Set overwrites the balance, and returns the previous balance.
func (b *Budget) Set(amount eth.ETH) (prev eth.ETH) {
	b.balanceMu.Lock()
	defer b.balanceMu.Unlock()
	prev = b.balance
	b.balance = amount
	return prev
}

func (b *Budget) Debit(amount eth.ETH) (eth.ETH, error) {
	b.balanceMu.Lock()
	defer b.balanceMu.Unlock()
	result, underflow := b.balance.SubUnderflow(amount)
	if underflow {
		return b.balance, &OverdraftError{
			Remaining: b.balance,
			Requested: amount,
		}
	}
	b.balance = result
	return b.balance, nil
}

func (b *Budget) Credit(amount eth.ETH) (eth.ETH, error) {
	b.balanceMu.Lock()
	defer b.balanceMu.Unlock()
	result, overflow := b.balance.AddOverflow(amount)
	if overflow {
		return b.balance, &OverflowError{
			Balance: b.balance,
			Credit:  amount,
		}
	}
	b.balance = result
	return b.balance, nil
}

// Transfer moves amount from one budget to another.
// Either both sides change, or neither does.
func Transfer(from, to *Budget, amount eth.ETH) error {
	if from == to {
		if from.Balance().Lt(amount) {
			return &OverdraftError{Remaining: from.Balance(), Requested: amount}
		}
		return nil
	}
	if _, err := from.Debit(amount); err != nil {
		return err
	}
	if _, err := to.Credit(amount); err != nil {
		// restore the debited side, cannot overflow since the amount was just taken out
		_, _ = from.Credit(amount)
		return err
	}
	return nil
}

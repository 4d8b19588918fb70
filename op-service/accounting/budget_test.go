package accounting_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mantlenetworkio/faucet-devnet/op-service/accounting"
	"github.com/mantlenetworkio/faucet-devnet/op-service/eth"
)

func TestBudgetDebit(t *testing.T) {
	t.Run("successful debit reduces remaining balance", func(t *testing.T) {
		budget := accounting.NewBudget(eth.Ether(10))

		balance, err := budget.Debit(eth.Ether(3))
		require.NoError(t, err)
		require.Equal(t, eth.Ether(7), balance)

		balance, err = budget.Debit(eth.Ether(2))
		require.NoError(t, err)
		require.Equal(t, eth.Ether(5), balance)
	})

	t.Run("exact debit empties budget", func(t *testing.T) {
		budget := accounting.NewBudget(eth.Ether(5))

		balance, err := budget.Debit(eth.Ether(5))
		require.NoError(t, err)
		require.Equal(t, eth.ZeroWei, balance)
	})

	t.Run("debit with insufficient funds returns error", func(t *testing.T) {
		startingBalance := eth.Ether(3)
		budget := accounting.NewBudget(startingBalance)

		balance, err := budget.Debit(eth.Ether(5))
		require.Error(t, err)

		var overdraftErr *accounting.OverdraftError
		require.True(t, errors.As(err, &overdraftErr))
		require.Equal(t, &accounting.OverdraftError{
			Remaining: startingBalance,
			Requested: eth.Ether(5),
		}, overdraftErr)
		require.Equal(t, startingBalance, balance)
		require.Equal(t, startingBalance, budget.Balance())
	})
}

func TestBudgetCredit(t *testing.T) {
	t.Run("credit increases balance", func(t *testing.T) {
		budget := accounting.NewBudget(eth.OneEther)
		balance, err := budget.Credit(eth.OneTenthEther)
		require.NoError(t, err)
		require.Equal(t, "1.1", balance.EtherString())
	})

	t.Run("credit overflow is rejected", func(t *testing.T) {
		budget := accounting.NewBudget(eth.MaxU256Wei)
		balance, err := budget.Credit(eth.OneWei)
		var overflowErr *accounting.OverflowError
		require.ErrorAs(t, err, &overflowErr)
		require.Equal(t, eth.MaxU256Wei, balance)
		require.Equal(t, eth.MaxU256Wei, budget.Balance())
	})
}

func TestBudgetSet(t *testing.T) {
	budget := accounting.NewBudget(eth.FiveEther)
	prev := budget.Set(eth.OneEther)
	require.Equal(t, eth.FiveEther, prev)
	require.Equal(t, eth.OneEther, budget.Balance())
}

func TestTransfer(t *testing.T) {
	t.Run("moves funds", func(t *testing.T) {
		a := accounting.NewBudget(eth.FiveEther)
		b := accounting.NewBudget(eth.ZeroWei)
		require.NoError(t, accounting.Transfer(a, b, eth.FiveHundredthsEther))
		require.Equal(t, "4.95", a.Balance().EtherString())
		require.Equal(t, eth.FiveHundredthsEther, b.Balance())
	})

	t.Run("overdraft changes nothing", func(t *testing.T) {
		a := accounting.NewBudget(eth.OneHundredthEther)
		b := accounting.NewBudget(eth.OneEther)
		err := accounting.Transfer(a, b, eth.OneTenthEther)
		var overdraftErr *accounting.OverdraftError
		require.ErrorAs(t, err, &overdraftErr)
		require.Equal(t, eth.OneHundredthEther, a.Balance())
		require.Equal(t, eth.OneEther, b.Balance())
	})

	t.Run("overflow restores sender", func(t *testing.T) {
		a := accounting.NewBudget(eth.OneEther)
		b := accounting.NewBudget(eth.MaxU256Wei)
		err := accounting.Transfer(a, b, eth.OneWei)
		var overflowErr *accounting.OverflowError
		require.ErrorAs(t, err, &overflowErr)
		require.Equal(t, eth.OneEther, a.Balance())
		require.Equal(t, eth.MaxU256Wei, b.Balance())
	})

	t.Run("self transfer", func(t *testing.T) {
		a := accounting.NewBudget(eth.OneEther)
		require.NoError(t, accounting.Transfer(a, a, eth.OneEther))
		require.Equal(t, eth.OneEther, a.Balance())
		require.Error(t, accounting.Transfer(a, a, eth.Ether(2)))
	})
}

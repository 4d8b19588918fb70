package ledger

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/vm"

	"github.com/mantlenetworkio/faucet-devnet/op-service/accounting"
	"github.com/mantlenetworkio/faucet-devnet/op-service/eth"
)

type account struct {
	balance *accounting.Budget
	nonce   uint64
	code    []byte
	storage map[common.Hash]common.Hash
}

func newAccount() *account {
	return &account{
		balance: accounting.NewBudget(eth.ZeroWei),
		storage: make(map[common.Hash]common.Hash),
	}
}

func (a *account) empty() bool {
	return a.nonce == 0 && len(a.code) == 0 && a.balance.Balance().IsZero()
}

// state is the world state, with a journal of undo operations.
// Not safe for concurrent use, the Ledger serializes access.
type state struct {
	accounts map[common.Address]*account
	journal  []func()
}

func newState() *state {
	return &state{accounts: make(map[common.Address]*account)}
}

// snapshot returns an identifier of the current state, to revert back to.
func (s *state) snapshot() int {
	return len(s.journal)
}

// revertTo undoes every change since the given snapshot, most recent first.
func (s *state) revertTo(id int) {
	for i := len(s.journal) - 1; i >= id; i-- {
		s.journal[i]()
	}
	s.journal = s.journal[:id]
}

// commit drops the journal. Earlier snapshots become invalid.
func (s *state) commit() {
	s.journal = s.journal[:0]
}

func (s *state) get(addr common.Address) *account {
	return s.accounts[addr]
}

func (s *state) exists(addr common.Address) bool {
	_, ok := s.accounts[addr]
	return ok
}

func (s *state) getOrCreate(addr common.Address) *account {
	acc, ok := s.accounts[addr]
	if ok {
		return acc
	}
	acc = newAccount()
	s.accounts[addr] = acc
	s.journal = append(s.journal, func() {
		delete(s.accounts, addr)
	})
	return acc
}

func (s *state) balance(addr common.Address) eth.ETH {
	acc := s.get(addr)
	if acc == nil {
		return eth.ZeroWei
	}
	return acc.balance.Balance()
}

func (s *state) nonce(addr common.Address) uint64 {
	acc := s.get(addr)
	if acc == nil {
		return 0
	}
	return acc.nonce
}

func (s *state) code(addr common.Address) []byte {
	acc := s.get(addr)
	if acc == nil {
		return nil
	}
	return acc.code
}

func (s *state) storage(addr common.Address, key common.Hash) common.Hash {
	acc := s.get(addr)
	if acc == nil {
		return common.Hash{}
	}
	return acc.storage[key]
}

func (s *state) setNonce(addr common.Address, nonce uint64) {
	acc := s.getOrCreate(addr)
	prev := acc.nonce
	acc.nonce = nonce
	s.journal = append(s.journal, func() {
		acc.nonce = prev
	})
}

func (s *state) setCode(addr common.Address, code []byte) {
	acc := s.getOrCreate(addr)
	prev := acc.code
	acc.code = code
	s.journal = append(s.journal, func() {
		acc.code = prev
	})
}

func (s *state) setStorage(addr common.Address, key, value common.Hash) {
	acc := s.getOrCreate(addr)
	prev, had := acc.storage[key]
	if value == (common.Hash{}) {
		delete(acc.storage, key)
	} else {
		acc.storage[key] = value
	}
	s.journal = append(s.journal, func() {
		if had {
			acc.storage[key] = prev
		} else {
			delete(acc.storage, key)
		}
	})
}

func (s *state) credit(addr common.Address, amount eth.ETH) error {
	acc := s.getOrCreate(addr)
	prev := acc.balance.Balance()
	if _, err := acc.balance.Credit(amount); err != nil {
		return err
	}
	s.journal = append(s.journal, func() {
		acc.balance.Set(prev)
	})
	return nil
}

func (s *state) debit(addr common.Address, amount eth.ETH) error {
	acc := s.get(addr)
	if acc == nil {
		if amount.IsZero() {
			return nil
		}
		return &accounting.OverdraftError{Remaining: eth.ZeroWei, Requested: amount}
	}
	prev := acc.balance.Balance()
	if _, err := acc.balance.Debit(amount); err != nil {
		return err
	}
	s.journal = append(s.journal, func() {
		acc.balance.Set(prev)
	})
	return nil
}

// transfer moves amount between two accounts, creating the recipient if needed.
func (s *state) transfer(from, to common.Address, amount eth.ETH) error {
	src := s.get(from)
	if src == nil {
		if amount.IsZero() {
			s.getOrCreate(to)
			return nil
		}
		return vm.ErrInsufficientBalance
	}
	dst := s.getOrCreate(to)
	prevSrc, prevDst := src.balance.Balance(), dst.balance.Balance()
	if err := accounting.Transfer(src.balance, dst.balance, amount); err != nil {
		return vm.ErrInsufficientBalance
	}
	s.journal = append(s.journal, func() {
		src.balance.Set(prevSrc)
		dst.balance.Set(prevDst)
	})
	return nil
}

// destroy removes the account with all its code, storage and nonce.
// The balance is expected to have been moved out already, anything left is burned.
func (s *state) destroy(addr common.Address) {
	acc, ok := s.accounts[addr]
	if !ok {
		return
	}
	delete(s.accounts, addr)
	s.journal = append(s.journal, func() {
		s.accounts[addr] = acc
	})
}

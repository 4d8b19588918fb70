package devkeys

import (
	"crypto/ecdsa"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// Key identifies one dev account of a mnemonic.
type Key interface {
	// HDPath produces the hierarchical derivation path to (re)create this key.
	HDPath() string
	// String describes the role of the key
	String() string
}

// Keys is an interface to retrieve secrets and addresses of dev keys.
type Keys interface {
	Secret(key Key) (*ecdsa.PrivateKey, error)
	Address(key Key) (common.Address, error)
}

// UserKey is the n'th account of the standard wallet path, as used by dev tooling like anvil and hardhat.
type UserKey uint64

var _ Key = UserKey(0)

// DefaultKey is the first account, the one that deploys and owns by default.
const DefaultKey = UserKey(0)

func (k UserKey) HDPath() string {
	return fmt.Sprintf("m/44'/60'/0'/0/%d", uint64(k))
}

func (k UserKey) String() string {
	return fmt.Sprintf("user-key-%d", uint64(k))
}

// Accounts derives the first n user accounts.
func Accounts(keys Keys, n uint64) ([]common.Address, error) {
	out := make([]common.Address, 0, n)
	for i := uint64(0); i < n; i++ {
		addr, err := keys.Address(UserKey(i))
		if err != nil {
			return nil, err
		}
		out = append(out, addr)
	}
	return out, nil
}

package devkeys

import (
	"crypto/ecdsa"
	"fmt"
	"sync"

	"github.com/base/go-bip39"
	hdwallet "github.com/ethereum-optimism/go-ethereum-hdwallet"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// DevMnemonic is the mnemonic of the well-known anvil and hardhat dev accounts.
const DevMnemonic = "test test test test test test test test test test test junk"

// Wallet derives dev keys from a BIP-39 seed, and remembers the keys it derived.
type Wallet struct {
	w *hdwallet.Wallet

	mu      sync.Mutex
	derived map[string]*ecdsa.PrivateKey
}

var _ Keys = (*Wallet)(nil)

// NewWallet creates the wallet of the mnemonic.
// A non-empty salt is used as BIP-39 passphrase, which yields a different set of accounts.
func NewWallet(mnemonic string, salt string) (*Wallet, error) {
	seed, err := bip39.NewSeedWithErrorChecking(mnemonic, salt)
	if err != nil {
		return nil, fmt.Errorf("invalid mnemonic: %w", err)
	}
	w, err := hdwallet.NewFromSeed(seed)
	if err != nil {
		return nil, fmt.Errorf("failed to create wallet: %w", err)
	}
	return &Wallet{w: w, derived: make(map[string]*ecdsa.PrivateKey)}, nil
}

func (d *Wallet) Secret(key Key) (*ecdsa.PrivateKey, error) {
	path := key.HDPath()
	d.mu.Lock()
	defer d.mu.Unlock()
	if priv, ok := d.derived[path]; ok {
		return priv, nil
	}
	priv, err := d.w.PrivateKey(accounts.Account{URL: accounts.URL{Path: path}})
	if err != nil {
		return nil, fmt.Errorf("failed to derive %s at %s: %w", key, path, err)
	}
	d.derived[path] = priv
	return priv, nil
}

func (d *Wallet) Address(key Key) (common.Address, error) {
	priv, err := d.Secret(key)
	if err != nil {
		return common.Address{}, err
	}
	return crypto.PubkeyToAddress(priv.PublicKey), nil
}

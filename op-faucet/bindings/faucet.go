// Package bindings provides typed access to a deployed Faucet,
// through the in-process ledger or any eth_ JSON-RPC endpoint.
package bindings

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rpc"

	"github.com/mantlenetworkio/faucet-devnet/op-faucet/contract"
	"github.com/mantlenetworkio/faucet-devnet/op-service/eth"
)

var (
	// ErrNoCode is returned when the faucet address has no code, e.g. after it was destroyed.
	ErrNoCode = errors.New("no contract code at given address")
	// ErrNotAuthorized is returned when a signer is asked to sign for another account.
	ErrNotAuthorized = errors.New("not authorized to sign this account")
)

// Backend is the subset of the ethclient.Client API that the bindings use.
type Backend interface {
	ChainID(ctx context.Context) (*big.Int, error)
	BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error)
	CodeAt(ctx context.Context, account common.Address, blockNumber *big.Int) ([]byte, error)
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
	EstimateGas(ctx context.Context, call ethereum.CallMsg) (uint64, error)
	SendTransaction(ctx context.Context, tx *types.Transaction) error
	CallContract(ctx context.Context, call ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
}

// SignerFn signs a transaction on behalf of the given account.
type SignerFn func(from common.Address, tx *types.Transaction) (*types.Transaction, error)

// TransactOpts configures a transaction. Unset gas parameters are filled in from the backend.
type TransactOpts struct {
	From   common.Address
	Signer SignerFn

	Value    *big.Int
	GasLimit uint64
	GasPrice *big.Int

	Context context.Context
}

func (opts *TransactOpts) context() context.Context {
	if opts.Context == nil {
		return context.Background()
	}
	return opts.Context
}

// NewKeyedTransactor creates transact options that sign with the given key, for the given chain.
func NewKeyedTransactor(key *ecdsa.PrivateKey, chainID *big.Int) (*TransactOpts, error) {
	if chainID == nil {
		return nil, errors.New("no chain id specified")
	}
	keyAddr := crypto.PubkeyToAddress(key.PublicKey)
	signer := types.LatestSignerForChainID(chainID)
	return &TransactOpts{
		From: keyAddr,
		Signer: func(address common.Address, tx *types.Transaction) (*types.Transaction, error) {
			if address != keyAddr {
				return nil, ErrNotAuthorized
			}
			return types.SignTx(tx, signer, key)
		},
		Context: context.Background(),
	}, nil
}

// Faucet is a binding to a deployed Faucet contract.
type Faucet struct {
	address common.Address
	backend Backend
}

func NewFaucet(address common.Address, backend Backend) *Faucet {
	return &Faucet{address: address, backend: backend}
}

// DeployFaucet deploys a new Faucet, funded with opts.Value, and owned by opts.From.
func DeployFaucet(opts *TransactOpts, backend Backend) (common.Address, *types.Transaction, *Faucet, error) {
	ctorArgs, err := contract.FaucetABI.Pack("")
	if err != nil {
		return common.Address{}, nil, nil, err
	}
	data := append(append([]byte{}, contract.RuntimeCode...), ctorArgs...)
	tx, err := transact(opts, backend, nil, data)
	if err != nil {
		return common.Address{}, nil, nil, fmt.Errorf("failed to deploy faucet: %w", err)
	}
	addr := crypto.CreateAddress(opts.From, tx.Nonce())
	return addr, tx, NewFaucet(addr, backend), nil
}

func (f *Faucet) Address() common.Address {
	return f.address
}

// Owner returns the owner of the faucet.
func (f *Faucet) Owner(ctx context.Context) (common.Address, error) {
	if err := f.checkCode(ctx); err != nil {
		return common.Address{}, err
	}
	data, err := contract.FaucetABI.Pack(contract.MethodOwner)
	if err != nil {
		return common.Address{}, err
	}
	out, err := f.backend.CallContract(ctx, ethereum.CallMsg{To: &f.address, Data: data}, nil)
	if err != nil {
		return common.Address{}, translateError(err)
	}
	return contract.UnpackOwner(out)
}

// Balance returns the amount of ETH the faucet holds.
func (f *Faucet) Balance(ctx context.Context) (eth.ETH, error) {
	bal, err := f.backend.BalanceAt(ctx, f.address, nil)
	if err != nil {
		return eth.ETH{}, err
	}
	return eth.WeiBig(bal), nil
}

// Withdraw requests amount (at most 0.1 ether) to be sent to opts.From.
func (f *Faucet) Withdraw(opts *TransactOpts, amount *big.Int) (*types.Transaction, error) {
	return f.transact(opts, contract.MethodWithdraw, amount)
}

// WithdrawAll sweeps the whole balance to the owner. Only the owner may call this.
func (f *Faucet) WithdrawAll(opts *TransactOpts) (*types.Transaction, error) {
	return f.transact(opts, contract.MethodWithdrawAll)
}

// DestroyFaucet sweeps the balance to the owner and removes the contract. Only the owner may call this.
func (f *Faucet) DestroyFaucet(opts *TransactOpts) (*types.Transaction, error) {
	return f.transact(opts, contract.MethodDestroyFaucet)
}

func (f *Faucet) checkCode(ctx context.Context) error {
	code, err := f.backend.CodeAt(ctx, f.address, nil)
	if err != nil {
		return fmt.Errorf("failed to check code of %s: %w", f.address, err)
	}
	if len(code) == 0 {
		return fmt.Errorf("%w: %s", ErrNoCode, f.address)
	}
	return nil
}

func (f *Faucet) transact(opts *TransactOpts, method string, args ...any) (*types.Transaction, error) {
	if err := f.checkCode(opts.context()); err != nil {
		return nil, err
	}
	data, err := contract.FaucetABI.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to pack %s call: %w", method, err)
	}
	return transact(opts, f.backend, &f.address, data)
}

func transact(opts *TransactOpts, backend Backend, to *common.Address, data []byte) (*types.Transaction, error) {
	ctx := opts.context()
	if opts.Signer == nil {
		return nil, errors.New("no signer to authorize the transaction with")
	}
	value := opts.Value
	if value == nil {
		value = new(big.Int)
	}
	nonce, err := backend.PendingNonceAt(ctx, opts.From)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve account nonce: %w", err)
	}
	gasPrice := opts.GasPrice
	if gasPrice == nil {
		gasPrice, err = backend.SuggestGasPrice(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to suggest gas price: %w", err)
		}
	}
	gasLimit := opts.GasLimit
	if gasLimit == 0 {
		gasLimit, err = backend.EstimateGas(ctx, ethereum.CallMsg{
			From:  opts.From,
			To:    to,
			Value: value,
			Data:  data,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to estimate gas needed: %w", translateError(err))
		}
	}
	tx := types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		GasPrice: gasPrice,
		Gas:      gasLimit,
		To:       to,
		Value:    value,
		Data:     data,
	})
	signed, err := opts.Signer(opts.From, tx)
	if err != nil {
		return nil, err
	}
	if err := backend.SendTransaction(ctx, signed); err != nil {
		return nil, translateError(err)
	}
	return signed, nil
}

// revertErrorCode is the JSON-RPC error code of an execution revert.
const revertErrorCode = 3

// RevertReason extracts the revert reason from an error returned by a backend.
// Both the ledger and JSON-RPC clients carry the revert data as hex error data.
// A revert without a reason string returns an empty reason.
func RevertReason(err error) (string, bool) {
	var dataErr rpc.DataError
	if !errors.As(err, &dataErr) {
		return "", false
	}
	if codeErr, ok := dataErr.(rpc.Error); ok && codeErr.ErrorCode() != revertErrorCode {
		return "", false
	}
	hexData, ok := dataErr.ErrorData().(string)
	if !ok {
		return "", false
	}
	data, err := hexutil.Decode(hexData)
	if err != nil {
		return "", false
	}
	reason, err := abi.UnpackRevert(data)
	if err != nil {
		return "", true
	}
	return reason, true
}

// translateError attaches the matching contract error to reverts, so callers can use errors.Is.
func translateError(err error) error {
	reason, ok := RevertReason(err)
	if !ok {
		return err
	}
	if sentinel := contract.ErrorFromReason(reason); sentinel != nil {
		return fmt.Errorf("%w: %w", sentinel, err)
	}
	return err
}

// ReceiptBackend is what WaitMined needs to look up receipts.
type ReceiptBackend interface {
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
}

// WaitMined waits for tx to be mined, and returns its receipt.
func WaitMined(ctx context.Context, b ReceiptBackend, tx *types.Transaction) (*types.Receipt, error) {
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()
	for {
		rec, err := b.TransactionReceipt(ctx, tx.Hash())
		if err == nil {
			return rec, nil
		}
		if !errors.Is(err, ethereum.NotFound) {
			return nil, fmt.Errorf("failed to retrieve receipt of %s: %w", tx.Hash(), err)
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

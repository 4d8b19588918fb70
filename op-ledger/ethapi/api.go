// Package ethapi serves the eth_ JSON-RPC namespace on top of a ledger.
package ethapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/log"
	"github.com/ethereum/go-ethereum/rpc"

	"github.com/mantlenetworkio/faucet-devnet/op-ledger/ledger"
	"github.com/mantlenetworkio/faucet-devnet/op-service/jsonutil"
)

var ErrDataInputMismatch = errors.New(`both "data" and "input" are set and not equal. Please use "input" to pass transaction call data`)

// Backend is the chain that is served. The *ledger.Ledger implements it.
type Backend interface {
	ChainID(ctx context.Context) (*big.Int, error)
	BlockNumber(ctx context.Context) (uint64, error)
	HeadHash() common.Hash
	BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error)
	CodeAt(ctx context.Context, account common.Address, blockNumber *big.Int) ([]byte, error)
	StorageAt(ctx context.Context, account common.Address, key common.Hash, blockNumber *big.Int) ([]byte, error)
	NonceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (uint64, error)
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
	SendTransaction(ctx context.Context, tx *types.Transaction) error
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
	TransactionByHash(ctx context.Context, txHash common.Hash) (*types.Transaction, bool, error)
	CallContract(ctx context.Context, call ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
	EstimateGas(ctx context.Context, call ethereum.CallMsg) (uint64, error)
}

var _ Backend = (*ledger.Ledger)(nil)

// CallArgs are the arguments of eth_call and eth_estimateGas.
type CallArgs struct {
	From                 *common.Address `json:"from"`
	To                   *common.Address `json:"to"`
	Gas                  *hexutil.Uint64 `json:"gas"`
	GasPrice             *hexutil.Big    `json:"gasPrice"`
	MaxFeePerGas         *hexutil.Big    `json:"maxFeePerGas"`
	MaxPriorityFeePerGas *hexutil.Big    `json:"maxPriorityFeePerGas"`
	Value                *hexutil.Big    `json:"value"`
	Data                 *hexutil.Bytes  `json:"data"`
	Input                *hexutil.Bytes  `json:"input"`
}

func (args *CallArgs) data() []byte {
	if args.Input != nil {
		return *args.Input
	}
	if args.Data != nil {
		return *args.Data
	}
	return nil
}

// ToMessage converts the arguments into a call message.
func (args *CallArgs) ToMessage() (ethereum.CallMsg, error) {
	if args.Data != nil && args.Input != nil && !bytes.Equal(*args.Data, *args.Input) {
		return ethereum.CallMsg{}, ErrDataInputMismatch
	}
	msg := ethereum.CallMsg{
		To:   args.To,
		Data: args.data(),
	}
	if args.From != nil {
		msg.From = *args.From
	}
	if args.Gas != nil {
		msg.Gas = uint64(*args.Gas)
	}
	if args.GasPrice != nil {
		msg.GasPrice = args.GasPrice.ToInt()
	}
	if args.MaxFeePerGas != nil {
		msg.GasFeeCap = args.MaxFeePerGas.ToInt()
	}
	if args.MaxPriorityFeePerGas != nil {
		msg.GasTipCap = args.MaxPriorityFeePerGas.ToInt()
	}
	if args.Value != nil {
		msg.Value = args.Value.ToInt()
	}
	return msg, nil
}

// EthAPI implements the subset of the eth_ namespace that wallets and contract bindings use.
type EthAPI struct {
	log log.Logger
	b   Backend
}

func NewEthAPI(logger log.Logger, b Backend) *EthAPI {
	return &EthAPI{log: logger, b: b}
}

// blockArg resolves the block selector to what the backend accepts:
// nil for the latest state, or an explicit block number.
func (api *EthAPI) blockArg(blockNrOrHash *rpc.BlockNumberOrHash) (*big.Int, error) {
	if blockNrOrHash == nil {
		return nil, nil
	}
	if num, ok := blockNrOrHash.Number(); ok {
		if num < 0 {
			return nil, nil
		}
		return big.NewInt(num.Int64()), nil
	}
	if hash, ok := blockNrOrHash.Hash(); ok {
		if hash != api.b.HeadHash() {
			return nil, fmt.Errorf("%w: unknown or historic block %s", ledger.ErrHistoricState, hash)
		}
		return nil, nil
	}
	return nil, errors.New("invalid block selector")
}

func (api *EthAPI) ChainId(ctx context.Context) (*hexutil.Big, error) {
	id, err := api.b.ChainID(ctx)
	if err != nil {
		return nil, err
	}
	return (*hexutil.Big)(id), nil
}

func (api *EthAPI) BlockNumber(ctx context.Context) (hexutil.Uint64, error) {
	num, err := api.b.BlockNumber(ctx)
	return hexutil.Uint64(num), err
}

func (api *EthAPI) GasPrice(ctx context.Context) (*hexutil.Big, error) {
	price, err := api.b.SuggestGasPrice(ctx)
	if err != nil {
		return nil, err
	}
	return (*hexutil.Big)(price), nil
}

func (api *EthAPI) GetBalance(ctx context.Context, address common.Address, blockNrOrHash *rpc.BlockNumberOrHash) (*hexutil.Big, error) {
	num, err := api.blockArg(blockNrOrHash)
	if err != nil {
		return nil, err
	}
	bal, err := api.b.BalanceAt(ctx, address, num)
	if err != nil {
		return nil, err
	}
	return (*hexutil.Big)(bal), nil
}

func (api *EthAPI) GetCode(ctx context.Context, address common.Address, blockNrOrHash *rpc.BlockNumberOrHash) (hexutil.Bytes, error) {
	num, err := api.blockArg(blockNrOrHash)
	if err != nil {
		return nil, err
	}
	return api.b.CodeAt(ctx, address, num)
}

func (api *EthAPI) GetStorageAt(ctx context.Context, address common.Address, hexKey string, blockNrOrHash *rpc.BlockNumberOrHash) (hexutil.Bytes, error) {
	key, err := decodeStorageKey(hexKey)
	if err != nil {
		return nil, fmt.Errorf("unable to decode storage key: %w", err)
	}
	num, err := api.blockArg(blockNrOrHash)
	if err != nil {
		return nil, err
	}
	return api.b.StorageAt(ctx, address, key, num)
}

// decodeStorageKey parses a hex key of up to 32 bytes, left-padding it with zeroes.
func decodeStorageKey(s string) (common.Hash, error) {
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		s = s[2:]
	}
	if (len(s) & 1) > 0 {
		s = "0" + s
	}
	b, err := hexutil.Decode("0x" + s)
	if err != nil {
		return common.Hash{}, err
	}
	if len(b) > 32 {
		return common.Hash{}, errors.New("hex string too long, want at most 32 bytes")
	}
	return common.BytesToHash(b), nil
}

func (api *EthAPI) GetTransactionCount(ctx context.Context, address common.Address, blockNrOrHash *rpc.BlockNumberOrHash) (hexutil.Uint64, error) {
	num, err := api.blockArg(blockNrOrHash)
	if err != nil {
		return 0, err
	}
	nonce, err := api.b.NonceAt(ctx, address, num)
	return hexutil.Uint64(nonce), err
}

func (api *EthAPI) SendRawTransaction(ctx context.Context, input hexutil.Bytes) (common.Hash, error) {
	tx := new(types.Transaction)
	if err := tx.UnmarshalBinary(input); err != nil {
		return common.Hash{}, err
	}
	if err := api.b.SendTransaction(ctx, tx); err != nil {
		api.log.Debug("Rejected transaction", "hash", tx.Hash(), "err", err)
		return common.Hash{}, err
	}
	return tx.Hash(), nil
}

// Call executes the call without creating a transaction.
// Reverts are returned unwrapped, so the RPC error carries code 3 and the revert data.
func (api *EthAPI) Call(ctx context.Context, args CallArgs, blockNrOrHash *rpc.BlockNumberOrHash) (hexutil.Bytes, error) {
	msg, err := args.ToMessage()
	if err != nil {
		return nil, err
	}
	num, err := api.blockArg(blockNrOrHash)
	if err != nil {
		return nil, err
	}
	return api.b.CallContract(ctx, msg, num)
}

func (api *EthAPI) EstimateGas(ctx context.Context, args CallArgs, blockNrOrHash *rpc.BlockNumberOrHash) (hexutil.Uint64, error) {
	msg, err := args.ToMessage()
	if err != nil {
		return 0, err
	}
	if _, err := api.blockArg(blockNrOrHash); err != nil {
		return 0, err
	}
	gas, err := api.b.EstimateGas(ctx, msg)
	return hexutil.Uint64(gas), err
}

// GetTransactionReceipt returns nil (JSON null) for unknown transactions.
func (api *EthAPI) GetTransactionReceipt(ctx context.Context, hash common.Hash) (*types.Receipt, error) {
	rec, err := api.b.TransactionReceipt(ctx, hash)
	if errors.Is(err, ethereum.NotFound) {
		return nil, nil
	}
	return rec, err
}

// GetTransactionByHash returns nil (JSON null) for unknown transactions.
// Transactions are always mined, so the inclusion fields are always set.
func (api *EthAPI) GetTransactionByHash(ctx context.Context, hash common.Hash) (json.RawMessage, error) {
	tx, _, err := api.b.TransactionByHash(ctx, hash)
	if errors.Is(err, ethereum.NotFound) {
		return nil, nil
	} else if err != nil {
		return nil, err
	}
	rec, err := api.b.TransactionReceipt(ctx, hash)
	if err != nil {
		return nil, fmt.Errorf("missing receipt of transaction %s: %w", hash, err)
	}
	chainID, err := api.b.ChainID(ctx)
	if err != nil {
		return nil, err
	}
	from, err := types.Sender(types.LatestSignerForChainID(chainID), tx)
	if err != nil {
		return nil, err
	}
	txJSON, err := tx.MarshalJSON()
	if err != nil {
		return nil, err
	}
	return jsonutil.Overlay(txJSON, map[string]any{
		"blockHash":        rec.BlockHash,
		"blockNumber":      (*hexutil.Big)(rec.BlockNumber),
		"transactionIndex": hexutil.Uint64(rec.TransactionIndex),
		"from":             from,
	})
}

// API returns the RPC registration of the eth namespace.
func (api *EthAPI) API() rpc.API {
	return rpc.API{
		Namespace: "eth",
		Service:   api,
	}
}

package ledger

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/log"

	"github.com/mantlenetworkio/faucet-devnet/op-service/eth"
)

var (
	ErrAlreadyKnown  = errors.New("already known")
	ErrUnprotectedTx = errors.New("only replay-protected (EIP-155) transactions allowed")
	ErrInvalidAmount = errors.New("amount must be a non-negative 256 bit value")
)

// TxHook observes every submitted transaction, after it was mined or rejected.
// The receipt is nil if the transaction was rejected.
// Hooks are called one at a time, and should return quickly:
// the next transaction cannot be submitted until they do.
type TxHook func(tx *types.Transaction, from common.Address, receipt *types.Receipt, err error)

type Option func(l *Ledger)

func WithTxHook(hook TxHook) Option {
	return func(l *Ledger) {
		l.hooks = append(l.hooks, hook)
	}
}

func WithClock(now func() time.Time) Option {
	return func(l *Ledger) {
		l.now = now
	}
}

type block struct {
	number uint64
	hash   common.Hash
	parent common.Hash
	time   uint64
	txHash common.Hash
}

// Ledger is an in-memory chain that executes native contracts.
// Transactions are applied one at a time, in the order they are received,
// and every transaction is mined into its own block.
type Ledger struct {
	log log.Logger

	chainID  *big.Int
	signer   types.Signer
	gasLimit uint64
	baseFee  eth.ETH

	mu       sync.RWMutex
	st       *state
	natives  *registry
	blocks   []*block
	txs      map[common.Hash]*types.Transaction
	receipts map[common.Hash]*types.Receipt

	hooksMu sync.Mutex
	hooks   []TxHook
	now     func() time.Time
}

func New(cfg *Config, logger log.Logger, opts ...Option) (*Ledger, error) {
	if err := cfg.Check(); err != nil {
		return nil, fmt.Errorf("invalid ledger config: %w", err)
	}
	l := &Ledger{
		log:      logger,
		chainID:  new(big.Int).Set(cfg.ChainID),
		signer:   types.LatestSignerForChainID(cfg.ChainID),
		gasLimit: cfg.GasLimit,
		baseFee:  cfg.BaseFee,
		st:       newState(),
		natives:  newRegistry(),
		txs:      make(map[common.Hash]*types.Transaction),
		receipts: make(map[common.Hash]*types.Receipt),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	for addr, bal := range cfg.Alloc {
		if err := l.st.credit(addr, bal); err != nil {
			return nil, fmt.Errorf("failed to allocate %s to %s: %w", bal, addr, err)
		}
	}
	l.st.commit()
	genesis := &block{
		number: 0,
		time:   uint64(l.now().Unix()),
	}
	genesis.hash = crypto.Keccak256Hash([]byte("genesis"), cfg.ChainID.Bytes())
	l.blocks = append(l.blocks, genesis)
	l.log.Info("Created ledger", "chainID", l.chainID, "accounts", len(cfg.Alloc), "gasLimit", l.gasLimit, "baseFee", l.baseFee)
	return l, nil
}

// Register makes a native contract deployable, identified by its runtime code.
func (l *Ledger) Register(code []byte, impl NativeContract) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.natives.register(code, impl)
}

func (l *Ledger) ChainID(ctx context.Context) (*big.Int, error) {
	return new(big.Int).Set(l.chainID), nil
}

func (l *Ledger) BlockNumber(ctx context.Context) (uint64, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.head().number, nil
}

func (l *Ledger) head() *block {
	return l.blocks[len(l.blocks)-1]
}

// checkLatest accepts nil (latest), a block-tag (negative numbers), or the current block number.
func (l *Ledger) checkLatest(blockNumber *big.Int) error {
	if blockNumber == nil || blockNumber.Sign() < 0 {
		return nil
	}
	if !blockNumber.IsUint64() || blockNumber.Uint64() != l.head().number {
		return fmt.Errorf("%w: requested block %s, head is %d", ErrHistoricState, blockNumber, l.head().number)
	}
	return nil
}

// HeadHash returns the hash of the latest block.
func (l *Ledger) HeadHash() common.Hash {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.head().hash
}

func (l *Ledger) BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if err := l.checkLatest(blockNumber); err != nil {
		return nil, err
	}
	return l.st.balance(account).ToBig(), nil
}

func (l *Ledger) CodeAt(ctx context.Context, account common.Address, blockNumber *big.Int) ([]byte, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if err := l.checkLatest(blockNumber); err != nil {
		return nil, err
	}
	return common.CopyBytes(l.st.code(account)), nil
}

func (l *Ledger) StorageAt(ctx context.Context, account common.Address, key common.Hash, blockNumber *big.Int) ([]byte, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if err := l.checkLatest(blockNumber); err != nil {
		return nil, err
	}
	v := l.st.storage(account, key)
	return v.Bytes(), nil
}

func (l *Ledger) NonceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (uint64, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if err := l.checkLatest(blockNumber); err != nil {
		return 0, err
	}
	return l.st.nonce(account), nil
}

// PendingNonceAt equals the latest nonce, since there is no pending state.
func (l *Ledger) PendingNonceAt(ctx context.Context, account common.Address) (uint64, error) {
	return l.NonceAt(ctx, account, nil)
}

func (l *Ledger) SuggestGasPrice(ctx context.Context) (*big.Int, error) {
	return l.baseFee.ToBig(), nil
}

func (l *Ledger) TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	rec, ok := l.receipts[txHash]
	if !ok {
		return nil, ethereum.NotFound
	}
	cpy := *rec
	return &cpy, nil
}

func (l *Ledger) TransactionByHash(ctx context.Context, txHash common.Hash) (tx *types.Transaction, isPending bool, err error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	tx, ok := l.txs[txHash]
	if !ok {
		return nil, false, ethereum.NotFound
	}
	return tx, false, nil
}

// SendTransaction validates, executes and mines the signed transaction.
// A transaction that fails to execute is rejected as a whole:
// nothing is mined and the sender is not charged.
// Tx hooks see transactions in the order they were processed.
// They run after the state is unlocked, so they may read the (latest) state.
func (l *Ledger) SendTransaction(ctx context.Context, tx *types.Transaction) error {
	// hooksMu is always taken before mu, and held until the hooks returned.
	l.hooksMu.Lock()
	defer l.hooksMu.Unlock()
	l.mu.Lock()
	from, rec, err := l.sendTransaction(tx)
	l.mu.Unlock()
	l.notify(tx, from, rec, err)
	return err
}

// sendTransaction must be called with the write lock held.
func (l *Ledger) sendTransaction(tx *types.Transaction) (common.Address, *types.Receipt, error) {
	from, err := l.validateTx(tx)
	if err != nil {
		return from, nil, err
	}
	value, err := toETH(tx.Value())
	if err != nil {
		return from, nil, err
	}
	msg := &message{
		from:     from,
		to:       tx.To(),
		value:    value,
		gasLimit: tx.Gas(),
		gasPrice: l.effectiveGasPrice(tx),
		data:     tx.Data(),
	}

	snap := l.st.snapshot()
	res, err := applyMessage(l.natives, l.st, msg)
	if err != nil {
		l.st.revertTo(snap)
		if isExecutionFailure(err) {
			l.log.Debug("Transaction failed to execute", "hash", tx.Hash(), "from", from, "err", err)
		}
		return from, nil, err
	}
	l.st.commit()

	rec := l.mine(tx, msg, res)
	l.log.Debug("Mined transaction", "hash", tx.Hash(), "from", from, "block", rec.BlockNumber, "gasUsed", rec.GasUsed)
	return from, rec, nil
}

func (l *Ledger) notify(tx *types.Transaction, from common.Address, rec *types.Receipt, err error) {
	for _, h := range l.hooks {
		h(tx, from, rec, err)
	}
}

func (l *Ledger) validateTx(tx *types.Transaction) (common.Address, error) {
	if _, ok := l.txs[tx.Hash()]; ok {
		return common.Address{}, ErrAlreadyKnown
	}
	switch tx.Type() {
	case types.LegacyTxType, types.AccessListTxType, types.DynamicFeeTxType:
	default:
		return common.Address{}, types.ErrTxTypeNotSupported
	}
	if !tx.Protected() {
		return common.Address{}, ErrUnprotectedTx
	}
	if tx.ChainId().Cmp(l.chainID) != 0 {
		return common.Address{}, fmt.Errorf("%w: have %s want %s", types.ErrInvalidChainId, tx.ChainId(), l.chainID)
	}
	from, err := types.Sender(l.signer, tx)
	if err != nil {
		return common.Address{}, fmt.Errorf("invalid sender: %w", err)
	}
	if tx.Gas() > l.gasLimit {
		return from, fmt.Errorf("%w: tx gas %d, block gas limit %d", ErrBlockGasLimit, tx.Gas(), l.gasLimit)
	}
	nonce := l.st.nonce(from)
	if tx.Nonce() < nonce {
		return from, fmt.Errorf("%w: address %s, tx: %d state: %d", core.ErrNonceTooLow, from, tx.Nonce(), nonce)
	}
	if tx.Nonce() > nonce {
		return from, fmt.Errorf("%w: address %s, tx: %d state: %d", core.ErrNonceTooHigh, from, tx.Nonce(), nonce)
	}
	if tx.GasTipCap().Cmp(tx.GasFeeCap()) > 0 {
		return from, fmt.Errorf("%w: address %s, tip %s, fee cap %s", core.ErrTipAboveFeeCap, from, tx.GasTipCap(), tx.GasFeeCap())
	}
	if tx.GasFeeCap().Cmp(l.baseFee.ToBig()) < 0 {
		return from, fmt.Errorf("%w: address %s, fee cap %s, base fee %s", core.ErrFeeCapTooLow, from, tx.GasFeeCap(), l.baseFee)
	}
	if bal := l.st.balance(from).ToBig(); bal.Cmp(tx.Cost()) < 0 {
		return from, fmt.Errorf("%w: address %s have %s want %s", core.ErrInsufficientFunds, from, bal, tx.Cost())
	}
	return from, nil
}

// effectiveGasPrice is min(feeCap, baseFee+tip). For legacy transactions this is the gas price.
func (l *Ledger) effectiveGasPrice(tx *types.Transaction) eth.ETH {
	price := new(big.Int).Add(l.baseFee.ToBig(), tx.GasTipCap())
	if price.Cmp(tx.GasFeeCap()) > 0 {
		price = tx.GasFeeCap()
	}
	return eth.WeiBig(price)
}

func (l *Ledger) mine(tx *types.Transaction, msg *message, res *execResult) *types.Receipt {
	parent := l.head()
	b := &block{
		number: parent.number + 1,
		parent: parent.hash,
		time:   max(uint64(l.now().Unix()), parent.time),
		txHash: tx.Hash(),
	}
	var num [8]byte
	binary.BigEndian.PutUint64(num[:], b.number)
	b.hash = crypto.Keccak256Hash(b.parent[:], num[:], b.txHash[:])
	l.blocks = append(l.blocks, b)

	rec := &types.Receipt{
		Type:              tx.Type(),
		Status:            types.ReceiptStatusSuccessful,
		CumulativeGasUsed: res.gasUsed,
		Logs:              []*types.Log{},
		TxHash:            tx.Hash(),
		GasUsed:           res.gasUsed,
		EffectiveGasPrice: msg.gasPrice.ToBig(),
		BlockHash:         b.hash,
		BlockNumber:       new(big.Int).SetUint64(b.number),
		TransactionIndex:  0,
	}
	if msg.to == nil {
		rec.ContractAddress = res.contractAddress
	}
	l.txs[tx.Hash()] = tx
	l.receipts[tx.Hash()] = rec
	return rec
}

// callMessage turns a call request into a message. Calls are never charged for gas.
func (l *Ledger) callMessage(call ethereum.CallMsg) (*message, error) {
	value := eth.ZeroWei
	if call.Value != nil {
		v, err := toETH(call.Value)
		if err != nil {
			return nil, err
		}
		value = v
	}
	gas := call.Gas
	if gas == 0 || gas > l.gasLimit {
		gas = l.gasLimit
	}
	return &message{
		from:     call.From,
		to:       call.To,
		value:    value,
		gasLimit: gas,
		gasPrice: eth.ZeroWei,
		data:     call.Data,
	}, nil
}

// dryRun applies the message and reverts all of its changes afterwards.
func (l *Ledger) dryRun(call ethereum.CallMsg) (*execResult, error) {
	msg, err := l.callMessage(call)
	if err != nil {
		return nil, err
	}
	snap := l.st.snapshot()
	defer l.st.revertTo(snap)
	return applyMessage(l.natives, l.st, msg)
}

// CallContract executes the call against the latest state, without persisting any changes.
func (l *Ledger) CallContract(ctx context.Context, call ethereum.CallMsg, blockNumber *big.Int) ([]byte, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.checkLatest(blockNumber); err != nil {
		return nil, err
	}
	res, err := l.dryRun(call)
	if err != nil {
		return nil, err
	}
	return res.ret, nil
}

// EstimateGas returns the exact gas the call would use if it were sent as a transaction now.
// Execution is deterministic, so no search over gas limits is needed.
func (l *Ledger) EstimateGas(ctx context.Context, call ethereum.CallMsg) (uint64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	res, err := l.dryRun(call)
	if err != nil {
		return 0, err
	}
	return res.gasUsed, nil
}

func toETH(v *big.Int) (eth.ETH, error) {
	if v == nil {
		return eth.ZeroWei, nil
	}
	if v.Sign() < 0 || v.BitLen() > 256 {
		return eth.ETH{}, fmt.Errorf("%w: %s", ErrInvalidAmount, v)
	}
	return eth.WeiBig(v), nil
}

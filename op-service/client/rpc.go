package client

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/rpc"
)

// RPC is the JSON-RPC client interface that typed clients, like the ones in op-service/sources, build on.
type RPC interface {
	Close()
	CallContext(ctx context.Context, result any, method string, args ...any) error
}

// BaseRPCClient wraps a go-ethereum rpc.Client.
// JSON-RPC error data is included in the error message, without hiding the original error.
type BaseRPCClient struct {
	c *rpc.Client
}

var _ RPC = (*BaseRPCClient)(nil)

func NewBaseRPCClient(c *rpc.Client) *BaseRPCClient {
	return &BaseRPCClient{c: c}
}

// DialRPCClientWithTimeout dials the given RPC endpoint, and fails if that takes longer than timeout.
func DialRPCClientWithTimeout(ctx context.Context, url string, timeout time.Duration) (*BaseRPCClient, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	c, err := rpc.DialContext(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to dial %s: %w", url, err)
	}
	return NewBaseRPCClient(c), nil
}

func (b *BaseRPCClient) Close() {
	b.c.Close()
}

func (b *BaseRPCClient) CallContext(ctx context.Context, result any, method string, args ...any) error {
	return wrapErrorData(b.c.CallContext(ctx, result, method, args...))
}

func wrapErrorData(err error) error {
	var dataErr rpc.DataError
	if err == nil || !errors.As(err, &dataErr) || dataErr.ErrorData() == nil {
		return err
	}
	return fmt.Errorf("%w: %v", err, dataErr.ErrorData())
}

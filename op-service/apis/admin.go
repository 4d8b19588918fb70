package apis

import (
	"context"
	"log/slog"

	"github.com/ethereum/go-ethereum/common"
)

type LogLevelClient interface {
	SetLogLevel(ctx context.Context, lvl slog.Level) error
}

type LogLevelServer interface {
	SetLogLevel(ctx context.Context, lvl string) error
}

// DevAccounts lists the funded dev accounts of the devnet, in derivation order.
type DevAccounts interface {
	Accounts(ctx context.Context) ([]common.Address, error)
}

type FaucetAdminClient interface {
	LogLevelClient
	DevAccounts
}

type FaucetAdminServer interface {
	LogLevelServer
	DevAccounts
}

package frontend

import (
	"context"
	"log/slog"

	"github.com/ethereum/go-ethereum/common"

	"github.com/mantlenetworkio/faucet-devnet/op-service/apis"
	oplog "github.com/mantlenetworkio/faucet-devnet/op-service/log"
)

type AdminBackend interface {
	Accounts() []common.Address
	SetLogLevel(lvl slog.Level) error
}

type AdminFrontend struct {
	b AdminBackend
}

var _ apis.FaucetAdminServer = (*AdminFrontend)(nil)

func NewAdminFrontend(b AdminBackend) *AdminFrontend {
	return &AdminFrontend{b: b}
}

func (a *AdminFrontend) Accounts(ctx context.Context) ([]common.Address, error) {
	return a.b.Accounts(), nil
}

func (a *AdminFrontend) SetLogLevel(ctx context.Context, lvl string) error {
	v, err := oplog.LevelFromString(lvl)
	if err != nil {
		return err
	}
	return a.b.SetLogLevel(v)
}

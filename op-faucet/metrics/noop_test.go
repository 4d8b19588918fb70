package metrics

import (
	"errors"
	"testing"

	"github.com/mantlenetworkio/faucet-devnet/op-service/eth"
)

func TestNoopMetrics(t *testing.T) {
	m := &NoopMetrics{}
	m.RecordInfo("1234")
	m.RecordUp()
	m.RecordTx("withdraw", 30_000, nil)
	m.RecordTx("withdraw", 0, errors.New("test err"))
	m.RecordWithdrawal(eth.OneTenthEther)
	m.RecordFaucetBalance(eth.FiveEther)
	m.RecordHead(3)
}

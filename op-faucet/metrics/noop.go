package metrics

import (
	"github.com/mantlenetworkio/faucet-devnet/op-service/eth"
)

type NoopMetrics struct{}

func (n NoopMetrics) RecordInfo(version string) {}

func (n NoopMetrics) RecordUp() {}

func (n NoopMetrics) RecordTx(method string, gasUsed uint64, err error) {}

func (n NoopMetrics) RecordWithdrawal(amount eth.ETH) {}

func (n NoopMetrics) RecordFaucetBalance(balance eth.ETH) {}

func (n NoopMetrics) RecordHead(number uint64) {}

var _ Metricer = NoopMetrics{}

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/mantlenetworkio/faucet-devnet/op-service/eth"
	opmetrics "github.com/mantlenetworkio/faucet-devnet/op-service/metrics"
)

const Namespace = "op_faucet"

type Metricer interface {
	RecordInfo(version string)
	RecordUp()

	// RecordTx records a transaction to the faucet contract, by method name.
	// A nil error means the transaction was mined.
	RecordTx(method string, gasUsed uint64, err error)
	RecordWithdrawal(amount eth.ETH)
	RecordFaucetBalance(balance eth.ETH)
	RecordHead(number uint64)
}

type Metrics struct {
	ns       string
	registry *prometheus.Registry
	factory  opmetrics.Factory

	txs         *prometheus.CounterVec
	txGas       *prometheus.HistogramVec
	withdrawn   prometheus.Counter
	withdrawals prometheus.Counter
	balance     prometheus.Gauge
	head        prometheus.Gauge

	info prometheus.GaugeVec
	up   prometheus.Gauge
}

var _ Metricer = (*Metrics)(nil)
var _ opmetrics.RegistryMetricer = (*Metrics)(nil)

func NewMetrics(procName string) *Metrics {
	return newMetrics(procName, opmetrics.NewRegistry())
}

func newMetrics(procName string, registry *prometheus.Registry) *Metrics {
	if procName == "" {
		procName = "default"
	}
	ns := Namespace + "_" + procName

	factory := opmetrics.With(registry)
	return &Metrics{
		ns:       ns,
		registry: registry,
		factory:  factory,

		info: *factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: ns,
			Name:      "info",
			Help:      "Pseudo-metric tracking version and config info",
		}, []string{
			"version",
		}),
		up: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: ns,
			Name:      "up",
			Help:      "1 if op-faucet has finished starting up",
		}),

		txs: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "txs_total",
			Help:      "Count of faucet contract transactions, by method and result",
		}, []string{"method", "result"}),
		txGas: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: ns,
			Name:      "tx_gas_used",
			Buckets:   []float64{21_000, 25_000, 30_000, 40_000, 60_000, 100_000, 200_000},
			Help:      "Gas used by mined faucet contract transactions",
		}, []string{"method"}),
		withdrawn: factory.NewCounter(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "withdrawn_eth_total",
			Help:      "Total ETH paid out by withdraw and withdrawAll calls, in wei",
		}),
		withdrawals: factory.NewCounter(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "withdrawals_total",
			Help:      "Count of successful withdraw and withdrawAll calls",
		}),
		balance: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: ns,
			Name:      "balance_wei",
			Help:      "Balance of the faucet contract, in wei",
		}),
		head: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: ns,
			Name:      "head_block",
			Help:      "Latest block number of the ledger",
		}),
	}
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) Document() []opmetrics.DocumentedMetric {
	return m.factory.Document()
}

// RecordInfo sets a pseudo-metric that contains versioning and config info.
func (m *Metrics) RecordInfo(version string) {
	m.info.WithLabelValues(version).Set(1)
}

// RecordUp sets the up metric to 1.
func (m *Metrics) RecordUp() {
	m.up.Set(1)
}

func (m *Metrics) RecordTx(method string, gasUsed uint64, err error) {
	result := "success"
	if err != nil {
		result = "failed"
	}
	m.txs.WithLabelValues(method, result).Inc()
	if err == nil {
		m.txGas.WithLabelValues(method).Observe(float64(gasUsed))
	}
}

func (m *Metrics) RecordWithdrawal(amount eth.ETH) {
	m.withdrawals.Inc()
	m.withdrawn.Add(amount.WeiFloat())
}

func (m *Metrics) RecordFaucetBalance(balance eth.ETH) {
	m.balance.Set(balance.WeiFloat())
}

func (m *Metrics) RecordHead(number uint64) {
	m.head.Set(float64(number))
}

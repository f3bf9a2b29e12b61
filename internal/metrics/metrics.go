package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// OperationsTotal tracks executed operations by kind and result
	OperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tokenctl_operations_total",
			Help: "Total number of operations executed",
		},
		[]string{"kind", "result"},
	)

	// OperationDuration tracks end-to-end operation latency
	OperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tokenctl_operation_duration_seconds",
			Help:    "Operation duration from validate to record",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"kind"},
	)

	// RPCCallsTotal tracks JSON-RPC calls by method and result
	RPCCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tokenctl_rpc_calls_total",
			Help: "Total number of JSON-RPC calls",
		},
		[]string{"method", "result"},
	)

	// PricePollsTotal tracks price poll attempts by source and result
	PricePollsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tokenctl_price_polls_total",
			Help: "Total number of price poll attempts",
		},
		[]string{"source", "result"},
	)

	// BalanceRefreshTotal tracks balance refreshes by result
	BalanceRefreshTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tokenctl_balance_refresh_total",
			Help: "Total number of balance refreshes",
		},
		[]string{"result"},
	)

	// HistorySize tracks the current history log length
	HistorySize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "tokenctl_history_records",
			Help: "Number of records in the history log",
		},
	)
)

package bridge

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	OperationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "bridge",
		Subsystem: "ledger",
		Name:      "operations_total",
		Help:      "Number of ledger operations by outcome.",
	}, []string{"ledger", "operation", "result"})
	OperationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "bridge",
		Subsystem: "ledger",
		Name:      "operation_duration_seconds",
		Help:      "Duration of ledger operations, including the store transaction and forwarded calls.",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
	}, []string{"ledger", "operation"})
	ThresholdsReached = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "bridge",
		Subsystem: "ledger",
		Name:      "thresholds_reached_total",
		Help:      "Number of messages that collected enough confirmations or signatures.",
	}, []string{"ledger", "operation"})
	ProxiesCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "bridge",
		Subsystem: "ledger",
		Name:      "proxies_created_total",
		Help:      "Number of identity proxies created for message senders.",
	}, []string{"ledger"})
)

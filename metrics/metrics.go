package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "microtask",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total HTTP requests processed",
	}, []string{"method", "route", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "microtask",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request duration in seconds",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})

	ActiveRequests = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "microtask",
		Subsystem: "http",
		Name:      "active_requests",
		Help:      "Currently active HTTP requests",
	})

	// LedgerOperationsTotal counts service mutations by operation and outcome.
	LedgerOperationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "microtask",
		Subsystem: "ledger",
		Name:      "operations_total",
		Help:      "Ledger operations by name and result",
	}, []string{"operation", "result"})

	// CoinsMovedTotal sums coins credited or debited by transaction type.
	CoinsMovedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "microtask",
		Subsystem: "ledger",
		Name:      "coins_moved_total",
		Help:      "Coins moved through user balances",
	}, []string{"flow", "type"})

	NotificationsPrunedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "microtask",
		Subsystem: "notifications",
		Name:      "pruned_total",
		Help:      "Read notifications removed by the retention job",
	})
)

// ObserveOperation records the outcome of a ledger operation.
func ObserveOperation(operation string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	LedgerOperationsTotal.WithLabelValues(operation, result).Inc()
}

package observability

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// LedgerMetrics records transaction processor activity. Amounts are encrypted
// end to end, so the metrics surface carries only operation names, outcomes
// and latencies — never values.
type LedgerMetrics struct {
	transactions *prometheus.CounterVec
	latency      *prometheus.HistogramVec
}

var (
	ledgerMetricsOnce sync.Once
	ledgerRegistry    *LedgerMetrics
)

// Ledger returns the lazily-initialised ledger metrics registry.
func Ledger() *LedgerMetrics {
	ledgerMetricsOnce.Do(func() {
		ledgerRegistry = &LedgerMetrics{
			transactions: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "lumina",
				Subsystem: "ledger",
				Name:      "transactions_total",
				Help:      "Total ledger transactions segmented by operation and outcome.",
			}, []string{"op", "outcome"}),
			latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
				Namespace: "lumina",
				Subsystem: "ledger",
				Name:      "transaction_duration_seconds",
				Help:      "Latency distribution for ledger transactions.",
				Buckets:   prometheus.DefBuckets,
			}, []string{"op"}),
		}
		prometheus.MustRegister(ledgerRegistry.transactions, ledgerRegistry.latency)
	})
	return ledgerRegistry
}

// Observe records one processed transaction.
func (m *LedgerMetrics) Observe(op, outcome string, duration time.Duration) {
	if m == nil {
		return
	}
	m.transactions.WithLabelValues(op, outcome).Inc()
	m.latency.WithLabelValues(op).Observe(duration.Seconds())
}

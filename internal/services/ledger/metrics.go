package ledger

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsCollector defines the interface for collecting ledger metrics
type MetricsCollector interface {
	RecordTransaction(txType string, amount float64)
	RecordError(operation, errType string)
	RecordDegradedRead(operation string)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector
type NoopMetricsCollector struct{}

func (n *NoopMetricsCollector) RecordTransaction(string, float64) {}
func (n *NoopMetricsCollector) RecordError(string, string)        {}
func (n *NoopMetricsCollector) RecordDegradedRead(string)         {}

// PrometheusCollector exports ledger metrics to a Prometheus registry.
type PrometheusCollector struct {
	transactions  *prometheus.CounterVec
	volume        *prometheus.CounterVec
	errors        *prometheus.CounterVec
	degradedReads *prometheus.CounterVec
}

// NewPrometheusCollector registers the ledger metrics with reg.
// Passing nil registers against the default registry.
func NewPrometheusCollector(reg prometheus.Registerer) *PrometheusCollector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &PrometheusCollector{
		transactions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "giftwise_ledger_transactions_total",
			Help: "Ledger transactions recorded, by type.",
		}, []string{"type"}),
		volume: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "giftwise_ledger_volume_total",
			Help: "Total transacted volume in currency units, by type.",
		}, []string{"type"}),
		errors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "giftwise_ledger_errors_total",
			Help: "Ledger operation errors, by operation and error type.",
		}, []string{"operation", "error"}),
		degradedReads: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "giftwise_ledger_degraded_reads_total",
			Help: "Balance reads that fell back to zero because the store was unreadable.",
		}, []string{"operation"}),
	}
}

func (c *PrometheusCollector) RecordTransaction(txType string, amount float64) {
	c.transactions.WithLabelValues(txType).Inc()
	c.volume.WithLabelValues(txType).Add(amount)
}

func (c *PrometheusCollector) RecordError(operation, errType string) {
	c.errors.WithLabelValues(operation, errType).Inc()
}

func (c *PrometheusCollector) RecordDegradedRead(operation string) {
	c.degradedReads.WithLabelValues(operation).Inc()
}

package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type LedgerMetrics struct {
	transitions   *prometheus.CounterVec
	rejections    *prometheus.CounterVec
	volume        *prometheus.CounterVec
	compensations prometheus.Counter
	duration      *prometheus.HistogramVec
}

var (
	ledgerOnce     sync.Once
	ledgerRegistry *LedgerMetrics
)

// Ledger returns the process-wide lending metrics registered on the default registry.
func Ledger() *LedgerMetrics {
	ledgerOnce.Do(func() {
		ledgerRegistry = newLedgerMetrics()
		prometheus.MustRegister(ledgerRegistry.collectors()...)
	})
	return ledgerRegistry
}

// NewUnregistered builds a metrics set on reg; tests pass a fresh registry.
func NewUnregistered(reg prometheus.Registerer) *LedgerMetrics {
	m := newLedgerMetrics()
	if reg != nil {
		reg.MustRegister(m.collectors()...)
	}
	return m
}

func newLedgerMetrics() *LedgerMetrics {
	return &LedgerMetrics{
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ledger_loan_transitions_total",
			Help: "Count of successful loan lifecycle operations by operation.",
		}, []string{"op"}),
		rejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ledger_loan_rejections_total",
			Help: "Count of rejected loan lifecycle operations by operation and error kind.",
		}, []string{"op", "kind"}),
		volume: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ledger_transfer_volume_total",
			Help: "Native currency moved by the lending engine, smallest unit.",
		}, []string{"direction"}),
		compensations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ledger_transfer_compensations_total",
			Help: "Reverse transfers issued after a unit of work failed to commit.",
		}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "ledger_operation_duration_seconds",
			Help:    "Latency of loan lifecycle operations.",
			Buckets: prometheus.DefBuckets,
		}, []string{"op"}),
	}
}

func (m *LedgerMetrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{m.transitions, m.rejections, m.volume, m.compensations, m.duration}
}

func (m *LedgerMetrics) ObserveTransition(op string) {
	if m == nil {
		return
	}
	m.transitions.WithLabelValues(op).Inc()
}

func (m *LedgerMetrics) ObserveRejection(op, kind string) {
	if m == nil {
		return
	}
	if kind == "" {
		kind = "unknown"
	}
	m.rejections.WithLabelValues(op, kind).Inc()
}

// ObserveVolume records amount moved; direction is "fund" or "repay".
func (m *LedgerMetrics) ObserveVolume(direction string, amount uint64) {
	if m == nil {
		return
	}
	m.volume.WithLabelValues(direction).Add(float64(amount))
}

func (m *LedgerMetrics) ObserveCompensation() {
	if m == nil {
		return
	}
	m.compensations.Inc()
}

func (m *LedgerMetrics) ObserveDuration(op string, started time.Time) {
	if m == nil {
		return
	}
	m.duration.WithLabelValues(op).Observe(time.Since(started).Seconds())
}

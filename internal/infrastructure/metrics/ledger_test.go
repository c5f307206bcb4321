package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestLedgerMetrics_Counters(t *testing.T) {
	m := NewUnregistered(prometheus.NewRegistry())

	m.ObserveTransition("fund")
	m.ObserveTransition("fund")
	m.ObserveRejection("repay", "authorization")
	m.ObserveRejection("repay", "")
	m.ObserveVolume("repay", 1300)
	m.ObserveCompensation()
	m.ObserveDuration("fund", time.Now())

	require.Equal(t, 2.0, testutil.ToFloat64(m.transitions.WithLabelValues("fund")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.rejections.WithLabelValues("repay", "authorization")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.rejections.WithLabelValues("repay", "unknown")))
	require.Equal(t, 1300.0, testutil.ToFloat64(m.volume.WithLabelValues("repay")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.compensations))
}

func TestLedgerMetrics_NilSafe(t *testing.T) {
	var m *LedgerMetrics
	require.NotPanics(t, func() {
		m.ObserveTransition("request")
		m.ObserveRejection("request", "validation")
		m.ObserveVolume("fund", 1)
		m.ObserveCompensation()
		m.ObserveDuration("request", time.Now())
	})
}

func TestLedger_Singleton(t *testing.T) {
	require.Same(t, Ledger(), Ledger())
}

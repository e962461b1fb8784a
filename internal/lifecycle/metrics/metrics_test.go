package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics(t *testing.T) {
	m := NewWith(prometheus.NewRegistry())

	m.IncrementTransition("screening", "registered", "success")
	m.IncrementGuardRejection("training")
	m.IncrementCapacityExceeded()
	m.ObserveTransitionLatency(time.Now())
	m.ObserveRelayed(3)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Transitions.WithLabelValues("screening", "registered", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.GuardRejections.WithLabelValues("training")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CapacityExceeded))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.OutboxRelayed))
}

func TestNilMetricsAreSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.IncrementTransition("a", "b", "success")
		m.ObserveTransitionLatency(time.Now())
		m.IncRelayFailures()
	})
}

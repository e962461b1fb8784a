package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the lifecycle module and the outbox relay.
type Metrics struct {
	// Transition attempts by edge and outcome (success, rejected, error)
	Transitions *prometheus.CounterVec

	// Individual guard issues by target status
	GuardRejections *prometheus.CounterVec

	CapacityExceeded  prometheus.Counter
	TransitionLatency prometheus.Histogram

	BulkAssignments   *prometheus.CounterVec
	ScreeningCascades *prometheus.CounterVec

	OutboxRelayed       prometheus.Counter
	OutboxRelayFailures prometheus.Counter
}

// New registers on the default registry.
func New() *Metrics {
	return NewWith(prometheus.DefaultRegisterer)
}

// NewWith registers on reg so tests can use a private registry.
func NewWith(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Transitions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "wasl_lifecycle_transitions_total",
			Help: "Lifecycle transition attempts by edge and outcome",
		}, []string{"from", "to", "outcome"}),

		GuardRejections: f.NewCounterVec(prometheus.CounterOpts{
			Name: "wasl_lifecycle_guard_rejections_total",
			Help: "Transitions refused by a guard, by target status",
		}, []string{"to"}),

		CapacityExceeded: f.NewCounter(prometheus.CounterOpts{
			Name: "wasl_batch_capacity_exceeded_total",
			Help: "Enrollment attempts refused because the batch was full",
		}),

		TransitionLatency: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "wasl_lifecycle_transition_duration_seconds",
			Help:    "Duration of a transition including lock, guard and commit",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}),

		BulkAssignments: f.NewCounterVec(prometheus.CounterOpts{
			Name: "wasl_batch_bulk_assignments_total",
			Help: "Per-candidate results of bulk batch assignment",
		}, []string{"outcome"}),

		ScreeningCascades: f.NewCounterVec(prometheus.CounterOpts{
			Name: "wasl_screening_cascades_total",
			Help: "Automatic lifecycle moves triggered by screening results",
		}, []string{"signal"}),

		OutboxRelayed: f.NewCounter(prometheus.CounterOpts{
			Name: "wasl_outbox_relayed_total",
			Help: "Outbox entries published to Kafka",
		}),

		OutboxRelayFailures: f.NewCounter(prometheus.CounterOpts{
			Name: "wasl_outbox_relay_failures_total",
			Help: "Failed outbox relay batches",
		}),
	}
}

func (m *Metrics) IncrementTransition(from, to, outcome string) {
	if m != nil {
		m.Transitions.WithLabelValues(from, to, outcome).Inc()
	}
}

func (m *Metrics) IncrementGuardRejection(to string) {
	if m != nil {
		m.GuardRejections.WithLabelValues(to).Inc()
	}
}

func (m *Metrics) IncrementCapacityExceeded() {
	if m != nil {
		m.CapacityExceeded.Inc()
	}
}

// ObserveTransitionLatency records time since start.
func (m *Metrics) ObserveTransitionLatency(start time.Time) {
	if m != nil {
		m.TransitionLatency.Observe(time.Since(start).Seconds())
	}
}

func (m *Metrics) IncrementBulkAssignment(outcome string) {
	if m != nil {
		m.BulkAssignments.WithLabelValues(outcome).Inc()
	}
}

func (m *Metrics) IncrementScreeningCascade(signal string) {
	if m != nil {
		m.ScreeningCascades.WithLabelValues(signal).Inc()
	}
}

// ObserveRelayed satisfies the relay worker's metrics hook.
func (m *Metrics) ObserveRelayed(n int) {
	if m != nil {
		m.OutboxRelayed.Add(float64(n))
	}
}

func (m *Metrics) IncRelayFailures() {
	if m != nil {
		m.OutboxRelayFailures.Inc()
	}
}

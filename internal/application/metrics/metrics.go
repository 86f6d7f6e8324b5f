package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the application lifecycle.
type Metrics struct {
	ApplicationsStarted *prometheus.CounterVec
	EligibilityRejected *prometheus.CounterVec
	Transitions         *prometheus.CounterVec
	GuardRejections     *prometheus.CounterVec
	MembersMinted       *prometheus.CounterVec
	PaymentsSettled     prometheus.Counter
	TransitionDuration  prometheus.Histogram
}

// New creates a new Metrics instance with all application metrics registered.
func New() *Metrics {
	return &Metrics{
		ApplicationsStarted: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "agentreg_applications_started_total",
			Help: "Applications created in draft, by kind",
		}, []string{"kind"}),
		EligibilityRejected: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "agentreg_eligibility_rejected_total",
			Help: "Application starts refused by eligibility rules, by kind",
		}, []string{"kind"}),
		Transitions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "agentreg_status_transitions_total",
			Help: "Committed status transitions",
		}, []string{"from", "to"}),
		GuardRejections: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "agentreg_submission_guard_rejections_total",
			Help: "Submissions refused by the submission guard, by error code",
		}, []string{"code"}),
		MembersMinted: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "agentreg_member_numbers_minted_total",
			Help: "Member numbers issued on acceptance, by kind",
		}, []string{"kind"}),
		PaymentsSettled: promauto.NewCounter(prometheus.CounterOpts{
			Name: "agentreg_fee_settlements_total",
			Help: "Fee settlements recorded from gateway callbacks",
		}),
		TransitionDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "agentreg_transition_duration_seconds",
			Help:    "Duration of guarded status transitions including the storage round trip",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
	}
}

func (m *Metrics) IncrementStarted(kind string) {
	m.ApplicationsStarted.WithLabelValues(kind).Inc()
}

func (m *Metrics) IncrementEligibilityRejected(kind string) {
	m.EligibilityRejected.WithLabelValues(kind).Inc()
}

func (m *Metrics) IncrementTransition(from, to string) {
	m.Transitions.WithLabelValues(from, to).Inc()
}

func (m *Metrics) IncrementGuardRejection(code string) {
	m.GuardRejections.WithLabelValues(code).Inc()
}

func (m *Metrics) IncrementMemberMinted(kind string) {
	m.MembersMinted.WithLabelValues(kind).Inc()
}

func (m *Metrics) IncrementPaymentSettled() {
	m.PaymentsSettled.Inc()
}

// ObserveTransition records the duration of a transition.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveTransition(start time.Time) {
	m.TransitionDuration.Observe(time.Since(start).Seconds())
}

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics covers resume code issuance and verification.
type Metrics struct {
	CodesIssued   prometheus.Counter
	Verifications *prometheus.CounterVec
}

func New() *Metrics {
	return &Metrics{
		CodesIssued: promauto.NewCounter(prometheus.CounterOpts{
			Name: "agentreg_resume_codes_issued_total",
			Help: "One-time resume codes generated",
		}),
		Verifications: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "agentreg_resume_verifications_total",
			Help: "Resume code verification attempts, by outcome",
		}, []string{"outcome"}),
	}
}

func (m *Metrics) IncrementIssued() {
	m.CodesIssued.Inc()
}

func (m *Metrics) IncrementVerification(outcome string) {
	m.Verifications.WithLabelValues(outcome).Inc()
}

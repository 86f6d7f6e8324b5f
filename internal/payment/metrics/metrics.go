package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics covers online fee payments.
type Metrics struct {
	Initiations *prometheus.CounterVec
	Callbacks   *prometheus.CounterVec
}

func New() *Metrics {
	return &Metrics{
		Initiations: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "agentreg_payment_initiations_total",
			Help: "Hosted payment initiations, by outcome",
		}, []string{"outcome"}),
		Callbacks: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "agentreg_payment_callbacks_total",
			Help: "Gateway status callbacks, by gateway status or rejection",
		}, []string{"status"}),
	}
}

func (m *Metrics) IncrementInitiation(outcome string) {
	m.Initiations.WithLabelValues(outcome).Inc()
}

func (m *Metrics) IncrementCallback(status string) {
	m.Callbacks.WithLabelValues(status).Inc()
}

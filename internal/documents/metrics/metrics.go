package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for document uploads and review.
type Metrics struct {
	Uploads            *prometheus.CounterVec
	ValidationFailures *prometheus.CounterVec
	DuplicateUploads   prometheus.Counter
	Reviews            *prometheus.CounterVec
	ValidationDuration prometheus.Histogram
}

// New creates a new Metrics instance with all document metrics registered.
func New() *Metrics {
	return &Metrics{
		Uploads: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "agentreg_documents_registered_total",
			Help: "Documents registered, by document type and whether an existing row was replaced",
		}, []string{"doc_type", "replaced"}),
		ValidationFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "agentreg_document_validation_failures_total",
			Help: "Uploads rejected by integrity validation, by document type",
		}, []string{"doc_type"}),
		DuplicateUploads: promauto.NewCounter(prometheus.CounterOpts{
			Name: "agentreg_document_duplicates_total",
			Help: "Uploads rejected because identical content is already registered",
		}),
		Reviews: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "agentreg_document_reviews_total",
			Help: "Staff document reviews, by outcome",
		}, []string{"status"}),
		ValidationDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "agentreg_document_validation_duration_seconds",
			Help:    "Time to fetch and validate one upload",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}),
	}
}

func (m *Metrics) IncrementUpload(docType string, replaced bool) {
	label := "false"
	if replaced {
		label = "true"
	}
	m.Uploads.WithLabelValues(docType, label).Inc()
}

func (m *Metrics) IncrementValidationFailure(docType string) {
	m.ValidationFailures.WithLabelValues(docType).Inc()
}

func (m *Metrics) IncrementDuplicate() {
	m.DuplicateUploads.Inc()
}

func (m *Metrics) IncrementReview(status string) {
	m.Reviews.WithLabelValues(status).Inc()
}

// ObserveValidation records the duration of a fetch-and-validate step.
func (m *Metrics) ObserveValidation(start time.Time) {
	m.ValidationDuration.Observe(time.Since(start).Seconds())
}

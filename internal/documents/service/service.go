// Package service registers uploaded documents: it fetches the bytes from
// blob storage, validates them, enforces content-hash uniqueness and feeds
// proof-of-payment uploads into the application fee.
package service

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	appmodels "agentreg/internal/application/models"
	docmetrics "agentreg/internal/documents/metrics"
	"agentreg/internal/documents/models"
	"agentreg/internal/documents/validator"
	id "agentreg/pkg/domain"
	"agentreg/pkg/requestcontext"
)

// Store persists document metadata. Save must enforce hash uniqueness itself
// and report a clash as sentinel.ErrAlreadyUsed.
type Store interface {
	Save(ctx context.Context, doc *models.Document) (*models.Document, error)
	FindByID(ctx context.Context, docID id.DocumentID) (*models.Document, error)
	FindByHash(ctx context.Context, hash string) (*models.Document, error)
	ListByApplication(ctx context.Context, appID id.ApplicationID) ([]*models.Document, error)
	Execute(ctx context.Context, docID id.DocumentID, fn func(d *models.Document) error) (*models.Document, error)
}

// BlobFetcher returns the bytes stored under a key.
type BlobFetcher interface {
	Fetch(ctx context.Context, key string) ([]byte, error)
}

// Applications is the part of the application service documents depend on.
type Applications interface {
	Get(ctx context.Context, appID id.ApplicationID) (*appmodels.Application, error)
	AttachFeeProof(ctx context.Context, appID id.ApplicationID, docID id.DocumentID) (*appmodels.Application, error)
	DetachFeeProof(ctx context.Context, appID id.ApplicationID, docID id.DocumentID) (*appmodels.Application, error)
}

const defaultBatchConcurrency = 4

// Service is the document registration service.
type Service struct {
	docs             Store
	blobs            BlobFetcher
	apps             Applications
	validator        *validator.Validator
	logger           *slog.Logger
	metrics          *docmetrics.Metrics
	tracer           trace.Tracer
	batchConcurrency int
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *docmetrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithValidator(v *validator.Validator) Option {
	return func(s *Service) {
		s.validator = v
	}
}

func WithTracer(t trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = t
	}
}

// WithBatchConcurrency bounds parallel validation in UploadBatch.
func WithBatchConcurrency(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.batchConcurrency = n
		}
	}
}

func New(docs Store, blobs BlobFetcher, apps Applications, opts ...Option) *Service {
	s := &Service{
		docs:             docs,
		blobs:            blobs,
		apps:             apps,
		batchConcurrency: defaultBatchConcurrency,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.validator == nil {
		s.validator = validator.New()
	}
	if s.tracer == nil {
		s.tracer = otel.Tracer("agentreg/documents")
	}
	return s
}

func (s *Service) logAudit(ctx context.Context, event string, attributes ...any) {
	if s.logger == nil {
		return
	}
	if requestID := requestcontext.RequestID(ctx); requestID != "" {
		attributes = append(attributes, "request_id", requestID)
	}
	args := append(attributes, "event", event, "log_type", "audit")
	s.logger.InfoContext(ctx, event, args...)
}

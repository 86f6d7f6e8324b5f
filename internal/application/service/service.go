// Package service orchestrates the application lifecycle: eligibility at
// start, guarded status transitions, registry decisions and fee posture.
package service

import (
	"context"
	"log/slog"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"agentreg/internal/application/eligibility"
	appmetrics "agentreg/internal/application/metrics"
	"agentreg/internal/application/models"
	docmodels "agentreg/internal/documents/models"
	"agentreg/internal/notification"
	id "agentreg/pkg/domain"
	"agentreg/pkg/requestcontext"
)

// Store persists applications. Execute serializes callers per application
// (row lock or mutex) and writes the mutated copy, its history and decision
// atomically, or nothing at all.
type Store interface {
	Create(ctx context.Context, app *models.Application, history models.StatusHistory) error
	FindByID(ctx context.Context, appID id.ApplicationID) (*models.Application, error)
	Execute(ctx context.Context, appID id.ApplicationID, fn models.MutateFunc) (*models.Application, error)
	ListHistory(ctx context.Context, appID id.ApplicationID) ([]models.StatusHistory, error)
	ListDecisions(ctx context.Context, appID id.ApplicationID) ([]models.RegistryDecision, error)
	FindAcceptedByMemberID(ctx context.Context, memberID id.MemberNumber) (*models.Application, error)
}

// DocumentLister reads the documents uploaded for an application.
type DocumentLister interface {
	ListByApplication(ctx context.Context, appID id.ApplicationID) ([]*docmodels.Document, error)
}

// NameGenerator issues series values.
type NameGenerator interface {
	NextApplicationID(ctx context.Context, kind id.ApplicationKind) (id.ApplicationID, error)
	NextMemberNumber(ctx context.Context, kind id.ApplicationKind) (id.MemberNumber, error)
}

// FeeSchedule is the statutory fee per application kind.
type FeeSchedule struct {
	Required     bool
	Individual   decimal.Decimal
	Organization decimal.Decimal
	Currency     string
}

// DefaultFees matches the published schedule.
func DefaultFees() FeeSchedule {
	return FeeSchedule{
		Required:     true,
		Individual:   decimal.RequireFromString("50.00"),
		Organization: decimal.RequireFromString("150.00"),
		Currency:     "USD",
	}
}

func (f FeeSchedule) feeFor(kind id.ApplicationKind) models.Fee {
	amount := f.Individual
	if kind == id.KindOrganization {
		amount = f.Organization
	}
	return models.NewFee(f.Required, amount, f.Currency)
}

// Service is the application lifecycle service.
type Service struct {
	apps      Store
	documents DocumentLister
	names     NameGenerator
	notifier  notification.Notifier
	logger    *slog.Logger
	metrics   *appmetrics.Metrics
	tracer    trace.Tracer
	rules     eligibility.Rules
	fees      FeeSchedule
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *appmetrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithNotifier sets the outbound mail channel. Callers should pass a
// notification.BestEffort so delivery failures never surface.
func WithNotifier(n notification.Notifier) Option {
	return func(s *Service) {
		s.notifier = n
	}
}

func WithTracer(t trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = t
	}
}

func WithRules(r eligibility.Rules) Option {
	return func(s *Service) {
		s.rules = r
	}
}

func WithFees(f FeeSchedule) Option {
	return func(s *Service) {
		s.fees = f
	}
}

func New(apps Store, documents DocumentLister, names NameGenerator, opts ...Option) *Service {
	s := &Service{
		apps:      apps,
		documents: documents,
		names:     names,
		rules:     eligibility.DefaultRules(),
		fees:      DefaultFees(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.tracer == nil {
		s.tracer = otel.Tracer("agentreg/application")
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

func (s *Service) notify(ctx context.Context, msg notification.Message) {
	if s.notifier == nil {
		return
	}
	_ = s.notifier.Send(ctx, msg)
}

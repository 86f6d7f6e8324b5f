// Package service starts hosted fee payments and applies gateway callbacks
// to the application's fee posture.
package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	appmodels "agentreg/internal/application/models"
	"agentreg/internal/payment/gateway"
	paymetrics "agentreg/internal/payment/metrics"
	"agentreg/internal/payment/models"
	id "agentreg/pkg/domain"
	dErrors "agentreg/pkg/domain-errors"
	"agentreg/pkg/platform/sentinel"
	"agentreg/pkg/requestcontext"
)

type Store interface {
	Create(ctx context.Context, p *models.Payment) error
	FindByReference(ctx context.Context, reference string) (*models.Payment, error)
	ListByApplication(ctx context.Context, appID id.ApplicationID) ([]*models.Payment, error)
	ApplyStatus(ctx context.Context, reference string, status models.Status, now time.Time) (*models.Payment, bool, error)
}

// Gateway is the hosted payment provider.
type Gateway interface {
	Initiate(ctx context.Context, req gateway.InitiateRequest) (*gateway.Initiation, error)
	ParseCallback(body []byte) (*gateway.Notification, error)
}

// Applications records the fee outcome on the application.
type Applications interface {
	Get(ctx context.Context, appID id.ApplicationID) (*appmodels.Application, error)
	RecordPaymentSettled(ctx context.Context, appID id.ApplicationID, reference string) (*appmodels.Application, bool, error)
	RecordPaymentFailed(ctx context.Context, appID id.ApplicationID, reference string) (*appmodels.Application, error)
}

type Service struct {
	payments Store
	gateway  Gateway
	apps     Applications
	logger   *slog.Logger
	metrics  *paymetrics.Metrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *paymetrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func New(payments Store, gw Gateway, apps Applications, opts ...Option) *Service {
	s := &Service{
		payments: payments,
		gateway:  gw,
		apps:     apps,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Checkout is a started payment and the page the applicant pays on.
type Checkout struct {
	Payment     *models.Payment
	RedirectURL string
}

// Initiate starts a hosted payment for the application's outstanding fee.
func (s *Service) Initiate(ctx context.Context, appID id.ApplicationID) (*Checkout, error) {
	app, err := s.apps.Get(ctx, appID)
	if err != nil {
		return nil, err
	}
	switch {
	case app.Status.IsTerminal():
		return nil, dErrors.New(dErrors.CodeInvalidState, "application is "+app.Status.String()+" and no longer accepts payment")
	case !app.Fee.Required:
		return nil, dErrors.New(dErrors.CodeInvalidState, "no fee is due for this application")
	case app.Fee.IsSettled():
		return nil, dErrors.New(dErrors.CodeInvalidState, "the application fee is already settled")
	}

	reference := newReference(appID)
	started, err := s.gateway.Initiate(ctx, gateway.InitiateRequest{
		Reference:   reference,
		Amount:      app.Fee.Amount,
		Description: "Estate agent registration fee " + appID.String(),
		Email:       app.ApplicantEmail,
	})
	if err != nil {
		s.countInitiation("gateway_error")
		if s.logger != nil {
			s.logger.WarnContext(ctx, "payment initiation failed",
				"application_id", appID.String(),
				"request_id", requestcontext.RequestID(ctx),
				"error", err,
			)
		}
		return nil, err
	}

	now := requestcontext.Now(ctx)
	payment := &models.Payment{
		Reference:     reference,
		ApplicationID: appID,
		Amount:        app.Fee.Amount,
		Currency:      app.Fee.Currency,
		Status:        models.StatusSent,
		PollURL:       started.PollURL,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.payments.Create(ctx, payment); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to record payment")
	}

	s.countInitiation("started")
	s.logAudit(ctx, "payment_initiated",
		"application_id", appID.String(),
		"reference", reference,
		"amount", payment.Amount.StringFixed(2),
		"currency", payment.Currency,
	)
	return &Checkout{Payment: payment, RedirectURL: started.RedirectURL}, nil
}

// HandleCallback verifies a gateway callback and applies it. Callbacks are
// delivered at least once; replays leave the application unchanged.
func (s *Service) HandleCallback(ctx context.Context, body []byte) (*models.Payment, error) {
	n, err := s.gateway.ParseCallback(body)
	if err != nil {
		s.countCallback("rejected")
		if s.logger != nil {
			s.logger.WarnContext(ctx, "payment callback rejected",
				"request_id", requestcontext.RequestID(ctx),
				"error", err,
			)
		}
		return nil, err
	}

	existing, err := s.payments.FindByReference(ctx, n.Reference)
	if err != nil {
		return nil, translateStoreErr(err, "payment")
	}
	if n.Status.IsSettled() && !n.Amount.Equal(existing.Amount) {
		s.countCallback("amount_mismatch")
		s.logAudit(ctx, "payment_amount_mismatch",
			"application_id", existing.ApplicationID.String(),
			"reference", n.Reference,
			"expected", existing.Amount.StringFixed(2),
			"received", n.Amount.StringFixed(2),
		)
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "paid amount does not match the fee")
	}

	payment, changed, err := s.payments.ApplyStatus(ctx, n.Reference, n.Status, requestcontext.Now(ctx))
	if err != nil {
		return nil, translateStoreErr(err, "payment")
	}
	if n.Status.IsKnown() {
		s.countCallback(string(n.Status))
	} else {
		s.countCallback("unknown")
	}
	s.logAudit(ctx, "payment_callback",
		"application_id", payment.ApplicationID.String(),
		"reference", n.Reference,
		"gateway_reference", n.GatewayReference,
		"gateway_status", string(n.Status),
		"changed", changed,
	)

	switch {
	case n.Status.IsSettled():
		// Always forwarded: the application write is idempotent and this
		// heals a crash between the two writes.
		if _, _, err := s.apps.RecordPaymentSettled(ctx, payment.ApplicationID, n.Reference); err != nil {
			return nil, err
		}
	case n.Status.IsFailed() && changed:
		if _, err := s.apps.RecordPaymentFailed(ctx, payment.ApplicationID, n.Reference); err != nil {
			return nil, err
		}
	}
	return payment, nil
}

// List returns the payment attempts for an application.
func (s *Service) List(ctx context.Context, appID id.ApplicationID) ([]*models.Payment, error) {
	if _, err := s.apps.Get(ctx, appID); err != nil {
		return nil, err
	}
	payments, err := s.payments.ListByApplication(ctx, appID)
	if err != nil {
		return nil, translateStoreErr(err, "payments")
	}
	return payments, nil
}

func newReference(appID id.ApplicationID) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return appID.String() + "-" + suffix
}

func translateStoreErr(err error, what string) error {
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.New(dErrors.CodeNotFound, what+" not found")
	case errors.Is(err, sentinel.ErrUnavailable):
		return dErrors.Wrap(err, dErrors.CodeUnavailable, what+" store unavailable")
	}
	if _, ok := dErrors.As(err); ok {
		return err
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "failed to access "+what)
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

func (s *Service) countInitiation(outcome string) {
	if s.metrics != nil {
		s.metrics.IncrementInitiation(outcome)
	}
}

func (s *Service) countCallback(status string) {
	if s.metrics != nil {
		s.metrics.IncrementCallback(status)
	}
}

// Package service issues and verifies one-time resume codes and exchanges a
// verified code for an applicant session.
package service

import (
	"context"
	"log/slog"
	"time"

	appmodels "agentreg/internal/application/models"
	"agentreg/internal/notification"
	resumemetrics "agentreg/internal/resume/metrics"
	"agentreg/internal/resume/models"
	id "agentreg/pkg/domain"
	"agentreg/pkg/requestcontext"
)

const (
	defaultCodeTTL     = 30 * time.Minute
	defaultMaxAttempts = 3
)

// Store keeps at most one active code per (application, email).
type Store interface {
	Save(ctx context.Context, code *models.ResumeCode) error
	Find(ctx context.Context, appID id.ApplicationID, email string) (*models.ResumeCode, error)
	IncrementAttempts(ctx context.Context, appID id.ApplicationID, email string) (int, error)
	Delete(ctx context.Context, appID id.ApplicationID, email string) error
}

// Applications resolves the application a code is requested for.
type Applications interface {
	Get(ctx context.Context, appID id.ApplicationID) (*appmodels.Application, error)
}

// SessionIssuer signs the bearer token handed out after verification.
type SessionIssuer interface {
	IssueSession(ctx context.Context, appID id.ApplicationID, email string) (string, time.Time, error)
}

// Service implements save-and-resume.
type Service struct {
	codes       Store
	apps        Applications
	sessions    SessionIssuer
	notifier    notification.Notifier
	logger      *slog.Logger
	metrics     *resumemetrics.Metrics
	codeTTL     time.Duration
	maxAttempts int
	newCode     func() (string, error)
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *resumemetrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithNotifier(n notification.Notifier) Option {
	return func(s *Service) {
		s.notifier = n
	}
}

// WithLimits overrides the code lifetime and the attempt throttle. Zero
// values keep the defaults.
func WithLimits(ttl time.Duration, maxAttempts int) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.codeTTL = ttl
		}
		if maxAttempts > 0 {
			s.maxAttempts = maxAttempts
		}
	}
}

// WithCodeSource replaces the random code generator.
func WithCodeSource(fn func() (string, error)) Option {
	return func(s *Service) {
		s.newCode = fn
	}
}

func New(codes Store, apps Applications, sessions SessionIssuer, opts ...Option) *Service {
	s := &Service{
		codes:       codes,
		apps:        apps,
		sessions:    sessions,
		codeTTL:     defaultCodeTTL,
		maxAttempts: defaultMaxAttempts,
		newCode:     randomCode,
	}
	for _, opt := range opts {
		opt(s)
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

func (s *Service) recordVerification(outcome string) {
	if s.metrics != nil {
		s.metrics.IncrementVerification(outcome)
	}
}

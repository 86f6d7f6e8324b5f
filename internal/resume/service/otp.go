package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"golang.org/x/crypto/bcrypt"

	"agentreg/internal/notification"
	"agentreg/internal/resume/models"
	id "agentreg/pkg/domain"
	dErrors "agentreg/pkg/domain-errors"
	"agentreg/pkg/platform/sentinel"
	"agentreg/pkg/requestcontext"
)

var codeSpace = big.NewInt(1_000_000)

func randomCode() (string, error) {
	n, err := rand.Int(rand.Reader, codeSpace)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// IssuedCode is a freshly generated code. Code is plaintext and must only
// travel to the applicant's mailbox.
type IssuedCode struct {
	Code      string
	ExpiresAt time.Time
}

// Session is the bearer token returned by a successful verification.
type Session struct {
	Token         string
	ExpiresAt     time.Time
	ApplicationID id.ApplicationID
}

// Generate creates a code for the pair, replacing any earlier one and
// resetting its attempt counter.
func (s *Service) Generate(ctx context.Context, appID id.ApplicationID, email string) (*IssuedCode, error) {
	email, err := id.NormalizeEmail(email)
	if err != nil {
		return nil, err
	}
	code, err := s.newCode()
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to generate code")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to hash code")
	}

	now := requestcontext.Now(ctx)
	record := &models.ResumeCode{
		ApplicationID: appID,
		Email:         email,
		CodeHash:      string(hash),
		ExpiresAt:     now.Add(s.codeTTL),
		CreatedAt:     now,
	}
	if err := s.codes.Save(ctx, record); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to store code")
	}
	if s.metrics != nil {
		s.metrics.IncrementIssued()
	}
	return &IssuedCode{Code: code, ExpiresAt: record.ExpiresAt}, nil
}

// RequestCode mails a fresh code when email is the application's contact
// address. Unknown applications and mismatched addresses succeed silently so
// the endpoint cannot be used to probe for applications.
func (s *Service) RequestCode(ctx context.Context, appID id.ApplicationID, email string) error {
	email, err := id.NormalizeEmail(email)
	if err != nil {
		return err
	}
	app, err := s.apps.Get(ctx, appID)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeNotFound) {
			s.logAudit(ctx, "resume_code_not_sent", "application_id", appID.String(), "reason", "unknown_application")
			return nil
		}
		return err
	}
	if app.ApplicantEmail != email {
		s.logAudit(ctx, "resume_code_not_sent", "application_id", appID.String(), "reason", "email_mismatch")
		return nil
	}

	issued, err := s.Generate(ctx, appID, email)
	if err != nil {
		return err
	}
	s.logAudit(ctx, "resume_code_issued", "application_id", appID.String(), "expires_at", issued.ExpiresAt)

	if s.notifier != nil {
		_ = s.notifier.Send(ctx, notification.Message{
			Kind:          notification.KindResumeCode,
			To:            email,
			Subject:       fmt.Sprintf("Your code to resume application %s", appID),
			Body:          fmt.Sprintf("Your one-time code is %s. It expires in %d minutes.", issued.Code, int(s.codeTTL.Minutes())),
			ApplicationID: appID.String(),
		})
	}
	return nil
}

// Verify checks a code and, on success, consumes it and issues a session.
// Every attempt that reaches the comparison is counted; once the counter has
// reached the limit even the right code is refused.
func (s *Service) Verify(ctx context.Context, appID id.ApplicationID, email, code string) (*Session, error) {
	email, err := id.NormalizeEmail(email)
	if err != nil {
		return nil, err
	}

	record, err := s.codes.Find(ctx, appID, email)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, s.refuse(ctx, appID, "invalid", dErrors.New(dErrors.CodeOTPInvalid, "invalid or unknown code"))
		}
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to load code")
	}
	if record.IsExpired(requestcontext.Now(ctx)) {
		return nil, s.refuse(ctx, appID, "expired", dErrors.New(dErrors.CodeOTPExpired, "code has expired, request a new one"))
	}
	if record.AttemptsExhausted(s.maxAttempts) {
		return nil, s.refuse(ctx, appID, "too_many_attempts", tooManyAttempts())
	}

	attempts, err := s.codes.IncrementAttempts(ctx, appID, email)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, s.refuse(ctx, appID, "invalid", dErrors.New(dErrors.CodeOTPInvalid, "invalid or unknown code"))
		}
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to count attempt")
	}
	// A concurrent attempt may have taken the last slot since Find.
	if attempts > s.maxAttempts {
		return nil, s.refuse(ctx, appID, "too_many_attempts", tooManyAttempts())
	}

	if !models.IsWellFormed(code) || bcrypt.CompareHashAndPassword([]byte(record.CodeHash), []byte(code)) != nil {
		return nil, s.refuse(ctx, appID, "invalid", dErrors.New(dErrors.CodeOTPInvalid, "invalid or unknown code").
			WithDetails(map[string]any{"attempts_remaining": max(s.maxAttempts-attempts, 0)}))
	}

	if err := s.codes.Delete(ctx, appID, email); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to consume code")
	}

	token, expiresAt, err := s.sessions.IssueSession(ctx, appID, email)
	if err != nil {
		return nil, err
	}
	s.recordVerification("verified")
	s.logAudit(ctx, "resume_code_verified", "application_id", appID.String(), "attempts", attempts)
	return &Session{Token: token, ExpiresAt: expiresAt, ApplicationID: appID}, nil
}

func (s *Service) refuse(ctx context.Context, appID id.ApplicationID, outcome string, err error) error {
	s.recordVerification(outcome)
	s.logAudit(ctx, "resume_code_rejected", "application_id", appID.String(), "outcome", outcome)
	return err
}

func tooManyAttempts() error {
	return dErrors.New(dErrors.CodeOTPTooManyAttempts, "too many attempts, request a new code")
}

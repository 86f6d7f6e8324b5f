package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	appmodels "agentreg/internal/application/models"
	"agentreg/internal/notification"
	notificationmocks "agentreg/internal/notification/mocks"
	"agentreg/internal/resume/models"
	"agentreg/internal/resume/service/mocks"
	"agentreg/internal/resume/store"
	id "agentreg/pkg/domain"
	dErrors "agentreg/pkg/domain-errors"
	"agentreg/pkg/requestcontext"
)

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks Applications,SessionIssuer

const (
	fixedCode = "424242"
	email     = "tariro@example.org"
)

var (
	now   = time.Date(2026, 6, 15, 9, 30, 0, 0, time.UTC)
	appID = id.ApplicationID("IND-APP-2026-0001")
)

type ResumeServiceSuite struct {
	suite.Suite
	ctrl     *gomock.Controller
	apps     *mocks.MockApplications
	sessions *mocks.MockSessionIssuer
	notifier *notificationmocks.MockNotifier
	codes    *store.InMemory
	service  *Service
	ctx      context.Context
	sent     []notification.Message
}

func TestResumeServiceSuite(t *testing.T) {
	suite.Run(t, new(ResumeServiceSuite))
}

func (s *ResumeServiceSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.apps = mocks.NewMockApplications(s.ctrl)
	s.sessions = mocks.NewMockSessionIssuer(s.ctrl)
	s.notifier = notificationmocks.NewMockNotifier(s.ctrl)
	s.codes = store.NewInMemory()
	s.sent = nil
	s.ctx = requestcontext.WithTime(context.Background(), now)

	s.notifier.EXPECT().Send(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, msg notification.Message) error {
			s.sent = append(s.sent, msg)
			return nil
		}).AnyTimes()
	s.apps.EXPECT().Get(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, requested id.ApplicationID) (*appmodels.Application, error) {
			if requested != appID {
				return nil, dErrors.New(dErrors.CodeNotFound, "application not found")
			}
			return &appmodels.Application{ID: appID, Kind: id.KindIndividual, Status: appmodels.StatusDraft, ApplicantEmail: email}, nil
		}).AnyTimes()

	s.service = New(s.codes, s.apps, s.sessions,
		WithNotifier(s.notifier),
		WithCodeSource(func() (string, error) { return fixedCode, nil }),
	)
}

func (s *ResumeServiceSuite) at(offset time.Duration) context.Context {
	return requestcontext.WithTime(context.Background(), now.Add(offset))
}

func (s *ResumeServiceSuite) expectSession() {
	s.sessions.EXPECT().IssueSession(gomock.Any(), appID, email).
		Return("session-token", now.Add(2*time.Hour), nil)
}

func (s *ResumeServiceSuite) requireCode(err error, code dErrors.Code) {
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, code), "want %s, got %v", code, err)
}

func (s *ResumeServiceSuite) TestRequestCodeMailsTheApplicant() {
	s.Require().NoError(s.service.RequestCode(s.ctx, appID, "  Tariro@Example.org "))

	s.Require().Len(s.sent, 1)
	s.Equal(notification.KindResumeCode, s.sent[0].Kind)
	s.Equal(email, s.sent[0].To)
	s.Contains(s.sent[0].Body, fixedCode)

	stored, err := s.codes.Find(s.ctx, appID, email)
	s.Require().NoError(err)
	s.Equal(now.Add(30*time.Minute), stored.ExpiresAt)
	s.NotContains(stored.CodeHash, fixedCode)
}

func (s *ResumeServiceSuite) TestRequestCodeStaysSilentOnMismatch() {
	s.Require().NoError(s.service.RequestCode(s.ctx, appID, "someone-else@example.org"))
	s.Require().NoError(s.service.RequestCode(s.ctx, "IND-APP-2026-0999", email))
	s.Empty(s.sent)

	_, err := s.codes.Find(s.ctx, appID, "someone-else@example.org")
	s.Error(err)
}

func (s *ResumeServiceSuite) TestRequestCodeRejectsMalformedEmail() {
	err := s.service.RequestCode(s.ctx, appID, "not-an-email")
	s.requireCode(err, dErrors.CodeInvalidInput)
}

func (s *ResumeServiceSuite) TestVerifyIssuesSessionAndConsumesCode() {
	_, err := s.service.Generate(s.ctx, appID, email)
	s.Require().NoError(err)
	s.expectSession()

	session, err := s.service.Verify(s.at(5*time.Minute), appID, "TARIRO@example.org", fixedCode)
	s.Require().NoError(err)
	s.Equal("session-token", session.Token)
	s.Equal(appID, session.ApplicationID)

	_, err = s.service.Verify(s.at(6*time.Minute), appID, email, fixedCode)
	s.requireCode(err, dErrors.CodeOTPInvalid)
}

func (s *ResumeServiceSuite) TestWrongCodeCountsAttempt() {
	_, err := s.service.Generate(s.ctx, appID, email)
	s.Require().NoError(err)

	_, err = s.service.Verify(s.ctx, appID, email, "000000")
	s.requireCode(err, dErrors.CodeOTPInvalid)
	de, _ := dErrors.As(err)
	s.Equal(2, de.Details["attempts_remaining"])

	stored, err := s.codes.Find(s.ctx, appID, email)
	s.Require().NoError(err)
	s.Equal(1, stored.Attempts)
}

func (s *ResumeServiceSuite) TestThrottleRefusesCorrectCodeAfterThreeFailures() {
	_, err := s.service.Generate(s.ctx, appID, email)
	s.Require().NoError(err)

	for range 3 {
		_, err = s.service.Verify(s.ctx, appID, email, "111111")
		s.requireCode(err, dErrors.CodeOTPInvalid)
	}

	_, err = s.service.Verify(s.ctx, appID, email, fixedCode)
	s.requireCode(err, dErrors.CodeOTPTooManyAttempts)

	stored, err := s.codes.Find(s.ctx, appID, email)
	s.Require().NoError(err)
	s.Equal(3, stored.Attempts, "refused attempts are not counted")
}

func (s *ResumeServiceSuite) TestNewCodeResetsThrottle() {
	_, err := s.service.Generate(s.ctx, appID, email)
	s.Require().NoError(err)
	for range 3 {
		_, _ = s.service.Verify(s.ctx, appID, email, "111111")
	}

	_, err = s.service.Generate(s.at(time.Minute), appID, email)
	s.Require().NoError(err)
	s.expectSession()

	_, err = s.service.Verify(s.at(2*time.Minute), appID, email, fixedCode)
	s.NoError(err)
}

func (s *ResumeServiceSuite) TestExpiredCode() {
	_, err := s.service.Generate(s.ctx, appID, email)
	s.Require().NoError(err)

	_, err = s.service.Verify(s.at(30*time.Minute), appID, email, fixedCode)
	s.requireCode(err, dErrors.CodeOTPExpired)
}

func (s *ResumeServiceSuite) TestUnknownPair() {
	_, err := s.service.Verify(s.ctx, appID, email, fixedCode)
	s.requireCode(err, dErrors.CodeOTPInvalid)
}

func (s *ResumeServiceSuite) TestMalformedCodeStillCounts() {
	_, err := s.service.Generate(s.ctx, appID, email)
	s.Require().NoError(err)

	_, err = s.service.Verify(s.ctx, appID, email, "abc")
	s.requireCode(err, dErrors.CodeOTPInvalid)

	stored, err := s.codes.Find(s.ctx, appID, email)
	s.Require().NoError(err)
	s.Equal(1, stored.Attempts)
}

func TestRandomCodeIsSixDigits(t *testing.T) {
	for range 50 {
		code, err := randomCode()
		if err != nil {
			t.Fatal(err)
		}
		if !models.IsWellFormed(code) {
			t.Fatalf("malformed code %q", code)
		}
	}
}

package jwttoken

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "agentreg/pkg/domain"
	dErrors "agentreg/pkg/domain-errors"
	"agentreg/pkg/requestcontext"
)

var (
	issuedAt = time.Date(2026, 6, 15, 9, 0, 0, 0, time.UTC)
	appID    = id.ApplicationID("IND-APP-2026-0007")
	email    = "applicant@example.org"
)

func newService(clock time.Time) *JWTService {
	return NewJWTService("test-signing-key", 2*time.Hour, WithClock(func() time.Time { return clock }))
}

func issue(t *testing.T, s *JWTService) (string, time.Time) {
	t.Helper()
	ctx := requestcontext.WithTime(context.Background(), issuedAt)
	token, expiresAt, err := s.IssueSession(ctx, appID, email)
	require.NoError(t, err)
	require.NotEmpty(t, token)
	return token, expiresAt
}

func TestIssueSession(t *testing.T) {
	s := newService(issuedAt.Add(time.Minute))
	token, expiresAt := issue(t, s)
	assert.Equal(t, issuedAt.Add(2*time.Hour), expiresAt)

	claims, err := s.ParseClaims(token)
	require.NoError(t, err)
	assert.Equal(t, appID.String(), claims.ApplicationID)
	assert.Equal(t, email, claims.Email)
	assert.NotEmpty(t, claims.ID)

	session, err := s.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, requestcontext.ResumeSession{ApplicationID: appID, Email: email}, session)
}

func TestIssueSession_RequiresBinding(t *testing.T) {
	_, _, err := newService(issuedAt).IssueSession(context.Background(), "", email)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))
}

func TestValidateToken_Expired(t *testing.T) {
	token, _ := issue(t, newService(issuedAt))

	_, err := newService(issuedAt.Add(3 * time.Hour)).ValidateToken(token)
	require.Error(t, err)
	de, ok := dErrors.As(err)
	require.True(t, ok)
	assert.Equal(t, dErrors.CodeUnauthorized, de.Code)
	assert.Equal(t, "session has expired", de.Message)
}

func TestValidateToken_Rejects(t *testing.T) {
	verifier := newService(issuedAt.Add(time.Minute))

	t.Run("garbage", func(t *testing.T) {
		_, err := verifier.ValidateToken("not-a-token")
		assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})

	t.Run("other signing key", func(t *testing.T) {
		other := NewJWTService("another-key", time.Hour)
		token, _ := issue(t, other)
		_, err := verifier.ValidateToken(token)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})

	t.Run("other audience", func(t *testing.T) {
		other := NewJWTService("test-signing-key", time.Hour, WithIssuer("agentreg", "staff-console"))
		token, _ := issue(t, other)
		_, err := verifier.ValidateToken(token)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})

	t.Run("unsigned", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodNone, SessionClaims{ApplicationID: appID.String(), Email: email})
		raw, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)
		_, err = verifier.ValidateToken(raw)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})

	t.Run("malformed application id", func(t *testing.T) {
		_, err := ToResumeSession(&SessionClaims{ApplicationID: "../etc", Email: email})
		assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})
}

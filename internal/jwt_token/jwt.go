// Package jwttoken issues and validates applicant resume sessions. Sessions are
// stateless HS256 bearer tokens; there is no server-side registry, so a token
// stays valid until it expires. Keep the TTL short.
package jwttoken

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	id "agentreg/pkg/domain"
	dErrors "agentreg/pkg/domain-errors"
	"agentreg/pkg/requestcontext"
)

const (
	defaultIssuer   = "agentreg"
	defaultAudience = "agentreg-applicant"
)

// SessionClaims binds a bearer token to one application and the email that
// proved control of it.
type SessionClaims struct {
	ApplicationID string `json:"application_id"`
	Email         string `json:"email"`
	jwt.RegisteredClaims
}

// JWTService handles session creation and validation.
type JWTService struct {
	signingKey []byte
	issuer     string
	audience   string
	ttl        time.Duration
	now        func() time.Time
}

type Option func(*JWTService)

// WithClock overrides the clock used when validating expiry.
func WithClock(now func() time.Time) Option {
	return func(s *JWTService) {
		s.now = now
	}
}

func WithIssuer(issuer, audience string) Option {
	return func(s *JWTService) {
		s.issuer = issuer
		s.audience = audience
	}
}

func NewJWTService(signingKey string, ttl time.Duration, opts ...Option) *JWTService {
	s := &JWTService{
		signingKey: []byte(signingKey),
		issuer:     defaultIssuer,
		audience:   defaultAudience,
		ttl:        ttl,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// IssueSession signs a session for the application. Issue time comes from the
// request context so tests can pin it.
func (s *JWTService) IssueSession(ctx context.Context, appID id.ApplicationID, email string) (string, time.Time, error) {
	if appID.IsZero() || email == "" {
		return "", time.Time{}, dErrors.New(dErrors.CodeInvariantViolation, "session requires an application and email")
	}
	issuedAt := requestcontext.Now(ctx)
	expiresAt := issuedAt.Add(s.ttl)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, SessionClaims{
		ApplicationID: appID.String(),
		Email:         email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			Issuer:    s.issuer,
			Audience:  []string{s.audience},
			ID:        uuid.NewString(),
		},
	})

	signed, err := token.SignedString(s.signingKey)
	if err != nil {
		return "", time.Time{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to sign session")
	}
	return signed, expiresAt, nil
}

// ParseClaims verifies signature, issuer, audience and expiry.
func (s *JWTService) ParseClaims(tokenString string) (*SessionClaims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return s.signingKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithAudience(s.audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, dErrors.New(dErrors.CodeUnauthorized, "session has expired")
		}
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid session")
	}

	claims, ok := parsed.Claims.(*SessionClaims)
	if !ok || !parsed.Valid {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid session claims")
	}
	return claims, nil
}

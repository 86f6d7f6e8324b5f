package jwttoken

import (
	id "agentreg/pkg/domain"
	dErrors "agentreg/pkg/domain-errors"
	"agentreg/pkg/requestcontext"
)

// ToResumeSession converts verified claims into the request-scoped session.
func ToResumeSession(claims *SessionClaims) (requestcontext.ResumeSession, error) {
	appID, err := id.ParseApplicationID(claims.ApplicationID)
	if err != nil {
		return requestcontext.ResumeSession{}, dErrors.New(dErrors.CodeUnauthorized, "invalid session claims")
	}
	if claims.Email == "" {
		return requestcontext.ResumeSession{}, dErrors.New(dErrors.CodeUnauthorized, "invalid session claims")
	}
	return requestcontext.ResumeSession{ApplicationID: appID, Email: claims.Email}, nil
}

// ValidateToken satisfies the resume session middleware.
func (s *JWTService) ValidateToken(tokenString string) (requestcontext.ResumeSession, error) {
	claims, err := s.ParseClaims(tokenString)
	if err != nil {
		return requestcontext.ResumeSession{}, err
	}
	return ToResumeSession(claims)
}

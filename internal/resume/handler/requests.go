package handler

import (
	"strings"

	id "agentreg/pkg/domain"
	dErrors "agentreg/pkg/domain-errors"
)

type CodeRequest struct {
	ApplicationID string `json:"application_id"`
	Email         string `json:"email"`

	appID id.ApplicationID
}

func (r *CodeRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	appID, err := id.ParseApplicationID(strings.TrimSpace(r.ApplicationID))
	if err != nil {
		return err
	}
	if strings.TrimSpace(r.Email) == "" {
		return dErrors.New(dErrors.CodeValidation, "email is required")
	}
	r.appID = appID
	return nil
}

type VerifyRequest struct {
	CodeRequest
	Code string `json:"code"`
}

func (r *VerifyRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	if err := r.CodeRequest.Validate(); err != nil {
		return err
	}
	r.Code = strings.TrimSpace(r.Code)
	if r.Code == "" {
		return dErrors.New(dErrors.CodeValidation, "code is required")
	}
	return nil
}

type CodeResponse struct {
	Message string `json:"message"`
}

type SessionResponse struct {
	ApplicationID string `json:"application_id"`
	SessionToken  string `json:"session_token"`
	ExpiresAt     string `json:"expires_at"`
}

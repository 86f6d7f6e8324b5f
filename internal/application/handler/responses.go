package handler

import (
	"time"

	"agentreg/internal/application/eligibility"
	"agentreg/internal/application/models"
	"agentreg/internal/application/service"
)

// ApplicationResponse is the HTTP view of an application.
type ApplicationResponse struct {
	ID             string                      `json:"id"`
	Kind           string                      `json:"kind"`
	Status         string                      `json:"status"`
	ApplicantEmail string                      `json:"applicant_email"`
	MatureEntry    bool                        `json:"mature_entry"`
	MemberID       string                      `json:"member_id,omitempty"`
	Fee            FeeResponse                 `json:"fee"`
	Individual     *models.IndividualProfile   `json:"individual,omitempty"`
	Organization   *models.OrganizationProfile `json:"organization,omitempty"`
	CreatedAt      time.Time                   `json:"created_at"`
	UpdatedAt      time.Time                   `json:"updated_at"`
}

// FeeResponse renders the amount as a fixed two-decimal string.
type FeeResponse struct {
	Required        bool   `json:"required"`
	Amount          string `json:"amount"`
	Currency        string `json:"currency"`
	Status          string `json:"status"`
	ProofDocumentID string `json:"proof_document_id,omitempty"`
}

// StartResponse is returned when a draft is created.
type StartResponse struct {
	Application      *ApplicationResponse `json:"application"`
	Eligibility      eligibility.Result   `json:"eligibility"`
	SessionToken     string               `json:"session_token,omitempty"`
	SessionExpiresAt *time.Time           `json:"session_expires_at,omitempty"`
}

// DecisionResponse is returned by the decision endpoint.
type DecisionResponse struct {
	Application *ApplicationResponse    `json:"application"`
	Decision    models.RegistryDecision `json:"decision"`
	Repeated    bool                    `json:"repeated"`
}

// HistoryResponse is the staff audit view of an application.
type HistoryResponse struct {
	History   []models.StatusHistory    `json:"history"`
	Decisions []models.RegistryDecision `json:"decisions"`
}

// FromApplication converts the domain aggregate to its HTTP view.
func FromApplication(app *models.Application) *ApplicationResponse {
	resp := &ApplicationResponse{
		ID:             app.ID.String(),
		Kind:           app.Kind.String(),
		Status:         app.Status.String(),
		ApplicantEmail: app.ApplicantEmail,
		MatureEntry:    app.MatureEntry,
		MemberID:       app.MemberID.String(),
		Fee: FeeResponse{
			Required: app.Fee.Required,
			Amount:   app.Fee.Amount.StringFixed(2),
			Currency: app.Fee.Currency,
			Status:   string(app.Fee.Status),
		},
		Individual:   app.Individual,
		Organization: app.Organization,
		CreatedAt:    app.CreatedAt,
		UpdatedAt:    app.UpdatedAt,
	}
	if app.Fee.ProofDocumentID != nil {
		resp.Fee.ProofDocumentID = app.Fee.ProofDocumentID.String()
	}
	return resp
}

func FromDecision(res *service.DecisionResult) *DecisionResponse {
	return &DecisionResponse{
		Application: FromApplication(res.Application),
		Decision:    res.Decision,
		Repeated:    res.Repeated,
	}
}

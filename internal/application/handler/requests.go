package handler

import (
	"strings"
	"time"

	"agentreg/internal/application/models"
	docmodels "agentreg/internal/documents/models"
	dErrors "agentreg/pkg/domain-errors"
)

const (
	maxNameLen     = 100
	maxCommentLen  = 1000
	maxReasons     = 20
	dateOfBirthFmt = "2006-01-02"
)

// IndividualRequest is the body of POST /applications/individual and
// POST /eligibility/individual.
type IndividualRequest struct {
	Personal   PersonalRequest                 `json:"personal"`
	OLevel     models.OLevelResult             `json:"o_level"`
	ALevel     *models.ALevelResult            `json:"a_level,omitempty"`
	Equivalent *models.EquivalentQualification `json:"equivalent,omitempty"`

	parsedDOB time.Time
}

// PersonalRequest carries the date of birth as a calendar date.
type PersonalRequest struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Email       string `json:"email"`
	Phone       string `json:"phone,omitempty"`
	NationalID  string `json:"national_id,omitempty"`
	DateOfBirth string `json:"date_of_birth"`
}

// Validate checks shape only. Eligibility is the service's decision.
func (r *IndividualRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	p := &r.Personal
	p.FirstName = strings.TrimSpace(p.FirstName)
	p.LastName = strings.TrimSpace(p.LastName)
	p.Email = strings.TrimSpace(p.Email)
	if len(p.FirstName) > maxNameLen || len(p.LastName) > maxNameLen {
		return dErrors.New(dErrors.CodeValidation, "names must be at most 100 characters")
	}
	if p.FirstName == "" || p.LastName == "" {
		return dErrors.New(dErrors.CodeValidation, "personal.first_name and personal.last_name are required")
	}
	if p.Email == "" {
		return dErrors.New(dErrors.CodeValidation, "personal.email is required")
	}
	dob, err := time.Parse(dateOfBirthFmt, strings.TrimSpace(p.DateOfBirth))
	if err != nil {
		return dErrors.New(dErrors.CodeValidation, "personal.date_of_birth must be YYYY-MM-DD")
	}
	r.parsedDOB = dob
	if r.OLevel.PassesCount < 0 || r.OLevel.PassesCount > 30 {
		return dErrors.New(dErrors.CodeValidation, "o_level.passes_count is out of range")
	}
	if r.ALevel != nil && (r.ALevel.PassesCount < 0 || r.ALevel.PassesCount > 10) {
		return dErrors.New(dErrors.CodeValidation, "a_level.passes_count is out of range")
	}
	return nil
}

// Profile converts the request to the typed profile.
func (r *IndividualRequest) Profile() models.IndividualProfile {
	return models.IndividualProfile{
		Personal: models.PersonalInfo{
			FirstName:   r.Personal.FirstName,
			LastName:    r.Personal.LastName,
			Email:       r.Personal.Email,
			Phone:       r.Personal.Phone,
			NationalID:  r.Personal.NationalID,
			DateOfBirth: r.parsedDOB,
		},
		OLevel:     r.OLevel,
		ALevel:     r.ALevel,
		Equivalent: r.Equivalent,
	}
}

// OrganizationRequest is the body of POST /applications/organization.
type OrganizationRequest struct {
	models.OrganizationProfile
}

func (r *OrganizationRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	r.Org.LegalName = strings.TrimSpace(r.Org.LegalName)
	r.Org.Email = strings.TrimSpace(r.Org.Email)
	r.PREAMemberID = strings.TrimSpace(r.PREAMemberID)
	if len(r.Org.LegalName) > 200 {
		return dErrors.New(dErrors.CodeValidation, "org.legal_name must be at most 200 characters")
	}
	if r.Org.Email == "" {
		return dErrors.New(dErrors.CodeValidation, "org.email is required")
	}
	if len(r.Directors) > docmodels.MaxDirectors {
		return dErrors.New(dErrors.CodeValidation, "too many directors")
	}
	for n := range r.Directors {
		r.Directors[n].FullName = strings.TrimSpace(r.Directors[n].FullName)
		if r.Directors[n].FullName == "" {
			return dErrors.New(dErrors.CodeValidation, "every director needs a full_name")
		}
	}
	return nil
}

func (r *OrganizationRequest) Profile() models.OrganizationProfile {
	return r.OrganizationProfile
}

// OrganizationEligibilityRequest is the body of POST
// /eligibility/organization. Uploaded document types are optional.
type OrganizationEligibilityRequest struct {
	OrganizationRequest
	UploadedDocTypes []string `json:"uploaded_doc_types,omitempty"`

	parsedUploaded []docmodels.DocType
}

func (r *OrganizationEligibilityRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	if err := r.OrganizationRequest.Validate(); err != nil {
		return err
	}
	r.parsedUploaded = make([]docmodels.DocType, 0, len(r.UploadedDocTypes))
	for _, raw := range r.UploadedDocTypes {
		d, err := docmodels.ParseDocType(strings.TrimSpace(raw))
		if err != nil {
			return err
		}
		r.parsedUploaded = append(r.parsedUploaded, d)
	}
	return nil
}

func (r *OrganizationEligibilityRequest) ParsedUploaded() []docmodels.DocType {
	return r.parsedUploaded
}

// CommentRequest is the optional body of submit, withdraw and expire.
type CommentRequest struct {
	Comment string `json:"comment"`
}

func (r *CommentRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	r.Comment = strings.TrimSpace(r.Comment)
	if len(r.Comment) > maxCommentLen {
		return dErrors.New(dErrors.CodeValidation, "comment must be at most 1000 characters")
	}
	return nil
}

// TransitionRequest is the body of POST /admin/applications/{id}/transition.
type TransitionRequest struct {
	Status  string `json:"status"`
	Comment string `json:"comment"`

	parsedStatus models.Status
}

func (r *TransitionRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	r.Comment = strings.TrimSpace(r.Comment)
	if len(r.Comment) > maxCommentLen {
		return dErrors.New(dErrors.CodeValidation, "comment must be at most 1000 characters")
	}
	status, err := models.ParseStatus(strings.TrimSpace(r.Status))
	if err != nil {
		return err
	}
	r.parsedStatus = status
	return nil
}

func (r *TransitionRequest) ParsedStatus() models.Status {
	return r.parsedStatus
}

// DecisionRequest is the body of POST /admin/applications/{id}/decision.
type DecisionRequest struct {
	Outcome string   `json:"outcome"`
	Reasons []string `json:"reasons"`

	parsedOutcome models.DecisionOutcome
}

func (r *DecisionRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	if len(r.Reasons) > maxReasons {
		return dErrors.New(dErrors.CodeValidation, "at most 20 reasons are allowed")
	}
	for _, reason := range r.Reasons {
		if len(reason) > maxCommentLen {
			return dErrors.New(dErrors.CodeValidation, "each reason must be at most 1000 characters")
		}
	}
	outcome, err := models.ParseDecisionOutcome(strings.TrimSpace(r.Outcome))
	if err != nil {
		return err
	}
	r.parsedOutcome = outcome
	return nil
}

func (r *DecisionRequest) ParsedOutcome() models.DecisionOutcome {
	return r.parsedOutcome
}

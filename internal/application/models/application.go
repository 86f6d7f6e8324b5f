package models

import (
	"context"
	"time"

	"github.com/google/uuid"

	id "agentreg/pkg/domain"
	dErrors "agentreg/pkg/domain-errors"
)

// Application is the aggregate root of a membership application.
//
// Invariants:
//   - ID and Kind are immutable once assigned
//   - Exactly one of Individual / Organization is set, matching Kind
//   - Status only moves along Status.CanTransitionTo
//   - Every Status change is persisted together with exactly one StatusHistory row
//   - MatureEntry is computed once at creation and never recomputed
//   - MemberID is set at most once, only when Status becomes accepted
type Application struct {
	ID             id.ApplicationID     `json:"id"`
	Kind           id.ApplicationKind   `json:"kind"`
	Status         Status               `json:"status"`
	ApplicantEmail string               `json:"applicant_email"`
	Individual     *IndividualProfile   `json:"individual,omitempty"`
	Organization   *OrganizationProfile `json:"organization,omitempty"`
	MatureEntry    bool                 `json:"mature_entry"`
	Fee            Fee                  `json:"fee"`
	MemberID       id.MemberNumber      `json:"member_id,omitempty"`
	CreatedAt      time.Time            `json:"created_at"`
	UpdatedAt      time.Time            `json:"updated_at"`
}

// NewIndividualApplication creates a draft individual application.
func NewIndividualApplication(appID id.ApplicationID, profile IndividualProfile, mature bool, fee Fee, now time.Time) (*Application, error) {
	if appID.Kind() != id.KindIndividual {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "individual application requires an IND id")
	}
	if profile.Personal.Email == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "applicant email is required")
	}
	p := profile.clone()
	return &Application{
		ID:             appID,
		Kind:           id.KindIndividual,
		Status:         StatusDraft,
		ApplicantEmail: profile.Personal.Email,
		Individual:     &p,
		MatureEntry:    mature,
		Fee:            fee,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

// NewOrganizationApplication creates a draft organization application.
func NewOrganizationApplication(appID id.ApplicationID, profile OrganizationProfile, fee Fee, now time.Time) (*Application, error) {
	if appID.Kind() != id.KindOrganization {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "organization application requires an ORG id")
	}
	if profile.Org.Email == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "organization email is required")
	}
	p := profile.clone()
	return &Application{
		ID:             appID,
		Kind:           id.KindOrganization,
		Status:         StatusDraft,
		ApplicantEmail: profile.Org.Email,
		Organization:   &p,
		Fee:            fee,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

// DirectorCount is the number of declared directors; zero for individuals.
func (a *Application) DirectorCount() int {
	if a.Organization == nil {
		return 0
	}
	return len(a.Organization.Directors)
}

// ApplicantName is the display name used in notifications.
func (a *Application) ApplicantName() string {
	switch {
	case a.Individual != nil:
		return a.Individual.Personal.FullName()
	case a.Organization != nil:
		return a.Organization.Org.LegalName
	}
	return ""
}

// CanTransitionTo checks the state table only; guards are evaluated by the
// service.
func (a *Application) CanTransitionTo(target Status) error {
	if !a.Status.CanTransitionTo(target) {
		return dErrors.New(dErrors.CodeInvalidState,
			"cannot move application from "+string(a.Status)+" to "+string(target))
	}
	return nil
}

// ApplyTransition sets the new status and returns the previous one.
// Call CanTransitionTo first.
func (a *Application) ApplyTransition(target Status, now time.Time) Status {
	from := a.Status
	a.Status = target
	a.UpdatedAt = now
	return from
}

// NeedsMemberNumber reports whether an accepted transition must still mint a
// member number.
func (a *Application) NeedsMemberNumber() bool {
	return a.MemberID == ""
}

// ApplyMemberNumber stamps the member number. It never overwrites.
func (a *Application) ApplyMemberNumber(m id.MemberNumber) bool {
	if a.MemberID != "" {
		return false
	}
	a.MemberID = m
	return true
}

// Clone returns a deep copy, so stores never share mutable state with callers.
func (a *Application) Clone() *Application {
	if a == nil {
		return nil
	}
	cp := *a
	if a.Individual != nil {
		p := a.Individual.clone()
		cp.Individual = &p
	}
	if a.Organization != nil {
		p := a.Organization.clone()
		cp.Organization = &p
	}
	if a.Fee.ProofDocumentID != nil {
		d := *a.Fee.ProofDocumentID
		cp.Fee.ProofDocumentID = &d
	}
	return &cp
}

// StatusHistory is one append-only ledger row. FromStatus is nil for the
// creation row; FromStatus equal to ToStatus marks a note that did not change
// status (fee settlement).
type StatusHistory struct {
	ID              uuid.UUID          `json:"id"`
	ApplicationID   id.ApplicationID   `json:"application_id"`
	ApplicationKind id.ApplicationKind `json:"application_kind"`
	FromStatus      *Status            `json:"from_status"`
	ToStatus        Status             `json:"to_status"`
	Actor           string             `json:"actor,omitempty"`
	Comment         string             `json:"comment,omitempty"`
	CreatedAt       time.Time          `json:"created_at"`
}

// NewHistory builds a ledger row for app moving from -> to.
func NewHistory(app *Application, from *Status, to Status, actor, comment string, now time.Time) StatusHistory {
	var fromCopy *Status
	if from != nil {
		f := *from
		fromCopy = &f
	}
	return StatusHistory{
		ID:              uuid.New(),
		ApplicationID:   app.ID,
		ApplicationKind: app.Kind,
		FromStatus:      fromCopy,
		ToStatus:        to,
		Actor:           actor,
		Comment:         comment,
		CreatedAt:       now,
	}
}

// DecisionOutcome is the registry's terminal judgment.
type DecisionOutcome string

const (
	DecisionAccepted DecisionOutcome = "accepted"
	DecisionRejected DecisionOutcome = "rejected"
)

// ParseDecisionOutcome validates an outcome from external input.
func ParseDecisionOutcome(s string) (DecisionOutcome, error) {
	switch DecisionOutcome(s) {
	case DecisionAccepted, DecisionRejected:
		return DecisionOutcome(s), nil
	}
	return "", dErrors.New(dErrors.CodeInvalidInput, "decision must be accepted or rejected")
}

// TargetStatus maps the outcome to the application status it produces.
func (o DecisionOutcome) TargetStatus() Status {
	if o == DecisionAccepted {
		return StatusAccepted
	}
	return StatusRejected
}

// RegistryDecision is an audit row for a registry judgment. Repeated
// decisions add rows; they never replace earlier ones.
type RegistryDecision struct {
	ID            uuid.UUID        `json:"id"`
	ApplicationID id.ApplicationID `json:"application_id"`
	Outcome       DecisionOutcome  `json:"outcome"`
	Reasons       []string         `json:"reasons"`
	Actor         string           `json:"actor"`
	MemberID      id.MemberNumber  `json:"member_id,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
}

// Changes are the rows written together with an application update.
type Changes struct {
	History  []StatusHistory
	Decision *RegistryDecision
}

// MutateFunc validates and mutates app in place and returns the rows to write
// alongside it. Returning an error aborts the unit of work without writing.
type MutateFunc func(ctx context.Context, app *Application) (Changes, error)

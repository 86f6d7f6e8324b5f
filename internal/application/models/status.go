package models

import (
	dErrors "agentreg/pkg/domain-errors"
)

// Status is the single authoritative lifecycle position of an application.
type Status string

const (
	StatusDraft                Status = "draft"
	StatusSubmitted            Status = "submitted"
	StatusPreValidation        Status = "pre_validation"
	StatusEligibilityReview    Status = "eligibility_review"
	StatusDocumentReview       Status = "document_review"
	StatusNeedsApplicantAction Status = "needs_applicant_action"
	StatusReadyForRegistry     Status = "ready_for_registry"
	StatusAccepted             Status = "accepted"
	StatusRejected             Status = "rejected"
	StatusWithdrawn            Status = "withdrawn"
	StatusExpired              Status = "expired"
)

// transitions lists the legal targets per source. withdrawn and expired are
// reachable from every non-terminal state and are added in CanTransitionTo.
var transitions = map[Status][]Status{
	StatusDraft:                {StatusSubmitted, StatusEligibilityReview},
	StatusSubmitted:            {StatusPreValidation, StatusEligibilityReview},
	StatusEligibilityReview:    {StatusPreValidation, StatusDocumentReview, StatusNeedsApplicantAction, StatusRejected},
	StatusPreValidation:        {StatusDocumentReview, StatusNeedsApplicantAction},
	StatusDocumentReview:       {StatusNeedsApplicantAction, StatusReadyForRegistry, StatusRejected},
	StatusNeedsApplicantAction: {StatusDocumentReview},
	StatusReadyForRegistry:     {StatusAccepted, StatusRejected},
	StatusAccepted:             nil,
	StatusRejected:             nil,
	StatusWithdrawn:            nil,
	StatusExpired:              nil,
}

// ParseStatus validates a status from external input.
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if !st.IsValid() {
		return "", dErrors.New(dErrors.CodeInvalidInput, "unknown application status: "+s)
	}
	return st, nil
}

func (s Status) IsValid() bool {
	_, ok := transitions[s]
	return ok
}

// IsTerminal reports whether no further transition is possible.
func (s Status) IsTerminal() bool {
	switch s {
	case StatusAccepted, StatusRejected, StatusWithdrawn, StatusExpired:
		return true
	}
	return false
}

// AcceptsApplicantChanges reports whether the applicant may still upload
// documents and submit.
func (s Status) AcceptsApplicantChanges() bool {
	return s == StatusDraft || s == StatusNeedsApplicantAction
}

// CanTransitionTo reports whether target is a legal next state.
func (s Status) CanTransitionTo(target Status) bool {
	if s.IsTerminal() || !target.IsValid() || s == target {
		return false
	}
	if target == StatusWithdrawn || target == StatusExpired {
		return true
	}
	for _, allowed := range transitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// IsSubmission reports whether moving from s to target is an applicant
// submission, which is gated by the submission guard.
func (s Status) IsSubmission(target Status) bool {
	if !s.AcceptsApplicantChanges() {
		return false
	}
	switch target {
	case StatusSubmitted, StatusEligibilityReview, StatusDocumentReview:
		return true
	}
	return false
}

// SubmissionTarget is the status a submit request moves to from s.
// Returns false when s cannot be submitted.
func (s Status) SubmissionTarget() (Status, bool) {
	switch s {
	case StatusDraft:
		return StatusEligibilityReview, true
	case StatusNeedsApplicantAction:
		return StatusDocumentReview, true
	}
	return "", false
}

func (s Status) String() string {
	return string(s)
}

package eligibility

import (
	"strings"

	"agentreg/internal/application/models"
	"agentreg/internal/documents/checklist"
	docmodels "agentreg/internal/documents/models"
	id "agentreg/pkg/domain"
	pstrings "agentreg/pkg/platform/strings"
)

// OrganizationInput gathers what the organization rules read. PREAIsActive is
// resolved by the caller against the member register.
type OrganizationInput struct {
	Profile      models.OrganizationProfile
	Uploaded     []docmodels.DocType
	PREAIsActive bool
}

// CheckOrganization decides whether an organization may apply.
//
// Hard rejections short-circuit in this order: legal name, email, trust bank,
// PREA id, PREA active, directors. After that, OK depends only on the
// document checklist.
func CheckOrganization(in OrganizationInput) Result {
	p := in.Profile
	switch {
	case len(strings.TrimSpace(p.Org.LegalName)) < 2:
		return reject(ReasonOrgLegalName)
	case !validEmail(p.Org.Email):
		return reject(ReasonOrgEmail)
	case len(strings.TrimSpace(p.TrustAccount.BankName)) < 2:
		return reject(ReasonOrgTrustBank)
	case strings.TrimSpace(p.PREAMemberID) == "":
		return reject(ReasonOrgPREAMissing)
	case !in.PREAIsActive:
		return reject(ReasonOrgPREAInactive)
	case len(p.Directors) == 0:
		return reject(ReasonOrgNoDirectors)
	}

	var warnings []string
	if !p.PREAIsListedDirector {
		warnings = append(warnings, "The Principal Registered Estate Agent is not confirmed as a listed director; this will be cross-checked manually.")
	}
	if !pstrings.ContainsFold(p.DirectorMemberIDs(), p.PREAMemberID) {
		warnings = append(warnings, "The Principal Registered Estate Agent member id does not match any declared director.")
	}

	docs := checklist.Evaluate(id.KindOrganization, in.Uploaded,
		checklist.Context{DirectorCount: len(p.Directors)}, checklist.PhaseStart)

	res := Result{
		OK:           docs.OK,
		Requirements: docs.Missing,
		Warnings:     warnings,
	}
	if !docs.OK {
		res.Reason = ReasonDocumentsOutstanding
	}
	return res
}

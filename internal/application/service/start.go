package service

import (
	"context"
	"errors"
	"strings"

	"agentreg/internal/application/eligibility"
	"agentreg/internal/application/models"
	docmodels "agentreg/internal/documents/models"
	"agentreg/internal/notification"
	id "agentreg/pkg/domain"
	dErrors "agentreg/pkg/domain-errors"
	"agentreg/pkg/platform/sentinel"
	"agentreg/pkg/requestcontext"
)

// StartResult is a freshly created draft with the eligibility outcome that
// admitted it.
type StartResult struct {
	Application *models.Application
	Eligibility eligibility.Result
}

// EvaluateIndividual runs the individual rules without creating anything.
func (s *Service) EvaluateIndividual(ctx context.Context, profile models.IndividualProfile) eligibility.Result {
	return eligibility.CheckIndividual(profile, requestcontext.Now(ctx), s.rules)
}

// EvaluateOrganization runs the organization rules without creating
// anything. The PREA is resolved against accepted individual members.
func (s *Service) EvaluateOrganization(ctx context.Context, profile models.OrganizationProfile, uploaded []docmodels.DocType) (eligibility.Result, error) {
	active, err := s.isActiveIndividualMember(ctx, profile.PREAMemberID)
	if err != nil {
		return eligibility.Result{}, err
	}
	return eligibility.CheckOrganization(eligibility.OrganizationInput{
		Profile:      profile,
		Uploaded:     uploaded,
		PREAIsActive: active,
	}), nil
}

func (s *Service) isActiveIndividualMember(ctx context.Context, memberID string) (bool, error) {
	memberID = strings.TrimSpace(memberID)
	if memberID == "" {
		return false, nil
	}
	member, err := s.apps.FindAcceptedByMemberID(ctx, id.MemberNumber(memberID))
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return false, nil
		}
		return false, wrapStoreErr(err, "resolve member")
	}
	return member.Kind == id.KindIndividual, nil
}

// StartIndividual evaluates eligibility and, when admitted, creates a draft
// with its mature-entry classification frozen.
func (s *Service) StartIndividual(ctx context.Context, profile models.IndividualProfile) (*StartResult, error) {
	res := s.EvaluateIndividual(ctx, profile)
	if !res.OK {
		s.incrementEligibilityRejected(id.KindIndividual)
		s.logAudit(ctx, "eligibility_rejected", "kind", string(id.KindIndividual), "reason", res.Reason)
		return nil, notEligible(res)
	}
	email, err := id.NormalizeEmail(profile.Personal.Email)
	if err != nil {
		return nil, err
	}
	profile.Personal.Email = email

	now := requestcontext.Now(ctx)
	appID, err := s.names.NextApplicationID(ctx, id.KindIndividual)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to allocate application id")
	}
	app, err := models.NewIndividualApplication(appID, profile, res.Mature != nil && *res.Mature,
		s.fees.feeFor(id.KindIndividual), now)
	if err != nil {
		return nil, toValidation(err)
	}
	if err := s.create(ctx, app); err != nil {
		return nil, err
	}
	return &StartResult{Application: app, Eligibility: res}, nil
}

// StartOrganization creates an organization draft unless a structural rule
// rejects it. Outstanding documents are reported, not enforced, since none
// can exist before the draft.
func (s *Service) StartOrganization(ctx context.Context, profile models.OrganizationProfile) (*StartResult, error) {
	res, err := s.EvaluateOrganization(ctx, profile, nil)
	if err != nil {
		return nil, err
	}
	if res.Rejected() {
		s.incrementEligibilityRejected(id.KindOrganization)
		s.logAudit(ctx, "eligibility_rejected", "kind", string(id.KindOrganization), "reason", res.Reason)
		return nil, notEligible(res)
	}
	email, err := id.NormalizeEmail(profile.Org.Email)
	if err != nil {
		return nil, err
	}
	profile.Org.Email = email

	now := requestcontext.Now(ctx)
	appID, err := s.names.NextApplicationID(ctx, id.KindOrganization)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to allocate application id")
	}
	app, err := models.NewOrganizationApplication(appID, profile, s.fees.feeFor(id.KindOrganization), now)
	if err != nil {
		return nil, toValidation(err)
	}
	if err := s.create(ctx, app); err != nil {
		return nil, err
	}
	return &StartResult{Application: app, Eligibility: res}, nil
}

func (s *Service) create(ctx context.Context, app *models.Application) error {
	actor := requestcontext.Actor(ctx)
	if actor == "" {
		actor = app.ApplicantEmail
	}
	history := models.NewHistory(app, nil, app.Status, actor, "application started", app.CreatedAt)
	if err := s.apps.Create(ctx, app, history); err != nil {
		return wrapStoreErr(err, "create application")
	}

	s.logAudit(ctx, "application_started",
		"application_id", app.ID.String(),
		"kind", string(app.Kind),
		"mature_entry", app.MatureEntry,
	)
	s.incrementStarted(app.Kind)
	s.notify(ctx, notification.Message{
		Kind:          notification.KindApplicationStarted,
		To:            app.ApplicantEmail,
		Subject:       "Your application " + app.ID.String() + " has been started",
		Body:          "Keep this reference to resume your application: " + app.ID.String(),
		ApplicationID: app.ID.String(),
	})
	return nil
}

func notEligible(res eligibility.Result) error {
	details := map[string]any{"reason": res.Reason}
	if len(res.Requirements) > 0 {
		details["requirements"] = res.Requirements
	}
	if len(res.Warnings) > 0 {
		details["warnings"] = res.Warnings
	}
	return dErrors.New(dErrors.CodeNotEligible, res.Reason).WithDetails(details)
}

func toValidation(err error) error {
	if dErrors.HasCode(err, dErrors.CodeInvariantViolation) {
		return dErrors.New(dErrors.CodeValidation, err.Error())
	}
	return err
}

func (s *Service) incrementStarted(kind id.ApplicationKind) {
	if s.metrics != nil {
		s.metrics.IncrementStarted(string(kind))
	}
}

func (s *Service) incrementEligibilityRejected(kind id.ApplicationKind) {
	if s.metrics != nil {
		s.metrics.IncrementEligibilityRejected(string(kind))
	}
}

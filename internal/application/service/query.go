package service

import (
	"context"

	"agentreg/internal/application/models"
	"agentreg/internal/documents/checklist"
	id "agentreg/pkg/domain"
)

// Requirements is the submission readiness view shown to applicants.
type Requirements struct {
	Documents checklist.Result `json:"documents"`
	FeeStatus models.FeeStatus `json:"fee_status"`
	FeePaid   bool             `json:"fee_satisfied"`
	CanSubmit bool             `json:"can_submit"`
}

func (s *Service) Get(ctx context.Context, appID id.ApplicationID) (*models.Application, error) {
	app, err := s.apps.FindByID(ctx, appID)
	if err != nil {
		return nil, wrapStoreErr(err, "load application")
	}
	return app, nil
}

// Requirements evaluates what still blocks submission without changing
// anything.
func (s *Service) Requirements(ctx context.Context, appID id.ApplicationID) (*Requirements, error) {
	app, err := s.Get(ctx, appID)
	if err != nil {
		return nil, err
	}
	docs, err := s.listDocuments(ctx, app.ID)
	if err != nil {
		return nil, err
	}
	res := evaluateChecklist(app, docs, checklist.PhaseStart)
	paid := feeSatisfied(app.Fee, docs)
	return &Requirements{
		Documents: res,
		FeeStatus: app.Fee.Status,
		FeePaid:   paid,
		CanSubmit: app.Status.AcceptsApplicantChanges() && res.OK && paid,
	}, nil
}

// History returns the status ledger oldest first.
func (s *Service) History(ctx context.Context, appID id.ApplicationID) ([]models.StatusHistory, error) {
	rows, err := s.apps.ListHistory(ctx, appID)
	if err != nil {
		return nil, wrapStoreErr(err, "list history")
	}
	return rows, nil
}

func (s *Service) Decisions(ctx context.Context, appID id.ApplicationID) ([]models.RegistryDecision, error) {
	rows, err := s.apps.ListDecisions(ctx, appID)
	if err != nil {
		return nil, wrapStoreErr(err, "list decisions")
	}
	return rows, nil
}

package service

import (
	"context"

	"agentreg/internal/application/models"
	"agentreg/internal/documents/checklist"
	docmodels "agentreg/internal/documents/models"
	id "agentreg/pkg/domain"
	dErrors "agentreg/pkg/domain-errors"
)

// checkSubmission is the submission guard. Checks run in a fixed order
// (state, fee, documents) and each failure has its own code, so a caller can
// tell "nothing to do" from "pay" from "upload".
func (s *Service) checkSubmission(ctx context.Context, app *models.Application) error {
	if !app.Status.AcceptsApplicantChanges() {
		return dErrors.New(dErrors.CodeInvalidState,
			"application cannot be submitted from status "+app.Status.String())
	}

	docs, err := s.listDocuments(ctx, app.ID)
	if err != nil {
		return err
	}

	if !feeSatisfied(app.Fee, docs) {
		return dErrors.New(dErrors.CodePaymentRequired, "the application fee must be paid or a proof of payment uploaded").
			WithDetails(map[string]any{
				"options":  []string{models.FeeOptionPayOnline, models.FeeOptionUploadProof},
				"amount":   app.Fee.Amount.StringFixed(2),
				"currency": app.Fee.Currency,
			})
	}

	res := evaluateChecklist(app, docs, checklist.PhaseSubmission)
	if !res.OK {
		return dErrors.New(dErrors.CodeMissingDocuments, res.Reason).
			WithDetails(map[string]any{"missing": res.Missing})
	}
	return nil
}

func (s *Service) listDocuments(ctx context.Context, appID id.ApplicationID) ([]*docmodels.Document, error) {
	docs, err := s.documents.ListByApplication(ctx, appID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list documents")
	}
	return docs, nil
}

// feeSatisfied resolves an attached proof of payment against its document.
// A proof staff rejected, or one that no longer exists, does not count.
func feeSatisfied(fee models.Fee, docs []*docmodels.Document) bool {
	if !fee.Satisfied() {
		return false
	}
	if !fee.Required || fee.IsSettled() || fee.ProofDocumentID == nil {
		return true
	}
	for _, d := range docs {
		if d.ID == *fee.ProofDocumentID {
			return d.Status != docmodels.StatusRejected
		}
	}
	return false
}

// evaluateChecklist runs the shared checklist. Rejected documents do not
// count as present.
func evaluateChecklist(app *models.Application, docs []*docmodels.Document, phase checklist.Phase) checklist.Result {
	uploaded := make([]docmodels.DocType, 0, len(docs))
	for _, d := range docs {
		if d.Status != docmodels.StatusRejected {
			uploaded = append(uploaded, d.DocType)
		}
	}
	ctxInfo := checklist.Context{
		MatureEntry:   app.MatureEntry,
		DirectorCount: app.DirectorCount(),
	}
	return checklist.Evaluate(app.Kind, uploaded, ctxInfo, phase)
}

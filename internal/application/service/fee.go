package service

import (
	"context"

	"agentreg/internal/application/models"
	"agentreg/internal/notification"
	id "agentreg/pkg/domain"
	dErrors "agentreg/pkg/domain-errors"
	"agentreg/pkg/requestcontext"
)

// GatewayActor is the audit actor for changes driven by payment callbacks.
const GatewayActor = "payment-gateway"

// RecordPaymentSettled marks the application fee as paid. Callbacks are
// delivered at least once: the write is conditioned on the fee not being
// settled already, so a repeated notification returns changed=false. The
// status is untouched, so settlement goes to the audit log rather than the
// status history.
func (s *Service) RecordPaymentSettled(ctx context.Context, appID id.ApplicationID, reference string) (*models.Application, bool, error) {
	now := requestcontext.Now(ctx)
	var changed bool
	app, err := s.apps.Execute(ctx, appID, func(_ context.Context, app *models.Application) (models.Changes, error) {
		changed = app.Fee.ApplySettled(reference)
		if changed {
			app.UpdatedAt = now
		}
		return models.Changes{}, nil
	})
	if err != nil {
		return nil, false, wrapStoreErr(err, "record payment")
	}
	if !changed {
		s.logAudit(ctx, "payment_settled_duplicate",
			"application_id", app.ID.String(),
			"reference", reference,
		)
		return app, false, nil
	}

	s.logAudit(ctx, "payment_settled",
		"application_id", app.ID.String(),
		"actor", GatewayActor,
		"reference", reference,
		"amount", app.Fee.Amount.StringFixed(2),
		"currency", app.Fee.Currency,
	)
	if s.metrics != nil {
		s.metrics.IncrementPaymentSettled()
	}
	s.notify(ctx, notification.Message{
		Kind:          notification.KindPaymentReceived,
		To:            app.ApplicantEmail,
		Subject:       "Payment received for application " + app.ID.String(),
		Body:          "We received your payment of " + app.Fee.Currency + " " + app.Fee.Amount.StringFixed(2) + ".",
		ApplicationID: app.ID.String(),
	})
	return app, true, nil
}

// RecordPaymentFailed records a failed online payment. It never downgrades a
// settled fee or one backed by an uploaded proof.
func (s *Service) RecordPaymentFailed(ctx context.Context, appID id.ApplicationID, reference string) (*models.Application, error) {
	var changed bool
	app, err := s.apps.Execute(ctx, appID, func(_ context.Context, app *models.Application) (models.Changes, error) {
		changed = app.Fee.ApplyFailed()
		if changed {
			app.UpdatedAt = requestcontext.Now(ctx)
		}
		return models.Changes{}, nil
	})
	if err != nil {
		return nil, wrapStoreErr(err, "record payment failure")
	}
	if changed {
		s.logAudit(ctx, "payment_failed",
			"application_id", app.ID.String(),
			"reference", reference,
		)
	}
	return app, nil
}

// AttachFeeProof links an uploaded proof-of-payment document to the fee.
// An unverified proof is enough to unblock submission.
func (s *Service) AttachFeeProof(ctx context.Context, appID id.ApplicationID, docID id.DocumentID) (*models.Application, error) {
	if docID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "proof document id is required")
	}
	app, err := s.apps.Execute(ctx, appID, func(_ context.Context, app *models.Application) (models.Changes, error) {
		if app.Status.IsTerminal() {
			return models.Changes{}, dErrors.New(dErrors.CodeInvalidState,
				"application is "+app.Status.String()+" and no longer accepts payment proof")
		}
		app.Fee.ApplyProof(docID)
		app.UpdatedAt = requestcontext.Now(ctx)
		return models.Changes{}, nil
	})
	if err != nil {
		return nil, wrapStoreErr(err, "attach fee proof")
	}
	s.logAudit(ctx, "fee_proof_attached",
		"application_id", app.ID.String(),
		"document_id", docID.String(),
		"fee_status", string(app.Fee.Status),
	)
	return app, nil
}

// DetachFeeProof unlinks a proof of payment that staff rejected, so the fee
// blocks submission again until the applicant pays or uploads a new proof.
func (s *Service) DetachFeeProof(ctx context.Context, appID id.ApplicationID, docID id.DocumentID) (*models.Application, error) {
	var changed bool
	app, err := s.apps.Execute(ctx, appID, func(_ context.Context, app *models.Application) (models.Changes, error) {
		changed = app.Fee.DetachProof(docID)
		if changed {
			app.UpdatedAt = requestcontext.Now(ctx)
		}
		return models.Changes{}, nil
	})
	if err != nil {
		return nil, wrapStoreErr(err, "detach fee proof")
	}
	if changed {
		s.logAudit(ctx, "fee_proof_detached",
			"application_id", app.ID.String(),
			"document_id", docID.String(),
			"fee_status", string(app.Fee.Status),
			"actor", requestcontext.Actor(ctx),
		)
	}
	return app, nil
}

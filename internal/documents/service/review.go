package service

import (
	"context"
	"errors"
	"strings"

	"agentreg/internal/documents/models"
	id "agentreg/pkg/domain"
	dErrors "agentreg/pkg/domain-errors"
	"agentreg/pkg/platform/sentinel"
	"agentreg/pkg/requestcontext"
)

// List returns an application's documents oldest first.
func (s *Service) List(ctx context.Context, appID id.ApplicationID) ([]*models.Document, error) {
	if _, err := s.apps.Get(ctx, appID); err != nil {
		return nil, err
	}
	docs, err := s.docs.ListByApplication(ctx, appID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list documents")
	}
	return docs, nil
}

// Verify records a staff review. Rejections need a reason the applicant can
// act on; a rejected document no longer counts towards the checklist, and a
// rejected proof of payment no longer satisfies the fee.
func (s *Service) Verify(ctx context.Context, docID id.DocumentID, status models.Status, reason string) (*models.Document, error) {
	reason = strings.TrimSpace(reason)
	if status == models.StatusRejected && reason == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "a rejection requires a reason")
	}
	actor := requestcontext.Actor(ctx)
	now := requestcontext.Now(ctx)

	doc, err := s.docs.Execute(ctx, docID, func(d *models.Document) error {
		if err := d.CanReview(status); err != nil {
			return err
		}
		d.ApplyReview(status, actor, reason, now)
		return nil
	})
	if err != nil {
		if _, ok := dErrors.As(err); ok {
			return nil, err
		}
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "document not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to review document")
	}
	if doc.Status == models.StatusRejected && doc.DocType == models.DocApplicationFeePOP {
		if _, err := s.apps.DetachFeeProof(ctx, doc.ApplicationID, doc.ID); err != nil {
			return nil, err
		}
	}

	s.logAudit(ctx, "document_reviewed",
		"application_id", doc.ApplicationID.String(),
		"document_id", doc.ID.String(),
		"doc_type", doc.DocType.String(),
		"status", string(doc.Status),
		"actor", actor,
	)
	if s.metrics != nil {
		s.metrics.IncrementReview(string(doc.Status))
	}
	return doc, nil
}
